package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/fire-cluster-etl/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	det := domain.Detection{
		ID:          "modis-1a2b3c4d",
		Lon:         -98.123,
		Lat:         31.456,
		AcqDate:     "2012-08-15",
		Instrument:  "MODIS",
		Year:        "2012",
		ClusterID:   3,
		Membership:  0.75,
		ProcessedAt: time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
	}

	msg, err := serializeToMessage(det)
	require.NoError(t, err)

	assert.Equal(t, []byte("modis-1a2b3c4d"), msg.Key)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, float64(3), decoded["cluster_id"])
	assert.Equal(t, 0.75, decoded["membership_probability"])
	assert.Equal(t, "2012-08-15", decoded["acq_date"])

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "MODIS", headers["instrument"])
	assert.Equal(t, "2012", headers["acq_year"])
	assert.Equal(t, "2026-08-31T12:00:00Z", headers["processed_at"])
}
