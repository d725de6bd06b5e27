// Command gendetections writes a synthetic FIRMS-style CSV for tests and
// demos: a handful of persistent combustion sites that re-appear across
// years, plus uniform background noise. Output is deterministic for a fixed
// seed.
//
// Usage:
//
//	go run ./cmd/gendetections -out testdata/detections.csv \
//	  -years 2010,2011,2012 -sites 4 -per-site 40 -noise 60 -seed 7
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"strings"
)

var header = []string{
	"latitude", "longitude", "brightness", "scan", "track",
	"acq_date", "acq_time", "satellite", "instrument", "confidence",
	"version", "frp", "daynight",
}

// site centers sit inside UTM zone 14N so the generated file works with the
// documented TARGET_CRS example.
type site struct {
	lat, lon float64
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output CSV path")
	years := flag.String("years", "2010,2011", "comma-separated acquisition years")
	sites := flag.Int("sites", 4, "number of persistent combustion sites")
	perSite := flag.Int("per-site", 40, "detections per site per year")
	noise := flag.Int("noise", 60, "background noise detections per year")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	yearList, err := parseYears(*years)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(*seed))

	centers := make([]site, *sites)
	for i := range centers {
		centers[i] = site{
			lat: 28 + rng.Float64()*8,         // 28N..36N
			lon: -102 + rng.Float64()*6,       // inside zone 14N
		}
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	w := csv.NewWriter(f)

	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}

	rows := 0
	for _, year := range yearList {
		for _, c := range centers {
			for i := 0; i < *perSite; i++ {
				// ~1km jitter around the site center.
				lat := c.lat + rng.NormFloat64()*0.005
				lon := c.lon + rng.NormFloat64()*0.005
				if err := w.Write(row(rng, lat, lon, year)); err != nil {
					f.Close()
					return err
				}
				rows++
			}
		}
		for i := 0; i < *noise; i++ {
			lat := 26 + rng.Float64()*12
			lon := -104 + rng.Float64()*10
			if err := w.Write(row(rng, lat, lon, year)); err != nil {
				f.Close()
				return err
			}
			rows++
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	log.Printf("wrote %d detections for %d years to %s", rows, len(yearList), *out)
	return nil
}

func row(rng *rand.Rand, lat, lon float64, year int) []string {
	month := 1 + rng.Intn(12)
	day := 1 + rng.Intn(28)
	return []string{
		strconv.FormatFloat(lat, 'f', 5, 64),
		strconv.FormatFloat(lon, 'f', 5, 64),
		strconv.FormatFloat(300+rng.Float64()*80, 'f', 1, 64), // brightness K
		"1.0", "1.0",
		fmt.Sprintf("%04d-%02d-%02d", year, month, day),
		fmt.Sprintf("%02d%02d", rng.Intn(24), rng.Intn(60)),
		"Terra",
		"MODIS",
		strconv.Itoa(rng.Intn(101)),
		"6.1",
		strconv.FormatFloat(rng.Float64()*50, 'f', 1, 64), // frp MW
		[]string{"D", "N"}[rng.Intn(2)],
	}
}

func parseYears(s string) ([]int, error) {
	var years []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		y, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", part)
		}
		years = append(years, y)
	}
	if len(years) == 0 {
		return nil, fmt.Errorf("no years given")
	}
	return years, nil
}
