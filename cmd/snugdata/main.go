// Command snugdata is the offline cleanup pass over a raw pub dataset: it
// standardizes free-form ownership labels onto master operator names and
// folds areas with too few pubs into a nearby larger area. The stub's
// embedded fixture is an output of this tool.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"snug/internal/geo"
	"snug/internal/jsonutil"
)

// record is one raw dataset row. User flags are not part of the dataset;
// the backend joins those in per caller.
type record struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Area        string  `json:"area"`
	Borough     string  `json:"borough"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Ownership   string  `json:"ownership"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
}

// config holds the parsed CLI configuration for a cleanup run.
type config struct {
	in         string
	out        string
	minPubs    int
	maxMergeKM float64
	dryRun     bool
}

func parseFlags() config {
	var cfg config

	flag.StringVar(&cfg.in, "in", "", "path to the raw pub dataset JSON (required)")
	flag.StringVar(&cfg.out, "out", "", "path to write the cleaned dataset (default stdout)")
	flag.IntVar(&cfg.minPubs, "min-area-pubs", 3, "areas with fewer pubs are merged into a neighbour")
	flag.Float64Var(&cfg.maxMergeKM, "max-merge-km", 0, "skip merges whose nearest neighbour pub is further than this; 0 disables the cap")
	flag.BoolVar(&cfg.dryRun, "dry-run", false, "report planned changes without writing the dataset")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: snugdata -in pubs.json [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Cleans a raw pub dataset: ownership label standardization and\n")
		fmt.Fprintf(os.Stderr, "small-area merging, the same rules the hosted data pipeline runs.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if cfg.in == "" {
		fmt.Fprintln(os.Stderr, "error: -in is required")
		flag.Usage()
		os.Exit(1)
	}

	return cfg
}

func run(cfg config) error {
	data, err := os.ReadFile(cfg.in)
	if err != nil {
		return fmt.Errorf("read dataset: %w", err)
	}
	records, err := jsonutil.UnmarshalArray[record](data, "decode dataset")
	if err != nil {
		return err
	}

	owners := 0
	for i := range records {
		r := &records[i]
		r.Name = strings.TrimSpace(r.Name)
		r.Area = strings.TrimSpace(r.Area)
		r.Borough = strings.TrimSpace(r.Borough)
		if std := geo.StandardizeOwnership(r.Ownership); std != r.Ownership {
			r.Ownership = std
			owners++
		}
	}

	// Rows without coordinates sit out the merge vote.
	areaPubs := make([]geo.AreaPub, 0, len(records))
	for _, r := range records {
		if r.Lat == 0 || r.Lon == 0 {
			continue
		}
		areaPubs = append(areaPubs, geo.AreaPub{Area: r.Area, At: geo.Point{Lat: r.Lat, Lon: r.Lon}})
	}
	renames := geo.MergeSmallAreas(areaPubs, cfg.minPubs, cfg.maxMergeKM)

	// Moved pubs take the target area's dominant borough so a merged area
	// is not split across boroughs.
	boroughs := make(map[string]string)
	for _, to := range renames {
		if _, ok := boroughs[to]; !ok {
			boroughs[to] = dominantBorough(records, to)
		}
	}
	merged := 0
	for i := range records {
		target, ok := renames[records[i].Area]
		if !ok {
			continue
		}
		records[i].Area = target
		if b := boroughs[target]; b != "" {
			records[i].Borough = b
		}
		merged++
	}

	froms := make([]string, 0, len(renames))
	for from := range renames {
		froms = append(froms, from)
	}
	sort.Strings(froms)
	for _, from := range froms {
		slog.Info("merged area", "from", from, "into", renames[from])
	}

	if cfg.dryRun {
		slog.Info("dry run, dataset not written",
			"pubs", len(records),
			"ownership_fixed", owners,
			"areas_merged", len(renames),
			"pubs_moved", merged,
		)
		return nil
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })

	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	out = append(out, '\n')

	if cfg.out == "" {
		_, err = os.Stdout.Write(out)
	} else {
		err = os.WriteFile(cfg.out, out, 0o644)
	}
	if err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}

	slog.Info("dataset cleaned",
		"pubs", len(records),
		"ownership_fixed", owners,
		"areas_merged", len(renames),
		"pubs_moved", merged,
	)
	return nil
}

// dominantBorough returns the most common borough among the pubs already in
// area, breaking ties by name. Empty when the area carries no borough data.
func dominantBorough(records []record, area string) string {
	counts := make(map[string]int)
	for _, r := range records {
		if r.Area == area && r.Borough != "" {
			counts[r.Borough]++
		}
	}
	best, bestN := "", 0
	for b, n := range counts {
		if n > bestN || (n == bestN && b < best) {
			best, bestN = b, n
		}
	}
	return best
}

func main() {
	cfg := parseFlags()
	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "snugdata: %v\n", err)
		os.Exit(1)
	}
}
