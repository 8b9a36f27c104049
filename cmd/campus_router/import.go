package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/spf13/cobra"

	"campus_router/pkg/campus"
)

func importCmd(opts *globalOptions) *cobra.Command {
	var (
		output string
		bbox   string
	)

	cmd := &cobra.Command{
		Use:   "import INPUT",
		Short: "Convert an OSM extract (.osm or .osm.pbf) into campus GeoJSON",
		Long: `Convert an OpenStreetMap extract into the campus FeatureCollection.
Walkable highways become path LineStrings; buildings and other areas keep
their tags as properties, with "@id" set to the OSM id (e.g. "way/123").`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger := newLogger(cmd.ErrOrStderr(), cfg.Log)

			var bound *orb.Bound
			if bbox != "" {
				b, err := parseBBox(bbox)
				if err != nil {
					return err
				}
				bound = &b
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			defer f.Close()

			var (
				fc    *geojson.FeatureCollection
				stats campus.ImportStats
			)
			if strings.HasSuffix(strings.ToLower(args[0]), ".pbf") {
				fc, stats, err = campus.ImportOSMPBF(cmd.Context(), f)
			} else {
				fc, stats, err = campus.ImportOSMXML(f)
			}
			if err != nil {
				return err
			}
			logger.Info("Imported OSM data",
				"input", args[0],
				"paths", stats.Paths,
				"areas", stats.Areas,
				"points", stats.Points,
				"skipped", stats.Skipped)

			if bound != nil {
				before := len(fc.Features)
				fc = campus.Clip(fc, *bound)
				logger.Info("Clipped to bounding box", "kept", len(fc.Features), "dropped", before-len(fc.Features))
			}

			if output == "" || output == "-" {
				return campus.Write(cmd.OutOrStdout(), fc)
			}
			of, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			if err := campus.Write(of, fc); err != nil {
				of.Close()
				return err
			}
			return of.Close()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&bbox, "bbox", "", "Keep features inside minLat,minLng,maxLat,maxLng")

	return cmd
}

// parseBBox reads "minLat,minLng,maxLat,maxLng".
func parseBBox(s string) (orb.Bound, error) {
	var minLat, minLng, maxLat, maxLng float64
	if _, err := fmt.Sscanf(s, "%f,%f,%f,%f", &minLat, &minLng, &maxLat, &maxLng); err != nil {
		return orb.Bound{}, fmt.Errorf("invalid bbox %q (expected minLat,minLng,maxLat,maxLng): %w", s, err)
	}
	if minLat > maxLat || minLng > maxLng {
		return orb.Bound{}, fmt.Errorf("invalid bbox %q: min exceeds max", s)
	}
	return orb.Bound{Min: orb.Point{minLng, minLat}, Max: orb.Point{maxLng, maxLat}}, nil
}
