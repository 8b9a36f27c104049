package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/twpayne/go-polyline"
)

func routeCmd(opts *globalOptions) *cobra.Command {
	var (
		dataPath string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "route FROM_ID TO_ID",
		Short: "Compute one walking route and print it",
		Example: `  campus_router route --data campus.geojson way/101 way/202
  campus_router route --format geojson way/101 way/202 > route.geojson`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cmd.Flags().Changed("data") {
				cfg.Data.Path = dataPath
			}

			e, _, err := loadEngine(cfg.Data.Path)
			if err != nil {
				return err
			}

			r, err := e.Route(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "geojson":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(r.Feature())
			case "polyline":
				coords := make([][]float64, len(r.Coordinates))
				for i, p := range r.Coordinates {
					coords[i] = []float64{p.Lat(), p.Lon()}
				}
				_, err := fmt.Fprintln(out, string(polyline.EncodeCoords(coords)))
				return err
			case "text":
				fmt.Fprintf(out, "%s -> %s: %.1f m\n", r.From, r.To, r.DistanceMeters)
				for _, p := range r.Coordinates {
					fmt.Fprintf(out, "  %.7f,%.7f\n", p.Lat(), p.Lon())
				}
				return nil
			default:
				return fmt.Errorf("unknown format %q (want text, geojson or polyline)", format)
			}
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "campus.geojson", "Campus GeoJSON FeatureCollection")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, geojson, polyline)")

	return cmd
}
