package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func statsCmd(opts *globalOptions) *cobra.Command {
	var (
		dataPath  string
		locations bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize campus data and its path graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cmd.Flags().Changed("data") {
				cfg.Data.Path = dataPath
			}

			e, took, err := loadEngine(cfg.Data.Path)
			if err != nil {
				return err
			}
			s := e.Stats()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "features\t%d\n", s.Features)
			fmt.Fprintf(tw, "path features\t%d\n", s.PathFeatures)
			fmt.Fprintf(tw, "locations\t%d\n", s.Locations)
			fmt.Fprintf(tw, "nodes\t%d\n", s.Nodes)
			fmt.Fprintf(tw, "edges\t%d\n", s.Edges)
			fmt.Fprintf(tw, "components\t%d\n", s.Components)
			if s.Nodes > 0 {
				fmt.Fprintf(tw, "largest component\t%d (%.1f%%)\n", s.LargestComponent, float64(s.LargestComponent)/float64(s.Nodes)*100)
			}
			fmt.Fprintf(tw, "build time\t%s\n", took.Round(time.Microsecond))

			if locations {
				fmt.Fprintln(tw)
				fmt.Fprintln(tw, "ID\tNAME\tKIND\tLEVELS")
				for _, loc := range e.Locations() {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", loc.ID, loc.Name, loc.Kind, loc.Levels)
				}
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "campus.geojson", "Campus GeoJSON FeatureCollection")
	cmd.Flags().BoolVar(&locations, "locations", false, "Also list selectable locations")

	return cmd
}
