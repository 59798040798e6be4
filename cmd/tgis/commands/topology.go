package commands

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/grass-svn2git/grass/tgis"
)

var topologyType string

// TopologyCmd represents the topology command
var TopologyCmd = &cobra.Command{
	Use:   "topology DATASET",
	Short: "Report the temporal topology of a dataset",
	Long: `Inspect the members of DATASET and print the temporal type counts,
the number of gaps, the pairwise temporal relation counts and whether
the members form a valid topology (no overlapping or nested extents).

Examples:
  tgis topology temps
  tgis topology events --type vector`,
	Args: cobra.ExactArgs(1),
	RunE: runTopology,
}

func init() {
	TopologyCmd.Flags().StringVar(&topologyType, "type", "raster", "Dataset kind (raster/raster3d/vector)")
}

func runTopology(cmd *cobra.Command, args []string) error {
	reg, database, err := openRegistry()
	if err != nil {
		return err
	}
	defer database.Close()
	ctx := context.Background()

	kind, err := tgis.ParseKind(topologyType)
	if err != nil {
		return err
	}
	name, mapset, _ := tgis.SplitID(args[0])
	if mapset == "" {
		mapset = currentMapset()
	}
	d, err := reg.ReadDataset(ctx, name, mapset, kind)
	if err != nil {
		return err
	}

	maps, err := reg.RegisteredMaps(ctx, d, "", "start_time")
	if err != nil {
		return err
	}
	gaps, err := reg.CountGaps(ctx, d, "")
	if err != nil {
		return err
	}

	points, intervals, invalid := tgis.CountTemporalTypes(maps)
	fmt.Printf("number_of_maps=%d\n", len(maps))
	fmt.Printf("number_of_points=%d\n", points)
	fmt.Printf("number_of_intervals=%d\n", intervals)
	fmt.Printf("number_of_invalid=%d\n", invalid)
	fmt.Printf("number_of_gaps=%d\n", gaps)
	fmt.Printf("valid_topology=%t\n", tgis.CheckTemporalTopology(maps))

	counts := tgis.BuildTopology(maps, nil, false).Counts()
	relations := make([]string, 0, len(counts))
	for r := range counts {
		relations = append(relations, string(r))
	}
	sort.Strings(relations)
	for _, r := range relations {
		fmt.Printf("%s=%d\n", r, counts[tgis.Relation(r)])
	}
	return nil
}
