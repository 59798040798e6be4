package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/grass-svn2git/grass/tgis"
)

var (
	infoType  string
	infoShell bool
)

// InfoCmd represents the info command
var InfoCmd = &cobra.Command{
	Use:   "info DATASET",
	Short: "Show space time dataset metadata",
	Long: `Show the aggregate metadata of a space time dataset: temporal and
spatial extent, granularity, map time classification and member count.

Examples:
  tgis info temps
  tgis info temps --shell    # key=value output for scripting`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	InfoCmd.Flags().StringVar(&infoType, "type", "raster", "Dataset kind (raster/raster3d/vector)")
	InfoCmd.Flags().BoolVar(&infoShell, "shell", false, "Print machine-readable key=value pairs")
}

func runInfo(cmd *cobra.Command, args []string) error {
	reg, database, err := openRegistry()
	if err != nil {
		return err
	}
	defer database.Close()

	kind, err := tgis.ParseKind(infoType)
	if err != nil {
		return err
	}
	name, mapset, _ := tgis.SplitID(args[0])
	if mapset == "" {
		mapset = currentMapset()
	}
	d, err := reg.ReadDataset(context.Background(), name, mapset, kind)
	if err != nil {
		return err
	}

	granularity := "none"
	if d.Granularity != nil {
		granularity = d.Granularity.String()
	}

	pairs := [][2]string{
		{"id", d.ID()},
		{"name", d.Name},
		{"mapset", d.Mapset},
		{"type", string(d.Kind)},
		{"temporal_type", string(d.TemporalType)},
		{"semantic_type", d.SemanticType},
		{"title", d.Title},
		{"description", d.Description},
		{"start_time", d.Extent.StartString()},
		{"end_time", d.Extent.EndString()},
		{"granularity", granularity},
		{"map_time", string(d.MapTime)},
		{"number_of_maps", fmt.Sprintf("%d", d.MapCount)},
		{"north", fmt.Sprintf("%g", d.Spatial.North)},
		{"south", fmt.Sprintf("%g", d.Spatial.South)},
		{"east", fmt.Sprintf("%g", d.Spatial.East)},
		{"west", fmt.Sprintf("%g", d.Spatial.West)},
	}
	if d.TemporalType == tgis.Relative {
		pairs = append(pairs, [2]string{"unit", string(d.Unit)})
	}

	if infoShell {
		for _, p := range pairs {
			fmt.Printf("%s=%s\n", p[0], p[1])
		}
		return nil
	}

	var b strings.Builder
	for _, p := range pairs {
		fmt.Fprintf(&b, "%-16s %s\n", p[0], p[1])
	}
	pterm.DefaultBox.
		WithTitle(fmt.Sprintf("Space time %s dataset", d.Kind)).
		Println(strings.TrimRight(b.String(), "\n"))
	return nil
}
