package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grass-svn2git/grass/tgis"
)

var (
	listType   string
	listMapset string
)

// ListCmd represents the list command
var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List space time datasets",
	Long: `List the space time datasets of one kind, with their temporal extent
and member count.

Examples:
  tgis list
  tgis list --type vector --mapset climate`,
	RunE: runList,
}

func init() {
	ListCmd.Flags().StringVar(&listType, "type", "raster", "Dataset kind (raster/raster3d/vector)")
	ListCmd.Flags().StringVar(&listMapset, "mapset", "", "Restrict to one mapset")
}

func runList(cmd *cobra.Command, args []string) error {
	reg, database, err := openRegistry()
	if err != nil {
		return err
	}
	defer database.Close()

	kind, err := tgis.ParseKind(listType)
	if err != nil {
		return err
	}
	datasets, err := reg.ListDatasets(context.Background(), kind, listMapset)
	if err != nil {
		return err
	}
	if len(datasets) == 0 {
		fmt.Printf("No space time %s datasets found\n", kind)
		return nil
	}

	fmt.Printf("%-30s %-10s %-20s %-20s %5s\n", "id", "time", "start", "end", "maps")
	for _, d := range datasets {
		fmt.Printf("%-30s %-10s %-20s %-20s %5d\n",
			d.ID(), d.TemporalType, d.Extent.StartString(), d.Extent.EndString(), d.MapCount)
	}
	return nil
}
