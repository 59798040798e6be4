package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grass-svn2git/grass/tgis"
)

var (
	removeType      string
	removeRecursive bool
)

// RemoveCmd represents the remove command
var RemoveCmd = &cobra.Command{
	Use:   "remove DATASET...",
	Short: "Remove space time datasets",
	Long: `Remove space time datasets from the temporal database. Member maps
stay registered in the temporal database unless --recursive is given,
in which case they are removed as well.

Examples:
  tgis remove temps
  tgis remove temps_tmp --recursive`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRemove,
}

func init() {
	RemoveCmd.Flags().StringVar(&removeType, "type", "raster", "Dataset kind (raster/raster3d/vector)")
	RemoveCmd.Flags().BoolVarP(&removeRecursive, "recursive", "r", false, "Also remove the member maps")
}

func runRemove(cmd *cobra.Command, args []string) error {
	reg, database, err := openRegistry()
	if err != nil {
		return err
	}
	defer database.Close()
	ctx := context.Background()

	kind, err := tgis.ParseKind(removeType)
	if err != nil {
		return err
	}

	for _, arg := range args {
		name, mapset, _ := tgis.SplitID(arg)
		if mapset == "" {
			mapset = currentMapset()
		}
		d, err := reg.ReadDataset(ctx, name, mapset, kind)
		if err != nil {
			return err
		}

		var members []*tgis.Map
		if removeRecursive {
			if members, err = reg.RegisteredMaps(ctx, d, "", "start_time"); err != nil {
				return err
			}
		}
		if err := reg.DeleteDataset(ctx, d); err != nil {
			return err
		}
		for _, m := range members {
			if err := reg.RemoveMap(ctx, m); err != nil {
				return err
			}
		}
		fmt.Printf("Removed space time %s dataset <%s>\n", kind, d.ID())
	}
	return nil
}
