package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grass-svn2git/grass/tgis"
)

var (
	unregisterMaps string
	unregisterType string
)

// UnregisterCmd represents the unregister command
var UnregisterCmd = &cobra.Command{
	Use:   "unregister DATASET",
	Short: "Remove maps from a space time dataset",
	Long: `Remove maps from a space time dataset. The maps themselves stay in
the temporal database. Unregistering a map that is not a member is a
warning, not an error.

Examples:
  tgis unregister temps --maps jan,feb`,
	Args: cobra.ExactArgs(1),
	RunE: runUnregister,
}

func init() {
	UnregisterCmd.Flags().StringVar(&unregisterMaps, "maps", "", "Comma-separated map names (required)")
	UnregisterCmd.Flags().StringVar(&unregisterType, "type", "raster", "Dataset kind (raster/raster3d/vector)")
	UnregisterCmd.MarkFlagRequired("maps")
}

func runUnregister(cmd *cobra.Command, args []string) error {
	reg, database, err := openRegistry()
	if err != nil {
		return err
	}
	defer database.Close()
	ctx := context.Background()

	kind, err := tgis.ParseKind(unregisterType)
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

	names := strings.Split(unregisterMaps, ",")
	for _, mapName := range names {
		mname, mmapset, layer := tgis.SplitID(strings.TrimSpace(mapName))
		if mmapset == "" {
			mmapset = mapset
		}
		m, err := reg.ReadMap(ctx, tgis.MapID(mname, mmapset, layer), d.Kind)
		if err != nil {
			return err
		}
		if err := reg.UnregisterMap(ctx, d, m); err != nil {
			return err
		}
	}

	if err := reg.UpdateFromRegisteredMaps(ctx, d); err != nil {
		return err
	}
	fmt.Printf("Unregistered %d maps from <%s>\n", len(names), d.ID())
	return nil
}
