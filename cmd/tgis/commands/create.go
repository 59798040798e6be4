package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grass-svn2git/grass/errors"
	"github.com/grass-svn2git/grass/tgis"
)

var (
	createType         string
	createTemporalType string
	createSemanticType string
	createTitle        string
	createDescription  string
	createOverwrite    bool
)

// CreateCmd represents the create command
var CreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a new space time dataset",
	Long: `Create a new, empty space time dataset in the temporal database.

Examples:
  tgis create temps --temporaltype absolute --title "Monthly temperatures"
  tgis create counts --type vector --temporaltype relative`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	CreateCmd.Flags().StringVar(&createType, "type", "raster", "Dataset kind (raster/raster3d/vector)")
	CreateCmd.Flags().StringVar(&createTemporalType, "temporaltype", "absolute", "Temporal type (absolute/relative)")
	CreateCmd.Flags().StringVar(&createSemanticType, "semantictype", tgis.SemanticMean, "Semantic type (event/const/continuous/mean)")
	CreateCmd.Flags().StringVar(&createTitle, "title", "", "Dataset title")
	CreateCmd.Flags().StringVar(&createDescription, "description", "", "Dataset description")
	CreateCmd.Flags().BoolVar(&createOverwrite, "overwrite", false, "Replace an existing dataset of the same name")
}

func runCreate(cmd *cobra.Command, args []string) error {
	kind, err := tgis.ParseKind(createType)
	if err != nil {
		return err
	}
	temporalType := tgis.TemporalType(createTemporalType)
	if !temporalType.Valid() {
		return errors.Newf("unknown temporal type %q", createTemporalType)
	}

	reg, database, err := openRegistry()
	if err != nil {
		return err
	}
	defer database.Close()

	name, mapset, _ := tgis.SplitID(args[0])
	if mapset == "" {
		mapset = currentMapset()
	}

	d := tgis.NewDataset(name, mapset, kind, temporalType)
	d.SemanticType = createSemanticType
	d.Title = createTitle
	d.Description = createDescription

	if err := reg.CreateDataset(context.Background(), d, createOverwrite); err != nil {
		return err
	}
	fmt.Printf("Created space time %s dataset <%s>\n", kind, d.ID())
	return nil
}
