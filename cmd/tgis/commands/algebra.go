package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grass-svn2git/grass/algebra"
	"github.com/grass-svn2git/grass/config"
	"github.com/grass-svn2git/grass/logger"
	"github.com/grass-svn2git/grass/mapcalc"
	"github.com/grass-svn2git/grass/tgis"
)

var (
	algebraType         string
	algebraBasename     string
	algebraOverwrite    bool
	algebraSpatial      bool
	algebraRegisterNull bool
)

// AlgebraCmd represents the algebra command
var AlgebraCmd = &cobra.Command{
	Use:   "algebra EXPRESSION",
	Short: "Run a temporal algebra expression",
	Long: `Evaluate a temporal algebra expression of the form
"result = expression" and register the computed maps as a new space
time dataset.

Binary operators pair the operand maps by temporal relation; the braced
form {op,relations,mode} selects the relations and the extent mode
(l/r/u/i/d). if(condition, then, else) lowers to calculator
conditionals.

Examples:
  tgis algebra "warm = temps {+,equal,i} anomalies"
  tgis algebra "c = if(temps > 273, 1, 0)" --basename warm --overwrite`,
	Args: cobra.ExactArgs(1),
	RunE: runAlgebra,
}

func init() {
	AlgebraCmd.Flags().StringVar(&algebraType, "type", "raster", "Dataset kind (raster/raster3d)")
	AlgebraCmd.Flags().StringVar(&algebraBasename, "basename", "", "Basename for the result maps")
	AlgebraCmd.Flags().BoolVar(&algebraOverwrite, "overwrite", false, "Replace existing result maps and dataset")
	AlgebraCmd.Flags().BoolVar(&algebraSpatial, "spatial", false, "Only pair spatially overlapping maps")
	AlgebraCmd.Flags().BoolVar(&algebraRegisterNull, "register-null", false, "Register empty result maps")
}

func runAlgebra(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	reg, database, err := openRegistry()
	if err != nil {
		return err
	}
	defer database.Close()

	kind, err := tgis.ParseKind(algebraType)
	if err != nil {
		return err
	}

	exec := mapcalc.NewProcessExecutor(cfg.Compute.MapcalcBinary,
		algebraOverwrite || cfg.Compute.OverwriteDefault, logger.Logger)
	pool := mapcalc.NewPool(exec, cfg.Compute.Workers, cfg.Compute.JobsPerSecond, logger.Logger)
	runner := algebra.NewRunner(reg, pool, logger.Logger)

	d, err := runner.Run(context.Background(), args[0], algebra.Options{
		Basename:     algebraBasename,
		Kind:         kind,
		Mapset:       currentMapset(),
		Spatial:      algebraSpatial,
		Overwrite:    algebraOverwrite || cfg.Compute.OverwriteDefault,
		RegisterNull: algebraRegisterNull || cfg.Compute.RegisterNullMaps,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Created space time %s dataset <%s> with %d maps\n", kind, d.ID(), d.MapCount)
	return nil
}
