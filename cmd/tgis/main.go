package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/grass-svn2git/grass/cmd/tgis/commands"
	"github.com/grass-svn2git/grass/config"
	"github.com/grass-svn2git/grass/logger"
)

var rootCmd = &cobra.Command{
	Use:   "tgis",
	Short: "tgis - Temporal GIS framework",
	Long: `tgis - Space time dataset management over a SQL temporal database.

tgis manages named collections of time-stamped raster, 3D raster and
vector maps: registration, temporal topology, granularity, sampling and
temporal algebra.

Available commands:
  create     - Create a new space time dataset
  register   - Register maps in a space time dataset
  unregister - Remove maps from a space time dataset
  remove     - Remove space time datasets
  info       - Show dataset or map metadata
  list       - List space time datasets
  sample     - Sample a dataset against another dataset
  topology   - Report the temporal topology of a dataset
  algebra    - Run a temporal algebra expression
  db         - Manage the temporal database

Examples:
  tgis create temps --temporaltype absolute --title "Temperatures"
  tgis register temps --maps jan,feb,mar --start 2001-01-01 --increment "1 months" --interval
  tgis info temps
  tgis algebra "warm = temps {+,equal,i} anomalies" --basename warm`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		level := zapcore.InfoLevel
		if verbosity > 0 {
			level = zapcore.DebugLevel
		}
		jsonOutput := false
		if cfg, err := config.Load(); err == nil {
			jsonOutput = cfg.Log.JSON
		}
		if err := logger.InitializeWithLevel(jsonOutput, level); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity")

	rootCmd.AddCommand(commands.CreateCmd)
	rootCmd.AddCommand(commands.RegisterCmd)
	rootCmd.AddCommand(commands.UnregisterCmd)
	rootCmd.AddCommand(commands.RemoveCmd)
	rootCmd.AddCommand(commands.InfoCmd)
	rootCmd.AddCommand(commands.ListCmd)
	rootCmd.AddCommand(commands.SampleCmd)
	rootCmd.AddCommand(commands.TopologyCmd)
	rootCmd.AddCommand(commands.AlgebraCmd)
	rootCmd.AddCommand(commands.DbCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
