package commands

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grass-svn2git/grass/config"
	"github.com/grass-svn2git/grass/errors"
)

// DbCmd represents the db (database) command
var DbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the temporal database",
	Long: `Manage temporal database operations.

Examples:
  tgis db stats     # Show temporal database statistics
  tgis db migrate   # Apply pending schema migrations`,
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show temporal database statistics",
	RunE:  runDbStats,
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDatabase("")
		if err != nil {
			return err
		}
		defer database.Close()
		fmt.Println("Database schema is up to date")
		return nil
	},
}

func init() {
	DbCmd.AddCommand(dbStatsCmd)
	DbCmd.AddCommand(dbMigrateCmd)
}

func runDbStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	database, err := openDatabase("")
	if err != nil {
		return err
	}
	defer database.Close()

	fmt.Println("Temporal Database Statistics")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("Database Path: %s\n\n", cfg.Database.Path)

	for _, table := range []string{"maps", "datasets"} {
		rows, err := database.Query(
			"SELECT kind, COUNT(*) FROM " + table + " GROUP BY kind ORDER BY kind")
		if err != nil {
			return errors.Wrapf(err, "failed to query %s statistics", table)
		}
		total := 0
		counts := make([][2]string, 0, 3)
		for rows.Next() {
			var kind sql.NullString
			var n int
			if err := rows.Scan(&kind, &n); err != nil {
				rows.Close()
				return err
			}
			counts = append(counts, [2]string{kind.String, fmt.Sprintf("%d", n)})
			total += n
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		fmt.Printf("%s: %d\n", table, total)
		for _, c := range counts {
			fmt.Printf("  %-10s %s\n", c[0], c[1])
		}
		fmt.Println()
	}
	return nil
}
