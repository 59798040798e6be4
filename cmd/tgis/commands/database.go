package commands

import (
	"database/sql"

	"github.com/grass-svn2git/grass/config"
	"github.com/grass-svn2git/grass/db"
	"github.com/grass-svn2git/grass/errors"
	"github.com/grass-svn2git/grass/logger"
	"github.com/grass-svn2git/grass/tgis"
)

// openDatabase opens and migrates the temporal database. If dbPath is
// empty the configured path is used.
func openDatabase(dbPath string) (*sql.DB, error) {
	if dbPath == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, errors.Wrap(err, "failed to load configuration")
		}
		dbPath = cfg.Database.Path
		if dbPath == "" {
			dbPath = "tgis.db"
		}
	}

	database, err := db.Open(dbPath, logger.Logger)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database at %s", dbPath)
	}
	if err := db.Migrate(database, logger.Logger); err != nil {
		database.Close()
		return nil, errors.Wrapf(err, "failed to run migrations on %s", dbPath)
	}
	return database, nil
}

// currentMapset returns the configured mapset, defaulting to PERMANENT.
func currentMapset() string {
	cfg, err := config.Load()
	if err != nil || cfg.Location.CurrentMapset == "" {
		return "PERMANENT"
	}
	return cfg.Location.CurrentMapset
}

// openRegistry is the common preamble of dataset commands.
func openRegistry() (*tgis.Registry, *sql.DB, error) {
	database, err := openDatabase("")
	if err != nil {
		return nil, nil, err
	}
	return tgis.NewRegistry(database, logger.Logger), database, nil
}
