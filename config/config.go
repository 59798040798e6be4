// Package config holds process configuration for the temporal GIS
// framework: the path of the SQLite temporal database, the current
// mapset, and execution options. Engine entry points take an explicit
// *Config instead of reading process-wide state.
package config

// Config represents the temporal framework configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Location LocationConfig `mapstructure:"location"`
	Compute  ComputeConfig  `mapstructure:"compute"`
	Log      LogConfig      `mapstructure:"log"`
}

// DatabaseConfig configures the SQLite temporal database
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LocationConfig identifies the spatial data store context. Mapset
// ownership rules use CurrentMapset: only maps of the current mapset
// may be registered into datasets of the current mapset.
type LocationConfig struct {
	Path          string `mapstructure:"path"`           // root of the native spatial data store
	CurrentMapset string `mapstructure:"current_mapset"` // e.g. "PERMANENT"
}

// ComputeConfig configures external raster-calculator execution
type ComputeConfig struct {
	Workers            int    `mapstructure:"workers"`             // concurrent mapcalc processes (default: 1)
	MapcalcBinary      string `mapstructure:"mapcalc_binary"`      // external raster calculator (default: r.mapcalc)
	JobsPerSecond      int    `mapstructure:"jobs_per_second"`     // submission rate limit (default: 10)
	OverwriteDefault   bool   `mapstructure:"overwrite_default"`   // default for --overwrite
	RegisterNullMaps   bool   `mapstructure:"register_null_maps"`  // register empty algebra results
	RemoveIntermediate bool   `mapstructure:"remove_intermediate"` // delete intermediate maps after algebra runs
}

// LogConfig configures log output
type LogConfig struct {
	JSON bool `mapstructure:"json"`
}
