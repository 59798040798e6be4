package config

import (
	"github.com/spf13/viper"
)

// DefaultDirPermissions is the mode used when creating config directories
const DefaultDirPermissions = 0750

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.path", "tgis.db")

	// Location defaults
	v.SetDefault("location.path", ".")
	v.SetDefault("location.current_mapset", "PERMANENT")

	// Compute defaults
	v.SetDefault("compute.workers", 1)
	v.SetDefault("compute.mapcalc_binary", "r.mapcalc")
	v.SetDefault("compute.jobs_per_second", 10)
	v.SetDefault("compute.overwrite_default", false)
	v.SetDefault("compute.register_null_maps", false)
	v.SetDefault("compute.remove_intermediate", true)

	// Log defaults
	v.SetDefault("log.json", false)
}
