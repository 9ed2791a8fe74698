// Package config provides configuration management for minibot.
package config

// Default configuration values for minibot.
const (
	// DefaultTopN is the number of files shown in the results table.
	DefaultTopN = 20

	// DefaultPath is the default path offered at the scan prompt.
	DefaultPath = "."

	// DefaultPrimaryColor is the colour used for the table and progress bar.
	DefaultPrimaryColor = "green"

	// DefaultExportFilename is the file written by the export prompt.
	DefaultExportFilename = "largest_files.csv"

	// DefaultRetentionDays is the default number of days to retain deletion history.
	DefaultRetentionDays = 30

	// DefaultWorkers means "size the pool from the machine".
	DefaultWorkers = 0

	// LegacyConfigFile is read from the working directory when no other
	// config file is found.
	LegacyConfigFile = "config.json"

	// EnvPrefix prefixes environment overrides, e.g. MINIBOT_TOP_N.
	EnvPrefix = "MINIBOT"

	appName = "minibot"
)

// DefaultExclusions contains paths that are never enumerated.
var DefaultExclusions = []string{
	"/proc",
	"/sys",
	"/dev",
}

// DefaultComponentLevels are the per-component log levels written by WriteDefault.
var DefaultComponentLevels = map[string]string{
	"scanner": "info",
	"deleter": "info",
	"session": "info",
	"tui":     "info",
}
