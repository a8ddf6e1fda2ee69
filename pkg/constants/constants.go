// Package constants provides shared constants for the deal-settlement application.
package constants

// DateTimeLayout is the format expected for dates in config and deal files and
// is also the output date format.
const DateTimeLayout = "2006-01-02"

// Financial constants
const (
	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the default tolerance for payment balancing (1 cent)
	CurrencyTolerance = 0.01

	// DefaultRoundingPrecision is the default currency rounding precision
	// (2 decimal places, half-up)
	DefaultRoundingPrecision = 2
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size for
	// submitted deal documents (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024
)
