// Package config defines the data structures related to configuration and
// deal files and includes functions for loading and parsing them.
package config

import (
	"fmt"

	"github.com/iwvelando/deal-settlement/pkg/constants"
	"github.com/spf13/viper"
)

// DateTimeLayout is the format expected in config and deal files and is also
// the output date format.
const DateTimeLayout = constants.DateTimeLayout

// Configuration holds all configuration for deal-settlement.
type Configuration struct {
	Engine  EngineConfig  `yaml:"engine"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty"`
}

// EngineConfig holds the injected business policy for the settlement engine.
// These are tenant policies, not engine constants.
type EngineConfig struct {
	// HoldingCostDailyRate is the holding cost percentage of total investment
	// accrued per day in stock; zero disables holding cost.
	HoldingCostDailyRate float64 `yaml:"holdingCostDailyRate"`

	// PaymentEpsilon is the payment balancing tolerance (default 0.01).
	PaymentEpsilon float64 `yaml:"paymentEpsilon"`

	// RoundingPrecision is the currency rounding precision in decimal places
	// (default 2).
	RoundingPrecision int32 `yaml:"roundingPrecision"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.applyDefaults()
	return &configuration, nil
}

// applyDefaults fills policy values the config file left unset.
func (c *Configuration) applyDefaults() {
	if c.Engine.PaymentEpsilon <= 0 {
		c.Engine.PaymentEpsilon = constants.CurrencyTolerance
	}
	if c.Engine.RoundingPrecision <= 0 {
		c.Engine.RoundingPrecision = constants.DefaultRoundingPrecision
	}
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if c.Engine.HoldingCostDailyRate < 0 {
		warnings = append(warnings, fmt.Sprintf(
			"holdingCostDailyRate %.4f is negative; holding cost will be disabled", c.Engine.HoldingCostDailyRate))
	}
	if c.Engine.HoldingCostDailyRate > 1 {
		warnings = append(warnings, fmt.Sprintf(
			"holdingCostDailyRate %.2f%% per day is unusually high; confirm the rate is a daily, not monthly, percentage",
			c.Engine.HoldingCostDailyRate))
	}
	if c.Engine.PaymentEpsilon > 1 {
		warnings = append(warnings, fmt.Sprintf(
			"paymentEpsilon %.2f exceeds one currency unit; imbalances may pass unnoticed", c.Engine.PaymentEpsilon))
	}

	return warnings
}
