package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestLoadConfiguration(t *testing.T) {
	path := writeTempFile(t, "config.yaml", `
engine:
  holdingCostDailyRate: 0.05
  paymentEpsilon: 0.01
  roundingPrecision: 2
logging:
  level: debug
  format: console
output:
  format: csv
`)

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if conf.Engine.HoldingCostDailyRate != 0.05 {
		t.Errorf("HoldingCostDailyRate = %v, expected 0.05", conf.Engine.HoldingCostDailyRate)
	}
	if conf.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, expected debug", conf.Logging.Level)
	}
	if conf.Output.Format != "csv" {
		t.Errorf("Output.Format = %q, expected csv", conf.Output.Format)
	}
}

func TestLoadConfigurationDefaults(t *testing.T) {
	path := writeTempFile(t, "config.yaml", `
engine:
  holdingCostDailyRate: 0.05
`)

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if conf.Engine.PaymentEpsilon != 0.01 {
		t.Errorf("PaymentEpsilon = %v, expected default 0.01", conf.Engine.PaymentEpsilon)
	}
	if conf.Engine.RoundingPrecision != 2 {
		t.Errorf("RoundingPrecision = %v, expected default 2", conf.Engine.RoundingPrecision)
	}
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	if _, err := LoadConfiguration(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadConfiguration() expected error for missing file")
	}
}

func TestValidateConfigurationWarnings(t *testing.T) {
	tests := []struct {
		name        string
		conf        Configuration
		expectCount int
	}{
		{"Sane config", Configuration{Engine: EngineConfig{HoldingCostDailyRate: 0.05, PaymentEpsilon: 0.01}}, 0},
		{"Negative holding rate", Configuration{Engine: EngineConfig{HoldingCostDailyRate: -1, PaymentEpsilon: 0.01}}, 1},
		{"Implausible daily rate", Configuration{Engine: EngineConfig{HoldingCostDailyRate: 5, PaymentEpsilon: 0.01}}, 1},
		{"Loose epsilon", Configuration{Engine: EngineConfig{HoldingCostDailyRate: 0.05, PaymentEpsilon: 2}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := tt.conf.ValidateConfiguration()
			if len(warnings) != tt.expectCount {
				t.Errorf("ValidateConfiguration() returned %d warnings (%v), expected %d",
					len(warnings), warnings, tt.expectCount)
			}
		})
	}
}
