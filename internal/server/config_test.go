package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iwvelando/deal-settlement/pkg/constants"
)

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address == "" {
		t.Fatalf("expected default address, got empty")
	}
	if cfg.BodySizeBytes() <= 0 {
		t.Fatalf("expected positive default max body size, got %d", cfg.BodySizeBytes())
	}
	if cfg.Engine.PaymentEpsilon != constants.CurrencyTolerance {
		t.Fatalf("expected default payment epsilon, got %f", cfg.Engine.PaymentEpsilon)
	}
	if cfg.Engine.RoundingPrecision != constants.DefaultRoundingPrecision {
		t.Fatalf("expected default rounding precision, got %d", cfg.Engine.RoundingPrecision)
	}
	if cfg.Logging.Level != "" || cfg.Logging.Format != "" || cfg.Logging.OutputFile != "" {
		t.Fatalf("expected empty logging defaults, got %+v", cfg.Logging)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server-config.yaml")

	contents := []byte(`address: 127.0.0.1:9000
maxBodySize: 2M
engine:
  holdingCostDailyRate: 0.05
  paymentEpsilon: 0.05
  roundingPrecision: 4
logging:
  level: debug
  format: console
  outputFile: /tmp/server.log
`)
	if err := os.WriteFile(path, contents, 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != "127.0.0.1:9000" {
		t.Fatalf("expected address override, got %s", cfg.Address)
	}
	if cfg.BodySizeBytes() != 2*1024*1024 {
		t.Fatalf("expected max body size override, got %d", cfg.BodySizeBytes())
	}
	if cfg.Engine.HoldingCostDailyRate != 0.05 {
		t.Fatalf("expected holding cost rate override, got %f", cfg.Engine.HoldingCostDailyRate)
	}
	if cfg.Engine.PaymentEpsilon != 0.05 {
		t.Fatalf("expected payment epsilon override, got %f", cfg.Engine.PaymentEpsilon)
	}
	if cfg.Engine.RoundingPrecision != 4 {
		t.Fatalf("expected rounding precision override, got %d", cfg.Engine.RoundingPrecision)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected logging level debug, got %s", cfg.Logging.Level)
	}
}

func TestLoadConfigInvalidYaml(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")

	if err := os.WriteFile(path, []byte("maxBodySize: invalid"), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for invalid YAML but got nil")
	}
}

func TestParseSize(t *testing.T) {
	tests := map[string]int64{
		"":          constants.DefaultMaxBodySizeBytes,
		"1024":      1024,
		"512b":      512,
		"256K":      256 * 1024,
		"1m":        1024 * 1024,
		"3MB":       3 * 1024 * 1024,
		"2G":        2 * 1024 * 1024 * 1024,
		"  4096   ": 4096,
	}

	for input, expected := range tests {
		got, err := ParseSize(input)
		if err != nil {
			t.Fatalf("ParseSize(%q) returned error: %v", input, err)
		}
		if got != expected {
			t.Fatalf("ParseSize(%q) = %d, expected %d", input, got, expected)
		}
	}

	if _, err := ParseSize("1TB"); err == nil {
		t.Fatal("expected error for unsupported unit")
	}
	if _, err := ParseSize("abc"); err == nil {
		t.Fatal("expected error for invalid number")
	}
}
