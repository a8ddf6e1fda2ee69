package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/iwvelando/deal-settlement/internal/config"
	"github.com/iwvelando/deal-settlement/internal/server"
	"github.com/iwvelando/deal-settlement/internal/settlement"
	"github.com/iwvelando/deal-settlement/pkg/amortization"
	"github.com/iwvelando/deal-settlement/pkg/constants"
	"github.com/iwvelando/deal-settlement/pkg/output"
	"github.com/iwvelando/deal-settlement/pkg/payments"
	"github.com/iwvelando/deal-settlement/pkg/validation"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time via -ldflags.
var version = "dev"

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info" // Default to info level
	}

	// Parse log level
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	// Determine output format
	format := loggingConfig.Format
	if format == "" {
		format = "json" // Default to JSON for production
	}

	// Configure encoder
	var config zap.Config
	switch format {
	case "console":
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	// Configure output file if specified
	if loggingConfig.OutputFile != "" {
		// Ensure the directory exists
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		// Test if we can create/write to the file
		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		config.OutputPaths = []string{loggingConfig.OutputFile}
		config.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return config.Build()
}

func main() {
	// Process command line flags first to get config and deal locations
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	dealLocation := flag.String("deal", "", "path to deal file to settle")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	serve := flag.Bool("serve", false, "run the HTTP settlement API instead of settling a deal file")
	serverConfigLocation := flag.String("server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	flag.Parse()

	if *serve {
		runServer(*serverConfigLocation, *logLevel)
		return
	}

	// Load the config file to get engine policy and logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}

	// Initialize logging based on config and CLI override
	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	if *dealLocation == "" {
		logger.Fatal("no deal file specified; use -deal or -serve",
			zap.String("op", "main"),
		)
	}

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty // Default to pretty format
	}

	err = validation.ValidateOutputFormat(outputFormat)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	// Validate configuration and display any warnings
	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	// Load and validate the deal file.
	deal, err := config.LoadDeal(*dealLocation)
	if err != nil {
		logger.Fatal("failed to load deal file",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	dealWarnings, err := deal.Validate()
	if err != nil {
		logger.Fatal("deal validation failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	for _, warning := range dealWarnings {
		logger.Warn("Deal warning: "+warning,
			zap.String("op", "main"),
		)
	}

	inputs, err := deal.Inputs()
	if err != nil {
		logger.Fatal("failed to convert deal to engine inputs",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	// Run the settlement pass.
	coordinator := settlement.NewCoordinator(settlement.Config{
		HoldingCostDailyRate: conf.Engine.HoldingCostDailyRate,
		PaymentEpsilon:       conf.Engine.PaymentEpsilon,
		RoundingPrecision:    conf.Engine.RoundingPrecision,
	}, logger)

	result, err := coordinator.Settle(inputs)
	if err != nil {
		logger.Fatal("settlement refused",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	// Handle output.
	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(result)

		// Show the per-installment breakdown for each financing entry.
		generator := amortization.NewScheduleGenerator(logger)
		for _, entry := range inputs.PaymentMethods {
			if entry.Method != payments.MethodFinancing {
				continue
			}
			schedule, err := generator.GenerateSchedule(entry.FinancedBalance(), entry.Installments, entry.InterestRate)
			if err != nil {
				logger.Warn("failed to generate amortization schedule",
					zap.String("op", "main"),
					zap.String("entry", entry.ID),
					zap.Error(err),
				)
				continue
			}
			label := entry.ID
			if label == "" {
				label = string(entry.Method)
			}
			output.PrettySchedule(label, schedule)
		}
	case constants.OutputFormatCSV:
		output.CsvFormat(result)
	}

}

func runServer(serverConfigLocation string, logLevelOverride string) {
	serverConf, err := server.LoadConfig(serverConfigLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", serverConfigLocation, err)
		return
	}

	logger, err := initializeLogger(serverConf.Logging, logLevelOverride)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	handler := server.NewHandler(logger, serverConf, version)

	logger.Info("starting settlement API",
		zap.String("op", "main"),
		zap.String("address", serverConf.Address),
		zap.String("version", version),
	)

	if err := http.ListenAndServe(serverConf.Address, handler); err != nil {
		logger.Fatal("server exited",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
