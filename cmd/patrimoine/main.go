package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/jptremblay/patrimoine/internal/config"
	"github.com/jptremblay/patrimoine/internal/server"
	"github.com/jptremblay/patrimoine/internal/simulation"
	"github.com/jptremblay/patrimoine/pkg/constants"
	"github.com/jptremblay/patrimoine/pkg/output"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

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
	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
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

		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, xlsx")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	serve := flag.Bool("serve", false, "run the HTTP API instead of a one-shot simulation")
	flag.Parse()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	// Initialize logging based on config and CLI override
	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if *serve {
		runServer(logger, conf)
		return
	}

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty // Default to pretty format
	}
	switch outputFormat {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatXlsx:
	default:
		logger.Fatal(fmt.Sprintf("invalid output format %s, must be one of: pretty, csv, xlsx", outputFormat),
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

	// Build the portfolio of entities from the configuration.
	p, err := conf.BuildPortfolio(logger)
	if err != nil {
		logger.Fatal("failed to build portfolio",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	startDate, err := conf.StartDate()
	if err != nil {
		logger.Fatal("failed to parse simulation start date",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	sim, err := simulation.New(logger, p, startDate, conf.Simulation.DurationMonths)
	if err != nil {
		logger.Fatal("failed to initialize simulation",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	// Run the simulation to get the projection.
	snapshots, runErr := sim.Run(context.Background())
	if runErr != nil {
		var negErr *simulation.NegativeBalanceError
		if !errors.As(runErr, &negErr) {
			logger.Fatal("failed to run simulation",
				zap.String("op", "main"),
				zap.Error(runErr),
			)
		}
		// The periods before the failure are still worth reporting.
		logger.Error("simulation aborted on negative bank balance",
			zap.String("op", "main"),
			zap.Error(runErr),
		)
	}

	// Handle output.
	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(os.Stdout, snapshots)
	case constants.OutputFormatCSV:
		output.CsvFormat(os.Stdout, snapshots)
	case constants.OutputFormatXlsx:
		outputFile := conf.Output.File
		if outputFile == "" {
			outputFile = constants.DefaultOutputFile
		}
		if err := output.WriteXlsx(snapshots, outputFile); err != nil {
			logger.Fatal("failed to write workbook",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		logger.Info("wrote workbook",
			zap.String("op", "main"),
			zap.String("file", outputFile),
		)
	}

	if runErr != nil {
		os.Exit(1)
	}
}

func runServer(logger *zap.Logger, conf *config.Configuration) {
	address := conf.Server.Address
	if address == "" {
		address = constants.DefaultServerAddress
	}

	handler := server.NewHandler(logger, conf.Server.MaxUploadSizeBytes)

	logger.Info("starting HTTP server",
		zap.String("op", "main"),
		zap.String("address", address),
	)
	if err := http.ListenAndServe(address, handler); err != nil {
		logger.Fatal("HTTP server failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
