package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"childcare-assistant/internal/app"
	"childcare-assistant/internal/common/config"
	"childcare-assistant/internal/common/logger"
)

var (
	configFile string
	debugMode  bool
)

func main() {
	rootCommand := cobra.Command{
		Use:           "assistant-cli",
		Short:         "Ask the childcare assistant and manage its translation cache",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCommand.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCommand.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	rootCommand.AddCommand(
		newAskCommand(),
		newTranslateCommand(),
		newDetectCommand(),
		newCacheCommand(),
		newActivitiesCommand(),
		newJournalCommand(),
	)
	if err := rootCommand.Execute(); err != nil {
		if _, fprintfErr := fmt.Fprintf(os.Stderr, "failed to execute a command: %+v\n", err); fprintfErr != nil {
			panic(fmt.Errorf("failed to output an error: %w. Reason: %w", err, fprintfErr))
		}
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.LoadFromFile(configFile)
	}
	return config.Load()
}

// openApp builds the application with CLI logging: warnings only unless --debug.
func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	level := "warn"
	if debugMode {
		level = "debug"
	}
	a, err := app.New(ctx, cfg, logger.NewStructured(level, "console"))
	if err != nil {
		return nil, fmt.Errorf("app.New() > %w", err)
	}
	return a, nil
}
