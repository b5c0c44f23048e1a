// Package cmd provides CLI commands for the Savant application.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/adalundhe/savant/core/catalog"
	"github.com/adalundhe/savant/core/config"
	"github.com/spf13/cobra"
)

var (
	cfgPath   string
	skillsDir string
	verbose   bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "savant",
	Short: "Savant - A statistical skill recommendation engine",
	Long: `Savant analyzes a problem description and recommends statistical
method skills from a catalog, builds multi-step workflow chains, and
surfaces alternative approaches with trade-offs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded
		if skillsDir != "" {
			cfg.Catalog.Dir = skillsDir
		}
		configureLogging()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", ".savant/config.yaml", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&skillsDir, "skills", "", "Skills directory (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func Execute() error {
	return rootCmd.Execute()
}

// configureLogging sets the process-wide slog handler.
func configureLogging() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// openCatalog loads the configured skills directory.
func openCatalog() (*catalog.Catalog, error) {
	loaderCfg := catalog.DefaultLoaderConfig(cfg.Catalog.Dir)
	loaderCfg.Strict = cfg.Catalog.Strict
	cat, err := catalog.LoadCatalog(loaderCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load skill catalog from %s: %w", cfg.Catalog.Dir, err)
	}
	return cat, nil
}
