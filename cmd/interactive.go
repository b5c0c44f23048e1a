// This file implements the interactive command, a stdin-driven loop serving
// repeated recommendation queries against a live catalog.
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/adalundhe/savant/core/catalog"
	"github.com/adalundhe/savant/core/problem"
	"github.com/adalundhe/savant/core/recommend"
	"github.com/spf13/cobra"
)

// =============================================================================
// Interactive Command
// =============================================================================

var interactiveMax int

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"repl"},
	Short:   "Recommend skills for problems read line by line",
	Long: `Read problem descriptions from standard input, one per line, and print
the top recommendations for each. With catalog watching enabled in the
config, edits to the skills directory are picked up between queries.

Examples:
  savant interactive
  echo "compare two group means" | savant interactive`,
	Args: cobra.NoArgs,
	RunE: runInteractive,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)

	interactiveCmd.Flags().IntVarP(&interactiveMax, "max", "m", 3, "Maximum recommendations per problem")
}

// =============================================================================
// Interactive Execution
// =============================================================================

func runInteractive(cmd *cobra.Command, args []string) error {
	cat, err := openCatalog()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if cfg.Catalog.Watch {
		loaderCfg := catalog.DefaultLoaderConfig(cfg.Catalog.Dir)
		loaderCfg.Strict = cfg.Catalog.Strict
		watcher, err := catalog.NewWatcher(cat, loaderCfg)
		if err != nil {
			return fmt.Errorf("failed to watch skills directory: %w", err)
		}
		defer watcher.Close()
		go func() {
			if err := watcher.Run(ctx); err != nil {
				slog.Warn("catalog watcher stopped", "error", err)
			}
		}()
	}

	opts, store, err := buildRecommendOptions(ctx)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}
	if interactiveMax > 0 {
		opts.MaxRecommendations = min(interactiveMax, RecommendMaxLimit)
	}

	engine := recommend.NewEngine(slog.Default())
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%sEnter one problem description per line (Ctrl-D to exit).%s\n", colorGray, colorReset)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		features, classification, dataTypes := problem.Analyze(line)
		result, err := engine.Recommend(
			cat.Snapshot(),
			features,
			classification.PrimaryType,
			&dataTypes,
			features.OutputFormat,
			opts,
		)
		if err != nil {
			fmt.Fprintf(out, "%sError:%s %v\n", colorYellow, colorReset, err)
			continue
		}
		if len(result.Recommendations) == 0 {
			fmt.Fprintf(out, "%sNo matching skills found.%s\n\n", colorYellow, colorReset)
			continue
		}

		fmt.Fprintf(out, "%sDetected type:%s %s\n", colorGray, colorReset, classification.PrimaryType)
		for _, rec := range result.Recommendations {
			outputRecommendation(out, rec)
		}
	}
	return scanner.Err()
}
