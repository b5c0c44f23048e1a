// This file implements the recommend command, the main entry point for
// problem analysis and skill recommendation.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/adalundhe/savant/core/problem"
	"github.com/adalundhe/savant/core/recommend"
	"github.com/adalundhe/savant/core/usage"
	"github.com/spf13/cobra"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// RecommendMaxLimit bounds the --max flag.
	RecommendMaxLimit = 50

	// RecommendTimeout bounds one full recommendation pass.
	RecommendTimeout = 30 * time.Second
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// =============================================================================
// Recommend Command Flags
// =============================================================================

var (
	recommendTopK    int
	recommendMax     int
	recommendAlts    int
	recommendMethod  string
	recommendJSON    bool
	recommendNoChain bool
	recommendNoAlts  bool
	recommendRecord  bool
)

// =============================================================================
// Recommend Command
// =============================================================================

var recommendCmd = &cobra.Command{
	Use:   "recommend <problem description>",
	Short: "Recommend skills for a problem",
	Long: `Analyze a problem description and recommend matching skills.

Examples:
  savant recommend "compare average revenue between two customer groups"
  savant recommend --method popularity "forecast monthly sales"
  savant recommend --json "test if conversion rates differ" | jq '.recommendations'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRecommend,
}

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().IntVarP(&recommendTopK, "top", "t", 0, "Number of candidates to rank (default from config)")
	recommendCmd.Flags().IntVarP(&recommendMax, "max", "m", 0, "Maximum recommendations to return (default from config)")
	recommendCmd.Flags().IntVar(&recommendAlts, "alternatives", 0, "Maximum alternatives to return (default from config)")
	recommendCmd.Flags().StringVar(&recommendMethod, "method", "", "Ranking method (weighted_score, confidence_score, popularity, recently_used, balanced)")
	recommendCmd.Flags().BoolVar(&recommendJSON, "json", false, "Output results as JSON")
	recommendCmd.Flags().BoolVar(&recommendNoChain, "no-chain", false, "Skip workflow chain output")
	recommendCmd.Flags().BoolVar(&recommendNoAlts, "no-alternatives", false, "Skip alternatives output")
	recommendCmd.Flags().BoolVar(&recommendRecord, "record", false, "Record the top recommendation in usage history")
}

// =============================================================================
// Recommend Execution
// =============================================================================

func runRecommend(cmd *cobra.Command, args []string) error {
	description := strings.Join(args, " ")

	ctx, cancel := context.WithTimeout(cmd.Context(), RecommendTimeout)
	defer cancel()

	cat, err := openCatalog()
	if err != nil {
		return err
	}

	opts, store, err := buildRecommendOptions(ctx)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	features, classification, dataTypes := problem.Analyze(description)

	engine := recommend.NewEngine(slog.Default())
	result, err := engine.Recommend(
		cat.Snapshot(),
		features,
		classification.PrimaryType,
		&dataTypes,
		features.OutputFormat,
		opts,
	)
	if err != nil {
		return fmt.Errorf("recommendation failed: %w", err)
	}

	if recommendRecord && store != nil && len(result.Recommendations) > 0 {
		if err := store.Record(ctx, result.Recommendations[0].Skill.ID); err != nil {
			slog.Warn("failed to record usage", "error", err)
		}
	}

	if recommendJSON {
		return outputRecommendJSON(cmd.OutOrStdout(), description, classification, result)
	}
	return outputRecommendText(cmd.OutOrStdout(), description, classification, result)
}

// buildRecommendOptions resolves flags against config defaults and loads the
// usage snapshot when a store is configured.
func buildRecommendOptions(ctx context.Context) (recommend.Options, *usage.Store, error) {
	opts := recommend.DefaultOptions()
	opts.TopK = cfg.Recommend.TopK
	opts.MaxRecommendations = cfg.Recommend.MaxRecommendations
	opts.MaxAlternatives = cfg.Recommend.MaxAlternatives
	opts.RankingMethod = recommend.RankingMethod(cfg.Recommend.RankingMethod)

	if recommendTopK > 0 {
		opts.TopK = recommendTopK
	}
	if recommendMax > 0 {
		opts.MaxRecommendations = min(recommendMax, RecommendMaxLimit)
	}
	if recommendAlts > 0 {
		opts.MaxAlternatives = recommendAlts
	}
	if recommendMethod != "" {
		opts.RankingMethod = recommend.RankingMethod(recommendMethod)
	}
	if !opts.RankingMethod.Valid() {
		return opts, nil, fmt.Errorf("unknown ranking method: %s", opts.RankingMethod)
	}

	var store *usage.Store
	if cfg.Usage.Path != "" {
		var err error
		store, err = usage.Open(cfg.Usage.Path)
		if err != nil {
			return opts, nil, fmt.Errorf("failed to open usage store: %w", err)
		}
		snapshot, err := store.Snapshot(ctx)
		if err != nil {
			store.Close()
			return opts, nil, fmt.Errorf("failed to read usage history: %w", err)
		}
		opts.UsageHistory = snapshot
	}
	return opts, store, nil
}

// =============================================================================
// Output Formatting
// =============================================================================

// recommendOutput is the JSON output structure.
type recommendOutput struct {
	Problem        string                 `json:"problem"`
	Classification problem.Classification `json:"classification"`
	Result         recommend.Result       `json:"result"`
}

func outputRecommendJSON(w io.Writer, description string, classification problem.Classification, result recommend.Result) error {
	if recommendNoChain {
		result.Chain = nil
	}
	if recommendNoAlts {
		result.Alternatives = nil
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(recommendOutput{
		Problem:        description,
		Classification: classification,
		Result:         result,
	})
}

func outputRecommendText(w io.Writer, description string, classification problem.Classification, result recommend.Result) error {
	fmt.Fprintf(w, "%s%sRecommendations%s\n", colorBold, colorCyan, colorReset)
	fmt.Fprintf(w, "%sProblem:%s %s\n", colorGray, colorReset, description)
	fmt.Fprintf(w, "%sDetected type:%s %s (%.0f%% confidence)\n",
		colorGray, colorReset, classification.PrimaryType, classification.Confidence*100)
	fmt.Fprintln(w)

	if len(result.Recommendations) == 0 {
		fmt.Fprintf(w, "%sNo matching skills found.%s\n", colorYellow, colorReset)
		return nil
	}

	for _, rec := range result.Recommendations {
		outputRecommendation(w, rec)
	}

	if !recommendNoChain && result.Chain != nil {
		fmt.Fprintf(w, "%s%sSuggested Workflow%s\n", colorBold, colorCyan, colorReset)
		fmt.Fprintln(w, recommend.Visualize(*result.Chain))
	}

	if !recommendNoAlts && result.Alternatives != nil && len(result.Alternatives.Alternatives) > 0 {
		fmt.Fprintf(w, "%s%sAlternatives%s\n", colorBold, colorCyan, colorReset)
		for _, alt := range result.Alternatives.Alternatives {
			fmt.Fprintf(w, "  %s%s%s (%s, similarity %.2f)\n",
				colorBold, alt.Skill.Name, colorReset, alt.AlternativeType, alt.SimilarityScore)
		}
	}

	return nil
}

// outputRecommendation prints a single ranked recommendation.
func outputRecommendation(w io.Writer, rec recommend.Recommendation) {
	fmt.Fprintf(w, "%s%d.%s %s%s%s %s(%s)%s\n",
		colorYellow, rec.RankingPosition, colorReset,
		colorBold, rec.Skill.Name, colorReset,
		colorGray, rec.Skill.ID, colorReset)
	fmt.Fprintf(w, "   %sScore:%s %.3f  %sConfidence:%s %.2f  %s\n",
		colorGray, colorReset, rec.FinalScore,
		colorGray, colorReset, rec.Confidence,
		recommend.ExplainScore(rec))
	if len(rec.MatchReasons) > 0 {
		fmt.Fprintf(w, "   %sWhy:%s %s\n", colorGray, colorReset, strings.Join(rec.MatchReasons, "; "))
	}
	if len(rec.Mismatches) > 0 {
		fmt.Fprintf(w, "   %sCaveats:%s %s\n", colorYellow, colorReset, strings.Join(rec.Mismatches, "; "))
	}
	fmt.Fprintln(w)
}
