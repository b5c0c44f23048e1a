// This file implements the alternatives command.
package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/adalundhe/savant/core/problem"
	"github.com/adalundhe/savant/core/recommend"
	"github.com/spf13/cobra"
)

// =============================================================================
// Alternatives Command Flags
// =============================================================================

var (
	altsProblem string
	altsLimit   int
	altsJSON    bool
)

// =============================================================================
// Alternatives Command
// =============================================================================

var alternativesCmd = &cobra.Command{
	Use:   "alternatives <skill-id>",
	Short: "Find alternatives to a skill",
	Long: `Find similar, simpler, more advanced, different-approach, and
complementary alternatives to a skill, with trade-offs.

Examples:
  savant alternatives t-test
  savant alternatives t-test --problem "small non-normal samples"
  savant alternatives anova --limit 3 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAlternatives,
}

func init() {
	rootCmd.AddCommand(alternativesCmd)

	alternativesCmd.Flags().StringVarP(&altsProblem, "problem", "p", "", "Problem description guiding compatibility")
	alternativesCmd.Flags().IntVarP(&altsLimit, "limit", "l", 0, "Maximum alternatives (default from config)")
	alternativesCmd.Flags().BoolVar(&altsJSON, "json", false, "Output as JSON")
}

func runAlternatives(cmd *cobra.Command, args []string) error {
	cat, err := openCatalog()
	if err != nil {
		return err
	}

	primary := cat.Get(args[0])
	if primary == nil {
		return fmt.Errorf("skill not found: %s", args[0])
	}

	_, classification, dataTypes := problem.Analyze(altsProblem)

	limit := altsLimit
	if limit <= 0 {
		limit = cfg.Recommend.MaxAlternatives
	}

	finder := recommend.NewAlternativeFinder(recommend.DefaultAlternativeTables())
	set, err := finder.Find(primary, classification.PrimaryType, &dataTypes, cat.Snapshot(), limit)
	if err != nil {
		return err
	}

	if altsJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(set)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s%sAlternatives to %s%s\n", colorBold, colorCyan, primary.Name, colorReset)
	fmt.Fprintf(w, "%s%s%s\n\n", colorGray, set.Reasoning, colorReset)

	if len(set.Alternatives) == 0 {
		fmt.Fprintf(w, "%sNo alternatives found.%s\n", colorYellow, colorReset)
		return nil
	}

	for i, alt := range set.Alternatives {
		fmt.Fprintf(w, "%s%d.%s %s%s%s %s(%s, similarity %.2f)%s\n",
			colorYellow, i+1, colorReset,
			colorBold, alt.Skill.Name, colorReset,
			colorGray, alt.AlternativeType, alt.SimilarityScore, colorReset)
		if len(alt.Advantages) > 0 {
			fmt.Fprintf(w, "   %s+%s %s\n", colorGreen, colorReset, strings.Join(alt.Advantages, "; "))
		}
		if len(alt.Disadvantages) > 0 {
			fmt.Fprintf(w, "   %s-%s %s\n", colorYellow, colorReset, strings.Join(alt.Disadvantages, "; "))
		}
		if len(alt.UseWhen) > 0 {
			fmt.Fprintf(w, "   %sUse when:%s %s\n", colorGray, colorReset, strings.Join(alt.UseWhen, "; "))
		}
		fmt.Fprintln(w)
	}
	return nil
}
