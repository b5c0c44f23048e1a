// This file implements the chain command for building workflow chains.
package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/adalundhe/savant/core/catalog"
	"github.com/adalundhe/savant/core/problem"
	"github.com/adalundhe/savant/core/recommend"
	"github.com/spf13/cobra"
)

// =============================================================================
// Chain Command Flags
// =============================================================================

var (
	chainProblem string
	chainJSON    bool
	chainMax     int
)

// =============================================================================
// Chain Command
// =============================================================================

var chainCmd = &cobra.Command{
	Use:   "chain <skill-id> [skill-id...]",
	Short: "Build a workflow chain around a skill",
	Long: `Build a multi-step workflow chain with a core skill, plus the
preparation, assumption-check, and visualization steps the problem calls for.
With multiple skill ids, builds one ranked chain per core skill.

Examples:
  savant chain t-test --problem "compare revenue between two groups"
  savant chain t-test mann-whitney --problem "compare groups" --max 2
  savant chain linear-regression --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChain,
}

func init() {
	rootCmd.AddCommand(chainCmd)

	chainCmd.Flags().StringVarP(&chainProblem, "problem", "p", "", "Problem description guiding step selection")
	chainCmd.Flags().BoolVar(&chainJSON, "json", false, "Output as JSON")
	chainCmd.Flags().IntVar(&chainMax, "max", 0, "Maximum chains for multiple core skills (default from config)")
}

func runChain(cmd *cobra.Command, args []string) error {
	cat, err := openCatalog()
	if err != nil {
		return err
	}

	coreSkills := make([]*catalog.Skill, 0, len(args))
	for _, id := range args {
		skill := cat.Get(id)
		if skill == nil {
			return fmt.Errorf("skill not found: %s", id)
		}
		coreSkills = append(coreSkills, skill)
	}

	features, classification, _ := problem.Analyze(chainProblem)

	checker := recommend.NewPrereqChecker()
	builder := recommend.NewChainBuilder(recommend.DefaultChainTables(), checker)

	snapshot := cat.Snapshot()
	var chains []recommend.Chain
	if len(coreSkills) == 1 {
		chain, err := builder.Build(coreSkills[0], classification.PrimaryType, features, snapshot)
		if err != nil {
			return err
		}
		chains = []recommend.Chain{chain}
	} else {
		maxChains := chainMax
		if maxChains <= 0 {
			maxChains = cfg.Recommend.MaxChains
		}
		chains, err = builder.BuildAlternatives(coreSkills, classification.PrimaryType, features, snapshot, maxChains)
		if err != nil {
			return err
		}
	}

	if chainJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(chains)
	}

	w := cmd.OutOrStdout()
	for i, chain := range chains {
		if i > 0 {
			fmt.Fprintln(w, strings.Repeat("-", 40))
		}
		fmt.Fprintln(w, recommend.Visualize(chain))
	}
	return nil
}
