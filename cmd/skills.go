// This file implements the skills command group for inspecting the catalog.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/adalundhe/savant/core/catalog"
	"github.com/adalundhe/savant/core/recommend"
	"github.com/spf13/cobra"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// SkillsSearchDefaultLimit is the default number of search results.
	SkillsSearchDefaultLimit = 10

	// SkillsSearchMaxLimit is the maximum number of search results.
	SkillsSearchMaxLimit = 50
)

// =============================================================================
// Skills Command Flags
// =============================================================================

var (
	skillsCategory    string
	skillsTag         string
	skillsTagPattern  string
	skillsJSON        bool
	skillsSearchLimit int
)

// =============================================================================
// Skills Commands
// =============================================================================

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Inspect the skill catalog",
}

var skillsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog skills",
	Long: `List skills in the catalog, optionally filtered.

Examples:
  savant skills list
  savant skills list --category statistical_method
  savant skills list --tag regression
  savant skills list --tag-pattern "hypothesis*"`,
	RunE: runSkillsList,
}

var skillsShowCmd = &cobra.Command{
	Use:   "show <skill-id>",
	Short: "Show one skill in detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runSkillsShow,
}

var skillsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over the catalog",
	Long: `Search skill names, descriptions, tags, and use cases.

Examples:
  savant skills search "hypothesis test"
  savant skills search --limit 5 correlation`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSkillsSearch,
}

var skillsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalog statistics",
	RunE:  runSkillsStats,
}

func init() {
	rootCmd.AddCommand(skillsCmd)
	skillsCmd.AddCommand(skillsListCmd)
	skillsCmd.AddCommand(skillsShowCmd)
	skillsCmd.AddCommand(skillsSearchCmd)
	skillsCmd.AddCommand(skillsStatsCmd)

	skillsCmd.PersistentFlags().BoolVar(&skillsJSON, "json", false, "Output as JSON")
	skillsListCmd.Flags().StringVar(&skillsCategory, "category", "", "Filter by category")
	skillsListCmd.Flags().StringVar(&skillsTag, "tag", "", "Filter by tag")
	skillsListCmd.Flags().StringVar(&skillsTagPattern, "tag-pattern", "", "Filter by glob tag pattern")
	skillsSearchCmd.Flags().IntVarP(&skillsSearchLimit, "limit", "l", SkillsSearchDefaultLimit, "Maximum number of results")
}

// =============================================================================
// List
// =============================================================================

func runSkillsList(cmd *cobra.Command, args []string) error {
	cat, err := openCatalog()
	if err != nil {
		return err
	}

	skills, err := selectSkills(cat)
	if err != nil {
		return err
	}

	if skillsJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(skills)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s%d skill(s)%s\n\n", colorBold, len(skills), colorReset)
	for _, skill := range skills {
		fmt.Fprintf(w, "%s%-32s%s %s%-20s%s %s\n",
			colorBold, skill.ID, colorReset,
			colorGray, skill.Category, colorReset,
			truncateLine(skill.Description, 72))
	}
	return nil
}

// selectSkills applies the list filters in a fixed order.
func selectSkills(cat *catalog.Catalog) ([]*catalog.Skill, error) {
	switch {
	case skillsCategory != "":
		return cat.GetByCategory(catalog.Category(skillsCategory)), nil
	case skillsTag != "":
		return cat.GetByTag(skillsTag), nil
	case skillsTagPattern != "":
		return cat.GetByTagPattern(skillsTagPattern)
	default:
		return cat.Snapshot(), nil
	}
}

// =============================================================================
// Show
// =============================================================================

func runSkillsShow(cmd *cobra.Command, args []string) error {
	cat, err := openCatalog()
	if err != nil {
		return err
	}

	skill := cat.Get(args[0])
	if skill == nil {
		return fmt.Errorf("skill not found: %s", args[0])
	}

	if skillsJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(skill)
	}

	outputSkillDetail(cmd.OutOrStdout(), skill)

	checker := recommend.NewPrereqChecker()
	result, err := checker.Check(skill, cat.Snapshot())
	if err != nil {
		return err
	}
	outputPrereqResult(cmd.OutOrStdout(), result)
	return nil
}

func outputSkillDetail(w io.Writer, skill *catalog.Skill) {
	fmt.Fprintf(w, "%s%s%s %s(%s)%s\n", colorBold, skill.Name, colorReset, colorGray, skill.ID, colorReset)
	fmt.Fprintf(w, "%sCategory:%s   %s\n", colorGray, colorReset, skill.Category)
	fmt.Fprintf(w, "%sComplexity:%s %s\n", colorGray, colorReset, skill.Complexity)
	if skill.StatisticalConcept != "" {
		fmt.Fprintf(w, "%sConcept:%s    %s\n", colorGray, colorReset, skill.StatisticalConcept)
	}
	if len(skill.Tags) > 0 {
		fmt.Fprintf(w, "%sTags:%s       %s\n", colorGray, colorReset, strings.Join(skill.Tags, ", "))
	}
	if len(skill.InputDataTypes) > 0 {
		types := make([]string, len(skill.InputDataTypes))
		for i, t := range skill.InputDataTypes {
			types[i] = string(t)
		}
		fmt.Fprintf(w, "%sInputs:%s     %s\n", colorGray, colorReset, strings.Join(types, ", "))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, skill.Description)
	if skill.LongDescription != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, skill.LongDescription)
	}
	if len(skill.Assumptions) > 0 {
		fmt.Fprintf(w, "\n%sAssumptions:%s\n", colorBold, colorReset)
		for _, assumption := range skill.Assumptions {
			fmt.Fprintf(w, "  - %s\n", assumption)
		}
	}
	if len(skill.UseCases) > 0 {
		fmt.Fprintf(w, "\n%sUse cases:%s\n", colorBold, colorReset)
		for _, useCase := range skill.UseCases {
			fmt.Fprintf(w, "  - %s\n", useCase)
		}
	}
	fmt.Fprintln(w)
}

func outputPrereqResult(w io.Writer, result recommend.PrereqCheckResult) {
	if len(result.Prerequisites) == 0 {
		fmt.Fprintf(w, "%sNo prerequisites.%s\n", colorGray, colorReset)
		return
	}

	fmt.Fprintf(w, "%sPrerequisites:%s\n", colorBold, colorReset)
	for _, prereq := range result.Prerequisites {
		marker := colorGreen + "ok" + colorReset
		switch prereq.Status {
		case recommend.PrereqMissing:
			marker = colorYellow + "missing" + colorReset
		case recommend.PrereqPartial:
			marker = colorYellow + "partial" + colorReset
		}
		fmt.Fprintf(w, "  [%s] %s", marker, prereq.SkillID)
		if prereq.Description != "" {
			fmt.Fprintf(w, " %s(%s)%s", colorGray, prereq.Description, colorReset)
		}
		fmt.Fprintln(w)
	}
	if result.WarningMessage != "" {
		fmt.Fprintf(w, "%s%s%s\n", colorYellow, result.WarningMessage, colorReset)
	}
}

// =============================================================================
// Search
// =============================================================================

func runSkillsSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	cat, err := openCatalog()
	if err != nil {
		return err
	}

	index, err := catalog.NewSearchIndex(cat.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to build search index: %w", err)
	}
	defer index.Close()

	limit := skillsSearchLimit
	if limit <= 0 {
		limit = SkillsSearchDefaultLimit
	}
	if limit > SkillsSearchMaxLimit {
		limit = SkillsSearchMaxLimit
	}

	hits, err := index.Search(query, limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if skillsJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(hits)
	}

	w := cmd.OutOrStdout()
	if len(hits) == 0 {
		fmt.Fprintf(w, "%sNo results found.%s\n", colorYellow, colorReset)
		return nil
	}
	for i, hit := range hits {
		fmt.Fprintf(w, "%s%d.%s %s%s%s %s(score %.4f)%s\n",
			colorYellow, i+1, colorReset,
			colorBold, hit.Skill.ID, colorReset,
			colorGray, hit.Score, colorReset)
		fmt.Fprintf(w, "   %s\n", truncateLine(hit.Skill.Description, 100))
	}
	return nil
}

// =============================================================================
// Stats
// =============================================================================

func runSkillsStats(cmd *cobra.Command, args []string) error {
	cat, err := openCatalog()
	if err != nil {
		return err
	}
	stats := cat.Stats()

	if skillsJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(stats)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%sTotal skills:%s %d\n", colorBold, colorReset, stats.Total)
	fmt.Fprintf(w, "%sDistinct tags:%s %d\n", colorBold, colorReset, stats.TagCount)
	fmt.Fprintf(w, "\n%sBy category:%s\n", colorBold, colorReset)
	for _, category := range sortedKeys(stats.ByCategory) {
		fmt.Fprintf(w, "  %-24s %d\n", category, stats.ByCategory[category])
	}
	return nil
}

// =============================================================================
// Utility Functions
// =============================================================================

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// truncateLine shortens s to maxLen characters on a word boundary.
func truncateLine(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= maxLen {
		return s
	}
	cut := s[:maxLen]
	if lastSpace := strings.LastIndex(cut, " "); lastSpace > maxLen/2 {
		cut = cut[:lastSpace]
	}
	return cut + "..."
}
