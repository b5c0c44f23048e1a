// This file implements the usage command for inspecting usage history.
package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/adalundhe/savant/core/usage"
	"github.com/spf13/cobra"
)

var (
	usageTop  int
	usageJSON bool
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show skill usage history",
	Long: `Show the most frequently recommended skills from the usage store.

Requires usage.path to be set in the config file.`,
	RunE: runUsage,
}

func init() {
	rootCmd.AddCommand(usageCmd)

	usageCmd.Flags().IntVarP(&usageTop, "top", "t", 10, "Number of entries to show")
	usageCmd.Flags().BoolVar(&usageJSON, "json", false, "Output as JSON")
}

func runUsage(cmd *cobra.Command, args []string) error {
	if cfg.Usage.Path == "" {
		return fmt.Errorf("no usage store configured: set usage.path in %s", cfgPath)
	}

	store, err := usage.Open(cfg.Usage.Path)
	if err != nil {
		return fmt.Errorf("failed to open usage store: %w", err)
	}
	defer store.Close()

	entries, err := store.Top(cmd.Context(), usageTop)
	if err != nil {
		return fmt.Errorf("failed to read usage history: %w", err)
	}

	if usageJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	}

	w := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintf(w, "%sNo usage recorded yet.%s\n", colorGray, colorReset)
		return nil
	}
	for i, entry := range entries {
		fmt.Fprintf(w, "%s%d.%s %s%-32s%s %d use(s)  %slast %s%s\n",
			colorYellow, i+1, colorReset,
			colorBold, entry.SkillID, colorReset,
			entry.UseCount,
			colorGray, entry.LastUsed, colorReset)
	}
	return nil
}
