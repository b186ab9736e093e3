package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect committed notes updates",
	Long: `Inspect the history of committed notes updates.

Entries are recorded only when audit.enabled is true.`,
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent commits",
	Args:  cobra.NoArgs,
	RunE:  runAuditList,
}

// auditLimit is a flag for the list command.
var auditLimit int

func init() {
	auditListCmd.Flags().IntVarP(&auditLimit, "limit", "n", 20, "Maximum number of entries")
	auditCmd.AddCommand(auditListCmd)
	rootCmd.AddCommand(auditCmd)
}

func runAuditList(cmd *cobra.Command, _ []string) error {
	if auditService == nil {
		return errors.New("audit service not configured")
	}

	entries, err := auditService.Recent(cmd.Context(), auditLimit)
	if err != nil {
		return fmt.Errorf("failed to list audit entries: %w", err)
	}

	if len(entries) == 0 {
		cmd.Println("No commits recorded.")
		return nil
	}

	for i := range entries {
		e := &entries[i]
		cmd.Printf("%s  %s\n", e.CommittedAt.Local().Format(time.DateTime), e.ID)
		if e.InPlace {
			cmd.Printf("    File: %s (in place)\n", e.OutputPath)
		} else {
			cmd.Printf("    Source: %s\n", e.SourcePath)
			cmd.Printf("    Output: %s\n", e.OutputPath)
		}
		cmd.Printf("    Slides: %v\n", e.Slides)
		if len(e.Skipped) > 0 {
			cmd.Printf("    Skipped: %v\n", e.Skipped)
		}
	}

	cmd.Printf("\nTotal: %d entries\n", len(entries))
	return nil
}
