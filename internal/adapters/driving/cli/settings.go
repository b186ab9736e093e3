package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/notesmith/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure file limits, notes behaviour, rate limiting and auditing.

Settings are stored in config.toml inside the configuration directory.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Long: `Change one setting and save it.

List values such as security.workspace_dirs are comma separated.

Examples:
  notesmith settings set notes.miss_policy fail
  notesmith settings set security.workspace_dirs ~/decks,~/talks`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to review every setting step by step.`,
	RunE:  runSettingsWizard,
}

// wizardInput is where the wizard reads answers from.
var wizardInput io.Reader = os.Stdin

// stdinIsTerminal reports whether interactive commands can run.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Println("Current Settings")
	cmd.Println("================")

	section := ""
	for _, key := range settingsService.Keys() {
		val, err := settingsService.Value(key)
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}

		if name, _, _ := strings.Cut(key, "."); name != section {
			section = name
			cmd.Printf("\n[%s]\n", section)
		}
		if val == "" {
			val = "(not set)"
		}
		cmd.Printf("  %s = %s\n", key, val)
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	val, err := settingsService.Value(args[0])
	if err != nil {
		return err
	}
	cmd.Printf("Set %s = %s\n", args[0], val)
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if !stdinIsTerminal() {
		return errors.New("the wizard needs an interactive terminal; use 'notesmith settings set' instead")
	}

	cmd.Println("notesmith Settings Wizard")
	cmd.Println("=========================")
	cmd.Println("Press Enter to keep the current value.")
	cmd.Println()

	reader := bufio.NewReader(wizardInput)

	// Step 1: Miss policy
	cmd.Println("Step 1: Slides without a notes page")
	cmd.Println("-----------------------------------")
	policies := []domain.MissPolicy{domain.MissSkip, domain.MissFail}
	cmd.Println("  1. skip - update the other slides and report the skipped ones")
	cmd.Println("  2. fail - reject the whole batch")
	current, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	defaultIdx := 1
	if current.Notes.MissPolicy == domain.MissFail {
		defaultIdx = 2
	}
	cmd.Printf("\nEnter choice [%d]: ", defaultIdx)
	choice := parseChoice(readLine(reader), len(policies), defaultIdx)
	if err := settingsService.Set("notes.miss_policy", policies[choice-1].String()); err != nil {
		return fmt.Errorf("failed to set miss policy: %w", err)
	}
	cmd.Printf("Set miss policy to: %s\n\n", policies[choice-1])

	// Step 2: Every other key
	cmd.Println("Step 2: Review remaining settings")
	cmd.Println("---------------------------------")
	for _, key := range settingsService.Keys() {
		if key == "notes.miss_policy" {
			continue
		}
		val, err := settingsService.Value(key)
		if err != nil {
			return err
		}
		cmd.Printf("%s [%s]: ", key, val)
		answer := readLine(reader)
		if answer == "" {
			continue
		}
		if err := settingsService.Set(key, answer); err != nil {
			cmd.Printf("  Skipped: %v\n", err)
		}
	}

	cmd.Println()
	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	return nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}
