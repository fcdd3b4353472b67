package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/superchargeai/supercharge/internal/config"
	"github.com/superchargeai/supercharge/internal/errors"
	"github.com/superchargeai/supercharge/internal/settings"
	"github.com/superchargeai/supercharge/internal/workspace"
)

// claudeMDMarker identifies our include line in CLAUDE.md.
const claudeMDMarker = "supercharge-ai"

var (
	initProjectDir     string
	initAddPermissions bool
	deinitProjectDir   string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Add the SuperchargeAI include line to the project's CLAUDE.md",
	RunE:  runInit,
}

var deinitCmd = &cobra.Command{
	Use:   "deinit",
	Short: "Remove the SuperchargeAI include line from the project's CLAUDE.md",
	RunE:  runDeinit,
}

func init() {
	initCmd.Flags().StringVar(&initProjectDir, "project-dir", "", "project root (default: cwd)")
	initCmd.Flags().BoolVar(&initAddPermissions, "add-permissions", false,
		"add tool permissions to ~/.claude/settings.json (needed for VS Code)")
	deinitCmd.Flags().StringVar(&deinitProjectDir, "project-dir", "", "project root (default: cwd)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(deinitCmd)
}

func claudeMDPath(projectDir string) (string, error) {
	if projectDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", errors.NewNoProjectRootError()
		}
		projectDir = cwd
	}
	return filepath.Join(projectDir, ".claude", "CLAUDE.md"), nil
}

func runInit(cmd *cobra.Command, args []string) error {
	claudeMD, err := claudeMDPath(initProjectDir)
	if err != nil {
		return err
	}

	data, readErr := os.ReadFile(claudeMD)
	if readErr == nil && strings.Contains(string(data), claudeMDMarker) {
		fmt.Fprintln(cmd.OutOrStdout(),
			"Already configured: CLAUDE.md contains supercharge-ai reference.")
	} else {
		dataDir := workspace.CLIDataDir(loadConfig())
		templatePath := filepath.Join(dataDir, "prompts", "claude-md.md")
		if dataDir == "" || !fileExists(templatePath) {
			return errors.New(errors.ErrCodeFileNotFound,
				"template not found: "+templatePath).
				WithSuggestion("Set " + config.EnvDataRoot + " to the plugin data directory")
		}

		if err := os.MkdirAll(filepath.Dir(claudeMD), 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeDirectoryFailed, "creating .claude directory", err)
		}
		f, err := os.OpenFile(claudeMD, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
		if err != nil {
			return errors.Wrap(errors.ErrCodeFileWriteFailed, "opening "+claudeMD, err)
		}
		_, writeErr := fmt.Fprintf(f, "\nSupercharge-AI: @%s\n", templatePath)
		closeErr := f.Close()
		if writeErr != nil {
			return errors.Wrap(errors.ErrCodeFileWriteFailed, "writing "+claudeMD, writeErr)
		}
		if closeErr != nil {
			return errors.Wrap(errors.ErrCodeFileWriteFailed, "closing "+claudeMD, closeErr)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Added to %s:\n  Supercharge-AI: @%s\n",
			claudeMD, templatePath)
	}

	if initAddPermissions {
		settingsPath, err := settings.UserPath()
		if err != nil {
			return err
		}
		added, err := settings.Add(settingsPath)
		if err != nil {
			return err
		}
		if len(added) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "\nAdded to %s:\n", settingsPath)
			for _, entry := range added {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", entry)
			}
			fmt.Fprintln(cmd.OutOrStdout(),
				"\nThese permissions are needed for VS Code where plugin hooks don't fire yet.")
			fmt.Fprintln(cmd.OutOrStdout(), "Remove with: supercharge permissions remove")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "\nPermissions already present in settings.json.")
		}
	}

	return nil
}

func runDeinit(cmd *cobra.Command, args []string) error {
	claudeMD, err := claudeMDPath(deinitProjectDir)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(claudeMD)
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), "No CLAUDE.md found.")
		return nil
	}

	lines := strings.SplitAfter(string(data), "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if !strings.Contains(line, claudeMDMarker) {
			kept = append(kept, line)
		}
	}

	if len(kept) == len(lines) {
		fmt.Fprintln(cmd.OutOrStdout(), "No supercharge-ai reference found in CLAUDE.md.")
		return nil
	}

	if err := os.WriteFile(claudeMD, []byte(strings.Join(kept, "")), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "writing "+claudeMD, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed supercharge-ai reference from %s.\n", claudeMD)
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
