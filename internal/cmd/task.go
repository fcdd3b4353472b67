package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/superchargeai/supercharge/internal/errors"
	"github.com/superchargeai/supercharge/internal/workspace"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage task workspaces for native subagents",
}

var taskInitCmd = &cobra.Command{
	Use:   "init <agent_type>",
	Short: "Create a new task workspace and print its UUID",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskInit,
}

var taskCleanupCmd = &cobra.Command{
	Use:   "cleanup <task_uuid>",
	Short: "Safely delete a task folder after memory harvesting",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskCleanup,
}

func init() {
	taskCmd.AddCommand(taskInitCmd)
	taskCmd.AddCommand(taskCleanupCmd)
	rootCmd.AddCommand(taskCmd)
}

func runTaskInit(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if cfg.TaskUUID != "" {
		return errors.New(errors.ErrCodePolicyDenied,
			"only the orchestrator creates task workspaces").
			WithSuggestion("Spawn sub-workers with 'supercharge subtask init' instead")
	}
	projectDir, err := workspace.ProjectDir(cfg)
	if err != nil {
		return err
	}

	taskID, err := workspace.Init(
		workspace.CLIDataDir(cfg), workspace.TaskRoot(projectDir), args[0])
	if err != nil {
		return err
	}

	// Orchestrators capture this output; print nothing else.
	fmt.Fprintln(cmd.OutOrStdout(), taskID)
	return nil
}

func runTaskCleanup(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	projectDir, err := workspace.ProjectDir(cfg)
	if err != nil {
		return err
	}

	removed, err := workspace.Cleanup(workspace.TaskRoot(projectDir), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", removed)
	return nil
}
