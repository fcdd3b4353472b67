// Package cmd wires the supercharge CLI surface: workspace management,
// worker spawning, memory harvesting, and the hidden hook commands the
// Claude Code plugin invokes.
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/superchargeai/supercharge/internal/config"
	"github.com/superchargeai/supercharge/internal/workspace"
)

var rootCmd = &cobra.Command{
	Use:           "supercharge",
	Short:         "Multi-agent orchestration for Claude Code",
	Long:          `supercharge coordinates deep and fast AI workers over shared task workspaces, enforces per-role tool permissions, and harvests long-term memory from finished sessions.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with a cancellable context
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// loadConfig resolves the configuration chain for one invocation:
// defaults, then the optional config.yaml overlay in the data root,
// then the environment.
func loadConfig() config.Config {
	return config.Load(workspace.ConfigOverlayPath(config.FromEnv()))
}
