package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/superchargeai/supercharge/internal/settings"
)

var permissionsCmd = &cobra.Command{
	Use:   "permissions",
	Short: "Manage SuperchargeAI tool permissions in ~/.claude/settings.json",
}

var permissionsRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove SuperchargeAI permission entries from ~/.claude/settings.json",
	RunE:  runPermissionsRemove,
}

func init() {
	permissionsCmd.AddCommand(permissionsRemoveCmd)
	rootCmd.AddCommand(permissionsCmd)
}

func runPermissionsRemove(cmd *cobra.Command, args []string) error {
	settingsPath, err := settings.UserPath()
	if err != nil {
		return err
	}
	removed, err := settings.Remove(settingsPath)
	if err != nil {
		return err
	}
	if removed > 0 {
		fmt.Fprintf(cmd.OutOrStdout(),
			"Removed %d SuperchargeAI permission(s) from %s.\n", removed, settingsPath)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "No SuperchargeAI permissions found in settings.json.")
	}
	return nil
}
