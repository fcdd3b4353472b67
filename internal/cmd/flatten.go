package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/superchargeai/supercharge/internal/flatten"
)

var flattenMaxDepth int

var flattenCmd = &cobra.Command{
	Use:   "flatten <input_file> [output_file]",
	Short: "Resolve @path imports in markdown files into a single document",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runFlatten,
}

func init() {
	flattenCmd.Flags().IntVar(&flattenMaxDepth, "max-depth", flatten.DefaultMaxDepth,
		"maximum import recursion depth")
	rootCmd.AddCommand(flattenCmd)
}

func runFlatten(cmd *cobra.Command, args []string) error {
	output := ""
	if len(args) == 2 {
		output = args[1]
	}

	result, err := flatten.File(args[0], output, flattenMaxDepth)
	if err != nil {
		return err
	}
	if output == "" {
		fmt.Fprint(cmd.OutOrStdout(), result)
	}
	return nil
}
