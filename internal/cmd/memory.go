package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/superchargeai/supercharge/internal/errors"
	"github.com/superchargeai/supercharge/internal/policy"
	"github.com/superchargeai/supercharge/internal/transcript"
	"github.com/superchargeai/supercharge/internal/version"
	"github.com/superchargeai/supercharge/internal/worker"
	"github.com/superchargeai/supercharge/internal/workspace"
)

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Background memory harvesting commands",
}

var memoryRunCmd = &cobra.Command{
	Use:   "run <task_uuid>",
	Short: "Run the memory agent on a task workspace (background process)",
	Args:  cobra.ExactArgs(1),
	RunE:  runMemoryRun,
}

var memoryStampCmd = &cobra.Command{
	Use:   "stamp <transcript_path>",
	Short: "Mark a transcript as reviewed by appending a stamp entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runMemoryStamp,
}

func init() {
	memoryCmd.AddCommand(memoryRunCmd)
	memoryCmd.AddCommand(memoryStampCmd)
	rootCmd.AddCommand(memoryCmd)
}

func runMemoryRun(cmd *cobra.Command, args []string) error {
	taskUUID := args[0]
	cfg := loadConfig()

	projectDir, err := workspace.ProjectDir(cfg)
	if err != nil {
		return err
	}
	taskDir := workspace.FindTask(workspace.TaskRoot(projectDir), taskUUID)
	if taskDir == "" {
		return errors.NewTaskNotFoundError(taskUUID)
	}

	workerID := uuid.NewString()
	dataDir := workspace.CLIDataDir(cfg)

	workerFile, err := workspace.PrepareWorkerFile(dataDir, taskDir, workerID,
		"Harvest memory per task.md.")
	if err != nil {
		return err
	}

	opts := worker.Options{
		TaskDir:     taskDir,
		Role:        policy.RoleMemory,
		WorkerID:    workerID,
		ProjectRoot: projectDir,
		DataDir:     dataDir,
		// The memory agent runs detached and never recurses.
		RemainingDepth: 1,
		MaxTurns:       cfg.MaxTurns,
	}

	prompt := worker.BuildDeepPrompt(taskDir, "memory", workerFile,
		"Read task.md and harvest the listed transcripts and folders into the memory directory. "+
			"Stamp each finished transcript with `supercharge memory stamp <path>` and remove "+
			"harvested task folders with `supercharge task cleanup <uuid>`.", 1)

	result, err := worker.Run(cmd.Context(), opts, prompt)
	if err != nil {
		return err
	}
	if result.Error != "" {
		return errors.New(errors.ErrCodeWorkerNoResult, "memory agent failed: "+result.Error)
	}
	return nil
}

func runMemoryStamp(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return errors.Wrap(errors.ErrCodeTranscriptNotFound, "transcript "+path, err)
	}

	if err := transcript.Stamp(path, version.Version, time.Now()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Stamped %s\n", path)
	return nil
}
