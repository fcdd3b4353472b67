package cmd

import (
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/superchargeai/supercharge/internal/config"
	"github.com/superchargeai/supercharge/internal/errors"
	"github.com/superchargeai/supercharge/internal/policy"
	"github.com/superchargeai/supercharge/internal/worker"
	"github.com/superchargeai/supercharge/internal/workspace"
)

var (
	subtaskTaskUUID string
	subtaskModel    string
)

var subtaskCmd = &cobra.Command{
	Use:   "subtask",
	Short: "Manage workers within a task",
}

var subtaskInitCmd = &cobra.Command{
	Use:   "init <agent_type> <prompt>",
	Short: "Spawn a new worker on a task; prints JSON {worker_id, result}",
	Args:  cobra.ExactArgs(2),
	RunE:  runSubtaskInit,
}

var subtaskResumeCmd = &cobra.Command{
	Use:   "resume <worker_id> <prompt>",
	Short: "Resume a deep worker by worker_id",
	Args:  cobra.ExactArgs(2),
	RunE:  runSubtaskResume,
}

func init() {
	subtaskInitCmd.Flags().StringVar(&subtaskTaskUUID, "task-uuid", "",
		"parent task UUID (agents pass this; workers get it from env)")
	subtaskInitCmd.Flags().StringVar(&subtaskModel, "model", "",
		"model override (sonnet, opus, haiku)")

	subtaskCmd.AddCommand(subtaskInitCmd)
	subtaskCmd.AddCommand(subtaskResumeCmd)
	rootCmd.AddCommand(subtaskCmd)
}

// resolveTaskUUID reconciles the --task-uuid flag with the environment
// signal injected into workers. Both present and disagreeing is a
// corrupted spawn chain.
func resolveTaskUUID(flagUUID string, cfg config.Config) (string, error) {
	envUUID := cfg.TaskUUID
	if flagUUID != "" && envUUID != "" && flagUUID != envUUID {
		return "", errors.New(errors.ErrCodeWorkerIDConflict,
			"--task-uuid ("+flagUUID+") conflicts with "+config.EnvTaskUUID+
				" env var ("+envUUID+")")
	}
	if flagUUID != "" {
		return flagUUID, nil
	}
	if envUUID != "" {
		return envUUID, nil
	}
	return "", errors.New(errors.ErrCodeWorkspaceNotFound,
		"task UUID required").
		WithSuggestion("Pass --task-uuid or set " + config.EnvTaskUUID)
}

func runSubtaskInit(cmd *cobra.Command, args []string) error {
	agentType, prompt := args[0], args[1]
	cfg := loadConfig()

	taskUUID, err := resolveTaskUUID(subtaskTaskUUID, cfg)
	if err != nil {
		return err
	}

	fast := policy.IsFastModel(cfg, subtaskModel)

	remaining := 1
	if !fast {
		remaining, err = policy.RemainingDepth(cfg)
		if err != nil {
			return err
		}
		if err := policy.CheckSpawnBudget(remaining); err != nil {
			return err
		}
	}

	projectDir, err := workspace.ProjectDir(cfg)
	if err != nil {
		return err
	}
	taskDir := workspace.FindTask(workspace.TaskRoot(projectDir), taskUUID)
	if taskDir == "" {
		return errors.NewTaskNotFoundError(taskUUID)
	}

	role, _ := policy.ParseRole(agentType)
	workerID := uuid.NewString()
	dataDir := workspace.CLIDataDir(cfg)

	opts := worker.Options{
		TaskDir:        taskDir,
		Role:           role,
		WorkerID:       workerID,
		ProjectRoot:    projectDir,
		DataDir:        dataDir,
		RemainingDepth: remaining,
		MaxTurns:       cfg.MaxTurns,
		Model:          subtaskModel,
		Fast:           fast,
	}

	var workerPrompt string
	if fast {
		workerPrompt = worker.BuildFastPrompt(taskDir, agentType, prompt)
	} else {
		workerFile, err := workspace.PrepareWorkerFile(dataDir, taskDir, workerID, prompt)
		if err != nil {
			return err
		}
		workerPrompt = worker.BuildDeepPrompt(taskDir, agentType, workerFile, prompt, remaining)
	}

	result, err := worker.Run(cmd.Context(), opts, workerPrompt)
	if err != nil {
		return err
	}
	return worker.WriteResult(cmd.OutOrStdout(), result)
}

func runSubtaskResume(cmd *cobra.Command, args []string) error {
	workerID, prompt := args[0], args[1]
	cfg := loadConfig()

	projectDir, err := workspace.ProjectDir(cfg)
	if err != nil {
		return err
	}

	workerFile := workspace.FindWorkerFile(workspace.TaskRoot(projectDir), workerID)
	if workerFile == "" {
		return errors.NewWorkerNotFoundError(workerID)
	}

	// <task_root>/<agent_type>/<uuid>/workers/<worker_id>.md
	taskDir := filepath.Dir(filepath.Dir(workerFile))
	agentType := filepath.Base(filepath.Dir(taskDir))
	role, _ := policy.ParseRole(agentType)

	remaining, err := policy.RemainingDepth(cfg)
	if err != nil {
		return err
	}

	opts := worker.Options{
		TaskDir:        taskDir,
		Role:           role,
		WorkerID:       workerID,
		ProjectRoot:    projectDir,
		DataDir:        workspace.CLIDataDir(cfg),
		RemainingDepth: remaining,
		MaxTurns:       cfg.MaxTurns,
		Resume:         true,
	}

	result, err := worker.Run(cmd.Context(), opts, prompt)
	if err != nil {
		return err
	}
	return worker.WriteResult(cmd.OutOrStdout(), result)
}
