package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/superchargeai/supercharge/internal/config"
	"github.com/superchargeai/supercharge/internal/harvest"
	"github.com/superchargeai/supercharge/internal/hook"
	"github.com/superchargeai/supercharge/internal/policy"
	"github.com/superchargeai/supercharge/internal/transcript"
	"github.com/superchargeai/supercharge/internal/workspace"
)

var hookSessionStartCmd = &cobra.Command{
	Use:    "hook-session-start",
	Short:  "SessionStart hook: inject shared protocol + orchestrator prompt",
	Hidden: true,
	RunE:   runHookSessionStart,
}

var hookSubagentStartCmd = &cobra.Command{
	Use:    "hook-subagent-start",
	Short:  "SubagentStart hook: inject shared protocol + agent prompt",
	Hidden: true,
	RunE:   runHookSubagentStart,
}

var hookPreToolUseCmd = &cobra.Command{
	Use:    "hook-pre-tool-use",
	Short:  "PreToolUse hook: auto-approve SuperchargeAI tool calls",
	Hidden: true,
	RunE:   runHookPreToolUse,
}

func init() {
	rootCmd.AddCommand(hookSessionStartCmd)
	rootCmd.AddCommand(hookSubagentStartCmd)
	rootCmd.AddCommand(hookPreToolUseCmd)
}

// emitContext joins prompt files and writes the context injection,
// prepending the shared directive when one exists. Nothing is emitted
// when all prompt files are missing.
func emitContext(cmd *cobra.Command, event, dataDir string, promptNames ...string) error {
	var parts []string
	for _, name := range promptNames {
		if p := workspace.ReadPrompt(dataDir, name); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return nil
	}

	content := strings.Join(parts, "\n")
	if directive := workspace.ReadPrompt(dataDir, "directive.md"); directive != "" {
		content = directive + "\n" + content
	}
	return hook.WriteContext(cmd.OutOrStdout(), event, content)
}

func runHookSessionStart(cmd *cobra.Command, args []string) error {
	payload, err := hook.ReadPayload(cmd.InOrStdin())
	if err != nil {
		return err
	}
	cfg := loadConfig()

	if warning := harvest.CheckVersionSync(cfg.PluginRoot); warning != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), warning)
	}

	scheduleHarvest(cfg, payload.TranscriptPath)

	dataDir := workspace.HookDataDir(cfg)
	return emitContext(cmd, hook.EventSessionStart, dataDir, "protocol.md", "orchestrator.md")
}

func runHookSubagentStart(cmd *cobra.Command, args []string) error {
	if _, err := hook.ReadPayload(cmd.InOrStdin()); err != nil {
		return err
	}
	dataDir := workspace.HookDataDir(loadConfig())
	return emitContext(cmd, hook.EventSubagentStart, dataDir, "protocol.md", "agent.md")
}

func runHookPreToolUse(cmd *cobra.Command, args []string) error {
	payload, err := hook.ReadPayload(cmd.InOrStdin())
	if err != nil {
		return err
	}
	input := payload.PolicyInput()

	// Inside a spawned worker session the per-role write scope is
	// enforced here; a worker-side deny wins over every allow rule.
	if scope, ok := workerScope(loadConfig()); ok {
		if d := policy.CheckWorkerTool(scope, payload.ToolName, input); d.Verdict == policy.VerdictDeny {
			return hook.WriteDecision(cmd.OutOrStdout(), d)
		}
	}

	decision := policy.Evaluate(payload.ToolName, input, payload.Mode())
	return hook.WriteDecision(cmd.OutOrStdout(), decision)
}

// workerScope rebuilds the current worker's filesystem boundaries from
// the environment signals the spawner injected. ok is false outside a
// worker session or when the task workspace cannot be located; the
// caller then falls back to the orchestrator-session rules.
func workerScope(cfg config.Config) (policy.WorkerScope, bool) {
	if cfg.TaskUUID == "" || cfg.WorkerID == "" {
		return policy.WorkerScope{}, false
	}
	projectDir, err := workspace.ProjectDir(cfg)
	if err != nil {
		return policy.WorkerScope{}, false
	}
	taskDir := workspace.FindTask(workspace.TaskRoot(projectDir), cfg.TaskUUID)
	if taskDir == "" {
		return policy.WorkerScope{}, false
	}

	// <task_root>/<agent_type>/<uuid>; unknown types get the code policy.
	role, _ := policy.ParseRole(filepath.Base(filepath.Dir(taskDir)))
	return policy.WorkerScope{
		Role:        role,
		ProjectRoot: projectDir,
		TaskDir:     taskDir,
		WorkerID:    cfg.WorkerID,
	}, true
}

// scheduleHarvest spawns detached memory agents for unreviewed
// transcripts and stale task folders. Harvesting is opportunistic;
// every failure is swallowed so session start never blocks.
func scheduleHarvest(cfg config.Config, transcriptPath string) {
	projectDir, err := workspace.ProjectDir(cfg)
	if err != nil {
		return
	}
	dataDir := workspace.CLIDataDir(cfg)
	memoryDir := workspace.MemoryDir(projectDir)
	now := time.Now()

	if transcriptPath != "" {
		dir := filepath.Dir(transcriptPath)
		pending := transcript.ScanUnreviewed(
			os.DirFS(dir), ".", filepath.Base(transcriptPath), now, cfg.SessionAgeHours)
		for i := range pending {
			pending[i].Path = filepath.Join(dir, pending[i].Path)
		}
		if len(pending) > 0 {
			if content, err := harvest.FormatTranscriptTask(dataDir, pending, memoryDir); err == nil {
				harvest.SpawnBackground(content, projectDir)
			}
		}
	}

	taskRoot := workspace.TaskRoot(projectDir)
	stale := workspace.ScanStale(os.DirFS(taskRoot), now, cfg.StaleDays)
	for i := range stale {
		stale[i] = filepath.Join(taskRoot, stale[i])
	}
	if len(stale) > 0 {
		if content, err := harvest.FormatStaleTask(dataDir, stale, memoryDir); err == nil {
			harvest.SpawnBackground(content, projectDir)
		}
	}
}
