// Package worker spawns deep and fast workers by driving the claude
// CLI in headless mode. Deep workers keep a context file and a stable
// session id so they can be resumed; fast workers are fire-and-forget.
package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/superchargeai/supercharge/internal/config"
	"github.com/superchargeai/supercharge/internal/errors"
	"github.com/superchargeai/supercharge/internal/policy"
)

// Result is the JSON object printed for the orchestrator after a worker
// run. Exactly one of Result and Error is set.
type Result struct {
	WorkerID string `json:"worker_id"`
	Result   string `json:"result,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Options describes one worker invocation.
type Options struct {
	TaskDir        string
	Role           policy.Role
	WorkerID       string
	ProjectRoot    string
	DataDir        string
	RemainingDepth int
	MaxTurns       int
	Model          string
	Fast           bool

	// Resume continues the session identified by WorkerID instead of
	// starting a new one.
	Resume bool
}

// cliResult is the subset of the claude CLI's JSON output we read.
type cliResult struct {
	IsError bool   `json:"is_error"`
	Result  string `json:"result"`
}

// Args builds the claude CLI argument list for one invocation.
// Deep workers get the role's deep tool list and their worker id as the
// session id; fast workers get the read-only list and no session.
func Args(opts Options, prompt string) []string {
	rolePolicy := opts.Role.Policy()

	tools := rolePolicy.DeepTools
	if opts.Fast {
		tools = rolePolicy.FastTools
	}

	args := []string{
		"-p", prompt,
		"--output-format", "json",
		"--permission-mode", "acceptEdits",
		"--allowed-tools", strings.Join(tools, ","),
	}
	if !opts.Fast {
		if opts.Resume {
			args = append(args, "--resume", opts.WorkerID)
		} else {
			args = append(args, "--session-id", opts.WorkerID)
		}
	}
	if opts.ProjectRoot != "" {
		args = append(args, "--add-dir", opts.ProjectRoot)
	}
	if opts.Model != "" {
		args = append(args, "--model", opts.Model)
	}
	if opts.MaxTurns > 0 {
		args = append(args, "--max-turns", strconv.Itoa(opts.MaxTurns))
	}
	if system := BuildSystemPrompt(opts.DataDir); system != "" {
		args = append(args, "--append-system-prompt", system)
	}
	return args
}

// Env builds the child environment. The spawned worker sees one less
// level of recursion budget than its parent; fast workers are pinned to
// zero through childBudget.
func Env(opts Options) []string {
	env := append(os.Environ(),
		config.EnvRemaining+"="+strconv.Itoa(childBudget(opts)),
		config.EnvTaskUUID+"="+filepath.Base(opts.TaskDir),
	)
	// Deep workers carry their id so the pre-tool-use hook inside the
	// worker session can rebuild the write scope. Fast workers have no
	// context file and run without Write in their tool set.
	if !opts.Fast && opts.WorkerID != "" {
		env = append(env, config.EnvWorkerID+"="+opts.WorkerID)
	}
	if opts.ProjectRoot != "" {
		env = append(env, config.EnvProjectDir+"="+opts.ProjectRoot)
	}
	return env
}

func childBudget(opts Options) int {
	if opts.Fast {
		return 0
	}
	budget := opts.RemainingDepth - 1
	if budget < 0 {
		budget = 0
	}
	return budget
}

// Run executes one worker to completion and returns its result. The
// worker runs with the task directory as its working directory. An
// is_error result from the CLI becomes Result.Error, not a Go error;
// only failures to run or parse are errors here.
func Run(ctx context.Context, opts Options, prompt string) (Result, error) {
	cmd := exec.CommandContext(ctx, "claude", Args(opts, prompt)...)
	cmd.Dir = opts.TaskDir
	cmd.Env = Env(opts)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	var parsed cliResult
	if err := json.Unmarshal(stdout.Bytes(), &parsed); err != nil {
		if runErr != nil {
			return Result{}, errors.Wrap(errors.ErrCodeWorkerSpawnFailed,
				"worker process failed: "+strings.TrimSpace(stderr.String()), runErr).
				WithSuggestion("Check that the claude CLI is installed and on PATH")
		}
		return Result{}, errors.Wrap(errors.ErrCodeWorkerNoResult,
			"no result returned from worker", err)
	}

	if parsed.IsError {
		return Result{WorkerID: opts.WorkerID, Error: parsed.Result}, nil
	}
	return Result{WorkerID: opts.WorkerID, Result: parsed.Result}, nil
}

// WriteResult prints a worker result as one JSON object on w.
func WriteResult(w io.Writer, result Result) error {
	if err := json.NewEncoder(w).Encode(result); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "encoding worker result", err)
	}
	return nil
}
