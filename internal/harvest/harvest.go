// Package harvest turns session-start scan results into background
// memory work: formatting task descriptions from templates, spawning
// the detached memory agent, and checking plugin/CLI version sync.
package harvest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/superchargeai/supercharge/internal/log"
	"github.com/superchargeai/supercharge/internal/transcript"
	"github.com/superchargeai/supercharge/internal/version"
	"github.com/superchargeai/supercharge/internal/workspace"
)

const spawnTimeout = 10 * time.Second

// FormatTranscriptTask renders the transcript-harvesting task body.
// Partially reviewed transcripts carry their resume line so the agent
// skips content already harvested.
func FormatTranscriptTask(dataDir string, pending []transcript.Pending, memoryDir string) (string, error) {
	template, err := workspace.ReadTemplate(dataDir, "memory-transcript-task.md")
	if err != nil {
		return "", err
	}

	var list strings.Builder
	for _, p := range pending {
		if p.ResumeLine > 0 {
			fmt.Fprintf(&list, "- `%s` (start reading from line %d -- skip previously reviewed content)\n",
				p.Path, p.ResumeLine)
		} else {
			fmt.Fprintf(&list, "- `%s`\n", p.Path)
		}
	}

	return expand(template, map[string]string{
		"transcript_list": strings.TrimRight(list.String(), "\n"),
		"memory_dir":      memoryDir,
	}), nil
}

// FormatStaleTask renders the stale-folder harvesting task body.
func FormatStaleTask(dataDir string, folders []string, memoryDir string) (string, error) {
	template, err := workspace.ReadTemplate(dataDir, "memory-stale-task.md")
	if err != nil {
		return "", err
	}

	items := make([]string, len(folders))
	for i, folder := range folders {
		items[i] = "- `" + folder + "`"
	}

	return expand(template, map[string]string{
		"folder_list": strings.Join(items, "\n"),
		"memory_dir":  memoryDir,
	}), nil
}

// expand substitutes {name} placeholders in a template.
func expand(template string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for name, value := range values {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// SpawnBackground creates a memory task workspace and launches a fully
// detached memory agent on it.
//
// It shells out to the CLI rather than calling into workspace directly
// so the spawned tree matches what an operator gets from the same
// commands. Returns the task UUID, or "" on any failure; session start
// must never block or fail on harvesting problems, so errors are
// logged and swallowed.
func SpawnBackground(taskContent, projectDir string) string {
	logger := log.DefaultLogger()

	ctx, cancel := context.WithTimeout(context.Background(), spawnTimeout)
	defer cancel()

	initCmd := exec.CommandContext(ctx, "supercharge", "task", "init", "memory")
	initCmd.Env = append(os.Environ(), "CLAUDE_PROJECT_DIR="+projectDir)
	var stdout, stderr bytes.Buffer
	initCmd.Stdout = &stdout
	initCmd.Stderr = &stderr

	if err := initCmd.Run(); err != nil {
		logger.WithError(err).Warn("memory task init failed",
			"stderr", strings.TrimSpace(stderr.String()))
		return ""
	}

	taskUUID := strings.TrimSpace(stdout.String())
	if !workspace.ValidUUID(taskUUID) {
		logger.Warn("memory task init returned no usable UUID", "output", taskUUID)
		return ""
	}

	taskMD := filepath.Join(workspace.TaskRoot(projectDir), "memory", taskUUID, "task.md")
	if err := os.WriteFile(taskMD, []byte(taskContent), 0o644); err != nil {
		logger.WithError(err).Warn("writing memory task.md failed")
		return ""
	}

	runCmd := exec.Command("supercharge", "memory", "run", taskUUID)
	runCmd.Env = append(os.Environ(), "CLAUDE_PROJECT_DIR="+projectDir)
	runCmd.Stdin = nil
	runCmd.Stdout = nil
	runCmd.Stderr = nil
	detach(runCmd)

	if err := runCmd.Start(); err != nil {
		logger.WithError(err).Warn("background memory spawn failed")
		return ""
	}
	// Detached: the agent outlives this hook process.
	_ = runCmd.Process.Release()

	return taskUUID
}

// pluginManifest is the subset of .claude-plugin/plugin.json we read.
type pluginManifest struct {
	Version string `json:"version"`
}

// CheckVersionSync compares the installed CLI version against the
// plugin manifest under pluginRoot. Returns a warning string for the
// user, or "" when versions agree or no manifest is reachable.
func CheckVersionSync(pluginRoot string) string {
	if pluginRoot == "" {
		return ""
	}
	data, err := os.ReadFile(filepath.Join(pluginRoot, ".claude-plugin", "plugin.json"))
	if err != nil {
		return ""
	}
	var manifest pluginManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return ""
	}

	cliVersion := version.Version
	if manifest.Version != "" && manifest.Version != cliVersion {
		return fmt.Sprintf(
			"[SuperchargeAI] Version mismatch: CLI=%s, plugin=%s. Update the supercharge CLI.",
			cliVersion, manifest.Version)
	}
	return ""
}
