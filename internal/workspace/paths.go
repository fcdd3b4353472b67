// Package workspace resolves on-disk locations for task data and prompts,
// and owns the task workspace lifecycle.
//
// Layout: <project>/.claude/SuperchargeAI/tasks/<role>/<uuid>/{task.md,
// notes.md, result.md, workers/<worker-uuid>.md} plus a sibling memory/
// tree for harvested long-term notes.
package workspace

import (
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/superchargeai/supercharge/internal/config"
	"github.com/superchargeai/supercharge/internal/errors"
)

// Marker is the absolute-path segment identifying workspace files.
// The permission engine allows Write/Edit on any path containing it.
const Marker = "/.claude/SuperchargeAI/"

// uuidRe matches the canonical lowercase 8-4-4-4-12 textual UUID format.
// Destructive operations validate with this, not a lenient parser.
var uuidRe = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidUUID reports whether s is a canonical lowercase UUID.
func ValidUUID(s string) bool {
	return uuidRe.MatchString(s)
}

// ProjectDir resolves the project root.
// Priority: CLAUDE_PROJECT_DIR env -> git toplevel -> cwd.
func ProjectDir(cfg config.Config) (string, error) {
	if cfg.ProjectDir != "" {
		return cfg.ProjectDir, nil
	}
	if out, err := exec.Command("git", "rev-parse", "--show-toplevel").Output(); err == nil {
		if top := strings.TrimSpace(string(out)); top != "" {
			return top, nil
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.NewNoProjectRootError()
	}
	return cwd, nil
}

// Root returns the runtime data directory <project>/.claude/SuperchargeAI.
func Root(projectDir string) string {
	return filepath.Join(projectDir, ".claude", "SuperchargeAI")
}

// TaskRoot returns the directory holding per-role task workspaces.
func TaskRoot(projectDir string) string {
	return filepath.Join(Root(projectDir), "tasks")
}

// MemoryDir returns the harvested long-term notes tree.
func MemoryDir(projectDir string) string {
	return filepath.Join(Root(projectDir), "memory")
}

// HookDataDir returns the prompts directory root for hook execution.
// Hooks run with CLAUDE_PLUGIN_ROOT set by the host; SUPERCHARGE_ROOT
// overrides for development, then the plugin cache is probed.
func HookDataDir(cfg config.Config) string {
	if cfg.PluginRoot != "" {
		return cfg.PluginRoot
	}
	if cfg.DataRoot != "" {
		return cfg.DataRoot
	}
	if dir := pluginCacheDir(); dir != "" {
		return dir
	}
	return CLIDataDir(cfg)
}

// CLIDataDir returns the prompts/templates root for CLI commands, where
// CLAUDE_PLUGIN_ROOT is not reliably available.
func CLIDataDir(cfg config.Config) string {
	if cfg.DataRoot != "" {
		return cfg.DataRoot
	}
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Join(filepath.Dir(exe), "data")
		if isDir(filepath.Join(dir, "prompts")) {
			return dir
		}
	}
	if dir := pluginCacheDir(); dir != "" {
		return dir
	}
	return ""
}

// pluginCacheDir probes ~/.claude/plugins/cache for the newest installed
// plugin version that carries a prompts directory.
func pluginCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	cache := filepath.Join(home, ".claude", "plugins", "cache")
	marketplaces, err := os.ReadDir(cache)
	if err != nil {
		return ""
	}
	for _, marketplace := range marketplaces {
		if !marketplace.IsDir() {
			continue
		}
		pluginDir := filepath.Join(cache, marketplace.Name(), "supercharge-ai")
		versions, err := os.ReadDir(pluginDir)
		if err != nil {
			continue
		}
		names := make([]string, 0, len(versions))
		for _, v := range versions {
			if v.IsDir() {
				names = append(names, v.Name())
			}
		}
		sort.Sort(sort.Reverse(sort.StringSlice(names)))
		for _, name := range names {
			candidate := filepath.Join(pluginDir, name)
			if isDir(filepath.Join(candidate, "prompts")) {
				return candidate
			}
		}
	}
	return ""
}

// ConfigOverlayPath returns the optional operator config file location.
func ConfigOverlayPath(cfg config.Config) string {
	dir := CLIDataDir(cfg)
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// ReadPrompt reads a prompt file, returning an empty string if missing.
func ReadPrompt(dataDir, name string) string {
	if dataDir == "" {
		return ""
	}
	data, err := os.ReadFile(filepath.Join(dataDir, "prompts", name))
	if err != nil {
		return ""
	}
	return string(data)
}

// ReadTemplate reads a template file. Missing templates are an error:
// callers format task descriptions from them and cannot proceed blind.
func ReadTemplate(dataDir, name string) (string, error) {
	if dataDir == "" {
		return "", errors.New(errors.ErrCodeFileNotFound, "no data directory for template "+name).
			WithSuggestion("Set " + config.EnvDataRoot + " to the plugin data directory")
	}
	data, err := os.ReadFile(filepath.Join(dataDir, "templates", name))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileNotFound, "reading template "+name, err)
	}
	return string(data), nil
}

// CopyTemplate copies a template file into dest, creating an empty file
// when the template is missing.
func CopyTemplate(dataDir, name string, dest string) error {
	var data []byte
	if dataDir != "" {
		if b, err := os.ReadFile(filepath.Join(dataDir, "templates", name)); err == nil {
			data = b
		}
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to write "+dest, err)
	}
	return nil
}

// FindTask searches all role directories for a task UUID.
// Returns the task directory or "" when absent.
func FindTask(taskRoot, taskID string) string {
	roles, err := os.ReadDir(taskRoot)
	if err != nil {
		return ""
	}
	for _, role := range roles {
		if !role.IsDir() {
			continue
		}
		candidate := filepath.Join(taskRoot, role.Name(), taskID)
		if isDir(candidate) {
			return candidate
		}
	}
	return ""
}

// FindWorkerFile searches all task directories for a worker context file.
func FindWorkerFile(taskRoot, workerID string) string {
	roles, err := os.ReadDir(taskRoot)
	if err != nil {
		return ""
	}
	for _, role := range roles {
		if !role.IsDir() {
			continue
		}
		tasks, err := os.ReadDir(filepath.Join(taskRoot, role.Name()))
		if err != nil {
			continue
		}
		for _, task := range tasks {
			if !task.IsDir() {
				continue
			}
			candidate := filepath.Join(taskRoot, role.Name(), task.Name(), "workers", workerID+".md")
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate
			}
		}
	}
	return ""
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
