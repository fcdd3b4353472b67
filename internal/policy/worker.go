package policy

import (
	"path/filepath"
	"strings"

	"github.com/superchargeai/supercharge/internal/workspace"
)

// WorkerScope captures the filesystem boundaries one worker operates in.
// All paths are absolute.
type WorkerScope struct {
	Role        Role
	ProjectRoot string
	TaskDir     string
	WorkerID    string
}

// workerFile is the worker's own context file.
func (s WorkerScope) workerFile() string {
	return filepath.Join(s.TaskDir, "workers", s.WorkerID+".md")
}

// workerSubdir is the worker's private scratch directory, with a
// trailing separator so prefix checks cannot match sibling workers.
func (s WorkerScope) workerSubdir() string {
	return filepath.Join(s.TaskDir, "workers", s.WorkerID) + string(filepath.Separator)
}

func (s WorkerScope) memoryDir() string {
	return workspace.MemoryDir(s.ProjectRoot) + string(filepath.Separator)
}

// CheckWorkerTool enforces the in-worker tool policy: workers never
// create task workspaces, and Write/Edit stays inside the role's write
// scope. Every other call is allowed; the worker's allowed-tools list
// already restricts which tools exist at all.
func CheckWorkerTool(scope WorkerScope, toolName string, input ToolInput) Decision {
	if toolName == "Bash" && strings.Contains(input.Command, "supercharge task init") {
		return Deny("Only the orchestrator creates task workspaces.")
	}

	if toolName == "Write" || toolName == "Edit" {
		return checkWrite(scope, input.FilePath)
	}

	return Allow("")
}

func checkWrite(scope WorkerScope, filePath string) Decision {
	switch scope.Role.Policy().WriteScope {
	case ScopeProject:
		if scope.ProjectRoot != "" && !strings.HasPrefix(filePath, scope.ProjectRoot) {
			return Deny("Write restricted to project: " + scope.ProjectRoot)
		}

	case ScopeMemory:
		if !strings.HasPrefix(filePath, scope.memoryDir()) &&
			filePath != scope.workerFile() &&
			!strings.HasPrefix(filePath, scope.workerSubdir()) {
			return Deny("Write restricted to memory dir and context file.")
		}

	default: // ScopeContext
		if filePath != scope.workerFile() && !strings.HasPrefix(filePath, scope.workerSubdir()) {
			return Deny("Write restricted to context file.")
		}
	}

	return Allow("")
}
