package workspace

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/superchargeai/supercharge/internal/errors"
)

// Init creates a new task workspace under tasks/<role>/ and returns its
// UUID. Only the orchestrator calls this; workers are denied by policy.
func Init(dataDir, taskRoot, role string) (string, error) {
	taskID := uuid.NewString()
	taskDir := filepath.Join(taskRoot, role, taskID)

	if err := os.MkdirAll(taskDir, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeWorkspaceInitFailed, "failed to create task workspace", err)
	}

	for _, name := range []string{"task.md", "notes.md", "result.md"} {
		if err := CopyTemplate(dataDir, name, filepath.Join(taskDir, name)); err != nil {
			return "", err
		}
	}

	return taskID, nil
}

// Cleanup removes a task workspace after memory harvesting.
//
// The UUID format is validated and the resolved path is re-verified to lie
// strictly inside the task root at delete time, so a symlinked or
// traversal-crafted directory is never removed.
func Cleanup(taskRoot, taskID string) (string, error) {
	if !ValidUUID(taskID) {
		return "", errors.NewInvalidUUIDError(taskID)
	}

	taskDir := FindTask(taskRoot, taskID)
	if taskDir == "" {
		return "", errors.NewTaskNotFoundError(taskID)
	}

	if !insideRoot(taskDir, taskRoot) {
		return "", errors.NewWorkspaceEscapeError(taskDir, taskRoot)
	}

	if err := os.RemoveAll(taskDir); err != nil {
		return "", errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to remove "+taskDir, err)
	}
	return taskDir, nil
}

// insideRoot reports whether dir resolves to a path strictly inside root.
func insideRoot(dir, root string) bool {
	resolvedDir, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return false
	}
	resolvedRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(resolvedRoot, resolvedDir)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// PrepareWorkerFile creates the deep-worker context file from the worker
// template and inserts the assignment under its heading.
func PrepareWorkerFile(dataDir, taskDir, workerID, prompt string) (string, error) {
	workersDir := filepath.Join(taskDir, "workers")
	if err := os.MkdirAll(workersDir, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeDirectoryFailed, "failed to create workers dir", err)
	}

	workerFile := filepath.Join(workersDir, workerID+".md")
	if err := CopyTemplate(dataDir, "worker.md", workerFile); err != nil {
		return "", err
	}

	data, err := os.ReadFile(workerFile)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileReadFailed, "failed to read "+workerFile, err)
	}
	content := strings.Replace(string(data),
		"## Assignment\n",
		"## Assignment\n\n"+prompt+"\n",
		1)
	if err := os.WriteFile(workerFile, []byte(content), 0o644); err != nil {
		return "", errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to write "+workerFile, err)
	}
	return workerFile, nil
}
