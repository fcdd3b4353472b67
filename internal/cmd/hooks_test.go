package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func preToolUsePayload(toolName, toolInput, mode string) string {
	return `{"hook_event_name":"PreToolUse","tool_name":"` + toolName +
		`","tool_input":` + toolInput + `,"permission_mode":"` + mode + `"}`
}

func TestHookPreToolUseAllow(t *testing.T) {
	stdin := preToolUsePayload("Bash", `{"command":"supercharge task init code"}`, "default")

	out, err := execute(t, stdin, "hook-pre-tool-use")
	if err != nil {
		t.Fatalf("hook failed: %v", err)
	}

	var decoded map[string]map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	hso := decoded["hookSpecificOutput"]
	if hso["permissionDecision"] != "allow" {
		t.Errorf("decision = %v, want allow", hso["permissionDecision"])
	}
	if hso["hookEventName"] != "PreToolUse" {
		t.Errorf("event = %v, want PreToolUse", hso["hookEventName"])
	}
}

func TestHookPreToolUseDeny(t *testing.T) {
	stdin := preToolUsePayload("Task",
		`{"subagent_type":"supercharge-ai:review","prompt":"no marker"}`, "default")

	out, err := execute(t, stdin, "hook-pre-tool-use")
	if err != nil {
		t.Fatalf("hook failed: %v", err)
	}
	if !strings.Contains(out, `"permissionDecision":"deny"`) {
		t.Errorf("expected deny, got %q", out)
	}
}

func TestHookPreToolUsePassThroughIsSilent(t *testing.T) {
	stdin := preToolUsePayload("Read", `{"file_path":"/p/main.go"}`, "default")

	out, err := execute(t, stdin, "hook-pre-tool-use")
	if err != nil {
		t.Fatalf("hook failed: %v", err)
	}
	if out != "" {
		t.Errorf("pass-through produced output: %q", out)
	}
}

const (
	workerSessionTask = "12345678-90ab-cdef-1234-567890abcdef"
	workerSessionID   = "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"
)

// setupWorkerSession builds a task workspace and sets the env signals a
// spawned deep worker runs under. Returns the worker context file path.
func setupWorkerSession(t *testing.T, role string) (projectDir, workerFile string) {
	t.Helper()
	projectDir = t.TempDir()
	taskDir := filepath.Join(projectDir, ".claude", "SuperchargeAI", "tasks", role, workerSessionTask)
	if err := os.MkdirAll(filepath.Join(taskDir, "workers"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CLAUDE_PROJECT_DIR", projectDir)
	t.Setenv("SUPERCHARGE_TASK_UUID", workerSessionTask)
	t.Setenv("SUPERCHARGE_WORKER_ID", workerSessionID)
	return projectDir, filepath.Join(taskDir, "workers", workerSessionID+".md")
}

func TestHookPreToolUseWorkerWriteOutsideScope(t *testing.T) {
	projectDir, _ := setupWorkerSession(t, "plan")
	stdin := preToolUsePayload("Write",
		`{"file_path":"`+filepath.Join(projectDir, "src", "main.go")+`"}`, "acceptEdits")

	out, err := execute(t, stdin, "hook-pre-tool-use")
	if err != nil {
		t.Fatalf("hook failed: %v", err)
	}
	if !strings.Contains(out, `"permissionDecision":"deny"`) {
		t.Fatalf("expected deny, got %q", out)
	}
	if !strings.Contains(out, "Write restricted to context file.") {
		t.Errorf("deny reason missing, got %q", out)
	}
}

func TestHookPreToolUseWorkerWriteContextFile(t *testing.T) {
	_, workerFile := setupWorkerSession(t, "plan")
	stdin := preToolUsePayload("Write", `{"file_path":"`+workerFile+`"}`, "acceptEdits")

	out, err := execute(t, stdin, "hook-pre-tool-use")
	if err != nil {
		t.Fatalf("hook failed: %v", err)
	}
	if !strings.Contains(out, `"permissionDecision":"allow"`) {
		t.Errorf("context file write should be allowed, got %q", out)
	}
}

func TestHookPreToolUseWorkerTaskInitDenied(t *testing.T) {
	setupWorkerSession(t, "code")
	stdin := preToolUsePayload("Bash", `{"command":"supercharge task init code"}`, "acceptEdits")

	out, err := execute(t, stdin, "hook-pre-tool-use")
	if err != nil {
		t.Fatalf("hook failed: %v", err)
	}
	if !strings.Contains(out, `"permissionDecision":"deny"`) {
		t.Fatalf("expected deny inside worker session, got %q", out)
	}
	if !strings.Contains(out, "Only the orchestrator creates task workspaces.") {
		t.Errorf("deny reason missing, got %q", out)
	}
}

func TestHookPreToolUseMalformedStdin(t *testing.T) {
	if _, err := execute(t, "{broken", "hook-pre-tool-use"); err == nil {
		t.Error("expected error on malformed payload")
	}
}

func TestHookSubagentStartInjectsPrompts(t *testing.T) {
	dataDir := t.TempDir()
	promptsDir := filepath.Join(dataDir, "prompts")
	if err := os.MkdirAll(promptsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(promptsDir, "protocol.md"), []byte("shared rules"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(promptsDir, "agent.md"), []byte("agent brief"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CLAUDE_PLUGIN_ROOT", dataDir)

	out, err := execute(t, `{"hook_event_name":"SubagentStart"}`, "hook-subagent-start")
	if err != nil {
		t.Fatalf("hook failed: %v", err)
	}
	if !strings.Contains(out, "shared rules") || !strings.Contains(out, "agent brief") {
		t.Errorf("context missing prompts: %q", out)
	}
	if !strings.Contains(out, "<supercharge-ai>") {
		t.Errorf("context not wrapped: %q", out)
	}
}

func TestHookSubagentStartNoPromptsIsSilent(t *testing.T) {
	t.Setenv("CLAUDE_PLUGIN_ROOT", t.TempDir())

	out, err := execute(t, `{"hook_event_name":"SubagentStart"}`, "hook-subagent-start")
	if err != nil {
		t.Fatalf("hook failed: %v", err)
	}
	if out != "" {
		t.Errorf("expected no output, got %q", out)
	}
}
