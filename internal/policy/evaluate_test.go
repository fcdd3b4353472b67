package policy

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

const workspacePrompt = "Work in /p/.claude/SuperchargeAI/tasks/code/aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee/"

func TestEvaluateBashCommands(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    Verdict
	}{
		{"cli command", "supercharge task init code", VerdictAllow},
		{"cli with flags", "supercharge subtask init --fast 'do it'", VerdictAllow},
		{"prefix only, no space", "supercharged --help", VerdictPassThrough},
		{"mid-command mention", "echo supercharge task init", VerdictPassThrough},
		{"unrelated command", "ls -la", VerdictPassThrough},
		{"empty command", "", VerdictPassThrough},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate("Bash", ToolInput{Command: tt.command}, "default")
			assert.Equal(t, tt.want, got.Verdict)
		})
	}
}

func TestEvaluateWriteEdit(t *testing.T) {
	workspaceFile := "/p/.claude/SuperchargeAI/tasks/code/aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee/notes.md"

	for _, tool := range []string{"Write", "Edit"} {
		got := Evaluate(tool, ToolInput{FilePath: workspaceFile}, "default")
		assert.Equal(t, VerdictAllow, got.Verdict, tool)
		assert.Equal(t, fmt.Sprintf("%s: SuperchargeAI workspace file", tool), got.Reason)

		got = Evaluate(tool, ToolInput{FilePath: "/p/src/main.go"}, "default")
		assert.Equal(t, VerdictPassThrough, got.Verdict, tool)
	}

	// Marker requires surrounding slashes.
	got := Evaluate("Write", ToolInput{FilePath: "/p/.claude/SuperchargeAI"}, "default")
	assert.Equal(t, VerdictPassThrough, got.Verdict)
}

func TestEvaluateTaskWorkspaceMarker(t *testing.T) {
	got := Evaluate("Task", ToolInput{
		SubagentType: "supercharge-ai:review",
		Prompt:       workspacePrompt,
	}, "default")
	assert.Equal(t, VerdictAllow, got.Verdict)

	got = Evaluate("Task", ToolInput{
		SubagentType: "supercharge-ai:review",
		Prompt:       "review the changes",
	}, "default")
	assert.Equal(t, VerdictDeny, got.Verdict)
	assert.Contains(t, got.Reason, "missing workspace path")
}

func TestEvaluateTaskForeignSubagent(t *testing.T) {
	got := Evaluate("Task", ToolInput{
		SubagentType: "other-plugin:deploy",
		Prompt:       "no marker here",
	}, "default")
	assert.Equal(t, VerdictPassThrough, got.Verdict)

	got = Evaluate("Task", ToolInput{}, "default")
	assert.Equal(t, VerdictPassThrough, got.Verdict)
}

func TestEvaluateTaskBackgroundProjectWriter(t *testing.T) {
	for _, role := range []string{"code", "document"} {
		got := Evaluate("Task", ToolInput{
			SubagentType:    "supercharge-ai:" + role,
			Prompt:          workspacePrompt,
			RunInBackground: true,
		}, "default")
		assert.Equal(t, VerdictDeny, got.Verdict, role)
		assert.Contains(t, got.Reason, "foreground")
		assert.Contains(t, got.Reason, role)
	}
}

// Flipping any single conjunct of the background gate changes deny to a
// non-deny outcome.
func TestBackgroundGateConjuncts(t *testing.T) {
	base := ToolInput{
		SubagentType:    "supercharge-ai:code",
		Prompt:          workspacePrompt,
		RunInBackground: true,
	}

	assert.Equal(t, VerdictDeny, Evaluate("Task", base, "default").Verdict)

	// Non-project-writing role: marker present, so allow.
	reader := base
	reader.SubagentType = "supercharge-ai:review"
	assert.Equal(t, VerdictAllow, Evaluate("Task", reader, "default").Verdict)

	// Foreground: allow.
	foreground := base
	foreground.RunInBackground = false
	assert.Equal(t, VerdictAllow, Evaluate("Task", foreground, "default").Verdict)

	// Autonomous permission modes: allow.
	for _, mode := range []string{"bypassPermissions", "dontAsk"} {
		assert.Equal(t, VerdictAllow, Evaluate("Task", base, mode).Verdict, mode)
	}

	// Other modes still deny.
	for _, mode := range []string{"default", "acceptEdits", "plan", ""} {
		assert.Equal(t, VerdictDeny, Evaluate("Task", base, mode).Verdict, mode)
	}
}

// An unrecognized role name must not inherit the code role's project
// write scope in the background gate.
func TestBackgroundGateUnknownRole(t *testing.T) {
	got := Evaluate("Task", ToolInput{
		SubagentType:    "supercharge-ai:experimental",
		Prompt:          workspacePrompt,
		RunInBackground: true,
	}, "default")
	assert.Equal(t, VerdictAllow, got.Verdict)
}

func TestBackgroundGatePrecedesMarkerCheck(t *testing.T) {
	// The gate fires even when the prompt carries the workspace path.
	got := Evaluate("Task", ToolInput{
		SubagentType:    "supercharge-ai:code",
		Prompt:          workspacePrompt,
		RunInBackground: true,
	}, "acceptEdits")
	assert.Equal(t, VerdictDeny, got.Verdict)
}

func TestEvaluateUnknownTool(t *testing.T) {
	for _, tool := range []string{"Read", "Glob", "WebSearch", "NotebookEdit", ""} {
		got := Evaluate(tool, ToolInput{}, "default")
		assert.Equal(t, VerdictPassThrough, got.Verdict, tool)
	}
}

func TestVerdictString(t *testing.T) {
	assert.Equal(t, "allow", VerdictAllow.String())
	assert.Equal(t, "deny", VerdictDeny.String())
	assert.Equal(t, "passthrough", VerdictPassThrough.String())
}
