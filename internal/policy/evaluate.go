package policy

import (
	"fmt"
	"strings"

	"github.com/superchargeai/supercharge/internal/workspace"
)

const (
	// CommandPrefix matches Bash invocations of the supercharge CLI.
	// Prefix match only: "echo supercharge ..." does not qualify.
	CommandPrefix = "supercharge "

	// AgentNamespace prefixes every subagent type the plugin owns.
	AgentNamespace = "supercharge-ai:"
)

// autonomousModes are host permission modes in which file writes never
// prompt the user, so background project-writers are safe to launch.
// bypassPermissions maps to --dangerously-skip-permissions, dontAsk to
// auto-approve mode.
var autonomousModes = map[string]bool{
	"bypassPermissions": true,
	"dontAsk":           true,
}

// ToolInput carries the fields of a PreToolUse tool_input the engine
// inspects. Absent fields stay zero-valued.
type ToolInput struct {
	Command         string
	FilePath        string
	SubagentType    string
	Prompt          string
	RunInBackground bool
}

// Evaluate maps one PreToolUse event to a permission decision. It is
// total over its inputs and never fails; anything it does not recognize
// passes through to the host's own permission flow.
func Evaluate(toolName string, input ToolInput, permissionMode string) Decision {
	switch toolName {
	case "Bash":
		if strings.HasPrefix(input.Command, CommandPrefix) {
			return Allow("Bash: supercharge CLI command")
		}
		return PassThrough()

	case "Write", "Edit":
		if strings.Contains(input.FilePath, workspace.Marker) {
			return Allow(fmt.Sprintf("%s: SuperchargeAI workspace file", toolName))
		}
		return PassThrough()

	case "Task":
		return evaluateTask(input, permissionMode)
	}

	return PassThrough()
}

// evaluateTask gates delegations to supercharge-ai subagents.
//
// A project-writing agent launched in the background under an
// interactive permission mode would silently fail on every Write/Edit
// outside the workspace, because the user cannot answer approval
// prompts for background tasks. Those delegations are denied with an
// instruction to run in the foreground. Otherwise the prompt must carry
// the workspace path; orchestrator prompt rules require it in every
// delegation.
func evaluateTask(input ToolInput, permissionMode string) Decision {
	if !strings.HasPrefix(input.SubagentType, AgentNamespace) {
		return PassThrough()
	}
	agentType := strings.TrimPrefix(input.SubagentType, AgentNamespace)

	if WritesProject(agentType) && input.RunInBackground && !autonomousModes[permissionMode] {
		return Deny(fmt.Sprintf(
			"Task: %s agent writes project files and cannot run in the background "+
				"under permission mode %q. Run it in the foreground so the user can "+
				"approve file writes.", agentType, permissionMode))
	}

	if strings.Contains(input.Prompt, workspace.Marker) {
		return Allow("Task: SuperchargeAI agent with workspace path")
	}
	return Deny("Task: SuperchargeAI agent missing workspace path in prompt.")
}
