package worker

import (
	"fmt"
	"strings"

	"github.com/superchargeai/supercharge/internal/workspace"
)

// BuildSystemPrompt composes the system prompt appended to every
// spawned worker: the shared protocol plus the worker role brief.
func BuildSystemPrompt(dataDir string) string {
	protocol := workspace.ReadPrompt(dataDir, "protocol.md")
	role := workspace.ReadPrompt(dataDir, "worker.md")

	var parts []string
	for _, p := range []string{protocol, role} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return "<supercharge-ai>\n" + strings.Join(parts, "") + "\n</supercharge-ai>"
}

// BuildDeepPrompt composes the initial prompt for a deep worker. The
// budget note tells the worker whether it may spawn sub-workers with
// what remains after its own slot is deducted.
func BuildDeepPrompt(taskDir, role, workerFile, assignment string, remainingDepth int) string {
	budget := remainingDepth - 1
	var depthNote string
	if budget > 0 {
		depthNote = fmt.Sprintf(
			"Recursion budget: %d levels remaining. To spawn sub-workers: "+
				"`supercharge subtask init <agent_type> \"<prompt>\" --model <model>` "+
				"(SUPERCHARGE_TASK_UUID is auto-set in your env)", budget)
	} else {
		depthNote = "Recursion budget: 0. You cannot spawn sub-workers."
	}

	return fmt.Sprintf(
		"You are a **deep** worker assisting a `%s` agent.\n"+
			"Task workspace: %s/\n"+
			"Your context file: %s\n"+
			"%s\n"+
			"Read task.md for full requirements.\n\n"+
			"Your assignment: %s",
		role, taskDir, workerFile, depthNote, assignment)
}

// BuildFastPrompt composes the initial prompt for a fast worker, which
// has no context file and no recursion budget.
func BuildFastPrompt(taskDir, role, assignment string) string {
	return fmt.Sprintf(
		"You are a **fast** worker assisting a `%s` agent.\n"+
			"Task workspace: %s/\n"+
			"Recursion budget: 0. You cannot spawn sub-workers.\n"+
			"No context file; return the result directly.\n"+
			"Read task.md for full requirements.\n\n"+
			"Your assignment: %s",
		role, taskDir, assignment)
}
