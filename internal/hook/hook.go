// Package hook implements the Claude Code hook wire protocol: one JSON
// payload on stdin, at most one JSON decision or context object on
// stdout. Emitting nothing is a valid outcome and means pass-through.
package hook

import (
	"encoding/json"
	"io"

	"github.com/superchargeai/supercharge/internal/errors"
	"github.com/superchargeai/supercharge/internal/policy"
)

// Event names the hook protocol uses.
const (
	EventSessionStart  = "SessionStart"
	EventSubagentStart = "SubagentStart"
	EventPreToolUse    = "PreToolUse"
)

// Payload is the event object the host writes to the hook's stdin.
// Fields not present in a given event type stay zero-valued.
type Payload struct {
	SessionID      string          `json:"session_id"`
	TranscriptPath string          `json:"transcript_path"`
	Cwd            string          `json:"cwd"`
	HookEventName  string          `json:"hook_event_name"`
	ToolName       string          `json:"tool_name"`
	ToolInput      json.RawMessage `json:"tool_input"`
	PermissionMode string          `json:"permission_mode"`
}

// toolInput mirrors the tool_input fields the permission engine needs.
type toolInput struct {
	Command         string `json:"command"`
	FilePath        string `json:"file_path"`
	SubagentType    string `json:"subagent_type"`
	Prompt          string `json:"prompt"`
	RunInBackground bool   `json:"run_in_background"`
}

// ReadPayload decodes the event payload from r. The host always sends
// one; a hook must consume it even when it produces no output.
func ReadPayload(r io.Reader) (Payload, error) {
	var p Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Payload{}, errors.Wrap(errors.ErrCodeFileReadFailed,
			"decoding hook payload", err)
	}
	return p, nil
}

// PolicyInput extracts the fields the permission engine inspects.
// Unknown or absent fields decode to zero values; a tool_input that is
// not an object yields an empty input rather than an error, keeping the
// hook total over whatever the host sends.
func (p Payload) PolicyInput() policy.ToolInput {
	var in toolInput
	if len(p.ToolInput) > 0 {
		_ = json.Unmarshal(p.ToolInput, &in)
	}
	return policy.ToolInput{
		Command:         in.Command,
		FilePath:        in.FilePath,
		SubagentType:    in.SubagentType,
		Prompt:          in.Prompt,
		RunInBackground: in.RunInBackground,
	}
}

// Mode returns the payload's permission mode, defaulting when absent.
func (p Payload) Mode() string {
	if p.PermissionMode == "" {
		return "default"
	}
	return p.PermissionMode
}

type hookSpecificOutput struct {
	HookEventName            string `json:"hookEventName"`
	PermissionDecision       string `json:"permissionDecision,omitempty"`
	PermissionDecisionReason string `json:"permissionDecisionReason,omitempty"`
	AdditionalContext        string `json:"additionalContext,omitempty"`
}

type output struct {
	HookSpecificOutput hookSpecificOutput `json:"hookSpecificOutput"`
}

// WriteDecision emits a permission decision for a PreToolUse event.
// Pass-through verdicts write nothing.
func WriteDecision(w io.Writer, d policy.Decision) error {
	if d.Verdict == policy.VerdictPassThrough {
		return nil
	}
	return write(w, hookSpecificOutput{
		HookEventName:            EventPreToolUse,
		PermissionDecision:       d.Verdict.String(),
		PermissionDecisionReason: d.Reason,
	})
}

// WriteContext emits an additionalContext injection for a session or
// subagent start event. The content is wrapped in the plugin's tag so
// the model can attribute the instructions.
func WriteContext(w io.Writer, event, content string) error {
	return write(w, hookSpecificOutput{
		HookEventName:     event,
		AdditionalContext: "<supercharge-ai>\n" + content + "\n</supercharge-ai>",
	})
}

func write(w io.Writer, out hookSpecificOutput) error {
	if err := json.NewEncoder(w).Encode(output{HookSpecificOutput: out}); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "encoding hook output", err)
	}
	return nil
}
