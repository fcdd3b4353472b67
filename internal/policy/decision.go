// Package policy contains the pure decision functions gating tool use:
// the PreToolUse permission engine, per-role write scoping, the fast-mode
// classifier, and the recursion budget tracker. Nothing in this package
// touches the filesystem, the environment, or the network.
package policy

// Verdict is the outcome class of a permission decision.
type Verdict int

const (
	// VerdictPassThrough defers to the host's default permission flow.
	VerdictPassThrough Verdict = iota
	// VerdictAllow auto-approves the tool call.
	VerdictAllow
	// VerdictDeny blocks the tool call.
	VerdictDeny
)

// String returns the wire representation of the verdict.
func (v Verdict) String() string {
	switch v {
	case VerdictAllow:
		return "allow"
	case VerdictDeny:
		return "deny"
	default:
		return "passthrough"
	}
}

// Decision is a total, never-failing permission result.
type Decision struct {
	Verdict Verdict
	Reason  string
}

// Allow builds an auto-approve decision.
func Allow(reason string) Decision {
	return Decision{Verdict: VerdictAllow, Reason: reason}
}

// Deny builds a blocking decision.
func Deny(reason string) Decision {
	return Decision{Verdict: VerdictDeny, Reason: reason}
}

// PassThrough defers to the host default policy. No reason is carried;
// pass-through produces no hook output at all.
func PassThrough() Decision {
	return Decision{Verdict: VerdictPassThrough}
}
