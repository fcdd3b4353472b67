package policy

// Role is the closed set of agent roles. Unknown role strings fall back
// to the code policy at lookup time; the delegation gate treats them as
// non-project-writing.
type Role int

const (
	RoleCode Role = iota
	RolePlan
	RoleReview
	RoleDocument
	RoleResearch
	RoleConsistency
	RoleMemory
)

// WriteScope classifies where a deep worker may Write/Edit.
type WriteScope int

const (
	// ScopeProject allows writes anywhere under the project root.
	ScopeProject WriteScope = iota
	// ScopeMemory allows writes to the memory tree and the context file.
	ScopeMemory
	// ScopeContext allows writes to the worker context file only.
	ScopeContext
)

// RolePolicy is the static tool policy attached to a role.
// DeepTools gates deep workers; FastTools is always read-only.
type RolePolicy struct {
	DeepTools  []string
	FastTools  []string
	WriteScope WriteScope
}

var (
	readOnlyTools = []string{"Read", "Glob", "Grep"}
	webTools      = []string{"WebSearch", "WebFetch"}
)

// String returns the role's wire name.
func (r Role) String() string {
	switch r {
	case RolePlan:
		return "plan"
	case RoleReview:
		return "review"
	case RoleDocument:
		return "document"
	case RoleResearch:
		return "research"
	case RoleConsistency:
		return "consistency"
	case RoleMemory:
		return "memory"
	default:
		return "code"
	}
}

// ParseRole maps a role name to its Role. ok is false for unknown names;
// the returned Role is then the default (code).
func ParseRole(name string) (role Role, ok bool) {
	switch name {
	case "code":
		return RoleCode, true
	case "plan":
		return RolePlan, true
	case "review":
		return RoleReview, true
	case "document":
		return RoleDocument, true
	case "research":
		return RoleResearch, true
	case "consistency":
		return RoleConsistency, true
	case "memory":
		return RoleMemory, true
	default:
		return RoleCode, false
	}
}

// Policy returns the static policy record for the role.
func (r Role) Policy() RolePolicy {
	switch r {
	case RolePlan, RoleConsistency:
		return RolePolicy{
			DeepTools:  []string{"Read", "Write", "Glob", "Grep"},
			FastTools:  readOnlyTools,
			WriteScope: ScopeContext,
		}
	case RoleReview:
		return RolePolicy{
			DeepTools:  []string{"Read", "Write", "Bash", "Glob", "Grep"},
			FastTools:  readOnlyTools,
			WriteScope: ScopeContext,
		}
	case RoleDocument:
		return RolePolicy{
			DeepTools:  []string{"Read", "Write", "Edit", "Glob", "Grep"},
			FastTools:  readOnlyTools,
			WriteScope: ScopeProject,
		}
	case RoleResearch:
		return RolePolicy{
			DeepTools:  append([]string{"Read", "Write", "Glob", "Grep"}, webTools...),
			FastTools:  append(append([]string{}, readOnlyTools...), webTools...),
			WriteScope: ScopeContext,
		}
	case RoleMemory:
		return RolePolicy{
			DeepTools:  []string{"Read", "Write", "Edit", "Bash", "Glob", "Grep"},
			FastTools:  readOnlyTools,
			WriteScope: ScopeMemory,
		}
	default: // RoleCode and unknown roles
		return RolePolicy{
			DeepTools:  []string{"Read", "Write", "Edit", "Bash", "Glob", "Grep"},
			FastTools:  readOnlyTools,
			WriteScope: ScopeProject,
		}
	}
}

// WritesProject reports whether the role has unrestricted project writes.
// Only known roles qualify: an unknown name must not inherit the code
// role's write scope in the delegation gate.
func WritesProject(name string) bool {
	role, ok := ParseRole(name)
	return ok && role.Policy().WriteScope == ScopeProject
}
