package policy

import (
	"strings"

	"github.com/superchargeai/supercharge/internal/config"
)

// IsFastModel reports whether a model name selects fast
// (fire-and-forget) worker mode. Matching is case-insensitive substring
// over the configured fast-model set, so aliases like
// "claude-haiku-4-5" match "haiku". An empty model name is never fast,
// and an explicitly emptied fast-model set disables fast mode entirely.
func IsFastModel(cfg config.Config, model string) bool {
	if model == "" {
		return false
	}
	lower := strings.ToLower(model)
	for _, fast := range cfg.FastModelSet() {
		if fast != "" && strings.Contains(lower, fast) {
			return true
		}
	}
	return false
}
