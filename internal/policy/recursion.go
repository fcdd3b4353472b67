package policy

import (
	"strconv"

	"github.com/superchargeai/supercharge/internal/config"
	"github.com/superchargeai/supercharge/internal/errors"
)

// RemainingDepth resolves the recursion budget for spawning workers.
//
// A set SUPERCHARGE_RECURSION_REMAINING means we are inside a worker
// and its value is the budget verbatim. Unset means orchestrator level:
// the configured maximum applies. A remaining value that is present but
// not an integer is a corrupted spawn chain and reported as such rather
// than silently reset.
func RemainingDepth(cfg config.Config) (int, error) {
	if cfg.RecursionRemaining != "" {
		n, err := strconv.Atoi(cfg.RecursionRemaining)
		if err != nil {
			return 0, errors.Wrap(errors.ErrCodeRecursionBadSignal,
				"invalid "+config.EnvRemaining+" value "+strconv.Quote(cfg.RecursionRemaining), err).
				WithSuggestion("Unset " + config.EnvRemaining + " or set it to an integer")
		}
		return n, nil
	}
	return cfg.MaxRecursionDepth, nil
}

// CheckSpawnBudget rejects worker spawning once the budget is spent.
// Children inherit remaining-1; fast workers are always spawned with a
// zero budget so they can never recurse.
func CheckSpawnBudget(remaining int) error {
	if remaining <= 0 {
		return errors.NewRecursionExhaustedError()
	}
	return nil
}
