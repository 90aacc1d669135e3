package hooks

import (
	"github.com/aki/hookrunner/internal/core/event"
)

// Aggregate folds per-check results into one decision for the event.
//
// The fold is monotone: Allow can only degrade to AllowWithWarnings
// and then Deny, never recover. A block classification denies the
// event only when its hook is marked blocking; advisory hooks that
// block degrade the decision to AllowWithWarnings instead, keeping
// the exit-code contract honest without handing every hook a veto.
func (r *Registry) Aggregate(kind event.Kind, results []CheckResult) (Decision, error) {
	decision := Decision{
		Overall: Allow,
		Results: results,
	}

	for _, res := range results {
		def, ok := r.Lookup(kind, res.HookName)
		if !ok {
			return Decision{}, ErrUnknownHook{Event: kind, Name: res.HookName}
		}

		switch res.Classification {
		case ClassPass:
			// Leaves the decision untouched

		case ClassWarn:
			if decision.Overall == Allow {
				decision.Overall = AllowWithWarnings
			}

		case ClassBlock:
			if def.Blocking {
				decision.Overall = Deny
			} else if decision.Overall == Allow {
				decision.Overall = AllowWithWarnings
			}
		}
	}

	return decision, nil
}
