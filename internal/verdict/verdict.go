package verdict

import (
	"github.com/google/uuid"

	"github.com/tributecare/poa-validator/constants"
	"github.com/tributecare/poa-validator/internal/extract"
	"github.com/tributecare/poa-validator/internal/rules"
)

// Status is the overall outcome of a validation run.
type Status string

const (
	StatusValid   Status = "valid"
	StatusInvalid Status = "invalid"
)

// Verdict is the engine's final answer. Constructed once per run, never
// mutated afterwards. Reasons preserve the rule-catalog order so output is
// stable and reproducible.
type Verdict struct {
	RunID      uuid.UUID              `json:"run_id"`
	Status     Status                 `json:"status"`
	Reasons    []constants.ReasonCode `json:"reasons"`
	Confidence *float64               `json:"confidence"`
}

// Unreadable builds the terminal verdict for a document-level failure. The
// field parser and rule engine never ran; the reason list is exactly
// [UNREADABLE_FILE] and confidence is undefined.
func Unreadable(runID uuid.UUID) Verdict {
	return Verdict{
		RunID:   runID,
		Status:  StatusInvalid,
		Reasons: []constants.ReasonCode{constants.ReasonUnreadableFile},
	}
}

// Aggregate folds the ordered rule results into one verdict: valid iff every
// rule passed. Performs no I/O and cannot fail.
func Aggregate(runID uuid.UUID, res extract.Result, results []rules.Result) Verdict {
	reasons := []constants.ReasonCode{}
	for _, r := range results {
		if !r.Passed && r.Reason != "" {
			reasons = append(reasons, r.Reason)
		}
	}
	status := StatusValid
	if len(reasons) > 0 {
		status = StatusInvalid
	}
	return Verdict{
		RunID:      runID,
		Status:     status,
		Reasons:    reasons,
		Confidence: res.Confidence,
	}
}
