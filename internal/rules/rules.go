package rules

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/tributecare/poa-validator/constants"
	"github.com/tributecare/poa-validator/internal/extract"
	"github.com/tributecare/poa-validator/internal/notary"
	"github.com/tributecare/poa-validator/internal/parse"
)

// Result is one rule's outcome. Reason is set only on failure.
type Result struct {
	RuleID string
	Passed bool
	Reason constants.ReasonCode
}

// Config holds the engine's thresholds. Zero values take the documented
// defaults in NewEngine.
type Config struct {
	MinLegibilityConfidence float64       // default 60 (0..100 scale)
	LookupTimeout           time.Duration // per commission lookup, default 5s
	Now                     func() time.Time
}

// Engine evaluates the fixed rule catalog. Rules are independent and run in
// catalog order for deterministic output; all rules run, there is no
// short-circuit inside the engine.
type Engine struct {
	cfg    Config
	lookup notary.Lookup
	logger *slog.Logger
}

func NewEngine(cfg Config, lookup notary.Lookup, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MinLegibilityConfidence <= 0 {
		cfg.MinLegibilityConfidence = 60
	}
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = 5 * time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Engine{cfg: cfg, lookup: lookup, logger: logger}
}

// Rule IDs, in catalog order. Verdict reasons preserve this order.
const (
	RuleNotaryPresence       = "notary_presence"
	RuleNotaryCompleteness   = "notary_completeness"
	RuleCommissionValidity   = "notary_commission_validity"
	RuleNotaryAgentConflict  = "notary_agent_conflict"
	RuleWitnessPresence      = "witness_presence"
	RuleWitnessAgentConflict = "witness_agent_conflict"
	RuleCremationAuthority   = "cremation_authority"
	RuleVerbiageSpecificity  = "verbiage_specificity"
	RuleExpiration           = "expiration"
	RuleLegibility           = "legibility"
)

// Evaluate runs every rule against the parsed fields and extraction result.
// The returned slice always has one entry per catalog rule, in catalog order.
func (e *Engine) Evaluate(ctx context.Context, f parse.Fields, res extract.Result) []Result {
	return []Result{
		e.notaryPresence(f),
		e.notaryCompleteness(f),
		e.commissionValidity(ctx, f),
		e.notaryAgentConflict(f),
		e.witnessPresence(f),
		e.witnessAgentConflict(f),
		e.cremationAuthority(f),
		e.verbiageSpecificity(f),
		e.expiration(f),
		e.legibility(res),
	}
}

func pass(id string) Result { return Result{RuleID: id, Passed: true} }

func fail(id string, reason constants.ReasonCode) Result {
	return Result{RuleID: id, Passed: false, Reason: reason}
}

func (e *Engine) notaryPresence(f parse.Fields) Result {
	if f.Notary == nil {
		return fail(RuleNotaryPresence, constants.ReasonNotaryMissing)
	}
	return pass(RuleNotaryPresence)
}

// notaryCompleteness requires a well-formed commission number and a county.
// A malformed commission token fails here, never as "missing". When the
// notary block is absent entirely the rule passes vacuously: presence already
// reported the failure.
func (e *Engine) notaryCompleteness(f parse.Fields) Result {
	n := f.Notary
	if n == nil {
		return pass(RuleNotaryCompleteness)
	}
	if n.CommissionNumber == "" || !n.CommissionWellFormed || n.County == "" {
		return fail(RuleNotaryCompleteness, constants.ReasonNotaryIncomplete)
	}
	return pass(RuleNotaryCompleteness)
}

// commissionValidity verifies the commission against the injected registry as
// of the notarization date. It evaluates only when a well-formed commission
// number exists; missing or malformed numbers are the completeness rule's
// concern. A registry failure or timeout degrades to
// NOTARY_VERIFICATION_UNAVAILABLE rather than silently passing or failing.
func (e *Engine) commissionValidity(ctx context.Context, f parse.Fields) Result {
	n := f.Notary
	if n == nil || n.CommissionNumber == "" || !n.CommissionWellFormed {
		return pass(RuleCommissionValidity)
	}

	asOf := dateOf(e.cfg.Now())
	if n.NotarizedDate != nil {
		asOf = *n.NotarizedDate
	}

	lctx, cancel := context.WithTimeout(ctx, e.cfg.LookupTimeout)
	defer cancel()

	rec, err := e.lookup.LookupCommission(lctx, n.CommissionNumber, asOf)
	if err != nil {
		e.logger.Warn("commission lookup failed",
			"commission", n.CommissionNumber, "error", err)
		return fail(RuleCommissionValidity, constants.ReasonNotaryVerification)
	}

	switch rec.Status {
	case notary.StatusActive:
		return pass(RuleCommissionValidity)
	case notary.StatusExpired:
		return fail(RuleCommissionValidity, constants.ReasonNotaryExpired)
	default:
		return fail(RuleCommissionValidity, constants.ReasonNotaryInvalidCommission)
	}
}

func (e *Engine) notaryAgentConflict(f parse.Fields) Result {
	if f.Notary == nil || f.Notary.Name == "" {
		return pass(RuleNotaryAgentConflict)
	}
	for _, agent := range f.Agents {
		if sameName(f.Notary.Name, agent) {
			return fail(RuleNotaryAgentConflict, constants.ReasonNotaryIsAgent)
		}
	}
	return pass(RuleNotaryAgentConflict)
}

func (e *Engine) witnessPresence(f parse.Fields) Result {
	if len(f.Witnesses) == 0 {
		return fail(RuleWitnessPresence, constants.ReasonWitnessMissing)
	}
	return pass(RuleWitnessPresence)
}

func (e *Engine) witnessAgentConflict(f parse.Fields) Result {
	for _, w := range f.Witnesses {
		if w.Name == "" {
			continue
		}
		for _, agent := range f.Agents {
			if sameName(w.Name, agent) {
				return fail(RuleWitnessAgentConflict, constants.ReasonWitnessIsAgent)
			}
		}
	}
	return pass(RuleWitnessAgentConflict)
}

func (e *Engine) cremationAuthority(f parse.Fields) Result {
	if f.CremationClause == nil {
		return fail(RuleCremationAuthority, constants.ReasonCremationMissing)
	}
	return pass(RuleCremationAuthority)
}

// verbiageSpecificity rejects clauses that grant only vague general authority
// ("final arrangements as he sees fit"). An absent clause passes vacuously;
// the authority rule already failed it.
func (e *Engine) verbiageSpecificity(f parse.Fields) Result {
	c := f.CremationClause
	if c == nil {
		return pass(RuleVerbiageSpecificity)
	}
	if !c.Explicit {
		return fail(RuleVerbiageSpecificity, constants.ReasonNonCompliantVerbiage)
	}
	return pass(RuleVerbiageSpecificity)
}

// expiration: an explicit expiration date must be on or after the validation
// date. Non-durable documents without an explicit expiration are open-ended.
func (e *Engine) expiration(f parse.Fields) Result {
	if f.ExpirationDate == nil {
		return pass(RuleExpiration)
	}
	today := dateOf(e.cfg.Now())
	if f.ExpirationDate.Before(today) {
		return fail(RuleExpiration, constants.ReasonPOAExpired)
	}
	return pass(RuleExpiration)
}

func (e *Engine) legibility(res extract.Result) Result {
	if res.Confidence == nil || *res.Confidence < e.cfg.MinLegibilityConfidence {
		return fail(RuleLegibility, constants.ReasonIllegibleContent)
	}
	return pass(RuleLegibility)
}

// sameName compares person names case-insensitively with collapsed
// whitespace.
func sameName(a, b string) bool {
	return normalizeName(a) == normalizeName(b)
}

func normalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// dateOf truncates to a UTC calendar date; comparisons are date-only.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
