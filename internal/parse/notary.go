package parse

import (
	"regexp"
	"strings"
)

// commissionNumberLen is the fixed length of a well-formed commission number
// in the target jurisdiction.
const commissionNumberLen = 8

var (
	// Name words are kept on one line ([ \t] separators) so the capture does
	// not run across line breaks into the next labeled line.
	// "Notary Public: Jane Q. Smith" label form
	reNotaryNameAfter = regexp.MustCompile(`(?:[Nn]otary\s+[Pp]ublic|[Nn]otary)(?:\s+[Nn]ame)?\s*:[ \t]*_*[ \t]*([A-Z][a-zA-Z.'-]*(?:[ \t]+[A-Z][a-zA-Z.'-]*){1,3})`)
	// "Jane Q. Smith, Notary Public" signature form
	reNotaryNameBefore = regexp.MustCompile(`([A-Z][a-zA-Z.'-]*(?:[ \t]+[A-Z][a-zA-Z.'-]*){1,3}),\s*[Nn]otary\s+[Pp]ublic`)

	reCommission    = regexp.MustCompile(`(?i)commission\s*(?:#|no\.?|number)\s*:?\s*([A-Za-z0-9-]+)`)
	reCommissionExp = regexp.MustCompile(`(?i)(?:my\s+)?commission\s+expires?\s*(?:on)?\s*:?`)
	reCountyOf      = regexp.MustCompile(`(?i)county\s+of\s+([A-Z][a-zA-Z]*(?:\s+[A-Z][a-zA-Z]*)?)`)
	reCountyLabel   = regexp.MustCompile(`(?im)^\s*county\s*:\s*([A-Za-z][A-Za-z ]*[A-Za-z])`)

	reWellFormedCommission = regexp.MustCompile(`^\d{8}$`)
)

// parseNotary extracts the acknowledgment block. A malformed commission token
// is kept (CommissionWellFormed=false) rather than treated as absent, so the
// rule engine can tell "missing" from "invalid format".
func parseNotary(span string) *Notary {
	n := &Notary{}

	if m := reNotaryNameAfter.FindStringSubmatch(span); m != nil {
		n.Name = strings.TrimSpace(m[1])
	} else if m := reNotaryNameBefore.FindStringSubmatch(span); m != nil {
		n.Name = strings.TrimSpace(m[1])
	}

	if m := reCountyOf.FindStringSubmatch(span); m != nil {
		n.County = strings.TrimSpace(m[1])
	} else if m := reCountyLabel.FindStringSubmatch(span); m != nil {
		n.County = strings.TrimSpace(m[1])
	}

	if m := reCommission.FindStringSubmatch(span); m != nil {
		n.CommissionNumber = m[1]
		n.CommissionWellFormed = reWellFormedCommission.MatchString(m[1])
	}

	// The commission-expiration label splits the block: the notarization date
	// lives before it, the commission expiry after it.
	head, tail := span, ""
	if loc := reCommissionExp.FindStringIndex(span); loc != nil {
		head, tail = span[:loc[0]], span[loc[1]:]
	}
	n.NotarizedDate = findDate(head)
	if tail != "" {
		n.ExpirationDate = findDate(tail)
	}

	return n
}
