package parse

import "time"

// Fields is the parser's output. Absence of an optional sub-field (nil) is
// distinct from a present-but-invalid value; the rule engine relies on that
// distinction. Witnesses is never nil: zero occurrences yields an empty slice.
type Fields struct {
	Principal        string // free text naming the grantor; "" when not found
	Agents           []string
	CremationClause  *Clause
	DurabilityClause *Clause
	Notary           *Notary
	Witnesses        []Witness
	ExecutionDate    *time.Time
	ExpirationDate   *time.Time
}

// Clause is a matched span of document text. Explicit reports whether the
// span matched the curated explicit-authorization phrase set; a clause that
// was located but reads as a vague grant of general authority has
// Explicit=false.
type Clause struct {
	Text     string
	Explicit bool
}

// Notary is the parsed acknowledgment block. CommissionNumber keeps the raw
// matched token even when malformed so "missing" and "invalid format" stay
// distinguishable downstream.
type Notary struct {
	Name                 string
	CommissionNumber     string
	CommissionWellFormed bool
	County               string
	ExpirationDate       *time.Time
	NotarizedDate        *time.Time
}

// Witness is one witness block occurrence.
type Witness struct {
	Name string
	Date *time.Time
}
