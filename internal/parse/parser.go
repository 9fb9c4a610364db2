package parse

import (
	"regexp"
	"strings"

	"github.com/tributecare/poa-validator/internal/extract"
)

// Parser turns acquired text into Fields. It is stateless; the type exists so
// the pipeline can take the parser as an injected dependency.
type Parser struct{}

func NewParser() *Parser { return &Parser{} }

func (*Parser) Parse(res extract.Result) Fields {
	return ParseText(res.Text)
}

var (
	reAgentName = regexp.MustCompile(`(?:[Aa]ppoint|[Dd]esignate)s?\s+(?:my\s+[a-z]+,?\s+)?([A-Z][a-zA-Z.'-]*(?:[ \t]+[A-Z][a-zA-Z.'-]*){1,3})`)

	reWitnessName = regexp.MustCompile(`:[ \t]*_*[ \t]*([A-Z][a-zA-Z.'-]*(?:[ \t]+[A-Z][a-zA-Z.'-]*){1,3})`)
)

const principalSpanMax = 240

// ParseText segments the document by anchor phrases and extracts the semantic
// fields. Pure function of the text: it never fails, and a field the text
// does not contain simply stays absent.
func ParseText(text string) Fields {
	segs := segmentText(text)

	f := Fields{
		Witnesses: []Witness{},
	}

	if s := firstSegment(segs, blockPrincipal); s != nil {
		f.Principal = clipSpan(s.text, principalSpanMax)
	}

	f.Agents = parseAgents(text)

	if s := firstSegment(segs, blockCremation); s != nil {
		span := strings.TrimSpace(s.text)
		f.CremationClause = &Clause{
			Text:     span,
			Explicit: matchesExplicitCremation(span),
		}
	}

	if s := firstSegment(segs, blockDurability); s != nil {
		f.DurabilityClause = &Clause{Text: strings.TrimSpace(s.text), Explicit: true}
	}

	// An acknowledgment block usually trips several notary anchors (venue
	// header, "acknowledged before me", the signature line), which splits it
	// into adjacent segments. Parse them as one span.
	if notarySegs := segmentsByLabel(segs, blockNotary); len(notarySegs) > 0 {
		spans := make([]string, len(notarySegs))
		for i, s := range notarySegs {
			spans[i] = s.text
		}
		f.Notary = parseNotary(strings.Join(spans, "\n"))
	}

	for _, s := range segmentsByLabel(segs, blockWitness) {
		f.Witnesses = append(f.Witnesses, parseWitness(s.text))
	}

	if s := firstSegment(segs, blockExecution); s != nil {
		f.ExecutionDate = findDate(s.text)
	}
	if s := firstSegment(segs, blockExpiration); s != nil {
		f.ExpirationDate = findDate(s.text)
	}

	return f
}

// parseAgents scans the whole document: agents can be appointed across
// several sentences (primary, successor, co-agents). Duplicates are dropped
// case-insensitively, order of first appearance kept.
func parseAgents(text string) []string {
	var agents []string
	seen := map[string]struct{}{}
	for _, m := range reAgentName.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		agents = append(agents, name)
	}
	return agents
}

// parseWitness extracts one witness record from an anchored block: the name
// after the signature label and any nearby date.
func parseWitness(span string) Witness {
	w := Witness{}
	if m := reWitnessName.FindStringSubmatch(span); m != nil {
		w.Name = strings.TrimSpace(m[1])
	}
	w.Date = findDate(span)
	return w
}

func clipSpan(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) > max {
		s = strings.TrimSpace(s[:max])
	}
	return s
}
