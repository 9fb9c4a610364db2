package parse

import "regexp"

// Explicit cremation-authorization phrases. Detection is a curated pattern
// match, not semantic inference: the clause must bind an authorization verb to
// cremation or disposition of remains. Vague grants ("handle final
// arrangements as he sees fit") deliberately do not match. False negatives on
// creatively-worded but compliant documents are an accepted tradeoff.
var explicitCremationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bauthoriz\w*[^.;]{0,80}\bcremat(?:ion|e|ed)\b`),
	regexp.MustCompile(`(?i)\bcremat(?:ion|e)\b[^.;]{0,80}\bof\s+(?:my|the|his|her|their)\s+(?:body|remains)\b`),
	regexp.MustCompile(`(?i)\b(?:direct|order|arrange\s+for)\b[^.;]{0,80}\bcremat(?:ion|e|ed)\b`),
	regexp.MustCompile(`(?i)\bauthority\s+to\s+cremate\b`),
	regexp.MustCompile(`(?i)\bpower\s+to\s+(?:authorize|direct)\s+(?:the\s+)?cremation\b`),
}

// matchesExplicitCremation reports whether a clause span satisfies the
// curated explicit-authorization set.
func matchesExplicitCremation(span string) bool {
	for _, p := range explicitCremationPatterns {
		if p.MatchString(span) {
			return true
		}
	}
	return false
}
