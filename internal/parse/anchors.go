package parse

import (
	"regexp"
	"sort"
)

// Block labels produced by segmentation.
const (
	blockPrincipal  = "principal"
	blockAgent      = "agent"
	blockCremation  = "cremation"
	blockDurability = "durability"
	blockNotary     = "notary"
	blockWitness    = "witness"
	blockExecution  = "execution"
	blockExpiration = "expiration"
)

// anchor locates the start of a semantic block. Segmentation is keyword
// driven, not NLP: a block runs from its anchor to the next anchor or the end
// of the document. Recall on creatively-worded documents is a documented
// limitation of this approach.
type anchor struct {
	label   string
	pattern *regexp.Regexp
}

var anchorTable = []anchor{
	{blockPrincipal, regexp.MustCompile(`(?im)\b(?:know all (?:men|persons) by these presents|i,\s+the undersigned|^\s*principal(?:'s)?\s*(?:name)?\s*:)`)},
	{blockAgent, regexp.MustCompile(`(?i)\b(?:do(?:es)?\s+hereby\s+(?:appoint|designate)|hereby\s+(?:appoint|designate)s?|as\s+my\s+(?:agent|attorney[- ]in[- ]fact))\b`)},
	{blockCremation, regexp.MustCompile(`(?i)\b(?:cremat(?:ion|e|ed)|disposition\s+of\s+(?:my|the|his|her|their)\s+(?:remains|body)|final\s+arrangements|funeral\s+arrangements)\b`)},
	{blockDurability, regexp.MustCompile(`(?i)\b(?:this\s+power\s+of\s+attorney\s+(?:is|shall\s+be)\s+durable|shall\s+not\s+be\s+affected\s+by\s+(?:my\s+)?(?:subsequent\s+)?(?:incapacity|disability)|notwithstanding\s+(?:my\s+)?(?:subsequent\s+)?(?:incapacity|disability)|surviv\w+\s+(?:my\s+)?(?:incapacity|disability))`)},
	{blockNotary, regexp.MustCompile(`(?i)(?:acknowledged\s+before\s+me|subscribed\s+and\s+sworn|notary\s+public|state\s+of\s+[a-z .]+[,)\n]\s*county\s+of)`)},
	{blockWitness, regexp.MustCompile(`(?im)^\s*witness(?:\s*(?:#|no\.?)?\s*\d+)?(?:\s+(?:signature|name))?\s*:`)},
	{blockExecution, regexp.MustCompile(`(?i)\b(?:executed\s+(?:on|this)|signed\s+(?:on|this)|date\s+of\s+execution|in\s+witness\s+whereof.{0,60}?this)`)},
	{blockExpiration, regexp.MustCompile(`(?i)(?:this\s+power\s+of\s+attorney\s+(?:shall\s+)?expires?|expires?\s+on|expiration\s+date|valid\s+until|shall\s+terminate\s+on)`)},
}

// segment is one captured block: the anchored span up to the next anchor.
type segment struct {
	label string
	start int
	text  string
}

// segmentText finds every anchor occurrence and captures the span from each
// anchor to the next one (any label) or end of document. Occurrences keep
// document order, so repeated blocks (witnesses) come out as repeated
// segments.
func segmentText(text string) []segment {
	type hit struct {
		label string
		start int
	}
	var hits []hit
	for _, a := range anchorTable {
		for _, loc := range a.pattern.FindAllStringIndex(text, -1) {
			hits = append(hits, hit{label: a.label, start: loc[0]})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].start < hits[j].start })

	segs := make([]segment, 0, len(hits))
	for i, h := range hits {
		end := len(text)
		if i+1 < len(hits) {
			end = hits[i+1].start
		}
		if end <= h.start {
			continue
		}
		segs = append(segs, segment{label: h.label, start: h.start, text: text[h.start:end]})
	}
	return segs
}

// segmentsByLabel filters segments in document order.
func segmentsByLabel(segs []segment, label string) []segment {
	var out []segment
	for _, s := range segs {
		if s.label == label {
			out = append(out, s)
		}
	}
	return out
}

// firstSegment returns the first segment with the label, or nil.
func firstSegment(segs []segment, label string) *segment {
	for i := range segs {
		if segs[i].label == label {
			return &segs[i]
		}
	}
	return nil
}
