package negotiation

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// The supplier capability is asked to emit structured JSON, but chat
// output drifts. Extraction runs a fixed chain over the raw reply and
// the first extractor that recovers any contract term wins.

// Extractor attempts to recover contract terms from one supplier reply.
type Extractor interface {
	Extract(reply string) (Candidate, bool)
}

// ExtractCandidate runs the default extractor chain over a reply.
// The second return is false when no extractor found anything.
func ExtractCandidate(reply string) (Candidate, bool) {
	for _, ex := range defaultExtractors {
		if c, ok := ex.Extract(reply); ok {
			return c, true
		}
	}
	return Candidate{}, false
}

var defaultExtractors = []Extractor{
	jsonBodyExtractor{},
	fencedJSONExtractor{},
	patternExtractor{},
}

// jsonBodyExtractor handles replies that are a single JSON object,
// either the contract itself or an envelope with a "contract" field.
type jsonBodyExtractor struct{}

func (jsonBodyExtractor) Extract(reply string) (Candidate, bool) {
	return candidateFromJSON(strings.TrimSpace(reply))
}

// fencedJSONExtractor pulls the first ```json fenced block out of a
// prose reply and parses it like a JSON body.
type fencedJSONExtractor struct{}

var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

func (fencedJSONExtractor) Extract(reply string) (Candidate, bool) {
	m := fenceRe.FindStringSubmatch(reply)
	if m == nil {
		return Candidate{}, false
	}
	return candidateFromJSON(m[1])
}

func candidateFromJSON(body string) (Candidate, bool) {
	if !strings.HasPrefix(body, "{") {
		return Candidate{}, false
	}

	var raw map[string]any
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return Candidate{}, false
	}

	if inner, ok := raw["contract"].(map[string]any); ok {
		raw = inner
	}

	c := candidateFromMap(raw)
	if c.Empty() {
		return Candidate{}, false
	}
	return c, true
}

// patternExtractor scrapes labelled numbers out of free-form prose,
// e.g. "wholesale price of $24.50" or "buyback: 10/unit". It is the
// last resort and only fires when a wholesale figure is present.
type patternExtractor struct{}

var (
	wholesaleRe = regexp.MustCompile(`(?i)wholesale(?:\s+price)?\s*(?:of|at|is|:|=)?\s*\$?(\d+(?:\.\d+)?)`)
	buybackRe   = regexp.MustCompile(`(?i)buy[\s-]?back(?:\s+price)?\s*(?:of|at|is|:|=)?\s*\$?(\d+(?:\.\d+)?)`)
	lengthRe    = regexp.MustCompile(`(?i)(\d+)[\s-]*(?:round|period)s?\b`)
	shareRe     = regexp.MustCompile(`(?i)(?:revenue[\s-]*shar\w*|share)\s*(?:of|at|is|:|=)?\s*(\d+(?:\.\d+)?)\s*(%)?`)
	capRe       = regexp.MustCompile(`(?i)(?:return\s+)?cap\s*(?:of|at|is|:|=)?\s*(\d+(?:\.\d+)?)\s*(%)?`)
)

func (patternExtractor) Extract(reply string) (Candidate, bool) {
	var c Candidate

	if m := wholesaleRe.FindStringSubmatch(reply); m != nil {
		v := mustParse(m[1])
		c.WholesalePrice = &v
	}
	if c.WholesalePrice == nil {
		return Candidate{}, false
	}

	if m := buybackRe.FindStringSubmatch(reply); m != nil {
		v := mustParse(m[1])
		c.BuybackPrice = &v
	}
	if m := lengthRe.FindStringSubmatch(reply); m != nil {
		n, _ := strconv.Atoi(m[1])
		c.Length = &n
	}
	if m := shareRe.FindStringSubmatch(reply); m != nil {
		v := mustParse(m[1])
		if m[2] == "%" || v > 1 {
			v /= 100
		}
		c.RevenueShare = &v
	}
	if m := capRe.FindStringSubmatch(reply); m != nil {
		v := mustParse(m[1])
		if m[2] == "%" || v > 1 {
			v /= 100
		}
		c.CapValue = &v
	}

	return c, true
}

func mustParse(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
