package supplier

import (
	"regexp"
	"strings"
)

// Replies go to students verbatim, so technical markers and markdown
// the model leaks despite instructions get stripped here.
var (
	completeMarkerRe = regexp.MustCompile(`(?i)negotiation_complete\s*:\s*yes`)
	contractMarkerRe = regexp.MustCompile(`(?i)CONTRACT_JSON\s*:?\s*`)
	inlineJSONRe     = regexp.MustCompile(`(?s)\{[^{}]*"wholesale_price"[^{}]*\}`)
	boldRe           = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicRe         = regexp.MustCompile(`\*([^*]+)\*`)
	bulletRe         = regexp.MustCompile(`(?m)^[\s]*[-*]\s*`)
	multiSpaceRe     = regexp.MustCompile(` +`)
	multiNewlineRe   = regexp.MustCompile(`\n{3,}`)
	spacePunctRe     = regexp.MustCompile(`\s+([.,!?;:])`)
)

// CleanMessage strips model artifacts from a reply, leaving plain
// conversational text. An empty result gets a friendly stand-in so the
// transcript never shows a blank supplier turn.
func CleanMessage(msg string) string {
	msg = completeMarkerRe.ReplaceAllString(msg, "")
	msg = contractMarkerRe.ReplaceAllString(msg, "")
	msg = inlineJSONRe.ReplaceAllString(msg, "")
	msg = boldRe.ReplaceAllString(msg, "$1")
	msg = italicRe.ReplaceAllString(msg, "$1")
	msg = bulletRe.ReplaceAllString(msg, "")
	msg = multiSpaceRe.ReplaceAllString(msg, " ")
	msg = multiNewlineRe.ReplaceAllString(msg, "\n\n")
	msg = spacePunctRe.ReplaceAllString(msg, "$1")

	cleaned := strings.TrimSpace(msg)
	low := strings.ToLower(cleaned)
	if cleaned == "" || low == "yes" || low == "negotiation complete" {
		return "Great! Let's proceed with these terms."
	}
	return cleaned
}
