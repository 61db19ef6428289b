// Package extractor pulls competitor records out of model output that is meant
// to be a JSON array but frequently is not.
package extractor

import (
	"encoding/json"
	"regexp"
	"strings"

	"CompanyInsights/internal/model"
)

// A value is any run of characters without an unescaped double quote.
const quotedValue = `"((?:[^"\\]|\\.)*)"`

var candidatePattern = regexp.MustCompile(
	`\{\s*"competitor"\s*:\s*` + quotedValue + `\s*,\s*"reasoning"\s*:\s*` + quotedValue + `\s*\}`,
)

// Extract returns one candidate per {"competitor": ..., "reasoning": ...}
// object found in raw, in order of appearance. Objects whose competitor is
// blank are dropped. The result is never nil.
func Extract(raw string) []model.Candidate {
	matches := candidatePattern.FindAllStringSubmatch(raw, -1)
	out := make([]model.Candidate, 0, len(matches))
	for _, m := range matches {
		c := model.Candidate{
			Competitor: strings.TrimSpace(unescape(m[1])),
			Reasoning:  strings.TrimSpace(unescape(m[2])),
		}
		if c.Competitor == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// unescape decodes JSON escape sequences, keeping the raw text when the
// escaping is broken.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var decoded string
	if err := json.Unmarshal([]byte(`"`+s+`"`), &decoded); err != nil {
		return s
	}
	return decoded
}
