package llm

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode"

	"github.com/ppiankov/factcheck/internal/model"
)

// FallbackSource is attached to verdicts the model did not return as JSON
const FallbackSource = "Perplexity Sonar Analysis"

// FallbackConfidence is used when the model answer could not be parsed
const FallbackConfidence = 75

// ParseClaimList turns a numbered list into claims.
// Only lines with a digit in their first three characters count; the
// enumerator ("1.", "2)") is stripped.
func ParseClaimList(content string) []string {
	var claims []string

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !numberedPrefix(line) {
			continue
		}
		if claim := stripEnumerator(line); claim != "" {
			claims = append(claims, claim)
		}
	}

	return claims
}

// numberedPrefix reports whether a digit appears in the first three characters
func numberedPrefix(line string) bool {
	n := 0
	for _, r := range line {
		if n == 3 {
			break
		}
		if unicode.IsDigit(r) {
			return true
		}
		n++
	}
	return false
}

// listMarkers are bullets and dashes that may precede an enumerator
const listMarkers = "-*\u2022\u2013\u2014#_ "

// emphasis wraps markdown-bold or italic enumerators such as **3.**
const emphasis = "*_"

func stripEnumerator(line string) string {
	line = strings.TrimSpace(strings.TrimLeft(line, listMarkers))
	rest := strings.TrimLeftFunc(line, unicode.IsDigit)
	if rest == line {
		return line
	}
	rest = strings.TrimLeft(rest, emphasis)
	if strings.HasPrefix(rest, ".") || strings.HasPrefix(rest, ")") || strings.HasPrefix(rest, ":") {
		return strings.TrimSpace(strings.TrimLeft(rest[1:], emphasis))
	}
	// A claim that merely starts with a number, e.g. "1969 was the year..."
	return line
}

// rawVerdict tolerates the loose shapes models produce
type rawVerdict struct {
	Verdict     string          `json:"verdict"`
	Confidence  json.RawMessage `json:"confidence"`
	Explanation string          `json:"explanation"`
	Sources     json.RawMessage `json:"sources"`
}

// ParseVerdict decodes a JSON verdict from model output.
// Code fences and surrounding prose are ignored. If no JSON object can be
// decoded, the raw text becomes the explanation of a fallback verdict.
func ParseVerdict(content string) model.VerdictDetail {
	content = strings.TrimSpace(content)

	if obj, ok := jsonObject(content); ok {
		var raw rawVerdict
		if err := json.Unmarshal([]byte(obj), &raw); err == nil && raw.Verdict != "" {
			return model.VerdictDetail{
				Verdict:     raw.Verdict,
				Confidence:  parseConfidence(raw.Confidence),
				Explanation: raw.Explanation,
				Sources:     parseSources(raw.Sources),
			}
		}
	}

	return model.VerdictDetail{
		Verdict:     model.VerdictAnalysisComplete,
		Confidence:  FallbackConfidence,
		Explanation: content,
		Sources:     []string{FallbackSource},
	}
}

// jsonObject extracts the outermost {...} span
func jsonObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

func parseConfidence(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}

	return 0
}

func parseSources(raw json.RawMessage) []string {
	sources := []string{}
	if len(raw) == 0 {
		return sources
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		var single string
		if err := json.Unmarshal(raw, &single); err == nil && strings.TrimSpace(single) != "" {
			sources = append(sources, strings.TrimSpace(single))
		}
		return sources
	}

	for _, item := range list {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			if s = strings.TrimSpace(s); s != "" {
				sources = append(sources, s)
			}
			continue
		}

		// Objects like {"title": ..., "url": ...}
		var obj map[string]any
		if err := json.Unmarshal(item, &obj); err == nil {
			for _, key := range []string{"url", "title", "name", "source"} {
				if v, ok := obj[key].(string); ok && v != "" {
					sources = append(sources, v)
					break
				}
			}
		}
	}

	return sources
}
