package view

import (
	"strconv"
	"strings"

	"github.com/ppiankov/factcheck/internal/model"
)

// Messages shown in place of claim entries
const (
	NoClaimsMessage = "No factual claims found to verify."
	FailureMessage  = "Failed to fact-check. Please check your connection and try again."
)

// SourcesSeparator joins the sources line
const SourcesSeparator = ", "

// Kind tells renderers which shape Results has
type Kind int

const (
	KindClaims Kind = iota // One entry per claim
	KindEmpty              // Placeholder: no claims found
	KindError              // Single error entry
)

func (k Kind) String() string {
	switch k {
	case KindClaims:
		return "claims"
	case KindEmpty:
		return "empty"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// ClaimEntry is the render record for one claim
type ClaimEntry struct {
	Index       int      `json:"index"` // 1-based ordinal
	Claim       string   `json:"claim"`
	Verdict     string   `json:"verdict"`
	Category    Category `json:"category"`
	Confidence  string   `json:"confidence"` // e.g. "98%"
	Explanation string   `json:"explanation"`
	Sources     []string `json:"sources,omitempty"`
	SourcesLine string   `json:"sources_line,omitempty"` // Empty when there are no sources
}

// HasSources reports whether the sources line should be shown
func (e ClaimEntry) HasSources() bool {
	return len(e.Sources) > 0
}

// Results is everything the results region displays after one request
type Results struct {
	Kind    Kind         `json:"-"`
	Entries []ClaimEntry `json:"entries,omitempty"`
	Message string       `json:"message,omitempty"` // Placeholder or error text
}

// Build maps a response to display records, preserving claim order.
// A nil response or an empty claim list yields the placeholder.
func Build(resp *model.FactCheckResponse) Results {
	if resp == nil || len(resp.FactCheckResults) == 0 {
		return Results{Kind: KindEmpty, Message: NoClaimsMessage}
	}

	entries := make([]ClaimEntry, 0, len(resp.FactCheckResults))
	for i, cr := range resp.FactCheckResults {
		entries = append(entries, NewClaimEntry(cr, i+1))
	}

	return Results{Kind: KindClaims, Entries: entries}
}

// Failure builds the single error entry shown when a request fails
func Failure(message string) Results {
	return Results{Kind: KindError, Message: message}
}

// NewClaimEntry maps one claim result to its render record
func NewClaimEntry(cr model.ClaimResult, index int) ClaimEntry {
	entry := ClaimEntry{
		Index:       index,
		Claim:       cr.Claim,
		Verdict:     cr.Result.Verdict,
		Category:    Classify(cr.Result.Verdict),
		Confidence:  FormatConfidence(cr.Result.Confidence),
		Explanation: cr.Result.Explanation,
	}

	if len(cr.Result.Sources) > 0 {
		entry.Sources = append([]string(nil), cr.Result.Sources...)
		entry.SourcesLine = strings.Join(cr.Result.Sources, SourcesSeparator)
	}

	return entry
}

// FormatConfidence renders the score as given, without clamping
func FormatConfidence(c float64) string {
	return strconv.FormatFloat(c, 'f', -1, 64) + "%"
}
