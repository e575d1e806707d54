package view

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ppiankov/factcheck/internal/model"
	"golang.org/x/net/html"
)

func sampleResults() Results {
	return Build(&model.FactCheckResponse{
		FactCheckResults: []model.ClaimResult{
			{Claim: "Paris is the capital of France", Result: model.VerdictDetail{Verdict: "TRUE", Confidence: 99, Explanation: "Well documented.", Sources: []string{"https://example.com/a", "https://example.com/b"}}},
			{Claim: "The sky is green", Result: model.VerdictDetail{Verdict: "False", Confidence: 98, Explanation: "Rayleigh scattering.", Sources: []string{}}},
		},
	})
}

// classNodes returns every element whose class attribute contains class
func classNodes(t *testing.T, markup, class string) []*html.Node {
	t.Helper()

	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}

	var found []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, a := range n.Attr {
				if a.Key == "class" && containsField(a.Val, class) {
					found = append(found, n)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return found
}

func containsField(s, field string) bool {
	for _, f := range strings.Fields(s) {
		if f == field {
			return true
		}
	}
	return false
}

func classOf(n *html.Node) string {
	for _, a := range n.Attr {
		if a.Key == "class" {
			return a.Val
		}
	}
	return ""
}

func TestRenderHTML_Claims(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(PlainStyles()).RenderHTML(&buf, sampleResults()); err != nil {
		t.Fatalf("RenderHTML failed: %v", err)
	}
	out := buf.String()

	entries := classNodes(t, out, "claim-result")
	if len(entries) != 2 {
		t.Fatalf("expected 2 claim-result entries, got %d\n%s", len(entries), out)
	}
	if got := classOf(entries[0]); got != "claim-result true" {
		t.Errorf("first entry class = %q", got)
	}
	if got := classOf(entries[1]); got != "claim-result false" {
		t.Errorf("second entry class = %q", got)
	}

	if n := len(classNodes(t, out, "sources")); n != 1 {
		t.Errorf("expected exactly 1 sources line, got %d", n)
	}
	if !strings.Contains(out, "https://example.com/a, https://example.com/b") {
		t.Errorf("sources not joined with comma-space:\n%s", out)
	}
	if !strings.Contains(out, "<strong>Claim 2:</strong> The sky is green") {
		t.Errorf("missing ordinal label for claim 2:\n%s", out)
	}
}

func TestRenderHTML_EscapesRemoteText(t *testing.T) {
	res := Build(&model.FactCheckResponse{
		FactCheckResults: []model.ClaimResult{
			{Claim: `<script>alert("x")</script>`, Result: model.VerdictDetail{Verdict: "False"}},
		},
	})

	var buf bytes.Buffer
	if err := NewRenderer(PlainStyles()).RenderHTML(&buf, res); err != nil {
		t.Fatalf("RenderHTML failed: %v", err)
	}
	if strings.Contains(buf.String(), "<script>") {
		t.Errorf("claim text was not escaped:\n%s", buf.String())
	}
}

func TestRenderHTML_EmptyAndError(t *testing.T) {
	r := NewRenderer(PlainStyles())

	var empty bytes.Buffer
	if err := r.RenderHTML(&empty, Build(nil)); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(empty.String()) != "<p>"+NoClaimsMessage+"</p>" {
		t.Errorf("unexpected placeholder markup: %q", empty.String())
	}

	var failed bytes.Buffer
	if err := r.RenderHTML(&failed, Failure(FailureMessage)); err != nil {
		t.Fatal(err)
	}
	entries := classNodes(t, failed.String(), "claim-result")
	if len(entries) != 1 || classOf(entries[0]) != "claim-result false" {
		t.Errorf("expected one false error entry, got %d:\n%s", len(entries), failed.String())
	}
}

func TestRenderText(t *testing.T) {
	out := NewRenderer(PlainStyles()).RenderText(sampleResults())

	for _, want := range []string{
		"Claim 1: Paris is the capital of France",
		"Confidence: 99%",
		"Sources: https://example.com/a, https://example.com/b",
		"Claim 2: The sky is green",
		"Analysis: Rayleigh scattering.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "Sources:") != 1 {
		t.Errorf("expected one sources line:\n%s", out)
	}
}

func TestRenderText_Placeholder(t *testing.T) {
	out := NewRenderer(PlainStyles()).RenderText(Build(nil))
	if strings.TrimSpace(out) != NoClaimsMessage {
		t.Errorf("unexpected placeholder: %q", out)
	}
}

func TestRenderMarkdown(t *testing.T) {
	out := NewRenderer(PlainStyles()).RenderMarkdown(sampleResults())

	if !strings.Contains(out, "## Claim 1: Paris is the capital of France") {
		t.Errorf("missing claim heading:\n%s", out)
	}
	if !strings.Contains(out, "- **Verdict:** False (`false`)") {
		t.Errorf("missing verdict line:\n%s", out)
	}
	if strings.Count(out, "**Sources:**") != 1 {
		t.Errorf("expected one sources line:\n%s", out)
	}
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(PlainStyles()).RenderJSON(&buf, sampleResults()); err != nil {
		t.Fatalf("RenderJSON failed: %v", err)
	}

	var decoded struct {
		Kind    string       `json:"kind"`
		Entries []ClaimEntry `json:"entries"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.Kind != "claims" || len(decoded.Entries) != 2 {
		t.Errorf("unexpected JSON: %s", buf.String())
	}
	if decoded.Entries[1].Category != CategoryFalse {
		t.Errorf("expected false category, got %s", decoded.Entries[1].Category)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"text", FormatText, false},
		{"", FormatText, false},
		{"JSON", FormatJSON, false},
		{"md", FormatMarkdown, false},
		{"html", FormatHTML, false},
		{"pdf", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
