package view

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Format selects an output renderer
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatHTML     Format = "html"
)

// ParseFormat validates a user-supplied format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatMarkdown, FormatJSON, FormatHTML:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown format: %s (supported: text, markdown, json, html)", s)
	}
}

// Renderer turns Results into text, Markdown, JSON or HTML
type Renderer struct {
	styles Styles
	width  int
}

// NewRenderer creates a renderer using the given terminal styles
func NewRenderer(styles Styles) *Renderer {
	return &Renderer{styles: styles}
}

// SetWidth wraps terminal output to w columns (0 disables wrapping)
func (r *Renderer) SetWidth(w int) {
	r.width = w
}

// Render writes results to w in the requested format
func (r *Renderer) Render(w io.Writer, format Format, res Results) error {
	switch format {
	case FormatJSON:
		return r.RenderJSON(w, res)
	case FormatMarkdown:
		_, err := io.WriteString(w, r.RenderMarkdown(res))
		return err
	case FormatHTML:
		return r.RenderHTML(w, res)
	default:
		_, err := io.WriteString(w, r.RenderText(res)+"\n")
		return err
	}
}

// RenderText renders styled terminal blocks, one per entry
func (r *Renderer) RenderText(res Results) string {
	s := r.styles

	switch res.Kind {
	case KindEmpty:
		return s.Placeholder.Render(res.Message)
	case KindError:
		block := s.Label.Render("Error:") + " " + res.Message
		return r.entryStyle(CategoryFalse).Render(r.wrap(block))
	}

	blocks := make([]string, 0, len(res.Entries))
	for _, e := range res.Entries {
		var sb strings.Builder
		sb.WriteString(s.Label.Render(fmt.Sprintf("Claim %d:", e.Index)))
		sb.WriteString(" " + e.Claim + "\n")
		sb.WriteString(r.verdictStyle(e.Category).Render(e.Verdict) + "\n")
		sb.WriteString(s.Label.Render("Confidence:") + " " + e.Confidence + "\n")
		sb.WriteString(s.Label.Render("Analysis:") + " " + e.Explanation)
		if e.HasSources() {
			sb.WriteString("\n" + s.Muted.Render("Sources: "+e.SourcesLine))
		}
		blocks = append(blocks, r.entryStyle(e.Category).Render(r.wrap(sb.String())))
	}

	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func (r *Renderer) verdictStyle(c Category) lipgloss.Style {
	if st, ok := r.styles.Verdicts[c]; ok {
		return st
	}
	return lipgloss.NewStyle()
}

func (r *Renderer) entryStyle(c Category) lipgloss.Style {
	st := r.styles.Entry
	if color, ok := r.styles.Borders[c]; ok {
		st = st.BorderForeground(color)
	}
	return st
}

func (r *Renderer) wrap(s string) string {
	if r.width <= 4 {
		return s
	}
	return lipgloss.NewStyle().Width(r.width - 4).Render(s)
}

// RenderMarkdown renders results as a Markdown list of sections
func (r *Renderer) RenderMarkdown(res Results) string {
	var sb strings.Builder

	sb.WriteString("# Fact-Check Results\n\n")

	switch res.Kind {
	case KindEmpty:
		sb.WriteString("_" + res.Message + "_\n")
		return sb.String()
	case KindError:
		sb.WriteString("**Error:** " + res.Message + "\n")
		return sb.String()
	}

	for _, e := range res.Entries {
		fmt.Fprintf(&sb, "## Claim %d: %s\n\n", e.Index, e.Claim)
		fmt.Fprintf(&sb, "- **Verdict:** %s (`%s`)\n", e.Verdict, e.Category)
		fmt.Fprintf(&sb, "- **Confidence:** %s\n", e.Confidence)
		fmt.Fprintf(&sb, "- **Analysis:** %s\n", e.Explanation)
		if e.HasSources() {
			fmt.Fprintf(&sb, "- **Sources:** %s\n", e.SourcesLine)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

type jsonResults struct {
	Kind    string       `json:"kind"`
	Message string       `json:"message,omitempty"`
	Entries []ClaimEntry `json:"entries,omitempty"`
}

// RenderJSON writes the display records as indented JSON
func (r *Renderer) RenderJSON(w io.Writer, res Results) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jsonResults{Kind: res.Kind.String(), Message: res.Message, Entries: res.Entries}); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	return nil
}

var htmlTemplate = template.Must(template.New("results").Parse(`{{- if eq .Kind.String "error" -}}
<div class="claim-result false">
  <div class="explanation"><strong>Error:</strong> {{.Message}}</div>
</div>
{{- else if eq .Kind.String "empty" -}}
<p>{{.Message}}</p>
{{- else -}}
{{- range .Entries}}
<div class="claim-result {{.Category}}">
  <div class="claim-text"><strong>Claim {{.Index}}:</strong> {{.Claim}}</div>
  <div class="verdict {{.Category}}">{{.Verdict}}</div>
  <div class="confidence"><strong>Confidence:</strong> {{.Confidence}}</div>
  <div class="explanation"><strong>Analysis:</strong> {{.Explanation}}</div>
  {{- if .HasSources}}
  <div class="sources"><strong>Sources:</strong> {{.SourcesLine}}</div>
  {{- end}}
</div>
{{- end}}
{{- end}}
`))

// RenderHTML writes markup fragments using the claim-result class names.
// Claim text and verdicts come from a remote service and are escaped.
func (r *Renderer) RenderHTML(w io.Writer, res Results) error {
	if err := htmlTemplate.Execute(w, res); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}
