package view

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used for terminal output
type Styles struct {
	Title       lipgloss.Style
	Label       lipgloss.Style
	Muted       lipgloss.Style
	Entry       lipgloss.Style
	Placeholder lipgloss.Style
	Verdicts    map[Category]lipgloss.Style
	Borders     map[Category]lipgloss.Color
}

// DefaultStyles returns the standard palette
func DefaultStyles() Styles {
	green := lipgloss.Color("#22C55E")
	red := lipgloss.Color("#EF4444")
	amber := lipgloss.Color("#F59E0B")

	verdict := lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("#FFFFFF"))

	return Styles{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		Label:       lipgloss.NewStyle().Bold(true),
		Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")),
		Entry:       lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).PaddingLeft(1).MarginBottom(1),
		Placeholder: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#9CA3AF")),
		Verdicts: map[Category]lipgloss.Style{
			CategoryTrue:    verdict.Background(green),
			CategoryFalse:   verdict.Background(red),
			CategoryPartial: verdict.Background(amber),
		},
		Borders: map[Category]lipgloss.Color{
			CategoryTrue:    green,
			CategoryFalse:   red,
			CategoryPartial: amber,
		},
	}
}

// PlainStyles renders without colour or borders (pipes, tests)
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Title:       plain,
		Label:       plain,
		Muted:       plain,
		Entry:       plain.MarginBottom(1),
		Placeholder: plain,
		Verdicts: map[Category]lipgloss.Style{
			CategoryTrue:    plain,
			CategoryFalse:   plain,
			CategoryPartial: plain,
		},
		Borders: map[Category]lipgloss.Color{},
	}
}
