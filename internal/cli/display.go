package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/ppiankov/factcheck/internal/controller"
	"github.com/ppiankov/factcheck/internal/view"
)

// streamDisplay renders controller output to a pair of writers:
// results to out, progress and alerts to errOut.
type streamDisplay struct {
	out      io.Writer
	errOut   io.Writer
	renderer *view.Renderer
	format   view.Format
	progress bool

	err error
}

func (d *streamDisplay) ShowState(state controller.UIState) {
	if d.progress && state == controller.Loading {
		fmt.Fprintf(d.errOut, "⚙️  Checking facts...\n")
	}
}

func (d *streamDisplay) ShowResults(res view.Results) {
	if d.progress && res.Kind == view.KindClaims {
		fmt.Fprintf(d.errOut, "✓ %d claims checked\n\n", len(res.Entries))
	}
	if err := d.renderer.Render(d.out, d.format, res); err != nil && d.err == nil {
		d.err = fmt.Errorf("render results: %w", err)
	}
}

func (d *streamDisplay) HideResults() {}

func (d *streamDisplay) SetInput(string) {}

func (d *streamDisplay) FocusInput() {}

func (d *streamDisplay) Alert(message string) {
	fmt.Fprintf(d.errOut, "✗ %s\n", message)
}

// terminalStyles colours text output only when it goes to a terminal
func terminalStyles(w io.Writer, format view.Format) view.Styles {
	if f, ok := w.(*os.File); ok && format == view.FormatText {
		if fi, err := f.Stat(); err == nil && fi.Mode()&os.ModeCharDevice != 0 {
			return view.DefaultStyles()
		}
	}
	return view.PlainStyles()
}
