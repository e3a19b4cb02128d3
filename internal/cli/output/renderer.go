// Package output renders command results as styled terminal text,
// markdown, or JSON, adapting automatically to the environment.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Mode selects an output format.
type Mode string

// Output modes. ModeAuto picks ModeText on a terminal and ModeMarkdown
// when output is piped.
const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// Renderer writes command output in a fixed mode to an out and error
// stream pair. It is safe to create one per command invocation.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	isTTY  bool
	styles *Styles
}

// NewRenderer creates a renderer for the given streams, detecting
// whether out is a terminal. An empty or unrecognized mode falls back
// to ModeAuto.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	return NewRendererWithTTY(out, errOut, isTerminal(out), mode)
}

// NewRendererWithTTY creates a renderer with an explicit TTY state
// instead of detecting it. Tests use this to exercise both branches.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode Mode) *Renderer {
	r := &Renderer{
		out:    out,
		errOut: errOut,
		mode:   normalizeMode(mode),
		isTTY:  isTTY,
	}

	if r.EffectiveMode() == ModeText && r.isTTY {
		r.styles = DefaultStyles()
	} else {
		r.styles = PlainStyles()
	}
	return r
}

func normalizeMode(mode Mode) Mode {
	switch mode {
	case ModeText, ModeMarkdown, ModeJSON:
		return mode
	default:
		return ModeAuto
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// EffectiveMode resolves ModeAuto against the environment: text on a
// terminal, markdown otherwise.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// IsTTY reports whether the out stream is a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Writer returns the out stream, for writers that render directly.
func (r *Renderer) Writer() io.Writer { return r.out }

// ErrWriter returns the error stream.
func (r *Renderer) ErrWriter() io.Writer { return r.errOut }

// Styles returns the active style set. Plain (unstyled) when output is
// not a terminal or the mode is not text.
func (r *Renderer) Styles() *Styles { return r.styles }

// Println writes a line to the out stream.
func (r *Renderer) Println(a ...any) {
	fmt.Fprintln(r.out, a...)
}

// Printf writes formatted text to the out stream.
func (r *Renderer) Printf(format string, a ...any) {
	fmt.Fprintf(r.out, format, a...)
}

// JSON writes v to the out stream as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Success writes a confirmation line to the out stream.
func (r *Renderer) Success(msg string) {
	r.Println(r.styles.Success.Render("✓") + " " + msg)
}

// Warning writes a warning line to the error stream.
func (r *Renderer) Warning(msg string) {
	fmt.Fprintln(r.errOut, r.styles.Warning.Render("!")+" "+msg)
}

// Error writes an error line to the error stream.
func (r *Renderer) Error(msg string) {
	fmt.Fprintln(r.errOut, r.styles.Error.Render("✗")+" "+msg)
}

// Header writes a section heading: styled in text mode, a markdown
// heading otherwise.
func (r *Renderer) Header(text string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Println(FormatHeader(2, text))
		return
	}
	r.Println(r.styles.Header.Render(text))
}

// StatusLine writes an aligned label/value pair.
func (r *Renderer) StatusLine(label, value string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Println(FormatKeyValue(label, value))
		return
	}
	r.Printf("  %s %s\n", r.styles.Muted.Render(fmt.Sprintf("%-14s", label+":")), value)
}
