package ui

import (
	"fmt"
	"io"
	"os"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/term"
)

// IsTerminal reports whether stream, a reader or writer, is an
// interactive terminal.
func IsTerminal(stream any) bool {
	f, ok := stream.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(f.Fd())
}

// Printer writes styled text, stripping escape sequences when the
// destination is not a terminal.
type Printer struct {
	w      io.Writer
	styled bool
}

// NewPrinter returns a Printer for w. Styling is kept only on a terminal
// and when NO_COLOR is unset.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{
		w:      w,
		styled: IsTerminal(w) && os.Getenv("NO_COLOR") == "",
	}
}

// Styled reports whether output keeps its styling.
func (p *Printer) Styled() bool {
	return p.styled
}

// Writer returns the destination.
func (p *Printer) Writer() io.Writer {
	return p.w
}

// Println writes s and a newline.
func (p *Printer) Println(s string) {
	if !p.styled {
		fmt.Fprintln(p.w, ansi.Strip(s))
		return
	}
	lipgloss.Fprintln(p.w, s)
}

// Printf formats and writes.
func (p *Printer) Printf(format string, args ...any) {
	p.Println(fmt.Sprintf(format, args...))
}

// Success writes s in the success style.
func (p *Printer) Success(s string) {
	p.Println(SuccessStyle.Render(s))
}

// Warn writes s in the warning style.
func (p *Printer) Warn(s string) {
	p.Println(WarningStyle.Render(s))
}

// Error writes s in the error style.
func (p *Printer) Error(s string) {
	p.Println(ErrorStyle.Render(s))
}

// Muted writes s in the muted style.
func (p *Printer) Muted(s string) {
	p.Println(MutedStyle.Render(s))
}
