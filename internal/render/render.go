// internal/render/render.go
// Package render formats per-frame tuner reports for a terminal.
package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/ColonelBlimp/gotuner/internal/note"
)

const (
	// DefaultWidth is the number of indicator columns on each side of the note
	DefaultWidth = 30
	// MagnitudeScale scales the squared peak magnitude for display
	MagnitudeScale = 1000.0

	clearScreen = "\033[2J\033[1;1H"
	banner      = "Tuner listening. Control-C to exit."
)

// Terminal writes a full-screen text report for every detection.
type Terminal struct {
	out   io.Writer
	width int
	clear bool
}

// NewTerminal creates a renderer. width <= 0 uses DefaultWidth.
func NewTerminal(out io.Writer, width int, clear bool) *Terminal {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Terminal{out: out, width: width, clear: clear}
}

// Render writes the report for one frame.
func (t *Terminal) Render(d note.Detection) error {
	_, err := io.WriteString(t.out, t.Format(d))
	return err
}

// Format returns the report for one frame without writing it.
func (t *Terminal) Format(d note.Detection) string {
	var b strings.Builder

	if t.clear {
		b.WriteString(clearScreen)
	}
	b.WriteString(banner)
	b.WriteByte('\n')
	fmt.Fprintf(&b, "%f Hz, %d : %f\n", d.Frequency, d.Bin, d.Magnitude*MagnitudeScale)

	if !d.Found {
		b.WriteString("No note detected.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Nearest Note: %s\n", d.Note)
	b.WriteString(Offset(d))
	b.WriteString("\n\n")
	b.WriteString(Indicator(d.Cents, t.width, d.Note.Name))
	b.WriteByte('\n')

	return b.String()
}

// Offset describes the tuning offset of a detection in words.
func Offset(d note.Detection) string {
	switch {
	case !d.Found:
		return "No note detected."
	case d.InTune():
		return "in tune!"
	case d.Cents > 0:
		return fmt.Sprintf("%f cents sharp.", d.Cents)
	default:
		return fmt.Sprintf("%f cents flat.", -d.Cents)
	}
}

// Indicator draws width columns either side of name. A flat offset fills the
// left side towards the name, a sharp offset fills the right side away from
// it, one column per cent, clamped to width. Partial cents count as a full
// column when flat and are dropped when sharp.
func Indicator(cents float64, width int, name string) string {
	fill := 0
	if math.Abs(cents) > note.InTuneEpsilon {
		cols := math.Trunc(cents)
		if cents < 0 {
			cols = math.Ceil(-cents)
		}
		fill = int(math.Min(cols, float64(width)))
	}

	var b strings.Builder
	if cents < 0 {
		b.WriteString(strings.Repeat(" ", width-fill))
		b.WriteString(strings.Repeat("=", fill))
	} else {
		b.WriteString(strings.Repeat(" ", width))
	}

	fmt.Fprintf(&b, " %2s ", name)

	if cents > 0 {
		b.WriteString(strings.Repeat("=", fill))
	}
	return b.String()
}
