// internal/note/match.go
package note

import (
	"errors"
	"math"
)

// InTuneEpsilon is the cents band treated as exactly in tune.
const InTuneEpsilon = 0.01

var (
	// ErrIndeterminate indicates a cents offset cannot be computed
	ErrIndeterminate = errors.New("cents offset is indeterminate")
	// ErrNoNote indicates the note table has no populated entries
	ErrNoNote = errors.New("no note detected")
)

// Detection is the result of analysing one frame.
type Detection struct {
	// Frequency is the detected frequency in Hz (center of the peak bin)
	Frequency float64
	// Bin is the dominant transform bin
	Bin int
	// Magnitude is the squared magnitude of the dominant bin
	Magnitude float64
	// Note is the nearest equal-tempered note (valid only when Found)
	Note Note
	// Cents is the offset from Note.Pitch (valid only when Found)
	Cents float64
	// Found is false when no note could be matched or the offset was degenerate
	Found bool
}

// InTune reports whether the offset lies within InTuneEpsilon.
func (d Detection) InTune() bool {
	return d.Found && math.Abs(d.Cents) <= InTuneEpsilon
}

// Sharp reports whether the detected pitch is above the note
func (d Detection) Sharp() bool {
	return d.Found && d.Cents > InTuneEpsilon
}

// Flat reports whether the detected pitch is below the note
func (d Detection) Flat() bool {
	return d.Found && d.Cents < -InTuneEpsilon
}

// Cents returns the offset of freq from ref in cents: 1200*log2(freq/ref).
// Zero, negative, or non-finite operands yield ErrIndeterminate.
func Cents(freq, ref float64) (float64, error) {
	if !(freq > 0) || !(ref > 0) || math.IsInf(freq, 0) || math.IsInf(ref, 0) {
		return 0, ErrIndeterminate
	}
	c := 1200.0 * math.Log2(freq/ref)
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return 0, ErrIndeterminate
	}
	return c, nil
}

// Nearest scans the populated bins for the one whose center frequency is
// closest to freq and returns its note and bin. Ties keep the lower bin.
func (t *Table) Nearest(freq float64) (Note, int, error) {
	best := -1
	minDiff := math.Inf(1)
	for _, bin := range t.bins {
		if diff := math.Abs(t.freqs[bin] - freq); diff < minDiff {
			minDiff = diff
			best = bin
		}
	}
	if best < 0 {
		return Note{}, -1, ErrNoNote
	}
	return t.notes[best], best, nil
}

// Match builds a Detection for freq, filling in the nearest note and cents
// offset. A degenerate frequency or empty table leaves Found false.
func (t *Table) Match(freq float64) Detection {
	d := Detection{Frequency: freq}

	n, _, err := t.Nearest(freq)
	if err != nil {
		return d
	}

	cents, err := Cents(freq, n.Pitch)
	if err != nil {
		return d
	}

	d.Note = n
	d.Cents = cents
	d.Found = true
	return d
}
