// internal/note/table.go
// Package note maps frequencies to equal-tempered notes and tuning offsets.
package note

import (
	"fmt"
	"math"
)

const (
	// ReferencePitch is A4 in Hz
	ReferencePitch = 440.0
	// ReferenceNumber is the MIDI note number of A4
	ReferenceNumber = 69
	// MaxNumber bounds the semitone candidates (MIDI 0..126)
	MaxNumber = 127
)

// Names is the chromatic name sequence starting at C.
var Names = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Note is an equal-tempered pitch.
type Note struct {
	Name   string  // e.g. "A", "C#"
	Octave int     // scientific pitch octave, A4 = 4
	Number int     // MIDI note number
	Pitch  float64 // exact frequency in Hz
}

// FromNumber returns the equal-tempered note for a MIDI note number.
func FromNumber(n int) Note {
	octave := n/12 - 1
	idx := n % 12
	if idx < 0 {
		idx += 12
		octave--
	}
	return Note{
		Name:   Names[idx],
		Octave: octave,
		Number: n,
		Pitch:  ReferencePitch * math.Pow(2, float64(n-ReferenceNumber)/12.0),
	}
}

// String returns the name with octave, e.g. "A4".
func (n Note) String() string {
	return fmt.Sprintf("%s%d", n.Name, n.Octave)
}

// FrequencyTable holds the center frequency of each transform bin below Nyquist.
type FrequencyTable []float64

// NewFrequencyTable builds the n/2 bin center frequencies i*sampleRate/n.
func NewFrequencyTable(sampleRate float64, n int) FrequencyTable {
	t := make(FrequencyTable, n/2)
	for i := range t {
		t[i] = sampleRate * float64(i) / float64(n)
	}
	return t
}

// Resolution returns the bin spacing in Hz
func (t FrequencyTable) Resolution() float64 {
	if len(t) < 2 {
		return 0
	}
	return t[1] - t[0]
}

// Nearest returns the bin whose center is closest to freq. Ties keep the
// lower bin; an empty table returns -1.
func (t FrequencyTable) Nearest(freq float64) int {
	idx := -1
	minDiff := math.Inf(1)
	for i, f := range t {
		if diff := math.Abs(f - freq); diff < minDiff {
			minDiff = diff
			idx = i
		}
	}
	return idx
}

// Table is a sparse mapping from bin index to the note whose pitch lies
// closest to that bin. It is built once and read-only afterwards.
type Table struct {
	freqs FrequencyTable
	notes []Note
	set   []bool
	bins  []int // populated bins, ascending
}

// BuildTable registers every semitone from MIDI 0 up to the Nyquist limit at
// its nearest bin. When two semitones land on the same bin the later one wins.
func BuildTable(freqs FrequencyTable, sampleRate float64) *Table {
	t := &Table{
		freqs: freqs,
		notes: make([]Note, len(freqs)),
		set:   make([]bool, len(freqs)),
	}

	nyquist := sampleRate / 2.0
	for i := 0; i < MaxNumber; i++ {
		n := FromNumber(i)
		if n.Pitch > nyquist {
			break
		}

		bin := freqs.Nearest(n.Pitch)
		if bin < 0 {
			continue
		}
		if !t.set[bin] {
			t.set[bin] = true
			t.bins = append(t.bins, bin)
		}
		t.notes[bin] = n
	}

	return t
}

// Len returns the number of populated bins
func (t *Table) Len() int {
	return len(t.bins)
}

// Bins returns the populated bin indices in ascending order.
func (t *Table) Bins() []int {
	out := make([]int, len(t.bins))
	copy(out, t.bins)
	return out
}

// At returns the note registered at bin, if any.
func (t *Table) At(bin int) (Note, bool) {
	if bin < 0 || bin >= len(t.set) || !t.set[bin] {
		return Note{}, false
	}
	return t.notes[bin], true
}

// Frequencies returns the bin frequency table the note table was built on
func (t *Table) Frequencies() FrequencyTable {
	return t.freqs
}
