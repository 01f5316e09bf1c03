// internal/midi/midi_test.go
package midi

import (
	"bytes"
	"errors"
	"testing"

	gomidi "gitlab.com/gomidi/midi/v2"

	"github.com/ColonelBlimp/gotuner/internal/note"
)

func found(number int, cents float64) note.Detection {
	n := note.FromNumber(number)
	return note.Detection{Frequency: n.Pitch, Note: n, Cents: cents, Found: true}
}

func concat(msgs ...gomidi.Message) []byte {
	var out []byte
	for _, m := range msgs {
		out = append(out, m.Bytes()...)
	}
	return out
}

func TestNewSink_Validation(t *testing.T) {
	var buf bytes.Buffer

	testCases := []struct {
		name string
		w    *bytes.Buffer
		cfg  Config
		want error
	}{
		{"nil writer", nil, Config{Hold: 1}, ErrWriterRequired},
		{"channel too high", &buf, Config{Channel: 16, Hold: 1}, ErrInvalidChannel},
		{"zero hold", &buf, Config{Hold: 0}, ErrInvalidHold},
		{"negative hold", &buf, Config{Hold: -3}, ErrInvalidHold},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var err error
			if tc.w == nil {
				_, err = NewSink(nil, tc.cfg)
			} else {
				_, err = NewSink(tc.w, tc.cfg)
			}
			if err != tc.want {
				t.Errorf("NewSink() error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestBend(t *testing.T) {
	testCases := []struct {
		cents float64
		want  int16
	}{
		{0, 0},
		{200, 8191},
		{-200, -8191},
		{100, 4096},
		{1000, 8191},
		{-1000, -8191},
	}
	for _, tc := range testCases {
		if got := Bend(tc.cents); got != tc.want {
			t.Errorf("Bend(%v) = %d, want %d", tc.cents, got, tc.want)
		}
	}
}

func TestSink_NoteOnAfterHold(t *testing.T) {
	var buf bytes.Buffer
	s, err := NewSink(&buf, Config{Channel: 2, Hold: 3})
	if err != nil {
		t.Fatalf("NewSink() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := s.Update(found(69, 0)); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
	}
	if buf.Len() != 0 {
		t.Fatalf("wrote %x before hold reached", buf.Bytes())
	}

	if err := s.Update(found(69, 0)); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	want := concat(gomidi.Pitchbend(2, 0), gomidi.NoteOn(2, 69, DefaultVelocity))
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("wrote %x, want %x", buf.Bytes(), want)
	}
	if n, ok := s.Current(); !ok || n != 69 {
		t.Errorf("Current() = %d, %v, want 69, true", n, ok)
	}
}

func TestSink_GlitchDoesNotRetrigger(t *testing.T) {
	var buf bytes.Buffer
	s, _ := NewSink(&buf, Config{Hold: 2})

	_ = s.Update(found(45, 0))
	_ = s.Update(found(45, 0))
	buf.Reset()

	// One stray frame of another note, then back
	_ = s.Update(found(57, 0))
	_ = s.Update(found(45, 0))

	if buf.Len() != 0 {
		t.Errorf("glitch wrote %x, want nothing", buf.Bytes())
	}
	if n, _ := s.Current(); n != 45 {
		t.Errorf("Current() = %d, want 45", n)
	}
}

func TestSink_NoteChange(t *testing.T) {
	var buf bytes.Buffer
	s, _ := NewSink(&buf, Config{Hold: 1, Velocity: 64})

	_ = s.Update(found(40, 0))
	buf.Reset()
	_ = s.Update(found(45, -50))

	want := concat(gomidi.NoteOff(0, 40), gomidi.Pitchbend(0, Bend(-50)), gomidi.NoteOn(0, 45, 64))
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("wrote %x, want %x", buf.Bytes(), want)
	}
}

func TestSink_BendFollowsCents(t *testing.T) {
	var buf bytes.Buffer
	s, _ := NewSink(&buf, Config{Hold: 1})

	_ = s.Update(found(69, 0))
	buf.Reset()

	_ = s.Update(found(69, 0))
	if buf.Len() != 0 {
		t.Errorf("unchanged bend wrote %x", buf.Bytes())
	}

	_ = s.Update(found(69, 10))
	want := gomidi.Pitchbend(0, Bend(10)).Bytes()
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("wrote %x, want %x", buf.Bytes(), want)
	}
}

func TestSink_LossSendsNoteOff(t *testing.T) {
	var buf bytes.Buffer
	s, _ := NewSink(&buf, Config{Hold: 2})

	_ = s.Update(found(52, 0))
	_ = s.Update(found(52, 0))
	buf.Reset()

	_ = s.Update(note.Detection{})
	if buf.Len() != 0 {
		t.Fatalf("single lost frame wrote %x", buf.Bytes())
	}
	_ = s.Update(note.Detection{})

	if !bytes.Equal(buf.Bytes(), gomidi.NoteOff(0, 52).Bytes()) {
		t.Errorf("wrote %x, want NoteOff", buf.Bytes())
	}
	if _, ok := s.Current(); ok {
		t.Error("note still sounding after loss")
	}
}

type closingBuffer struct {
	bytes.Buffer
	closed bool
}

func (c *closingBuffer) Close() error {
	c.closed = true
	return nil
}

func TestSink_CloseSilences(t *testing.T) {
	w := &closingBuffer{}
	s, _ := NewSink(w, Config{Hold: 1})
	_ = s.Update(found(64, 0))
	w.Reset()

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !bytes.Equal(w.Bytes(), gomidi.NoteOff(0, 64).Bytes()) {
		t.Errorf("Close() wrote %x, want NoteOff", w.Bytes())
	}
	if !w.closed {
		t.Error("Close() did not close the writer")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("port gone") }

func TestSink_WriteError(t *testing.T) {
	s, _ := NewSink(failingWriter{}, Config{Hold: 1})
	if err := s.Update(found(60, 0)); err == nil {
		t.Error("Update() error = nil, want write error")
	}
}
