// internal/dsp/window_test.go
package dsp

import (
	"math"
	"testing"
)

func TestNewHannWindow_Endpoints(t *testing.T) {
	sizes := []int{2, 3, 64, 513, testFrameSize}

	for _, n := range sizes {
		w, err := NewHannWindow(n)
		if err != nil {
			t.Fatalf("NewHannWindow(%d) error = %v", n, err)
		}
		if len(w) != n {
			t.Fatalf("len = %d, want %d", len(w), n)
		}
		if math.Abs(w[0]) > 1e-12 || math.Abs(w[n-1]) > 1e-12 {
			t.Errorf("n=%d: w[0] = %v, w[n-1] = %v, want 0", n, w[0], w[n-1])
		}
	}
}

func TestNewHannWindow_PeakAndSymmetry(t *testing.T) {
	w, err := NewHannWindow(testFrameSize)
	if err != nil {
		t.Fatalf("NewHannWindow error = %v", err)
	}

	mid := w[(testFrameSize-1)/2]
	if math.Abs(mid-1) > 1e-6 {
		t.Errorf("w[(N-1)/2] = %v, want ~1", mid)
	}

	for i := 0; i < testFrameSize/2; i++ {
		if math.Abs(w[i]-w[testFrameSize-1-i]) > 1e-12 {
			t.Fatalf("w[%d] = %v, w[%d] = %v, want symmetric", i, w[i], testFrameSize-1-i, w[testFrameSize-1-i])
		}
		if w[i] < 0 || w[i] > 1 {
			t.Fatalf("w[%d] = %v out of [0, 1]", i, w[i])
		}
	}

	odd, _ := NewHannWindow(5)
	if math.Abs(odd[2]-1) > 1e-12 {
		t.Errorf("5-point window center = %v, want 1", odd[2])
	}
}

func TestNewHannWindow_MatchesFormula(t *testing.T) {
	for _, n := range []int{2, 7, 256, testFrameSize} {
		w, err := NewHannWindow(n)
		if err != nil {
			t.Fatalf("NewHannWindow(%d) error = %v", n, err)
		}
		for i := range w {
			want := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
			if math.Abs(w[i]-want) > 1e-12 {
				t.Fatalf("n=%d: w[%d] = %v, want %v", n, i, w[i], want)
			}
		}
	}
}

func TestNewHannWindow_InvalidSize(t *testing.T) {
	for _, n := range []int{-1, 0, 1} {
		if _, err := NewHannWindow(n); err != ErrInvalidWindowSize {
			t.Errorf("NewHannWindow(%d) error = %v, want ErrInvalidWindowSize", n, err)
		}
	}
}

func TestWindow_Apply(t *testing.T) {
	w, _ := NewHannWindow(5)
	frame := []float64{2, 2, 2, 2, 2}

	if err := w.Apply(frame); err != nil {
		t.Fatalf("Apply error = %v", err)
	}

	want := []float64{0, 1, 2, 1, 0}
	for i := range frame {
		if math.Abs(frame[i]-want[i]) > 1e-12 {
			t.Errorf("frame[%d] = %v, want %v", i, frame[i], want[i])
		}
	}
}

func TestWindow_ApplyLengthMismatch(t *testing.T) {
	w, _ := NewHannWindow(8)
	if err := w.Apply(make([]float64, 7)); err != ErrLengthMismatch {
		t.Errorf("Apply error = %v, want ErrLengthMismatch", err)
	}
}
