// internal/dsp/realfft_test.go
package dsp

import (
	"errors"
	"math"
	"testing"
)

func TestNewRealFFT_InvalidSize(t *testing.T) {
	for _, n := range []int{0, 6, 1000} {
		if _, err := NewRealFFT(n); !errors.Is(err, ErrNotPowerOfTwo) {
			t.Errorf("NewRealFFT(%d) error = %v, want ErrNotPowerOfTwo", n, err)
		}
	}
}

func TestRealFFT_InverseUnsupported(t *testing.T) {
	f, err := NewRealFFT(64)
	if err != nil {
		t.Fatalf("NewRealFFT error = %v", err)
	}
	if err := f.Transform(make([]float64, 64), make([]float64, 64), true); !errors.Is(err, ErrInverseUnsupported) {
		t.Errorf("inverse Transform error = %v, want ErrInverseUnsupported", err)
	}
}

func TestRealFFT_LengthMismatch(t *testing.T) {
	f, err := NewRealFFT(64)
	if err != nil {
		t.Fatalf("NewRealFFT error = %v", err)
	}
	if err := f.Transform(make([]float64, 32), make([]float64, 64), false); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("Transform error = %v, want ErrLengthMismatch", err)
	}
}

func TestRealFFT_PeakMatchesComplexFFT(t *testing.T) {
	const n = 1024

	tests := []struct {
		name  string
		bins  []float64
		gains []float64
	}{
		{"single tone", []float64{37}, []float64{1}},
		{"fundamental and harmonic", []float64{50, 100}, []float64{1, 0.6}},
		{"strong harmonic", []float64{30, 90}, []float64{0.4, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signal := make([]float64, n)
			for i := range signal {
				for k, b := range tt.bins {
					signal[i] += tt.gains[k] * math.Sin(2*math.Pi*b*float64(i)/n)
				}
			}

			var transforms = []struct {
				name string
				new  func(int) (Transformer, error)
			}{
				{"complex", func(n int) (Transformer, error) { return NewFFT(n) }},
				{"real", func(n int) (Transformer, error) { return NewRealFFT(n) }},
			}

			peaks := make([]int, len(transforms))
			for i, tr := range transforms {
				f, err := tr.new(n)
				if err != nil {
					t.Fatalf("%s: create error = %v", tr.name, err)
				}
				re := append([]float64(nil), signal...)
				im := make([]float64, n)
				if err := f.Transform(re, im, false); err != nil {
					t.Fatalf("%s: Transform error = %v", tr.name, err)
				}
				peaks[i] = FindPeak(re, im).Bin
			}

			if peaks[0] != peaks[1] {
				t.Errorf("peak bins differ: complex = %d, real = %d", peaks[0], peaks[1])
			}
		})
	}
}
