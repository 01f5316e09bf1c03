// internal/dsp/biquad.go
package dsp

import "github.com/cwbudde/algo-dsp/dsp/filter/design"

// Coefficients holds a normalized second-order IIR section.
// A are the feedback coefficients (a1, a2 after dividing by a0),
// B are the feedforward coefficients (b0, b1, b2).
type Coefficients struct {
	A [2]float64
	B [3]float64
}

// DesignLowPass computes Butterworth low-pass biquad coefficients (Q = 1/sqrt(2))
// using the bilinear transform. Cutoff must be below sampleRate/2; this is not
// checked here.
func DesignLowPass(sampleRate, cutoff float64) Coefficients {
	s := design.ButterworthLP(cutoff, 2, sampleRate)[0]
	return Coefficients{
		A: [2]float64{s.A1, s.A2},
		B: [3]float64{s.B0, s.B1, s.B2},
	}
}

// FilterState is the memory of one direct-form biquad stage:
// [0] x[n-1], [1] x[n-2], [2] y[n-1], [3] y[n-2].
type FilterState [4]float64

// Process filters one sample and shifts the stage memory.
func (s *FilterState) Process(x float64, c Coefficients) float64 {
	y := c.B[0]*x + c.B[1]*s[0] + c.B[2]*s[1] - c.A[0]*s[2] - c.A[1]*s[3]
	s[1] = s[0]
	s[0] = x
	s[3] = s[2]
	s[2] = y
	return y
}

// Reset clears the stage memory.
func (s *FilterState) Reset() {
	*s = FilterState{}
}

// LowPass is two cascaded biquad stages sharing one set of coefficients,
// giving a fourth-order roll-off. Memory carries over between calls so
// consecutive frames are filtered as one continuous stream.
type LowPass struct {
	coeffs Coefficients
	stages [2]FilterState
}

// NewLowPass creates a cascaded low-pass filter for the given sample rate and cutoff.
func NewLowPass(sampleRate, cutoff float64) *LowPass {
	return &LowPass{coeffs: DesignLowPass(sampleRate, cutoff)}
}

// Coefficients returns the shared stage coefficients
func (l *LowPass) Coefficients() Coefficients {
	return l.coeffs
}

// Process runs one sample through both stages.
func (l *LowPass) Process(x float64) float64 {
	x = l.stages[0].Process(x, l.coeffs)
	return l.stages[1].Process(x, l.coeffs)
}

// ProcessInPlace filters every sample of frame, in order.
func (l *LowPass) ProcessInPlace(frame []float64) {
	for i, x := range frame {
		frame[i] = l.Process(x)
	}
}

// State returns a copy of both stage memories (for testing and inspection)
func (l *LowPass) State() [2]FilterState {
	return l.stages
}

// Reset clears the memory of both stages.
func (l *LowPass) Reset() {
	l.stages[0].Reset()
	l.stages[1].Reset()
}
