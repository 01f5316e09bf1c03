// internal/dsp/fft.go
package dsp

import (
	"errors"

	"gonum.org/v1/gonum/dsp/fourier"
)

// ErrNotPowerOfTwo indicates the transform size must be a power of two
var ErrNotPowerOfTwo = errors.New("transform size must be a positive power of two")

// Transformer is a fixed-size discrete Fourier transform operating in place
// on split real and imaginary buffers.
type Transformer interface {
	Transform(re, im []float64, inverse bool) error
	Size() int
}

// FFT implements Transformer on top of gonum's complex FFT.
// Not safe for concurrent use; the scratch buffers are reused on every call.
type FFT struct {
	n    int
	plan *fourier.CmplxFFT
	in   []complex128
	out  []complex128
}

// NewFFT creates a transform of size n.
func NewFFT(n int) (*FFT, error) {
	if n <= 0 || n&(n-1) != 0 {
		return nil, ErrNotPowerOfTwo
	}
	return &FFT{
		n:    n,
		plan: fourier.NewCmplxFFT(n),
		in:   make([]complex128, n),
		out:  make([]complex128, n),
	}, nil
}

// Size returns the transform length
func (f *FFT) Size() int {
	return f.n
}

// Transform replaces re and im with their forward (or inverse) DFT.
// The inverse is scaled by 1/n so a forward/inverse round trip is the identity.
func (f *FFT) Transform(re, im []float64, inverse bool) error {
	if len(re) != f.n || len(im) != f.n {
		return ErrLengthMismatch
	}

	for i := range f.in {
		f.in[i] = complex(re[i], im[i])
	}

	if inverse {
		f.plan.Sequence(f.out, f.in)
		scale := 1.0 / float64(f.n)
		for i, c := range f.out {
			re[i] = real(c) * scale
			im[i] = imag(c) * scale
		}
		return nil
	}

	f.plan.Coefficients(f.out, f.in)
	for i, c := range f.out {
		re[i] = real(c)
		im[i] = imag(c)
	}
	return nil
}
