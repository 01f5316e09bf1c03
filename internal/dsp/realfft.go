// internal/dsp/realfft.go
package dsp

import (
	"errors"
	"fmt"

	"github.com/andrepxx/go-dsp-guitar/fft"
)

// ErrInverseUnsupported indicates the transform only runs forward
var ErrInverseUnsupported = errors.New("inverse transform not supported")

// RealFFT implements Transformer for real-valued frames using the
// real-input FFT from go-dsp-guitar. The imaginary input is ignored and
// only the forward direction is available.
type RealFFT struct {
	n        int
	ft       fft.FourierTransform
	signal   []float64
	spectrum []complex128
}

// NewRealFFT creates a real-input transform of size n.
func NewRealFFT(n int) (*RealFFT, error) {
	if n <= 0 || n&(n-1) != 0 {
		return nil, ErrNotPowerOfTwo
	}
	return &RealFFT{
		n:        n,
		ft:       fft.CreateFourierTransform(),
		signal:   make([]float64, n),
		spectrum: make([]complex128, n),
	}, nil
}

// Size returns the transform length
func (f *RealFFT) Size() int {
	return f.n
}

// Transform replaces re and im with the spectrum of the real signal in re.
func (f *RealFFT) Transform(re, im []float64, inverse bool) error {
	if inverse {
		return ErrInverseUnsupported
	}
	if len(re) != f.n || len(im) != f.n {
		return ErrLengthMismatch
	}

	copy(f.signal, re)
	if err := f.ft.RealFourier(f.signal, f.spectrum, fft.SCALING_DEFAULT); err != nil {
		return fmt.Errorf("real fourier: %w", err)
	}

	for i, c := range f.spectrum {
		re[i] = real(c)
		im[i] = imag(c)
	}
	return nil
}
