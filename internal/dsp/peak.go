// internal/dsp/peak.go
package dsp

// Peak is the dominant bin of a transformed frame.
type Peak struct {
	// Bin is the index of the strongest bin in [0, N/2)
	Bin int
	// Magnitude is the squared magnitude re² + im² of that bin
	Magnitude float64
}

// FindPeak returns the bin with the largest squared magnitude among the first
// half of the transformed frame. Only the first half is inspected because the
// spectrum of a real signal is Hermitian symmetric. Ties keep the lowest bin;
// an all-zero frame yields bin 0 with magnitude 0.
func FindPeak(re, im []float64) Peak {
	half := len(re) / 2
	if len(im) < len(re) {
		half = len(im) / 2
	}
	if half == 0 {
		return Peak{}
	}

	peak := Peak{Bin: 0, Magnitude: re[0]*re[0] + im[0]*im[0]}
	for i := 1; i < half; i++ {
		v := re[i]*re[i] + im[i]*im[i]
		if v > peak.Magnitude {
			peak = Peak{Bin: i, Magnitude: v}
		}
	}
	return peak
}
