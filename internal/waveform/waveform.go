package waveform

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
)

const fftSize = 1024

// Bar is one decoration bar of the widget's waveform strip: an RMS level and
// a hue derived from the segment's dominant frequency. Both are 0-255 so the
// client can use them directly.
type Bar struct {
	Level uint8 `json:"level"`
	Hue   uint8 `json:"hue"`
}

// Compute condenses PCM into n bars. Levels use per-segment RMS with a small
// boost so quiet tunes still show shape; hues come from the loudest FFT bin
// of the segment's head.
func Compute(pcm []int16, n int) []Bar {
	if n <= 0 || len(pcm) == 0 {
		return nil
	}

	step := len(pcm) / n
	if step == 0 {
		step = 1
	}

	bars := make([]Bar, 0, n)
	for i := 0; i+step <= len(pcm) && len(bars) < n; i += step {
		seg := pcm[i : i+step]
		bars = append(bars, Bar{
			Level: rmsLevel(seg),
			Hue:   dominantHue(seg),
		})
	}
	return bars
}

// rmsLevel is the segment's root-mean-square amplitude scaled to 0-255.
func rmsLevel(seg []int16) uint8 {
	var sum float64
	for _, s := range seg {
		v := float64(s)
		sum += v * v
	}
	rms := math.Sqrt(sum / float64(len(seg)))
	return uint8(math.Min(rms/32768.0*255.0*4.0, 255.0))
}

// dominantHue runs an FFT over the head of the segment and maps the loudest
// bin onto 0-255. Segments shorter than the FFT window get hue 0.
func dominantHue(seg []int16) uint8 {
	if len(seg) < fftSize {
		return 0
	}

	window := make([]float64, fftSize)
	for i := 0; i < fftSize; i++ {
		window[i] = float64(seg[i])
	}

	coeffs := fft.FFTReal(window)

	best, bestMag := 0, 0.0
	// Skip bin 0: DC offset says nothing about pitch.
	for k := 1; k < fftSize/2; k++ {
		mag := real(coeffs[k])*real(coeffs[k]) + imag(coeffs[k])*imag(coeffs[k])
		if mag > bestMag {
			best, bestMag = k, mag
		}
	}
	if bestMag == 0 {
		return 0
	}
	return uint8(best * 255 / (fftSize / 2))
}
