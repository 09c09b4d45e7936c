package audio

import (
	"encoding/binary"
	"time"
)

const (
	SampleRate    = 48000
	Channels      = 2
	FrameDuration = 20 * time.Millisecond
	FrameSize     = 960                  // samples per channel per 20ms frame
	FrameSamples  = FrameSize * Channels // total interleaved samples per frame
	FrameBytes    = FrameSamples * 2     // bytes per frame (int16 = 2 bytes)
)

// ApplyGain scales a PCM frame by gain, clipping to the int16 range.
// The input frame is not modified.
func ApplyGain(frame []int16, gain float64) []int16 {
	if gain == 1 {
		out := make([]int16, len(frame))
		copy(out, frame)
		return out
	}
	out := make([]int16, len(frame))
	for i, s := range frame {
		v := float64(s) * gain
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		out[i] = int16(v)
	}
	return out
}

// SamplesToBytes converts int16 samples to little-endian bytes.
func SamplesToBytes(samples []int16) []byte {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	return buf
}
