package audio

import (
	"encoding/binary"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// DecodeFile decodes an audio file to interleaved stereo int16 samples at
// 48kHz. WAV files already in that format are decoded natively; everything
// else goes through FFmpeg.
func DecodeFile(path string) ([]int16, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		samples, err := decodeWAV(path)
		if err == nil {
			return samples, nil
		}
		// Wrong rate/depth or malformed header; FFmpeg handles those.
	}
	return decodeFFmpeg(path)
}

// decodeWAV reads a 16-bit 48kHz WAV without spawning a process. Mono input
// is duplicated to both channels.
func decodeWAV(path string) ([]int16, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("not a valid wav file: %s", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wav decode %s: %w", path, err)
	}
	if int(dec.BitDepth) != 16 || buf.Format.SampleRate != SampleRate {
		return nil, fmt.Errorf("wav %s is %d-bit %dHz, want 16-bit %dHz", path, dec.BitDepth, buf.Format.SampleRate, SampleRate)
	}

	return interleaveStereo(buf)
}

func interleaveStereo(buf *gaudio.IntBuffer) ([]int16, error) {
	switch buf.Format.NumChannels {
	case Channels:
		samples := make([]int16, len(buf.Data))
		for i, s := range buf.Data {
			samples[i] = int16(s)
		}
		return samples, nil
	case 1:
		samples := make([]int16, len(buf.Data)*2)
		for i, s := range buf.Data {
			samples[i*2] = int16(s)
			samples[i*2+1] = int16(s)
		}
		return samples, nil
	default:
		return nil, fmt.Errorf("unsupported channel count %d", buf.Format.NumChannels)
	}
}

// decodeFFmpeg shells out to FFmpeg for arbitrary input formats.
func decodeFFmpeg(path string) ([]int16, error) {
	cmd := exec.Command("ffmpeg",
		"-i", path,
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", "48000",
		"-ac", "2",
		"-loglevel", "error",
		"pipe:1",
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg decode %s: %w", path, err)
	}

	if len(out)%2 != 0 {
		out = out[:len(out)-1]
	}

	samples := make([]int16, len(out)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(out[i*2 : i*2+2]))
	}
	return samples, nil
}
