package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration, loaded from environment variables.
type Config struct {
	// Server
	Port int

	// Content
	AudioPath string // music box tune (wav decoded natively, anything else via ffmpeg)
	FramesDir string // flipbook frame images, lexical order

	// Crank feel
	TotalAngle     float64 // degrees of crank rotation for full progress
	Sensitivity    float64 // scale applied to each angle delta
	NoiseThreshold float64 // degrees; smaller deltas don't count as cranking

	// Playback coordination
	DebounceDelay time.Duration // grace window after release before fade starts
	FadeStep      float64       // volume decrement per fade tick
	FadeInterval  time.Duration // time between fade ticks

	// Decoration
	WaveformBars int // bars of waveform data served to the widget
}

// Load reads configuration from environment variables with sane defaults.
func Load() Config {
	return Config{
		Port: envInt("MUSICBOX_PORT", 8080),

		AudioPath: envStr("MUSICBOX_AUDIO", "assets/tune.wav"),
		FramesDir: envStr("MUSICBOX_FRAMES_DIR", "assets/frames"),

		TotalAngle:     envFloat("MUSICBOX_TOTAL_ANGLE", 1080),
		Sensitivity:    envFloat("MUSICBOX_SENSITIVITY", 1.0),
		NoiseThreshold: envFloat("MUSICBOX_NOISE_THRESHOLD", 0.5),

		DebounceDelay: time.Duration(envInt("MUSICBOX_DEBOUNCE_MS", 300)) * time.Millisecond,
		FadeStep:      envFloat("MUSICBOX_FADE_STEP", 0.08),
		FadeInterval:  time.Duration(envInt("MUSICBOX_FADE_INTERVAL_MS", 40)) * time.Millisecond,

		WaveformBars: envInt("MUSICBOX_WAVEFORM_BARS", 64),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
