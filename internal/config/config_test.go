package config

import (
	"os"
	"testing"
	"time"
)

var allKeys = []string{
	"MUSICBOX_PORT", "MUSICBOX_AUDIO", "MUSICBOX_FRAMES_DIR",
	"MUSICBOX_TOTAL_ANGLE", "MUSICBOX_SENSITIVITY", "MUSICBOX_NOISE_THRESHOLD",
	"MUSICBOX_DEBOUNCE_MS", "MUSICBOX_FADE_STEP", "MUSICBOX_FADE_INTERVAL_MS",
	"MUSICBOX_WAVEFORM_BARS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.AudioPath != "assets/tune.wav" {
		t.Errorf("AudioPath = %q, want default", cfg.AudioPath)
	}
	if cfg.FramesDir != "assets/frames" {
		t.Errorf("FramesDir = %q, want default", cfg.FramesDir)
	}
	if cfg.TotalAngle != 1080 {
		t.Errorf("TotalAngle = %v, want 1080", cfg.TotalAngle)
	}
	if cfg.Sensitivity != 1.0 {
		t.Errorf("Sensitivity = %v, want 1.0", cfg.Sensitivity)
	}
	if cfg.NoiseThreshold != 0.5 {
		t.Errorf("NoiseThreshold = %v, want 0.5", cfg.NoiseThreshold)
	}
	if cfg.DebounceDelay != 300*time.Millisecond {
		t.Errorf("DebounceDelay = %v, want 300ms", cfg.DebounceDelay)
	}
	if cfg.FadeStep != 0.08 {
		t.Errorf("FadeStep = %v, want 0.08", cfg.FadeStep)
	}
	if cfg.FadeInterval != 40*time.Millisecond {
		t.Errorf("FadeInterval = %v, want 40ms", cfg.FadeInterval)
	}
	if cfg.WaveformBars != 64 {
		t.Errorf("WaveformBars = %d, want 64", cfg.WaveformBars)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MUSICBOX_PORT", "9000")
	t.Setenv("MUSICBOX_AUDIO", "/media/tune.flac")
	t.Setenv("MUSICBOX_TOTAL_ANGLE", "720")
	t.Setenv("MUSICBOX_DEBOUNCE_MS", "500")
	t.Setenv("MUSICBOX_FADE_STEP", "0.2")

	cfg := Load()

	if cfg.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port)
	}
	if cfg.AudioPath != "/media/tune.flac" {
		t.Errorf("AudioPath = %q, want override", cfg.AudioPath)
	}
	if cfg.TotalAngle != 720 {
		t.Errorf("TotalAngle = %v, want 720", cfg.TotalAngle)
	}
	if cfg.DebounceDelay != 500*time.Millisecond {
		t.Errorf("DebounceDelay = %v, want 500ms", cfg.DebounceDelay)
	}
	if cfg.FadeStep != 0.2 {
		t.Errorf("FadeStep = %v, want 0.2", cfg.FadeStep)
	}
}

func TestLoadIgnoresGarbage(t *testing.T) {
	clearEnv(t)
	t.Setenv("MUSICBOX_PORT", "not-a-number")
	t.Setenv("MUSICBOX_SENSITIVITY", "fast")

	cfg := Load()

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want default 8080 on parse failure", cfg.Port)
	}
	if cfg.Sensitivity != 1.0 {
		t.Errorf("Sensitivity = %v, want default 1.0 on parse failure", cfg.Sensitivity)
	}
}
