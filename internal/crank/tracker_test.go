package crank

import (
	"math"
	"testing"
)

const (
	cx = 100.0
	cy = 100.0
)

// pointAt returns widget coordinates on a circle of radius 50 around the
// pivot, at the given angle in degrees.
func pointAt(deg float64) (float64, float64) {
	rad := deg * math.Pi / 180
	return cx + 50*math.Cos(rad), cy + 50*math.Sin(rad)
}

func drag(tr *Tracker, degrees ...float64) {
	x, y := pointAt(degrees[0])
	tr.Begin(x, y, cx, cy)
	for _, d := range degrees[1:] {
		x, y = pointAt(d)
		tr.Move(x, y, cx, cy)
	}
	tr.End()
}

// --- normalizeDelta ---

func TestNormalizeDelta(t *testing.T) {
	tests := []struct {
		raw  float64
		want float64
	}{
		{0, 0},
		{90, 90},
		{-90, -90},
		{180, 180},
		{-180, 180},
		{358, -2},   // 179 -> -179 crossing, naive difference
		{-358, 2},   // -179 -> 179 crossing
		{350, -10},
		{-350, 10},
		{720, 0},
	}
	for _, tt := range tests {
		got := normalizeDelta(tt.raw)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("normalizeDelta(%v) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestSeamCrossing(t *testing.T) {
	tr := NewTracker(1080, 1.0, 0.5)

	// Drag across the +/-180 seam: 175 -> 179 -> -179 -> -175.
	// Real rotation is +4, +2, +4 degrees; naive subtraction would see -358
	// on the middle hop.
	x, y := pointAt(175)
	tr.Begin(x, y, cx, cy)
	for _, deg := range []float64{179, -179, -175} {
		x, y = pointAt(deg)
		tr.Move(x, y, cx, cy)
	}

	if got := tr.Angle(); math.Abs(got-10) > 1e-6 {
		t.Errorf("Angle after seam crossing = %v, want 10", got)
	}
}

// --- accumulation and progress ---

func TestFirstSampleSeedsOnly(t *testing.T) {
	tr := NewTracker(1080, 1.0, 0.5)
	x, y := pointAt(45)
	tr.Begin(x, y, cx, cy)

	if tr.Angle() != 0 {
		t.Errorf("Angle after Begin = %v, want 0", tr.Angle())
	}
	if tr.Progress() != 0 {
		t.Errorf("Progress after Begin = %v, want 0", tr.Progress())
	}
}

func TestNoDeltaAcrossGestureGap(t *testing.T) {
	tr := NewTracker(1080, 1.0, 0.5)

	drag(tr, 0, 30) // +30
	// Re-press at a completely different angle; gap must not count.
	drag(tr, 120, 150) // +30

	if got := tr.Angle(); math.Abs(got-60) > 1e-6 {
		t.Errorf("Angle across two gestures = %v, want 60", got)
	}
}

func TestMoveIgnoredWithoutBegin(t *testing.T) {
	tr := NewTracker(1080, 1.0, 0.5)
	x, y := pointAt(90)
	if tr.Move(x, y, cx, cy) {
		t.Error("Move without Begin reported activity")
	}
	if tr.Angle() != 0 {
		t.Errorf("Angle = %v, want 0", tr.Angle())
	}
}

func TestProgressClamped(t *testing.T) {
	tr := NewTracker(360, 1.0, 0.5)

	// Ten full forward turns: cumulative angle 3600, progress pinned at 1.
	x, y := pointAt(0)
	tr.Begin(x, y, cx, cy)
	for turn := 0; turn < 10; turn++ {
		for _, deg := range []float64{90, 180, -90, 0} {
			x, y = pointAt(deg)
			tr.Move(x, y, cx, cy)
		}
	}

	if math.Abs(tr.Angle()-3600) > 1e-6 {
		t.Errorf("Angle = %v, want 3600", tr.Angle())
	}
	if tr.Progress() != 1 {
		t.Errorf("Progress = %v, want clamped to 1", tr.Progress())
	}

	// Five full backward turns past the start: progress pinned at 0.
	for turn := 0; turn < 15; turn++ {
		for _, deg := range []float64{-90, 180, 90, 0} {
			x, y = pointAt(deg)
			tr.Move(x, y, cx, cy)
		}
	}
	tr.End()

	if math.Abs(tr.Angle()+1800) > 1e-6 {
		t.Errorf("Angle = %v, want -1800", tr.Angle())
	}
	if tr.Progress() != 0 {
		t.Errorf("Progress = %v, want clamped to 0", tr.Progress())
	}
}

func TestBidirectional(t *testing.T) {
	tr := NewTracker(360, 1.0, 0.5)

	// Forward past full...
	x, y := pointAt(0)
	tr.Begin(x, y, cx, cy)
	for turn := 0; turn < 2; turn++ {
		for _, deg := range []float64{90, 180, -90, 0} {
			x, y = pointAt(deg)
			tr.Move(x, y, cx, cy)
		}
	}
	if tr.Progress() != 1 {
		t.Fatalf("Progress = %v, want 1", tr.Progress())
	}

	// ...then a quarter turn back must reduce progress.
	x, y = pointAt(-90)
	tr.Move(x, y, cx, cy)
	tr.End()

	// 720-90=630 cumulative, 630/360 still above 1, so still clamped.
	if got := tr.Progress(); got != 1 {
		t.Errorf("Progress after small backward = %v, want 1 (still above full)", got)
	}

	// Crank back a further full turn: 630-360=270, progress 0.75.
	x, y = pointAt(-90)
	tr.Begin(x, y, cx, cy)
	for _, deg := range []float64{180, 90, 0, -90} {
		x, y = pointAt(deg)
		tr.Move(x, y, cx, cy)
	}
	tr.End()

	if got := tr.Progress(); math.Abs(got-0.75) > 1e-6 {
		t.Errorf("Progress after backward turn = %v, want 0.75", got)
	}
}

func TestSensitivityScalesAccumulation(t *testing.T) {
	tr := NewTracker(1080, 2.0, 0.5)
	drag(tr, 0, 90)
	if got := tr.Angle(); math.Abs(got-180) > 1e-6 {
		t.Errorf("Angle with sensitivity 2 = %v, want 180", got)
	}
}

// --- activity signal ---

func TestActivityBothDirections(t *testing.T) {
	tr := NewTracker(1080, 1.0, 0.5)

	x, y := pointAt(0)
	tr.Begin(x, y, cx, cy)

	x, y = pointAt(10)
	if !tr.Move(x, y, cx, cy) {
		t.Error("forward delta above threshold not reported as activity")
	}
	x, y = pointAt(0)
	if !tr.Move(x, y, cx, cy) {
		t.Error("backward delta above threshold not reported as activity")
	}
}

func TestActivityNoiseThreshold(t *testing.T) {
	tr := NewTracker(1080, 1.0, 0.5)

	x, y := pointAt(0)
	tr.Begin(x, y, cx, cy)

	x, y = pointAt(0.3)
	if tr.Move(x, y, cx, cy) {
		t.Error("sub-threshold jitter reported as activity")
	}
	// Jitter still accumulates; it just doesn't count as cranking.
	if tr.Angle() == 0 {
		t.Error("sub-threshold delta was not accumulated")
	}
}

// --- reset ---

func TestReset(t *testing.T) {
	tr := NewTracker(1080, 1.0, 0.5)
	x, y := pointAt(0)
	tr.Begin(x, y, cx, cy)
	x, y = pointAt(170)
	tr.Move(x, y, cx, cy)

	tr.Reset()

	if tr.Angle() != 0 {
		t.Errorf("Angle after reset = %v, want 0", tr.Angle())
	}
	if tr.Progress() != 0 {
		t.Errorf("Progress after reset = %v, want 0", tr.Progress())
	}
	if tr.Dragging() {
		t.Error("Dragging after reset = true, want false")
	}
}
