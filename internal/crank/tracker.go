package crank

import "math"

// Tracker converts a stream of pointer positions around a pivot into a
// cumulative crank angle and a clamped progress value.
//
// Not safe for concurrent use: the session loop is the only caller.
type Tracker struct {
	totalAngle     float64 // degrees for progress to reach 1
	sensitivity    float64
	noiseThreshold float64 // degrees; deltas at or below this are noise

	cumulativeAngle float64
	lastAngle       float64
	dragging        bool
}

// NewTracker creates a tracker. totalAngle is the cumulative rotation in
// degrees that maps to full progress.
func NewTracker(totalAngle, sensitivity, noiseThreshold float64) *Tracker {
	return &Tracker{
		totalAngle:     totalAngle,
		sensitivity:    sensitivity,
		noiseThreshold: noiseThreshold,
	}
}

// Begin starts a drag gesture. The first sample only seeds the reference
// angle; it never produces a delta.
func (tr *Tracker) Begin(x, y, cx, cy float64) {
	tr.lastAngle = pointerAngle(x, y, cx, cy)
	tr.dragging = true
}

// Move processes a pointer sample while dragging. It returns true when the
// sample moved the crank beyond the noise threshold, in either direction.
// Samples arriving outside a drag gesture are ignored.
func (tr *Tracker) Move(x, y, cx, cy float64) bool {
	if !tr.dragging {
		return false
	}

	angle := pointerAngle(x, y, cx, cy)
	delta := normalizeDelta(angle - tr.lastAngle)
	tr.lastAngle = angle

	tr.cumulativeAngle += delta * tr.sensitivity

	return math.Abs(delta) > tr.noiseThreshold
}

// End finishes the gesture. Pointer-up, pointer-cancel, and capture loss all
// land here so a later re-press can't compute a delta across the gap.
func (tr *Tracker) End() {
	tr.dragging = false
	tr.lastAngle = 0
}

// Dragging reports whether a gesture is in flight.
func (tr *Tracker) Dragging() bool {
	return tr.dragging
}

// Angle returns the signed, unbounded cumulative rotation in degrees.
func (tr *Tracker) Angle() float64 {
	return tr.cumulativeAngle
}

// Progress projects the cumulative angle onto [0,1]. This is the single
// source of truth for the visual timeline.
func (tr *Tracker) Progress() float64 {
	p := tr.cumulativeAngle / tr.totalAngle
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Reset returns the tracker to its construction-time state.
func (tr *Tracker) Reset() {
	tr.cumulativeAngle = 0
	tr.lastAngle = 0
	tr.dragging = false
}

// pointerAngle is the polar angle of (x,y) around the pivot (cx,cy), in
// degrees in (-180, 180].
func pointerAngle(x, y, cx, cy float64) float64 {
	return math.Atan2(y-cy, x-cx) * 180 / math.Pi
}

// normalizeDelta folds a raw angle difference into (-180, 180]. Without this
// a pointer crossing the ±180° seam reads as a near-360° jump.
func normalizeDelta(d float64) float64 {
	for d > 180 {
		d -= 360
	}
	for d <= -180 {
		d += 360
	}
	return d
}
