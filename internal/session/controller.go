package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/crankworks/musicbox/internal/crank"
	"github.com/crankworks/musicbox/internal/flipbook"
	"github.com/crankworks/musicbox/internal/playback"
)

// PointerPhase is the lifecycle stage of a pointer event.
type PointerPhase int

const (
	PhaseDown PointerPhase = iota
	PhaseMove
	PhaseUp
	PhaseCancel
)

// ParsePhase maps wire phase names to phases. Unknown names read as cancel,
// which degrades to a graceful release.
func ParsePhase(s string) PointerPhase {
	switch s {
	case "down":
		return PhaseDown
	case "move":
		return PhaseMove
	case "up":
		return PhaseUp
	}
	return PhaseCancel
}

// PointerEvent is one pointer sample from the widget, with the crank pivot
// center in the same coordinate space.
type PointerEvent struct {
	Phase  PointerPhase
	X, Y   float64
	CX, CY float64
}

// Snapshot is the presentation-facing view of the box, read by the widget
// every animation frame. Everything here derives from progress and the
// coordinator state.
type Snapshot struct {
	Progress   float64 `json:"progress"`
	Angle      float64 `json:"angle"`
	Playing    bool    `json:"playing"`
	Cranking   bool    `json:"cranking"`
	Revealed   bool    `json:"revealed"`
	State      string  `json:"state"`
	Frame      int     `json:"frame"`
	FrameCount int     `json:"frame_count"`
	Position   float64 `json:"position"` // seconds
	Duration   float64 `json:"duration"` // seconds
	AudioReady bool    `json:"audio_ready"`
}

// AudioEngine is what the session needs from the audio side: the
// coordinator's sink plus replay rewind and the end-of-tune notification.
type AudioEngine interface {
	playback.Sink
	Rewind()
	End() <-chan struct{}
}

// Config are the crank and fade parameters for one session.
type Config struct {
	TotalAngle     float64
	Sensitivity    float64
	NoiseThreshold float64
	DebounceDelay  time.Duration
	FadeStep       float64
	FadeInterval   time.Duration
}

// Controller owns all mutable widget state. A single goroutine (Run)
// processes pointer events, timer fires, audio-end notifications and replay
// requests in arrival order; nothing else touches the tracker or the
// coordinator.
type Controller struct {
	tracker *crank.Tracker
	coord   *playback.Coordinator
	engine  AudioEngine
	book    *flipbook.Book

	pointerCh chan PointerEvent
	replayCh  chan struct{}
	timerCh   chan func()

	mu       sync.RWMutex
	snapshot Snapshot

	cranking bool
}

// NewController wires a tracker and a coordinator around the audio engine.
// book may be nil when no flipbook frames are configured.
func NewController(cfg Config, engine AudioEngine, book *flipbook.Book) *Controller {
	c := &Controller{
		tracker:   crank.NewTracker(cfg.TotalAngle, cfg.Sensitivity, cfg.NoiseThreshold),
		engine:    engine,
		book:      book,
		pointerCh: make(chan PointerEvent, 64),
		replayCh:  make(chan struct{}, 1),
		timerCh:   make(chan func(), 16),
	}
	sched := loopScheduler{inner: playback.NewTimerScheduler(), post: c.timerCh}
	c.coord = playback.NewCoordinator(engine, sched, cfg.DebounceDelay, cfg.FadeStep, cfg.FadeInterval)
	c.publish()
	return c
}

// Pointer queues one pointer sample. Samples are processed strictly in
// arrival order.
func (c *Controller) Pointer(ev PointerEvent) {
	c.pointerCh <- ev
}

// Replay requests a full reset to construction-time state. Coalesces when
// one is already pending.
func (c *Controller) Replay() {
	select {
	case c.replayCh <- struct{}{}:
	default:
	}
}

// Snapshot returns the latest published state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// Run processes events until ctx is cancelled.
func (c *Controller) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-c.pointerCh:
			c.handlePointer(ev)
		case fn := <-c.timerCh:
			fn()
		case <-c.engine.End():
			c.coord.AudioEnded()
		case <-c.replayCh:
			c.handleReplay()
		}
		c.publish()
	}
}

func (c *Controller) handlePointer(ev PointerEvent) {
	switch ev.Phase {
	case PhaseDown:
		c.tracker.Begin(ev.X, ev.Y, ev.CX, ev.CY)
		c.cranking = false
	case PhaseMove:
		active := c.tracker.Move(ev.X, ev.Y, ev.CX, ev.CY)
		c.cranking = c.tracker.Dragging() && active
		if active {
			c.coord.Activity()
		}
	case PhaseUp, PhaseCancel:
		// Capture loss is treated exactly like pointer-up.
		c.tracker.End()
		c.cranking = false
		c.coord.Release()
	}
}

func (c *Controller) handleReplay() {
	c.tracker.Reset()
	c.coord.Reset()
	c.engine.Rewind()
	c.cranking = false
	log.Printf("Session reset for replay")
}

// publish refreshes the snapshot read by the presentation layer.
func (c *Controller) publish() {
	progress := c.tracker.Progress()

	snap := Snapshot{
		Progress:   progress,
		Angle:      c.tracker.Angle(),
		Playing:    c.coord.Playing(),
		Cranking:   c.cranking,
		Revealed:   c.coord.Revealed(),
		State:      c.coord.State().String(),
		Position:   c.engine.Position().Seconds(),
		Duration:   c.engine.Duration().Seconds(),
		AudioReady: c.engine.Ready(),
	}
	if c.book != nil {
		snap.Frame = c.book.Index(progress)
		snap.FrameCount = c.book.Count()
	}

	c.mu.Lock()
	c.snapshot = snap
	c.mu.Unlock()
}

// loopScheduler defers scheduled callbacks onto the controller loop so the
// coordinator only ever runs on one goroutine. A fire that arrives after
// shutdown is dropped, which is indistinguishable from a cancel.
type loopScheduler struct {
	inner playback.Scheduler
	post  chan<- func()
}

func (s loopScheduler) Schedule(d time.Duration, fn func()) playback.Task {
	return s.inner.Schedule(d, func() {
		select {
		case s.post <- fn:
		default:
		}
	})
}
