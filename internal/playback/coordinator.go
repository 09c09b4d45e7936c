package playback

import (
	"log"
	"time"
)

// Sink is the narrow audio capability the coordinator drives. It never
// seeks: the coordinator only starts, stops, and fades playback.
type Sink interface {
	Play()
	Pause()
	SetVolume(v float64)
	Position() time.Duration
	Duration() time.Duration
	Ready() bool
}

// State of the coordinator's machine.
type State int

const (
	StateIdle State = iota
	StatePlaying
	StatePendingPause
	StateRevealed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePendingPause:
		return "pending-pause"
	case StateRevealed:
		return "revealed"
	}
	return "unknown"
}

// Coordinator starts forward-only audio when cranking is detected and
// schedules a debounced fade-to-pause when it stops. All methods, including
// scheduled callbacks, must run on the single session loop goroutine.
type Coordinator struct {
	sink  Sink
	sched Scheduler

	debounce     time.Duration
	fadeStep     float64
	fadeInterval time.Duration

	state   State
	volume  float64
	pending Task
	gen     uint64 // bumped on every cancel point; stale fires are dropped
}

// NewCoordinator creates a coordinator in the idle state at full volume.
func NewCoordinator(sink Sink, sched Scheduler, debounce time.Duration, fadeStep float64, fadeInterval time.Duration) *Coordinator {
	return &Coordinator{
		sink:         sink,
		sched:        sched,
		debounce:     debounce,
		fadeStep:     fadeStep,
		fadeInterval: fadeInterval,
		state:        StateIdle,
		volume:       1,
	}
}

// State returns the current machine state.
func (c *Coordinator) State() State { return c.state }

// Playing reports whether audio is audible (playing or fading out).
func (c *Coordinator) Playing() bool {
	return c.state == StatePlaying || c.state == StatePendingPause
}

// Revealed reports whether the terminal state has been reached.
func (c *Coordinator) Revealed() bool { return c.state == StateRevealed }

// Volume returns the coordinator's current volume setting.
func (c *Coordinator) Volume() float64 { return c.volume }

// Activity is invoked for every tick on which the crank moved beyond the
// noise threshold, in either direction. It starts playback if needed and
// cancels any pending or in-flight fade.
func (c *Coordinator) Activity() {
	switch c.state {
	case StateRevealed:
		return
	case StatePlaying:
		return
	}

	if !c.sink.Ready() {
		return
	}

	c.cancelPending()

	if c.volume != 1 {
		// Cranking resumed mid-fade; snap back to full.
		c.volume = 1
		c.sink.SetVolume(1)
	}

	if c.state == StateIdle {
		c.sink.Play()
	}
	c.state = StatePlaying
}

// Release is invoked when the pointer lets go of the crank. It arms the
// debounced fade-to-pause. Releasing in any other state is a no-op.
func (c *Coordinator) Release() {
	if c.state != StatePlaying {
		return
	}
	c.state = StatePendingPause
	gen := c.gen
	c.pending = c.sched.Schedule(c.debounce, func() { c.onDebounce(gen) })
}

// onDebounce fires when the grace window elapsed with no cranking. A stale
// generation means the timer was logically cancelled after the underlying
// timer had already committed to firing; those are dropped here.
func (c *Coordinator) onDebounce(gen uint64) {
	if gen != c.gen || c.state != StatePendingPause {
		return
	}
	c.pending = nil
	c.fadeTick(gen)
}

// fadeTick lowers the volume one decrement and reschedules itself until the
// volume reaches zero, then pauses and restores full volume for next time.
func (c *Coordinator) fadeTick(gen uint64) {
	if gen != c.gen || c.state != StatePendingPause {
		return
	}

	c.volume -= c.fadeStep
	if c.volume <= 0 {
		c.volume = 0
		c.sink.SetVolume(0)
		c.sink.Pause()
		c.volume = 1
		c.sink.SetVolume(1)
		c.state = StateIdle
		return
	}

	c.sink.SetVolume(c.volume)
	c.pending = c.sched.Schedule(c.fadeInterval, func() { c.fadeTick(gen) })
}

// AudioEnded is invoked when playback reaches its natural end. The machine
// locks into the terminal revealed state; only Reset leaves it.
func (c *Coordinator) AudioEnded() {
	c.cancelPending()
	if c.volume != 1 {
		c.volume = 1
		c.sink.SetVolume(1)
	}
	c.state = StateRevealed
	log.Printf("Playback complete, box revealed")
}

// Reset returns the coordinator to its construction-time defaults and
// silences the sink.
func (c *Coordinator) Reset() {
	c.cancelPending()
	c.volume = 1
	if c.sink.Ready() {
		c.sink.Pause()
		c.sink.SetVolume(1)
	}
	c.state = StateIdle
}

// cancelPending invalidates every outstanding scheduled callback. Bumping
// the generation also neutralizes callbacks that already left the timer but
// have not run yet.
func (c *Coordinator) cancelPending() {
	c.gen++
	if c.pending != nil {
		c.pending.Cancel()
		c.pending = nil
	}
}
