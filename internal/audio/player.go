package audio

import (
	"context"
	"log"
	"sync"
	"time"
)

// Player owns the decoded music-box tune and emits 20ms PCM frames at
// real-time rate. The cursor only moves forward; Rewind exists solely for
// the session replay. While paused (or before any play) the player emits
// silence so downstream encoders keep a continuous timeline.
//
// Player implements the coordinator's audio sink.
type Player struct {
	mu      sync.Mutex
	samples []int16
	frames  int // whole 20ms frames in samples
	cursor  int // next frame to emit
	playing bool
	gain    float64
	ready   bool

	frameCh chan []int16
	endCh   chan struct{}
	silence []int16
}

// NewPlayer wraps decoded PCM. An empty sample slice produces a not-ready
// player whose transport still emits silence.
func NewPlayer(samples []int16) *Player {
	frames := len(samples) / FrameSamples
	return &Player{
		samples: samples,
		frames:  frames,
		gain:    1,
		ready:   frames > 0,
		frameCh: make(chan []int16, 100),
		endCh:   make(chan struct{}, 1),
		silence: make([]int16, FrameSamples),
	}
}

// LoadPlayer decodes path and wraps it. On decode failure it returns a
// silent, not-ready player together with the error so the caller can log
// and keep the widget interactive.
func LoadPlayer(path string) (*Player, error) {
	samples, err := DecodeFile(path)
	if err != nil {
		return NewPlayer(nil), err
	}
	return NewPlayer(samples), nil
}

// Frames returns the channel of outgoing PCM frames (20ms each).
func (p *Player) Frames() <-chan []int16 {
	return p.frameCh
}

// End signals once each time playback reaches the final frame.
func (p *Player) End() <-chan struct{} {
	return p.endCh
}

// PCM exposes the decoded samples for waveform precomputation.
func (p *Player) PCM() []int16 {
	return p.samples
}

// Ready reports whether a tune was decoded successfully.
func (p *Player) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready
}

// Play resumes emission from the current cursor. Starting past the end is a
// no-op; the session resets the cursor through Rewind first.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready || p.cursor >= p.frames {
		return
	}
	p.playing = true
}

// Pause halts emission without moving the cursor.
func (p *Player) Pause() {
	p.mu.Lock()
	p.playing = false
	p.mu.Unlock()
}

// SetVolume sets the output gain, clamped to [0,1].
func (p *Player) SetVolume(v float64) {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	p.mu.Lock()
	p.gain = v
	p.mu.Unlock()
}

// Position returns the playback cursor as a duration from the start.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return time.Duration(p.cursor) * FrameDuration
}

// Duration returns the total tune length.
func (p *Player) Duration() time.Duration {
	return time.Duration(p.frames) * FrameDuration
}

// Rewind moves the cursor back to the start, paused. Replay only.
func (p *Player) Rewind() {
	p.mu.Lock()
	p.cursor = 0
	p.playing = false
	p.gain = 1
	p.mu.Unlock()
}

// Run emits frames at real-time rate until ctx is cancelled.
func (p *Player) Run(ctx context.Context) {
	defer close(p.frameCh)

	ticker := time.NewTicker(FrameDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		frame, ended := p.step()
		if ended {
			select {
			case p.endCh <- struct{}{}:
			default:
			}
			log.Printf("Tune finished (%d frames)", p.frames)
		}

		select {
		case p.frameCh <- frame:
		case <-ctx.Done():
			return
		}
	}
}

// step produces the next output frame. It returns silence while paused and
// reports ended exactly once, on the tick that consumed the final frame.
func (p *Player) step() (frame []int16, ended bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.playing || p.cursor >= p.frames {
		return p.silence, false
	}

	raw := p.samples[p.cursor*FrameSamples : (p.cursor+1)*FrameSamples]
	frame = ApplyGain(raw, p.gain)
	p.cursor++

	if p.cursor >= p.frames {
		p.playing = false
		ended = true
	}
	return frame, ended
}
