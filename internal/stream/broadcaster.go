package stream

import (
	"context"
	"sync"
)

// Listener receives PCM frames from the broadcaster until Unsubscribe.
type Listener struct {
	C    chan []int16
	done chan struct{}
}

// Done is closed when the listener is unsubscribed.
func (l *Listener) Done() <-chan struct{} {
	return l.done
}

// Broadcaster fans the music box's PCM frames out to every connected
// browser tab. Slow listeners get frames dropped rather than stalling the
// box for everyone else.
type Broadcaster struct {
	mu        sync.RWMutex
	listeners map[*Listener]struct{}
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{listeners: make(map[*Listener]struct{})}
}

// Subscribe registers a listener with roughly three seconds of buffer.
func (b *Broadcaster) Subscribe() *Listener {
	l := &Listener{
		C:    make(chan []int16, 150),
		done: make(chan struct{}),
	}
	b.mu.Lock()
	b.listeners[l] = struct{}{}
	b.mu.Unlock()
	return l
}

// Unsubscribe removes a listener. Safe to call once per listener.
func (b *Broadcaster) Unsubscribe(l *Listener) {
	b.mu.Lock()
	_, ok := b.listeners[l]
	delete(b.listeners, l)
	b.mu.Unlock()
	if ok {
		close(l.done)
	}
}

// ListenerCount returns the number of active listeners.
func (b *Broadcaster) ListenerCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}

// Run fans frames from source out to all listeners until ctx is cancelled
// or the source closes.
func (b *Broadcaster) Run(ctx context.Context, source <-chan []int16) {
	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-source:
			if !ok {
				return
			}
			b.mu.RLock()
			for l := range b.listeners {
				select {
				case l.C <- frame:
				default:
					// listener too slow; drop the frame
				}
			}
			b.mu.RUnlock()
		}
	}
}
