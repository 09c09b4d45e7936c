package playback

import "time"

// Task is a scheduled callback that can be cancelled before it fires.
// Cancel is a safe no-op when the task already fired or was cancelled.
type Task interface {
	Cancel() bool
}

// Scheduler creates cancellable delayed callbacks. The production scheduler
// wraps time.AfterFunc; tests substitute a manual one. Callbacks may fire on
// another goroutine after a logical cancel, so the coordinator additionally
// guards every fire with a generation counter.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) Task
}

type timerScheduler struct{}

type timerTask struct {
	t *time.Timer
}

func (t timerTask) Cancel() bool {
	return t.t.Stop()
}

func (timerScheduler) Schedule(d time.Duration, fn func()) Task {
	return timerTask{t: time.AfterFunc(d, fn)}
}

// NewTimerScheduler returns the time.AfterFunc-backed scheduler.
func NewTimerScheduler() Scheduler {
	return timerScheduler{}
}
