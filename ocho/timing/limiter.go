package timing

import "time"

// TimerRate is the fixed 60Hz cadence of the delay and sound timers.
// It is not configurable.
const TimerRate = 60

// DefaultClockRate is the default instruction rate in instructions per
// second. The historical hardware had no authoritative rate, so this is
// just a playable default; it is overridable from the command line.
const DefaultClockRate = 720

// Limiter controls frame rate timing for emulation.
type Limiter interface {
	// WaitForNextFrame blocks until it's time for the next frame.
	// Returns immediately if timing is behind schedule.
	WaitForNextFrame()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// FrameDuration returns the target duration of a single 60Hz frame.
func FrameDuration() time.Duration {
	return time.Second / TimerRate
}

// NewNoOpLimiter returns a limiter that doesn't limit (for headless mode).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextFrame() {}
func (n *noOpLimiter) Reset()            {}
