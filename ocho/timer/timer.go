// Package timer implements the two 8 bit countdown counters of the machine.
// Both decrement at 60Hz regardless of the instruction rate; the sound timer
// counts like the delay timer but never produces audio.
package timer

// Unit holds the delay and sound counters.
type Unit struct {
	delay uint8
	sound uint8
}

// New returns a timer unit with both counters at zero.
func New() *Unit {
	return &Unit{}
}

// Tick performs one 60Hz decrement step on both counters.
// Counters freeze at zero, there is no wraparound.
func (u *Unit) Tick() {
	if u.delay > 0 {
		u.delay--
	}
	if u.sound > 0 {
		u.sound--
	}
}

// Delay returns the current delay timer value.
func (u *Unit) Delay() uint8 {
	return u.delay
}

// SetDelay sets the delay timer.
func (u *Unit) SetDelay(v uint8) {
	u.delay = v
}

// Sound returns the current sound timer value.
func (u *Unit) Sound() uint8 {
	return u.sound
}

// SetSound sets the sound timer.
func (u *Unit) SetSound(v uint8) {
	u.sound = v
}
