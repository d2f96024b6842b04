package input

// Keypad is the 16-key input latch. An external key-mapping collaborator
// writes it once per frame; the core only reads it during a step, so no
// synchronization is needed as long as stepping and input share one loop.
type Keypad struct {
	keys [16]bool
}

// NewKeypad returns a keypad with all keys up.
func NewKeypad() *Keypad {
	return &Keypad{}
}

// Press marks a key (0x0-0xF) as held down.
func (k *Keypad) Press(key uint8) {
	k.keys[key&0x0F] = true
}

// Release marks a key (0x0-0xF) as up.
func (k *Keypad) Release(key uint8) {
	k.keys[key&0x0F] = false
}

// IsPressed reports whether a key (0x0-0xF) is held down.
func (k *Keypad) IsPressed(key uint8) bool {
	return k.keys[key&0x0F]
}

// Snapshot returns the current state of all 16 keys.
func (k *Keypad) Snapshot() [16]bool {
	return k.keys
}

// FirstPressed returns the lowest-numbered key currently held down.
// The second return value is false when no key is down.
func (k *Keypad) FirstPressed() (uint8, bool) {
	for i := uint8(0); i < 16; i++ {
		if k.keys[i] {
			return i, true
		}
	}
	return 0, false
}

// Reset releases every key.
func (k *Keypad) Reset() {
	k.keys = [16]bool{}
}
