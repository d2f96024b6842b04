package event

// Type represents the type of input event
type Type int

const (
	Press   Type = iota // Key pressed down (debounced for UI actions)
	Release             // Key released
	Hold                // Continuous while pressed
)
