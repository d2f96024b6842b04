package backend

import (
	"github.com/mbetti/go-ocho/ocho/input/action"
	"github.com/mbetti/go-ocho/ocho/input/event"
	"github.com/mbetti/go-ocho/ocho/video"
)

// Backend represents a complete emulator platform (rendering + input).
// Backends are responsible for:
// - Rendering frames to their specific output (terminal, SDL window, files)
// - Translating platform-specific input events to Actions
// - Handling backend-specific features (snapshots, debug panels)
type Backend interface {
	// Init configures the backend with the provided configuration.
	// This is a required step before calling Update.
	Init(config Config) error

	// Update renders the frame, polls platform events and returns them
	// translated to input events. Called once per 60Hz frame.
	Update(frame *video.FrameBuffer) ([]InputEvent, error)

	// Cleanup resources when shutting down
	Cleanup() error
}

// InputEvent is one translated platform event.
type InputEvent struct {
	Action action.Action
	Type   event.Type
}

// Config holds configuration for backends
type Config struct {
	Title     string
	Scale     int
	ShowDebug bool // Backends may ignore unsupported features

	// DebugProvider lets backends display machine state. May be nil.
	DebugProvider DebugDataProvider
}

// DebugDataProvider is implemented by the emulator to expose machine state
// for debug panels.
type DebugDataProvider interface {
	DebugSnapshot() *DebugSnapshot
}

// DebugSnapshot is a copy of the machine state taken between steps.
type DebugSnapshot struct {
	V      [16]uint8
	I      uint16
	PC     uint16
	SP     uint8
	Delay  uint8
	Sound  uint8
	Status string
	Steps  uint64
	Frames uint64

	// A window of memory around PC for disassembly display.
	CodeStart uint16
	Code      []byte
}
