package action

// Action represents input actions that can be performed in the emulator
type Action int

const (
	// Keypad keys 0x0 through 0xF
	Key0 Action = iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF

	// Emulator features
	EmulatorDebugToggle
	EmulatorSnapshot
	EmulatorPauseToggle
	EmulatorStepFrame
	EmulatorReset
	EmulatorQuit
)

// Category describes how an action should be handled by backends.
type Category int

const (
	// CategoryGameInput is a keypad key: tracked per-frame with
	// press/hold/release state.
	CategoryGameInput Category = iota
	// CategoryEmulator is a UI action: fired once per keystroke.
	CategoryEmulator
)

// Info holds display metadata for an action.
type Info struct {
	Category    Category
	Description string
}

var infos = map[Action]Info{
	EmulatorDebugToggle: {CategoryEmulator, "Toggle debug panel"},
	EmulatorSnapshot:    {CategoryEmulator, "Save frame snapshot"},
	EmulatorPauseToggle: {CategoryEmulator, "Pause/resume"},
	EmulatorStepFrame:   {CategoryEmulator, "Step one frame"},
	EmulatorReset:       {CategoryEmulator, "Reset machine"},
	EmulatorQuit:        {CategoryEmulator, "Quit"},
}

// GetInfo returns metadata for an action. Keypad keys share one entry.
func GetInfo(act Action) Info {
	if act >= Key0 && act <= KeyF {
		return Info{CategoryGameInput, keyNames[act]}
	}
	return infos[act]
}

var keyNames = map[Action]string{
	Key0: "Key 0", Key1: "Key 1", Key2: "Key 2", Key3: "Key 3",
	Key4: "Key 4", Key5: "Key 5", Key6: "Key 6", Key7: "Key 7",
	Key8: "Key 8", Key9: "Key 9", KeyA: "Key A", KeyB: "Key B",
	KeyC: "Key C", KeyD: "Key D", KeyE: "Key E", KeyF: "Key F",
}

// KeypadIndex returns the keypad index (0x0-0xF) for a keypad action.
// The second return value is false for non-keypad actions.
func KeypadIndex(act Action) (uint8, bool) {
	if act >= Key0 && act <= KeyF {
		return uint8(act - Key0), true
	}
	return 0, false
}
