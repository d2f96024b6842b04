package input

import "github.com/mbetti/go-ocho/ocho/input/action"

// DefaultKeyMap provides default key mappings that work across backends.
// The 4x4 keypad maps sequentially onto the 1234/qwer/asdf/zxcv block.
var DefaultKeyMap = map[string]action.Action{
	"1": action.Key0,
	"2": action.Key1,
	"3": action.Key2,
	"4": action.Key3,
	"q": action.Key4,
	"w": action.Key5,
	"e": action.Key6,
	"r": action.Key7,
	"a": action.Key8,
	"s": action.Key9,
	"d": action.KeyA,
	"f": action.KeyB,
	"z": action.KeyC,
	"x": action.KeyD,
	"c": action.KeyE,
	"v": action.KeyF,

	// Emulator controls
	"Space":  action.EmulatorPauseToggle,
	"p":      action.EmulatorPauseToggle,
	"o":      action.EmulatorStepFrame,
	"F5":     action.EmulatorReset,
	"F10":    action.EmulatorDebugToggle,
	"F12":    action.EmulatorSnapshot,
	"Escape": action.EmulatorQuit,
}

// GetDefaultMapping returns the default action for a key, if one exists
func GetDefaultMapping(key string) (action.Action, bool) {
	act, ok := DefaultKeyMap[key]
	return act, ok
}
