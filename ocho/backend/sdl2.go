//go:build sdl2

package backend

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/mbetti/go-ocho/ocho/input/action"
	"github.com/mbetti/go-ocho/ocho/input/event"
	"github.com/mbetti/go-ocho/ocho/video"
	"github.com/veandco/go-sdl2/sdl"
)

const defaultPixelScale = 10

// SDL2Backend implements the Backend interface using SDL2 bindings.
// Note: building this requires SDL2 development libraries installed.
// Default builds skip this and use a stubbed renderer, see build tags (sdl2)
type SDL2Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	running  bool
	config   Config
	events   []InputEvent
}

// NewSDL2Backend creates a new SDL2 backend
func NewSDL2Backend() *SDL2Backend {
	return &SDL2Backend{}
}

// keycodeMap maps the 1234/qwer/asdf/zxcv block onto the 4x4 keypad.
var keycodeMap = map[sdl.Keycode]action.Action{
	sdl.K_1: action.Key0, sdl.K_2: action.Key1, sdl.K_3: action.Key2, sdl.K_4: action.Key3,
	sdl.K_q: action.Key4, sdl.K_w: action.Key5, sdl.K_e: action.Key6, sdl.K_r: action.Key7,
	sdl.K_a: action.Key8, sdl.K_s: action.Key9, sdl.K_d: action.KeyA, sdl.K_f: action.KeyB,
	sdl.K_z: action.KeyC, sdl.K_x: action.KeyD, sdl.K_c: action.KeyE, sdl.K_v: action.KeyF,
}

// Init initializes the SDL2 backend
func (s *SDL2Backend) Init(config Config) error {
	s.config = config

	scale := config.Scale
	if scale <= 0 {
		scale = defaultPixelScale
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %w", err)
	}

	window, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(video.FramebufferWidth*scale),
		int32(video.FramebufferHeight*scale),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create window: %w", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	s.renderer = renderer

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_RGBA8888,
		sdl.TEXTUREACCESS_STREAMING,
		video.FramebufferWidth,
		video.FramebufferHeight,
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create texture: %w", err)
	}
	s.texture = texture

	s.running = true
	slog.Info("SDL2 backend initialized", "scale", scale)

	return nil
}

// Update renders a frame and processes events
func (s *SDL2Backend) Update(frame *video.FrameBuffer) ([]InputEvent, error) {
	s.events = s.events[:0]

	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		s.handleEvent(ev)
	}

	events := s.events
	if !s.running {
		return events, nil
	}

	s.renderFrame(frame)
	return events, nil
}

// Cleanup cleans up SDL2 resources
func (s *SDL2Backend) Cleanup() error {
	slog.Info("Cleaning up SDL2 backend")

	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()

	return nil
}

func (s *SDL2Backend) handleEvent(ev sdl.Event) {
	switch e := ev.(type) {
	case *sdl.QuitEvent:
		s.running = false
		s.events = append(s.events, InputEvent{Action: action.EmulatorQuit, Type: event.Press})

	case *sdl.KeyboardEvent:
		pressed := e.Type == sdl.KEYDOWN
		if act, ok := keycodeMap[e.Keysym.Sym]; ok {
			evt := event.Release
			if pressed {
				evt = event.Press
			}
			s.events = append(s.events, InputEvent{Action: act, Type: evt})
			return
		}
		if !pressed {
			return
		}
		switch e.Keysym.Sym {
		case sdl.K_ESCAPE:
			s.running = false
			s.events = append(s.events, InputEvent{Action: action.EmulatorQuit, Type: event.Press})
		case sdl.K_SPACE:
			s.events = append(s.events, InputEvent{Action: action.EmulatorPauseToggle, Type: event.Press})
		case sdl.K_F5:
			s.events = append(s.events, InputEvent{Action: action.EmulatorReset, Type: event.Press})
		case sdl.K_F12:
			s.events = append(s.events, InputEvent{Action: action.EmulatorSnapshot, Type: event.Press})
		}
	}
}

func (s *SDL2Backend) renderFrame(frame *video.FrameBuffer) {
	pixels := frame.ToSlice()
	rgba := make([]byte, video.FramebufferWidth*video.FramebufferHeight*4)

	for i, on := range pixels {
		var shade byte
		if on {
			shade = 0xFF
		}
		// ABGR byte order for little-endian RGBA8888
		rgba[i*4] = 0xFF    // Alpha
		rgba[i*4+1] = shade // Blue
		rgba[i*4+2] = shade // Green
		rgba[i*4+3] = shade // Red
	}

	s.texture.Update(nil, unsafe.Pointer(&rgba[0]), video.FramebufferWidth*4)

	s.renderer.SetDrawColor(0, 0, 0, 0xFF)
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()
}
