// Package ocho wires the CHIP-8 machine together: memory, CPU, timers,
// framebuffer and keypad, plus the clock that drives them.
package ocho

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mbetti/go-ocho/ocho/backend"
	"github.com/mbetti/go-ocho/ocho/cpu"
	"github.com/mbetti/go-ocho/ocho/input"
	"github.com/mbetti/go-ocho/ocho/input/action"
	"github.com/mbetti/go-ocho/ocho/input/event"
	"github.com/mbetti/go-ocho/ocho/memory"
	"github.com/mbetti/go-ocho/ocho/timer"
	"github.com/mbetti/go-ocho/ocho/timing"
	"github.com/mbetti/go-ocho/ocho/video"
)

// Machine is the interface front ends drive.
type Machine interface {
	RunUntilFrame() error
	GetCurrentFrame() *video.FrameBuffer
	HandleAction(act action.Action, evt event.Type)
	DebugSnapshot() *backend.DebugSnapshot
}

var _ Machine = (*Emulator)(nil)

// Emulator owns the machine state and acts as the clock driver: the CPU
// steps at the configured instruction rate while the timers tick on fixed
// 60Hz frame boundaries, independent of how many instructions ran.
type Emulator struct {
	cpu    *cpu.CPU
	mem    *memory.Memory
	fb     *video.FrameBuffer
	keypad *input.Keypad
	timers *timer.Unit
	inputs *input.Manager

	limiter       timing.Limiter
	clockRate     int
	stepsPerFrame int
	frameCount    uint64

	image  []byte // kept so Reset can reinitialize with the same image
	paused bool
	quit   bool
}

// New creates an emulator with no program loaded, stepping at the given
// instruction rate (instructions per second). A rate below 60 still runs
// one instruction per frame.
func New(clockRate int) *Emulator {
	if clockRate <= 0 {
		clockRate = timing.DefaultClockRate
	}
	stepsPerFrame := clockRate / timing.TimerRate
	if stepsPerFrame < 1 {
		stepsPerFrame = 1
	}

	e := &Emulator{
		clockRate:     clockRate,
		stepsPerFrame: stepsPerFrame,
		limiter:       timing.NewAdaptiveLimiter(),
	}
	e.init()
	return e
}

// NewWithFile creates an emulator and loads the program image at the given path.
func NewWithFile(path string, clockRate int) (*Emulator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}

	e := New(clockRate)
	if err := e.LoadImage(data); err != nil {
		return nil, err
	}

	slog.Info("Loaded program image", "path", filepath.Base(path), "bytes", len(data), "clock", clockRate)
	return e, nil
}

func (e *Emulator) init() {
	e.mem = memory.New()
	e.fb = video.NewFrameBuffer()
	e.keypad = input.NewKeypad()
	e.timers = timer.New()
	e.cpu = cpu.New(e.mem, e.fb, e.keypad, e.timers)
	e.inputs = input.NewManager(e.keypad)
	e.registerActions()
}

// LoadImage copies a program image into memory at 0x200.
func (e *Emulator) LoadImage(data []byte) error {
	if err := e.mem.LoadImage(data); err != nil {
		return err
	}
	e.image = append([]byte(nil), data...)
	return nil
}

// Reset reinitializes the whole machine and reloads the current image.
// This is the only recovery path from a fault.
func (e *Emulator) Reset() {
	slog.Info("Resetting machine")
	e.init()
	e.frameCount = 0
	if e.image != nil {
		// the image fit before, it fits now
		_ = e.mem.LoadImage(e.image)
	}
}

func (e *Emulator) registerActions() {
	e.inputs.On(action.EmulatorQuit, event.Press, func() { e.quit = true })
	e.inputs.On(action.EmulatorPauseToggle, event.Press, func() {
		e.paused = !e.paused
		slog.Info("Pause toggled", "paused", e.paused)
	})
	e.inputs.On(action.EmulatorStepFrame, event.Press, func() {
		if e.paused {
			if err := e.RunUntilFrame(); err != nil {
				slog.Error("Step frame failed", "error", err)
			}
		}
	})
	e.inputs.On(action.EmulatorReset, event.Press, func() { e.Reset() })
	e.inputs.On(action.EmulatorSnapshot, event.Press, func() { e.saveSnapshot() })
}

// RunUntilFrame executes one 60Hz frame worth of instructions, then ticks
// the timer unit exactly once. Timer decrement therefore tracks frame
// boundaries, never instruction throughput. A fault stops the frame early
// and is returned; a clean halt just stops stepping.
func (e *Emulator) RunUntilFrame() error {
	for i := 0; i < e.stepsPerFrame; i++ {
		if e.cpu.Status() == cpu.StatusHalted || e.cpu.Status() == cpu.StatusFaulted {
			break
		}
		if err := e.cpu.Step(); err != nil {
			e.timers.Tick()
			e.frameCount++
			return err
		}
	}

	e.timers.Tick()
	e.frameCount++
	return nil
}

// GetCurrentFrame returns the live framebuffer. The caller must only read it
// between frames, as the core assumes exclusive access during a step.
func (e *Emulator) GetCurrentFrame() *video.FrameBuffer {
	return e.fb
}

// HandleAction routes one translated input event into the machine.
func (e *Emulator) HandleAction(act action.Action, evt event.Type) {
	e.inputs.Trigger(act, evt)
}

// Run drives the main loop against a backend: poll input, step a frame,
// wait for the next 60Hz boundary. It returns the CPU fault if the machine
// faulted, nil on quit or clean halt.
func (e *Emulator) Run(b backend.Backend, cfg backend.Config) error {
	if cfg.DebugProvider == nil {
		cfg.DebugProvider = e
	}
	if err := b.Init(cfg); err != nil {
		return err
	}
	defer b.Cleanup()

	e.limiter.Reset()

	for !e.quit {
		events, err := b.Update(e.fb)
		if err != nil {
			return err
		}
		for _, ev := range events {
			e.HandleAction(ev.Action, ev.Type)
		}
		if e.quit {
			break
		}

		if !e.paused {
			if err := e.RunUntilFrame(); err != nil {
				slog.Error("Machine faulted", "error", err)
				return err
			}
			if e.cpu.Status() == cpu.StatusHalted {
				slog.Info("Program halted", "exit_code", e.cpu.ExitCode())
				return nil
			}
		}

		e.limiter.WaitForNextFrame()
	}

	return nil
}

// SetLimiter replaces the frame pacer. Headless runs use the no-op limiter
// to run as fast as the host allows.
func (e *Emulator) SetLimiter(l timing.Limiter) {
	e.limiter = l
}

// Fault returns the error that faulted the machine, or nil.
func (e *Emulator) Fault() error {
	return e.cpu.Fault()
}

// Halted reports whether the program stopped via the halt instruction,
// along with its exit code.
func (e *Emulator) Halted() (uint8, bool) {
	return e.cpu.ExitCode(), e.cpu.Status() == cpu.StatusHalted
}

// FrameCount returns the number of completed 60Hz frames.
func (e *Emulator) FrameCount() uint64 {
	return e.frameCount
}

// DebugSnapshot copies out machine state for debug panels.
func (e *Emulator) DebugSnapshot() *backend.DebugSnapshot {
	snap := &backend.DebugSnapshot{
		V:      e.cpu.Registers(),
		I:      e.cpu.I(),
		PC:     e.cpu.PC(),
		SP:     e.cpu.SP(),
		Delay:  e.timers.Delay(),
		Sound:  e.timers.Sound(),
		Status: e.cpu.Status().String(),
		Steps:  e.cpu.Steps(),
		Frames: e.frameCount,
	}

	// a window of code around PC, aligned to instruction words
	start := e.cpu.PC()
	if start >= 6 {
		start -= 6
	}
	snap.CodeStart, snap.Code = e.mem.Snapshot(start, 32)
	return snap
}

func (e *Emulator) saveSnapshot() {
	name := fmt.Sprintf("ocho_frame_%d_%s.txt", e.frameCount, time.Now().Format("150405"))
	path := filepath.Join(os.TempDir(), name)
	if err := backend.WriteFrameText(e.fb, path); err != nil {
		slog.Error("Failed to save snapshot", "error", err)
		return
	}
	slog.Info("Saved frame snapshot", "path", path)
}

// IsFaulted reports whether the machine is in the signaled faulted state.
func (e *Emulator) IsFaulted() bool {
	return e.cpu.Status() == cpu.StatusFaulted
}

// ErrNoImage is returned by the CLI layer when no program path was provided.
var ErrNoImage = errors.New("no program image provided")
