package cpu

import (
	"fmt"
	"math/rand/v2"

	"github.com/mbetti/go-ocho/ocho/input"
	"github.com/mbetti/go-ocho/ocho/memory"
	"github.com/mbetti/go-ocho/ocho/timer"
	"github.com/mbetti/go-ocho/ocho/video"
)

// stackDepth is the maximum number of nested subroutine calls.
const stackDepth = 16

// Status is the machine's execution state.
type Status int

const (
	// StatusRunning means Step will fetch and execute the next instruction.
	StatusRunning Status = iota
	// StatusAwaitingKey means a key-wait instruction is pending: PC still
	// points at it and Step only polls the keypad until a new key arrives.
	StatusAwaitingKey
	// StatusHalted means the program stopped cleanly via the halt extension.
	StatusHalted
	// StatusFaulted means a step faulted; state before that step is intact
	// and Fault reports the cause. Only a fresh machine recovers.
	StatusFaulted
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusAwaitingKey:
		return "awaiting key"
	case StatusHalted:
		return "halted"
	case StatusFaulted:
		return "faulted"
	}
	return "unknown"
}

// CPU is the fetch-decode-execute engine. It owns the register file and call
// stack, and mutates the memory, framebuffer and timer unit it is wired to.
// Everything is fixed-size; nothing allocates after construction.
type CPU struct {
	v     [16]uint8
	i     uint16
	pc    uint16
	stack [stackDepth]uint16
	sp    uint8

	status   Status
	fault    error
	exitCode uint8

	// key-wait bookkeeping: target register and the keypad state captured
	// when the wait began, so only a newly pressed key completes it
	waitReg  uint8
	waitKeys [16]bool

	rng *rand.Rand

	mem    *memory.Memory
	fb     *video.FrameBuffer
	keypad *input.Keypad
	timers *timer.Unit

	steps uint64
}

// New returns a CPU wired to the given components, with PC at the program
// start and a time-seeded random source.
func New(mem *memory.Memory, fb *video.FrameBuffer, keypad *input.Keypad, timers *timer.Unit) *CPU {
	return &CPU{
		pc:     memory.ImageStart,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		mem:    mem,
		fb:     fb,
		keypad: keypad,
		timers: timers,
	}
}

// Step runs one fetch-decode-execute cycle. A step is all-or-nothing: on a
// fault no mutation from the instruction is visible, PC included, and the
// CPU transitions to StatusFaulted. Halted and faulted machines do nothing.
func (c *CPU) Step() error {
	switch c.status {
	case StatusHalted:
		return nil
	case StatusFaulted:
		return c.fault
	case StatusAwaitingKey:
		c.pollAwaitedKey()
		return nil
	}

	word, err := c.mem.ReadWord(c.pc)
	if err != nil {
		return c.failStep(0, c.pc, err)
	}

	inst := Decode(word)

	// Advance PC before dispatch so jumps can overwrite it.
	prevPC := c.pc
	c.pc = (c.pc + 2) & memory.AddrMask

	if err := c.execute(inst); err != nil {
		c.pc = prevPC
		return c.failStep(word, prevPC, err)
	}

	c.steps++
	return nil
}

func (c *CPU) failStep(word, addr uint16, err error) error {
	c.status = StatusFaulted
	c.fault = fmt.Errorf("opcode 0x%04X at 0x%03X: %w", word, addr, err)
	return c.fault
}

// pollAwaitedKey completes a pending key-wait on the first key seen down that
// was not already down. Keys observed up while waiting are cleared from the
// snapshot, so releasing and re-pressing a key counts as a new press. The key
// lands in the wait register and PC finally moves past the wait instruction.
func (c *CPU) pollAwaitedKey() {
	for key := uint8(0); key < 16; key++ {
		if !c.keypad.IsPressed(key) {
			c.waitKeys[key] = false
			continue
		}
		if !c.waitKeys[key] {
			c.v[c.waitReg] = key
			c.status = StatusRunning
			c.pc = (c.pc + 2) & memory.AddrMask
			c.steps++
			return
		}
	}
}

// skip advances PC over the next instruction when a skip condition holds.
func (c *CPU) skip(condition bool) {
	if condition {
		c.pc = (c.pc + 2) & memory.AddrMask
	}
}

// Status returns the machine's execution state.
func (c *CPU) Status() Status {
	return c.status
}

// Fault returns the error that faulted the machine, or nil.
func (c *CPU) Fault() error {
	return c.fault
}

// ExitCode returns the code passed to the halt instruction. Only meaningful
// once Status is StatusHalted.
func (c *CPU) ExitCode() uint8 {
	return c.exitCode
}

// Getter methods for debug display and tests.
func (c *CPU) V(index uint8) uint8 { return c.v[index&0x0F] }
func (c *CPU) I() uint16           { return c.i }
func (c *CPU) PC() uint16          { return c.pc }
func (c *CPU) SP() uint8           { return c.sp }
func (c *CPU) Steps() uint64       { return c.steps }

// Registers returns a copy of V0-VF.
func (c *CPU) Registers() [16]uint8 {
	return c.v
}
