package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbetti/go-ocho/ocho/bit"
	"github.com/mbetti/go-ocho/ocho/input"
	"github.com/mbetti/go-ocho/ocho/memory"
	"github.com/mbetti/go-ocho/ocho/timer"
	"github.com/mbetti/go-ocho/ocho/video"
)

func newTestCPU() *CPU {
	return New(memory.New(), video.NewFrameBuffer(), input.NewKeypad(), timer.New())
}

// step writes the instruction word at PC and executes it.
func step(t *testing.T, c *CPU, word uint16) {
	t.Helper()
	require.NoError(t, c.mem.WriteByte(c.pc, bit.High(word)))
	require.NoError(t, c.mem.WriteByte(c.pc+1, bit.Low(word)))
	require.NoError(t, c.Step())
}

// stepExpectingFault writes the instruction word at PC and executes it,
// requiring the step to fault.
func stepExpectingFault(t *testing.T, c *CPU, word uint16) error {
	t.Helper()
	require.NoError(t, c.mem.WriteByte(c.pc, bit.High(word)))
	require.NoError(t, c.mem.WriteByte(c.pc+1, bit.Low(word)))
	err := c.Step()
	require.Error(t, err)
	return err
}

func TestLoadAndAddProgram(t *testing.T) {
	c := newTestCPU()
	require.NoError(t, c.mem.LoadImage([]byte{0x60, 0x05, 0x61, 0x03, 0x80, 0x14}))

	for i := 0; i < 3; i++ {
		require.NoError(t, c.Step())
	}

	assert.Equal(t, uint8(8), c.v[0])
	assert.Equal(t, uint8(0), c.v[0xF])
	assert.Equal(t, uint16(0x206), c.pc)
	assert.Equal(t, StatusRunning, c.status)
}

func TestJump(t *testing.T) {
	c := newTestCPU()
	step(t, c, 0x1ABC)
	assert.Equal(t, uint16(0xABC), c.pc)
}

func TestJumpOffset(t *testing.T) {
	c := newTestCPU()
	c.v[0] = 0x10
	step(t, c, 0xB300)
	assert.Equal(t, uint16(0x310), c.pc)
}

func TestCallAndReturn(t *testing.T) {
	c := newTestCPU()

	// call from 0x200 pushes the address of the following instruction
	step(t, c, 0x2400)
	assert.Equal(t, uint16(0x400), c.pc)
	assert.Equal(t, uint8(1), c.sp)
	assert.Equal(t, uint16(0x202), c.stack[0])

	step(t, c, 0x00EE)
	assert.Equal(t, uint16(0x202), c.pc)
	assert.Equal(t, uint8(0), c.sp)
}

func TestStackOverflow(t *testing.T) {
	c := newTestCPU()

	// 16 nested calls fill the stack
	for i := 0; i < stackDepth; i++ {
		step(t, c, 0x2000|c.pc) // call self keeps PC predictable
	}
	assert.Equal(t, uint8(stackDepth), c.sp)

	prevPC := c.pc
	err := stepExpectingFault(t, c, 0x2000|c.pc)
	assert.ErrorIs(t, err, ErrStackOverflow)
	assert.Equal(t, StatusFaulted, c.status)
	assert.Equal(t, prevPC, c.pc)
	assert.Equal(t, uint8(stackDepth), c.sp)
}

func TestStackUnderflow(t *testing.T) {
	c := newTestCPU()
	err := stepExpectingFault(t, c, 0x00EE)
	assert.ErrorIs(t, err, ErrStackUnderflow)
	assert.Equal(t, StatusFaulted, c.status)
	assert.Equal(t, uint16(0x200), c.pc)
}

func TestSkipInstructions(t *testing.T) {
	tests := []struct {
		name  string
		setup func(c *CPU)
		word  uint16
		taken bool
	}{
		{"eq imm taken", func(c *CPU) { c.v[3] = 0x42 }, 0x3342, true},
		{"eq imm not taken", func(c *CPU) { c.v[3] = 0x41 }, 0x3342, false},
		{"ne imm taken", func(c *CPU) { c.v[3] = 0x41 }, 0x4342, true},
		{"ne imm not taken", func(c *CPU) { c.v[3] = 0x42 }, 0x4342, false},
		{"eq reg taken", func(c *CPU) { c.v[1], c.v[2] = 7, 7 }, 0x5120, true},
		{"eq reg not taken", func(c *CPU) { c.v[1], c.v[2] = 7, 8 }, 0x5120, false},
		{"ne reg taken", func(c *CPU) { c.v[1], c.v[2] = 7, 8 }, 0x9120, true},
		{"ne reg not taken", func(c *CPU) { c.v[1], c.v[2] = 7, 7 }, 0x9120, false},
		{"key down taken", func(c *CPU) { c.v[4] = 0xA; c.keypad.Press(0xA) }, 0xE49E, true},
		{"key down not taken", func(c *CPU) { c.v[4] = 0xA }, 0xE49E, false},
		{"key up taken", func(c *CPU) { c.v[4] = 0xA }, 0xE4A1, true},
		{"key up not taken", func(c *CPU) { c.v[4] = 0xA; c.keypad.Press(0xA) }, 0xE4A1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCPU()
			tt.setup(c)
			step(t, c, tt.word)

			want := uint16(0x202)
			if tt.taken {
				want = 0x204
			}
			assert.Equal(t, want, c.pc)
		})
	}
}

func TestRegisterOps(t *testing.T) {
	tests := []struct {
		name   string
		vx, vy uint8
		word   uint16
		want   uint8
		wantVF uint8
	}{
		{"move", 0, 0x42, 0x8010, 0x42, 0},
		{"or", 0xF0, 0x0F, 0x8011, 0xFF, 0},
		{"and", 0xF0, 0x3C, 0x8012, 0x30, 0},
		{"xor", 0xFF, 0x0F, 0x8013, 0xF0, 0},
		{"add no carry", 100, 100, 0x8014, 200, 0},
		{"add carry", 200, 100, 0x8014, 44, 1},
		{"sub no borrow", 100, 50, 0x8015, 50, 1},
		{"sub borrow", 50, 100, 0x8015, 206, 0},
		{"sub reversed no borrow", 50, 100, 0x8017, 50, 1},
		{"sub reversed borrow", 100, 50, 0x8017, 206, 0},
		{"shift right", 0, 0x05, 0x8016, 0x02, 1},
		{"shift right even", 0, 0x04, 0x8016, 0x02, 0},
		{"shift left", 0, 0x81, 0x801E, 0x02, 1},
		{"shift left no carry", 0, 0x41, 0x801E, 0x82, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCPU()
			c.v[0] = tt.vx
			c.v[1] = tt.vy
			step(t, c, tt.word)

			assert.Equal(t, tt.want, c.v[0])
			assert.Equal(t, tt.wantVF, c.v[0xF])
		})
	}
}

func TestFlagOverridesResultWhenVFIsTarget(t *testing.T) {
	c := newTestCPU()
	c.v[0xF] = 200
	c.v[1] = 100

	// 8F14: VF is both destination and flag target, the flag wins
	step(t, c, 0x8F14)
	assert.Equal(t, uint8(1), c.v[0xF])
}

func TestAddImmediateLeavesFlagAlone(t *testing.T) {
	c := newTestCPU()
	c.v[0] = 0xFF
	c.v[0xF] = 0x55
	step(t, c, 0x7002)

	assert.Equal(t, uint8(0x01), c.v[0])
	assert.Equal(t, uint8(0x55), c.v[0xF])
}

func TestRandomIsMasked(t *testing.T) {
	c := newTestCPU()
	for i := 0; i < 64; i++ {
		require.NoError(t, c.execute(Decode(0xC00F)))
		assert.Zero(t, c.v[0]&^uint8(0x0F))
	}
}

func TestLoadIndex(t *testing.T) {
	c := newTestCPU()
	step(t, c, 0xA123)
	assert.Equal(t, uint16(0x123), c.i)
}

func TestAddIndexWraps(t *testing.T) {
	c := newTestCPU()
	c.i = 0xFFF
	c.v[2] = 2
	step(t, c, 0xF21E)
	assert.Equal(t, uint16(0x001), c.i)
}

func TestFontChar(t *testing.T) {
	c := newTestCPU()
	c.v[3] = 0x0A
	step(t, c, 0xF329)
	assert.Equal(t, memory.FontAddress(0x0A), c.i)

	// only the low nibble of the digit matters
	c.v[3] = 0x1A
	step(t, c, 0xF329)
	assert.Equal(t, memory.FontAddress(0x0A), c.i)
}

func TestDrawSetsCollisionFlag(t *testing.T) {
	c := newTestCPU()
	c.i = memory.FontAddress(0)
	c.v[0] = 4
	c.v[1] = 2

	step(t, c, 0xD015)
	assert.Equal(t, uint8(0), c.v[0xF])
	assert.True(t, c.fb.GetPixel(4, 2))

	// drawing the same sprite again erases it and reports the collision
	step(t, c, 0xD015)
	assert.Equal(t, uint8(1), c.v[0xF])
	assert.False(t, c.fb.GetPixel(4, 2))
}

func TestDrawWrapsCoordinates(t *testing.T) {
	c := newTestCPU()
	c.i = memory.FontAddress(0)
	c.v[0] = 64 + 4 // same column as 4 after wrapping
	c.v[1] = 32 + 2

	step(t, c, 0xD015)
	assert.True(t, c.fb.GetPixel(4, 2))
}

func TestClearScreen(t *testing.T) {
	c := newTestCPU()
	c.fb.SetPixel(10, 10, true)
	step(t, c, 0x00E0)
	assert.False(t, c.fb.GetPixel(10, 10))
}

func TestTimers(t *testing.T) {
	c := newTestCPU()
	c.v[2] = 42
	step(t, c, 0xF215)
	assert.Equal(t, uint8(42), c.timers.Delay())

	step(t, c, 0xF307)
	assert.Equal(t, uint8(42), c.v[3])

	c.v[4] = 7
	step(t, c, 0xF418)
	assert.Equal(t, uint8(7), c.timers.Sound())
}

func TestStoreBCD(t *testing.T) {
	c := newTestCPU()
	c.v[5] = 254
	c.i = 0x300
	step(t, c, 0xF533)

	for k, want := range []byte{2, 5, 4} {
		got, err := c.mem.ReadByte(0x300 + uint16(k))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestStoreAndLoadRegisters(t *testing.T) {
	c := newTestCPU()
	for k := uint8(0); k <= 5; k++ {
		c.v[k] = k * 3
	}
	c.i = 0x300
	step(t, c, 0xF555)
	assert.Equal(t, uint16(0x300), c.i, "index register stays put")

	c.v = [16]uint8{}
	step(t, c, 0xF565)
	for k := uint8(0); k <= 5; k++ {
		assert.Equal(t, k*3, c.v[k])
	}
	assert.Equal(t, uint16(0x300), c.i)
}

func TestStoreRegistersOutOfRangeLeavesStateIntact(t *testing.T) {
	c := newTestCPU()
	c.i = 0xFFE
	before, err := c.mem.ReadByte(0xFFE)
	require.NoError(t, err)

	// storing V0..V2 at 0xFFE runs past the end of memory
	stepErr := stepExpectingFault(t, c, 0xF255)
	assert.ErrorIs(t, stepErr, memory.ErrAddressOutOfRange)
	assert.Equal(t, StatusFaulted, c.status)
	assert.Equal(t, uint16(0x200), c.pc)

	after, err := c.mem.ReadByte(0xFFE)
	require.NoError(t, err)
	assert.Equal(t, before, after, "no partial writes on a fault")
}

func TestInvalidOpcodeFaults(t *testing.T) {
	c := newTestCPU()
	err := stepExpectingFault(t, c, 0x0123)
	assert.ErrorIs(t, err, ErrInvalidOpcode)
	assert.Equal(t, StatusFaulted, c.status)
	assert.Equal(t, uint16(0x200), c.pc)

	// faults are terminal: stepping again reports the same error
	again := c.Step()
	assert.True(t, errors.Is(again, ErrInvalidOpcode))
	assert.Equal(t, err, again)
}

func TestHalt(t *testing.T) {
	c := newTestCPU()
	step(t, c, 0xF3FF)

	assert.Equal(t, StatusHalted, c.status)
	assert.Equal(t, uint8(3), c.ExitCode())

	pc := c.pc
	require.NoError(t, c.Step())
	assert.Equal(t, pc, c.pc, "halted machine does not step")
}

func TestWaitKeyLifecycle(t *testing.T) {
	c := newTestCPU()

	// a key held before the wait begins must not complete it
	c.keypad.Press(0x7)
	step(t, c, 0xF20A)
	assert.Equal(t, StatusAwaitingKey, c.status)
	assert.Equal(t, uint16(0x200), c.pc, "PC stays on the wait instruction")

	require.NoError(t, c.Step())
	assert.Equal(t, StatusAwaitingKey, c.status)

	c.keypad.Press(0x3)
	require.NoError(t, c.Step())
	assert.Equal(t, StatusRunning, c.status)
	assert.Equal(t, uint8(0x3), c.v[2])
	assert.Equal(t, uint16(0x202), c.pc)
}

func TestWaitKeyResumesOnRePress(t *testing.T) {
	c := newTestCPU()
	c.keypad.Press(0x7)
	step(t, c, 0xF20A)
	require.Equal(t, StatusAwaitingKey, c.status)

	// release and press again: now it counts as a new key
	c.keypad.Release(0x7)
	require.NoError(t, c.Step())
	require.Equal(t, StatusAwaitingKey, c.status)

	c.keypad.Press(0x7)
	require.NoError(t, c.Step())
	assert.Equal(t, StatusRunning, c.status)
	assert.Equal(t, uint8(0x7), c.v[2])
}

func TestStepCountsExecutedInstructions(t *testing.T) {
	c := newTestCPU()
	step(t, c, 0x6001)
	step(t, c, 0x6102)
	assert.Equal(t, uint64(2), c.Steps())
}

func TestSeededHaltStopsRunawayPC(t *testing.T) {
	c := newTestCPU()

	// jump into the seeded region past the program area
	step(t, c, 0x1F00)
	require.NoError(t, c.Step())

	assert.Equal(t, StatusHalted, c.status)
	assert.Equal(t, uint8(0xF), c.ExitCode())
}
