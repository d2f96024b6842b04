package cpu

import (
	"fmt"

	"github.com/mbetti/go-ocho/ocho/bit"
	"github.com/mbetti/go-ocho/ocho/memory"
	"github.com/mbetti/go-ocho/ocho/video"
)

// execute applies the semantics of one decoded instruction. Instructions
// that touch memory validate the whole address range before mutating
// anything, so an error return means no state changed.
func (c *CPU) execute(inst Instruction) error {
	switch inst.Op {
	case OpInvalid:
		return ErrInvalidOpcode

	case OpNop:
		// nonstandard 0000 no-op

	case OpClearScreen:
		c.fb.Clear()

	case OpReturn:
		if c.sp == 0 {
			return ErrStackUnderflow
		}
		c.sp--
		c.pc = c.stack[c.sp]

	case OpJump:
		c.pc = inst.NNN

	case OpCall:
		if c.sp == stackDepth {
			return ErrStackOverflow
		}
		c.stack[c.sp] = c.pc
		c.sp++
		c.pc = inst.NNN

	case OpSkipEqImm:
		c.skip(c.v[inst.X] == inst.NN)

	case OpSkipNeImm:
		c.skip(c.v[inst.X] != inst.NN)

	case OpSkipEqReg:
		c.skip(c.v[inst.X] == c.v[inst.Y])

	case OpLoadImm:
		c.v[inst.X] = inst.NN

	case OpAddImm:
		// wrapping add, carry flag untouched
		c.v[inst.X] += inst.NN

	case OpMove:
		c.v[inst.X] = c.v[inst.Y]

	case OpOr:
		c.v[inst.X] |= c.v[inst.Y]

	case OpAnd:
		c.v[inst.X] &= c.v[inst.Y]

	case OpXor:
		c.v[inst.X] ^= c.v[inst.Y]

	case OpAddReg:
		result, carry := bit.CheckedAdd(c.v[inst.X], c.v[inst.Y])
		c.v[inst.X] = result
		c.v[0xF] = flagByte(carry)

	case OpSubReg:
		result, borrow := bit.CheckedSub(c.v[inst.X], c.v[inst.Y])
		c.v[inst.X] = result
		c.v[0xF] = flagByte(!borrow)

	case OpShiftRight:
		// shifts source from Vy, original COSMAC behavior
		c.v[0xF] = c.v[inst.Y] & 0x01
		c.v[inst.X] = c.v[inst.Y] >> 1

	case OpSubRevReg:
		result, borrow := bit.CheckedSub(c.v[inst.Y], c.v[inst.X])
		c.v[inst.X] = result
		c.v[0xF] = flagByte(!borrow)

	case OpShiftLeft:
		c.v[0xF] = c.v[inst.Y] >> 7
		c.v[inst.X] = c.v[inst.Y] << 1

	case OpSkipNeReg:
		c.skip(c.v[inst.X] != c.v[inst.Y])

	case OpLoadIndex:
		c.i = inst.NNN

	case OpJumpOffset:
		c.pc = (inst.NNN + uint16(c.v[0])) & memory.AddrMask

	case OpRandom:
		c.v[inst.X] = uint8(c.rng.UintN(256)) & inst.NN

	case OpDraw:
		if err := c.mem.CheckRange(c.i, uint16(inst.N)); err != nil {
			return err
		}
		rows := make([]byte, inst.N)
		for k := range rows {
			rows[k], _ = c.mem.ReadByte(c.i + uint16(k))
		}
		x := int(c.v[inst.X]) % video.FramebufferWidth
		y := int(c.v[inst.Y]) % video.FramebufferHeight
		c.v[0xF] = flagByte(c.fb.DrawSprite(x, y, rows))

	case OpSkipKeyDown:
		c.skip(c.keypad.IsPressed(c.v[inst.X]))

	case OpSkipKeyUp:
		c.skip(!c.keypad.IsPressed(c.v[inst.X]))

	case OpReadDelay:
		c.v[inst.X] = c.timers.Delay()

	case OpWaitKey:
		// Suspend on this instruction: PC moves back onto it and stays
		// there until a key that is up right now gets pressed.
		c.waitReg = inst.X
		c.waitKeys = c.keypad.Snapshot()
		c.status = StatusAwaitingKey
		c.pc = (c.pc - 2) & memory.AddrMask

	case OpSetDelay:
		c.timers.SetDelay(c.v[inst.X])

	case OpSetSound:
		// the counter runs, but nothing is ever audible
		c.timers.SetSound(c.v[inst.X])

	case OpAddIndex:
		c.i = (c.i + uint16(c.v[inst.X])) & memory.AddrMask

	case OpFontChar:
		c.i = memory.FontAddress(c.v[inst.X])

	case OpStoreBCD:
		if err := c.mem.CheckRange(c.i, 3); err != nil {
			return err
		}
		value := c.v[inst.X]
		_ = c.mem.WriteByte(c.i, value/100)
		_ = c.mem.WriteByte(c.i+1, (value/10)%10)
		_ = c.mem.WriteByte(c.i+2, value%10)

	case OpStoreRegs:
		count := uint16(inst.X) + 1
		if err := c.mem.CheckRange(c.i, count); err != nil {
			return err
		}
		for k := uint16(0); k < count; k++ {
			_ = c.mem.WriteByte(c.i+k, c.v[k])
		}

	case OpLoadRegs:
		count := uint16(inst.X) + 1
		if err := c.mem.CheckRange(c.i, count); err != nil {
			return err
		}
		for k := uint16(0); k < count; k++ {
			c.v[k], _ = c.mem.ReadByte(c.i + k)
		}

	case OpHalt:
		// nonstandard FxFF: stop cleanly, x is the exit code
		c.exitCode = inst.X
		c.status = StatusHalted

	default:
		// Decode produces a closed set of operations; reaching this arm
		// means decode and execute disagree about that set.
		return fmt.Errorf("%w: unhandled operation %d", ErrInvalidOpcode, inst.Op)
	}

	return nil
}

func flagByte(set bool) uint8 {
	if set {
		return 1
	}
	return 0
}
