package cpu

import "github.com/mbetti/go-ocho/ocho/bit"

// Op identifies one machine operation. Decode classifies every 16 bit word
// into exactly one Op; encodings that match nothing become OpInvalid, so
// "unknown opcode" is a normal decode result that execution turns into a
// fault rather than a state the executor has to re-derive.
type Op int

const (
	OpInvalid Op = iota

	OpNop         // 0000 (nonstandard no-op)
	OpClearScreen // 00E0
	OpReturn      // 00EE
	OpJump        // 1nnn
	OpCall        // 2nnn
	OpSkipEqImm   // 3xkk
	OpSkipNeImm   // 4xkk
	OpSkipEqReg   // 5xy0
	OpLoadImm     // 6xkk
	OpAddImm      // 7xkk, no carry flag
	OpMove        // 8xy0
	OpOr          // 8xy1
	OpAnd         // 8xy2
	OpXor         // 8xy3
	OpAddReg      // 8xy4, VF = carry
	OpSubReg      // 8xy5, VF = no borrow
	OpShiftRight  // 8xy6, Vx = Vy >> 1, VF = shifted-out bit
	OpSubRevReg   // 8xy7, Vx = Vy - Vx, VF = no borrow
	OpShiftLeft   // 8xyE, Vx = Vy << 1, VF = shifted-out bit
	OpSkipNeReg   // 9xy0
	OpLoadIndex   // Annn
	OpJumpOffset  // Bnnn, jump to nnn + V0
	OpRandom      // Cxkk
	OpDraw        // Dxyn
	OpSkipKeyDown // Ex9E
	OpSkipKeyUp   // ExA1
	OpReadDelay   // Fx07
	OpWaitKey     // Fx0A
	OpSetDelay    // Fx15
	OpSetSound    // Fx18, sets the counter; never produces audio
	OpAddIndex    // Fx1E
	OpFontChar    // Fx29
	OpStoreBCD    // Fx33
	OpStoreRegs   // Fx55
	OpLoadRegs    // Fx65
	OpHalt        // FxFF (nonstandard halt with exit code x)
)

// Instruction is a decoded instruction word: the operation plus every
// operand field the encoding carries. Fields that an operation does not
// use are simply ignored by the executor.
type Instruction struct {
	Op   Op
	X    uint8  // 4 bit register selector (bits 11-8)
	Y    uint8  // 4 bit register selector (bits 7-4)
	N    uint8  // 4 bit immediate (bits 3-0)
	NN   uint8  // 8 bit immediate (bits 7-0)
	NNN  uint16 // 12 bit address (bits 11-0)
	Word uint16 // the raw instruction word
}

// Decode classifies a 16 bit instruction word by its top nibble and, for
// ambiguous top nibbles, by its trailing nibble or byte.
func Decode(word uint16) Instruction {
	inst := Instruction{
		Op:   OpInvalid,
		X:    bit.NibbleX(word),
		Y:    bit.NibbleY(word),
		N:    bit.NibbleN(word),
		NN:   bit.Imm(word),
		NNN:  bit.Addr(word),
		Word: word,
	}

	switch word & 0xF000 {
	case 0x0000:
		switch word {
		case 0x0000:
			inst.Op = OpNop
		case 0x00E0:
			inst.Op = OpClearScreen
		case 0x00EE:
			inst.Op = OpReturn
		}
		// Any other 0nnn is a machine-language routine call on the
		// original hardware; we have no machine language to run, so it
		// stays OpInvalid.
	case 0x1000:
		inst.Op = OpJump
	case 0x2000:
		inst.Op = OpCall
	case 0x3000:
		inst.Op = OpSkipEqImm
	case 0x4000:
		inst.Op = OpSkipNeImm
	case 0x5000:
		if inst.N == 0x0 {
			inst.Op = OpSkipEqReg
		}
	case 0x6000:
		inst.Op = OpLoadImm
	case 0x7000:
		inst.Op = OpAddImm
	case 0x8000:
		switch inst.N {
		case 0x0:
			inst.Op = OpMove
		case 0x1:
			inst.Op = OpOr
		case 0x2:
			inst.Op = OpAnd
		case 0x3:
			inst.Op = OpXor
		case 0x4:
			inst.Op = OpAddReg
		case 0x5:
			inst.Op = OpSubReg
		case 0x6:
			inst.Op = OpShiftRight
		case 0x7:
			inst.Op = OpSubRevReg
		case 0xE:
			inst.Op = OpShiftLeft
		}
	case 0x9000:
		if inst.N == 0x0 {
			inst.Op = OpSkipNeReg
		}
	case 0xA000:
		inst.Op = OpLoadIndex
	case 0xB000:
		inst.Op = OpJumpOffset
	case 0xC000:
		inst.Op = OpRandom
	case 0xD000:
		inst.Op = OpDraw
	case 0xE000:
		switch inst.NN {
		case 0x9E:
			inst.Op = OpSkipKeyDown
		case 0xA1:
			inst.Op = OpSkipKeyUp
		}
	case 0xF000:
		switch inst.NN {
		case 0x07:
			inst.Op = OpReadDelay
		case 0x0A:
			inst.Op = OpWaitKey
		case 0x15:
			inst.Op = OpSetDelay
		case 0x18:
			inst.Op = OpSetSound
		case 0x1E:
			inst.Op = OpAddIndex
		case 0x29:
			inst.Op = OpFontChar
		case 0x33:
			inst.Op = OpStoreBCD
		case 0x55:
			inst.Op = OpStoreRegs
		case 0x65:
			inst.Op = OpLoadRegs
		case 0xFF:
			inst.Op = OpHalt
		}
	}

	return inst
}
