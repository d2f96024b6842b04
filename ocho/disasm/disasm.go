// Package disasm renders instruction words as conventional CHIP-8 mnemonics.
// It reuses the CPU's decoder so the debug panel can never disagree with the
// executor about what an encoding means.
package disasm

import (
	"fmt"

	"github.com/mbetti/go-ocho/ocho/bit"
	"github.com/mbetti/go-ocho/ocho/cpu"
)

// Disassemble returns the mnemonic for one instruction word.
func Disassemble(word uint16) string {
	inst := cpu.Decode(word)

	switch inst.Op {
	case cpu.OpNop:
		return "NOP"
	case cpu.OpClearScreen:
		return "CLS"
	case cpu.OpReturn:
		return "RET"
	case cpu.OpJump:
		return fmt.Sprintf("JP 0x%03X", inst.NNN)
	case cpu.OpCall:
		return fmt.Sprintf("CALL 0x%03X", inst.NNN)
	case cpu.OpSkipEqImm:
		return fmt.Sprintf("SE V%X, 0x%02X", inst.X, inst.NN)
	case cpu.OpSkipNeImm:
		return fmt.Sprintf("SNE V%X, 0x%02X", inst.X, inst.NN)
	case cpu.OpSkipEqReg:
		return fmt.Sprintf("SE V%X, V%X", inst.X, inst.Y)
	case cpu.OpLoadImm:
		return fmt.Sprintf("LD V%X, 0x%02X", inst.X, inst.NN)
	case cpu.OpAddImm:
		return fmt.Sprintf("ADD V%X, 0x%02X", inst.X, inst.NN)
	case cpu.OpMove:
		return fmt.Sprintf("LD V%X, V%X", inst.X, inst.Y)
	case cpu.OpOr:
		return fmt.Sprintf("OR V%X, V%X", inst.X, inst.Y)
	case cpu.OpAnd:
		return fmt.Sprintf("AND V%X, V%X", inst.X, inst.Y)
	case cpu.OpXor:
		return fmt.Sprintf("XOR V%X, V%X", inst.X, inst.Y)
	case cpu.OpAddReg:
		return fmt.Sprintf("ADD V%X, V%X", inst.X, inst.Y)
	case cpu.OpSubReg:
		return fmt.Sprintf("SUB V%X, V%X", inst.X, inst.Y)
	case cpu.OpShiftRight:
		return fmt.Sprintf("SHR V%X, V%X", inst.X, inst.Y)
	case cpu.OpSubRevReg:
		return fmt.Sprintf("SUBN V%X, V%X", inst.X, inst.Y)
	case cpu.OpShiftLeft:
		return fmt.Sprintf("SHL V%X, V%X", inst.X, inst.Y)
	case cpu.OpSkipNeReg:
		return fmt.Sprintf("SNE V%X, V%X", inst.X, inst.Y)
	case cpu.OpLoadIndex:
		return fmt.Sprintf("LD I, 0x%03X", inst.NNN)
	case cpu.OpJumpOffset:
		return fmt.Sprintf("JP V0, 0x%03X", inst.NNN)
	case cpu.OpRandom:
		return fmt.Sprintf("RND V%X, 0x%02X", inst.X, inst.NN)
	case cpu.OpDraw:
		return fmt.Sprintf("DRW V%X, V%X, %d", inst.X, inst.Y, inst.N)
	case cpu.OpSkipKeyDown:
		return fmt.Sprintf("SKP V%X", inst.X)
	case cpu.OpSkipKeyUp:
		return fmt.Sprintf("SKNP V%X", inst.X)
	case cpu.OpReadDelay:
		return fmt.Sprintf("LD V%X, DT", inst.X)
	case cpu.OpWaitKey:
		return fmt.Sprintf("LD V%X, K", inst.X)
	case cpu.OpSetDelay:
		return fmt.Sprintf("LD DT, V%X", inst.X)
	case cpu.OpSetSound:
		return fmt.Sprintf("LD ST, V%X", inst.X)
	case cpu.OpAddIndex:
		return fmt.Sprintf("ADD I, V%X", inst.X)
	case cpu.OpFontChar:
		return fmt.Sprintf("LD F, V%X", inst.X)
	case cpu.OpStoreBCD:
		return fmt.Sprintf("LD B, V%X", inst.X)
	case cpu.OpStoreRegs:
		return fmt.Sprintf("LD [I], V%X", inst.X)
	case cpu.OpLoadRegs:
		return fmt.Sprintf("LD V%X, [I]", inst.X)
	case cpu.OpHalt:
		return fmt.Sprintf("HLT %d", inst.X)
	default:
		return fmt.Sprintf(".WORD 0x%04X", word)
	}
}

// Listing disassembles a window of memory into address/mnemonic lines,
// two bytes per instruction.
type Line struct {
	Addr uint16
	Text string
}

func Listing(start uint16, code []byte, max int) []Line {
	var lines []Line
	for i := 0; i+1 < len(code) && len(lines) < max; i += 2 {
		word := bit.Combine(code[i], code[i+1])
		lines = append(lines, Line{
			Addr: start + uint16(i),
			Text: Disassemble(word),
		})
	}
	return lines
}
