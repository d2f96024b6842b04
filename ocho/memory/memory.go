package memory

import (
	"errors"
	"fmt"
	"os"

	"github.com/mbetti/go-ocho/ocho/bit"
)

const (
	// Size is the full addressable memory of the machine, 4KB.
	Size = 4096

	// ImageStart is the address programs are loaded at and execution begins.
	ImageStart = 0x200

	// MaxImageSize is the largest program image that fits below the end of memory.
	MaxImageSize = Size - ImageStart

	// AddrMask keeps addresses within the 12 bit address space.
	AddrMask = 0x0FFF

	// FontStart is the address of the built-in character sprite table.
	FontStart = 0x000

	// FontSpriteSize is the height in bytes of one character sprite.
	FontSpriteSize = 5
)

var (
	// ErrAddressOutOfRange is returned for any access past the 12 bit address space.
	ErrAddressOutOfRange = errors.New("address out of range")

	// ErrImageTooLarge is returned when a program image does not fit at 0x200.
	ErrImageTooLarge = errors.New("image too large")
)

// font is the classic 16-character sprite set, 5 bytes per hex digit.
// Only the upper 4 bits of each row are used.
var font = [16 * FontSpriteSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the flat 4KB byte store of the machine. The font table lives
// below 0x200, program images are copied in at 0x200.
type Memory struct {
	data [Size]byte
}

// New returns memory with the font installed and unused regions seeded
// with halt instructions, so a runaway program counter stops cleanly
// instead of executing garbage.
func New() *Memory {
	m := &Memory{}
	copy(m.data[FontStart:], font[:])
	m.seedHalts()
	return m
}

// seedHalts fills memory outside the font and program areas with FFFF
// (halt) words, and plants a jump back to 0x200 at 0xE9E.
func (m *Memory) seedHalts() {
	for i := FontStart + len(font); i < ImageStart; i += 2 {
		m.data[i] = 0xFF
		m.data[i+1] = 0xFF
	}
	for i := 0xEA0; i < Size; i += 2 {
		m.data[i] = 0xFF
		m.data[i+1] = 0xFF
	}
	// 0x1200: jump to program start
	m.data[0xE9E] = 0x12
	m.data[0xE9F] = 0x00
}

// LoadImage copies a raw program image into memory starting at 0x200.
func (m *Memory) LoadImage(data []byte) error {
	if len(data) > MaxImageSize {
		return fmt.Errorf("%w: %d bytes, maximum is %d", ErrImageTooLarge, len(data), MaxImageSize)
	}
	copy(m.data[ImageStart:], data)
	return nil
}

// LoadImageFile reads a program image from disk and loads it at 0x200.
func LoadImageFile(path string) (*Memory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	m := New()
	if err := m.LoadImage(data); err != nil {
		return nil, err
	}
	return m, nil
}

// ReadByte returns the byte at the given address.
func (m *Memory) ReadByte(addr uint16) (byte, error) {
	if addr >= Size {
		return 0, fmt.Errorf("%w: read at 0x%04X", ErrAddressOutOfRange, addr)
	}
	return m.data[addr], nil
}

// WriteByte stores a byte at the given address.
func (m *Memory) WriteByte(addr uint16, value byte) error {
	if addr >= Size {
		return fmt.Errorf("%w: write at 0x%04X", ErrAddressOutOfRange, addr)
	}
	m.data[addr] = value
	return nil
}

// ReadWord returns the big-endian 16 bit instruction word at the given address.
func (m *Memory) ReadWord(addr uint16) (uint16, error) {
	if addr+1 >= Size {
		return 0, fmt.Errorf("%w: word read at 0x%04X", ErrAddressOutOfRange, addr)
	}
	return bit.Combine(m.data[addr], m.data[addr+1]), nil
}

// CheckRange verifies that the span [start, start+length) stays inside memory.
// Block operations call this before mutating anything, so a faulting
// instruction leaves no partial writes behind.
func (m *Memory) CheckRange(start uint16, length uint16) error {
	if uint32(start)+uint32(length) > Size {
		return fmt.Errorf("%w: 0x%04X..0x%04X", ErrAddressOutOfRange, start, uint32(start)+uint32(length)-1)
	}
	return nil
}

// FontAddress returns the address of the sprite for a hex digit.
// Only the low nibble of the digit is used.
func FontAddress(digit uint8) uint16 {
	return FontStart + uint16(digit&0x0F)*FontSpriteSize
}

// Snapshot copies out a window of memory for debug display. The window is
// clamped to the end of the address space.
func (m *Memory) Snapshot(start uint16, length int) (uint16, []byte) {
	if start >= Size {
		return start, nil
	}
	if int(start)+length > Size {
		length = Size - int(start)
	}
	out := make([]byte, length)
	copy(out, m.data[start:int(start)+length])
	return start, out
}
