package bit

// Combine combines two 8 bit values into a single 16 bit value.
// The high byte will be the most significant one.
func Combine(high, low uint8) uint16 {
	return (uint16(high) << 8) | uint16(low)
}

// High returns the high (MSB) part of a 16 bit number.
func High(value uint16) uint8 {
	return uint8(value >> 8)
}

// Low returns the low (LSB) part of a 16 bit number.
func Low(value uint16) uint8 {
	return uint8(value)
}

// CheckedAdd adds two 8 bit unsigned values and detects if an overflow happened.
func CheckedAdd(a, b uint8) (result uint8, overflow bool) {
	sum := uint16(a) + uint16(b)
	return uint8(sum), sum > 0xFF
}

// CheckedSub subtracts two 8 bit unsigned values and detects if a borrow happened.
func CheckedSub(a, b uint8) (result uint8, borrow bool) {
	return a - b, b > a
}

// NibbleX extracts the x register selector from an instruction word (bits 11-8).
func NibbleX(word uint16) uint8 {
	return uint8(word>>8) & 0x0F
}

// NibbleY extracts the y register selector from an instruction word (bits 7-4).
func NibbleY(word uint16) uint8 {
	return uint8(word>>4) & 0x0F
}

// NibbleN extracts the low 4 bit immediate from an instruction word.
func NibbleN(word uint16) uint8 {
	return uint8(word) & 0x0F
}

// Imm extracts the low 8 bit immediate (kk) from an instruction word.
func Imm(word uint16) uint8 {
	return uint8(word)
}

// Addr extracts the 12 bit address (nnn) from an instruction word.
func Addr(word uint16) uint16 {
	return word & 0x0FFF
}
