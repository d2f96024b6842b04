package ocho

// TestPatternImage returns a small built-in program that draws the whole
// character set in two rows and then spins forever. It exercises font
// addressing, drawing and looping, so a backend can be verified without a
// program image on hand.
func TestPatternImage() []byte {
	return []byte{
		0x60, 0x00, // V0 = 0, sprite digit
		0x61, 0x02, // V1 = 2, x
		0x62, 0x02, // V2 = 2, y
		0xF0, 0x29, // I = sprite address for V0
		0xD1, 0x25, // draw 5 rows at (V1, V2)
		0x71, 0x06, // x += 6
		0x70, 0x01, // next digit
		0x30, 0x08, // first row ends at digit 8
		0x12, 0x06, // loop
		0x61, 0x02, // second row: x back to 2
		0x62, 0x0A, // y = 10
		0xF0, 0x29,
		0xD1, 0x25,
		0x71, 0x06,
		0x70, 0x01,
		0x30, 0x10, // second row ends at digit 16
		0x12, 0x16,
		0x12, 0x22, // spin
	}
}
