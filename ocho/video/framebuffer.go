package video

// FramebufferWidth and FramebufferHeight are the fixed dimensions of the
// monochrome display.
const (
	FramebufferWidth  = 64
	FramebufferHeight = 32
)

// FrameBuffer is the 64x32 bit-plane the machine draws into. Pixels are
// stored row-major, true means lit. Only the draw and clear instructions
// mutate it; renderers read it once per frame.
type FrameBuffer struct {
	pixels [FramebufferWidth * FramebufferHeight]bool
}

// NewFrameBuffer returns an all-clear frame buffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{}
}

// GetPixel reports whether the pixel at x, y is lit.
func (fb *FrameBuffer) GetPixel(x, y int) bool {
	return fb.pixels[y*FramebufferWidth+x]
}

// SetPixel sets the pixel at x, y.
func (fb *FrameBuffer) SetPixel(x, y int, on bool) {
	fb.pixels[y*FramebufferWidth+x] = on
}

// Clear turns every pixel off.
func (fb *FrameBuffer) Clear() {
	fb.pixels = [FramebufferWidth * FramebufferHeight]bool{}
}

// DrawSprite XORs an N byte sprite onto the buffer at x, y. Each byte is one
// row of 8 pixels, most significant bit leftmost. The origin wraps into the
// display and so does every pixel past an edge. Returns true if any lit
// pixel was turned off (collision).
func (fb *FrameBuffer) DrawSprite(x, y int, rows []byte) bool {
	collision := false
	for dy, row := range rows {
		py := (y + dy) % FramebufferHeight
		for dx := 0; dx < 8; dx++ {
			if row&(0x80>>dx) == 0 {
				continue
			}
			px := (x + dx) % FramebufferWidth
			idx := py*FramebufferWidth + px
			if fb.pixels[idx] {
				collision = true
			}
			fb.pixels[idx] = !fb.pixels[idx]
		}
	}
	return collision
}

// ToSlice returns a copy of the pixel plane, row-major.
func (fb *FrameBuffer) ToSlice() []bool {
	out := make([]bool, len(fb.pixels))
	copy(out, fb.pixels[:])
	return out
}
