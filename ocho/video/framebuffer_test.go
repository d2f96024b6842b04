package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetAndGetPixel(t *testing.T) {
	fb := NewFrameBuffer()
	assert.False(t, fb.GetPixel(10, 10))

	fb.SetPixel(10, 10, true)
	assert.True(t, fb.GetPixel(10, 10))

	fb.SetPixel(10, 10, false)
	assert.False(t, fb.GetPixel(10, 10))
}

func TestClear(t *testing.T) {
	fb := NewFrameBuffer()
	fb.SetPixel(0, 0, true)
	fb.SetPixel(63, 31, true)

	fb.Clear()

	for _, on := range fb.ToSlice() {
		if on {
			t.Fatal("expected all pixels off after clear")
		}
	}
}

func TestDrawSprite(t *testing.T) {
	fb := NewFrameBuffer()

	collision := fb.DrawSprite(8, 4, []byte{0b10100000})
	assert.False(t, collision)
	assert.True(t, fb.GetPixel(8, 4))
	assert.False(t, fb.GetPixel(9, 4))
	assert.True(t, fb.GetPixel(10, 4))
}

func TestDrawSpriteXORIsSelfInverse(t *testing.T) {
	fb := NewFrameBuffer()
	sprite := []byte{0xF0, 0x90, 0x90, 0x90, 0xF0}

	collision := fb.DrawSprite(8, 4, sprite)
	assert.False(t, collision)

	collision = fb.DrawSprite(8, 4, sprite)
	assert.True(t, collision, "erasing lit pixels reports a collision")

	for _, on := range fb.ToSlice() {
		if on {
			t.Fatal("drawing a sprite twice must leave the buffer clear")
		}
	}
}

func TestDrawSpritePartialOverlap(t *testing.T) {
	fb := NewFrameBuffer()

	fb.DrawSprite(0, 0, []byte{0b10000000})
	collision := fb.DrawSprite(0, 0, []byte{0b11000000})

	assert.True(t, collision)
	assert.False(t, fb.GetPixel(0, 0), "overlapping pixel toggles off")
	assert.True(t, fb.GetPixel(1, 0), "non-overlapping pixel toggles on")
}

func TestDrawSpriteWrapsHorizontally(t *testing.T) {
	fb := NewFrameBuffer()

	fb.DrawSprite(62, 0, []byte{0b11110000})

	assert.True(t, fb.GetPixel(62, 0))
	assert.True(t, fb.GetPixel(63, 0))
	assert.True(t, fb.GetPixel(0, 0))
	assert.True(t, fb.GetPixel(1, 0))
}

func TestDrawSpriteWrapsVertically(t *testing.T) {
	fb := NewFrameBuffer()

	fb.DrawSprite(0, 30, []byte{0x80, 0x80, 0x80, 0x80})

	assert.True(t, fb.GetPixel(0, 30))
	assert.True(t, fb.GetPixel(0, 31))
	assert.True(t, fb.GetPixel(0, 0))
	assert.True(t, fb.GetPixel(0, 1))
}

func TestToSliceIsACopy(t *testing.T) {
	fb := NewFrameBuffer()
	out := fb.ToSlice()
	out[0] = true

	assert.False(t, fb.GetPixel(0, 0))
}
