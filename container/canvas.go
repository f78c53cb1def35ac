package container

import (
	"math"

	"github.com/pkg/errors"

	"github.com/pavanmanishd/alloc"
)

// Pixel is a packed 32-bit color.
type Pixel uint32

// Canvas is a 2-D pixel buffer. Its storage is allocated once by NewCanvas
// and released once by Destroy; sub-canvases share it.
type Canvas struct {
	Width, Height, Stride int
	Pixels                []Pixel
}

// NewCanvas allocates a width x height canvas from a. Pixels are zeroed.
func NewCanvas(a alloc.RawAllocator, width, height int) (Canvas, error) {
	if width < 0 || height < 0 || (height > 0 && width > math.MaxInt/height) {
		return Canvas{}, errors.Wrapf(alloc.ErrInvalidSize, "canvas %dx%d", width, height)
	}
	pixels, err := alloc.MakeSliceZeroed[Pixel](a, width*height)
	if err != nil {
		return Canvas{}, err
	}
	return Canvas{Width: width, Height: height, Stride: width, Pixels: pixels}, nil
}

// Destroy returns the pixel storage to a. Sub-canvases must not be
// destroyed.
func (c *Canvas) Destroy(a alloc.RawAllocator) {
	alloc.FreeSlice(a, c.Pixels)
	*c = Canvas{}
}

// index returns the offset of (x, y) in Pixels.
func (c *Canvas) index(x, y int) int { return y*c.Stride + x }

// At returns a pointer to the pixel at (x, y), or nil when out of bounds.
func (c *Canvas) At(x, y int) *Pixel {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return nil
	}
	return &c.Pixels[c.index(x, y)]
}

// Fill sets every pixel to p.
func (c *Canvas) Fill(p Pixel) {
	for y := 0; y < c.Height; y++ {
		row := c.Pixels[c.index(0, y):c.index(c.Width, y)]
		for i := range row {
			row[i] = p
		}
	}
}

// Sub returns the part of c covered by the rectangle at (x, y) of the given
// size, clipped to c's bounds. Negative sizes extend the rectangle left or
// up from (x, y). It reports false when nothing is visible.
func (c *Canvas) Sub(x, y, width, height int) (Canvas, bool) {
	x1, x2, ok := clip(x, width, c.Width)
	if !ok {
		return Canvas{}, false
	}
	y1, y2, ok := clip(y, height, c.Height)
	if !ok {
		return Canvas{}, false
	}
	start, end := c.index(x1, y1), c.index(x2, y2)+1
	return Canvas{
		Width:  x2 - x1 + 1,
		Height: y2 - y1 + 1,
		Stride: c.Stride,
		Pixels: c.Pixels[start:end:end],
	}, true
}

// clip maps a 1-D extent starting at p with signed length n onto [0, limit),
// returning inclusive bounds.
func clip(p, n, limit int) (int, int, bool) {
	if n == 0 {
		return 0, 0, false
	}
	lo, hi := p, p+n-1
	if n < 0 {
		lo, hi = p+n+1, p
	}
	if lo >= limit || hi < 0 {
		return 0, 0, false
	}
	return max(lo, 0), min(hi, limit-1), true
}
