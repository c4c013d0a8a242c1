package wm

import (
	"fmt"

	"github.com/BobdaProgrammer/grout/internal/win32"
)

// Columns splits area into n side by side columns of equal width with gap
// pixels around and between them.
func Columns(area win32.Rect, n, gap int) ([]win32.Rect, error) {
	if n <= 0 {
		return nil, nil
	}

	// (n + 1) gaps: one before each column and one after the last
	width := (area.Width - (n+1)*gap) / n
	height := area.Height - 2*gap
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("insufficient space for %d columns: area=%dx%d gap=%d", n, area.Width, area.Height, gap)
	}

	positions := make([]win32.Rect, n)
	for i := range positions {
		positions[i] = win32.Rect{
			X:      area.X + gap + i*(width+gap),
			Y:      area.Y + gap,
			Width:  width,
			Height: height,
		}
	}
	return positions, nil
}
