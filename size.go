package bearimy

import (
	"fmt"
	"math"
)

// Size is a two-dimensional extent, used for display sizes and bounding box
// dimensions.
type Size struct {
	Width  float64
	Height float64
}

// Sz returns the size w×h.
func Sz(w, h float64) Size {
	return Size{
		Width:  w,
		Height: h,
	}
}

func (sz Size) String() string {
	return fmt.Sprintf("%g×%g", sz.Width, sz.Height)
}

// IsPositive reports whether both width and height are finite and greater
// than zero.
func (sz Size) IsPositive() bool {
	return sz.Width > 0 && sz.Height > 0 && !sz.IsInf()
}

// IsInf reports whether at least one of width and height is infinite.
func (sz Size) IsInf() bool {
	return math.IsInf(sz.Width, 0) || math.IsInf(sz.Height, 0)
}
