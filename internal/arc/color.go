package arc

import (
	"fmt"
	"math"
)

// ColorScale maps a numeric value to a CSS hex color. Segment coloring
// takes one of these as a capability so callers can swap the ramp.
type ColorScale func(v float64) string

type rgb struct {
	r, g, b float64
}

var (
	rdBuLow  = rgb{0x67, 0x00, 0x1f} // deep red
	rdBuMid  = rgb{0xf7, 0xf7, 0xf7} // near white
	rdBuHigh = rgb{0x05, 0x30, 0x61} // deep blue
)

// DivergingRdBu maps HRV balance in [-1,1] onto a red-white-blue
// diverging ramp: -1 deep red, 0 near white, +1 deep blue. Input is
// clamped to the domain.
func DivergingRdBu(v float64) string {
	if v < -1 {
		v = -1
	}
	if v > 1 {
		v = 1
	}

	var from, to rgb
	var t float64
	if v < 0 {
		from, to = rdBuLow, rdBuMid
		t = v + 1
	} else {
		from, to = rdBuMid, rdBuHigh
		t = v
	}

	return fmt.Sprintf("#%02x%02x%02x",
		channel(from.r, to.r, t),
		channel(from.g, to.g, t),
		channel(from.b, to.b, t),
	)
}

func channel(from, to, t float64) int {
	return int(math.Round(from + t*(to-from)))
}
