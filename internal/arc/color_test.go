package arc_test

import (
	"testing"

	"github.com/daryadaneshmand/Oura-data/internal/arc"

	"github.com/stretchr/testify/assert"
)

func TestDivergingRdBu(t *testing.T) {
	cases := []struct {
		v        float64
		expected string
	}{
		{v: -1, expected: "#67001f"},
		{v: 0, expected: "#f7f7f7"},
		{v: 1, expected: "#053061"},
		{v: -0.5, expected: "#af7c8b"},
		{v: 0.5, expected: "#7e94ac"},
		// out-of-domain values clamp to the endpoints
		{v: -3, expected: "#67001f"},
		{v: 3, expected: "#053061"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, arc.DivergingRdBu(tc.v), "v=%v", tc.v)
	}
}

func TestDivergingRdBu_SignSides(t *testing.T) {
	var scale arc.ColorScale = arc.DivergingRdBu

	// anything negative should be on the warm (red) side, positive on
	// the cool (blue) side
	warm := scale(-0.2)
	cool := scale(0.2)
	assert.NotEqual(t, warm, cool)
	assert.Greater(t, warm[1:3], cool[1:3], "red channel should dominate on the negative side")
}
