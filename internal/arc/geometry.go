package arc

import (
	"math"
	"strconv"
	"strings"

	"github.com/daryadaneshmand/Oura-data/internal/cycles"
	"github.com/daryadaneshmand/Oura-data/internal/daily"
)

// Segment is one straight piece of the arc between two consecutive days,
// carrying the starting day's record so each piece can be colored
// independently (by HRV balance).
type Segment struct {
	Day  daily.Record `json:"day"`
	From [2]float64   `json:"from"`
	To   [2]float64   `json:"to"`
}

// Arc is the full render payload for one cycle.
type Arc struct {
	Cycle    cycles.Cycle   `json:"cycle"`
	Points   []daily.Record `json:"points"`
	Path     string         `json:"path"`
	Segments []Segment      `json:"segments"`
}

// Build extracts the cycle's chart points from the daily records and
// produces the smooth path plus the per-day segment list for the given
// frame. Pure function, no caching needed.
func Build(records []daily.Record, c cycles.Cycle, f Frame) Arc {
	days := CycleDays(records, c)
	xs := ReadinessScale(f)
	ys := ResilienceScale(f)

	pix := make([][2]float64, len(days))
	for i, d := range days {
		pix[i] = [2]float64{
			xs.Map(float64(*d.ReadinessScore)),
			ys.Map(float64(*d.ResilienceScore)),
		}
	}

	var segments []Segment
	if len(days) > 1 {
		segments = make([]Segment, 0, len(days)-1)
		for i := 0; i+1 < len(days); i++ {
			segments = append(segments, Segment{
				Day:  days[i],
				From: pix[i],
				To:   pix[i+1],
			})
		}
	}

	return Arc{
		Cycle:    c,
		Points:   days,
		Path:     Path(pix),
		Segments: segments,
	}
}

// Path builds a smooth path description through the points in order,
// using monotone-in-x cubic interpolation so the curve never overshoots
// between samples. One point degenerates to a move, two to a straight
// line, zero to an empty string.
func Path(points [][2]float64) string {
	switch len(points) {
	case 0:
		return ""
	case 1:
		return "M" + coord(points[0])
	case 2:
		return "M" + coord(points[0]) + "L" + coord(points[1])
	}

	// Fritsch-Carlson tangents: interior points from the three-point
	// slope rule, endpoints from the one-sided rule.
	tangents := make([]float64, len(points))
	for i := 1; i < len(points)-1; i++ {
		tangents[i] = slope3(points[i-1], points[i], points[i+1])
	}
	tangents[0] = slope2(points[0], points[1], tangents[1])
	n := len(points) - 1
	tangents[n] = slope2(points[n-1], points[n], tangents[n-1])

	var b strings.Builder
	b.WriteString("M" + coord(points[0]))
	for i := 0; i < n; i++ {
		x0, y0 := points[i][0], points[i][1]
		x1, y1 := points[i+1][0], points[i+1][1]
		dx := (x1 - x0) / 3
		b.WriteString("C" + coord([2]float64{x0 + dx, y0 + dx*tangents[i]}))
		b.WriteString("," + coord([2]float64{x1 - dx, y1 - dx*tangents[i+1]}))
		b.WriteString("," + coord(points[i+1]))
	}
	return b.String()
}

// slope3 is the monotonicity-preserving tangent at the middle of three
// points; it never exceeds three times the smaller neighboring slope.
func slope3(p0, p1, p2 [2]float64) float64 {
	h0 := p1[0] - p0[0]
	h1 := p2[0] - p1[0]

	d0 := h0
	if d0 == 0 && h1 < 0 {
		d0 = math.Copysign(0, -1)
	}
	d1 := h1
	if d1 == 0 && h0 < 0 {
		d1 = math.Copysign(0, -1)
	}
	s0 := (p1[1] - p0[1]) / d0
	s1 := (p2[1] - p1[1]) / d1

	p := (s0*h1 + s1*h0) / (h0 + h1)
	m := (sign(s0) + sign(s1)) * math.Min(math.Min(math.Abs(s0), math.Abs(s1)), 0.5*math.Abs(p))
	if math.IsNaN(m) {
		return 0
	}
	return m
}

// slope2 is the one-sided tangent at an endpoint given the tangent t of
// its neighbor.
func slope2(p0, p1 [2]float64, t float64) float64 {
	h := p1[0] - p0[0]
	if h == 0 {
		return t
	}
	return (3*(p1[1]-p0[1])/h - t) / 2
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

func coord(p [2]float64) string {
	return fmtPx(p[0]) + "," + fmtPx(p[1])
}

// fmtPx rounds to two decimals and drops trailing zeros, keeping the
// path string compact and stable.
func fmtPx(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
