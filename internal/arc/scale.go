package arc

// Scale is a linear mapping from a numeric domain to a pixel range.
type Scale struct {
	DomainMin float64
	DomainMax float64
	RangeMin  float64
	RangeMax  float64
}

// Map interpolates v from the domain into the range. Values outside the
// domain extrapolate, matching how linear chart scales behave.
func (s Scale) Map(v float64) float64 {
	if s.DomainMax == s.DomainMin {
		return s.RangeMin
	}
	t := (v - s.DomainMin) / (s.DomainMax - s.DomainMin)
	return s.RangeMin + t*(s.RangeMax-s.RangeMin)
}

type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Frame is the outer drawing area. Scales map into the inner area that
// remains after subtracting the margins.
type Frame struct {
	Width   float64
	Height  float64
	Margins Margins
}

var DefaultFrame = Frame{
	Width:  800,
	Height: 500,
	Margins: Margins{
		Top:    40,
		Right:  20,
		Bottom: 40,
		Left:   50,
	},
}

func (f Frame) InnerWidth() float64 {
	return f.Width - f.Margins.Left - f.Margins.Right
}

func (f Frame) InnerHeight() float64 {
	return f.Height - f.Margins.Top - f.Margins.Bottom
}

// ReadinessScale maps readiness scores [0,100] onto [0, innerWidth].
func ReadinessScale(f Frame) Scale {
	return Scale{DomainMin: 0, DomainMax: 100, RangeMin: 0, RangeMax: f.InnerWidth()}
}

// ResilienceScale maps resilience scores [1,5] onto [innerHeight, 0].
// The range is inverted because pixel y grows downward.
func ResilienceScale(f Frame) Scale {
	return Scale{DomainMin: 1, DomainMax: 5, RangeMin: f.InnerHeight(), RangeMax: 0}
}
