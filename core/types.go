package core

import (
	"strings"

	"github.com/pkg/errors"
)

// API selects the graphics backend a window is created for.
type API int

const (
	Vulkan API = iota
	OpenGL
)

func (a API) String() string {
	switch a {
	case Vulkan:
		return "vulkan"
	case OpenGL:
		return "opengl"
	default:
		return "unknown"
	}
}

func ParseAPI(name string) (API, error) {
	switch strings.ToLower(name) {
	case "vulkan", "vk":
		return Vulkan, nil
	case "opengl", "gl":
		return OpenGL, nil
	}
	return 0, errors.Errorf("unknown graphics API %q", name)
}

type Color struct {
	R, G, B, A float32
}

var (
	ColorWhite  = Color{1, 1, 1, 1}
	ColorBlack  = Color{0, 0, 0, 1}
	ColorRed    = Color{1, 0, 0, 1}
	ColorGreen  = Color{0, 1, 0, 1}
	ColorBlue   = Color{0, 0, 1, 1}
	ColorYellow = Color{1, 1, 0, 1}
)

func (c Color) Lerp(other Color, t float32) Color {
	return Color{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

// Cycle walks the palette at one color per period unit, blending between
// neighbours. phase is taken modulo the palette length.
func Cycle(palette []Color, phase float64) Color {
	if len(palette) == 0 {
		return ColorBlack
	}

	n := float64(len(palette))
	for phase < 0 {
		phase += n
	}
	for phase >= n {
		phase -= n
	}

	i := int(phase)
	return palette[i].Lerp(palette[(i+1)%len(palette)], float32(phase-float64(i)))
}

func (c Color) Slice() []float32 {
	return []float32{c.R, c.G, c.B, c.A}
}
