// Package lighting provides the light rig: colours, hemisphere and
// directional lights, and the sun orbit.
package lighting

import "math"

// Color is a linear RGB triple in [0, 1].
type Color [3]float32

// Hex converts 0xRRGGBB to a Color.
func Hex(rgb uint32) Color {
	return Color{
		float32((rgb>>16)&0xff) / 255,
		float32((rgb>>8)&0xff) / 255,
		float32(rgb&0xff) / 255,
	}
}

// HSL converts hue, saturation and lightness, each in [0, 1], to a Color.
// Hue wraps around.
func HSL(h, s, l float64) Color {
	h = h - math.Floor(h)
	s = clamp01(s)
	l = clamp01(l)

	if s == 0 {
		v := float32(l)
		return Color{v, v, v}
	}

	var q float64
	if l <= 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	return Color{
		float32(hueToRGB(p, q, h+1.0/3)),
		float32(hueToRGB(p, q, h)),
		float32(hueToRGB(p, q, h-1.0/3)),
	}
}

// Scale multiplies every channel by k.
func (c Color) Scale(k float32) Color {
	return Color{c[0] * k, c[1] * k, c[2] * k}
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3:
		return p + (q-p)*6*(2.0/3-t)
	}
	return p
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
