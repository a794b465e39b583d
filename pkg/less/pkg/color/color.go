// Golang port of Overleaf
// Copyright (C) 2023 Jakob Ackermann <das7pad@outlook.com>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package color implements the color algebra of the compiler. Channels
// are float64 in [0,255] while computing; conversion back to bytes is
// explicit so each operation can pick its overflow behavior.
package color

import (
	"math"
)

type RGBA struct {
	R, G, B float64
	A       float64
}

// HSL holds hue as a fraction of a full turn in [0,1), saturation and
// lightness in [0,1].
type HSL struct {
	H, S, L float64
	A       float64
}

func NewHSL(h, s, l, a float64) HSL {
	return HSL{H: normalizeHue(h), S: clamp01(s), L: clamp01(l), A: clamp01(a)}
}

func normalizeHue(h float64) float64 {
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return 0
	}
	h = math.Mod(h, 1)
	if h < 0 {
		h += 1
	}
	return h
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Clamp rounds a channel to the nearest byte, saturating at 0 and 255.
func Clamp(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}

// Wrap truncates a channel and keeps the low byte, like an unchecked
// integer cast: 256 becomes 0, -1 becomes 255.
func Wrap(v float64) uint8 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return uint8(int64(math.Trunc(v)))
}

func FromRGB(c RGBA) HSL {
	r, g, b := c.R/255, c.G/255, c.B/255
	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	l := (maxC + minC) / 2
	d := maxC - minC
	if d == 0 {
		return HSL{H: 0, S: 0, L: l, A: c.A}
	}
	var s float64
	if l > 0.5 {
		s = d / (2 - maxC - minC)
	} else {
		s = d / (maxC + minC)
	}
	var h float64
	switch maxC {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return HSL{H: normalizeHue(h / 6), S: s, L: l, A: c.A}
}

// ToRGB uses the six sector hue interpolation.
func (h HSL) ToRGB() RGBA {
	hue := normalizeHue(h.H) * 6
	s, l := clamp01(h.S), clamp01(h.L)
	chroma := (1 - math.Abs(2*l-1)) * s
	x := chroma * (1 - math.Abs(math.Mod(hue, 2)-1))
	var r, g, b float64
	switch int(hue) {
	case 0:
		r, g, b = chroma, x, 0
	case 1:
		r, g, b = x, chroma, 0
	case 2:
		r, g, b = 0, chroma, x
	case 3:
		r, g, b = 0, x, chroma
	case 4:
		r, g, b = x, 0, chroma
	default:
		r, g, b = chroma, 0, x
	}
	m := l - chroma/2
	return RGBA{
		R: (r + m) * 255,
		G: (g + m) * 255,
		B: (b + m) * 255,
		A: h.A,
	}
}

// Degrees returns the hue in [0,360).
func (h HSL) Degrees() float64 {
	return h.H * 360
}

// Mix blends a and b, weight being the share of a in [0,1]. The alpha
// difference shifts the effective weight towards the more opaque color.
func Mix(a, b RGBA, weight float64) RGBA {
	p := clamp01(weight)
	w := p*2 - 1
	da := a.A - b.A
	var w1 float64
	if w*da == -1 {
		w1 = (w + 1) / 2
	} else {
		w1 = ((w+da)/(1+w*da) + 1) / 2
	}
	w2 := 1 - w1
	return RGBA{
		R: a.R*w1 + b.R*w2,
		G: a.G*w1 + b.G*w2,
		B: a.B*w1 + b.B*w2,
		A: a.A*p + b.A*(1-p),
	}
}

// Luma is the relative luminance with gamma correction in [0,1].
func Luma(c RGBA) float64 {
	lin := func(v float64) float64 {
		v /= 255
		if v <= 0.03928 {
			return v / 12.92
		}
		return math.Pow((v+0.055)/1.055, 2.4)
	}
	return 0.2126*lin(c.R) + 0.7152*lin(c.G) + 0.0722*lin(c.B)
}

// Luminance is the relative luminance without gamma correction in [0,1].
func Luminance(c RGBA) float64 {
	return (0.2126*c.R + 0.7152*c.G + 0.0722*c.B) / 255
}

// Brightness orders colors in comparisons: darker and more transparent
// colors sort lower.
func Brightness(c RGBA) float64 {
	return Luminance(c) * c.A
}
