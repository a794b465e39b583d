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

package color

import (
	"math"
)

type BlendMode struct {
	Name    string
	channel func(cb, cs float64) float64

	// Truncate converts channels with an unchecked cast instead of
	// rounding and clamping.
	Truncate bool
}

var (
	Multiply   = BlendMode{Name: "multiply", channel: multiply}
	Screen     = BlendMode{Name: "screen", channel: screen}
	Overlay    = BlendMode{Name: "overlay", channel: overlay}
	SoftLight  = BlendMode{Name: "softlight", channel: softLight}
	HardLight  = BlendMode{Name: "hardlight", channel: hardLight}
	Difference = BlendMode{Name: "difference", channel: difference, Truncate: true}
	Exclusion  = BlendMode{Name: "exclusion", channel: exclusion, Truncate: true}
	Average    = BlendMode{Name: "average", channel: average}
	Negation   = BlendMode{Name: "negation", channel: negation, Truncate: true}
)

func multiply(cb, cs float64) float64 {
	return cb * cs
}

func screen(cb, cs float64) float64 {
	return cb + cs - cb*cs
}

func overlay(cb, cs float64) float64 {
	cb *= 2
	if cb <= 1 {
		return multiply(cb, cs)
	}
	return screen(cb-1, cs)
}

func softLight(cb, cs float64) float64 {
	d := 1.0
	e := cb
	if cs > 0.5 {
		e = 1
		if cb > 0.25 {
			d = math.Sqrt(cb)
		} else {
			d = ((16*cb-12)*cb + 4) * cb
		}
	}
	return cb - (1-2*cs)*e*(d-cb)
}

func hardLight(cb, cs float64) float64 {
	return overlay(cs, cb)
}

func difference(cb, cs float64) float64 {
	return math.Abs(cb - cs)
}

func exclusion(cb, cs float64) float64 {
	return cb + cs - 2*cb*cs
}

func average(cb, cs float64) float64 {
	return (cb + cs) / 2
}

func negation(cb, cs float64) float64 {
	return 1 - math.Abs(cb+cs-1)
}

// Blend computes each channel with the mode and composites the result
// over the backdrop using both alphas.
func Blend(mode BlendMode, backdrop, source RGBA) RGBA {
	ab, as := backdrop.A, source.A
	ar := as + ab*(1-as)
	ch := func(b, s float64) float64 {
		cb, cs := b/255, s/255
		cr := mode.channel(cb, cs)
		if ar != 0 {
			cr = (as*cs + ab*(cb-as*(cb+cs-cr))) / ar
		}
		return cr * 255
	}
	return RGBA{
		R: ch(backdrop.R, source.R),
		G: ch(backdrop.G, source.G),
		B: ch(backdrop.B, source.B),
		A: ar,
	}
}

// Bytes converts the blended channels with the overflow policy of the
// mode.
func (m BlendMode) Bytes(c RGBA) (uint8, uint8, uint8) {
	if m.Truncate {
		return Wrap(c.R), Wrap(c.G), Wrap(c.B)
	}
	return Clamp(c.R), Clamp(c.G), Clamp(c.B)
}
