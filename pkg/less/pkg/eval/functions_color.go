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

package eval

import (
	"fmt"
	"math"

	"github.com/das7pad/lessc/pkg/less/pkg/ast"
	"github.com/das7pad/lessc/pkg/less/pkg/color"
)

var blendModes = map[string]color.BlendMode{
	"multiply":   color.Multiply,
	"screen":     color.Screen,
	"overlay":    color.Overlay,
	"softlight":  color.SoftLight,
	"hardlight":  color.HardLight,
	"difference": color.Difference,
	"exclusion":  color.Exclusion,
	"average":    color.Average,
	"negation":   color.Negation,
}

func allNumbers(args []ast.Expr) bool {
	for _, a := range args {
		if _, ok := a.(*ast.Number); !ok {
			return false
		}
	}
	return true
}

// channel scales a percentage to [0,255].
func channel(n *ast.Number) float64 {
	if n.Unit == "%" {
		return n.Value * 255 / 100
	}
	return n.Value
}

// fraction scales a percentage to [0,1]; plain numbers are taken as is.
func fraction(n *ast.Number) float64 {
	if n.Unit == "%" {
		return n.Value / 100
	}
	return n.Value
}

func fnRGB(c *Context, args []ast.Expr) (ast.Expr, error) {
	if len(args) == 4 {
		return fnRGBA(c, args)
	}
	if len(args) != 3 || !allNumbers(args) {
		return nil, nil
	}
	return rgba(args, 1), nil
}

func fnRGBA(_ *Context, args []ast.Expr) (ast.Expr, error) {
	if len(args) == 2 {
		if col, ok := args[0].(*ast.Color); ok {
			if a, isNum := args[1].(*ast.Number); isNum {
				return ast.NewColor(col.R, col.G, col.B, fraction(a)), nil
			}
		}
	}
	if len(args) != 4 || !allNumbers(args) {
		return nil, nil
	}
	return rgba(args[:3], fraction(args[3].(*ast.Number))), nil
}

func rgba(args []ast.Expr, alpha float64) *ast.Color {
	return ast.NewColor(
		color.Clamp(channel(args[0].(*ast.Number))),
		color.Clamp(channel(args[1].(*ast.Number))),
		color.Clamp(channel(args[2].(*ast.Number))),
		alpha,
	)
}

func fnARGB(_ *Context, args []ast.Expr) (ast.Expr, error) {
	if err := arity("argb", args, 1, 1); err != nil {
		return nil, err
	}
	col, err := colorArg("argb", args, 0)
	if err != nil {
		return nil, err
	}
	a := uint8(math.Round(col.Alpha * 255))
	return &ast.Anonymous{
		Value: fmt.Sprintf("#%02x%02x%02x%02x", a, col.R, col.G, col.B),
	}, nil
}

func fnHSL(c *Context, args []ast.Expr) (ast.Expr, error) {
	if len(args) == 4 {
		return fnHSLA(c, args)
	}
	if len(args) != 3 || !allNumbers(args) {
		return nil, nil
	}
	return hsla(args, 1), nil
}

func fnHSLA(_ *Context, args []ast.Expr) (ast.Expr, error) {
	if len(args) != 4 || !allNumbers(args) {
		return nil, nil
	}
	return hsla(args[:3], fraction(args[3].(*ast.Number))), nil
}

func hsla(args []ast.Expr, alpha float64) *ast.Color {
	h := args[0].(*ast.Number).Value / 360
	s := fraction(args[1].(*ast.Number))
	l := fraction(args[2].(*ast.Number))
	return fromRGBA(color.NewHSL(h, s, l, alpha).ToRGB())
}

func fnColor(_ *Context, args []ast.Expr) (ast.Expr, error) {
	if err := arity("color", args, 1, 1); err != nil {
		return nil, err
	}
	if col, ok := args[0].(*ast.Color); ok {
		return col, nil
	}
	s, err := stringArg("color", args, 0)
	if err != nil {
		return nil, err
	}
	v, err := color.Parse(s)
	if err != nil {
		return nil, argError("color", "cannot parse "+s)
	}
	return fromRGBA(v), nil
}

func channelFunction(name string, get func(col *ast.Color) *ast.Number) builtin {
	return func(_ *Context, args []ast.Expr) (ast.Expr, error) {
		if err := arity(name, args, 1, 1); err != nil {
			return nil, err
		}
		col, err := colorArg(name, args, 0)
		if err != nil {
			return nil, err
		}
		return get(col), nil
	}
}

var (
	fnRed = channelFunction("red", func(col *ast.Color) *ast.Number {
		return &ast.Number{Value: float64(col.R)}
	})
	fnGreen = channelFunction("green", func(col *ast.Color) *ast.Number {
		return &ast.Number{Value: float64(col.G)}
	})
	fnBlue = channelFunction("blue", func(col *ast.Color) *ast.Number {
		return &ast.Number{Value: float64(col.B)}
	})
	fnAlpha = channelFunction("alpha", func(col *ast.Color) *ast.Number {
		return &ast.Number{Value: col.Alpha}
	})
	fnHue = channelFunction("hue", func(col *ast.Color) *ast.Number {
		return &ast.Number{Value: math.Round(color.FromRGB(toRGBA(col)).Degrees())}
	})
	fnSaturation = channelFunction("saturation", func(col *ast.Color) *ast.Number {
		s := color.FromRGB(toRGBA(col)).S
		return &ast.Number{Value: math.Round(s * 100), Unit: "%"}
	})
	fnLightness = channelFunction("lightness", func(col *ast.Color) *ast.Number {
		l := color.FromRGB(toRGBA(col)).L
		return &ast.Number{Value: math.Round(l * 100), Unit: "%"}
	})
	fnLuma = channelFunction("luma", func(col *ast.Color) *ast.Number {
		return &ast.Number{Value: color.Luma(toRGBA(col)) * col.Alpha * 100, Unit: "%"}
	})
	fnLuminance = channelFunction("luminance", func(col *ast.Color) *ast.Number {
		return &ast.Number{Value: color.Luminance(toRGBA(col)) * col.Alpha * 100, Unit: "%"}
	})
)

// hslFunction adjusts one HSL component by an amount in percent. The
// optional third argument "relative" scales the amount by the current
// value.
func hslFunction(name string, adjust func(h *color.HSL, amount float64)) builtin {
	return func(_ *Context, args []ast.Expr) (ast.Expr, error) {
		if err := arity(name, args, 2, 3); err != nil {
			return nil, err
		}
		col, err := colorArg(name, args, 0)
		if err != nil {
			return nil, err
		}
		n, err := numberArg(name, args, 1)
		if err != nil {
			return nil, err
		}
		h := color.FromRGB(toRGBA(col))
		amount := n.Value / 100
		if len(args) == 3 && textOf(args[2]) == "relative" {
			amount = relativeAmount(name, h, amount)
		}
		adjust(&h, amount)
		return fromRGBA(color.NewHSL(h.H, h.S, h.L, h.A).ToRGB()), nil
	}
}

func relativeAmount(name string, h color.HSL, amount float64) float64 {
	switch name {
	case "saturate", "desaturate":
		return h.S * amount
	case "lighten", "darken":
		return h.L * amount
	default:
		return h.A * amount
	}
}

var (
	fnSaturate = hslFunction("saturate", func(h *color.HSL, a float64) {
		h.S += a
	})
	fnDesaturate = hslFunction("desaturate", func(h *color.HSL, a float64) {
		h.S -= a
	})
	fnLighten = hslFunction("lighten", func(h *color.HSL, a float64) {
		h.L += a
	})
	fnDarken = hslFunction("darken", func(h *color.HSL, a float64) {
		h.L -= a
	})
	fnFadeIn = hslFunction("fadein", func(h *color.HSL, a float64) {
		h.A += a
	})
	fnFadeOut = hslFunction("fadeout", func(h *color.HSL, a float64) {
		h.A -= a
	})
)

func fnFade(_ *Context, args []ast.Expr) (ast.Expr, error) {
	if err := arity("fade", args, 2, 2); err != nil {
		return nil, err
	}
	col, err := colorArg("fade", args, 0)
	if err != nil {
		return nil, err
	}
	n, err := numberArg("fade", args, 1)
	if err != nil {
		return nil, err
	}
	return ast.NewColor(col.R, col.G, col.B, n.Value/100), nil
}

func fnSpin(_ *Context, args []ast.Expr) (ast.Expr, error) {
	if err := arity("spin", args, 2, 2); err != nil {
		return nil, err
	}
	col, err := colorArg("spin", args, 0)
	if err != nil {
		return nil, err
	}
	n, err := numberArg("spin", args, 1)
	if err != nil {
		return nil, err
	}
	h := color.FromRGB(toRGBA(col))
	return fromRGBA(color.NewHSL(h.H+n.Value/360, h.S, h.L, h.A).ToRGB()), nil
}

func weightArg(name string, args []ast.Expr, i int) (float64, error) {
	if len(args) <= i {
		return 0.5, nil
	}
	n, err := numberArg(name, args, i)
	if err != nil {
		return 0, err
	}
	return n.Value / 100, nil
}

func fnMix(_ *Context, args []ast.Expr) (ast.Expr, error) {
	if err := arity("mix", args, 2, 3); err != nil {
		return nil, err
	}
	a, err := colorArg("mix", args, 0)
	if err != nil {
		return nil, err
	}
	b, err := colorArg("mix", args, 1)
	if err != nil {
		return nil, err
	}
	w, err := weightArg("mix", args, 2)
	if err != nil {
		return nil, err
	}
	return fromRGBA(color.Mix(toRGBA(a), toRGBA(b), w)), nil
}

func mixWith(name string, with color.RGBA) builtin {
	return func(_ *Context, args []ast.Expr) (ast.Expr, error) {
		if err := arity(name, args, 1, 2); err != nil {
			return nil, err
		}
		col, err := colorArg(name, args, 0)
		if err != nil {
			return nil, err
		}
		w, err := weightArg(name, args, 1)
		if err != nil {
			return nil, err
		}
		return fromRGBA(color.Mix(with, toRGBA(col), w)), nil
	}
}

var (
	fnTint  = mixWith("tint", color.RGBA{R: 255, G: 255, B: 255, A: 1})
	fnShade = mixWith("shade", color.RGBA{A: 1})
)

func fnGreyscale(c *Context, args []ast.Expr) (ast.Expr, error) {
	if err := arity("greyscale", args, 1, 1); err != nil {
		return nil, err
	}
	return fnDesaturate(c, []ast.Expr{args[0], &ast.Number{Value: 100, Unit: "%"}})
}

// fnContrast picks the light or dark candidate by the luma of the
// color. The candidates are swapped if dark is lighter than light.
func fnContrast(_ *Context, args []ast.Expr) (ast.Expr, error) {
	if err := arity("contrast", args, 1, 4); err != nil {
		return nil, err
	}
	col, ok := args[0].(*ast.Color)
	if !ok {
		return nil, nil
	}
	dark := ast.NewColor(0, 0, 0, 1)
	light := ast.NewColor(255, 255, 255, 1)
	var err error
	if len(args) > 1 {
		if dark, err = colorArg("contrast", args, 1); err != nil {
			return nil, err
		}
	}
	if len(args) > 2 {
		if light, err = colorArg("contrast", args, 2); err != nil {
			return nil, err
		}
	}
	threshold := 0.43
	if len(args) > 3 {
		n, err := numberArg("contrast", args, 3)
		if err != nil {
			return nil, err
		}
		threshold = fraction(n)
	}
	if color.Luma(toRGBA(dark)) > color.Luma(toRGBA(light)) {
		dark, light = light, dark
	}
	if color.Luma(toRGBA(col)) < threshold {
		return light, nil
	}
	return dark, nil
}

func blendFunction(mode color.BlendMode) builtin {
	return func(_ *Context, args []ast.Expr) (ast.Expr, error) {
		if err := arity(mode.Name, args, 2, 2); err != nil {
			return nil, err
		}
		a, err := colorArg(mode.Name, args, 0)
		if err != nil {
			return nil, err
		}
		b, err := colorArg(mode.Name, args, 1)
		if err != nil {
			return nil, err
		}
		out := color.Blend(mode, toRGBA(a), toRGBA(b))
		r, g, bb := mode.Bytes(out)
		return ast.NewColor(r, g, bb, out.A), nil
	}
}
