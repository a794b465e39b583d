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
	"strconv"
	"strings"

	"github.com/das7pad/lessc/pkg/errors"
	"github.com/das7pad/lessc/pkg/less/pkg/ast"
)

// builtin implements a function. Returning a nil value passes the call
// through to the CSS output.
type builtin func(c *Context, args []ast.Expr) (ast.Expr, error)

var builtins = map[string]builtin{
	// color definition
	"rgb":   fnRGB,
	"rgba":  fnRGBA,
	"argb":  fnARGB,
	"hsl":   fnHSL,
	"hsla":  fnHSLA,
	"color": fnColor,

	// color channels
	"red":        fnRed,
	"green":      fnGreen,
	"blue":       fnBlue,
	"alpha":      fnAlpha,
	"hue":        fnHue,
	"saturation": fnSaturation,
	"lightness":  fnLightness,
	"luma":       fnLuma,
	"luminance":  fnLuminance,

	// color operations
	"saturate":   fnSaturate,
	"desaturate": fnDesaturate,
	"lighten":    fnLighten,
	"darken":     fnDarken,
	"fadein":     fnFadeIn,
	"fadeout":    fnFadeOut,
	"fade":       fnFade,
	"spin":       fnSpin,
	"mix":        fnMix,
	"tint":       fnTint,
	"shade":      fnShade,
	"greyscale":  fnGreyscale,
	"contrast":   fnContrast,

	// color blending
	"multiply":   blendFunction(blendModes["multiply"]),
	"screen":     blendFunction(blendModes["screen"]),
	"overlay":    blendFunction(blendModes["overlay"]),
	"softlight":  blendFunction(blendModes["softlight"]),
	"hardlight":  blendFunction(blendModes["hardlight"]),
	"difference": blendFunction(blendModes["difference"]),
	"exclusion":  blendFunction(blendModes["exclusion"]),
	"average":    blendFunction(blendModes["average"]),
	"negation":   blendFunction(blendModes["negation"]),

	// math
	"ceil":       fnCeil,
	"floor":      fnFloor,
	"round":      fnRound,
	"percentage": fnPercentage,
	"sqrt":       fnSqrt,
	"abs":        fnAbs,
	"sin":        fnSin,
	"cos":        fnCos,
	"tan":        fnTan,
	"asin":       fnAsin,
	"acos":       fnAcos,
	"atan":       fnAtan,
	"pi":         fnPi,
	"pow":        fnPow,
	"mod":        fnMod,
	"min":        fnMin,
	"max":        fnMax,
	"unit":       fnUnit,
	"get-unit":   fnGetUnit,

	// strings
	"e":       fnE,
	"escape":  fnEscape,
	"%":       fnFormat,
	"replace": fnReplace,

	// lists
	"length":  fnLength,
	"extract": fnExtract,
	"range":   fnRange,

	// types
	"iscolor":      isType(func(e ast.Expr) bool { _, ok := e.(*ast.Color); return ok }),
	"isnumber":     isType(func(e ast.Expr) bool { _, ok := e.(*ast.Number); return ok }),
	"isstring":     isType(func(e ast.Expr) bool { _, ok := e.(*ast.Quoted); return ok }),
	"iskeyword":    isType(func(e ast.Expr) bool { _, ok := e.(*ast.Identifier); return ok }),
	"isurl":        isType(func(e ast.Expr) bool { _, ok := e.(*ast.URL); return ok }),
	"isruleset":    isType(func(e ast.Expr) bool { _, ok := e.(*ast.DetachedRuleset); return ok }),
	"ispixel":      isUnit("px"),
	"isem":         isUnit("em"),
	"ispercentage": isUnit("%"),
	"isunit":       fnIsUnit,

	// misc
	"boolean":  fnBoolean,
	"data-uri": fnDataURI,
}

func argError(fn, msg string) error {
	return &errors.ArgumentError{Function: fn, Msg: msg}
}

func arity(fn string, args []ast.Expr, min, max int) error {
	if len(args) < min || (max >= 0 && len(args) > max) {
		var want string
		switch {
		case min == max:
			want = strconv.Itoa(min)
		case max < 0:
			want = "at least " + strconv.Itoa(min)
		default:
			want = strconv.Itoa(min) + " to " + strconv.Itoa(max)
		}
		return argError(fn, "expects "+want+" arguments, got "+
			strconv.Itoa(len(args)))
	}
	return nil
}

func numberArg(fn string, args []ast.Expr, i int) (*ast.Number, error) {
	n, ok := args[i].(*ast.Number)
	if !ok {
		return nil, argError(fn, "argument "+strconv.Itoa(i+1)+
			" must be a number, got "+ast.InlineCSS(args[i]))
	}
	return n, nil
}

func colorArg(fn string, args []ast.Expr, i int) (*ast.Color, error) {
	c, ok := args[i].(*ast.Color)
	if !ok {
		return nil, argError(fn, "argument "+strconv.Itoa(i+1)+
			" must be a color, got "+ast.InlineCSS(args[i]))
	}
	return c, nil
}

func stringArg(fn string, args []ast.Expr, i int) (string, error) {
	switch v := args[i].(type) {
	case *ast.Quoted, *ast.Identifier, *ast.Anonymous:
		return textOf(v), nil
	default:
		return "", argError(fn, "argument "+strconv.Itoa(i+1)+
			" must be a string, got "+ast.InlineCSS(args[i]))
	}
}

func isType(check func(e ast.Expr) bool) builtin {
	return func(_ *Context, args []ast.Expr) (ast.Expr, error) {
		if len(args) == 0 {
			return &ast.Boolean{Value: false}, nil
		}
		return &ast.Boolean{Value: check(args[0])}, nil
	}
}

func isUnit(unit string) builtin {
	return isType(func(e ast.Expr) bool {
		n, ok := e.(*ast.Number)
		return ok && n.Unit == unit
	})
}

func fnIsUnit(_ *Context, args []ast.Expr) (ast.Expr, error) {
	if err := arity("isunit", args, 2, 2); err != nil {
		return nil, err
	}
	n, ok := args[0].(*ast.Number)
	return &ast.Boolean{Value: ok && n.Unit == textOf(args[1])}, nil
}

func fnBoolean(_ *Context, args []ast.Expr) (ast.Expr, error) {
	if err := arity("boolean", args, 1, 1); err != nil {
		return nil, err
	}
	return &ast.Boolean{Value: truthy(args[0])}, nil
}

// listItems returns the elements of a comma or space separated list.
func listItems(e ast.Expr) []ast.Expr {
	switch e := e.(type) {
	case *ast.ValueList:
		return e.Items
	case *ast.Expression:
		return e.Values
	default:
		return []ast.Expr{e}
	}
}

func fnLength(_ *Context, args []ast.Expr) (ast.Expr, error) {
	if err := arity("length", args, 1, 1); err != nil {
		return nil, err
	}
	return &ast.Number{Value: float64(len(listItems(args[0])))}, nil
}

func fnExtract(_ *Context, args []ast.Expr) (ast.Expr, error) {
	if err := arity("extract", args, 2, 2); err != nil {
		return nil, err
	}
	n, err := numberArg("extract", args, 1)
	if err != nil {
		return nil, err
	}
	items := listItems(args[0])
	i := int(n.Value) - 1
	if i < 0 || i >= len(items) {
		return nil, nil
	}
	return items[i], nil
}

func fnRange(_ *Context, args []ast.Expr) (ast.Expr, error) {
	if err := arity("range", args, 1, 3); err != nil {
		return nil, err
	}
	start := &ast.Number{Value: 1}
	end, err := numberArg("range", args, 0)
	if err != nil {
		return nil, err
	}
	step := 1.0
	if len(args) > 1 {
		start = end
		if end, err = numberArg("range", args, 1); err != nil {
			return nil, err
		}
	}
	if len(args) > 2 {
		s, err := numberArg("range", args, 2)
		if err != nil {
			return nil, err
		}
		step = s.Value
	}
	if step <= 0 {
		return nil, argError("range", "step must be positive")
	}
	var values []ast.Expr
	for v := start.Value; v <= end.Value; v += step {
		values = append(values, &ast.Number{Value: v, Unit: end.Unit})
	}
	if len(values) == 0 {
		return nil, nil
	}
	return &ast.Expression{Values: values}, nil
}

// evalCallStatement runs each(): the ruleset is evaluated once per list
// item with @value, @key and @index bound.
func (c *Context) evalCallStatement(s *ast.CallStatement, out *output) error {
	name := strings.ToLower(s.Call.Name)
	if name != "each" {
		return argError(name, "cannot be used as a statement")
	}
	if err := arity("each", s.Call.Args, 2, 2); err != nil {
		return err
	}
	list, err := c.evalExpr(s.Call.Args[0])
	if err != nil {
		return err
	}
	fn, err := c.evalExpr(s.Call.Args[1])
	if err != nil {
		return err
	}
	body, ok := fn.(*ast.DetachedRuleset)
	if !ok {
		return argError("each", "second argument must be a detached ruleset")
	}
	type item struct {
		key   ast.Expr
		value ast.Expr
	}
	var items []item
	if d, isRuleset := list.(*ast.DetachedRuleset); isRuleset {
		for _, st := range d.Rules {
			switch st := st.(type) {
			case *ast.Declaration:
				items = append(items, item{key: st.Name, value: st.Value})
			case *ast.VariableDeclaration:
				items = append(items, item{
					key:   ast.NewIdentifier("@" + st.Name),
					value: st.Value,
				})
			}
		}
	} else {
		for i, v := range listItems(list) {
			items = append(items, item{
				key:   &ast.Number{Value: float64(i + 1)},
				value: v,
			})
		}
	}
	for i, it := range items {
		v, err := c.evalExpr(it.value)
		if err != nil {
			return err
		}
		bindings := []binding{
			{name: "value", value: v},
			{name: "key", value: it.key},
			{name: "index", value: &ast.Number{Value: float64(i + 1)}},
		}
		if err = c.callDetached(body, bindings, out); err != nil {
			return err
		}
	}
	return nil
}
