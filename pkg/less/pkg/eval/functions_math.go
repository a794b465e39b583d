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
	"math"

	"github.com/das7pad/lessc/pkg/less/pkg/ast"
)

// unaryMath applies f to the value and keeps the unit.
func unaryMath(name string, f func(float64) float64) builtin {
	return func(_ *Context, args []ast.Expr) (ast.Expr, error) {
		if err := arity(name, args, 1, 1); err != nil {
			return nil, err
		}
		n, err := numberArg(name, args, 0)
		if err != nil {
			return nil, err
		}
		return &ast.Number{Value: f(n.Value), Unit: n.Unit}, nil
	}
}

var (
	fnCeil  = unaryMath("ceil", math.Ceil)
	fnFloor = unaryMath("floor", math.Floor)
	fnSqrt  = unaryMath("sqrt", math.Sqrt)
	fnAbs   = unaryMath("abs", math.Abs)
)

func fnRound(_ *Context, args []ast.Expr) (ast.Expr, error) {
	if err := arity("round", args, 1, 2); err != nil {
		return nil, err
	}
	n, err := numberArg("round", args, 0)
	if err != nil {
		return nil, err
	}
	places := 0.0
	if len(args) == 2 {
		p, err := numberArg("round", args, 1)
		if err != nil {
			return nil, err
		}
		places = math.Max(0, math.Floor(p.Value))
	}
	f := math.Pow(10, places)
	return &ast.Number{Value: math.Round(n.Value*f) / f, Unit: n.Unit}, nil
}

func fnPercentage(_ *Context, args []ast.Expr) (ast.Expr, error) {
	if err := arity("percentage", args, 1, 1); err != nil {
		return nil, err
	}
	n, err := numberArg("percentage", args, 0)
	if err != nil {
		return nil, err
	}
	return &ast.Number{Value: n.Value * 100, Unit: "%"}, nil
}

// radians converts angles in deg, grad or turn; other units are taken as
// radians.
func radians(n *ast.Number) float64 {
	switch n.Unit {
	case "deg":
		return n.Value * math.Pi / 180
	case "grad":
		return n.Value * math.Pi / 200
	case "turn":
		return n.Value * 2 * math.Pi
	default:
		return n.Value
	}
}

func trig(name string, f func(float64) float64) builtin {
	return func(_ *Context, args []ast.Expr) (ast.Expr, error) {
		if err := arity(name, args, 1, 1); err != nil {
			return nil, err
		}
		n, err := numberArg(name, args, 0)
		if err != nil {
			return nil, err
		}
		return &ast.Number{Value: f(radians(n))}, nil
	}
}

func inverseTrig(name string, f func(float64) float64) builtin {
	return func(_ *Context, args []ast.Expr) (ast.Expr, error) {
		if err := arity(name, args, 1, 1); err != nil {
			return nil, err
		}
		n, err := numberArg(name, args, 0)
		if err != nil {
			return nil, err
		}
		return &ast.Number{Value: f(n.Value), Unit: "rad"}, nil
	}
}

var (
	fnSin  = trig("sin", math.Sin)
	fnCos  = trig("cos", math.Cos)
	fnTan  = trig("tan", math.Tan)
	fnAsin = inverseTrig("asin", math.Asin)
	fnAcos = inverseTrig("acos", math.Acos)
	fnAtan = inverseTrig("atan", math.Atan)
)

func fnPi(_ *Context, args []ast.Expr) (ast.Expr, error) {
	if err := arity("pi", args, 0, 0); err != nil {
		return nil, err
	}
	return &ast.Number{Value: math.Pi}, nil
}

func binaryMath(name string, f func(a, b float64) float64) builtin {
	return func(_ *Context, args []ast.Expr) (ast.Expr, error) {
		if err := arity(name, args, 2, 2); err != nil {
			return nil, err
		}
		a, err := numberArg(name, args, 0)
		if err != nil {
			return nil, err
		}
		b, err := numberArg(name, args, 1)
		if err != nil {
			return nil, err
		}
		return &ast.Number{Value: f(a.Value, b.Value), Unit: a.Unit}, nil
	}
}

var (
	fnPow = binaryMath("pow", math.Pow)
	fnMod = binaryMath("mod", math.Mod)
)

// extremum picks the smallest or largest number. Mixed units other than
// unitless values are passed through as the CSS function.
func extremum(name string, better func(a, b float64) bool) builtin {
	return func(_ *Context, args []ast.Expr) (ast.Expr, error) {
		if err := arity(name, args, 1, -1); err != nil {
			return nil, err
		}
		var best *ast.Number
		unit := ""
		for _, a := range args {
			n, ok := a.(*ast.Number)
			if !ok {
				return nil, nil
			}
			if n.Unit != "" {
				if unit != "" && unit != n.Unit {
					return nil, nil
				}
				unit = n.Unit
			}
			if best == nil || better(n.Value, best.Value) {
				best = n
			}
		}
		return &ast.Number{Value: best.Value, Unit: unit}, nil
	}
}

var (
	fnMin = extremum("min", func(a, b float64) bool { return a < b })
	fnMax = extremum("max", func(a, b float64) bool { return a > b })
)

func fnUnit(_ *Context, args []ast.Expr) (ast.Expr, error) {
	if err := arity("unit", args, 1, 2); err != nil {
		return nil, err
	}
	n, err := numberArg("unit", args, 0)
	if err != nil {
		return nil, err
	}
	unit := ""
	if len(args) == 2 {
		unit = textOf(args[1])
	}
	return &ast.Number{Value: n.Value, Unit: unit}, nil
}

func fnGetUnit(_ *Context, args []ast.Expr) (ast.Expr, error) {
	if err := arity("get-unit", args, 1, 1); err != nil {
		return nil, err
	}
	n, err := numberArg("get-unit", args, 0)
	if err != nil {
		return nil, err
	}
	return ast.NewIdentifier(n.Unit), nil
}
