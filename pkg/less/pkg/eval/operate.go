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
	"github.com/das7pad/lessc/pkg/errors"
	"github.com/das7pad/lessc/pkg/less/pkg/ast"
	"github.com/das7pad/lessc/pkg/less/pkg/color"
)

var errDivisionByZero = &errors.OperationError{Msg: "division by zero"}

func apply(op byte, a, b float64) (float64, error) {
	switch op {
	case '+':
		return a + b, nil
	case '-':
		return a - b, nil
	case '*':
		return a * b, nil
	case '/':
		if b == 0 {
			return 0, errDivisionByZero
		}
		return a / b, nil
	default:
		return 0, &errors.OperationError{Msg: "unknown operator " + string(op)}
	}
}

// Operate applies binary math to numbers and colors. ok is false for
// operands that do not support math; the caller echoes those.
func Operate(op byte, a, b ast.Expr) (ast.Expr, bool, error) {
	switch l := a.(type) {
	case *ast.Number:
		switch r := b.(type) {
		case *ast.Number:
			v, err := apply(op, l.Value, r.Value)
			if err != nil {
				return nil, false, err
			}
			return &ast.Number{Value: v, Unit: resultUnit(op, l.Unit, r.Unit)}, true, nil
		case *ast.Color:
			c, err := operateColorScalar(op, l.Value, r, true)
			return c, err == nil, err
		}
	case *ast.Color:
		switch r := b.(type) {
		case *ast.Color:
			c, err := operateColors(op, l, r)
			return c, err == nil, err
		case *ast.Number:
			c, err := operateColorScalar(op, r.Value, l, false)
			return c, err == nil, err
		}
	}
	return nil, false, nil
}

// resultUnit keeps the unit of the left operand, or the right one if
// the left is unitless. Dividing equal units cancels them.
func resultUnit(op byte, l, r string) string {
	if op == '/' && l != "" && l == r {
		return ""
	}
	if l != "" {
		return l
	}
	return r
}

func operateColors(op byte, a, b *ast.Color) (*ast.Color, error) {
	var channels [3]uint8
	la := [3]uint8{a.R, a.G, a.B}
	lb := [3]uint8{b.R, b.G, b.B}
	for i := range channels {
		v, err := apply(op, float64(la[i]), float64(lb[i]))
		if err != nil {
			return nil, err
		}
		channels[i] = color.Wrap(v)
	}
	alpha := a.Alpha*(1-b.Alpha) + b.Alpha
	return ast.NewColor(channels[0], channels[1], channels[2], alpha), nil
}

func operateColorScalar(op byte, n float64, c *ast.Color, scalarFirst bool) (*ast.Color, error) {
	var channels [3]uint8
	in := [3]uint8{c.R, c.G, c.B}
	for i := range channels {
		var v float64
		var err error
		if scalarFirst {
			v, err = apply(op, n, float64(in[i]))
		} else {
			v, err = apply(op, float64(in[i]), n)
		}
		if err != nil {
			return nil, err
		}
		channels[i] = color.Wrap(v)
	}
	return ast.NewColor(channels[0], channels[1], channels[2], c.Alpha), nil
}
