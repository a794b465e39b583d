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

func toRGBA(c *ast.Color) color.RGBA {
	return color.RGBA{
		R: float64(c.R),
		G: float64(c.G),
		B: float64(c.B),
		A: c.Alpha,
	}
}

func fromRGBA(c color.RGBA) *ast.Color {
	return ast.NewColor(color.Clamp(c.R), color.Clamp(c.G), color.Clamp(c.B), c.A)
}

func order(op string, d float64) bool {
	switch op {
	case ">":
		return d > 0
	case ">=":
		return d >= 0
	case "<":
		return d < 0
	case "<=":
		return d <= 0
	default:
		return d == 0
	}
}

// Compare evaluates a guard comparison. Numbers compare by value without
// unit conversion, colors by brightness. Equality falls back to the
// printed form of both sides.
func Compare(op string, a, b ast.Expr) (bool, error) {
	switch l := a.(type) {
	case *ast.Number:
		if r, ok := b.(*ast.Number); ok {
			return order(op, l.Value-r.Value), nil
		}
	case *ast.Color:
		if r, ok := b.(*ast.Color); ok {
			if op == "=" {
				return l.R == r.R && l.G == r.G && l.B == r.B &&
					l.Alpha == r.Alpha, nil
			}
			d := color.Brightness(toRGBA(l)) - color.Brightness(toRGBA(r))
			return order(op, d), nil
		}
	}
	if op == "=" {
		return textOf(a) == textOf(b), nil
	}
	return false, &errors.ComparisonError{
		LHS: ast.InlineCSS(a),
		Op:  op,
		RHS: ast.InlineCSS(b),
	}
}
