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
	"strings"

	"github.com/das7pad/lessc/pkg/errors"
	"github.com/das7pad/lessc/pkg/less/pkg/ast"
)

// GuardScope tracks the overloads of one mixin call for default().
type GuardScope struct {
	selector         string
	conditionMatched bool
	defaultMatched   bool
}

// DefaultValue is the result of default() while evaluating a guard.
func (g *GuardScope) DefaultValue() bool {
	return !g.conditionMatched
}

// SetConditionGuard records an overload that matched without default().
func (g *GuardScope) SetConditionGuard() {
	g.conditionMatched = true
}

// SetDefaultGuard records an overload that matched through default().
// It marks the condition flag rather than defaultMatched: later default()
// overloads of the same call see default() as false and the ambiguity
// error is never raised.
func (g *GuardScope) SetDefaultGuard() error {
	if g.defaultMatched {
		return &errors.AmbiguousDefaultGuardError{Selector: g.selector}
	}
	g.conditionMatched = true
	return nil
}

func usesDefault(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.Condition:
		return usesDefault(e.LHS) || (e.RHS != nil && usesDefault(e.RHS))
	case *ast.Call:
		if strings.EqualFold(e.Name, "default") {
			return true
		}
		for _, a := range e.Args {
			if usesDefault(a) {
				return true
			}
		}
	case *ast.Expression:
		for _, v := range e.Values {
			if usesDefault(v) {
				return true
			}
		}
	case *ast.Paren:
		return usesDefault(e.Inner)
	}
	return false
}

// evalGuard evaluates a guard outside of mixin overload resolution.
func (c *Context) evalGuard(guard ast.Expr) (bool, error) {
	prev := c.guard
	c.guard = nil
	defer func() {
		c.guard = prev
	}()
	return c.evalCondition(guard)
}

func (c *Context) evalGuardWith(guard ast.Expr, g *GuardScope) (bool, error) {
	prev := c.guard
	c.guard = g
	defer func() {
		c.guard = prev
	}()
	return c.evalCondition(guard)
}

func (c *Context) evalCondition(e ast.Expr) (bool, error) {
	cond, ok := e.(*ast.Condition)
	if !ok {
		v, err := c.evalExpr(e)
		if err != nil {
			return false, err
		}
		return truthy(v), nil
	}
	var result bool
	switch cond.Op {
	case "and", "or":
		l, err := c.evalCondition(cond.LHS)
		if err != nil {
			return false, err
		}
		if cond.Op == "and" && !l || cond.Op == "or" && l {
			result = l
			break
		}
		r, err := c.evalCondition(cond.RHS)
		if err != nil {
			return false, err
		}
		result = r
	case "":
		r, err := c.evalCondition(cond.LHS)
		if err != nil {
			return false, err
		}
		result = r
	default:
		l, err := c.evalExpr(cond.LHS)
		if err != nil {
			return false, err
		}
		r, err := c.evalExpr(cond.RHS)
		if err != nil {
			return false, err
		}
		if result, err = Compare(cond.Op, l, r); err != nil {
			return false, err
		}
	}
	if cond.Negate {
		result = !result
	}
	return result, nil
}

// truthy is true only for the boolean true, not for other values.
func truthy(v ast.Expr) bool {
	switch v := v.(type) {
	case *ast.Boolean:
		return v.Value
	case *ast.Identifier:
		return v.Text() == "true"
	case *ast.Paren:
		return truthy(v.Inner)
	default:
		return false
	}
}
