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
	"path"
	"path/filepath"
	"strings"

	"github.com/das7pad/lessc/pkg/errors"
	"github.com/das7pad/lessc/pkg/less/pkg/ast"
)

// evalExpr reduces e to a value: variables are substituted, math and
// functions are applied and strings are interpolated.
func (c *Context) evalExpr(e ast.Expr) (ast.Expr, error) {
	switch e := e.(type) {
	case nil:
		return nil, nil
	case *ast.Number, *ast.Color, *ast.Boolean, *ast.Anonymous:
		return e, nil
	case *ast.Quoted:
		if e.IsLiteral() {
			return e, nil
		}
		s, err := c.interpolate(e.Parts)
		if err != nil {
			return nil, err
		}
		return &ast.Quoted{
			Quote:   e.Quote,
			Parts:   []ast.StringPart{{Literal: s}},
			Escaped: e.Escaped,
		}, nil
	case *ast.Identifier:
		if e.IsLiteral() {
			return e, nil
		}
		s, err := c.interpolate(e.Parts)
		if err != nil {
			return nil, err
		}
		return ast.NewIdentifier(s), nil
	case *ast.Variable:
		name := e.Name
		if e.Indirect {
			v, err := c.ResolveVariable(name)
			if err != nil {
				return nil, err
			}
			name = strings.TrimPrefix(textOf(v), "@")
		}
		return c.ResolveVariable(name)
	case *ast.Expression:
		values := make([]ast.Expr, len(e.Values))
		for i, v := range e.Values {
			ev, err := c.evalExpr(v)
			if err != nil {
				return nil, err
			}
			values[i] = ev
		}
		if len(values) == 1 {
			return values[0], nil
		}
		return &ast.Expression{Values: values}, nil
	case *ast.ValueList:
		items := make([]ast.Expr, len(e.Items))
		for i, v := range e.Items {
			ev, err := c.evalExpr(v)
			if err != nil {
				return nil, err
			}
			items[i] = ev
		}
		return &ast.ValueList{Items: items}, nil
	case *ast.Operation:
		return c.evalOperation(e)
	case *ast.Paren:
		c.inParens++
		inner, err := c.evalExpr(e.Inner)
		c.inParens--
		if err != nil {
			return nil, err
		}
		switch inner.(type) {
		case *ast.Expression, *ast.ValueList, *ast.Operation:
			return &ast.Paren{Inner: inner}, nil
		default:
			return inner, nil
		}
	case *ast.Negative:
		inner, err := c.evalExpr(e.Inner)
		if err != nil {
			return nil, err
		}
		if n, ok := inner.(*ast.Number); ok {
			return &ast.Number{Value: -n.Value, Unit: n.Unit}, nil
		}
		return &ast.Negative{Inner: inner}, nil
	case *ast.Call:
		return c.evalCall(e)
	case *ast.URL:
		return c.evalURL(e)
	case *ast.DetachedRuleset:
		if e.Closure != nil {
			return e, nil
		}
		return &ast.DetachedRuleset{Rules: e.Rules, Closure: c.scope}, nil
	case *ast.MediaFeature:
		v, err := c.evalExpr(e.Value)
		if err != nil {
			return nil, err
		}
		return &ast.MediaFeature{Name: e.Name, Value: v}, nil
	case *ast.Condition:
		ok, err := c.evalCondition(e)
		if err != nil {
			return nil, err
		}
		return &ast.Boolean{Value: ok}, nil
	default:
		panic(fmt.Sprintf("unexpected expression %T", e))
	}
}

func (c *Context) mathEnabled() bool {
	if c.inCalc > 0 {
		return false
	}
	if c.inParens > 0 {
		return true
	}
	return c.noMath == 0 && c.strictMedia == 0 && !c.o.StrictMath
}

func (c *Context) evalOperation(o *ast.Operation) (ast.Expr, error) {
	l, err := c.evalExpr(o.LHS)
	if err != nil {
		return nil, err
	}
	r, err := c.evalExpr(o.RHS)
	if err != nil {
		return nil, err
	}
	echo := &ast.Operation{Op: o.Op, LHS: l, RHS: r, Spaced: o.Spaced}
	if !c.mathEnabled() {
		return echo, nil
	}
	v, ok, err := Operate(o.Op, l, r)
	if err != nil {
		return nil, err
	}
	if !ok {
		return echo, nil
	}
	return v, nil
}

func isCalc(name string) bool {
	return name == "calc" || strings.HasSuffix(name, "-calc")
}

func (c *Context) evalCall(call *ast.Call) (ast.Expr, error) {
	name := strings.ToLower(call.Name)
	switch name {
	case "default":
		if c.guard == nil {
			return nil, &errors.ArgumentError{
				Function: "default",
				Msg:      "only available in mixin guards",
			}
		}
		return &ast.Boolean{Value: c.guard.DefaultValue()}, nil
	case "if":
		return c.evalIf(call)
	}
	if isCalc(name) {
		c.inCalc++
		defer func() {
			c.inCalc--
		}()
	}
	args := make([]ast.Expr, len(call.Args))
	for i, a := range call.Args {
		v, err := c.evalExpr(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	passThrough := &ast.Call{Name: call.Name, Args: args, Pos: call.Pos}
	fn, ok := builtins[name]
	if !ok {
		return passThrough, nil
	}
	v, err := fn(c, args)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return passThrough, nil
	}
	return v, nil
}

// evalIf only evaluates the selected branch.
func (c *Context) evalIf(call *ast.Call) (ast.Expr, error) {
	if len(call.Args) < 2 || len(call.Args) > 3 {
		return nil, &errors.ArgumentError{
			Function: "if",
			Msg:      "expects a condition and one or two values",
		}
	}
	ok, err := c.evalCondition(call.Args[0])
	if err != nil {
		return nil, err
	}
	if ok {
		return c.evalExpr(call.Args[1])
	}
	if len(call.Args) == 3 {
		return c.evalExpr(call.Args[2])
	}
	return &ast.Anonymous{}, nil
}

func (c *Context) evalURL(u *ast.URL) (ast.Expr, error) {
	v, err := c.evalExpr(u.Value)
	if err != nil {
		return nil, err
	}
	if c.o.RelativeURLs && c.noRewrite == 0 {
		v = c.rewriteURL(v)
	}
	return &ast.URL{Value: v}, nil
}

func isAbsoluteURL(s string) bool {
	return s == "" || strings.HasPrefix(s, "/") || strings.HasPrefix(s, "#") ||
		strings.HasPrefix(s, "data:") || strings.Contains(s, "://")
}

// rewriteURL makes a relative url of an imported file relative to the
// entry file.
func (c *Context) rewriteURL(v ast.Expr) ast.Expr {
	base := c.resolver().BasePath()
	if base == c.entryBase {
		return v
	}
	rel, err := filepath.Rel(c.entryBase, base)
	if err != nil {
		return v
	}
	s := textOf(v)
	if isAbsoluteURL(s) || strings.Contains(s, "@{") {
		return v
	}
	s = path.Join(filepath.ToSlash(rel), s)
	switch v := v.(type) {
	case *ast.Quoted:
		return ast.NewQuoted(v.Quote, s, v.Escaped)
	case *ast.Identifier:
		return ast.NewIdentifier(s)
	default:
		return &ast.Anonymous{Value: s}
	}
}
