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

	"github.com/das7pad/lessc/pkg/less/pkg/ast"
)

func (c *Context) evalMediaFeatures(e ast.Expr) (ast.Expr, error) {
	c.strictMedia++
	defer func() {
		c.strictMedia--
	}()
	return c.evalExpr(e)
}

func queries(e ast.Expr) []ast.Expr {
	if l, ok := e.(*ast.ValueList); ok {
		return l.Items
	}
	return []ast.Expr{e}
}

// combineFeatures joins every outer query with every inner query.
func combineFeatures(outer, inner ast.Expr) ast.Expr {
	var out []ast.Expr
	for _, o := range queries(outer) {
		for _, i := range queries(inner) {
			out = append(out, &ast.Expression{Values: []ast.Expr{
				o, ast.NewIdentifier("and"), i,
			}})
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return &ast.ValueList{Items: out}
}

// evalMedia bubbles the block to the root. Declarations are wrapped in
// the enclosing selectors and nested queries are combined with the
// outer ones.
func (c *Context) evalMedia(m *ast.Media, out *output) error {
	features, err := c.evalMediaFeatures(m.Features)
	if err != nil {
		return err
	}
	if n := len(c.media); n > 0 {
		if parent := c.media[n-1]; strings.EqualFold(parent.name, m.Name) {
			features = combineFeatures(parent.features, features)
		}
	}
	c.media = append(c.media, mediaFrame{name: m.Name, features: features})
	defer func() {
		c.media = c.media[:len(c.media)-1]
	}()
	defer c.enterExtendRegistry()()
	defer c.EnterScope(nil)()

	selectors := c.currentSelectors()
	inner := &output{flat: selectors == nil}
	if err = c.evalBlock(m.Rules, inner); err != nil {
		return err
	}
	var body []ast.Statement
	if selectors != nil {
		if len(inner.self) > 0 {
			body = append(body, c.newRuleset(selectors, inner.self, m.Pos))
		}
		body = append(body, inner.rules...)
	} else {
		body = inner.self
	}
	out.addMedia(&ast.Media{
		Name:        m.Name,
		Features:    features,
		Rules:       body,
		IsReference: c.isReference(),
		Pos:         m.Pos,
	})
	for _, s := range inner.media {
		out.addMedia(s)
	}
	return nil
}

// evalAtRule handles the remaining directives. Blocks like @font-face
// and @keyframes start without enclosing selectors.
func (c *Context) evalAtRule(a *ast.AtRule, out *output) error {
	prelude, err := c.evalExpr(a.Prelude)
	if err != nil {
		return err
	}
	result := &ast.AtRule{
		Name:        a.Name,
		Prelude:     prelude,
		HasBlock:    a.HasBlock,
		IsReference: c.isReference(),
		Pos:         a.Pos,
	}
	if !a.HasBlock {
		out.addMedia(result)
		return nil
	}
	defer c.EnterScope(&ast.SelectorList{})()
	inner := &output{flat: true}
	if err = c.evalBlock(a.Rules, inner); err != nil {
		return err
	}
	result.Rules = inner.self
	out.addMedia(result)
	for _, s := range inner.media {
		out.addMedia(s)
	}
	return nil
}
