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
	"strings"

	"github.com/das7pad/lessc/pkg/errors"
	"github.com/das7pad/lessc/pkg/less/pkg/ast"
	"github.com/das7pad/lessc/pkg/less/pkg/parser"
)

// output collects the result statements of one block. Inside a ruleset
// the declarations stay in self, nested rulesets follow the parent and
// bubbled media follow those. The root keeps document order for
// everything, media bodies keep it for rulesets.
type output struct {
	root  bool
	flat  bool
	self  []ast.Statement
	rules []ast.Statement
	media []ast.Statement
}

func (o *output) addRule(s ast.Statement) {
	if o.root || o.flat {
		o.self = append(o.self, s)
	} else {
		o.rules = append(o.rules, s)
	}
}

func (o *output) addMedia(s ast.Statement) {
	if o.root {
		o.self = append(o.self, s)
	} else {
		o.media = append(o.media, s)
	}
}

func (o *output) merge(other *output) {
	o.self = append(o.self, other.self...)
	o.rules = append(o.rules, other.rules...)
	o.media = append(o.media, other.media...)
}

func (o *output) child() *output {
	return &output{root: o.root, flat: o.flat}
}

func (c *Context) evalBlock(rules []ast.Statement, out *output) error {
	if err := c.hoist(rules); err != nil {
		return err
	}
	return c.evalStatements(rules, out)
}

func (c *Context) evalStatements(rules []ast.Statement, out *output) error {
	for _, s := range rules {
		if err := c.evalStatement(s, out); err != nil {
			var t *errors.TaggedError
			if errors.As(err, &t) {
				return err
			}
			if p := positionOf(s); !p.IsZero() {
				return errors.Tag(err, p.String())
			}
			return err
		}
	}
	return nil
}

func positionOf(s ast.Statement) ast.Position {
	switch s := s.(type) {
	case *ast.Ruleset:
		return s.Pos
	case *ast.MixinDefinition:
		return s.Pos
	case *ast.MixinCall:
		return s.Pos
	case *ast.Declaration:
		return s.Pos
	case *ast.VariableDeclaration:
		return s.Pos
	case *ast.VariableCall:
		return s.Pos
	case *ast.Media:
		return s.Pos
	case *ast.AtRule:
		return s.Pos
	case *ast.Import:
		return s.Pos
	case *ast.Extend:
		return s.Pos
	case *ast.CallStatement:
		return s.Call.Pos
	default:
		return ast.Position{}
	}
}

func (c *Context) evalStatement(s ast.Statement, out *output) error {
	switch s := s.(type) {
	case *ast.VariableDeclaration, *ast.MixinDefinition:
		return nil
	case *ast.Ruleset:
		return c.evalRuleset(s, out)
	case *ast.Declaration:
		return c.evalDeclaration(s, out)
	case *ast.Comment:
		out.self = append(out.self, &ast.Comment{
			Value:       s.Value,
			IsReference: s.IsReference || c.isReference(),
		})
		return nil
	case *ast.MixinCall:
		return c.evalMixinCall(s, out)
	case *ast.VariableCall:
		return c.evalVariableCall(s, out)
	case *ast.Media:
		return c.evalMedia(s, out)
	case *ast.AtRule:
		return c.evalAtRule(s, out)
	case *ast.Import:
		return c.evalImport(s, out)
	case *ast.Extend:
		c.registerExtend(s)
		return nil
	case *ast.CallStatement:
		return c.evalCallStatement(s, out)
	case *ast.Anonymous:
		out.addMedia(s)
		return nil
	case *ast.Stylesheet:
		return c.evalBlock(s.Rules, out)
	default:
		panic(fmt.Sprintf("unexpected statement %T", s))
	}
}

func (c *Context) evalRuleset(r *ast.Ruleset, out *output) error {
	if r.Guard != nil {
		ok, err := c.evalGuard(r.Guard)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
	selectors, err := c.evalSelectors(r.Selectors, r.Pos)
	if err != nil {
		return err
	}
	full := selectors.Inherit(c.currentSelectors())
	if len(full.Selectors) == 0 {
		return nil
	}

	c.evaluatingRulesets[r]++
	defer func() {
		c.evaluatingRulesets[r]--
	}()
	defer c.EnterScope(full)()

	inner := &output{}
	if err = c.evalBlock(r.Rules, inner); err != nil {
		return err
	}
	if len(inner.self) > 0 {
		out.addRule(c.newRuleset(full, inner.self, r.Pos))
	}
	for _, s := range inner.rules {
		out.addRule(s)
	}
	for _, s := range inner.media {
		out.addMedia(s)
	}
	return nil
}

// newRuleset creates a result ruleset and ties it to the current extend
// registry.
func (c *Context) newRuleset(selectors *ast.SelectorList, rules []ast.Statement, pos ast.Position) *ast.Ruleset {
	r := &ast.Ruleset{
		Selectors:   selectors,
		Rules:       rules,
		IsReference: c.isReference(),
		Pos:         pos,
	}
	c.rulesetExtends[r] = c.extends
	return r
}

// evalSelectors substitutes @{name} parts and parses the result again.
func (c *Context) evalSelectors(l *ast.SelectorList, pos ast.Position) (*ast.SelectorList, error) {
	interpolated := false
	for _, s := range l.Selectors {
		if s.HasInterpolation() {
			interpolated = true
			break
		}
	}
	if !interpolated {
		return l, nil
	}
	s, err := c.interpolate(ast.SplitInterpolation(l.String()))
	if err != nil {
		return nil, err
	}
	return parser.ParseSelectorList(s, pos.File)
}

// interpolate joins parts, replacing variables with their unquoted text.
func (c *Context) interpolate(parts []ast.StringPart) (string, error) {
	if len(parts) == 1 && parts[0].Variable == "" {
		return parts[0].Literal, nil
	}
	b := strings.Builder{}
	for _, p := range parts {
		if p.Variable == "" {
			b.WriteString(p.Literal)
			continue
		}
		v, err := c.ResolveVariable(p.Variable)
		if err != nil {
			return "", err
		}
		b.WriteString(textOf(v))
	}
	return b.String(), nil
}

// textOf is the string form used by interpolation and string functions.
func textOf(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.Quoted:
		return e.Text()
	case *ast.Identifier:
		return e.Text()
	case *ast.Anonymous:
		return e.Value
	default:
		return ast.InlineCSS(e)
	}
}

func (c *Context) evalDeclaration(d *ast.Declaration, out *output) error {
	name, err := c.interpolate(d.Name.Parts)
	if err != nil {
		return err
	}
	if strings.EqualFold(name, "font") {
		c.noMath++
		defer func() {
			c.noMath--
		}()
	}
	v, err := c.evalExpr(d.Value)
	if err != nil {
		return err
	}
	important := d.Important
	if ref, ok := d.Value.(*ast.Variable); ok && !ref.Indirect {
		if vv, found := c.scope.lookupVariable(ref.Name); found && vv.important {
			important = true
		}
	}
	out.self = append(out.self, &ast.Declaration{
		Name:      ast.NewIdentifier(name),
		Value:     v,
		Important: important,
		Pos:       d.Pos,
	})
	return nil
}

// markImportant flags every declaration produced by a call as
// !important, recursively.
func (c *Context) markImportant(rules []ast.Statement) []ast.Statement {
	out := make([]ast.Statement, len(rules))
	for i, s := range rules {
		switch s := s.(type) {
		case *ast.Declaration:
			d := *s
			d.Important = true
			out[i] = &d
		case *ast.Ruleset:
			r := *s
			r.Rules = c.markImportant(s.Rules)
			c.rulesetExtends[&r] = c.rulesetExtends[s]
			out[i] = &r
		case *ast.Media:
			m := *s
			m.Rules = c.markImportant(s.Rules)
			out[i] = &m
		case *ast.AtRule:
			a := *s
			a.Rules = c.markImportant(s.Rules)
			out[i] = &a
		default:
			out[i] = s
		}
	}
	return out
}
