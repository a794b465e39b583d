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
)

type match struct {
	def      *definition
	bindings []binding
}

func (c *Context) evalMixinCall(call *ast.MixinCall, out *output) error {
	args := make([]ast.Arg, len(call.Args))
	for i, a := range call.Args {
		v, err := c.evalExpr(a.Value)
		if err != nil {
			return err
		}
		args[i] = ast.Arg{Name: a.Name, Value: v}
	}
	sel := call.Selector.DropCombinators()
	candidates, err := c.findMixins(sel)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return &errors.NoMixinFoundError{
			Selector: sel.String(),
			Detail:   "undefined",
		}
	}
	matched, err := c.matchMixins(sel, candidates, args)
	if err != nil {
		return err
	}
	if len(matched) == 0 {
		return &errors.NoMixinFoundError{
			Selector: sel.String() + argsString(args),
			Detail:   "no matching definition",
		}
	}

	tmp := out.child()
	for _, m := range matched {
		if err = c.invoke(m, tmp); err != nil {
			return err
		}
	}
	if call.Important {
		tmp.self = c.markImportant(tmp.self)
		tmp.rules = c.markImportant(tmp.rules)
		tmp.media = c.markImportant(tmp.media)
	}
	out.merge(tmp)
	return nil
}

func argsString(args []ast.Arg) string {
	s := "("
	for i, a := range args {
		if i > 0 {
			s += ", "
		}
		if a.Name != "" {
			s += "@" + a.Name + ": "
		}
		s += ast.InlineCSS(a.Value)
	}
	return s + ")"
}

// findMixins lists the definitions named sel, ancestors first, followed
// by definitions found through namespaces.
func (c *Context) findMixins(sel *ast.Selector) ([]*definition, error) {
	var out []*definition
	seen := make(map[*definition]bool)
	c.scope.collect(sel, true, &out, seen)
	if len(sel.Elements) > 1 {
		if err := c.collectNamespaced(c.scope, sel, true, &out, seen); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c *Context) collectNamespaced(s *Scope, sel *ast.Selector, chain bool, out *[]*definition, seen map[*definition]bool) error {
	for k := 1; k < len(sel.Elements); k++ {
		prefix := &ast.Selector{Elements: sel.Elements[:k]}
		rest := &ast.Selector{Elements: sel.Elements[k:]}
		var namespaces []*definition
		s.collect(prefix, chain, &namespaces, make(map[*definition]bool))
		for _, ns := range namespaces {
			if !ns.isNamespace() {
				continue
			}
			if g := ns.guard(); g != nil {
				ok, err := c.evalNamespaceGuard(ns, g)
				if err != nil {
					return err
				}
				if !ok {
					continue
				}
			}
			inner, err := c.namespaceScope(ns)
			if err != nil {
				return err
			}
			inner.collect(rest, false, out, seen)
			if len(rest.Elements) > 1 {
				err = c.collectNamespaced(inner, rest, false, out, seen)
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (c *Context) evalNamespaceGuard(d *definition, guard ast.Expr) (bool, error) {
	defer c.EnterClosureScope(d.scope, nil, d.resolver)()
	return c.evalGuard(guard)
}

// matchMixins filters candidates by arity, patterns, named arguments and
// guards. Guards using default() are evaluated after all others.
func (c *Context) matchMixins(sel *ast.Selector, candidates []*definition, args []ast.Arg) ([]*match, error) {
	g := &GuardScope{selector: sel.String()}
	results := make([]*match, len(candidates))
	type pending struct {
		i int
		m *match
	}
	var defaults []pending
	for i, d := range candidates {
		m := &match{def: d}
		if d.ruleset != nil {
			if c.evaluatingRulesets[d.ruleset] > 0 || len(args) > 0 {
				continue
			}
		} else {
			bindings, ok, err := c.bindArgs(d, args)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			m.bindings = bindings
		}
		guard := d.guard()
		if guard == nil {
			results[i] = m
			g.SetConditionGuard()
			continue
		}
		if usesDefault(guard) {
			defaults = append(defaults, pending{i: i, m: m})
			continue
		}
		ok, err := c.evalMatchGuard(m, g)
		if err != nil {
			return nil, err
		}
		if ok {
			results[i] = m
			g.SetConditionGuard()
		}
	}
	for _, p := range defaults {
		ok, err := c.evalMatchGuard(p.m, g)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if err = g.SetDefaultGuard(); err != nil {
			return nil, err
		}
		results[p.i] = p.m
	}
	matched := results[:0]
	for _, m := range results {
		if m != nil {
			matched = append(matched, m)
		}
	}
	return matched, nil
}

func (c *Context) evalMatchGuard(m *match, g *GuardScope) (bool, error) {
	defer c.EnterClosureScope(m.def.scope, m.bindings, m.def.resolver)()
	return c.evalGuardWith(m.def.guard(), g)
}

// bindArgs maps the call arguments onto the parameters of d. Defaults
// are evaluated in order, so they can refer to earlier parameters.
func (c *Context) bindArgs(d *definition, args []ast.Arg) ([]binding, bool, error) {
	params := d.mixin.Params
	var variadic *ast.Param
	if d.mixin.IsVariadic() {
		variadic = &params[len(params)-1]
		params = params[:len(params)-1]
	}
	var positional []ast.Expr
	var named []ast.Arg
	for _, a := range args {
		if a.Name == "" {
			positional = append(positional, a.Value)
		} else {
			named = append(named, a)
		}
	}
	if variadic == nil && len(positional) > len(params) {
		return nil, false, nil
	}

	values := make([]ast.Expr, len(params))
	for i, v := range positional {
		if i < len(params) {
			values[i] = v
		}
	}
	for i, p := range params {
		if p.Kind != ast.ParamPattern {
			continue
		}
		if i >= len(positional) {
			return nil, false, nil
		}
		pv, err := c.evalExpr(p.Value)
		if err != nil {
			return nil, false, err
		}
		if ast.InlineCSS(pv) != ast.InlineCSS(positional[i]) {
			return nil, false, nil
		}
	}
	for _, a := range named {
		idx := -1
		for i, p := range params {
			if p.Kind == ast.ParamNamed && p.Name == a.Name {
				idx = i
				break
			}
		}
		if idx == -1 || values[idx] != nil {
			return nil, false, nil
		}
		values[idx] = a.Value
	}
	for i, p := range params {
		if values[i] == nil && (p.Kind != ast.ParamNamed || p.Value == nil) {
			return nil, false, nil
		}
	}

	defer c.EnterClosureScope(d.scope, nil, d.resolver)()
	bindings := make([]binding, 0, len(params)+2)
	for i, p := range params {
		if p.Kind != ast.ParamNamed {
			continue
		}
		if values[i] == nil {
			v, err := c.evalExpr(p.Value)
			if err != nil {
				return nil, false, err
			}
			values[i] = v
		}
		c.scope.setVariable(p.Name, values[i])
		bindings = append(bindings, binding{name: p.Name, value: values[i]})
	}
	var rest []ast.Expr
	if len(positional) > len(params) {
		rest = positional[len(params):]
	}
	if variadic != nil && variadic.Name != "" {
		bindings = append(bindings, binding{
			name:  variadic.Name,
			value: listValue(rest),
		})
	}
	all := append(values, rest...)
	bindings = append(bindings, binding{
		name:  "arguments",
		value: listValue(all),
	})
	return bindings, true, nil
}

func listValue(values []ast.Expr) ast.Expr {
	if len(values) == 1 {
		return values[0]
	}
	return &ast.Expression{Values: values}
}

// invoke evaluates the body of a matched definition into out. Variables
// declared by the body become visible to the caller unless it declares
// them itself.
func (c *Context) invoke(m *match, out *output) error {
	d := m.def
	if d.ruleset != nil {
		c.evaluatingRulesets[d.ruleset]++
		defer func() {
			c.evaluatingRulesets[d.ruleset]--
		}()
	}
	defer c.EnterClosureScope(d.scope, m.bindings, d.resolver)()
	caller := c.scope.parent
	defer c.EnterScope(nil)()
	body := c.scope
	if err := c.evalBlock(d.rules(), out); err != nil {
		return err
	}
	for name, v := range body.variables {
		if _, ok := caller.variables[name]; ok {
			continue
		}
		value, err := c.evalVariable(v)
		if err != nil {
			caller.variables[name] = &variable{name: name, scope: caller, err: err}
			continue
		}
		caller.setVariable(name, value)
	}
	return nil
}

func (c *Context) evalVariableCall(call *ast.VariableCall, out *output) error {
	v, err := c.ResolveVariable(call.Name)
	if err != nil {
		return err
	}
	d, ok := v.(*ast.DetachedRuleset)
	if !ok {
		return &errors.InvalidMixinCallError{
			Msg: "@" + call.Name + " is not a detached ruleset",
		}
	}
	return c.callDetached(d, nil, out)
}

func (c *Context) callDetached(d *ast.DetachedRuleset, bindings []binding, out *output) error {
	captured, _ := d.Closure.(*Scope)
	defer c.EnterClosureScope(captured, bindings, nil)()
	defer c.EnterScope(nil)()
	return c.evalBlock(d.Rules, out)
}
