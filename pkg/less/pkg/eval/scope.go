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
	"github.com/das7pad/lessc/pkg/less/pkg/resolver"
)

// Scope is one level of lexical state. A closure overlay has captured
// set: its variable lookups consult the captured chain before walking
// the dynamic parent chain.
type Scope struct {
	parent    *Scope
	captured  *Scope
	selectors *ast.SelectorList
	variables map[string]*variable
	mixins    []*definition
}

func newScope(parent *Scope, selectors *ast.SelectorList) *Scope {
	return &Scope{
		parent:    parent,
		selectors: selectors,
		variables: make(map[string]*variable),
	}
}

// variable values are unevaluated until they are read, unless they are
// mixin bindings.
type variable struct {
	name      string
	value     ast.Expr
	important bool
	scope     *Scope
	resolver  resolver.FileResolver
	evaluated bool
	// err is raised on lookup, for a mixin body variable that failed to
	// evaluate.
	err error
}

type binding struct {
	name  string
	value ast.Expr
}

// definition is something callable by a mixin call: a mixin definition
// or a ruleset with a plain class or id selector.
type definition struct {
	name     *ast.Selector
	mixin    *ast.MixinDefinition
	ruleset  *ast.Ruleset
	scope    *Scope
	resolver resolver.FileResolver
}

func (d *definition) guard() ast.Expr {
	if d.mixin != nil {
		return d.mixin.Guard
	}
	return d.ruleset.Guard
}

func (d *definition) rules() []ast.Statement {
	if d.mixin != nil {
		return d.mixin.Rules
	}
	return d.ruleset.Rules
}

// isNamespace reports whether the body of d can be searched for nested
// definitions: rulesets and mixins without required parameters.
func (d *definition) isNamespace() bool {
	if d.mixin == nil {
		return true
	}
	for _, p := range d.mixin.Params {
		if p.Kind == ast.ParamPattern ||
			(p.Kind == ast.ParamNamed && p.Value == nil) {
			return false
		}
	}
	return true
}

// declareVariable overwrites earlier declarations: last write wins.
func (s *Scope) declareVariable(v *ast.VariableDeclaration, r resolver.FileResolver) {
	s.variables[v.Name] = &variable{
		name:      v.Name,
		value:     v.Value,
		important: v.Important,
		scope:     s,
		resolver:  r,
	}
}

func (s *Scope) setVariable(name string, value ast.Expr) {
	s.variables[name] = &variable{
		name:      name,
		value:     value,
		scope:     s,
		evaluated: true,
	}
}

// declareMixin is a no-op when the same node is already declared here,
// e.g. for a file that is imported twice.
func (s *Scope) declareMixin(d *definition) {
	for _, o := range s.mixins {
		if o.mixin == d.mixin && o.ruleset == d.ruleset &&
			o.name.Matches(d.name) {
			return
		}
	}
	s.mixins = append(s.mixins, d)
}

func (s *Scope) lookupVariable(name string) (*variable, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if v, ok := sc.variables[name]; ok {
			return v, true
		}
		if sc.captured != nil {
			if v, ok := sc.captured.lookupVariable(name); ok {
				return v, true
			}
		}
	}
	return nil, false
}

// collect appends the definitions named sel. With chain set, ancestors
// are searched first and closure overlays add their captured chain.
func (s *Scope) collect(sel *ast.Selector, chain bool, out *[]*definition, seen map[*definition]bool) {
	if chain && s.parent != nil {
		s.parent.collect(sel, true, out, seen)
	}
	for _, d := range s.mixins {
		if !seen[d] && d.name.Matches(sel) {
			seen[d] = true
			*out = append(*out, d)
		}
	}
	if chain && s.captured != nil {
		s.captured.collect(sel, true, out, seen)
	}
}

// ResolveVariable evaluates the variable name as seen from the current
// scope.
func (c *Context) ResolveVariable(name string) (ast.Expr, error) {
	v, ok := c.scope.lookupVariable(name)
	if !ok {
		return nil, &errors.UndefinedVariableError{Name: name}
	}
	return c.evalVariable(v)
}

func (c *Context) evalVariable(v *variable) (ast.Expr, error) {
	if v.err != nil {
		return nil, v.err
	}
	if v.evaluated {
		return v.value, nil
	}
	if d, ok := v.value.(*ast.DetachedRuleset); ok {
		return &ast.DetachedRuleset{Rules: d.Rules, Closure: v.scope}, nil
	}
	if c.evaluatingVars[v] {
		return nil, &errors.RecursiveVariableError{Name: v.name}
	}
	c.evaluatingVars[v] = true
	defer delete(c.evaluatingVars, v)
	if v.resolver != nil && v.resolver != c.resolver() {
		defer c.pushResolver(v.resolver)()
	}
	return c.evalExpr(v.value)
}

// hoist declares the variables, mixins and callable rulesets of a block
// and pulls in the definitions of its imports, in document order.
func (c *Context) hoist(rules []ast.Statement) error {
	s := c.scope
	r := c.resolver()
	// Import paths may use variables declared further down.
	for _, st := range rules {
		if v, ok := st.(*ast.VariableDeclaration); ok {
			s.declareVariable(v, r)
		}
	}
	for _, st := range rules {
		switch st := st.(type) {
		case *ast.VariableDeclaration:
			// Overrides variables of imports above it.
			s.declareVariable(st, r)
		case *ast.MixinDefinition:
			s.declareMixin(&definition{
				name:     st.Name.DropCombinators(),
				mixin:    st,
				scope:    s,
				resolver: r,
			})
		case *ast.Ruleset:
			for _, sel := range st.Selectors.Selectors {
				if !sel.IsCallable() {
					continue
				}
				s.declareMixin(&definition{
					name:     sel.DropCombinators(),
					ruleset:  st,
					scope:    s,
					resolver: r,
				})
			}
		case *ast.Import:
			if err := c.hoistImport(st); err != nil {
				return err
			}
		}
	}
	return nil
}

// namespaceScope returns the hoisted body of a namespace definition.
func (c *Context) namespaceScope(d *definition) (*Scope, error) {
	if s, ok := c.namespaces[d]; ok {
		return s, nil
	}
	s := newScope(d.scope, nil)
	c.namespaces[d] = s
	prev := c.scope
	c.scope = s
	defer func() {
		c.scope = prev
	}()
	if d.resolver != nil {
		defer c.pushResolver(d.resolver)()
	}
	if err := c.hoist(d.rules()); err != nil {
		return nil, err
	}
	return s, nil
}
