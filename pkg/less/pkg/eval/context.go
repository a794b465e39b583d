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

// Package eval turns a parsed stylesheet into the CSS result tree:
// scopes and closures, mixin resolution, math, built-in functions,
// imports and extend.
package eval

import (
	"github.com/das7pad/lessc/pkg/less/pkg/ast"
	"github.com/das7pad/lessc/pkg/less/pkg/parser"
	"github.com/das7pad/lessc/pkg/less/pkg/resolver"
)

type ParseFunc func(s, f string) (*ast.Stylesheet, error)

type Options struct {
	// StrictMath only reduces math inside parentheses.
	StrictMath bool
	// RelativeURLs rewrites url() values of imported files relative to
	// the entry file.
	RelativeURLs bool
	// Parse reads imported files. It defaults to parser.Parse.
	Parse ParseFunc
}

// Context holds the state of one evaluation. It is not safe for
// concurrent use; every compilation gets its own.
type Context struct {
	o         Options
	scope     *Scope
	resolvers []resolver.FileResolver
	entryBase string

	extends        *ExtendRegistry
	rulesetExtends map[*ast.Ruleset]*ExtendRegistry

	guard              *GuardScope
	evaluatingVars     map[*variable]bool
	evaluatingRulesets map[*ast.Ruleset]int
	namespaces         map[*definition]*Scope

	imports    map[*ast.Import]*importResult
	parsed     map[string]*ast.Stylesheet
	hoisting   map[string]bool
	seen       map[string]bool
	cssImports []ast.Statement
	files      []string

	media []mediaFrame

	reference   int
	inParens    int
	inCalc      int
	noMath      int
	strictMedia int
	noRewrite   int
}

type mediaFrame struct {
	name     string
	features ast.Expr
}

func newContext(r resolver.FileResolver, o Options) *Context {
	if o.Parse == nil {
		o.Parse = parser.Parse
	}
	c := &Context{
		o:                  o,
		scope:              newScope(nil, nil),
		resolvers:          []resolver.FileResolver{r},
		entryBase:          r.BasePath(),
		extends:            &ExtendRegistry{},
		rulesetExtends:     make(map[*ast.Ruleset]*ExtendRegistry),
		evaluatingVars:     make(map[*variable]bool),
		evaluatingRulesets: make(map[*ast.Ruleset]int),
		namespaces:         make(map[*definition]*Scope),
		imports:            make(map[*ast.Import]*importResult),
		parsed:             make(map[string]*ast.Stylesheet),
		hoisting:           make(map[string]bool),
		seen:               make(map[string]bool),
	}
	c.seen[r.CurrentFile()] = true
	return c
}

// Evaluate produces the result tree for root and lists the files read
// while doing so. r resolves imports relative to the entry file.
func Evaluate(root *ast.Stylesheet, r resolver.FileResolver, o Options) (*ast.Stylesheet, []string, error) {
	c := newContext(r, o)
	out := &output{root: true}
	c.hoisting[r.CurrentFile()] = true
	if err := c.evalBlock(root.Rules, out); err != nil {
		return nil, c.files, err
	}
	rules := c.applyExtends(out.self)
	rules = c.placeCSSImports(rules)
	return &ast.Stylesheet{File: root.File, Rules: rules}, c.files, nil
}

func (c *Context) resolver() resolver.FileResolver {
	return c.resolvers[len(c.resolvers)-1]
}

func (c *Context) pushResolver(r resolver.FileResolver) func() {
	c.resolvers = append(c.resolvers, r)
	return func() {
		c.resolvers = c.resolvers[:len(c.resolvers)-1]
	}
}

// EnterScope pushes a child scope for a block with the given selectors,
// nil for blocks that keep the enclosing selectors.
func (c *Context) EnterScope(selectors *ast.SelectorList) func() {
	prev := c.scope
	c.scope = newScope(prev, selectors)
	return func() {
		c.scope = prev
	}
}

// EnterClosureScope pushes an overlay holding bindings whose variable
// lookups continue in captured before the dynamic parent chain.
func (c *Context) EnterClosureScope(captured *Scope, bindings []binding, r resolver.FileResolver) func() {
	prev := c.scope
	s := newScope(prev, nil)
	s.captured = captured
	for _, b := range bindings {
		s.variables[b.name] = &variable{
			name:      b.name,
			value:     b.value,
			scope:     s,
			evaluated: true,
		}
	}
	c.scope = s
	popResolver := func() {}
	if r != nil {
		popResolver = c.pushResolver(r)
	}
	return func() {
		popResolver()
		c.scope = prev
	}
}

// enterExtendRegistry scopes extends to the current block.
func (c *Context) enterExtendRegistry() func() {
	prev := c.extends
	c.extends = &ExtendRegistry{parent: prev}
	return func() {
		c.extends = prev
	}
}

// currentSelectors returns the selectors of the innermost ruleset, or
// nil at the root.
func (c *Context) currentSelectors() *ast.SelectorList {
	for s := c.scope; s != nil; s = s.parent {
		if s.selectors != nil {
			if len(s.selectors.Selectors) == 0 {
				return nil
			}
			return s.selectors
		}
	}
	return nil
}

func (c *Context) isReference() bool {
	return c.reference > 0
}

func (c *Context) addFile(name string) {
	for _, f := range c.files {
		if f == name {
			return
		}
	}
	c.files = append(c.files, name)
}
