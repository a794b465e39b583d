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
	"github.com/das7pad/lessc/pkg/less/pkg/ast"
)

// maxExtendedSelectors bounds self-referencing "all" extends.
const maxExtendedSelectors = 1024

type extendEntry struct {
	target      *ast.Selector
	partial     bool
	replacement *ast.Selector
	isReference bool
}

// ExtendRegistry holds the extends of one block. Lookups continue in the
// parent registry, so extends declared outside a media block apply
// inside it but not the other way round.
type ExtendRegistry struct {
	parent  *ExtendRegistry
	entries []extendEntry
}

func (r *ExtendRegistry) Add(target *ast.Selector, partial bool, replacement *ast.Selector, isReference bool) {
	r.entries = append(r.entries, extendEntry{
		target:      target,
		partial:     partial,
		replacement: replacement,
		isReference: isReference,
	})
}

// GetExtensions returns the selectors that extend candidate. Exact
// entries match the whole selector, partial ones replace the target
// anywhere inside it.
func (r *ExtendRegistry) GetExtensions(candidate *ast.Selector, includeReferences bool) []*ast.Selector {
	var out []*ast.Selector
	for reg := r; reg != nil; reg = reg.parent {
		for _, e := range reg.entries {
			if e.isReference && !includeReferences {
				continue
			}
			if e.partial {
				if s, ok := candidate.Replace(e.target, e.replacement); ok {
					out = append(out, s)
				}
			} else if candidate.Matches(e.target) {
				out = append(out, e.replacement)
			}
		}
	}
	return out
}

func (c *Context) registerExtend(e *ast.Extend) {
	selectors := c.currentSelectors()
	if selectors == nil {
		return
	}
	for _, t := range e.Targets {
		for _, s := range selectors.Selectors {
			c.extends.Add(t.Selector, t.All, s, c.isReference())
		}
	}
}

// applyExtends is the final pass over the result tree.
func (c *Context) applyExtends(rules []ast.Statement) []ast.Statement {
	out := make([]ast.Statement, 0, len(rules))
	for _, s := range rules {
		switch s := s.(type) {
		case *ast.Ruleset:
			out = append(out, c.extendRuleset(s))
		case *ast.Media:
			m := *s
			m.Rules = c.applyExtends(s.Rules)
			out = append(out, &m)
		case *ast.AtRule:
			a := *s
			a.Rules = c.applyExtends(s.Rules)
			out = append(out, &a)
		default:
			out = append(out, s)
		}
	}
	return out
}

// extendRuleset adds the extending selectors until no new ones appear.
// A reference ruleset only keeps the selectors added by extends.
func (c *Context) extendRuleset(r *ast.Ruleset) *ast.Ruleset {
	reg := c.rulesetExtends[r]
	if reg == nil {
		return r
	}
	seen := make(map[string]bool, len(r.Selectors.Selectors))
	queue := make([]*ast.Selector, 0, len(r.Selectors.Selectors))
	for _, s := range r.Selectors.Selectors {
		seen[s.String()] = true
		queue = append(queue, s)
	}
	var added []*ast.Selector
	for i := 0; i < len(queue) && len(queue) < maxExtendedSelectors; i++ {
		for _, s := range reg.GetExtensions(queue[i], !r.IsReference) {
			k := s.String()
			if seen[k] {
				continue
			}
			seen[k] = true
			added = append(added, s)
			queue = append(queue, s)
		}
	}
	if len(added) == 0 {
		return r
	}
	extended := *r
	if r.IsReference {
		extended.Selectors = &ast.SelectorList{Selectors: added}
		extended.IsReference = false
	} else {
		all := make([]*ast.Selector, 0, len(r.Selectors.Selectors)+len(added))
		all = append(all, r.Selectors.Selectors...)
		all = append(all, added...)
		extended.Selectors = &ast.SelectorList{Selectors: all}
	}
	return &extended
}
