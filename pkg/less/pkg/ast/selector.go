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

package ast

import (
	"strings"
)

type ElementKind uint8

const (
	ElementSimple ElementKind = iota
	ElementParent
	ElementAttribute
	ElementCombinator
	ElementInterpolated
)

// Element is one part of a compound selector. Whitespace marks a
// descendant combinator after the element.
type Element struct {
	Kind       ElementKind
	Value      string
	Whitespace bool
}

type Selector struct {
	Elements []Element
}

// NewSelector normalizes whitespace flags: they are dropped next to
// explicit combinators and on the last element.
func NewSelector(elements []Element) *Selector {
	for i := range elements {
		if elements[i].Kind == ElementCombinator {
			elements[i].Whitespace = false
			if i > 0 {
				elements[i-1].Whitespace = false
			}
		}
	}
	if n := len(elements); n > 0 {
		elements[n-1].Whitespace = false
	}
	return &Selector{Elements: elements}
}

func (s *Selector) String() string { return InlineCSS(s) }

func (s *Selector) WriteCSS(w *Writer) {
	for i, e := range s.Elements {
		if e.Kind == ElementCombinator {
			if i > 0 && !w.Compress() {
				w.WriteByte(' ')
			}
			w.WriteString(e.Value)
			if i+1 < len(s.Elements) && !w.Compress() {
				w.WriteByte(' ')
			}
			continue
		}
		w.WriteString(e.Value)
		if e.Whitespace && i+1 < len(s.Elements) {
			w.WriteByte(' ')
		}
	}
}

func (s *Selector) node() {}

func (s *Selector) HasParentRef() bool {
	for _, e := range s.Elements {
		if e.Kind == ElementParent {
			return true
		}
	}
	return false
}

func (s *Selector) HasInterpolation() bool {
	for _, e := range s.Elements {
		if e.Kind == ElementInterpolated {
			return true
		}
	}
	return false
}

// IsCallable reports whether a ruleset with this selector can be invoked
// like a mixin: only class and id parts, optionally nested.
func (s *Selector) IsCallable() bool {
	if len(s.Elements) == 0 {
		return false
	}
	for _, e := range s.Elements {
		switch e.Kind {
		case ElementCombinator:
			if e.Value != ">" {
				return false
			}
		case ElementSimple:
			if len(e.Value) < 2 || (e.Value[0] != '.' && e.Value[0] != '#') {
				return false
			}
			if strings.ContainsAny(e.Value[1:], ".#:[(") {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// DropCombinators returns the selector reduced to its simple parts, the
// form used for mixin call matching.
func (s *Selector) DropCombinators() *Selector {
	out := make([]Element, 0, len(s.Elements))
	for _, e := range s.Elements {
		if e.Kind == ElementCombinator {
			continue
		}
		e.Whitespace = false
		out = append(out, e)
	}
	return &Selector{Elements: out}
}

// Matches is positional elementwise equality.
func (s *Selector) Matches(other *Selector) bool {
	if len(s.Elements) != len(other.Elements) {
		return false
	}
	for i, e := range s.Elements {
		if e != other.Elements[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether the first elements of s equal prefix.
// Whitespace is ignored, so it is meant for combinator-free selectors.
func (s *Selector) HasPrefix(prefix *Selector) bool {
	if len(prefix.Elements) > len(s.Elements) {
		return false
	}
	for i, e := range prefix.Elements {
		o := s.Elements[i]
		if e.Kind != o.Kind || e.Value != o.Value {
			return false
		}
	}
	return true
}

// Inherit nests s below parents. Each & is substituted by every parent
// selector in turn; without & the parents are prefixed as ancestors.
func (s *Selector) Inherit(parents *SelectorList) []*Selector {
	if parents == nil || len(parents.Selectors) == 0 {
		out := make([]Element, 0, len(s.Elements))
		for _, e := range s.Elements {
			if e.Kind != ElementParent {
				out = append(out, e)
			}
		}
		return []*Selector{NewSelector(out)}
	}
	if !s.HasParentRef() {
		out := make([]*Selector, 0, len(parents.Selectors))
		for _, p := range parents.Selectors {
			if len(p.Elements) == 0 {
				continue
			}
			elements := make([]Element, 0, len(p.Elements)+len(s.Elements))
			elements = append(elements, p.Elements...)
			elements[len(elements)-1].Whitespace = true
			elements = append(elements, s.Elements...)
			out = append(out, NewSelector(elements))
		}
		return out
	}
	results := [][]Element{nil}
	for _, e := range s.Elements {
		if e.Kind != ElementParent {
			for i := range results {
				results[i] = append(results[i], e)
			}
			continue
		}
		next := make([][]Element, 0, len(results)*len(parents.Selectors))
		for _, r := range results {
			for _, p := range parents.Selectors {
				elements := make([]Element, len(r), len(r)+len(p.Elements)+4)
				copy(elements, r)
				elements = append(elements, p.Elements...)
				if len(elements) > 0 {
					elements[len(elements)-1].Whitespace = e.Whitespace
				}
				next = append(next, elements)
			}
		}
		results = next
	}
	out := make([]*Selector, len(results))
	for i, elements := range results {
		out[i] = NewSelector(elements)
	}
	return out
}

func (s *Selector) indexOf(target *Selector, from int) int {
	n := len(target.Elements)
	last := n - 1
outer:
	for i := from; i+n <= len(s.Elements); i++ {
		for j, t := range target.Elements {
			e := s.Elements[i+j]
			if e.Kind != t.Kind || e.Value != t.Value {
				continue outer
			}
			if j != last && e.Whitespace != t.Whitespace {
				continue outer
			}
		}
		return i
	}
	return -1
}

// Replace substitutes every occurrence of target within s.
func (s *Selector) Replace(target, replacement *Selector) (*Selector, bool) {
	if len(target.Elements) == 0 {
		return s, false
	}
	var out []Element
	found := false
	i := 0
	for {
		j := s.indexOf(target, i)
		if j == -1 {
			break
		}
		found = true
		out = append(out, s.Elements[i:j]...)
		out = append(out, replacement.Elements...)
		ws := s.Elements[j+len(target.Elements)-1].Whitespace
		out[len(out)-1].Whitespace = ws
		i = j + len(target.Elements)
	}
	if !found {
		return s, false
	}
	out = append(out, s.Elements[i:]...)
	return NewSelector(out), true
}

type SelectorList struct {
	Selectors []*Selector
}

func (l *SelectorList) String() string { return InlineCSS(l) }

func (l *SelectorList) WriteCSS(w *Writer) {
	for i, s := range l.Selectors {
		if i > 0 {
			if w.Compress() {
				w.WriteByte(',')
			} else {
				w.WriteString(", ")
			}
		}
		s.WriteCSS(w)
	}
}

func (l *SelectorList) node() {}

func (l *SelectorList) Inherit(parents *SelectorList) *SelectorList {
	out := make([]*Selector, 0, len(l.Selectors))
	for _, s := range l.Selectors {
		out = append(out, s.Inherit(parents)...)
	}
	return &SelectorList{Selectors: out}
}
