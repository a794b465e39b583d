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
	"strconv"

	"github.com/das7pad/lessc/pkg/errors"
)

type Stylesheet struct {
	File  string
	Rules []Statement
}

func (s *Stylesheet) String() string {
	return "Stylesheet(" + s.File + ", " + strconv.Itoa(len(s.Rules)) + " rules)"
}

func (s *Stylesheet) WriteCSS(w *Writer) {
	for _, r := range s.Rules {
		r.WriteCSS(w)
	}
}

func (s *Stylesheet) node() {}
func (s *Stylesheet) statement() {}

type Ruleset struct {
	Selectors   *SelectorList
	Rules       []Statement
	Guard       Expr
	IsReference bool
	Pos         Position
}

func (r *Ruleset) String() string { return "Ruleset(" + r.Selectors.String() + ")" }

func (r *Ruleset) WriteCSS(w *Writer) {
	if !Visible(r) {
		return
	}
	for i, s := range r.Selectors.Selectors {
		if i > 0 {
			w.WriteByte(',')
			w.Newline()
		}
		w.Indent()
		s.WriteCSS(w)
	}
	w.OpenBlock()
	for _, s := range r.Rules {
		s.WriteCSS(w)
	}
	w.CloseBlock()
}

func (r *Ruleset) node() {}
func (r *Ruleset) statement() {}

type ParamKind uint8

const (
	ParamNamed ParamKind = iota
	ParamPattern
	ParamVariadic
)

// Param is a mixin parameter. Value is the default of a named parameter
// or the literal of a pattern parameter. A variadic parameter without a
// name is the anonymous "...".
type Param struct {
	Kind  ParamKind
	Name  string
	Value Expr
}

type MixinDefinition struct {
	Name   *Selector
	Params []Param
	Guard  Expr
	Rules  []Statement
	Pos    Position
}

func (m *MixinDefinition) String() string {
	return "MixinDefinition(" + m.Name.String() + ", " +
		strconv.Itoa(len(m.Params)) + " params)"
}

func (m *MixinDefinition) WriteCSS(*Writer) {}
func (m *MixinDefinition) node() {}
func (m *MixinDefinition) statement() {}

func (m *MixinDefinition) IsVariadic() bool {
	n := len(m.Params)
	return n > 0 && m.Params[n-1].Kind == ParamVariadic
}

// Arg is a mixin call argument, named when Name is set.
type Arg struct {
	Name  string
	Value Expr
}

type MixinCall struct {
	Selector  *Selector
	Args      []Arg
	Important bool
	Pos       Position
}

func NewMixinCall(s *Selector, args []Arg, important bool, pos Position) (*MixinCall, error) {
	named := false
	for _, a := range args {
		if a.Name != "" {
			named = true
		} else if named {
			return nil, &errors.InvalidMixinCallError{
				Msg: "named arguments must follow positional arguments",
			}
		}
	}
	return &MixinCall{
		Selector:  s,
		Args:      args,
		Important: important,
		Pos:       pos,
	}, nil
}

func (m *MixinCall) String() string { return "MixinCall(" + m.Selector.String() + ")" }

func (m *MixinCall) WriteCSS(*Writer) {}
func (m *MixinCall) node() {}
func (m *MixinCall) statement() {}

type Declaration struct {
	Name      *Identifier
	Value     Expr
	Important bool
	Pos       Position
}

func (d *Declaration) String() string { return "Declaration(" + d.Name.Text() + ")" }

func (d *Declaration) WriteCSS(w *Writer) {
	w.Indent()
	w.WriteString(d.Name.Text())
	w.WriteByte(':')
	if !w.Compress() {
		w.WriteByte(' ')
	}
	d.Value.WriteCSS(w)
	if d.Important {
		if !w.Compress() {
			w.WriteByte(' ')
		}
		w.WriteString("!important")
	}
	w.WriteByte(';')
	w.Newline()
}

func (d *Declaration) node() {}
func (d *Declaration) statement() {}

type VariableDeclaration struct {
	Name      string
	Value     Expr
	Important bool
	Pos       Position
}

func (v *VariableDeclaration) String() string { return "VariableDeclaration(@" + v.Name + ")" }

func (v *VariableDeclaration) WriteCSS(*Writer) {}
func (v *VariableDeclaration) node() {}
func (v *VariableDeclaration) statement() {}

// VariableCall invokes a detached ruleset: @name();
type VariableCall struct {
	Name string
	Pos  Position
}

func (v *VariableCall) String() string { return "VariableCall(@" + v.Name + ")" }

func (v *VariableCall) WriteCSS(*Writer) {}
func (v *VariableCall) node() {}
func (v *VariableCall) statement() {}

// Media covers the conditional group rules that bubble out of rulesets:
// @media, @supports, @document and @container.
type Media struct {
	Name        string
	Features    Expr
	Rules       []Statement
	IsReference bool
	Pos         Position
}

func (m *Media) String() string { return "Media(@" + m.Name + " " + InlineCSS(m.Features) + ")" }

func (m *Media) WriteCSS(w *Writer) {
	if !Visible(m) {
		return
	}
	w.Indent()
	w.WriteByte('@')
	w.WriteString(m.Name)
	w.WriteByte(' ')
	m.Features.WriteCSS(w)
	w.OpenBlock()
	for _, s := range m.Rules {
		s.WriteCSS(w)
	}
	w.CloseBlock()
}

func (m *Media) node() {}
func (m *Media) statement() {}

type AtRule struct {
	Name        string
	Prelude     Expr
	Rules       []Statement
	HasBlock    bool
	IsReference bool
	Pos         Position
}

func (a *AtRule) String() string { return "AtRule(@" + a.Name + ")" }

func (a *AtRule) WriteCSS(w *Writer) {
	if a.IsReference {
		return
	}
	w.Indent()
	w.WriteByte('@')
	w.WriteString(a.Name)
	if a.Prelude != nil {
		w.WriteByte(' ')
		a.Prelude.WriteCSS(w)
	}
	if !a.HasBlock {
		w.WriteByte(';')
		w.Newline()
		return
	}
	w.OpenBlock()
	for _, s := range a.Rules {
		s.WriteCSS(w)
	}
	w.CloseBlock()
}

func (a *AtRule) node() {}
func (a *AtRule) statement() {}

type ImportOptions struct {
	Less      bool
	CSS       bool
	Inline    bool
	Reference bool
	Optional  bool
	Once      bool
	Multiple  bool
}

type Import struct {
	Path        Expr
	Features    Expr
	Options     ImportOptions
	IsReference bool
	Pos         Position
}

func (i *Import) String() string { return "Import(" + InlineCSS(i.Path) + ")" }

func (i *Import) WriteCSS(w *Writer) {
	if i.IsReference {
		return
	}
	w.Indent()
	w.WriteString("@import ")
	i.Path.WriteCSS(w)
	if i.Features != nil {
		w.WriteByte(' ')
		i.Features.WriteCSS(w)
	}
	w.WriteByte(';')
	w.Newline()
}

func (i *Import) node() {}
func (i *Import) statement() {}

type ExtendTarget struct {
	Selector *Selector
	All      bool
}

type Extend struct {
	Targets []ExtendTarget
	Pos     Position
}

func (e *Extend) String() string {
	s := "Extend("
	for i, t := range e.Targets {
		if i > 0 {
			s += ", "
		}
		s += t.Selector.String()
		if t.All {
			s += " all"
		}
	}
	return s + ")"
}

func (e *Extend) WriteCSS(*Writer) {}
func (e *Extend) node() {}
func (e *Extend) statement() {}

type Comment struct {
	Value       string
	IsReference bool
}

func (c *Comment) String() string { return "Comment(" + c.Value + ")" }

func (c *Comment) WriteCSS(w *Writer) {
	if c.IsReference {
		return
	}
	if w.Compress() && !(len(c.Value) > 2 && c.Value[2] == '!') {
		return
	}
	w.Indent()
	w.WriteString(c.Value)
	w.Newline()
}

func (c *Comment) node() {}
func (c *Comment) statement() {}

// CallStatement is a function invoked at statement level, e.g. each().
type CallStatement struct {
	Call *Call
}

func (c *CallStatement) String() string { return "CallStatement(" + c.Call.Name + ")" }

func (c *CallStatement) WriteCSS(*Writer) {}
func (c *CallStatement) node() {}
func (c *CallStatement) statement() {}

// Visible reports whether a result statement produces any output.
func Visible(s Statement) bool {
	switch s := s.(type) {
	case *Ruleset:
		if s.IsReference {
			return false
		}
		for _, r := range s.Rules {
			if Visible(r) {
				return true
			}
		}
		return false
	case *Media:
		for _, r := range s.Rules {
			if Visible(r) {
				return true
			}
		}
		return false
	case *AtRule:
		return !s.IsReference
	case *Import:
		return !s.IsReference
	case *Comment:
		return !s.IsReference
	case *Declaration:
		return true
	case *Anonymous:
		return s.Value != ""
	default:
		return false
	}
}
