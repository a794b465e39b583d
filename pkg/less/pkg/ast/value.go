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
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Number struct {
	Value float64
	Unit  string
}

func (n *Number) String() string { return "Number(" + InlineCSS(n) + ")" }

func (n *Number) WriteCSS(w *Writer) {
	w.WriteString(FormatNumber(n.Value, w.Compress()))
	w.WriteString(n.Unit)
}

func (n *Number) node() {}
func (n *Number) expr() {}

// FormatNumber prints at most 8 decimal places without trailing zeros.
func FormatNumber(v float64, compress bool) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	v = math.Round(v*1e8) / 1e8
	if v == 0 {
		v = 0
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if compress {
		if strings.HasPrefix(s, "0.") {
			s = s[1:]
		} else if strings.HasPrefix(s, "-0.") {
			s = "-" + s[2:]
		}
	}
	return s
}

// Color is an RGB color with alpha. Raw holds the literal spelling (a
// keyword or hex) and is dropped by every operation on the color.
type Color struct {
	R, G, B uint8
	Alpha   float64
	Raw     string
}

func NewColor(r, g, b uint8, alpha float64) *Color {
	return &Color{R: r, G: g, B: b, Alpha: clamp01(alpha)}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (c *Color) String() string { return "Color(" + InlineCSS(c) + ")" }

func (c *Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c *Color) WriteCSS(w *Writer) {
	if c.Raw != "" {
		if w.Compress() && strings.HasPrefix(c.Raw, "#") {
			w.WriteString(shortHex(strings.ToLower(c.Raw)))
		} else {
			w.WriteString(c.Raw)
		}
		return
	}
	if c.Alpha < 1 {
		sep := ", "
		if w.Compress() {
			sep = ","
		}
		w.WriteString("rgba(")
		w.WriteString(strconv.Itoa(int(c.R)))
		w.WriteString(sep)
		w.WriteString(strconv.Itoa(int(c.G)))
		w.WriteString(sep)
		w.WriteString(strconv.Itoa(int(c.B)))
		w.WriteString(sep)
		w.WriteString(FormatNumber(c.Alpha, w.Compress()))
		w.WriteString(")")
		return
	}
	if w.Compress() {
		w.WriteString(shortHex(c.Hex()))
	} else {
		w.WriteString(c.Hex())
	}
}

func shortHex(s string) string {
	if len(s) == 7 && s[1] == s[2] && s[3] == s[4] && s[5] == s[6] {
		return string([]byte{'#', s[1], s[3], s[5]})
	}
	return s
}

func (c *Color) node() {}
func (c *Color) expr() {}

// StringPart is either literal text or an @{name} interpolation.
type StringPart struct {
	Literal  string
	Variable string
}

// SplitInterpolation cuts s at every @{name} occurrence.
func SplitInterpolation(s string) []StringPart {
	var parts []StringPart
	for {
		i := strings.Index(s, "@{")
		if i == -1 {
			break
		}
		j := strings.IndexByte(s[i:], '}')
		if j == -1 {
			break
		}
		if i > 0 {
			parts = append(parts, StringPart{Literal: s[:i]})
		}
		parts = append(parts, StringPart{Variable: s[i+2 : i+j]})
		s = s[i+j+1:]
	}
	if len(s) > 0 || len(parts) == 0 {
		parts = append(parts, StringPart{Literal: s})
	}
	return parts
}

func joinParts(parts []StringPart) string {
	if len(parts) == 1 && parts[0].Variable == "" {
		return parts[0].Literal
	}
	b := strings.Builder{}
	for _, p := range parts {
		if p.Variable != "" {
			b.WriteString("@{")
			b.WriteString(p.Variable)
			b.WriteString("}")
		} else {
			b.WriteString(p.Literal)
		}
	}
	return b.String()
}

func isLiteral(parts []StringPart) bool {
	for _, p := range parts {
		if p.Variable != "" {
			return false
		}
	}
	return true
}

// Quoted is a string literal. Escaped strings (~"...") print without
// their quotes.
type Quoted struct {
	Quote   byte
	Parts   []StringPart
	Escaped bool
}

func NewQuoted(quote byte, s string, escaped bool) *Quoted {
	return &Quoted{Quote: quote, Parts: SplitInterpolation(s), Escaped: escaped}
}

func (q *Quoted) Text() string { return joinParts(q.Parts) }
func (q *Quoted) IsLiteral() bool { return isLiteral(q.Parts) }
func (q *Quoted) String() string { return "Quoted(" + InlineCSS(q) + ")" }
func (q *Quoted) node() {}
func (q *Quoted) expr() {}

func (q *Quoted) WriteCSS(w *Writer) {
	if q.Escaped || q.Quote == 0 {
		w.WriteString(q.Text())
		return
	}
	w.WriteByte(q.Quote)
	w.WriteString(q.Text())
	w.WriteByte(q.Quote)
}

type Identifier struct {
	Parts []StringPart
}

func NewIdentifier(s string) *Identifier {
	return &Identifier{Parts: []StringPart{{Literal: s}}}
}

func (i *Identifier) Text() string { return joinParts(i.Parts) }
func (i *Identifier) IsLiteral() bool { return isLiteral(i.Parts) }
func (i *Identifier) String() string { return "Identifier(" + i.Text() + ")" }
func (i *Identifier) WriteCSS(w *Writer) { w.WriteString(i.Text()) }
func (i *Identifier) node() {}
func (i *Identifier) expr() {}

type Variable struct {
	Name     string
	Indirect bool
	Pos      Position
}

func (v *Variable) String() string { return "Variable(" + InlineCSS(v) + ")" }

func (v *Variable) WriteCSS(w *Writer) {
	w.WriteString("@")
	if v.Indirect {
		w.WriteString("@")
	}
	w.WriteString(v.Name)
}

func (v *Variable) node() {}
func (v *Variable) expr() {}

// Expression is a space separated list of values.
type Expression struct {
	Values []Expr
}

func (e *Expression) String() string { return "Expression(" + InlineCSS(e) + ")" }

func (e *Expression) WriteCSS(w *Writer) {
	for i, v := range e.Values {
		if i > 0 {
			w.WriteByte(' ')
		}
		v.WriteCSS(w)
	}
}

func (e *Expression) node() {}
func (e *Expression) expr() {}

// ValueList is a comma separated list of values.
type ValueList struct {
	Items []Expr
}

func (l *ValueList) String() string { return "ValueList(" + InlineCSS(l) + ")" }

func (l *ValueList) WriteCSS(w *Writer) {
	for i, v := range l.Items {
		if i > 0 {
			if w.Compress() {
				w.WriteByte(',')
			} else {
				w.WriteString(", ")
			}
		}
		v.WriteCSS(w)
	}
}

func (l *ValueList) node() {}
func (l *ValueList) expr() {}

type Boolean struct {
	Value bool
}

func (b *Boolean) String() string { return "Boolean(" + InlineCSS(b) + ")" }

func (b *Boolean) WriteCSS(w *Writer) {
	w.WriteString(strconv.FormatBool(b.Value))
}

func (b *Boolean) node() {}
func (b *Boolean) expr() {}

// Operation is binary math. Spaced records whether the source had
// whitespace around the operator, which is kept when it is echoed.
type Operation struct {
	Op     byte
	LHS    Expr
	RHS    Expr
	Spaced bool
}

func (o *Operation) String() string { return "Operation(" + InlineCSS(o) + ")" }

func (o *Operation) WriteCSS(w *Writer) {
	o.LHS.WriteCSS(w)
	if !o.Spaced || (w.Compress() && (o.Op == '*' || o.Op == '/')) {
		w.WriteByte(o.Op)
	} else {
		w.WriteByte(' ')
		w.WriteByte(o.Op)
		w.WriteByte(' ')
	}
	o.RHS.WriteCSS(w)
}

func (o *Operation) node() {}
func (o *Operation) expr() {}

type Paren struct {
	Inner Expr
}

func (p *Paren) String() string { return "Paren(" + InlineCSS(p) + ")" }

func (p *Paren) WriteCSS(w *Writer) {
	w.WriteByte('(')
	p.Inner.WriteCSS(w)
	w.WriteByte(')')
}

func (p *Paren) node() {}
func (p *Paren) expr() {}

type Negative struct {
	Inner Expr
}

func (n *Negative) String() string { return "Negative(" + InlineCSS(n) + ")" }

func (n *Negative) WriteCSS(w *Writer) {
	w.WriteByte('-')
	n.Inner.WriteCSS(w)
}

func (n *Negative) node() {}
func (n *Negative) expr() {}

type Call struct {
	Name string
	Args []Expr
	Pos  Position
}

func (c *Call) String() string { return "Call(" + InlineCSS(c) + ")" }

func (c *Call) WriteCSS(w *Writer) {
	w.WriteString(c.Name)
	w.WriteByte('(')
	for i, a := range c.Args {
		if i > 0 {
			if w.Compress() {
				w.WriteByte(',')
			} else {
				w.WriteString(", ")
			}
		}
		a.WriteCSS(w)
	}
	w.WriteByte(')')
}

func (c *Call) node() {}
func (c *Call) expr() {}

type URL struct {
	Value Expr
}

func (u *URL) String() string { return "URL(" + InlineCSS(u) + ")" }

func (u *URL) WriteCSS(w *Writer) {
	w.WriteString("url(")
	u.Value.WriteCSS(w)
	w.WriteByte(')')
}

func (u *URL) node() {}
func (u *URL) expr() {}

// DetachedRuleset is a block stored in a variable or passed as argument.
// Closure is owned by the evaluator and holds the scope captured when
// the value was evaluated.
type DetachedRuleset struct {
	Rules   []Statement
	Closure any
}

func (d *DetachedRuleset) String() string {
	return "DetachedRuleset(" + strconv.Itoa(len(d.Rules)) + " rules)"
}

func (d *DetachedRuleset) WriteCSS(w *Writer) {
	w.WriteByte('{')
	for _, s := range d.Rules {
		s.WriteCSS(w)
	}
	w.WriteByte('}')
}

func (d *DetachedRuleset) node() {}
func (d *DetachedRuleset) expr() {}

// MediaFeature is a parenthesized "(name: value)" media query term.
type MediaFeature struct {
	Name  string
	Value Expr
}

func (m *MediaFeature) String() string { return "MediaFeature(" + InlineCSS(m) + ")" }

func (m *MediaFeature) WriteCSS(w *Writer) {
	w.WriteByte('(')
	w.WriteString(m.Name)
	if m.Value != nil {
		w.WriteByte(':')
		if !w.Compress() {
			w.WriteByte(' ')
		}
		m.Value.WriteCSS(w)
	}
	w.WriteByte(')')
}

func (m *MediaFeature) node() {}
func (m *MediaFeature) expr() {}

// Condition is a guard term. Op is one of "and", "or", ">", ">=", "=",
// "<=", "<" or "" for a plain truth test of LHS.
type Condition struct {
	Op     string
	LHS    Expr
	RHS    Expr
	Negate bool
}

func (c *Condition) String() string { return "Condition(" + InlineCSS(c) + ")" }

func (c *Condition) WriteCSS(w *Writer) {
	if c.Negate {
		w.WriteString("not ")
	}
	w.WriteByte('(')
	c.LHS.WriteCSS(w)
	if c.RHS != nil {
		w.WriteByte(' ')
		w.WriteString(c.Op)
		w.WriteByte(' ')
		c.RHS.WriteCSS(w)
	}
	w.WriteByte(')')
}

func (c *Condition) node() {}
func (c *Condition) expr() {}

// Anonymous is raw CSS text that is passed through untouched. It is
// also a statement for the content of inline imports.
type Anonymous struct {
	Value string
}

func (a *Anonymous) String() string { return "Anonymous(" + a.Value + ")" }
func (a *Anonymous) WriteCSS(w *Writer) { w.WriteString(a.Value) }
func (a *Anonymous) node() {}
func (a *Anonymous) expr() {}
func (a *Anonymous) statement() {}
