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

package parser

import (
	"strconv"
	"strings"

	"github.com/das7pad/lessc/pkg/less/pkg/ast"
	"github.com/das7pad/lessc/pkg/less/pkg/color"
)

// parseValue parses all of tt as a value.
func (p *parser) parseValue(tt tokens) (ast.Expr, error) {
	sub := p.sub(trimSpace(tt))
	if sub.eof() {
		return nil, p.errorHere("expected value")
	}
	v, err := sub.parseValueList()
	if err != nil {
		return nil, err
	}
	sub.skipSpace()
	if !sub.eof() {
		return nil, sub.errorHere("unexpected " + sub.tt[sub.i].v)
	}
	return v, nil
}

// parseValueOrRaw keeps values it cannot make sense of as plain text.
func (p *parser) parseValueOrRaw(tt tokens) ast.Expr {
	tt = trimSpace(tt)
	if len(tt) == 0 {
		return &ast.Anonymous{}
	}
	v, err := p.parseValue(tt)
	if err != nil {
		return &ast.Anonymous{Value: tt.String()}
	}
	return v
}

func (p *parser) parseValueList() (ast.Expr, error) {
	first, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	items := []ast.Expr{first}
	for {
		save := p.i
		p.skipSpace()
		if p.peekKind() != tokenComma {
			p.i = save
			break
		}
		p.i++
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if len(items) == 1 {
		return first, nil
	}
	return &ast.ValueList{Items: items}, nil
}

func isValueEnd(k kind) bool {
	switch k {
	case -1, tokenComma, tokenParensClose, tokenBracketClose, tokenSemi,
		tokenCurlyClose, tokenExclamation:
		return true
	default:
		return false
	}
}

func (p *parser) parseExpression() (ast.Expr, error) {
	var values []ast.Expr
	for {
		save := p.i
		p.skipSpace()
		if isValueEnd(p.peekKind()) {
			p.i = save
			break
		}
		v, err := p.parseAddition()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	switch len(values) {
	case 0:
		return nil, p.errorHere("expected value")
	case 1:
		return values[0], nil
	default:
		return &ast.Expression{Values: values}, nil
	}
}

func (p *parser) parseAddition() (ast.Expr, error) {
	lhs, err := p.parseMultiplication()
	if err != nil {
		return nil, err
	}
	for {
		save := p.i
		spaceBefore := p.skipSpace()
		k := p.peekKind()
		if (k != tokenPlus && k != tokenMinus) || p.i+1 >= len(p.tt) {
			p.i = save
			return lhs, nil
		}
		spaceAfter := p.tt[p.i+1].IsSpace()
		if spaceBefore && !spaceAfter {
			// "1 -1" is a list of two numbers.
			p.i = save
			return lhs, nil
		}
		op := p.tt[p.i].v[0]
		p.i++
		p.skipSpace()
		rhs, err := p.parseMultiplication()
		if err != nil {
			return nil, err
		}
		lhs = &ast.Operation{
			Op: op, LHS: lhs, RHS: rhs, Spaced: spaceBefore || spaceAfter,
		}
	}
}

func (p *parser) parseMultiplication() (ast.Expr, error) {
	lhs, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	for {
		save := p.i
		spaceBefore := p.skipSpace()
		k := p.peekKind()
		if k != tokenStar && k != tokenSlash {
			p.i = save
			return lhs, nil
		}
		op := p.tt[p.i].v[0]
		p.i++
		spaceAfter := p.skipSpace()
		if isValueEnd(p.peekKind()) {
			p.i = save
			return lhs, nil
		}
		rhs, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		lhs = &ast.Operation{
			Op: op, LHS: lhs, RHS: rhs, Spaced: spaceBefore || spaceAfter,
		}
	}
}

func adjacent(a, b token) bool {
	return int(a.start)+len(a.v) == int(b.start)
}

func isHexColor(s string) bool {
	switch len(s) - 1 {
	case 3, 4, 6, 8:
	default:
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9') && !('a' <= c && c <= 'f') &&
			!('A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}

func colorLiteral(raw string) (*ast.Color, bool) {
	c, err := color.Parse(raw)
	if err != nil {
		return nil, false
	}
	return &ast.Color{
		R:     color.Clamp(c.R),
		G:     color.Clamp(c.G),
		B:     color.Clamp(c.B),
		Alpha: c.A,
		Raw:   raw,
	}, true
}

func (p *parser) parseOperand() (ast.Expr, error) {
	if p.eof() {
		return nil, p.errorHere("expected value")
	}
	t := p.tt[p.i]
	switch t.kind {
	case tokenParensOpen:
		end := matching(p.tt, p.i)
		if end == -1 {
			return nil, p.errorAt(t, "missing closing )")
		}
		inner := p.sub(trimSpace(p.tt[p.i+1 : end]))
		p.i = end + 1
		v, err := inner.parseValueOrCondition()
		if err != nil {
			return nil, err
		}
		if c, ok := v.(*ast.Condition); ok {
			return c, nil
		}
		return &ast.Paren{Inner: v}, nil
	case tokenNum:
		return p.parseNumber(), nil
	case tokenMinus:
		if p.i+1 < len(p.tt) && adjacent(t, p.tt[p.i+1]) {
			p.i++
			inner, err := p.parseOperand()
			if err != nil {
				return nil, err
			}
			if n, ok := inner.(*ast.Number); ok {
				return &ast.Number{Value: -n.Value, Unit: n.Unit}, nil
			}
			return &ast.Negative{Inner: inner}, nil
		}
	case tokenPlus:
		if p.i+1 < len(p.tt) && p.tt[p.i+1].kind == tokenNum &&
			adjacent(t, p.tt[p.i+1]) {
			p.i++
			return p.parseNumber(), nil
		}
	case tokenHash:
		p.i++
		if isHexColor(t.v) {
			if c, ok := colorLiteral(t.v); ok {
				return c, nil
			}
		}
		return &ast.Anonymous{Value: t.v}, nil
	case tokenString:
		p.i++
		return ast.NewQuoted(t.v[0], t.v[1:len(t.v)-1], false), nil
	case tokenTilde:
		if p.i+1 < len(p.tt) && p.tt[p.i+1].kind == tokenString {
			s := p.tt[p.i+1].v
			p.i += 2
			return ast.NewQuoted(s[0], s[1:len(s)-1], true), nil
		}
	case tokenAt:
		return p.parseAtValue()
	case tokenURL:
		p.i++
		inner := strings.TrimSpace(t.v[4 : len(t.v)-1])
		return &ast.URL{Value: ast.NewQuoted(0, inner, false)}, nil
	case tokenIdentifier:
		return p.parseIdentifierValue()
	case tokenPercent:
		if p.i+1 < len(p.tt) && p.tt[p.i+1].kind == tokenParensOpen {
			return p.parseCallAt(p.i)
		}
	case tokenCurlyOpen:
		end := matching(p.tt, p.i)
		if end == -1 {
			return nil, p.errorAt(t, "missing closing }")
		}
		rules, err := p.sub(p.tt[p.i+1 : end]).parseStatements(false)
		if err != nil {
			return nil, err
		}
		p.i = end + 1
		return &ast.DetachedRuleset{Rules: rules}, nil
	}
	return nil, p.errorAt(t, "unexpected "+t.v)
}

func (p *parser) parseNumber() *ast.Number {
	t := p.tt[p.i]
	p.i++
	v, _ := strconv.ParseFloat(t.v, 64)
	n := &ast.Number{Value: v}
	if p.i < len(p.tt) && adjacent(t, p.tt[p.i]) {
		switch u := p.tt[p.i]; u.kind {
		case tokenIdentifier, tokenPercent:
			n.Unit = u.v
			p.i++
		}
	}
	return n
}

// scanWord returns the end of an identifier that may contain @{name}
// interpolations, starting at j.
func scanWord(tt tokens, j int) int {
	k := j
	for k < len(tt) {
		if k > j && !adjacent(tt[k-1], tt[k]) {
			break
		}
		switch tt[k].kind {
		case tokenIdentifier, tokenNum, tokenMinus:
			k++
		case tokenAt:
			if k+3 < len(tt) && tt[k+1].kind == tokenCurlyOpen &&
				tt[k+2].kind == tokenIdentifier &&
				tt[k+3].kind == tokenCurlyClose {
				k += 4
				continue
			}
			return k
		default:
			return k
		}
	}
	return k
}

func (p *parser) parseAtValue() (ast.Expr, error) {
	t := p.tt[p.i]
	n := len(p.tt)
	switch {
	case p.i+2 < n && p.tt[p.i+1].kind == tokenAt &&
		p.tt[p.i+2].kind == tokenIdentifier:
		p.i += 3
		return &ast.Variable{
			Name: p.tt[p.i-1].v, Indirect: true, Pos: p.pos(t),
		}, nil
	case p.i+1 < n && p.tt[p.i+1].kind == tokenIdentifier:
		p.i += 2
		return &ast.Variable{Name: p.tt[p.i-1].v, Pos: p.pos(t)}, nil
	case p.isInterpolationAt(p.i):
		end := scanWord(p.tt, p.i)
		if end == p.i {
			return nil, p.errorAt(t, "malformed interpolation")
		}
		s := p.tt[p.i:end].String()
		p.i = end
		return &ast.Identifier{Parts: ast.SplitInterpolation(s)}, nil
	}
	return nil, p.errorAt(t, "expected variable name after @")
}

func (p *parser) parseIdentifierValue() (ast.Expr, error) {
	t := p.tt[p.i]
	if p.i+1 < len(p.tt) && p.tt[p.i+1].kind == tokenParensOpen {
		return p.parseCallAt(p.i)
	}
	end := scanWord(p.tt, p.i)
	s := p.tt[p.i:end].String()
	p.i = end
	if s != t.v {
		return &ast.Identifier{Parts: ast.SplitInterpolation(s)}, nil
	}
	if color.IsKeyword(s) {
		if c, ok := colorLiteral(s); ok {
			return c, nil
		}
	}
	return ast.NewIdentifier(s), nil
}

func (p *parser) parseCallAt(i int) (ast.Expr, error) {
	t := p.tt[i]
	end := matching(p.tt, i+1)
	if end == -1 {
		return nil, p.errorAt(p.tt[i+1], "missing closing )")
	}
	args := trimSpace(p.tt[i+2 : end])
	p.i = end + 1
	name := t.v
	if strings.EqualFold(name, "url") {
		return &ast.URL{Value: p.parseValueOrRaw(args)}, nil
	}
	if indexTopLevel(args, tokenEq) != -1 {
		// IE filters like alpha(opacity=50)
		return &ast.Anonymous{Value: p.tt[i : end+1].String()}, nil
	}
	c := &ast.Call{Name: name, Pos: p.pos(t)}
	if len(args) == 0 {
		return c, nil
	}
	for _, part := range split(args, tokenComma) {
		part = trimSpace(part)
		if len(part) == 0 {
			return nil, p.errorAt(t, "empty argument in "+name+"()")
		}
		v, err := p.sub(part).parseValueOrCondition()
		if err != nil {
			return nil, err
		}
		c.Args = append(c.Args, v)
	}
	return c, nil
}

// parseValueOrCondition reads all tokens as a value, falling back to
// a comparison like "@a > 1" as accepted by if() and boolean().
func (p *parser) parseValueOrCondition() (ast.Expr, error) {
	if p.eof() {
		return nil, p.errorHere("expected value")
	}
	v, err := p.parseValueList()
	if err == nil {
		p.skipSpace()
		if p.eof() {
			return v, nil
		}
	}
	p.i = 0
	c, cErr := p.parseCondition()
	if cErr != nil {
		if err == nil {
			err = cErr
		}
		return nil, err
	}
	return c, nil
}

func (p *parser) parseGuard(tt tokens) (ast.Expr, error) {
	sub := p.sub(trimSpace(tt))
	if sub.eof() {
		return nil, p.errorHere("missing guard condition")
	}
	g, err := sub.parseConditionOr()
	if err != nil {
		return nil, err
	}
	sub.skipSpace()
	if !sub.eof() {
		return nil, sub.errorHere("unexpected " + sub.tt[sub.i].v + " in guard")
	}
	return g, nil
}

func (p *parser) isKeyword(s string) bool {
	return p.peekKind() == tokenIdentifier && p.tt[p.i].v == s
}

func (p *parser) parseConditionOr() (ast.Expr, error) {
	lhs, err := p.parseConditionAnd()
	if err != nil {
		return nil, err
	}
	for {
		save := p.i
		p.skipSpace()
		if p.peekKind() != tokenComma && !p.isKeyword("or") {
			p.i = save
			return lhs, nil
		}
		p.i++
		rhs, err := p.parseConditionAnd()
		if err != nil {
			return nil, err
		}
		lhs = &ast.Condition{Op: "or", LHS: lhs, RHS: rhs}
	}
}

func (p *parser) parseConditionAnd() (ast.Expr, error) {
	lhs, err := p.parseConditionTerm()
	if err != nil {
		return nil, err
	}
	for {
		save := p.i
		p.skipSpace()
		if !p.isKeyword("and") {
			p.i = save
			return lhs, nil
		}
		p.i++
		rhs, err := p.parseConditionTerm()
		if err != nil {
			return nil, err
		}
		lhs = &ast.Condition{Op: "and", LHS: lhs, RHS: rhs}
	}
}

func (p *parser) parseConditionTerm() (ast.Expr, error) {
	p.skipSpace()
	negate := false
	if p.isKeyword("not") {
		negate = true
		p.i++
		p.skipSpace()
	}
	if p.peekKind() != tokenParensOpen {
		return nil, p.errorHere("expected ( in guard")
	}
	end := matching(p.tt, p.i)
	if end == -1 {
		return nil, p.errorHere("missing closing )")
	}
	inner := p.sub(trimSpace(p.tt[p.i+1 : end]))
	p.i = end + 1
	c, err := inner.parseCondition()
	if err != nil {
		return nil, err
	}
	c.Negate = negate
	return c, nil
}

// parseCondition reads the inside of a guard term, which is either a
// nested group of conditions or a comparison.
func (p *parser) parseCondition() (*ast.Condition, error) {
	if p.peekKind() == tokenParensOpen || p.isKeyword("not") {
		g, err := p.parseConditionOr()
		if err == nil {
			p.skipSpace()
			if p.eof() {
				return &ast.Condition{LHS: g}, nil
			}
		}
		p.i = 0
	}
	lhs, err := p.parseAddition()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	op := p.parseComparator()
	if op == "" {
		if !p.eof() {
			return nil, p.errorHere("expected comparison operator")
		}
		return &ast.Condition{LHS: lhs}, nil
	}
	p.skipSpace()
	rhs, err := p.parseAddition()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.errorHere("unexpected " + p.tt[p.i].v + " in guard")
	}
	return &ast.Condition{Op: op, LHS: lhs, RHS: rhs}, nil
}

func (p *parser) parseComparator() string {
	if p.eof() {
		return ""
	}
	next := kind(-1)
	if p.i+1 < len(p.tt) {
		next = p.tt[p.i+1].kind
	}
	var op string
	switch p.tt[p.i].kind {
	case tokenGt:
		op = ">"
		if next == tokenEq {
			op = ">="
		}
	case tokenLt:
		op = "<"
		if next == tokenEq {
			op = "<="
		}
	case tokenEq:
		op = "="
		switch next {
		case tokenLt:
			op = "<="
		case tokenGt:
			op = ">="
		}
	default:
		return ""
	}
	if len(op) == 2 {
		p.i += 2
	} else {
		p.i++
	}
	return op
}

func (p *parser) parseMediaQueries(tt tokens) (ast.Expr, error) {
	var queries []ast.Expr
	for _, part := range split(tt, tokenComma) {
		part = trimSpace(part)
		if len(part) == 0 {
			continue
		}
		var terms []ast.Expr
		for j := 0; j < len(part); {
			t := part[j]
			switch {
			case t.IsSpace():
				j++
			case t.kind == tokenParensOpen:
				end := matching(part, j)
				if end == -1 {
					return nil, p.errorAt(t, "missing closing )")
				}
				terms = append(terms, p.parseMediaFeature(part[j+1:end]))
				j = end + 1
			case t.kind == tokenAt:
				sub := p.sub(part[j:])
				v, err := sub.parseAtValue()
				if err != nil {
					return nil, err
				}
				terms = append(terms, v)
				j += sub.i
			default:
				k := j + 1
				for k < len(part) && !part[k].IsSpace() &&
					part[k].kind != tokenParensOpen {
					k++
				}
				terms = append(terms, &ast.Identifier{
					Parts: ast.SplitInterpolation(part[j:k].String()),
				})
				j = k
			}
		}
		if len(terms) == 1 {
			queries = append(queries, terms[0])
		} else {
			queries = append(queries, &ast.Expression{Values: terms})
		}
	}
	switch len(queries) {
	case 0:
		return &ast.Anonymous{}, nil
	case 1:
		return queries[0], nil
	default:
		return &ast.ValueList{Items: queries}, nil
	}
}

func (p *parser) parseMediaFeature(tt tokens) ast.Expr {
	tt = trimSpace(tt)
	colon := indexTopLevel(tt, tokenColon)
	if colon == -1 {
		if len(tt) == 1 && tt[0].kind == tokenIdentifier {
			return &ast.MediaFeature{Name: tt[0].v}
		}
		return &ast.Paren{Inner: p.parseValueOrRaw(tt)}
	}
	return &ast.MediaFeature{
		Name:  trimSpace(tt[:colon]).String(),
		Value: p.parseValueOrRaw(tt[colon+1:]),
	}
}
