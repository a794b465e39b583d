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

// Package parser turns stylesheet source into an ast.Stylesheet.
package parser

import (
	"sort"
	"strings"

	"github.com/das7pad/lessc/pkg/errors"
	"github.com/das7pad/lessc/pkg/less/pkg/ast"
)

// Parse reads the stylesheet s. f names the file in positions and
// syntax errors.
func Parse(s, f string) (*ast.Stylesheet, error) {
	lines := lineStarts(s)
	tt, err := tokenize(s)
	if err != nil {
		var te *tokenizeError
		if errors.As(err, &te) {
			line, col := position(lines, te.offset)
			return nil, &errors.SyntaxError{
				File: f, Line: line, Column: col, Msg: te.msg,
			}
		}
		return nil, err
	}
	p := &parser{f: f, lines: lines, tt: tt}
	rules, err := p.parseStatements(false)
	if err != nil {
		return nil, err
	}
	return &ast.Stylesheet{File: f, Rules: rules}, nil
}

type parser struct {
	f     string
	lines []int
	tt    tokens
	i     int
}

func lineStarts(s string) []int {
	lines := []int{0}
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, i+1)
		}
	}
	return lines
}

func position(lines []int, offset int) (int, int) {
	line := sort.Search(len(lines), func(i int) bool {
		return lines[i] > offset
	})
	return line, offset - lines[line-1] + 1
}

func (p *parser) sub(tt tokens) *parser {
	return &parser{f: p.f, lines: p.lines, tt: tt}
}

func (p *parser) pos(t token) ast.Position {
	line, col := position(p.lines, int(t.start))
	return ast.Position{File: p.f, Line: line, Column: col}
}

func (p *parser) errorAt(t token, msg string) error {
	pos := p.pos(t)
	return &errors.SyntaxError{
		File: p.f, Line: pos.Line, Column: pos.Column, Msg: msg,
	}
}

// errorHere reports at the current token, or at the last one on EOF.
func (p *parser) errorHere(msg string) error {
	switch {
	case p.i < len(p.tt):
		return p.errorAt(p.tt[p.i], msg)
	case len(p.tt) > 0:
		return p.errorAt(p.tt[len(p.tt)-1], msg)
	default:
		return &errors.SyntaxError{File: p.f, Line: 1, Column: 1, Msg: msg}
	}
}

func (p *parser) eof() bool {
	return p.i >= len(p.tt)
}

func (p *parser) peekKind() kind {
	if p.eof() {
		return -1
	}
	return p.tt[p.i].kind
}

// skipSpace moves past whitespace and comments and reports whether
// there were any.
func (p *parser) skipSpace() bool {
	start := p.i
	for p.i < len(p.tt) && p.tt[p.i].IsSpace() {
		p.i++
	}
	return p.i > start
}

func (p *parser) parseStatements(nested bool) ([]ast.Statement, error) {
	var out []ast.Statement
	for {
		for p.i < len(p.tt) && p.tt[p.i].kind == space {
			p.i++
		}
		if p.eof() {
			if nested {
				return nil, p.errorHere("missing closing }")
			}
			return out, nil
		}
		t := p.tt[p.i]
		switch t.kind {
		case tokenComment:
			out = append(out, &ast.Comment{Value: t.v})
			p.i++
			continue
		case tokenSemi:
			p.i++
			continue
		case tokenCurlyClose:
			if !nested {
				return nil, p.errorAt(t, "unexpected }")
			}
			p.i++
			return out, nil
		}
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if s != nil {
			out = append(out, s)
		}
	}
}

func (p *parser) parseStatement() (ast.Statement, error) {
	t := p.tt[p.i]
	if t.kind == tokenAt && !p.isInterpolationAt(p.i) {
		return p.parseAtStatement()
	}
	end := scanEnd(p.tt, p.i)
	if end < len(p.tt) && p.tt[end].kind == tokenCurlyOpen {
		return p.parseBlockStatement(end)
	}
	return p.parseSimpleStatement(end)
}

func (p *parser) isInterpolationAt(i int) bool {
	return i+1 < len(p.tt) && p.tt[i].kind == tokenAt &&
		p.tt[i+1].kind == tokenCurlyOpen
}

// scanEnd returns the index of the first '{', ';' or '}' outside of
// parentheses, brackets and @{} interpolation, or len(tt).
func scanEnd(tt tokens, i int) int {
	depth := 0
	for ; i < len(tt); i++ {
		switch tt[i].kind {
		case tokenParensOpen, tokenBracketOpen:
			depth++
		case tokenParensClose, tokenBracketClose:
			if depth > 0 {
				depth--
			}
		case tokenAt:
			if i+1 < len(tt) && tt[i+1].kind == tokenCurlyOpen {
				for i+1 < len(tt) && tt[i+1].kind != tokenCurlyClose {
					i++
				}
				i++
			}
		case tokenCurlyOpen, tokenSemi, tokenCurlyClose:
			if depth == 0 {
				return i
			}
		}
	}
	return len(tt)
}

// matching returns the index of the bracket closing the one at i.
func matching(tt tokens, i int) int {
	open := tt[i].kind
	var closing kind
	switch open {
	case tokenParensOpen:
		closing = tokenParensClose
	case tokenBracketOpen:
		closing = tokenBracketClose
	case tokenCurlyOpen:
		closing = tokenCurlyClose
	default:
		return -1
	}
	depth := 0
	for j := i; j < len(tt); j++ {
		switch tt[j].kind {
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

// split cuts tt at every top level sep.
func split(tt tokens, sep kind) []tokens {
	var out []tokens
	depth := 0
	last := 0
	for j, t := range tt {
		switch t.kind {
		case tokenParensOpen, tokenBracketOpen, tokenCurlyOpen:
			depth++
		case tokenParensClose, tokenBracketClose, tokenCurlyClose:
			depth--
		case sep:
			if depth == 0 {
				out = append(out, tt[last:j])
				last = j + 1
			}
		}
	}
	return append(out, tt[last:])
}

func indexTopLevel(tt tokens, k kind) int {
	depth := 0
	for j, t := range tt {
		switch t.kind {
		case tokenParensOpen, tokenBracketOpen, tokenCurlyOpen:
			depth++
		case tokenParensClose, tokenBracketClose, tokenCurlyClose:
			depth--
		case k:
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

// splitArgs separates arguments by semicolons when there are any, by
// commas otherwise.
func splitArgs(tt tokens) []tokens {
	if indexTopLevel(tt, tokenSemi) != -1 {
		return split(tt, tokenSemi)
	}
	return split(tt, tokenComma)
}

// splitImportant strips a trailing !important.
func splitImportant(tt tokens) (tokens, bool) {
	tt = trimSpace(tt)
	n := len(tt)
	if n < 2 || tt[n-1].kind != tokenIdentifier ||
		!strings.EqualFold(tt[n-1].v, "important") {
		return tt, false
	}
	rest := trimSpace(tt[:n-1])
	if len(rest) == 0 || rest[len(rest)-1].kind != tokenExclamation {
		return tt, false
	}
	return trimSpace(rest[:len(rest)-1]), true
}

func isEllipsis(tt tokens) bool {
	return len(tt) == 3 && tt[0].kind == tokenDot &&
		tt[1].kind == tokenDot && tt[2].kind == tokenDot
}

func (p *parser) consumeSemi() {
	if p.i < len(p.tt) && p.tt[p.i].kind == tokenSemi {
		p.i++
	}
}

func (p *parser) parseSimpleStatement(end int) (ast.Statement, error) {
	tt := trimSpace(p.tt[p.i:end])
	p.i = end
	p.consumeSemi()
	if len(tt) == 0 {
		return nil, nil
	}
	switch tt[0].kind {
	case tokenDot, tokenHash:
		return p.parseMixinCall(tt)
	case tokenAmp:
		if len(tt) > 3 && tt[1].kind == tokenColon &&
			tt[2].v == "extend" && tt[3].kind == tokenParensOpen {
			return p.parseExtendStatement(tt)
		}
	case tokenIdentifier:
		if len(tt) > 1 && tt[1].kind == tokenParensOpen {
			v, err := p.sub(tt).parseCallAt(0)
			if err != nil {
				return nil, err
			}
			c, ok := v.(*ast.Call)
			if !ok {
				return nil, p.errorAt(tt[0], "unexpected "+tt[0].v+"(")
			}
			return &ast.CallStatement{Call: c}, nil
		}
	}
	return p.parseDeclaration(tt)
}

func (p *parser) parseDeclaration(tt tokens) (ast.Statement, error) {
	colon := indexTopLevel(tt, tokenColon)
	if colon == -1 {
		return nil, p.errorAt(tt[0], "expected ':' after "+tt.String())
	}
	name := trimSpace(tt[:colon]).String()
	if name == "" {
		return nil, p.errorAt(tt[colon], "missing property name")
	}
	valueTT, important := splitImportant(tt[colon+1:])
	var value ast.Expr
	if strings.HasPrefix(name, "--") {
		value = &ast.Anonymous{Value: valueTT.String()}
	} else {
		value = p.parseValueOrRaw(valueTT)
	}
	return &ast.Declaration{
		Name:      &ast.Identifier{Parts: ast.SplitInterpolation(name)},
		Value:     value,
		Important: important,
		Pos:       p.pos(tt[0]),
	}, nil
}

func (p *parser) parseMixinCall(tt tokens) (ast.Statement, error) {
	var elements []ast.Element
	j := 0
loop:
	for j < len(tt) {
		t := tt[j]
		switch t.kind {
		case tokenDot:
			if j+1 >= len(tt) || tt[j+1].kind != tokenIdentifier {
				return nil, p.errorAt(t, "expected mixin name after .")
			}
			elements = append(elements, ast.Element{
				Kind: ast.ElementSimple, Value: "." + tt[j+1].v,
			})
			j += 2
		case tokenHash:
			elements = append(elements, ast.Element{
				Kind: ast.ElementSimple, Value: t.v,
			})
			j++
		case tokenGt:
			elements = append(elements, ast.Element{
				Kind: ast.ElementCombinator, Value: ">",
			})
			j++
		case space, tokenComment:
			j++
		case tokenParensOpen, tokenExclamation:
			break loop
		default:
			return nil, p.errorAt(t, "unexpected "+t.v+" in mixin call")
		}
	}
	var args []ast.Arg
	if j < len(tt) && tt[j].kind == tokenParensOpen {
		end := matching(tt, j)
		if end == -1 {
			return nil, p.errorAt(tt[j], "missing closing )")
		}
		var err error
		if args, err = p.parseArgs(tt[j+1 : end]); err != nil {
			return nil, err
		}
		j = end + 1
	}
	important := false
	if rest := trimSpace(tt[j:]); len(rest) > 0 {
		if r, ok := splitImportant(rest); !ok || len(r) > 0 {
			return nil, p.errorAt(rest[0], "unexpected "+rest.String()+" after mixin call")
		}
		important = true
	}
	pos := p.pos(tt[0])
	c, err := ast.NewMixinCall(ast.NewSelector(elements), args, important, pos)
	if err != nil {
		return nil, errors.Tag(err, pos.String())
	}
	return c, nil
}

func (p *parser) parseArgs(tt tokens) ([]ast.Arg, error) {
	if len(trimSpace(tt)) == 0 {
		return nil, nil
	}
	var args []ast.Arg
	for _, part := range splitArgs(tt) {
		part = trimSpace(part)
		if len(part) == 0 {
			continue
		}
		a := ast.Arg{}
		if len(part) > 2 && part[0].kind == tokenAt &&
			part[1].kind == tokenIdentifier {
			k := 2
			for k < len(part) && part[k].IsSpace() {
				k++
			}
			if k < len(part) && part[k].kind == tokenColon {
				a.Name = part[1].v
				part = trimSpace(part[k+1:])
			}
		}
		if len(part) == 0 {
			return nil, p.errorAt(tt[0], "missing value for @"+a.Name)
		}
		v, err := p.parseValue(part)
		if err != nil {
			return nil, err
		}
		a.Value = v
		args = append(args, a)
	}
	return args, nil
}

func (p *parser) parseExtendStatement(tt tokens) (ast.Statement, error) {
	e := &ast.Extend{Pos: p.pos(tt[0])}
	j := 1
	for j < len(tt) {
		if tt[j].IsSpace() {
			j++
			continue
		}
		if j+2 >= len(tt) || tt[j].kind != tokenColon ||
			tt[j+1].v != "extend" || tt[j+2].kind != tokenParensOpen {
			return nil, p.errorAt(tt[j], "expected :extend(...)")
		}
		end := matching(tt, j+2)
		if end == -1 {
			return nil, p.errorAt(tt[j+2], "missing closing )")
		}
		targets, err := p.parseExtendTargets(tt[j+3 : end])
		if err != nil {
			return nil, err
		}
		e.Targets = append(e.Targets, targets...)
		j = end + 1
	}
	return e, nil
}

func (p *parser) parseExtendTargets(tt tokens) ([]ast.ExtendTarget, error) {
	var out []ast.ExtendTarget
	for _, part := range split(tt, tokenComma) {
		part = trimSpace(part)
		if len(part) == 0 {
			continue
		}
		all := false
		if n := len(part); n > 2 && part[n-1].kind == tokenIdentifier &&
			part[n-1].v == "all" && part[n-2].IsSpace() {
			all = true
			part = trimSpace(part[:n-1])
		}
		s, _, err := p.parseSelector(part)
		if err != nil {
			return nil, err
		}
		out = append(out, ast.ExtendTarget{Selector: s, All: all})
	}
	return out, nil
}

func isMixinDefinition(tt tokens) bool {
	j := 0
	switch {
	case len(tt) > 2 && tt[0].kind == tokenDot && tt[1].kind == tokenIdentifier:
		j = 2
	case len(tt) > 1 && tt[0].kind == tokenHash:
		j = 1
	default:
		return false
	}
	for j < len(tt) && tt[j].IsSpace() {
		j++
	}
	return j < len(tt) && tt[j].kind == tokenParensOpen
}

// splitGuard cuts a block prelude at a top level "when".
func splitGuard(tt tokens) (tokens, tokens) {
	depth := 0
	for j, t := range tt {
		switch t.kind {
		case tokenParensOpen, tokenBracketOpen:
			depth++
		case tokenParensClose, tokenBracketClose:
			depth--
		case tokenIdentifier:
			if depth == 0 && t.v == "when" && j > 0 && tt[j-1].IsSpace() {
				return trimSpace(tt[:j]), tt[j+1:]
			}
		}
	}
	return tt, nil
}

func (p *parser) parseBody(open int) ([]ast.Statement, error) {
	p.i = open + 1
	return p.parseStatements(true)
}

func (p *parser) parseBlockStatement(open int) (ast.Statement, error) {
	prelude := trimSpace(p.tt[p.i:open])
	if len(prelude) == 0 {
		return nil, p.errorAt(p.tt[open], "missing selector")
	}
	if isMixinDefinition(prelude) {
		return p.parseMixinDefinition(prelude, open)
	}
	selectors, guardTT := splitGuard(prelude)
	var guard ast.Expr
	if guardTT != nil {
		var err error
		if guard, err = p.parseGuard(guardTT); err != nil {
			return nil, err
		}
	}
	list, extends, err := p.parseSelectorList(selectors)
	if err != nil {
		return nil, err
	}
	rules, err := p.parseBody(open)
	if err != nil {
		return nil, err
	}
	if len(extends) > 0 {
		e := &ast.Extend{Targets: extends, Pos: p.pos(prelude[0])}
		rules = append([]ast.Statement{e}, rules...)
	}
	return &ast.Ruleset{
		Selectors: list,
		Rules:     rules,
		Guard:     guard,
		Pos:       p.pos(prelude[0]),
	}, nil
}

func (p *parser) parseMixinDefinition(tt tokens, open int) (ast.Statement, error) {
	var name string
	j := 1
	if tt[0].kind == tokenDot {
		name = "." + tt[1].v
		j = 2
	} else {
		name = tt[0].v
	}
	for tt[j].IsSpace() {
		j++
	}
	end := matching(tt, j)
	if end == -1 {
		return nil, p.errorAt(tt[j], "missing closing )")
	}
	params, err := p.parseParams(tt[j+1 : end])
	if err != nil {
		return nil, err
	}
	var guard ast.Expr
	if rest := trimSpace(tt[end+1:]); len(rest) > 0 {
		if rest[0].kind != tokenIdentifier || rest[0].v != "when" {
			return nil, p.errorAt(rest[0], "expected when or {")
		}
		if guard, err = p.parseGuard(rest[1:]); err != nil {
			return nil, err
		}
	}
	rules, err := p.parseBody(open)
	if err != nil {
		return nil, err
	}
	return &ast.MixinDefinition{
		Name: ast.NewSelector([]ast.Element{
			{Kind: ast.ElementSimple, Value: name},
		}),
		Params: params,
		Guard:  guard,
		Rules:  rules,
		Pos:    p.pos(tt[0]),
	}, nil
}

func (p *parser) parseParams(tt tokens) ([]ast.Param, error) {
	if len(trimSpace(tt)) == 0 {
		return nil, nil
	}
	parts := splitArgs(tt)
	params := make([]ast.Param, 0, len(parts))
	for i, part := range parts {
		part = trimSpace(part)
		if len(part) == 0 {
			continue
		}
		if isEllipsis(part) {
			params = append(params, ast.Param{Kind: ast.ParamVariadic})
		} else if len(part) > 1 && part[0].kind == tokenAt &&
			part[1].kind == tokenIdentifier {
			name := part[1].v
			rest := trimSpace(part[2:])
			switch {
			case len(rest) == 0:
				params = append(params, ast.Param{
					Kind: ast.ParamNamed, Name: name,
				})
			case isEllipsis(rest):
				params = append(params, ast.Param{
					Kind: ast.ParamVariadic, Name: name,
				})
			case rest[0].kind == tokenColon:
				v, err := p.parseValue(trimSpace(rest[1:]))
				if err != nil {
					return nil, err
				}
				params = append(params, ast.Param{
					Kind: ast.ParamNamed, Name: name, Value: v,
				})
			default:
				return nil, p.errorAt(rest[0], "unexpected "+rest[0].v+" in parameter")
			}
		} else {
			v, err := p.parseValue(part)
			if err != nil {
				return nil, err
			}
			params = append(params, ast.Param{
				Kind: ast.ParamPattern, Value: v,
			})
		}
		if params[len(params)-1].Kind == ast.ParamVariadic &&
			i != len(parts)-1 && len(trimSpace(parts[i+1])) > 0 {
			return nil, p.errorAt(part[0], "variadic parameter must be last")
		}
	}
	return params, nil
}

func (p *parser) parseAtStatement() (ast.Statement, error) {
	t := p.tt[p.i]
	if p.i+1 >= len(p.tt) || p.tt[p.i+1].kind != tokenIdentifier {
		return nil, p.errorAt(t, "expected name after @")
	}
	name := p.tt[p.i+1].v
	j := p.i + 2
	k := j
	for k < len(p.tt) && p.tt[k].IsSpace() {
		k++
	}
	switch {
	case k < len(p.tt) && p.tt[k].kind == tokenColon &&
		(k == j || name != "page"):
		return p.parseVariableDeclaration(name, t, k+1)
	case j+1 < len(p.tt) && p.tt[j].kind == tokenParensOpen &&
		p.tt[j+1].kind == tokenParensClose:
		p.i = j + 2
		for p.i < len(p.tt) && p.tt[p.i].IsSpace() {
			p.i++
		}
		p.consumeSemi()
		return &ast.VariableCall{Name: name, Pos: p.pos(t)}, nil
	}
	switch strings.ToLower(name) {
	case "import":
		return p.parseImport(t)
	case "media", "supports", "document", "-moz-document", "container":
		return p.parseMedia(name, t)
	case "plugin":
		return nil, p.errorAt(t, "@plugin is not supported")
	default:
		return p.parseAtRule(name, t)
	}
}

func (p *parser) parseVariableDeclaration(name string, t token, j int) (ast.Statement, error) {
	p.i = j
	p.skipSpace()
	pos := p.pos(t)
	if p.peekKind() == tokenCurlyOpen {
		end := matching(p.tt, p.i)
		if end == -1 {
			return nil, p.errorHere("missing closing }")
		}
		rules, err := p.sub(p.tt[p.i+1 : end]).parseStatements(false)
		if err != nil {
			return nil, err
		}
		p.i = end + 1
		p.consumeSemi()
		return &ast.VariableDeclaration{
			Name:  name,
			Value: &ast.DetachedRuleset{Rules: rules},
			Pos:   pos,
		}, nil
	}
	end := scanEnd(p.tt, p.i)
	valueTT, important := splitImportant(p.tt[p.i:end])
	p.i = end
	p.consumeSemi()
	return &ast.VariableDeclaration{
		Name:      name,
		Value:     p.parseValueOrRaw(valueTT),
		Important: important,
		Pos:       pos,
	}, nil
}

func (p *parser) parseMedia(name string, t token) (ast.Statement, error) {
	p.i += 2
	end := scanEnd(p.tt, p.i)
	if end >= len(p.tt) || p.tt[end].kind != tokenCurlyOpen {
		return nil, p.errorAt(t, "expected { after @"+name)
	}
	features, err := p.parseMediaQueries(trimSpace(p.tt[p.i:end]))
	if err != nil {
		return nil, err
	}
	rules, err := p.parseBody(end)
	if err != nil {
		return nil, err
	}
	return &ast.Media{
		Name:     name,
		Features: features,
		Rules:    rules,
		Pos:      p.pos(t),
	}, nil
}

func (p *parser) parseAtRule(name string, t token) (ast.Statement, error) {
	p.i += 2
	end := scanEnd(p.tt, p.i)
	a := &ast.AtRule{Name: name, Pos: p.pos(t)}
	if prelude := trimSpace(p.tt[p.i:end]); len(prelude) > 0 {
		a.Prelude = p.parseValueOrRaw(prelude)
	}
	if end < len(p.tt) && p.tt[end].kind == tokenCurlyOpen {
		rules, err := p.parseBody(end)
		if err != nil {
			return nil, err
		}
		a.Rules = rules
		a.HasBlock = true
		return a, nil
	}
	p.i = end
	p.consumeSemi()
	return a, nil
}

func (p *parser) parseImport(t token) (ast.Statement, error) {
	p.i += 2
	end := scanEnd(p.tt, p.i)
	tt := trimSpace(p.tt[p.i:end])
	p.i = end
	p.consumeSemi()
	if len(tt) == 0 {
		return nil, p.errorAt(t, "missing path in @import")
	}
	imp := &ast.Import{Pos: p.pos(t)}
	j := 0
	if tt[0].kind == tokenParensOpen {
		close := matching(tt, 0)
		if close == -1 {
			return nil, p.errorAt(tt[0], "missing closing )")
		}
		for _, o := range split(tt[1:close], tokenComma) {
			o = trimSpace(o)
			if len(o) == 0 {
				continue
			}
			switch o.String() {
			case "less":
				imp.Options.Less = true
			case "css":
				imp.Options.CSS = true
			case "inline":
				imp.Options.Inline = true
			case "reference":
				imp.Options.Reference = true
			case "optional":
				imp.Options.Optional = true
			case "once":
				imp.Options.Once = true
			case "multiple":
				imp.Options.Multiple = true
			default:
				return nil, p.errorAt(o[0], "unknown import option "+o.String())
			}
		}
		j = close + 1
	}
	rest := trimSpace(tt[j:])
	if len(rest) == 0 {
		return nil, p.errorAt(t, "missing path in @import")
	}
	sub := p.sub(rest)
	path, err := sub.parseOperand()
	if err != nil {
		return nil, err
	}
	imp.Path = path
	if features := trimSpace(rest[sub.i:]); len(features) > 0 {
		if imp.Features, err = p.parseMediaQueries(features); err != nil {
			return nil, err
		}
	}
	return imp, nil
}
