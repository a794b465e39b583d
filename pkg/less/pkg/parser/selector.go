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
	"strings"

	"github.com/das7pad/lessc/pkg/less/pkg/ast"
)

// ParseSelectorList reads s as a comma separated selector list. It is
// used for selectors produced by interpolation.
func ParseSelectorList(s, f string) (*ast.SelectorList, error) {
	tt, err := tokenize(s)
	if err != nil {
		return nil, err
	}
	p := &parser{f: f, lines: lineStarts(s), tt: tt}
	l, _, err := p.parseSelectorList(trimSpace(tt))
	return l, err
}

func (p *parser) parseSelectorList(tt tokens) (*ast.SelectorList, []ast.ExtendTarget, error) {
	l := &ast.SelectorList{}
	var extends []ast.ExtendTarget
	for _, part := range split(tt, tokenComma) {
		part = trimSpace(part)
		if len(part) == 0 {
			continue
		}
		s, e, err := p.parseSelector(part)
		if err != nil {
			return nil, nil, err
		}
		if len(s.Elements) > 0 {
			l.Selectors = append(l.Selectors, s)
		}
		extends = append(extends, e...)
	}
	return l, extends, nil
}

func elementKind(v string, k ast.ElementKind) ast.ElementKind {
	if strings.Contains(v, "@{") {
		return ast.ElementInterpolated
	}
	return k
}

func (p *parser) parseSelector(tt tokens) (*ast.Selector, []ast.ExtendTarget, error) {
	var elements []ast.Element
	var extends []ast.ExtendTarget
	add := func(k ast.ElementKind, v string) {
		elements = append(elements, ast.Element{Kind: elementKind(v, k), Value: v})
	}
	for j := 0; j < len(tt); {
		t := tt[j]
		switch t.kind {
		case space, tokenComment:
			if n := len(elements); n > 0 {
				elements[n-1].Whitespace = true
			}
			j++
		case tokenGt, tokenPlus, tokenTilde:
			add(ast.ElementCombinator, t.v)
			j++
		case tokenAmp:
			add(ast.ElementParent, "&")
			j++
		case tokenColon:
			k := j + 1
			prefix := ":"
			if k < len(tt) && tt[k].kind == tokenColon {
				prefix = "::"
				k++
			}
			if k >= len(tt) || tt[k].kind != tokenIdentifier {
				return nil, nil, p.errorAt(t, "expected pseudo class name")
			}
			name := tt[k].v
			k++
			hasArgs := k < len(tt) && tt[k].kind == tokenParensOpen
			end := k
			if hasArgs {
				if end = matching(tt, k); end == -1 {
					return nil, nil, p.errorAt(tt[k], "missing closing )")
				}
			}
			if prefix == ":" && name == "extend" && hasArgs {
				targets, err := p.parseExtendTargets(tt[k+1 : end])
				if err != nil {
					return nil, nil, err
				}
				extends = append(extends, targets...)
				j = end + 1
				continue
			}
			v := prefix + name
			if hasArgs {
				v += tt[k : end+1].String()
				k = end + 1
			}
			add(ast.ElementSimple, v)
			j = k
		case tokenBracketOpen:
			end := matching(tt, j)
			if end == -1 {
				return nil, nil, p.errorAt(t, "missing closing ]")
			}
			add(ast.ElementAttribute, tt[j:end+1].String())
			j = end + 1
		default:
			k := j
			needName := false
			switch t.kind {
			case tokenDot:
				k++
				needName = true
			case tokenOther:
				if t.v == "#" {
					k++
					needName = true
				}
			case tokenHash, tokenStar:
				k++
			}
			end := scanWord(tt, k)
			if end < len(tt) && end > k && tt[end].kind == tokenPercent &&
				adjacent(tt[end-1], tt[end]) {
				end++
			}
			if end == k {
				if needName {
					return nil, nil, p.errorAt(t, "expected name after "+t.v)
				}
				if k == j {
					end = j + 1
				}
			}
			add(ast.ElementSimple, tt[j:end].String())
			j = end
		}
	}
	return ast.NewSelector(elements), extends, nil
}
