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
)

//go:generate stringer -type=kind

type kind int16

const (
	space kind = iota
	tokenComment
	tokenString
	tokenNum
	tokenIdentifier
	tokenHash
	tokenURL
	tokenAt
	tokenAmp
	tokenBackslash
	tokenBracketClose
	tokenBracketOpen
	tokenColon
	tokenComma
	tokenCurlyClose
	tokenCurlyOpen
	tokenDot
	tokenEq
	tokenExclamation
	tokenGt
	tokenLt
	tokenMinus
	tokenParensClose
	tokenParensOpen
	tokenPercent
	tokenPlus
	tokenQuestion
	tokenSemi
	tokenSlash
	tokenStar
	tokenTilde
	tokenOther
)

type token struct {
	kind
	start int32
	v     string
}

func (t token) String() string {
	return t.kind.String() + "@" + strconv.Itoa(int(t.start)) + ": " + strconv.Quote(t.v)
}

func (t token) IsSpace() bool {
	return t.kind == space || t.kind == tokenComment
}

type tokens []token

func (tt tokens) String() string {
	if len(tt) == 0 {
		return ""
	}
	if len(tt) == 1 {
		return tt[0].v
	}
	n := 0
	for _, t := range tt {
		n += len(t.v)
	}
	b := strings.Builder{}
	b.Grow(n)
	for _, t := range tt {
		b.WriteString(t.v)
	}
	return b.String()
}

func trimSpace(tt tokens) tokens {
	for len(tt) > 0 && tt[0].IsSpace() {
		tt = tt[1:]
	}
	for len(tt) > 0 && tt[len(tt)-1].IsSpace() {
		tt = tt[:len(tt)-1]
	}
	return tt
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r' || c == '\f'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isNameStart(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') ||
		c == '_' || c >= 0x80
}

func isNameChar(c byte) bool {
	return isNameStart(c) || isDigit(c) || c == '-'
}

type tokenizeError struct {
	offset int
	msg    string
}

func (e *tokenizeError) Error() string {
	return e.msg
}

func scanName(s string, i int) int {
	for i < len(s) {
		switch {
		case s[i] == '\\' && i+1 < len(s):
			i += 2
		case isNameChar(s[i]):
			i++
		default:
			return i
		}
	}
	return i
}

func scanString(s string, i int) (int, error) {
	q := s[i]
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case q:
			return j + 1, nil
		case '\n':
			return 0, &tokenizeError{offset: i, msg: "unterminated string"}
		}
	}
	return 0, &tokenizeError{offset: i, msg: "unterminated string"}
}

// scanRawURL returns the end of an unquoted url(...) starting at the
// opening parenthesis, or -1 when the argument is quoted.
func scanRawURL(s string, i int) int {
	j := i + 1
	for j < len(s) && isSpace(s[j]) {
		j++
	}
	if j < len(s) && (s[j] == '"' || s[j] == '\'') {
		return -1
	}
	k := strings.IndexByte(s[j:], ')')
	if k == -1 {
		return -1
	}
	return j + k + 1
}

func tokenize(s string) (tokens, error) {
	if len(s) == 0 {
		return nil, nil
	}
	a := make(tokens, 0, len(s)/3)
	var l kind = -1
	for i := 0; i < len(s); {
		start := i
		c := s[i]
		var k kind
		switch {
		case isSpace(c):
			for i < len(s) && isSpace(s[i]) {
				i++
			}
			k = space
		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			if j := strings.IndexByte(s[i:], '\n'); j == -1 {
				i = len(s)
			} else {
				i += j
			}
			k = space
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			j := strings.Index(s[i+2:], "*/")
			if j == -1 {
				return nil, &tokenizeError{offset: i, msg: "unterminated comment"}
			}
			i += j + 4
			k = tokenComment
		case c == '"' || c == '\'':
			j, err := scanString(s, i)
			if err != nil {
				return nil, err
			}
			i = j
			k = tokenString
		case isDigit(c) || (c == '.' && i+1 < len(s) && isDigit(s[i+1]) &&
			l != tokenIdentifier && l != tokenNum && l != tokenParensClose):
			for i < len(s) && isDigit(s[i]) {
				i++
			}
			if i+1 < len(s) && s[i] == '.' && isDigit(s[i+1]) {
				i++
				for i < len(s) && isDigit(s[i]) {
					i++
				}
			}
			k = tokenNum
		case c == '#':
			i = scanName(s, i+1)
			if i == start+1 {
				k = tokenOther
			} else {
				k = tokenHash
			}
		case isNameStart(c) || c == '\\' ||
			(c == '-' && i+1 < len(s) &&
				(isNameStart(s[i+1]) || s[i+1] == '-' || s[i+1] == '\\')):
			i = scanName(s, i+1)
			k = tokenIdentifier
			if i < len(s) && s[i] == '(' && strings.EqualFold(s[start:i], "url") {
				if j := scanRawURL(s, i); j != -1 {
					i = j
					k = tokenURL
				}
			}
		default:
			i++
			switch c {
			case '@':
				k = tokenAt
			case '&':
				k = tokenAmp
			case '\\':
				k = tokenBackslash
			case ']':
				k = tokenBracketClose
			case '[':
				k = tokenBracketOpen
			case ':':
				k = tokenColon
			case ',':
				k = tokenComma
			case '}':
				k = tokenCurlyClose
			case '{':
				k = tokenCurlyOpen
			case '.':
				k = tokenDot
			case '=':
				k = tokenEq
			case '!':
				k = tokenExclamation
			case '>':
				k = tokenGt
			case '<':
				k = tokenLt
			case '-':
				k = tokenMinus
			case ')':
				k = tokenParensClose
			case '(':
				k = tokenParensOpen
			case '%':
				k = tokenPercent
			case '+':
				k = tokenPlus
			case '?':
				k = tokenQuestion
			case ';':
				k = tokenSemi
			case '/':
				k = tokenSlash
			case '*':
				k = tokenStar
			case '~':
				k = tokenTilde
			default:
				k = tokenOther
			}
		}
		if k == space && l == space {
			a[len(a)-1].v = s[a[len(a)-1].start:i]
			continue
		}
		a = append(a, token{kind: k, start: int32(start), v: s[start:i]})
		l = k
	}
	return a, nil
}
