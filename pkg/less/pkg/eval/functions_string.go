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
	"encoding/base64"
	"mime"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/das7pad/lessc/pkg/errors"
	"github.com/das7pad/lessc/pkg/less/pkg/ast"
)

func fnE(_ *Context, args []ast.Expr) (ast.Expr, error) {
	if err := arity("e", args, 1, 1); err != nil {
		return nil, err
	}
	return &ast.Anonymous{Value: textOf(args[0])}, nil
}

// escapeURI percent-encodes everything but the characters a URI keeps
// verbatim, and additionally = : # ; ( ).
func escapeURI(s string) string {
	const keep = "-_.!~*'/?@&+$,"
	const hex = "0123456789ABCDEF"
	b := strings.Builder{}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' ||
			ch >= '0' && ch <= '9' || strings.IndexByte(keep, ch) != -1 {
			b.WriteByte(ch)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[ch>>4])
		b.WriteByte(hex[ch&15])
	}
	return b.String()
}

func fnEscape(_ *Context, args []ast.Expr) (ast.Expr, error) {
	if err := arity("escape", args, 1, 1); err != nil {
		return nil, err
	}
	return &ast.Anonymous{Value: escapeURI(textOf(args[0]))}, nil
}

// fnFormat replaces %s, %d and %a placeholders in order. Upper case
// placeholders escape the value.
func fnFormat(_ *Context, args []ast.Expr) (ast.Expr, error) {
	if err := arity("%", args, 1, -1); err != nil {
		return nil, err
	}
	format, err := stringArg("%", args, 0)
	if err != nil {
		return nil, err
	}
	values := args[1:]
	b := strings.Builder{}
	for i := 0; i < len(format); i++ {
		ch := format[i]
		if ch != '%' || i+1 == len(format) {
			b.WriteByte(ch)
			continue
		}
		next := format[i+1]
		switch next {
		case 's', 'S', 'd', 'D', 'a', 'A':
			i++
			if len(values) == 0 {
				b.WriteByte('%')
				b.WriteByte(next)
				continue
			}
			v := values[0]
			values = values[1:]
			s := textOf(v)
			if next == 'd' || next == 'D' || next == 'a' || next == 'A' {
				if _, ok := v.(*ast.Quoted); ok {
					s = ast.InlineCSS(v)
				}
			}
			if next >= 'A' && next <= 'Z' {
				s = escapeURI(s)
			}
			b.WriteString(s)
		case '%':
			i++
			b.WriteByte('%')
		default:
			b.WriteByte(ch)
		}
	}
	return withQuote(args[0], b.String()), nil
}

// withQuote returns s in the string kind of like.
func withQuote(like ast.Expr, s string) ast.Expr {
	if q, ok := like.(*ast.Quoted); ok {
		return &ast.Quoted{
			Quote:   q.Quote,
			Parts:   []ast.StringPart{{Literal: s}},
			Escaped: q.Escaped,
		}
	}
	return &ast.Anonymous{Value: s}
}

// fnReplace uses RE2 syntax. The flags g (all matches) and i (case
// insensitive) are supported.
func fnReplace(_ *Context, args []ast.Expr) (ast.Expr, error) {
	if err := arity("replace", args, 3, 4); err != nil {
		return nil, err
	}
	s := textOf(args[0])
	pattern := textOf(args[1])
	replacement := textOf(args[2])
	flags := ""
	if len(args) == 4 {
		flags = textOf(args[3])
	}
	if strings.Contains(flags, "i") {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, argError("replace", err.Error())
	}
	var out string
	if strings.Contains(flags, "g") {
		out = re.ReplaceAllString(s, replacement)
	} else if loc := re.FindStringSubmatchIndex(s); loc != nil {
		var dst []byte
		dst = re.ExpandString(dst, replacement, s, loc)
		out = s[:loc[0]] + string(dst) + s[loc[1]:]
	} else {
		out = s
	}
	return withQuote(args[0], out), nil
}

// fnDataURI inlines a file relative to the current file. An explicit
// mime type without ";base64" selects URL encoding instead.
func fnDataURI(c *Context, args []ast.Expr) (ast.Expr, error) {
	if err := arity("data-uri", args, 1, 2); err != nil {
		return nil, err
	}
	p := textOf(args[len(args)-1])
	mimeType := ""
	if len(args) == 2 {
		mimeType = textOf(args[0])
	}
	fragment := ""
	if i := strings.IndexByte(p, '#'); i != -1 {
		p, fragment = p[:i], p[i:]
	}
	r := c.resolver().GetResolverFor(p)
	blob, err := c.read(r)
	if err != nil {
		return nil, errors.Tag(err, "data-uri("+p+")")
	}
	useBase64 := true
	if mimeType == "" {
		mimeType = mime.TypeByExtension(path.Ext(p))
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		if i := strings.IndexByte(mimeType, ';'); i != -1 {
			mimeType = mimeType[:i]
		}
		mimeType += ";base64"
	} else {
		useBase64 = strings.HasSuffix(mimeType, ";base64")
	}
	var data string
	if useBase64 {
		data = base64.StdEncoding.EncodeToString(blob)
	} else {
		data = url.PathEscape(string(blob))
	}
	return &ast.URL{Value: ast.NewQuoted(
		'"', "data:"+mimeType+","+data+fragment, false,
	)}, nil
}
