// Golang port of Overleaf
// Copyright (C) 2021-2023 Jakob Ackermann <das7pad@outlook.com>
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

package less

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/das7pad/lessc/pkg/errors"
	"github.com/das7pad/lessc/pkg/less/pkg/ast"
	"github.com/das7pad/lessc/pkg/less/pkg/eval"
	"github.com/das7pad/lessc/pkg/less/pkg/parser"
	"github.com/das7pad/lessc/pkg/less/pkg/resolver"
)

type Options struct {
	// StrictMath only reduces math inside parentheses.
	StrictMath bool
	// RelativeURLs rewrites url() values of imported files relative to
	// the entry file.
	RelativeURLs bool
	// Compress drops optional whitespace from the output.
	Compress bool
	// Minify post-processes the output with esbuild.
	Minify bool

	IndentChar  byte
	IndentWidth int
}

func (o Options) Validate() error {
	switch o.IndentChar {
	case 0, ' ', '\t':
	default:
		return &errors.ValidationError{Msg: "indent must use spaces or tabs"}
	}
	if o.IndentWidth < 0 || o.IndentWidth > 8 {
		return &errors.ValidationError{Msg: "indent width must be in 0..8"}
	}
	return nil
}

func (o Options) writerOptions() ast.WriterOptions {
	return ast.WriterOptions{
		IndentChar:  o.IndentChar,
		IndentWidth: o.IndentWidth,
		Compress:    o.Compress,
	}
}

// Compile renders the stylesheet f. The returned list of files starts
// with f, followed by every file read while evaluating it.
func Compile(f string, o Options) (string, []string, error) {
	return CompileUsing(os.ReadFile, f, o)
}

func CompileUsing(read resolver.ReadFunc, f string, o Options) (string, []string, error) {
	if err := o.Validate(); err != nil {
		return "", nil, err
	}
	c := Compiler{o: o}
	return c.CompileUsing(read, f)
}

// Compiler shares parsed stylesheets between compilations.
type Compiler struct {
	o      Options
	parsed *lru.Cache[parseKey, *ast.Stylesheet]
	group  singleflight.Group
}

type parseKey struct {
	file string
	sum  [sha256.Size]byte
}

func (k parseKey) String() string {
	return k.file + ":" + hex.EncodeToString(k.sum[:])
}

func WithCache(size int, o Options) (*Compiler, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	parsed, err := lru.New[parseKey, *ast.Stylesheet](size)
	if err != nil {
		return nil, errors.Tag(err, "create parse cache")
	}
	return &Compiler{o: o, parsed: parsed}, nil
}

func (c *Compiler) Compile(f string) (string, []string, error) {
	return c.CompileUsing(os.ReadFile, f)
}

func (c *Compiler) CompileUsing(read resolver.ReadFunc, f string) (string, []string, error) {
	f = filepath.Clean(f)
	r := resolver.New(read, f)
	blob, err := r.GetContent()
	if err != nil {
		if os.IsNotExist(err) {
			err = &errors.NotFoundError{}
		}
		return "", nil, errors.Tag(err, "read "+f)
	}
	files := []string{f}
	root, err := c.parse(string(blob), f)
	if err != nil {
		return "", files, err
	}
	out, imports, err := eval.Evaluate(root, r, eval.Options{
		StrictMath:   c.o.StrictMath,
		RelativeURLs: c.o.RelativeURLs,
		Parse:        c.parse,
	})
	files = append(files, imports...)
	if err != nil {
		return "", files, err
	}
	s := ast.CSS(out, c.o.writerOptions())
	if c.o.Minify {
		if s, err = Minify(s, f); err != nil {
			return "", files, err
		}
	}
	return s, files, nil
}

func (c *Compiler) parse(s, f string) (*ast.Stylesheet, error) {
	if c.parsed == nil {
		return parser.Parse(s, f)
	}
	k := parseKey{file: f, sum: sha256.Sum256([]byte(s))}
	if tree, ok := c.parsed.Get(k); ok {
		return tree, nil
	}
	v, err, _ := c.group.Do(k.String(), func() (interface{}, error) {
		tree, err := parser.Parse(s, f)
		if err != nil {
			return nil, err
		}
		c.parsed.Add(k, tree)
		return tree, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*ast.Stylesheet), nil
}
