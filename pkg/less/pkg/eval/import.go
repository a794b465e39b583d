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
	"path"
	"strings"

	"github.com/das7pad/lessc/pkg/errors"
	"github.com/das7pad/lessc/pkg/less/pkg/ast"
	"github.com/das7pad/lessc/pkg/less/pkg/resolver"
)

type importKind uint8

const (
	importSkip importKind = iota
	importPassThrough
	importInline
	importLess
)

type importResult struct {
	kind     importKind
	path     ast.Expr
	name     string
	resolver resolver.FileResolver
	tree     *ast.Stylesheet
	content  string
}

func importPath(v ast.Expr) string {
	if u, ok := v.(*ast.URL); ok {
		return textOf(u.Value)
	}
	return textOf(v)
}

func isLocalPath(p string) bool {
	return !strings.Contains(p, "://") && !strings.HasPrefix(p, "//") &&
		!strings.HasPrefix(p, "data:")
}

// read fetches a file and records it as a dependency.
func (c *Context) read(r resolver.FileResolver) ([]byte, error) {
	blob, err := r.GetContent()
	if err != nil {
		return nil, err
	}
	c.addFile(r.CurrentFile())
	return blob, nil
}

func (c *Context) resolveImport(imp *ast.Import) (*importResult, error) {
	c.noRewrite++
	v, err := c.evalExpr(imp.Path)
	c.noRewrite--
	if err != nil {
		return nil, err
	}
	p := importPath(v)
	o := imp.Options
	res := &importResult{path: v}
	if o.CSS || !isLocalPath(p) ||
		(path.Ext(p) == ".css" && !o.Less && !o.Inline) {
		res.kind = importPassThrough
		return res, nil
	}
	if path.Ext(p) == "" && !o.Inline {
		p += ".less"
	}
	r := c.resolver().GetResolverFor(p)
	res.name = r.CurrentFile()
	res.resolver = r
	if c.hoisting[res.name] {
		return res, nil
	}
	if !o.Inline {
		if tree, ok := c.parsed[res.name]; ok {
			res.kind = importLess
			res.tree = tree
			return res, nil
		}
	}
	blob, err := c.read(r)
	if err != nil {
		if o.Optional {
			return res, nil
		}
		return nil, errors.NewImportError(p, err)
	}
	if o.Inline {
		res.kind = importInline
		res.content = string(blob)
		return res, nil
	}
	tree, err := c.o.Parse(string(blob), res.name)
	if err != nil {
		return nil, errors.NewImportError(p, err)
	}
	c.parsed[res.name] = tree
	res.kind = importLess
	res.tree = tree
	return res, nil
}

// hoistImport loads a LESS import and declares its definitions in the
// current scope.
func (c *Context) hoistImport(imp *ast.Import) error {
	res, err := c.resolveImport(imp)
	if err != nil {
		return err
	}
	c.imports[imp] = res
	if res.kind != importLess {
		return nil
	}
	c.hoisting[res.name] = true
	defer delete(c.hoisting, res.name)
	defer c.pushResolver(res.resolver)()
	return c.hoist(res.tree.Rules)
}

// once reports whether the import was seen before and marks it. Imports
// within reference content are never marked.
func (c *Context) once(imp *ast.Import, name string) bool {
	if imp.Options.Multiple {
		return false
	}
	if imp.Options.Reference || c.isReference() {
		return false
	}
	if c.seen[name] {
		return true
	}
	c.seen[name] = true
	return false
}

func (c *Context) evalImport(imp *ast.Import, out *output) error {
	res, ok := c.imports[imp]
	if !ok {
		var err error
		if res, err = c.resolveImport(imp); err != nil {
			return err
		}
	}
	switch res.kind {
	case importPassThrough:
		if c.isReference() || imp.Options.Reference {
			return nil
		}
		features, err := c.evalMediaFeatures(imp.Features)
		if err != nil {
			return err
		}
		p := res.path
		if c.o.RelativeURLs {
			if u, isURL := p.(*ast.URL); isURL {
				p = &ast.URL{Value: c.rewriteURL(u.Value)}
			} else {
				p = c.rewriteURL(p)
			}
		}
		c.addCSSImport(&ast.Import{
			Path:     p,
			Features: features,
			Options:  imp.Options,
			Pos:      imp.Pos,
		})
	case importInline:
		if c.once(imp, res.name) || imp.Options.Reference || c.isReference() {
			return nil
		}
		out.addMedia(&ast.Anonymous{
			Value: strings.TrimSpace(res.content) + "\n",
		})
	case importLess:
		if c.once(imp, res.name) {
			return nil
		}
		defer c.pushResolver(res.resolver)()
		if imp.Options.Reference {
			c.reference++
			defer func() {
				c.reference--
			}()
		}
		if imp.Features != nil {
			return c.evalMedia(&ast.Media{
				Name:     "media",
				Features: imp.Features,
				Rules:    res.tree.Rules,
				Pos:      imp.Pos,
			}, out)
		}
		return c.evalStatements(res.tree.Rules, out)
	}
	return nil
}

func (c *Context) addCSSImport(imp *ast.Import) {
	s := ast.InlineCSS(imp)
	for _, o := range c.cssImports {
		if ast.InlineCSS(o) == s {
			return
		}
	}
	c.cssImports = append(c.cssImports, imp)
}

// placeCSSImports moves plain CSS imports to the top, after @charset.
func (c *Context) placeCSSImports(rules []ast.Statement) []ast.Statement {
	var charset ast.Statement
	out := make([]ast.Statement, 0, len(rules)+len(c.cssImports))
	for _, s := range rules {
		if a, ok := s.(*ast.AtRule); ok && strings.EqualFold(a.Name, "charset") {
			if charset == nil && !a.IsReference {
				charset = a
			}
			continue
		}
		out = append(out, s)
	}
	head := make([]ast.Statement, 0, len(c.cssImports)+1)
	if charset != nil {
		head = append(head, charset)
	}
	head = append(head, c.cssImports...)
	return append(head, out...)
}
