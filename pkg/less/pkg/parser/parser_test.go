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
	"fmt"
	"testing"

	"github.com/das7pad/lessc/pkg/errors"
	"github.com/das7pad/lessc/pkg/less/pkg/ast"
)

func mustParse(t *testing.T, s string) []ast.Statement {
	t.Helper()
	sheet, err := Parse(s, "test.less")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return sheet.Rules
}

func TestParse_ruleset(t *testing.T) {
	rules := mustParse(t, ".a { color: red; width: 1px + 2px; }")
	if len(rules) != 1 {
		t.Fatalf("got %d rules, want 1", len(rules))
	}
	r, ok := rules[0].(*ast.Ruleset)
	if !ok {
		t.Fatalf("got %T, want *ast.Ruleset", rules[0])
	}
	if got := r.Selectors.String(); got != ".a" {
		t.Errorf("selector = %q, want .a", got)
	}
	if len(r.Rules) != 2 {
		t.Fatalf("got %d declarations, want 2", len(r.Rules))
	}
	d0 := r.Rules[0].(*ast.Declaration)
	if c, ok := d0.Value.(*ast.Color); !ok || c.R != 255 || c.Raw != "red" {
		t.Errorf("color value = %v", d0.Value)
	}
	d1 := r.Rules[1].(*ast.Declaration)
	if o, ok := d1.Value.(*ast.Operation); !ok || o.Op != '+' || !o.Spaced {
		t.Errorf("width value = %v", d1.Value)
	}
}

func TestParse_selectors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "child combinator",
			src:  ".a > .b:hover {}",
			want: ".a > .b:hover",
		},
		{
			name: "descendant",
			src:  "ul   li a {}",
			want: "ul li a",
		},
		{
			name: "parent suffix",
			src:  "&-c, & + & {}",
			want: "&-c, & + &",
		},
		{
			name: "attribute and pseudo element",
			src:  "input[type=\"text\"]::placeholder {}",
			want: "input[type=\"text\"]::placeholder",
		},
		{
			name: "keyframe percentages",
			src:  "0%, 50% {}",
			want: "0%, 50%",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := mustParse(t, tt.src)
			r := rules[0].(*ast.Ruleset)
			if got := r.Selectors.String(); got != tt.want {
				t.Errorf("selectors = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParse_interpolatedSelector(t *testing.T) {
	rules := mustParse(t, ".col-@{i} {}")
	s := rules[0].(*ast.Ruleset).Selectors.Selectors[0]
	if !s.HasInterpolation() {
		t.Errorf("HasInterpolation() = false for %s", s)
	}
}

func TestParse_extend(t *testing.T) {
	rules := mustParse(t, ".b:extend(.d all) { x: y; &:extend(.e); }")
	r := rules[0].(*ast.Ruleset)
	if got := r.Selectors.String(); got != ".b" {
		t.Errorf("selector = %q, want .b", got)
	}
	e, ok := r.Rules[0].(*ast.Extend)
	if !ok || len(e.Targets) != 1 || !e.Targets[0].All ||
		e.Targets[0].Selector.String() != ".d" {
		t.Errorf("selector extend = %v", r.Rules[0])
	}
	e, ok = r.Rules[2].(*ast.Extend)
	if !ok || len(e.Targets) != 1 || e.Targets[0].All ||
		e.Targets[0].Selector.String() != ".e" {
		t.Errorf("statement extend = %v", r.Rules[2])
	}
}

func TestParse_variables(t *testing.T) {
	rules := mustParse(t, "@a: 1px !important;\n@b: { color: red; }\n@b();")
	if len(rules) != 3 {
		t.Fatalf("got %d rules, want 3", len(rules))
	}
	a := rules[0].(*ast.VariableDeclaration)
	if a.Name != "a" || !a.Important || a.Pos.Line != 1 {
		t.Errorf("@a = %+v", a)
	}
	b := rules[1].(*ast.VariableDeclaration)
	if d, ok := b.Value.(*ast.DetachedRuleset); !ok || len(d.Rules) != 1 {
		t.Errorf("@b = %v", b.Value)
	}
	c, ok := rules[2].(*ast.VariableCall)
	if !ok || c.Name != "b" || c.Pos.Line != 3 {
		t.Errorf("call = %v", rules[2])
	}
}

func TestParse_mixins(t *testing.T) {
	src := ".m(@a; @b: 2px; @rest...) when (@a > 0) and not (iscolor(@a)) {}\n" +
		".m(1px; @b: red) !important;\n" +
		"#ns > .m();"
	rules := mustParse(t, src)
	d := rules[0].(*ast.MixinDefinition)
	if d.Name.String() != ".m" || len(d.Params) != 3 || !d.IsVariadic() {
		t.Errorf("definition = %v", d)
	}
	if d.Params[1].Name != "b" || d.Params[1].Value == nil {
		t.Errorf("default param = %+v", d.Params[1])
	}
	g, ok := d.Guard.(*ast.Condition)
	if !ok || g.Op != "and" {
		t.Fatalf("guard = %v", d.Guard)
	}
	if l := g.LHS.(*ast.Condition); l.Op != ">" {
		t.Errorf("guard lhs = %v", l)
	}
	if r := g.RHS.(*ast.Condition); !r.Negate {
		t.Errorf("guard rhs = %v", r)
	}

	c := rules[1].(*ast.MixinCall)
	if !c.Important || len(c.Args) != 2 || c.Args[1].Name != "b" {
		t.Errorf("call = %+v", c)
	}
	ns := rules[2].(*ast.MixinCall)
	if got := ns.Selector.DropCombinators().String(); got != "#ns.m" {
		t.Errorf("namespaced call = %q", got)
	}
}

func TestParse_patternParams(t *testing.T) {
	rules := mustParse(t, ".m(dark; @c) {}\n.m(...) {}")
	d := rules[0].(*ast.MixinDefinition)
	if d.Params[0].Kind != ast.ParamPattern ||
		ast.InlineCSS(d.Params[0].Value) != "dark" {
		t.Errorf("pattern = %+v", d.Params[0])
	}
	v := rules[1].(*ast.MixinDefinition)
	if len(v.Params) != 1 || v.Params[0].Kind != ast.ParamVariadic ||
		v.Params[0].Name != "" {
		t.Errorf("variadic = %+v", v.Params)
	}
}

func TestParse_values(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
		typ  string
	}{
		{"list", "a: 1 -1", "1 -1", "*ast.Expression"},
		{"subtraction", "a: 1 - 1", "1 - 1", "*ast.Operation"},
		{"unspaced", "a: 1px*2", "1px*2", "*ast.Operation"},
		{"negated variable", "a: -@x", "-@x", "*ast.Negative"},
		{"comma list", "a: 1px, 2px", "1px, 2px", "*ast.ValueList"},
		{"escaped string", "a: ~\"raw\"", "raw", "*ast.Quoted"},
		{"url", "a: url(foo.png)", "url(foo.png)", "*ast.URL"},
		{"ie filter", "a: alpha(opacity=50)", "alpha(opacity=50)", "*ast.Anonymous"},
		{"hex", "a: #fff", "#fff", "*ast.Color"},
		{"call", "a: rgba(0, 0, 0, .5)", "rgba(0, 0, 0, 0.5)", "*ast.Call"},
		{"custom property", "--x: a  b", "a  b", "*ast.Anonymous"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := mustParse(t, tt.src)
			d := rules[0].(*ast.Declaration)
			if got := ast.InlineCSS(d.Value); got != tt.want {
				t.Errorf("value = %q, want %q", got, tt.want)
			}
			if got := fmt.Sprintf("%T", d.Value); got != tt.typ {
				t.Errorf("type = %s, want %s", got, tt.typ)
			}
		})
	}
}

func TestParse_atRules(t *testing.T) {
	src := "@import (reference, optional) \"foo\" screen;\n" +
		"@media screen and (max-width: 100px) { .a { b: c } }\n" +
		"@font-face { font-family: x; }\n" +
		"@charset \"UTF-8\";\n" +
		"each(@list, { a: b });"
	rules := mustParse(t, src)
	imp := rules[0].(*ast.Import)
	if !imp.Options.Reference || !imp.Options.Optional || imp.Options.Inline {
		t.Errorf("import options = %+v", imp.Options)
	}
	if q, ok := imp.Path.(*ast.Quoted); !ok || q.Text() != "foo" {
		t.Errorf("import path = %v", imp.Path)
	}
	if imp.Features == nil || ast.InlineCSS(imp.Features) != "screen" {
		t.Errorf("import features = %v", imp.Features)
	}
	m := rules[1].(*ast.Media)
	if got := ast.InlineCSS(m.Features); got != "screen and (max-width: 100px)" {
		t.Errorf("media features = %q", got)
	}
	ff := rules[2].(*ast.AtRule)
	if ff.Name != "font-face" || !ff.HasBlock || ff.Prelude != nil {
		t.Errorf("font-face = %+v", ff)
	}
	cs := rules[3].(*ast.AtRule)
	if cs.HasBlock || ast.InlineCSS(cs.Prelude) != "\"UTF-8\"" {
		t.Errorf("charset = %+v", cs)
	}
	if c, ok := rules[4].(*ast.CallStatement); !ok || c.Call.Name != "each" {
		t.Errorf("each = %v", rules[4])
	}
}

func TestParse_errors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantLine int
	}{
		{"missing brace", ".a {\n  color: red;\n", 2},
		{"stray brace", "}\n", 1},
		{"unterminated string", "a {\n b: \"x\n}", 2},
		{"unterminated comment", "/* x", 1},
		{"positional after named", ".a {}\n.a(@x: 1; 2);", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src, "test.less")
			if err == nil {
				t.Fatal("Parse() error = nil")
			}
			var se *errors.SyntaxError
			if errors.As(err, &se) {
				if se.Line != tt.wantLine {
					t.Errorf("line = %d, want %d", se.Line, tt.wantLine)
				}
				return
			}
			if !errors.IsInvalidMixinCallError(err) {
				t.Errorf("unexpected error type %T: %v", err, err)
			}
		})
	}
}
