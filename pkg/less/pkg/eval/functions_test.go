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
	"reflect"
	"testing"

	"github.com/das7pad/lessc/pkg/less/pkg/ast"
)

func callBuiltin(t *testing.T, name string, args ...ast.Expr) ast.Expr {
	t.Helper()
	fn, ok := builtins[name]
	if !ok {
		t.Fatalf("no builtin %q", name)
	}
	v, err := fn(nil, args)
	if err != nil {
		t.Fatalf("%s() error = %v", name, err)
	}
	return v
}

func TestBuiltins(t *testing.T) {
	tests := []struct {
		name string
		fn   string
		args []ast.Expr
		want string
	}{
		{"multiply", "multiply", []ast.Expr{
			ast.NewColor(0xff, 0x66, 0, 1), ast.NewColor(0x99, 0x99, 0x99, 1),
		}, "#993d00"},
		{"average", "average", []ast.Expr{
			ast.NewColor(0xff, 0x66, 0, 1), ast.NewColor(0, 0, 0, 1),
		}, "#803300"},
		{"escape", "escape", []ast.Expr{
			ast.NewQuoted('"', "a=1 (b)", false),
		}, "a%3D1%20%28b%29"},
		{"format escapes upper case", "%", []ast.Expr{
			ast.NewQuoted('"', "url=%S", false), ast.NewQuoted('"', "a b", false),
		}, "\"url=a%20b\""},
		{"format percent", "%", []ast.Expr{
			ast.NewQuoted('\'', "100%%", false),
		}, "'100%'"},
		{"replace all, case insensitive", "replace", []ast.Expr{
			ast.NewIdentifier("aAa"), ast.NewQuoted('"', "a", false),
			ast.NewQuoted('"', "b", false), ast.NewQuoted('"', "gi", false),
		}, "bbb"},
		{"range with step", "range", []ast.Expr{
			&ast.Number{Value: 10, Unit: "px"}, &ast.Number{Value: 30},
			&ast.Number{Value: 10},
		}, "10 20 30"},
		{"range unit from the end", "range", []ast.Expr{
			&ast.Number{Value: 1}, &ast.Number{Value: 2, Unit: "px"},
		}, "1px 2px"},
		{"max", "max", []ast.Expr{
			&ast.Number{Value: 1, Unit: "px"}, &ast.Number{Value: 3},
		}, "3px"},
		{"get-unit", "get-unit", []ast.Expr{
			&ast.Number{Value: 1, Unit: "em"},
		}, "em"},
		{"mod keeps the left unit", "mod", []ast.Expr{
			&ast.Number{Value: 11, Unit: "px"}, &ast.Number{Value: 3},
		}, "2px"},
		{"greyscale", "greyscale", []ast.Expr{
			ast.NewColor(0xff, 0, 0, 1),
		}, "#808080"},
		{"tint", "tint", []ast.Expr{
			ast.NewColor(0, 0, 0, 1), &ast.Number{Value: 50, Unit: "%"},
		}, "#808080"},
		{"isunit", "isunit", []ast.Expr{
			&ast.Number{Value: 1, Unit: "rem"}, ast.NewIdentifier("rem"),
		}, "true"},
		{"luma", "luma", []ast.Expr{
			ast.NewColor(0xff, 0xff, 0xff, 1),
		}, "100%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ast.InlineCSS(callBuiltin(t, tt.fn, tt.args...))
			if got != tt.want {
				t.Errorf("%s() = %v, want %v", tt.fn, got, tt.want)
			}
		})
	}
}

func TestBuiltins_passThrough(t *testing.T) {
	tests := []struct {
		name string
		fn   string
		args []ast.Expr
	}{
		{"rgb with variables", "rgb", []ast.Expr{
			ast.NewIdentifier("var(--r)"), &ast.Number{Value: 0},
			&ast.Number{Value: 0},
		}},
		{"min with mixed units", "min", []ast.Expr{
			&ast.Number{Value: 1, Unit: "px"}, &ast.Number{Value: 1, Unit: "vw"},
		}},
		{"empty range", "range", []ast.Expr{
			&ast.Number{Value: 0},
		}},
		{"descending range", "range", []ast.Expr{
			&ast.Number{Value: 5}, &ast.Number{Value: 1},
		}},
		{"extract out of range", "extract", []ast.Expr{
			ast.NewIdentifier("a"), &ast.Number{Value: 3},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := callBuiltin(t, tt.fn, tt.args...); got != nil {
				t.Errorf("%s() = %v, want pass through", tt.fn, got)
			}
		})
	}
}

func TestBuiltins_dataURI(t *testing.T) {
	got, deps, err := compileFiles(memFS{
		"main.less": ".t {\n" +
			"  a: data-uri(\"img/x.png\");\n" +
			"  b: data-uri(\"image/svg+xml\", \"i.svg#frag\");\n" +
			"}",
		"img/x.png": "x",
		"i.svg":     "<svg/>",
	}, Options{})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	want := ".t {\n" +
		"  a: url(\"data:image/png;base64,eA==\");\n" +
		"  b: url(\"data:image/svg+xml,%3Csvg%2F%3E#frag\");\n" +
		"}\n"
	if got != want {
		t.Errorf("Evaluate() =\n%s\nwant\n%s", got, want)
	}
	if wantDeps := []string{"img/x.png", "i.svg"}; !reflect.DeepEqual(deps, wantDeps) {
		t.Errorf("Evaluate() deps = %v, want %v", deps, wantDeps)
	}
}
