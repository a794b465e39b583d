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
	"strings"
	"testing"
)

func sel(values ...string) *Selector {
	elements := make([]Element, 0, len(values))
	for _, v := range values {
		switch v {
		case "&":
			elements = append(elements, Element{Kind: ElementParent, Value: v})
		case ">", "+", "~":
			elements = append(elements, Element{Kind: ElementCombinator, Value: v})
		case " ":
			elements[len(elements)-1].Whitespace = true
		default:
			elements = append(elements, Element{Kind: ElementSimple, Value: v})
		}
	}
	return NewSelector(elements)
}

func list(s ...*Selector) *SelectorList {
	return &SelectorList{Selectors: s}
}

func TestSelector_Inherit(t *testing.T) {
	tests := []struct {
		name    string
		s       *Selector
		parents *SelectorList
		want    string
	}{
		{"root", sel(".a"), nil, ".a"},
		{"root drops parent refs", sel("&", ".a"), nil, ".a"},
		{"descendant", sel(".b"), list(sel(".a")), ".a .b"},
		{"suffix", sel("&", ":hover"), list(sel(".a"), sel(".b")), ".a:hover, .b:hover"},
		{"combinator", sel("&", ">", ".c"), list(sel(".a")), ".a > .c"},
		{"trailing parent", sel(".x", " ", "&"), list(sel(".a")), ".x .a"},
		{"two parent refs", sel("&", "+", "&"), list(sel(".a"), sel(".b")),
			".a + .a, .a + .b, .b + .a, .b + .b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := list(tt.s.Inherit(tt.parents)...).String()
			if got != tt.want {
				t.Errorf("Inherit() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSelector_Replace(t *testing.T) {
	tests := []struct {
		name   string
		s      *Selector
		target *Selector
		want   string
		wantOK bool
	}{
		{"middle", sel(".x", " ", ".a", " ", ".y"), sel(".a"), ".x .n .y", true},
		{"compound", sel(".a", ":hover"), sel(".a"), ".n:hover", true},
		{"every occurrence", sel(".a", ">", ".a"), sel(".a"), ".n > .n", true},
		{"missing", sel(".b"), sel(".a"), ".b", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.s.Replace(tt.target, sel(".n"))
			if ok != tt.wantOK {
				t.Fatalf("Replace() ok = %v, want %v", ok, tt.wantOK)
			}
			if got.String() != tt.want {
				t.Errorf("Replace() = %q, want %q", got.String(), tt.want)
			}
		})
	}
}

func TestSelector_IsCallable(t *testing.T) {
	tests := []struct {
		s    *Selector
		want bool
	}{
		{sel(".a"), true},
		{sel("#ns"), true},
		{sel("div"), false},
		{sel(".a", ":hover"), false},
	}
	for _, tt := range tests {
		if got := tt.s.IsCallable(); got != tt.want {
			t.Errorf("%s.IsCallable() = %v, want %v", tt.s, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		v        float64
		compress bool
		want     string
	}{
		{10, false, "10"},
		{0.5, false, "0.5"},
		{0.5, true, ".5"},
		{-0.25, true, "-.25"},
		{1.0 / 3, false, "0.33333333"},
		{-0.000000001, false, "0"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.v, tt.compress); got != tt.want {
			t.Errorf("FormatNumber(%v, %v) = %q, want %q", tt.v, tt.compress, got, tt.want)
		}
	}
}

func TestCSS(t *testing.T) {
	sheet := &Stylesheet{Rules: []Statement{
		&Comment{Value: "/* c */"},
		&Ruleset{
			Selectors: list(sel(".a"), sel(".b")),
			Rules: []Statement{
				&Declaration{
					Name:  NewIdentifier("color"),
					Value: NewColor(0xff, 0xff, 0xff, 1),
				},
				&Declaration{
					Name:      NewIdentifier("margin"),
					Value:     &Expression{Values: []Expr{&Number{Value: 0.5, Unit: "em"}, &Number{}}},
					Important: true,
				},
			},
		},
		&Ruleset{Selectors: list(sel(".hidden")), IsReference: true, Rules: []Statement{
			&Declaration{Name: NewIdentifier("x"), Value: NewIdentifier("y")},
		}},
		&Media{
			Name:     "media",
			Features: NewIdentifier("print"),
			Rules: []Statement{&Ruleset{
				Selectors: list(sel(".c")),
				Rules: []Statement{&Declaration{
					Name:  NewIdentifier("a"),
					Value: NewColor(0, 0, 0, 0.5),
				}},
			}},
		},
	}}
	tests := []struct {
		name string
		o    WriterOptions
		want string
	}{
		{
			name: "pretty",
			want: "/* c */\n" +
				".a,\n.b {\n  color: #ffffff;\n  margin: 0.5em 0 !important;\n}\n" +
				"@media print {\n  .c {\n    a: rgba(0, 0, 0, 0.5);\n  }\n}\n",
		},
		{
			name: "compress",
			o:    WriterOptions{Compress: true},
			want: ".a,.b{color:#fff;margin:.5em 0!important;}" +
				"@media print{.c{a:rgba(0,0,0,.5);}}",
		},
		{
			name: "tabs",
			o:    WriterOptions{IndentChar: '\t', IndentWidth: 1},
			want: "/* c */\n" +
				".a,\n.b {\n\tcolor: #ffffff;\n\tmargin: 0.5em 0 !important;\n}\n" +
				"@media print {\n\t.c {\n\t\ta: rgba(0, 0, 0, 0.5);\n\t}\n}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CSS(sheet, tt.o); got != tt.want {
				t.Errorf("CSS() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestDump(t *testing.T) {
	sheet := &Stylesheet{File: "x.less", Rules: []Statement{
		&Ruleset{Selectors: list(sel(".a")), Rules: []Statement{
			&Declaration{Name: NewIdentifier("b"), Value: NewIdentifier("c")},
		}},
	}}
	got := Dump(sheet)
	for _, want := range []string{"Stylesheet(x.less, 1 rules)", "Ruleset(.a)", "b: Identifier(c)"} {
		if !strings.Contains(got, want) {
			t.Errorf("Dump() = %q, missing %q", got, want)
		}
	}
}
