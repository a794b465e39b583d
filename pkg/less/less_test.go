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
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/das7pad/lessc/pkg/errors"
)

type fakeFS map[string]string

func (f fakeFS) ReadFile(name string) ([]byte, error) {
	s, ok := f[filepath.ToSlash(name)]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(s), nil
}

func diffCSS(t *testing.T, got, want string) {
	t.Helper()
	if got == want {
		return
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(want, got, false)
	t.Errorf("CSS mismatch, diff:\n%s", dmp.DiffPrettyText(diffs))
}

func TestCompileUsing(t *testing.T) {
	type args struct {
		read fakeFS
		f    string
		o    Options
	}
	tests := []struct {
		name    string
		args    args
		want    string
		want1   []string
		wantErr bool
	}{
		{
			name: "plain css",
			args: args{
				read: fakeFS{"in.less": ".btn { color: red; }"},
				f:    "in.less",
			},
			want:  ".btn {\n  color: red;\n}\n",
			want1: []string{"in.less"},
		},
		{
			name: "imports",
			args: args{
				read: fakeFS{
					"in.less":   "@import \"vars\";\n.btn { color: @c; }",
					"vars.less": "@c: #f00;",
				},
				f: "in.less",
			},
			want:  ".btn {\n  color: #f00;\n}\n",
			want1: []string{"in.less", "vars.less"},
		},
		{
			name: "imports below a folder",
			args: args{
				read: fakeFS{
					"css/in.less":   "@import \"vars\";\n.btn { color: @c; }",
					"css/vars.less": "@c: blue;",
				},
				f: "css/in.less",
			},
			want:  ".btn {\n  color: blue;\n}\n",
			want1: []string{"css/in.less", "css/vars.less"},
		},
		{
			name: "compress",
			args: args{
				read: fakeFS{"in.less": ".a { b: 0.5px; }\n.c { d: e; }"},
				f:    "in.less",
				o:    Options{Compress: true},
			},
			want:  ".a{b:.5px;}.c{d:e;}",
			want1: []string{"in.less"},
		},
		{
			name: "tabs",
			args: args{
				read: fakeFS{"in.less": ".a { .b { c: d; } }"},
				f:    "in.less",
				o:    Options{IndentChar: '\t', IndentWidth: 1},
			},
			want:  ".a .b {\n\tc: d;\n}\n",
			want1: []string{"in.less"},
		},
		{
			name: "strict math",
			args: args{
				read: fakeFS{"in.less": ".a { b: 1px + 1px; c: (1px + 1px); }"},
				f:    "in.less",
				o:    Options{StrictMath: true},
			},
			want:  ".a {\n  b: 1px + 1px;\n  c: 2px;\n}\n",
			want1: []string{"in.less"},
		},
		{
			name: "missing entry",
			args: args{
				read: fakeFS{},
				f:    "in.less",
			},
			wantErr: true,
		},
		{
			name: "error in import keeps the file list",
			args: args{
				read: fakeFS{
					"in.less":  "@import \"bad\";",
					"bad.less": ".a { b: @missing; }",
				},
				f: "in.less",
			},
			want1:   []string{"in.less", "bad.less"},
			wantErr: true,
		},
		{
			name: "invalid options",
			args: args{
				read: fakeFS{"in.less": ""},
				f:    "in.less",
				o:    Options{IndentChar: 'x'},
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, got1, err := CompileUsing(tt.args.read.ReadFile, tt.args.f, tt.args.o)
			if (err != nil) != tt.wantErr {
				t.Errorf("CompileUsing() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			diffCSS(t, got, tt.want)
			if !reflect.DeepEqual(got1, tt.want1) {
				t.Errorf("CompileUsing() got1 = %v, want %v", got1, tt.want1)
			}
		})
	}
}

func TestCompileUsing_errorKinds(t *testing.T) {
	_, _, err := CompileUsing(fakeFS{}.ReadFile, "in.less", Options{})
	if !errors.IsNotFoundError(err) {
		t.Errorf("CompileUsing() error = %v, want not found", err)
	}
	_, _, err = CompileUsing(fakeFS{"in.less": ".a {"}.ReadFile, "in.less", Options{})
	if !errors.IsSyntaxError(err) {
		t.Errorf("CompileUsing() error = %v, want syntax error", err)
	}
	_, _, err = CompileUsing(fakeFS{"in.less": ""}.ReadFile, "in.less", Options{IndentWidth: 9})
	if !errors.IsValidationError(err) {
		t.Errorf("CompileUsing() error = %v, want validation error", err)
	}
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		o       Options
		wantErr bool
	}{
		{"zero", Options{}, false},
		{"tabs", Options{IndentChar: '\t', IndentWidth: 1}, false},
		{"spaces", Options{IndentChar: ' ', IndentWidth: 4}, false},
		{"other char", Options{IndentChar: '-'}, true},
		{"negative width", Options{IndentWidth: -1}, true},
		{"wide", Options{IndentWidth: 9}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.o.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMinify(t *testing.T) {
	got, err := Minify(".a {\n  display: block;\n}\n.b {\n  display: none;\n}\n", "in.less")
	if err != nil {
		t.Fatalf("Minify() error = %v", err)
	}
	diffCSS(t, strings.TrimSpace(got), ".a{display:block}.b{display:none}")
}

func TestCompileUsing_minify(t *testing.T) {
	got, _, err := CompileUsing(fakeFS{
		"in.less": "@d: block;\n.a { display: @d; }",
	}.ReadFile, "in.less", Options{Minify: true})
	if err != nil {
		t.Fatalf("CompileUsing() error = %v", err)
	}
	diffCSS(t, strings.TrimSpace(got), ".a{display:block}")
}

func TestWithCache(t *testing.T) {
	c, err := WithCache(10, Options{})
	if err != nil {
		t.Fatalf("WithCache() error = %v", err)
	}
	files := fakeFS{
		"in.less":   "@import \"vars\";\n.a { b: @v; }",
		"vars.less": "@v: 1;",
	}
	for i := 0; i < 2; i++ {
		got, _, err := c.CompileUsing(files.ReadFile, "in.less")
		if err != nil {
			t.Fatalf("CompileUsing() error = %v", err)
		}
		diffCSS(t, got, ".a {\n  b: 1;\n}\n")
	}
	if n := c.parsed.Len(); n != 2 {
		t.Errorf("parse cache has %d entries, want 2", n)
	}

	files["vars.less"] = "@v: 2;"
	got, _, err := c.CompileUsing(files.ReadFile, "in.less")
	if err != nil {
		t.Fatalf("CompileUsing() error = %v", err)
	}
	diffCSS(t, got, ".a {\n  b: 2;\n}\n")
	if n := c.parsed.Len(); n != 3 {
		t.Errorf("parse cache has %d entries, want 3", n)
	}
}

func TestWithCache_invalid(t *testing.T) {
	if _, err := WithCache(0, Options{}); err == nil {
		t.Error("WithCache(0) error = nil")
	}
	if _, err := WithCache(1, Options{IndentChar: 'x'}); !errors.IsValidationError(err) {
		t.Errorf("WithCache() error = %v, want validation error", err)
	}
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, s := range files {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(s), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestPlugin(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"in.less":   "@import \"vars\";\n.a { display: @d; }",
		"vars.less": "@d: block;",
	})
	c, err := WithCache(10, Options{})
	if err != nil {
		t.Fatalf("WithCache() error = %v", err)
	}
	r := api.Build(api.BuildOptions{
		EntryPoints: []string{filepath.Join(dir, "in.less")},
		Bundle:      true,
		Write:       false,
		LogLevel:    api.LogLevelSilent,
		Plugins:     []api.Plugin{Plugin(c)},
	})
	if len(r.Errors) > 0 {
		t.Fatalf("Build() errors = %v", r.Errors)
	}
	if len(r.OutputFiles) != 1 {
		t.Fatalf("Build() produced %d files, want 1", len(r.OutputFiles))
	}
	if s := string(r.OutputFiles[0].Contents); !strings.Contains(s, "display: block") {
		t.Errorf("Build() output = %q, missing compiled rule", s)
	}
}

func TestPlugin_watchFilesOnError(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"in.less":  "@import \"bad\";",
		"bad.less": ".a { b: @missing; }",
	})
	c, err := WithCache(10, Options{})
	if err != nil {
		t.Fatalf("WithCache() error = %v", err)
	}
	r, err := c.render(api.OnLoadArgs{Path: filepath.Join(dir, "in.less")})
	if !errors.IsUndefinedVariableError(err) {
		t.Errorf("render() error = %v, want undefined variable", err)
	}
	want := []string{filepath.Join(dir, "in.less"), filepath.Join(dir, "bad.less")}
	if !reflect.DeepEqual(r.WatchFiles, want) {
		t.Errorf("render() WatchFiles = %v, want %v", r.WatchFiles, want)
	}
}
