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

package resolver

import (
	"io/fs"
	"testing"
)

type fakeFS map[string]string

func (f fakeFS) ReadFile(name string) ([]byte, error) {
	s, ok := f[name]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(s), nil
}

func TestFileResolver_GetResolverFor(t *testing.T) {
	type args struct {
		file string
		rel  string
	}
	tests := []struct {
		name     string
		args     args
		wantFile string
		wantBase string
	}{
		{
			name:     "sibling",
			args:     args{file: "in.less", rel: "other.less"},
			wantFile: "other.less",
			wantBase: ".",
		},
		{
			name:     "parent folder",
			args:     args{file: "foo/bar/baz.less", rel: "../../public/other.less"},
			wantFile: "public/other.less",
			wantBase: "public",
		},
		{
			name:     "absolute",
			args:     args{file: "foo/bar/baz.less", rel: "/abs/x.less"},
			wantFile: "/abs/x.less",
			wantBase: "/abs",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(fakeFS{}.ReadFile, tt.args.file).GetResolverFor(tt.args.rel)
			if got := r.CurrentFile(); got != tt.wantFile {
				t.Errorf("CurrentFile() = %v, want %v", got, tt.wantFile)
			}
			if got := r.BasePath(); got != tt.wantBase {
				t.Errorf("BasePath() = %v, want %v", got, tt.wantBase)
			}
		})
	}
}

func TestFileResolver_GetContent(t *testing.T) {
	read := fakeFS{"a/b.less": "x"}.ReadFile
	r := New(read, "a/c.less").GetResolverFor("b.less")
	got, err := r.GetContent()
	if err != nil {
		t.Fatalf("GetContent() error = %v", err)
	}
	if string(got) != "x" {
		t.Errorf("GetContent() = %q, want %q", got, "x")
	}
	if _, err = New(read, "missing.less").GetContent(); err == nil {
		t.Errorf("GetContent() expected error for missing file")
	}
}
