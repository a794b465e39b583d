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
	"path/filepath"
)

// FileResolver reads one file and resolves paths relative to it.
type FileResolver interface {
	GetContent() ([]byte, error)
	GetResolverFor(relativePath string) FileResolver
	CurrentFile() string
	BasePath() string
}

type ReadFunc func(name string) ([]byte, error)

// New returns a FileResolver for file that reads through read, e.g.
// os.ReadFile or fs.ReadFile bound to an fs.FS.
func New(read ReadFunc, file string) FileResolver {
	return &fileResolver{read: read, file: filepath.Clean(file)}
}

type fileResolver struct {
	read ReadFunc
	file string
}

func (r *fileResolver) GetContent() ([]byte, error) {
	return r.read(r.file)
}

func (r *fileResolver) GetResolverFor(p string) FileResolver {
	if !filepath.IsAbs(p) {
		p = filepath.Join(r.BasePath(), p)
	}
	return New(r.read, p)
}

func (r *fileResolver) CurrentFile() string {
	return r.file
}

func (r *fileResolver) BasePath() string {
	return filepath.Dir(r.file)
}
