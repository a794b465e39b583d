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
	"path/filepath"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/das7pad/lessc/pkg/errors"
)

// Plugin compiles .less files for esbuild. Imported files are reported
// for watch mode, also when the compilation fails.
func Plugin(c *Compiler) api.Plugin {
	return api.Plugin{
		Name: "lessLoader",
		Setup: func(build api.PluginBuild) {
			build.OnLoad(api.OnLoadOptions{
				Filter: "\\.less$",
			}, func(args api.OnLoadArgs) (api.OnLoadResult, error) {
				return c.render(args)
			})
		},
	}
}

func (c *Compiler) render(args api.OnLoadArgs) (api.OnLoadResult, error) {
	s, files, err := c.Compile(args.Path)
	if err != nil {
		r := api.OnLoadResult{WatchFiles: files}
		return r, errors.Tag(err, args.Path)
	}
	return api.OnLoadResult{
		Contents:   &s,
		ResolveDir: filepath.Dir(args.Path),
		Loader:     api.LoaderCSS,
		WatchFiles: files,
	}, nil
}
