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
	"fmt"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/das7pad/lessc/pkg/errors"
)

// Minify rewrites css with esbuild's whitespace and syntax minification.
func Minify(css, f string) (string, error) {
	r := api.Transform(css, api.TransformOptions{
		Loader:           api.LoaderCSS,
		MinifyWhitespace: true,
		MinifySyntax:     true,
		Sourcefile:       f,
	})
	if len(r.Errors) > 0 {
		m := r.Errors[0]
		msg := m.Text
		if m.Location != nil {
			msg = fmt.Sprintf("%d:%d: %s", m.Location.Line, m.Location.Column, msg)
		}
		return "", errors.Tag(errors.New(msg), "minify "+f)
	}
	return string(r.Code), nil
}
