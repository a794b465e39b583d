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

package color

import (
	"github.com/mazznoer/csscolorparser"
)

// Parse reads any CSS color notation: hex, named colors and the
// functional rgb()/hsl() forms.
func Parse(s string) (RGBA, error) {
	c, err := csscolorparser.Parse(s)
	if err != nil {
		return RGBA{}, err
	}
	return RGBA{R: c.R * 255, G: c.G * 255, B: c.B * 255, A: c.A}, nil
}

// IsKeyword reports whether s is a named color like "red".
func IsKeyword(s string) bool {
	if len(s) < 3 || s == "none" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('a' <= c && c <= 'z') && !('A' <= c && c <= 'Z') {
			return false
		}
	}
	_, err := csscolorparser.Parse(s)
	return err == nil
}
