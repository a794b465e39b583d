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

package listenAddress

import (
	"strconv"
	"strings"
)

// Parse splits a comma separated list of listen addresses. Unix socket
// paths are kept as is, other entries get the default port unless they
// carry one already.
func Parse(raw string, port int) []string {
	o := make([]string, 0, strings.Count(raw, ",")+1)
	for _, addr := range strings.Split(raw, ",") {
		addr = strings.TrimSpace(addr)
		switch {
		case addr == "":
			continue
		case strings.HasPrefix(addr, "/"):
		case strings.ContainsRune(addr, ':'):
		default:
			addr += ":" + strconv.Itoa(port)
		}
		o = append(o, addr)
	}
	return o
}
