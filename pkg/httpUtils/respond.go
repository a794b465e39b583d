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

package httpUtils

import (
	"net/http"
	"strconv"

	"github.com/das7pad/lessc/pkg/errors"
)

func RespondPlain(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set(
		"Content-Length", strconv.FormatInt(int64(len(body)), 10),
	)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// RespondErr reports err in plain text. Only user facing errors are
// shown in full.
func RespondErr(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.IsNotFoundError(err):
		status = http.StatusNotFound
	case errors.IsValidationError(err):
		status = http.StatusBadRequest
	}
	msg := errors.GetPublicMessage(err, "internal error")
	RespondPlain(w, status, "ERR: "+msg+"\n")
}
