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
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/das7pad/lessc/pkg/errors"
)

func TestRespondErr(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "not found",
			err:        errors.Tag(&errors.NotFoundError{}, "read x.less"),
			wantStatus: http.StatusNotFound,
			wantBody:   "ERR: read x.less: not found\n",
		},
		{
			name:       "validation",
			err:        &errors.ValidationError{Msg: "bad indent"},
			wantStatus: http.StatusBadRequest,
			wantBody:   "ERR: bad indent\n",
		},
		{
			name:       "user facing",
			err:        errors.Tag(&errors.UndefinedVariableError{Name: "a"}, "x.less:1:6"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "ERR: x.less:1:6: variable @a is undefined\n",
		},
		{
			name:       "internal",
			err:        fmt.Errorf("disk on fire"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "ERR: internal error\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			RespondErr(w, tt.err)
			if w.Code != tt.wantStatus {
				t.Errorf("RespondErr() status = %d, want %d", w.Code, tt.wantStatus)
			}
			if got := w.Body.String(); got != tt.wantBody {
				t.Errorf("RespondErr() body = %q, want %q", got, tt.wantBody)
			}
		})
	}
}
