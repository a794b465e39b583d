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

package main

import (
	"log"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/das7pad/lessc/pkg/errors"
	"github.com/das7pad/lessc/pkg/httpUtils"
	"github.com/das7pad/lessc/pkg/less"
	"github.com/das7pad/lessc/pkg/options/listenAddress"
)

const defaultPort = 8080

type cssHandler struct {
	c    *less.Compiler
	root string
}

func newRouter(c *less.Compiler, root string) *mux.Router {
	h := &cssHandler{c: c, root: root}
	r := mux.NewRouter()
	status := func(w http.ResponseWriter, _ *http.Request) {
		httpUtils.RespondPlain(w, http.StatusOK, "lessc is alive\n")
	}
	r.HandleFunc("/status", status).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/{path:.+}.css", h.ServeHTTP).
		Methods(http.MethodGet, http.MethodHead)
	return r
}

func (h *cssHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	p := path.Clean("/" + mux.Vars(r)["path"])
	f := filepath.Join(h.root, filepath.FromSlash(p)+".less")
	s, _, err := h.c.Compile(f)
	if err != nil {
		if errors.IsNotFoundError(err) {
			log.Printf("%s %s 404", r.Method, r.URL.Path)
		} else {
			log.Printf("%s %s: %s", r.Method, r.URL.Path, err)
		}
		httpUtils.RespondErr(w, err)
		return
	}
	w.Header().Set("Content-Type", mime.TypeByExtension(".css"))
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write([]byte(s))
}

// serveRoot picks the folder below which stylesheets are served.
func serveRoot(input string) (string, error) {
	st, err := os.Stat(input)
	if err != nil {
		return "", errors.Tag(err, "stat "+input)
	}
	if st.IsDir() {
		return input, nil
	}
	return filepath.Dir(input), nil
}

func serve(c *config) error {
	root, err := serveRoot(c.input)
	if err != nil {
		return err
	}
	compiler, err := less.WithCache(c.cacheSize, c.o)
	if err != nil {
		return err
	}
	addresses := listenAddress.Parse(c.serve, defaultPort)
	if len(addresses) == 0 {
		return &errors.ValidationError{Msg: "missing listen address"}
	}
	server := &http.Server{
		Handler:           newRouter(compiler, root),
		ReadHeaderTimeout: 10 * time.Second,
	}
	eg := &errgroup.Group{}
	for _, addr := range addresses {
		log.Printf("serving %s on %s", root, addr)
	}
	httpUtils.ListenAndServeEach(eg.Go, server, addresses)
	return eg.Wait()
}
