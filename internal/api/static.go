// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

package api

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/tomtom215/rentpredict/internal/logging"
)

//go:embed static
var embeddedStatic embed.FS

// staticFiles is the static directory itself, so /static/app.js maps to app.js.
var staticFiles = mustSub(embeddedStatic, "static")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// serveIndex serves the embedded HTML page on GET /.
func serveIndex(w http.ResponseWriter, r *http.Request) {
	page, err := fs.ReadFile(staticFiles, "index.html")
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Embedded index.html missing")
		NewResponseWriter(w, r).InternalError("Page unavailable")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	if _, err := w.Write(page); err != nil {
		logging.Debug().Err(err).Msg("Failed to write index page")
	}
}
