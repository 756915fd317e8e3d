// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package httplogger provides a http.Handler middleware that logs served HTTP
// requests.
//
// Every request produces a single line with the time the response finished,
// the method, the path, the response status and how long it took:
//
//	HTTP: 15:04:05.000 GET /gltf/list.json 200 OK (0.002s)
package httplogger

import (
	"log"
	"net/http"
	"time"

	"github.com/wallviewer/tools/internal/logger"
)

// New wraps h so that every request it serves is logged with logf.
func New(h http.Handler, logf logger.Logf) http.Handler {
	if logf == nil {
		logf = log.Printf
	}
	return &loggingHandler{h: h, logf: logf, now: time.Now, loc: localZone()}
}

// localZone returns the local time zone with its data already loaded. The
// zone is read from the filesystem lazily, which fails once the program is
// sandboxed.
func localZone() *time.Location {
	time.Now().Zone()
	return time.Local
}

type loggingHandler struct {
	h    http.Handler
	logf logger.Logf
	now  func() time.Time
	loc  *time.Location
}

func (lh *loggingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := lh.now()
	sw := &statusWriter{ResponseWriter: w}
	lh.h.ServeHTTP(sw, r)
	end := lh.now()

	status := sw.status
	if status == 0 {
		status = http.StatusOK
	}
	lh.logf("HTTP: %s %s %s %d %s (%.3fs)", timeFormat(end.In(lh.loc)), r.Method, r.URL.RequestURI(), status, http.StatusText(status), end.Sub(start).Seconds())
}

// statusWriter remembers the status code written by the wrapped handler.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	if sw.status == 0 {
		sw.status = code
	}
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	if sw.status == 0 {
		sw.status = http.StatusOK
	}
	return sw.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (sw *statusWriter) Unwrap() http.ResponseWriter { return sw.ResponseWriter }

func timeFormat(t time.Time) string {
	return t.Format("15:04:05.000")
}
