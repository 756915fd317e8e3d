package httplogger

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wallviewer/tools/internal/testutil"
)

func TestHandler(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	})
	mux.HandleFunc("/empty", func(w http.ResponseWriter, r *http.Request) {})

	cases := map[string]struct {
		path    string
		wantLog string
	}{
		"implicit 200 on write": {
			path:    "/ok?x=1",
			wantLog: "HTTP: 12:30:00.250 GET /ok?x=1 200 OK (0.250s)",
		},
		"implicit 200 without body": {
			path:    "/empty",
			wantLog: "HTTP: 12:30:00.250 GET /empty 200 OK (0.250s)",
		},
		"not found": {
			path:    "/nope",
			wantLog: "HTTP: 12:30:00.250 GET /nope 404 Not Found (0.250s)",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var logged []string
			h := New(mux, func(format string, args ...any) {
				logged = append(logged, fmt.Sprintf(format, args...))
			}).(*loggingHandler)
			h.loc = time.UTC

			start := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)
			calls := 0
			h.now = func() time.Time {
				calls++
				if calls == 1 {
					return start
				}
				return start.Add(250 * time.Millisecond)
			}

			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tc.path, nil))
			testutil.AssertEqual(t, logged, []string{tc.wantLog})
		})
	}
}

func TestHandlerTimeZone(t *testing.T) {
	t.Parallel()

	var logged string
	h := New(http.NotFoundHandler(), func(format string, args ...any) {
		logged = fmt.Sprintf(format, args...)
	}).(*loggingHandler)
	if h.loc != time.Local {
		t.Fatalf("want request times in the local zone, got %v", h.loc)
	}

	h.loc = time.FixedZone("UTC+3", 3*60*60)
	h.now = func() time.Time { return time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC) }

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/wall.glb", nil))
	testutil.AssertEqual(t, logged, "HTTP: 15:30:00.000 GET /wall.glb 404 Not Found (0.000s)")
}
