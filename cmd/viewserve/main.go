// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/wallviewer/tools/internal/browser"
	"github.com/wallviewer/tools/internal/cli"
	"github.com/wallviewer/tools/internal/cli/envflag"
	"github.com/wallviewer/tools/internal/gltf"
	"github.com/wallviewer/tools/internal/logger"
	"github.com/wallviewer/tools/internal/portfind"
	"github.com/wallviewer/tools/internal/restrict"
	"github.com/wallviewer/tools/internal/web"
)

func main() { cli.Main(new(engine)) }

const (
	defaultPort = 8000
	debugPage   = "debug-helper.html"
)

type engine struct {
	init sync.Once

	// configuration
	port      *int
	window    *int
	noBrowser *bool
	logf      logger.Logf
	stdout    io.Writer

	root    string // absolute path of the document root
	rootFS  fs.FS
	modelFS fs.FS

	// used in tests
	openBrowser   browser.Opener
	ready         func(port int)
	noServerStart bool
}

func (e *engine) EnvFlags(fs *flag.FlagSet, getenv func(string) string) {
	e.port = envflag.Value("port", "PORT", defaultPort, "Start looking for a free `port` here.", fs, getenv)
	e.window = envflag.Value("window", "PORT_WINDOW", portfind.DefaultWindow, "Try at most `n` ports in a row.", fs, getenv)
	e.noBrowser = envflag.Value("no-browser", "NO_BROWSER", false, "Don't open the debug page in a browser.", fs, getenv)
}

func (e *engine) Run(ctx context.Context, env *cli.Env) error {
	if len(env.Args) > 1 {
		return fmt.Errorf("%w: at most one directory can be served", cli.ErrInvalidArgs)
	}
	dir := "."
	if len(env.Args) == 1 {
		dir = env.Args[0]
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving document root: %w", err)
	}
	fi, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("document root: %w", err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", cli.ErrInvalidArgs, root)
	}

	e.root = root
	e.logf = env.Logf
	e.stdout = env.Stdout
	e.init.Do(e.doInit)

	e.logf("Current directory: %s", e.root)
	e.inspectModels()

	port, err := portfind.FreeInWindow(*e.port, *e.window)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	e.routes(mux)

	if e.noServerStart {
		return nil
	}

	if err := web.ListenAndServe(ctx, &web.ListenAndServeConfig{
		Addr:        net.JoinHostPort("", strconv.Itoa(port)),
		Mux:         mux,
		Logf:        e.logf,
		LogRequests: true,
		Ready:       func(net.Addr) { e.serving(port) },
	}); err != nil {
		return err
	}

	fmt.Fprintln(e.stdout, "\nServer stopped.")
	return nil
}

func (e *engine) doInit() {
	if e.port == nil {
		e.port = new(int)
		*e.port = defaultPort
	}
	if e.window == nil {
		e.window = new(int)
		*e.window = portfind.DefaultWindow
	}
	if e.noBrowser == nil {
		e.noBrowser = new(bool)
	}
	// No logger passed? Throw all logs away.
	if e.logf == nil {
		e.logf = logger.Discard
	}
	if e.stdout == nil {
		e.stdout = io.Discard
	}
	if e.openBrowser == nil {
		e.openBrowser = browser.Open
	}
	if e.root == "" {
		e.root = "."
	}
	if e.rootFS == nil {
		e.rootFS = os.DirFS(e.root)
	}
	if e.modelFS == nil {
		sub, err := fs.Sub(e.rootFS, gltf.Dir)
		if err != nil {
			panic(err) // gltf.Dir is a valid path
		}
		e.modelFS = sub
	}
	// Both read system files on first use, so load them before the
	// filesystem becomes read-only.
	if err := gltf.RegisterMIMETypes(); err != nil {
		e.logf("Registering model media types: %v", err)
	}
	time.Now().Zone()
}

// inspectModels logs what the model folder contains. It never fails: a
// missing folder only means the viewer has nothing to show.
func (e *engine) inspectModels() {
	dir := filepath.Join(e.root, gltf.Dir)

	folders, err := gltf.Subfolders(e.modelFS)
	if errors.Is(err, fs.ErrNotExist) {
		e.logf("Warning: %q folder not found: %s", gltf.Dir, dir)
		return
	}
	if err != nil {
		e.logf("Warning: can't read %s: %v", dir, err)
		return
	}

	e.logf("Model folder: %s", dir)
	list := "none"
	if len(folders) > 0 {
		list = strings.Join(folders, ", ")
	}
	e.logf("Found model subfolders: %s", list)

	for _, folder := range folders {
		files, err := gltf.Files(e.modelFS, folder)
		if err != nil {
			e.logf("  %s/: can't read: %v", folder, err)
			continue
		}
		models := lo.Filter(files, func(name string, _ int) bool { return gltf.IsModelFile(name) })
		e.logf("  %s/", folder)
		if len(models) > 0 {
			for _, m := range models {
				e.logf("    ✓ %s", m)
			}
			continue
		}
		contents := "(empty folder)"
		if len(files) > 0 {
			contents = strings.Join(files, ", ")
		}
		e.logf("    no .gltf or .glb files, contents: %s", contents)
	}
}

func (e *engine) routes(mux *http.ServeMux) {
	mux.Handle("/", e.serveStatic(http.FileServerFS(e.rootFS)))
	mux.HandleFunc("GET /gltf/list.json", e.handleList)
	mux.HandleFunc("GET /gltf/{folder}/files.json", e.handleFiles)
}

// serving runs once the server accepts connections.
func (e *engine) serving(port int) {
	url := fmt.Sprintf("http://localhost:%d/%s", port, debugPage)

	rule := strings.Repeat("=", 60)
	fmt.Fprintf(e.stdout, "\n%[1]s\nWall viewer server is running!\n%[1]s\n", rule)
	fmt.Fprintf(e.stdout, "Open this URL in your browser:\n  %s\n\n", url)
	fmt.Fprintf(e.stdout, "Press Ctrl+C to stop the server.\n%s\n", rule)

	if !*e.noBrowser {
		if err := e.openBrowser(url); err != nil {
			e.logf("Could not open a browser: %v", err)
		}
	}

	// The server only reads from the document root from now on.
	restrict.ReadOnly(e.logf, e.root)

	if e.ready != nil {
		e.ready(port)
	}
}

// serveStatic wraps the file server so that missing files and unsupported
// methods get an HTML error page.
func (e *engine) serveStatic(files http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			web.RespondError(e.logf, w, fmt.Errorf("%s %w", r.Method, web.ErrMethodNotAllowed))
			return
		}
		name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
		if name == "" {
			name = "."
		}
		if _, err := fs.Stat(e.rootFS, name); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				err = fmt.Errorf("%s %w", r.URL.Path, web.ErrNotFound)
			}
			web.RespondError(e.logf, w, err)
			return
		}
		files.ServeHTTP(w, r)
	})
}

func (e *engine) handleList(w http.ResponseWriter, r *http.Request) {
	models, err := gltf.Scan(e.modelFS)
	if err != nil {
		web.RespondJSONError(e.logf, w, fmt.Errorf("scanning model folders: %w", err))
		return
	}
	web.RespondJSON(w, models)
}

func (e *engine) handleFiles(w http.ResponseWriter, r *http.Request) {
	folder := r.PathValue("folder")
	if !fs.ValidPath(folder) || folder == "." || strings.Contains(folder, "/") {
		web.RespondJSONError(e.logf, w, fmt.Errorf("folder name %q: %w", folder, web.ErrBadRequest))
		return
	}

	fi, err := fs.Stat(e.modelFS, folder)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !fi.IsDir()) {
		web.RespondJSONError(e.logf, w, fmt.Errorf("folder %q %w", folder, web.ErrNotFound))
		return
	}
	if err != nil {
		web.RespondJSONError(e.logf, w, fmt.Errorf("listing folder %q: %w", folder, err))
		return
	}

	files, err := gltf.ModelFiles(e.modelFS, folder)
	if err != nil {
		web.RespondJSONError(e.logf, w, fmt.Errorf("listing folder %q: %w", folder, err))
		return
	}

	e.logf("Model files in %s: %s", folder, strings.Join(files, ", "))
	web.RespondJSON(w, files)
}
