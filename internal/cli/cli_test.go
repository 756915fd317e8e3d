// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package cli

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wallviewer/tools/internal/testutil"
)

type testApp struct {
	name string
	ran  bool
	args []string
}

func (a *testApp) Flags(fs *flag.FlagSet) {
	fs.StringVar(&a.name, "name", "world", "Who to greet.")
}

func (a *testApp) Run(ctx context.Context, env *Env) error {
	a.ran = true
	a.args = env.Args
	fmt.Fprintf(env.Stdout, "hello, %s\n", a.name)
	env.Logf("greeted %s", a.name)
	return nil
}

func run(t *testing.T, app App, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	err = Run(context.Background(), app, &Env{
		Args:   args,
		Getenv: func(string) string { return "" },
		Stdout: &outBuf,
		Stderr: &errBuf,
	})
	return outBuf.String(), errBuf.String(), err
}

func TestRun(t *testing.T) {
	t.Parallel()

	app := new(testApp)
	stdout, stderr, err := run(t, app, "-name", "walls", "extra")
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, app.ran, true)
	testutil.AssertEqual(t, app.args, []string{"extra"})
	testutil.AssertEqual(t, stdout, "hello, walls\n")
	testutil.AssertEqual(t, stderr, "greeted walls\n")
}

func TestRunVersion(t *testing.T) {
	t.Parallel()

	app := new(testApp)
	_, stderr, err := run(t, app, "-version")
	if !errors.Is(err, ErrExitVersion) {
		t.Fatalf("want ErrExitVersion, got %v", err)
	}
	testutil.AssertEqual(t, app.ran, false)
	testutil.AssertEqual(t, isPrintableError(err), false)
	if stderr == "" {
		t.Fatal("version must be printed to stderr")
	}
}

func TestRunHelp(t *testing.T) {
	t.Parallel()

	_, stderr, err := run(t, new(testApp), "-h")
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("want flag.ErrHelp, got %v", err)
	}
	testutil.AssertEqual(t, isPrintableError(err), false)
	if !strings.Contains(stderr, "Who to greet.") {
		t.Fatalf("usage must list flags, got %q", stderr)
	}
}

func TestRunUnknownFlag(t *testing.T) {
	t.Parallel()

	_, _, err := run(t, AppFunc(func(context.Context, *Env) error { return nil }), "-nope")
	if err == nil {
		t.Fatal("must fail on unknown flag")
	}
	testutil.AssertEqual(t, isPrintableError(err), false)
}

func TestRunAppError(t *testing.T) {
	t.Parallel()

	errBoom := fmt.Errorf("%w: boom", ErrInvalidArgs)
	_, _, err := run(t, AppFunc(func(context.Context, *Env) error { return errBoom }))
	if !errors.Is(err, ErrInvalidArgs) {
		t.Fatalf("want ErrInvalidArgs, got %v", err)
	}
	testutil.AssertEqual(t, isPrintableError(err), true)
}

func TestRunMemProfile(t *testing.T) {
	t.Parallel()

	profile := filepath.Join(t.TempDir(), "mem.pprof")
	_, _, err := run(t, AppFunc(func(context.Context, *Env) error {
		// Apps that drop write access must still get a profile.
		if _, err := os.Stat(profile); err != nil {
			return fmt.Errorf("profile must exist before the app runs: %w", err)
		}
		return nil
	}), "-memprofile", profile)
	if err != nil {
		t.Fatal(err)
	}
	fi, err := os.Stat(profile)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Size() == 0 {
		t.Fatal("memory profile is empty")
	}
}

func TestParseDocComment(t *testing.T) {
	docSrc = []byte(`/*
Viewserve serves things.

	$ viewserve
*/
package main
`)
	t.Cleanup(func() { docSrc = nil })

	testutil.AssertEqual(t, parseDocComment(), "Viewserve serves things.\n\n\t$ viewserve\n")
}
