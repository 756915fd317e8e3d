// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package browser opens URLs in the user's default web browser.
package browser

import (
	"fmt"
	"io"
	"sync"

	"github.com/pkg/browser"
)

// Opener opens a URL and reports whether it succeeded.
type Opener func(url string) error

var quietOnce sync.Once

// Open opens url in the default browser. Output of the launcher program is
// discarded.
//
// Failing to open a browser is common on headless machines, so callers
// usually log the error and carry on.
func Open(url string) error {
	quietOnce.Do(func() {
		browser.Stdout = io.Discard
		browser.Stderr = io.Discard
	})
	if err := browser.OpenURL(url); err != nil {
		return fmt.Errorf("opening %s in browser: %w", url, err)
	}
	return nil
}
