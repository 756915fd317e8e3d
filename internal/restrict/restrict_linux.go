// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

//go:build linux && !android

package restrict

import (
	"github.com/landlock-lsm/go-landlock/landlock"

	"github.com/wallviewer/tools/internal/logger"
)

// Do restricts filesystem access of all goroutines of this program to
// [landlock.Rule]s. Network access is left alone.
func Do(logf logger.Logf, rules ...landlock.Rule) {
	if err := landlock.V5.BestEffort().RestrictPaths(rules...); err != nil {
		logf("Sandboxing failed: %v", err)
	}
}
