// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package restrict

import (
	"testing"

	"github.com/landlock-lsm/go-landlock/landlock"

	"github.com/wallviewer/tools/internal/logger"
)

// ReadOnly limits filesystem access of the whole program to reading the
// given directories, unless running under 'go test'. Already open files
// and listeners keep working.
func ReadOnly(logf logger.Logf, dirs ...string) {
	DoUnlessTesting(logf, landlock.RODirs(dirs...))
}

// DoUnlessTesting applies the provided set of [landlock.Rule] to restrict all
// goroutines within the program, unless the program is running under 'go test'.
//
// If sandboxing fails, a log message will be generated, but the program will
// continue execution.
func DoUnlessTesting(logf logger.Logf, rules ...landlock.Rule) {
	if !testing.Testing() {
		Do(logf, rules...)
	}
}
