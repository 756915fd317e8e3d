// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

//go:build android || !linux

package restrict

import (
	"github.com/landlock-lsm/go-landlock/landlock"

	"github.com/wallviewer/tools/internal/logger"
)

// Do is a no-op on non-Linux systems and Android.
func Do(_ logger.Logf, _ ...landlock.Rule) {}
