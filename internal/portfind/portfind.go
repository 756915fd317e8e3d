// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package portfind locates a free TCP port by probing a bounded range of
// ports on the loopback interface.
//
// A probe binds the port and releases it right away, so the result only says
// that the port was free at the moment of the probe. Another process may take
// it before the caller binds it for real. This is acceptable for local
// development servers and is not guarded against.
package portfind

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

// DefaultWindow is the number of sequential ports probed by [Free].
const DefaultWindow = 100

const maxPort = 65535

// ErrInvalidPort is returned when the start port or the window is out of
// range.
var ErrInvalidPort = errors.New("invalid port")

// ErrNoFreePort is matched by every [NoFreePortError] with [errors.Is].
var ErrNoFreePort = errors.New("no free port")

// NoFreePortError reports that every port in [Start, End] was occupied.
type NoFreePortError struct {
	Start int
	End   int
}

func (e *NoFreePortError) Error() string {
	return fmt.Sprintf("no free port found in range %d-%d", e.Start, e.End)
}

// Is makes errors.Is(err, ErrNoFreePort) true for any NoFreePortError.
func (e *NoFreePortError) Is(target error) bool { return target == ErrNoFreePort }

// Free returns the first port in [start, start+DefaultWindow) that can be
// bound on the loopback interface.
func Free(start int) (int, error) { return FreeInWindow(start, DefaultWindow) }

// FreeInWindow returns the first port in [start, start+window) that can be
// bound on the loopback interface. Candidates are tried in ascending order and
// none of them is held after FreeInWindow returns.
func FreeInWindow(start, window int) (int, error) {
	if start < 1 || start > maxPort {
		return 0, fmt.Errorf("%w: start port %d is out of range 1-%d", ErrInvalidPort, start, maxPort)
	}
	if window < 1 {
		return 0, fmt.Errorf("%w: window must be positive, got %d", ErrInvalidPort, window)
	}

	// Clamp before adding so that a huge window can't overflow.
	window = min(window, maxPort-start+1)
	end := start + window - 1
	for port := start; port <= end; port++ {
		if probe(port) {
			return port, nil
		}
	}
	return 0, &NoFreePortError{Start: start, End: end}
}

// probe reports whether port can be bound on 127.0.0.1.
func probe(port int) bool {
	l, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
	if err != nil {
		return false
	}
	l.Close()
	return true
}
