// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package syncx

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/wallviewer/tools/internal/testutil"
)

func TestLazy(t *testing.T) {
	t.Parallel()

	t.Run("computes once", func(t *testing.T) {
		var (
			l     Lazy[int]
			calls atomic.Int32
			wg    sync.WaitGroup
		)
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				got := l.Get(func() int {
					calls.Add(1)
					return 42
				})
				if got != 42 {
					t.Errorf("want 42, got %d", got)
				}
			}()
		}
		wg.Wait()
		testutil.AssertEqual(t, calls.Load(), int32(1))
	})

	t.Run("remembers error", func(t *testing.T) {
		var l Lazy[string]
		errBoom := errors.New("boom")
		_, err := l.GetErr(func() (string, error) { return "", errBoom })
		if !errors.Is(err, errBoom) {
			t.Fatalf("want %v, got %v", errBoom, err)
		}
		_, err = l.GetErr(func() (string, error) { return "ok", nil })
		if !errors.Is(err, errBoom) {
			t.Fatalf("second call must return the cached error, got %v", err)
		}
	})
}
