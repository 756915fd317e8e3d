package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTempTree(t *testing.T) {
	t.Parallel()

	dir := TempTree(t, `
-- a/b.txt --
hello
-- empty/ --
`)

	b, err := os.ReadFile(filepath.Join(dir, "a", "b.txt"))
	if err != nil {
		t.Fatal(err)
	}
	AssertEqual(t, string(b), "hello\n")

	fi, err := os.Stat(filepath.Join(dir, "empty"))
	if err != nil {
		t.Fatal(err)
	}
	AssertEqual(t, fi.IsDir(), true)
}

func TestUnmarshalJSON(t *testing.T) {
	t.Parallel()

	got := UnmarshalJSON[map[string]int](t, []byte(`{"a": 1}`))
	AssertEqual(t, got, map[string]int{"a": 1})
}
