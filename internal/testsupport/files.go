package testsupport

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// WriteStubBinary drops an executable shell stub into dir and returns its
// path. Tests use it to satisfy PATH preflight checks without the real
// streamlink or player installed.
func WriteStubBinary(t testing.TB, dir, name string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return path
}
