package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"go.uber.org/goleak"
	"gotest.tools/assert"

	"github.com/cHemingway/minspritz/spritz"
)

// lockedBuffer keeps concurrent pool workers from interleaving writes
// mid-line; each Fprintf in the pool issues a single Write.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *lockedBuffer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func (w *lockedBuffer) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

// TestRunHashPool hashes a directory of files through the worker pool
// and checks every digest against a direct Sum, plus the uppercase-hex
// output format.  goleak makes sure the pool winds down completely.
func TestRunHashPool(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	want := make(map[string]string)
	for i := 0; i < 5; i++ {
		fn := filepath.Join(dir, fmt.Sprintf("in%d.txt", i))
		content := []byte(strings.Repeat("spritz", i+1))
		assert.NilError(t, os.WriteFile(fn, content, 0644))
		want[fn] = fmt.Sprintf("%X", spritz.Sum(256, content))
	}

	out := new(lockedBuffer)
	errCount := runHashPool(out, 256, 3, []string{dir})
	assert.Equal(t, errCount, uint64(0))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Equal(t, len(lines), len(want))

	for _, line := range lines {
		digest, fn, found := strings.Cut(line, "  ")
		assert.Check(t, found, "malformed output line %q", line)
		assert.Equal(t, digest, want[fn])
		assert.Equal(t, digest, strings.ToUpper(digest))
	}
}

// TestRunHashPoolErrors counts unreadable inputs instead of dying on
// the first one.
func TestRunHashPoolErrors(t *testing.T) {
	defer goleak.VerifyNone(t)

	out := new(lockedBuffer)
	errCount := runHashPool(out, 256, 2, []string{filepath.Join(t.TempDir(), "missing")})
	assert.Equal(t, errCount, uint64(1))
	assert.Equal(t, out.String(), "")
}
