package headers

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("// header\n"), 0644))
	return filepath.Clean(path)
}

func TestCandidates_SiblingHeaderFirst(t *testing.T) {
	dir := t.TempDir()
	src := touch(t, filepath.Join(dir, "device.c"))
	sibling := touch(t, filepath.Join(dir, "device.h"))
	other := touch(t, filepath.Join(dir, "util.h"))

	got := New().Candidates(src)

	require.GreaterOrEqual(t, len(got), 3)
	assert.Equal(t, src, got[0], "the file itself comes first")
	assert.Equal(t, sibling, got[1], "the sibling header comes next")
	assert.Contains(t, got, other)
}

func TestCandidates_IncludeDirWalkUp(t *testing.T) {
	root := t.TempDir()
	src := touch(t, filepath.Join(root, "src", "net", "socket.c"))
	mirrored := touch(t, filepath.Join(root, "include", "net", "socket.h"))
	flat := touch(t, filepath.Join(root, "include", "common.h"))

	got := New().Candidates(src)

	mi := indexOf(got, mirrored)
	fi := indexOf(got, flat)
	require.GreaterOrEqual(t, mi, 0, "mirrored include header found")
	require.GreaterOrEqual(t, fi, 0, "flat include header found")
	assert.Less(t, mi, fi, "mirrored include dir searched before flat root")
}

func TestCandidates_Cap(t *testing.T) {
	dir := t.TempDir()
	src := touch(t, filepath.Join(dir, "main.c"))
	for i := 0; i < 80; i++ {
		touch(t, filepath.Join(dir, fmt.Sprintf("h%02d.h", i)))
	}

	got := New(WithMaxCandidates(10)).Candidates(src)
	assert.Len(t, got, 10)
}

func TestCandidates_MissingSiblingSkipped(t *testing.T) {
	dir := t.TempDir()
	src := touch(t, filepath.Join(dir, "lonely.c"))

	got := New().Candidates(src)
	assert.Equal(t, []string{src}, got)
}

func indexOf(list []string, want string) int {
	for i, s := range list {
		if s == want {
			return i
		}
	}
	return -1
}
