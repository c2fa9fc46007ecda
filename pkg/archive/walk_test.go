package archive

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, root string, excludes []string) map[string]string {
	t.Helper()
	m, err := CompileMatcher(excludes)
	require.NoError(t, err)

	found := make(map[string]string)
	err = Walk(root, m, nil, func(e Entry) error {
		found[e.Name] = e.Path
		return nil
	})
	require.NoError(t, err)
	return found
}

func TestWalkYieldsFilesWithExtension(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.go":            "",
		"Makefile":        "",
		"docs/guide.md":   "",
		"docs/LICENSE":    "",
		"deep/x/y/z.json": "",
		"dir.with.dot/f":  "",
	})

	found := collect(t, root, nil)
	assert.ElementsMatch(t, []string{"a.go", "docs/guide.md", "deep/x/y/z.json"}, keys(found))
	assert.Equal(t, filepath.Join(root, "docs", "guide.md"), found["docs/guide.md"])
}

func TestWalkAppliesExclusionsToRelativePaths(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"keep.go":         "",
		"drop.tmp":        "",
		"sub/keep.txt":    "",
		"sub/drop.tmp":    "",
		"vendor/lib.go":   "",
		"sub/vendor/x.go": "",
	})

	found := collect(t, root, []string{`\.tmp$`, `^vendor/`})
	assert.ElementsMatch(t, []string{"keep.go", "sub/keep.txt", "sub/vendor/x.go"}, keys(found))
}

func TestWalkStopsOnCallbackError(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.go": "", "b.go": ""})

	boom := errors.New("boom")
	calls := 0
	err := Walk(root, nil, nil, func(Entry) error {
		calls++
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestWalkMissingRoot(t *testing.T) {
	err := Walk(filepath.Join(t.TempDir(), "absent"), nil, nil, func(Entry) error { return nil })
	assert.Error(t, err)
}

func TestWalkSkipsHiddenEntries(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"main.go":                 "",
		".env.local":              "",
		".git/objects/pack/p.idx": "",
		"sub/.cache/data.json":    "",
		"sub/keep.md":             "",
	})

	found := collect(t, root, nil)
	assert.ElementsMatch(t, []string{"main.go", "sub/keep.md"}, keys(found))
}

func TestWalkHiddenRootIsWalked(t *testing.T) {
	root := filepath.Join(t.TempDir(), ".site")
	writeTree(t, root, map[string]string{"a.go": ""})

	assert.ElementsMatch(t, []string{"a.go"}, keys(collect(t, root, nil)))
}

func TestWalkSymlinks(t *testing.T) {
	base := t.TempDir()
	writeTree(t, base, map[string]string{
		"shared/inner.go": "",
		"target.txt":      "",
		"tree/real.go":    "",
	})
	tree := filepath.Join(base, "tree")
	require.NoError(t, os.Symlink(filepath.Join(base, "shared"), filepath.Join(tree, "lib.d")))
	require.NoError(t, os.Symlink(filepath.Join(base, "target.txt"), filepath.Join(tree, "link.txt")))
	require.NoError(t, os.Symlink(filepath.Join(base, "absent.txt"), filepath.Join(tree, "dangling.txt")))

	found := collect(t, tree, nil)
	assert.ElementsMatch(t, []string{"real.go", "link.txt"}, keys(found))
}
