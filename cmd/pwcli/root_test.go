package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freitascorp/pwcli/internal/workspace"
)

func TestFindProjectRootDiscoversPlaywrightDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, workspace.PlaywrightDir), 0o755))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	withWorkingDir(t, nested, func() {
		assert.Equal(t, mustEvalSymlinks(t, root), mustEvalSymlinks(t, findProjectRoot()))
	})
}

func TestFindProjectRootReturnsEmptyWhenNoneFound(t *testing.T) {
	root := t.TempDir()
	withWorkingDir(t, root, func() {
		assert.Equal(t, "", findProjectRoot())
	})
}

func withWorkingDir(t *testing.T, dir string, fn func()) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
	fn()
}

func mustEvalSymlinks(t *testing.T, path string) string {
	t.Helper()
	if path == "" {
		return ""
	}
	resolved, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	return resolved
}
