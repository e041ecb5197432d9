// Copyright © 2024 The pystyle authors

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sourceTree creates files below a temporary directory and returns it.
func sourceTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
		require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o600))
	}
	return root
}

func TestExpandArgs_DirectoryIsShallow(t *testing.T) {
	root := sourceTree(t, "b.py", "a.py", "notes.txt", "pkg/c.py")
	files, err := expandArgs([]string{root}, ".py", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a.py"), filepath.Join(root, "b.py")}, files)
}

func TestExpandArgs_Recursive(t *testing.T) {
	root := sourceTree(t, "a.py", "pkg/c.py", "pkg/sub/d.py", ".venv/lib.py", "pkg/e.pyi")
	files, err := expandArgs([]string{root + "/..."}, ".py", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.py"),
		filepath.Join(root, "pkg", "c.py"),
		filepath.Join(root, "pkg", "sub", "d.py"),
	}, files)
}

func TestExpandArgs_Files(t *testing.T) {
	root := sourceTree(t, "a.py", "notes.txt")
	missing := filepath.Join(root, "missing.py")
	files, err := expandArgs([]string{
		filepath.Join(root, "a.py"),
		filepath.Join(root, "notes.txt"),
		missing,
	}, ".py", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a.py"), missing}, files)
}

func TestExpandArgs_Extension(t *testing.T) {
	root := sourceTree(t, "a.py", "b.pyi")
	files, err := expandArgs([]string{root}, ".pyi", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "b.pyi")}, files)
}

func TestExpandArgs_Excludes(t *testing.T) {
	root := sourceTree(t, "a.py", "build/b.py", "gen_c.py")
	files, err := expandArgs([]string{root + "/..."}, ".py", []string{"build", "gen_*"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a.py")}, files)
}

func TestExpandArgs_MissingRecursiveRoot(t *testing.T) {
	_, err := expandArgs([]string{filepath.Join(t.TempDir(), "nope") + "/..."}, ".py", nil)
	assert.Error(t, err)
}

func TestFilterExcludes_ByName(t *testing.T) {
	paths := []string{
		"src/main.py",
		"src/settings_local.py",
		"lib/utils.py",
	}
	result := filterExcludes(paths, []string{"settings_local.py"})
	assert.Equal(t, []string{"src/main.py", "lib/utils.py"}, result)
}

func TestFilterExcludes_ByDirectory(t *testing.T) {
	paths := []string{
		"src/main.py",
		"build/output.py",
		"build/sub/deep.py",
		"lib/utils.py",
	}
	result := filterExcludes(paths, []string{"build"})
	assert.Equal(t, []string{"src/main.py", "lib/utils.py"}, result)
}

func TestFilterExcludes_GlobPattern(t *testing.T) {
	paths := []string{
		"src/main.py",
		"src/generated_pb2.py",
		"src/generated_grpc.py",
		"lib/utils.py",
	}
	result := filterExcludes(paths, []string{"generated_*"})
	assert.Equal(t, []string{"src/main.py", "lib/utils.py"}, result)
}

func TestFilterExcludes_MultiplePatterns(t *testing.T) {
	paths := []string{
		"src/main.py",
		"build/output.py",
		"src/settings_local.py",
		"lib/utils.py",
	}
	result := filterExcludes(paths, []string{"build", "settings_local.py"})
	assert.Equal(t, []string{"src/main.py", "lib/utils.py"}, result)
}

func TestFilterExcludes_NoMatches(t *testing.T) {
	paths := []string{
		"src/main.py",
		"lib/utils.py",
	}
	result := filterExcludes(paths, []string{"nonexistent"})
	assert.Equal(t, []string{"src/main.py", "lib/utils.py"}, result)
}

func TestFilterExcludes_EmptyExcludes(t *testing.T) {
	paths := []string{"src/main.py"}
	result := filterExcludes(paths, nil)
	assert.Equal(t, []string{"src/main.py"}, result)
}

func TestMatchesAny_FullPath(t *testing.T) {
	assert.True(t, matchesAny("src/main.py", []string{"src/*.py"}))
	assert.False(t, matchesAny("lib/main.py", []string{"src/*.py"}))
}

func TestMatchesAny_BaseName(t *testing.T) {
	assert.True(t, matchesAny("deep/nested/conftest.py", []string{"conftest.py"}))
}

func TestMatchesAny_Component(t *testing.T) {
	assert.True(t, matchesAny("project/build/output.py", []string{"build"}))
	assert.False(t, matchesAny("project/src/output.py", []string{"build"}))
}

func TestSplitPath(t *testing.T) {
	components := splitPath("./a/b/c.py")
	assert.Equal(t, []string{"a", "b", "c.py"}, components)
}
