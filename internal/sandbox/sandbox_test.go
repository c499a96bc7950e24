package sandbox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreatesUniqueDirs(t *testing.T) {
	a, err := New("npm_install_")
	require.NoError(t, err)
	defer a.Remove()
	b, err := New("npm_install_")
	require.NoError(t, err)
	defer b.Remove()

	assert.NotEqual(t, a.Path, b.Path)
	assert.True(t, strings.HasPrefix(filepath.Base(a.Path), "npm_install_"))

	info, err := os.Stat(a.Path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestRemoveDeletesEverything(t *testing.T) {
	d, err := New("npm_install_")
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(d.Join("node_modules", "left-pad"), 0755))
	require.NoError(t, os.WriteFile(d.Join("node_modules", "left-pad", "index.js"), []byte("module.exports = 1"), 0644))

	require.NoError(t, d.Remove())
	_, err = os.Stat(d.Path)
	assert.True(t, os.IsNotExist(err))
}

func TestRemoveReadOnlyTree(t *testing.T) {
	d, err := New("go_install_")
	require.NoError(t, err)

	ro := d.Join("pkg", "mod")
	require.NoError(t, os.MkdirAll(ro, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(ro, "go.mod"), []byte("module x\n"), 0444))
	require.NoError(t, os.Chmod(ro, 0555))

	require.NoError(t, d.Remove())
	_, err = os.Stat(d.Path)
	assert.True(t, os.IsNotExist(err))
}

func TestRemoveIsIdempotent(t *testing.T) {
	d, err := New("npm_install_")
	require.NoError(t, err)

	require.NoError(t, d.Remove())
	assert.NoError(t, d.Remove())
}
