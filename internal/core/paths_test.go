package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	ResetPaths()
	defer ResetPaths()

	assert.Equal(t, home, HomeDir())
	assert.Equal(t, filepath.Join(home, ".local", "e4s_cl", "user.json"), ProfileStoreFile())
	assert.Equal(t, filepath.Join(os.TempDir(), "e4s-cl-completion.log"), LogFile())

	// Nothing is created on disk.
	_, err := os.Stat(filepath.Join(home, ".local"))
	assert.True(t, os.IsNotExist(err))
}

func TestPathsWithoutHome(t *testing.T) {
	t.Setenv("HOME", "")
	ResetPaths()
	defer ResetPaths()

	assert.Empty(t, HomeDir())
	assert.Empty(t, ProfileStoreFile())
	assert.NotEmpty(t, LogFile())
}

func TestPathsAreCached(t *testing.T) {
	first := t.TempDir()
	t.Setenv("HOME", first)
	ResetPaths()
	defer ResetPaths()

	assert.Equal(t, first, HomeDir())

	t.Setenv("HOME", t.TempDir())
	assert.Equal(t, first, HomeDir())
}
