// Package core locates the files shared with e4s-cl.
package core

import (
	"os"
	"path/filepath"
)

type Paths struct {
	HomeDir          string
	DataDir          string
	ProfileStoreFile string
	LogFile          string
}

var defaultPaths *Paths

func ensureDefaultPaths() {
	if defaultPaths != nil {
		return
	}

	defaultPaths = &Paths{
		LogFile: filepath.Join(os.TempDir(), "e4s-cl-completion.log"),
	}

	// Completion must keep working without a home directory; the paths
	// under it are left empty.
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		return
	}

	defaultPaths.HomeDir = homeDir
	defaultPaths.DataDir = filepath.Join(homeDir, ".local", "e4s_cl")
	defaultPaths.ProfileStoreFile = filepath.Join(defaultPaths.DataDir, "user.json")
}

// HomeDir is the user's home directory, or "" when it is unknown.
func HomeDir() string {
	ensureDefaultPaths()
	return defaultPaths.HomeDir
}

// ProfileStoreFile is the e4s-cl user database holding the profiles.
func ProfileStoreFile() string {
	ensureDefaultPaths()
	return defaultPaths.ProfileStoreFile
}

func LogFile() string {
	ensureDefaultPaths()
	return defaultPaths.LogFile
}

// ResetPaths clears the cached paths, forcing them to be reinitialized.
// This is primarily used for testing purposes.
func ResetPaths() {
	defaultPaths = nil
}
