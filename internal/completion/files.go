package completion

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/e4s-project/e4s-cl-completion/internal/core"
)

// osReadDir is a variable that can be overridden for testing.
var osReadDir = os.ReadDir

// PathCompletions lists the filesystem entries matching prefix. The part of
// prefix up to its last "/" names the directory to list and is kept verbatim
// in the results; the rest must prefix the entry name. Relative directories
// are resolved against workDir and a leading "~/" against the home directory.
// Directories, including symlinks to directories, get a trailing "/".
func PathCompletions(prefix, workDir string) ([]string, error) {
	dirPart, namePart := "", prefix
	if i := strings.LastIndex(prefix, "/"); i >= 0 {
		dirPart, namePart = prefix[:i+1], prefix[i+1:]
	}

	searchDir, err := resolveSearchDir(dirPart, workDir)
	if err != nil {
		return nil, err
	}

	entries, err := osReadDir(searchDir)
	if err != nil {
		return nil, err
	}

	completions := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, namePart) {
			continue
		}
		if isDirEntry(searchDir, entry) {
			name += "/"
		}
		completions = append(completions, dirPart+name)
	}
	return completions, nil
}

func resolveSearchDir(dirPart, workDir string) (string, error) {
	if workDir == "" {
		workDir = "."
	}

	switch {
	case dirPart == "":
		return workDir, nil
	case strings.HasPrefix(dirPart, "~/"):
		homeDir := core.HomeDir()
		if homeDir == "" {
			return "", errors.New("home directory unknown")
		}
		return filepath.Join(homeDir, dirPart[2:]), nil
	case filepath.IsAbs(dirPart):
		return dirPart, nil
	default:
		return filepath.Join(workDir, dirPart), nil
	}
}

func isDirEntry(dir string, entry os.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	return err == nil && info.IsDir()
}
