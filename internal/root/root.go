// Package root locates the npm project directory a run operates on.
package root

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/conn-castle/npm-check-install/internal/messages"
)

// ManifestName is the file that marks an npm project root.
const ManifestName = "package.json"

var errStartRequired = errors.New("start path is required")

// FindProjectRoot searches upwards from start for a directory containing package.json.
// It returns the directory, whether one was found, and an error when package.json
// exists but is not a regular file or the filesystem cannot be read.
func FindProjectRoot(start string) (string, bool, error) {
	if start == "" {
		return "", false, errStartRequired
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false, fmt.Errorf(messages.RootFindProjectFmt, start, err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		info, err := os.Stat(candidate)
		switch {
		case err == nil && info.Mode().IsRegular():
			return dir, true, nil
		case err == nil && info.IsDir():
			return "", false, fmt.Errorf(messages.RootFindProjectFmt, start, fmt.Errorf(messages.RootPackageJSONIsDirFmt, candidate))
		case err == nil:
			// Special files are skipped.
		case !errors.Is(err, os.ErrNotExist):
			return "", false, fmt.Errorf(messages.RootFindProjectFmt, start, err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// ResolveWorkingDir returns the project root above start, or start itself
// (made absolute) when no package.json is found.
func ResolveWorkingDir(start string) (string, error) {
	dir, found, err := FindProjectRoot(start)
	if err != nil {
		return "", err
	}
	if found {
		return dir, nil
	}
	return filepath.Abs(start)
}
