package fs

import (
	"os"
	"path/filepath"
	"strings"
)

// fixpath returns an absolute path on windows, so the packer can open long
// file names.
func fixpath(name string) string {
	abspath, err := filepath.Abs(name)
	if err == nil {
		// Check if \\?\UNC\ already exist
		if strings.HasPrefix(abspath, `\\?\UNC\`) {
			return abspath
		}
		// Check if \\?\ already exist
		if strings.HasPrefix(abspath, `\\?\`) {
			return abspath
		}
		// Check if path starts with \\
		if strings.HasPrefix(abspath, `\\`) {
			return strings.Replace(abspath, `\\`, `\\?\UNC\`, 1)
		}
		// Normal path
		return `\\?\` + abspath
	}
	return name
}

func isNotSupported(err error) bool {
	return false
}

// fsyncDir is a no-op, directories cannot be synced on windows.
func fsyncDir(_ string) error {
	return nil
}
