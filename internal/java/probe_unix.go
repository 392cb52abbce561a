//go:build !windows

package java

import (
	"os"

	"golang.org/x/sys/unix"
)

// isExecutable checks the execute bit against the effective user with access(2)
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return unix.Access(path, unix.X_OK) == nil
}
