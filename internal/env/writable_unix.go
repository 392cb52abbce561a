//go:build !windows

package env

import (
	"os"

	"golang.org/x/sys/unix"
)

// Writable reports whether path is an existing regular file the effective user may write
func Writable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	return unix.Access(path, unix.W_OK) == nil
}
