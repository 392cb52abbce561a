//go:build windows

package env

import (
	"golang.org/x/sys/windows"
)

// Writable reports whether path is an existing regular file without the read-only attribute
func Writable(path string) bool {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return false
	}
	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return false
	}
	if attrs&windows.FILE_ATTRIBUTE_DIRECTORY != 0 {
		return false
	}
	return attrs&windows.FILE_ATTRIBUTE_READONLY == 0
}
