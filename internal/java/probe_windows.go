//go:build windows

package java

import (
	"path/filepath"
	"strings"

	"golang.org/x/sys/windows"
)

// executableExts is used when PATHEXT does not resolve the bare name
var executableExts = []string{".exe", ".com", ".bat", ".cmd"}

// isExecutable treats a path as executable when it, or the path with a
// standard executable extension, names a regular file
func isExecutable(path string) bool {
	if isRegularFile(path) && hasExecutableExt(path) {
		return true
	}
	if filepath.Ext(path) != "" {
		return false
	}
	for _, ext := range executableExts {
		if isRegularFile(path + ext) {
			return true
		}
	}
	return false
}

func isRegularFile(path string) bool {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return false
	}
	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return false
	}
	return attrs&windows.FILE_ATTRIBUTE_DIRECTORY == 0
}

func hasExecutableExt(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range executableExts {
		if ext == e {
			return true
		}
	}
	return false
}
