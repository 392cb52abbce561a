package java

import (
	"os"
	"os/exec"
	"path/filepath"
)

// FileProbe answers filesystem questions the resolver needs
type FileProbe interface {
	// Exists reports whether path names an existing file or directory.
	Exists(path string) bool
	// Executable reports whether path is a file the current process may execute.
	Executable(path string) bool
}

// CommandRunner runs an external command and returns its captured stdout
type CommandRunner interface {
	Output(name string, args ...string) (string, error)
}

// Environment looks up process environment variables
type Environment interface {
	Getenv(key string) string
}

// LinkResolver is implemented by probes that can follow symlinks
type LinkResolver interface {
	EvalSymlinks(path string) (string, error)
}

// OSProbe is the FileProbe backed by the real filesystem
type OSProbe struct{}

// Exists reports whether path exists
func (OSProbe) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Executable reports whether path is an executable regular file
func (OSProbe) Executable(path string) bool {
	return isExecutable(path)
}

// EvalSymlinks returns path with all symlinks resolved
func (OSProbe) EvalSymlinks(path string) (string, error) {
	return filepath.EvalSymlinks(path)
}

// ExecRunner runs commands with os/exec
type ExecRunner struct{}

// Output runs name with args and returns stdout
func (ExecRunner) Output(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).Output()
	return string(out), err
}

// CombinedRunner runs commands and returns stdout and stderr interleaved.
// 'java -version' prints to stderr, so version probing needs this.
type CombinedRunner struct{}

// Output runs name with args and returns combined output
func (CombinedRunner) Output(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).CombinedOutput()
	return string(out), err
}

// OSEnvironment reads the real process environment
type OSEnvironment struct{}

// Getenv returns the value of key
func (OSEnvironment) Getenv(key string) string {
	return os.Getenv(key)
}

// MapEnvironment serves variables from a fixed map
type MapEnvironment map[string]string

// Getenv returns the value of key
func (m MapEnvironment) Getenv(key string) string {
	return m[key]
}
