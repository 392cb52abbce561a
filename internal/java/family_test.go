package java

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseOSFamily(t *testing.T) {
	tests := map[string]OSFamily{
		"Debian":  Debian,
		"debian":  Debian,
		"RedHat":  RedHat,
		" redhat": RedHat,
		"Darwin":  Darwin,
		"windows": Windows,
		"Windows": Windows,
		"Suse":    Unknown,
		"":        Unknown,
	}

	for input, want := range tests {
		if got := ParseOSFamily(input); got != want {
			t.Errorf("ParseOSFamily(%q): expected %s, got %s", input, want, got)
		}
	}
}

func TestDetectOSFamily(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
		return path
	}

	ubuntu := write("ubuntu", "NAME=\"Ubuntu\"\nID=ubuntu\nID_LIKE=debian\n")
	rocky := write("rocky", "NAME=\"Rocky Linux\"\nID=\"rocky\"\nID_LIKE=\"rhel centos fedora\"\n")
	alpine := write("alpine", "NAME=\"Alpine Linux\"\nID=alpine\n")

	tests := []struct {
		name      string
		goos      string
		osRelease string
		want      OSFamily
	}{
		{"darwin", "darwin", "", Darwin},
		{"windows", "windows", "", Windows},
		{"ubuntu", "linux", ubuntu, Debian},
		{"rocky", "linux", rocky, RedHat},
		{"alpine", "linux", alpine, Unknown},
		{"missing os-release", "linux", filepath.Join(dir, "missing"), Unknown},
		{"freebsd", "freebsd", "", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectOSFamily(tt.goos, tt.osRelease); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
