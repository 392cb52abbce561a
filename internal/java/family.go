package java

import (
	"bufio"
	"os"
	"strings"
)

// OSFamily is the operating system family tag the resolver branches on.
// Values mirror the names Facter reports for the osfamily fact.
type OSFamily string

const (
	Debian  OSFamily = "Debian"
	RedHat  OSFamily = "RedHat"
	Darwin  OSFamily = "Darwin"
	Windows OSFamily = "windows"
	Unknown OSFamily = "Unknown"
)

// DefaultOSReleasePath is where Linux distributions describe themselves
const DefaultOSReleasePath = "/etc/os-release"

var debianLike = map[string]bool{
	"debian":    true,
	"ubuntu":    true,
	"linuxmint": true,
	"raspbian":  true,
}

var redhatLike = map[string]bool{
	"rhel":      true,
	"redhat":    true,
	"fedora":    true,
	"centos":    true,
	"rocky":     true,
	"almalinux": true,
	"ol":        true,
	"amzn":      true,
}

// ParseOSFamily maps a family name (case-insensitive) to an OSFamily.
// Unrecognised names map to Unknown.
func ParseOSFamily(name string) OSFamily {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debian":
		return Debian
	case "redhat":
		return RedHat
	case "darwin", "macos", "osx":
		return Darwin
	case "windows":
		return Windows
	default:
		return Unknown
	}
}

// DetectOSFamily derives the family for the running system. goos is a
// runtime.GOOS value; on linux the os-release file is consulted.
func DetectOSFamily(goos, osReleasePath string) OSFamily {
	switch goos {
	case "darwin":
		return Darwin
	case "windows":
		return Windows
	case "linux":
		return familyFromOSRelease(osReleasePath)
	default:
		return Unknown
	}
}

func familyFromOSRelease(path string) OSFamily {
	f, err := os.Open(path)
	if err != nil {
		return Unknown
	}
	defer f.Close()

	ids := make([]string, 0, 4)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !ok {
			continue
		}
		if key != "ID" && key != "ID_LIKE" {
			continue
		}
		value = strings.Trim(value, `"'`)
		ids = append(ids, strings.Fields(strings.ToLower(value))...)
	}

	for _, id := range ids {
		if debianLike[id] {
			return Debian
		}
		if redhatLike[id] {
			return RedHat
		}
	}
	return Unknown
}
