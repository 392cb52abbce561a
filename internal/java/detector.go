package java

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Source names the fallback step that produced a Java home
type Source string

const (
	SourceRedHatDefault Source = "redhat-default"
	SourceAlternatives  Source = "alternatives"
	SourceOSXUtility    Source = "osx-java-home"
	SourceEnvironment   Source = "environment"
)

// Installation represents a resolved Java home
type Installation struct {
	Home   string // Java home directory, "" if none was found
	Source Source // Step that found it
}

var (
	versionQuotedRe  = regexp.MustCompile(`version\s+"([^"]+)"`)
	dirJdkRe         = regexp.MustCompile(`jdk-?(\d+(?:\.\d+)*(?:_\d+)?)`)
	dirJdkLegacyRe   = regexp.MustCompile(`jdk(1\.\d+\.\d+_\d+)`)
	dirJavaRe        = regexp.MustCompile(`java-?(\d+(?:\.\d+)*)`)
	dirTrailingNumRe = regexp.MustCompile(`(\d+(?:\.\d+)*)$`)
)

// Version reports the version of the Java installation at home.
// It runs 'bin/java -version' and falls back to the directory name.
func (r *Resolver) Version(home string) string {
	if home == "" {
		return ""
	}
	output, err := r.versionRunner.Output(javaExecutable(home), "-version")
	if err == nil {
		if version := parseVersionOutput(output); version != "" {
			return version
		}
	}
	r.logger.Debug().Err(err).Str("java_home", home).Msg("java -version gave no version, using directory name")

	// Symlinks like /usr/java/latest carry no version
	if lr, ok := r.probe.(LinkResolver); ok {
		if resolved, err := lr.EvalSymlinks(home); err == nil {
			home = resolved
		}
	}
	return parseVersionFromDirName(filepath.Base(home))
}

// parseVersionOutput parses the output of 'java -version'
func parseVersionOutput(output string) string {
	matches := versionQuotedRe.FindStringSubmatch(output)
	if len(matches) > 1 {
		return matches[1]
	}
	return ""
}

// parseVersionFromDirName extracts version from directory names like "jdk-17", "jdk1.8.0_322" or "java-11-openjdk-amd64"
func parseVersionFromDirName(dirName string) string {
	dirName = strings.ToLower(dirName)

	for _, re := range []*regexp.Regexp{dirJdkRe, dirJdkLegacyRe, dirJavaRe, dirTrailingNumRe} {
		if matches := re.FindStringSubmatch(dirName); len(matches) > 1 {
			return matches[1]
		}
	}

	return dirName
}
