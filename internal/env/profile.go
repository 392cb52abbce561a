package env

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// exportJavaHomeRe matches an existing bash-style JAVA_HOME declaration
var exportJavaHomeRe = regexp.MustCompile(`(?m)^export\s+JAVA_HOME\s*=.*$`)

// ExportStatement returns the bash statement declaring JAVA_HOME
func ExportStatement(javaHome string) string {
	return fmt.Sprintf("export JAVA_HOME='%s'", javaHome)
}

// SetJavaHome writes an export statement for javaHome to the shell config
// file at path. The first existing declaration is replaced; if there is
// none the statement is appended.
func SetJavaHome(path, javaHome string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	updated := ReplaceOrAppend(string(data), javaHome)
	if updated == string(data) {
		return nil
	}

	if err := os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReplaceOrAppend returns text with its first JAVA_HOME declaration set to
// javaHome, appending one on its own line when none exists
func ReplaceOrAppend(text, javaHome string) string {
	stmt := ExportStatement(javaHome)

	if loc := exportJavaHomeRe.FindStringIndex(text); loc != nil {
		text = text[:loc[0]] + stmt + text[loc[1]:]
	} else {
		if text != "" && !strings.HasSuffix(text, "\n") {
			text += "\n"
		}
		text += stmt
	}

	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return text
}

// CurrentJavaHome returns the value of the first JAVA_HOME declaration in
// the file at path, unquoted, and whether one was found
func CurrentJavaHome(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	line := exportJavaHomeRe.FindString(string(data))
	if line == "" {
		return "", false
	}
	_, value, _ := strings.Cut(line, "=")
	value = strings.TrimSpace(value)
	return strings.Trim(value, `'"`), true
}
