package facts

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cspace-puppet/cspace-user/internal/java"
)

type stubProbe map[string]bool

func (s stubProbe) Exists(path string) bool     { return s[path] }
func (s stubProbe) Executable(path string) bool { return s[path] }

type stubRunner map[string]string

func (s stubRunner) Output(name string, args ...string) (string, error) {
	out, ok := s[name]
	if !ok {
		return "", errors.New("not found")
	}
	return out, nil
}

const redhatAlternatives = `java - status is auto.
 link currently points to /usr/lib/jvm/jre-1.8.0-openjdk.x86_64/bin/java
/usr/lib/jvm/jre-1.8.0-openjdk.x86_64/bin/java - family java-1.8.0-openjdk.x86_64 priority 1800
Current ` + "`best'" + ` version is /usr/lib/jvm/jre-1.8.0-openjdk.x86_64/bin/java.
`

func TestEnvironmentFacts(t *testing.T) {
	set := EnvironmentFacts([]string{
		"HOME=/home/cspace",
		"Path=C:\\Windows",
		"EMPTY=",
		"WITH_EQUALS=a=b",
		"=C:=C:\\",
		"malformed",
	})

	want := Set{
		"env_home":        "/home/cspace",
		"env_path":        "C:\\Windows",
		"env_empty":       "",
		"env_with_equals": "a=b",
	}
	if len(set) != len(want) {
		t.Fatalf("expected %d facts, got %d: %v", len(want), len(set), set)
	}
	for k, v := range want {
		if got, ok := set[k]; !ok || got != v {
			t.Errorf("fact %s: expected %q, got %q (present=%v)", k, v, got, ok)
		}
	}
}

func TestParseBestAlternative(t *testing.T) {
	if got := ParseBestAlternative(redhatAlternatives); got != "/usr/lib/jvm/jre-1.8.0-openjdk.x86_64" {
		t.Errorf("unexpected candidate %q", got)
	}
	if got := ParseBestAlternative("java - status is auto.\n"); got != "" {
		t.Errorf("expected empty candidate, got %q", got)
	}
	if got := ParseBestAlternative("best effort"); got != "" {
		t.Errorf("expected empty candidate for short line, got %q", got)
	}
}

func TestJavaHomeFacts(t *testing.T) {
	paths := java.DefaultPaths()
	osxHome := "/Library/Java/JavaVirtualMachines/jdk-21.jdk/Contents/Home"
	c := NewCollector(paths,
		stubProbe{paths.RedHatAlternativesPath: true, paths.OSXJavaHomeUtility: true},
		stubRunner{
			paths.RedHatAlternativesPath: redhatAlternatives,
			paths.OSXJavaHomeUtility:     "  " + osxHome + "\n",
		},
	)

	linux := c.JavaHomeFacts(java.RedHat)
	if linux[JavaHomeAlternatives] != "/usr/lib/jvm/jre-1.8.0-openjdk.x86_64" {
		t.Errorf("unexpected %s: %q", JavaHomeAlternatives, linux[JavaHomeAlternatives])
	}
	if _, ok := linux[JavaHomeOSX]; ok {
		t.Errorf("did not expect %s on linux", JavaHomeOSX)
	}

	darwin := c.JavaHomeFacts(java.Darwin)
	if darwin[JavaHomeOSX] != osxHome {
		t.Errorf("unexpected %s: %q", JavaHomeOSX, darwin[JavaHomeOSX])
	}
	if _, ok := darwin[JavaHomeAlternatives]; ok {
		t.Errorf("did not expect %s on darwin", JavaHomeAlternatives)
	}

	if len(c.JavaHomeFacts(java.Windows)) != 0 {
		t.Error("expected no java home facts on windows")
	}
}

func TestJavaHomeFactsMissingCommands(t *testing.T) {
	c := NewCollector(java.Paths{}, stubProbe{}, stubRunner{})

	if len(c.JavaHomeFacts(java.Debian)) != 0 || len(c.JavaHomeFacts(java.Darwin)) != 0 {
		t.Error("expected no facts when commands are missing")
	}
}

func TestEncodeDecode(t *testing.T) {
	set := Set{"env_home": "/home/cspace", "env_count": "10", "java_home": ""}

	for _, format := range []Format{FormatJSON, FormatYAML} {
		data, err := Encode(set, format)
		if err != nil {
			t.Fatalf("%s: unexpected encode error: %v", format, err)
		}
		decoded, err := Decode(data, format)
		if err != nil {
			t.Fatalf("%s: unexpected decode error: %v", format, err)
		}
		for k, v := range set {
			if decoded[k] != v {
				t.Errorf("%s: fact %s expected %q, got %q", format, k, v, decoded[k])
			}
		}
	}
}

func TestEncodeYAMLKeepsNumbersAsStrings(t *testing.T) {
	data, err := Encode(Set{"env_shlvl": "1", "env_home": "/root"}, FormatYAML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "env_home: /root\nenv_shlvl: \"1\"\n"
	if string(data) != want {
		t.Errorf("expected %q, got %q", want, data)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"json": FormatJSON, "YAML": FormatYAML, "yml": FormatYAML} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q): expected %s, got %s (err=%v)", in, want, got, err)
		}
	}
	if _, err := ParseFormat("toml"); err == nil {
		t.Error("expected an error for toml")
	}
}

func TestWriteFileUsesExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "facts.d", "cspace.yaml")

	if err := WriteFile(path, Set{"java_home": "/opt/jdk8"}, FormatJSON); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read fact file: %v", err)
	}
	if !strings.HasPrefix(string(data), "java_home: /opt/jdk8") {
		t.Errorf("expected YAML content, got %q", data)
	}
}

func TestReadFileMissingIsEmpty(t *testing.T) {
	set, err := ReadFile(filepath.Join(t.TempDir(), "absent.json"), FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set) != 0 {
		t.Errorf("expected no facts, got %v", set)
	}
}

func TestReadFileMergeKeepsOtherFacts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cspace.yml")
	if err := WriteFile(path, Set{"datacenter": "east", JavaHome: "/opt/jdk8"}, FormatJSON); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	existing, err := ReadFile(path, FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	existing.Merge(Set{JavaHome: "/opt/jdk17"})
	if err := WriteFile(path, existing, FormatJSON); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := ReadFile(path, FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["datacenter"] != "east" {
		t.Errorf("expected datacenter to survive, got %q", got["datacenter"])
	}
	if got[JavaHome] != "/opt/jdk17" {
		t.Errorf("expected java_home to be replaced, got %q", got[JavaHome])
	}
}

func TestReadFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	if _, err := ReadFile(path, FormatJSON); err == nil {
		t.Error("expected a parse error")
	}
}
