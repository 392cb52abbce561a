package env

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReplaceOrAppend(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "empty file",
			text: "",
			want: "export JAVA_HOME='/opt/jdk8'\n",
		},
		{
			name: "append after content without newline",
			text: "alias ll='ls -l'",
			want: "alias ll='ls -l'\nexport JAVA_HOME='/opt/jdk8'\n",
		},
		{
			name: "replace existing declaration",
			text: "PATH=$PATH:~/bin\nexport JAVA_HOME=/usr/lib/jvm/old\nexport PATH\n",
			want: "PATH=$PATH:~/bin\nexport JAVA_HOME='/opt/jdk8'\nexport PATH\n",
		},
		{
			name: "replace declaration with spaces around equals",
			text: "export   JAVA_HOME = \"/old\"\n",
			want: "export JAVA_HOME='/opt/jdk8'\n",
		},
		{
			name: "indented or commented declarations are not touched",
			text: "# export JAVA_HOME=/old\n",
			want: "# export JAVA_HOME=/old\nexport JAVA_HOME='/opt/jdk8'\n",
		},
		{
			name: "only the first declaration is replaced",
			text: "export JAVA_HOME=/a\nexport JAVA_HOME=/b\n",
			want: "export JAVA_HOME='/opt/jdk8'\nexport JAVA_HOME=/b\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReplaceOrAppend(tt.text, "/opt/jdk8"); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSetJavaHomeIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".bashrc")
	if err := os.WriteFile(path, []byte("# user bashrc\nalias ll='ls -l'\n"), 0600); err != nil {
		t.Fatalf("failed to write profile: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := SetJavaHome(path, "/opt/jdk8"); err != nil {
			t.Fatalf("run %d: unexpected error: %v", i+1, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read profile: %v", err)
	}
	if n := strings.Count(string(data), "export JAVA_HOME="); n != 1 {
		t.Errorf("expected exactly one export line, got %d in %q", n, data)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("failed to stat profile: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected permissions 0600 to be kept, got %v", info.Mode().Perm())
	}

	value, ok := CurrentJavaHome(path)
	if !ok || value != "/opt/jdk8" {
		t.Errorf("expected current value /opt/jdk8, got %q (found=%v)", value, ok)
	}
}

func TestSetJavaHomeReplacesValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".profile")
	if err := os.WriteFile(path, []byte("export JAVA_HOME='/opt/jdk8'\n"), 0644); err != nil {
		t.Fatalf("failed to write profile: %v", err)
	}

	if err := SetJavaHome(path, "/opt/jdk17"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "export JAVA_HOME='/opt/jdk17'\n" {
		t.Errorf("unexpected profile content %q", data)
	}
}

func TestSetJavaHomeMissingFile(t *testing.T) {
	if err := SetJavaHome(filepath.Join(t.TempDir(), "missing"), "/opt/jdk8"); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestWritable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".bashrc")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("failed to write profile: %v", err)
	}

	if !Writable(path) {
		t.Error("expected file to be writable")
	}
	if Writable(filepath.Join(dir, "missing")) {
		t.Error("expected missing file to be reported as not writable")
	}
	if Writable(dir) {
		t.Error("expected a directory to be reported as not writable")
	}
}
