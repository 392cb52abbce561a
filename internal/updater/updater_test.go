package updater

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cspace-puppet/cspace-user/internal/config"
)

func newTestUpdater(t *testing.T, version string) *Updater {
	t.Helper()
	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	u, err := NewUpdater(cfg, version)
	if err != nil {
		t.Fatalf("failed to create updater: %v", err)
	}
	return u
}

func TestCleanVersion(t *testing.T) {
	for in, want := range map[string]string{"v1.2.3": "1.2.3", "1.2.3": "1.2.3", " v0.1.0 ": "0.1.0"} {
		if got := cleanVersion(in); got != want {
			t.Errorf("cleanVersion(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestShouldCheckForUpdate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		version string
		modify  func(*config.UpdateConfig)
		want    bool
	}{
		{"never checked", "v1.0.0", func(c *config.UpdateConfig) {}, true},
		{"dev build", "dev", func(c *config.UpdateConfig) {}, false},
		{"disabled", "v1.0.0", func(c *config.UpdateConfig) { c.Enabled = false }, false},
		{"auto check off", "v1.0.0", func(c *config.UpdateConfig) { c.AutoCheck = false }, false},
		{"checked recently", "v1.0.0", func(c *config.UpdateConfig) { c.LastCheck = now.Add(-time.Hour) }, false},
		{"checked a day ago", "v1.0.0", func(c *config.UpdateConfig) { c.LastCheck = now.Add(-CheckInterval) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := newTestUpdater(t, tt.version)
			u.now = func() time.Time { return now }
			tt.modify(&u.config.UpdateConfig)

			if got := u.ShouldCheckForUpdate(); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestTruncateChangelog(t *testing.T) {
	if got := truncateChangelog("  ", 10); got != "See release notes on GitHub for details." {
		t.Errorf("unexpected default changelog %q", got)
	}
	if got := truncateChangelog("short", 10); got != "short" {
		t.Errorf("expected unchanged changelog, got %q", got)
	}

	long := strings.Repeat("word ", 20)
	got := truncateChangelog(long, 23)
	if got != "word word word word..." {
		t.Errorf("expected break at a space, got %q", got)
	}
}
