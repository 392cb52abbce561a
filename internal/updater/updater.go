package updater

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/rs/zerolog/log"

	"github.com/cspace-puppet/cspace-user/internal/config"
)

const (
	// GitHubRepo is the repository releases are published to
	GitHubRepo = "cspace-puppet/cspace-user"

	// CheckInterval is minimum time between background update checks
	CheckInterval = 24 * time.Hour

	// UpdateTimeout bounds an interactive check-and-apply
	UpdateTimeout = 5 * time.Minute

	checksumFile = "SHA256SUMS.txt"
)

// Updater checks GitHub releases and replaces the running binary
type Updater struct {
	config         *config.Config
	currentVersion string
	selfUpdater    *selfupdate.Updater
	now            func() time.Time
}

// NewUpdater creates an Updater that validates downloads against SHA256SUMS.txt
func NewUpdater(cfg *config.Config, version string) (*Updater, error) {
	su, err := selfupdate.NewUpdater(selfupdate.Config{
		Validator: &selfupdate.ChecksumValidator{
			UniqueFilename: checksumFile,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create updater: %w", err)
	}

	return &Updater{
		config:         cfg,
		currentVersion: cleanVersion(version),
		selfUpdater:    su,
		now:            time.Now,
	}, nil
}

// CurrentVersion returns the running version without a 'v' prefix
func (u *Updater) CurrentVersion() string {
	return u.currentVersion
}

// ShouldCheckForUpdate reports whether a background check is due.
// Development builds never check.
func (u *Updater) ShouldCheckForUpdate() bool {
	if u.currentVersion == "dev" || u.currentVersion == "" {
		return false
	}
	if !u.config.UpdateConfig.Enabled || !u.config.UpdateConfig.AutoCheck {
		return false
	}
	return u.now().Sub(u.config.UpdateConfig.LastCheck) >= CheckInterval
}

// CheckForUpdate queries GitHub for the latest release.
// It returns nil when already up to date or when the user skipped that version.
func (u *Updater) CheckForUpdate(ctx context.Context) (*selfupdate.Release, error) {
	latest, found, err := u.selfUpdater.DetectLatest(ctx, selfupdate.ParseSlug(GitHubRepo))
	if err != nil {
		return nil, fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("no releases found for %s", GitHubRepo)
	}

	u.config.UpdateConfig.LastCheck = u.now()
	if err := u.config.Save(); err != nil {
		log.Warn().Err(err).Str("path", u.config.ConfigPath()).Msg("failed to record update check time")
	}

	if latest.LessOrEqual(u.currentVersion) {
		return nil, nil
	}
	if u.config.UpdateConfig.SkipVersion == latest.Version() {
		log.Debug().Str("version", latest.Version()).Msg("skipping release marked by user")
		return nil, nil
	}

	return latest, nil
}

// PerformUpdate downloads release over the running executable, restoring a
// backup if the replacement fails
func (u *Updater) PerformUpdate(ctx context.Context, release *selfupdate.Release) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to determine executable path: %w", err)
	}

	backup := exe + ".backup"
	if err := copyFile(exe, backup); err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}

	if err := selfupdate.UpdateTo(ctx, release.AssetURL, release.AssetName, exe); err != nil {
		if rollbackErr := os.Rename(backup, exe); rollbackErr != nil {
			return fmt.Errorf("update failed and rollback failed: update error: %w, rollback error: %v", err, rollbackErr)
		}
		return fmt.Errorf("update failed (rolled back): %w", err)
	}

	if err := os.Remove(backup); err != nil {
		log.Debug().Err(err).Str("path", backup).Msg("failed to remove update backup")
	}
	return nil
}

// SkipVersion records that the user does not want version
func (u *Updater) SkipVersion(version string) error {
	u.config.UpdateConfig.SkipVersion = version
	return u.config.Save()
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0755)
}

// cleanVersion removes 'v' prefix if present for consistent comparison
func cleanVersion(version string) string {
	return strings.TrimPrefix(strings.TrimSpace(version), "v")
}
