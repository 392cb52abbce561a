package updater

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/rs/zerolog/log"

	"github.com/cspace-puppet/cspace-user/internal/theme"
)

// Update actions offered by PromptForUpdate
const (
	ActionUpdate = "update"
	ActionSkip   = "skip"
	ActionLater  = "later"
)

// PromptForUpdate asks the user what to do about release
func (u *Updater) PromptForUpdate(release *selfupdate.Release) (string, error) {
	sizeMB := float64(release.AssetByteSize) / 1024 / 1024
	description := fmt.Sprintf("Download size: %.1f MB\n\n%s", sizeMB, truncateChangelog(release.ReleaseNotes, 400))

	var action string
	err := huh.NewSelect[string]().
		Title(theme.Subtitle.Render(fmt.Sprintf("Update available: %s → %s", u.currentVersion, release.Version()))).
		Description(theme.Faint.Render(description)).
		Options(
			huh.NewOption(theme.SuccessStyle.Render("Update now"), ActionUpdate),
			huh.NewOption(theme.InfoStyle.Render("Skip this version"), ActionSkip),
			huh.NewOption(theme.WarningStyle.Render("Remind me later"), ActionLater),
		).
		Value(&action).
		Run()
	if err != nil {
		return "", err
	}

	if action == ActionSkip {
		if err := u.SkipVersion(release.Version()); err != nil {
			log.Warn().Err(err).Msg("failed to save skip preference")
		}
	}

	return action, nil
}

// ShowUpdateNotification prints a one-line notice about an available release
func ShowUpdateNotification(currentVersion, latestVersion string) {
	fmt.Printf("\n%s Update available: %s → %s %s\n\n",
		theme.InfoStyle.Render("ℹ"),
		theme.Faint.Render(currentVersion),
		theme.ValueStyle.Render(latestVersion),
		theme.Faint.Render("(run 'cspace-user update')"))
}

// ShowUpdateSuccess prints the post-update banner
func ShowUpdateSuccess(version string) {
	fmt.Println()
	fmt.Println(theme.SuccessBox.Render(theme.SuccessMessage("Update Complete!")))
	fmt.Println(theme.Field("Version", theme.ValueStyle.Render(version)))
	fmt.Println()
}

// truncateChangelog shortens changelog to roughly maxLen, breaking at a newline or space
func truncateChangelog(changelog string, maxLen int) string {
	changelog = strings.TrimSpace(changelog)
	if changelog == "" {
		return "See release notes on GitHub for details."
	}
	if len(changelog) <= maxLen {
		return changelog
	}

	truncated := changelog[:maxLen]
	if idx := strings.LastIndex(truncated, "\n"); idx > maxLen/2 {
		truncated = truncated[:idx]
	} else if idx := strings.LastIndex(truncated, " "); idx > maxLen/2 {
		truncated = truncated[:idx]
	}

	return truncated + "..."
}
