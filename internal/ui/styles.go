package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/aegis-aio/shellder/internal/models"
)

var (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorFailure   = lipgloss.Color("#EF4444")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorInfo      = lipgloss.Color("#3B82F6")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorHighlight = lipgloss.Color("#92400E")

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F9FAFB")).
			Background(ColorPrimary).
			Padding(0, 1)

	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleFailure = lipgloss.NewStyle().Foreground(ColorFailure)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleInfo    = lipgloss.NewStyle().Foreground(ColorInfo)
	StyleMuted   = lipgloss.NewStyle().Foreground(ColorMuted)

	StyleTarget = lipgloss.NewStyle().
			Bold(true).
			Background(ColorHighlight)
)

// TagStyle returns the style used for a classification tag.
func TagStyle(tag models.Tag) lipgloss.Style {
	switch tag {
	case models.TagError:
		return StyleFailure
	case models.TagStartup:
		return StyleWarning
	default:
		return StyleMuted
	}
}

// StateStyle returns the style used for a container state.
func StateStyle(state models.ContainerState) lipgloss.Style {
	switch state {
	case models.ContainerStateRunning:
		return StyleSuccess
	case models.ContainerStateStopped:
		return StyleWarning
	default:
		return StyleFailure
	}
}

// StateIcon returns a one-character marker for a container state.
func StateIcon(state models.ContainerState) string {
	switch state {
	case models.ContainerStateRunning:
		return StyleSuccess.Render("V")
	case models.ContainerStateStopped:
		return StyleWarning.Render("-")
	default:
		return StyleFailure.Render("X")
	}
}
