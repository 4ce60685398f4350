package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Adaptive colors for dark/light terminals
	colorPrimary   = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	colorDim       = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"}
	colorAccent    = lipgloss.AdaptiveColor{Light: "#F25D94", Dark: "#F25D94"}
	colorTabActive = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	colorTabBg     = lipgloss.AdaptiveColor{Light: "#EEEEEE", Dark: "#2A2A3E"}
	colorStatusBg  = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#16213E"}
	colorStatusFg  = lipgloss.AdaptiveColor{Light: "#3D3D3D", Dark: "#ABABAB"}
	colorGreen     = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#25D366"}

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			PaddingLeft(1)

	headerCountStyle = lipgloss.NewStyle().
				Foreground(colorDim)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorTabActive).
			Padding(0, 1)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(colorStatusFg).
				Background(colorTabBg).
				Padding(0, 1)

	itemTitleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	itemSelectedStyle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true)

	itemSourceStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	itemTimeStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	itemSummaryStyle = lipgloss.NewStyle().
				Foreground(colorStatusFg)

	noticeStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	statusBarStyle = lipgloss.NewStyle().
			Background(colorStatusBg).
			Foreground(colorStatusFg)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(colorAccent)
)
