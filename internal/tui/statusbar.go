package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func renderStatusBar(articleCount int, categoryLabel, notice, refreshView string, width int) string {
	left := fmt.Sprintf(" %d articles", articleCount)
	if categoryLabel != "" && categoryLabel != "All" {
		left += " · " + categoryLabel
	}
	if refreshView != "" {
		left += " · " + refreshView
	}
	if notice != "" {
		left += " · " + noticeStyle.Render(notice)
	}

	right := " r refresh  ←/→ category  o open  q quit "
	if refreshView != "" {
		right = " fetching...  q quit "
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right
	return statusBarStyle.Width(width).Render(bar)
}
