package components

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathpop/internal/ui/theme"
)

// TimeBar draws the time left on a problem as a shrinking bar followed by
// the seconds remaining. The bar turns orange under 40% and red under 15%.
func TimeBar(remaining, total time.Duration, width int) string {
	label := fmt.Sprintf(" %4.1fs", remaining.Seconds())
	barWidth := max(width-lipgloss.Width(label), 4)

	frac := 0.0
	if total > 0 {
		frac = min(max(float64(remaining)/float64(total), 0), 1)
	}
	filled := int(float64(barWidth)*frac + 0.5)

	style := theme.TimeFull
	switch {
	case frac < 0.15:
		style = theme.TimeOut
	case frac < 0.4:
		style = theme.TimeLow
	}

	return style.Render(strings.Repeat(" ", filled)) +
		theme.TimeGone.Render(strings.Repeat(" ", barWidth-filled)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(label)
}
