package helpers

import (
	"fmt"
	"time"
)

// FormatAge describes how long ago then was relative to now, in the style of
// Docker and Kubernetes tooling ("2 minutes ago", "3 days ago").
func FormatAge(then, now time.Time) string {
	if then.IsZero() {
		return "unknown age"
	}
	elapsed := now.Sub(then)
	if elapsed < 0 {
		return formatDuration(-elapsed) + " from now"
	}
	return formatDuration(elapsed) + " ago"
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func formatDuration(d time.Duration) string {
	const day = 24 * time.Hour

	switch {
	case d < time.Minute:
		return plural(max(int(d.Seconds()), 1), "second")
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute")
	case d < day:
		return plural(int(d.Hours()), "hour")
	case d < 30*day:
		return plural(int(d/day), "day")
	case d < 365*day:
		// Rough approximation
		return plural(int(d/(30*day)), "month")
	default:
		return plural(int(d/(365*day)), "year")
	}
}
