package staleness

import (
	"fmt"
	"time"
)

// Seconds returns elapsed as whole seconds, truncated. Negative values clamp to 0.
func Seconds(elapsed time.Duration) int64 {
	if elapsed < 0 {
		return 0
	}
	return int64(elapsed / time.Second)
}

// FormatAge renders elapsed as "N <unit> ago", escalating from seconds to
// minutes, hours and days. Each value is the truncated quotient, and the
// unit is singular only when that value is exactly 1.
func FormatAge(elapsed time.Duration) string {
	secs := Seconds(elapsed)
	switch {
	case secs < 60:
		return agoString(secs, "second")
	case secs < 60*60:
		return agoString(secs/60, "minute")
	case secs < 24*60*60:
		return agoString(secs/(60*60), "hour")
	default:
		return agoString(secs/(24*60*60), "day")
	}
}

func agoString(val int64, unit string) string {
	if val != 1 {
		unit += "s"
	}
	return fmt.Sprintf("%d %s ago", val, unit)
}
