package intake

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

// formatTimestamp renders t the way es-MX locales print a date and time:
// day/month/year, then a 12-hour clock with an a.m./p.m. suffix.
func formatTimestamp(t time.Time) string {
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	suffix := "a.m."
	if t.Hour() >= 12 {
		suffix = "p.m."
	}
	return fmt.Sprintf("%d/%d/%d, %d:%02d:%02d %s",
		t.Day(), int(t.Month()), t.Year(), hour, t.Minute(), t.Second(), suffix)
}
