package util

import "time"

// AddBusinessDays advances start one calendar day at a time and stops once
// n weekdays (Mon-Fri) have been counted. Saturday and Sunday are skipped.
func AddBusinessDays(start time.Time, n int) time.Time {
	current := start
	added := 0
	for added < n {
		current = current.AddDate(0, 0, 1)
		if IsBusinessDay(current) {
			added++
		}
	}
	return current
}

func IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

var chineseWeekdays = [...]string{"日", "一", "二", "三", "四", "五", "六"}

// FormatPickupDate renders a date as "2006/01/02 (三)".
func FormatPickupDate(t time.Time) string {
	return t.Format("2006/01/02") + " (" + chineseWeekdays[t.Weekday()] + ")"
}
