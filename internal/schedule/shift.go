package schedule

import (
	"strconv"
	"strings"
)

// ShiftHours computes the duration in hours of a shift span like
// "9-17", "09:00-17:00" or "9-21(p)". Annotation suffixes are ignored;
// only the hour components matter. Overnight spans wrap: "22-6" is 8.
// The result is always in [0, 24].
func ShiftHours(span string) (float64, bool) {
	span = strings.ReplaceAll(span, " ", "")
	parts := strings.SplitN(span, "-", 2)
	if len(parts) != 2 {
		return 0, false
	}
	start, _, ok := parseClock(parts[0])
	if !ok {
		return 0, false
	}
	end, _, ok := parseClock(parts[1])
	if !ok {
		return 0, false
	}
	hours := end - start
	if hours < 0 {
		hours += 24
	}
	return float64(hours), true
}

// StartTime extracts the start hour and minute from a shift span.
func StartTime(span string) (hour, minute int, ok bool) {
	span = strings.ReplaceAll(span, " ", "")
	parts := strings.SplitN(span, "-", 2)
	if len(parts) == 0 {
		return 0, 0, false
	}
	return parseClock(parts[0])
}

// parseClock reads "H", "HH" or "H:MM" from the front of s, tolerating
// trailing annotation characters. At most two leading digits form the
// hour, matching the source grid's conventions.
func parseClock(s string) (hour, minute int, ok bool) {
	if i := strings.IndexByte(s, ':'); i >= 0 {
		m := leadingDigits(s[i+1:], 2)
		if m != "" {
			minute, _ = strconv.Atoi(m)
		}
		s = s[:i]
	}
	h := leadingDigits(s, 2)
	if h == "" {
		return 0, 0, false
	}
	hour, _ = strconv.Atoi(h)
	if hour > 24 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

func leadingDigits(s string, max int) string {
	n := 0
	for n < len(s) && n < max && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return s[:n]
}

// parseShortDate reads a DD.MM cell.
func parseShortDate(s string) (day, month int, ok bool) {
	parts := strings.SplitN(s, ".", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || day < 1 || day > 31 {
		return 0, 0, false
	}
	// The month part may carry a year suffix ("24.11.2025").
	mpart := strings.TrimSpace(parts[1])
	if i := strings.IndexByte(mpart, '.'); i >= 0 {
		mpart = mpart[:i]
	}
	month, err = strconv.Atoi(mpart)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	return day, month, true
}
