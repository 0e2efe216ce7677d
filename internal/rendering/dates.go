package rendering

import (
	"strings"

	"github.com/jonathan/cv-builder/internal/cv"
)

// FormatDate renders a month-granularity date as "Jan 2022". The ongoing marker renders as
// "Present", empty input as "", and anything unparseable is returned verbatim.
func FormatDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if strings.EqualFold(s, cv.PresentMarker) {
		return cv.PresentMarker
	}
	t, ok := cv.ParseMonth(s)
	if !ok {
		return s
	}
	return t.Format("Jan 2006")
}

// FormatEnd renders the end of a range. isCurrent wins over any end date; an absent end date
// or the ongoing marker also means the entry has not ended.
func FormatEnd(end string, isCurrent bool) string {
	if isCurrent || cv.IsOngoing(end) {
		return cv.PresentMarker
	}
	return FormatDate(end)
}

// DateRange renders "{start} - {end}". Without a start date only the end is returned.
func DateRange(start, end string, isCurrent bool) string {
	from := FormatDate(start)
	to := FormatEnd(end, isCurrent)
	if from == "" {
		return to
	}
	return from + " - " + to
}
