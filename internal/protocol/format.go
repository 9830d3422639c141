package protocol

import (
	"html"
	"strconv"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// Layouts the server is known to use for date_created: Flask's jsonify emits
// RFC 1123, the socket handlers emit isoformat() with or without an offset.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	time.RFC1123,
	time.RFC1123Z,
}

// ParseDate parses a date_created value.
func ParseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a date_created value as "January 2nd 2006, 3:04:05 pm"
// in loc. Unparseable input is returned unchanged.
func FormatDate(raw string, loc *time.Location) string {
	t, ok := ParseDate(raw)
	if !ok {
		return raw
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("January ") + ordinal(t.Day()) + t.Format(" 2006, 3:04:05 pm")
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}

var strictPolicy = bluemonday.StrictPolicy()

// Sanitize strips any markup from server-supplied text and decodes the HTML
// entities the server escapes user input with, leaving plain terminal text.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return html.UnescapeString(strictPolicy.Sanitize(s))
}
