package attribution

import (
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// orderDateFormats are the timestamp shapes the order API has been seen
// to return: RFC 1123 with numeric zone (v2 API) and ISO 8601.
var orderDateFormats = []string{
	"Mon, 02 Jan 2006 15:04:05 -0700",
	time.RFC3339,
}

// FormatOrderDate renders a vendor order timestamp as the 12-hour
// Central-time string the ledger sheet expects, e.g.
// "08/05/2026 11:22:01 AM CST". Unparseable input is passed through
// unchanged rather than dropped.
func FormatOrderDate(raw string, loc *time.Location) string {
	if raw == "" {
		return ""
	}

	for _, layout := range orderDateFormats {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		if loc == nil {
			return t.UTC().Format("01/02/2006 03:04:05 PM") + " UTC"
		}
		// Fixed CST label: the sheet's consumers key on it.
		return t.In(loc).Format("01/02/2006 03:04:05 PM") + " CST"
	}
	return raw
}

var totalPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatOrderTotal renders a vendor decimal string ("1234.5000") as a
// grouped two-decimal amount ("1,234.50"). Unparseable input is passed
// through unchanged.
func FormatOrderTotal(raw string) string {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	return totalPrinter.Sprintf("%.2f", v)
}
