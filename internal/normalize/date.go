package normalize

// date.go parses the date formats seen in legacy extracts into ISO-8601.
//
// Ambiguous numeric dates (05/01/2024) are always read month-first; the
// day-first layouts run only after every month-first layout has failed,
// which can happen only when the first number exceeds 12. This single
// policy keeps output deterministic across re-runs.

import "time"

// badDates are placeholder dates the legacy system used for "no date".
var badDates = map[string]bool{
	"00/00/0000": true,
	"1900-01-01": true,
	"0000-00-00": true,
	"01/01/1900": true,
}

// Date layouts grouped by precedence. ISO and other year-first forms are
// unambiguous and go first; month-first numeric forms encode the fixed
// disambiguation policy; textual months are unambiguous; day-first forms
// are a last resort for values no month-first layout accepts.
var (
	yearFirstLayouts = []string{
		"2006-01-02", "2006/01/02", "2006.01.02", "20060102",
	}
	monthFirstLayouts = []string{
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
	}
	textualLayouts = []string{
		"Jan 2, 2006", "January 2, 2006", "2 Jan 2006", "2 January 2006",
		"Jan 2 2006", "January 2 2006",
	}
	dayFirstLayouts = []string{
		"2/1/2006", "2-1-2006", "2.1.2006",
	}
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "2/1/06",
	}
)

// minYear and maxYear bound the plausible range for IP record dates.
const (
	minYear = 1900
	maxYear = 2050
)

// ParseDate parses a legacy date value into ISO-8601 (YYYY-MM-DD).
// Placeholder dates and empty values return "". Parse failures and dates
// outside [1900, 2050] return "" and record a warning.
func ParseDate(v string, w *Warnings) string {
	cleaned := CleanString(v)
	if cleaned == "" {
		return ""
	}
	if badDates[cleaned] {
		return ""
	}

	groups := [][]string{
		yearFirstLayouts,
		monthFirstLayouts,
		textualLayouts,
		dayFirstLayouts,
		twoDigitYearLayouts,
	}
	for _, layouts := range groups {
		for _, layout := range layouts {
			t, err := time.Parse(layout, cleaned)
			if err != nil {
				continue
			}
			if t.Year() < minYear || t.Year() > maxYear {
				w.Add(v, "date out of range")
				return ""
			}
			return t.Format("2006-01-02")
		}
	}

	w.Add(v, "unparseable date")
	return ""
}

// ValidDate reports whether a non-empty value parses to an in-range date.
// Used by the quality scorer, which counts failures without collecting
// warnings.
func ValidDate(v string) bool {
	return ParseDate(v, nil) != ""
}

// ExpiryDate derives an expiry date from an ISO filing date using the
// standard term for the IP type: patents 20 years from filing, trademarks
// 10 years (renewable), copyrights 95 years (corporate works). Unknown
// types and unparseable filing dates return "".
func ExpiryDate(filingISO, ipType string) string {
	if filingISO == "" {
		return ""
	}
	filed, err := time.Parse("2006-01-02", filingISO)
	if err != nil {
		return ""
	}

	var years int
	switch ipType {
	case "patent":
		years = 20
	case "trademark":
		years = 10
	case "copyright":
		years = 95
	default:
		return ""
	}

	return filed.AddDate(years, 0, 0).Format("2006-01-02")
}
