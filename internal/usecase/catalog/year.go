package catalog

import (
	"strconv"
	"time"
)

// Year bounds accepted by the 4- and 8-digit branches.
const (
	minYear = 1900
	maxYear = 2100
)

// twoDigitPivot: two-digit years at or below the pivot map into the 2000s.
const twoDigitPivot = 30

// dateLayouts are tried in order by the generic fallback parse.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// ExtractYear derives a four-digit year from a raw manifest date value.
// Branches are tried in strict order, first match wins; 0 means absent.
// Malformed values never produce an error, only an absent year.
func ExtractYear(raw string) int {
	switch {
	case len(raw) == 8 && allDigits(raw):
		// YYYYMMDD: take the year part.
		y, _ := strconv.Atoi(raw[:4])
		if y >= minYear && y <= maxYear {
			return y
		}
		return 0
	case len(raw) == 4 && allDigits(raw):
		y, _ := strconv.Atoi(raw)
		if y >= minYear && y <= maxYear {
			return y
		}
		return 0
	case len(raw) == 2 && allDigits(raw):
		// Two-digit years carry no bounds check; the original pipeline
		// never applied one here and existing manifests rely on it.
		y, _ := strconv.Atoi(raw)
		if y <= twoDigitPivot {
			return 2000 + y
		}
		return 1900 + y
	default:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t.Year()
			}
		}
		return 0
	}
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
