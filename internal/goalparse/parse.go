// Package goalparse extracts a target amount and target date from free-form
// goal text. Both scans are independent and degrade to documented defaults
// rather than failing; malformed input never yields an error.
package goalparse

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO calendar date layout used across the ledger.
const DateLayout = "2006-01-02"

// DefaultHorizonDays is added to today when the text carries no date.
const DefaultHorizonDays = 100

// DefaultTargetValue is used when the text carries no amount.
var DefaultTargetValue = decimal.NewFromInt(3000)

var (
	numberPattern = regexp.MustCompile(`\d[\d,.]*`)
	datePattern   = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)

// Parse scans text for the first amount (digits with optional thousands
// separators and a decimal point) and the first ISO date. Missing parts fall
// back to DefaultTargetValue and now+DefaultHorizonDays.
func Parse(text string) (decimal.Decimal, string) {
	return ParseAt(text, time.Now())
}

// ParseAt is Parse with an explicit clock, for deterministic tests.
func ParseAt(text string, now time.Time) (decimal.Decimal, string) {
	date := ""
	if loc := datePattern.FindStringIndex(text); loc != nil {
		date = text[loc[0]:loc[1]]
		// Mask the date span so its year digits are not read as an amount.
		text = text[:loc[0]] + strings.Repeat(" ", loc[1]-loc[0]) + text[loc[1]:]
	}

	value := DefaultTargetValue
	if m := numberPattern.FindString(text); m != "" {
		if v, err := decimal.NewFromString(strings.ReplaceAll(m, ",", "")); err == nil {
			value = v
		}
		// A match that is not a valid numeric literal keeps the default.
	}

	if date == "" {
		date = now.AddDate(0, 0, DefaultHorizonDays).Format(DateLayout)
	}
	return value, date
}
