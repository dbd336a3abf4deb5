package goalparse

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var testNow = time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)

func TestParseAt(t *testing.T) {
	defaultDate := testNow.AddDate(0, 0, DefaultHorizonDays).Format(DateLayout)

	tests := []struct {
		name      string
		text      string
		wantValue string
		wantDate  string
	}{
		{"hebrew goal with amount and date", "יעד 6000 עד 2026-01-31", "6000", "2026-01-31"},
		{"bare keyword falls back", "יעד", "3000", defaultDate},
		{"empty text falls back", "", "3000", defaultDate},
		{"thousands separators", "save 12,500.50 by 2026-03-01", "12500.5", "2026-03-01"},
		{"amount only", "goal 750", "750", defaultDate},
		{"date only keeps amount default", "עד 2026-01-31", "3000", "2026-01-31"},
		{"amount after date", "עד 2026-01-31 סכום 900", "900", "2026-01-31"},
		{"first amount wins", "between 100 and 200", "100", defaultDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, date := ParseAt(tt.text, testNow)
			want, err := decimal.NewFromString(tt.wantValue)
			if err != nil {
				t.Fatalf("bad test value %q: %v", tt.wantValue, err)
			}
			if !value.Equal(want) {
				t.Errorf("value: got %s, want %s", value, want)
			}
			if date != tt.wantDate {
				t.Errorf("date: got %q, want %q", date, tt.wantDate)
			}
		})
	}
}

func TestParseAt_MalformedNumberFallsBack(t *testing.T) {
	// "1.2.3" matches the numeric pattern but is not a valid literal.
	value, _ := ParseAt("goal 1.2.3", testNow)
	if !value.Equal(DefaultTargetValue) {
		t.Errorf("got %s, want default %s", value, DefaultTargetValue)
	}
}

func TestParse_DefaultDateIsComputedAtCallTime(t *testing.T) {
	_, date := Parse("יעד")
	want := time.Now().AddDate(0, 0, DefaultHorizonDays).Format(DateLayout)
	if date != want {
		t.Errorf("got %q, want %q", date, want)
	}
}
