package age

import (
	"testing"
	"time"
)

func fixedNow(t *testing.T, value string) time.Time {
	t.Helper()
	now, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("bad test date %s: %v", value, err)
	}
	return now
}

func TestLabel(t *testing.T) {
	tests := []struct {
		birth string
		now   string
		want  string
	}{
		{"2024-01-15", "2024-03-20", "2 months old"},
		{"2024-03-01", "2024-03-20", "Less than a month old"},
		{"2024-02-20", "2024-03-20", "1 month old"},
		{"2023-03-20", "2024-03-20", "1 year old"},
		{"2022-03-20", "2024-03-20", "2 years old"},
		{"2021-12-20", "2024-03-20", "2y 3m old"},
		// Day-of-month not yet reached, month does not count.
		{"2024-01-21", "2024-03-20", "1 month old"},
	}
	for _, tc := range tests {
		got, ok := Label(tc.birth, fixedNow(t, tc.now))
		if !ok {
			t.Fatalf("Label(%s at %s): expected label, got none", tc.birth, tc.now)
		}
		if got != tc.want {
			t.Fatalf("Label(%s at %s) = %q want %q", tc.birth, tc.now, got, tc.want)
		}
	}
}

func TestLabelRejectsBadInput(t *testing.T) {
	now := fixedNow(t, "2024-03-20")
	if _, ok := Label("not-a-date", now); ok {
		t.Fatal("expected no label for unparseable date")
	}
	if _, ok := Label("2025-01-01", now); ok {
		t.Fatal("expected no label for future date")
	}
	if _, ok := Label("", now); ok {
		t.Fatal("expected no label for empty date")
	}
}

func TestLabelOnBirthday(t *testing.T) {
	got, ok := Label("2024-03-20", fixedNow(t, "2024-03-20"))
	if !ok || got != "Less than a month old" {
		t.Fatalf("expected newborn label, got %q ok=%v", got, ok)
	}
}
