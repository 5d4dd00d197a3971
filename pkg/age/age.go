// Package age turns a birth date into the human readable label shown on
// the profile, timeline and appointment screens.
package age

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Label computes a whole-month age label for a birth date given as an
// ISO-8601 date string, relative to now. The second return value is false
// for unparseable or future dates.
func Label(birthDate string, now time.Time) (string, bool) {
	birth, err := time.Parse(dateLayout, birthDate)
	if err != nil {
		return "", false
	}
	now = now.Truncate(24 * time.Hour)
	if birth.After(now) {
		return "", false
	}

	months := monthsBetween(birth, now)
	switch {
	case months < 1:
		return "Less than a month old", true
	case months == 1:
		return "1 month old", true
	case months < 12:
		return fmt.Sprintf("%d months old", months), true
	}

	years := months / 12
	rest := months % 12
	if rest == 0 {
		if years == 1 {
			return "1 year old", true
		}
		return fmt.Sprintf("%d years old", years), true
	}
	return fmt.Sprintf("%dy %dm old", years, rest), true
}

// LabelNow is Label against the wall clock.
func LabelNow(birthDate string) (string, bool) {
	return Label(birthDate, time.Now().UTC())
}

func monthsBetween(from, to time.Time) int {
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
