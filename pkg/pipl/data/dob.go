// pkg/pipl/data/dob.go
package data

import (
	"errors"
	"time"
)

// DOB is a person's date of birth, carried as a date range. When the
// exact date is known the range has start equal to end.
type DOB struct {
	FieldMetadata
	DateRange *DateRange `json:"date_range,omitempty"`
	Display   string     `json:"display,omitempty"`
}

func (DOB) isField() {}

// IsSearchable reports whether the date of birth can take part in a
// query.
func (d DOB) IsSearchable() bool {
	return d.DateRange != nil
}

// Age estimates the person's age, taking the middle of the range as the
// birth date. ok is false when no range is present.
func (d DOB) Age() (age int, ok bool) {
	if d.DateRange == nil {
		return 0, false
	}
	dob := d.DateRange.Middle()
	if dob == nil {
		return 0, false
	}
	today := time.Now()
	age = today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		age--
	}
	return age, true
}

// AgeRange returns the minimum and maximum age the person may be. For an
// open ended range both bounds equal the estimated age.
func (d DOB) AgeRange() (start, end int, ok bool) {
	if d.DateRange == nil {
		return 0, 0, false
	}
	if d.DateRange.Start == nil || d.DateRange.End == nil {
		age, ok := d.Age()
		return age, age, ok
	}
	start, _ = DOB{DateRange: &DateRange{Start: d.DateRange.End, End: d.DateRange.End}}.Age()
	end, _ = DOB{DateRange: &DateRange{Start: d.DateRange.Start, End: d.DateRange.Start}}.Age()
	return start, end, true
}

func (d DOB) String() string {
	return d.Display
}

// DOBFromBirthYear builds a DOB spanning the given year.
func DOBFromBirthYear(year int) (DOB, error) {
	if year <= 0 {
		return DOB{}, errors.New("birth year must be positive")
	}
	return DOB{DateRange: DateRangeFromYears(year, year)}, nil
}

// DOBFromBirthDate builds a DOB for an exact birth date.
func DOBFromBirthDate(date Date) (DOB, error) {
	if date.After(time.Now()) {
		return DOB{}, errors.New("birth date cannot be in the future")
	}
	return DOB{DateRange: NewDateRange(date, date)}, nil
}

// DOBFromAge builds a DOB for a person of exactly the given age.
func DOBFromAge(age int) (DOB, error) {
	return DOBFromAgeRange(age, age)
}

// DOBFromAgeRange builds a DOB for a person whose age lies between
// startAge and endAge, swapping the bounds if they arrive reversed.
func DOBFromAgeRange(startAge, endAge int) (DOB, error) {
	if startAge < 0 || endAge < 0 {
		return DOB{}, errors.New("ages cannot be negative")
	}
	if startAge > endAge {
		startAge, endAge = endAge, startAge
	}
	today := time.Now()
	start := Date{yearsAgo(today, endAge+1).AddDate(0, 0, 1)}
	end := Date{yearsAgo(today, startAge)}
	return DOB{DateRange: NewDateRange(start, end)}, nil
}

// yearsAgo moves t back the given number of years, pinning February 29 to
// the 28th when the target year is not a leap year.
func yearsAgo(t time.Time, years int) time.Time {
	y, m, d := t.Date()
	y -= years
	if m == time.February && d == 29 && !isLeapYear(y) {
		d = 28
	}
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func isLeapYear(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}
