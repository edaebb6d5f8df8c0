// pkg/pipl/data/dates.go
package data

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date, carried on the wire as yyyy-mm-dd.
type Date struct {
	time.Time
}

// NewDate returns the Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("failed to parse date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// DateRange is a time interval between two dates. An exact date is a
// range whose start equals its end. Either bound may be missing.
type DateRange struct {
	Start *Date `json:"start,omitempty"`
	End   *Date `json:"end,omitempty"`
}

// NewDateRange builds a range from two dates, swapping them if they
// arrive in reverse order.
func NewDateRange(start, end Date) *DateRange {
	if start.After(end.Time) {
		start, end = end, start
	}
	return &DateRange{Start: &start, End: &end}
}

// DateRangeFromYears spans the whole of startYear through endYear.
func DateRangeFromYears(startYear, endYear int) *DateRange {
	return NewDateRange(NewDate(startYear, time.January, 1), NewDate(endYear, time.December, 31))
}

// IsExact reports whether the range pins down a single date.
func (r *DateRange) IsExact() bool {
	return r.Start != nil && r.End != nil && r.Start.Equal(r.End.Time)
}

// Middle returns the midpoint of the range rounded down to a whole day,
// or whichever bound is present when the range is open ended. Returns nil
// for an empty range.
func (r *DateRange) Middle() *Date {
	if r.Start == nil || r.End == nil {
		if r.Start != nil {
			return r.Start
		}
		return r.End
	}
	days := (r.End.Unix() - r.Start.Unix()) / 86400
	mid := Date{r.Start.AddDate(0, 0, int(days/2))}
	return &mid
}

// YearsRange returns the years of the two bounds. ok is false when either
// bound is missing.
func (r *DateRange) YearsRange() (start, end int, ok bool) {
	if r.Start == nil || r.End == nil {
		return 0, 0, false
	}
	return r.Start.Year(), r.End.Year(), true
}

func (r *DateRange) String() string {
	if r.Start == nil {
		return ""
	}
	if r.End == nil {
		return r.Start.String()
	}
	return r.Start.String() + " - " + r.End.String()
}

func (r *DateRange) UnmarshalJSON(b []byte) error {
	type plain DateRange
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	if p.Start == nil && p.End == nil {
		return errors.New("date range requires a start or an end date")
	}
	if p.Start != nil && p.End != nil && p.Start.After(p.End.Time) {
		p.Start, p.End = p.End, p.Start
	}
	*r = DateRange(p)
	return nil
}
