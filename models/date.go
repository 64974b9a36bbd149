package models

import (
	"fmt"
	"strings"
	"time"
)

// dateLayout is the wire format for order dates: day/month/year without zero
// padding, matching the format the remote sheet has always stored.
const dateLayout = "2/1/2006"

// Date is a calendar date carried as a real time.Time internally while
// marshaling to the d/m/yyyy textual form at the wire boundary.
type Date struct {
	time.Time
}

// NewDate builds a Date from a time.Time, truncated to the calendar day.
func NewDate(t time.Time) Date {
	return Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())}
}

// String returns the d/m/yyyy form.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// MarshalJSON encodes the date as its d/m/yyyy string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", d.String())), nil
}

// UnmarshalJSON decodes a d/m/yyyy string. Empty strings yield the zero Date.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q (expected d/m/yyyy): %w", s, err)
	}
	d.Time = t
	return nil
}
