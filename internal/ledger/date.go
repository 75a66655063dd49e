package ledger

import (
	"fmt"
	"time"
)

// Date is a calendar date in YYYY-MM-DD form. The fixed-width, zero-padded
// layout makes the string ordering equal to the chronological ordering, so
// dates compare with < and > directly. The zero value means "unbounded".
type Date string

const DateLayout = "2006-01-02"

func Today() Date {
	return Date(time.Now().UTC().Format(DateLayout))
}

// ParseDate validates s against the YYYY-MM-DD layout.
func ParseDate(s string) (Date, error) {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date(s), nil
}

func (d Date) Validate() error {
	_, err := ParseDate(string(d))
	return err
}

func (d Date) Time() time.Time {
	t, _ := time.Parse(DateLayout, string(d))
	return t
}

// Before reports whether d falls strictly before other. An unbounded other
// means "end of time", so every dated value is before it.
func (d Date) Before(other Date) bool {
	if other == "" {
		return true
	}
	return d < other
}

// Between reports whether d falls within [from, to] inclusive. Empty bounds
// are open.
func (d Date) Between(from, to Date) bool {
	if from != "" && d < from {
		return false
	}
	if to != "" && d > to {
		return false
	}
	return true
}
