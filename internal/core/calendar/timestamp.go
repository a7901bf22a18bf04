package calendar

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrMalformed is wrapped by every FieldError.
var ErrMalformed = errors.New("malformed timestamp")

// FieldError describes a single timestamp field that failed to parse.
type FieldError struct {
	Field string // year, month, day, hour, minute or second
	Value string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: invalid %s %q", ErrMalformed, e.Field, e.Value)
}

func (e *FieldError) Unwrap() error {
	return ErrMalformed
}

// Clock returns the current time as seconds since the Unix epoch.
type Clock func() int64

// SystemClock reads the wall clock.
func SystemClock() int64 {
	return time.Now().Unix()
}

// Timestamp is an immutable civil date-time with second precision. The zero
// value formats as "0000/00/00 00:00:00".
type Timestamp struct {
	civil Civil
}

// NewTimestamp builds a Timestamp from its fields. Values are not validated.
func NewTimestamp(year uint16, month, day, hour, minute, second uint8) Timestamp {
	return Timestamp{civil: Civil{
		Year:   year,
		Month:  month,
		Day:    day,
		Hour:   hour,
		Minute: minute,
		Second: second,
	}}
}

// FromUnix converts seconds since the epoch into a Timestamp.
func FromUnix(sec int64) Timestamp {
	return Timestamp{civil: SecondsToCivil(sec)}
}

// Now returns the current wall-clock instant.
func Now() Timestamp {
	return NowFrom(SystemClock)
}

// NowFrom returns the instant reported by clock. A nil clock reads the wall clock.
func NowFrom(clock Clock) Timestamp {
	if clock == nil {
		clock = SystemClock
	}
	return FromUnix(clock())
}

func (t Timestamp) Year() uint16  { return t.civil.Year }
func (t Timestamp) Month() uint8  { return t.civil.Month }
func (t Timestamp) Day() uint8    { return t.civil.Day }
func (t Timestamp) Hour() uint8   { return t.civil.Hour }
func (t Timestamp) Minute() uint8 { return t.civil.Minute }
func (t Timestamp) Second() uint8 { return t.civil.Second }

// Civil returns the broken-down fields.
func (t Timestamp) Civil() Civil {
	return t.civil
}

// IsZero reports whether t is the zero Timestamp.
func (t Timestamp) IsZero() bool {
	return t.civil == Civil{}
}

// Valid reports whether t names a real date and time of day.
func (t Timestamp) Valid() bool {
	return t.civil.Valid()
}

// Unix returns t as seconds since the epoch.
func (t Timestamp) Unix() int64 {
	return CivilToSeconds(t.civil)
}

// Compare returns -1, 0 or +1 depending on whether t is before, equal to or
// after u.
func (t Timestamp) Compare(u Timestamp) int {
	a, b := t.key(), u.key()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Before reports whether t is strictly earlier than u.
func (t Timestamp) Before(u Timestamp) bool {
	return t.Compare(u) < 0
}

// After reports whether t is strictly later than u.
func (t Timestamp) After(u Timestamp) bool {
	return t.Compare(u) > 0
}

// key packs the fields into a single ordered integer so that malformed
// timestamps (e.g. month 0 from a lenient parse) still compare consistently.
func (t Timestamp) key() uint64 {
	c := t.civil
	return uint64(c.Year)<<40 |
		uint64(c.Month)<<32 |
		uint64(c.Day)<<24 |
		uint64(c.Hour)<<16 |
		uint64(c.Minute)<<8 |
		uint64(c.Second)
}

// Format renders t as "YYYY/MM/DD HH:MM:SS". Years past 9999 use more digits.
func (t Timestamp) Format() string {
	c := t.civil
	return fmt.Sprintf("%04d/%02d/%02d %02d:%02d:%02d", c.Year, c.Month, c.Day, c.Hour, c.Minute, c.Second)
}

func (t Timestamp) String() string {
	return t.Format()
}

type fieldSpec struct {
	name    string
	bitSize int
	min     uint64
	max     uint64
}

var (
	dateFields = [3]fieldSpec{
		{name: "year", bitSize: 16, min: 0, max: math.MaxUint16},
		{name: "month", bitSize: 8, min: 1, max: 12},
		{name: "day", bitSize: 8, min: 1, max: 31},
	}
	timeFields = [3]fieldSpec{
		{name: "hour", bitSize: 8, min: 0, max: 23},
		{name: "minute", bitSize: 8, min: 0, max: 59},
		{name: "second", bitSize: 8, min: 0, max: 59},
	}
)

// ParseTimestamp parses the text produced by Format. Any missing, non-numeric
// or out-of-range field fails with a *FieldError.
func ParseTimestamp(s string) (Timestamp, error) {
	values, errs := parseFields(s)
	if len(errs) > 0 {
		return Timestamp{}, errs[0]
	}

	ts := NewTimestamp(uint16(values[0]), uint8(values[1]), uint8(values[2]),
		uint8(values[3]), uint8(values[4]), uint8(values[5]))

	if int(ts.civil.Day) > DaysInMonth(int(ts.civil.Year), int(ts.civil.Month)) {
		return Timestamp{}, &FieldError{Field: "day", Value: strconv.Itoa(int(ts.civil.Day))}
	}

	return ts, nil
}

// ParseTimestampLenient parses s the way ParseTimestamp does but never fails:
// every field that cannot be parsed is set to 0.
func ParseTimestampLenient(s string) Timestamp {
	values, _ := parseFields(s)
	return NewTimestamp(uint16(values[0]), uint8(values[1]), uint8(values[2]),
		uint8(values[3]), uint8(values[4]), uint8(values[5]))
}

// parseFields returns the six numeric fields, zero for each one that failed,
// along with the errors in field order.
func parseFields(s string) ([6]uint64, []*FieldError) {
	var (
		values [6]uint64
		errs   []*FieldError
	)

	parts := strings.Fields(s)
	var datePart, timePart string
	if len(parts) > 0 {
		datePart = parts[0]
	}
	if len(parts) > 1 {
		timePart = parts[1]
	}
	if len(parts) > 2 {
		errs = append(errs, &FieldError{Field: "second", Value: strings.Join(parts[1:], " ")})
	}

	parseGroup := func(offset int, text, sep string, specs [3]fieldSpec) {
		tokens := strings.Split(text, sep)
		for i, spec := range specs {
			var tok string
			if i < len(tokens) {
				tok = tokens[i]
			}
			if i == len(specs)-1 && len(tokens) > len(specs) {
				tok = strings.Join(tokens[i:], sep)
			}

			v, err := strconv.ParseUint(tok, 10, spec.bitSize)
			if err != nil || v < spec.min || v > spec.max {
				errs = append(errs, &FieldError{Field: spec.name, Value: tok})
				continue
			}
			values[offset+i] = v
		}
	}

	parseGroup(0, datePart, "/", dateFields)
	parseGroup(3, timePart, ":", timeFields)

	return values, errs
}
