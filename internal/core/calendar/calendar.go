// Package calendar converts between Unix seconds and proleptic Gregorian civil
// date-times without relying on the time package's calendar logic.
package calendar

import "math"

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour

	epochYear = 1970
)

var monthDays = [12]int64{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// maxCivil is the last instant a Civil can hold.
var maxCivil = Civil{Year: math.MaxUint16, Month: 12, Day: 31, Hour: 23, Minute: 59, Second: 59}

// MaxSeconds is the largest input SecondsToCivil represents exactly.
var MaxSeconds = CivilToSeconds(maxCivil)

// Civil is a broken-down civil date-time.
type Civil struct {
	Year   uint16
	Month  uint8 // 1-12
	Day    uint8 // 1-31
	Hour   uint8
	Minute uint8
	Second uint8
}

// IsLeapYear reports whether year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// DaysInYear returns 366 for leap years and 365 otherwise.
func DaysInYear(year int) int64 {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// DaysInMonth returns the length of month in year, or 0 if month is not 1-12.
func DaysInMonth(year int, month int) int {
	if month < 1 || month > 12 {
		return 0
	}
	if month == 2 && IsLeapYear(year) {
		return 29
	}
	return int(monthDays[month-1])
}

// SecondsToCivil converts seconds since the Unix epoch into a civil date-time.
// Negative input is treated as the epoch itself and input past MaxSeconds as
// the last second of year 65535.
func SecondsToCivil(total int64) Civil {
	if total < 0 {
		total = 0
	}
	if total > MaxSeconds {
		return maxCivil
	}

	days := total / secondsPerDay
	sod := total % secondsPerDay

	c := Civil{
		Hour:   uint8(sod / secondsPerHour),
		Minute: uint8((sod % secondsPerHour) / secondsPerMinute),
		Second: uint8(sod % secondsPerMinute),
	}

	year := epochYear
	for days >= DaysInYear(year) {
		days -= DaysInYear(year)
		year++
	}
	c.Year = uint16(year)

	for i, length := range monthDays {
		if i == 1 && IsLeapYear(year) {
			length++
		}
		if days < length {
			c.Month = uint8(i + 1)
			c.Day = uint8(days + 1)
			return c
		}
		days -= length
	}

	// Unreachable for a correctly resolved year.
	c.Month = 12
	c.Day = 31
	return c
}

// CivilToSeconds converts a civil date-time back into seconds since the Unix
// epoch. Dates before 1970 yield negative values.
func CivilToSeconds(c Civil) int64 {
	var days int64

	year := int(c.Year)
	if year >= epochYear {
		for y := epochYear; y < year; y++ {
			days += DaysInYear(y)
		}
	} else {
		for y := year; y < epochYear; y++ {
			days -= DaysInYear(y)
		}
	}

	for m := 1; m < int(c.Month) && m <= 12; m++ {
		days += int64(DaysInMonth(year, m))
	}
	if c.Day > 0 {
		days += int64(c.Day) - 1
	}

	return days*secondsPerDay +
		int64(c.Hour)*secondsPerHour +
		int64(c.Minute)*secondsPerMinute +
		int64(c.Second)
}

// Valid reports whether c names a real calendar date and time of day.
func (c Civil) Valid() bool {
	if c.Month < 1 || c.Month > 12 {
		return false
	}
	if c.Day < 1 || int(c.Day) > DaysInMonth(int(c.Year), int(c.Month)) {
		return false
	}
	return c.Hour < 24 && c.Minute < 60 && c.Second < 60
}
