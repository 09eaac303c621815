package attendance

import (
	"fmt"
	"math"
	"time"
)

// Policy holds the nominal shift start and the length of a regular day.
type Policy struct {
	StartHour    int
	RegularHours float64
}

// DefaultPolicy is an 8:00 start with 8 regular hours.
var DefaultPolicy = Policy{StartHour: 8, RegularHours: 8}

// WorkHours is the breakdown of one attendance record, in hours.
type WorkHours struct {
	Total    float64 `json:"total"`
	Regular  float64 `json:"regular"`
	Overtime float64 `json:"overtime"`
	Late     float64 `json:"late"`
}

// Calculate computes the breakdown for a completed record. A time out earlier
// than the time in is treated as a shift that ended the next day.
func (p Policy) Calculate(timeIn, timeOut string) (WorkHours, error) {
	in, err := time.Parse(TimeLayout, timeIn)
	if err != nil {
		return WorkHours{}, fmt.Errorf("invalid time in %q: %w", timeIn, err)
	}
	out, err := time.Parse(TimeLayout, timeOut)
	if err != nil {
		return WorkHours{}, fmt.Errorf("invalid time out %q: %w", timeOut, err)
	}

	diff := out.Sub(in)
	if diff < 0 {
		diff += 24 * time.Hour
	}
	total := diff.Hours()

	return WorkHours{
		Total:    total,
		Regular:  math.Min(total, p.RegularHours),
		Overtime: math.Max(0, total-p.RegularHours),
		Late:     p.late(in),
	}, nil
}

// Late returns hours late for a time in, to one decimal.
func (p Policy) Late(timeIn string) (float64, error) {
	in, err := time.Parse(TimeLayout, timeIn)
	if err != nil {
		return 0, fmt.Errorf("invalid time in %q: %w", timeIn, err)
	}
	return p.late(in), nil
}

func (p Policy) late(in time.Time) float64 {
	start := time.Date(in.Year(), in.Month(), in.Day(), p.StartHour, 0, 0, 0, in.Location())
	if !in.After(start) {
		return 0
	}
	// seconds are ignored
	minutes := (in.Hour()-p.StartHour)*60 + in.Minute()
	return math.Round(float64(minutes)/60*10) / 10
}

// FormatTotal renders total worked hours as "8.75h".
func FormatTotal(hours float64) string {
	return fmt.Sprintf("%.2fh", hours)
}

// FormatDuration renders hours as "0h 45m", or "—" when there is nothing to show.
func FormatDuration(hours float64) string {
	if hours <= 0 {
		return "—"
	}
	h := int(hours)
	m := int(math.Round((hours - float64(h)) * 60))
	if m == 60 {
		h++
		m = 0
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
