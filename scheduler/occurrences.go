package scheduler

import (
	"strings"
	"time"
)

// ScheduleOptions describes a schedule for occurrence enumeration.
type ScheduleOptions struct {
	Frequency   string
	StartDate   time.Time
	StartTime   string // "HH:MM"
	EndDate     *time.Time
	Timezone    string
	CustomDays  []string
	CustomTimes []string
	Limit       int // max occurrences returned; defaults to 50
}

const defaultOccurrenceLimit = 50

// GenerateOccurrences enumerates upcoming fire times for a schedule.
// Unlike the installed trigger, this helper honors every entry of
// CustomTimes, so a preview may show more daily fire times than the
// trigger will actually produce for custom frequency.
func GenerateOccurrences(opts ScheduleOptions) []time.Time {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultOccurrenceLimit
	}

	loc, err := time.LoadLocation(opts.Timezone)
	if err != nil || opts.Timezone == "" {
		loc = time.UTC
	}

	times := opts.CustomTimes
	if len(times) == 0 {
		times = []string{opts.StartTime}
	}

	type clock struct{ hour, minute int }
	var clocks []clock
	for _, t := range times {
		h, m, err := parseClock(t)
		if err != nil {
			continue
		}
		clocks = append(clocks, clock{h, m})
	}
	if len(clocks) == 0 {
		return nil
	}

	dayAllowed := func(day time.Time) bool {
		if len(opts.CustomDays) == 0 {
			return true
		}
		name := strings.ToLower(day.Weekday().String())
		for _, d := range opts.CustomDays {
			if strings.ToLower(strings.TrimSpace(d)) == name {
				return true
			}
		}
		return false
	}

	var step func(time.Time) time.Time
	switch strings.ToLower(opts.Frequency) {
	case "daily", "custom":
		step = func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }
	case "weekly":
		step = func(t time.Time) time.Time { return t.AddDate(0, 0, 7) }
	case "monthly":
		step = func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }
	case "every_minute":
		return minuteOccurrences(opts.StartDate.In(loc), opts.EndDate, time.Minute, limit)
	case "every_2_minutes":
		return minuteOccurrences(opts.StartDate.In(loc), opts.EndDate, 2*time.Minute, limit)
	default:
		return nil
	}

	// Custom frequency walks day by day but requires its day restriction.
	if strings.ToLower(opts.Frequency) == "custom" && (len(opts.CustomDays) == 0 || len(opts.CustomTimes) == 0) {
		return nil
	}

	var result []time.Time
	day := opts.StartDate.In(loc)
	for i := 0; i < 1000 && len(result) < limit; i++ {
		if opts.EndDate != nil && !day.Before(opts.EndDate.In(loc)) {
			break
		}
		if dayAllowed(day) {
			for _, c := range clocks {
				occurrence := time.Date(day.Year(), day.Month(), day.Day(), c.hour, c.minute, 0, 0, loc)
				if opts.EndDate != nil && !occurrence.Before(opts.EndDate.In(loc)) {
					continue
				}
				if len(result) < limit {
					result = append(result, occurrence)
				}
			}
		}
		day = step(day)
	}
	return result
}

func minuteOccurrences(start time.Time, end *time.Time, interval time.Duration, limit int) []time.Time {
	var result []time.Time
	current := start.Truncate(time.Minute)
	for len(result) < limit {
		if end != nil && !current.Before(*end) {
			break
		}
		result = append(result, current)
		current = current.Add(interval)
	}
	return result
}
