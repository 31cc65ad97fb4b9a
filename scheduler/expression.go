package scheduler

import (
	"fmt"
	"strconv"
	"strings"

	domainCampaign "github.com/postpilot/postpilot/domains/campaign"
	domainScheduler "github.com/postpilot/postpilot/domains/scheduler"
)

// cronWeekdays maps lowercase weekday names to standard cron day numbers.
var cronWeekdays = map[string]int{
	"sunday":    0,
	"monday":    1,
	"tuesday":   2,
	"wednesday": 3,
	"thursday":  4,
	"friday":    5,
	"saturday":  6,
}

// CronExpression derives the five-field cron trigger for a campaign's
// schedule. Pure function. Campaigns whose schedule fields cannot produce
// a trigger get ErrScheduleUnresolvable.
//
// Known limitation carried over on purpose: custom frequency honors only
// the first entry of custom_times. Multiple daily fire times exist only
// in the occurrence preview (GenerateOccurrences), not in the trigger.
func CronExpression(c domainCampaign.Campaign) (string, error) {
	switch domainCampaign.Frequency(strings.ToLower(string(c.Frequency))) {
	case domainCampaign.FrequencyEveryMinute:
		return "* * * * *", nil

	case domainCampaign.FrequencyEvery2Minutes:
		return "*/2 * * * *", nil

	case domainCampaign.FrequencyDaily:
		hour, minute, err := parseClock(c.StartTime)
		if err != nil {
			return "", unresolvable(c, err)
		}
		return fmt.Sprintf("%d %d * * *", minute, hour), nil

	case domainCampaign.FrequencyWeekly:
		hour, minute, err := parseClock(c.StartTime)
		if err != nil {
			return "", unresolvable(c, err)
		}
		if len(c.CustomDays) > 0 {
			days, ok := cronDaySet(c.CustomDays)
			if !ok {
				return "", unresolvable(c, fmt.Errorf("no recognizable weekday in %v", c.CustomDays))
			}
			return fmt.Sprintf("%d %d * * %s", minute, hour, days), nil
		}
		// Default weekly day is Monday.
		return fmt.Sprintf("%d %d * * 1", minute, hour), nil

	case domainCampaign.FrequencyMonthly:
		hour, minute, err := parseClock(c.StartTime)
		if err != nil {
			return "", unresolvable(c, err)
		}
		return fmt.Sprintf("%d %d %d * *", minute, hour, c.StartDate.Day()), nil

	case domainCampaign.FrequencyCustom:
		if len(c.CustomDays) == 0 || len(c.CustomTimes) == 0 {
			return "", unresolvable(c, fmt.Errorf("custom frequency requires custom_days and custom_times"))
		}
		hour, minute, err := parseClock(c.CustomTimes[0])
		if err != nil {
			return "", unresolvable(c, err)
		}
		days, ok := cronDaySet(c.CustomDays)
		if !ok {
			return "", unresolvable(c, fmt.Errorf("no recognizable weekday in %v", c.CustomDays))
		}
		return fmt.Sprintf("%d %d * * %s", minute, hour, days), nil

	default:
		return "", unresolvable(c, fmt.Errorf("unknown frequency %q", c.Frequency))
	}
}

func unresolvable(c domainCampaign.Campaign, cause error) error {
	return fmt.Errorf("%w: campaign %s: %v", domainScheduler.ErrScheduleUnresolvable, c.ID, cause)
}

// parseClock parses an "HH:MM" clock string.
func parseClock(value string) (hour, minute int, err error) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q", value)
	}

	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q", value)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q", value)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("time %q out of range", value)
	}
	return hour, minute, nil
}

// cronDaySet renders the recognized weekday names as a cron day-of-week
// list. Unknown names are dropped. The second return is false when
// nothing usable remains.
func cronDaySet(names []string) (string, bool) {
	var days []string
	for _, name := range names {
		if n, ok := cronWeekdays[strings.ToLower(strings.TrimSpace(name))]; ok {
			days = append(days, strconv.Itoa(n))
		}
	}
	if len(days) == 0 {
		return "", false
	}
	return strings.Join(days, ","), true
}
