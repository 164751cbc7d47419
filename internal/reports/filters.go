package reports

import (
	"errors"
	"time"
)

// GetDateRange returns the window for a preset, or for custom (startStr/endStr in "2006-01-02").
// An empty preset means no window and returns nil bounds.
func GetDateRange(dateRange, startStr, endStr string, now time.Time) (*time.Time, *time.Time, error) {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	endOfDay := func(t time.Time) time.Time { return t.Add(24*time.Hour - time.Second) }

	var start, end time.Time
	switch dateRange {
	case "":
		return nil, nil, nil
	case DateRangeDaily:
		start, end = today, endOfDay(today)
	case DateRangeWeekly:
		// last 7 days including today
		start, end = today.AddDate(0, 0, -6), endOfDay(today)
	case DateRangeMonthly:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 1, 0).Add(-time.Second)
	case DateRangeYearly:
		start = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, loc)
		end = time.Date(now.Year(), 12, 31, 23, 59, 59, 0, loc)
	case DateRangeCustom:
		if startStr == "" || endStr == "" {
			return nil, nil, errors.New("start_date and end_date required for custom range")
		}
		var err error
		if start, err = time.ParseInLocation("2006-01-02", startStr, loc); err != nil {
			return nil, nil, errors.New("invalid start_date, use YYYY-MM-DD")
		}
		if end, err = time.ParseInLocation("2006-01-02", endStr, loc); err != nil {
			return nil, nil, errors.New("invalid end_date, use YYYY-MM-DD")
		}
		// include entire end day
		end = endOfDay(end)
		if start.After(end) {
			return nil, nil, errors.New("start_date must be before end_date")
		}
	default:
		return nil, nil, errors.New("unknown date_range")
	}
	return &start, &end, nil
}
