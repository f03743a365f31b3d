package domain

import "time"

// DayLayout keys the per-day and per-week totals.
const DayLayout = "2006-01-02"

// Summary aggregates quantities over a window of records.
type Summary struct {
	Records       int            `json:"records"`
	TotalQuantity int            `json:"total_quantity"`
	ByShift       map[string]int `json:"by_shift"`
	ByOperator    map[string]int `json:"by_operator"`
	ByMachine     map[string]int `json:"by_machine"`
	ByDay         map[string]int `json:"by_day"`
	// ByWeek is keyed by the Monday that starts each week.
	ByWeek map[string]int `json:"by_week"`
}

// Summarize totals records by shift, operator, machine, UTC day and week.
// A non-empty partName restricts the summary to that part.
func Summarize(records []Record, partName string) Summary {
	s := Summary{
		ByShift:    make(map[string]int),
		ByOperator: make(map[string]int),
		ByMachine:  make(map[string]int),
		ByDay:      make(map[string]int),
		ByWeek:     make(map[string]int),
	}
	for _, r := range records {
		if partName != "" && r.PartName != partName {
			continue
		}
		s.Records++
		s.TotalQuantity += r.Quantity
		s.ByShift[r.Shift] += r.Quantity
		s.ByOperator[r.Operator] += r.Quantity
		s.ByMachine[r.Machine] += r.Quantity

		day := r.CreatedAt.UTC()
		s.ByDay[day.Format(DayLayout)] += r.Quantity
		s.ByWeek[weekStart(day).Format(DayLayout)] += r.Quantity
	}
	return s
}

func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
	return time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, time.UTC)
}
