package leave

import (
	"math"
	"time"
)

// DaySpan returns the inclusive number of days a request covers. Both
// endpoints count, so a single-day request is 1 and the result is fractional
// when the timestamps are not midnight-aligned.
func DaySpan(start, end time.Time) (float64, error) {
	if end.Before(start) {
		return 0, ErrEndBeforeStart
	}
	return end.Sub(start).Hours()/24 + 1, nil
}

// UsedDays sums the inclusive day spans of approved requests per type.
// Requests with inverted dates are skipped; they can only exist through
// direct data edits.
func UsedDays(requests []Request) map[string]float64 {
	used := make(map[string]float64, len(Types()))
	for _, t := range Types() {
		used[t] = 0
	}
	for _, r := range requests {
		if r.Status != StatusApproved {
			continue
		}
		days, err := DaySpan(r.StartDate, r.EndDate)
		if err != nil {
			continue
		}
		used[r.Type] += days
	}
	return used
}

// ComputeBalance derives remaining days per type: the allowance less the
// used total rounded up, clamped at zero so over-consumption never reports
// a negative balance.
func ComputeBalance(allowance Allowance, used map[string]float64) Balance {
	quota := allowance.ByType()
	remaining := make(map[string]int, len(quota))
	for _, t := range Types() {
		rem := quota[t] - int(math.Ceil(used[t]))
		if rem < 0 {
			rem = 0
		}
		remaining[t] = rem
	}
	return Balance{
		EmployeeID: allowance.EmployeeID,
		Year:       allowance.Year,
		Allowance:  quota,
		Used:       used,
		Remaining:  remaining,
	}
}
