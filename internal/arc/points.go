package arc

import (
	"sort"

	"github.com/daryadaneshmand/Oura-data/internal/cycles"
	"github.com/daryadaneshmand/Oura-data/internal/daily"
)

// CycleDays filters daily records down to the dates inside any phase of
// the cycle that have both a readiness and a resilience score. The
// result is sorted ascending by date; input order does not matter.
func CycleDays(records []daily.Record, c cycles.Cycle) []daily.Record {
	days := make([]daily.Record, 0, len(records))
	for _, r := range records {
		if !cycles.DateInCycle(r.Date, c) {
			continue
		}
		if !r.Complete() {
			continue
		}
		days = append(days, r)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date < days[j].Date
	})
	return days
}
