package daily

import (
	"math"
	"sort"
	"strings"

	"github.com/daryadaneshmand/Oura-data/internal/oura"
)

// ResilienceLevelScores maps the five-level categorical resilience
// assessment to its ordinal score. Levels outside the table keep the
// raw level string but leave the score unknown.
var ResilienceLevelScores = map[string]int{
	"limited":     1,
	"adequate":    2,
	"solid":       3,
	"strong":      4,
	"exceptional": 5,
}

// IsStrengthActivity reports whether a workout activity label counts as
// strength training.
func IsStrengthActivity(activity string) bool {
	a := strings.ToLower(activity)
	return strings.Contains(a, "strength") ||
		strings.Contains(a, "weight") ||
		strings.Contains(a, "resistance") ||
		a == "weights" ||
		a == "strength_training"
}

// StrengthDays collects the dates with at least one strength training
// workout. Workout records without a day are skipped.
func StrengthDays(workouts []oura.WorkoutRecord) map[string]struct{} {
	days := make(map[string]struct{})
	for _, w := range workouts {
		if w.Day == "" {
			continue
		}
		if IsStrengthActivity(w.Activity) {
			days[w.Day] = struct{}{}
		}
	}
	return days
}

// accumulator is the date-keyed merge state. Records are created lazily
// by whichever source pass touches a date first; the strength day set is
// computed up front so every creation sees the correct flag.
type accumulator struct {
	strengthDays map[string]struct{}
	byDate       map[string]*Record
}

func newAccumulator(workouts []oura.WorkoutRecord) *accumulator {
	return &accumulator{
		strengthDays: StrengthDays(workouts),
		byDate:       make(map[string]*Record),
	}
}

func (a *accumulator) get(day string) *Record {
	if rec, ok := a.byDate[day]; ok {
		return rec
	}
	_, strength := a.strengthDays[day]
	rec := &Record{
		Date:          day,
		IsStrengthDay: strength,
	}
	a.byDate[day] = rec
	return rec
}

func (a *accumulator) applyResilience(r oura.ResilienceRecord) {
	if r.Day == "" {
		return
	}
	rec := a.get(r.Day)
	if r.Level != "" {
		level := r.Level
		rec.ResilienceLevel = &level
	}
	if score, ok := ResilienceLevelScores[r.Level]; ok {
		rec.ResilienceScore = &score
	}
}

func (a *accumulator) applyReadiness(r oura.ReadinessRecord) {
	if r.Day == "" {
		return
	}
	rec := a.get(r.Day)
	if r.Score.Set {
		score := r.Score.Val
		rec.ReadinessScore = &score
	}
	if r.Contributors.HRVBalance.Set {
		// remap the contributor from its native [1, 100] scale,
		// centered at 50, to [-1, 1] centered at 0
		balance := (r.Contributors.HRVBalance.Val - 50) / 50
		rec.HRVBalance = &balance
	}
}

func (a *accumulator) applyActivity(r oura.ActivityRecord) {
	if r.Day == "" {
		return
	}
	rec := a.get(r.Day)
	if r.Steps.Set {
		steps := r.Steps.Val
		rec.Steps = &steps
	}
}

func (a *accumulator) applySleep(r oura.SleepRecord) {
	if r.Day == "" {
		return
	}
	rec := a.get(r.Day)
	if !r.DeepSleepDuration.Set {
		// a missing duration leaves any accumulated value untouched
		return
	}
	mins := int(math.Round(r.DeepSleepDuration.Val / 60))
	if rec.DeepSleepMinutes != nil {
		// multiple sleep sessions can share a date, deep sleep adds up
		mins += *rec.DeepSleepMinutes
	}
	rec.DeepSleepMinutes = &mins
}

func (a *accumulator) records() []Record {
	merged := make([]Record, 0, len(a.byDate))
	for _, rec := range a.byDate {
		merged = append(merged, *rec)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Date < merged[j].Date
	})
	return merged
}

// Merge folds the five raw collections into one record per distinct
// date. The source passes always run in the fixed order resilience,
// readiness, activity, sleep; workouts only contribute the strength day
// set. Only the sleep pass is order sensitive (it accumulates), and only
// against itself.
func Merge(cols *oura.Collections) []Record {
	acc := newAccumulator(cols.Workouts)

	for _, r := range cols.Resilience {
		acc.applyResilience(r)
	}
	for _, r := range cols.Readiness {
		acc.applyReadiness(r)
	}
	for _, r := range cols.Activity {
		acc.applyActivity(r)
	}
	for _, r := range cols.Sleep {
		acc.applySleep(r)
	}
	// a workout-only date still gets a record, with every field unknown
	// apart from the strength day flag
	for _, w := range cols.Workouts {
		if w.Day != "" {
			acc.get(w.Day)
		}
	}

	return acc.records()
}
