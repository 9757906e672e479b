package oura

import "encoding/json"

// DateRange is an inclusive [Start, End] window of ISO YYYY-MM-DD dates.
type DateRange struct {
	Start string
	End   string
}

// OptionalInt tolerates missing or non-numeric upstream values instead of
// failing the whole record. Third party rows are expected to be messy.
type OptionalInt struct {
	Set bool
	Val int
}

func (o *OptionalInt) UnmarshalJSON(b []byte) error {
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		o.Set = false
		return nil
	}
	o.Set = true
	o.Val = int(v)
	return nil
}

// OptionalFloat is OptionalInt for real-valued fields.
type OptionalFloat struct {
	Set bool
	Val float64
}

func (o *OptionalFloat) UnmarshalJSON(b []byte) error {
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		o.Set = false
		return nil
	}
	o.Set = true
	o.Val = v
	return nil
}

// Raw records as returned by the Oura v2 usercollection endpoints.
// Only the fields the merge reads are declared, the rest is ignored.

type ResilienceRecord struct {
	Day   string `json:"day"`
	Level string `json:"level"`
}

type ReadinessContributors struct {
	HRVBalance OptionalFloat `json:"hrv_balance"`
}

type ReadinessRecord struct {
	Day          string                `json:"day"`
	Score        OptionalInt           `json:"score"`
	Contributors ReadinessContributors `json:"contributors"`
}

type ActivityRecord struct {
	Day   string      `json:"day"`
	Steps OptionalInt `json:"steps"`
}

// SleepRecord is one sleep session. Multiple sessions can share a day.
// DeepSleepDuration is in seconds.
type SleepRecord struct {
	Day               string        `json:"day"`
	DeepSleepDuration OptionalFloat `json:"deep_sleep_duration"`
}

type WorkoutRecord struct {
	Day      string `json:"day"`
	Activity string `json:"activity"`
}

// Collections holds the five raw collections of one full fetch.
type Collections struct {
	Resilience []ResilienceRecord
	Readiness  []ReadinessRecord
	Activity   []ActivityRecord
	Sleep      []SleepRecord
	Workouts   []WorkoutRecord
}

// PersonalInfo is the minimal slice of the personal_info response used
// for token validation.
type PersonalInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
