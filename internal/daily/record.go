package daily

// Record is the merged biometric state of one calendar date. The date is
// the unique key, ISO YYYY-MM-DD. Pointer fields are nil when no source
// reported a value: absent is never coerced to zero. The one exception
// is IsStrengthDay, whose natural absence value is false.
type Record struct {
	Date             string   `json:"date"`
	ReadinessScore   *int     `json:"readinessScore"`
	ResilienceScore  *int     `json:"resilienceScore"`
	ResilienceLevel  *string  `json:"resilienceLevel"`
	HRVBalance       *float64 `json:"hrvBalance"`
	Steps            *int     `json:"steps"`
	DeepSleepMinutes *int     `json:"deepSleepMinutes"`
	IsStrengthDay    bool     `json:"isStrengthDay"`
}

// Complete reports whether the record can be plotted: both readiness
// and resilience scores have to be present.
func (r Record) Complete() bool {
	return r.ReadinessScore != nil && r.ResilienceScore != nil
}
