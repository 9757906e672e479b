package cycles

// Hand-curated cycle phase windows from Oura Cycle Insights.
// Phase durations are intentionally unequal - do not normalize.

type Phase string

const (
	PhaseFollicular Phase = "follicular"
	PhaseLuteal     Phase = "luteal"
	// PhaseNone means the date is covered by no phase window
	PhaseNone Phase = ""
)

// CyclePhase is an inclusive [Start, End] date window.
// Dates are fixed-width ISO YYYY-MM-DD strings, so plain string
// comparison orders them correctly.
type CyclePhase struct {
	Phase Phase  `json:"phase"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type Cycle struct {
	ID      string       `json:"id"`
	Label   string       `json:"label"`
	Lifting bool         `json:"lifting"`
	Phases  []CyclePhase `json:"phases"`
}

const LiftingStart = "2026-01-01"

var All = []Cycle{
	{
		ID:      "cycle_1",
		Label:   "Cycle 1",
		Lifting: false,
		Phases: []CyclePhase{
			{Phase: PhaseFollicular, Start: "2025-10-28", End: "2025-11-11"},
			{Phase: PhaseLuteal, Start: "2025-11-12", End: "2025-11-23"},
		},
	},
	{
		ID:      "cycle_2",
		Label:   "Cycle 2",
		Lifting: false,
		Phases: []CyclePhase{
			{Phase: PhaseFollicular, Start: "2025-11-24", End: "2025-12-09"},
			{Phase: PhaseLuteal, Start: "2025-12-10", End: "2025-12-20"},
		},
	},
	{
		ID:      "cycle_3",
		Label:   "Cycle 3",
		Lifting: false,
		Phases: []CyclePhase{
			{Phase: PhaseFollicular, Start: "2025-12-21", End: "2026-01-05"},
			{Phase: PhaseLuteal, Start: "2026-01-06", End: "2026-01-18"},
		},
	},
	{
		ID:      "cycle_4",
		Label:   "Cycle 4 — lifting",
		Lifting: true,
		Phases: []CyclePhase{
			{Phase: PhaseFollicular, Start: "2026-01-19", End: "2026-01-30"},
			{Phase: PhaseLuteal, Start: "2026-01-30", End: "2026-02-12"},
		},
	},
}

func ByID(id string) (Cycle, bool) {
	for _, c := range All {
		if c.ID == id {
			return c, true
		}
	}
	return Cycle{}, false
}

// PhaseForDate returns the phase whose window contains the date, or
// PhaseNone. Phases are scanned in listed order and the first match wins,
// so overlapping windows resolve to the earliest-listed phase (cycle 4
// has follicular end == luteal start).
func PhaseForDate(date string, cycle Cycle) Phase {
	for _, p := range cycle.Phases {
		if date >= p.Start && date <= p.End {
			return p.Phase
		}
	}
	return PhaseNone
}

// DateInCycle reports whether the date falls into any phase of the cycle.
func DateInCycle(date string, cycle Cycle) bool {
	return PhaseForDate(date, cycle) != PhaseNone
}
