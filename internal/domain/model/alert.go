package model

// Color is the traffic-light readiness signal.
type Color string

const (
	Green  Color = "green"
	Yellow Color = "yellow"
	Red    Color = "red"
)

// order ranks a color, higher is worse; unknown colors are -1.
func (c Color) order() int {
	switch c {
	case Green:
		return 0
	case Yellow:
		return 1
	case Red:
		return 2
	default:
		return -1
	}
}

// Worse reports whether c is a worse signal than o.
func (c Color) Worse(o Color) bool { return c.order() > o.order() }

// Valid reports whether c is one of the three known colors.
func (c Color) Valid() bool { return c.order() >= 0 }

// Severity is the outcome of the rule cascade.
type Severity string

const (
	Critical Severity = "CRITICAL"
	Warn     Severity = "WARN"
	OK       Severity = "OK"
)

// Rank orders severities for triage: CRITICAL=0, WARN=1, OK=2.
func (s Severity) Rank() int {
	switch s {
	case Critical:
		return 0
	case Warn:
		return 1
	default:
		return 2
	}
}

// AlertResult is the per-athlete, per-day readiness assessment.
// It is computed on demand and never persisted.
type AlertResult struct {
	UserID       string   `json:"userId"`
	Date         Date     `json:"date"`
	SDW          float64  `json:"sdw"`
	BaselineMean *float64 `json:"baselineMean"`
	Z            *float64 `json:"z"`
	Color        Color    `json:"color"`
	Severity     Severity `json:"severity"`
	Reasons      []string `json:"reasons"`
	Suggestions  []string `json:"suggestions"`
	SRPEPrev     int      `json:"srpePrev"`
}

// ZOrZero returns the deviation, treating null as 0.
func (a AlertResult) ZOrZero() float64 {
	if a.Z == nil {
		return 0
	}
	return *a.Z
}

// Task asks a worker to assess one athlete for one day. Complete is called
// exactly once with the outcome.
type Task struct {
	Index     int
	AthleteID string
	Date      Date
	Complete  func(AlertResult, error)
}
