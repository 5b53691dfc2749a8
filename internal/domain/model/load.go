package model

// LoadEntry is one perceived-exertion report for a training session.
type LoadEntry struct {
	ID              string   `json:"id"`
	AthleteID       string   `json:"athleteId"`
	Date            Date     `json:"date"`
	RPE             float64  `json:"rpe"`             // 0..10
	DurationMinutes float64  `json:"durationMinutes"` // session minutes
	Load            *float64 `json:"load,omitempty"`  // explicit AU figure, when the client sent one
}

// WeeklyLoadSummary describes the realized load of a period.
type WeeklyLoadSummary struct {
	ByDay    map[Date]float64 `json:"byDay"`
	Total    float64          `json:"total"`
	Mean     float64          `json:"mean"`
	SD       float64          `json:"sd"`
	Monotony float64          `json:"monotony"`
	Strain   float64          `json:"strain"`
}

// Workload is an acute:chronic snapshot for one athlete.
type Workload struct {
	AthleteID string  `json:"athleteId"`
	AsOf      Date    `json:"asOf"`
	Acute     float64 `json:"acute"`
	Chronic   float64 `json:"chronic"`
	ACWR      float64 `json:"acwr"`
	Zone      string  `json:"zone"`
}
