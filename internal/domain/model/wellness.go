package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Questionnaire scale bounds.
const (
	MaxSubScore = 5.0
)

// Presence tells whether a sub-score carries a usable value.
type Presence uint8

const (
	// Absent means the field was missing, null, non-numeric or out of range.
	Absent Presence = iota
	// ZeroAsAbsent means a literal 0 was sent. It is kept apart from Absent
	// for diagnostics only; every computation ignores it.
	ZeroAsAbsent
	// Reported means a value in (0, MaxSubScore].
	Reported
)

func (p Presence) String() string {
	switch p {
	case ZeroAsAbsent:
		return "zero"
	case Reported:
		return "reported"
	default:
		return "absent"
	}
}

// SubScore is one answer of the daily wellness questionnaire (1..5, 5 best).
// The zero value is Absent.
type SubScore struct {
	value    float64
	presence Presence
}

// Score classifies a raw numeric answer.
func Score(v float64) SubScore {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > MaxSubScore:
		return SubScore{}
	case v == 0:
		return SubScore{presence: ZeroAsAbsent}
	default:
		return SubScore{value: v, presence: Reported}
	}
}

// Value returns the answer and whether it was reported.
func (s SubScore) Value() (float64, bool) {
	return s.value, s.presence == Reported
}

// Presence returns the tri-state presence of the answer.
func (s SubScore) Presence() Presence { return s.presence }

// Reported reports whether the answer carries a usable value.
func (s SubScore) Reported() bool { return s.presence == Reported }

// AtMost reports whether the answer is reported and <= limit.
func (s SubScore) AtMost(limit float64) bool {
	return s.presence == Reported && s.value <= limit
}

// Within reports whether the answer is reported and in [lo, hi].
func (s SubScore) Within(lo, hi float64) bool {
	return s.presence == Reported && s.value >= lo && s.value <= hi
}

// MarshalJSON writes reported values as numbers, a literal zero as 0 and
// absent answers as null.
func (s SubScore) MarshalJSON() ([]byte, error) {
	switch s.presence {
	case Reported:
		return json.Marshal(s.value)
	case ZeroAsAbsent:
		return []byte("0"), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON never fails: anything that is not a usable number decodes
// to Absent.
func (s *SubScore) UnmarshalJSON(b []byte) error {
	v, ok := decodeNumber(b)
	if !ok {
		*s = SubScore{}
		return nil
	}
	*s = Score(v)
	return nil
}

// Hours is an optional, non-negative number of hours.
type Hours struct {
	value float64
	known bool
}

// HoursOf returns a known value; negative or non-finite input yields an
// unknown value.
func HoursOf(v float64) Hours {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return Hours{}
	}
	return Hours{value: v, known: true}
}

// Value returns the hours and whether they are known.
func (h Hours) Value() (float64, bool) { return h.value, h.known }

// Known reports whether a value is present.
func (h Hours) Known() bool { return h.known }

// Below reports whether the value is known and < limit.
func (h Hours) Below(limit float64) bool { return h.known && h.value < limit }

// InRange reports whether the value is known and in [lo, hi).
func (h Hours) InRange(lo, hi float64) bool {
	return h.known && h.value >= lo && h.value < hi
}

// Ptr returns the value as a pointer, nil when unknown.
func (h Hours) Ptr() *float64 {
	if !h.known {
		return nil
	}
	v := h.value
	return &v
}

// MarshalJSON writes the hours or null.
func (h Hours) MarshalJSON() ([]byte, error) {
	if !h.known {
		return []byte("null"), nil
	}
	return json.Marshal(h.value)
}

// UnmarshalJSON never fails: unusable input decodes to unknown.
func (h *Hours) UnmarshalJSON(b []byte) error {
	v, ok := decodeNumber(b)
	if !ok {
		*h = Hours{}
		return nil
	}
	*h = HoursOf(v)
	return nil
}

// decodeNumber accepts a JSON number or a numeric string.
func decodeNumber(b []byte) (float64, bool) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return 0, false
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return 0, false
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, false
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return 0, false
	}
	return v, true
}

// WellnessReport is one athlete's daily self-report.
type WellnessReport struct {
	AthleteID      string   `json:"athleteId"`
	Date           Date     `json:"date"`
	SleepQuality   SubScore `json:"sleepQuality"`
	Fatigue        SubScore `json:"fatigue"`
	MuscleSoreness SubScore `json:"muscleSoreness"`
	Stress         SubScore `json:"stress"`
	Mood           SubScore `json:"mood"`
	SleepHours     Hours    `json:"sleepHours"`
	Comment        string   `json:"comment,omitempty"`
}

// SubScores returns the five questionnaire answers in a fixed order.
func (r WellnessReport) SubScores() [5]SubScore {
	return [5]SubScore{r.SleepQuality, r.Fatigue, r.MuscleSoreness, r.Stress, r.Mood}
}
