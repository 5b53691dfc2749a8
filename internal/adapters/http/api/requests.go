package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/okian/readiness/internal/domain/model"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := model.ParseDate(fl.Field().String())
		return err == nil
	})
	return v
}

// wellnessRequest mirrors the OpenAPI schema for POST /wellness. Sub-scores
// never fail to decode; unusable answers become absent.
type wellnessRequest struct {
	AthleteID      string         `json:"athleteId" validate:"required,max=128"`
	Date           string         `json:"date" validate:"required,isodate"`
	SleepQuality   model.SubScore `json:"sleepQuality"`
	Fatigue        model.SubScore `json:"fatigue"`
	MuscleSoreness model.SubScore `json:"muscleSoreness"`
	Stress         model.SubScore `json:"stress"`
	Mood           model.SubScore `json:"mood"`
	SleepHours     model.Hours    `json:"sleepHours"`
	Comment        string         `json:"comment" validate:"max=2000"`
}

func (req wellnessRequest) report() model.WellnessReport {
	day, _ := model.ParseDate(req.Date)
	return model.WellnessReport{
		AthleteID:      strings.TrimSpace(req.AthleteID),
		Date:           day,
		SleepQuality:   req.SleepQuality,
		Fatigue:        req.Fatigue,
		MuscleSoreness: req.MuscleSoreness,
		Stress:         req.Stress,
		Mood:           req.Mood,
		SleepHours:     req.SleepHours,
		Comment:        req.Comment,
	}
}

// loadRequest mirrors the OpenAPI schema for POST /load. srpe is accepted as
// an alias of load.
type loadRequest struct {
	AthleteID       string   `json:"athleteId" validate:"required,max=128"`
	Date            string   `json:"date" validate:"required,isodate"`
	RPE             *float64 `json:"rpe" validate:"omitempty,gte=0,lte=10"`
	DurationMinutes *float64 `json:"durationMinutes" validate:"omitempty,gte=0,lte=1440"`
	Load            *float64 `json:"load" validate:"omitempty,gte=0"`
	SRPE            *float64 `json:"srpe" validate:"omitempty,gte=0"`
}

func (req loadRequest) explicit() *float64 {
	if req.Load != nil {
		return req.Load
	}
	return req.SRPE
}

func (req loadRequest) check() error {
	if req.explicit() == nil && (req.RPE == nil || req.DurationMinutes == nil) {
		return fmt.Errorf("%w: rpe and durationMinutes are required without load", ErrBadRequest)
	}
	return nil
}

func (req loadRequest) entry() model.LoadEntry {
	day, _ := model.ParseDate(req.Date)
	e := model.LoadEntry{
		AthleteID: strings.TrimSpace(req.AthleteID),
		Date:      day,
		Load:      req.explicit(),
	}
	if req.RPE != nil {
		e.RPE = *req.RPE
	}
	if req.DurationMinutes != nil {
		e.DurationMinutes = *req.DurationMinutes
	}
	return e
}

// decode reads a JSON body into dst and runs struct validation.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", ErrBadRequest, err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %s", ErrBadRequest, describe(err))
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, "missing "+fe.Field())
		case "isodate":
			parts = append(parts, "invalid "+fe.Field()+"; must be YYYY-MM-DD")
		default:
			parts = append(parts, fmt.Sprintf("invalid %s; failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		}
	}
	return strings.Join(parts, ", ")
}

// dateParam reads a YYYY-MM-DD query parameter, falling back to def when absent.
func dateParam(r *http.Request, name string, def model.Date) (model.Date, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		return model.Date{}, fmt.Errorf("%w: invalid %s; must be YYYY-MM-DD", ErrBadRequest, name)
	}
	return d, nil
}
