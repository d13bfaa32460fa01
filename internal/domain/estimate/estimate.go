// Package estimate carries time estimates that may legitimately have no
// numeric answer. Callers never see NaN or infinite durations.
package estimate

import (
	"encoding/json"
	"math"
	"time"
)

type Status string

const (
	StatusOK            Status = "ok"
	StatusAtCap         Status = "at_cap"        // nothing left to progress
	StatusIndeterminate Status = "indeterminate" // rate is zero or unusable
	StatusUnavailable   Status = "unavailable"   // an input is missing
)

// Estimate is a duration in hours qualified by a status. Hours is only
// meaningful when Status is StatusOK.
type Estimate struct {
	Status Status
	Hours  float64
}

func OK(hours float64) Estimate {
	if math.IsNaN(hours) || math.IsInf(hours, 0) || hours < 0 {
		return Indeterminate()
	}
	return Estimate{Status: StatusOK, Hours: hours}
}

func AtCap() Estimate         { return Estimate{Status: StatusAtCap} }
func Indeterminate() Estimate { return Estimate{Status: StatusIndeterminate} }
func Unavailable() Estimate   { return Estimate{Status: StatusUnavailable} }

// FromRate converts an amount and a per-hour rate into hours.
func FromRate(amount, perHour float64) Estimate {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Indeterminate()
	}
	if perHour <= 0 || math.IsNaN(perHour) || math.IsInf(perHour, 0) {
		return Indeterminate()
	}
	if amount <= 0 {
		return OK(0)
	}
	return OK(amount / perHour)
}

func (e Estimate) Known() bool {
	return e.Status == StatusOK
}

func (e Estimate) Minutes() (float64, bool) {
	if !e.Known() {
		return 0, false
	}
	return e.Hours * 60, true
}

func (e Estimate) Duration() (time.Duration, bool) {
	if !e.Known() {
		return 0, false
	}
	return time.Duration(e.Hours * float64(time.Hour)), true
}

// String renders a short label for text output.
func (e Estimate) String() string {
	d, ok := e.Duration()
	if !ok {
		if e.Status == "" {
			return string(StatusUnavailable)
		}
		return string(e.Status)
	}
	return d.Round(time.Second).String()
}

type estimateJSON struct {
	Status Status   `json:"status"`
	Hours  *float64 `json:"hours,omitempty"`
}

func (e Estimate) MarshalJSON() ([]byte, error) {
	out := estimateJSON{Status: e.Status}
	if out.Status == "" {
		out.Status = StatusUnavailable
	}
	if e.Known() {
		h := e.Hours
		out.Hours = &h
	}
	return json.Marshal(out)
}

func (e *Estimate) UnmarshalJSON(b []byte) error {
	var in estimateJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	e.Status = in.Status
	e.Hours = 0
	if in.Hours != nil {
		e.Hours = *in.Hours
	}
	return nil
}
