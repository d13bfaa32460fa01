// Package export flattens a roster report into one CSV row per pet ability.
package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gocarina/gocsv"

	"petlens/internal/app/aggregate"
	"petlens/internal/domain/estimate"
)

// Row is one (pet, ability) pair. Pets without abilities still get a row with
// the ability columns left empty. Unknown numbers are written as empty cells.
type Row struct {
	PetID          string `csv:"pet_id"`
	Pet            string `csv:"pet"`
	Species        string `csv:"species"`
	Strength       string `csv:"strength"`
	Ability        string `csv:"ability"`
	Resolved       string `csv:"resolved"`
	PerMinute      string `csv:"per_minute"`
	ProcsPerHour   string `csv:"procs_per_hour"`
	EffectPerHour  string `csv:"effect_per_hour"`
	EffectUnit     string `csv:"effect_unit"`
	ValueSource    string `csv:"value_source"`
	CoinsPerHour   string `csv:"coins_per_hour"`
	XPPerHour      string `csv:"xp_per_hour"`
	LevelsLeft     string `csv:"levels_remaining"`
	HoursToCap     string `csv:"hours_to_cap"`
	TimeToCap      string `csv:"time_to_cap_status"`
	FeedsToCap     string `csv:"feeds_to_cap"`
	HungerMinutes  string `csv:"minutes_to_starving"`
	StrengthSource string `csv:"strength_source"`
}

func Rows(r aggregate.Report) []Row {
	out := make([]Row, 0, len(r.Pets))
	for _, b := range r.Pets {
		base := Row{
			PetID:         b.Pet.ID,
			Pet:           b.DisplayName,
			Species:       b.Pet.Species,
			XPPerHour:     formatFloat(&b.XPPerHour),
			HoursToCap:    formatHours(b.TimeToCap),
			TimeToCap:     string(b.TimeToCap.Status),
			FeedsToCap:    formatInt(b.FeedsToCap.Feeds),
			HungerMinutes: formatFloat(b.Hunger.MinutesToStarving),
		}
		if b.Progression.Available {
			base.LevelsLeft = strconv.Itoa(b.Progression.LevelsRemaining)
		}
		if b.Pet.Strength != nil {
			base.Strength = strconv.Itoa(*b.Pet.Strength)
			base.StrengthSource = "reported"
		}
		if len(b.Abilities) == 0 {
			out = append(out, base)
			continue
		}
		for _, a := range b.Abilities {
			row := base
			row.Ability = a.Raw
			row.Resolved = strconv.FormatBool(a.Resolved)
			if a.Resolved {
				row.Ability = a.ID
			}
			if s := a.Stats; s != nil {
				if s.StrengthAssumed {
					row.Strength = strconv.Itoa(s.Strength)
					row.StrengthSource = "assumed"
				}
				row.PerMinute = formatFloat(s.PerMinute)
				row.ProcsPerHour = formatFloat(s.ProcsPerHour)
				row.EffectPerHour = formatFloat(s.EffectPerHour)
				row.EffectUnit = string(s.EffectUnit)
				row.ValueSource = string(s.Value.Source)
				row.CoinsPerHour = formatFloat(s.Value.PerHour)
			}
			out = append(out, row)
		}
	}
	return out
}

func Write(w io.Writer, r aggregate.Report) error {
	rows := Rows(r)
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("writing roster csv: %w", err)
	}
	return nil
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatHours(e estimate.Estimate) string {
	if !e.Known() {
		return ""
	}
	return strconv.FormatFloat(e.Hours, 'g', -1, 64)
}
