package ics

import (
	"time"

	"github.com/teambition/rrule-go"

	"github.com/merlinhq/merlin/internal/domain/model"
)

// maxOccurrencesPerEvent caps recurrence expansion for one VEVENT.
const maxOccurrencesPerEvent = 1000

// WeekEvents expands parsed VEVENTs into concrete Event records inside
// [weekStart, weekEnd). Non-recurring events are included when they
// overlap the window; recurring ones are expanded via their RRULE with
// EXDATE instances removed. Events whose RRULE cannot be parsed are
// reported in the second return and skipped.
func WeekEvents(parsed []ParsedEvent, weekStart, weekEnd time.Time) ([]model.Event, []error, error) {
	if weekEnd.Before(weekStart) {
		return nil, nil, ErrBadRange
	}

	out := make([]model.Event, 0, len(parsed))
	var skipped []error

	for _, ev := range parsed {
		if ev.RawRRule == "" {
			if ev.Start.Before(weekEnd) && ev.End.After(weekStart) {
				out = append(out, toEvent(ev, ev.Start))
			}
			continue
		}

		opt, err := rrule.StrToROption(ev.RawRRule)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		opt.Dtstart = ev.Start
		rule, err := rrule.NewRRule(*opt)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}

		occurrences := rule.Between(weekStart, weekEnd, true)
		if len(occurrences) > maxOccurrencesPerEvent {
			occurrences = occurrences[:maxOccurrencesPerEvent]
		}
		for _, occ := range occurrences {
			if excluded(ev.ExDates, occ) {
				continue
			}
			out = append(out, toEvent(ev, occ))
		}
	}

	return out, skipped, nil
}

// ImportWeek parses an ICS payload and expands it over the seven days
// starting at weekStart.
func ImportWeek(body []byte, weekStart time.Time) ([]model.Event, []error, error) {
	parsed, skipped, err := Parse(body)
	if err != nil {
		return nil, skipped, err
	}
	events, expandSkipped, err := WeekEvents(parsed, weekStart, weekStart.AddDate(0, 0, 7))
	return events, append(skipped, expandSkipped...), err
}

func excluded(exDates []time.Time, occ time.Time) bool {
	for _, ex := range exDates {
		if ex.Equal(occ) {
			return true
		}
	}
	return false
}

func toEvent(ev ParsedEvent, start time.Time) model.Event {
	duration := ev.End.Sub(ev.Start)
	return model.Event{
		Title:     ev.Summary,
		StartDate: start.UTC().Format(time.RFC3339),
		EndDate:   start.Add(duration).UTC().Format(time.RFC3339),
		Location:  ev.Location,
		Notes:     ev.Description,
		IsAllDay:  ev.AllDay,
	}
}
