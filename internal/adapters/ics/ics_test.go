package ics_test

import (
	"strings"
	"testing"
	"time"

	"github.com/merlinhq/merlin/internal/adapters/ics"
	"github.com/merlinhq/merlin/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func fixture(lines ...string) []byte {
	all := append([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//merlin test//EN",
	}, lines...)
	all = append(all, "END:VCALENDAR")
	return []byte(strings.Join(all, "\r\n") + "\r\n")
}

func TestParse(t *testing.T) {
	Convey("Given an ICS payload with plain and recurring events", t, func() {
		body := fixture(
			"BEGIN:VEVENT",
			"UID:standup@test",
			"DTSTART:20250721T090000Z",
			"DTEND:20250721T091500Z",
			"SUMMARY:Standup",
			"LOCATION:Office",
			"DESCRIPTION:Daily sync",
			"END:VEVENT",
			"BEGIN:VEVENT",
			"UID:run@test",
			"DTSTART:20250721T070000Z",
			"DTEND:20250721T073000Z",
			"SUMMARY:Morning run",
			"RRULE:FREQ=DAILY;COUNT=10",
			"EXDATE:20250723T070000Z",
			"END:VEVENT",
		)

		parsed, skipped, err := ics.Parse(body)

		Convey("Then both VEVENTs parse with their fields", func() {
			So(err, ShouldBeNil)
			So(skipped, ShouldBeEmpty)
			So(parsed, ShouldHaveLength, 2)

			So(parsed[0].Summary, ShouldEqual, "Standup")
			So(parsed[0].Location, ShouldEqual, "Office")
			So(parsed[0].Description, ShouldEqual, "Daily sync")
			So(parsed[0].RawRRule, ShouldBeEmpty)

			So(parsed[1].RawRRule, ShouldEqual, "FREQ=DAILY;COUNT=10")
			So(parsed[1].ExDates, ShouldHaveLength, 1)
		})
	})

	Convey("Given a VEVENT without a UID", t, func() {
		body := fixture(
			"BEGIN:VEVENT",
			"DTSTART:20250721T090000Z",
			"DTEND:20250721T100000Z",
			"SUMMARY:Anonymous",
			"END:VEVENT",
		)

		parsed, skipped, err := ics.Parse(body)

		Convey("Then it is skipped, not fatal", func() {
			So(err, ShouldBeNil)
			So(parsed, ShouldBeEmpty)
			So(skipped, ShouldHaveLength, 1)
		})
	})

	Convey("Given an empty payload", t, func() {
		_, _, err := ics.Parse(nil)

		Convey("Then parsing fails", func() {
			So(err, ShouldEqual, ics.ErrEmptyPayload)
		})
	})
}

func TestImportWeek(t *testing.T) {
	weekStart := time.Date(2025, 7, 21, 0, 0, 0, 0, time.UTC)

	Convey("Given a week export with a recurring event", t, func() {
		body := fixture(
			"BEGIN:VEVENT",
			"UID:standup@test",
			"DTSTART:20250721T090000Z",
			"DTEND:20250721T091500Z",
			"SUMMARY:Standup",
			"END:VEVENT",
			"BEGIN:VEVENT",
			"UID:run@test",
			"DTSTART:20250721T070000Z",
			"DTEND:20250721T073000Z",
			"SUMMARY:Morning run",
			"RRULE:FREQ=DAILY;COUNT=10",
			"EXDATE:20250723T070000Z",
			"END:VEVENT",
		)

		events, skipped, err := ics.ImportWeek(body, weekStart)
		So(err, ShouldBeNil)
		So(skipped, ShouldBeEmpty)

		byTitle := map[string][]model.Event{}
		for _, ev := range events {
			byTitle[ev.Title] = append(byTitle[ev.Title], ev)
		}

		Convey("Then the one-off event appears once with RFC3339 bounds", func() {
			So(byTitle["Standup"], ShouldHaveLength, 1)
			So(byTitle["Standup"][0].StartDate, ShouldEqual, "2025-07-21T09:00:00Z")
			So(byTitle["Standup"][0].EndDate, ShouldEqual, "2025-07-21T09:15:00Z")
			So(byTitle["Standup"][0].Validate(), ShouldBeNil)
		})

		Convey("Then the recurrence expands inside the week minus EXDATE", func() {
			runs := byTitle["Morning run"]
			So(runs, ShouldHaveLength, 6)
			for _, run := range runs {
				So(run.Day(), ShouldNotEqual, "2025-07-23")
				So(run.Validate(), ShouldBeNil)
			}
			So(runs[0].StartDate, ShouldEqual, "2025-07-21T07:00:00Z")
			So(runs[0].EndDate, ShouldEqual, "2025-07-21T07:30:00Z")
		})
	})

	Convey("Given an event outside the requested week", t, func() {
		body := fixture(
			"BEGIN:VEVENT",
			"UID:later@test",
			"DTSTART:20250815T090000Z",
			"DTEND:20250815T100000Z",
			"SUMMARY:Far future",
			"END:VEVENT",
		)

		events, _, err := ics.ImportWeek(body, weekStart)

		Convey("Then it is filtered out", func() {
			So(err, ShouldBeNil)
			So(events, ShouldBeEmpty)
		})
	})

	Convey("Given a broken RRULE", t, func() {
		body := fixture(
			"BEGIN:VEVENT",
			"UID:bad@test",
			"DTSTART:20250721T090000Z",
			"DTEND:20250721T100000Z",
			"SUMMARY:Broken",
			"RRULE:FREQ=NOPE",
			"END:VEVENT",
		)

		events, skipped, err := ics.ImportWeek(body, weekStart)

		Convey("Then the event is skipped and reported", func() {
			So(err, ShouldBeNil)
			So(events, ShouldBeEmpty)
			So(skipped, ShouldHaveLength, 1)
		})
	})
}
