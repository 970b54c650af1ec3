package model_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/merlinhq/merlin/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEvent(t *testing.T) {
	Convey("Given a well-formed event", t, func() {
		ev := model.Event{
			Title:     "Morning run",
			StartDate: "2025-07-21T07:00:00Z",
			EndDate:   "2025-07-21T08:00:00Z",
		}

		Convey("Then validation passes", func() {
			So(ev.Validate(), ShouldBeNil)
		})

		Convey("Then its day key is the date prefix", func() {
			So(ev.Day(), ShouldEqual, "2025-07-21")
		})

		Convey("Then optional fields are omitted from JSON", func() {
			buf, err := json.Marshal(ev)
			So(err, ShouldBeNil)
			So(string(buf), ShouldNotContainSubstring, "location")
			So(string(buf), ShouldContainSubstring, `"isAllDay":false`)
		})
	})

	Convey("Given events missing required fields", t, func() {
		cases := map[string]model.Event{
			"title":     {StartDate: "2025-07-21T07:00:00Z", EndDate: "2025-07-21T08:00:00Z"},
			"startDate": {Title: "x", EndDate: "2025-07-21T08:00:00Z"},
			"endDate":   {Title: "x", StartDate: "2025-07-21T07:00:00Z"},
		}

		for field, ev := range cases {
			Convey("Then validation reports the missing "+field, func() {
				err := ev.Validate()
				So(err, ShouldNotBeNil)
				So(errors.Is(err, model.ErrInvalid), ShouldBeTrue)

				var verr *model.ValidationError
				So(errors.As(err, &verr), ShouldBeTrue)
				So(verr.Field, ShouldEqual, field)
			})
		}
	})

	Convey("Given an event with a degenerate start date", t, func() {
		ev := model.Event{Title: "x", StartDate: "2025-07", EndDate: "2025-07-21"}

		Convey("Then the day key is the full short string", func() {
			So(ev.Day(), ShouldEqual, "2025-07")
		})
	})
}

func TestValidateAll(t *testing.T) {
	Convey("Given a week payload", t, func() {
		good := model.Event{Title: "a", StartDate: "2025-07-21T07:00:00Z", EndDate: "2025-07-21T08:00:00Z"}
		bad := model.Event{StartDate: "2025-07-22T07:00:00Z", EndDate: "2025-07-22T08:00:00Z"}

		Convey("Then an all-valid payload passes", func() {
			So(model.ValidateAll([]model.Event{good, good}), ShouldBeNil)
		})

		Convey("Then one bad record rejects the payload", func() {
			So(model.ValidateAll([]model.Event{good, bad}), ShouldNotBeNil)
		})

		Convey("Then an empty payload passes", func() {
			So(model.ValidateAll(nil), ShouldBeNil)
		})
	})
}

func TestAskRequest(t *testing.T) {
	Convey("Given an ask request", t, func() {
		req := model.AskRequest{
			Question: "When am I free to run?",
			Events: []model.SimpleEvent{
				{Title: "Standup", StartDate: "2025-07-21T09:00:00Z", EndDate: "2025-07-21T09:15:00Z"},
			},
		}

		Convey("Then a complete request passes", func() {
			So(req.Validate(), ShouldBeNil)
		})

		Convey("Then a missing question is rejected", func() {
			req.Question = ""
			err := req.Validate()
			var verr *model.ValidationError
			So(errors.As(err, &verr), ShouldBeTrue)
			So(verr.Field, ShouldEqual, "question")
		})

		Convey("Then an invalid embedded event is rejected", func() {
			req.Events = append(req.Events, model.SimpleEvent{Title: "no dates"})
			So(req.Validate(), ShouldNotBeNil)
		})
	})
}
