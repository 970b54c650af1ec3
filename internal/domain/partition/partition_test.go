package partition_test

import (
	"testing"

	"github.com/merlinhq/merlin/internal/domain/model"
	"github.com/merlinhq/merlin/internal/domain/partition"
	. "github.com/smartystreets/goconvey/convey"
)

func ev(title, start string) model.Event {
	return model.Event{Title: title, StartDate: start, EndDate: start}
}

func TestByDay(t *testing.T) {
	Convey("Given a mixed week of events", t, func() {
		events := []model.Event{
			ev("a", "2025-07-21T09:00:00Z"),
			ev("b", "2025-07-22T10:00:00Z"),
			ev("c", "2025-07-21T14:00:00Z"),
			ev("d", "2025-07-23T08:00:00Z"),
			ev("e", "2025-07-21T18:00:00Z"),
		}

		buckets := partition.ByDay(events)

		Convey("Then every event lands in exactly one bucket", func() {
			total := 0
			for _, bucket := range buckets {
				total += len(bucket)
			}
			So(total, ShouldEqual, len(events))
			So(buckets, ShouldHaveLength, 3)
		})

		Convey("Then input order is preserved within a bucket", func() {
			monday := buckets["2025-07-21"]
			So(monday, ShouldHaveLength, 3)
			So(monday[0].Title, ShouldEqual, "a")
			So(monday[1].Title, ShouldEqual, "c")
			So(monday[2].Title, ShouldEqual, "e")
		})

		Convey("Then no event is duplicated or mutated", func() {
			So(buckets["2025-07-22"][0], ShouldResemble, events[1])
			So(buckets["2025-07-23"][0], ShouldResemble, events[3])
		})
	})

	Convey("Given an empty input", t, func() {
		Convey("Then the result is an empty map", func() {
			So(partition.ByDay(nil), ShouldBeEmpty)
			So(partition.ByDay([]model.Event{}), ShouldBeEmpty)
		})
	})

	Convey("Given an event with a short start date", t, func() {
		buckets := partition.ByDay([]model.Event{ev("odd", "2025-07")})

		Convey("Then the degenerate key is accepted as-is", func() {
			So(buckets, ShouldContainKey, "2025-07")
			So(buckets["2025-07"], ShouldHaveLength, 1)
		})
	})
}

func TestSortedKeys(t *testing.T) {
	Convey("Given buckets spanning several days", t, func() {
		buckets := partition.ByDay([]model.Event{
			ev("later", "2025-07-23T09:00:00Z"),
			ev("early", "2025-07-21T09:00:00Z"),
			ev("mid", "2025-07-22T09:00:00Z"),
		})

		Convey("Then keys come back in ascending calendar order", func() {
			So(partition.SortedKeys(buckets), ShouldResemble, []string{"2025-07-21", "2025-07-22", "2025-07-23"})
		})
	})
}
