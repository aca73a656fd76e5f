package schedule

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	mock_mutguard "github.com/moira-alert/mutguard/mock/mutguard"
	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/mock/gomock"
)

func TestParseWindow(t *testing.T) {
	Convey("Valid windows", t, func() {
		window, err := ParseWindow("02:00-04:30")
		So(err, ShouldBeNil)
		So(window, ShouldResemble, Window{Start: 2 * time.Hour, End: 4*time.Hour + 30*time.Minute})
		So(window.String(), ShouldEqual, "02:00-04:30")

		window, err = ParseWindow(" 23:00 - 01:00 ")
		So(err, ShouldBeNil)
		So(window, ShouldResemble, Window{Start: 23 * time.Hour, End: time.Hour})
	})

	Convey("Invalid windows", t, func() {
		for _, value := range []string{"", "02:00", "02:00-", "2am-4am", "25:00-26:00", "03:00-03:00", "01:00-02:00-03:00"} {
			_, err := ParseWindow(value)
			So(err, ShouldNotBeNil)
		}
	})
}

func TestWindowContains(t *testing.T) {
	Convey("Regular window", t, func() {
		window := Window{Start: 2 * time.Hour, End: 4 * time.Hour}
		So(window.Contains(2*time.Hour), ShouldBeTrue)
		So(window.Contains(3*time.Hour), ShouldBeTrue)
		So(window.Contains(4*time.Hour), ShouldBeFalse)
		So(window.Contains(time.Hour), ShouldBeFalse)
	})

	Convey("Window wrapping midnight", t, func() {
		window := Window{Start: 23 * time.Hour, End: time.Hour}
		So(window.Contains(23*time.Hour+30*time.Minute), ShouldBeTrue)
		So(window.Contains(30*time.Minute), ShouldBeTrue)
		So(window.Contains(time.Hour), ShouldBeFalse)
		So(window.Contains(12*time.Hour), ShouldBeFalse)
	})
}

func TestSource(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()
	ctx := context.Background()

	Convey("Schedule source", t, func() {
		clock := mock_mutguard.NewMockClock(mockCtrl)

		source, err := NewSource(Config{Windows: []string{"02:00-04:00", "23:30-00:30"}}, clock)
		So(err, ShouldBeNil)

		Convey("Inside window", func() {
			clock.EXPECT().NowUTC().Return(time.Date(2024, 3, 1, 3, 15, 0, 0, time.UTC))

			blocked, err := source.ShouldBlockMutations(ctx)
			So(err, ShouldBeNil)
			So(blocked, ShouldBeTrue)
		})

		Convey("Inside window wrapping midnight", func() {
			clock.EXPECT().NowUTC().Return(time.Date(2024, 3, 1, 0, 10, 0, 0, time.UTC))

			window, ok := source.ActiveWindow()
			So(ok, ShouldBeTrue)
			So(window.String(), ShouldEqual, "23:30-00:30")
		})

		Convey("Outside windows", func() {
			clock.EXPECT().NowUTC().Return(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

			blocked, err := source.ShouldBlockMutations(ctx)
			So(err, ShouldBeNil)
			So(blocked, ShouldBeFalse)
		})
	})

	Convey("Schedule source in time zone", t, func() {
		clock := mock_mutguard.NewMockClock(mockCtrl)

		source, err := NewSource(Config{Windows: []string{"02:00-04:00"}, Location: "Asia/Yekaterinburg"}, clock)
		So(err, ShouldBeNil)

		// 21:30 UTC is 02:30 in UTC+5
		clock.EXPECT().NowUTC().Return(time.Date(2024, 3, 1, 21, 30, 0, 0, time.UTC))

		blocked, err := source.ShouldBlockMutations(ctx)
		So(err, ShouldBeNil)
		So(blocked, ShouldBeTrue)
	})

	Convey("Schedule source on daylight saving change days", t, func() {
		clock := mock_mutguard.NewMockClock(mockCtrl)

		source, err := NewSource(Config{Windows: []string{"05:00-06:00"}, Location: "Europe/Berlin"}, clock)
		So(err, ShouldBeNil)

		Convey("Clocks turned back", func() {
			// 04:30 UTC is 05:30 CET, 6.5 hours after midnight CEST
			clock.EXPECT().NowUTC().Return(time.Date(2026, 10, 25, 4, 30, 0, 0, time.UTC))

			window, ok := source.ActiveWindow()
			So(ok, ShouldBeTrue)
			So(window.String(), ShouldEqual, "05:00-06:00")
		})

		Convey("Clocks turned forward", func() {
			// 03:30 UTC is 05:30 CEST, 4.5 hours after midnight CET
			clock.EXPECT().NowUTC().Return(time.Date(2026, 3, 29, 3, 30, 0, 0, time.UTC))

			blocked, err := source.ShouldBlockMutations(ctx)
			So(err, ShouldBeNil)
			So(blocked, ShouldBeTrue)
		})

		Convey("Before window on clocks turned back day", func() {
			// 03:30 UTC is 04:30 CET
			clock.EXPECT().NowUTC().Return(time.Date(2026, 10, 25, 3, 30, 0, 0, time.UTC))

			blocked, err := source.ShouldBlockMutations(ctx)
			So(err, ShouldBeNil)
			So(blocked, ShouldBeFalse)
		})
	})

	Convey("Invalid configs", t, func() {
		clock := mock_mutguard.NewMockClock(mockCtrl)

		_, err := NewSource(Config{}, clock)
		So(err, ShouldNotBeNil)

		_, err = NewSource(Config{Windows: []string{"02:00-04:00"}, Location: "Mars/Olympus"}, clock)
		So(err, ShouldNotBeNil)

		_, err = NewSource(Config{Windows: []string{"never"}}, clock)
		So(err, ShouldNotBeNil)
	})
}
