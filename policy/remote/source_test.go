package remote

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	logging "github.com/moira-alert/mutguard/logging/zerolog_adapter"
	. "github.com/smartystreets/goconvey/convey"
	"gopkg.in/h2non/gock.v1"
)

const testURL = "http://config.local/maintenance"

func newTestSource(maxRetries uint64) *Source {
	logger, _ := logging.GetLogger("remote")
	source, err := NewSource(Config{
		URL:                  testURL,
		Timeout:              time.Second,
		User:                 "mutguard",
		Password:             "secret",
		MaxRetries:           maxRetries,
		RetryInitialInterval: time.Millisecond,
		RetryMaxInterval:     time.Millisecond,
	}, logger)
	So(err, ShouldBeNil)
	return source
}

func TestSource(t *testing.T) {
	ctx := context.Background()

	Convey("Remote answers", t, func() {
		defer gock.Off()

		Convey("blocked", func() {
			gock.New("http://config.local").
				Get("/maintenance").
				MatchHeader("Authorization", "^Basic ").
				Reply(200).
				JSON(map[string]bool{"block_mutations": true})

			blocked, err := newTestSource(0).ShouldBlockMutations(ctx)
			So(err, ShouldBeNil)
			So(blocked, ShouldBeTrue)
			So(gock.IsDone(), ShouldBeTrue)
		})

		Convey("not blocked", func() {
			gock.New("http://config.local").
				Get("/maintenance").
				Reply(200).
				JSON(map[string]bool{"block_mutations": false})

			blocked, err := newTestSource(0).ShouldBlockMutations(ctx)
			So(err, ShouldBeNil)
			So(blocked, ShouldBeFalse)
		})
	})

	Convey("Server errors are retried", t, func() {
		defer gock.Off()

		gock.New("http://config.local").
			Get("/maintenance").
			Times(2).
			Reply(503).
			BodyString("unavailable")
		gock.New("http://config.local").
			Get("/maintenance").
			Reply(200).
			JSON(map[string]bool{"block_mutations": true})

		blocked, err := newTestSource(3).ShouldBlockMutations(ctx)
		So(err, ShouldBeNil)
		So(blocked, ShouldBeTrue)
		So(gock.IsDone(), ShouldBeTrue)
	})

	Convey("Retries are limited", t, func() {
		defer gock.Off()

		gock.New("http://config.local").
			Get("/maintenance").
			Times(2).
			Reply(500).
			BodyString("boom")

		_, err := newTestSource(1).ShouldBlockMutations(ctx)
		So(err, ShouldResemble, errors.New("remote server responded with 500: boom"))
		So(gock.IsDone(), ShouldBeTrue)
	})

	Convey("Client errors are not retried", t, func() {
		defer gock.Off()

		gock.New("http://config.local").
			Get("/maintenance").
			Reply(http.StatusUnauthorized).
			BodyString("unauthorized")
		gock.New("http://config.local").
			Get("/maintenance").
			Reply(200).
			JSON(map[string]bool{"block_mutations": true})

		_, err := newTestSource(3).ShouldBlockMutations(ctx)
		So(err, ShouldResemble, errors.New("remote server responded with 401: unauthorized"))
		So(gock.IsDone(), ShouldBeFalse)
	})

	Convey("Response without flag is an error", t, func() {
		defer gock.Off()

		gock.New("http://config.local").
			Get("/maintenance").
			Reply(200).
			JSON(map[string]string{"status": "ok"})

		_, err := newTestSource(3).ShouldBlockMutations(ctx)
		So(err, ShouldEqual, ErrMissingFlag)
	})

	Convey("Malformed response is an error", t, func() {
		defer gock.Off()

		gock.New("http://config.local").
			Get("/maintenance").
			Reply(200).
			BodyString("true")

		_, err := newTestSource(0).ShouldBlockMutations(ctx)
		So(err, ShouldNotBeNil)
	})
}

func TestNewSource(t *testing.T) {
	logger, _ := logging.GetLogger("remote")

	Convey("Invalid configs", t, func() {
		_, err := NewSource(Config{Timeout: time.Second}, logger)
		So(err, ShouldNotBeNil)

		_, err = NewSource(Config{URL: "not a url", Timeout: time.Second}, logger)
		So(err, ShouldNotBeNil)

		_, err = NewSource(Config{URL: testURL}, logger)
		So(err, ShouldNotBeNil)
	})

	Convey("Defaults are applied", t, func() {
		source, err := NewSource(Config{URL: testURL, Timeout: time.Second}, logger)
		So(err, ShouldBeNil)
		So(source.config.RetryInitialInterval, ShouldEqual, defaultRetryInitialInterval)
		So(source.config.RetryMaxInterval, ShouldEqual, defaultRetryMaxInterval)
	})
}
