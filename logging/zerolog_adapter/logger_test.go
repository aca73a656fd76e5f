package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestConfigureLog(t *testing.T) {
	Convey("Log into file", t, func() {
		logFile := filepath.Join(t.TempDir(), "logs", "mutguard.log")

		logger, err := ConfigureLog(logFile, "info", "test", false)
		So(err, ShouldBeNil)

		clone := logger.Clone()
		clone.String("mutguard.context", "http")
		clone.Info().Int("status", 403).Bool("blocked", true).Msg("request denied")
		logger.Debug().Msg("debug is below configured level")

		content, err := os.ReadFile(logFile)
		So(err, ShouldBeNil)

		lines := strings.Split(strings.TrimSpace(string(content)), "\n")
		So(lines, ShouldHaveLength, 1)

		record := map[string]interface{}{}
		So(json.Unmarshal([]byte(lines[0]), &record), ShouldBeNil)
		So(record["message"], ShouldEqual, "request denied")
		So(record["module"], ShouldEqual, "test")
		So(record["mutguard.context"], ShouldEqual, "http")
		So(record["status"], ShouldEqual, float64(403))
		So(record["blocked"], ShouldEqual, true)
	})

	Convey("Fields added to clone are not visible in parent logger", t, func() {
		logFile := filepath.Join(t.TempDir(), "mutguard.log")

		logger, err := ConfigureLog(logFile, "debug", "test", false)
		So(err, ShouldBeNil)

		logger.Clone().String("request", "first")
		logger.Info().Msg("parent")

		content, err := os.ReadFile(logFile)
		So(err, ShouldBeNil)
		So(string(content), ShouldNotContainSubstring, "first")
	})

	Convey("Invalid level falls back to debug", t, func() {
		logger, err := ConfigureLog(filepath.Join(t.TempDir(), "mutguard.log"), "not-a-level", "test", false)
		So(err, ShouldBeNil)
		So(logger.GetLevel().String(), ShouldEqual, "debug")

		_, err = logger.Level("warn")
		So(err, ShouldBeNil)
		So(logger.GetLevel().String(), ShouldEqual, "warn")
	})
}

func TestNopLogger(t *testing.T) {
	Convey("Nop logger accepts events", t, func() {
		logger := NewNopLogger()
		So(func() {
			logger.Clone().String("key", "value").Error().Int("status", 500).Msg("discarded")
		}, ShouldNotPanic)
	})
}
