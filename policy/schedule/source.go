// Package schedule provides a policy source blocking mutations during daily maintenance windows.
package schedule

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moira-alert/mutguard"
)

const clockLayout = "15:04"

// Window is a daily interval [Start, End) as offsets from midnight.
// Window with End before Start wraps midnight, e.g. 23:00-01:00.
type Window struct {
	Start time.Duration
	End   time.Duration
}

// ParseWindow parses window in "HH:MM-HH:MM" format.
func ParseWindow(value string) (Window, error) {
	bounds := strings.Split(strings.TrimSpace(value), "-")
	if len(bounds) != 2 {
		return Window{}, fmt.Errorf("window '%s' must look like HH:MM-HH:MM", value)
	}

	start, err := parseClock(bounds[0])
	if err != nil {
		return Window{}, fmt.Errorf("window '%s' has invalid start: %w", value, err)
	}
	end, err := parseClock(bounds[1])
	if err != nil {
		return Window{}, fmt.Errorf("window '%s' has invalid end: %w", value, err)
	}
	if start == end {
		return Window{}, fmt.Errorf("window '%s' is empty", value)
	}

	return Window{Start: start, End: end}, nil
}

func parseClock(value string) (time.Duration, error) {
	parsed, err := time.Parse(clockLayout, strings.TrimSpace(value))
	if err != nil {
		return 0, err
	}
	return time.Duration(parsed.Hour())*time.Hour + time.Duration(parsed.Minute())*time.Minute, nil
}

// Contains reports whether offset from midnight is inside the window.
func (window Window) Contains(offset time.Duration) bool {
	if window.Start < window.End {
		return offset >= window.Start && offset < window.End
	}
	return offset >= window.Start || offset < window.End
}

func (window Window) String() string {
	return fmt.Sprintf("%s-%s", formatOffset(window.Start), formatOffset(window.End))
}

func formatOffset(offset time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(offset.Hours()), int(offset.Minutes())%60)
}

// Config represents schedule source settings.
type Config struct {
	// Windows in "HH:MM-HH:MM" format.
	Windows []string `validate:"required,min=1"`
	// Location is IANA time zone name, UTC if empty.
	Location string
}

// Source blocks mutations while current time is inside one of windows.
type Source struct {
	windows  []Window
	location *time.Location
	clock    mutguard.Clock
}

// NewSource parses config and creates Source.
func NewSource(config Config, clock mutguard.Clock) (*Source, error) {
	validator := validator.New()
	if err := validator.Struct(config); err != nil {
		return nil, fmt.Errorf("schedule policy source configuration error: %w", err)
	}

	location := time.UTC
	if config.Location != "" {
		var err error
		if location, err = time.LoadLocation(config.Location); err != nil {
			return nil, fmt.Errorf("failed to load location '%s': %w", config.Location, err)
		}
	}

	windows := make([]Window, 0, len(config.Windows))
	for _, value := range config.Windows {
		window, err := ParseWindow(value)
		if err != nil {
			return nil, err
		}
		windows = append(windows, window)
	}

	return &Source{
		windows:  windows,
		location: location,
		clock:    clock,
	}, nil
}

// wallClockOffset returns local clock reading as offset from midnight.
// It differs from time elapsed since midnight on daylight saving change days.
func wallClockOffset(now time.Time) time.Duration {
	return time.Duration(now.Hour())*time.Hour +
		time.Duration(now.Minute())*time.Minute +
		time.Duration(now.Second())*time.Second
}

// ShouldBlockMutations checks current time against windows.
func (source *Source) ShouldBlockMutations(_ context.Context) (bool, error) {
	_, ok := source.ActiveWindow()
	return ok, nil
}

// ActiveWindow returns window containing current time.
func (source *Source) ActiveWindow() (Window, bool) {
	offset := wallClockOffset(source.clock.NowUTC().In(source.location))

	for _, window := range source.windows {
		if window.Contains(offset) {
			return window, true
		}
	}
	return Window{}, false
}
