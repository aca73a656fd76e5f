package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/moira-alert/mutguard/logging"
	"github.com/rs/zerolog"
)

type Logger struct {
	zerolog.Logger
}

const (
	ModuleFieldName   = "module"
	DefaultTimeFormat = "2006-01-02 15:04:05.000"
)

// ConfigureLog creates new logger based on github.com/rs/zerolog package
func ConfigureLog(logFile, logLevel, module string, pretty bool) (*Logger, error) {
	return newLog(logFile, logLevel, module, pretty, false)
}

// GetLogger need only for backward compatibility in tests
func GetLogger(module string) (logging.Logger, error) {
	return newLog("stdout", "info", module, true, true)
}

// NewNopLogger returns logger which discards everything
func NewNopLogger() logging.Logger {
	return &Logger{zerolog.Nop()}
}

func newLog(logFile, logLevel, module string, pretty, colorOff bool) (*Logger, error) {
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.DebugLevel
	}

	logWriter, err := getLogWriter(logFile)
	if err != nil {
		return nil, err
	}
	zerolog.TimeFieldFormat = DefaultTimeFormat

	if pretty {
		logWriter = zerolog.ConsoleWriter{
			Out:        logWriter,
			NoColor:    colorOff,
			TimeFormat: DefaultTimeFormat,
			PartsOrder: []string{zerolog.TimestampFieldName, ModuleFieldName, zerolog.LevelFieldName, zerolog.MessageFieldName},
		}
	}

	logger := zerolog.New(logWriter).Level(level).With().Str(ModuleFieldName, module).Logger()
	return &Logger{logger}, nil
}

func getLogWriter(logFileName string) (io.Writer, error) {
	if logFileName == "stdout" || logFileName == "" {
		return os.Stdout, nil
	}

	logDir := filepath.Dir(logFileName)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("can't create log directories %s: %s", logDir, err.Error())
	}
	logFile, err := os.OpenFile(logFileName, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("can't open log file %s: %s", logFileName, err.Error())
	}
	return logFile, nil
}

func (l Logger) Debug() logging.EventBuilder {
	return EventBuilder{Event: l.Logger.Debug().Timestamp()}
}

func (l Logger) Info() logging.EventBuilder {
	return EventBuilder{Event: l.Logger.Info().Timestamp()}
}

func (l Logger) Error() logging.EventBuilder {
	return EventBuilder{Event: l.Logger.Error().Timestamp()}
}

func (l Logger) Fatal() logging.EventBuilder {
	return EventBuilder{Event: l.Logger.Fatal().Timestamp()}
}

func (l Logger) Warning() logging.EventBuilder {
	return EventBuilder{Event: l.Logger.Warn().Timestamp()}
}

func (l *Logger) Level(s string) (logging.Logger, error) {
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		return l, err
	}
	l.Logger = l.Logger.Level(level)
	return l, nil
}

func (l Logger) Clone() logging.Logger {
	return &Logger{Logger: l.Logger.With().Logger()}
}

func (l *Logger) String(key, value string) logging.Logger {
	l.Logger = l.Logger.With().Str(key, value).Logger()
	return l
}

func (l *Logger) Int(key string, value int) logging.Logger {
	l.Logger = l.Logger.With().Int(key, value).Logger()
	return l
}

func (l *Logger) Int64(key string, value int64) logging.Logger {
	l.Logger = l.Logger.With().Int64(key, value).Logger()
	return l
}

func (l *Logger) Fields(fields map[string]interface{}) logging.Logger {
	l.Logger = l.Logger.With().Fields(fields).Logger()
	return l
}
