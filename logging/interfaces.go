package logging

// Logger implements logging abstraction.
type Logger interface {
	Debug() EventBuilder
	Info() EventBuilder
	Error() EventBuilder
	Fatal() EventBuilder
	Warning() EventBuilder

	// Level sets minimal level of log events.
	Level(string) (Logger, error)

	// Clone returns copy of logger so that fields added to it do not appear in the original one.
	Clone() Logger

	String(key, value string) Logger
	Int(key string, value int) Logger
	Int64(key string, value int64) Logger
	Fields(fields map[string]interface{}) Logger
}

// EventBuilder allows to build log events with custom tags.
type EventBuilder interface {
	String(key, value string) EventBuilder
	Error(err error) EventBuilder
	Int(key string, value int) EventBuilder
	Int64(key string, value int64) EventBuilder
	Bool(key string, value bool) EventBuilder
	Interface(key string, value interface{}) EventBuilder
	Fields(fields map[string]interface{}) EventBuilder

	// Msg must be called after all tags were set
	Msg(message string)
}
