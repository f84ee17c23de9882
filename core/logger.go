package core

// Logger is the logging surface the app depends on.
// Implementations may fan out to an error reporter (see services/logger).
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
