package core

// Logger is any leveled logger.
// args may contain anything worth dumping alongside the message; implementations
// may give special treatment to known types (errors, the acting user, ...).
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
