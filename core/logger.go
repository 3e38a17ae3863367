package core

// Logger is any service that can report events.
// args may hold errors, extra data (map[string]interface{}) and the user concerned.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	// Critical reports a failure that leaves a whole feature non-functional; the process keeps running.
	Critical(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
