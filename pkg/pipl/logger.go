// pkg/pipl/logger.go
package pipl

// Logger is the logging interface the client writes to. It is the
// subset of internal/common/logger's interface the client needs, so any
// structured logger with these methods plugs in without an adapter.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// noopLogger discards every message. It is the default when Settings
// carries no logger.
type noopLogger struct{}

func (noopLogger) Debug(string, map[string]interface{}) {}
func (noopLogger) Info(string, map[string]interface{})  {}
func (noopLogger) Warn(string, map[string]interface{})  {}
func (noopLogger) Error(string, map[string]interface{}) {}
