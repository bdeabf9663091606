package core

// Logger is the narrow logging surface the render and scene packages depend
// on, so production code can be wired to a *zap.SugaredLogger while tests
// pass a no-op or testing.T-backed stand-in.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// NopLogger discards everything; used as the default when callers don't
// wire a real Logger.
type NopLogger struct{}

func (NopLogger) Infof(string, ...interface{})  {}
func (NopLogger) Warnf(string, ...interface{})  {}
func (NopLogger) Errorf(string, ...interface{}) {}
