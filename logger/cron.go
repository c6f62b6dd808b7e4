package logger

// CronLogger adapts Logger to the robfig/cron logging interface.
type CronLogger struct {
	l *Logger
}

// NewCronLogger wraps l for use with cron.WithLogger
func NewCronLogger(l *Logger) *CronLogger {
	return &CronLogger{l: l}
}

// Info logs routine scheduler messages at debug level
func (c *CronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug().Fields(keysAndValues).Msg(msg)
}

// Error logs scheduler errors, including recovered job panics
func (c *CronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
