package logger

import "log"

const (
	DEBUG int = iota
	INFO
	WARNING
	ERROR
	SILENCE
)

type Logger interface {
	Debugf(format string, a ...any)
	Infof(format string, a ...any)
	Warnf(format string, a ...any)
	Errorf(format string, a ...any)
}

// defaultLogger writes tagged lines through the standard logger so the
// severity of every record is greppable in aggregated output.
type defaultLogger struct {
	level int
}

func NewLogger(level int) *defaultLogger {
	return &defaultLogger{level: level}
}

func (l *defaultLogger) logf(level int, tag, format string, a ...any) {
	if l.level > level {
		return
	}

	log.Printf(tag+" "+format, a...)
}

func (l *defaultLogger) Debugf(format string, a ...any) {
	l.logf(DEBUG, "DEBUG:", format, a...)
}

func (l *defaultLogger) Infof(format string, a ...any) {
	l.logf(INFO, "INFO:", format, a...)
}

func (l *defaultLogger) Warnf(format string, a ...any) {
	l.logf(WARNING, "WARNING:", format, a...)
}

func (l *defaultLogger) Errorf(format string, a ...any) {
	l.logf(ERROR, "ERROR:", format, a...)
}
