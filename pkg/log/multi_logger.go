package log

// MultiLogger fans an event out to several loggers in order, typically
// the console adapter, a FileLogger and the metrics collector.
type MultiLogger []Logger

// NewMultiLogger drops nil entries from loggers.
func NewMultiLogger(loggers ...Logger) MultiLogger {
	m := make(MultiLogger, 0, len(loggers))
	for _, l := range loggers {
		if l != nil {
			m = append(m, l)
		}
	}
	return m
}

// Log forwards event to every logger.
func (m MultiLogger) Log(event Event) {
	for _, l := range m {
		l.Log(event)
	}
}

var _ Logger = MultiLogger(nil)
