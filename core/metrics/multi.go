package metrics

// MultiSink fans solve records out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordSolve forwards the record to all sinks, returning the first error.
func (m *MultiSink) RecordSolve(res SolveResult) error {
	for _, s := range m.Sinks {
		if err := s.RecordSolve(res); err != nil {
			return err
		}
	}
	return nil
}

// RecordUnitAssignments forwards per-unit datapoints to sinks that take them.
func (m *MultiSink) RecordUnitAssignments(units []UnitAssignment) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(UnitRecorder); ok {
			if err := rec.RecordUnitAssignments(units); err != nil {
				return err
			}
		}
	}
	return nil
}
