package metrics

// Thread load and mutation results
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultStale   = "stale"
)

// RecordThreadLoad counts a finished thread load
func (m *Metrics) RecordThreadLoad(result string) {
	m.safeExecute("RecordThreadLoad", func() {
		m.ThreadLoadsTotal.WithLabelValues(result).Inc()
	})
}

// SetThreadNodes sets the node count of the applied thread
func (m *Metrics) SetThreadNodes(count int) {
	m.safeExecute("SetThreadNodes", func() {
		m.ThreadNodes.Set(float64(count))
	})
}

// RecordCommentMutation counts a create or delete request
func (m *Metrics) RecordCommentMutation(operation, result string) {
	m.safeExecute("RecordCommentMutation", func() {
		m.CommentMutationsTotal.WithLabelValues(operation, result).Inc()
	})
}

// IncrementStaleLoadsDiscarded counts a dropped out-of-order load
func (m *Metrics) IncrementStaleLoadsDiscarded() {
	m.safeExecute("IncrementStaleLoadsDiscarded", func() {
		m.StaleLoadsDiscardedTotal.Inc()
	})
}

// RecordValidationRejection counts a submission refused locally
func (m *Metrics) RecordValidationRejection(reason string) {
	m.safeExecute("RecordValidationRejection", func() {
		m.ValidationRejections.WithLabelValues(reason).Inc()
	})
}
