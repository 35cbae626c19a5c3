package metrics

// IncrementBoardCreated increments board creation counter
func (m *Metrics) IncrementBoardCreated() {
	m.safeExecute("IncrementBoardCreated", func() {
		m.BoardCreatedTotal.Inc()
	})
}

// IncrementColumnCreated increments column creation counter
func (m *Metrics) IncrementColumnCreated() {
	m.safeExecute("IncrementColumnCreated", func() {
		m.ColumnCreatedTotal.Inc()
	})
}

// IncrementTaskCreated increments task creation counter
func (m *Metrics) IncrementTaskCreated() {
	m.safeExecute("IncrementTaskCreated", func() {
		m.TaskCreatedTotal.Inc()
	})
}

// IncrementTaskMoved increments task move counter
func (m *Metrics) IncrementTaskMoved() {
	m.safeExecute("IncrementTaskMoved", func() {
		m.TaskMovedTotal.Inc()
	})
}

// IncrementNotificationSent increments the sent notification counter per kind
func (m *Metrics) IncrementNotificationSent(kind string) {
	m.safeExecute("IncrementNotificationSent", func() {
		m.NotificationsSentTotal.WithLabelValues(kind).Inc()
	})
}

// SetBoardsTotal sets total boards gauge
func (m *Metrics) SetBoardsTotal(count int64) {
	m.safeExecute("SetBoardsTotal", func() {
		m.BoardsTotal.Set(float64(count))
	})
}

// SetColumnsTotal sets total columns gauge
func (m *Metrics) SetColumnsTotal(count int64) {
	m.safeExecute("SetColumnsTotal", func() {
		m.ColumnsTotal.Set(float64(count))
	})
}

// SetTasksTotal sets total tasks gauge
func (m *Metrics) SetTasksTotal(count int64) {
	m.safeExecute("SetTasksTotal", func() {
		m.TasksTotal.Set(float64(count))
	})
}
