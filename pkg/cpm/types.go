package cpm

// Result holds the complete critical path analysis of a task graph.
type Result struct {
	Tasks        map[string]*TaskSchedule
	CriticalPath []string // ordered task IDs, source to sink
	Duration     float64  // project duration (length of the critical path)
	Order        []string // topological order the passes ran over
}

// TaskSchedule holds the scheduling window of a single task.
type TaskSchedule struct {
	TaskID     string
	ES, EF     float64 // earliest start/finish
	LS, LF     float64 // latest start/finish
	Slack      float64
	IsCritical bool
}
