package models

// Summary is the derived, non-persisted aggregate of a task's event log.
// Exactly the fields relevant to the task's metric kind are populated:
// Total for count, TotalSec for timer, Done for check.
type Summary struct {
	Metric   MetricKind `json:"metric"`
	Total    *int       `json:"total,omitempty"`
	TotalSec *int       `json:"total_sec,omitempty"`
	Done     *bool      `json:"done,omitempty"`
	Goal     *int       `json:"goal,omitempty"`
}

// MetricBreakdown counts daily task instances per metric kind
type MetricBreakdown struct {
	Count int `json:"count"`
	Timer int `json:"timer"`
	Check int `json:"check"`
}

// DailyReport is the derived completion report for one calendar day
type DailyReport struct {
	Date           Date            `json:"date"`
	TotalTasks     int             `json:"total_tasks"`
	CompletedTasks int             `json:"completed_tasks"`
	CompletionRate int             `json:"completion_rate"`
	Metrics        MetricBreakdown `json:"metrics"`
}
