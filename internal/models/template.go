package models

import (
	"time"

	"github.com/google/uuid"
)

// Template is a recurring-task blueprint. ActiveDays holds weekday integers
// (Monday=0 through Sunday=6) and must be non-empty.
type Template struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Metric     MetricKind `json:"metric"`
	Goal       *int       `json:"goal,omitempty"`
	Color      string     `json:"color"`
	ActiveDays []int      `json:"active_days"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ActiveOn reports whether the template is active on the given weekday
// (Monday=0 through Sunday=6)
func (t *Template) ActiveOn(weekday int) bool {
	for _, d := range t.ActiveDays {
		if d == weekday {
			return true
		}
	}
	return false
}
