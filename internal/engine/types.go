package engine

import "time"

// Task is a recurring habit the user tracks. Archived tasks keep their
// history but are excluded from streak and strength computation.
type Task struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Color      string        `json:"color,omitempty"`
	IsArchived bool          `json:"isArchived"`
	Metric     *MetricConfig `json:"metric,omitempty"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// Record marks one task as completed on one calendar day. A nil Intensity
// means "completed, unscored". Value keeps the raw metric input when the
// completion was logged through a task's phase ladder.
type Record struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"taskId"`
	Intensity *int      `json:"intensity"`
	Value     *float64  `json:"value,omitempty"`
	LoggedAt  time.Time `json:"loggedAt,omitempty"`
}

// Intensity bounds for a scored record.
const (
	IntensityMin = 1
	IntensityMax = 4
)

// Pact is a commitment shared with a partner. The engine persists pacts in
// both modes but no consistency rule reads them.
type Pact struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Partner   string    `json:"partner,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Note is a free-form per-day journal entry.
type Note struct {
	ID   string `json:"id"`
	Date Date   `json:"date"`
	Body string `json:"body"`
}

// Preferences is the user's settings blob, written as a whole on change.
// Points is the running gamification counter bumped on each completion.
type Preferences struct {
	Theme            string `json:"theme,omitempty"`
	WeekStartsMonday bool   `json:"weekStartsMonday"`
	Points           int    `json:"points"`
}
