package storage

import "time"

// Row types mirror the relations one to one; the engine maps them onto its
// own domain types at the sync boundary.

type TaskRow struct {
	ID           string
	Name         string
	Color        *string
	IsArchived   bool
	MetricUnit   *string
	MetricPhases *string // JSON phase ladder
	CreatedAt    time.Time
}

type RecordRow struct {
	ID        string
	TaskID    string
	Date      string
	Intensity *int
	Value     *float64
	LoggedAt  *time.Time
}

type PactRow struct {
	ID        string
	Title     string
	Partner   *string
	CreatedAt time.Time
}

type NoteRow struct {
	ID   string
	Date string
	Body string
}

type UnlockRow struct {
	ArtifactID string
	UnlockedAt time.Time
}
