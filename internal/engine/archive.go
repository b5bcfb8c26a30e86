package engine

import (
	"context"
	"encoding/json"
	"time"
)

// AppVersion is embedded in archive metadata. The import path performs no
// version-gated migration; shape drift across versions is an accepted
// compatibility risk.
const AppVersion = "0.3.0"

// Archive is the documented wire format for backup and cross-device moves.
// Habits and Records are the required contract; everything else is carried
// when present.
type Archive struct {
	Meta        ArchiveMeta          `json:"meta"`
	Habits      []Task               `json:"habits"`
	Records     RecordsMap           `json:"records"`
	Pacts       []Pact               `json:"pacts,omitempty"`
	Notes       []Note               `json:"notes,omitempty"`
	Preferences Preferences          `json:"preferences"`
	Unlocked    map[string]time.Time `json:"unlocked,omitempty"`
}

type ArchiveMeta struct {
	AppVersion string    `json:"appVersion"`
	ExportedAt time.Time `json:"exportedAt"`
}

// ExportArchive serializes the full projection.
func (s *Session) ExportArchive() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := Archive{
		Meta:        ArchiveMeta{AppVersion: AppVersion, ExportedAt: time.Now()},
		Habits:      append([]Task(nil), s.st.Tasks...),
		Records:     s.st.Records.Map().Clone(),
		Pacts:       append([]Pact(nil), s.st.Pacts...),
		Notes:       append([]Note(nil), s.st.Notes...),
		Preferences: s.st.Prefs,
		Unlocked:    map[string]time.Time{},
	}
	if a.Habits == nil {
		a.Habits = []Task{}
	}
	for id, at := range s.st.Unlocked {
		a.Unlocked[id] = at
	}
	return json.MarshalIndent(a, "", "  ")
}

// archiveShape distinguishes absent keys from empty ones: both habits and
// records must be present for a restore, even when empty.
type archiveShape struct {
	Meta        ArchiveMeta          `json:"meta"`
	Habits      *[]Task              `json:"habits"`
	Records     *RecordsMap          `json:"records"`
	Pacts       []Pact               `json:"pacts"`
	Notes       []Note               `json:"notes"`
	Preferences Preferences          `json:"preferences"`
	Unlocked    map[string]time.Time `json:"unlocked"`
}

// RestoreArchive replaces the projection wholesale from a prior export.
// All-or-nothing: a shape mismatch rejects before anything mutates.
func (s *Session) RestoreArchive(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var raw archiveShape
	if err := json.Unmarshal(data, &raw); err != nil {
		return ValidationError{Field: "archive", Reason: "malformed JSON: " + err.Error()}
	}
	if raw.Habits == nil {
		return ValidationError{Field: "archive", Reason: "missing habits"}
	}
	if raw.Records == nil {
		return ValidationError{Field: "archive", Reason: "missing records"}
	}
	for _, t := range *raw.Habits {
		if t.ID == "" || t.Name == "" {
			return ValidationError{Field: "archive", Reason: "habit entries need id and name"}
		}
	}
	for date, recs := range *raw.Records {
		if _, err := ParseDate(string(date)); err != nil {
			return ValidationError{Field: "archive", Reason: "bad record date " + string(date)}
		}
		for _, r := range recs {
			if r.TaskID == "" {
				return ValidationError{Field: "archive", Reason: "record on " + string(date) + " missing taskId"}
			}
		}
	}

	st := NewState()
	st.Tasks = *raw.Habits
	st.Records.Replace((*raw.Records).Clone())
	st.Pacts = raw.Pacts
	st.Notes = raw.Notes
	st.Prefs = raw.Preferences
	if raw.Unlocked != nil {
		st.Unlocked = raw.Unlocked
	}
	s.st = st
	s.log.Info("archive restored",
		"app_version", raw.Meta.AppVersion,
		"habits", len(st.Tasks),
		"entries", st.Records.TotalEntries(),
	)
	s.mirror("state replace", s.syncer.StateReplaced(ctx, s.st))
	return nil
}
