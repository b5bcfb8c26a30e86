package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Session is the habit-consistency engine for one process run. It is
// constructed once, holds the in-memory projection hydrated from the active
// persistence tier, and serializes every command. Consumers receive it by
// reference; there is no ambient global.
type Session struct {
	mu sync.Mutex

	mode    Mode
	st      *State
	syncer  Syncer
	clock   Clock
	log     *slog.Logger
	check   *validator.Validate
	catalog []Artifact
}

type Option func(*Session)

// WithClock pins "today", for calendar-replay tests.
func WithClock(c Clock) Option { return func(s *Session) { s.clock = c } }

// WithLogger replaces the default logger.
func WithLogger(l *slog.Logger) Option { return func(s *Session) { s.log = l } }

// WithCatalog overrides the built-in artifact catalog.
func WithCatalog(c []Artifact) Option { return func(s *Session) { s.catalog = c } }

// NewSession hydrates the projection from the syncer's tier and returns a
// ready session.
func NewSession(ctx context.Context, mode Mode, syncer Syncer, opts ...Option) (*Session, error) {
	if !mode.IsValid() {
		return nil, ValidationError{Field: "mode", Reason: fmt.Sprintf("unknown mode %q", mode)}
	}
	s := &Session{
		mode:    mode,
		syncer:  syncer,
		clock:   SystemClock(),
		log:     slog.Default(),
		check:   validator.New(),
		catalog: Catalog(),
	}
	for _, opt := range opts {
		opt(s)
	}

	st, err := syncer.Hydrate(ctx)
	if err != nil {
		return nil, fmt.Errorf("hydrate %s session: %w", mode, err)
	}
	if st == nil {
		st = NewState()
	}
	if st.Records == nil {
		st.Records = NewRecordStore()
	}
	if st.Unlocked == nil {
		st.Unlocked = map[string]time.Time{}
	}
	s.st = st
	s.log.Debug("session hydrated",
		"mode", mode,
		"tasks", len(st.Tasks),
		"entries", st.Records.TotalEntries(),
	)
	return s, nil
}

func (s *Session) Mode() Mode { return s.mode }

// Close flushes and releases the persistence tier.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncer.Close(ctx)
}

// mirror runs a syncer notification under the optimistic-write policy: the
// projection has already changed, a tier failure is logged and swallowed.
// Remote implementations park the write for retry themselves.
func (s *Session) mirror(op string, err error) {
	if err != nil {
		s.log.Warn("mutation not mirrored to store", "op", op, "error", err)
	}
}

// AddTaskInput creates a habit. Name must be non-empty after trimming;
// phase intensities must stay within the scored range.
type AddTaskInput struct {
	Name   string `validate:"required"`
	Color  string
	Metric *MetricConfig `validate:"omitempty"`
}

func (s *Session) AddTask(ctx context.Context, in AddTaskInput) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}
	in.Name = name
	// Range-check phases before the struct validator so the caller sees
	// the phase by name instead of a validator struct-key error.
	if in.Metric != nil {
		for _, p := range in.Metric.Phases {
			if p.Intensity < IntensityMin || p.Intensity > IntensityMax {
				return nil, ValidationError{
					Field:  "metric",
					Reason: fmt.Sprintf("phase %q intensity %d out of range", p.Name, p.Intensity),
				}
			}
		}
	}
	if err := s.check.Struct(in); err != nil {
		return nil, ValidationError{Field: "task", Reason: err.Error()}
	}

	t := Task{
		ID:        uuid.NewString(),
		Name:      name,
		Color:     in.Color,
		Metric:    in.Metric,
		CreatedAt: time.Now(),
	}
	s.st.Tasks = append(s.st.Tasks, t)
	s.mirror("task save", s.syncer.TaskSaved(ctx, s.st, t))
	return &t, nil
}

// ArchiveTask flips the archived flag. Archived tasks drop out of streak
// and strength computation; their records stay.
func (s *Session) ArchiveTask(ctx context.Context, id string) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.st.task(id)
	if t == nil {
		return nil, NotFoundError{Kind: "task", ID: id}
	}
	t.IsArchived = !t.IsArchived
	s.mirror("task archive", s.syncer.TaskSaved(ctx, s.st, *t))
	cp := *t
	return &cp, nil
}

// DeleteTask removes the task and cascades deletion of every record
// referencing it, in the projection and in the active tier.
func (s *Session) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.st.Tasks {
		if s.st.Tasks[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return NotFoundError{Kind: "task", ID: id}
	}
	s.st.Tasks = append(s.st.Tasks[:idx], s.st.Tasks[idx+1:]...)
	dropped := s.st.Records.RemoveTask(id)
	s.log.Debug("task deleted", "task", id, "records_dropped", dropped)
	s.mirror("task delete", s.syncer.TaskDeleted(ctx, s.st, id))
	return nil
}

// LogInput records a completion. When the task has a metric ladder and a
// raw Value is supplied, intensity resolves through the ladder; otherwise
// an explicit Intensity (or none) is stored.
type LogInput struct {
	Date      Date
	TaskID    string
	Value     *float64
	Intensity *int
}

func (s *Session) LogCompletion(ctx context.Context, in LogInput) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	date := in.Date
	if date.IsZero() {
		date = s.clock.Today()
	}
	if _, err := ParseDate(string(date)); err != nil {
		return nil, ValidationError{Field: "date", Reason: err.Error()}
	}
	t := s.st.task(in.TaskID)
	if t == nil {
		return nil, NotFoundError{Kind: "task", ID: in.TaskID}
	}

	var intensity *int
	switch {
	case in.Value != nil:
		// A raw value always goes through the stored-intensity policy;
		// without a ladder a positive value still scores minimally.
		intensity = StoredIntensity(t.Metric, *in.Value)
	case in.Intensity != nil:
		if *in.Intensity < 0 || *in.Intensity > IntensityMax {
			return nil, ValidationError{Field: "intensity", Reason: fmt.Sprintf("%d out of range", *in.Intensity)}
		}
		v := *in.Intensity
		intensity = &v
	}

	rec := Record{
		ID:        uuid.NewString(),
		TaskID:    t.ID,
		Intensity: intensity,
		Value:     in.Value,
		LoggedAt:  time.Now(),
	}
	s.st.Records.Upsert(date, rec)
	s.st.Prefs.Points++
	s.mirror("record save", s.syncer.RecordSaved(ctx, s.st, date, rec))
	s.mirror("preferences save", s.syncer.PreferencesSaved(ctx, s.st))
	return &rec, nil
}

// RemoveCompletion deletes the record for (date, taskID) if present.
func (s *Session) RemoveCompletion(ctx context.Context, date Date, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.st.Records.Remove(date, taskID) {
		return NotFoundError{Kind: "record", ID: fmt.Sprintf("%s/%s", date, taskID)}
	}
	s.mirror("record delete", s.syncer.RecordDeleted(ctx, s.st, date, taskID))
	return nil
}

// Streak answers either the live query (zero anchor, with grace) or a
// frozen historical one (explicit anchor, no grace).
func (s *Session) Streak(q StreakQuery) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComputeStreak(s.st.Records.Map(), q, s.clock.Today(), s.st.archivedSet())
}

// Stats returns the derived {days, strength, tier} snapshot for the live
// query, optionally scoped to one task.
func (s *Session) Stats(taskID string) StreakSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := StreakQuery{TaskID: taskID}
	return Snapshot(s.st.Records.Map(), q, s.clock.Today(), s.st.archivedSet())
}

// CheckUnlocks evaluates the catalog against current stats and persists any
// newly satisfied artifacts. Unlocks are monotonic and the already-unlocked
// guard makes repeated calls idempotent.
func (s *Session) CheckUnlocks(ctx context.Context) []Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.st.Records.Map()
	today := s.clock.Today()
	archived := s.st.archivedSet()
	streak := ComputeStreak(m, StreakQuery{}, today, archived)
	entries := s.st.Records.TotalEntries()
	stats := UnlockStats{
		Streak:      streak,
		Entries:     entries,
		Consistency: Consistency(streak, entries),
	}

	already := make(map[string]bool, len(s.st.Unlocked))
	for id := range s.st.Unlocked {
		already[id] = true
	}
	fresh := EvaluateUnlocks(stats, already, s.catalog)
	now := time.Now()
	for _, a := range fresh {
		s.st.Unlocked[a.ID] = now
		s.mirror("unlock save", s.syncer.UnlockSaved(ctx, s.st, a.ID, now))
	}
	return fresh
}

// Tasks returns a copy of the task list.
func (s *Session) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Task, len(s.st.Tasks))
	copy(out, s.st.Tasks)
	return out
}

// Task looks a task up by id.
func (s *Session) Task(id string) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.st.task(id)
	if t == nil {
		return nil, NotFoundError{Kind: "task", ID: id}
	}
	cp := *t
	return &cp, nil
}

// RecordsOn lists the completions logged on one day.
func (s *Session) RecordsOn(date Date) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Records.On(date)
}

// LastCompletion exposes the transient feedback pointer.
func (s *Session) LastCompletion() *LastCompletion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Records.Last()
}

// Unlocked returns the earned artifact ids with their unlock times.
func (s *Session) Unlocked() map[string]time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]time.Time, len(s.st.Unlocked))
	for id, at := range s.st.Unlocked {
		out[id] = at
	}
	return out
}

func (s *Session) AddPact(ctx context.Context, title, partner string) (*Pact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	title, err := normalizeName(title)
	if err != nil {
		return nil, err
	}
	p := Pact{ID: uuid.NewString(), Title: title, Partner: partner, CreatedAt: time.Now()}
	s.st.Pacts = append(s.st.Pacts, p)
	s.mirror("pact save", s.syncer.PactSaved(ctx, s.st, p))
	return &p, nil
}

func (s *Session) DeletePact(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.st.Pacts {
		if s.st.Pacts[i].ID == id {
			s.st.Pacts = append(s.st.Pacts[:i], s.st.Pacts[i+1:]...)
			s.mirror("pact delete", s.syncer.PactDeleted(ctx, s.st, id))
			return nil
		}
	}
	return NotFoundError{Kind: "pact", ID: id}
}

func (s *Session) Pacts() []Pact {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Pact, len(s.st.Pacts))
	copy(out, s.st.Pacts)
	return out
}

func (s *Session) AddNote(ctx context.Context, date Date, body string) (*Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := ParseDate(string(date)); err != nil {
		return nil, ValidationError{Field: "date", Reason: err.Error()}
	}
	body, err := normalizeName(body)
	if err != nil {
		return nil, err
	}
	n := Note{ID: uuid.NewString(), Date: date, Body: body}
	s.st.Notes = append(s.st.Notes, n)
	s.mirror("note save", s.syncer.NoteSaved(ctx, s.st, n))
	return &n, nil
}

func (s *Session) DeleteNote(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.st.Notes {
		if s.st.Notes[i].ID == id {
			s.st.Notes = append(s.st.Notes[:i], s.st.Notes[i+1:]...)
			s.mirror("note delete", s.syncer.NoteDeleted(ctx, s.st, id))
			return nil
		}
	}
	return NotFoundError{Kind: "note", ID: id}
}

func (s *Session) Notes() []Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Note, len(s.st.Notes))
	copy(out, s.st.Notes)
	return out
}

func (s *Session) Preferences() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Prefs
}

func (s *Session) UpdatePreferences(ctx context.Context, p Preferences) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.Prefs = p
	s.mirror("preferences save", s.syncer.PreferencesSaved(ctx, s.st))
}

func normalizeName(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", ValidationError{Field: "name", Reason: "must not be empty"}
	}
	return v, nil
}
