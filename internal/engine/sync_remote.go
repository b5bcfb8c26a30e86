package engine

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"emberline/internal/storage"
)

// RemoteSyncer mirrors the authenticated session to the relational store.
// Writes are scoped to the changed entity; a record upsert is a delete
// followed by an insert on the (date, task_id) key, so readers of the raw
// relation must tolerate the brief window where the prior row is absent.
//
// A failed write parks in the outbox and is retried before the next remote
// operation and at close, instead of silently drifting.
type RemoteSyncer struct {
	db       *sql.DB
	tasks    *storage.TaskRepo
	records  *storage.RecordRepo
	pacts    *storage.PactRepo
	notes    *storage.NoteRepo
	settings *storage.SettingsRepo
	unlocks  *storage.UnlockRepo
	log      *slog.Logger
	retry    *outbox
}

const preferencesKey = "preferences"

func NewRemoteSyncer(db *sql.DB, log *slog.Logger) *RemoteSyncer {
	if log == nil {
		log = slog.Default()
	}
	return &RemoteSyncer{
		db:       db,
		tasks:    storage.NewTaskRepo(db),
		records:  storage.NewRecordRepo(db),
		pacts:    storage.NewPactRepo(db),
		notes:    storage.NewNoteRepo(db),
		settings: storage.NewSettingsRepo(db),
		unlocks:  storage.NewUnlockRepo(db),
		log:      log,
		retry:    newOutbox(log),
	}
}

// PendingWrites reports how many failed writes await retry.
func (r *RemoteSyncer) PendingWrites() int { return r.retry.size() }

// attempt flushes the outbox, runs the write, and parks it on failure.
func (r *RemoteSyncer) attempt(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	r.retry.flush(ctx)
	if err := fn(ctx); err != nil {
		r.retry.park(op, fn)
		return err
	}
	return nil
}

// Hydrate performs one bulk read per entity type.
func (r *RemoteSyncer) Hydrate(ctx context.Context) (*State, error) {
	st := NewState()

	taskRows, err := r.tasks.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range taskRows {
		t, err := taskFromRow(row)
		if err != nil {
			return nil, err
		}
		st.Tasks = append(st.Tasks, t)
	}

	recordRows, err := r.records.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	records := RecordsMap{}
	for _, row := range recordRows {
		rec := recordFromRow(row)
		records[Date(row.Date)] = append(records[Date(row.Date)], rec)
	}
	st.Records.Replace(records)

	pactRows, err := r.pacts.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range pactRows {
		st.Pacts = append(st.Pacts, pactFromRow(row))
	}

	noteRows, err := r.notes.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range noteRows {
		st.Notes = append(st.Notes, Note{ID: row.ID, Date: Date(row.Date), Body: row.Body})
	}

	if raw, ok, err := r.settings.Get(ctx, preferencesKey); err != nil {
		return nil, err
	} else if ok {
		if err := json.Unmarshal([]byte(raw), &st.Prefs); err != nil {
			return nil, fmt.Errorf("decode preferences: %w", err)
		}
	}

	unlockRows, err := r.unlocks.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range unlockRows {
		st.Unlocked[row.ArtifactID] = row.UnlockedAt
	}
	return st, nil
}

func (r *RemoteSyncer) TaskSaved(ctx context.Context, _ *State, t Task) error {
	row, err := rowFromTask(t)
	if err != nil {
		return err
	}
	return r.attempt(ctx, "task save", func(ctx context.Context) error {
		return r.tasks.Upsert(ctx, row)
	})
}

func (r *RemoteSyncer) TaskDeleted(ctx context.Context, _ *State, id string) error {
	return r.attempt(ctx, "task delete", func(ctx context.Context) error {
		return r.tasks.DeleteCascade(ctx, id)
	})
}

func (r *RemoteSyncer) RecordSaved(ctx context.Context, _ *State, date Date, rec Record) error {
	row := rowFromRecord(date, rec)
	return r.attempt(ctx, "record save", func(ctx context.Context) error {
		if err := r.records.DeleteByDay(ctx, string(date), rec.TaskID); err != nil {
			return err
		}
		return r.records.Insert(ctx, row)
	})
}

func (r *RemoteSyncer) RecordDeleted(ctx context.Context, _ *State, date Date, taskID string) error {
	return r.attempt(ctx, "record delete", func(ctx context.Context) error {
		return r.records.DeleteByDay(ctx, string(date), taskID)
	})
}

func (r *RemoteSyncer) PactSaved(ctx context.Context, _ *State, p Pact) error {
	row := rowFromPact(p)
	return r.attempt(ctx, "pact save", func(ctx context.Context) error {
		return r.pacts.Upsert(ctx, row)
	})
}

func (r *RemoteSyncer) PactDeleted(ctx context.Context, _ *State, id string) error {
	return r.attempt(ctx, "pact delete", func(ctx context.Context) error {
		return r.pacts.Delete(ctx, id)
	})
}

func (r *RemoteSyncer) NoteSaved(ctx context.Context, _ *State, n Note) error {
	return r.attempt(ctx, "note save", func(ctx context.Context) error {
		return r.notes.Upsert(ctx, storage.NoteRow{ID: n.ID, Date: string(n.Date), Body: n.Body})
	})
}

func (r *RemoteSyncer) NoteDeleted(ctx context.Context, _ *State, id string) error {
	return r.attempt(ctx, "note delete", func(ctx context.Context) error {
		return r.notes.Delete(ctx, id)
	})
}

func (r *RemoteSyncer) PreferencesSaved(ctx context.Context, st *State) error {
	data, err := json.Marshal(st.Prefs)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	return r.attempt(ctx, "preferences save", func(ctx context.Context) error {
		return r.settings.Set(ctx, preferencesKey, string(data))
	})
}

func (r *RemoteSyncer) UnlockSaved(ctx context.Context, _ *State, artifactID string, at time.Time) error {
	return r.attempt(ctx, "unlock save", func(ctx context.Context) error {
		return r.unlocks.Insert(ctx, artifactID, at)
	})
}

func (r *RemoteSyncer) StateReplaced(ctx context.Context, st *State) error {
	data, err := replaceDataFromState(st)
	if err != nil {
		return err
	}
	return r.attempt(ctx, "state replace", func(ctx context.Context) error {
		return storage.ReplaceAll(ctx, r.db, data)
	})
}

// Close drains the outbox one last time and releases the store.
func (r *RemoteSyncer) Close(ctx context.Context) error {
	r.retry.flush(ctx)
	if n := r.retry.size(); n > 0 {
		r.log.Error("closing with unsynced writes", "pending", n)
	}
	return r.db.Close()
}

func rowFromTask(t Task) (storage.TaskRow, error) {
	row := storage.TaskRow{
		ID:         t.ID,
		Name:       t.Name,
		IsArchived: t.IsArchived,
		CreatedAt:  t.CreatedAt,
	}
	if t.Color != "" {
		c := t.Color
		row.Color = &c
	}
	if t.Metric != nil {
		unit := t.Metric.Unit
		row.MetricUnit = &unit
		data, err := json.Marshal(t.Metric.Phases)
		if err != nil {
			return storage.TaskRow{}, fmt.Errorf("encode phases: %w", err)
		}
		phases := string(data)
		row.MetricPhases = &phases
	}
	return row, nil
}

func taskFromRow(row storage.TaskRow) (Task, error) {
	t := Task{
		ID:         row.ID,
		Name:       row.Name,
		IsArchived: row.IsArchived,
		CreatedAt:  row.CreatedAt,
	}
	if row.Color != nil {
		t.Color = *row.Color
	}
	if row.MetricPhases != nil {
		var phases []Phase
		if err := json.Unmarshal([]byte(*row.MetricPhases), &phases); err != nil {
			return Task{}, fmt.Errorf("decode phases for task %s: %w", row.ID, err)
		}
		cfg := &MetricConfig{Phases: phases}
		if row.MetricUnit != nil {
			cfg.Unit = *row.MetricUnit
		}
		t.Metric = cfg
	}
	return t, nil
}

func rowFromRecord(date Date, rec Record) storage.RecordRow {
	row := storage.RecordRow{
		ID:        rec.ID,
		TaskID:    rec.TaskID,
		Date:      string(date),
		Intensity: rec.Intensity,
		Value:     rec.Value,
	}
	if !rec.LoggedAt.IsZero() {
		at := rec.LoggedAt
		row.LoggedAt = &at
	}
	return row
}

func recordFromRow(row storage.RecordRow) Record {
	rec := Record{
		ID:        row.ID,
		TaskID:    row.TaskID,
		Intensity: row.Intensity,
		Value:     row.Value,
	}
	if row.LoggedAt != nil {
		rec.LoggedAt = *row.LoggedAt
	}
	return rec
}

func rowFromPact(p Pact) storage.PactRow {
	row := storage.PactRow{ID: p.ID, Title: p.Title, CreatedAt: p.CreatedAt}
	if p.Partner != "" {
		v := p.Partner
		row.Partner = &v
	}
	return row
}

func pactFromRow(row storage.PactRow) Pact {
	p := Pact{ID: row.ID, Title: row.Title, CreatedAt: row.CreatedAt}
	if row.Partner != nil {
		p.Partner = *row.Partner
	}
	return p
}

func replaceDataFromState(st *State) (storage.ReplaceData, error) {
	data := storage.ReplaceData{Settings: map[string]string{}}
	for _, t := range st.Tasks {
		row, err := rowFromTask(t)
		if err != nil {
			return storage.ReplaceData{}, err
		}
		data.Tasks = append(data.Tasks, row)
	}
	for date, recs := range st.Records.Map() {
		for _, rec := range recs {
			data.Records = append(data.Records, rowFromRecord(date, rec))
		}
	}
	for _, p := range st.Pacts {
		data.Pacts = append(data.Pacts, rowFromPact(p))
	}
	for _, n := range st.Notes {
		data.Notes = append(data.Notes, storage.NoteRow{ID: n.ID, Date: string(n.Date), Body: n.Body})
	}
	prefs, err := json.Marshal(st.Prefs)
	if err != nil {
		return storage.ReplaceData{}, fmt.Errorf("encode preferences: %w", err)
	}
	data.Settings[preferencesKey] = string(prefs)
	for id, at := range st.Unlocked {
		data.Unlocks = append(data.Unlocks, storage.UnlockRow{ArtifactID: id, UnlockedAt: at})
	}
	return data, nil
}
