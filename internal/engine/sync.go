package engine

import (
	"context"
	"time"
)

// Mode selects the persistence tier at session start. It never switches
// mid-session.
type Mode string

const (
	// ModeGuest persists snapshots to the local key-value cache only.
	ModeGuest Mode = "guest"
	// ModeAuthenticated mirrors each mutation to the relational store.
	ModeAuthenticated Mode = "authenticated"
)

func (m Mode) IsValid() bool {
	return m == ModeGuest || m == ModeAuthenticated
}

// State is the in-memory projection for one session. After hydration it is
// the source of truth: reads never go back to the stores.
type State struct {
	Tasks    []Task
	Records  *RecordStore
	Pacts    []Pact
	Notes    []Note
	Prefs    Preferences
	Unlocked map[string]time.Time
}

func NewState() *State {
	return &State{
		Records:  NewRecordStore(),
		Unlocked: map[string]time.Time{},
	}
}

func (st *State) task(id string) *Task {
	for i := range st.Tasks {
		if st.Tasks[i].ID == id {
			return &st.Tasks[i]
		}
	}
	return nil
}

func (st *State) archivedSet() map[string]bool {
	var set map[string]bool
	for _, t := range st.Tasks {
		if t.IsArchived {
			if set == nil {
				set = map[string]bool{}
			}
			set[t.ID] = true
		}
	}
	return set
}

// Syncer mirrors session mutations to the active persistence tier. The
// session mutates its projection first and then notifies the syncer; a
// syncer error never rolls the projection back (optimistic writes).
//
// Guest implementations re-serialize the relevant sub-tree of st on every
// call; the authenticated implementation uses the entity arguments for
// scoped writes.
type Syncer interface {
	Hydrate(ctx context.Context) (*State, error)

	TaskSaved(ctx context.Context, st *State, t Task) error
	TaskDeleted(ctx context.Context, st *State, id string) error
	RecordSaved(ctx context.Context, st *State, date Date, r Record) error
	RecordDeleted(ctx context.Context, st *State, date Date, taskID string) error
	PactSaved(ctx context.Context, st *State, p Pact) error
	PactDeleted(ctx context.Context, st *State, id string) error
	NoteSaved(ctx context.Context, st *State, n Note) error
	NoteDeleted(ctx context.Context, st *State, id string) error
	PreferencesSaved(ctx context.Context, st *State) error
	UnlockSaved(ctx context.Context, st *State, artifactID string, at time.Time) error

	// StateReplaced rewrites every tier-side entity from st. Used by
	// archive restore.
	StateReplaced(ctx context.Context, st *State) error

	Close(ctx context.Context) error
}
