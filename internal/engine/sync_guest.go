package engine

import (
	"context"
	"log/slog"
	"time"

	"emberline/internal/localcache"
)

// GuestSyncer persists the unauthenticated session to the local key-value
// cache. Every mutation rewrites the full snapshot of the sub-tree that
// changed; there is no incremental write path.
type GuestSyncer struct {
	cache *localcache.Cache
	log   *slog.Logger
}

func NewGuestSyncer(cache *localcache.Cache, log *slog.Logger) *GuestSyncer {
	if log == nil {
		log = slog.Default()
	}
	return &GuestSyncer{cache: cache, log: log}
}

// Hydrate reads each logical snapshot once. Missing keys mean a fresh
// guest profile.
func (g *GuestSyncer) Hydrate(ctx context.Context) (*State, error) {
	st := NewState()

	if _, err := g.cache.Get(localcache.KeyTasks, &st.Tasks); err != nil {
		return nil, err
	}
	var records RecordsMap
	if ok, err := g.cache.Get(localcache.KeyRecords, &records); err != nil {
		return nil, err
	} else if ok {
		st.Records.Replace(records)
	}
	if _, err := g.cache.Get(localcache.KeyPacts, &st.Pacts); err != nil {
		return nil, err
	}
	if _, err := g.cache.Get(localcache.KeyNotes, &st.Notes); err != nil {
		return nil, err
	}
	if _, err := g.cache.Get(localcache.KeyPreferences, &st.Prefs); err != nil {
		return nil, err
	}
	var unlocked map[string]time.Time
	if ok, err := g.cache.Get(localcache.KeyUnlocks, &unlocked); err != nil {
		return nil, err
	} else if ok && unlocked != nil {
		st.Unlocked = unlocked
	}
	return st, nil
}

func (g *GuestSyncer) writeTasks(st *State) error {
	return g.cache.Put(localcache.KeyTasks, st.Tasks)
}

func (g *GuestSyncer) writeRecords(st *State) error {
	return g.cache.Put(localcache.KeyRecords, st.Records.Map())
}

func (g *GuestSyncer) TaskSaved(ctx context.Context, st *State, _ Task) error {
	return g.writeTasks(st)
}

// TaskDeleted rewrites both sub-trees the cascade touched.
func (g *GuestSyncer) TaskDeleted(ctx context.Context, st *State, _ string) error {
	if err := g.writeTasks(st); err != nil {
		return err
	}
	return g.writeRecords(st)
}

func (g *GuestSyncer) RecordSaved(ctx context.Context, st *State, _ Date, _ Record) error {
	return g.writeRecords(st)
}

func (g *GuestSyncer) RecordDeleted(ctx context.Context, st *State, _ Date, _ string) error {
	return g.writeRecords(st)
}

func (g *GuestSyncer) PactSaved(ctx context.Context, st *State, _ Pact) error {
	return g.cache.Put(localcache.KeyPacts, st.Pacts)
}

func (g *GuestSyncer) PactDeleted(ctx context.Context, st *State, _ string) error {
	return g.cache.Put(localcache.KeyPacts, st.Pacts)
}

func (g *GuestSyncer) NoteSaved(ctx context.Context, st *State, _ Note) error {
	return g.cache.Put(localcache.KeyNotes, st.Notes)
}

func (g *GuestSyncer) NoteDeleted(ctx context.Context, st *State, _ string) error {
	return g.cache.Put(localcache.KeyNotes, st.Notes)
}

func (g *GuestSyncer) PreferencesSaved(ctx context.Context, st *State) error {
	return g.cache.Put(localcache.KeyPreferences, st.Prefs)
}

func (g *GuestSyncer) UnlockSaved(ctx context.Context, st *State, _ string, _ time.Time) error {
	return g.cache.Put(localcache.KeyUnlocks, st.Unlocked)
}

func (g *GuestSyncer) StateReplaced(ctx context.Context, st *State) error {
	if err := g.writeTasks(st); err != nil {
		return err
	}
	if err := g.writeRecords(st); err != nil {
		return err
	}
	if err := g.cache.Put(localcache.KeyPacts, st.Pacts); err != nil {
		return err
	}
	if err := g.cache.Put(localcache.KeyNotes, st.Notes); err != nil {
		return err
	}
	if err := g.cache.Put(localcache.KeyPreferences, st.Prefs); err != nil {
		return err
	}
	return g.cache.Put(localcache.KeyUnlocks, st.Unlocked)
}

func (g *GuestSyncer) Close(ctx context.Context) error {
	return g.cache.Close()
}
