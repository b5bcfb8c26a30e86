package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func strp(v string) *string { return &v }

func TestTaskRepoUpsertRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewTaskRepo(db)

	row := TaskRow{
		ID:           "t1",
		Name:         "Read",
		Color:        strp("#e25822"),
		MetricUnit:   strp("pages"),
		MetricPhases: strp(`[{"name":"Skim","threshold":5,"intensity":1}]`),
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, repo.Upsert(ctx, row))

	got, err := repo.Get(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "Read", got.Name)
	require.NotNil(t, got.Color)
	require.Equal(t, "#e25822", *got.Color)
	require.NotNil(t, got.MetricPhases)
	require.False(t, got.IsArchived)

	row.Name = "Read more"
	row.IsArchived = true
	row.Color = nil
	require.NoError(t, repo.Upsert(ctx, row))

	got, err = repo.Get(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, "Read more", got.Name)
	require.True(t, got.IsArchived)
	require.Nil(t, got.Color)

	missing, err := repo.Get(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestTaskRepoDeleteCascade(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	tasks := NewTaskRepo(db)
	records := NewRecordRepo(db)

	require.NoError(t, tasks.Upsert(ctx, TaskRow{ID: "t1", Name: "Doomed", CreatedAt: time.Now()}))
	require.NoError(t, tasks.Upsert(ctx, TaskRow{ID: "t2", Name: "Kept", CreatedAt: time.Now()}))
	require.NoError(t, records.Insert(ctx, RecordRow{ID: "r1", TaskID: "t1", Date: "2025-06-01"}))
	require.NoError(t, records.Insert(ctx, RecordRow{ID: "r2", TaskID: "t2", Date: "2025-06-01"}))

	require.NoError(t, tasks.DeleteCascade(ctx, "t1"))

	n, err := records.CountByDay(ctx, "2025-06-01", "t1")
	require.NoError(t, err)
	require.Zero(t, n)

	n, err = records.CountByDay(ctx, "2025-06-01", "t2")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestRecordUniqueIndexBacksUpsertInvariant(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	records := NewRecordRepo(db)

	i := 2
	v := 12.5
	at := time.Now().UTC()
	require.NoError(t, records.Insert(ctx, RecordRow{
		ID: "r1", TaskID: "t1", Date: "2025-06-01", Intensity: &i, Value: &v, LoggedAt: &at,
	}))

	// A second row for the same (date, task_id) must be rejected by the
	// unique index; the engine deletes before reinserting.
	err := records.Insert(ctx, RecordRow{ID: "r2", TaskID: "t1", Date: "2025-06-01"})
	require.Error(t, err)

	require.NoError(t, records.DeleteByDay(ctx, "2025-06-01", "t1"))
	require.NoError(t, records.Insert(ctx, RecordRow{ID: "r2", TaskID: "t1", Date: "2025-06-01"}))

	rows, err := records.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "r2", rows[0].ID)
	require.Nil(t, rows[0].Intensity)
}

func TestSettingsRepoKeyValue(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	settings := NewSettingsRepo(db)

	_, ok, err := settings.Get(ctx, "preferences")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, settings.Set(ctx, "preferences", `{"points":1}`))
	require.NoError(t, settings.Set(ctx, "preferences", `{"points":2}`))

	v, ok, err := settings.Get(ctx, "preferences")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"points":2}`, v)
}

func TestUnlockRepoIgnoresReplays(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	unlocks := NewUnlockRepo(db)

	first := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, unlocks.Insert(ctx, "streak_3", first))
	require.NoError(t, unlocks.Insert(ctx, "streak_3", first.Add(48*time.Hour)))

	rows, err := unlocks.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.True(t, rows[0].UnlockedAt.Equal(first))
}

func TestReplaceAllRewritesEveryRelation(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	tasks := NewTaskRepo(db)
	records := NewRecordRepo(db)

	require.NoError(t, tasks.Upsert(ctx, TaskRow{ID: "old", Name: "Old", CreatedAt: time.Now()}))
	require.NoError(t, records.Insert(ctx, RecordRow{ID: "r-old", TaskID: "old", Date: "2025-05-01"}))

	err := ReplaceAll(ctx, db, ReplaceData{
		Tasks:    []TaskRow{{ID: "new", Name: "New", CreatedAt: time.Now()}},
		Records:  []RecordRow{{ID: "r-new", TaskID: "new", Date: "2025-06-01"}},
		Settings: map[string]string{"preferences": `{"points":7}`},
		Unlocks:  []UnlockRow{{ArtifactID: "entries_1", UnlockedAt: time.Now().UTC()}},
	})
	require.NoError(t, err)

	taskRows, err := tasks.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, taskRows, 1)
	require.Equal(t, "new", taskRows[0].ID)

	recordRows, err := records.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, recordRows, 1)
	require.Equal(t, "r-new", recordRows[0].ID)

	v, ok, err := NewSettingsRepo(db).Get(ctx, "preferences")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"points":7}`, v)
}
