package engine

import (
	"context"
	"path/filepath"
	"testing"

	"emberline/internal/storage"
)

func newAuthSession(t *testing.T, path string, today Date) (*Session, *RemoteSyncer) {
	t.Helper()
	ctx := context.Background()

	db, err := storage.Open(ctx, path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	syncer := NewRemoteSyncer(db, discardLogger())
	sess, err := NewSession(ctx, ModeAuthenticated, syncer, WithClock(FixedClock(today)))
	if err != nil {
		_ = db.Close()
		t.Fatalf("new session: %v", err)
	}
	return sess, syncer
}

func TestAuthenticatedRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ember.db")

	sess, _ := newAuthSession(t, path, "2025-06-10")
	task := mustAddTask(t, sess, AddTaskInput{
		Name:  "Read",
		Color: "#e25822",
		Metric: &MetricConfig{Unit: "pages", Phases: []Phase{
			{Name: "Skim", Threshold: 5, Intensity: 1},
			{Name: "Deep", Threshold: 30, Intensity: 3},
		}},
	})
	for _, d := range []Date{"2025-06-09", "2025-06-10"} {
		if _, err := sess.LogCompletion(ctx, LogInput{TaskID: task.ID, Date: d, Value: floatp(42)}); err != nil {
			t.Fatalf("log %s: %v", d, err)
		}
	}
	if _, err := sess.AddPact(ctx, "Morning pages", "Ada"); err != nil {
		t.Fatalf("pact: %v", err)
	}
	if _, err := sess.AddNote(ctx, "2025-06-10", "good session"); err != nil {
		t.Fatalf("note: %v", err)
	}
	sess.CheckUnlocks(ctx)
	if err := sess.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	sess2, _ := newAuthSession(t, path, "2025-06-10")
	defer sess2.Close(ctx)

	got, err := sess2.Task(task.ID)
	if err != nil {
		t.Fatalf("rehydrated task: %v", err)
	}
	if got.Color != "#e25822" {
		t.Fatalf("color=%q", got.Color)
	}
	if got.Metric == nil || got.Metric.Unit != "pages" || len(got.Metric.Phases) != 2 {
		t.Fatalf("metric did not survive the relation: %+v", got.Metric)
	}
	if got.Metric.Phases[1].Name != "Deep" || got.Metric.Phases[1].Intensity != 3 {
		t.Fatalf("phase ladder=%+v", got.Metric.Phases)
	}
	if streak := sess2.Streak(StreakQuery{}); streak != 2 {
		t.Fatalf("rehydrated streak=%d, want 2", streak)
	}
	recs := sess2.RecordsOn("2025-06-10")
	if len(recs) != 1 {
		t.Fatalf("records on day=%d, want 1", len(recs))
	}
	if recs[0].Intensity == nil || *recs[0].Intensity != 3 || recs[0].Value == nil || *recs[0].Value != 42 {
		t.Fatalf("rehydrated record=%+v", recs[0])
	}
	if pacts := sess2.Pacts(); len(pacts) != 1 || pacts[0].Partner != "Ada" {
		t.Fatalf("rehydrated pacts=%v", pacts)
	}
	if notes := sess2.Notes(); len(notes) != 1 || notes[0].Body != "good session" {
		t.Fatalf("rehydrated notes=%v", notes)
	}
	if prefs := sess2.Preferences(); prefs.Points != 2 {
		t.Fatalf("rehydrated points=%d, want 2", prefs.Points)
	}
	if _, ok := sess2.Unlocked()["entries_1"]; !ok {
		t.Fatalf("unlocks did not persist: %v", sess2.Unlocked())
	}
}

func TestRemoteRecordUpsertKeepsOneRow(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ember.db")

	sess, syncer := newAuthSession(t, path, "2025-06-10")
	defer sess.Close(ctx)

	task := mustAddTask(t, sess, AddTaskInput{Name: "Run"})
	for i := 1; i <= 3; i++ {
		v := i
		if _, err := sess.LogCompletion(ctx, LogInput{TaskID: task.ID, Intensity: &v}); err != nil {
			t.Fatalf("relog #%d: %v", i, err)
		}
	}

	records := storage.NewRecordRepo(syncer.db)
	n, err := records.CountByDay(ctx, "2025-06-10", task.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("rows for (day, task)=%d, want 1", n)
	}
	if syncer.PendingWrites() != 0 {
		t.Fatalf("pending writes=%d, want 0", syncer.PendingWrites())
	}
}

func TestRemoteDeleteCascades(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ember.db")

	sess, syncer := newAuthSession(t, path, "2025-06-10")
	defer sess.Close(ctx)

	task := mustAddTask(t, sess, AddTaskInput{Name: "Doomed"})
	if _, err := sess.LogCompletion(ctx, LogInput{TaskID: task.ID}); err != nil {
		t.Fatalf("log: %v", err)
	}
	if err := sess.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	records := storage.NewRecordRepo(syncer.db)
	n, err := records.CountByDay(ctx, "2025-06-10", task.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("cascade left %d record rows", n)
	}
}

func TestRemoteRestoreRewritesRelation(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ember.db")

	sess, _ := newAuthSession(t, path, "2025-06-10")
	old := mustAddTask(t, sess, AddTaskInput{Name: "Old life"})
	if _, err := sess.LogCompletion(ctx, LogInput{TaskID: old.ID}); err != nil {
		t.Fatalf("log: %v", err)
	}

	donor := newGuestSession(t, "2025-06-10")
	imported := mustAddTask(t, donor, AddTaskInput{Name: "Imported"})
	if _, err := donor.LogCompletion(ctx, LogInput{TaskID: imported.ID, Date: "2025-06-01"}); err != nil {
		t.Fatalf("donor log: %v", err)
	}
	archive, err := donor.ExportArchive()
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	if err := sess.RestoreArchive(ctx, archive); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if err := sess.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	sess2, _ := newAuthSession(t, path, "2025-06-10")
	defer sess2.Close(ctx)
	tasks := sess2.Tasks()
	if len(tasks) != 1 || tasks[0].Name != "Imported" {
		t.Fatalf("relation after restore=%v", tasks)
	}
	if _, err := sess2.Task(old.ID); err == nil {
		t.Fatalf("pre-restore task survived the rewrite")
	}
}
