package root

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"emberline/internal/engine"
	"emberline/internal/localcache"
)

func TestShortID(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"a", "a"},
		{"12345678", "12345678"},
		{"123456789", "12345678"},
		{"d2f1c9ab-3c44-4af5-9be4-0d9cbb6f2a11", "d2f1c9ab"},
	}
	for _, tc := range cases {
		if got := shortID(tc.in); got != tc.want {
			t.Fatalf("shortID(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}

// Restored archives can carry ids of any non-empty length; listing them
// must not assume uuid-sized ids.
func TestTasksListsRestoredShortIDs(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	t.Setenv("EMBERLINE_MODE", "guest")
	t.Setenv("EMBERLINE_CACHE_DIR", cacheDir)
	flagConfig = filepath.Join(dir, "none.yaml")
	t.Cleanup(func() { flagConfig = "" })

	ctx := context.Background()
	cache, err := localcache.Open(localcache.DefaultConfig(cacheDir))
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	sess, err := engine.NewSession(ctx, engine.ModeGuest, engine.NewGuestSyncer(cache, nil))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	archive := []byte(`{"habits":[{"id":"a","name":"Short"}],"records":{}}`)
	if err := sess.RestoreArchive(ctx, archive); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if err := sess.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	cmd := newTasksCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("tasks command: %v", err)
	}
	if !strings.Contains(out.String(), "Short") {
		t.Fatalf("restored habit missing from listing:\n%s", out.String())
	}
}
