package localcache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type snapshot struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestPutGetRoundTrip(t *testing.T) {
	c, err := Open(InMemoryConfig())
	require.NoError(t, err)
	defer c.Close()

	var out snapshot
	ok, err := c.Get(KeyTasks, &out)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.Put(KeyTasks, snapshot{Name: "tasks", Count: 3}))

	ok, err = c.Get(KeyTasks, &out)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, snapshot{Name: "tasks", Count: 3}, out)
}

func TestPutReplacesSnapshot(t *testing.T) {
	c, err := Open(InMemoryConfig())
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Put(KeyRecords, snapshot{Count: 1}))
	require.NoError(t, c.Put(KeyRecords, snapshot{Count: 2}))

	var out snapshot
	ok, err := c.Get(KeyRecords, &out)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 2, out.Count)
}

func TestDeleteMakesKeyAbsent(t *testing.T) {
	c, err := Open(InMemoryConfig())
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Put(KeyNotes, snapshot{Count: 1}))
	require.NoError(t, c.Delete(KeyNotes))

	var out snapshot
	ok, err := c.Get(KeyNotes, &out)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDurableReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")

	c, err := Open(DefaultConfig(dir))
	require.NoError(t, err)
	require.NoError(t, c.Put(KeyPreferences, snapshot{Name: "prefs", Count: 9}))
	require.NoError(t, c.Close())

	c2, err := Open(DefaultConfig(dir))
	require.NoError(t, err)
	defer c2.Close()

	var out snapshot
	ok, err := c2.Get(KeyPreferences, &out)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 9, out.Count)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(Config{})
	require.Error(t, err)
}
