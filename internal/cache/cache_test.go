package cache

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), true, 60)
	require.NoError(t, err)
	return s
}

// expire rewrites the stored entry for key so it expired a second ago.
func expire(t *testing.T, s *Store, key string) {
	t.Helper()
	entry := NewEntry(key, json.RawMessage(`{}`), 60)
	entry.ExpiresAt = time.Now().Add(-time.Second)
	data, err := json.Marshal(entry)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(s.path(key), data, 0600))
}

func TestEntry(t *testing.T) {
	entry := NewEntry("k", json.RawMessage(`{"a":1}`), 60)

	assert.False(t, entry.IsExpired())
	assert.Greater(t, entry.Remaining(), time.Duration(0))
	assert.LessOrEqual(t, entry.Age(), time.Second)

	entry.ExpiresAt = time.Now().Add(-time.Second)
	assert.True(t, entry.IsExpired())
	assert.Equal(t, time.Duration(0), entry.Remaining())

	fresh := NewEntry("k", json.RawMessage(`{"a":1}`), 60)
	encoded, err := json.Marshal(fresh)
	require.NoError(t, err)
	var decoded Entry
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, fresh.Key, decoded.Key)
	assert.Equal(t, fresh.TTLSeconds, decoded.TTLSeconds)
	assert.Equal(t, fresh.ExpiresAt.Format(time.RFC3339), decoded.ExpiresAt.Format(time.RFC3339))
	assert.JSONEq(t, `{"a":1}`, string(decoded.Data))
}

func TestEntry_BadTimestamp(t *testing.T) {
	var e Entry
	err := json.Unmarshal([]byte(`{"key":"k","created_at":"yesterday","expires_at":"tomorrow"}`), &e)
	require.Error(t, err)
}

func TestKey(t *testing.T) {
	a := Key("http://server", "sets")
	assert.Len(t, a, 64)
	assert.Equal(t, a, Key("http://server", "sets"))
	assert.NotEqual(t, a, Key("http://other", "sets"))
	assert.NotEqual(t, Key("ab", "c"), Key("a", "bc"))
}

func TestNewStore(t *testing.T) {
	s, err := NewStore("", false, 0)
	require.NoError(t, err)
	assert.False(t, s.Enabled())

	_, err = NewStore("", true, 60)
	require.Error(t, err)

	_, err = NewStore(t.TempDir(), true, 0)
	require.Error(t, err)

	dir := filepath.Join(t.TempDir(), "nested", "cache")
	s, err = NewStore(dir, true, 120)
	require.NoError(t, err)
	assert.DirExists(t, dir)
	assert.Equal(t, 120, s.TTL())
}

func TestStore_SetGetDelete(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get("missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set("sets", json.RawMessage(`[{"id":1}]`)))
	entry, err := s.Get("sets")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1}]`, string(entry.Data))
	assert.Equal(t, 60, entry.TTLSeconds)

	require.NoError(t, s.Delete("sets"))
	require.NoError(t, s.Delete("sets"))
	_, err = s.Get("sets")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStore_InvalidKey(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get("")
	require.ErrorIs(t, err, ErrInvalidKey)
	require.ErrorIs(t, s.Set("", nil), ErrInvalidKey)
	require.ErrorIs(t, s.Delete(""), ErrInvalidKey)
}

func TestStore_KeySanitised(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Set("a/b:c", json.RawMessage(`1`)))
	assert.FileExists(t, filepath.Join(s.directory, "a_b_c.json"))
}

func TestStore_Expired(t *testing.T) {
	s := newTestStore(t)
	expire(t, s, "old")

	_, err := s.Get("old")
	require.ErrorIs(t, err, ErrExpired)
	assert.NoFileExists(t, s.path("old"))
}

func TestStore_PruneClearStats(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Set("fresh", json.RawMessage(`1`)))
	expire(t, s, "stale")
	require.NoError(t, os.WriteFile(filepath.Join(s.directory, "junk.json"), []byte("not json"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(s.directory, "notes.txt"), []byte("keep"), 0600))

	st, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, st.Entries)
	assert.Equal(t, 1, st.Expired)
	assert.Positive(t, st.Bytes)

	removed, err := s.Prune()
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, err = s.Get("fresh")
	require.NoError(t, err)

	removed, err = s.Clear()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.FileExists(t, filepath.Join(s.directory, "notes.txt"))
}

func TestStore_Disabled(t *testing.T) {
	s, err := NewStore("", false, 0)
	require.NoError(t, err)

	_, err = s.Get("k")
	require.ErrorIs(t, err, ErrDisabled)
	require.ErrorIs(t, s.Set("k", nil), ErrDisabled)
	require.ErrorIs(t, s.Delete("k"), ErrDisabled)
	_, err = s.Clear()
	require.ErrorIs(t, err, ErrDisabled)
	_, err = s.Prune()
	require.ErrorIs(t, err, ErrDisabled)
	_, err = s.Stats()
	require.ErrorIs(t, err, ErrDisabled)
}

type setRow struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestFetch(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	calls := 0
	fetch := func(context.Context) ([]setRow, error) {
		calls++
		return []setRow{{ID: 1, Name: "Alpha"}}, nil
	}

	got, hit, err := Fetch(ctx, s, "sets", fetch)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "Alpha", got[0].Name)

	got, hit, err = Fetch(ctx, s, "sets", fetch)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "Alpha", got[0].Name)
	assert.Equal(t, 1, calls)
}

func TestFetch_ErrorNotCached(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	boom := errors.New("boom")

	_, _, err := Fetch(ctx, s, "sets", func(context.Context) (int, error) { return 0, boom })
	require.ErrorIs(t, err, boom)
	_, err = s.Get("sets")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFetch_NilStore(t *testing.T) {
	calls := 0
	for range 2 {
		v, hit, err := Fetch(context.Background(), nil, "k", func(context.Context) (string, error) {
			calls++
			return "v", nil
		})
		require.NoError(t, err)
		assert.False(t, hit)
		assert.Equal(t, "v", v)
	}
	assert.Equal(t, 2, calls)
}

func TestFetch_UndecodableEntryRefetches(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Set("n", json.RawMessage(`"not a number"`)))

	v, hit, err := Fetch(ctx, s, "n", func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 7, v)
}
