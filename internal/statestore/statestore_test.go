package statestore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Use a unique in-memory database per test to avoid cross-test collisions.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	return s
}

func TestSaveAndLoadPair(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Save([]byte(`{"id":"1"}`), "tok-abc"))

	identity, token, ok, err := s.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"id":"1"}`, string(identity))
	require.Equal(t, "tok-abc", token)
}

func TestSaveReplacesPreviousPair(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Save([]byte(`{"id":"1"}`), "tok-1"))
	require.NoError(t, s.Save([]byte(`{"id":"2"}`), "tok-2"))

	identity, token, ok, err := s.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"id":"2"}`, string(identity))
	require.Equal(t, "tok-2", token)
}

func TestLoadEmpty(t *testing.T) {
	s := openTestStore(t)

	_, _, ok, err := s.Load()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestClearRemovesBothEntries(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Save([]byte(`{"id":"1"}`), "tok-1"))
	require.NoError(t, s.Clear())

	_, _, ok, err := s.Load()
	require.NoError(t, err)
	require.False(t, ok)

	// Clearing an already-empty store is fine.
	require.NoError(t, s.Clear())
}
