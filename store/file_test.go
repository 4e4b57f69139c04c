package store

import (
	"context"
	"testing"

	"github.com/jwtradera/scrt-strongbox/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	tempDir := t.TempDir()
	ctx := context.Background()

	s, err := NewFileStore(tempDir, testLogger())
	require.NoError(t, err)

	_, err = s.Get(ctx, "owner")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)

	require.NoError(t, s.Set(ctx, "viewer_keys/0a0b", []byte(`{"digest":"abc","counter":1}`)))

	value, err := s.Get(ctx, "viewer_keys/0a0b")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"digest":"abc","counter":1}`), value)
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	tempDir := t.TempDir()
	ctx := context.Background()

	s1, err := NewFileStore(tempDir, testLogger())
	require.NoError(t, err)
	require.NoError(t, s1.Set(ctx, "box", []byte("hello")))

	// A fresh handle over the same directory sees the same state, matching
	// the restart-between-calls execution model.
	s2, err := NewFileStore(tempDir, testLogger())
	require.NoError(t, err)

	value, err := s2.Get(ctx, "box")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), value)
}

func TestFileStore_Delete(t *testing.T) {
	tempDir := t.TempDir()
	ctx := context.Background()

	s, err := NewFileStore(tempDir, testLogger())
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "box", []byte("payload")))
	require.NoError(t, s.Delete(ctx, "box"))

	_, err = s.Get(ctx, "box")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)

	require.NoError(t, s.Delete(ctx, "box"))
}

func TestFileStore_Available(t *testing.T) {
	tempDir := t.TempDir()

	s, err := NewFileStore(tempDir, testLogger())
	require.NoError(t, err)
	assert.True(t, s.Available(context.Background()))
}
