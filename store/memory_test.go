package store

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/jwtradera/scrt-strongbox/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	s := NewMemoryStore(testLogger())
	ctx := context.Background()

	_, err := s.Get(ctx, "owner")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)

	require.NoError(t, s.Set(ctx, "owner", []byte("alice")))

	value, err := s.Get(ctx, "owner")
	require.NoError(t, err)
	assert.Equal(t, []byte("alice"), value)

	// Overwrite replaces the previous value.
	require.NoError(t, s.Set(ctx, "owner", []byte("bob")))
	value, err = s.Get(ctx, "owner")
	require.NoError(t, err)
	assert.Equal(t, []byte("bob"), value)
}

func TestMemoryStore_Delete(t *testing.T) {
	s := NewMemoryStore(testLogger())
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "box", []byte("payload")))
	require.NoError(t, s.Delete(ctx, "box"))

	_, err := s.Get(ctx, "box")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)

	// Deleting an absent key is not an error.
	require.NoError(t, s.Delete(ctx, "box"))
}

func TestMemoryStore_ReturnsCopy(t *testing.T) {
	s := NewMemoryStore(testLogger())
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "box", []byte("payload")))

	value, err := s.Get(ctx, "box")
	require.NoError(t, err)
	value[0] = 'X'

	again, err := s.Get(ctx, "box")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), again)
}

func TestMemoryStore_Metadata(t *testing.T) {
	s := NewMemoryStore(testLogger())

	assert.True(t, s.Available(context.Background()))
	assert.Equal(t, "memory", s.Name())
	assert.Equal(t, "mem://local", s.LocationURI())
}
