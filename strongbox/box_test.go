package strongbox

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/jwtradera/scrt-strongbox/interfaces"
	"github.com/jwtradera/scrt-strongbox/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBox_ReadBeforeWrite(t *testing.T) {
	b := New(testLogger())
	s := store.NewMemoryStore(testLogger())

	_, err := b.Read(context.Background(), s)
	assert.ErrorIs(t, err, interfaces.ErrNotInitialized)
}

func TestBox_WriteAndRead(t *testing.T) {
	b := New(testLogger())
	s := store.NewMemoryStore(testLogger())
	ctx := context.Background()

	require.NoError(t, b.Write(ctx, s, []byte("hello")))

	content, err := b.Read(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), content)

	// Write replaces, never appends.
	require.NoError(t, b.Write(ctx, s, []byte("goodbye")))
	content, err = b.Read(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, []byte("goodbye"), content)
}

func TestBox_EmptyPayloadIsLegal(t *testing.T) {
	b := New(testLogger())
	s := store.NewMemoryStore(testLogger())
	ctx := context.Background()

	require.NoError(t, b.Write(ctx, s, []byte{}))

	content, err := b.Read(ctx, s)
	require.NoError(t, err)
	assert.Empty(t, content)
}
