package gate

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/jwtradera/scrt-strongbox/interfaces"
	"github.com/jwtradera/scrt-strongbox/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ownerID  = mustIdentity("0x1111111111111111111111111111111111111111")
	viewerID = mustIdentity("0x2222222222222222222222222222222222222222")
	mallory  = mustIdentity("0x3333333333333333333333333333333333333333")
)

func mustIdentity(hex string) interfaces.Identity {
	id, err := interfaces.NewIdentityFromHex(hex)
	if err != nil {
		panic(err)
	}
	return id
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func instantiated(t *testing.T) (*Gate, *store.MemoryStore) {
	t.Helper()
	g := New(testLogger())
	s := store.NewMemoryStore(testLogger())
	require.NoError(t, g.Instantiate(context.Background(), s, ownerID, bytes.Repeat([]byte("a"), 32)))
	return g, s
}

func snapshot(t *testing.T, s *store.MemoryStore, keys ...string) map[string][]byte {
	t.Helper()
	out := make(map[string][]byte)
	for _, key := range keys {
		value, err := s.Get(context.Background(), key)
		if err == nil {
			out[key] = value
		}
	}
	return out
}

func TestInstantiate_SeedTooShort(t *testing.T) {
	g := New(testLogger())
	s := store.NewMemoryStore(testLogger())

	err := g.Instantiate(context.Background(), s, ownerID, bytes.Repeat([]byte("a"), 31))
	assert.ErrorIs(t, err, interfaces.ErrInsufficientSeed)

	// Failed instantiation leaves no state behind.
	_, err = s.Get(context.Background(), "owner")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)
}

func TestInstantiate_SetsOwnerAndEmptyBox(t *testing.T) {
	g, s := instantiated(t)
	ctx := context.Background()

	// The owner can immediately issue a key and read back the empty box.
	resp, err := g.Execute(ctx, s, ownerID, interfaces.CreateViewingKeyMsg{
		Viewer:  viewerID,
		Entropy: bytes.Repeat([]byte("b"), 20),
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Key)

	box, err := g.Query(ctx, s, interfaces.GetStrongboxMsg{Behalf: viewerID, Key: resp.Key})
	require.NoError(t, err)
	assert.Equal(t, "", box.Strongbox)
}

func TestInstantiate_SecondAttemptFails(t *testing.T) {
	g, s := instantiated(t)

	err := g.Instantiate(context.Background(), s, mallory, bytes.Repeat([]byte("z"), 32))
	assert.ErrorIs(t, err, interfaces.ErrAlreadyInitialized)

	// Owner unchanged.
	_, err = g.Execute(context.Background(), s, ownerID, interfaces.UpdateStrongboxMsg{Strongbox: []byte("x")})
	assert.NoError(t, err)
}

func TestExecute_NonOwnerIsRejectedWithoutMutation(t *testing.T) {
	g, s := instantiated(t)
	ctx := context.Background()

	_, err := g.Execute(ctx, s, ownerID, interfaces.UpdateStrongboxMsg{Strongbox: []byte("hello")})
	require.NoError(t, err)

	watched := []string{"owner", "box", "seed", "entropy_hashes"}
	before := snapshot(t, s, watched...)

	msgs := []interfaces.ExecuteMsg{
		interfaces.UpdateStrongboxMsg{Strongbox: []byte("stolen")},
		interfaces.CreateViewingKeyMsg{Viewer: mallory, Entropy: bytes.Repeat([]byte("e"), 20)},
		interfaces.TransferOwnershipMsg{NewOwner: mallory},
		interfaces.RevokeViewingKeyMsg{Viewer: viewerID},
	}
	for _, msg := range msgs {
		_, err := g.Execute(ctx, s, mallory, msg)
		assert.ErrorIs(t, err, interfaces.ErrUnauthorized, "message %T", msg)
	}

	assert.Equal(t, before, snapshot(t, s, watched...))
}

func TestExecute_BeforeInstantiate(t *testing.T) {
	g := New(testLogger())
	s := store.NewMemoryStore(testLogger())

	_, err := g.Execute(context.Background(), s, ownerID, interfaces.UpdateStrongboxMsg{Strongbox: []byte("x")})
	assert.ErrorIs(t, err, interfaces.ErrUninitializedState)
}

func TestQuery_RoundTrip(t *testing.T) {
	g, s := instantiated(t)
	ctx := context.Background()

	_, err := g.Execute(ctx, s, ownerID, interfaces.UpdateStrongboxMsg{Strongbox: []byte("top secret")})
	require.NoError(t, err)

	resp, err := g.Execute(ctx, s, ownerID, interfaces.CreateViewingKeyMsg{
		Viewer:  viewerID,
		Entropy: bytes.Repeat([]byte("b"), 20),
	})
	require.NoError(t, err)

	// Any party presenting the key for the right viewer receives the payload.
	box, err := g.Query(ctx, s, interfaces.GetStrongboxMsg{Behalf: viewerID, Key: resp.Key})
	require.NoError(t, err)
	assert.Equal(t, "top secret", box.Strongbox)

	// The same key under a different claimed viewer does not.
	_, err = g.Query(ctx, s, interfaces.GetStrongboxMsg{Behalf: mallory, Key: resp.Key})
	assert.ErrorIs(t, err, interfaces.ErrViewingKeyMismatch)
}

func TestQuery_RevokedKeyFails(t *testing.T) {
	g, s := instantiated(t)
	ctx := context.Background()

	resp, err := g.Execute(ctx, s, ownerID, interfaces.CreateViewingKeyMsg{
		Viewer:  viewerID,
		Entropy: bytes.Repeat([]byte("b"), 20),
	})
	require.NoError(t, err)

	_, err = g.Execute(ctx, s, ownerID, interfaces.RevokeViewingKeyMsg{Viewer: viewerID})
	require.NoError(t, err)

	_, err = g.Query(ctx, s, interfaces.GetStrongboxMsg{Behalf: viewerID, Key: resp.Key})
	assert.ErrorIs(t, err, interfaces.ErrViewingKeyMismatch)
}

func TestQuery_ReissueInvalidatesPriorKey(t *testing.T) {
	g, s := instantiated(t)
	ctx := context.Background()

	first, err := g.Execute(ctx, s, ownerID, interfaces.CreateViewingKeyMsg{
		Viewer:  viewerID,
		Entropy: bytes.Repeat([]byte("b"), 20),
	})
	require.NoError(t, err)

	second, err := g.Execute(ctx, s, ownerID, interfaces.CreateViewingKeyMsg{
		Viewer:  viewerID,
		Entropy: bytes.Repeat([]byte("c"), 20),
	})
	require.NoError(t, err)

	_, err = g.Query(ctx, s, interfaces.GetStrongboxMsg{Behalf: viewerID, Key: first.Key})
	assert.ErrorIs(t, err, interfaces.ErrViewingKeyMismatch)

	_, err = g.Query(ctx, s, interfaces.GetStrongboxMsg{Behalf: viewerID, Key: second.Key})
	assert.NoError(t, err)
}

func TestExecute_TransferOwnership(t *testing.T) {
	g, s := instantiated(t)
	ctx := context.Background()
	entropy := bytes.Repeat([]byte("b"), 20)

	resp, err := g.Execute(ctx, s, ownerID, interfaces.CreateViewingKeyMsg{Viewer: viewerID, Entropy: entropy})
	require.NoError(t, err)

	_, err = g.Execute(ctx, s, ownerID, interfaces.TransferOwnershipMsg{NewOwner: mallory})
	require.NoError(t, err)

	// The original owner loses every owner-gated capability.
	_, err = g.Execute(ctx, s, ownerID, interfaces.UpdateStrongboxMsg{Strongbox: []byte("x")})
	assert.ErrorIs(t, err, interfaces.ErrUnauthorized)
	_, err = g.Execute(ctx, s, ownerID, interfaces.TransferOwnershipMsg{NewOwner: ownerID})
	assert.ErrorIs(t, err, interfaces.ErrUnauthorized)

	// The new owner gains them.
	_, err = g.Execute(ctx, s, mallory, interfaces.UpdateStrongboxMsg{Strongbox: []byte("handover")})
	require.NoError(t, err)

	// Existing viewing keys survive the transfer.
	box, err := g.Query(ctx, s, interfaces.GetStrongboxMsg{Behalf: viewerID, Key: resp.Key})
	require.NoError(t, err)
	assert.Equal(t, "handover", box.Strongbox)
}

func TestExecute_EntropyGuard(t *testing.T) {
	g, s := instantiated(t)

	_, err := g.Execute(context.Background(), s, ownerID, interfaces.CreateViewingKeyMsg{
		Viewer:  viewerID,
		Entropy: bytes.Repeat([]byte("b"), 19),
	})
	assert.ErrorIs(t, err, interfaces.ErrInsufficientEntropy)
}

// Full lifecycle: instantiate, update, issue, read, revoke, read again.
func TestScenario_Lifecycle(t *testing.T) {
	g := New(testLogger())
	s := store.NewMemoryStore(testLogger())
	ctx := context.Background()

	require.NoError(t, g.Instantiate(ctx, s, ownerID, bytes.Repeat([]byte("a"), 32)))

	_, err := g.Execute(ctx, s, ownerID, interfaces.UpdateStrongboxMsg{Strongbox: []byte("hello")})
	require.NoError(t, err)

	resp, err := g.Execute(ctx, s, ownerID, interfaces.CreateViewingKeyMsg{
		Viewer:  viewerID,
		Entropy: bytes.Repeat([]byte("b"), 20),
	})
	require.NoError(t, err)

	box, err := g.Query(ctx, s, interfaces.GetStrongboxMsg{Behalf: viewerID, Key: resp.Key})
	require.NoError(t, err)
	assert.Equal(t, "hello", box.Strongbox)

	_, err = g.Execute(ctx, s, ownerID, interfaces.RevokeViewingKeyMsg{Viewer: viewerID})
	require.NoError(t, err)

	_, err = g.Query(ctx, s, interfaces.GetStrongboxMsg{Behalf: viewerID, Key: resp.Key})
	assert.ErrorIs(t, err, interfaces.ErrViewingKeyMismatch)
}
