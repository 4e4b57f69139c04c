package interfaces

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIdentityFromHex(t *testing.T) {
	id, err := NewIdentityFromHex("0x1111111111111111111111111111111111111111")
	require.NoError(t, err)
	assert.Equal(t, "1111111111111111111111111111111111111111", id.String())

	// Prefix is optional
	noPrefix, err := NewIdentityFromHex("1111111111111111111111111111111111111111")
	require.NoError(t, err)
	assert.True(t, id.Equal(noPrefix))

	_, err = NewIdentityFromHex("0x1234")
	assert.Error(t, err)

	_, err = NewIdentityFromHex("not hex at all")
	assert.Error(t, err)
}

func TestNewIdentityFromBytes(t *testing.T) {
	raw := make([]byte, 20)
	raw[0] = 0xab

	id, err := NewIdentityFromBytes(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, id.Bytes())
	assert.False(t, id.IsZero())

	_, err = NewIdentityFromBytes(make([]byte, 19))
	assert.Error(t, err)

	assert.True(t, Identity{}.IsZero())
}

func TestViewingKeyDigest(t *testing.T) {
	key := ViewingKey("strongbox_key_abc")

	digest := key.Digest()
	require.Len(t, digest, ViewingKeyDigestSize)

	assert.True(t, key.MatchesDigest(digest))
	assert.False(t, key.MatchesDigest(make([]byte, ViewingKeyDigestSize)))
	assert.False(t, ViewingKey("strongbox_key_abd").MatchesDigest(digest))
}

func TestViewerStateKey(t *testing.T) {
	viewer, err := NewIdentityFromHex("0x2222222222222222222222222222222222222222")
	require.NoError(t, err)

	key := ViewerStateKey("viewer_keys", viewer)
	assert.Equal(t, "viewer_keys/2222222222222222222222222222222222222222", key)

	// Trailing slash is normalized, not doubled
	assert.Equal(t, key, ViewerStateKey("viewer_keys/", viewer))
}
