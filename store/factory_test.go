package store

import (
	"context"
	"testing"

	"github.com/jwtradera/scrt-strongbox/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactory_MemoryStore(t *testing.T) {
	factory := NewFactory(testLogger())

	loc, err := interfaces.NewStateLocation("mem://local")
	require.NoError(t, err)

	s, err := factory.StoreFor(loc)
	require.NoError(t, err)
	assert.Equal(t, "memory", s.Name())
}

func TestFactory_FileStore(t *testing.T) {
	factory := NewFactory(testLogger())
	tempDir := t.TempDir()

	loc, err := interfaces.NewStateLocation("file://" + tempDir)
	require.NoError(t, err)

	s, err := factory.StoreFor(loc)
	require.NoError(t, err)
	assert.True(t, s.Available(context.Background()))

	require.NoError(t, s.Set(context.Background(), "owner", []byte("alice")))
	value, err := s.Get(context.Background(), "owner")
	require.NoError(t, err)
	assert.Equal(t, []byte("alice"), value)
}

func TestFactory_VaultStoreURIValidation(t *testing.T) {
	factory := NewFactory(testLogger())

	// Missing the data path segment after the mount.
	loc, err := interfaces.NewStateLocation("vault://vault.example.com:8200/secret")
	require.NoError(t, err)

	_, err = factory.StoreFor(loc)
	assert.ErrorIs(t, err, interfaces.ErrInvalidStateURI)

	loc, err = interfaces.NewStateLocation("vault://vault.example.com:8200/secret/strongbox?token=abc")
	require.NoError(t, err)

	s, err := factory.StoreFor(loc)
	require.NoError(t, err)
	assert.Equal(t, "vault-strongbox", s.Name())
}

func TestFactory_S3StoreURIValidation(t *testing.T) {
	factory := NewFactory(testLogger())

	loc, err := interfaces.NewStateLocation("s3:///missing-bucket-name")
	require.NoError(t, err)

	_, err = factory.StoreFor(loc)
	assert.ErrorIs(t, err, interfaces.ErrInvalidStateURI)

	loc, err = interfaces.NewStateLocation("s3://my-bucket/strongbox/?region=eu-west-1")
	require.NoError(t, err)

	s, err := factory.StoreFor(loc)
	require.NoError(t, err)
	assert.Equal(t, "s3-my-bucket", s.Name())
}

func TestStateLocation_UnsupportedScheme(t *testing.T) {
	_, err := interfaces.NewStateLocation("ftp://example.com/state")
	assert.ErrorIs(t, err, interfaces.ErrInvalidStateURI)
}
