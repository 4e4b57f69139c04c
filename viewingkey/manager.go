package viewingkey

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/crypto/hkdf"

	"github.com/jwtradera/scrt-strongbox/interfaces"
)

const (
	// seedStateKey holds the SHA-256 digest of the instantiation seed. The
	// raw seed is never persisted.
	seedStateKey = "seed"

	// entropyLedgerStateKey holds the digests of every entropy value
	// already used for issuance on this instance.
	entropyLedgerStateKey = "entropy_hashes"

	// viewerKeyPrefix is the namespace for per-viewer key records.
	viewerKeyPrefix = "viewer_keys"

	// KeyPrefix is prepended to every issued viewing key string.
	KeyPrefix = "strongbox_key_"

	// derivedKeySize is the length of the derived key material in bytes.
	derivedKeySize = 32
)

// Manager issues, verifies, and revokes viewing keys. It holds no state of
// its own; every operation takes the state store handle.
type Manager struct {
	log *slog.Logger
}

// New creates a viewing key manager.
func New(log *slog.Logger) *Manager {
	return &Manager{log: log}
}

// Seed installs the key-derivation seed at instantiation time. The seed
// must carry at least interfaces.MinSeedLen bytes; only its SHA-256 digest
// is persisted.
func (m *Manager) Seed(ctx context.Context, store interfaces.StateStore, seed []byte) error {
	if len(seed) < interfaces.MinSeedLen {
		return interfaces.ErrInsufficientSeed
	}

	digest := sha256.Sum256(seed)
	if err := store.Set(ctx, seedStateKey, digest[:]); err != nil {
		return fmt.Errorf("failed to persist seed digest: %w", err)
	}

	return nil
}

// Issue derives a fresh viewing key for the viewer and stores its digest.
// The raw key is returned to the caller and exists nowhere else afterward:
// it is never logged and never persisted.
//
// The key is derived with HKDF-SHA256 from the instance seed, the
// caller-supplied entropy, the viewer identity, and a per-viewer issuance
// counter that domain-separates successive issuances. Re-issuing for the
// same viewer overwrites the stored digest, invalidating the prior key.
//
// Entropy must carry at least interfaces.MinEntropyLen bytes and must not
// have been used for a previous issuance on this instance. All validation
// happens before any state write.
func (m *Manager) Issue(ctx context.Context, store interfaces.StateStore, viewer interfaces.Identity, entropy []byte) (interfaces.ViewingKey, error) {
	if len(entropy) < interfaces.MinEntropyLen {
		return "", interfaces.ErrInsufficientEntropy
	}

	seed, err := store.Get(ctx, seedStateKey)
	if errors.Is(err, interfaces.ErrKeyNotFound) {
		return "", interfaces.ErrUninitializedState
	}
	if err != nil {
		return "", fmt.Errorf("failed to read seed digest: %w", err)
	}

	ledger, err := m.readEntropyLedger(ctx, store)
	if err != nil {
		return "", err
	}

	entropyDigest := sha256.Sum256(entropy)
	for _, used := range ledger {
		if bytes.Equal(used, entropyDigest[:]) {
			return "", interfaces.ErrEntropyReuse
		}
	}

	record, err := m.readRecord(ctx, store, viewer)
	if err != nil && !errors.Is(err, interfaces.ErrKeyNotFound) {
		return "", err
	}
	counter := record.Counter + 1

	key, err := deriveKey(seed, entropy, viewer, counter)
	if err != nil {
		return "", err
	}

	updated := interfaces.ViewingKeyRecord{
		Digest:  key.Digest(),
		Counter: counter,
	}
	if err := m.writeRecord(ctx, store, viewer, updated); err != nil {
		return "", err
	}

	ledger = append(ledger, entropyDigest[:])
	if err := m.writeEntropyLedger(ctx, store, ledger); err != nil {
		return "", err
	}

	m.log.Debug("Viewing key issued",
		slog.String("viewer", viewer.String()),
		slog.Uint64("counter", counter))

	return key, nil
}

// Verify compares the presented key against the stored digest for the
// viewer. It is side-effect free and repeatable: no counter mutation, no
// store writes. Returns false, not an error, if no record exists for the
// viewer; in that case a dummy comparison still runs so record presence
// cannot be timed.
func (m *Manager) Verify(ctx context.Context, store interfaces.StateStore, viewer interfaces.Identity, presented interfaces.ViewingKey) (bool, error) {
	record, err := m.readRecord(ctx, store, viewer)
	if errors.Is(err, interfaces.ErrKeyNotFound) {
		presented.MatchesDigest(make([]byte, interfaces.ViewingKeyDigestSize))
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return presented.MatchesDigest(record.Digest), nil
}

// Revoke deletes the viewer's key record if present. Revoking a viewer
// without a record is a no-op, not an error.
func (m *Manager) Revoke(ctx context.Context, store interfaces.StateStore, viewer interfaces.Identity) error {
	if err := store.Delete(ctx, interfaces.ViewerStateKey(viewerKeyPrefix, viewer)); err != nil {
		return fmt.Errorf("failed to delete viewing key record: %w", err)
	}

	m.log.Debug("Viewing key revoked", slog.String("viewer", viewer.String()))
	return nil
}

// deriveKey runs HKDF-SHA256 over the seed digest with the entropy as salt
// and the viewer identity plus issuance counter as domain-separation info.
func deriveKey(seed, entropy []byte, viewer interfaces.Identity, counter uint64) (interfaces.ViewingKey, error) {
	info := make([]byte, 0, len(viewer)+8)
	info = append(info, viewer.Bytes()...)
	info = binary.BigEndian.AppendUint64(info, counter)

	raw := make([]byte, derivedKeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, seed, entropy, info), raw); err != nil {
		return "", fmt.Errorf("key derivation failed: %w", err)
	}

	return interfaces.ViewingKey(KeyPrefix + base64.StdEncoding.EncodeToString(raw)), nil
}

func (m *Manager) readRecord(ctx context.Context, store interfaces.StateStore, viewer interfaces.Identity) (interfaces.ViewingKeyRecord, error) {
	raw, err := store.Get(ctx, interfaces.ViewerStateKey(viewerKeyPrefix, viewer))
	if err != nil {
		return interfaces.ViewingKeyRecord{}, err
	}

	var record interfaces.ViewingKeyRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return interfaces.ViewingKeyRecord{}, fmt.Errorf("corrupt viewing key record: %w", err)
	}

	return record, nil
}

func (m *Manager) writeRecord(ctx context.Context, store interfaces.StateStore, viewer interfaces.Identity, record interfaces.ViewingKeyRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode viewing key record: %w", err)
	}

	if err := store.Set(ctx, interfaces.ViewerStateKey(viewerKeyPrefix, viewer), raw); err != nil {
		return fmt.Errorf("failed to write viewing key record: %w", err)
	}

	return nil
}

func (m *Manager) readEntropyLedger(ctx context.Context, store interfaces.StateStore) ([][]byte, error) {
	raw, err := store.Get(ctx, entropyLedgerStateKey)
	if errors.Is(err, interfaces.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read entropy ledger: %w", err)
	}

	var ledger [][]byte
	if err := json.Unmarshal(raw, &ledger); err != nil {
		return nil, fmt.Errorf("corrupt entropy ledger: %w", err)
	}

	return ledger, nil
}

func (m *Manager) writeEntropyLedger(ctx context.Context, store interfaces.StateStore, ledger [][]byte) error {
	raw, err := json.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("failed to encode entropy ledger: %w", err)
	}

	if err := store.Set(ctx, entropyLedgerStateKey, raw); err != nil {
		return fmt.Errorf("failed to write entropy ledger: %w", err)
	}

	return nil
}
