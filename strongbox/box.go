// Package strongbox holds the single opaque payload of an instance. The
// payload is read and written only through the access control gate; its
// confidentiality is guaranteed by the hosting environment, not by this
// package.
package strongbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jwtradera/scrt-strongbox/interfaces"
)

// boxStateKey is the state entry holding the raw payload bytes.
const boxStateKey = "box"

// Box reads and writes the payload through the state store.
type Box struct {
	log *slog.Logger
}

// New creates a secret box.
func New(log *slog.Logger) *Box {
	return &Box{log: log}
}

// Write replaces the stored payload. No validation is performed on the
// content; empty and arbitrarily large values are both legal, subject only
// to host size limits.
func (b *Box) Write(ctx context.Context, store interfaces.StateStore, content []byte) error {
	if err := store.Set(ctx, boxStateKey, content); err != nil {
		return fmt.Errorf("failed to write strongbox: %w", err)
	}

	b.log.Debug("Strongbox updated", slog.Int("size", len(content)))
	return nil
}

// Read returns the full current payload. Returns ErrNotInitialized if the
// box was never written; instantiation sets at least an empty value, so this
// is unreachable under correct instantiation.
func (b *Box) Read(ctx context.Context, store interfaces.StateStore) ([]byte, error) {
	content, err := store.Get(ctx, boxStateKey)
	if errors.Is(err, interfaces.ErrKeyNotFound) {
		return nil, interfaces.ErrNotInitialized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read strongbox: %w", err)
	}

	return content, nil
}
