// Package registry tracks the single current owner identity of a strongbox
// instance. Exactly one owner exists at all times after instantiation; the
// owner record is replaced by ownership transfer, never removed.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jwtradera/scrt-strongbox/interfaces"
)

// ownerStateKey is the state entry holding the raw 20-byte owner identity.
const ownerStateKey = "owner"

// Registry reads and writes the owner record through the state store. It
// performs no authorization checks of its own; deciding who may change the
// owner is the access control gate's responsibility.
type Registry struct {
	log *slog.Logger
}

// New creates an owner registry.
func New(log *slog.Logger) *Registry {
	return &Registry{log: log}
}

// GetOwner reads the current owner from the state store. Returns
// ErrUninitializedState if no owner record exists, which should not occur
// after instantiation.
func (r *Registry) GetOwner(ctx context.Context, store interfaces.StateStore) (interfaces.Identity, error) {
	raw, err := store.Get(ctx, ownerStateKey)
	if errors.Is(err, interfaces.ErrKeyNotFound) {
		return interfaces.Identity{}, interfaces.ErrUninitializedState
	}
	if err != nil {
		return interfaces.Identity{}, fmt.Errorf("failed to read owner record: %w", err)
	}

	owner, err := interfaces.NewIdentityFromBytes(raw)
	if err != nil {
		return interfaces.Identity{}, fmt.Errorf("corrupt owner record: %w", err)
	}

	return owner, nil
}

// SetOwner unconditionally overwrites the owner record.
func (r *Registry) SetOwner(ctx context.Context, store interfaces.StateStore, newOwner interfaces.Identity) error {
	if err := store.Set(ctx, ownerStateKey, newOwner.Bytes()); err != nil {
		return fmt.Errorf("failed to write owner record: %w", err)
	}

	r.log.Debug("Owner record updated", slog.String("owner", newOwner.String()))
	return nil
}
