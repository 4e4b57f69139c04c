package gate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jwtradera/scrt-strongbox/interfaces"
	"github.com/jwtradera/scrt-strongbox/registry"
	"github.com/jwtradera/scrt-strongbox/strongbox"
	"github.com/jwtradera/scrt-strongbox/viewingkey"
)

// Gate is the stateless entry-point dispatcher. Every request carries an
// explicit caller identity supplied by the surrounding platform; the gate
// resolves the required role for the operation, enforces it, and only then
// invokes the underlying component. All validation happens before any state
// mutation, so a failed request leaves no observable write behind.
type Gate struct {
	registry *registry.Registry
	box      *strongbox.Box
	keys     *viewingkey.Manager
	log      *slog.Logger
}

// New creates an access control gate.
func New(log *slog.Logger) *Gate {
	return &Gate{
		registry: registry.New(log),
		box:      strongbox.New(log),
		keys:     viewingkey.New(log),
		log:      log,
	}
}

// Instantiate initializes the instance: the caller becomes the owner, the
// viewing key manager is seeded, and the strongbox is set to an empty
// payload. Anyone may instantiate, but only once; a repeat attempt fails
// with ErrAlreadyInitialized and leaves state untouched.
func (g *Gate) Instantiate(ctx context.Context, store interfaces.StateStore, caller interfaces.Identity, seed []byte) error {
	if len(seed) < interfaces.MinSeedLen {
		return interfaces.ErrInsufficientSeed
	}

	_, err := g.registry.GetOwner(ctx, store)
	if err == nil {
		return interfaces.ErrAlreadyInitialized
	}
	if !errors.Is(err, interfaces.ErrUninitializedState) {
		return err
	}

	if err := g.registry.SetOwner(ctx, store, caller); err != nil {
		return err
	}
	if err := g.keys.Seed(ctx, store, seed); err != nil {
		return err
	}
	if err := g.box.Write(ctx, store, []byte{}); err != nil {
		return err
	}

	g.log.Info("Strongbox instantiated", slog.String("owner", caller.String()))
	return nil
}

// Execute dispatches a state-changing operation. Every ExecuteMsg variant
// is owner-gated: the caller is compared to the current owner by exact
// equality before the underlying component is touched.
func (g *Gate) Execute(ctx context.Context, store interfaces.StateStore, caller interfaces.Identity, msg interfaces.ExecuteMsg) (*interfaces.ExecuteResponse, error) {
	owner, err := g.registry.GetOwner(ctx, store)
	if err != nil {
		return nil, err
	}

	if !caller.Equal(owner) {
		g.log.Debug("Rejected execute from non-owner", slog.String("caller", caller.String()))
		return nil, interfaces.ErrUnauthorized
	}

	switch m := msg.(type) {
	case interfaces.UpdateStrongboxMsg:
		if err := g.box.Write(ctx, store, m.Strongbox); err != nil {
			return nil, err
		}
		return &interfaces.ExecuteResponse{}, nil

	case interfaces.CreateViewingKeyMsg:
		// Padding is deliberately ignored; it only lets callers normalize
		// request sizes.
		key, err := g.keys.Issue(ctx, store, m.Viewer, m.Entropy)
		if err != nil {
			return nil, err
		}
		return &interfaces.ExecuteResponse{Key: key}, nil

	case interfaces.TransferOwnershipMsg:
		if err := g.registry.SetOwner(ctx, store, m.NewOwner); err != nil {
			return nil, err
		}
		g.log.Info("Ownership transferred",
			slog.String("from", owner.String()),
			slog.String("to", m.NewOwner.String()))
		return &interfaces.ExecuteResponse{}, nil

	case interfaces.RevokeViewingKeyMsg:
		if err := g.keys.Revoke(ctx, store, m.Viewer); err != nil {
			return nil, err
		}
		return &interfaces.ExecuteResponse{}, nil

	default:
		// The message set is closed; reaching this arm means a variant was
		// added without a matching case here.
		return nil, fmt.Errorf("unhandled execute message %T", msg)
	}
}

// Query dispatches a read-only operation. GetStrongbox succeeds only for a
// caller presenting a live viewing key for the claimed viewer; a missing
// record and a mismatching key are indistinguishable to the caller.
func (g *Gate) Query(ctx context.Context, store interfaces.StateStore, msg interfaces.QueryMsg) (*interfaces.StrongboxResponse, error) {
	switch m := msg.(type) {
	case interfaces.GetStrongboxMsg:
		ok, err := g.keys.Verify(ctx, store, m.Behalf, m.Key)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, interfaces.ErrViewingKeyMismatch
		}

		content, err := g.box.Read(ctx, store)
		if err != nil {
			return nil, err
		}
		return &interfaces.StrongboxResponse{Strongbox: string(content)}, nil

	default:
		return nil, fmt.Errorf("unhandled query message %T", msg)
	}
}
