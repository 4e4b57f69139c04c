package interfaces

import "errors"

// Domain errors surfaced by the access control gate and its components.
// Every error is terminal for the current request: no partial state is
// committed and no retries happen inside the core.
var (
	// ErrUnauthorized is returned when the caller is not the current owner
	// for an owner-gated operation.
	ErrUnauthorized = errors.New("caller is not the owner")

	// ErrViewingKeyMismatch is returned when the presented key's digest does
	// not match the stored digest for the claimed viewer, or when no record
	// exists for that viewer. Both cases return the same error so callers
	// cannot enumerate which viewers hold live keys.
	ErrViewingKeyMismatch = errors.New("viewing key does not match")

	// ErrInsufficientEntropy is returned when key issuance is given fewer
	// than MinEntropyLen bytes of caller-supplied randomness.
	ErrInsufficientEntropy = errors.New("insufficient entropy for key issuance")

	// ErrInsufficientSeed is returned when instantiation is given fewer than
	// MinSeedLen bytes of seed material.
	ErrInsufficientSeed = errors.New("insufficient instantiation seed")

	// ErrEntropyReuse is returned when key issuance is given entropy that
	// was already used for a previous issuance on this instance.
	ErrEntropyReuse = errors.New("entropy already used")

	// ErrNotInitialized is returned when the strongbox is read before it was
	// ever written. Unreachable under correct instantiation.
	ErrNotInitialized = errors.New("strongbox not initialized")

	// ErrUninitializedState is returned when a component reads state that
	// instantiation should have created. Indicates a platform-level ordering
	// bug, not a user error.
	ErrUninitializedState = errors.New("state not instantiated")

	// ErrAlreadyInitialized is returned on a repeated instantiation attempt.
	// The core defines instantiation as a first-call-only operation; the
	// HTTP transport makes replaying it trivial, so the gate guards it.
	ErrAlreadyInitialized = errors.New("already instantiated")
)

// Minimum lengths enforced by the viewing key manager.
const (
	// MinSeedLen is the minimum instantiation seed length in bytes.
	MinSeedLen = 32

	// MinEntropyLen is the minimum caller-supplied entropy length in bytes
	// for key issuance.
	MinEntropyLen = 20
)
