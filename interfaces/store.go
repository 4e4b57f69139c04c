package interfaces

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

var (
	// ErrKeyNotFound is returned when a state entry does not exist.
	ErrKeyNotFound = errors.New("state key not found")

	// ErrBackendUnavailable is returned when a state store backend is not
	// accessible. This could be due to network issues, authentication
	// failures, or service outages.
	ErrBackendUnavailable = errors.New("state store backend unavailable")

	// ErrInvalidStateURI is returned when a state store location URI is
	// malformed or unsupported.
	ErrInvalidStateURI = errors.New("invalid state store location URI")
)

// StateStore is the durable mapping from string keys to byte values that all
// components read and write through. It is consumed, not built, by the core:
// the gate and its components take a store handle on every call and never
// cache values across calls, since the store is the sole source of truth and
// the hosting process may be restarted between calls.
type StateStore interface {
	// Get retrieves the value for a key. Returns ErrKeyNotFound if the key
	// does not exist.
	Get(ctx context.Context, key StateKey) ([]byte, error)

	// Set writes the value for a key, overwriting any previous value.
	Set(ctx context.Context, key StateKey, value []byte) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key StateKey) error

	// Available checks if the backend is accessible.
	Available(ctx context.Context) bool

	// Name returns an identifier for logging.
	Name() string

	// LocationURI returns the URI identifying this backend.
	LocationURI() string
}

// StateStoreFactory creates state stores from location URIs.
type StateStoreFactory interface {
	// StoreFor creates a backend from a URI.
	// Supports mem://, file://, vault://, s3://
	StoreFor(location StateLocation) (StateStore, error)
}

// StateLocation represents a parsed state store URI.
type StateLocation struct {
	Raw    string     // Original URI
	Scheme string     // Protocol
	Host   string     // Hostname
	Path   string     // Resource path
	Query  url.Values // Query parameters
	Auth   string     // Authentication info
}

// NewStateLocation parses and validates a state store URI.
func NewStateLocation(uri string) (StateLocation, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return StateLocation{}, fmt.Errorf("%w: %v", ErrInvalidStateURI, err)
	}

	switch parsed.Scheme {
	case "mem", "file", "vault", "s3":
		// Valid scheme
	default:
		return StateLocation{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidStateURI, parsed.Scheme)
	}

	var auth string
	if parsed.User != nil {
		auth = parsed.User.String()
	}

	return StateLocation{
		Raw:    uri,
		Scheme: parsed.Scheme,
		Host:   parsed.Host,
		Path:   parsed.Path,
		Query:  parsed.Query(),
		Auth:   auth,
	}, nil
}

// String returns the original URI string.
func (loc StateLocation) String() string {
	return loc.Raw
}

// GetParam returns a query parameter value.
func (loc StateLocation) GetParam(name string) string {
	return loc.Query.Get(name)
}
