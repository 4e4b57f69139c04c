// Package interfaces defines the core interfaces and types for the strongbox
// service. It provides the contract between different components without
// implementation details.
package interfaces

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	gethcommon "github.com/ethereum/go-ethereum/common"
)

// Identity represents a caller or viewer address.
type Identity [20]byte

// NewIdentityFromBytes creates an identity from a 20-byte slice.
func NewIdentityFromBytes(addr []byte) (Identity, error) {
	if len(addr) != 20 {
		return Identity{}, errors.New("invalid identity length: must be 20 bytes")
	}

	var res Identity
	copy(res[:], addr)
	return res, nil
}

// NewIdentityFromHex creates an identity from a hex string, with or without
// the 0x prefix.
func NewIdentityFromHex(addr string) (Identity, error) {
	if !gethcommon.IsHexAddress(addr) {
		return Identity{}, fmt.Errorf("invalid identity format: %s", addr)
	}

	return Identity(gethcommon.HexToAddress(addr)), nil
}

// String returns the hex string representation of the identity.
func (id Identity) String() string {
	return hex.EncodeToString(id[:])
}

// Bytes returns the raw 20-byte identity.
func (id Identity) Bytes() []byte {
	return id[:]
}

// Equal compares two identities.
func (id Identity) Equal(other Identity) bool {
	return id == other
}

// IsZero reports whether the identity is the zero value.
func (id Identity) IsZero() bool {
	return id == Identity{}
}

// ViewingKeyDigestSize is the length of a stored viewing key digest.
const ViewingKeyDigestSize = sha256.Size

// ViewingKey is a raw capability token granting read access to the strongbox
// on behalf of a designated viewer. Only its digest is ever persisted; the
// raw key exists in the issuance response and nowhere else on the server
// side. It must never be logged.
type ViewingKey string

// Bytes returns the raw key bytes.
func (k ViewingKey) Bytes() []byte {
	return []byte(k)
}

// Digest returns the SHA-256 digest stored in place of the raw key.
func (k ViewingKey) Digest() []byte {
	sum := sha256.Sum256([]byte(k))
	return sum[:]
}

// MatchesDigest compares the key's digest against a stored digest in
// constant time. The comparison runs over fixed-length digests without an
// early exit so its duration does not depend on the position of the first
// mismatching byte.
func (k ViewingKey) MatchesDigest(digest []byte) bool {
	sum := sha256.Sum256([]byte(k))
	return subtle.ConstantTimeCompare(sum[:], digest) == 1
}

// ViewingKeyRecord is the persisted state for one viewer: the digest of the
// most recently issued key and the issuance counter that domain-separates
// successive derivations for the same viewer.
type ViewingKeyRecord struct {
	Digest  []byte `json:"digest"`
	Counter uint64 `json:"counter"`
}

// StateKey identifies one entry in the state store. Component packages own
// their key layout; the helpers here only keep the encoding consistent.
type StateKey = string

// ViewerStateKey returns the state key for a viewer's key record under the
// given namespace prefix.
func ViewerStateKey(prefix string, viewer Identity) StateKey {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + viewer.String()
}
