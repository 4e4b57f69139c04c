/*
Package viewingkey issues, verifies, and revokes the capability tokens that
grant read access to the strongbox.

# Key Derivation

Keys are derived with HKDF-SHA256 from four inputs: the instance seed
(installed once at instantiation, at least 32 bytes, persisted only as a
SHA-256 digest), at least 20 bytes of caller-supplied entropy, the viewer
identity, and a per-viewer issuance counter. The counter domain-separates
successive issuances for the same viewer, so issuing a new key invalidates
the previous one even without an explicit revoke.

Only the SHA-256 digest of an issued key is stored. The raw key appears in
the issuance response and nowhere else; reconstructing it from the digest is
computationally infeasible.

# Verification

Verification hashes the presented key and compares it to the stored digest
in constant time. A missing record and a mismatching key are handled
identically from the caller's point of view, and a dummy comparison runs
when no record exists so record presence cannot be timed. Verification is
side-effect free.

# Seed Bootstrap

SplitSeed and CombineSeedShares wrap Shamir's Secret Sharing so operators
can distribute the instantiation seed as shares and reconstruct it in
memory at boot, never persisting the raw seed anywhere.
*/
package viewingkey
