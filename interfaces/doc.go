/*
Package interfaces defines the shared contracts of the strongbox service.

The service holds one opaque payload (the strongbox) per instance, lets
exactly one owner mutate it, and lets the owner delegate read access to
other identities through revocable viewing keys. This package contains the
pieces every component agrees on:

  - Identity: 20-byte address identifying the owner, callers and viewers.
  - ViewingKey and ViewingKeyRecord: the raw capability token and the
    digest-plus-counter record persisted in its place.
  - StateStore: the abstract durable key/value mapping all components read
    and write through, created from location URIs (mem://, file://,
    vault://, s3://) by a StateStoreFactory.
  - ExecuteMsg and QueryMsg: the closed message variants the access control
    gate dispatches over.
  - The error taxonomy: authorization, validation and defensive errors
    surfaced verbatim to the caller with no detail beyond their category.

Components never cache state across calls; the store is the sole source of
truth and the hosting process may be restarted between calls.
*/
package interfaces
