/*
Package store provides state store backends behind a URI-based factory.

The strongbox core consumes durable state through the interfaces.StateStore
contract: a mutable mapping from string keys to byte values. This package
supplies the adapters:

  - In-memory storage for tests and throwaway deployments
  - File system storage for local development and single-node setups
  - HashiCorp Vault KV v2 for deployments that already run Vault
  - S3-compatible object storage for cloud deployments

# State URI Format

Backends are specified using URI format:

	[scheme]://[auth@]host[:port][/path][?params]

Supported URI schemes:

  - mem://local
  - file:///var/lib/strongbox/
  - vault://vault.example.com:8200/secret/strongbox?token=...
  - s3://bucket-name/prefix/?region=us-west-2

# Key Layout

Keys are owned by the component packages (owner registry, secret box,
viewing key manager); backends hex-encode keys so namespace separators stay
flat and safe for filesystems and object stores. Values are opaque to the
backends.
*/
package store
