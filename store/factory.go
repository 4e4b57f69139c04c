package store

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/jwtradera/scrt-strongbox/interfaces"
)

// Factory creates state store backends from location URIs.
type Factory struct {
	log *slog.Logger
}

// NewFactory creates a new factory instance.
func NewFactory(log *slog.Logger) *Factory {
	return &Factory{log: log}
}

// StoreFor creates a state store backend from a location URI.
// The URI format should be [scheme]://[auth@]host[:port][/path][?params]
//
// Supported schemes:
//   - mem:// - In-memory storage, lost on restart
//   - file:// - Local filesystem storage
//   - vault:// - HashiCorp Vault KV v2 secrets engine
//   - s3:// - Amazon S3 or compatible object storage
//
// Returns an error if the URI is invalid or the scheme is unsupported.
func (f *Factory) StoreFor(location interfaces.StateLocation) (interfaces.StateStore, error) {
	switch strings.ToLower(location.Scheme) {
	case "mem":
		return NewMemoryStore(f.log), nil
	case "file":
		return f.createFileStore(location)
	case "vault":
		return f.createVaultStore(location)
	case "s3":
		return f.createS3Store(location)
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", interfaces.ErrInvalidStateURI, location.Scheme)
	}
}

// createFileStore creates a file system state store.
// URI format: file:///var/lib/strongbox/ or file://./relative/path/
func (f *Factory) createFileStore(location interfaces.StateLocation) (interfaces.StateStore, error) {
	f.log.Debug("Creating file state store", slog.String("uri", location.String()))

	path := location.Path
	if location.Host != "" {
		path = location.Host + "/" + strings.TrimPrefix(path, "/")
	}

	if path == "" {
		return nil, fmt.Errorf("%w: empty path in file URI %q", interfaces.ErrInvalidStateURI, location.String())
	}

	return NewFileStore(path, f.log)
}

// createVaultStore creates a Vault KV v2 state store.
// URI format: vault://host:port/mount/path?token=...&scheme=https
func (f *Factory) createVaultStore(location interfaces.StateLocation) (interfaces.StateStore, error) {
	f.log.Debug("Creating Vault state store", slog.String("uri", location.String()))

	scheme := location.GetParam("scheme")
	if scheme == "" {
		scheme = "https"
	}
	address := fmt.Sprintf("%s://%s", scheme, location.Host)

	parts := strings.SplitN(strings.Trim(location.Path, "/"), "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("%w: vault URI requires /mount/path, got %q", interfaces.ErrInvalidStateURI, location.Path)
	}

	token := location.GetParam("token")
	if token == "" {
		// Fall back to userinfo for operators who prefer vault://token@host.
		token = location.Auth
	}

	return NewVaultStore(address, parts[0], parts[1], token, f.log)
}

// createS3Store creates an S3 state store.
// URI format: s3://[ACCESS_KEY:SECRET_KEY@]bucket/prefix/?region=us-west-2&endpoint=custom.s3.com
func (f *Factory) createS3Store(location interfaces.StateLocation) (interfaces.StateStore, error) {
	f.log.Debug("Creating S3 state store", slog.String("uri", location.String()))

	bucketName := location.Host
	if bucketName == "" {
		return nil, fmt.Errorf("%w: s3 URI requires a bucket name", interfaces.ErrInvalidStateURI)
	}

	prefix := strings.Trim(location.Path, "/")

	region := location.GetParam("region")
	if region == "" {
		region = "us-east-1"
	}
	endpoint := location.GetParam("endpoint")

	var accessKey, secretKey string
	if auth := location.Auth; auth != "" {
		if idx := strings.IndexByte(auth, ':'); idx >= 0 {
			accessKey = auth[:idx]
			secretKey = auth[idx+1:]
		}
	}

	return NewS3Store(bucketName, prefix, region, endpoint, accessKey, secretKey, f.log)
}
