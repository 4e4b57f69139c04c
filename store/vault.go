package store

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hashicorp/vault/api"
	"github.com/jwtradera/scrt-strongbox/interfaces"
)

// VaultStore implements a state store backend using HashiCorp Vault's KV v2
// secrets engine. Each state key maps to one secret path under the
// configured mount, holding the value base64-encoded.
type VaultStore struct {
	client      *api.Client
	mountPath   string
	dataPath    string
	log         *slog.Logger
	locationURI string
}

// NewVaultStore creates a new Vault state store.
//
// Parameters:
//   - address: Vault server address (e.g. https://vault.example.com:8200)
//   - mountPath: KV v2 mount path (e.g. "secret")
//   - dataPath: path within the mount (e.g. "strongbox")
//   - token: Vault token used for authentication
//   - log: structured logger for operational insights
func NewVaultStore(address, mountPath, dataPath, token string, log *slog.Logger) (*VaultStore, error) {
	config := api.DefaultConfig()
	config.Address = address
	config.Timeout = 30 * time.Second

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}

	if token != "" {
		client.SetToken(token)
	}

	mountPath = strings.TrimSuffix(mountPath, "/")
	dataPath = strings.Trim(dataPath, "/")

	return &VaultStore{
		client:      client,
		mountPath:   mountPath,
		dataPath:    dataPath,
		log:         log,
		locationURI: fmt.Sprintf("vault://%s/%s/%s", address, mountPath, dataPath),
	}, nil
}

// Get retrieves the value for a key from Vault.
// Uses the KV v2 API which requires a specific path structure.
func (s *VaultStore) Get(ctx context.Context, key interfaces.StateKey) ([]byte, error) {
	path := s.secretPath("data", key)

	secret, err := s.client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		s.log.Error("Failed to read from Vault",
			slog.String("path", path),
			"err", err)
		return nil, fmt.Errorf("%w: %v", interfaces.ErrBackendUnavailable, err)
	}

	if secret == nil || secret.Data == nil {
		return nil, interfaces.ErrKeyNotFound
	}

	// KV v2 wraps the payload in a "data" map.
	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid data format in Vault response")
	}

	encoded, ok := data["value"].(string)
	if !ok {
		return nil, fmt.Errorf("value key not found in Vault data")
	}

	value, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid value encoding in Vault data: %w", err)
	}

	return value, nil
}

// Set writes the value for a key to Vault.
func (s *VaultStore) Set(ctx context.Context, key interfaces.StateKey, value []byte) error {
	path := s.secretPath("data", key)

	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"value": base64.StdEncoding.EncodeToString(value),
		},
	}

	if _, err := s.client.Logical().WriteWithContext(ctx, path, payload); err != nil {
		s.log.Error("Failed to write to Vault",
			slog.String("path", path),
			"err", err)
		return fmt.Errorf("%w: %v", interfaces.ErrBackendUnavailable, err)
	}

	return nil
}

// Delete removes a key from Vault. The metadata path is used so all
// versions of the entry are removed, not just the latest.
func (s *VaultStore) Delete(ctx context.Context, key interfaces.StateKey) error {
	path := s.secretPath("metadata", key)

	if _, err := s.client.Logical().DeleteWithContext(ctx, path); err != nil {
		s.log.Error("Failed to delete from Vault",
			slog.String("path", path),
			"err", err)
		return fmt.Errorf("%w: %v", interfaces.ErrBackendUnavailable, err)
	}

	return nil
}

// Available checks if the Vault server is reachable and unsealed.
func (s *VaultStore) Available(ctx context.Context) bool {
	health, err := s.client.Sys().HealthWithContext(ctx)
	if err != nil {
		s.log.Debug("Vault store unavailable", "err", err)
		return false
	}
	return health.Initialized && !health.Sealed
}

// Name returns a unique identifier for this backend.
func (s *VaultStore) Name() string {
	return fmt.Sprintf("vault-%s", s.dataPath)
}

// LocationURI returns the URI that identifies this backend.
func (s *VaultStore) LocationURI() string {
	return s.locationURI
}

// secretPath builds a KV v2 path for the given API segment and state key.
func (s *VaultStore) secretPath(segment string, key interfaces.StateKey) string {
	return fmt.Sprintf("%s/%s/%s/%x", s.mountPath, segment, s.dataPath, key)
}
