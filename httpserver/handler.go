package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/jwtradera/scrt-strongbox/gate"
	"github.com/jwtradera/scrt-strongbox/interfaces"
)

// Header constants used in HTTP requests.
const (
	// CallerHeader carries the authenticated caller identity as a hex
	// address. It is set by the trusted fronting platform; this service
	// never derives identity from anything the remote peer controls
	// directly.
	CallerHeader = "X-Strongbox-Caller"

	// ViewingKeyHeader carries the presented viewing key on queries. It is
	// a header rather than a URL element so keys never land in access logs.
	ViewingKeyHeader = "X-Strongbox-Viewing-Key"

	// maxBodySize is the maximum allowed request body size (1MB).
	maxBodySize = 1024 * 1024
)

// OperationRecorder counts completed gate operations for metrics.
type OperationRecorder interface {
	RecordOperation(operation, result string)
}

// Handler processes HTTP requests for the strongbox service. It translates
// the wire surface into gate messages and back; all policy lives in the
// gate. Gate calls are serialized under a mutex because the core assumes
// one fully-completed request at a time.
type Handler struct {
	gate    *gate.Gate
	store   interfaces.StateStore
	metrics OperationRecorder
	log     *slog.Logger

	mu sync.Mutex
}

// NewHandler creates an HTTP request handler. metrics may be nil.
func NewHandler(g *gate.Gate, store interfaces.StateStore, metrics OperationRecorder, log *slog.Logger) *Handler {
	return &Handler{
		gate:    g,
		store:   store,
		metrics: metrics,
		log:     log,
	}
}

type instantiateRequest struct {
	Seed string `json:"seed"`
}

type updateRequest struct {
	Strongbox string `json:"strongbox"`
}

type createViewingKeyRequest struct {
	Viewer  string `json:"viewer"`
	Entropy string `json:"entropy"`
	Padding string `json:"padding,omitempty"`
}

type transferRequest struct {
	NewOwner string `json:"new_owner"`
}

// HandleInstantiate initializes the instance with the caller as owner.
//
// URL format: POST /api/strongbox/instantiate
// Request body: {"seed": "<at least 32 bytes>"}
func (h *Handler) HandleInstantiate(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.callerIdentity(w, r)
	if !ok {
		return
	}

	var req instantiateRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	h.mu.Lock()
	err := h.gate.Instantiate(r.Context(), h.store, caller, []byte(req.Seed))
	h.mu.Unlock()
	h.recordOperation("instantiate", err)

	if err != nil {
		h.writeError(w, "instantiate", err)
		return
	}

	h.writeJSON(w, map[string]string{"owner": caller.String()})
}

// HandleUpdateStrongbox replaces the stored payload. Owner only.
//
// URL format: POST /api/strongbox/update
// Request body: {"strongbox": "<payload>"}
func (h *Handler) HandleUpdateStrongbox(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.callerIdentity(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	h.mu.Lock()
	_, err := h.gate.Execute(r.Context(), h.store, caller, interfaces.UpdateStrongboxMsg{
		Strongbox: []byte(req.Strongbox),
	})
	h.mu.Unlock()
	h.recordOperation("update_strongbox", err)

	if err != nil {
		h.writeError(w, "update_strongbox", err)
		return
	}

	h.writeJSON(w, map[string]string{"status": "updated"})
}

// HandleCreateViewingKey issues a viewing key for a viewer. Owner only.
// The raw key is returned once in the response and is not queryable
// afterward; the owner must relay it to the viewer out of band.
//
// URL format: POST /api/strongbox/viewing_keys
// Request body: {"viewer": "<hex address>", "entropy": "<at least 20 bytes>", "padding": "..."}
func (h *Handler) HandleCreateViewingKey(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.callerIdentity(w, r)
	if !ok {
		return
	}

	var req createViewingKeyRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	viewer, err := interfaces.NewIdentityFromHex(req.Viewer)
	if err != nil {
		http.Error(w, "Invalid viewer identity format", http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	resp, err := h.gate.Execute(r.Context(), h.store, caller, interfaces.CreateViewingKeyMsg{
		Viewer:  viewer,
		Entropy: []byte(req.Entropy),
		Padding: req.Padding,
	})
	h.mu.Unlock()
	h.recordOperation("create_viewing_key", err)

	if err != nil {
		h.writeError(w, "create_viewing_key", err)
		return
	}

	h.writeJSON(w, map[string]string{"key": string(resp.Key)})
}

// HandleTransferOwnership replaces the owner identity. Owner only.
//
// URL format: POST /api/strongbox/transfer
// Request body: {"new_owner": "<hex address>"}
func (h *Handler) HandleTransferOwnership(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.callerIdentity(w, r)
	if !ok {
		return
	}

	var req transferRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	newOwner, err := interfaces.NewIdentityFromHex(req.NewOwner)
	if err != nil {
		http.Error(w, "Invalid new owner identity format", http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	_, err = h.gate.Execute(r.Context(), h.store, caller, interfaces.TransferOwnershipMsg{
		NewOwner: newOwner,
	})
	h.mu.Unlock()
	h.recordOperation("transfer_ownership", err)

	if err != nil {
		h.writeError(w, "transfer_ownership", err)
		return
	}

	h.writeJSON(w, map[string]string{"status": "transferred"})
}

// HandleRevokeViewingKey deletes a viewer's key record. Owner only,
// idempotent.
//
// URL format: DELETE /api/strongbox/viewing_keys/{viewer}
func (h *Handler) HandleRevokeViewingKey(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.callerIdentity(w, r)
	if !ok {
		return
	}

	viewer, err := interfaces.NewIdentityFromHex(r.PathValue("viewer"))
	if err != nil {
		http.Error(w, "Invalid viewer identity format", http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	_, err = h.gate.Execute(r.Context(), h.store, caller, interfaces.RevokeViewingKeyMsg{
		Viewer: viewer,
	})
	h.mu.Unlock()
	h.recordOperation("revoke_viewing_key", err)

	if err != nil {
		h.writeError(w, "revoke_viewing_key", err)
		return
	}

	h.writeJSON(w, map[string]string{"status": "revoked"})
}

// HandleGetStrongbox returns the payload to a caller presenting a live
// viewing key for the claimed viewer. No caller header is required: the
// key alone is the capability.
//
// URL format: GET /api/public/strongbox/{behalf}
// Required headers:
//   - X-Strongbox-Viewing-Key: the raw viewing key
func (h *Handler) HandleGetStrongbox(w http.ResponseWriter, r *http.Request) {
	behalf, err := interfaces.NewIdentityFromHex(r.PathValue("behalf"))
	if err != nil {
		http.Error(w, "Invalid viewer identity format", http.StatusBadRequest)
		return
	}

	key := r.Header.Get(ViewingKeyHeader)
	if key == "" {
		http.Error(w, "Missing viewing key header", http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	resp, err := h.gate.Query(r.Context(), h.store, interfaces.GetStrongboxMsg{
		Behalf: behalf,
		Key:    interfaces.ViewingKey(key),
	})
	h.mu.Unlock()
	h.recordOperation("get_strongbox", err)

	if err != nil {
		h.writeError(w, "get_strongbox", err)
		return
	}

	h.writeJSON(w, resp)
}

// callerIdentity resolves the platform-supplied caller identity header.
func (h *Handler) callerIdentity(w http.ResponseWriter, r *http.Request) (interfaces.Identity, bool) {
	raw := r.Header.Get(CallerHeader)
	if raw == "" {
		http.Error(w, "Missing caller identity header", http.StatusBadRequest)
		return interfaces.Identity{}, false
	}

	caller, err := interfaces.NewIdentityFromHex(raw)
	if err != nil {
		http.Error(w, "Invalid caller identity format", http.StatusBadRequest)
		return interfaces.Identity{}, false
	}

	return caller, true
}

// decodeBody decodes a JSON request body with a size cap.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// writeError maps domain errors to HTTP status codes. Domain error text is
// safe to surface verbatim; anything else stays internal.
func (h *Handler) writeError(w http.ResponseWriter, operation string, err error) {
	switch {
	case errors.Is(err, interfaces.ErrUnauthorized),
		errors.Is(err, interfaces.ErrViewingKeyMismatch):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, interfaces.ErrInsufficientSeed),
		errors.Is(err, interfaces.ErrInsufficientEntropy),
		errors.Is(err, interfaces.ErrEntropyReuse):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, interfaces.ErrAlreadyInitialized):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		h.log.Error("Request failed", slog.String("operation", operation), "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error("Failed to encode response", "err", err)
	}
}

func (h *Handler) recordOperation(operation string, err error) {
	if h.metrics == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	h.metrics.RecordOperation(operation, result)
}
