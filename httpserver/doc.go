// Package httpserver provides the HTTP API for the strongbox service.
//
// The server exposes two route groups:
//
//   - /api/strongbox/*: owner operations. Each request must carry the
//     caller identity in the X-Strongbox-Caller header, set by the trusted
//     fronting platform.
//   - /api/public/strongbox/{behalf}: payload retrieval. No caller header
//     is needed; the viewing key presented in X-Strongbox-Viewing-Key is
//     the capability.
//
// Endpoints:
//
//	POST   /api/strongbox/instantiate           - initialize, caller becomes owner
//	POST   /api/strongbox/update                - replace the stored payload
//	POST   /api/strongbox/viewing_keys          - issue a viewing key for a viewer
//	DELETE /api/strongbox/viewing_keys/{viewer} - revoke a viewer's key
//	POST   /api/strongbox/transfer              - transfer ownership
//	GET    /api/public/strongbox/{behalf}       - read the payload with a viewing key
//
// Operational endpoints (/livez, /readyz, /drain, /undrain) and optional
// pprof are served alongside the API; Prometheus metrics live on a separate
// listener.
package httpserver
