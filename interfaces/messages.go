package interfaces

// ExecuteMsg is the closed set of state-changing operations dispatched by the
// access control gate. Adding an operation means adding a variant here and a
// match arm in the gate, never a runtime type check elsewhere.
type ExecuteMsg interface {
	isExecuteMsg()
}

// UpdateStrongboxMsg replaces the stored payload. Owner only.
type UpdateStrongboxMsg struct {
	Strongbox []byte
}

// CreateViewingKeyMsg issues a viewing key for a viewer. Owner only.
// Padding is an opaque, ignored field reserved to let callers normalize
// request sizes; it takes no part in authorization or derivation.
type CreateViewingKeyMsg struct {
	Viewer  Identity
	Entropy []byte
	Padding string
}

// TransferOwnershipMsg replaces the owner identity. Owner only.
type TransferOwnershipMsg struct {
	NewOwner Identity
}

// RevokeViewingKeyMsg deletes a viewer's key record. Owner only.
type RevokeViewingKeyMsg struct {
	Viewer Identity
}

func (UpdateStrongboxMsg) isExecuteMsg()   {}
func (CreateViewingKeyMsg) isExecuteMsg()  {}
func (TransferOwnershipMsg) isExecuteMsg() {}
func (RevokeViewingKeyMsg) isExecuteMsg()  {}

// QueryMsg is the closed set of read-only operations.
type QueryMsg interface {
	isQueryMsg()
}

// GetStrongboxMsg reads the payload on behalf of a viewer presenting a key.
type GetStrongboxMsg struct {
	Behalf Identity
	Key    ViewingKey
}

func (GetStrongboxMsg) isQueryMsg() {}

// ExecuteResponse carries operation output back to the caller. Key is set
// only for CreateViewingKeyMsg; the raw key is not queryable afterward and
// must be relayed to the viewer out of band.
type ExecuteResponse struct {
	Key ViewingKey `json:"key,omitempty"`
}

// StrongboxResponse is the query response carrying the payload.
type StrongboxResponse struct {
	Strongbox string `json:"strongbox"`
}
