package model

// TransactionStatus is the confirmation state of a submitted transaction.
type TransactionStatus string

const (
	TransactionStatusUnknown   TransactionStatus = "unknown"
	TransactionStatusProcessed TransactionStatus = "processed"
	TransactionStatusConfirmed TransactionStatus = "confirmed"
	TransactionStatusFinalized TransactionStatus = "finalized"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// TransactionRequestInfo represents response for GET /api/mint/transaction (Solana Pay)
type TransactionRequestInfo struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// TransactionRequest represents request for POST /api/mint/transaction (Solana Pay)
type TransactionRequest struct {
	Account string `json:"account"`
}

// TransactionResponse carries a transaction partially signed by the server.
// The wallet adds the buyer signature and broadcasts it.
type TransactionResponse struct {
	Transaction string `json:"transaction"` // base64 wire format
	Message     string `json:"message,omitempty"`
	MintAddress string `json:"mintAddress"`
}

// TransactionStatusResponse represents response for GET /api/transactions/{signature}
type TransactionStatusResponse struct {
	Signature   string            `json:"signature"`
	Status      TransactionStatus `json:"status"`
	Slot        uint64            `json:"slot,omitempty"`
	Error       string            `json:"error,omitempty"`
	ExplorerURL string            `json:"explorerUrl"`
}
