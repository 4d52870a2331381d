package model

// MintRequest represents request for POST /api/mint
type MintRequest struct {
	Quantity      *int   `json:"quantity,omitempty"`
	WalletAddress string `json:"walletAddress"`
}

// MintResult is one minted unit. Either field is null when the unit only partially completed.
type MintResult struct {
	MintSignature     *string `json:"mintSignature"`
	MintAddress       *string `json:"mintAddress"`
	TransferSignature *string `json:"transferSignature,omitempty"`
	ExplorerURL       string  `json:"explorerUrl,omitempty"`
}

// MintResponse represents response for POST /api/mint.
// On failure Success is false, Error/Code are set and Results holds the units delivered before it.
type MintResponse struct {
	Success bool         `json:"success"`
	Results []MintResult `json:"results"`
	Error   string       `json:"error,omitempty"`
	Code    ErrorCode    `json:"code,omitempty"`
}
