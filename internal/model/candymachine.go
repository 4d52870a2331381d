package model

// CandyMachineResponse represents response for GET /api/candy-machine.
// Nullable fields are null when the on-chain account does not carry them.
type CandyMachineResponse struct {
	Address       string   `json:"address"`
	Price         *float64 `json:"price"`         // SOL per pack, display only
	PriceLamports *uint64  `json:"priceLamports"` // exact price
	TotalSupply   *uint64  `json:"totalSupply"`
	Minted        *uint64  `json:"minted"`
	Remaining     *uint64  `json:"remaining"`
	PercentMinted float64  `json:"percentMinted"`
	StartTime     *string  `json:"startTime"` // RFC3339
	SoldOut       bool     `json:"soldOut"`
}
