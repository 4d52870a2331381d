package model

// BalanceResponse represents response for GET /api/wallets/{address}/balance
type BalanceResponse struct {
	Address  string `json:"address"`
	Lamports uint64 `json:"lamports"`
	SOL      string `json:"sol"`
}
