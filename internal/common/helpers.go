package common

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	SOLDecimals = 9 // SOL has 9 decimals (lamports)

	explorerBaseURL = "https://explorer.solana.com"
	mainnetNetwork  = "mainnet-beta"
)

// LamportsToSOL converts lamports to SOL string without float precision loss
func LamportsToSOL(lamports uint64) string {
	return formatWithDecimals(lamports, SOLDecimals)
}

// LamportsToSOLFloat converts lamports to SOL for JSON number fields.
// Use only for display; keep lamports for anything that is compared or summed.
func LamportsToSOLFloat(lamports uint64) float64 {
	f, _ := strconv.ParseFloat(LamportsToSOL(lamports), 64)
	return f
}

// ExplorerTxURL returns the explorer link for a transaction signature.
// Non-mainnet networks get a cluster query parameter.
func ExplorerTxURL(network, signature string) string {
	return explorerURL(network, "tx", signature)
}

// ExplorerAddressURL returns the explorer link for an account address.
func ExplorerAddressURL(network, address string) string {
	return explorerURL(network, "address", address)
}

func explorerURL(network, kind, id string) string {
	u := fmt.Sprintf("%s/%s/%s", explorerBaseURL, kind, id)
	network = strings.TrimSpace(network)
	if network == "" || network == mainnetNetwork {
		return u
	}
	return u + "?cluster=" + network
}

// MaskShort shortens an address or signature for log lines: "AbCd***WxYz".
func MaskShort(s string) string {
	t := strings.TrimSpace(s)
	if len(t) <= 10 {
		return t
	}
	return t[:4] + "***" + t[len(t)-4:]
}

// formatWithDecimals converts integer to decimal string by inserting decimal point
// Example: formatWithDecimals(24981836, 9) = "0.024981836"
func formatWithDecimals(value uint64, decimals int) string {
	s := strconv.FormatUint(value, 10)

	// Pad with leading zeros if needed
	for len(s) <= decimals {
		s = "0" + s
	}

	pos := len(s) - decimals
	return s[:pos] + "." + s[pos:]
}
