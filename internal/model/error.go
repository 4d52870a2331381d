package model

// ErrorCode is the closed set of error codes returned to API clients.
type ErrorCode string

const (
	ErrorCodeInvalidRequest       ErrorCode = "INVALID_REQUEST"
	ErrorCodeUnauthorized         ErrorCode = "UNAUTHORIZED"
	ErrorCodeMethodNotAllowed     ErrorCode = "METHOD_NOT_ALLOWED"
	ErrorCodeNotFound             ErrorCode = "NOT_FOUND"
	ErrorCodeSoldOut              ErrorCode = "SOLD_OUT"
	ErrorCodeSaleNotStarted       ErrorCode = "SALE_NOT_STARTED"
	ErrorCodeSaleEnded            ErrorCode = "SALE_ENDED"
	ErrorCodeRequestInProgress    ErrorCode = "REQUEST_IN_PROGRESS"
	ErrorCodeIdempotencyKeyReused ErrorCode = "IDEMPOTENCY_KEY_REUSED"
	ErrorCodeMachineUnavailable   ErrorCode = "MACHINE_UNAVAILABLE"
	ErrorCodeMintFailed           ErrorCode = "MINT_FAILED"
	ErrorCodeTransferFailed       ErrorCode = "TRANSFER_FAILED"
	ErrorCodeInternal             ErrorCode = "INTERNAL"
)

// ErrorResponse is the consistent JSON structure for all API error responses.
type ErrorResponse struct {
	Error string    `json:"error"`
	Code  ErrorCode `json:"code,omitempty"`
}
