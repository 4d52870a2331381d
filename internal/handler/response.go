package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AlexZinkM/pack-mint/internal/journal"
	"github.com/AlexZinkM/pack-mint/internal/model"
	"github.com/AlexZinkM/pack-mint/solana"
)

type apiError struct {
	status  int
	code    model.ErrorCode
	message string
}

// errorTable maps service sentinels to what clients see. Order matters for wrapped chains.
var errorTable = []struct {
	err error
	apiError
}{
	{solana.ErrInvalidAddress, apiError{http.StatusBadRequest, model.ErrorCodeInvalidRequest, "Invalid walletAddress"}},
	{solana.ErrInvalidQuantity, apiError{http.StatusBadRequest, model.ErrorCodeInvalidRequest, "Invalid quantity"}},
	{solana.ErrInvalidSignature, apiError{http.StatusBadRequest, model.ErrorCodeInvalidRequest, "Invalid transaction signature"}},
	{solana.ErrSoldOut, apiError{http.StatusConflict, model.ErrorCodeSoldOut, "Candy machine is sold out"}},
	{solana.ErrSaleNotStarted, apiError{http.StatusConflict, model.ErrorCodeSaleNotStarted, "Sale has not started"}},
	{solana.ErrSaleEnded, apiError{http.StatusConflict, model.ErrorCodeSaleEnded, "Sale has ended"}},
	{journal.ErrInFlight, apiError{http.StatusConflict, model.ErrorCodeRequestInProgress, "A request with this Idempotency-Key is in progress"}},
	{journal.ErrLeaseLost, apiError{http.StatusConflict, model.ErrorCodeRequestInProgress, "A request with this Idempotency-Key is in progress"}},
	{journal.ErrKeyMismatch, apiError{http.StatusUnprocessableEntity, model.ErrorCodeIdempotencyKeyReused, "Idempotency-Key was used with different parameters"}},
	{solana.ErrPayNotConfigured, apiError{http.StatusNotFound, model.ErrorCodeNotFound, "Solana Pay is not configured"}},
	{solana.ErrMachineUnavailable, apiError{http.StatusInternalServerError, model.ErrorCodeMachineUnavailable, "Failed to fetch candy machine"}},
	{solana.ErrMintFailed, apiError{http.StatusInternalServerError, model.ErrorCodeMintFailed, "Mint failed"}},
	{solana.ErrTransferFailed, apiError{http.StatusInternalServerError, model.ErrorCodeTransferFailed, "Transfer failed"}},
}

var internalError = apiError{http.StatusInternalServerError, model.ErrorCodeInternal, "Internal server error"}

func errorFor(err error) apiError {
	for _, e := range errorTable {
		if errors.Is(err, e.err) {
			return e.apiError
		}
	}
	return internalError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code model.ErrorCode, message string) {
	writeJSON(w, status, model.ErrorResponse{Error: message, Code: code})
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeError(w, http.StatusMethodNotAllowed, model.ErrorCodeMethodNotAllowed, "Method not allowed. Should be "+allowed)
}
