package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/AlexZinkM/pack-mint/internal/middleware"
	"github.com/AlexZinkM/pack-mint/internal/model"
	"github.com/AlexZinkM/pack-mint/solana"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	IdempotencyKeyHeader     = "Idempotency-Key"
	IdempotentReplayedHeader = "Idempotent-Replayed"

	maxBodyBytes = 1 << 16
)

// SolanaHandler serves the mint API.
type SolanaHandler struct {
	svc *solana.Service
	log *logrus.Logger
}

// NewSolanaHandler creates a handler over the mint service.
func NewSolanaHandler(svc *solana.Service, log *logrus.Logger) *SolanaHandler {
	return &SolanaHandler{svc: svc, log: log}
}

// CandyMachine handles GET /api/candy-machine
// @Summary      Get candy machine status
// @Description  Reads price and supply of the configured candy machine
// @Tags         mint
// @Produce      json
// @Success      200  {object}  model.CandyMachineResponse
// @Failure      500  {object}  model.ErrorResponse
// @Router       /api/candy-machine [get]
func (h *SolanaHandler) CandyMachine(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	status, err := h.svc.Status(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// Mint handles POST /api/mint
// @Summary      Mint packs
// @Description  Mints quantity NFTs paid by the server wallet and delivers them to walletAddress.
// @Description  Retrying with the same Idempotency-Key resumes a failed request without minting twice.
// @Tags         mint
// @Accept       json
// @Produce      json
// @Param        X-API-Secret     header    string             false  "API secret"
// @Param        Idempotency-Key  header    string             false  "Idempotency key, generated when absent"
// @Param        request          body      model.MintRequest  true   "Mint request"
// @Success      200              {object}  model.MintResponse
// @Failure      400              {object}  model.ErrorResponse
// @Failure      401              {object}  model.ErrorResponse
// @Failure      409              {object}  model.ErrorResponse
// @Failure      422              {object}  model.ErrorResponse
// @Failure      500              {object}  model.MintResponse
// @Router       /api/mint [post]
func (h *SolanaHandler) Mint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req model.MintRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrorCodeInvalidRequest, "Invalid request body")
		return
	}
	if req.WalletAddress == "" {
		writeError(w, http.StatusBadRequest, model.ErrorCodeInvalidRequest, "Missing walletAddress")
		return
	}

	key := r.Header.Get(IdempotencyKeyHeader)
	if key == "" {
		key = uuid.NewString()
	}
	w.Header().Set(IdempotencyKeyHeader, key)

	out, err := h.svc.Mint(r.Context(), solana.MintInput{
		IdempotencyKey: key,
		WalletAddress:  req.WalletAddress,
		Quantity:       req.Quantity,
	})
	if err != nil {
		if out == nil {
			h.fail(w, r, err)
			return
		}
		// partial progress: report what was delivered alongside the error
		e := h.logError(r, err)
		writeJSON(w, e.status, model.MintResponse{
			Success: false,
			Results: out.Results,
			Error:   e.message,
			Code:    e.code,
		})
		return
	}

	if out.Replayed {
		w.Header().Set(IdempotentReplayedHeader, "true")
	}
	writeJSON(w, http.StatusOK, model.MintResponse{Success: true, Results: out.Results})
}

// TransactionRequest handles GET and POST /api/mint/transaction
// @Summary      Solana Pay transaction request
// @Description  GET returns the label and icon. POST with {account} returns a mint transaction
// @Description  partially signed by the server for the wallet to sign and send.
// @Tags         pay
// @Accept       json
// @Produce      json
// @Param        request  body      model.TransactionRequest  false  "Buyer account (POST)"
// @Success      200      {object}  model.TransactionResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      409      {object}  model.ErrorResponse
// @Router       /api/mint/transaction [post]
func (h *SolanaHandler) TransactionRequest(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.svc.TransactionRequestInfo())
	case http.MethodPost:
		var req model.TransactionRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, model.ErrorCodeInvalidRequest, "Invalid request body")
			return
		}
		resp, err := h.svc.BuildMintTransaction(r.Context(), req.Account)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	default:
		methodNotAllowed(w, http.MethodGet+", "+http.MethodPost)
	}
}

// QRCode handles GET /api/mint/qr
// @Summary      Solana Pay QR code
// @Description  PNG of the solana: link pointing at the transaction request endpoint
// @Tags         pay
// @Produce      png
// @Success      200
// @Failure      404  {object}  model.ErrorResponse
// @Router       /api/mint/qr [get]
func (h *SolanaHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	png, err := h.svc.PayQRCode()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// TransactionStatus handles GET /api/transactions/{signature}
// @Summary      Get transaction status
// @Tags         chain
// @Produce      json
// @Param        signature  path      string  true  "Transaction signature"
// @Success      200        {object}  model.TransactionStatusResponse
// @Failure      400        {object}  model.ErrorResponse
// @Router       /api/transactions/{signature} [get]
func (h *SolanaHandler) TransactionStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	resp, err := h.svc.TransactionStatus(r.Context(), r.PathValue("signature"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Balance handles GET /api/wallets/{address}/balance
// @Summary      Get SOL balance
// @Tags         chain
// @Produce      json
// @Param        address  path      string  true  "Wallet address"
// @Success      200      {object}  model.BalanceResponse
// @Failure      400      {object}  model.ErrorResponse
// @Router       /api/wallets/{address}/balance [get]
func (h *SolanaHandler) Balance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	resp, err := h.svc.Balance(r.Context(), r.PathValue("address"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SolanaHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	e := h.logError(r, err)
	writeError(w, e.status, e.code, e.message)
}

// logError keeps downstream detail in the server log only.
func (h *SolanaHandler) logError(r *http.Request, err error) apiError {
	e := errorFor(err)
	entry := h.log.WithFields(logrus.Fields{
		"path":       r.URL.Path,
		"code":       e.code,
		"request_id": middleware.GetRequestID(r.Context()),
	}).WithError(err)
	if e.status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Info("request rejected")
	}
	return e
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty body")
		}
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after request body")
	}
	return nil
}
