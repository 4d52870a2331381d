package solana

import (
	"context"
	"fmt"

	"github.com/AlexZinkM/pack-mint/internal/common"
	"github.com/AlexZinkM/pack-mint/internal/model"

	"github.com/gagliardetto/solana-go"
)

// TransactionStatus reports how far a signature has been confirmed.
func (s *Service) TransactionStatus(ctx context.Context, signature string) (*model.TransactionStatusResponse, error) {
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return nil, ErrInvalidSignature
	}

	status, slot, err := s.chain.SignatureStatus(ctx, sig)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction status: %w", err)
	}

	resp := &model.TransactionStatusResponse{
		Signature:   sig.String(),
		Status:      status,
		Slot:        slot,
		ExplorerURL: common.ExplorerTxURL(s.opts.Network, sig.String()),
	}
	if status == model.TransactionStatusFailed {
		resp.Error = "transaction failed on chain"
	}
	return resp, nil
}

// Balance returns the SOL balance of address.
func (s *Service) Balance(ctx context.Context, address string) (*model.BalanceResponse, error) {
	owner, err := parseAddress(address)
	if err != nil {
		return nil, err
	}

	lamports, err := s.chain.Balance(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}

	return &model.BalanceResponse{
		Address:  owner.String(),
		Lamports: lamports,
		SOL:      common.LamportsToSOL(lamports),
	}, nil
}
