package solana

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/AlexZinkM/pack-mint/internal/common"
	"github.com/AlexZinkM/pack-mint/internal/model"
)

// Status reports price and supply of the candy machine.
func (s *Service) Status(ctx context.Context) (*model.CandyMachineResponse, error) {
	m, err := s.chain.FetchMachine(ctx)
	if err != nil {
		return nil, errors.Join(ErrMachineUnavailable, err)
	}

	total := m.ItemsAvailable
	minted := m.Minted()
	remaining := m.Remaining()

	resp := &model.CandyMachineResponse{
		Address:     m.Address.String(),
		TotalSupply: &total,
		Minted:      &minted,
		Remaining:   &remaining,
		SoldOut:     total > 0 && remaining == 0,
	}
	if lamports, ok := m.Price(); ok {
		price := common.LamportsToSOLFloat(lamports)
		resp.PriceLamports = &lamports
		resp.Price = &price
	}
	if total > 0 {
		resp.PercentMinted = math.Round(float64(minted)/float64(total)*10000) / 100
	}
	if date := m.StartDate(); date != nil {
		start := date.UTC().Format(time.RFC3339)
		resp.StartTime = &start
	}
	return resp, nil
}
