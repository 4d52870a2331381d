package solana

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/AlexZinkM/pack-mint/internal/common"
	"github.com/AlexZinkM/pack-mint/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/skip2/go-qrcode"
)

const (
	transactionRequestPath = "/api/mint/transaction"
	qrSize                 = 512
)

// TransactionRequestInfo answers the Solana Pay GET handshake.
func (s *Service) TransactionRequestInfo() model.TransactionRequestInfo {
	return model.TransactionRequestInfo{Label: s.opts.PayLabel, Icon: s.opts.PayIcon}
}

// BuildMintTransaction returns a one-unit mint transaction for account to sign and send.
// The buyer pays the price and fees; the server only contributes the mint key signature.
func (s *Service) BuildMintTransaction(ctx context.Context, account string) (*model.TransactionResponse, error) {
	payer, err := parseAddress(account)
	if err != nil {
		return nil, err
	}

	m, err := s.fetchMintable(ctx, 1)
	if err != nil {
		return nil, err
	}

	mintKey, err := s.opts.NewMintKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate mint key: %w", err)
	}
	defer clear(mintKey)

	tx, err := s.chain.BuildMintTransaction(ctx, m, mintKey, payer)
	if err != nil {
		return nil, fmt.Errorf("failed to build mint transaction: %w", err)
	}

	raw, err := tx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction: %w", err)
	}

	message := "Mint 1 NFT"
	if lamports, ok := m.Price(); ok && lamports > 0 {
		message = fmt.Sprintf("Mint 1 NFT for %s SOL", strings.TrimRight(strings.TrimRight(common.LamportsToSOL(lamports), "0"), "."))
	}
	mint := mintKey.PublicKey().String()
	s.log.WithFields(logrus.Fields{
		"payer": common.MaskShort(payer.String()),
		"mint":  common.MaskShort(mint),
	}).Info("mint transaction built")

	return &model.TransactionResponse{
		Transaction: base64.StdEncoding.EncodeToString(raw),
		Message:     message,
		MintAddress: mint,
	}, nil
}

// PayLink returns the solana: transaction request link wallets scan.
func (s *Service) PayLink() (string, error) {
	base := strings.TrimRight(strings.TrimSpace(s.opts.PublicURL), "/")
	if base == "" {
		return "", ErrPayNotConfigured
	}
	return "solana:" + url.QueryEscape(base+transactionRequestPath), nil
}

// PayQRCode renders PayLink as a PNG.
func (s *Service) PayQRCode() ([]byte, error) {
	link, err := s.PayLink()
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(link, qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}
