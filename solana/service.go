// Package solana implements pack minting against a Candy Machine: status, the
// server-paid mint saga, Solana Pay transaction requests and chain lookups.
package solana

import (
	"context"
	"errors"
	"time"

	"github.com/AlexZinkM/pack-mint/internal/candymachine"
	"github.com/AlexZinkM/pack-mint/internal/journal"
	"github.com/AlexZinkM/pack-mint/internal/logging"
	"github.com/AlexZinkM/pack-mint/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"
)

const defaultMaxQuantity = 10

var (
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrInvalidAddress     = errors.New("invalid wallet address")
	ErrInvalidSignature   = errors.New("invalid transaction signature")
	ErrSoldOut            = errors.New("candy machine is sold out")
	ErrSaleNotStarted     = errors.New("sale has not started")
	ErrSaleEnded          = errors.New("sale has ended")
	ErrMachineUnavailable = errors.New("candy machine unavailable")
	ErrMintFailed         = errors.New("mint failed")
	ErrTransferFailed     = errors.New("transfer failed")
	ErrPayNotConfigured   = errors.New("solana pay is not configured")
)

// Chain is everything the service needs from the network.
type Chain interface {
	// Authority is the server wallet that pays for and signs server-side mints.
	Authority() solana.PublicKey
	FetchMachine(ctx context.Context) (*candymachine.Machine, error)
	// MintUnit mints one NFT into the Authority's token account.
	MintUnit(ctx context.Context, m *candymachine.Machine, mintKey solana.PrivateKey) (solana.Signature, error)
	MintExists(ctx context.Context, mint solana.PublicKey) (bool, error)
	Transfer(ctx context.Context, mint, to solana.PublicKey) (solana.Signature, error)
	HoldsToken(ctx context.Context, owner, mint solana.PublicKey) (bool, error)
	BuildMintTransaction(ctx context.Context, m *candymachine.Machine, mintKey solana.PrivateKey, payer solana.PublicKey) (*solana.Transaction, error)
	SignatureStatus(ctx context.Context, sig solana.Signature) (model.TransactionStatus, uint64, error)
	Balance(ctx context.Context, owner solana.PublicKey) (uint64, error)
}

// Options tune the service. Zero values get defaults.
type Options struct {
	MaxQuantity int
	Network     string // explorer cluster
	PublicURL   string // base URL for Solana Pay links
	PayLabel    string
	PayIcon     string
	Logger      *logrus.Logger
	NewMintKey  func() (solana.PrivateKey, error)
	Now         func() time.Time
}

// Service runs mint operations. It is safe for concurrent use; per-key
// serialization comes from the journal store.
type Service struct {
	chain Chain
	store journal.Store
	opts  Options
	log   *logrus.Logger
}

// NewService wires a chain and a journal store.
func NewService(chain Chain, store journal.Store, opts Options) *Service {
	if opts.MaxQuantity < 1 {
		opts.MaxQuantity = defaultMaxQuantity
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.NewMintKey == nil {
		opts.NewMintKey = solana.NewRandomPrivateKey
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{chain: chain, store: store, opts: opts, log: opts.Logger}
}

func parseAddress(address string) (solana.PublicKey, error) {
	pk, err := solana.PublicKeyFromBase58(address)
	if err != nil || pk.IsZero() {
		return solana.PublicKey{}, ErrInvalidAddress
	}
	return pk, nil
}

// fetchMintable loads the machine and checks it can mint n more units right now.
func (s *Service) fetchMintable(ctx context.Context, n int) (*candymachine.Machine, error) {
	m, err := s.chain.FetchMachine(ctx)
	if err != nil {
		return nil, errors.Join(ErrMachineUnavailable, err)
	}
	if err := m.Supported(); err != nil {
		return nil, errors.Join(ErrMachineUnavailable, err)
	}
	now := s.opts.Now()
	if !m.SaleStarted(now) {
		return nil, ErrSaleNotStarted
	}
	if m.SaleEnded(now) {
		return nil, ErrSaleEnded
	}
	if m.Remaining() < uint64(n) {
		return nil, ErrSoldOut
	}
	return m, nil
}
