package solana

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlexZinkM/pack-mint/internal/candymachine"
	"github.com/AlexZinkM/pack-mint/internal/common"
	"github.com/AlexZinkM/pack-mint/internal/journal"
	"github.com/AlexZinkM/pack-mint/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// MintInput is one POST /api/mint request.
type MintInput struct {
	IdempotencyKey string
	WalletAddress  string
	Quantity       *int // nil means 1
}

// MintOutcome carries the delivered units. On error it holds the units delivered before the failure.
type MintOutcome struct {
	IdempotencyKey string
	Replayed       bool
	Results        []model.MintResult
}

// Mint mints Quantity NFTs paid by the authority and delivers them to WalletAddress.
// Each unit is journaled after every step so a retry with the same key resumes without minting twice.
func (s *Service) Mint(ctx context.Context, in MintInput) (*MintOutcome, error) {
	buyer, err := parseAddress(in.WalletAddress)
	if err != nil {
		return nil, err
	}

	qty := 1
	if in.Quantity != nil {
		qty = *in.Quantity
	}
	if qty < 1 || qty > s.opts.MaxQuantity {
		return nil, fmt.Errorf("%w: must be between 1 and %d", ErrInvalidQuantity, s.opts.MaxQuantity)
	}

	key := in.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	}

	op, release, err := s.store.Acquire(ctx, key, buyer.String(), qty)
	if err != nil {
		return nil, err
	}
	defer release()

	out := &MintOutcome{IdempotencyKey: key}
	log := s.log.WithFields(logrus.Fields{
		"idempotency_key": key,
		"buyer":           common.MaskShort(buyer.String()),
		"quantity":        qty,
	})

	if op.State == journal.StateCompleted {
		out.Replayed = true
		out.Results = s.results(op)
		log.Info("mint replayed")
		return out, nil
	}

	m, err := s.fetchMintable(ctx, op.Outstanding())
	if err != nil {
		out.Results = s.fail(ctx, log, op, err)
		return out, err
	}

	for i := 0; i < qty; i++ {
		if err := s.advance(ctx, log.WithField("unit", i), op, i, m, buyer); err != nil {
			out.Results = s.fail(ctx, log, op, err)
			return out, err
		}
	}

	op.State = journal.StateCompleted
	op.LastError = ""
	if err := s.store.Save(ctx, op); err != nil {
		log.WithError(err).Error("failed to save completed operation")
	}
	out.Results = s.results(op)
	log.Info("mint completed")
	return out, nil
}

// advance drives unit i forward until it is delivered.
func (s *Service) advance(ctx context.Context, log *logrus.Entry, op *journal.Operation, i int, m *candymachine.Machine, buyer solana.PublicKey) error {
	u := op.Unit(i)

	// A pending unit may have landed before the previous attempt lost track of it.
	if u.Step == journal.StepPending && u.MintAddress != "" {
		mint, err := solana.PublicKeyFromBase58(u.MintAddress)
		if err != nil {
			return fmt.Errorf("corrupt journal mint address: %w", err)
		}
		exists, err := s.chain.MintExists(ctx, mint)
		if err != nil {
			return errors.Join(ErrMintFailed, err)
		}
		if exists {
			u.Step = journal.StepMinted
			log.WithField("mint", common.MaskShort(u.MintAddress)).Info("pending unit found on chain")
		} else {
			u.MintAddress = ""
		}
		if err := s.save(ctx, op); err != nil {
			return err
		}
	}

	if u.Step == "" || u.Step == journal.StepPending {
		if err := s.mintUnit(ctx, log, op, u, m); err != nil {
			return err
		}
	}

	if u.Step == journal.StepMinted {
		if err := s.deliver(ctx, log, u, buyer); err != nil {
			return err
		}
		return s.save(ctx, op)
	}
	return nil
}

func (s *Service) mintUnit(ctx context.Context, log *logrus.Entry, op *journal.Operation, u *journal.Unit, m *candymachine.Machine) error {
	mintKey, err := s.opts.NewMintKey()
	if err != nil {
		return fmt.Errorf("failed to generate mint key: %w", err)
	}
	defer clear(mintKey)

	// record the address before sending so a crash mid-flight can be reconciled
	u.Step = journal.StepPending
	u.MintAddress = mintKey.PublicKey().String()
	if err := s.save(ctx, op); err != nil {
		return err
	}

	sig, err := s.chain.MintUnit(ctx, m, mintKey)
	if err != nil {
		log.WithError(err).Error("mint failed")
		return errors.Join(ErrMintFailed, err)
	}

	u.Step = journal.StepMinted
	u.MintSignature = sig.String()
	log.WithFields(logrus.Fields{
		"mint":      common.MaskShort(u.MintAddress),
		"signature": common.MaskShort(u.MintSignature),
	}).Info("unit minted")
	return s.save(ctx, op)
}

// deliver moves a minted unit from the authority to the buyer.
func (s *Service) deliver(ctx context.Context, log *logrus.Entry, u *journal.Unit, buyer solana.PublicKey) error {
	mint, err := solana.PublicKeyFromBase58(u.MintAddress)
	if err != nil {
		return fmt.Errorf("corrupt journal mint address: %w", err)
	}

	held, err := s.chain.HoldsToken(ctx, buyer, mint)
	if err != nil {
		return errors.Join(ErrTransferFailed, err)
	}
	if !held {
		sig, err := s.chain.Transfer(ctx, mint, buyer)
		if err != nil {
			log.WithError(err).Error("transfer failed")
			return errors.Join(ErrTransferFailed, err)
		}
		u.TransferSignature = sig.String()
	}

	u.Step = journal.StepDelivered
	log.WithField("mint", common.MaskShort(u.MintAddress)).Info("unit delivered")
	return nil
}

func (s *Service) save(ctx context.Context, op *journal.Operation) error {
	if err := s.store.Save(ctx, op); err != nil {
		return fmt.Errorf("failed to save mint journal: %w", err)
	}
	return nil
}

// fail records the error on the operation and returns the results delivered so far.
func (s *Service) fail(ctx context.Context, log *logrus.Entry, op *journal.Operation, cause error) []model.MintResult {
	op.State = journal.StateFailed
	op.LastError = cause.Error()
	if err := s.store.Save(context.WithoutCancel(ctx), op); err != nil {
		log.WithError(err).Error("failed to save failed operation")
	}
	log.WithError(cause).Warn("mint stopped")
	return s.results(op)
}

func (s *Service) results(op *journal.Operation) []model.MintResult {
	delivered := op.Delivered()
	out := make([]model.MintResult, 0, len(delivered))
	for _, u := range delivered {
		r := model.MintResult{
			MintAddress:       optional(u.MintAddress),
			MintSignature:     optional(u.MintSignature),
			TransferSignature: optional(u.TransferSignature),
		}
		if u.MintSignature != "" {
			r.ExplorerURL = common.ExplorerTxURL(s.opts.Network, u.MintSignature)
		} else {
			r.ExplorerURL = common.ExplorerAddressURL(s.opts.Network, u.MintAddress)
		}
		out = append(out, r)
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
