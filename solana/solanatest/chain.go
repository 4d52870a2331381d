// Package solanatest provides an in-memory Chain for service and handler tests.
package solanatest

import (
	"context"
	"errors"
	"sync"

	"github.com/AlexZinkM/pack-mint/internal/candymachine"
	"github.com/AlexZinkM/pack-mint/internal/model"

	"github.com/gagliardetto/solana-go"
)

// ErrInjected is returned by scripted failures.
var ErrInjected = errors.New("injected chain failure")

// Chain tracks mints and holdings in memory. Fields may be set before use; counters are read under the lock.
type Chain struct {
	mu sync.Mutex

	Machine      *candymachine.Machine
	MachineErr   error
	AuthorityKey solana.PublicKey

	// FailMintAt makes the n-th MintUnit call (1-based) fail. Zero disables.
	FailMintAt int
	// FailTransferAt makes the n-th Transfer call (1-based) fail. Zero disables.
	FailTransferAt int
	// LoseMintAt makes the n-th MintUnit land on chain but report an error,
	// as when the confirmation is lost.
	LoseMintAt int
	// OnMint runs before every MintUnit, outside the lock.
	OnMint func(call int)

	Statuses map[solana.Signature]model.TransactionStatus
	Balances map[solana.PublicKey]uint64

	mintCalls     int
	transferCalls int
	mints         map[solana.PublicKey]solana.PublicKey // mint -> holder
	built         int
}

// New returns a chain whose machine is live and holds the given supply.
func New(available uint64) *Chain {
	return &Chain{
		Machine: &candymachine.Machine{
			Address:        solana.NewWallet().PublicKey(),
			Authority:      solana.NewWallet().PublicKey(),
			MintAuthority:  solana.NewWallet().PublicKey(),
			CollectionMint: solana.NewWallet().PublicKey(),
			ItemsAvailable: available,
			Guard: &candymachine.Guard{
				Address: solana.NewWallet().PublicKey(),
				SolPayment: &candymachine.SolPayment{
					Lamports:    500_000_000,
					Destination: solana.NewWallet().PublicKey(),
				},
			},
		},
		AuthorityKey: solana.NewWallet().PublicKey(),
		Statuses:     map[solana.Signature]model.TransactionStatus{},
		Balances:     map[solana.PublicKey]uint64{},
		mints:        map[solana.PublicKey]solana.PublicKey{},
	}
}

func (c *Chain) Authority() solana.PublicKey { return c.AuthorityKey }

func (c *Chain) FetchMachine(context.Context) (*candymachine.Machine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.MachineErr != nil {
		return nil, c.MachineErr
	}
	m := *c.Machine
	if c.Machine.Guard != nil {
		g := *c.Machine.Guard
		m.Guard = &g
	}
	return &m, nil
}

func (c *Chain) MintUnit(_ context.Context, _ *candymachine.Machine, mintKey solana.PrivateKey) (solana.Signature, error) {
	c.mu.Lock()
	call := c.mintCalls + 1
	hook := c.OnMint
	c.mu.Unlock()
	if hook != nil {
		hook(call)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.mintCalls++
	if c.mintCalls == c.FailMintAt {
		return solana.Signature{}, ErrInjected
	}
	if c.Machine.Remaining() == 0 {
		return solana.Signature{}, errors.New("candy machine is empty")
	}

	mint := mintKey.PublicKey()
	c.mints[mint] = c.AuthorityKey
	c.Machine.ItemsRedeemed++
	if c.mintCalls == c.LoseMintAt {
		return solana.Signature{}, ErrInjected
	}
	return signature(byte(c.mintCalls), 'm'), nil
}

func (c *Chain) MintExists(_ context.Context, mint solana.PublicKey) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.mints[mint]
	return ok, nil
}

func (c *Chain) Transfer(_ context.Context, mint, to solana.PublicKey) (solana.Signature, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.transferCalls++
	if c.transferCalls == c.FailTransferAt {
		return solana.Signature{}, ErrInjected
	}
	holder, ok := c.mints[mint]
	if !ok || !holder.Equals(c.AuthorityKey) {
		return solana.Signature{}, errors.New("authority does not hold the token")
	}
	c.mints[mint] = to
	return signature(byte(c.transferCalls), 't'), nil
}

func (c *Chain) HoldsToken(_ context.Context, owner, mint solana.PublicKey) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	holder, ok := c.mints[mint]
	return ok && holder.Equals(owner), nil
}

func (c *Chain) BuildMintTransaction(_ context.Context, _ *candymachine.Machine, mintKey solana.PrivateKey, payer solana.PublicKey) (*solana.Transaction, error) {
	c.mu.Lock()
	c.built++
	c.mu.Unlock()

	return &solana.Transaction{
		Signatures: []solana.Signature{{}, {1}},
		Message: solana.Message{
			Header:      solana.MessageHeader{NumRequiredSignatures: 2},
			AccountKeys: solana.PublicKeySlice{payer, mintKey.PublicKey()},
		},
	}, nil
}

func (c *Chain) SignatureStatus(_ context.Context, sig solana.Signature) (model.TransactionStatus, uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.Statuses[sig]
	if !ok {
		return model.TransactionStatusUnknown, 0, nil
	}
	return st, 7, nil
}

func (c *Chain) Balance(_ context.Context, owner solana.PublicKey) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Balances[owner], nil
}

// MintCalls returns how many times MintUnit was invoked.
func (c *Chain) MintCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mintCalls
}

// TransferCalls returns how many times Transfer was invoked.
func (c *Chain) TransferCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transferCalls
}

// Minted returns how many mint accounts exist.
func (c *Chain) Minted() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.mints)
}

// HeldBy returns how many tokens owner holds.
func (c *Chain) HeldBy(owner solana.PublicKey) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, h := range c.mints {
		if h.Equals(owner) {
			n++
		}
	}
	return n
}

// Built returns how many wallet transactions were built.
func (c *Chain) Built() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.built
}

func signature(n byte, kind byte) solana.Signature {
	var s solana.Signature
	s[0] = kind
	s[1] = n
	return s
}
