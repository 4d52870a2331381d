package client

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/AlexZinkM/pack-mint/internal/authority"
	"github.com/AlexZinkM/pack-mint/internal/candymachine"
	"github.com/AlexZinkM/pack-mint/internal/model"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
)

const (
	nftDecimals = 0

	defaultTimeout      = 60 * time.Second
	confirmPollInterval = 500 * time.Millisecond
)

// ErrTransactionFailed is returned when a sent transaction landed with an error.
var ErrTransactionFailed = errors.New("transaction failed on chain")

// SolanaClient talks to a Solana RPC node on behalf of the mint authority.
type SolanaClient struct {
	rpcClient           *rpc.Client
	auth                *authority.Authority
	machine             solana.PublicKey
	collectionAuthority solana.PublicKey
	timeout             time.Duration
	pollInterval        time.Duration
}

// NewSolanaClient creates a client for one candy machine. The authority pays fees and signs.
func NewSolanaClient(rpcURL string, auth *authority.Authority, machine, collectionAuthority solana.PublicKey) *SolanaClient {
	return &SolanaClient{
		rpcClient:           rpc.New(rpcURL),
		auth:                auth,
		machine:             machine,
		collectionAuthority: collectionAuthority,
		timeout:             defaultTimeout,
		pollInterval:        confirmPollInterval,
	}
}

// WithTimeout bounds every call, including waiting for confirmation.
func (c *SolanaClient) WithTimeout(d time.Duration) *SolanaClient {
	if d > 0 {
		c.timeout = d
	}
	return c
}

// Authority returns the address that pays for and signs server-side mints.
func (c *SolanaClient) Authority() solana.PublicKey {
	return c.auth.PublicKey()
}

// FetchMachine reads and decodes the candy machine account and the candy guard wrapping it.
func (c *SolanaClient) FetchMachine(ctx context.Context) (*candymachine.Machine, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, err := c.programAccount(ctx, c.machine, candymachine.CoreProgramID)
	if err != nil {
		return nil, fmt.Errorf("failed to get candy machine account: %w", err)
	}
	m, err := candymachine.Decode(c.machine, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode candy machine: %w", err)
	}

	guardData, err := c.programAccount(ctx, m.MintAuthority, candymachine.GuardProgramID)
	if errors.Is(err, errWrongOwner) {
		// not wrapped; Machine.Supported reports it
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get candy guard account: %w", err)
	}
	g, err := candymachine.DecodeGuard(m.MintAuthority, guardData)
	if err != nil {
		return nil, fmt.Errorf("failed to decode candy guard: %w", err)
	}
	derived, _, err := candymachine.FindGuardAddress(g.Base)
	if err != nil {
		return nil, err
	}
	if !derived.Equals(m.MintAuthority) {
		return nil, fmt.Errorf("candy guard %s does not match its base %s", m.MintAuthority, g.Base)
	}
	m.Guard = g
	return m, nil
}

var errWrongOwner = errors.New("account has an unexpected owner")

// programAccount returns the data of an account that must exist and be owned by program.
func (c *SolanaClient) programAccount(ctx context.Context, address, program solana.PublicKey) ([]byte, error) {
	out, err := c.rpcClient.GetAccountInfoWithOpts(ctx, address, &rpc.GetAccountInfoOpts{
		Commitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, fmt.Errorf("account %s not found", address)
		}
		return nil, err
	}
	if out == nil || out.Value == nil || out.Value.Data == nil {
		return nil, fmt.Errorf("account %s not found", address)
	}
	if !out.Value.Owner.Equals(program) {
		return nil, fmt.Errorf("%w: %s is owned by %s, not %s", errWrongOwner, address, out.Value.Owner, program)
	}
	return out.Value.Data.GetBinary(), nil
}

// MintUnit mints one NFT paid by the authority into the authority's token account and waits for confirmation.
func (c *SolanaClient) MintUnit(ctx context.Context, m *candymachine.Machine, mintKey solana.PrivateKey) (solana.Signature, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ixs, err := c.mintInstructions(m, mintKey.PublicKey(), c.auth.PublicKey())
	if err != nil {
		return solana.Signature{}, err
	}
	return c.sendAndConfirm(ctx, ixs, mintKey)
}

// MintExists reports whether the mint account was created on chain.
func (c *SolanaClient) MintExists(ctx context.Context, mint solana.PublicKey) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.rpcClient.GetAccountInfoWithOpts(ctx, mint, &rpc.GetAccountInfoOpts{
		Commitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get mint account: %w", err)
	}
	return out != nil && out.Value != nil, nil
}

// Transfer moves one token of mint from the authority to the owner, creating the owner's token account when missing.
func (c *SolanaClient) Transfer(ctx context.Context, mint, to solana.PublicKey) (solana.Signature, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	from := c.auth.PublicKey()
	sourceTokenAccount, _, err := solana.FindAssociatedTokenAddress(from, mint)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to find source token account address: %w", err)
	}
	destTokenAccount, _, err := solana.FindAssociatedTokenAddress(to, mint)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to find destination token account: %w", err)
	}

	exists, err := c.accountExists(ctx, destTokenAccount)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to get destination account info: %w", err)
	}

	ixs := make([]solana.Instruction, 0, 2)
	if !exists {
		ixs = append(ixs, associatedtokenaccount.NewCreateInstruction(
			from, // payer
			to,   // owner
			mint, // mint
		).Build())
	}
	ixs = append(ixs, token.NewTransferCheckedInstruction(
		1,
		nftDecimals,
		sourceTokenAccount,
		mint,
		destTokenAccount,
		from,
		[]solana.PublicKey{},
	).Build())

	return c.sendAndConfirm(ctx, ixs)
}

// HoldsToken reports whether owner's associated token account for mint holds at least one token.
func (c *SolanaClient) HoldsToken(ctx context.Context, owner, mint solana.PublicKey) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return false, fmt.Errorf("failed to find associated token account address: %w", err)
	}

	balance, err := c.rpcClient.GetTokenAccountBalance(ctx, ata, rpc.CommitmentConfirmed)
	if err != nil {
		if isAccountNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get token account balance: %w", err)
	}
	if balance == nil || balance.Value == nil {
		return false, nil
	}

	amount, err := strconv.ParseUint(balance.Value.Amount, 10, 64)
	if err != nil {
		return false, fmt.Errorf("failed to parse token balance amount: %w", err)
	}
	return amount >= 1, nil
}

// BuildMintTransaction builds a one-unit mint paid by payer and signed only by the mint key.
// The payer signature slot is left empty for the wallet to fill.
func (c *SolanaClient) BuildMintTransaction(ctx context.Context, m *candymachine.Machine, mintKey solana.PrivateKey, payer solana.PublicKey) (*solana.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ixs, err := c.mintInstructions(m, mintKey.PublicKey(), payer)
	if err != nil {
		return nil, err
	}

	recent, err := c.rpcClient.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(ixs, recent.Value.Blockhash, solana.TransactionPayer(payer))
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	if err := partialSign(tx, mintKey); err != nil {
		return nil, err
	}
	return tx, nil
}

// SignatureStatus returns the confirmation state of a transaction signature.
func (c *SolanaClient) SignatureStatus(ctx context.Context, sig solana.Signature) (model.TransactionStatus, uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.rpcClient.GetSignatureStatuses(ctx, true, sig)
	if err != nil {
		return model.TransactionStatusUnknown, 0, fmt.Errorf("failed to get signature status: %w", err)
	}
	if out == nil || len(out.Value) == 0 || out.Value[0] == nil {
		return model.TransactionStatusUnknown, 0, nil
	}

	st := out.Value[0]
	if st.Err != nil {
		return model.TransactionStatusFailed, st.Slot, nil
	}
	switch st.ConfirmationStatus {
	case rpc.ConfirmationStatusFinalized:
		return model.TransactionStatusFinalized, st.Slot, nil
	case rpc.ConfirmationStatusConfirmed:
		return model.TransactionStatusConfirmed, st.Slot, nil
	case rpc.ConfirmationStatusProcessed:
		return model.TransactionStatusProcessed, st.Slot, nil
	default:
		return model.TransactionStatusUnknown, st.Slot, nil
	}
}

// Balance returns the SOL balance of owner in lamports.
func (c *SolanaClient) Balance(ctx context.Context, owner solana.PublicKey) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	balance, err := c.rpcClient.GetBalance(ctx, owner, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, fmt.Errorf("failed to get SOL balance: %w", err)
	}
	return balance.Value, nil
}

// mintInstructions builds one guarded mint where payer also receives and signs for the token.
func (c *SolanaClient) mintInstructions(m *candymachine.Machine, mint, payer solana.PublicKey) ([]solana.Instruction, error) {
	if err := m.Supported(); err != nil {
		return nil, err
	}
	ixs, err := candymachine.NewMintUnitInstructions(candymachine.MintAccounts{
		Machine:                   m,
		Payer:                     payer,
		Minter:                    payer,
		Mint:                      mint,
		CollectionUpdateAuthority: c.collectionAuthority,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build mint instructions: %w", err)
	}
	return ixs, nil
}

func (c *SolanaClient) sendAndConfirm(ctx context.Context, ixs []solana.Instruction, extra ...solana.PrivateKey) (solana.Signature, error) {
	recent, err := c.rpcClient.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to get recent blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(ixs, recent.Value.Blockhash, solana.TransactionPayer(c.auth.PublicKey()))
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to create transaction: %w", err)
	}

	if err := c.auth.SignTransaction(tx, extra...); err != nil {
		return solana.Signature{}, err
	}

	sig, err := c.rpcClient.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to send transaction: %w", err)
	}

	if err := c.waitConfirmed(ctx, sig); err != nil {
		return sig, err
	}
	return sig, nil
}

// waitConfirmed polls until sig reaches confirmed commitment, fails, or ctx ends.
func (c *SolanaClient) waitConfirmed(ctx context.Context, sig solana.Signature) error {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		status, _, err := c.SignatureStatus(ctx, sig)
		if err != nil && ctx.Err() != nil {
			return fmt.Errorf("failed to confirm transaction %s: %w", sig, ctx.Err())
		}
		switch status {
		case model.TransactionStatusConfirmed, model.TransactionStatusFinalized:
			return nil
		case model.TransactionStatusFailed:
			return fmt.Errorf("%w: %s", ErrTransactionFailed, sig)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("failed to confirm transaction %s: %w", sig, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (c *SolanaClient) accountExists(ctx context.Context, address solana.PublicKey) (bool, error) {
	out, err := c.rpcClient.GetAccountInfo(ctx, address)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) || isAccountNotFoundError(err) {
			return false, nil
		}
		return false, err
	}
	return out != nil && out.Value != nil, nil
}

// partialSign signs the message with key at its slot among the required signers.
// Other slots stay zero.
func partialSign(tx *solana.Transaction, key solana.PrivateKey) error {
	signed := false
	_, err := tx.PartialSign(func(pk solana.PublicKey) *solana.PrivateKey {
		if pk.Equals(key.PublicKey()) {
			signed = true
			return &key
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to sign transaction: %w", err)
	}
	if !signed {
		return fmt.Errorf("key %s is not a required signer", key.PublicKey())
	}
	return nil
}

// isAccountNotFoundError reports the RPC error for a missing account
// ("Invalid param: could not find account").
func isAccountNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, rpc.ErrNotFound) {
		return true
	}
	return strings.Contains(err.Error(), "could not find account")
}
