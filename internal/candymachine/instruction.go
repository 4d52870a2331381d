package candymachine

import (
	"errors"

	"github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
)

// MintComputeUnits covers mint_v2 creating the mint, token account, metadata and edition in one instruction.
const MintComputeUnits = 800_000

var mintV2Discriminator = anchorDiscriminator("global:mint_v2")

// MintAccounts are the caller-supplied accounts of a guarded mint; PDAs are derived.
type MintAccounts struct {
	Machine                   *Machine
	Payer                     solana.PublicKey // pays rent, fees and the solPayment price
	Minter                    solana.PublicKey // receives the token and must sign; defaults to Payer
	Mint                      solana.PublicKey // fresh keypair address, must co-sign
	CollectionUpdateAuthority solana.PublicKey
}

// NewMintV2Instruction builds the Candy Guard mint_v2 instruction for one NFT.
// Optional accounts that do not apply are passed as the guard program id.
func NewMintV2Instruction(a MintAccounts) (solana.Instruction, error) {
	m := a.Machine
	if m == nil || m.Guard == nil {
		return nil, errors.New("candy machine with a candy guard is required")
	}
	if a.Payer.IsZero() || a.Mint.IsZero() || a.CollectionUpdateAuthority.IsZero() {
		return nil, errors.New("payer, mint and collection update authority are required")
	}
	minter := a.Minter
	if minter.IsZero() {
		minter = a.Payer
	}

	authorityPDA, _, err := FindAuthorityAddress(m.Address)
	if err != nil {
		return nil, err
	}
	metadata, err := FindMetadataAddress(a.Mint)
	if err != nil {
		return nil, err
	}
	masterEdition, err := FindMasterEditionAddress(a.Mint)
	if err != nil {
		return nil, err
	}
	token, _, err := solana.FindAssociatedTokenAddress(minter, a.Mint)
	if err != nil {
		return nil, err
	}
	delegateRecord, err := FindCollectionDelegateRecord(m.CollectionMint, a.CollectionUpdateAuthority, authorityPDA)
	if err != nil {
		return nil, err
	}
	collectionMetadata, err := FindMetadataAddress(m.CollectionMint)
	if err != nil {
		return nil, err
	}
	collectionEdition, err := FindMasterEditionAddress(m.CollectionMint)
	if err != nil {
		return nil, err
	}

	none := GuardProgramID
	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(m.Guard.Address, false, false),
		solana.NewAccountMeta(CoreProgramID, false, false),
		solana.NewAccountMeta(m.Address, true, false),
		solana.NewAccountMeta(authorityPDA, true, false),
		solana.NewAccountMeta(a.Payer, true, true),
		solana.NewAccountMeta(minter, true, true),
		solana.NewAccountMeta(a.Mint, true, true),
		solana.NewAccountMeta(minter, false, true), // nft mint authority
		solana.NewAccountMeta(metadata, true, false),
		solana.NewAccountMeta(masterEdition, true, false),
		solana.NewAccountMeta(token, true, false),
		solana.NewAccountMeta(none, false, false), // token record
		solana.NewAccountMeta(delegateRecord, false, false),
		solana.NewAccountMeta(m.CollectionMint, false, false),
		solana.NewAccountMeta(collectionMetadata, true, false),
		solana.NewAccountMeta(collectionEdition, false, false),
		solana.NewAccountMeta(a.CollectionUpdateAuthority, false, false),
		solana.NewAccountMeta(solana.TokenMetadataProgramID, false, false),
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
		solana.NewAccountMeta(solana.SPLAssociatedTokenAccountProgramID, false, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
		solana.NewAccountMeta(solana.SysVarInstructionsPubkey, false, false),
		solana.NewAccountMeta(solana.SysVarSlotHashesPubkey, false, false),
		solana.NewAccountMeta(none, false, false), // authorization rules program
		solana.NewAccountMeta(none, false, false), // authorization rules
	}
	// remaining accounts, in guard order
	if p := m.Guard.SolPayment; p != nil {
		accounts = append(accounts, solana.NewAccountMeta(p.Destination, true, false))
	}

	// empty mint_args vec, no group label
	data := make([]byte, 0, len(mintV2Discriminator)+5)
	data = append(data, mintV2Discriminator[:]...)
	data = append(data, 0, 0, 0, 0, 0)

	return solana.NewInstruction(GuardProgramID, accounts, data), nil
}

// NewMintUnitInstructions returns the instructions that mint one NFT into the minter's
// associated token account: a compute unit limit followed by mint_v2.
func NewMintUnitInstructions(a MintAccounts) ([]solana.Instruction, error) {
	mint, err := NewMintV2Instruction(a)
	if err != nil {
		return nil, err
	}
	return []solana.Instruction{
		computebudget.NewSetComputeUnitLimitInstruction(MintComputeUnits).Build(),
		mint,
	}, nil
}
