package candymachine

import (
	"fmt"

	bcommon "github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/gagliardetto/solana-go"
)

var (
	authoritySeed          = []byte("candy_machine")
	guardSeed              = []byte("candy_guard")
	metadataSeed           = []byte("metadata")
	collectionDelegateSeed = []byte("collection_delegate")
)

// FindAuthorityAddress derives the machine's authority PDA, which signs as collection delegate and verified creator.
func FindAuthorityAddress(machine solana.PublicKey) (solana.PublicKey, uint8, error) {
	addr, bump, err := solana.FindProgramAddress([][]byte{authoritySeed, machine.Bytes()}, CoreProgramID)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("failed to derive candy machine authority: %w", err)
	}
	return addr, bump, nil
}

// FindGuardAddress derives the candy guard PDA of a base key.
func FindGuardAddress(base solana.PublicKey) (solana.PublicKey, uint8, error) {
	addr, bump, err := solana.FindProgramAddress([][]byte{guardSeed, base.Bytes()}, GuardProgramID)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("failed to derive candy guard: %w", err)
	}
	return addr, bump, nil
}

// FindCollectionDelegateRecord derives the metadata delegate record that lets delegate verify items into the collection.
func FindCollectionDelegateRecord(collectionMint, updateAuthority, delegate solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress([][]byte{
		metadataSeed,
		solana.TokenMetadataProgramID.Bytes(),
		collectionMint.Bytes(),
		collectionDelegateSeed,
		updateAuthority.Bytes(),
		delegate.Bytes(),
	}, solana.TokenMetadataProgramID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive collection delegate record: %w", err)
	}
	return addr, nil
}

// FindMetadataAddress derives the token-metadata account of a mint.
func FindMetadataAddress(mint solana.PublicKey) (solana.PublicKey, error) {
	pk, err := token_metadata.GetTokenMetaPubkey(bcommon.PublicKeyFromBytes(mint.Bytes()))
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive metadata address: %w", err)
	}
	return solana.PublicKeyFromBytes(pk.Bytes()), nil
}

// FindMasterEditionAddress derives the master-edition account of a mint.
func FindMasterEditionAddress(mint solana.PublicKey) (solana.PublicKey, error) {
	pk, err := token_metadata.GetMasterEdition(bcommon.PublicKeyFromBytes(mint.Bytes()))
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive master edition address: %w", err)
	}
	return solana.PublicKeyFromBytes(pk.Bytes()), nil
}
