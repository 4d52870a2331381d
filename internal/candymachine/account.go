// Package candymachine decodes Metaplex Candy Machine Core (v3) and Candy Guard accounts
// and builds the guarded mint instruction.
package candymachine

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

var (
	// CoreProgramID is the Candy Machine Core v3 program that owns machine accounts.
	CoreProgramID = solana.MustPublicKeyFromBase58("CndyV3LdqHUfDLmE5naZjVN8rBZz4tqhdefbAnjHG3JR")
	// GuardProgramID is the Candy Guard program that wraps a machine's mint authority.
	GuardProgramID = solana.MustPublicKeyFromBase58("Guard1JwRhJkVH6XZhzoYxeBVQe872VH6QggF4BWmS9g")
)

// AccountDiscriminator prefixes every CandyMachine account (Anchor sighash).
var AccountDiscriminator = anchorDiscriminator("account:CandyMachine")

var (
	// ErrNotCandyMachine is returned when the account data does not start with the CandyMachine discriminator.
	ErrNotCandyMachine = errors.New("account is not a candy machine")
	// ErrUnsupported is returned by Machine.Supported for machines the guarded mint cannot serve.
	ErrUnsupported = errors.New("candy machine configuration is not supported")
)

// TokenStandardNonFungible is the only token standard minted here; programmable NFTs need token records and rule sets.
const TokenStandardNonFungible = 0

// Creator is a verified-creator entry copied into every minted token's metadata.
type Creator struct {
	Address  solana.PublicKey
	Verified bool
	Share    uint8
}

// Machine is the decoded on-chain issuance state.
type Machine struct {
	Address              solana.PublicKey
	Version              uint8
	TokenStandard        uint8
	Authority            solana.PublicKey
	MintAuthority        solana.PublicKey // the candy guard when the machine is wrapped
	CollectionMint       solana.PublicKey
	ItemsRedeemed        uint64
	ItemsAvailable       uint64
	Symbol               string
	SellerFeeBasisPoints uint16
	MaxSupply            uint64
	IsMutable            bool
	Creators             []Creator
	HiddenSettings       bool

	// Guard is the decoded mint authority account. Nil when it is not a candy guard.
	Guard *Guard
}

// Remaining returns the number of items still mintable, honoring a redeemedAmount guard.
func (m *Machine) Remaining() uint64 {
	limit := m.ItemsAvailable
	if m.Guard != nil && m.Guard.RedeemedMaximum != nil {
		limit = min(limit, *m.Guard.RedeemedMaximum)
	}
	if m.ItemsRedeemed >= limit {
		return 0
	}
	return limit - m.ItemsRedeemed
}

// Minted returns the redeemed count clamped to the available supply.
func (m *Machine) Minted() uint64 {
	return min(m.ItemsRedeemed, m.ItemsAvailable)
}

// Price returns the solPayment guard amount in lamports.
func (m *Machine) Price() (uint64, bool) {
	if m.Guard == nil || m.Guard.SolPayment == nil {
		return 0, false
	}
	return m.Guard.SolPayment.Lamports, true
}

// StartDate returns the startDate guard, if any.
func (m *Machine) StartDate() *time.Time {
	if m.Guard == nil {
		return nil
	}
	return m.Guard.StartDate
}

// SaleStarted reports whether the start date has passed. No date means the sale is open.
func (m *Machine) SaleStarted(now time.Time) bool {
	start := m.StartDate()
	return start == nil || !now.Before(*start)
}

// SaleEnded reports whether the endDate guard has passed.
func (m *Machine) SaleEnded(now time.Time) bool {
	if m.Guard == nil || m.Guard.EndDate == nil {
		return false
	}
	return !now.Before(*m.Guard.EndDate)
}

// Supported reports whether a guarded mint_v2 with no mint arguments can mint from m.
func (m *Machine) Supported() error {
	switch {
	case m.Guard == nil:
		return fmt.Errorf("%w: mint authority %s is not a candy guard", ErrUnsupported, m.MintAuthority)
	case m.TokenStandard != TokenStandardNonFungible:
		return fmt.Errorf("%w: token standard %d", ErrUnsupported, m.TokenStandard)
	case len(m.Guard.Unsupported) > 0:
		return fmt.Errorf("%w: guards %s", ErrUnsupported, strings.Join(m.Guard.Unsupported, ", "))
	}
	return nil
}

// Decode parses CandyMachine account data (borsh, after the 8-byte discriminator).
// Config lines following the fixed struct are not read.
func Decode(address solana.PublicKey, data []byte) (*Machine, error) {
	if len(data) < len(AccountDiscriminator) || !bytes.Equal(data[:len(AccountDiscriminator)], AccountDiscriminator[:]) {
		return nil, ErrNotCandyMachine
	}

	r := &reader{dec: bin.NewBorshDecoder(data[len(AccountDiscriminator):])}
	m := &Machine{Address: address}

	// version and token standard share the first bytes of the former feature flags
	m.Version = r.u8("version")
	m.TokenStandard = r.u8("token_standard")
	r.bytes("features", 6)
	m.Authority = r.pubkey("authority")
	m.MintAuthority = r.pubkey("mint_authority")
	m.CollectionMint = r.pubkey("collection_mint")
	m.ItemsRedeemed = r.u64("items_redeemed")

	// CandyMachineData
	m.ItemsAvailable = r.u64("items_available")
	m.Symbol = r.str("symbol")
	m.SellerFeeBasisPoints = r.u16("seller_fee_basis_points")
	m.MaxSupply = r.u64("max_supply")
	m.IsMutable = r.boolean("is_mutable")

	n := r.u32("creators")
	if r.err == nil && n > maxCreators {
		return nil, fmt.Errorf("failed to decode creators: too many entries (%d)", n)
	}
	for i := uint32(0); i < n && r.err == nil; i++ {
		m.Creators = append(m.Creators, Creator{
			Address:  r.pubkey("creator.address"),
			Verified: r.boolean("creator.verified"),
			Share:    r.u8("creator.share"),
		})
	}

	if r.option("config_line_settings") {
		r.str("config_line_settings.prefix_name")
		r.u32("config_line_settings.name_length")
		r.str("config_line_settings.prefix_uri")
		r.u32("config_line_settings.uri_length")
		r.boolean("config_line_settings.is_sequential")
	}
	if r.option("hidden_settings") {
		r.str("hidden_settings.name")
		r.str("hidden_settings.uri")
		r.bytes("hidden_settings.hash", 32)
		m.HiddenSettings = true
	}

	if r.err != nil {
		return nil, r.err
	}
	return m, nil
}

const (
	publicKeyLen = 32
	maxCreators  = 5 // metaplex limit per metadata account
)

func anchorDiscriminator(preimage string) [8]byte {
	sum := sha256.Sum256([]byte(preimage))
	var d [8]byte
	copy(d[:], sum[:8])
	return d
}

// reader keeps the first decode error and turns later reads into no-ops.
type reader struct {
	dec *bin.Decoder
	err error
}

func (r *reader) fail(field string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("failed to decode %s: %w", field, err)
	}
}

func (r *reader) bytes(field string, n int) []byte {
	if r.err != nil {
		return nil
	}
	b, err := r.dec.ReadNBytes(n)
	if err != nil {
		r.fail(field, err)
		return nil
	}
	return b
}

func (r *reader) pubkey(field string) solana.PublicKey {
	b := r.bytes(field, publicKeyLen)
	if b == nil {
		return solana.PublicKey{}
	}
	return solana.PublicKeyFromBytes(b)
}

func (r *reader) u8(field string) uint8 {
	if r.err != nil {
		return 0
	}
	v, err := r.dec.ReadUint8()
	if err != nil {
		r.fail(field, err)
	}
	return v
}

func (r *reader) boolean(field string) bool {
	switch v := r.u8(field); v {
	case 0:
		return false
	case 1:
		return true
	default:
		r.fail(field, fmt.Errorf("invalid bool byte %d", v))
		return false
	}
}

func (r *reader) option(field string) bool {
	return r.boolean(field + ".option")
}

func (r *reader) u16(field string) uint16 {
	if r.err != nil {
		return 0
	}
	v, err := r.dec.ReadUint16(binary.LittleEndian)
	if err != nil {
		r.fail(field, err)
	}
	return v
}

func (r *reader) u32(field string) uint32 {
	if r.err != nil {
		return 0
	}
	v, err := r.dec.ReadUint32(binary.LittleEndian)
	if err != nil {
		r.fail(field, err)
	}
	return v
}

func (r *reader) u64(field string) uint64 {
	if r.err != nil {
		return 0
	}
	v, err := r.dec.ReadUint64(binary.LittleEndian)
	if err != nil {
		r.fail(field, err)
	}
	return v
}

func (r *reader) i64(field string) int64 {
	if r.err != nil {
		return 0
	}
	v, err := r.dec.ReadInt64(binary.LittleEndian)
	if err != nil {
		r.fail(field, err)
	}
	return v
}

func (r *reader) str(field string) string {
	n := r.u32(field + ".len")
	if r.err != nil || n == 0 {
		return ""
	}
	return string(r.bytes(field, int(n)))
}
