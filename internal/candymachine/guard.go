package candymachine

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// GuardAccountDiscriminator prefixes every CandyGuard account.
var GuardAccountDiscriminator = anchorDiscriminator("account:CandyGuard")

// ErrNotCandyGuard is returned when the account data does not start with the CandyGuard discriminator.
var ErrNotCandyGuard = errors.New("account is not a candy guard")

// SolPayment charges Lamports to the payer on every mint, paid to Destination.
type SolPayment struct {
	Lamports    uint64
	Destination solana.PublicKey
}

// Guard is the default guard set of a Candy Guard account.
type Guard struct {
	Address   solana.PublicKey
	Base      solana.PublicKey
	Bump      uint8
	Authority solana.PublicKey

	BotTax          *uint64 // lamports charged on a failed mint
	SolPayment      *SolPayment
	StartDate       *time.Time
	EndDate         *time.Time
	RedeemedMaximum *uint64

	Groups int
	// Unsupported names every enabled guard that needs mint arguments or extra accounts.
	Unsupported []string
}

// guardSlots lists the default guard set in feature-bit order with the fixed size of each slot.
var guardSlots = []struct {
	name string
	size int
}{
	{"botTax", 9},
	{"solPayment", 40},
	{"tokenPayment", 72},
	{"startDate", 8},
	{"thirdPartySigner", 32},
	{"tokenGate", 40},
	{"gatekeeper", 33},
	{"endDate", 8},
	{"allowList", 32},
	{"mintLimit", 3},
	{"nftPayment", 64},
	{"redeemedAmount", 8},
	{"addressGate", 32},
	{"nftGate", 32},
	{"nftBurn", 32},
	{"tokenBurn", 40},
	{"freezeSolPayment", 40},
	{"freezeTokenPayment", 72},
	{"programGate", 164},
	{"allocation", 5},
	{"token2022Payment", 72},
}

const (
	guardBotTax = iota
	guardSolPayment
	_
	guardStartDate
	_
	_
	_
	guardEndDate
	_
	_
	_
	guardRedeemedAmount
)

// DecodeGuard parses a CandyGuard account: the anchor header followed by the
// feature-flagged default guard set and the group count.
func DecodeGuard(address solana.PublicKey, data []byte) (*Guard, error) {
	if len(data) < len(GuardAccountDiscriminator) || !bytes.Equal(data[:len(GuardAccountDiscriminator)], GuardAccountDiscriminator[:]) {
		return nil, ErrNotCandyGuard
	}

	r := &reader{dec: bin.NewBorshDecoder(data[len(GuardAccountDiscriminator):])}
	g := &Guard{Address: address}
	g.Base = r.pubkey("base")
	g.Bump = r.u8("bump")
	g.Authority = r.pubkey("authority")

	features := r.u64("features")
	for bit := 0; bit < 64 && r.err == nil; bit++ {
		if features&(1<<bit) == 0 {
			continue
		}
		if bit >= len(guardSlots) {
			// slot size unknown, nothing after it can be located
			g.Unsupported = append(g.Unsupported, fmt.Sprintf("guard#%d", bit))
			return g, nil
		}

		slot := guardSlots[bit]
		switch bit {
		case guardBotTax:
			lamports := r.u64("botTax.lamports")
			r.boolean("botTax.last_instruction")
			g.BotTax = &lamports
		case guardSolPayment:
			g.SolPayment = &SolPayment{
				Lamports:    r.u64("solPayment.lamports"),
				Destination: r.pubkey("solPayment.destination"),
			}
		case guardStartDate:
			ts := time.Unix(r.i64("startDate.date"), 0).UTC()
			g.StartDate = &ts
		case guardEndDate:
			ts := time.Unix(r.i64("endDate.date"), 0).UTC()
			g.EndDate = &ts
		case guardRedeemedAmount:
			maximum := r.u64("redeemedAmount.maximum")
			g.RedeemedMaximum = &maximum
		default:
			r.bytes(slot.name, slot.size)
			g.Unsupported = append(g.Unsupported, slot.name)
		}
	}

	g.Groups = int(r.u32("groups"))
	if r.err != nil {
		return nil, r.err
	}
	if g.Groups > 0 {
		g.Unsupported = append(g.Unsupported, "groups")
	}
	return g, nil
}
