package candymachine

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
)

// machineBytes builds CandyMachine account data in borsh layout.
type machineBytes struct {
	bytes.Buffer
}

func (b *machineBytes) u8(v uint8)   { b.WriteByte(v) }
func (b *machineBytes) u16(v uint16) { _ = binary.Write(b, binary.LittleEndian, v) }
func (b *machineBytes) u32(v uint32) { _ = binary.Write(b, binary.LittleEndian, v) }
func (b *machineBytes) u64(v uint64) { _ = binary.Write(b, binary.LittleEndian, v) }
func (b *machineBytes) i64(v int64)  { _ = binary.Write(b, binary.LittleEndian, v) }
func (b *machineBytes) key(k solana.PublicKey) {
	b.Write(k.Bytes())
}
func (b *machineBytes) str(s string) {
	b.u32(uint32(len(s)))
	b.WriteString(s)
}

type fixture struct {
	redeemed, available uint64
	tokenStandard       uint8
	creators            int
	configLines         bool
	hidden              bool
}

func encodeMachine(f fixture) []byte {
	var b machineBytes
	b.Write(AccountDiscriminator[:])
	b.u8(1) // version
	b.u8(f.tokenStandard)
	b.Write(make([]byte, 6))
	b.key(solana.NewWallet().PublicKey()) // authority
	b.key(solana.NewWallet().PublicKey()) // mint authority
	b.key(solana.NewWallet().PublicKey()) // collection mint
	b.u64(f.redeemed)
	b.u64(f.available)
	b.str("NEON")
	b.u16(500)
	b.u64(0)
	b.u8(1) // is_mutable
	b.u32(uint32(f.creators))
	for i := 0; i < f.creators; i++ {
		b.key(solana.NewWallet().PublicKey())
		b.u8(1)
		b.u8(100)
	}
	if f.configLines {
		b.u8(1)
		b.str("Neon #")
		b.u32(4)
		b.str("https://arweave.net/")
		b.u32(43)
		b.u8(0)
	} else {
		b.u8(0)
	}
	if f.hidden {
		b.u8(1)
		b.str("Neon Pack")
		b.str("https://example.com/pack.json")
		b.Write(make([]byte, 32))
	} else {
		b.u8(0)
	}
	// trailing config lines are ignored
	b.Write(make([]byte, 64))
	return b.Bytes()
}

func TestDecode(t *testing.T) {
	addr := solana.NewWallet().PublicKey()

	m, err := Decode(addr, encodeMachine(fixture{redeemed: 7, available: 30, creators: 2, configLines: true}))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if !m.Address.Equals(addr) {
		t.Fatalf("unexpected address %s", m.Address)
	}
	if m.Version != 1 || m.TokenStandard != TokenStandardNonFungible {
		t.Fatalf("unexpected version %d standard %d", m.Version, m.TokenStandard)
	}
	if m.ItemsRedeemed != 7 || m.ItemsAvailable != 30 {
		t.Fatalf("unexpected counts %d/%d", m.ItemsRedeemed, m.ItemsAvailable)
	}
	if m.Remaining() != 23 || m.Minted() != 7 {
		t.Fatalf("unexpected remaining %d minted %d", m.Remaining(), m.Minted())
	}
	if m.Symbol != "NEON" || m.SellerFeeBasisPoints != 500 || !m.IsMutable {
		t.Fatalf("unexpected data %+v", m)
	}
	if len(m.Creators) != 2 || m.Creators[0].Share != 100 || !m.Creators[1].Verified {
		t.Fatalf("unexpected creators %+v", m.Creators)
	}
	if m.MintAuthority.IsZero() || m.CollectionMint.IsZero() {
		t.Fatal("expected mint authority and collection mint")
	}
	if m.HiddenSettings {
		t.Fatal("unexpected hidden settings")
	}
}

func TestDecodeHiddenSettings(t *testing.T) {
	m, err := Decode(solana.PublicKey{}, encodeMachine(fixture{available: 5, hidden: true}))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !m.HiddenSettings {
		t.Fatal("expected hidden settings")
	}
}

func TestDecodeRejects(t *testing.T) {
	if _, err := Decode(solana.PublicKey{}, []byte{1, 2, 3}); !errors.Is(err, ErrNotCandyMachine) {
		t.Fatalf("expected ErrNotCandyMachine got %v", err)
	}

	wrong := encodeMachine(fixture{available: 1})
	wrong[0] ^= 0xff
	if _, err := Decode(solana.PublicKey{}, wrong); !errors.Is(err, ErrNotCandyMachine) {
		t.Fatalf("expected ErrNotCandyMachine got %v", err)
	}

	full := encodeMachine(fixture{available: 1})
	if _, err := Decode(solana.PublicKey{}, full[:80]); err == nil {
		t.Fatal("expected error for truncated data")
	}

	if _, err := Decode(solana.PublicKey{}, encodeMachine(fixture{available: 1, creators: 6})); err == nil {
		t.Fatal("expected error for too many creators")
	}
}

func TestSupported(t *testing.T) {
	guarded := &Machine{Guard: &Guard{}}
	if err := guarded.Supported(); err != nil {
		t.Fatalf("Supported: %v", err)
	}

	cases := map[string]*Machine{
		"no guard":     {},
		"programmable": {TokenStandard: 4, Guard: &Guard{}},
		"token guard":  {Guard: &Guard{Unsupported: []string{"tokenPayment"}}},
	}
	for name, m := range cases {
		if err := m.Supported(); !errors.Is(err, ErrUnsupported) {
			t.Fatalf("%s: expected ErrUnsupported got %v", name, err)
		}
	}
}

func TestMachineCounts(t *testing.T) {
	over := &Machine{ItemsRedeemed: 12, ItemsAvailable: 10}
	if over.Remaining() != 0 {
		t.Fatalf("expected 0 remaining got %d", over.Remaining())
	}
	if over.Minted() != 10 {
		t.Fatalf("expected minted clamped to 10 got %d", over.Minted())
	}

	maximum := uint64(5)
	capped := &Machine{ItemsRedeemed: 3, ItemsAvailable: 10, Guard: &Guard{RedeemedMaximum: &maximum}}
	if capped.Remaining() != 2 {
		t.Fatalf("expected redeemedAmount to cap remaining at 2 got %d", capped.Remaining())
	}
}

func TestPrice(t *testing.T) {
	if _, ok := (&Machine{}).Price(); ok {
		t.Fatal("machine without guard has no price")
	}
	if _, ok := (&Machine{Guard: &Guard{}}).Price(); ok {
		t.Fatal("guard without solPayment has no price")
	}
	m := &Machine{Guard: &Guard{SolPayment: &SolPayment{Lamports: 500_000_000}}}
	if price, ok := m.Price(); !ok || price != 500_000_000 {
		t.Fatalf("unexpected price %d %v", price, ok)
	}
}

func TestSaleStarted(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	if !(&Machine{}).SaleStarted(now) {
		t.Fatal("no start date should mean started")
	}
	if (&Machine{Guard: &Guard{StartDate: &future}}).SaleStarted(now) {
		t.Fatal("future start date should not be started")
	}
	if !(&Machine{Guard: &Guard{StartDate: &past}}).SaleStarted(now) {
		t.Fatal("past start date should be started")
	}
	if !(&Machine{Guard: &Guard{StartDate: &now}}).SaleStarted(now) {
		t.Fatal("start date equal to now should be started")
	}
}

func TestSaleEnded(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	if (&Machine{}).SaleEnded(now) {
		t.Fatal("no end date should mean open")
	}
	if (&Machine{Guard: &Guard{EndDate: &future}}).SaleEnded(now) {
		t.Fatal("future end date should be open")
	}
	if !(&Machine{Guard: &Guard{EndDate: &past}}).SaleEnded(now) {
		t.Fatal("past end date should be ended")
	}
}
