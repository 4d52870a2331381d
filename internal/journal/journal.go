// Package journal records mint operations per idempotency key so that a retried
// request resumes where the previous attempt stopped.
package journal

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInFlight is returned when another request holds the lease for the key.
	ErrInFlight = errors.New("operation already in progress")
	// ErrKeyMismatch is returned when the key was first used with a different buyer or quantity.
	ErrKeyMismatch = errors.New("idempotency key reused with different parameters")
	// ErrLeaseLost is returned by Save when the caller no longer holds the lease for the key.
	ErrLeaseLost = errors.New("idempotency key lease lost")
)

// State of a whole operation.
type State string

const (
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// Step of a single unit. Steps only move forward.
type Step string

const (
	StepPending   Step = "pending"   // mint address recorded, transaction may or may not have landed
	StepMinted    Step = "minted"    // mint confirmed, token held by the minting owner
	StepDelivered Step = "delivered" // token held by the buyer
)

// Unit is one NFT of an operation.
type Unit struct {
	Index             int    `json:"index"`
	Step              Step   `json:"step"`
	MintAddress       string `json:"mintAddress"`
	MintSignature     string `json:"mintSignature,omitempty"`
	TransferSignature string `json:"transferSignature,omitempty"`
}

// Operation is the journal entry of one mint request.
type Operation struct {
	Key       string    `json:"key"`
	Buyer     string    `json:"buyer"`
	Quantity  int       `json:"quantity"`
	State     State     `json:"state"`
	Units     []Unit    `json:"units"`
	LastError string    `json:"lastError,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	lease string // token of the lease the operation was acquired under
}

// Store persists operations and serializes requests per key.
type Store interface {
	// Acquire loads or creates the operation for key and takes its lease.
	// The returned release func must be called once the request is done.
	Acquire(ctx context.Context, key, buyer string, quantity int) (*Operation, func(), error)
	// Save writes the operation back. Callers save after every step transition.
	// It fails with ErrLeaseLost once another request has taken over the key.
	Save(ctx context.Context, op *Operation) error
}

func newOperation(key, buyer string, quantity int, now time.Time) *Operation {
	return &Operation{
		Key:       key,
		Buyer:     buyer,
		Quantity:  quantity,
		State:     StateInProgress,
		Units:     []Unit{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Matches reports whether a repeated request carries the same parameters.
func (o *Operation) Matches(buyer string, quantity int) bool {
	return o.Buyer == buyer && o.Quantity == quantity
}

// Delivered returns the units that reached the buyer, in index order.
func (o *Operation) Delivered() []Unit {
	out := make([]Unit, 0, len(o.Units))
	for _, u := range o.Units {
		if u.Step == StepDelivered {
			out = append(out, u)
		}
	}
	return out
}

// Outstanding returns how many units still need supply from the candy machine.
// Pending units count, their mint may have to be retried.
func (o *Operation) Outstanding() int {
	n := o.Quantity
	for _, u := range o.Units {
		if u.Step == StepMinted || u.Step == StepDelivered {
			n--
		}
	}
	return max(n, 0)
}

// Unit returns the unit with index i, appending a fresh pending slot when it does not exist yet.
func (o *Operation) Unit(i int) *Unit {
	for len(o.Units) <= i {
		o.Units = append(o.Units, Unit{Index: len(o.Units)})
	}
	return &o.Units[i]
}

func (o *Operation) clone() *Operation {
	c := *o
	c.Units = append([]Unit(nil), o.Units...)
	return &c
}
