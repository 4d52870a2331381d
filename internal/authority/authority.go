// Package authority holds the mint-authority keypair as an injected signing capability.
package authority

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/AlexZinkM/pack-mint/internal/crypto"

	"github.com/gagliardetto/solana-go"
)

// ErrClosed is returned when signing with an authority whose key was wiped.
var ErrClosed = errors.New("authority key is closed")

// Authority signs transactions on behalf of the mint authority.
// The key never leaves the value.
type Authority struct {
	mu  sync.RWMutex
	key solana.PrivateKey
	pub solana.PublicKey
}

// New wraps a full 64-byte ed25519 private key. The slice is copied.
func New(key []byte) (*Authority, error) {
	if len(key) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid private key length: got %d, want %d", len(key), ed25519.PrivateKeySize)
	}

	// The second half of a solana key is its public key
	derived := ed25519.PrivateKey(key).Public().(ed25519.PublicKey)
	if !bytes.Equal(derived, key[32:]) {
		return nil, errors.New("private key does not match its public key")
	}

	k := make(solana.PrivateKey, len(key))
	copy(k, key)
	return &Authority{key: k, pub: k.PublicKey()}, nil
}

// Load reads the mint authority from a key file.
// .cwt files are decrypted with password; anything else is read as a keygen JSON array.
func Load(path string, password []byte) (*Authority, error) {
	if strings.EqualFold(filepath.Ext(path), ".cwt") {
		cwt, walletData, err := crypto.DecryptWallet(path, password)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt key file: %w", err)
		}
		defer clear(walletData.PrivateKey)

		a, err := New(walletData.PrivateKey)
		if err != nil {
			return nil, err
		}
		if cwt.Address != "" && cwt.Address != a.PublicKey().String() {
			a.Close()
			return nil, errors.New("private key does not match key file address")
		}
		return a, nil
	}

	key, err := crypto.ReadKeypairFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}
	defer clear(key)
	return New(key)
}

// PublicKey returns the mint authority address.
func (a *Authority) PublicKey() solana.PublicKey {
	return a.pub
}

// SignTransaction signs tx with the authority and any extra keys (e.g. a freshly generated
// mint keypair). The key stays locked against Close until signing is done.
func (a *Authority) SignTransaction(tx *solana.Transaction, extra ...solana.PrivateKey) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if len(a.key) == 0 {
		return ErrClosed
	}

	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(a.pub) {
			return &a.key
		}
		for i := range extra {
			if extra[i].PublicKey().Equals(key) {
				return &extra[i]
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to sign transaction: %w", err)
	}
	return nil
}

// Close wipes the key from memory. It waits for signatures in progress; later ones fail with ErrClosed.
func (a *Authority) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	clear(a.key)
	a.key = nil
}

