// Generates a mint-authority key file, or converts a JSON key file into an encrypted .cwt.
// Usage:
//
//	go run ./cmd/keygen -out ./wallet/authority.json
//	go run ./cmd/keygen -out ./wallet/authority.cwt
//	go run ./cmd/keygen -from ./wallet/authority.json -out ./wallet/authority.cwt
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlexZinkM/pack-mint/internal/config"
	"github.com/AlexZinkM/pack-mint/internal/crypto"
	"github.com/AlexZinkM/pack-mint/solana"
)

func main() {
	out := flag.String("out", "./wallet/authority.json", "key file to write (.json or .cwt)")
	from := flag.String("from", "", "existing .json key file to encrypt into -out")
	flag.Parse()

	var password []byte
	if strings.EqualFold(filepath.Ext(*out), ".cwt") {
		p, err := readPassword()
		if err != nil {
			fail(err)
		}
		password = p
		defer clear(password)
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0700); err != nil {
		fail(err)
	}

	var (
		address string
		err     error
	)
	if *from != "" {
		address, err = solana.ConvertKeyFile(*from, *out, password)
	} else {
		address, err = solana.GenerateKeyFile(*out, password)
	}
	if err != nil {
		if crypto.IsFileExistsError(err) {
			fail(fmt.Errorf("%s already exists, refusing to overwrite", *out))
		}
		fail(err)
	}

	fmt.Printf("mint authority: %s\nkey file:       %s\n", address, *out)
}

// readPassword takes WALLET_KEYPAIR_PASSWORD or prompts twice.
func readPassword() ([]byte, error) {
	if env := os.Getenv("WALLET_KEYPAIR_PASSWORD"); env != "" {
		return []byte(env), nil
	}

	if err := config.PromptForPassword(); err != nil {
		return nil, err
	}
	first, err := config.KeypairPasswordBytes()
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(os.Stderr, "Repeat password.")
	if err := config.PromptForPassword(); err != nil {
		clear(first)
		return nil, err
	}
	second, err := config.KeypairPasswordBytes()
	config.ClearPassword()
	if err != nil {
		clear(first)
		return nil, err
	}
	defer clear(second)

	if string(first) != string(second) {
		clear(first)
		return nil, fmt.Errorf("passwords do not match")
	}
	return first, nil
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "keygen:", err)
	os.Exit(1)
}
