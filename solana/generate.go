package solana

import (
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/AlexZinkM/pack-mint/internal/crypto"
	"github.com/AlexZinkM/pack-mint/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/skip2/go-qrcode"
)

const (
	networkSolana = "solana"
)

// GenerateKeyFile generates a new mint-authority keypair and saves it to filePath.
// A .cwt path is encrypted with password; any other path is written as a JSON byte array.
// Returns the generated public address on success.
// password must be []byte for security (caller should zero it after use)
func GenerateKeyFile(filePath string, password []byte) (address string, err error) {
	wallet := solana.NewWallet()
	defer clear(wallet.PrivateKey)

	if err := writeKeyFile(filePath, wallet.PrivateKey, password); err != nil {
		return "", err
	}
	return wallet.PublicKey().String(), nil
}

// ConvertKeyFile encrypts an existing JSON key file into a .cwt file.
func ConvertKeyFile(srcPath, dstPath string, password []byte) (address string, err error) {
	if !isCWT(dstPath) {
		return "", fmt.Errorf("file must have .cwt extension")
	}

	key, err := crypto.ReadKeypairFile(srcPath)
	if err != nil {
		return "", fmt.Errorf("failed to read key file: %w", err)
	}
	defer clear(key)

	if err := writeKeyFile(dstPath, solana.PrivateKey(key), password); err != nil {
		return "", err
	}
	return solana.PrivateKey(key).PublicKey().String(), nil
}

func writeKeyFile(filePath string, key solana.PrivateKey, password []byte) error {
	if !isCWT(filePath) {
		return crypto.WriteKeypairFile(filePath, key)
	}

	address := key.PublicKey().String()
	qrCode, err := generateQRCode(address)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	// PrivateKey stored as []byte (will be base64 encoded in JSON)
	walletData := &model.KeyMaterial{
		PrivateKey: key,
		CreatedAt:  time.Now().Format(time.RFC3339),
	}

	if err := crypto.EncryptWallet(filePath, networkSolana, address, qrCode, walletData, password); err != nil {
		return fmt.Errorf("failed to encrypt key file: %w", err)
	}
	return nil
}

func isCWT(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".cwt")
}

// generateQRCode generates QR code of address in base64
func generateQRCode(address string) (string, error) {
	png, err := qrcode.Encode(address, qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
