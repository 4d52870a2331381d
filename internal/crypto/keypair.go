package crypto

import (
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// FileExistsError is an error when the target key file already exists and is not empty
type FileExistsError struct {
	Path string
}

func (e *FileExistsError) Error() string {
	return fmt.Sprintf("file is not empty: %s", e.Path)
}

// IsFileExistsError checks if error is FileExistsError
func IsFileExistsError(err error) bool {
	var target *FileExistsError
	return errors.As(err, &target)
}

// ReadKeypairFile reads a solana-keygen style key file: a JSON array of 64 byte values.
func ReadKeypairFile(filePath string) ([]byte, error) {
	fileData, err := readNonEmpty(filePath)
	if err != nil {
		return nil, err
	}

	// []byte would expect base64, the keygen format is an int array
	var ints []int
	if err := json.Unmarshal(fileData, &ints); err != nil {
		return nil, fmt.Errorf("invalid keypair file format: %w", err)
	}
	if len(ints) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("unexpected secret key length: got %d, want %d", len(ints), ed25519.PrivateKeySize)
	}

	key := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			clear(key)
			return nil, fmt.Errorf("byte out of range at %d: %d", i, v)
		}
		key[i] = byte(v)
	}
	return key, nil
}

// WriteKeypairFile writes key as a solana-keygen style JSON array with 0600 permissions.
// An existing non-empty file is never overwritten.
func WriteKeypairFile(filePath string, key []byte) error {
	if len(key) != ed25519.PrivateKeySize {
		return fmt.Errorf("unexpected secret key length: got %d, want %d", len(key), ed25519.PrivateKeySize)
	}
	if err := ensureEmpty(filePath); err != nil {
		return err
	}

	ints := make([]int, len(key))
	for i, b := range key {
		ints[i] = int(b)
	}
	data, err := json.Marshal(ints)
	if err != nil {
		return fmt.Errorf("failed to marshal keypair: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func readNonEmpty(filePath string) ([]byte, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file does not exist: %s", filePath)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if fileInfo.Size() == 0 {
		return nil, errors.New("file is empty")
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// Skip UTF-8 BOM if present
	if len(fileData) >= 3 && fileData[0] == 0xEF && fileData[1] == 0xBB && fileData[2] == 0xBF {
		fileData = fileData[3:]
	}
	return fileData, nil
}

func ensureEmpty(filePath string) error {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat file: %w", err)
	}
	if fileInfo.Size() > 0 {
		return &FileExistsError{Path: filePath}
	}
	return nil
}
