package solana_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/AlexZinkM/pack-mint/internal/authority"
	"github.com/AlexZinkM/pack-mint/internal/crypto"
	packsolana "github.com/AlexZinkM/pack-mint/solana"
)

func TestGenerateKeyFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "authority.json")

	address, err := packsolana.GenerateKeyFile(path, nil)
	if err != nil {
		t.Fatalf("GenerateKeyFile: %v", err)
	}

	auth, err := authority.Load(path, nil)
	if err != nil {
		t.Fatalf("authority.Load: %v", err)
	}
	defer auth.Close()
	if auth.PublicKey().String() != address {
		t.Fatalf("loaded %s, generated %s", auth.PublicKey(), address)
	}

	if _, err := packsolana.GenerateKeyFile(path, nil); !crypto.IsFileExistsError(err) {
		t.Fatalf("expected FileExistsError got %v", err)
	}
}

func TestConvertKeyFileValidation(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "authority.json")
	if _, err := packsolana.GenerateKeyFile(src, nil); err != nil {
		t.Fatalf("GenerateKeyFile: %v", err)
	}

	if _, err := packsolana.ConvertKeyFile(src, filepath.Join(dir, "out.json"), []byte("pw")); err == nil {
		t.Fatal("expected error for non-.cwt destination")
	}
	if _, err := packsolana.ConvertKeyFile(filepath.Join(dir, "missing.json"), filepath.Join(dir, "out.cwt"), []byte("pw")); err == nil {
		t.Fatal("expected error for missing source")
	}

	existing := filepath.Join(dir, "existing.cwt")
	if err := os.WriteFile(existing, []byte("{}"), 0600); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	if _, err := packsolana.ConvertKeyFile(src, existing, []byte("pw")); !crypto.IsFileExistsError(err) {
		t.Fatalf("expected FileExistsError got %v", err)
	}
}
