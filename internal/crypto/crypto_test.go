package crypto

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AlexZinkM/pack-mint/internal/model"
)

func TestMain(m *testing.M) {
	scryptN = 1 << 10
	os.Exit(m.Run())
}

func newKey(t *testing.T) ed25519.PrivateKey {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return priv
}

func TestKeypairFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "authority.json")
	key := newKey(t)

	if err := WriteKeypairFile(path, key); err != nil {
		t.Fatalf("WriteKeypairFile: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Fatalf("expected 0600 permissions got %v", info.Mode().Perm())
	}

	got, err := ReadKeypairFile(path)
	if err != nil {
		t.Fatalf("ReadKeypairFile: %v", err)
	}
	if !bytes.Equal(got, key) {
		t.Fatal("key read back does not match key written")
	}
}

func TestWriteKeypairFileRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "authority.json")
	if err := os.WriteFile(path, []byte("[1]"), 0600); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	err := WriteKeypairFile(path, newKey(t))
	if !IsFileExistsError(err) {
		t.Fatalf("expected FileExistsError got %v", err)
	}
}

func TestReadKeypairFileRejectsMalformed(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"short.json":   "[1,2,3]",
		"notjson.json": "hello",
		"range.json":   "[" + repeatInts(63, "1") + ",256]",
		"base64.json":  `"AAAA"`,
		"empty.json":   "",
	}
	for name, content := range cases {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		if _, err := ReadKeypairFile(path); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}

	if _, err := ReadKeypairFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestEncryptDecryptWallet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "authority.cwt")
	key := newKey(t)
	password := []byte("correct horse")

	data := &model.KeyMaterial{PrivateKey: key, CreatedAt: time.Now().Format(time.RFC3339)}
	if err := EncryptWallet(path, "solana", "addr", "qr", data, password); err != nil {
		t.Fatalf("EncryptWallet: %v", err)
	}

	address, err := ReadWalletAddress(path)
	if err != nil {
		t.Fatalf("ReadWalletAddress: %v", err)
	}
	if address != "addr" {
		t.Fatalf("expected addr got %s", address)
	}

	cwt, decrypted, err := DecryptWallet(path, password)
	if err != nil {
		t.Fatalf("DecryptWallet: %v", err)
	}
	if cwt.Network != "solana" {
		t.Fatalf("unexpected network %s", cwt.Network)
	}
	if !bytes.Equal(decrypted.PrivateKey, key) {
		t.Fatal("decrypted key does not match")
	}

	if _, _, err := DecryptWallet(path, []byte("wrong")); err == nil || err.Error() != "invalid password" {
		t.Fatalf("expected invalid password error got %v", err)
	}
}

func TestEncryptWalletValidation(t *testing.T) {
	dir := t.TempDir()
	data := &model.KeyMaterial{PrivateKey: newKey(t)}

	if err := EncryptWallet(filepath.Join(dir, "authority.json"), "solana", "a", "", data, []byte("pw")); err == nil {
		t.Fatal("expected extension error")
	}
	if err := EncryptWallet(filepath.Join(dir, "authority.cwt"), "solana", "a", "", data, nil); err == nil {
		t.Fatal("expected empty password error")
	}

	existing := filepath.Join(dir, "existing.cwt")
	if err := os.WriteFile(existing, []byte("{}"), 0600); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	if err := EncryptWallet(existing, "solana", "a", "", data, []byte("pw")); !IsFileExistsError(err) {
		t.Fatalf("expected FileExistsError got %v", err)
	}
}

func repeatInts(n int, v string) string {
	var b bytes.Buffer
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(v)
	}
	return b.String()
}
