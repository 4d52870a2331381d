package model

// EncryptedKeyFile is the on-disk layout of a .cwt mint-authority key file.
// Address and QR are readable without the password.
type EncryptedKeyFile struct {
	Network    string `json:"network"`
	Address    string `json:"address"`
	QR         string `json:"QR"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	CipherText string `json:"cipherText"`
}

// KeyMaterial is the sealed payload of an EncryptedKeyFile.
type KeyMaterial struct {
	PrivateKey []byte `json:"privateKey"` // 64-byte ed25519 key, base64 in JSON
	CreatedAt  string `json:"createdAt"`
}
