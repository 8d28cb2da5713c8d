package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrInvalidCipherKey is returned when the credential cipher key is not 32 bytes.
var ErrInvalidCipherKey = errors.New("credential cipher key must be 32 bytes")

// CredentialCipher produces deterministic AES-256-CTR ciphertexts for stored
// credentials. The IV is derived from the plaintext (first 16 bytes of its
// SHA-256), so identical plaintexts always encrypt to identical ciphertexts
// and the stored value can be compared directly on login.
type CredentialCipher struct {
	key []byte
}

// NewCredentialCipher returns a cipher keyed with the given 32-byte secret.
func NewCredentialCipher(key []byte) (*CredentialCipher, error) {
	if len(key) != 32 {
		return nil, ErrInvalidCipherKey
	}
	k := make([]byte, 32)
	copy(k, key)
	return &CredentialCipher{key: k}, nil
}

func plaintextIV(plain string) [16]byte {
	sum := sha256.Sum256([]byte(plain))
	var iv [16]byte
	copy(iv[:], sum[:16])
	return iv
}

// Encrypt returns the URL-safe base64 ciphertext of plain. The IV is not
// part of the output; Decrypt re-derives it from the original plaintext.
func (c *CredentialCipher) Encrypt(plain string) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}
	iv := plaintextIV(plain)
	out := make([]byte, len(plain))
	cipher.NewCTR(block, iv[:]).XORKeyStream(out, []byte(plain))
	return base64.URLEncoding.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. original supplies the plaintext the IV was
// derived from; for a correct ciphertext this is the decryption result itself.
func (c *CredentialCipher) Decrypt(encoded, original string) (string, error) {
	data, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode ciphertext: %w", err)
	}
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}
	iv := plaintextIV(original)
	out := make([]byte, len(data))
	cipher.NewCTR(block, iv[:]).XORKeyStream(out, data)
	return string(out), nil
}
