package security

import (
	"errors"
	"testing"
)

var testCipherKey = []byte("0123456789abcdef0123456789abcdef")

func TestNewCredentialCipher_KeyLength(t *testing.T) {
	for _, key := range [][]byte{nil, []byte("short"), make([]byte, 31), make([]byte, 33)} {
		if _, err := NewCredentialCipher(key); !errors.Is(err, ErrInvalidCipherKey) {
			t.Errorf("NewCredentialCipher(len %d): got %v, want ErrInvalidCipherKey", len(key), err)
		}
	}
	if _, err := NewCredentialCipher(testCipherKey); err != nil {
		t.Fatalf("NewCredentialCipher: %v", err)
	}
}

func TestCredentialCipher_Deterministic(t *testing.T) {
	c, err := NewCredentialCipher(testCipherKey)
	if err != nil {
		t.Fatalf("NewCredentialCipher: %v", err)
	}
	a, err := c.Encrypt("hunter2")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	b, err := c.Encrypt("hunter2")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if a != b {
		t.Errorf("identical plaintexts encrypted differently: %q vs %q", a, b)
	}

	other, err := c.Encrypt("hunter3")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if other == a {
		t.Error("different plaintexts produced identical ciphertext")
	}
}

func TestCredentialCipher_RoundTrip(t *testing.T) {
	c, err := NewCredentialCipher(testCipherKey)
	if err != nil {
		t.Fatalf("NewCredentialCipher: %v", err)
	}
	for _, plain := range []string{"hunter2", "", "päss wörd", "a-fairly-long-password-with-symbols-!@#$%"} {
		enc, err := c.Encrypt(plain)
		if err != nil {
			t.Fatalf("Encrypt(%q): %v", plain, err)
		}
		dec, err := c.Decrypt(enc, plain)
		if err != nil {
			t.Fatalf("Decrypt(%q): %v", plain, err)
		}
		if dec != plain {
			t.Errorf("round trip: got %q, want %q", dec, plain)
		}
	}
}

func TestCredentialCipher_DecryptBadBase64(t *testing.T) {
	c, err := NewCredentialCipher(testCipherKey)
	if err != nil {
		t.Fatalf("NewCredentialCipher: %v", err)
	}
	if _, err := c.Decrypt("not base64 at all!!!", "x"); err == nil {
		t.Error("Decrypt with invalid base64 should return error")
	}
}
