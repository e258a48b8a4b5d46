package token

import (
	"encoding/base64"
	"testing"
)

func newTestCipher(t *testing.T) *Cipher {
	t.Helper()
	c, err := NewCipher("unit-test-secret", "unit-test-salt")
	if err != nil {
		t.Fatalf("NewCipher failed: %v", err)
	}
	return c
}

// TestEncryptDecryptRoundTrip checks payloads survive a round trip.
func TestEncryptDecryptRoundTrip(t *testing.T) {
	c := newTestCipher(t)

	nonce, err := NewNonce()
	if err != nil {
		t.Fatal(err)
	}
	in := Payload{FileID: 42, UserID: 7, Nonce: nonce}

	opaque, err := c.Encrypt(in)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if opaque == "" {
		t.Fatal("empty token")
	}

	out, err := c.Decrypt(opaque)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: got %+v want %+v", out, in)
	}
}

// TestDecryptRejectsTamperedToken flips bytes of a valid token and expects
// every variant to fail authentication.
func TestDecryptRejectsTamperedToken(t *testing.T) {
	c := newTestCipher(t)

	opaque, err := c.Encrypt(Payload{FileID: 1, UserID: 2, Nonce: "n"})
	if err != nil {
		t.Fatal(err)
	}
	raw, err := base64.RawURLEncoding.DecodeString(opaque)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < len(raw); i++ {
		tampered := make([]byte, len(raw))
		copy(tampered, raw)
		tampered[i] ^= 0x01
		bad := base64.RawURLEncoding.EncodeToString(tampered)
		if _, err := c.Decrypt(bad); err != ErrInvalidToken {
			t.Fatalf("byte %d: expected ErrInvalidToken, got %v", i, err)
		}
	}
}

// TestDecryptRejectsGarbage covers non-base64 and too-short inputs.
func TestDecryptRejectsGarbage(t *testing.T) {
	c := newTestCipher(t)

	for _, bad := range []string{"", "!!!not base64!!!", "YQ", "aGVsbG8"} {
		if _, err := c.Decrypt(bad); err != ErrInvalidToken {
			t.Fatalf("input %q: expected ErrInvalidToken, got %v", bad, err)
		}
	}
}

// TestDecryptRejectsForeignKey checks tokens from one key fail under another.
func TestDecryptRejectsForeignKey(t *testing.T) {
	c1 := newTestCipher(t)
	c2, err := NewCipher("another-secret", "unit-test-salt")
	if err != nil {
		t.Fatal(err)
	}

	opaque, err := c1.Encrypt(Payload{FileID: 1, UserID: 2, Nonce: "n"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c2.Decrypt(opaque); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

// TestEncryptUniqueness checks two encryptions of the same payload never
// produce the same token.
func TestEncryptUniqueness(t *testing.T) {
	c := newTestCipher(t)
	p := Payload{FileID: 5, UserID: 6, Nonce: "same"}

	a, err := c.Encrypt(p)
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.Encrypt(p)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatal("two tokens for the same payload are identical")
	}
}

// TestNewCipherEmptySecret rejects an empty secret.
func TestNewCipherEmptySecret(t *testing.T) {
	if _, err := NewCipher("", "salt"); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
