// Package token encrypts download-link claims into opaque URL-safe strings.
package token

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"

	"golang.org/x/crypto/argon2"
)

// ErrInvalidToken is returned for anything that fails to decrypt cleanly:
// bad base64, too-short input, a failed auth tag or malformed claims. The
// sub-cases are deliberately not distinguished.
var ErrInvalidToken = errors.New("invalid token")

// Payload is the claim set sealed inside a download token. Nonce is a fresh
// random value per issuance so two tokens for the same file and user never
// serialize to the same plaintext.
type Payload struct {
	FileID uint64 `json:"file_id"`
	UserID uint64 `json:"user_id"`
	Nonce  string `json:"nonce"`
}

// Cipher performs authenticated encryption of link payloads. Build one at
// startup and pass it by reference; it holds no mutable state.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher derives a 256-bit AES key from the configured secret with
// argon2id and returns a Cipher sealed around AES-GCM.
func NewCipher(secret, salt string) (*Cipher, error) {
	if secret == "" {
		return nil, errors.New("empty cipher secret")
	}
	key := argon2.IDKey([]byte(secret), []byte(salt), 1, 64*1024, 4, 32)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt seals the payload and returns a URL-safe token string. The GCM
// nonce is random per call and prepended to the ciphertext.
func (c *Cipher) Encrypt(p Payload) (string, error) {
	plaintext, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := c.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Every failure mode collapses to ErrInvalidToken.
func (c *Cipher) Decrypt(token string) (Payload, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Payload{}, ErrInvalidToken
	}
	nonceSize := c.aead.NonceSize()
	if len(raw) < nonceSize {
		return Payload{}, ErrInvalidToken
	}
	plaintext, err := c.aead.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return Payload{}, ErrInvalidToken
	}
	var p Payload
	if err := json.Unmarshal(plaintext, &p); err != nil {
		return Payload{}, ErrInvalidToken
	}
	return p, nil
}

// NewNonce returns a random value for Payload.Nonce.
func NewNonce() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
