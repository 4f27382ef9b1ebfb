package adaptive

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

// envelope layout: magic(4) | cipher id(1) | nonce | ciphertext | tag
var envelopeMagic = []byte("RDE1")

const (
	idAESGCM   byte = 1
	idChaCha20 byte = 2
)

// ErrMalformed is returned by Open for data that is not a sealed envelope.
var ErrMalformed = errors.New("adaptive: malformed envelope")

// Seal encrypts plaintext with the preferred cipher and returns a
// self-describing envelope.
func Seal(key, plaintext, additionalData []byte) ([]byte, error) {
	c, err := New(key)
	if err != nil {
		return nil, err
	}

	header := append(append([]byte{}, envelopeMagic...), cipherID(c.Type()))
	aad := append(append([]byte{}, header...), additionalData...)
	ct, err := c.Encrypt(plaintext, aad)
	if err != nil {
		return nil, err
	}
	return append(header, ct...), nil
}

// Open decrypts an envelope produced by Seal. The header is authenticated
// together with additionalData.
func Open(key, envelope, additionalData []byte) ([]byte, error) {
	if len(envelope) < len(envelopeMagic)+1 || !bytes.Equal(envelope[:len(envelopeMagic)], envelopeMagic) {
		return nil, ErrMalformed
	}
	headerLen := len(envelopeMagic) + 1
	header := envelope[:headerLen]

	var t CipherType
	switch header[headerLen-1] {
	case idAESGCM:
		t = CipherAESGCM
	case idChaCha20:
		t = CipherChaCha20
	default:
		return nil, ErrMalformed
	}

	c, err := NewWithType(key, t)
	if err != nil {
		return nil, err
	}
	aad := append(append([]byte{}, header...), additionalData...)
	return c.Decrypt(envelope[headerLen:], aad)
}

// DeriveKey expands secret into a KeySize key with HKDF-SHA256. Different
// info strings yield independent keys from the same secret.
func DeriveKey(secret, salt []byte, info string) ([]byte, error) {
	if len(secret) == 0 {
		return nil, errors.New("adaptive: empty secret")
	}
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, salt, []byte(info)), key); err != nil {
		return nil, err
	}
	return key, nil
}

func cipherID(t CipherType) byte {
	if t == CipherChaCha20 {
		return idChaCha20
	}
	return idAESGCM
}
