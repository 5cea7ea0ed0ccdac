package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// SecretAlgorithm identifies the key derivation and cipher of an EncryptedSecret.
const SecretAlgorithm = "PBKDF2-SHA256/AES-GCM"

const (
	pbkdf2Iterations = 150_000
	keyLength        = 32
	saltLength       = 16
	nonceLength      = 12
)

// ErrSecretDecrypt is returned when the passphrase is wrong or the blob was tampered with.
var ErrSecretDecrypt = errors.New("failed to decrypt secret")

// EncryptedSecret is a passphrase-protected value as stored in the settings file.
type EncryptedSecret struct {
	Alg        string `json:"alg" validate:"required,eq=PBKDF2-SHA256/AES-GCM"`
	PayloadB64 string `json:"payloadB64" validate:"required,base64"`
	IVB64      string `json:"ivB64" validate:"required,base64"`
	SaltB64    string `json:"saltB64" validate:"required,base64"`
}

// EncryptSecret seals secret with a key derived from passphrase.
func EncryptSecret(secret, passphrase string) (*EncryptedSecret, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	nonce := make([]byte, nonceLength)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return nil, err
	}
	payload := gcm.Seal(nil, nonce, []byte(secret), nil)

	return &EncryptedSecret{
		Alg:        SecretAlgorithm,
		PayloadB64: base64.StdEncoding.EncodeToString(payload),
		IVB64:      base64.StdEncoding.EncodeToString(nonce),
		SaltB64:    base64.StdEncoding.EncodeToString(salt),
	}, nil
}

// DecryptSecret opens blob with passphrase. Any authentication failure is
// reported as ErrSecretDecrypt.
func DecryptSecret(blob *EncryptedSecret, passphrase string) (string, error) {
	if blob == nil {
		return "", fmt.Errorf("%w: no secret stored", ErrSecretDecrypt)
	}
	if blob.Alg != SecretAlgorithm {
		return "", fmt.Errorf("%w: unsupported algorithm %q", ErrSecretDecrypt, blob.Alg)
	}

	salt, err := base64.StdEncoding.DecodeString(blob.SaltB64)
	if err != nil {
		return "", fmt.Errorf("%w: bad salt encoding", ErrSecretDecrypt)
	}
	nonce, err := base64.StdEncoding.DecodeString(blob.IVB64)
	if err != nil || len(nonce) != nonceLength {
		return "", fmt.Errorf("%w: bad iv", ErrSecretDecrypt)
	}
	payload, err := base64.StdEncoding.DecodeString(blob.PayloadB64)
	if err != nil {
		return "", fmt.Errorf("%w: bad payload encoding", ErrSecretDecrypt)
	}

	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return "", err
	}
	plain, err := gcm.Open(nil, nonce, payload, nil)
	if err != nil {
		return "", ErrSecretDecrypt
	}
	return string(plain), nil
}

func newGCM(passphrase string, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(passphrase), salt, pbkdf2Iterations, keyLength, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}
