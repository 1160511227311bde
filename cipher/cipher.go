// Package cipher implements the container's passphrase-based entry
// encryption: PBKDF2 key derivation, PKCS#7 padding to the AES block
// size, and AES-CFB encrypt/decrypt with a random salt and IV carried
// in-band with the ciphertext.
package cipher

import (
	"crypto/aes"
	stdcipher "crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"github.com/goeet/eet/errs"
	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 16
	keySize    = 32 // AES-256
	kdfIter    = 4096
	blockSize  = aes.BlockSize
	headerSize = saltSize + blockSize
)

// DeriveKey derives a 256-bit key from passphrase and salt via
// PBKDF2-HMAC-SHA256, matching the format's "iterated hash over
// passphrase ∥ salt" key schedule.
func DeriveKey(passphrase string, salt []byte) [keySize]byte {
	derived := pbkdf2.Key([]byte(passphrase), salt, kdfIter, keySize, sha256.New)

	var key [keySize]byte
	copy(key[:], derived)

	return key
}

// Encrypt encrypts plaintext under a key derived from passphrase,
// padding it to the AES block size (PKCS#7) and prefixing the
// ciphertext with a freshly generated salt and IV so Decrypt can
// reverse it from the passphrase alone.
func Encrypt(plaintext []byte, passphrase string) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrEncryptFailed, err)
	}

	iv := make([]byte, blockSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrEncryptFailed, err)
	}

	key := DeriveKey(passphrase, salt)

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrEncryptFailed, err)
	}

	padded := pkcs7Pad(plaintext, blockSize)

	out := make([]byte, headerSize+len(padded))
	copy(out, salt)
	copy(out[saltSize:], iv)

	stream := stdcipher.NewCFBEncrypter(block, iv)
	stream.XORKeyStream(out[headerSize:], padded)

	return out, nil
}

// Decrypt reverses Encrypt, deriving the key from passphrase and the
// salt/IV carried in ciphertext's header, and strips the PKCS#7 padding.
func Decrypt(ciphertext []byte, passphrase string) ([]byte, error) {
	if len(ciphertext) < headerSize {
		return nil, fmt.Errorf("%w: ciphertext too short", errs.ErrDecryptFailed)
	}

	body := ciphertext[headerSize:]
	if len(body) == 0 || len(body)%blockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext is not block-aligned", errs.ErrDecryptFailed)
	}

	salt := ciphertext[:saltSize]
	iv := ciphertext[saltSize:headerSize]

	key := DeriveKey(passphrase, salt)

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrDecryptFailed, err)
	}

	padded := make([]byte, len(body))
	stream := stdcipher.NewCFBDecrypter(block, iv)
	stream.XORKeyStream(padded, body)

	out, err := pkcs7Unpad(padded, blockSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrDecryptFailed, err)
	}

	return out, nil
}

// pkcs7Pad appends padding bytes, each holding the pad length, so the
// result is a multiple of size. A full block of padding is added when
// data is already aligned, so Decrypt can always find a padding byte.
func pkcs7Pad(data []byte, size int) []byte {
	padLen := size - len(data)%size
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)

	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}

	return padded
}

func pkcs7Unpad(data []byte, size int) ([]byte, error) {
	if len(data) == 0 || len(data)%size != 0 {
		return nil, errs.ErrMalformedData
	}

	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > size || padLen > len(data) {
		return nil, errs.ErrMalformedData
	}

	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, errs.ErrMalformedData
		}
	}

	return data[:len(data)-padLen], nil
}
