package cipher

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	cases := [][]byte{
		[]byte(""),
		[]byte("a"),
		[]byte("exactly16bytes!!"),
		bytes.Repeat([]byte("eet"), 1000),
	}

	for _, plaintext := range cases {
		ciphertext, err := Encrypt(plaintext, "correct horse battery staple")
		require.NoError(t, err)

		got, err := Decrypt(ciphertext, "correct horse battery staple")
		require.NoError(t, err)
		require.Equal(t, plaintext, got)
	}
}

func TestEncryptIsRandomized(t *testing.T) {
	plaintext := []byte("same input twice")

	c1, err := Encrypt(plaintext, "pw")
	require.NoError(t, err)
	c2, err := Encrypt(plaintext, "pw")
	require.NoError(t, err)

	require.NotEqual(t, c1, c2, "salt/IV should differ between calls")
}

func TestDecryptWrongPassphraseFails(t *testing.T) {
	ciphertext, err := Encrypt([]byte("secret payload"), "right")
	require.NoError(t, err)

	_, err = Decrypt(ciphertext, "wrong")
	require.Error(t, err)
}

func TestDecryptRejectsShortInput(t *testing.T) {
	_, err := Decrypt([]byte{1, 2, 3}, "pw")
	require.Error(t, err)
}

func TestDeriveKeyDeterministic(t *testing.T) {
	salt := []byte("0123456789abcdef")

	k1 := DeriveKey("passphrase", salt)
	k2 := DeriveKey("passphrase", salt)
	require.Equal(t, k1, k2)

	k3 := DeriveKey("different", salt)
	require.NotEqual(t, k1, k3)
}
