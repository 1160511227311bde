package identity

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/goeet/eet/section"
)

func writeTestIdentity(t *testing.T) (certPath, keyPath string, cert *x509.Certificate) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "eet test signer"},
		NotBefore:    time.Unix(0, 0),
		NotAfter:     time.Unix(0, 0).Add(100 * 365 * 24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)

	cert, err = x509.ParseCertificate(der)
	require.NoError(t, err)

	dir := t.TempDir()
	certPath = filepath.Join(dir, "signer.pem")
	keyPath = filepath.Join(dir, "signer.key")

	require.NoError(t, os.WriteFile(certPath, pem.EncodeToMemory(&pem.Block{
		Type: "CERTIFICATE", Bytes: der,
	}), 0o600))

	require.NoError(t, os.WriteFile(keyPath, pem.EncodeToMemory(&pem.Block{
		Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key),
	}), 0o600))

	return certPath, keyPath, cert
}

func TestOpenLoadsCertAndKey(t *testing.T) {
	certPath, keyPath, cert := writeTestIdentity(t)

	id, err := Open(certPath, keyPath, nil)
	require.NoError(t, err)
	require.Equal(t, cert.Raw, id.Cert.Raw)
	require.NotNil(t, id.Key)
}

func TestOpenRejectsMissingFiles(t *testing.T) {
	_, _, _ = writeTestIdentity(t)

	_, err := Open("/no/such/cert.pem", "/no/such/key.pem", nil)
	require.Error(t, err)
}

func TestSignVerifyRoundTrip(t *testing.T) {
	certPath, keyPath, _ := writeTestIdentity(t)

	id, err := Open(certPath, keyPath, nil)
	require.NoError(t, err)

	payload := []byte("container payload bytes")

	trailer, err := id.Sign(payload)
	require.NoError(t, err)
	require.NotEmpty(t, trailer.Signature)
	require.Equal(t, id.Cert.Raw, trailer.CertDER)

	require.NoError(t, Verify(payload, trailer))
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	certPath, keyPath, _ := writeTestIdentity(t)

	id, err := Open(certPath, keyPath, nil)
	require.NoError(t, err)

	payload := []byte("container payload bytes")

	trailer, err := id.Sign(payload)
	require.NoError(t, err)

	tampered := append([]byte(nil), payload...)
	tampered[0] ^= 0xFF

	require.Error(t, Verify(tampered, trailer))
}

func TestVerifyRejectsTamperedTrailer(t *testing.T) {
	certPath, keyPath, _ := writeTestIdentity(t)

	id, err := Open(certPath, keyPath, nil)
	require.NoError(t, err)

	payload := []byte("container payload bytes")

	trailer, err := id.Sign(payload)
	require.NoError(t, err)

	trailer.Signature[len(trailer.Signature)-1] ^= 0xFF

	require.Error(t, Verify(payload, trailer))
}

func TestTrailerRoundTripsThroughBytes(t *testing.T) {
	certPath, keyPath, _ := writeTestIdentity(t)

	id, err := Open(certPath, keyPath, nil)
	require.NoError(t, err)

	trailer, err := id.Sign([]byte("payload"))
	require.NoError(t, err)

	encoded := trailer.Bytes()
	require.NotEmpty(t, encoded)

	parsed, err := section.ParseSignatureTrailer(encoded)
	require.NoError(t, err)
	require.Equal(t, trailer, parsed)
}
