// Package identity loads an X.509 certificate and private key and uses
// them to sign and verify container bytes, mirroring Eet.h's
// eet_identity_open/eet_identity_sign/eet_identity_verify trio.
package identity

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"

	"go.mozilla.org/pkcs7"

	"github.com/goeet/eet/errs"
	"github.com/goeet/eet/section"
)

// Identity pairs a loaded certificate with the private key that signs
// on its behalf.
type Identity struct {
	Cert *x509.Certificate
	Key  *rsa.PrivateKey
}

// Open loads a PEM certificate from certPath and a PEM-encoded
// RSA private key (PKCS#1 or PKCS#8) from keyPath. pwdCB is invoked
// only if the key block is passphrase-protected; pass nil when the
// key is known to be in the clear.
func Open(certPath, keyPath string, pwdCB func() string) (*Identity, error) {
	certPEM, err := os.ReadFile(certPath)
	if err != nil {
		return nil, fmt.Errorf("identity: reading certificate: %w", err)
	}

	cert, err := parseCertificate(certPEM)
	if err != nil {
		return nil, fmt.Errorf("identity: %w: %w", errs.ErrX509EncodingFailed, err)
	}

	keyPEM, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("identity: reading private key: %w", err)
	}

	key, err := parsePrivateKey(keyPEM, pwdCB)
	if err != nil {
		return nil, fmt.Errorf("identity: %w: %w", errs.ErrX509EncodingFailed, err)
	}

	return &Identity{Cert: cert, Key: key}, nil
}

func parseCertificate(pemBytes []byte) (*x509.Certificate, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, errs.ErrX509EncodingFailed
	}

	return x509.ParseCertificate(block.Bytes)
}

//nolint:staticcheck // x509.IsEncryptedPEMBlock/DecryptPEMBlock are deprecated
// but remain the only stdlib path for a classic PEM-encrypted (PKCS#1,
// DEK-Info header) key; PKCS#8-encrypted keys never hit this branch.
func parsePrivateKey(pemBytes []byte, pwdCB func() string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, errs.ErrX509EncodingFailed
	}

	der := block.Bytes

	if x509.IsEncryptedPEMBlock(block) {
		if pwdCB == nil {
			return nil, errs.ErrX509EncodingFailed
		}

		decrypted, err := x509.DecryptPEMBlock(block, []byte(pwdCB()))
		if err != nil {
			return nil, err
		}

		der = decrypted
	}

	return parsePKCS(der)
}

func parsePKCS(der []byte) (*rsa.PrivateKey, error) {
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}

	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, err
	}

	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, errs.ErrX509EncodingFailed
	}

	return rsaKey, nil
}

// Sign produces a detached PKCS#7 signature over data and packages it
// with the signer's DER certificate as a section.SignatureTrailer
// ready to append to a container.
func (id *Identity) Sign(data []byte) (section.SignatureTrailer, error) {
	signedData, err := pkcs7.NewSignedData(data)
	if err != nil {
		return section.SignatureTrailer{}, fmt.Errorf("identity: %w: %w", errs.ErrSignatureFailed, err)
	}

	if err := signedData.AddSigner(id.Cert, id.Key, pkcs7.SignerInfoConfig{}); err != nil {
		return section.SignatureTrailer{}, fmt.Errorf("identity: %w: %w", errs.ErrSignatureFailed, err)
	}

	signedData.Detach()

	sig, err := signedData.Finish()
	if err != nil {
		return section.SignatureTrailer{}, fmt.Errorf("identity: %w: %w", errs.ErrSignatureFailed, err)
	}

	return section.SignatureTrailer{Signature: sig, CertDER: id.Cert.Raw}, nil
}

// Verify checks trailer.Signature against data using the signer
// certificate carried inside the PKCS#7 blob itself (trailer.CertDER is
// a convenience copy for callers, not consulted here). It does not
// build a chain of trust to a root CA: a container's identity is
// whatever cert its own trailer carries, matching Eet.h's
// self-contained signature model — a caller who wants chain validation
// compares trailer.CertDER against its own trusted roots separately.
func Verify(data []byte, trailer section.SignatureTrailer) error {
	p7, err := pkcs7.Parse(trailer.Signature)
	if err != nil {
		return fmt.Errorf("identity: %w: %w", errs.ErrInvalidSignature, err)
	}

	p7.Content = data

	if err := p7.Verify(); err != nil {
		return fmt.Errorf("identity: %w: %w", errs.ErrInvalidSignature, err)
	}

	return nil
}
