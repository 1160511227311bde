package main

import (
	"bytes"
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

	"github.com/goeet/eet"
	"github.com/goeet/eet/file"
)

func writeTestCertKeyPair(t *testing.T) (certPath, keyPath string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "eetcli test signer"},
		NotBefore:    time.Unix(0, 0),
		NotAfter:     time.Unix(0, 0).Add(100 * 365 * 24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	certPath = filepath.Join(dir, "signer.pem")
	keyPath = filepath.Join(dir, "signer.key")

	if err := os.WriteFile(certPath, pem.EncodeToMemory(&pem.Block{
		Type: "CERTIFICATE", Bytes: der,
	}), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(keyPath, pem.EncodeToMemory(&pem.Block{
		Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key),
	}), 0o600); err != nil {
		t.Fatal(err)
	}

	return certPath, keyPath
}

func TestPutRm(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "cli.eet")
	src := filepath.Join(t.TempDir(), "hello.txt")

	if err := os.WriteFile(src, []byte("hello from eetcli"), 0o600); err != nil {
		t.Fatal(err)
	}

	put := putCmd()
	put.SetArgs([]string{archive, "greeting", src})

	if err := put.Execute(); err != nil {
		t.Fatalf("put: %v", err)
	}

	h, err := eet.Open(archive, file.ModeRead)
	if err != nil {
		t.Fatal(err)
	}

	data, err := h.Read("greeting")
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "hello from eetcli" {
		t.Fatalf("got %q", data)
	}

	h.Close()

	rm := rmCmd()
	rm.SetArgs([]string{archive, "greeting"})

	if err := rm.Execute(); err != nil {
		t.Fatalf("rm: %v", err)
	}

	h2, err := eet.Open(archive, file.ModeRead)
	if err != nil {
		t.Fatal(err)
	}
	defer h2.Close()

	if _, err := h2.Read("greeting"); err == nil {
		t.Fatal("expected error reading removed entry")
	}
}

func TestSignAndVerify(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "signed.eet")
	src := filepath.Join(t.TempDir(), "payload.bin")

	if err := os.WriteFile(src, []byte("payload"), 0o600); err != nil {
		t.Fatal(err)
	}

	put := putCmd()
	put.SetArgs([]string{archive, "payload", src})

	if err := put.Execute(); err != nil {
		t.Fatalf("put: %v", err)
	}

	certPath, keyPath := writeTestCertKeyPair(t)

	sign := signCmd()
	sign.SetArgs([]string{archive, certPath, keyPath})

	if err := sign.Execute(); err != nil {
		t.Fatalf("sign: %v", err)
	}

	var out bytes.Buffer
	verify := verifyCmd()
	verify.SetOut(&out)
	verify.SetArgs([]string{archive})

	if err := verify.Execute(); err != nil {
		t.Fatalf("verify: %v", err)
	}

	if out.String() != "signature OK\n" {
		t.Fatalf("verify output = %q", out.String())
	}
}
