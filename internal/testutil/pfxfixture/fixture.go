// Package pfxfixture builds throwaway PKCS#12 bundles for tests.
package pfxfixture

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"testing"
	"time"

	gopkcs12 "software.sslmate.com/src/go-pkcs12"
)

// Low iteration counts keep a probe in the microsecond range.
const iterations = 2

// Modern returns an AES/PBKDF2 bundle protected by password.
func Modern(t testing.TB, password string) []byte {
	t.Helper()
	return encode(t, gopkcs12.Modern.WithIterations(iterations), password)
}

// Legacy returns an RC2/3DES bundle with a SHA-1 MAC that the frozen
// x/crypto decoder can also read.
func Legacy(t testing.TB, password string) []byte {
	t.Helper()
	return encode(t, gopkcs12.LegacyRC2.WithIterations(iterations), password)
}

func encode(t testing.TB, enc *gopkcs12.Encoder, password string) []byte {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "pfxcrack fixture"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("parse certificate: %v", err)
	}

	data, err := enc.Encode(key, cert, nil, password)
	if err != nil {
		t.Fatalf("encode pkcs12: %v", err)
	}
	return data
}
