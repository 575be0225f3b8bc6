package verichain

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func mustKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	k, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return k
}

func mustSerial(t *testing.T) *big.Int {
	t.Helper()
	n, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	require.NoError(t, err)
	return n
}

// mustIssue signs tmpl with parentKey under parent (parent == tmpl for a
// self-signed certificate) and returns the parsed result, the same shape as
// handler_test.go's issueCert.
func mustIssue(t *testing.T, tmpl, parent *x509.Certificate, pub *rsa.PublicKey, parentKey *rsa.PrivateKey) *x509.Certificate {
	t.Helper()
	if tmpl.SerialNumber == nil {
		tmpl.SerialNumber = mustSerial(t)
	}
	if tmpl.SignatureAlgorithm == x509.UnknownSignatureAlgorithm {
		tmpl.SignatureAlgorithm = x509.SHA1WithRSA
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, parent, pub, parentKey)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)
	return cert
}

func mustDecode(t *testing.T, cert *x509.Certificate) *Certificate {
	t.Helper()
	c, err := Decode(cert.Raw)
	require.NoError(t, err)
	return c
}

type testChain struct {
	rootKey, intermKey, leafKey *rsa.PrivateKey
	root, interm, leaf          *x509.Certificate
}

// buildChain constructs a standard root CA -> intermediate CA -> server leaf
// chain, all within their validity windows, the leaf good for
// "service.example.com", mirroring buildChain in handler_test.go but
// extended with the CA/leaf extension posture this module's RoleVerifiers
// require.
func buildChain(t *testing.T) testChain {
	t.Helper()
	now := time.Now()
	// Key identifiers are fresh per call so that two buildChain results
	// never share an AKI/SKI pair.
	rootSKI, intermSKI := mustSerial(t).Bytes(), mustSerial(t).Bytes()

	rootKey := mustKey(t)
	rootTmpl := &x509.Certificate{
		Subject:               pkix.Name{CommonName: "Example Root CA"},
		NotBefore:             now.Add(-24 * time.Hour),
		NotAfter:              now.Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
		SubjectKeyId:          rootSKI,
	}
	root := mustIssue(t, rootTmpl, rootTmpl, &rootKey.PublicKey, rootKey)

	intermKey := mustKey(t)
	pathLen := 0
	intermTmpl := &x509.Certificate{
		Subject:               pkix.Name{CommonName: "Example Intermediate CA"},
		NotBefore:             now.Add(-24 * time.Hour),
		NotAfter:              now.Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
		MaxPathLen:            pathLen,
		MaxPathLenZero:        true,
		SubjectKeyId:          intermSKI,
		AuthorityKeyId:        rootSKI,
	}
	interm := mustIssue(t, intermTmpl, root, &intermKey.PublicKey, rootKey)

	leafKey := mustKey(t)
	leafTmpl := &x509.Certificate{
		Subject:        pkix.Name{CommonName: "service.example.com"},
		DNSNames:       []string{"service.example.com"},
		NotBefore:      now.Add(-time.Hour),
		NotAfter:       now.Add(time.Hour),
		KeyUsage:       x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:    []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		AuthorityKeyId: intermSKI,
	}
	leaf := mustIssue(t, leafTmpl, interm, &leafKey.PublicKey, intermKey)

	return testChain{rootKey: rootKey, intermKey: intermKey, leafKey: leafKey, root: root, interm: interm, leaf: leaf}
}

func strPtr(s string) *string { return &s }
