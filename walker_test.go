package verichain

import (
	"crypto/x509"
	"crypto/x509/pkix"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestVerifyChain_Ok(t *testing.T) {
	c := buildChain(t)
	root := mustDecode(t, c.root)
	interm := mustDecode(t, c.interm)
	leaf := mustDecode(t, c.leaf)

	anchors := NewAnchorStore(time.Now().Unix(), []*Certificate{root})
	result := VerifyChain(anchors, time.Now().Unix(), strPtr("service.example.com"), []*Certificate{leaf, interm})
	require.True(t, result.Ok())
}

func TestVerifyChain_EmptyChainRejected(t *testing.T) {
	anchors := NewAnchorStore(time.Now().Unix(), nil)
	result := VerifyChain(anchors, time.Now().Unix(), strPtr("service.example.com"), nil)
	require.False(t, result.Ok())
	require.Equal(t, InvalidInput, result.Kind)
}

func TestVerifyChain_OversizedChainRejected(t *testing.T) {
	c := buildChain(t)
	leaf := mustDecode(t, c.leaf)
	chain := make([]*Certificate, MaxChainLength+1)
	for i := range chain {
		chain[i] = leaf
	}
	anchors := NewAnchorStore(time.Now().Unix(), nil)
	result := VerifyChain(anchors, time.Now().Unix(), strPtr("service.example.com"), chain)
	require.False(t, result.Ok())
	require.Equal(t, InvalidInput, result.Kind)
}

func TestVerifyChain_SelfSignedLeafWithNoAnchor(t *testing.T) {
	key := mustKey(t)
	tmpl := &x509.Certificate{
		Subject:     pkix.Name{CommonName: "standalone.example.com"},
		DNSNames:    []string{"standalone.example.com"},
		NotBefore:   time.Now().Add(-time.Hour),
		NotAfter:    time.Now().Add(time.Hour),
		KeyUsage:    x509.KeyUsageKeyEncipherment,
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	selfSigned := mustIssue(t, tmpl, tmpl, &key.PublicKey, key)
	leaf := mustDecode(t, selfSigned)

	anchors := NewAnchorStore(time.Now().Unix(), nil)
	result := VerifyChain(anchors, time.Now().Unix(), strPtr("standalone.example.com"), []*Certificate{leaf})
	require.False(t, result.Ok())
	require.Equal(t, SelfSigned, result.Kind)
}

func TestVerifyChain_ExpiredIntermediate(t *testing.T) {
	c := buildChain(t)
	root := mustDecode(t, c.root)

	intermKey := mustKey(t)
	expiredTmpl := &x509.Certificate{
		Subject:               pkix.Name{CommonName: "Expired Intermediate CA"},
		NotBefore:             time.Now().Add(-48 * time.Hour),
		NotAfter:              time.Now().Add(-24 * time.Hour),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	expiredInterm := mustIssue(t, expiredTmpl, c.root, &intermKey.PublicKey, c.rootKey)

	leafKey := mustKey(t)
	leafTmpl := &x509.Certificate{
		Subject:     pkix.Name{CommonName: "service.example.com"},
		DNSNames:    []string{"service.example.com"},
		NotBefore:   time.Now().Add(-time.Hour),
		NotAfter:    time.Now().Add(time.Hour),
		KeyUsage:    x509.KeyUsageKeyEncipherment,
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	leafCert := mustIssue(t, leafTmpl, expiredInterm, &leafKey.PublicKey, intermKey)

	interm := mustDecode(t, expiredInterm)
	leaf := mustDecode(t, leafCert)

	anchors := NewAnchorStore(time.Now().Unix(), []*Certificate{root})
	result := VerifyChain(anchors, time.Now().Unix(), strPtr("service.example.com"), []*Certificate{leaf, interm})
	require.False(t, result.Ok())
	require.Equal(t, CertificateExpired, result.Kind)
}

func TestVerifyChain_HostnameMismatch(t *testing.T) {
	c := buildChain(t)
	root := mustDecode(t, c.root)
	interm := mustDecode(t, c.interm)
	leaf := mustDecode(t, c.leaf)

	anchors := NewAnchorStore(time.Now().Unix(), []*Certificate{root})
	result := VerifyChain(anchors, time.Now().Unix(), strPtr("wrong.example.com"), []*Certificate{leaf, interm})
	require.False(t, result.Ok())
	require.Equal(t, InvalidServerName, result.Kind)
}

func TestVerifyChain_TamperedLeafSignature(t *testing.T) {
	c := buildChain(t)
	root := mustDecode(t, c.root)
	interm := mustDecode(t, c.interm)
	leaf := mustDecode(t, c.leaf)
	leaf.signatureValue[0] ^= 0xff

	anchors := NewAnchorStore(time.Now().Unix(), []*Certificate{root})
	result := VerifyChain(anchors, time.Now().Unix(), strPtr("service.example.com"), []*Certificate{leaf, interm})
	require.False(t, result.Ok())
	require.Equal(t, InvalidSignature, result.Kind)
}

func TestVerifyChain_UnknownCriticalExtensionOnLeaf(t *testing.T) {
	c := buildChain(t)
	root := mustDecode(t, c.root)
	interm := mustDecode(t, c.interm)

	leafKey := mustKey(t)
	leafTmpl := &x509.Certificate{
		Subject:     pkix.Name{CommonName: "service.example.com"},
		DNSNames:    []string{"service.example.com"},
		NotBefore:   time.Now().Add(-time.Hour),
		NotAfter:    time.Now().Add(time.Hour),
		KeyUsage:    x509.KeyUsageKeyEncipherment,
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		ExtraExtensions: []pkix.Extension{
			{Id: []int{1, 2, 3, 4, 99}, Critical: true, Value: []byte{0x05, 0x00}},
		},
	}
	leafCert := mustIssue(t, leafTmpl, c.interm, &leafKey.PublicKey, c.intermKey)
	leaf := mustDecode(t, leafCert)

	anchors := NewAnchorStore(time.Now().Unix(), []*Certificate{root})
	result := VerifyChain(anchors, time.Now().Unix(), strPtr("service.example.com"), []*Certificate{leaf, interm})
	require.False(t, result.Ok())
	require.Equal(t, InvalidServerExtensions, result.Kind)
}

func TestVerifyChain_TracerObservesEveryHop(t *testing.T) {
	c := buildChain(t)
	root := mustDecode(t, c.root)
	interm := mustDecode(t, c.interm)
	leaf := mustDecode(t, c.leaf)

	var hops []string
	tracer := recordingTracer{record: func(subjectCN string, pathlen int, kind FailKind) {
		hops = append(hops, subjectCN)
	}}

	anchors := NewAnchorStore(time.Now().Unix(), []*Certificate{root})
	result := VerifyChain(anchors, time.Now().Unix(), strPtr("service.example.com"), []*Certificate{leaf, interm}, WithTracer(tracer))
	require.True(t, result.Ok())
	require.Equal(t, []string{"service.example.com", "Example Intermediate CA", "Example Root CA"}, hops)
}

type recordingTracer struct {
	record func(subjectCN string, pathlen int, kind FailKind)
}

func (r recordingTracer) Hop(subjectCN string, pathlen int, kind FailKind) {
	r.record(subjectCN, pathlen, kind)
}
