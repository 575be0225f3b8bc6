package verichain

import (
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"

	"github.com/verichain/verichain/internal/dn"
)

// Certificate is this module's decoded view of an X.509 v3 certificate: the
// fields path validation actually needs, lifted out of the externally
// parsed *x509.Certificate. Certificate is immutable once decoded — nothing
// in this module mutates a Certificate's fields after Decode returns it.
type Certificate struct {
	Subject Name
	Issuer  Name

	NotBefore, NotAfter int64 // POSIX seconds, matching PrimitivesAdapter.now()

	SignatureAlgorithm SignatureAlgorithm
	signatureValue     []byte

	extensions extensionSet

	// raw is the original parsed certificate. It is read only through the
	// accessors below: RawTBSCertificate and the public key for signature
	// checks, plus the key identifiers and SubjectAltName DNS names.
	raw *x509.Certificate
}

// RawCertificate is the original DER encoding of a certificate, preserved
// alongside the decoded Certificate because signature verification is
// defined over the raw DER encoding of the tbs, never a re-encoding of it.
type RawCertificate = []byte

// SignatureAlgorithm is the outer algorithm identifier on a certificate's
// signature. Only the two the spec understands are represented; a decoded
// certificate with any other algorithm reports SignatureAlgorithmUnknown
// and will fail the first signature check it is subjected to.
type SignatureAlgorithm int

const (
	SignatureAlgorithmUnknown SignatureAlgorithm = iota
	MD5WithRSA
	SHA1WithRSA
)

func (a SignatureAlgorithm) String() string {
	switch a {
	case MD5WithRSA:
		return "MD5-RSA"
	case SHA1WithRSA:
		return "SHA1-RSA"
	default:
		return "unknown"
	}
}

// Name is an RDN sequence. Equality and the CN lookup follow RFC 5280's
// name-matching rules as expressed by crypto/x509/pkix.Name: attribute-set
// comparison rather than a literal string compare, so RDN reordering within
// an otherwise identical Name does not break a match.
type Name struct {
	pkix.Name
}

// CommonName returns the Name's Common Name attribute, or "" if absent.
func (n Name) CommonName() string {
	return n.Name.CommonName
}

// Equal reports whether n and other denote the same Name under RFC 5280
// comparison rules (used for parent.subject == child.issuer, and for
// self-signed detection).
func (n Name) Equal(other Name) bool {
	return dn.Equal(n.Name, other.Name)
}

// Decode turns a raw DER-encoded certificate into this module's Certificate
// model. Decode is the one place this module defers wholesale ASN.1/DER
// parsing to an external collaborator (crypto/x509.ParseCertificate) — per
// this core's scope, certificate *parsing* is not the hard part; deciding
// what the parsed fields mean for trust is.
func Decode(raw RawCertificate) (*Certificate, error) {
	parsed, err := x509.ParseCertificate(raw)
	if err != nil {
		return nil, fail(InvalidCertificate, "parse certificate: %v", err)
	}

	return &Certificate{
		Subject:            Name{parsed.Subject},
		Issuer:             Name{parsed.Issuer},
		NotBefore:          parsed.NotBefore.Unix(),
		NotAfter:           parsed.NotAfter.Unix(),
		SignatureAlgorithm: signatureAlgorithmOf(parsed),
		signatureValue:     parsed.Signature,
		extensions:         decodeExtensions(parsed),
		raw:                parsed,
	}, nil
}

// signatureAlgorithmOf maps the parser's algorithm identifier onto the two
// this core recognises. Any other algorithm decodes successfully (the
// certificate itself may still be useful, e.g. as an intermediate whose own
// validity is checked before a signature ever is) but is flagged unknown so
// RelationVerifier rejects it the moment it tries to check a signature.
func signatureAlgorithmOf(c *x509.Certificate) SignatureAlgorithm {
	switch c.SignatureAlgorithm {
	case x509.MD5WithRSA:
		return MD5WithRSA
	case x509.SHA1WithRSA: //nolint:staticcheck // spec-mandated legacy algorithm only
		return SHA1WithRSA
	default:
		return SignatureAlgorithmUnknown
	}
}

// subjectKeyID, authorityKeyID expose the two identifier extensions
// RelationVerifier consults as a non-authoritative hint (§4.3 step 2).
func (c *Certificate) subjectKeyID() []byte   { return c.raw.SubjectKeyId }
func (c *Certificate) authorityKeyID() []byte { return c.raw.AuthorityKeyId }

func (c *Certificate) tbsBytes() []byte { return c.raw.RawTBSCertificate }

func (c *Certificate) publicKey() any { return c.raw.PublicKey }

func (c *Certificate) dnsNames() []string { return c.raw.DNSNames }

// String is used only for trace output and error details.
func (c *Certificate) String() string {
	if cn := c.Subject.CommonName(); cn != "" {
		return cn
	}
	return fmt.Sprintf("%v", c.Subject.Name)
}
