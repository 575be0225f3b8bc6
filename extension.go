package verichain

import (
	"crypto/x509"
	"encoding/asn1"
)

// extKind tags the extension variants this core recognises and knows how to
// interpret. It is a closed enumeration by design (§9 "re-architecture
// items: tagged variants for extensions") so that criticality checks are an
// exhaustive-match obligation rather than a string/OID comparison repeated
// ad hoc at every call site.
type extKind int

const (
	extBasicConstraints extKind = iota
	extKeyUsage
	extExtKeyUsage
	extSubjectKeyID
	extAuthorityKeyID
	extSubjectAltName
	extCertificatePolicies
)

// Standard RFC 5280 extension OIDs. These are the seven variants §3 requires
// the core to recognise; every other extension OID is, by definition,
// unrecognised.
var recognizedOIDs = map[string]extKind{
	"2.5.29.19": extBasicConstraints,
	"2.5.29.15": extKeyUsage,
	"2.5.29.37": extExtKeyUsage,
	"2.5.29.14": extSubjectKeyID,
	"2.5.29.35": extAuthorityKeyID,
	"2.5.29.17": extSubjectAltName,
	"2.5.29.32": extCertificatePolicies,
}

// anyPolicy is the wildcard policy OID (RFC 5280 §4.2.1.4), the one
// CertificatePolicies value the leaf role accepts when the extension is
// critical.
var anyPolicy = asn1.ObjectIdentifier{2, 5, 29, 32, 0}

// BasicConstraints mirrors the RFC 5280 extension of the same name: whether
// the certificate may act as a CA, and an optional path-length budget.
type BasicConstraints struct {
	IsCA    bool
	PathLen *uint32 // nil means "not present" (Option<u32> in the spec)
}

// extensionSet is the decoded, typed view over one certificate's extensions:
// the BasicConstraints, KeyUsage, ExtendedKeyUsage and CertificatePolicies
// payloads, the presence and criticality of each of the seven recognised
// variants (the key identifiers and SubjectAltName payloads are read from
// the parsed certificate instead), and the set of OIDs this core does not recognise
// at all — which is all ExtensionInspector's central criticality policy
// (§4.2) needs to make its decision.
type extensionSet struct {
	present  map[extKind]bool
	critical map[extKind]bool

	basicConstraints BasicConstraints
	keyUsage         x509.KeyUsage
	extKeyUsage      []x509.ExtKeyUsage
	policies         []asn1.ObjectIdentifier

	unrecognizedCritical []string // OID strings, for diagnostics only
}

// decodeExtensions builds an extensionSet from an already-parsed
// certificate. The typed payloads (IsCA, KeyUsage bitmask, ExtKeyUsage
// list, ...) come straight from crypto/x509's own decoding — that part is
// "parsing", out of this core's scope. What this core adds is the
// presence/criticality bookkeeping the RFC 5280 §4.2 MUST-reject rule
// depends on.
func decodeExtensions(c *x509.Certificate) extensionSet {
	set := extensionSet{
		present:          make(map[extKind]bool, len(c.Extensions)),
		critical:         make(map[extKind]bool, len(c.Extensions)),
		basicConstraints: basicConstraintsOf(c),
		keyUsage:         c.KeyUsage,
		extKeyUsage:      c.ExtKeyUsage,
		policies:         c.PolicyIdentifiers,
	}
	for _, ext := range c.Extensions {
		kind, ok := recognizedOIDs[ext.Id.String()]
		if !ok {
			if ext.Critical {
				set.unrecognizedCritical = append(set.unrecognizedCritical, ext.Id.String())
			}
			continue
		}
		set.present[kind] = true
		if ext.Critical {
			set.critical[kind] = true
		}
	}
	return set
}

func basicConstraintsOf(c *x509.Certificate) BasicConstraints {
	bc := BasicConstraints{IsCA: c.IsCA}
	switch {
	case c.MaxPathLenZero:
		zero := uint32(0)
		bc.PathLen = &zero
	case c.MaxPathLen > 0:
		v := uint32(c.MaxPathLen)
		bc.PathLen = &v
	}
	return bc
}

// inspector is ExtensionInspector (§4.2): typed accessors over one
// certificate's decoded extensions, plus the criticality policy every
// RoleVerifier calls into before returning Ok.
type inspector struct {
	cert *Certificate
}

func newInspector(c *Certificate) inspector { return inspector{cert: c} }

// basicConstraints reports the BasicConstraints payload and whether the
// extension was present at all; a certificate lacking it returns the zero
// value and present=false.
func (in inspector) basicConstraints() (bc BasicConstraints, present bool) {
	s := in.cert.extensions
	return s.basicConstraints, s.present[extBasicConstraints]
}

func (in inspector) keyUsage() (ku x509.KeyUsage, present bool) {
	s := in.cert.extensions
	return s.keyUsage, s.present[extKeyUsage]
}

func (in inspector) extKeyUsage() (eku []x509.ExtKeyUsage, present bool) {
	s := in.cert.extensions
	return s.extKeyUsage, s.present[extExtKeyUsage]
}

func (in inspector) policies() (oids []asn1.ObjectIdentifier, present, critical bool) {
	s := in.cert.extensions
	return s.policies, s.present[extCertificatePolicies], s.critical[extCertificatePolicies]
}

func (in inspector) subjectAltNameDNSNames() []string {
	return in.cert.dnsNames()
}

func (in inspector) subjectKeyID() ([]byte, bool) {
	id := in.cert.subjectKeyID()
	return id, len(id) > 0
}

func (in inspector) authorityKeyID() ([]byte, bool) {
	id := in.cert.authorityKeyID()
	return id, len(id) > 0
}

// checkCriticalExtensions implements §4.2's central rule: "A
// certificate-using system MUST reject the certificate if it encounters a
// critical extension it does not recognize." handled further restricts,
// within the recognised set, which variants this *role* tolerates being
// critical — an intermediate and a leaf have different handled sets even
// though ExtensionInspector recognises the same seven variants for both.
func (in inspector) checkCriticalExtensions(onFail FailKind, handled ...extKind) *Fail {
	s := in.cert.extensions
	if len(s.unrecognizedCritical) > 0 {
		return fail(onFail, "unrecognised critical extension %s", s.unrecognizedCritical[0])
	}
	allowed := make(map[extKind]bool, len(handled))
	for _, k := range handled {
		allowed[k] = true
	}
	for kind, isCritical := range s.critical {
		if isCritical && !allowed[kind] {
			return fail(onFail, "critical extension %s not handled by this role", extKindName(kind))
		}
	}
	return nil
}

func hasAnyPolicy(oids []asn1.ObjectIdentifier) bool {
	for _, oid := range oids {
		if oid.Equal(anyPolicy) {
			return true
		}
	}
	return false
}

func extKindName(k extKind) string {
	switch k {
	case extBasicConstraints:
		return "BasicConstraints"
	case extKeyUsage:
		return "KeyUsage"
	case extExtKeyUsage:
		return "ExtendedKeyUsage"
	case extSubjectKeyID:
		return "SubjectKeyIdentifier"
	case extAuthorityKeyID:
		return "AuthorityKeyIdentifier"
	case extSubjectAltName:
		return "SubjectAltName"
	case extCertificatePolicies:
		return "CertificatePolicies"
	default:
		return "unknown"
	}
}
