package verichain

import (
	"crypto/x509"
	"strings"
)

// caHandledExtensions is the set of critical extensions a CA-role
// certificate — intermediate or anchor — may carry, per §4.4.
var caHandledExtensions = []extKind{extKeyUsage, extBasicConstraints}

// leafHandledExtensions is the analogous set for the server-leaf role.
var leafHandledExtensions = []extKind{extBasicConstraints, extKeyUsage, extExtKeyUsage, extCertificatePolicies}

// verifyIntermediate is RoleVerifiers.verify_intermediate (§4.4): validity
// window, then the CA extension posture every non-leaf certificate on the
// chain must hold before RelationVerifier ever looks at a signature.
func verifyIntermediate(now int64, cert *Certificate) *Fail {
	if err := checkValidity(now, cert); err != nil {
		return err
	}
	return checkCAExtensions(cert)
}

// verifyAnchor is RoleVerifiers.verify_anchor (§4.4), run once per
// candidate when AnchorStore is constructed. All four checks must hold, in
// this order, for a candidate to become a trust anchor.
func verifyAnchor(now int64, cert *Certificate) *Fail {
	if !cert.Subject.Equal(cert.Issuer) {
		return fail(InvalidCA, "certificate is not self-signed")
	}
	if err := checkSignature(cert, cert); err != nil {
		return err
	}
	if err := checkValidity(now, cert); err != nil {
		return err
	}
	return checkCAExtensions(cert)
}

func checkValidity(now int64, cert *Certificate) *Fail {
	if now < cert.NotBefore || now > cert.NotAfter {
		return fail(CertificateExpired, "now=%d not within [%d, %d]", now, cert.NotBefore, cert.NotAfter)
	}
	return nil
}

func checkCAExtensions(cert *Certificate) *Fail {
	in := newInspector(cert)

	// CA role only requires BasicConstraints' presence here; IsCA is not
	// checked, and PathLen is enforced by RelationVerifier's path-length
	// budget check.
	if _, present := in.basicConstraints(); !present {
		return fail(InvalidExtensions, "missing BasicConstraints")
	}

	ku, present := in.keyUsage()
	if !present || ku&x509.KeyUsageCertSign == 0 {
		return fail(InvalidExtensions, "missing keyCertSign in KeyUsage")
	}

	return in.checkCriticalExtensions(InvalidExtensions, caHandledExtensions...)
}

// verifyLeaf is RoleVerifiers.verify_leaf (§4.4): validity, server-name
// match, then the leaf extension posture.
func verifyLeaf(now int64, cert *Certificate, servername *string) *Fail {
	if err := checkValidity(now, cert); err != nil {
		return err
	}
	if err := checkServerName(cert, servername); err != nil {
		return err
	}
	return checkLeafExtensions(cert)
}

// checkServerName fails closed: no servername given is always a failure,
// per §4.4 ("if servername is absent, the check fails closed").
func checkServerName(cert *Certificate, servername *string) *Fail {
	if servername == nil {
		return fail(InvalidServerName, "no server name supplied")
	}
	want := strings.ToLower(*servername)

	if names := newInspector(cert).subjectAltNameDNSNames(); len(names) > 0 {
		for _, n := range names {
			if strings.ToLower(n) == want {
				return nil
			}
		}
		return fail(InvalidServerName, "server name %q not found in SubjectAltName", *servername)
	}

	if cn := cert.Subject.CommonName(); cn != "" && strings.ToLower(cn) == want {
		return nil
	}
	return fail(InvalidServerName, "server name %q matches neither SubjectAltName nor CommonName", *servername)
}

func checkLeafExtensions(cert *Certificate) *Fail {
	in := newInspector(cert)

	if bc, present := in.basicConstraints(); present && bc.PathLen != nil {
		return fail(InvalidServerExtensions, "leaf certificate asserts a CA path-length constraint")
	}

	if ku, present := in.keyUsage(); present && ku&x509.KeyUsageKeyEncipherment == 0 {
		return fail(InvalidServerExtensions, "missing keyEncipherment in KeyUsage")
	}

	if eku, present := in.extKeyUsage(); present && !containsServerAuth(eku) {
		return fail(InvalidServerExtensions, "missing serverAuth in ExtendedKeyUsage")
	}

	if policies, present, critical := in.policies(); present && critical && !hasAnyPolicy(policies) {
		return fail(InvalidServerExtensions, "critical CertificatePolicies does not include anyPolicy")
	}

	if err := in.checkCriticalExtensions(InvalidServerExtensions, leafHandledExtensions...); err != nil {
		return err
	}
	return nil
}

func containsServerAuth(eku []x509.ExtKeyUsage) bool {
	for _, u := range eku {
		if u == x509.ExtKeyUsageServerAuth {
			return true
		}
	}
	return false
}
