package verichain

import (
	"bytes"
	"crypto/rsa"

	"github.com/verichain/verichain/internal/primitives"
)

// verifyRelation is RelationVerifier (§4.3): it validates one parent→child
// hop. The four checks run in the order below and stop at the first
// failure — that ordering is the contract §7 calls out: the same chain
// must report the same FailKind regardless of implementation.
func verifyRelation(pathlen int, parent, child *Certificate) *Fail {
	if !parent.Subject.Equal(child.Issuer) {
		return fail(InvalidCertificate, "issuer %v does not match parent subject %v", child.Issuer.Name, parent.Subject.Name)
	}

	if err := checkAuthoritySubjectKeyID(parent, child); err != nil {
		return err
	}

	if err := checkSignature(parent, child); err != nil {
		return err
	}

	return checkPathlenBudget(pathlen, parent)
}

// checkAuthoritySubjectKeyID is step 2: a hint, not a requirement. It only
// rejects when BOTH sides carry an identifier and they disagree; either
// side omitting it passes silently, per §4.3.
func checkAuthoritySubjectKeyID(parent, child *Certificate) *Fail {
	aki, hasAKI := newInspector(child).authorityKeyID()
	ski, hasSKI := newInspector(parent).subjectKeyID()
	if !hasAKI || !hasSKI {
		return nil
	}
	if !bytes.Equal(aki, ski) {
		return fail(InvalidExtensions, "authority key id does not match parent subject key id")
	}
	return nil
}

// checkSignature is step 3: verify child's signature under parent's public
// key, using the hash implied by child's declared signature algorithm.
func checkSignature(parent, child *Certificate) *Fail {
	alg, ok := hashAlgorithmFor(child.SignatureAlgorithm)
	if !ok {
		return fail(InvalidSignature, "unsupported signature algorithm %v", child.SignatureAlgorithm)
	}
	pub, ok := parent.publicKey().(*rsa.PublicKey)
	if !ok {
		return fail(InvalidSignature, "parent public key is not RSA")
	}
	if !primitives.VerifyRSAPKCS1v15(pub, alg, child.tbsBytes(), child.signatureValue) {
		return fail(InvalidSignature, "signature does not verify under parent public key")
	}
	return nil
}

func hashAlgorithmFor(alg SignatureAlgorithm) (primitives.HashAlgorithm, bool) {
	switch alg {
	case MD5WithRSA:
		return primitives.MD5, true
	case SHA1WithRSA:
		return primitives.SHA1, true
	default:
		return 0, false
	}
}

// checkPathlenBudget is step 4: if parent asserts a BasicConstraints
// path-length, the number of non-self-issued intermediates already walked
// (pathlen) must not exceed it.
func checkPathlenBudget(pathlen int, parent *Certificate) *Fail {
	bc, present := newInspector(parent).basicConstraints()
	if !present || bc.PathLen == nil {
		return nil
	}
	if int(*bc.PathLen) < pathlen {
		return fail(InvalidPathlen, "path length budget %d exceeded at depth %d", *bc.PathLen, pathlen)
	}
	return nil
}
