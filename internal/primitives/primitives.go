// Package primitives is the thin façade over injected cryptography and the
// system clock that the rest of this module's core treats as an external
// collaborator (spec §4.1, §6). Nothing here decides trust; it only reports
// whether a signature verifies and what time it is.
package primitives

import (
	"crypto"
	"crypto/md5"  //nolint:gosec // spec-mandated legacy algorithm support only
	"crypto/rsa"
	"crypto/sha1" //nolint:gosec // spec-mandated legacy algorithm support only
	"time"
)

// HashAlgorithm is the digest algorithm implied by a certificate's outer
// signature algorithm identifier.
type HashAlgorithm int

const (
	MD5 HashAlgorithm = iota
	SHA1
)

func (h HashAlgorithm) cryptoHash() crypto.Hash {
	if h == MD5 {
		return crypto.MD5
	}
	return crypto.SHA1
}

// Digest hashes data with the given algorithm. Exposed so callers that only
// need a digest (not a full signature check) — tests, mainly — don't have
// to reach past this adapter into crypto/md5 or crypto/sha1 directly.
func Digest(alg HashAlgorithm, data []byte) []byte {
	switch alg {
	case MD5:
		sum := md5.Sum(data) //nolint:gosec
		return sum[:]
	default:
		sum := sha1.Sum(data) //nolint:gosec
		return sum[:]
	}
}

// VerifyRSAPKCS1v15 checks that sig is a valid RSA-PKCS#1v1.5 signature over
// signed under pub; signed is the unhashed message, which this function
// hashes with alg before verifying. It folds together what the
// spec describes as two steps — recovering the DigestInfo via the raw RSA
// public-key operation, then comparing its algorithm identifier against the
// outer one — into a single call, because crypto/rsa.VerifyPKCS1v15 already
// performs that DigestInfo/algorithm cross-check as part of unpadding. This
// core does not reimplement RSA modular exponentiation or ASN.1 DigestInfo
// parsing by hand: both are the "low-level RSA modular arithmetic" §1
// places out of scope, and crypto/rsa is the collaborator that owns them.
func VerifyRSAPKCS1v15(pub *rsa.PublicKey, alg HashAlgorithm, signed, sig []byte) bool {
	digest := Digest(alg, signed)
	return rsa.VerifyPKCS1v15(pub, alg.cryptoHash(), digest, sig) == nil
}

// Clock reports the current time as POSIX seconds. It exists so every
// caller of the core — tests especially — can replace "now" without the
// core ever touching the wall clock itself (spec §9 "global state": now
// must be passed in, not read internally).
type Clock interface {
	Now() int64
}

// SystemClock is the production Clock, backed by time.Now.
type SystemClock struct{}

func (SystemClock) Now() int64 { return time.Now().Unix() }

// FixedClock is a Clock that always reports the same instant — the
// dependency-injected replacement the spec requires for deterministic
// tests.
type FixedClock int64

func (f FixedClock) Now() int64 { return int64(f) }
