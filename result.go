// Package verichain validates an X.509 certificate chain against a set of
// locally trusted anchors and, optionally, a server name — RFC 5280 path
// validation plus the RFC 6125 server-identity rules, and nothing more.
//
// Out of scope, by design: CRL/OCSP revocation, name constraints, policy
// mapping, elliptic-curve signatures, DSA, and SHA-2 family signature
// verification. Only RSA with MD5 or SHA-1 signatures are understood, which
// mirrors legacy deployments this core was originally written against.
package verichain

import (
	"errors"
	"fmt"
)

// FailKind enumerates every way chain verification can fail. A given chain
// always produces the same FailKind across repeated calls with the same
// inputs and the same clock reading — callers rely on that determinism to
// render protocol alerts.
type FailKind int

const (
	// InvalidCertificate covers certificates whose issuer/subject Names
	// don't line up across a hop, and input that Decode cannot parse.
	InvalidCertificate FailKind = iota + 1
	// InvalidSignature means the signing certificate's public key does not
	// validate the signed certificate's signature.
	InvalidSignature
	// CertificateExpired means now falls outside [notBefore, notAfter].
	CertificateExpired
	// InvalidExtensions means a CA-role certificate carries an unhandled
	// critical extension or is missing a CA extension it must have, or that
	// a child's authority key id disagrees with its parent's subject key id.
	InvalidExtensions
	// InvalidPathlen means a BasicConstraints path-length budget was
	// exceeded by the number of intermediates already walked.
	InvalidPathlen
	// SelfSigned means the top of the chain is self-signed but was not
	// found among the trusted anchors.
	SelfSigned
	// NoTrustAnchor means no anchor issued the top-of-chain certificate.
	NoTrustAnchor
	// InvalidInput means the chain itself is malformed as input: empty, or
	// longer than the core is willing to walk.
	InvalidInput
	// InvalidServerExtensions is InvalidExtensions scoped to the leaf.
	InvalidServerExtensions
	// InvalidServerName means servername did not match SAN or CN.
	InvalidServerName
	// InvalidCA means a purported trust anchor is not self-signed (its
	// subject and issuer differ); a self-signature that does not verify is
	// reported as InvalidSignature.
	InvalidCA
)

// String renders the FailKind the way it appears in Result.Error and in
// trace output.
func (k FailKind) String() string {
	switch k {
	case InvalidCertificate:
		return "InvalidCertificate"
	case InvalidSignature:
		return "InvalidSignature"
	case CertificateExpired:
		return "CertificateExpired"
	case InvalidExtensions:
		return "InvalidExtensions"
	case InvalidPathlen:
		return "InvalidPathlen"
	case SelfSigned:
		return "SelfSigned"
	case NoTrustAnchor:
		return "NoTrustAnchor"
	case InvalidInput:
		return "InvalidInput"
	case InvalidServerExtensions:
		return "InvalidServerExtensions"
	case InvalidServerName:
		return "InvalidServerName"
	case InvalidCA:
		return "InvalidCA"
	default:
		return fmt.Sprintf("FailKind(%d)", int(k))
	}
}

// Fail is the error type every verification stage returns on failure. It
// carries both the machine-checkable Kind and a human-readable detail for
// logs; callers that need to branch on the outcome should use Kind, not the
// error string.
type Fail struct {
	Kind   FailKind
	Detail string
}

func (f *Fail) Error() string {
	if f.Detail == "" {
		return f.Kind.String()
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Detail)
}

// fail builds a *Fail with a formatted detail message, mirroring the
// fmt.Errorf("...: %w", err) wrapping style used throughout this module.
func fail(kind FailKind, format string, args ...any) *Fail {
	return &Fail{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// KindOf extracts the FailKind from err, if err is (or wraps) a *Fail.
// A nil err, or one that isn't a *Fail, reports ok=false.
func KindOf(err error) (kind FailKind, ok bool) {
	var f *Fail
	if errors.As(err, &f) {
		return f.Kind, true
	}
	return 0, false
}

// Result is the outcome of chain verification (§3): Ok, or Fail(kind) with
// a diagnostic detail. It is a plain value rather than an error, precisely
// so VerifyChain's zero value is unambiguously "Ok" — no nil-pointer-in-an-
// interface surprises for callers who store the result in a variable before
// inspecting it.
type Result struct {
	Kind   FailKind // zero value means Ok
	Detail string
}

// Ok reports whether verification succeeded.
func (r Result) Ok() bool { return r.Kind == 0 }

// Error satisfies the error interface so a failing Result can be passed
// anywhere an error is expected; Ok results render as "".
func (r Result) Error() string {
	if r.Ok() {
		return ""
	}
	if r.Detail == "" {
		return r.Kind.String()
	}
	return fmt.Sprintf("%s: %s", r.Kind, r.Detail)
}

// resultOf converts the internal short-circuiting *Fail (nil on success)
// into the value-typed Result this module exposes at its public boundary.
func resultOf(f *Fail) Result {
	if f == nil {
		return Result{}
	}
	return Result{Kind: f.Kind, Detail: f.Detail}
}
