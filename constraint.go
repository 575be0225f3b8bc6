package verichain

import (
	"fmt"

	"github.com/verichain/verichain/internal/dn"
)

// MatchIssuerConstraint checks cert's Subject against a DN constraint
// string such as "O=Example Corp,CN=Example Root CA" or a bare common name.
// It is the same optional-issuer-pinning idea bindings/go/rsa's signing
// handler applies to a resolved certificate's Subject (handler.go's
// dn.Match(want, uc.Subject) call against the signature's declared Issuer);
// here it lets a caller additionally pin which root a chain must resolve
// to, beyond "some trusted anchor issued it".
func MatchIssuerConstraint(constraint string, cert *Certificate) error {
	want, err := dn.Parse(constraint)
	if err != nil {
		return fmt.Errorf("parse issuer constraint %q: %w", constraint, err)
	}
	if err := dn.Match(cert.Subject.Name, want); err != nil {
		return fmt.Errorf("issuer constraint mismatch: %w", err)
	}
	return nil
}
