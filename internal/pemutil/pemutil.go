// Package pemutil adapts the PEM helpers from
// bindings/go/rsa/internal/pem_signature.go and
// bindings/go/rsa/signing/handler/internal/pem for this module's one use
// of PEM: reading a bundle of CERTIFICATE blocks off disk to build
// candidate trust anchors (§6 "To anchor loader").
package pemutil

import (
	"crypto/x509"
	"encoding/pem"
	"fmt"
)

// CertificatePEMBlockType is the PEM block type for a DER certificate.
const CertificatePEMBlockType = "CERTIFICATE"

// ParseCertificateChain parses one or more consecutive CERTIFICATE PEM
// blocks and returns their raw DER bytes in order, stopping at (and not
// erroring on) the first non-certificate block once at least one
// certificate has been read. An input with no certificate blocks at all is
// an error.
func ParseCertificateChain(data []byte) ([][]byte, error) {
	var ders [][]byte

	for len(data) > 0 {
		block, rest := pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != CertificatePEMBlockType {
			if len(ders) == 0 {
				return nil, fmt.Errorf("unexpected pem block type for certificate: %q", block.Type)
			}
			break
		}
		if _, err := x509.ParseCertificate(block.Bytes); err != nil {
			return nil, fmt.Errorf("parse certificate at position %d: %w", len(ders), err)
		}
		ders = append(ders, block.Bytes)
		data = rest
	}

	if len(ders) == 0 {
		return nil, fmt.Errorf("invalid certificate format (expected %q PEM block)", CertificatePEMBlockType)
	}
	return ders, nil
}

// EncodeCertificateChain is ParseCertificateChain's inverse, used by tests
// to build fixture bundles the way pem_signature.go's CertificateChainToPem
// did.
func EncodeCertificateChain(ders [][]byte) []byte {
	var out []byte
	for _, der := range ders {
		out = append(out, pem.EncodeToMemory(&pem.Block{Type: CertificatePEMBlockType, Bytes: der})...)
	}
	return out
}
