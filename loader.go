package verichain

import (
	"fmt"
	"os"

	"github.com/verichain/verichain/internal/pemutil"
)

// LoadAnchorsFromPEM reads a PEM bundle of CERTIFICATE blocks from path and
// decodes each into a *Certificate candidate for NewAnchorStore. This is a
// concrete instance of §6's "anchor loader" external collaborator — the
// spec leaves enumeration of candidates (file, embedded bundle, OS store)
// outside the core, and this is this module's file-backed choice, adapted
// from bindings/go/rsa's PEM parsing utilities.
//
// A decode failure on any certificate fails the whole load, reporting that
// entry's index, so a malformed entry never silently shrinks the anchor set.
func LoadAnchorsFromPEM(path string) ([]*Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read anchor bundle %s: %w", path, err)
	}

	ders, err := pemutil.ParseCertificateChain(data)
	if err != nil {
		return nil, fmt.Errorf("parse anchor bundle %s: %w", path, err)
	}

	certs := make([]*Certificate, 0, len(ders))
	for i, der := range ders {
		cert, err := Decode(der)
		if err != nil {
			return nil, fmt.Errorf("decode anchor candidate %d in %s: %w", i, path, err)
		}
		certs = append(certs, cert)
	}
	return certs, nil
}
