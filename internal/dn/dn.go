// Package dn provides RFC 5280 style comparison of X.509 Distinguished
// Names, adapted from bindings/go/rsa/signing/handler/internal/dn for the
// chain-validation core: Equal decides issuer/subject hops and self-signed
// detection, and Match (kept from the original, used for an optional
// issuer constraint) checks a Name against a constraint pattern rather
// than full equality.
package dn

import (
	"fmt"
	"slices"
	"strings"

	"crypto/x509/pkix"
)

// multiValued lists the RDN attributes that carry more than one value and
// therefore need set, not list, comparison (RFC 5280 does not mandate
// attribute-value ordering within an RDN).
func multiValued(n pkix.Name) []struct {
	label string
	vals  []string
} {
	return []struct {
		label string
		vals  []string
	}{
		{"country", n.Country},
		{"province", n.Province},
		{"locality", n.Locality},
		{"postal code", n.PostalCode},
		{"street address", n.StreetAddress},
		{"organization", n.Organization},
		{"organizational unit", n.OrganizationalUnit},
	}
}

// Equal reports whether a and b denote the same Name: CommonName and serial
// number compared literally, every multi-valued attribute compared as an
// unordered set. This is RFC 5280 name matching as far as this core goes —
// it does not attempt string-prep/case-folding beyond what pkix.Name
// already normalizes during parsing.
func Equal(a, b pkix.Name) bool {
	if a.CommonName != b.CommonName || a.SerialNumber != b.SerialNumber {
		return false
	}
	am, bm := multiValued(a), multiValued(b)
	for i := range am {
		if !sameSet(am[i].vals, bm[i].vals) {
			return false
		}
	}
	return true
}

// asSet builds a multiplicity-counted membership set out of vals, the
// shared representation both sameSet (exact multiset equality, for Equal)
// and containsAll (subset membership, for Match) compare against.
func asSet(vals []string) map[string]int {
	set := make(map[string]int, len(vals))
	for _, v := range vals {
		set[v]++
	}
	return set
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := asSet(a)
	for _, v := range b {
		if set[v] == 0 {
			return false
		}
		set[v]--
	}
	return true
}

// containsAll reports whether every value in want is present at least once
// among have, ignoring multiplicity and any values have carries beyond
// those want asks for.
func containsAll(have, want []string) bool {
	set := asSet(have)
	for _, w := range want {
		if set[w] == 0 {
			return false
		}
	}
	return true
}

// Match verifies that name n satisfies every constraint present in pattern
// p: a field left empty in p is unconstrained, a non-empty field in p
// requires n to contain all of p's values for that field (subset match,
// not equality), and CommonName is compared literally whenever either side
// sets it.
func Match(n, p pkix.Name) error {
	if n.CommonName != p.CommonName && (n.CommonName != "" || p.CommonName != "") {
		return fmt.Errorf("common name %q does not match expected %q", n.CommonName, p.CommonName)
	}

	nm, pm := multiValued(n), multiValued(p)
	for i := range pm {
		if len(pm[i].vals) == 0 {
			continue
		}
		if !containsAll(nm[i].vals, pm[i].vals) {
			return fmt.Errorf("%s %q does not match expected %q", pm[i].label, nm[i].vals, pm[i].vals)
		}
	}
	return nil
}

// ParseRDNSplit is the set of characters bindings/go/rsa's Parse used to
// split a "/CN=foo/O=bar"-style DN string into its components; kept here
// so a caller wiring an issuer-constraint string (see handler.go's
// Handler.Verify Issuer field) can reuse the same convention.
var ParseRDNSplit = []rune{'/', ';', ',', '+'}

// Parse converts a string representation of a distinguished name into a
// pkix.Name. Supported attribute keys: C, O, OU, L, ST, STREET, POSTALCODE,
// SN, CN. A string with no key=value pairs is treated as a bare CommonName.
func Parse(s string) (pkix.Name, error) {
	var n pkix.Name

	s = strings.TrimSpace(s)
	if s == "" {
		return n, fmt.Errorf("empty distinguished name")
	}
	if !strings.Contains(s, "=") {
		n.CommonName = s
		return n, nil
	}

	setters := map[string]func(string){
		"C":          func(v string) { n.Country = append(n.Country, v) },
		"O":          func(v string) { n.Organization = append(n.Organization, v) },
		"OU":         func(v string) { n.OrganizationalUnit = append(n.OrganizationalUnit, v) },
		"L":          func(v string) { n.Locality = append(n.Locality, v) },
		"ST":         func(v string) { n.Province = append(n.Province, v) },
		"STREET":     func(v string) { n.StreetAddress = append(n.StreetAddress, v) },
		"POSTALCODE": func(v string) { n.PostalCode = append(n.PostalCode, v) },
		"SN":         func(v string) { n.SerialNumber = v },
		"CN":         func(v string) { n.CommonName = v },
	}

	var sawKV bool
	parts := strings.FieldsFunc(s, func(r rune) bool { return slices.Contains(ParseRDNSplit, r) })
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			continue
		}
		sawKV = true
		k = strings.ToUpper(strings.TrimSpace(k))
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		set, known := setters[k]
		if !known {
			return n, fmt.Errorf("unknown attribute %q", k)
		}
		set(v)
	}

	if !sawKV {
		n.CommonName = s
	}
	return n, nil
}
