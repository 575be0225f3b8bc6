package verichain

// AnchorStore holds validated trust anchors and answers issuer lookups
// (§4.5). Once constructed it is read-only and, holding no mutable state of
// its own, safe to share by reference across concurrently running
// verifications (§5).
type AnchorStore struct {
	anchors   []*Certificate
	attempted int
	tracer    Tracer
}

// AnchorStoreOption configures NewAnchorStore.
type AnchorStoreOption func(*anchorStoreConfig)

type anchorStoreConfig struct {
	tracer Tracer
}

// WithAnchorTracer attaches an observability hook to anchor self-validation
// (§6, optional telemetry). The default is a no-op tracer.
func WithAnchorTracer(t Tracer) AnchorStoreOption {
	return func(c *anchorStoreConfig) { c.tracer = t }
}

// NewAnchorStore runs verify_anchor on each candidate and retains only those
// that pass, at the given instant. candidates come from whatever anchor
// loader the caller chooses (file, OS store, embedded bundle) — enumerating
// them is outside this core (§6); each candidate has already been through
// Decode, which is how this module satisfies §3's invariant that a
// Certificate always carries its RawCertificate alongside it (Decode folds
// the two together instead of threading them as a parallel pair).
// Attempted()/Retained() stay observable afterwards for diagnosis (§4.5).
func NewAnchorStore(now int64, candidates []*Certificate, opts ...AnchorStoreOption) *AnchorStore {
	cfg := anchorStoreConfig{tracer: noopTracer{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	store := &AnchorStore{tracer: cfg.tracer, attempted: len(candidates)}
	for _, cand := range candidates {
		if err := verifyAnchor(now, cand); err != nil {
			store.tracer.Hop(cand.String(), -1, err.Kind)
			continue
		}
		store.tracer.Hop(cand.String(), -1, 0)
		store.anchors = append(store.anchors, cand)
	}
	return store
}

// Attempted is the number of candidates NewAnchorStore was given.
func (s *AnchorStore) Attempted() int { return s.attempted }

// Retained is the number of candidates that passed self-validation and are
// now usable as trust anchors.
func (s *AnchorStore) Retained() int { return len(s.anchors) }

// findIssuer implements §4.5's lookup policy exactly, including its
// documented give-up behavior on ambiguity:
//   - zero matching anchors: no issuer
//   - exactly one: additionally require the AKI/SKI hint (when both sides
//     carry it) to agree
//   - more than one: no issuer — this core does not try anchors in turn
//     looking for one that validates; it preserves the source's
//     fail-closed behavior (§9 Open Question 5).
func (s *AnchorStore) findIssuer(child *Certificate) *Certificate {
	var matches []*Certificate
	for _, a := range s.anchors {
		if a.Subject.Equal(child.Issuer) {
			matches = append(matches, a)
		}
	}
	switch len(matches) {
	case 0:
		return nil
	case 1:
		if checkAuthoritySubjectKeyID(matches[0], child) != nil {
			return nil
		}
		return matches[0]
	default:
		return nil
	}
}

// Tracer receives per-hop diagnostic events; it must never influence the
// outcome of verification (§6). kind is the zero value FailKind(0) on
// success.
type Tracer interface {
	Hop(subjectCN string, pathlen int, kind FailKind)
}

type noopTracer struct{}

func (noopTracer) Hop(string, int, FailKind) {}
