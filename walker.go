package verichain

// MaxChainLength bounds how many certificates verifyChain is willing to
// walk (leaf + intermediates), addressing §9 Open Question 6 ("implementers
// should add one to prevent pathological inputs"). Chains longer than this
// fail closed with InvalidInput before any cryptography runs.
const MaxChainLength = 10

// ChainWalkerOption configures VerifyChain.
type ChainWalkerOption func(*chainWalkerConfig)

type chainWalkerConfig struct {
	tracer Tracer
}

// WithTracer attaches an observability hook to chain walking (§6). The
// default is a no-op tracer; a tracer never changes the returned Result.
func WithTracer(t Tracer) ChainWalkerOption {
	return func(c *chainWalkerConfig) { c.tracer = t }
}

// VerifyChain is ChainWalker.verify_chain (§4.6): the top-level operation.
// chain[0] is the leaf; chain[1:] are intermediates in presentation order.
// now is a POSIX-seconds snapshot from PrimitivesAdapter.now(), taken once
// by the caller so a single verification sees one consistent instant.
// servername is the identity the leaf must match; a nil servername always
// fails the leaf's server-name check, so VerifyChain then returns
// InvalidServerName (§4.4).
func VerifyChain(anchors *AnchorStore, now int64, servername *string, chain []*Certificate, opts ...ChainWalkerOption) Result {
	return resultOf(verifyChain(anchors, now, servername, chain, opts...))
}

func verifyChain(anchors *AnchorStore, now int64, servername *string, chain []*Certificate, opts ...ChainWalkerOption) *Fail {
	cfg := chainWalkerConfig{tracer: noopTracer{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(chain) == 0 {
		return fail(InvalidInput, "empty chain")
	}
	if len(chain) > MaxChainLength {
		return fail(InvalidInput, "chain length %d exceeds maximum %d", len(chain), MaxChainLength)
	}

	leaf := chain[0]
	tail := chain[1:]

	if err := verifyLeaf(now, leaf, servername); err != nil {
		cfg.tracer.Hop(leaf.String(), 0, err.Kind)
		return err
	}
	cfg.tracer.Hop(leaf.String(), 0, 0)

	// Stage 2: every intermediate's own validity and CA posture, *before*
	// any relation between hops is checked (§4.6 step 2).
	for i, cert := range tail {
		if err := verifyIntermediate(now, cert); err != nil {
			cfg.tracer.Hop(cert.String(), i+1, err.Kind)
			return err
		}
	}

	// Stage 3: climb the chain, checking each parent→child relation.
	pathlen := 0
	current := leaf
	for i, super := range tail {
		if err := verifyRelation(pathlen, super, current); err != nil {
			cfg.tracer.Hop(super.String(), i+1, err.Kind)
			return err
		}
		cfg.tracer.Hop(super.String(), i+1, 0)
		current = super
		pathlen++
	}

	// Stage 4: resolve a trust anchor for whatever is now at the top of the
	// chain.
	return resolveAnchor(anchors, now, pathlen, current, cfg.tracer)
}

func resolveAnchor(anchors *AnchorStore, now int64, pathlen int, current *Certificate, tracer Tracer) *Fail {
	anchor := anchors.findIssuer(current)
	if anchor == nil {
		if current.Subject.Equal(current.Issuer) {
			tracer.Hop(current.String(), pathlen, SelfSigned)
			return fail(SelfSigned, "top of chain %v is self-signed and not a trusted anchor", current.Subject.Name)
		}
		tracer.Hop(current.String(), pathlen, NoTrustAnchor)
		return fail(NoTrustAnchor, "no trust anchor issued %v", current.Subject.Name)
	}

	if now < anchor.NotBefore || now > anchor.NotAfter {
		tracer.Hop(anchor.String(), pathlen, CertificateExpired)
		return fail(CertificateExpired, "trust anchor %v is outside its validity window", anchor.Subject.Name)
	}

	err := verifyRelation(pathlen, anchor, current)
	tracer.Hop(anchor.String(), pathlen, kindOrZero(err))
	return err
}

func kindOrZero(err *Fail) FailKind {
	if err == nil {
		return 0
	}
	return err.Kind
}
