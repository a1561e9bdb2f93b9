package variation

// Policy is the single switch consulted by every entry point of the engine.
// A disabled policy behaves exactly like seed 1.
type Policy struct {
	Enabled bool
	MaxSeed int
}

// DefaultPolicy enables variation over the default seed range.
func DefaultPolicy() Policy {
	return Policy{Enabled: true, MaxSeed: DefaultMaxSeed}
}

// DisabledPolicy pins every component to canonical output.
func DisabledPolicy() Policy {
	return Policy{Enabled: false, MaxSeed: DefaultMaxSeed}
}

// Normalize clamps seed into the policy's range.
func (p Policy) Normalize(seed int) int {
	return ClampSeed(seed, p.maxSeed())
}

// Canonical reports whether seed must produce canonical behaviour.
func (p Policy) Canonical(seed int) bool {
	return !p.Enabled || p.Normalize(seed) == CanonicalSeed
}

func (p Policy) maxSeed() int {
	if p.MaxSeed <= 0 {
		return DefaultMaxSeed
	}
	return p.MaxSeed
}
