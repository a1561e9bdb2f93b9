package variation

import "strings"

// ContainerKind selects the inert wrapper placed around mutated content.
type ContainerKind int

const (
	// ContainerInline is an inline container for text-like elements.
	ContainerInline ContainerKind = iota
	// ContainerBlock is a block container without forced sizing.
	ContainerBlock
	// ContainerFullSize is a block container stretched to its parent.
	ContainerFullSize
)

func (k ContainerKind) String() string {
	switch k {
	case ContainerBlock:
		return "block"
	case ContainerFullSize:
		return "full-size"
	default:
		return "inline"
	}
}

// SiblingPosition places a decoy relative to the content.
type SiblingPosition int

const (
	SiblingBefore SiblingPosition = iota
	SiblingAfter
)

// Marker carries the diagnostic attributes of an inserted node.
type Marker struct {
	ID  string
	Key string
}

// Decorator is the only view the mutator has of content. Implementations must
// keep inserted nodes visually and behaviourally inert.
type Decorator[C any] interface {
	Wrap(content C, kind ContainerKind, marker Marker) C
	InsertDecoy(content C, position SiblingPosition, marker Marker) C
}

// Mutation is the structural plan for one (seed, key) pair.
type Mutation struct {
	Seed    int
	Key     string
	Wrapper int
	Decoy   int
	Kind    ContainerKind
}

// Wrapped reports whether content gets an inert wrapper.
func (m Mutation) Wrapped() bool {
	return m.Wrapper > 0
}

// DecoyPosition returns where the decoy goes, if any.
func (m Mutation) DecoyPosition() (SiblingPosition, bool) {
	switch m.Decoy {
	case 1:
		return SiblingBefore, true
	case 2:
		return SiblingAfter, true
	default:
		return SiblingBefore, false
	}
}

// Identity reports whether the plan leaves content untouched.
func (m Mutation) Identity() bool {
	return m.Wrapper == 0 && m.Decoy == 0
}

// Mutator computes structural perturbations and orderings.
type Mutator struct {
	policy Policy
}

// NewMutator builds a mutator bound to policy.
func NewMutator(policy Policy) *Mutator {
	return &Mutator{policy: policy}
}

// Policy returns the mutator's variation policy.
func (m *Mutator) Policy() Policy {
	if m == nil {
		return DefaultPolicy()
	}
	return m.policy
}

// Plan decides how content registered under key is perturbed for seed.
func (m *Mutator) Plan(seed int, key string) Mutation {
	policy := m.Policy()
	seed = policy.Normalize(seed)
	plan := Mutation{Seed: seed, Key: key, Kind: containerKindFor(key)}
	if policy.Canonical(seed) {
		return plan
	}
	plan.Wrapper = SelectVariantIndex(seed, key+"-wrapper", 2)
	plan.Decoy = SelectVariantIndex(seed, key+"-decoy", 3)
	return plan
}

// Mutate applies the plan for (seed, key) to content through decorator. A
// canonical seed or an identity plan returns content as is.
func Mutate[C any](m *Mutator, decorator Decorator[C], seed int, key string, content C) C {
	return Apply(m.Plan(seed, key), decorator, content)
}

// Apply runs a precomputed plan.
func Apply[C any](plan Mutation, decorator Decorator[C], content C) C {
	if decorator == nil || plan.Identity() {
		return content
	}
	out := content
	if plan.Wrapped() {
		out = decorator.Wrap(out, plan.Kind, Marker{
			ID:  GenerateID(plan.Seed, plan.Key, "wrap"),
			Key: plan.Key,
		})
	}
	if position, ok := plan.DecoyPosition(); ok {
		out = decorator.InsertDecoy(out, position, Marker{
			ID:  GenerateID(plan.Seed, plan.Key, "decoy"),
			Key: plan.Key,
		})
	}
	return out
}

func containerKindFor(key string) ContainerKind {
	lower := strings.ToLower(key)
	switch {
	case strings.Contains(lower, "form"), strings.Contains(lower, "search"):
		return ContainerFullSize
	case strings.Contains(lower, "card"):
		return ContainerBlock
	default:
		return ContainerInline
	}
}
