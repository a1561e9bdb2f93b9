package variation

import (
	"strconv"
	"strings"
)

// Order returns a permutation of [0, count) for key under seed. Canonical
// seeds and counts below two yield the identity.
//
// The candidate pool is built from every non-trivial rotation, every adjacent
// swap, every split-point prefix/suffix reversal and one hash-seeded shuffle,
// deduplicated by sequence; identity candidates are discarded. One candidate
// is then picked with SelectVariantIndex.
func (m *Mutator) Order(seed int, key string, count int) []int {
	if count <= 0 {
		return []int{}
	}
	base := identity(count)
	policy := m.Policy()
	seed = policy.Normalize(seed)
	if count == 1 || policy.Canonical(seed) {
		return base
	}

	pool := newPermutationPool(count)
	for r := 1; r < count; r++ {
		pool.add(rotate(base, r))
	}
	for i := 0; i < count-1; i++ {
		pool.add(swapAdjacent(base, i))
	}
	for split := 1; split < count; split++ {
		pool.add(reverseAround(base, split))
	}
	pool.add(hashShuffle(seed, key, count))

	if len(pool.items) == 0 {
		return base
	}
	return pool.items[SelectVariantIndex(seed, key, len(pool.items))]
}

// Reorder returns items arranged by perm. Indices outside items are skipped so
// a mismatched permutation never panics.
func Reorder[T any](items []T, perm []int) []T {
	out := make([]T, 0, len(items))
	for _, index := range perm {
		if index < 0 || index >= len(items) {
			continue
		}
		out = append(out, items[index])
	}
	return out
}

type permutationPool struct {
	seen  map[string]struct{}
	items [][]int
}

func newPermutationPool(count int) *permutationPool {
	return &permutationPool{
		seen:  make(map[string]struct{}, 3*count),
		items: make([][]int, 0, 3*count),
	}
}

func (p *permutationPool) add(candidate []int) {
	if isIdentity(candidate) {
		return
	}
	key := permutationKey(candidate)
	if _, ok := p.seen[key]; ok {
		return
	}
	p.seen[key] = struct{}{}
	p.items = append(p.items, candidate)
}

func identity(count int) []int {
	out := make([]int, count)
	for i := range out {
		out[i] = i
	}
	return out
}

func isIdentity(perm []int) bool {
	for i, value := range perm {
		if value != i {
			return false
		}
	}
	return true
}

func rotate(base []int, by int) []int {
	n := len(base)
	out := make([]int, n)
	for i := range base {
		out[i] = base[(i+by)%n]
	}
	return out
}

func swapAdjacent(base []int, at int) []int {
	out := append([]int(nil), base...)
	out[at], out[at+1] = out[at+1], out[at]
	return out
}

// reverseAround reverses the prefix [0, split) and the suffix [split, n)
// independently.
func reverseAround(base []int, split int) []int {
	out := append([]int(nil), base...)
	reverseInts(out[:split])
	reverseInts(out[split:])
	return out
}

func reverseInts(values []int) {
	for i, j := 0, len(values)-1; i < j; i, j = i+1, j-1 {
		values[i], values[j] = values[j], values[i]
	}
}

// hashShuffle is a Fisher-Yates pass whose swap targets come from HashString
// instead of a PRNG, so it is reproducible from (seed, key) alone.
func hashShuffle(seed int, key string, count int) []int {
	out := identity(count)
	prefix := key + ":" + strconv.Itoa(seed) + ":shuffle:"
	for i := count - 1; i > 0; i-- {
		j := HashString(prefix+strconv.Itoa(i)) % (i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func permutationKey(perm []int) string {
	var b strings.Builder
	for i, value := range perm {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(value))
	}
	return b.String()
}
