// Package state defines the persistence contract for dataset snapshots keyed
// by (domain, seed).
//
// Snapshots are a cache: they are never authoritative and can always be
// re-derived from the seed by the dataset loader. Stores therefore only load
// and save one snapshot per Ref and make no consistency promises beyond
// optional ETag checks.
//
// Deterministic keys:
//
//	Ref{Domain: "hotels", Seed: 42}.Identifier() == "hotels/seed-42"
package state
