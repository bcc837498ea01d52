// Package correlate pairs partial records from independent enumeration
// sources that describe an unknown-overlapping set of physical devices.
//
// Matching runs as an explicit two-phase pass: both source lists are
// materialized into owned pools, then each reliability tier scans the pools
// in order and removes matched items. No record is matched twice; when
// several candidates satisfy a tier, the first one pulled wins. Positional
// pairing of whatever remains is a separate, last-resort step.
package correlate

// MatchFunc reports whether two records describe the same physical device.
// Tiers are ordered from most to least reliable.
type MatchFunc[A, B any] func(a A, b B) bool

// Pair is one correlated record.
type Pair[A, B any] struct {
	A A
	B B
}

// Result partitions both inputs: every input element appears in exactly one
// pair or one unmatched list.
type Result[A, B any] struct {
	Pairs      []Pair[A, B]
	UnmatchedA []A
	UnmatchedB []B
}

// Match correlates as against bs using the given tiers.
func Match[A, B any](as []A, bs []B, tiers ...MatchFunc[A, B]) Result[A, B] {
	poolA := append([]A(nil), as...)
	poolB := append([]B(nil), bs...)
	var pairs []Pair[A, B]

	for _, tier := range tiers {
		for i := 0; i < len(poolA); {
			j := findIndex(poolB, poolA[i], tier)
			if j < 0 {
				i++
				continue
			}
			pairs = append(pairs, Pair[A, B]{A: poolA[i], B: poolB[j]})
			poolA = removeAt(poolA, i)
			poolB = removeAt(poolB, j)
		}
	}

	return Result[A, B]{Pairs: pairs, UnmatchedA: poolA, UnmatchedB: poolB}
}

// MatchPositional correlates with the given tiers and then pairs the
// remaining unmatched records by position.
func MatchPositional[A, B any](as []A, bs []B, tiers ...MatchFunc[A, B]) Result[A, B] {
	res := Match(as, bs, tiers...)
	n := min(len(res.UnmatchedA), len(res.UnmatchedB))
	for i := 0; i < n; i++ {
		res.Pairs = append(res.Pairs, Pair[A, B]{A: res.UnmatchedA[i], B: res.UnmatchedB[i]})
	}
	res.UnmatchedA = res.UnmatchedA[n:]
	res.UnmatchedB = res.UnmatchedB[n:]
	return res
}

func findIndex[A, B any](pool []B, a A, match MatchFunc[A, B]) int {
	for j, b := range pool {
		if match(a, b) {
			return j
		}
	}
	return -1
}

// removeAt preserves order so positional pairing stays deterministic.
func removeAt[T any](s []T, i int) []T {
	return append(s[:i:i], s[i+1:]...)
}
