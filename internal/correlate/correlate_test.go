package correlate

import "testing"

type devNode struct {
	id   int
	edid string
	path string
}

type output struct {
	id   int
	edid string
	name string
}

func edidEqual(a devNode, b output) bool {
	return a.edid != "" && a.edid == b.edid
}

func pathContainsName(a devNode, b output) bool {
	return b.name != "" && len(a.path) > 0 && contains(a.path, b.name)
}

func contains(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}

func TestMatchTierOrder(t *testing.T) {
	nodes := []devNode{
		{id: 1, edid: "AAA", path: "card0-DP-2/i2c-5"},
		{id: 2, edid: "", path: "card0-DP-2/i2c-4"},
	}
	outs := []output{
		{id: 10, edid: "AAA", name: "DP-1"},
		{id: 11, edid: "BBB", name: "DP-2"},
	}

	// EDID equality outranks path containment: node 1 must pair with
	// output 10 even though its path mentions DP-2.
	res := Match(nodes, outs, edidEqual, pathContainsName)

	if len(res.Pairs) != 2 {
		t.Fatalf("got %d pairs, want 2", len(res.Pairs))
	}
	byNode := map[int]int{}
	for _, p := range res.Pairs {
		byNode[p.A.id] = p.B.id
	}
	if byNode[1] != 10 {
		t.Errorf("node 1 paired with output %d, want 10", byNode[1])
	}
	if byNode[2] != 11 {
		t.Errorf("node 2 paired with output %d, want 11 via path containment", byNode[2])
	}
}

func TestMatchFirstPulledWins(t *testing.T) {
	nodes := []devNode{{id: 1, edid: "X"}, {id: 2, edid: "X"}}
	outs := []output{{id: 10, edid: "X"}}

	res := Match(nodes, outs, edidEqual)

	if len(res.Pairs) != 1 {
		t.Fatalf("got %d pairs, want 1", len(res.Pairs))
	}
	if res.Pairs[0].A.id != 1 {
		t.Errorf("pair took node %d, want the first-pulled node 1", res.Pairs[0].A.id)
	}
	if len(res.UnmatchedA) != 1 || res.UnmatchedA[0].id != 2 {
		t.Errorf("unmatched nodes = %v, want [node 2]", res.UnmatchedA)
	}
}

func TestMatchPositionalLastResort(t *testing.T) {
	nodes := []devNode{{id: 1}, {id: 2}, {id: 3}}
	outs := []output{{id: 10}, {id: 11}}

	res := MatchPositional(nodes, outs, edidEqual)

	if len(res.Pairs) != 2 {
		t.Fatalf("got %d pairs, want 2", len(res.Pairs))
	}
	if res.Pairs[0].A.id != 1 || res.Pairs[0].B.id != 10 {
		t.Errorf("first positional pair = %d/%d, want 1/10", res.Pairs[0].A.id, res.Pairs[0].B.id)
	}
	if len(res.UnmatchedA) != 1 || res.UnmatchedA[0].id != 3 {
		t.Errorf("unmatched nodes = %v, want [node 3]", res.UnmatchedA)
	}
	if len(res.UnmatchedB) != 0 {
		t.Errorf("unmatched outputs = %v, want none", res.UnmatchedB)
	}
}

// TestCompleteness checks that every input lands in exactly one pair or one
// unmatched list, for a mix of overlapping and disjoint records.
func TestCompleteness(t *testing.T) {
	nodes := []devNode{
		{id: 1, edid: "A"},
		{id: 2, edid: "B", path: "card0-HDMI-A-1/i2c-6"},
		{id: 3},
		{id: 4, edid: "Z"},
	}
	outs := []output{
		{id: 10, edid: "A"},
		{id: 11, name: "HDMI-A-1"},
		{id: 12, edid: "Q"},
	}

	res := MatchPositional(nodes, outs, edidEqual, pathContainsName)

	seenNodes := map[int]int{}
	seenOuts := map[int]int{}
	for _, p := range res.Pairs {
		seenNodes[p.A.id]++
		seenOuts[p.B.id]++
	}
	for _, a := range res.UnmatchedA {
		seenNodes[a.id]++
	}
	for _, b := range res.UnmatchedB {
		seenOuts[b.id]++
	}

	for _, n := range nodes {
		if seenNodes[n.id] != 1 {
			t.Errorf("node %d appeared %d times, want exactly once", n.id, seenNodes[n.id])
		}
	}
	for _, o := range outs {
		if seenOuts[o.id] != 1 {
			t.Errorf("output %d appeared %d times, want exactly once", o.id, seenOuts[o.id])
		}
	}
}

func TestMatchEmptyInputs(t *testing.T) {
	res := MatchPositional(nil, []output{{id: 10}}, edidEqual)
	if len(res.Pairs) != 0 || len(res.UnmatchedB) != 1 {
		t.Errorf("empty A side: pairs=%d unmatchedB=%d, want 0/1", len(res.Pairs), len(res.UnmatchedB))
	}
}
