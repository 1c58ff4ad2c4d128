package refine

// matchPair is a matched token pair produced by the LCS engine: token i of the removed side and
// token j of the added side are byte-equal.
type matchPair struct {
	i, j int
}

// matchPairs reads out the (i, j) match pairs from the result vectors produced by
// internal/myers.DiffFunc. rx[s] (ry[t]) reports whether removed token s (added token t) is
// unmatched; this walks both vectors in lockstep the same way internal/myers's own test helper
// renders them, so that any token position not claimed by a deletion or insertion is a match.
func matchPairs(rx, ry []bool, n, m int) []matchPair {
	var pairs []matchPair
	for s, t := 0, 0; s < n || t < m; {
		switch {
		case s < n && rx[s]:
			s++
		case t < m && ry[t]:
			t++
		default:
			pairs = append(pairs, matchPair{s, t})
			s++
			t++
		}
	}
	return pairs
}
