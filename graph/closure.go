package graph

// TransitiveClosure computes the set of all keys reachable from roots via
// succ, using the classic gray/black two-set walk: a key is gray while
// queued for expansion and black once its successors have been examined.
// Terminates because the key universe is finite.
func TransitiveClosure(roots []string, succ func(string) []string) map[string]bool {
	black := make(map[string]bool)
	gray := append([]string(nil), roots...)
	for len(gray) > 0 {
		k := gray[len(gray)-1]
		gray = gray[:len(gray)-1]
		if black[k] {
			continue
		}
		black[k] = true
		for _, n := range succ(k) {
			if !black[n] {
				gray = append(gray, n)
			}
		}
	}
	return black
}
