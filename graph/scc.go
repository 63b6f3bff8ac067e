package graph

// sccFrame is one level of the explicit Tarjan work stack, standing in for
// a recursive strongconnect(v) call.
type sccFrame struct {
	v    int
	iter int // index into adj[v] of the next successor to examine
}

// sccByID computes strongly connected components of a graph given as
// adjacency lists over dense integer node ids, via Tarjan's algorithm with
// an explicit stack (no recursion, so arbitrarily deep graphs are safe).
// Components are returned in the order Tarjan completes them, which is
// reverse topological order: a component is only closed out after every
// component reachable from it has already been closed out.
func sccByID(n int, adj [][]int) [][]int {
	index := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	visited := make([]bool, n)
	for i := range index {
		index[i] = -1
	}
	var tarjanStack []int
	var result [][]int
	counter := 0

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}
		work := []*sccFrame{{v: start}}
		for len(work) > 0 {
			f := work[len(work)-1]
			v := f.v
			if !visited[v] {
				visited[v] = true
				index[v] = counter
				low[v] = counter
				counter++
				tarjanStack = append(tarjanStack, v)
				onStack[v] = true
			}
			descended := false
			for f.iter < len(adj[v]) {
				w := adj[v][f.iter]
				f.iter++
				if !visited[w] {
					work = append(work, &sccFrame{v: w})
					descended = true
					break
				} else if onStack[w] {
					if index[w] < low[v] {
						low[v] = index[w]
					}
				}
			}
			if descended {
				continue
			}
			work = work[:len(work)-1]
			if len(work) > 0 {
				parent := work[len(work)-1].v
				if low[v] < low[parent] {
					low[parent] = low[v]
				}
			}
			if low[v] == index[v] {
				var comp []int
				for {
					w := tarjanStack[len(tarjanStack)-1]
					tarjanStack = tarjanStack[:len(tarjanStack)-1]
					onStack[w] = false
					comp = append(comp, w)
					if w == v {
						break
					}
				}
				result = append(result, comp)
			}
		}
	}
	return result
}

// SCC computes strongly connected components over a graph of string keys.
// It is a "hashable variant": keys are first assigned dense integer ids (via
// a Classifier, so the id order matches first-discovery order) before
// running the id-based Tarjan algorithm, which avoids repeated map look-ups
// of string keys in the hot loop. Components are returned in reverse
// topological order, each as a list of keys.
func SCC(nodes []string, succ func(string) []string) [][]string {
	cl := NewClassifier()
	for _, n := range nodes {
		cl.Classify(n, n)
	}
	// discover any node reachable only as a successor, not in `nodes` itself
	for _, n := range nodes {
		for _, m := range succ(n) {
			cl.Classify(m, m)
		}
	}
	n := cl.NumClasses()
	adj := make([][]int, n)
	for id := 0; id < n; id++ {
		key := cl.Exemplar(id).(string)
		for _, m := range succ(key) {
			mid, _ := cl.Classify(m, m)
			adj[id] = append(adj[id], mid)
		}
	}
	comps := sccByID(n, adj)
	out := make([][]string, len(comps))
	for i, comp := range comps {
		keys := make([]string, len(comp))
		for j, id := range comp {
			keys[j] = cl.Exemplar(id).(string)
		}
		out[i] = keys
	}
	return out
}
