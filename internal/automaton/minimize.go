package automaton

// Minimize returns the minimal DFA equivalent to d (Hopcroft). Missing
// transitions are treated as edges into an implicit dead state, which
// is dropped again from the result. States are renumbered in
// breadth-first order from the start state.
func Minimize(d *DFA) *DFA {
	if d == nil || len(d.States) == 0 {
		return d
	}
	n := len(d.States)
	dead := n
	total := n + 1
	next := func(s, a int) int {
		if s == dead {
			return dead
		}
		if t := d.States[s].Next[a]; t >= 0 {
			return t
		}
		return dead
	}
	accepting := func(s int) bool { return s != dead && d.States[s].Accepting }

	// inverse transitions per atom
	inv := make([][][]int, len(d.Atoms))
	for a := range d.Atoms {
		inv[a] = make([][]int, total)
		for s := 0; s < total; s++ {
			t := next(s, a)
			inv[a][t] = append(inv[a][t], s)
		}
	}

	// 1. initial partition
	blockOf := make([]int, total)
	var blocks [][]int
	var acc, non []int
	for s := 0; s < total; s++ {
		if accepting(s) {
			acc = append(acc, s)
		} else {
			non = append(non, s)
		}
	}
	for _, b := range [][]int{acc, non} {
		if len(b) == 0 {
			continue
		}
		for _, s := range b {
			blockOf[s] = len(blocks)
		}
		blocks = append(blocks, b)
	}
	inWork := make([]bool, len(blocks))
	work := make([]int, 0, len(blocks))
	for i := range blocks {
		work = append(work, i)
		inWork[i] = true
	}

	// 2. refine
	inX := make([]bool, total)
	for len(work) > 0 {
		idx := work[0]
		work = work[1:]
		inWork[idx] = false
		splitter := append([]int(nil), blocks[idx]...)

		for a := range d.Atoms {
			var x []int
			for _, t := range splitter {
				for _, s := range inv[a][t] {
					if !inX[s] {
						inX[s] = true
						x = append(x, s)
					}
				}
			}
			if len(x) == 0 {
				continue
			}
			touched := map[int]bool{}
			for _, s := range x {
				touched[blockOf[s]] = true
			}
			for pIdx := range touched {
				var inter, diff []int
				for _, s := range blocks[pIdx] {
					if inX[s] {
						inter = append(inter, s)
					} else {
						diff = append(diff, s)
					}
				}
				if len(inter) == 0 || len(diff) == 0 {
					continue
				}
				blocks[pIdx] = inter
				nIdx := len(blocks)
				blocks = append(blocks, diff)
				inWork = append(inWork, false)
				for _, s := range diff {
					blockOf[s] = nIdx
				}
				switch {
				case inWork[pIdx]:
					work = append(work, nIdx)
					inWork[nIdx] = true
				case len(inter) < len(diff):
					work = append(work, pIdx)
					inWork[pIdx] = true
				default:
					work = append(work, nIdx)
					inWork[nIdx] = true
				}
			}
			for _, s := range x {
				inX[s] = false
			}
		}
	}

	// 3. rebuild, breadth-first from the start block
	deadBlock := blockOf[dead]
	out := &DFA{Atoms: d.Atoms}
	newID := map[int]int{}
	var queue []int
	visit := func(b int) int {
		if b == deadBlock {
			return -1
		}
		if id, ok := newID[b]; ok {
			return id
		}
		id := len(out.States)
		newID[b] = id
		rep := blocks[b][0]
		out.States = append(out.States, DFAState{ID: id, Accepting: accepting(rep)})
		queue = append(queue, b)
		return id
	}

	startBlock := blockOf[d.Start]
	if startBlock == deadBlock {
		// empty language
		out.States = []DFAState{{ID: 0, Next: make([]int, len(d.Atoms))}}
		for i := range out.States[0].Next {
			out.States[0].Next[i] = -1
		}
		return out
	}
	out.Start = visit(startBlock)
	for len(queue) > 0 {
		b := queue[0]
		queue = queue[1:]
		id := newID[b]
		rep := blocks[b][0]
		nx := make([]int, len(d.Atoms))
		for a := range d.Atoms {
			nx[a] = visit(blockOf[next(rep, a)])
		}
		out.States[id].Next = nx
	}
	return out
}
