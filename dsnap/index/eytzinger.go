package index

// buildEytzinger reorders ascending sizes and their parallel ids into the
// eytzinger layout (in-order fill of the implicit binary tree whose 1-based
// node i has children 2i and 2i+1), which keeps size-range descents on large
// snapshots cache friendly.
func buildEytzinger(sorted []int64, ids []FileID) (layout []int64, ordered []FileID) {
	n := len(sorted)
	layout = make([]int64, n)
	ordered = make([]FileID, n)
	pos := 0
	var fill func(i int)
	fill = func(i int) {
		if i > n {
			return
		}
		fill(2 * i)
		layout[i-1] = sorted[pos]
		ordered[i-1] = ids[pos]
		pos++
		fill(2*i + 1)
	}
	fill(1)
	return layout, ordered
}

// rangeIDs collects the ids of entries with min <= size <= max by in-order
// descent, pruning subtrees outside the bounds. Because the layout was
// filled in order, results come back in the pre-sort order of the matching
// entries.
func rangeIDs(layout []int64, ids []FileID, min, max int64) []FileID {
	var out []FileID
	var visit func(i int)
	visit = func(i int) {
		if i > len(layout) {
			return
		}
		v := layout[i-1]
		if v >= min {
			visit(2 * i)
		}
		if v >= min && v <= max {
			out = append(out, ids[i-1])
		}
		if v <= max {
			visit(2*i + 1)
		}
	}
	visit(1)
	return out
}
