package pagelist

// Ellipsis marks a collapsed run of pages in a pagination window.
const Ellipsis = -1

// DefaultMaxVisible is the window width used when maxVisible is not positive.
const DefaultMaxVisible = 5

// Window turns (current, total) into the compact page sequence shown by a
// pager: page numbers with Ellipsis entries where runs are collapsed.
//
// When total fits within maxVisible the full range [1..total] is returned.
// Otherwise the window always contains page 1, the last page, and the pages
// adjacent to current; an Ellipsis appears on a side only when at least one
// page is actually hidden there (current > 3 on the left, current < total-2
// on the right).
func Window(current, total, maxVisible int) []int {
	if maxVisible <= 0 {
		maxVisible = DefaultMaxVisible
	}
	if total < 1 {
		total = 1
	}

	if total <= maxVisible {
		out := make([]int, 0, total)
		for p := 1; p <= total; p++ {
			out = append(out, p)
		}
		return out
	}

	out := []int{1}
	if current > 3 {
		out = append(out, Ellipsis)
	}

	lo := current - 1
	if lo < 2 {
		lo = 2
	}
	hi := current + 1
	if hi > total-1 {
		hi = total - 1
	}
	// At the extremes the neighbor span collapses to a single page; widen it
	// so the boundary always shows three consecutive pages.
	if current == 1 && hi < 3 {
		hi = 3
	}
	if current == total && lo > total-2 {
		lo = total - 2
	}
	for p := lo; p <= hi; p++ {
		out = append(out, p)
	}

	if current < total-2 {
		out = append(out, Ellipsis)
	}
	if out[len(out)-1] != total {
		out = append(out, total)
	}
	return out
}
