package engine

import "github.com/opd-ai/sortvis/element"

// quick sorts via Lomuto partitioning with the last element of each
// active range as pivot. Recursion is structural over the two
// sub-ranges; depth is O(log n) on average and O(n) on adversarial
// input, a known limitation of the fixed pivot choice.
func (r *run) quick() error {
	return r.quickRange(0, len(r.seq)-1)
}

func (r *run) quickRange(lo, hi int) error {
	if lo >= hi {
		if lo == hi {
			r.mark(lo, element.StateSorted)
		}
		return nil
	}
	p, err := r.partition(lo, hi)
	if err != nil {
		return err
	}
	if err := r.quickRange(lo, p-1); err != nil {
		return err
	}
	return r.quickRange(p+1, hi)
}

// partition places the pivot (at hi) into its final slot and returns
// that slot. The pivot and boundary markers are emitted and cleared
// independently of the comparing marker on the scan cursor.
func (r *run) partition(lo, hi int) (int, error) {
	r.mark(hi, element.StatePivot)
	boundary := lo - 1
	for j := lo; j < hi; j++ {
		r.mark(j, element.StateComparing)
		precedes, err := r.less(j, hi)
		if err != nil {
			return 0, err
		}
		if precedes {
			if boundary >= lo {
				r.mark(boundary, element.StateUnsorted)
			}
			boundary++
			if err := r.swap(boundary, j); err != nil {
				return 0, err
			}
			r.mark(boundary, element.StatePointer)
			if boundary != j {
				r.mark(j, element.StateUnsorted)
			}
		} else {
			r.mark(j, element.StateUnsorted)
		}
	}
	if boundary >= lo {
		r.mark(boundary, element.StateUnsorted)
	}
	p := boundary + 1
	if p != hi {
		if err := r.swap(p, hi); err != nil {
			return 0, err
		}
		r.mark(hi, element.StateUnsorted)
	}
	r.mark(p, element.StateSorted)
	return p, nil
}

// heap builds a direction-appropriate heap, then repeatedly extracts
// the root to the end of the shrinking range. For descending order the
// shared predicate inverts, so the same sift routine builds a min-heap.
func (r *run) heap() error {
	n := len(r.seq)
	for i := n/2 - 1; i >= 0; i-- {
		if err := r.siftDown(i, n); err != nil {
			return err
		}
	}
	for end := n - 1; end > 0; end-- {
		if err := r.swap(0, end); err != nil {
			return err
		}
		r.mark(end, element.StateSorted)
		r.mark(0, element.StateUnsorted)
		if err := r.siftDown(0, end); err != nil {
			return err
		}
	}
	r.mark(0, element.StateSorted)
	return nil
}

// siftDown restores the heap property for the subtree rooted at root
// within the first size elements.
func (r *run) siftDown(root, size int) error {
	for {
		top := root
		left := 2*root + 1
		right := left + 1
		if left < size {
			r.mark(top, element.StateComparing)
			r.mark(left, element.StateComparing)
			deeper, err := r.less(top, left)
			if err != nil {
				return err
			}
			r.mark(top, element.StateUnsorted)
			r.mark(left, element.StateUnsorted)
			if deeper {
				top = left
			}
		}
		if right < size {
			r.mark(top, element.StateComparing)
			r.mark(right, element.StateComparing)
			deeper, err := r.less(top, right)
			if err != nil {
				return err
			}
			r.mark(top, element.StateUnsorted)
			r.mark(right, element.StateUnsorted)
			if deeper {
				top = right
			}
		}
		if top == root {
			return nil
		}
		if err := r.swap(root, top); err != nil {
			return err
		}
		r.mark(root, element.StateUnsorted)
		r.mark(top, element.StateUnsorted)
		root = top
	}
}
