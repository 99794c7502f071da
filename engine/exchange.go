package engine

import "github.com/opd-ai/sortvis/element"

// bubble repeatedly sweeps adjacent pairs, settling the far end of the
// active range each pass. A pass with no swaps ends the run early; on
// pre-sorted input that is n-1 comparisons and zero swaps.
func (r *run) bubble() error {
	n := len(r.seq)
	for end := n - 1; end > 0; end-- {
		swapped := false
		for i := 0; i < end; i++ {
			r.mark(i, element.StateComparing)
			r.mark(i+1, element.StateComparing)
			outOfOrder, err := r.less(i+1, i)
			if err != nil {
				return err
			}
			if outOfOrder {
				if err := r.swap(i, i+1); err != nil {
					return err
				}
				swapped = true
			}
			r.mark(i, element.StateUnsorted)
			r.mark(i+1, element.StateUnsorted)
		}
		r.mark(end, element.StateSorted)
		if !swapped {
			break
		}
	}
	return nil
}

// cocktail alternates forward and backward bubble passes, settling both
// ends of the shrinking active range. Shares bubble's early exit.
func (r *run) cocktail() error {
	lo, hi := 0, len(r.seq)-1
	for lo < hi {
		swapped := false
		for i := lo; i < hi; i++ {
			r.mark(i, element.StateComparing)
			r.mark(i+1, element.StateComparing)
			outOfOrder, err := r.less(i+1, i)
			if err != nil {
				return err
			}
			if outOfOrder {
				if err := r.swap(i, i+1); err != nil {
					return err
				}
				swapped = true
			}
			r.mark(i, element.StateUnsorted)
			r.mark(i+1, element.StateUnsorted)
		}
		r.mark(hi, element.StateSorted)
		hi--
		if !swapped {
			break
		}

		swapped = false
		for i := hi; i > lo; i-- {
			r.mark(i-1, element.StateComparing)
			r.mark(i, element.StateComparing)
			outOfOrder, err := r.less(i, i-1)
			if err != nil {
				return err
			}
			if outOfOrder {
				if err := r.swap(i-1, i); err != nil {
					return err
				}
				swapped = true
			}
			r.mark(i-1, element.StateUnsorted)
			r.mark(i, element.StateUnsorted)
		}
		r.mark(lo, element.StateSorted)
		lo++
		if !swapped {
			break
		}
	}
	return nil
}

// selection scans the unsorted suffix for the current best element and
// swaps it into place. The running best index carries the pointer
// marker, concurrently visible with the comparing marker on the scan
// cursor.
func (r *run) selection() error {
	n := len(r.seq)
	for i := 0; i < n-1; i++ {
		best := i
		r.mark(best, element.StatePointer)
		for j := i + 1; j < n; j++ {
			r.mark(j, element.StateComparing)
			better, err := r.less(j, best)
			if err != nil {
				return err
			}
			if better {
				r.mark(best, element.StateUnsorted)
				best = j
				r.mark(best, element.StatePointer)
			} else {
				r.mark(j, element.StateUnsorted)
			}
		}
		if best != i {
			if err := r.swap(i, best); err != nil {
				return err
			}
			r.mark(best, element.StateUnsorted)
		}
		r.mark(i, element.StateSorted)
	}
	return nil
}

// insertion sinks each element leftward through the sorted prefix by
// adjacent swaps. The prefix is not final until the run ends, so no
// sorted markers are placed here.
func (r *run) insertion() error {
	return r.insertionRange(0, len(r.seq)-1)
}

// insertionRange is insertion sort over the inclusive range [lo, hi],
// shared with tim sort's run phase.
func (r *run) insertionRange(lo, hi int) error {
	for i := lo + 1; i <= hi; i++ {
		r.mark(i, element.StatePointer)
		for j := i; j > lo; j-- {
			r.mark(j-1, element.StateComparing)
			outOfOrder, err := r.less(j, j-1)
			if err != nil {
				return err
			}
			r.mark(j-1, element.StateUnsorted)
			if !outOfOrder {
				break
			}
			if err := r.swap(j-1, j); err != nil {
				return err
			}
		}
		for k := lo; k <= i; k++ {
			r.mark(k, element.StateUnsorted)
		}
	}
	return nil
}

// gnome walks a single cursor, stepping back after each corrective swap.
func (r *run) gnome() error {
	n := len(r.seq)
	pos := 0
	for pos < n {
		if pos == 0 {
			pos++
			continue
		}
		r.mark(pos-1, element.StateComparing)
		r.mark(pos, element.StateComparing)
		outOfOrder, err := r.less(pos, pos-1)
		if err != nil {
			return err
		}
		r.mark(pos-1, element.StateUnsorted)
		r.mark(pos, element.StateUnsorted)
		if outOfOrder {
			if err := r.swap(pos-1, pos); err != nil {
				return err
			}
			pos--
		} else {
			pos++
		}
	}
	return nil
}

// shell runs gapped insertion passes with the gap halving each round.
func (r *run) shell() error {
	n := len(r.seq)
	for gap := n / 2; gap > 0; gap /= 2 {
		for i := gap; i < n; i++ {
			for j := i; j >= gap; j -= gap {
				r.mark(j-gap, element.StateComparing)
				r.mark(j, element.StateComparing)
				outOfOrder, err := r.less(j, j-gap)
				if err != nil {
					return err
				}
				r.mark(j-gap, element.StateUnsorted)
				r.mark(j, element.StateUnsorted)
				if !outOfOrder {
					break
				}
				if err := r.swap(j-gap, j); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// combShrink is the gap shrink factor, the conventional 1.3 expressed
// as an integer ratio.
const combShrinkNum, combShrinkDen = 10, 13

// comb is bubble sort over a shrinking gap, finishing with gap-1 passes
// until a swap-free pass.
func (r *run) comb() error {
	n := len(r.seq)
	gap := n
	swapped := true
	for gap > 1 || swapped {
		gap = gap * combShrinkNum / combShrinkDen
		if gap < 1 {
			gap = 1
		}
		swapped = false
		for i := 0; i+gap < n; i++ {
			r.mark(i, element.StateComparing)
			r.mark(i+gap, element.StateComparing)
			outOfOrder, err := r.less(i+gap, i)
			if err != nil {
				return err
			}
			if outOfOrder {
				if err := r.swap(i, i+gap); err != nil {
					return err
				}
				swapped = true
			}
			r.mark(i, element.StateUnsorted)
			r.mark(i+gap, element.StateUnsorted)
		}
	}
	return nil
}
