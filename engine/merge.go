package engine

import "github.com/opd-ai/sortvis/element"

// merge is top-down merge sort. Each merge takes explicit snapshot
// copies of both halves before writing: destination indices are
// overwritten in place while still needed as comparison sources, so
// merging without the snapshot would read values it has already
// clobbered.
func (r *run) merge() error {
	return r.mergeRange(0, len(r.seq)-1)
}

func (r *run) mergeRange(lo, hi int) error {
	if lo >= hi {
		return nil
	}
	mid := lo + (hi-lo)/2
	if err := r.mergeRange(lo, mid); err != nil {
		return err
	}
	if err := r.mergeRange(mid+1, hi); err != nil {
		return err
	}
	return r.mergeRuns(lo, mid, hi)
}

// mergeRuns merges the sorted sub-ranges [lo, mid] and [mid+1, hi] in
// place, attributing each comparison to the source slots the snapshot
// values came from. Shared with tim sort's merge passes.
func (r *run) mergeRuns(lo, mid, hi int) error {
	left := make([]element.Element, mid-lo+1)
	copy(left, r.seq[lo:mid+1])
	right := make([]element.Element, hi-mid)
	copy(right, r.seq[mid+1:hi+1])

	i, j, k := 0, 0, lo
	for i < len(left) && j < len(right) {
		r.mark(k, element.StatePointer)
		rightFirst, err := r.lessVals(right[j].Value, left[i].Value, mid+1+j, lo+i)
		if err != nil {
			return err
		}
		var src element.Element
		if rightFirst {
			src = right[j]
			j++
		} else {
			src = left[i]
			i++
		}
		if err := r.overwrite(k, src); err != nil {
			return err
		}
		r.mark(k, element.StateUnsorted)
		k++
	}
	for i < len(left) {
		r.mark(k, element.StatePointer)
		if err := r.overwrite(k, left[i]); err != nil {
			return err
		}
		r.mark(k, element.StateUnsorted)
		i++
		k++
	}
	for j < len(right) {
		r.mark(k, element.StatePointer)
		if err := r.overwrite(k, right[j]); err != nil {
			return err
		}
		r.mark(k, element.StateUnsorted)
		j++
		k++
	}
	return nil
}

// timRunSize is the fixed initial run length for tim sort.
const timRunSize = 32

// tim sorts fixed-size runs with insertion sort, then merges runs with
// width doubling each pass until one run spans the sequence.
func (r *run) tim() error {
	n := len(r.seq)
	for lo := 0; lo < n; lo += timRunSize {
		hi := lo + timRunSize - 1
		if hi > n-1 {
			hi = n - 1
		}
		if err := r.insertionRange(lo, hi); err != nil {
			return err
		}
	}
	for width := timRunSize; width < n; width *= 2 {
		for lo := 0; lo < n; lo += 2 * width {
			mid := lo + width - 1
			hi := lo + 2*width - 1
			if hi > n-1 {
				hi = n - 1
			}
			if mid < hi {
				if err := r.mergeRuns(lo, mid, hi); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
