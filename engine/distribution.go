package engine

import "github.com/opd-ai/sortvis/element"

// counting is non-comparison counting sort. Values are binned through a
// min-value offset so negative-to-positive ranges work, then a stable
// rebuild pass overwrites the sequence from a snapshot so element
// identities survive. Direction is handled by laying the value buckets
// out ascending or descending before the rebuild.
func (r *run) counting() error {
	n := len(r.seq)
	min, max := r.valueRange()

	counts := make([]int, max-min+1)
	for i := 0; i < n; i++ {
		r.mark(i, element.StatePointer)
		counts[r.seq[i].Value-min]++
		if err := r.checkpoint(); err != nil {
			return err
		}
		r.mark(i, element.StateUnsorted)
	}

	starts := bucketStarts(counts, r.dir)
	snapshot := r.seq.Clone()
	for _, src := range snapshot {
		bucket := src.Value - min
		dest := starts[bucket]
		starts[bucket]++
		r.mark(dest, element.StatePointer)
		if err := r.overwrite(dest, src); err != nil {
			return err
		}
		r.mark(dest, element.StateUnsorted)
	}
	return nil
}

// valueRange scans for the minimum and maximum values. The sequence is
// non-empty here; Run short-circuits n <= 1.
func (r *run) valueRange() (min, max int) {
	min, max = r.seq[0].Value, r.seq[0].Value
	for i := 1; i < len(r.seq); i++ {
		v := r.seq[i].Value
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// bucketStarts turns per-bucket counts into starting output indices,
// laid out in ascending or descending bucket order.
func bucketStarts(counts []int, dir element.Direction) []int {
	starts := make([]int, len(counts))
	total := 0
	if dir == element.Descending {
		for b := len(counts) - 1; b >= 0; b-- {
			starts[b] = total
			total += counts[b]
		}
	} else {
		for b := 0; b < len(counts); b++ {
			starts[b] = total
			total += counts[b]
		}
	}
	return starts
}

// radix is least-significant-digit radix sort: a stable base-10
// counting pass per digit over min-offset keys, so negative values sort
// correctly. Digit-wise counting is inherently ascending-stable, so a
// descending run finishes with an in-place reverse post-pass.
func (r *run) radix() error {
	min, max := r.valueRange()
	span := max - min

	for exp := 1; span/exp > 0; exp *= 10 {
		if err := r.radixPass(min, exp); err != nil {
			return err
		}
	}
	if r.dir == element.Descending {
		return r.reverse()
	}
	return nil
}

// radixPass stably redistributes the sequence by one base-10 digit of
// the offset key.
func (r *run) radixPass(min, exp int) error {
	n := len(r.seq)
	counts := make([]int, 10)
	for i := 0; i < n; i++ {
		r.mark(i, element.StatePointer)
		counts[(r.seq[i].Value-min)/exp%10]++
		if err := r.checkpoint(); err != nil {
			return err
		}
		r.mark(i, element.StateUnsorted)
	}

	starts := bucketStarts(counts, element.Ascending)
	snapshot := r.seq.Clone()
	for _, src := range snapshot {
		digit := (src.Value - min) / exp % 10
		dest := starts[digit]
		starts[digit]++
		r.mark(dest, element.StatePointer)
		if err := r.overwrite(dest, src); err != nil {
			return err
		}
		r.mark(dest, element.StateUnsorted)
	}
	return nil
}

// reverse mirrors the sequence with pairwise swaps.
func (r *run) reverse() error {
	for i, j := 0, len(r.seq)-1; i < j; i, j = i+1, j-1 {
		r.mark(i, element.StateComparing)
		r.mark(j, element.StateComparing)
		if err := r.swap(i, j); err != nil {
			return err
		}
		r.mark(i, element.StateUnsorted)
		r.mark(j, element.StateUnsorted)
	}
	return nil
}
