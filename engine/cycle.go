package engine

import "github.com/opd-ai/sortvis/element"

// cycle is minimal-write cycle sort: each element is written at most
// once, directly into its final position, by rotating one permutation
// cycle at a time. The in-hand item is outside the sequence between
// writes, so writes are overwrite events rather than swaps.
//
// Destination search must skip over equal values, otherwise an item
// equal to the occupant of its own destination slot never lands and the
// rotation loops forever on duplicate-heavy input. The skip rescans
// from the cycle start each rotation; redundant but bounded.
func (r *run) cycle() error {
	n := len(r.seq)
	for start := 0; start < n-1; start++ {
		item := r.seq[start]
		r.mark(start, element.StatePivot)

		pos, err := r.destination(item, start)
		if err != nil {
			return err
		}
		if pos == start {
			r.mark(start, element.StateSorted)
			continue
		}
		if pos, err = r.skipEqual(item, pos, start); err != nil {
			return err
		}

		displaced := r.seq[pos]
		if err := r.overwrite(pos, item); err != nil {
			return err
		}
		r.mark(pos, element.StateSorted)
		item = displaced

		for pos != start {
			if pos, err = r.destination(item, start); err != nil {
				return err
			}
			if pos, err = r.skipEqual(item, pos, start); err != nil {
				return err
			}
			displaced = r.seq[pos]
			if err := r.overwrite(pos, item); err != nil {
				return err
			}
			r.mark(pos, element.StateSorted)
			item = displaced
		}
	}
	return nil
}

// destination counts the slot for the in-hand item within the cycle
// rooted at start: one past every element preceding it.
func (r *run) destination(item element.Element, start int) (int, error) {
	pos := start
	for i := start + 1; i < len(r.seq); i++ {
		prev := r.seq[i].State
		r.mark(i, element.StateComparing)
		precedes, err := r.lessVals(r.seq[i].Value, item.Value, i, start)
		if err != nil {
			return 0, err
		}
		r.mark(i, prev)
		if precedes {
			pos++
		}
	}
	return pos, nil
}

// skipEqual advances pos past slots already holding a value equal to
// the in-hand item, so duplicates land in distinct final slots. Never
// called with pos == start and an item already in place, which keeps
// the scan inside the sequence.
func (r *run) skipEqual(item element.Element, pos, start int) (int, error) {
	for {
		equal, err := r.equalVals(r.seq[pos].Value, item.Value, pos, start)
		if err != nil {
			return 0, err
		}
		if !equal {
			return pos, nil
		}
		pos++
	}
}
