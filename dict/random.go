package dict

import "math/rand/v2"

// GetRandomKey returns a random entry, or nil if the dictionary is empty.
//
// Selection is only approximately uniform over keys: a bucket is picked
// uniformly among non-empty ones and then a random chain position within it,
// so entries sharing a long chain are under-weighted relative to entries
// sitting alone in theirs. Callers needing exact uniformity must not use
// this.
func (d *Dict) GetRandomKey() *Entry {
	if d.Used() == 0 {
		return nil
	}
	if d.IsRehashing() {
		d.rehashStep()
	}

	var he *Entry
	if d.IsRehashing() {
		// Buckets of ht[0] below rehashidx are already migrated, so draw
		// from the remaining ht[0] span plus the whole of ht[1]; that keeps
		// both generations represented proportionally to their sizes.
		for he == nil {
			h := uint64(d.rehashidx) +
				rand.Uint64N(d.ht[0].size+d.ht[1].size-uint64(d.rehashidx))
			if h >= d.ht[0].size {
				he = d.ht[1].buckets[h-d.ht[0].size]
			} else {
				he = d.ht[0].buckets[h]
			}
		}
	} else {
		for he == nil {
			he = d.ht[0].buckets[rand.Uint64()&d.ht[0].sizemask]
		}
	}

	// Pick a random position in the chain. Chains are short on average, so
	// counting it is cheaper than any bookkeeping would be.
	listlen := 0
	for orig := he; orig != nil; orig = orig.next {
		listlen++
	}
	for listele := rand.IntN(listlen); listele > 0; listele-- {
		he = he.next
	}
	return he
}

// GetSomeKeys collects up to count entries by walking a bounded number of
// buckets forward from a random starting point, across both generations
// while rehashing. It returns the entries found, possibly fewer than
// requested (and possibly with duplicates) when the table is sparse or the
// walk budget runs out.
//
// The result is not uniformly distributed, but it produces good enough
// spread at O(count) cost for approximate workloads like eviction candidate
// selection, where a full scan per decision would not be affordable.
func (d *Dict) GetSomeKeys(count uint64) []*Entry {
	if size := d.Used(); size < count {
		count = size
	}
	if count == 0 {
		return nil
	}
	maxSteps := count * 10

	// Put in some migration work proportional to the sample size first.
	for j := uint64(0); j < count && d.IsRehashing(); j++ {
		d.rehashStep()
	}

	tables := 1
	if d.IsRehashing() {
		tables = 2
	}
	maxSizeMask := d.ht[0].sizemask
	if tables > 1 && d.ht[1].sizemask > maxSizeMask {
		maxSizeMask = d.ht[1].sizemask
	}

	entries := make([]*Entry, 0, count)
	i := rand.Uint64() & maxSizeMask
	emptyLen := uint64(0) // contiguous empty buckets seen so far
	for uint64(len(entries)) < count && maxSteps > 0 {
		maxSteps--
		for t := 0; t < tables; t++ {
			// While rehashing there are no entries below rehashidx in
			// ht[0], so that span can be skipped outright.
			if tables == 2 && t == 0 && i < uint64(d.rehashidx) {
				// If the index is also out of range for the new (smaller)
				// generation, both tables are empty up to rehashidx; jump
				// there instead of crawling the gap.
				if i >= d.ht[1].size {
					i = uint64(d.rehashidx)
				} else {
					continue
				}
			}
			if i >= d.ht[t].size {
				continue
			}

			he := d.ht[t].buckets[i]
			if he == nil {
				emptyLen++
				if emptyLen >= 5 && emptyLen > count {
					i = rand.Uint64() & maxSizeMask
					emptyLen = 0
				}
				continue
			}
			emptyLen = 0
			for ; he != nil; he = he.next {
				entries = append(entries, he)
				if uint64(len(entries)) == count {
					return entries
				}
			}
		}
		i = (i + 1) & maxSizeMask
	}
	return entries
}
