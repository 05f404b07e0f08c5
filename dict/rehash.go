package dict

import "time"

// rehashMsQuota is the number of buckets migrated between deadline checks in
// RehashMilliseconds.
const rehashMsQuota = 100

// nextPower returns the smallest power of two that is >= size, clamped to
// the initial table size from below.
func nextPower(size uint64) uint64 {
	i := uint64(initialSize)
	if size >= 1<<63 {
		return 1 << 63
	}
	for i < size {
		i <<= 1
	}
	return i
}

// Expand allocates a new generation sized to the smallest power of two that
// can hold size entries and starts incremental migration into it. It does
// not block until migration completes.
//
// On the very first growth there is nothing to migrate, so the new array
// simply becomes the active generation.
func (d *Dict) Expand(size uint64) error {
	if d.IsRehashing() {
		return ErrRehashing
	}
	if d.ht[0].used > size {
		return ErrSizeTooSmall
	}
	realsize := nextPower(size)
	if realsize == d.ht[0].size {
		return ErrSizeUnchanged
	}

	n := table{
		buckets:  make([]*Entry, realsize),
		size:     realsize,
		sizemask: realsize - 1,
	}
	if d.ht[0].buckets == nil {
		d.ht[0] = n
		return nil
	}
	d.ht[1] = n
	d.rehashidx = 0
	return nil
}

// Resize shrinks (or grows) the table to the smallest size that tightly fits
// the current number of entries.
func (d *Dict) Resize() error {
	if !d.canResize {
		return ErrResizeDisabled
	}
	if d.IsRehashing() {
		return ErrRehashing
	}
	minimal := d.ht[0].used
	if minimal < initialSize {
		minimal = initialSize
	}
	return d.Expand(minimal)
}

// EnableResize re-enables the automatic growth trigger inside inserts.
func (d *Dict) EnableResize() { d.canResize = true }

// DisableResize suppresses the automatic growth trigger inside inserts.
// Explicit Expand calls still work, and a used/size ratio beyond
// forceResizeRatio still forces growth to keep chain lengths bounded.
func (d *Dict) DisableResize() { d.canResize = false }

// expandIfNeeded grows the table ahead of an insertion: to the floor size if
// the table is still unallocated, or to double the entry count once every
// bucket holds an entry on average. The conditions guarantee the inner
// Expand cannot fail, so its result is discarded.
func (d *Dict) expandIfNeeded() {
	if d.IsRehashing() {
		return
	}
	if d.ht[0].size == 0 {
		_ = d.Expand(initialSize)
		return
	}
	if d.ht[0].used >= d.ht[0].size &&
		(d.canResize || d.ht[0].used/d.ht[0].size > forceResizeRatio) {
		_ = d.Expand(d.ht[0].used * 2)
	}
}

// Rehash performs n steps of incremental migration, one bucket chain per
// step. It returns true if the old generation still holds entries after the
// call and false once migration is complete (or none was in progress).
//
// Long runs of empty buckets are skipped, but no more than 10*n of them are
// visited in total, so a single call stays bounded even on a sparse table.
func (d *Dict) Rehash(n int) bool {
	emptyVisits := n * 10
	if !d.IsRehashing() {
		return false
	}

	for ; n > 0 && d.ht[0].used != 0; n-- {
		for d.ht[0].buckets[d.rehashidx] == nil {
			d.rehashidx++
			emptyVisits--
			if emptyVisits == 0 {
				return true
			}
		}
		// Move the whole chain to the new generation.
		for he := d.ht[0].buckets[d.rehashidx]; he != nil; {
			next := he.next
			idx := d.HashKey(he.key) & d.ht[1].sizemask
			he.next = d.ht[1].buckets[idx]
			d.ht[1].buckets[idx] = he
			d.ht[0].used--
			d.ht[1].used++
			he = next
		}
		d.ht[0].buckets[d.rehashidx] = nil
		d.rehashidx++
	}

	// Check if the old generation drained; if so the new one takes over.
	if d.ht[0].used == 0 {
		d.ht[0] = d.ht[1]
		d.ht[1].reset()
		d.rehashidx = -1
		return false
	}
	return true
}

// rehashStep advances the migration by a single bucket. It is called by
// mutating operations to amortize the migration cost across them, and is a
// no-op while safe iterators are outstanding so their traversal stays
// consistent.
func (d *Dict) rehashStep() {
	if d.iterators == 0 {
		d.Rehash(1)
	}
}

// RehashMilliseconds migrates buckets in fixed quanta until rehashing
// completes or the given wall-clock budget is exhausted, whichever comes
// first. It returns the number of migration quanta performed. State is
// consistent at every quantum boundary, so a cut-short run resumes correctly
// on the next call.
func (d *Dict) RehashMilliseconds(ms int64) int {
	start := time.Now()
	rehashes := 0
	for d.Rehash(rehashMsQuota) {
		rehashes += rehashMsQuota
		if time.Since(start) > time.Duration(ms)*time.Millisecond {
			break
		}
	}
	return rehashes
}
