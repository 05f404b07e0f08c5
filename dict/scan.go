package dict

import "math/bits"

// ScanFunc is invoked by Scan once per live entry of the visited buckets.
type ScanFunc func(privdata any, e *Entry)

// BucketFunc is invoked by Scan once per visited bucket, before its chain is
// walked, with the head of the chain (possibly nil).
type BucketFunc func(privdata any, head *Entry)

// Scan performs one step of a cursor-resumable traversal of the whole key
// space. The caller starts with cursor 0, passes back the returned cursor on
// every subsequent call, and stops when it becomes 0 again.
//
// Unlike an Iterator, a scan holds no state inside the dictionary, so the
// table is free to be mutated and even resized between calls. The guarantee
// is one-sided: every key present for the whole duration of the scan is
// reported at least once; keys may be reported multiple times, and keys
// added mid-scan may or may not be.
//
// The cursor does not count buckets linearly. It is incremented on its
// masked bits only, with the bit order reversed, so the high bits of the
// bucket index move first:
//
//	cursor |= ^mask
//	cursor = rev(rev(cursor) + 1)
//
// Under this ordering the buckets of a table of size 2^n that a cursor has
// already covered remain covered positions after the table grows or shrinks
// to any other power of two, because an index's migration targets differ
// from it only in bits above the smaller mask. A plain low-bits-first
// counter has no such property. While a migration is in progress, the bucket
// of the smaller generation is visited together with all the buckets of the
// larger generation that its entries can map to.
func (d *Dict) Scan(cursor uint64, fn ScanFunc, bucketFn BucketFunc, privdata any) uint64 {
	if d.Used() == 0 {
		return 0
	}

	if !d.IsRehashing() {
		t0 := &d.ht[0]
		m0 := t0.sizemask
		if bucketFn != nil {
			bucketFn(privdata, t0.buckets[cursor&m0])
		}
		for he := t0.buckets[cursor&m0]; he != nil; {
			next := he.next
			fn(privdata, he)
			he = next
		}
		cursor |= ^m0
		cursor = bits.Reverse64(bits.Reverse64(cursor) + 1)
		return cursor
	}

	t0, t1 := &d.ht[0], &d.ht[1]
	// Always treat the smaller generation as t0; a shrink migrates into a
	// smaller table than the active one.
	if t0.size > t1.size {
		t0, t1 = t1, t0
	}
	m0, m1 := t0.sizemask, t1.sizemask

	if bucketFn != nil {
		bucketFn(privdata, t0.buckets[cursor&m0])
	}
	for he := t0.buckets[cursor&m0]; he != nil; {
		next := he.next
		fn(privdata, he)
		he = next
	}

	// Visit every larger-table bucket that expands the current small-table
	// one, i.e. all indexes that agree with the cursor on the small mask.
	for {
		if bucketFn != nil {
			bucketFn(privdata, t1.buckets[cursor&m1])
		}
		for he := t1.buckets[cursor&m1]; he != nil; {
			next := he.next
			fn(privdata, he)
			he = next
		}
		cursor |= ^m1
		cursor = bits.Reverse64(bits.Reverse64(cursor) + 1)
		if cursor&(m0^m1) == 0 {
			break
		}
	}
	return cursor
}
