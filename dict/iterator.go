package dict

import (
	"fmt"
	"unsafe"
)

// Iterator walks every entry of the dictionary, covering both generations
// when a migration is in progress.
//
// A safe iterator (SafeIterator) suppresses the opportunistic rehash step of
// mutating operations for its whole lifetime, so the dictionary may be
// mutated while iterating: every entry present for the iterator's entire
// lifetime is visited, entries added mid-iteration may or may not be.
//
// An unsafe iterator (Iterator) permits no mutation at all between creation
// and Release, only Next calls. Violations are detected through a state
// fingerprint and treated as a programming error: Release panics rather than
// let a traversal of inconsistent chains go unnoticed. Removing the entry
// just returned by Next is allowed with either kind; removing any other
// entry is not.
type Iterator struct {
	d           *Dict
	index       int64
	tbl         int
	safe        bool
	entry       *Entry
	nextEntry   *Entry
	fingerprint uint64
}

// Iterator returns an unsafe iterator over d.
func (d *Dict) Iterator() *Iterator {
	return &Iterator{d: d, index: -1}
}

// SafeIterator returns a safe iterator over d.
func (d *Dict) SafeIterator() *Iterator {
	it := d.Iterator()
	it.safe = true
	return it
}

// Next returns the next entry, advancing across chain, bucket and generation
// boundaries, or nil once both generations are drained. The entry returned
// may be deleted from the dictionary before the following Next call.
func (it *Iterator) Next() *Entry {
	for {
		if it.entry == nil {
			ht := &it.d.ht[it.tbl]
			if it.index == -1 && it.tbl == 0 {
				// First step: register with the dict so rehashing pauses,
				// or snapshot the state we expect to find at Release.
				if it.safe {
					it.d.iterators++
				} else {
					it.fingerprint = it.d.fingerprint()
				}
			}
			it.index++
			if it.index >= int64(ht.size) {
				if it.d.IsRehashing() && it.tbl == 0 {
					it.tbl = 1
					it.index = 0
					ht = &it.d.ht[1]
				} else {
					return nil
				}
			}
			it.entry = ht.buckets[it.index]
		} else {
			it.entry = it.nextEntry
		}
		if it.entry != nil {
			// Save next now; the caller may delete the returned entry.
			it.nextEntry = it.entry.next
			return it.entry
		}
	}
}

// Release ends the iteration. For a safe iterator it lets rehashing resume;
// for an unsafe one it verifies the dictionary was not touched while the
// iterator was live and panics on a fingerprint mismatch.
func (it *Iterator) Release() {
	if !(it.index == -1 && it.tbl == 0) {
		if it.safe {
			it.d.iterators--
		} else if it.fingerprint != it.d.fingerprint() {
			panic(fmt.Errorf("dict: dictionary was mutated during unsafe iteration"))
		}
	}
}

// fingerprint condenses the bucket-array addresses, sizes and entry counts
// of both generations into a single value. Any mutation, including one that
// only advances the migration, changes it.
func (d *Dict) fingerprint() uint64 {
	ints := [6]uint64{
		uint64(uintptr(unsafe.Pointer(unsafe.SliceData(d.ht[0].buckets)))),
		d.ht[0].size,
		d.ht[0].used,
		uint64(uintptr(unsafe.Pointer(unsafe.SliceData(d.ht[1].buckets)))),
		d.ht[1].size,
		d.ht[1].used,
	}
	var hash uint64
	for _, v := range ints {
		hash = mix64(hash + v)
	}
	return hash
}
