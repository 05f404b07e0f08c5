// Package dict implements a chained hash table with incremental rehashing.
//
// The table keeps two generations of bucket arrays. When it grows (or
// shrinks), entries are migrated from the old generation to the new one a
// bounded number of buckets at a time, so no single operation ever pays for a
// full rehash. Migration is advanced opportunistically by mutating calls and
// explicitly by Rehash and RehashMilliseconds.
//
// The table is parameterized over arbitrary key and value domains through a
// Type capability set injected at construction. It is designed for
// single-threaded cooperative use; no operation is safe to call concurrently
// with a mutating call from another goroutine.
package dict

import (
	"errors"
	"fmt"
)

// initialSize is the number of buckets in a freshly grown table. Sizes are
// always powers of two so bucket indexes can be computed with a mask.
const initialSize = 4

// forceResizeRatio is the used/size ratio beyond which the table is grown
// even if automatic resizing has been disabled with DisableResize. Without
// this escape hatch chains could grow without bound.
const forceResizeRatio = 5

var (
	// ErrKeyExists is reported by Add when the key is already present.
	ErrKeyExists = errors.New("dict: key already exists")
	// ErrNotFound is reported by Delete when the key is not present.
	ErrNotFound = errors.New("dict: no such key")
	// ErrRehashing is reported by Expand and Resize while a migration is
	// already in progress.
	ErrRehashing = errors.New("dict: rehashing in progress")
	// ErrSizeTooSmall is reported by Expand when the requested size cannot
	// hold the entries currently in the table.
	ErrSizeTooSmall = errors.New("dict: requested size is below the number of entries")
	// ErrSizeUnchanged is reported by Expand when the computed size equals
	// the current one, which would make the migration a no-op.
	ErrSizeUnchanged = errors.New("dict: table already has the requested size")
	// ErrResizeDisabled is reported by Resize when automatic resizing has
	// been turned off with DisableResize.
	ErrResizeDisabled = errors.New("dict: resizing is disabled")
)

// Type is the capability set that parameterizes a Dict over a key/value
// domain. Every field is optional: a nil Hash falls back to a stock hash for
// common key types, a nil KeyCompare compares keys with ==, nil duplicators
// store the caller's key/value as-is, and nil destructors do nothing.
//
// Keys of types that are not comparable with == (such as []byte) require a
// KeyCompare, and key types not covered by the fallback hash require a Hash.
//
// Every capability except Hash also receives the private data pointer given
// to New, so a single Type value can be shared between many instances.
type Type struct {
	Hash          func(key any) uint64
	KeyDup        func(privdata, key any) any
	ValDup        func(privdata, val any) any
	KeyCompare    func(privdata, key1, key2 any) bool
	KeyDestructor func(privdata, key any)
	ValDestructor func(privdata, val any)
}

// valueKind selects the active arm of an Entry's value storage.
type valueKind uint8

const (
	valOpaque valueKind = iota
	valSigned
	valUnsigned
	valFloat
)

// Entry is a single key-value pair stored in the table. Its value holds
// exactly one of: an opaque value, a signed integer, an unsigned integer or a
// float, selected by whichever setter wrote it last. Entries in the same
// bucket are chained through their next pointers in reverse insertion order.
type Entry struct {
	key  any
	kind valueKind
	val  any
	s64  int64
	u64  uint64
	f64  float64
	next *Entry
}

// Key returns the entry's key.
func (e *Entry) Key() any { return e.key }

// Val returns the opaque value. It panics if the entry currently holds one of
// the numeric value arms instead.
func (e *Entry) Val() any {
	if e.kind != valOpaque {
		panic(fmt.Errorf("dict: entry holds a numeric value, not an opaque one"))
	}
	return e.val
}

// SignedInteger returns the signed integer value. It panics if the entry
// holds a different value arm.
func (e *Entry) SignedInteger() int64 {
	if e.kind != valSigned {
		panic(fmt.Errorf("dict: entry does not hold a signed integer value"))
	}
	return e.s64
}

// UnsignedInteger returns the unsigned integer value. It panics if the entry
// holds a different value arm.
func (e *Entry) UnsignedInteger() uint64 {
	if e.kind != valUnsigned {
		panic(fmt.Errorf("dict: entry does not hold an unsigned integer value"))
	}
	return e.u64
}

// Float returns the float value. It panics if the entry holds a different
// value arm.
func (e *Entry) Float() float64 {
	if e.kind != valFloat {
		panic(fmt.Errorf("dict: entry does not hold a float value"))
	}
	return e.f64
}

// SetSignedInteger stores a signed integer value, replacing whatever arm was
// active. Numeric values never go through the value duplicator or destructor.
func (e *Entry) SetSignedInteger(v int64) {
	*e = Entry{key: e.key, kind: valSigned, s64: v, next: e.next}
}

// SetUnsignedInteger stores an unsigned integer value, replacing whatever arm
// was active.
func (e *Entry) SetUnsignedInteger(v uint64) {
	*e = Entry{key: e.key, kind: valUnsigned, u64: v, next: e.next}
}

// SetFloat stores a float value, replacing whatever arm was active.
func (e *Entry) SetFloat(v float64) {
	*e = Entry{key: e.key, kind: valFloat, f64: v, next: e.next}
}

// table is one generation of buckets. A Dict holds two of them: ht[0] is the
// active generation and ht[1] is populated only while rehashing.
type table struct {
	buckets  []*Entry
	size     uint64
	sizemask uint64
	used     uint64
}

func (ht *table) reset() {
	ht.buckets = nil
	ht.size = 0
	ht.sizemask = 0
	ht.used = 0
}

// Dict is a hash table instance. The zero value is not usable; call New.
type Dict struct {
	typ      *Type
	privdata any
	ht       [2]table
	// rehashidx is the next ht[0] bucket awaiting migration, or -1 when no
	// rehashing is in progress. Buckets below it are guaranteed empty.
	rehashidx int64
	// iterators counts the live safe iterators. While it is non-zero the
	// opportunistic rehash step is suppressed.
	iterators uint64
	// canResize gates the automatic growth trigger inside inserts. Explicit
	// Expand calls and the forceResizeRatio emergency still apply.
	canResize bool
}

// New creates an empty dictionary using the given capability set. The
// privdata value is passed through to every capability call. A nil typ is
// equivalent to an empty Type, i.e. default semantics for everything.
func New(typ *Type, privdata any) *Dict {
	if typ == nil {
		typ = &Type{}
	}
	return &Dict{
		typ:       typ,
		privdata:  privdata,
		rehashidx: -1,
		canResize: true,
	}
}

// HashKey returns the hash of key under this dictionary's hash capability.
func (d *Dict) HashKey(key any) uint64 {
	if d.typ.Hash != nil {
		return d.typ.Hash(key)
	}
	return fallbackHash(key)
}

// Slots returns the total number of buckets across both generations.
func (d *Dict) Slots() uint64 { return d.ht[0].size + d.ht[1].size }

// Used returns the number of entries across both generations.
func (d *Dict) Used() uint64 { return d.ht[0].used + d.ht[1].used }

// IsRehashing reports whether an incremental migration is in progress.
func (d *Dict) IsRehashing() bool { return d.rehashidx != -1 }

func (d *Dict) compareKeys(key1, key2 any) bool {
	if d.typ.KeyCompare != nil {
		return d.typ.KeyCompare(d.privdata, key1, key2)
	}
	return key1 == key2
}

func (d *Dict) setKey(e *Entry, key any) {
	if d.typ.KeyDup != nil {
		key = d.typ.KeyDup(d.privdata, key)
	}
	e.key = key
}

// SetVal stores an opaque value into an entry, running it through the value
// duplicator if one is set. The previous value is not destroyed; Replace
// takes care of destructor ordering when overwriting.
func (d *Dict) SetVal(e *Entry, val any) {
	if d.typ.ValDup != nil {
		val = d.typ.ValDup(d.privdata, val)
	}
	*e = Entry{key: e.key, kind: valOpaque, val: val, next: e.next}
}

func (d *Dict) freeKey(e *Entry) {
	if d.typ.KeyDestructor != nil {
		d.typ.KeyDestructor(d.privdata, e.key)
	}
}

// freeVal runs the value destructor. Only the opaque arm is owned through the
// capability set; the numeric arms have nothing to destroy.
func (d *Dict) freeVal(e *Entry) {
	if e.kind == valOpaque && d.typ.ValDestructor != nil {
		d.typ.ValDestructor(d.privdata, e.val)
	}
}

// keyIndex returns the bucket index the key should be inserted at, in the
// target generation (ht[1] while rehashing, ht[0] otherwise). If the key is
// already present, the existing entry is returned instead.
func (d *Dict) keyIndex(key any, hash uint64) (uint64, *Entry) {
	d.expandIfNeeded()
	var idx uint64
	for t := 0; t <= 1; t++ {
		idx = hash & d.ht[t].sizemask
		for he := d.ht[t].buckets[idx]; he != nil; he = he.next {
			if d.compareKeys(key, he.key) {
				return 0, he
			}
		}
		if !d.IsRehashing() {
			break
		}
	}
	return idx, nil
}

// AddRaw inserts key with an unset value and returns the new entry, or, if
// the key is already present, the existing entry along with existed=true so
// the caller can decide on overwrite semantics.
//
// New entries are prepended to their bucket chain. While rehashing, insertion
// always targets the new generation so growth is never undone by inserting
// into the dying one.
func (d *Dict) AddRaw(key any) (entry *Entry, existed bool) {
	if d.IsRehashing() {
		d.rehashStep()
	}
	idx, existing := d.keyIndex(key, d.HashKey(key))
	if existing != nil {
		return existing, true
	}

	ht := &d.ht[0]
	if d.IsRehashing() {
		ht = &d.ht[1]
	}
	entry = &Entry{next: ht.buckets[idx]}
	ht.buckets[idx] = entry
	ht.used++
	d.setKey(entry, key)
	return entry, false
}

// Add inserts a key-value pair. It reports ErrKeyExists and performs no
// mutation if the key is already present.
func (d *Dict) Add(key, val any) error {
	entry, existed := d.AddRaw(key)
	if existed {
		return ErrKeyExists
	}
	d.SetVal(entry, val)
	return nil
}

// AddOrFind returns the entry for key, inserting one with an unset value if
// the key is not present yet.
func (d *Dict) AddOrFind(key any) *Entry {
	entry, _ := d.AddRaw(key)
	return entry
}

// Replace sets the value for key, inserting the key if needed. It reports
// whether a new entry was inserted (as opposed to an existing value being
// overwritten). On overwrite the old value is destroyed after the new one is
// set, so a value duplicator returning the same underlying object stays safe.
func (d *Dict) Replace(key, val any) (inserted bool) {
	entry, existed := d.AddRaw(key)
	if !existed {
		d.SetVal(entry, val)
		return true
	}
	old := *entry
	d.SetVal(entry, val)
	d.freeVal(&old)
	return false
}

// Find returns the entry for key, or nil if the key is not present. Lookups
// are read-only: unlike mutating calls they never advance the migration.
func (d *Dict) Find(key any) *Entry {
	if d.Used() == 0 {
		return nil
	}
	hash := d.HashKey(key)
	for t := 0; t <= 1; t++ {
		idx := hash & d.ht[t].sizemask
		for he := d.ht[t].buckets[idx]; he != nil; he = he.next {
			if d.compareKeys(key, he.key) {
				return he
			}
		}
		if !d.IsRehashing() {
			break
		}
	}
	return nil
}

// FetchValue returns the opaque value stored under key. The second return
// value is false if the key is not present.
func (d *Dict) FetchValue(key any) (any, bool) {
	if he := d.Find(key); he != nil {
		return he.Val(), true
	}
	return nil, false
}

// genericDelete splices the entry for key out of whichever generation holds
// it. With free set, key and value are destroyed through the capability set.
func (d *Dict) genericDelete(key any, free bool) *Entry {
	if d.Used() == 0 {
		return nil
	}
	if d.IsRehashing() {
		d.rehashStep()
	}
	hash := d.HashKey(key)
	for t := 0; t <= 1; t++ {
		idx := hash & d.ht[t].sizemask
		var prev *Entry
		for he := d.ht[t].buckets[idx]; he != nil; he = he.next {
			if d.compareKeys(key, he.key) {
				if prev != nil {
					prev.next = he.next
				} else {
					d.ht[t].buckets[idx] = he.next
				}
				if free {
					d.freeKey(he)
					d.freeVal(he)
				}
				he.next = nil
				d.ht[t].used--
				return he
			}
			prev = he
		}
		if !d.IsRehashing() {
			break
		}
	}
	return nil
}

// Delete removes key from the dictionary, destroying its key and value. It
// reports ErrNotFound if the key is not present; nothing is mutated then.
func (d *Dict) Delete(key any) error {
	if d.genericDelete(key, true) == nil {
		return ErrNotFound
	}
	return nil
}

// Unlink detaches the entry for key from the dictionary without destroying
// it, returning it to the caller, or nil if the key is not present. The
// caller finalizes the entry later with FreeUnlinkedEntry. This avoids a
// second lookup in the find-then-delete pattern when the value is still
// needed after removal.
func (d *Dict) Unlink(key any) *Entry {
	return d.genericDelete(key, false)
}

// FreeUnlinkedEntry destroys an entry previously detached with Unlink. A nil
// entry is a no-op.
func (d *Dict) FreeUnlinkedEntry(e *Entry) {
	if e == nil {
		return
	}
	d.freeKey(e)
	d.freeVal(e)
}

// clear destroys every entry of one generation and resets it. The callback,
// if set, is invoked with the private data every 65536 buckets so callers
// emptying a huge table can interleave housekeeping.
func (d *Dict) clear(ht *table, callback func(privdata any)) {
	for i := uint64(0); i < ht.size && ht.used > 0; i++ {
		if callback != nil && i&0xffff == 0 {
			callback(d.privdata)
		}
		for he := ht.buckets[i]; he != nil; {
			next := he.next
			d.freeKey(he)
			d.freeVal(he)
			ht.used--
			he = next
		}
	}
	ht.reset()
}

// Empty removes every entry from both generations, so the instance can be
// reused without rebuilding the capability set.
func (d *Dict) Empty(callback func(privdata any)) {
	d.clear(&d.ht[0], callback)
	d.clear(&d.ht[1], callback)
	d.rehashidx = -1
	d.iterators = 0
}

// Release destroys every entry and drops both bucket arrays. The instance
// must not be used afterwards.
func (d *Dict) Release() {
	d.clear(&d.ht[0], nil)
	d.clear(&d.ht[1], nil)
}
