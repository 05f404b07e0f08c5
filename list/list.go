// Package list implements a generic doubly linked list with head and tail
// access, node-level insertion and removal, bidirectional iteration, and
// splice operations. It is the plain sequence container the rest of the
// system uses for queues and iteration scaffolding; it never rehashes or
// reallocates, so node pointers stay valid until the node is removed.
package list

// Node is a single list element. Nodes are created by the list's insert
// operations and remain owned by that list until removed.
type Node[T any] struct {
	prev, next *Node[T]
	value      T
}

// Value returns the value stored in the node.
func (n *Node[T]) Value() T { return n.value }

// SetValue replaces the value stored in the node.
func (n *Node[T]) SetValue(v T) { n.value = v }

// Prev returns the preceding node, or nil at the head.
func (n *Node[T]) Prev() *Node[T] { return n.prev }

// Next returns the following node, or nil at the tail.
func (n *Node[T]) Next() *Node[T] { return n.next }

// List is a doubly linked list. The zero value is an empty list ready to
// use; New only exists to attach the optional capability functions.
//
// Dup, Free and Match parameterize value ownership the same way a dict.Type
// does for the hash table: nil Dup makes Copy carry values over as-is, nil Free
// makes removal drop values without cleanup, nil Match makes Search compare
// nothing and always miss (there is no universal equality for a type
// parameter).
type List[T any] struct {
	head, tail *Node[T]
	len        int

	Dup   func(v T) T
	Free  func(v T)
	Match func(v, key T) bool
}

// New creates an empty list.
func New[T any]() *List[T] { return &List[T]{} }

// Len returns the number of nodes in the list.
func (l *List[T]) Len() int { return l.len }

// First returns the head node, or nil if the list is empty.
func (l *List[T]) First() *Node[T] { return l.head }

// Last returns the tail node, or nil if the list is empty.
func (l *List[T]) Last() *Node[T] { return l.tail }

// PushFront inserts a new node holding value at the head and returns it.
func (l *List[T]) PushFront(value T) *Node[T] {
	node := &Node[T]{value: value}
	if l.len == 0 {
		l.head, l.tail = node, node
	} else {
		node.next = l.head
		l.head.prev = node
		l.head = node
	}
	l.len++
	return node
}

// PushBack inserts a new node holding value at the tail and returns it.
func (l *List[T]) PushBack(value T) *Node[T] {
	node := &Node[T]{value: value}
	if l.len == 0 {
		l.head, l.tail = node, node
	} else {
		node.prev = l.tail
		l.tail.next = node
		l.tail = node
	}
	l.len++
	return node
}

// InsertBefore inserts a new node holding value immediately before old,
// which must belong to this list.
func (l *List[T]) InsertBefore(value T, old *Node[T]) *Node[T] {
	return l.insert(value, old, false)
}

// InsertAfter inserts a new node holding value immediately after old, which
// must belong to this list.
func (l *List[T]) InsertAfter(value T, old *Node[T]) *Node[T] {
	return l.insert(value, old, true)
}

func (l *List[T]) insert(value T, old *Node[T], after bool) *Node[T] {
	node := &Node[T]{value: value}
	if after {
		node.prev = old
		node.next = old.next
		if l.tail == old {
			l.tail = node
		}
	} else {
		node.next = old
		node.prev = old.prev
		if l.head == old {
			l.head = node
		}
	}
	if node.prev != nil {
		node.prev.next = node
	}
	if node.next != nil {
		node.next.prev = node
	}
	l.len++
	return node
}

// Remove unlinks node from the list, releasing its value through Free if one
// is set. The node must belong to this list.
func (l *List[T]) Remove(node *Node[T]) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}
	if l.Free != nil {
		l.Free(node.value)
	}
	node.prev, node.next = nil, nil
	l.len--
}

// Empty removes every node, releasing values through Free if it is set. The
// list itself stays valid.
func (l *List[T]) Empty() {
	node := l.head
	for i := l.len; i > 0; i-- {
		next := node.next
		if l.Free != nil {
			l.Free(node.value)
		}
		node.prev, node.next = nil, nil
		node = next
	}
	l.head, l.tail = nil, nil
	l.len = 0
}

// Copy returns a duplicate of the whole list. Values are copied through the
// Dup capability when set, otherwise carried over as-is. The original is
// never modified.
func (l *List[T]) Copy() *List[T] {
	cp := &List[T]{Dup: l.Dup, Free: l.Free, Match: l.Match}
	var it Iterator[T]
	l.Rewind(&it)
	for node := it.Next(); node != nil; node = it.Next() {
		value := node.value
		if cp.Dup != nil {
			value = cp.Dup(value)
		}
		cp.PushBack(value)
	}
	return cp
}

// Search returns the first node whose value matches key under the Match
// capability, scanning from the head, or nil if there is no match or no
// Match capability is set.
func (l *List[T]) Search(key T) *Node[T] {
	if l.Match == nil {
		return nil
	}
	var it Iterator[T]
	l.Rewind(&it)
	for node := it.Next(); node != nil; node = it.Next() {
		if l.Match(node.value, key) {
			return node
		}
	}
	return nil
}

// Index returns the node at the given zero-based position, where 0 is the
// head. Negative positions count from the tail: -1 is the tail, -2 the one
// before it. Out-of-range positions return nil.
func (l *List[T]) Index(index int) *Node[T] {
	var n *Node[T]
	if index < 0 {
		index = -index - 1
		n = l.tail
		for ; index > 0 && n != nil; index-- {
			n = n.prev
		}
	} else {
		n = l.head
		for ; index > 0 && n != nil; index-- {
			n = n.next
		}
	}
	return n
}

// Rotate detaches the tail node and reinserts it as the new head.
func (l *List[T]) Rotate() {
	if l.len <= 1 {
		return
	}
	tail := l.tail
	l.tail = tail.prev
	l.tail.next = nil
	l.head.prev = tail
	tail.prev = nil
	tail.next = l.head
	l.head = tail
}

// Join appends every node of other to the end of l. Afterwards other is
// empty but still valid; its nodes now belong to l.
func (l *List[T]) Join(other *List[T]) {
	if other.head != nil {
		other.head.prev = l.tail
	}
	if l.tail != nil {
		l.tail.next = other.head
	} else {
		l.head = other.head
	}
	if other.tail != nil {
		l.tail = other.tail
	}
	l.len += other.len

	other.head, other.tail = nil, nil
	other.len = 0
}

// direction of an Iterator.
type direction int

const (
	startHead direction = iota
	startTail
)

// Iterator walks a list in one direction. The zero value is not positioned;
// initialize it with Rewind or RewindTail, or obtain one from Iterator /
// TailIterator. It is valid to remove the node most recently returned by
// Next, but not any other node.
type Iterator[T any] struct {
	next *Node[T]
	dir  direction
}

// Iterator returns a head-to-tail iterator.
func (l *List[T]) Iterator() *Iterator[T] {
	return &Iterator[T]{next: l.head, dir: startHead}
}

// TailIterator returns a tail-to-head iterator.
func (l *List[T]) TailIterator() *Iterator[T] {
	return &Iterator[T]{next: l.tail, dir: startTail}
}

// Rewind repositions the iterator at the head, walking forward.
func (l *List[T]) Rewind(it *Iterator[T]) {
	it.next = l.head
	it.dir = startHead
}

// RewindTail repositions the iterator at the tail, walking backward.
func (l *List[T]) RewindTail(it *Iterator[T]) {
	it.next = l.tail
	it.dir = startTail
}

// Next returns the current node and advances, or nil when the list is
// exhausted.
func (it *Iterator[T]) Next() *Node[T] {
	current := it.next
	if current != nil {
		if it.dir == startHead {
			it.next = current.next
		} else {
			it.next = current.prev
		}
	}
	return current
}
