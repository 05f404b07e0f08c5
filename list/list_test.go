package list

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func values[T any](l *List[T]) []T {
	var out []T
	for n := l.First(); n != nil; n = n.Next() {
		out = append(out, n.Value())
	}
	return out
}

func TestPush(t *testing.T) {
	t.Run("push front", func(t *testing.T) {
		l := New[int]()
		for i := 1; i <= 3; i++ {
			l.PushFront(i)
		}
		assert.Equal(t, 3, l.Len())
		assert.Equal(t, []int{3, 2, 1}, values(l))
		assert.Equal(t, 3, l.First().Value())
		assert.Equal(t, 1, l.Last().Value())
	})

	t.Run("push back", func(t *testing.T) {
		l := New[int]()
		for i := 1; i <= 3; i++ {
			l.PushBack(i)
		}
		assert.Equal(t, []int{1, 2, 3}, values(l))
	})

	t.Run("zero value list is usable", func(t *testing.T) {
		var l List[string]
		l.PushBack("a")
		assert.Equal(t, 1, l.Len())
	})
}

func TestInsert(t *testing.T) {
	l := New[string]()
	a := l.PushBack("a")
	c := l.PushBack("c")

	l.InsertAfter("b", a)
	l.InsertBefore("z", a)
	l.InsertAfter("d", c)

	assert.Equal(t, []string{"z", "a", "b", "c", "d"}, values(l))
	assert.Equal(t, "z", l.First().Value())
	assert.Equal(t, "d", l.Last().Value())
}

func TestRemove(t *testing.T) {
	t.Run("head, middle and tail", func(t *testing.T) {
		l := New[int]()
		nodes := make([]*Node[int], 5)
		for i := range nodes {
			nodes[i] = l.PushBack(i)
		}

		l.Remove(nodes[2])
		assert.Equal(t, []int{0, 1, 3, 4}, values(l))
		l.Remove(nodes[0])
		assert.Equal(t, []int{1, 3, 4}, values(l))
		l.Remove(nodes[4])
		assert.Equal(t, []int{1, 3}, values(l))
		assert.Equal(t, 2, l.Len())
	})

	t.Run("free capability releases values", func(t *testing.T) {
		var freed []int
		l := New[int]()
		l.Free = func(v int) { freed = append(freed, v) }
		n := l.PushBack(42)
		l.Remove(n)
		assert.Equal(t, []int{42}, freed)
	})

	t.Run("removing the only node", func(t *testing.T) {
		l := New[int]()
		l.Remove(l.PushBack(1))
		assert.Zero(t, l.Len())
		assert.Nil(t, l.First())
		assert.Nil(t, l.Last())
	})
}

func TestIterator(t *testing.T) {
	l := New[int]()
	for i := 0; i < 5; i++ {
		l.PushBack(i)
	}

	t.Run("forward", func(t *testing.T) {
		var got []int
		it := l.Iterator()
		for n := it.Next(); n != nil; n = it.Next() {
			got = append(got, n.Value())
		}
		assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
	})

	t.Run("backward", func(t *testing.T) {
		var got []int
		it := l.TailIterator()
		for n := it.Next(); n != nil; n = it.Next() {
			got = append(got, n.Value())
		}
		assert.Equal(t, []int{4, 3, 2, 1, 0}, got)
	})

	t.Run("rewind reuses the iterator", func(t *testing.T) {
		var it Iterator[int]
		l.Rewind(&it)
		first := it.Next()
		require.NotNil(t, first)
		assert.Equal(t, 0, first.Value())

		l.RewindTail(&it)
		last := it.Next()
		require.NotNil(t, last)
		assert.Equal(t, 4, last.Value())
	})

	t.Run("removing the just-returned node", func(t *testing.T) {
		l2 := New[int]()
		for i := 0; i < 5; i++ {
			l2.PushBack(i)
		}
		it := l2.Iterator()
		for n := it.Next(); n != nil; n = it.Next() {
			if n.Value()%2 == 0 {
				l2.Remove(n)
			}
		}
		assert.Equal(t, []int{1, 3}, values(l2))
	})
}

func TestCopy(t *testing.T) {
	t.Run("values carried over without dup capability", func(t *testing.T) {
		l := New[int]()
		for i := 0; i < 3; i++ {
			l.PushBack(i)
		}
		cp := l.Copy()
		assert.Equal(t, values(l), values(cp))

		cp.PushBack(99)
		assert.Equal(t, 3, l.Len())
	})

	t.Run("dup capability copies values", func(t *testing.T) {
		l := New[[]byte]()
		l.Dup = func(v []byte) []byte { return append([]byte(nil), v...) }
		l.PushBack([]byte("x"))

		cp := l.Copy()
		cp.First().Value()[0] = 'y'
		assert.Equal(t, []byte("x"), l.First().Value())
	})
}

func TestSearch(t *testing.T) {
	l := New[string]()
	l.Match = func(v, key string) bool { return v == key }
	l.PushBack("a")
	b := l.PushBack("b")

	assert.Same(t, b, l.Search("b"))
	assert.Nil(t, l.Search("missing"))

	l.Match = nil
	assert.Nil(t, l.Search("a"))
}

func TestIndex(t *testing.T) {
	l := New[int]()
	for i := 0; i < 5; i++ {
		l.PushBack(i)
	}

	assert.Equal(t, 0, l.Index(0).Value())
	assert.Equal(t, 3, l.Index(3).Value())
	assert.Equal(t, 4, l.Index(-1).Value())
	assert.Equal(t, 2, l.Index(-3).Value())
	assert.Nil(t, l.Index(5))
	assert.Nil(t, l.Index(-6))
}

func TestRotate(t *testing.T) {
	l := New[int]()
	for i := 0; i < 4; i++ {
		l.PushBack(i)
	}

	l.Rotate()
	assert.Equal(t, []int{3, 0, 1, 2}, values(l))
	l.Rotate()
	assert.Equal(t, []int{2, 3, 0, 1}, values(l))

	single := New[int]()
	single.PushBack(1)
	single.Rotate()
	assert.Equal(t, []int{1}, values(single))
}

func TestJoin(t *testing.T) {
	t.Run("joins and empties the donor", func(t *testing.T) {
		a := New[int]()
		b := New[int]()
		for i := 0; i < 3; i++ {
			a.PushBack(i)
			b.PushBack(i + 10)
		}

		a.Join(b)
		assert.Equal(t, []int{0, 1, 2, 10, 11, 12}, values(a))
		assert.Equal(t, 6, a.Len())
		assert.Zero(t, b.Len())
		assert.Nil(t, b.First())

		// The donor stays usable.
		b.PushBack(5)
		assert.Equal(t, []int{5}, values(b))
	})

	t.Run("join into an empty list", func(t *testing.T) {
		a := New[int]()
		b := New[int]()
		b.PushBack(1)
		a.Join(b)
		assert.Equal(t, []int{1}, values(a))
		assert.Equal(t, 1, a.First().Value())
		assert.Equal(t, 1, a.Last().Value())
	})

	t.Run("join an empty list", func(t *testing.T) {
		a := New[int]()
		a.PushBack(1)
		a.Join(New[int]())
		assert.Equal(t, []int{1}, values(a))
	})
}

func TestEmpty(t *testing.T) {
	var freed int
	l := New[int]()
	l.Free = func(int) { freed++ }
	for i := 0; i < 10; i++ {
		l.PushBack(i)
	}

	l.Empty()
	assert.Zero(t, l.Len())
	assert.Nil(t, l.First())
	assert.Equal(t, 10, freed)

	l.PushBack(1)
	assert.Equal(t, 1, l.Len())
}
