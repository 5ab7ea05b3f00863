package courtside

import "fmt"

// Handle refers to a value stored in an Arena. A handle goes stale when its
// value is removed; the slot may be reused but the old handle never
// resolves to the new value.
type Handle struct {
	Index      uint32 `msgpack:"i"`
	Generation uint32 `msgpack:"g"`
}

// Valid reports whether h was ever returned by Insert. The zero Handle is
// never valid.
func (h Handle) Valid() bool {
	return h.Generation != 0
}

type slot[T any] struct {
	value      T
	generation uint32
	occupied   bool
}

// Arena is a generational slot map.
type Arena[T any] struct {
	slots []slot[T]
	free  []uint32
	count int
}

func (a *Arena[T]) Insert(value T) Handle {
	var index uint32
	if n := len(a.free); n > 0 {
		index = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		index = uint32(len(a.slots))
		a.slots = append(a.slots, slot[T]{})
	}

	s := &a.slots[index]
	s.generation++
	s.value = value
	s.occupied = true
	a.count++
	return Handle{Index: index, Generation: s.generation}
}

func (a *Arena[T]) lookup(h Handle) *slot[T] {
	if int(h.Index) >= len(a.slots) {
		return nil
	}
	s := &a.slots[h.Index]
	if !s.occupied || s.generation != h.Generation {
		return nil
	}
	return s
}

// Get returns a pointer to the value behind h. The pointer is only valid
// until the next Insert.
func (a *Arena[T]) Get(h Handle) (*T, bool) {
	s := a.lookup(h)
	if s == nil {
		return nil, false
	}
	return &s.value, true
}

// Remove frees the slot of h and reports whether h was live.
func (a *Arena[T]) Remove(h Handle) bool {
	s := a.lookup(h)
	if s == nil {
		return false
	}
	var zero T
	s.value = zero
	s.occupied = false
	a.free = append(a.free, h.Index)
	a.count--
	return true
}

// Each calls fn for every live value in slot order. fn must not insert into
// or remove from the arena.
func (a *Arena[T]) Each(fn func(h Handle, value *T)) {
	for i := range a.slots {
		s := &a.slots[i]
		if s.occupied {
			fn(Handle{Index: uint32(i), Generation: s.generation}, &s.value)
		}
	}
}

// Handles returns the live handles in slot order.
func (a *Arena[T]) Handles() []Handle {
	handles := make([]Handle, 0, a.count)
	a.Each(func(h Handle, _ *T) {
		handles = append(handles, h)
	})
	return handles
}

func (a *Arena[T]) Len() int {
	return a.count
}

func (h Handle) String() string {
	return fmt.Sprintf("%d:%d", h.Index, h.Generation)
}
