package collections

import "container/heap"

// PriorityQueue pops the element that sorts first under less.
// Elements that compare equal pop in insertion order.
type PriorityQueue[T any] struct {
	h *entries[T]
}

// NewPriorityQueue returns an empty queue ordered by less.
func NewPriorityQueue[T any](less func(a, b T) bool) *PriorityQueue[T] {
	return &PriorityQueue[T]{h: &entries[T]{less: less}}
}

// Push adds v.
func (pq *PriorityQueue[T]) Push(v T) {
	pq.h.seq++
	heap.Push(pq.h, entry[T]{value: v, seq: pq.h.seq})
}

// Pop removes and returns the first element. ok is false when empty.
func (pq *PriorityQueue[T]) Pop() (v T, ok bool) {
	if pq.h.Len() == 0 {
		return v, false
	}
	e := heap.Pop(pq.h).(entry[T])
	return e.value, true
}

type entry[T any] struct {
	value T
	seq   uint64
}

// entries implements heap.Interface.
type entries[T any] struct {
	items []entry[T]
	less  func(a, b T) bool
	seq   uint64
}

func (h *entries[T]) Len() int { return len(h.items) }

func (h *entries[T]) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	if h.less(a.value, b.value) {
		return true
	}
	if h.less(b.value, a.value) {
		return false
	}
	return a.seq < b.seq
}

func (h *entries[T]) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *entries[T]) Push(x any) { h.items = append(h.items, x.(entry[T])) }

func (h *entries[T]) Pop() any {
	old := h.items
	n := len(old)
	e := old[n-1]
	h.items = old[:n-1]
	return e
}
