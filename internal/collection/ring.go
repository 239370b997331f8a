// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package collection holds small generic container types shared by the
// submit-queue flavors and the grace-period table. None of the types here
// lock internally: every caller already holds the registry's single mutex
// while touching them, so an internal lock would only be redundant.
package collection

// minRingLen is the smallest capacity the ring grows to. It must stay a
// power of two so the head/tail arithmetic can use bitwise modulus.
const minRingLen = 16

// Ring is an unsynchronized FIFO ring buffer. It is used both as the
// any-order submit queue's ready list and as the grace-period table, where
// entries are naturally enqueued in deadline order.
type Ring[T any] struct {
	nodes []*T
	head  int
	tail  int
	count int
}

// NewRing creates an empty Ring.
func NewRing[T any]() *Ring[T] {
	return &Ring[T]{nodes: make([]*T, minRingLen)}
}

func (r *Ring[T]) resize() {
	nodes := make([]*T, r.count<<1)
	if r.tail > r.head {
		copy(nodes, r.nodes[r.head:r.tail])
	} else {
		n := copy(nodes, r.nodes[r.head:])
		copy(nodes[n:], r.nodes[:r.tail])
	}
	r.tail = r.count
	r.head = 0
	r.nodes = nodes
}

// PushBack appends an item to the back of the queue.
func (r *Ring[T]) PushBack(v T) {
	if r.count == len(r.nodes) {
		r.resize()
	}
	r.nodes[r.tail] = &v
	r.tail = (r.tail + 1) & (len(r.nodes) - 1)
	r.count++
}

// Front returns the item at the front of the queue without removing it.
func (r *Ring[T]) Front() (T, bool) {
	if r.count == 0 {
		var zero T
		return zero, false
	}
	return *r.nodes[r.head], true
}

// PopFront removes and returns the item at the front of the queue.
func (r *Ring[T]) PopFront() (T, bool) {
	if r.count == 0 {
		var zero T
		return zero, false
	}
	v := r.nodes[r.head]
	r.nodes[r.head] = nil
	r.head = (r.head + 1) & (len(r.nodes) - 1)
	r.count--
	if len(r.nodes) > minRingLen && (r.count<<2) == len(r.nodes) {
		r.resize()
	}
	return *v, true
}

// Len returns the number of items currently queued.
func (r *Ring[T]) Len() int { return r.count }

// IsEmpty reports whether the queue holds no items.
func (r *Ring[T]) IsEmpty() bool { return r.count == 0 }

// Drain removes and returns every item currently queued, in FIFO order,
// leaving the queue empty.
func (r *Ring[T]) Drain() []T {
	out := make([]T, 0, r.count)
	for r.count > 0 {
		v, _ := r.PopFront()
		out = append(out, v)
	}
	return out
}
