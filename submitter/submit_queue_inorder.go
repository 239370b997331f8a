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

package submitter

import (
	"container/heap"

	"github.com/tochemey/actorsubmit/identity"
)

// seqHeap is a min-heap of pending sequence numbers. A dispatched seq is
// popped as it is sent; entries that have been dropped are removed lazily:
// a popped seq with no matching entry in inOrderQueue.entries is simply
// discarded.
type seqHeap []uint64

func (h seqHeap) Len() int            { return len(h) }
func (h seqHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h seqHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *seqHeap) Push(x any)         { *h = append(*h, x.(uint64)) }
func (h *seqHeap) Pop() any {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// inOrderQueue is the strict-in-order SubmitQueue flavor: it yields the
// lowest pending sequence number only once that slot's dependencies have
// resolved, so a stalled low-seq task blocks every task behind it.
type inOrderQueue struct {
	entries map[uint64]*submitEntry
	heap    seqHeap
}

func newInOrderQueue() *inOrderQueue {
	return &inOrderQueue{entries: make(map[uint64]*submitEntry)}
}

var _ SubmitQueue = (*inOrderQueue)(nil)

func (q *inOrderQueue) Emplace(seq uint64, spec TaskSpec) {
	q.entries[seq] = &submitEntry{spec: spec}
	heap.Push(&q.heap, seq)
}

func (q *inOrderQueue) Contains(seq uint64) bool {
	_, ok := q.entries[seq]
	return ok
}

func (q *inOrderQueue) MarkDependencyResolved(seq uint64) bool {
	e, ok := q.entries[seq]
	if !ok {
		return false
	}
	e.dependenciesResolved = true
	return true
}

func (q *inOrderQueue) MarkDependencyFailed(seq uint64) (TaskSpec, bool) {
	e, ok := q.entries[seq]
	if !ok {
		return TaskSpec{}, false
	}
	delete(q.entries, seq)
	return e.spec, true
}

func (q *inOrderQueue) MarkTaskCanceled(seq uint64) (TaskSpec, bool) {
	e, ok := q.entries[seq]
	if !ok {
		return TaskSpec{}, false
	}
	e.canceled = true
	return e.spec, true
}

func (q *inOrderQueue) DependenciesResolved(seq uint64) bool {
	e, ok := q.entries[seq]
	return ok && e.dependenciesResolved
}

func (q *inOrderQueue) PopNextTaskToSend() (TaskSpec, bool, bool) {
	for q.heap.Len() > 0 {
		topSeq := q.heap[0]
		e, exists := q.entries[topSeq]
		if !exists || e.canceled {
			heap.Pop(&q.heap)
			delete(q.entries, topSeq)
			continue
		}
		if !e.dependenciesResolved {
			return TaskSpec{}, false, false
		}
		heap.Pop(&q.heap)
		delete(q.entries, topSeq)
		return e.spec, skipQueueFor(e.spec), true
	}
	return TaskSpec{}, false, false
}

func (q *inOrderQueue) Empty() bool {
	return len(q.entries) == 0
}

func (q *inOrderQueue) Size() int {
	return len(q.entries)
}

func (q *inOrderQueue) ClearAllTasks() []identity.TaskID {
	ids := make([]identity.TaskID, 0, len(q.entries))
	for _, e := range q.entries {
		ids = append(ids, e.spec.TaskID)
	}
	q.entries = make(map[uint64]*submitEntry)
	q.heap = nil
	return ids
}
