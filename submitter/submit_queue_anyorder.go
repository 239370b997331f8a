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
	"github.com/tochemey/actorsubmit/identity"
	"github.com/tochemey/actorsubmit/internal/collection"
)

// anyOrderQueue is the out-of-order SubmitQueue flavor: any slot may be
// dispatched as soon as its own dependencies resolve, regardless of what
// is still pending at lower sequence numbers. Readiness order is
// resolution order, tracked in a FIFO ring so ties resolve fairly.
type anyOrderQueue struct {
	entries map[uint64]*submitEntry
	ready   *collection.Ring[uint64]
}

func newAnyOrderQueue() *anyOrderQueue {
	return &anyOrderQueue{
		entries: make(map[uint64]*submitEntry),
		ready:   collection.NewRing[uint64](),
	}
}

var _ SubmitQueue = (*anyOrderQueue)(nil)

func (q *anyOrderQueue) Emplace(seq uint64, spec TaskSpec) {
	q.entries[seq] = &submitEntry{spec: spec}
}

func (q *anyOrderQueue) Contains(seq uint64) bool {
	_, ok := q.entries[seq]
	return ok
}

func (q *anyOrderQueue) MarkDependencyResolved(seq uint64) bool {
	e, ok := q.entries[seq]
	if !ok || e.canceled {
		return false
	}
	e.dependenciesResolved = true
	q.ready.PushBack(seq)
	return true
}

func (q *anyOrderQueue) MarkDependencyFailed(seq uint64) (TaskSpec, bool) {
	e, ok := q.entries[seq]
	if !ok {
		return TaskSpec{}, false
	}
	delete(q.entries, seq)
	return e.spec, true
}

func (q *anyOrderQueue) MarkTaskCanceled(seq uint64) (TaskSpec, bool) {
	e, ok := q.entries[seq]
	if !ok {
		return TaskSpec{}, false
	}
	e.canceled = true
	return e.spec, true
}

func (q *anyOrderQueue) DependenciesResolved(seq uint64) bool {
	e, ok := q.entries[seq]
	return ok && e.dependenciesResolved
}

func (q *anyOrderQueue) PopNextTaskToSend() (TaskSpec, bool, bool) {
	for {
		seq, ok := q.ready.PopFront()
		if !ok {
			return TaskSpec{}, false, false
		}
		e, exists := q.entries[seq]
		if !exists || e.canceled {
			continue
		}
		delete(q.entries, seq)
		return e.spec, skipQueueFor(e.spec), true
	}
}

func (q *anyOrderQueue) Empty() bool {
	return len(q.entries) == 0
}

func (q *anyOrderQueue) Size() int {
	return len(q.entries)
}

func (q *anyOrderQueue) ClearAllTasks() []identity.TaskID {
	ids := make([]identity.TaskID, 0, len(q.entries))
	for _, e := range q.entries {
		ids = append(ids, e.spec.TaskID)
	}
	q.entries = make(map[uint64]*submitEntry)
	q.ready = collection.NewRing[uint64]()
	return ids
}
