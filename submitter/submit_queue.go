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

import "github.com/tochemey/actorsubmit/identity"

// submitEntry is a single slot in a submit queue, keyed by sequence number.
type submitEntry struct {
	spec                 TaskSpec
	dependenciesResolved bool
	canceled             bool
}

// SubmitQueue holds an actor's pending submissions, keyed by sequence
// number, and decides in what order they become dispatchable. The
// in-order flavor only ever yields the lowest pending sequence number
// once it resolves; the any-order flavor yields whichever slot resolves
// first.
//
// skipQueue, the second PopNextTaskToSend return value, is true when the
// popped task is a resend (AttemptNumber > 0): the dispatcher still routes
// it through the same RPC client, but the request is marked so the
// receiving actor does not re-enqueue it behind fresh work.
type SubmitQueue interface {
	Emplace(seq uint64, spec TaskSpec)
	Contains(seq uint64) bool
	MarkDependencyResolved(seq uint64) bool
	MarkDependencyFailed(seq uint64) (TaskSpec, bool)
	MarkTaskCanceled(seq uint64) (TaskSpec, bool)
	DependenciesResolved(seq uint64) bool
	PopNextTaskToSend() (spec TaskSpec, skipQueue bool, ok bool)
	Empty() bool
	Size() int
	ClearAllTasks() []identity.TaskID
}

func skipQueueFor(spec TaskSpec) bool {
	return spec.AttemptNumber > 0
}

// NewSubmitQueue builds the submit-queue flavor selected for an actor at
// registration time.
func NewSubmitQueue(executeOutOfOrder bool) SubmitQueue {
	if executeOutOfOrder {
		return newAnyOrderQueue()
	}
	return newInOrderQueue()
}
