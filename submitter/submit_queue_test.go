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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/actorsubmit/identity"
)

func specWithSeq(seq uint64) TaskSpec {
	return TaskSpec{TaskID: identity.NewTaskID(), SequenceNumber: seq}
}

func TestInOrderQueueBlocksOnLowestUnresolvedSlot(t *testing.T) {
	q := newInOrderQueue()
	q.Emplace(0, specWithSeq(0))
	q.Emplace(1, specWithSeq(1))

	require.True(t, q.MarkDependencyResolved(1))
	_, _, ok := q.PopNextTaskToSend()
	assert.False(t, ok, "seq 1 must not dispatch while seq 0 is unresolved")

	require.True(t, q.MarkDependencyResolved(0))
	spec, _, ok := q.PopNextTaskToSend()
	require.True(t, ok)
	assert.Equal(t, uint64(0), spec.SequenceNumber)

	spec, _, ok = q.PopNextTaskToSend()
	require.True(t, ok)
	assert.Equal(t, uint64(1), spec.SequenceNumber)

	assert.True(t, q.Empty())
}

func TestInOrderQueueSkipsCanceledHead(t *testing.T) {
	q := newInOrderQueue()
	q.Emplace(0, specWithSeq(0))
	q.Emplace(1, specWithSeq(1))
	q.MarkTaskCanceled(0)
	q.MarkDependencyResolved(1)

	spec, _, ok := q.PopNextTaskToSend()
	require.True(t, ok)
	assert.Equal(t, uint64(1), spec.SequenceNumber)
}

func TestAnyOrderQueueYieldsResolutionOrder(t *testing.T) {
	q := newAnyOrderQueue()
	q.Emplace(0, specWithSeq(0))
	q.Emplace(1, specWithSeq(1))

	q.MarkDependencyResolved(1)
	q.MarkDependencyResolved(0)

	spec, _, ok := q.PopNextTaskToSend()
	require.True(t, ok)
	assert.Equal(t, uint64(1), spec.SequenceNumber, "seq 1 resolved first, so it dispatches first")

	spec, _, ok = q.PopNextTaskToSend()
	require.True(t, ok)
	assert.Equal(t, uint64(0), spec.SequenceNumber)
}

func TestMarkDependencyFailedRemovesEntry(t *testing.T) {
	q := newInOrderQueue()
	q.Emplace(0, specWithSeq(0))
	spec, ok := q.MarkDependencyFailed(0)
	require.True(t, ok)
	assert.Equal(t, uint64(0), spec.SequenceNumber)
	assert.False(t, q.Contains(0))
	assert.True(t, q.Empty())
}

func TestClearAllTasksReturnsEveryTaskID(t *testing.T) {
	q := newAnyOrderQueue()
	s0 := specWithSeq(0)
	s1 := specWithSeq(1)
	q.Emplace(0, s0)
	q.Emplace(1, s1)

	ids := q.ClearAllTasks()
	assert.ElementsMatch(t, []identity.TaskID{s0.TaskID, s1.TaskID}, ids)
	assert.True(t, q.Empty())
}

func TestSkipQueueReflectsAttemptNumber(t *testing.T) {
	q := newInOrderQueue()
	spec := specWithSeq(0)
	spec.AttemptNumber = 2
	q.Emplace(0, spec)
	q.MarkDependencyResolved(0)

	_, skip, ok := q.PopNextTaskToSend()
	require.True(t, ok)
	assert.True(t, skip)
}
