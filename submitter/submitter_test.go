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

package submitter_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tochemey/actorsubmit/config"
	"github.com/tochemey/actorsubmit/errors"
	"github.com/tochemey/actorsubmit/identity"
	"github.com/tochemey/actorsubmit/submitter"
	"github.com/tochemey/actorsubmit/submittertest"
)

type harness struct {
	sub      *submitter.Submitter
	resolver *submittertest.DependencyResolver
	tasks    *submittertest.TaskManager
	creator  *submittertest.ActorCreator
	pool     *submittertest.ClientPool
	refs     *submittertest.ReferenceCounter
	executor *submittertest.InlineExecutor
}

func newHarness(t *testing.T, opts ...config.Option) *harness {
	t.Helper()
	cfg, err := config.New(opts...)
	require.NoError(t, err)

	h := &harness{
		resolver: submittertest.NewDependencyResolver(),
		tasks:    submittertest.NewTaskManager(),
		creator:  submittertest.NewActorCreator(),
		pool:     submittertest.NewClientPool(),
		refs:     submittertest.NewReferenceCounter(),
		executor: submittertest.NewInlineExecutor(),
	}
	h.sub = submitter.New(cfg, submitter.Collaborators{
		SelfWorkerID:       identity.NewWorkerID("test-worker"),
		DependencyResolver: h.resolver,
		TaskManager:        h.tasks,
		ActorCreator:       h.creator,
		ClientPool:         h.pool,
		ReferenceCounter:   h.refs,
		Executor:           h.executor,
	})
	t.Cleanup(h.sub.Close)
	return h
}

func newSpec(actor identity.ActorID, seq uint64) submitter.TaskSpec {
	return submitter.TaskSpec{
		TaskID:         identity.NewTaskID(),
		ActorID:        actor,
		SequenceNumber: seq,
	}
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// TestHappyPathSubmitConnectComplete covers scenario 1: submit the actor's
// creation task, submit an ordinary task behind it, connect the actor, and
// observe both the creation task and the ordinary task complete.
func TestHappyPathSubmitConnectComplete(t *testing.T) {
	h := newHarness(t)
	actor := identity.NewActorID("actor-1")
	objectID := identity.NewObjectID()
	addr := identity.Address{Host: "127.0.0.1", Port: 9000, WorkerID: identity.NewWorkerID("w1")}

	creation := newSpec(actor, 0)
	h.tasks.Track(creation)
	h.sub.SubmitActorCreationTask(creation, objectID, 0, false, false, true)

	require.Equal(t, 1, h.creator.CreatedCount(creation.TaskID))
	creationOutcome, ok := h.tasks.Completed(creation.TaskID)
	require.True(t, ok)
	assert.False(t, creationOutcome.Reply.IsApplicationError)

	spec := newSpec(actor, 1)
	h.tasks.Track(spec)
	h.sub.SubmitTask(spec)

	h.sub.ConnectActor(actor, addr, 0)

	client, err := h.pool.GetOrConnect(addr)
	require.NoError(t, err)
	fake := client.(*submittertest.RPCClient)
	assert.Equal(t, 1, fake.PushCount())

	outcome, ok := h.tasks.Completed(spec.TaskID)
	require.True(t, ok)
	assert.False(t, outcome.Reply.IsApplicationError)
}

// TestConnectActorRestartWithInflightEvictsOldClientAndFailsCalls covers §8
// scenario 4: an actor restarts to a new address while a task is still
// inflight against the old one. ConnectActor must evict the old client from
// the pool and hand the stranded inflight call a transport error, rather
// than leaving it permanently unresolved. With the default grace period the
// call is parked first, so the sweep past its deadline fails it as
// ACTOR_UNAVAILABLE.
func TestConnectActorRestartWithInflightEvictsOldClientAndFailsCalls(t *testing.T) {
	h := newHarness(t)
	actor := identity.NewActorID("actor-14")
	h.sub.AddActorQueueIfNotExists(actor, identity.NewObjectID(), 0, false, false, false)

	oldAddr := identity.Address{Host: "127.0.0.1", Port: 9008, WorkerID: identity.NewWorkerID("worker-old")}
	oldClient, err := h.pool.GetOrConnect(oldAddr)
	require.NoError(t, err)
	oldFake := oldClient.(*submittertest.RPCClient)
	oldFake.Freeze()
	h.sub.ConnectActor(actor, oldAddr, 0)

	spec := newSpec(actor, 0)
	h.tasks.Track(spec)
	h.sub.SubmitTask(spec)
	require.Equal(t, 1, oldFake.PushCount())

	newAddr := identity.Address{Host: "127.0.0.1", Port: 9009, WorkerID: identity.NewWorkerID("worker-new")}
	h.sub.ConnectActor(actor, newAddr, 1)

	assert.Contains(t, h.pool.DisconnectedWorkers(), identity.NewWorkerID("worker-old"))

	h.sub.CheckTimeoutTasks(time.Now().Add(time.Hour))
	outcome, ok := h.tasks.Failed(spec.TaskID)
	require.True(t, ok)
	assert.Equal(t, submitter.ErrorTypeActorUnavailable, outcome.ErrType)
}

// TestConnectActorIgnoresStaleReconnect covers the stale-event half of §8
// scenario 4/§4.4: a ConnectActor carrying a numRestarts older than what the
// queue has already observed must be skipped entirely, leaving the newer
// connection untouched.
func TestConnectActorIgnoresStaleReconnect(t *testing.T) {
	h := newHarness(t)
	actor := identity.NewActorID("actor-15")
	h.sub.AddActorQueueIfNotExists(actor, identity.NewObjectID(), 0, false, false, false)

	currentAddr := identity.Address{Host: "127.0.0.1", Port: 9010, WorkerID: identity.NewWorkerID("worker-current")}
	h.sub.ConnectActor(actor, currentAddr, 5)

	staleAddr := identity.Address{Host: "127.0.0.1", Port: 9011, WorkerID: identity.NewWorkerID("worker-stale")}
	h.sub.ConnectActor(actor, staleAddr, 2)

	assert.Empty(t, h.pool.DisconnectedWorkers())

	spec := newSpec(actor, 0)
	h.tasks.Track(spec)
	h.sub.SubmitTask(spec)

	currentClient, err := h.pool.GetOrConnect(currentAddr)
	require.NoError(t, err)
	fake := currentClient.(*submittertest.RPCClient)
	assert.Equal(t, 1, fake.PushCount())

	staleClient, err := h.pool.GetOrConnect(staleAddr)
	require.NoError(t, err)
	assert.Equal(t, 0, staleClient.(*submittertest.RPCClient).PushCount())
}

// TestDisconnectActorIgnoresStaleRestartSignal covers the stale-event half
// of DisconnectActor's transient branch: a numRestarts at or below what the
// queue already observed must be ignored rather than tearing down a
// connection that has already moved past it.
func TestDisconnectActorIgnoresStaleRestartSignal(t *testing.T) {
	h := newHarness(t)
	actor := identity.NewActorID("actor-16")
	h.sub.AddActorQueueIfNotExists(actor, identity.NewObjectID(), 0, false, false, false)

	addr := identity.Address{Host: "127.0.0.1", Port: 9012, WorkerID: identity.NewWorkerID("worker-16")}
	h.sub.ConnectActor(actor, addr, 3)

	h.sub.DisconnectActor(actor, 2, false, nil, false)

	assert.Empty(t, h.pool.DisconnectedWorkers())
	state, ok := h.sub.GetLocalActorState(actor)
	require.True(t, ok)
	assert.Equal(t, submitter.Alive, state)

	spec := newSpec(actor, 0)
	h.tasks.Track(spec)
	h.sub.SubmitTask(spec)

	client, err := h.pool.GetOrConnect(addr)
	require.NoError(t, err)
	assert.Equal(t, 1, client.(*submittertest.RPCClient).PushCount())
}

// TestReorderedDependencyResolutionInOrder covers scenario 2: two tasks are
// submitted in sequence order but the second's dependency resolves first;
// the in-order queue must still withhold it until the first is also ready.
func TestReorderedDependencyResolutionInOrder(t *testing.T) {
	h := newHarness(t)
	actor := identity.NewActorID("actor-2")
	addr := identity.Address{Host: "127.0.0.1", Port: 9001}
	h.sub.AddActorQueueIfNotExists(actor, identity.NewObjectID(), 0, false, false, true)
	h.sub.ConnectActor(actor, addr, 0)

	client, err := h.pool.GetOrConnect(addr)
	require.NoError(t, err)
	fake := client.(*submittertest.RPCClient)

	first := newSpec(actor, 0)
	second := newSpec(actor, 1)
	h.tasks.Track(first)
	h.tasks.Track(second)

	h.resolver.Hold(first.TaskID)
	h.sub.SubmitTask(first)
	h.sub.SubmitTask(second) // resolves immediately but must wait behind seq 0

	assert.Equal(t, 0, fake.PushCount())

	h.resolver.Release(first.TaskID)
	assert.Equal(t, 2, fake.PushCount())
}

// TestCancelQueuedTaskNeverDispatched covers scenario 5: canceling a task
// still sitting in the submit queue, before dependencies resolve, must
// prevent it from ever reaching the wire.
func TestCancelQueuedTaskNeverDispatched(t *testing.T) {
	h := newHarness(t)
	actor := identity.NewActorID("actor-3")
	h.sub.AddActorQueueIfNotExists(actor, identity.NewObjectID(), 0, false, false, true)

	spec := newSpec(actor, 0)
	h.tasks.Track(spec)
	h.resolver.Hold(spec.TaskID)
	h.sub.SubmitTask(spec)

	h.sub.CancelTask(spec, false)
	h.resolver.Release(spec.TaskID)

	addr := identity.Address{Host: "127.0.0.1", Port: 9002}
	h.sub.ConnectActor(actor, addr, 0)

	client, err := h.pool.GetOrConnect(addr)
	require.NoError(t, err)
	fake := client.(*submittertest.RPCClient)
	assert.Equal(t, 0, fake.PushCount())
}

// TestActorDeathFailsQueuedAndInflightTasks covers scenario 3/4: a
// confirmed actor death fails both the task still waiting in the submit
// queue and the one inflight on the wire, using the death cause rather than
// a generic transport error.
func TestActorDeathFailsQueuedAndInflightTasks(t *testing.T) {
	h := newHarness(t)
	actor := identity.NewActorID("actor-4")
	h.sub.AddActorQueueIfNotExists(actor, identity.NewObjectID(), 0, false, false, false)

	addr := identity.Address{Host: "127.0.0.1", Port: 9003}
	client, err := h.pool.GetOrConnect(addr)
	require.NoError(t, err)
	fake := client.(*submittertest.RPCClient)
	fake.Freeze()
	h.sub.ConnectActor(actor, addr, 0)

	spec := newSpec(actor, 0)
	h.tasks.Track(spec)
	h.sub.SubmitTask(spec)
	require.Equal(t, 1, fake.PushCount())

	queued := newSpec(actor, 1)
	h.tasks.Track(queued)
	h.resolver.Hold(queued.TaskID)
	h.sub.SubmitTask(queued)
	require.Equal(t, 1, fake.PushCount())

	h.sub.DisconnectActor(actor, 0, true, &errors.ActorDiedErrorContext{
		Reason:          errors.ActorDiedOOM,
		FailImmediately: true,
	}, false)

	outcome, ok := h.tasks.Failed(spec.TaskID)
	require.True(t, ok)
	assert.Equal(t, submitter.ErrorTypeActorDied, outcome.ErrType)
	assert.ErrorIs(t, outcome.Err, errors.ErrActorDied)

	queuedOutcome, ok := h.tasks.Failed(queued.TaskID)
	require.True(t, ok)
	assert.Equal(t, submitter.ErrorTypeActorDied, queuedOutcome.ErrType)
}

// TestGracePeriodTimeoutFailsParkedTask covers the grace-period sweep: a
// task parked waiting for death information that never arrives is failed
// once its deadline elapses.
func TestGracePeriodTimeoutFailsParkedTask(t *testing.T) {
	h := newHarness(t, config.WithGracePeriod(10*time.Millisecond))
	actor := identity.NewActorID("actor-5")
	h.sub.AddActorQueueIfNotExists(actor, identity.NewObjectID(), 0, false, false, false)

	addr := identity.Address{Host: "127.0.0.1", Port: 9004}
	client, err := h.pool.GetOrConnect(addr)
	require.NoError(t, err)
	fake := client.(*submittertest.RPCClient)
	fake.SetPushOutcome(errors.NewActorUnavailableError(errors.ErrActorUnavailable), submitter.PushActorTaskReply{})
	h.sub.ConnectActor(actor, addr, 0)

	spec := newSpec(actor, 0)
	h.tasks.Track(spec)
	h.sub.SubmitTask(spec)

	h.sub.CheckTimeoutTasks(time.Now().Add(time.Hour))

	outcome, ok := h.tasks.Failed(spec.TaskID)
	require.True(t, ok)
	assert.Equal(t, submitter.ErrorTypeActorUnavailable, outcome.ErrType)
}

// TestSubmitActorCreationTaskCompletesDirectly covers §4.3: the creation
// task must complete straight from AsyncCreateActor's reply, never through
// the ordinary submit queue/PushActorTask path, and must leave the actor in
// PENDING_CREATION until ConnectActor actually arrives.
func TestSubmitActorCreationTaskCompletesDirectly(t *testing.T) {
	h := newHarness(t)
	actor := identity.NewActorID("actor-6")
	objectID := identity.NewObjectID()

	creation := newSpec(actor, 0)
	h.tasks.Track(creation)
	h.sub.SubmitActorCreationTask(creation, objectID, 0, false, false, true)

	require.Equal(t, 1, h.creator.CreatedCount(creation.TaskID))
	outcome, ok := h.tasks.Completed(creation.TaskID)
	require.True(t, ok)
	assert.False(t, outcome.Reply.IsApplicationError)

	state, ok := h.sub.GetLocalActorState(actor)
	require.True(t, ok)
	assert.Equal(t, submitter.PendingCreation, state)
}

// TestSubmitActorCreationTaskApplicationErrorStillCompletes covers §4.3's
// application-error branch: a startup failure inside the actor itself still
// completes the creation task, carrying the execution error, rather than
// failing it.
func TestSubmitActorCreationTaskApplicationErrorStillCompletes(t *testing.T) {
	h := newHarness(t)
	actor := identity.NewActorID("actor-11")
	objectID := identity.NewObjectID()

	creation := newSpec(actor, 0)
	h.tasks.Track(creation)
	h.creator.SetCreateOutcome(creation.TaskID, submitter.ActorCreationOutcome{
		Err:                errors.ErrTaskExecutionException,
		IsApplicationError: true,
		ExecutionError:     "boom",
	})

	h.sub.SubmitActorCreationTask(creation, objectID, 0, false, false, true)

	outcome, ok := h.tasks.Completed(creation.TaskID)
	require.True(t, ok)
	assert.True(t, outcome.Reply.IsApplicationError)
	assert.Equal(t, "boom", outcome.Reply.ExecutionError)
}

// TestSubmitActorCreationTaskFailureDrainsQueuedTasks covers §4.3's failure
// path: a scheduling/RPC failure fails the creation task outright and
// drains everything already queued behind it, since none of it can proceed
// without the actor coming to life.
func TestSubmitActorCreationTaskFailureDrainsQueuedTasks(t *testing.T) {
	h := newHarness(t)
	actor := identity.NewActorID("actor-12")
	objectID := identity.NewObjectID()

	creation := newSpec(actor, 0)
	h.tasks.Track(creation)
	h.creator.SetCreateError(creation.TaskID, errors.ErrActorCreationFailed)
	h.resolver.Hold(creation.TaskID)

	h.sub.SubmitActorCreationTask(creation, objectID, 0, false, false, true)

	queued := newSpec(actor, 1)
	h.tasks.Track(queued)
	h.sub.SubmitTask(queued)

	h.resolver.Release(creation.TaskID)

	_, ok := h.tasks.Failed(creation.TaskID)
	require.True(t, ok)

	outcome, ok := h.tasks.Failed(queued.TaskID)
	require.True(t, ok)
	assert.Equal(t, submitter.ErrorTypeActorCreationFailed, outcome.ErrType)
}

// TestQueueGeneratorForResubmitTriggersResubmission covers §4.9: a
// generator's next successful reply triggers resubmission through the task
// manager instead of an ordinary completion.
func TestQueueGeneratorForResubmitTriggersResubmission(t *testing.T) {
	h := newHarness(t)
	actor := identity.NewActorID("actor-9")
	addr := identity.Address{Host: "127.0.0.1", Port: 9005}
	h.sub.AddActorQueueIfNotExists(actor, identity.NewObjectID(), 0, false, false, true)
	h.sub.ConnectActor(actor, addr, 0)

	client, err := h.pool.GetOrConnect(addr)
	require.NoError(t, err)
	fake := client.(*submittertest.RPCClient)

	spec := newSpec(actor, 0)
	h.tasks.Track(spec)
	h.sub.QueueGeneratorForResubmit(spec)

	require.Equal(t, 1, fake.PushCount())
	assert.True(t, h.tasks.Resubmitted(spec.TaskID))
	_, completed := h.tasks.Completed(spec.TaskID)
	assert.False(t, completed)
}

// TestLineageReconstructionRestartsDeadOwnedActor covers scenario 6: a task
// submitted for a DEAD, owned, restartable actor triggers a lineage
// reconstruction restart rather than an immediate ACTOR_DIED failure; once
// the actor directory confirms the restart and the actor reconnects, the
// queued task dispatches normally.
func TestLineageReconstructionRestartsDeadOwnedActor(t *testing.T) {
	h := newHarness(t)
	actor := identity.NewActorID("actor-10")
	h.sub.AddActorQueueIfNotExists(actor, identity.NewObjectID(), 0, false, false, true)

	h.sub.DisconnectActor(actor, 0, true, &errors.ActorDiedErrorContext{Reason: errors.ActorDiedUnknown}, true)

	spec := newSpec(actor, 0)
	h.tasks.Track(spec)
	h.sub.SubmitTask(spec)

	require.Equal(t, 1, h.creator.RestartedCount(actor))
	state, ok := h.sub.GetLocalActorState(actor)
	require.True(t, ok)
	assert.Equal(t, submitter.Restarting, state)

	addr := identity.Address{Host: "127.0.0.1", Port: 9006}
	h.sub.ConnectActor(actor, addr, 1)

	client, err := h.pool.GetOrConnect(addr)
	require.NoError(t, err)
	fake := client.(*submittertest.RPCClient)
	assert.Equal(t, 1, fake.PushCount())

	outcome, ok := h.tasks.Completed(spec.TaskID)
	require.True(t, ok)
	assert.False(t, outcome.Reply.IsApplicationError)
}
