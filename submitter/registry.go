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
	"context"
	"strings"
	"sync"
	"time"

	"github.com/deckarep/golang-set/v2"

	"github.com/tochemey/actorsubmit/config"
	"github.com/tochemey/actorsubmit/identity"
	"github.com/tochemey/actorsubmit/ioexecutor"
	"github.com/tochemey/actorsubmit/log"
)

// Submitter is the client-side task submitter: one instance per worker,
// owning the client-queue registry behind a single mutex.
type Submitter struct {
	mu       sync.Mutex
	registry map[identity.ActorID]*ClientQueue

	selfWorkerID identity.WorkerID

	resolver         DependencyResolver
	taskManager      TaskManager
	actorCreator     ActorCreator
	clientPool       ClientPool
	referenceCounter ReferenceCounter

	executor ioexecutor.IOExecutor
	logger   log.Logger
	cfg      *config.Config

	// generatorsAwaitingResubmit is the process-wide set from §4.9: task
	// IDs whose next successful reply should trigger resubmission instead
	// of ordinary completion.
	generatorsAwaitingResubmit mapset.Set[identity.TaskID]

	sweepStop chan struct{}
	sweepDone chan struct{}
}

// Collaborators bundles every external dependency the Submitter consumes,
// per §6 of its interface contract.
type Collaborators struct {
	SelfWorkerID       identity.WorkerID
	DependencyResolver DependencyResolver
	TaskManager        TaskManager
	ActorCreator       ActorCreator
	ClientPool         ClientPool
	ReferenceCounter   ReferenceCounter
	Executor           ioexecutor.IOExecutor
}

// New builds a Submitter, starts its I/O executor, and launches the
// grace-period sweeper goroutine. Close must be called to release both.
func New(cfg *config.Config, collaborators Collaborators) *Submitter {
	executor := collaborators.Executor
	if executor == nil {
		executor = ioexecutor.NewExecutor(cfg.Logger, 5*time.Second)
	}

	s := &Submitter{
		registry:                   make(map[identity.ActorID]*ClientQueue),
		selfWorkerID:               collaborators.SelfWorkerID,
		resolver:                   collaborators.DependencyResolver,
		taskManager:                collaborators.TaskManager,
		actorCreator:               collaborators.ActorCreator,
		clientPool:                 collaborators.ClientPool,
		referenceCounter:           collaborators.ReferenceCounter,
		executor:                   executor,
		logger:                     cfg.Logger,
		cfg:                        cfg,
		generatorsAwaitingResubmit: mapset.NewSet[identity.TaskID](),
		sweepStop:                  make(chan struct{}),
		sweepDone:                  make(chan struct{}),
	}

	s.executor.Start(context.Background())
	if cfg.GracePeriod > 0 {
		go s.runGraceSweeper()
	} else {
		close(s.sweepDone)
	}

	return s
}

// Close stops the grace-period sweeper and the I/O executor. Outstanding
// retries scheduled on the executor are implicitly canceled, per §5.
func (s *Submitter) Close() {
	close(s.sweepStop)
	<-s.sweepDone
	s.executor.Stop(context.Background())
}

func (s *Submitter) runGraceSweeper() {
	defer close(s.sweepDone)
	ticker := time.NewTicker(s.cfg.GracePeriod / 2)
	defer ticker.Stop()
	for {
		select {
		case <-s.sweepStop:
			return
		case <-ticker.C:
			s.CheckTimeoutTasks(time.Now())
		}
	}
}

// AddActorQueueIfNotExists creates a ClientQueue for actor if absent.
// Idempotent: a repeat call for an already-registered actor is a no-op,
// and its arguments are ignored.
func (s *Submitter) AddActorQueueIfNotExists(actor identity.ActorID, objectID identity.ObjectID, maxPendingCalls int, executeOutOfOrder, failIfActorUnreachable, owned bool) {
	s.mu.Lock()

	if _, exists := s.registry[actor]; exists {
		s.mu.Unlock()
		return
	}

	queue := newClientQueue(actor, maxPendingCalls, executeOutOfOrder, failIfActorUnreachable, owned, s.cfg.InitialWarnThreshold)
	s.registry[actor] = queue
	s.mu.Unlock()

	if !owned {
		return
	}
	subscribed := s.referenceCounter.AddObjectOutOfScopeOrFreedCallback(objectID, func() {
		s.handleActorOutOfScope(actor)
	})
	if !subscribed {
		s.handleActorOutOfScope(actor)
	}
}

// handleActorOutOfScope is the out-of-scope callback body: re-entrancy
// safe, it latches pendingOutOfScopeDeath and reports the condition to
// the actor directory outside the lock.
func (s *Submitter) handleActorOutOfScope(actor identity.ActorID) {
	s.mu.Lock()
	queue, ok := s.registry[actor]
	if !ok || queue.state == Dead || queue.pendingOutOfScopeDeath {
		s.mu.Unlock()
		return
	}
	queue.pendingOutOfScopeDeath = true
	s.mu.Unlock()

	s.actorCreator.AsyncReportActorOutOfScope(actor)
}

// PendingTasksFull returns the caller's backpressure signal: true iff the
// actor has a positive max and has reached it. The submitter never blocks
// on this itself.
func (s *Submitter) PendingTasksFull(actor identity.ActorID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	queue, ok := s.registry[actor]
	if !ok {
		return false
	}
	return queue.pendingTasksFull()
}

// IsActorAlive reports whether the actor's ClientQueue is in ALIVE.
func (s *Submitter) IsActorAlive(actor identity.ActorID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	queue, ok := s.registry[actor]
	return ok && queue.state == Alive
}

// GetActorAddress returns the actor's current address, if connected.
func (s *Submitter) GetActorAddress(actor identity.ActorID) (identity.Address, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	queue, ok := s.registry[actor]
	if !ok || queue.state != Alive {
		return identity.Address{}, false
	}
	return queue.address, true
}

// NumPendingTasks returns the actor's current pending call count: tasks
// still in its submit queue plus those awaiting a reply.
func (s *Submitter) NumPendingTasks(actor identity.ActorID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	queue, ok := s.registry[actor]
	if !ok {
		return 0
	}
	return int(queue.curPendingCalls.Load())
}

// CheckActorExists reports whether the actor has a registry entry at all,
// regardless of its lifecycle state.
func (s *Submitter) CheckActorExists(actor identity.ActorID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.registry[actor]
	return ok
}

// GetLocalActorState returns the actor's ClientQueueState, if registered.
func (s *Submitter) GetLocalActorState(actor identity.ActorID) (ClientQueueState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	queue, ok := s.registry[actor]
	if !ok {
		return PendingCreation, false
	}
	return queue.state, true
}

// DebugString renders a per-actor summary of registry state, intended for
// diagnostics and tests, not for machine parsing.
func (s *Submitter) DebugString() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	for actor, queue := range s.registry {
		b.WriteString(actor.String())
		b.WriteString(": {")
		b.WriteString(queue.debugString())
		b.WriteString("}\n")
	}
	return b.String()
}
