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
	"github.com/tochemey/actorsubmit/errors"
	"github.com/tochemey/actorsubmit/identity"
)

// SubmitTask implements §4.2: it emplaces spec into its actor's submit
// queue at spec.SequenceNumber and kicks off dependency resolution. The
// actor's queue must already exist; use SubmitActorCreationTask for the
// creation task itself, which never touches this queue. A PENDING_CREATION
// actor simply accumulates tasks here until its creation task completes and
// ConnectActor flushes them.
func (s *Submitter) SubmitTask(spec TaskSpec) {
	s.mu.Lock()
	queue, ok := s.registry[spec.ActorID]
	if !ok {
		s.mu.Unlock()
		s.taskManager.FailPendingTask(spec.TaskID, ErrorTypeActorCreationFailed, errors.ErrActorNotRegistered)
		return
	}

	if queue.state == Dead {
		if queue.owned && queue.isRestartable {
			queue.curPendingCalls.Inc()
			queue.submitQueue.Emplace(spec.SequenceNumber, spec)
			s.mu.Unlock()
			s.RestartActorForLineageReconstruction(spec.ActorID)
			s.resolveDependencies(spec)
			return
		}
		cause := queue.deathCause
		s.mu.Unlock()
		if cause == nil {
			cause = errors.ErrActorDied
		}
		s.taskManager.FailOrRetryPendingTask(spec.TaskID, ErrorTypeActorDied, cause, true, false)
		return
	}

	queue.curPendingCalls.Inc()
	queue.submitQueue.Emplace(spec.SequenceNumber, spec)
	out := s.sendPendingTasksLocked(spec.ActorID, queue)
	s.mu.Unlock()

	s.runDispatchOutcome(spec.ActorID, out)
	s.resolveDependencies(spec)
}

// SubmitActorCreationTask implements §4.3: it registers actor's queue if
// this is the first task seen for it, then resolves the creation task's own
// dependencies and hands creation straight to the actor creator. Unlike
// SubmitTask, the creation task never enters the actor's submit queue or
// goes out over PushActorTask — the task manager learns its outcome
// directly from AsyncCreateActor's reply.
func (s *Submitter) SubmitActorCreationTask(spec TaskSpec, objectID identity.ObjectID, maxPendingCalls int, executeOutOfOrder, failIfActorUnreachable, owned bool) {
	s.AddActorQueueIfNotExists(spec.ActorID, objectID, maxPendingCalls, executeOutOfOrder, failIfActorUnreachable, owned)

	s.resolver.ResolveDependencies(spec, func(status DependencyResolutionStatus) {
		s.onCreationDependenciesResolved(spec, status)
	})
}

// onCreationDependenciesResolved fires once the creation task's own
// dependencies resolve. A failure fails the creation task outright; a
// success hands the actor off to the creator.
func (s *Submitter) onCreationDependenciesResolved(spec TaskSpec, status DependencyResolutionStatus) {
	if !status.Ok {
		wrapped := errors.NewErrDependencyResolutionFailed(status.Err)
		s.taskManager.FailPendingTask(spec.TaskID, ErrorTypeDependencyResolutionFailed, wrapped)
		return
	}
	s.taskManager.MarkDependenciesResolved(spec.TaskID)

	s.actorCreator.AsyncCreateActor(spec, func(outcome ActorCreationOutcome) {
		s.onActorCreationTaskReply(spec, outcome)
	})
}

// onActorCreationTaskReply is AsyncCreateActor's callback. Success, and an
// application-level failure inside the actor's own startup logic, both
// complete the creation task directly; anything else fails it, and, since
// none of them can make progress without the actor coming to life, fails
// every ordinary task already queued behind it too.
func (s *Submitter) onActorCreationTaskReply(spec TaskSpec, outcome ActorCreationOutcome) {
	if outcome.Err == nil || outcome.IsApplicationError {
		reply := PushActorTaskReply{
			IsApplicationError: outcome.IsApplicationError,
			ExecutionError:     outcome.ExecutionError,
			Address:            outcome.Address,
		}
		s.taskManager.CompletePendingTask(spec.TaskID, reply, outcome.Address, outcome.IsApplicationError)
		return
	}

	if outcome.Canceled {
		s.taskManager.MarkTaskCanceled(spec.TaskID)
		errType := ErrorTypeTaskCancelled
		var err error = errors.ErrTaskCancelled
		if outcome.DeathCause != nil {
			errType = ErrorTypeActorDied
			err = classifyActorDiedContext(*outcome.DeathCause)
		}
		s.taskManager.FailPendingTask(spec.TaskID, errType, err)
	} else {
		s.taskManager.FailPendingTask(spec.TaskID, ErrorTypeActorCreationFailed, errors.NewErrActorCreationFailed(outcome.Err))
	}

	s.mu.Lock()
	queue, ok := s.registry[spec.ActorID]
	var queuedTaskIDs []identity.TaskID
	if ok {
		queuedTaskIDs = queue.submitQueue.ClearAllTasks()
	}
	s.mu.Unlock()

	wrapped := errors.NewErrActorCreationFailed(outcome.Err)
	for _, taskID := range queuedTaskIDs {
		s.resolver.CancelDependencyResolution(taskID)
		s.taskManager.FailPendingTask(taskID, ErrorTypeActorCreationFailed, wrapped)
	}
}

func (s *Submitter) resolveDependencies(spec TaskSpec) {
	s.resolver.ResolveDependencies(spec, func(status DependencyResolutionStatus) {
		s.onDependencyResolved(spec, status)
	})
}

// onDependencyResolved is the dependency resolver's callback. A failure
// removes the task from its submit queue and fails it immediately; a
// success marks the slot ready and flushes whatever is now dispatchable.
func (s *Submitter) onDependencyResolved(spec TaskSpec, status DependencyResolutionStatus) {
	s.mu.Lock()
	queue, ok := s.registry[spec.ActorID]
	if !ok {
		s.mu.Unlock()
		return
	}

	if !status.Ok {
		removedSpec, found := queue.submitQueue.MarkDependencyFailed(spec.SequenceNumber)
		s.mu.Unlock()
		if !found {
			return
		}
		wrapped := errors.NewErrDependencyResolutionFailed(status.Err)
		if !s.taskManager.FailOrRetryPendingTask(removedSpec.TaskID, ErrorTypeDependencyResolutionFailed, wrapped, false, false) {
			s.taskManager.FailPendingTask(removedSpec.TaskID, ErrorTypeDependencyResolutionFailed, wrapped)
		}
		return
	}

	if !queue.submitQueue.MarkDependencyResolved(spec.SequenceNumber) {
		s.mu.Unlock()
		return
	}
	out := s.sendPendingTasksLocked(spec.ActorID, queue)
	s.mu.Unlock()

	s.taskManager.MarkDependenciesResolved(spec.TaskID)
	s.runDispatchOutcome(spec.ActorID, out)
}
