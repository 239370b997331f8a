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
	stderrors "errors"
	"time"

	"github.com/tochemey/actorsubmit/errors"
	"github.com/tochemey/actorsubmit/identity"
)

// handlePushTaskReply implements §4.6: it classifies the outcome of one
// PushActorTask attempt, asks the task manager whether it will retry, and
// either completes, parks, or fails the task.
func (s *Submitter) handlePushTaskReply(actor identity.ActorID, spec TaskSpec, transportErr error, reply PushActorTaskReply) {
	taskID := spec.TaskID

	if transportErr == nil && s.consumeGeneratorResubmission(actor, taskID) {
		s.taskManager.MarkGeneratorFailedAndResubmit(taskID)
		return
	}

	ok := transportErr == nil

	switch {
	case ok && !reply.IsRetryableError:
		s.decrementPending(actor)
		s.taskManager.CompletePendingTask(taskID, reply, reply.Address, reply.IsApplicationError)
		return

	case stderrors.Is(transportErr, errors.ErrTaskCancelled):
		s.decrementPending(actor)
		s.taskManager.FailPendingTask(taskID, ErrorTypeTaskCancelled, errors.ErrTaskCancelled)
		return
	}

	var (
		errType         ErrorType
		classifiedErr   error
		isActorDead     bool
		failImmediately bool
	)

	switch {
	case ok && reply.IsRetryableError:
		errType = ErrorTypeTaskExecutionException
		classifiedErr = errors.NewTaskExecutionError(reply.ExecutionError)

	default:
		s.mu.Lock()
		queue, exists := s.registry[actor]
		if exists && queue.state == Dead {
			isActorDead = true
			if queue.deathCauseCtx != nil {
				failImmediately = queue.deathCauseCtx.FailImmediately
			}
			classifiedErr = queue.deathCause
			errType = ErrorTypeActorDied
		} else {
			classifiedErr = errors.NewActorUnavailableError(transportErr)
			errType = ErrorTypeActorUnavailable
		}
		s.mu.Unlock()
	}

	s.resolver.CancelDependencyResolution(taskID)

	retried := s.taskManager.FailOrRetryPendingTask(taskID, errType, classifiedErr, isActorDead, failImmediately)
	s.decrementPending(actor)

	if retried || isActorDead {
		return
	}

	if errType == ErrorTypeTaskExecutionException {
		s.taskManager.CompletePendingTask(taskID, reply, reply.Address, reply.IsApplicationError)
		return
	}

	if s.cfg.GracePeriod > 0 {
		s.parkForDeathInfo(actor, spec, classifiedErr)
		return
	}

	s.taskManager.FailPendingTask(taskID, errType, classifiedErr)
}

func (s *Submitter) decrementPending(actor identity.ActorID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if queue, ok := s.registry[actor]; ok {
		queue.curPendingCalls.Dec()
	}
}

func (s *Submitter) consumeGeneratorResubmission(actor identity.ActorID, taskID identity.TaskID) bool {
	if !s.generatorsAwaitingResubmit.Contains(taskID) {
		return false
	}
	s.mu.Lock()
	s.generatorsAwaitingResubmit.Remove(taskID)
	if queue, ok := s.registry[actor]; ok {
		queue.curPendingCalls.Dec()
	}
	s.mu.Unlock()
	return true
}

func (s *Submitter) parkForDeathInfo(actor identity.ActorID, spec TaskSpec, provisionalErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	queue, ok := s.registry[actor]
	if !ok {
		return
	}
	queue.waitForDeathInfoTasks.PushBack(&waitingTask{
		spec:           spec,
		deadline:       time.Now().Add(s.cfg.GracePeriod),
		provisionalErr: provisionalErr,
	})
}
