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

// Package submittertest holds small, hand-written in-memory fakes for every
// external collaborator the submitter package consumes. They favor
// predictable, synchronous behavior over faithfully modeling network
// latency, so tests can assert on outcomes without sleeping.
package submittertest

import (
	"context"
	"sync"
	"time"

	"github.com/tochemey/actorsubmit/identity"
	"github.com/tochemey/actorsubmit/ioexecutor"
	"github.com/tochemey/actorsubmit/submitter"
)

var (
	_ ioexecutor.IOExecutor        = (*InlineExecutor)(nil)
	_ submitter.DependencyResolver = (*DependencyResolver)(nil)
	_ submitter.TaskManager        = (*TaskManager)(nil)
	_ submitter.ActorCreator       = (*ActorCreator)(nil)
	_ submitter.RPCClient          = (*RPCClient)(nil)
	_ submitter.ClientPool         = (*ClientPool)(nil)
	_ submitter.ReferenceCounter   = (*ReferenceCounter)(nil)
)

// InlineExecutor runs every posted function synchronously, on the calling
// goroutine, the moment it is scheduled. ExecuteAfter ignores its delay
// unless Freeze has been called, in which case callers must invoke Flush to
// release queued work — useful for asserting on retry scheduling without
// real timers.
type InlineExecutor struct {
	mu     sync.Mutex
	frozen bool
	queued []func()
}

// NewInlineExecutor builds an executor that runs work immediately.
func NewInlineExecutor() *InlineExecutor {
	return &InlineExecutor{}
}

func (e *InlineExecutor) Start(_ context.Context) {}
func (e *InlineExecutor) Stop(_ context.Context)  {}

// Freeze causes ExecuteAfter/Post calls to queue instead of running inline.
func (e *InlineExecutor) Freeze() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.frozen = true
}

// Flush runs every queued function, in submission order, including any
// newly queued while flushing.
func (e *InlineExecutor) Flush() {
	for {
		e.mu.Lock()
		if len(e.queued) == 0 {
			e.mu.Unlock()
			return
		}
		fn := e.queued[0]
		e.queued = e.queued[1:]
		e.mu.Unlock()
		fn()
	}
}

func (e *InlineExecutor) Post(fn func()) error {
	return e.ExecuteAfter(0, fn)
}

func (e *InlineExecutor) ExecuteAfter(_ time.Duration, fn func()) error {
	e.mu.Lock()
	if e.frozen {
		e.queued = append(e.queued, fn)
		e.mu.Unlock()
		return nil
	}
	e.mu.Unlock()
	fn()
	return nil
}

// DependencyResolver is a fake submitter.DependencyResolver. Outcomes are
// pre-seeded per TaskID with Fail; anything unseeded resolves Ok
// immediately unless the TaskID is held with Hold, in which case the
// callback is stashed until the test calls Release.
type DependencyResolver struct {
	mu         sync.Mutex
	outcomes   map[identity.TaskID]submitter.DependencyResolutionStatus
	held       map[identity.TaskID]bool
	pending    map[identity.TaskID]func(submitter.DependencyResolutionStatus)
	canceled   map[identity.TaskID]bool
	resolveLog []identity.TaskID
}

func NewDependencyResolver() *DependencyResolver {
	return &DependencyResolver{
		outcomes: make(map[identity.TaskID]submitter.DependencyResolutionStatus),
		held:     make(map[identity.TaskID]bool),
		pending:  make(map[identity.TaskID]func(submitter.DependencyResolutionStatus)),
		canceled: make(map[identity.TaskID]bool),
	}
}

// Fail pre-seeds taskID to fail resolution with err.
func (r *DependencyResolver) Fail(taskID identity.TaskID, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes[taskID] = submitter.DependencyResolutionStatus{Ok: false, Err: err}
}

// Hold prevents taskID's resolution callback from firing until Release is
// called, simulating a dependency that has not resolved yet.
func (r *DependencyResolver) Hold(taskID identity.TaskID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.held[taskID] = true
}

// Release fires the stashed callback for a held taskID with an Ok outcome,
// or does nothing if the resolution has not been requested yet or was not
// held.
func (r *DependencyResolver) Release(taskID identity.TaskID) {
	r.mu.Lock()
	cb, ok := r.pending[taskID]
	delete(r.pending, taskID)
	r.mu.Unlock()
	if ok {
		cb(submitter.DependencyResolutionStatus{Ok: true})
	}
}

func (r *DependencyResolver) ResolveDependencies(spec submitter.TaskSpec, cb func(submitter.DependencyResolutionStatus)) {
	r.mu.Lock()
	r.resolveLog = append(r.resolveLog, spec.TaskID)
	if r.held[spec.TaskID] {
		r.pending[spec.TaskID] = cb
		r.mu.Unlock()
		return
	}
	status, seeded := r.outcomes[spec.TaskID]
	r.mu.Unlock()
	if !seeded {
		status = submitter.DependencyResolutionStatus{Ok: true}
	}
	cb(status)
}

func (r *DependencyResolver) CancelDependencyResolution(taskID identity.TaskID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, taskID)
	r.canceled[taskID] = true
}

func (r *DependencyResolver) WasCanceled(taskID identity.TaskID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.canceled[taskID]
}

// TaskOutcome records how one task's terminal call landed.
type TaskOutcome struct {
	ErrType submitter.ErrorType
	Err     error
	Reply   submitter.PushActorTaskReply
	Address identity.Address
}

// TaskManager is a fake submitter.TaskManager tracking pending tasks and
// terminal/status notifications by TaskID.
type TaskManager struct {
	mu               sync.Mutex
	specs            map[identity.TaskID]submitter.TaskSpec
	pending          map[identity.TaskID]bool
	completed        map[identity.TaskID]TaskOutcome
	failed           map[identity.TaskID]TaskOutcome
	retryDecision    map[identity.TaskID]bool
	dependenciesDone map[identity.TaskID]bool
	canceled         map[identity.TaskID]bool
	resubmitted      map[identity.TaskID]bool
}

func NewTaskManager() *TaskManager {
	return &TaskManager{
		specs:            make(map[identity.TaskID]submitter.TaskSpec),
		pending:          make(map[identity.TaskID]bool),
		completed:        make(map[identity.TaskID]TaskOutcome),
		failed:           make(map[identity.TaskID]TaskOutcome),
		retryDecision:    make(map[identity.TaskID]bool),
		dependenciesDone: make(map[identity.TaskID]bool),
		canceled:         make(map[identity.TaskID]bool),
		resubmitted:      make(map[identity.TaskID]bool),
	}
}

// Track registers spec as pending, the way a real task manager would the
// moment a caller hands it a new submission.
func (m *TaskManager) Track(spec submitter.TaskSpec) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.specs[spec.TaskID] = spec
	m.pending[spec.TaskID] = true
}

// SetRetryDecision seeds whether FailOrRetryPendingTask should report a
// retry for taskID; unseeded task IDs default to no retry.
func (m *TaskManager) SetRetryDecision(taskID identity.TaskID, retry bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retryDecision[taskID] = retry
}

func (m *TaskManager) MarkDependenciesResolved(taskID identity.TaskID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dependenciesDone[taskID] = true
}

func (m *TaskManager) MarkTaskCanceled(taskID identity.TaskID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.canceled[taskID] = true
}

func (m *TaskManager) MarkTaskWaitingForExecution(identity.TaskID, identity.Address) {}

func (m *TaskManager) CompletePendingTask(taskID identity.TaskID, reply submitter.PushActorTaskReply, addr identity.Address, isApplicationError bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, taskID)
	m.completed[taskID] = TaskOutcome{Reply: reply, Address: addr}
}

func (m *TaskManager) FailPendingTask(taskID identity.TaskID, errType submitter.ErrorType, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, taskID)
	m.failed[taskID] = TaskOutcome{ErrType: errType, Err: err}
}

// FailOrRetryPendingTask reports the seeded retry decision for taskID. When
// markTaskObjectFailed is set (the actor is already known dead) and no
// retry was seeded, it finalizes the task itself, since the submitter will
// not call FailPendingTask again for that case. Otherwise a false return
// only means this call declined to retry, leaving the caller free to park
// or fail the task next, matching the real collaborator's contract.
func (m *TaskManager) FailOrRetryPendingTask(taskID identity.TaskID, errType submitter.ErrorType, err error, markTaskObjectFailed, _ bool) bool {
	m.mu.Lock()
	retry := m.retryDecision[taskID]
	m.mu.Unlock()
	if retry {
		return true
	}
	if markTaskObjectFailed {
		m.FailPendingTask(taskID, errType, err)
	}
	return false
}

func (m *TaskManager) IsTaskPending(taskID identity.TaskID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending[taskID]
}

func (m *TaskManager) GetTaskSpec(taskID identity.TaskID) (submitter.TaskSpec, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	spec, ok := m.specs[taskID]
	return spec, ok
}

func (m *TaskManager) MarkGeneratorFailedAndResubmit(taskID identity.TaskID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resubmitted[taskID] = true
}

// Completed reports whether taskID reached CompletePendingTask.
func (m *TaskManager) Completed(taskID identity.TaskID) (TaskOutcome, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.completed[taskID]
	return o, ok
}

// Failed reports whether taskID reached FailPendingTask.
func (m *TaskManager) Failed(taskID identity.TaskID) (TaskOutcome, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.failed[taskID]
	return o, ok
}

func (m *TaskManager) Resubmitted(taskID identity.TaskID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resubmitted[taskID]
}

// ActorCreator is a fake submitter.ActorCreator recording calls and
// invoking their callbacks synchronously with a pre-seeded outcome.
// Creation outcomes are seeded per creation TaskID, since a creation task
// (unlike a restart) carries an identity of its own.
type ActorCreator struct {
	mu                 sync.Mutex
	createOutcome      map[identity.TaskID]submitter.ActorCreationOutcome
	restartErr         map[identity.ActorID]error
	created            []identity.TaskID
	restarted          []identity.ActorID
	outOfScopeReported []identity.ActorID
}

func NewActorCreator() *ActorCreator {
	return &ActorCreator{
		createOutcome: make(map[identity.TaskID]submitter.ActorCreationOutcome),
		restartErr:    make(map[identity.ActorID]error),
	}
}

// SetCreateError seeds taskID's creation with a scheduling/RPC failure: the
// creation task fails outright and everything queued behind it drains.
func (c *ActorCreator) SetCreateError(taskID identity.TaskID, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.createOutcome[taskID] = submitter.ActorCreationOutcome{Err: err}
}

// SetCreateOutcome seeds taskID's creation with an arbitrary outcome,
// including an application-level startup failure that still completes the
// creation task, or a cancellation carrying a death cause.
func (c *ActorCreator) SetCreateOutcome(taskID identity.TaskID, outcome submitter.ActorCreationOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.createOutcome[taskID] = outcome
}

func (c *ActorCreator) SetRestartError(actor identity.ActorID, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.restartErr[actor] = err
}

func (c *ActorCreator) AsyncCreateActor(spec submitter.TaskSpec, cb func(submitter.ActorCreationOutcome)) {
	c.mu.Lock()
	c.created = append(c.created, spec.TaskID)
	outcome := c.createOutcome[spec.TaskID]
	c.mu.Unlock()
	cb(outcome)
}

func (c *ActorCreator) AsyncRestartActorForLineageReconstruction(actor identity.ActorID, cb func(err error)) {
	c.mu.Lock()
	c.restarted = append(c.restarted, actor)
	err := c.restartErr[actor]
	c.mu.Unlock()
	cb(err)
}

func (c *ActorCreator) AsyncReportActorOutOfScope(actor identity.ActorID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outOfScopeReported = append(c.outOfScopeReported, actor)
}

// CreatedCount reports how many times AsyncCreateActor was called for
// taskID.
func (c *ActorCreator) CreatedCount(taskID identity.TaskID) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.created {
		if t == taskID {
			n++
		}
	}
	return n
}

// RestartedCount reports how many times AsyncRestartActorForLineageReconstruction
// was called for actor.
func (c *ActorCreator) RestartedCount(actor identity.ActorID) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, a := range c.restarted {
		if a == actor {
			n++
		}
	}
	return n
}

// RPCClient is a fake submitter.RPCClient. PushActorTask invokes its
// pre-seeded reply immediately unless Freeze has been called, in which case
// the reply function is queued for the test to Flush. CancelTask always
// replies immediately, frozen or not.
type RPCClient struct {
	mu           sync.Mutex
	addr         identity.Address
	frozen       bool
	pushQueue    []func()
	pushErr      error
	pushReply    submitter.PushActorTaskReply
	cancelReply  submitter.CancelTaskReply
	cancelErr    error
	pushes       []submitter.PushActorTaskRequest
	cancellations []submitter.CancelTaskRequest
}

func NewRPCClient(addr identity.Address) *RPCClient {
	return &RPCClient{addr: addr, pushReply: submitter.PushActorTaskReply{}, cancelReply: submitter.CancelTaskReply{AttemptSucceeded: true}}
}

func (c *RPCClient) SetPushOutcome(err error, reply submitter.PushActorTaskReply) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pushErr = err
	c.pushReply = reply
}

func (c *RPCClient) SetCancelOutcome(err error, reply submitter.CancelTaskReply) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelErr = err
	c.cancelReply = reply
}

func (c *RPCClient) Freeze() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frozen = true
}

func (c *RPCClient) Flush() {
	for {
		c.mu.Lock()
		if len(c.pushQueue) == 0 {
			c.mu.Unlock()
			return
		}
		fn := c.pushQueue[0]
		c.pushQueue = c.pushQueue[1:]
		c.mu.Unlock()
		fn()
	}
}

func (c *RPCClient) PushActorTask(req submitter.PushActorTaskRequest, _ bool, cb func(error, submitter.PushActorTaskReply)) {
	c.mu.Lock()
	c.pushes = append(c.pushes, req)
	err, reply, frozen := c.pushErr, c.pushReply, c.frozen
	if frozen {
		c.pushQueue = append(c.pushQueue, func() { cb(err, reply) })
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	cb(err, reply)
}

func (c *RPCClient) CancelTask(req submitter.CancelTaskRequest, cb func(error, submitter.CancelTaskReply)) {
	c.mu.Lock()
	c.cancellations = append(c.cancellations, req)
	err, reply := c.cancelErr, c.cancelReply
	c.mu.Unlock()
	cb(err, reply)
}

func (c *RPCClient) Addr() identity.Address { return c.addr }

func (c *RPCClient) PushCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pushes)
}

func (c *RPCClient) CancelCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cancellations)
}

// ClientPool is a fake submitter.ClientPool, backed by a map of address to
// RPCClient that creates a client the first time an address is asked for.
type ClientPool struct {
	mu          sync.Mutex
	clients     map[identity.Address]*RPCClient
	connErr     map[identity.Address]error
	disconnects []identity.WorkerID
}

func NewClientPool() *ClientPool {
	return &ClientPool{
		clients: make(map[identity.Address]*RPCClient),
		connErr: make(map[identity.Address]error),
	}
}

func (p *ClientPool) Seed(addr identity.Address, client *RPCClient) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clients[addr] = client
}

func (p *ClientPool) SetConnectError(addr identity.Address, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.connErr[addr] = err
}

func (p *ClientPool) GetOrConnect(addr identity.Address) (submitter.RPCClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err, ok := p.connErr[addr]; ok && err != nil {
		return nil, err
	}
	client, ok := p.clients[addr]
	if !ok {
		client = NewRPCClient(addr)
		p.clients[addr] = client
	}
	return client, nil
}

func (p *ClientPool) Disconnect(worker identity.WorkerID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disconnects = append(p.disconnects, worker)
}

// DisconnectedWorkers returns every WorkerID passed to Disconnect, in call
// order.
func (p *ClientPool) DisconnectedWorkers() []identity.WorkerID {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]identity.WorkerID, len(p.disconnects))
	copy(out, p.disconnects)
	return out
}

// ReferenceCounter is a fake submitter.ReferenceCounter: callbacks fire
// only when Free is called for the same objectID, unless AlreadyOutOfScope
// pre-marks it, matching the real subscribe-or-invoke-inline contract.
type ReferenceCounter struct {
	mu         sync.Mutex
	freed      map[identity.ObjectID]bool
	subscribed map[identity.ObjectID][]func()
}

func NewReferenceCounter() *ReferenceCounter {
	return &ReferenceCounter{
		freed:      make(map[identity.ObjectID]bool),
		subscribed: make(map[identity.ObjectID][]func()),
	}
}

func (r *ReferenceCounter) AlreadyOutOfScope(objectID identity.ObjectID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.freed[objectID] = true
}

func (r *ReferenceCounter) AddObjectOutOfScopeOrFreedCallback(objectID identity.ObjectID, cb func()) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.freed[objectID] {
		return false
	}
	r.subscribed[objectID] = append(r.subscribed[objectID], cb)
	return true
}

// Free triggers every callback subscribed against objectID.
func (r *ReferenceCounter) Free(objectID identity.ObjectID) {
	r.mu.Lock()
	r.freed[objectID] = true
	cbs := r.subscribed[objectID]
	delete(r.subscribed, objectID)
	r.mu.Unlock()
	for _, cb := range cbs {
		cb()
	}
}
