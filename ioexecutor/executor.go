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

// Package ioexecutor provides the submitter's off-lock execution fabric:
// delayed cancellation retries run as jobs posted here rather than inline
// under the registry mutex. Dependency resolution callbacks are invoked by
// the resolver itself, and the grace-period sweep runs on the submitter's
// own ticker goroutine; neither goes through this executor.
package ioexecutor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/reugn/go-quartz/job"
	quartzlogger "github.com/reugn/go-quartz/logger"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/atomic"

	"github.com/tochemey/actorsubmit/errors"
	"github.com/tochemey/actorsubmit/log"
)

// IOExecutor runs callbacks outside of the caller's lock, either as soon as
// possible or after a delay.
type IOExecutor interface {
	// Start brings the executor up. Post and ExecuteAfter fail until this
	// has been called.
	Start(ctx context.Context)
	// Stop drains and releases the executor. Jobs already running are
	// allowed to complete; jobs not yet fired are discarded.
	Stop(ctx context.Context)
	// Post runs fn as soon as possible, off the caller's goroutine.
	Post(fn func()) error
	// ExecuteAfter runs fn once, no sooner than delay from now.
	ExecuteAfter(delay time.Duration, fn func()) error
}

// Executor is the go-quartz-backed IOExecutor used in production.
type Executor struct {
	mu              sync.Mutex
	quartzScheduler quartz.Scheduler
	started         *atomic.Bool
	logger          log.Logger
	stopTimeout     time.Duration
}

var _ IOExecutor = (*Executor)(nil)

// NewExecutor creates an Executor. stopTimeout bounds how long Stop waits
// for in-flight jobs to finish draining.
func NewExecutor(logger log.Logger, stopTimeout time.Duration) *Executor {
	quartzScheduler, _ := quartz.NewStdScheduler(quartz.WithLogger(quartzlogger.NewSimpleLogger(nil, quartzlogger.LevelOff)))
	if logger == nil {
		logger = log.DiscardLogger
	}
	if stopTimeout <= 0 {
		stopTimeout = 5 * time.Second
	}
	return &Executor{
		quartzScheduler: quartzScheduler,
		started:         atomic.NewBool(false),
		logger:          logger,
		stopTimeout:     stopTimeout,
	}
}

// Start implements IOExecutor.
func (x *Executor) Start(ctx context.Context) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.logger.Debug("starting submitter io executor...")
	x.quartzScheduler.Start(ctx)
	x.started.Store(x.quartzScheduler.IsStarted())
}

// Stop implements IOExecutor.
func (x *Executor) Stop(ctx context.Context) {
	if !x.started.Load() {
		return
	}
	x.mu.Lock()
	defer x.mu.Unlock()

	_ = x.quartzScheduler.Clear()
	x.quartzScheduler.Stop()
	x.started.Store(x.quartzScheduler.IsStarted())

	ctx, cancel := context.WithTimeout(ctx, x.stopTimeout)
	defer cancel()
	x.quartzScheduler.Wait(ctx)
	x.logger.Debug("submitter io executor stopped")
}

// Post implements IOExecutor by scheduling fn on a near-immediate
// RunOnceTrigger.
func (x *Executor) Post(fn func()) error {
	return x.ExecuteAfter(0, fn)
}

// ExecuteAfter implements IOExecutor.
func (x *Executor) ExecuteAfter(delay time.Duration, fn func()) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.started.Load() {
		return errors.ErrSchedulerNotStarted
	}

	runnable := job.NewFunctionJob(func(context.Context) (bool, error) {
		fn()
		return true, nil
	})

	detail := quartz.NewJobDetail(runnable, quartz.NewJobKey(fmt.Sprintf("io-%p-%d", fn, time.Now().UnixNano())))
	return x.quartzScheduler.ScheduleJob(detail, quartz.NewRunOnceTrigger(delay))
}
