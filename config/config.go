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

// Package config holds the tunables of the task submitter: how long a
// disconnected actor's tasks are parked waiting for death information, how
// aggressively the dispatcher warns about unbounded queueing, and how often
// a cancellation is retried while the target actor is unreachable.
package config

import (
	"fmt"
	"time"

	"github.com/tochemey/actorsubmit/errors"
	"github.com/tochemey/actorsubmit/identity"
	"github.com/tochemey/actorsubmit/internal/errorschain"
	"github.com/tochemey/actorsubmit/log"
)

// OnExcessQueueingFunc is invoked when an actor's inflight call count reaches
// InitialWarnThreshold, and again every time it doubles past that point.
type OnExcessQueueingFunc func(actor identity.ActorID, queueLength int)

// Config gathers the knobs the submitter needs at construction time.
type Config struct {
	// GracePeriod is how long a task whose actor has disconnected is kept
	// parked, waiting for authoritative death information, before it is
	// failed outright. Zero disables parking: disconnected tasks fail
	// immediately.
	GracePeriod time.Duration

	// InitialWarnThreshold is the inflight call count at which the dispatcher
	// starts invoking OnExcessQueueing for an actor.
	InitialWarnThreshold int

	// CancelRetryWhenUnconnected is how long to wait before retrying a
	// cancellation request against an actor with no known worker address.
	CancelRetryWhenUnconnected time.Duration

	// CancelRetryWhenFailed is how long to wait before retrying a
	// cancellation request after a transport failure or a reply reporting
	// that the cancel attempt did not succeed.
	CancelRetryWhenFailed time.Duration

	// Logger receives structured log output from the submitter. Defaults to
	// the discard logger.
	Logger log.Logger

	// OnExcessQueueing is invoked when a queue crosses InitialWarnThreshold.
	// Defaults to a log line at Warn level.
	OnExcessQueueing OnExcessQueueingFunc
}

// Option configures a Config at construction time.
type Option func(*Config)

// WithGracePeriod sets how long disconnected tasks are parked awaiting
// death information before being failed.
func WithGracePeriod(d time.Duration) Option {
	return func(c *Config) { c.GracePeriod = d }
}

// WithInitialWarnThreshold sets the inflight call count at which excess
// queueing is first reported for an actor.
func WithInitialWarnThreshold(n int) Option {
	return func(c *Config) { c.InitialWarnThreshold = n }
}

// WithCancelRetryWhenUnconnected sets the retry interval used while the
// actor to cancel against has no known worker address.
func WithCancelRetryWhenUnconnected(d time.Duration) Option {
	return func(c *Config) { c.CancelRetryWhenUnconnected = d }
}

// WithCancelRetryWhenFailed sets the retry interval used after a transport
// failure, or an unsuccessful cancel reply, while delivering a cancellation.
func WithCancelRetryWhenFailed(d time.Duration) Option {
	return func(c *Config) { c.CancelRetryWhenFailed = d }
}

// WithLogger overrides the submitter's logger.
func WithLogger(logger log.Logger) Option {
	return func(c *Config) { c.Logger = logger }
}

// WithOnExcessQueueing overrides the excess-queueing callback.
func WithOnExcessQueueing(fn OnExcessQueueingFunc) Option {
	return func(c *Config) { c.OnExcessQueueing = fn }
}

func defaultConfig() *Config {
	return &Config{
		GracePeriod:                30 * time.Second,
		InitialWarnThreshold:       1000,
		CancelRetryWhenUnconnected: time.Second,
		CancelRetryWhenFailed:      2 * time.Second,
		Logger:                     log.DiscardLogger,
	}
}

// New builds a Config from the given options, applying defaults for
// anything left unset, and validates the result.
func New(opts ...Option) (*Config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = log.DiscardLogger
	}
	if cfg.OnExcessQueueing == nil {
		logger := cfg.Logger
		cfg.OnExcessQueueing = func(actor identity.ActorID, queueLength int) {
			logger.Warnf("actor %s has %d pending tasks queued", actor, queueLength)
		}
	}

	chain := errorschain.New(errorschain.ReturnAll())
	chain.AddError(validateNonNegative("GracePeriod", cfg.GracePeriod))
	chain.AddError(validatePositive("InitialWarnThreshold", cfg.InitialWarnThreshold))
	chain.AddError(validatePositiveDuration("CancelRetryWhenUnconnected", cfg.CancelRetryWhenUnconnected))
	chain.AddError(validatePositiveDuration("CancelRetryWhenFailed", cfg.CancelRetryWhenFailed))
	if err := chain.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err)
	}

	return cfg, nil
}

func validateNonNegative(field string, d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("%s must not be negative, got %v", field, d)
	}
	return nil
}

func validatePositiveDuration(field string, d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%s must be positive, got %v", field, d)
	}
	return nil
}

func validatePositive(field string, n int) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", field, n)
	}
	return nil
}
