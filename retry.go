// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package avio

import (
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
)

// retryState implements the shared retry policy of spec.md §4.2.4: a small
// state object (per the Design Notes) rather than nested callbacks, so the
// fast-retry budget, deadline and interrupt polling stay auditable across
// the iterations of run.
//
// One retryState is scoped to a single Read/Write/ReadFull call; it is not
// reused across calls the way a URLContext is.
type retryState struct {
	nonBlock     bool
	rwTimeout    time.Duration
	interrupt    *InterruptCallback
	clock        clockwork.Clock
	fastRetries  int
	deadline     time.Time
	haveDeadline bool
}

func newRetryState(cfg *Config, nonBlock bool, rwTimeout time.Duration, interrupt *InterruptCallback, clock clockwork.Clock) *retryState {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	budget := DefaultConfig.FastRetryBudget
	if cfg != nil {
		budget = cfg.FastRetryBudget
	}
	return &retryState{
		nonBlock:    nonBlock,
		rwTimeout:   rwTimeout,
		interrupt:   interrupt,
		clock:       clock,
		fastRetries: budget,
	}
}

// run drives transfer until min bytes have been delivered into buf, or a
// terminal condition is reached. transfer is called with the remaining
// unfilled suffix of buf each time.
func (rs *retryState) run(buf []byte, min int, transfer func([]byte) (int, error)) (int, error) {
	delivered := 0
	for delivered < min {
		n, err := transfer(buf[delivered:min])

		if errors.Is(err, ErrInterrupted) {
			continue
		}

		if rs.nonBlock {
			return delivered + n, err
		}

		if errors.Is(err, ErrWouldBlock) {
			if rs.fastRetries > 0 {
				rs.fastRetries--
			} else {
				if rs.rwTimeout > 0 {
					now := rs.clock.Now()
					if !rs.haveDeadline {
						rs.deadline = now.Add(rs.rwTimeout)
						rs.haveDeadline = true
					} else if now.After(rs.deadline) {
						return delivered, ErrIO
					}
				}
				rs.clock.Sleep(time.Millisecond)
			}
			n = 0
		} else if n < 1 {
			if err != nil {
				return delivered, err
			}
			return delivered, nil
		}

		if n > 0 {
			if rs.fastRetries < 2 {
				rs.fastRetries = 2
			}
			delivered += n
		}

		if delivered < min && rs.interrupt.triggered() {
			return delivered, ErrExit
		}
	}
	return delivered, nil
}
