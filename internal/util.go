package internal

import "time"

// minDur returns the smaller of two durations.
func minDur(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}

// spinBudget bounds the "busy-spin on EAGAIN/WantPollIn/WantPollOut" retry
// loop used for all-or-nothing socket/TLS reads and writes. The original C
// client (original_source/src/dws.c) spins unconditionally; here that's
// replaced with a timeout-bounded budget so a wedged transport can't
// freeze the game loop forever.
type spinBudget struct {
	remaining time.Duration
	step      time.Duration
}

func newSpinBudget(total time.Duration) *spinBudget {
	step := total / 100
	if step <= 0 {
		step = time.Millisecond
	}
	return &spinBudget{remaining: total, step: step}
}

// tick consumes one retry slot, sleeping briefly, and reports whether the
// budget is exhausted.
func (b *spinBudget) tick() (exhausted bool) {
	if b.remaining <= 0 {
		return true
	}
	time.Sleep(b.step)
	b.remaining -= b.step
	return false
}
