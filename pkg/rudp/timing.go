package rudp

import "time"

// RetryWindow tracks a single absolute deadline across repeated blocking
// reads, so that discarding non-matching PDUs (§4.3) doesn't reset the
// per-attempt retry budget.
type RetryWindow struct {
	deadline time.Time
}

func newRetryWindow(d time.Duration) RetryWindow {
	return RetryWindow{deadline: time.Now().Add(d)}
}

func (w RetryWindow) remaining() time.Duration {
	d := time.Until(w.deadline)
	if d < 0 {
		return 0
	}
	return d
}

func (w RetryWindow) expired() bool {
	return !time.Now().Before(w.deadline)
}
