package wfstlog

import (
	"time"

	"go.uber.org/zap"
)

const (
	minInterval = 2 * time.Second
	maxInterval = 10 * time.Second
)

// Func is a progress callback: frac is in [0,1], msg is a short
// human-readable status. Callers may return false to request cancellation
//.
type Func func(frac float64, msg string) (cont bool)

// Reporter rate-limits calls into a downstream Func, logging every call it
// actually forwards. The first Report always fires; subsequent ones are
// throttled starting at a 2s interval, doubling after every forwarded call
// up to a 10s ceiling.
type Reporter struct {
	log        *zap.Logger
	downstream Func
	interval   time.Duration
	nextAt     time.Time
	now        func() time.Time
}

// NewReporter returns a Reporter logging through log and, if downstream is
// non-nil, also forwarding rate-limited calls to it.
func NewReporter(log *zap.Logger, downstream Func) *Reporter {
	return NewReporterWithClock(log, downstream, time.Now)
}

// NewReporterWithClock is NewReporter with an injectable clock, for tests
// that need to control the rate limiter's notion of elapsed time.
func NewReporterWithClock(log *zap.Logger, downstream Func, now func() time.Time) *Reporter {
	if log == nil {
		log = Nop()
	}

	return &Reporter{log: log, downstream: downstream, interval: minInterval, now: now}
}

// Report delivers one progress update if the rate limiter allows it.
// Returns false only when downstream explicitly requests cancellation.
func (r *Reporter) Report(frac float64, msg string) bool {
	now := r.now()
	if now.Before(r.nextAt) {
		return true
	}

	r.log.Info(msg, zap.Float64("progress", frac))
	cont := true
	if r.downstream != nil {
		cont = r.downstream(frac, msg)
	}

	r.nextAt = now.Add(r.interval)
	r.interval *= 2
	if r.interval > maxInterval {
		r.interval = maxInterval
	}

	return cont
}
