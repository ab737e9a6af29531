package wfstlog_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wfstgo/wfst/wfstlog"
)

func TestReporter_FirstCallAlwaysFires(t *testing.T) {
	var calls []float64
	r := wfstlog.NewReporter(wfstlog.Nop(), func(frac float64, _ string) bool {
		calls = append(calls, frac)
		return true
	})

	assert.True(t, r.Report(0.1, "start"))
	assert.Equal(t, []float64{0.1}, calls)
}

func TestReporter_ThrottlesThenReopensPastInterval(t *testing.T) {
	var calls int
	clock := time.Unix(0, 0)
	r := wfstlog.NewReporterWithClock(wfstlog.Nop(), func(float64, string) bool {
		calls++
		return true
	}, func() time.Time { return clock })

	r.Report(0, "a")
	clock = clock.Add(time.Second) // within the 2s interval
	r.Report(0.1, "b")
	assert.Equal(t, 1, calls)

	clock = clock.Add(3 * time.Second) // past the 2s interval
	r.Report(0.2, "c")
	assert.Equal(t, 2, calls)
}

func TestReporter_NilDownstreamStillLogs(t *testing.T) {
	r := wfstlog.NewReporter(wfstlog.Nop(), nil)
	assert.True(t, r.Report(1, "done"))
}

func TestReporter_IntervalDoublesThenCapsAtTenSeconds(t *testing.T) {
	var calls int
	clock := time.Unix(0, 0)
	r := wfstlog.NewReporterWithClock(wfstlog.Nop(), func(float64, string) bool {
		calls++
		return true
	}, func() time.Time { return clock })

	r.Report(0, "a") // interval -> 4s
	for i := 0; i < 5; i++ {
		clock = clock.Add(10 * time.Second)
		r.Report(float64(i), "tick")
	}
	// after enough fires the interval is capped at 10s; one more report
	// after exactly 10s must still fire.
	clock = clock.Add(10 * time.Second)
	assert.True(t, r.Report(1, "done"))
	assert.Equal(t, 7, calls)
}
