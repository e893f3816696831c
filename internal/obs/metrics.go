package obs

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"conveyor/internal/model/enum"
)

const maxMessageKind = int(enum.MessageDisposalClaim)

// Metrics collects lightweight dispatcher counters and latency stats.
type Metrics struct {
	received [maxMessageKind + 1]uint64
	handled  [maxMessageKind + 1]uint64
	ignored  uint64
	skipped  uint64
	failures uint64

	dispatchLatency LatencyStats
}

// LatencyStats aggregates duration samples in nanoseconds.
type LatencyStats struct {
	count uint64
	sum   uint64
	min   uint64
	max   uint64
}

// LatencySnapshot is a point-in-time view of latency stats.
type LatencySnapshot struct {
	Count uint64
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
}

// Snapshot captures the current metrics values.
type Snapshot struct {
	Received        map[enum.MessageKind]uint64
	Handled         map[enum.MessageKind]uint64
	Ignored         uint64
	BelowThreshold  uint64
	Failures        uint64
	DispatchLatency LatencySnapshot
}

// NewMetrics allocates a metrics container.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// ObserveReceived counts a message taken off the queue.
func (m *Metrics) ObserveReceived(kind enum.MessageKind) {
	if m == nil || !kind.IsAvailable() {
		return
	}
	atomic.AddUint64(&m.received[kind], 1)
}

// ObserveHandled counts a message whose sequence completed and records how
// long it took.
func (m *Metrics) ObserveHandled(kind enum.MessageKind, d time.Duration) {
	if m == nil {
		return
	}
	if kind.IsAvailable() {
		atomic.AddUint64(&m.handled[kind], 1)
	}
	m.dispatchLatency.Observe(d)
}

// IncIgnored records a message addressed to another index or vendor.
func (m *Metrics) IncIgnored() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.ignored, 1)
}

// IncBelowThreshold records a claim whose remainder did not trigger a
// settlement cycle.
func (m *Metrics) IncBelowThreshold() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.skipped, 1)
}

// IncFailure records a message whose sequence failed.
func (m *Metrics) IncFailure() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.failures, 1)
}

// Snapshot returns a copy of the current metrics values.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	received := make(map[enum.MessageKind]uint64)
	handled := make(map[enum.MessageKind]uint64)
	for _, k := range enum.MessageKinds() {
		if v := atomic.LoadUint64(&m.received[k]); v > 0 {
			received[k] = v
		}
		if v := atomic.LoadUint64(&m.handled[k]); v > 0 {
			handled[k] = v
		}
	}
	return Snapshot{
		Received:        received,
		Handled:         handled,
		Ignored:         atomic.LoadUint64(&m.ignored),
		BelowThreshold:  atomic.LoadUint64(&m.skipped),
		Failures:        atomic.LoadUint64(&m.failures),
		DispatchLatency: m.dispatchLatency.Snapshot(),
	}
}

func (s Snapshot) String() string {
	var sb strings.Builder
	sb.WriteString("received:")
	for _, k := range enum.MessageKinds() {
		if v := s.Received[k]; v > 0 {
			fmt.Fprintf(&sb, " %s=%d", k, v)
		}
	}
	fmt.Fprintf(&sb, ", ignored: %d, below threshold: %d, failures: %d", s.Ignored, s.BelowThreshold, s.Failures)
	fmt.Fprintf(&sb, ", dispatch latency: count=%d min=%s max=%s avg=%s",
		s.DispatchLatency.Count, s.DispatchLatency.Min, s.DispatchLatency.Max, s.DispatchLatency.Avg)
	return sb.String()
}

// Observe records a duration sample.
func (l *LatencyStats) Observe(d time.Duration) {
	if d < 0 {
		return
	}
	nanos := uint64(d)
	atomic.AddUint64(&l.count, 1)
	atomic.AddUint64(&l.sum, nanos)

	for {
		low := atomic.LoadUint64(&l.min)
		if low != 0 && nanos >= low {
			break
		}
		if atomic.CompareAndSwapUint64(&l.min, low, nanos) {
			break
		}
	}

	for {
		high := atomic.LoadUint64(&l.max)
		if nanos <= high {
			break
		}
		if atomic.CompareAndSwapUint64(&l.max, high, nanos) {
			break
		}
	}
}

// Snapshot returns the aggregated latency stats.
func (l *LatencyStats) Snapshot() LatencySnapshot {
	count := atomic.LoadUint64(&l.count)
	if count == 0 {
		return LatencySnapshot{}
	}
	sum := atomic.LoadUint64(&l.sum)
	return LatencySnapshot{
		Count: count,
		Min:   time.Duration(atomic.LoadUint64(&l.min)),
		Max:   time.Duration(atomic.LoadUint64(&l.max)),
		Avg:   time.Duration(sum / count),
	}
}
