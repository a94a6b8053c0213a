package scheduler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSJFPolicy_OrdersBySize(t *testing.T) {
	p := newSJFPolicy()

	a := &RCB{SeqNum: 1, Total: 100}
	b := &RCB{SeqNum: 2, Total: 50}
	c := &RCB{SeqNum: 3, Total: 10}

	p.insert(nil, a)
	p.insert(nil, b)
	p.insert(nil, c)

	require.Equal(t, 3, p.count())

	first, ok := p.pickNext()
	require.True(t, ok)
	require.Equal(t, int64(3), first.SeqNum, "smallest total must be served first")

	second, ok := p.pickNext()
	require.True(t, ok)
	require.Equal(t, int64(2), second.SeqNum)

	third, ok := p.pickNext()
	require.True(t, ok)
	require.Equal(t, int64(1), third.SeqNum)

	_, ok = p.pickNext()
	require.False(t, ok)
}

func TestSJFPolicy_MinHeapInvariantUnderRandomOrder(t *testing.T) {
	p := newSJFPolicy()

	sizes := []int64{55, 3, 900, 1, 42, 0, 17, 1000, 2, 8}
	for i, size := range sizes {
		p.insert(nil, &RCB{SeqNum: int64(i), Total: size})
	}

	var last int64 = -1
	for p.count() > 0 {
		next, ok := p.pickNext()
		require.True(t, ok)
		require.GreaterOrEqual(t, next.Total, last, "pickNext must never return a value smaller than one already returned")
		last = next.Total
	}
}

func TestSJFPolicy_GrowsBeyondInitialCapacity(t *testing.T) {
	p := newSJFPolicy()
	require.Equal(t, sjfInitialCapacity, cap(p.rcbs))

	n := sjfInitialCapacity*2 + 7
	for i := 0; i < n; i++ {
		p.insert(nil, &RCB{SeqNum: int64(i), Total: int64(n - i)})
	}
	require.Equal(t, n, p.count())

	var last int64 = -1
	count := 0
	for p.count() > 0 {
		next, ok := p.pickNext()
		require.True(t, ok)
		require.GreaterOrEqual(t, next.Total, last)
		last = next.Total
		count++
	}
	require.Equal(t, n, count)
}

// recordingLogger captures ErrorLogger.Error calls for assertion.
type recordingLogger struct {
	errors []error
}

func (l *recordingLogger) Error(_ *RCB, _ string, err error) {
	l.errors = append(l.errors, err)
}

func (l *recordingLogger) Fatal(string, error) {}

func TestSJFPolicy_InsertDestroysAndLogsOnGrowFailure(t *testing.T) {
	// spec.md §7: memory exhaustion growing the queue must log to stderr
	// and drop the RCB without insertion, not leak its open file handle
	// and client socket.
	origMake := sjfMakeRCBSlice
	t.Cleanup(func() { sjfMakeRCBSlice = origMake })
	sjfMakeRCBSlice = func(int, int) []*RCB { panic("simulated allocation failure") }

	p := &sjfPolicy{rcbs: make([]*RCB, sjfInitialCapacity, sjfInitialCapacity)}
	logger := &recordingLogger{}
	s, err := New(SJF, WithErrorLogger(logger))
	require.NoError(t, err)

	src := &countingCloser{}
	sink := &countingCloser{}
	rcb := &RCB{SeqNum: 1, Total: 10, Source: src, ClientSink: sink}

	p.insert(s, rcb)

	require.Equal(t, sjfInitialCapacity, p.count(), "rcb must not be inserted")
	require.Len(t, logger.errors, 1)
	require.ErrorContains(t, logger.errors[0], "simulated allocation failure")
	require.Equal(t, 1, src.closed, "source must be closed when the rcb is dropped")
	require.Equal(t, 1, sink.closed, "client sink must be closed when the rcb is dropped")
}

func TestSJFPolicy_ServeSliceCompletesNonPreemptively(t *testing.T) {
	s := newTestScheduler(t, SJF)
	conn := newFakeConn()
	rcb := &RCB{SeqNum: 1, Total: int64(len(loremPayload)), Source: newMemFile(loremPayload), ClientSink: conn}

	s.ServeSlice(rcb)

	require.True(t, rcb.Done())
	require.Equal(t, loremPayload, conn.written)
}
