package scheduler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRRPolicy_FIFOOrder(t *testing.T) {
	p := newRRPolicy()

	a := &RCB{SeqNum: 1}
	b := &RCB{SeqNum: 2}
	c := &RCB{SeqNum: 3}

	p.insert(nil, a)
	p.insert(nil, b)
	p.insert(nil, c)

	for _, want := range []int64{1, 2, 3} {
		got, ok := p.pickNext()
		require.True(t, ok)
		require.Equal(t, want, got.SeqNum)
	}
	_, ok := p.pickNext()
	require.False(t, ok)
}

func TestRRPolicy_ServeSliceQuantumAndReinsert(t *testing.T) {
	s := newTestScheduler(t, RR)

	payload := make([]byte, bufSize*2)
	for i := range payload {
		payload[i] = byte(i)
	}

	conn := newFakeConn()
	rcb := &RCB{SeqNum: 1, Total: int64(len(payload)), Source: newMemFile(payload), ClientSink: conn}

	// first slice: exactly one quantum, request not yet done, so the
	// policy must re-insert it under the lock rather than destroy it.
	s.ServeSlice(rcb)
	require.Equal(t, int64(bufSize), rcb.Sent)
	require.False(t, rcb.Done())
	require.Equal(t, 1, s.policy.count(), "unfinished RR request must be re-queued")

	next, ok := s.policy.pickNext()
	require.True(t, ok)
	require.Same(t, rcb, next)

	// second slice completes the transfer.
	s.ServeSlice(rcb)
	require.True(t, rcb.Done())
	require.Equal(t, 0, s.policy.count())
	require.Equal(t, payload, conn.written)
}

func TestRRPolicy_ShortWriteStillAdvancesSentByBytesRead(t *testing.T) {
	// spec.md §4.3/§9: sent advances by bytes READ, even if the write is
	// short. This is preserved verbatim, not "fixed".
	s := newTestScheduler(t, RR)

	data := make([]byte, bufSize)
	reader := newMemFile(data)
	conn := &shortWriteConn{limit: 10}
	rcb := &RCB{SeqNum: 1, Total: int64(len(data)), Source: reader, ClientSink: conn}

	s.ServeSlice(rcb)

	require.Equal(t, int64(bufSize), rcb.Sent, "sent must advance by bytes read, not bytes written")
	require.Equal(t, 10, len(conn.written))
}

// shortWriteConn accepts at most limit bytes per Write call: it stores
// only those bytes and reports that (possibly short) count, but never
// returns an error.
type shortWriteConn struct {
	limit   int
	written []byte
}

func (c *shortWriteConn) Read([]byte) (int, error) { return 0, nil }
func (c *shortWriteConn) Write(p []byte) (int, error) {
	n := len(p)
	if n > c.limit {
		n = c.limit
	}
	c.written = append(c.written, p[:n]...)
	return n, nil
}
func (c *shortWriteConn) Close() error { return nil }
