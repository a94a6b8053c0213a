package scheduler

import (
	"container/list"
	"fmt"
)

// rrPolicy is a single FIFO queue, served at a fixed quantum of bufSize
// bytes per slice (spec.md §4.3). The queue is a separate container
// holding RCB handles (spec.md §9: "intrusive linked list vs. owned
// queue" — a mechanical substitution that preserves all observable
// behavior), rather than an intrusive link field on RCB.
type rrPolicy struct {
	q *list.List
}

func newRRPolicy() *rrPolicy {
	return &rrPolicy{q: list.New()}
}

func (p *rrPolicy) count() int { return p.q.Len() }

func (p *rrPolicy) insert(_ *Scheduler, rcb *RCB) {
	p.q.PushBack(rcb)
}

func (p *rrPolicy) pickNext() (*RCB, bool) {
	front := p.q.Front()
	if front == nil {
		return nil, false
	}
	p.q.Remove(front)
	return front.Value.(*RCB), true
}

// serveSlice reads up to one quantum and writes it. A short write is
// tolerated by advancing Sent by the amount read, not the amount written
// — this matches the source behavior verbatim (spec.md §4.3, §9) and is
// not a bug to be fixed here. If the RCB is not yet done, it is
// re-inserted at the tail under the scheduler lock; otherwise it is
// destroyed.
func (p *rrPolicy) serveSlice(s *Scheduler, rcb *RCB) {
	buf := make([]byte, bufSize)
	n, err := rcb.Source.Read(buf)
	if n > 0 {
		if _, werr := rcb.ClientSink.Write(buf[:n]); werr != nil {
			s.logIOError(rcb, fmt.Errorf("rr: write: %w", werr))
			s.complete(rcb)
			return
		}
		rcb.Sent += int64(n)
	}
	if err != nil && !rcb.Done() {
		s.logIOError(rcb, fmt.Errorf("rr: read: %w", err))
		s.complete(rcb)
		return
	}

	if rcb.Done() {
		s.complete(rcb)
		return
	}
	s.reinsert(rcb)
}
