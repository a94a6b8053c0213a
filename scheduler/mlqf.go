package scheduler

import (
	"container/list"
	"fmt"
)

// mlqfSlices maps each tier to the number of bufSize read-write
// iterations it is allotted per serveSlice call: Q0 gets one (8192 B),
// Q1 gets eight (~64 KiB), Q2 gets eight and never grows further
// (spec.md §4.4).
var mlqfSlices = [3]int{
	T0: 1,
	T1: 8,
	T2: 8,
}

// mlqfPolicy implements the three-level multi-level-queue-with-feedback
// discipline: three FIFOs indexed by tier, strict priority dequeue (Q0
// before Q1 before Q2), and promotion on quantum exhaustion. Starvation
// of Q2 is accepted by design (spec.md §4.4).
type mlqfPolicy struct {
	q [3]*list.List
}

func newMLQFPolicy() *mlqfPolicy {
	return &mlqfPolicy{q: [3]*list.List{list.New(), list.New(), list.New()}}
}

func (p *mlqfPolicy) count() int {
	return p.q[T0].Len() + p.q[T1].Len() + p.q[T2].Len()
}

func (p *mlqfPolicy) insert(_ *Scheduler, rcb *RCB) {
	p.q[rcb.Tier].PushBack(rcb)
}

func (p *mlqfPolicy) pickNext() (*RCB, bool) {
	for _, tier := range [3]Tier{T0, T1, T2} {
		if front := p.q[tier].Front(); front != nil {
			p.q[tier].Remove(front)
			return front.Value.(*RCB), true
		}
	}
	return nil, false
}

// serveSlice runs the tier's slice budget of read-and-write iterations.
// On completion within the budget it destroys the RCB. Otherwise, a T0
// or T1 request is promoted (T0 -> T1, T1 -> T2) and re-inserted at the
// tail of the new tier's queue; a T2 request remains at T2 and is
// re-inserted at the tail of Q2 (spec.md §4.4).
func (p *mlqfPolicy) serveSlice(s *Scheduler, rcb *RCB) {
	buf := make([]byte, bufSize)

	for i := 0; i < mlqfSlices[rcb.Tier] && !rcb.Done(); i++ {
		n, err := rcb.Source.Read(buf)
		if n > 0 {
			if _, werr := rcb.ClientSink.Write(buf[:n]); werr != nil {
				s.logIOError(rcb, fmt.Errorf("mlqf: write: %w", werr))
				s.complete(rcb)
				return
			}
			rcb.Sent += int64(n)
		}
		if err != nil {
			if rcb.Done() {
				break
			}
			s.logIOError(rcb, fmt.Errorf("mlqf: read: %w", err))
			s.complete(rcb)
			return
		}
	}

	if rcb.Done() {
		s.complete(rcb)
		return
	}

	if rcb.Tier < T2 {
		rcb.Tier++
	}
	s.reinsert(rcb)
}
