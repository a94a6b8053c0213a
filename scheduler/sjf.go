package scheduler

import (
	"fmt"
	"golang.org/x/exp/constraints"
)

// sjfInitialCapacity mirrors the original source's NUM_RCBS constant: the
// heap's backing array starts at this capacity and doubles on overflow.
const sjfInitialCapacity = 100

// sjfPolicy is a binary min-heap of *RCB, ordered by RCB.Total ascending.
// Ties are broken arbitrarily (FIFO tie-break is not required, spec.md
// §4.2). The heap is backed by a dynamic array with geometric doubling,
// matching the original C realloc-based implementation.
type sjfPolicy struct {
	rcbs []*RCB
}

func newSJFPolicy() *sjfPolicy {
	return &sjfPolicy{rcbs: make([]*RCB, 0, sjfInitialCapacity)}
}

func (p *sjfPolicy) count() int { return len(p.rcbs) }

// less reports whether a has strictly smaller priority (total bytes) than
// b, using constraints.Ordered the same way catrate's ring buffer keys
// its search/insert comparisons.
func less[T constraints.Ordered](a, b T) bool { return a < b }

// sjfMakeRCBSlice is overridden in tests to simulate allocation failure,
// mirroring the statFunc/openFunc override-for-testability pattern used
// in scheduler.go.
var sjfMakeRCBSlice = func(n, c int) []*RCB { return make([]*RCB, n, c) }

func (p *sjfPolicy) grow() (err error) {
	defer func() {
		if r := recover(); r != nil {
			// best-effort: matches the original source's "cannot process
			// request" path on realloc failure (spec.md §7).
			err = fmt.Errorf("sjf: grow: %v", r)
		}
	}()
	next := sjfMakeRCBSlice(len(p.rcbs), cap(p.rcbs)*2)
	copy(next, p.rcbs)
	p.rcbs = next
	return nil
}

// insert performs sift-up with strict "<" comparison on the way up: the
// climb stops as soon as a strictly smaller parent is found; a parent
// equal to (or greater than) the new value is displaced downward and the
// climb continues. This preserves a valid min-heap while matching the
// observed source (spec.md §4.2).
//
// On memory exhaustion growing the backing array, rcb is logged via s's
// ErrorLogger and destroyed rather than inserted, per spec.md §7 ("log to
// stderr; drop the RCB without insertion"): by this point rcb already
// owns an open file handle and a client socket that has received its 200
// OK, so dropping it silently would leak both.
func (p *sjfPolicy) insert(s *Scheduler, rcb *RCB) {
	if len(p.rcbs) == cap(p.rcbs) {
		if err := p.grow(); err != nil {
			s.logger.Error(rcb, "insert", fmt.Errorf("sjf: %w", err))
			rcb.Destroy()
			return
		}
	}

	p.rcbs = append(p.rcbs, nil)
	index := len(p.rcbs) - 1

	for index > 0 {
		parent := (index - 1) >> 1
		if less(p.rcbs[parent].Total, rcb.Total) {
			break
		}
		p.rcbs[index] = p.rcbs[parent]
		index = parent
	}
	p.rcbs[index] = rcb
}

// pickNext pops the root, moves the last element to the root, and sifts
// down, choosing the child with the smaller key; on equality it prefers
// the left child (spec.md §4.2).
func (p *sjfPolicy) pickNext() (*RCB, bool) {
	if len(p.rcbs) == 0 {
		return nil, false
	}

	value := p.rcbs[0]
	last := len(p.rcbs) - 1
	newTop := p.rcbs[last]
	p.rcbs[last] = nil
	p.rcbs = p.rcbs[:last]

	index := 0
	for {
		lchild := index<<1 + 1
		rchild := index<<1 + 2
		next := -1

		if lchild < len(p.rcbs) && less(p.rcbs[lchild].Total, newTop.Total) {
			if rchild < len(p.rcbs) && less(p.rcbs[rchild].Total, p.rcbs[lchild].Total) {
				next = rchild
			} else {
				next = lchild
			}
		} else if rchild < len(p.rcbs) && less(p.rcbs[rchild].Total, newTop.Total) {
			next = rchild
		}

		if next < 0 {
			break
		}
		p.rcbs[index] = p.rcbs[next]
		index = next
	}
	if len(p.rcbs) > 0 {
		p.rcbs[index] = newTop
	}

	return value, true
}

// serveSlice drives the request to completion in a single, non-preemptive
// slice: it loops reading up to bufSize bytes and writing them to the
// client, until the RCB is done or an I/O error occurs. Because service
// runs without the scheduler mutex, other admissions may proceed
// concurrently (spec.md §4.2).
func (p *sjfPolicy) serveSlice(s *Scheduler, rcb *RCB) {
	buf := make([]byte, bufSize)
	for !rcb.Done() {
		n, err := rcb.Source.Read(buf)
		if n > 0 {
			if _, werr := rcb.ClientSink.Write(buf[:n]); werr != nil {
				s.logIOError(rcb, fmt.Errorf("sjf: write: %w", werr))
				s.complete(rcb)
				return
			}
			rcb.Sent += int64(n)
		}
		if err != nil {
			if rcb.Done() {
				break
			}
			s.logIOError(rcb, fmt.Errorf("sjf: read: %w", err))
			s.complete(rcb)
			return
		}
	}
	s.complete(rcb)
}
