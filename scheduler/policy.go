package scheduler

// policy is the contract every scheduling discipline implements. insert
// and pickNext are always called with the Scheduler's mutex held;
// serveSlice is always called without it, and must go through the
// Scheduler's reinsert/complete helpers (which themselves take the lock)
// for any re-queuing or destruction decision.
type policy interface {
	// insert places rcb into the policy's queues according to policy
	// rules. Called with the scheduler mutex held. s is passed through so
	// that a failure to admit rcb into the queue (e.g. memory exhaustion
	// growing a backing array) can be logged via s's ErrorLogger and the
	// RCB destroyed rather than silently leaked (spec.md §7).
	insert(s *Scheduler, rcb *RCB)

	// pickNext removes and returns the highest-priority ready RCB, or
	// reports false if all queues are empty. Called with the scheduler
	// mutex held.
	pickNext() (*RCB, bool)

	// serveSlice performs one scheduling slice of I/O on behalf of rcb,
	// then either re-inserts it (via s.reinsert) or destroys it (via
	// s.complete). Called without the scheduler mutex held.
	serveSlice(s *Scheduler, rcb *RCB)

	// count returns the number of RCBs currently resident in this
	// policy's queues. Called with the scheduler mutex held.
	count() int
}

// Name identifies a supported scheduling discipline, as accepted by New.
type Name string

const (
	SJF  Name = "SJF"
	RR   Name = "RR"
	MLQF Name = "MLQF"
)

// newPolicy constructs the queue state for the named discipline. ok is
// false for any unrecognized name; the caller treats that as a fatal
// configuration error (spec.md §7).
func newPolicy(name Name) (policy, bool) {
	switch name {
	case SJF:
		return newSJFPolicy(), true
	case RR:
		return newRRPolicy(), true
	case MLQF:
		return newMLQFPolicy(), true
	default:
		return nil, false
	}
}
