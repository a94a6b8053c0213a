package scheduler

// Worker runs a single worker's service loop: pop the next request, serve
// one slice, honour the policy's completion-or-requeue decision, forever
// (spec.md §4.6). The worker owns the RCB for the duration of the slice
// and never holds the scheduler mutex across ServeSlice.
//
// There is no cancellation mechanism (spec.md §5, non-goals): Worker only
// returns if s.Next or s.ServeSlice panics, which is not expected in
// normal operation.
func Worker(s *Scheduler) {
	for {
		rcb := s.Next()
		s.ServeSlice(rcb)
	}
}
