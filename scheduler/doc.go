// Package scheduler implements the request scheduling core of sws: a
// pluggable policy layer deciding the order in which concurrent client
// requests are serviced by a fixed pool of worker goroutines, and under
// what quantum each request progresses.
//
// Three disciplines are provided: SJF (shortest-job-first, a priority
// queue over total response size), RR (round robin, a single FIFO with a
// fixed quantum), and MLQF (multi-level queue with feedback, three FIFOs
// with escalating quanta and strict priority dequeue). All three share a
// uniform Policy contract, driven by a single Scheduler front end that
// coordinates one admitting goroutine with N serving worker goroutines
// via a mutex and condition variable.
package scheduler
