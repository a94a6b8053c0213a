package scheduler

import (
	"io"
	"sync"
)

// Tier identifies the MLQF priority class of a queued RCB. It is ignored
// by the SJF and RR policies.
type Tier int

const (
	// T0 is the initial tier: small/new requests, 8K quantum budget.
	T0 Tier = iota
	// T1 is the first promotion: 64K quantum budget.
	T1
	// T2 is the terminal tier: round-robin tail, requests remain here
	// once promoted; starvation of this tier by T0/T1 work is accepted by
	// design.
	T2
)

// bufSize is the fixed scratch buffer / quantum unit: one read-and-write
// iteration moves at most this many bytes.
const bufSize = 8192

// RCB is a Request Control Block: the per-request state carrying
// identity, I/O handles, progress, and (for MLQF) queue tier.
//
// An RCB is resident in at most one policy queue at any time, or held
// exclusively by one worker goroutine, never both, never neither, between
// admission and destruction. It is destroyed exactly once.
type RCB struct {
	// SeqNum is assigned at admission, monotonically increasing, unique
	// within the process lifetime, starting at 1.
	SeqNum int64

	// ClientSink is the client connection byte sink. Owned exclusively by
	// the RCB from admission until destruction; closed on destruction.
	ClientSink io.WriteCloser

	// Path is the requested file path, as resolved at admission.
	Path string

	// Source is an open, readable byte source for Path, positioned at the
	// next byte to send. Owned by the RCB; closed on destruction.
	Source io.ReadCloser

	// Sent is the count of bytes already written to ClientSink. It only
	// increases, and never exceeds Total.
	Sent int64

	// Total is the file size in bytes, captured at admission. Immutable
	// for the RCB's lifetime.
	Total int64

	// Tier is used only by MLQF; ignored by SJF and RR.
	Tier Tier

	destroyOnce sync.Once
}

// Done reports whether the RCB has transmitted its entire body.
func (r *RCB) Done() bool {
	return r.Sent >= r.Total
}

// Destroy releases the RCB's resources. Safe to call more than once; only
// the first call has any effect, satisfying the "destroyed exactly once"
// invariant.
func (r *RCB) Destroy() {
	r.destroyOnce.Do(func() {
		if r.Source != nil {
			_ = r.Source.Close()
		}
		if r.ClientSink != nil {
			_ = r.ClientSink.Close()
		}
	})
}
