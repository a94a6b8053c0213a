package scheduler

import (
	"bytes"
	"io"
	"testing"
)

// loremPayload is a fixed, deterministic multi-slice payload used across
// policy tests to exercise multi-quantum transfers.
var loremPayload = bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog\n"), 500)

// fakeConn is a minimal io.ReadWriteCloser double: Write appends to an
// internal buffer (the "client"), Read serves from a pre-set request, and
// Close just flips a flag.
type fakeConn struct {
	request []byte
	written []byte
	closed  bool
}

func newFakeConn() *fakeConn { return &fakeConn{} }

func (c *fakeConn) withRequest(req string) *fakeConn {
	c.request = []byte(req)
	return c
}

func (c *fakeConn) Read(p []byte) (int, error) {
	if len(c.request) == 0 {
		return 0, io.EOF
	}
	n := copy(p, c.request)
	c.request = c.request[n:]
	return n, nil
}

func (c *fakeConn) Write(p []byte) (int, error) {
	c.written = append(c.written, p...)
	return len(p), nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

// memFile is an io.ReadCloser over an in-memory byte slice, used in place
// of a real file for policy-level serveSlice tests.
type memFile struct {
	*bytes.Reader
	closed bool
}

func newMemFile(b []byte) *memFile {
	return &memFile{Reader: bytes.NewReader(b)}
}

func (m *memFile) Close() error {
	m.closed = true
	return nil
}

// failingReader returns an error after failAfter bytes have been read.
type failingReader struct {
	data      []byte
	failAfter int
	err       error
}

func (f *failingReader) Read(p []byte) (int, error) {
	if f.failAfter <= 0 {
		return 0, f.err
	}
	n := copy(p, f.data)
	if n > f.failAfter {
		n = f.failAfter
	}
	f.failAfter -= n
	f.data = f.data[n:]
	if f.failAfter == 0 {
		return n, f.err
	}
	return n, nil
}

func (f *failingReader) Close() error { return nil }

// newTestScheduler builds a Scheduler for the given policy with a
// discard-everything ErrorLogger and an in-memory stdout sink, plus any
// extra opts, suitable for directly exercising ServeSlice/reinsert/complete
// in tests.
func newTestScheduler(t *testing.T, name Name, opts ...Option) *Scheduler {
	t.Helper()
	var stdout bytes.Buffer
	s, err := New(name, append([]Option{WithStdout(&stdout)}, opts...)...)
	if err != nil {
		t.Fatalf("New(%s): %v", name, err)
	}
	return s
}
