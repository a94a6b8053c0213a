// Package netio implements the TCP accept loop that hands connections to
// the scheduler's admission logic. Per spec.md §1 ("It does NOT cover:
// command-line parsing, socket accept loop, low-level byte I/O helpers"),
// this is deliberately minimal stdlib net code, analogous to the original
// source's standalone network.c/network.h — a thin collaborator, not
// part of the scheduler core.
package netio

import (
	"io"
	"net"
)

// Serve listens on addr and, for each accepted connection, calls admit
// synchronously on the accepting goroutine — there is exactly one
// producer, matching spec.md §5's single accept-thread model. admit is
// responsible for closing conn in every code path. admit takes
// io.ReadWriteCloser, not net.Conn, so it matches scheduler.Scheduler.Admit
// directly, without an adapter closure at the call site.
func Serve(addr string, admit func(conn io.ReadWriteCloser)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	defer ln.Close()

	for {
		conn, err := ln.Accept()
		if err != nil {
			continue
		}
		admit(conn)
	}
}
