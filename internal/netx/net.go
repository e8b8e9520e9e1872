// Package netx holds small networking helpers shared by the client and the
// server.
package netx

import (
	"errors"
	"io"
	"net"
	"syscall"
)

// IsUnreachable reports whether err means the remote peer could not be
// reached or dropped the connection, as opposed to answering with an error.
func IsUnreachable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
