// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package avio

import (
	"errors"
	"io"

	"code.hybscloud.com/iox"
)

// Error kinds surfaced by the registry, URL context and buffered stream.
//
// These are sentinels, not types: wrap them with fmt.Errorf("%w: ...") at
// call sites and compare with errors.Is.
var (
	// ErrProtocolNotFound means no registered Descriptor matches a URL's scheme.
	ErrProtocolNotFound = errors.New("avio: protocol not found")

	// ErrInvalid means a malformed URL, unknown seek whence, a malformed
	// embedded option pair, or a rewind on a write-mode stream.
	ErrInvalid = errors.New("avio: invalid argument")

	// ErrUnsupported means the transport does not implement the requested
	// operation.
	ErrUnsupported = errors.New("avio: not supported")

	// ErrBrokenPipe means a seek was requested on a stream whose transport
	// has no seek callback.
	ErrBrokenPipe = errors.New("avio: broken pipe")

	// ErrIO covers network-init failure, a write exceeding max packet size,
	// and retry-deadline exhaustion.
	ErrIO = errors.New("avio: i/o error")

	// ErrEOF is io.EOF, kept as its own name for symmetry with the other
	// error kinds; use errors.Is(err, io.EOF) or errors.Is(err, avio.ErrEOF)
	// interchangeably.
	ErrEOF = io.EOF

	// ErrWouldBlock is re-exported from iox so callers of this package don't
	// need to import it directly to test for non-blocking control flow.
	ErrWouldBlock = iox.ErrWouldBlock

	// ErrInterrupted signals a transport-level EINTR-equivalent; the retry
	// loop always retries it immediately and it never escapes to a caller.
	ErrInterrupted = errors.New("avio: interrupted, retry")

	// ErrExit means the user-supplied interrupt callback returned true.
	ErrExit = errors.New("avio: canceled")

	// ErrOutOfMemory names the allocation-failure error kind. No function in
	// this package returns it: a failed allocation in Go panics instead.
	ErrOutOfMemory = errors.New("avio: out of memory")

	// ErrTooLong is raised by the packetised dynamic buffer, by ReadVarint
	// on an over-long varint, and by a transport's own write hook that
	// rejects an oversized packet (protocols/udp).
	ErrTooLong = errors.New("avio: too long")
)
