// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package avio

import "fmt"

// Tell reports the stream's current logical position, independent of how
// much of it sits buffered locally. It is the Go analogue of avio_tell.
func (bs *BufferedStream) Tell() int64 {
	if bs.writeFlag {
		return bs.pos + int64(bs.bufPtr)
	}
	return bs.pos - int64(bs.bufEnd-bs.bufPtr)
}

// Seek repositions a read stream using the three-tier policy spec.md's
// Seek operation describes: reposition within the already-buffered window
// for free, absorb a short forward seek by reading-and-discarding, and
// otherwise flush/discard the buffer and delegate to the transport. It is
// the Go analogue of avio_seek.
func (bs *BufferedStream) Seek(pos int64, whence int) (int64, error) {
	force := whence&SeekForce != 0
	whence &^= SeekForce

	if whence == SeekSize {
		if bs.seekFn == nil {
			return 0, fmt.Errorf("%w: stream is not seekable", ErrUnsupported)
		}
		return bs.seekFn(0, SeekSize)
	}

	// SeekEnd is resolved by the transport's own end-relative seek, the same
	// way lseek(fd, pos, SEEK_END) needs no separate size query -- it must
	// not be derived from SeekSize, since avio_size's fallback path (Size
	// below) relies on SeekEnd succeeding independently of whether SeekSize
	// does.
	if whence == SeekEnd {
		if bs.seekFn == nil {
			return 0, fmt.Errorf("%w: stream is not seekable", ErrBrokenPipe)
		}
		if bs.writeFlag {
			if err := bs.flushBuffer(); err != nil {
				return 0, err
			}
		}
		newPos, err := bs.seekFn(pos, SeekEnd)
		if err != nil {
			return 0, err
		}
		bs.pos = newPos
		bs.bufPtr = 0
		bs.bufEnd = 0
		bs.eof = false
		bs.seekCount++
		return newPos, nil
	}

	var target int64
	switch whence {
	case SeekSet:
		target = pos
	case SeekCur:
		target = bs.Tell() + pos
	default:
		return 0, fmt.Errorf("%w: unknown whence %d", ErrInvalid, whence)
	}

	if bs.writeFlag {
		if err := bs.flushBuffer(); err != nil {
			return 0, err
		}
		if bs.seekFn == nil {
			return 0, fmt.Errorf("%w: stream is not seekable", ErrBrokenPipe)
		}
		newPos, err := bs.seekFn(target, SeekSet)
		if err != nil {
			return 0, err
		}
		bs.pos = newPos
		bs.seekCount++
		return newPos, nil
	}

	bufStart := bs.pos - int64(bs.bufEnd)
	bufStreamEnd := bs.pos
	directWithSeek := bs.direct && bs.seekFn != nil
	if !force && !directWithSeek && target >= bufStart && target <= bufStreamEnd {
		bs.bufPtr = int(target - bufStart)
		bs.eof = false
		return target, nil
	}

	// The short-seek baseline is buf_end (bufStreamEnd), the absolute offset
	// just past the last buffered byte -- not Tell()'s current read position
	// -- so unread buffered bytes still count against the threshold the way
	// avio_seek's offset1 <= buf_end + SHORT_SEEK_THRESHOLD - buffer does.
	if !force && target > bufStreamEnd && target-bufStreamEnd <= bs.cfg.ShortSeekThreshold {
		toSkip := target - bs.Tell()
		discard := make([]byte, 4096)
		for toSkip > 0 {
			chunk := discard
			if int64(len(chunk)) > toSkip {
				chunk = chunk[:toSkip]
			}
			n, err := bs.Read(chunk)
			toSkip -= int64(n)
			if err != nil {
				return 0, err
			}
		}
		return target, nil
	}

	if bs.seekFn == nil {
		return 0, fmt.Errorf("%w: stream is not seekable", ErrBrokenPipe)
	}
	newPos, err := bs.seekFn(target, SeekSet)
	if err != nil {
		return 0, err
	}
	bs.bufPtr = 0
	bs.bufEnd = 0
	bs.pos = newPos
	bs.eof = false
	bs.seekCount++
	return newPos, nil
}

// Skip advances the read position by offset bytes. Matches avio_skip.
func (bs *BufferedStream) Skip(offset int64) (int64, error) {
	return bs.Seek(offset, SeekCur)
}

// Size reports the stream's total length. It prefers a direct SeekSize
// probe; if that fails, it falls back to remembering the current position,
// seeking to the last byte, and restoring the original position. Matches
// avio_size.
func (bs *BufferedStream) Size() (int64, error) {
	size, err := bs.Seek(0, SeekSize)
	if err == nil {
		return size, nil
	}

	pos := bs.Tell()
	size, err = bs.Seek(-1, SeekEnd)
	if err != nil {
		return 0, err
	}
	size++
	if _, err := bs.Seek(pos, SeekSet); err != nil {
		return 0, err
	}
	return size, nil
}

// Feof reports whether the last fill reached end-of-stream. Matches
// avio_feof.
func (bs *BufferedStream) Feof() bool { return bs.eof }

// RewindWithProbeData splices probe back onto the front of the unread
// buffer, so bytes already consumed during format sniffing can be read
// again by the next stage. It fails only on a write-mode stream; it does not
// check whether probe overlaps the buffered window. It is the Go analogue of
// ffio_rewind_with_probe_data.
func (bs *BufferedStream) RewindWithProbeData(probe []byte) error {
	if bs.writeFlag {
		return fmt.Errorf("%w: stream opened for writing", ErrInvalid)
	}
	merged := make([]byte, 0, len(probe)+bs.bufEnd-bs.bufPtr)
	merged = append(merged, probe...)
	merged = append(merged, bs.buf[bs.bufPtr:bs.bufEnd]...)

	if len(merged) > len(bs.buf) {
		bs.buf = merged
	} else {
		copy(bs.buf, merged)
	}
	bs.bufPtr = 0
	bs.bufEnd = len(merged)
	bs.eof = false
	return nil
}

// Pause forwards to the transport's ReadPause hook, for transports (e.g.
// network streams) that support suspending delivery without closing.
// Matches avio_pause.
func (bs *BufferedStream) Pause(pause bool) error {
	if bs.readPause == nil {
		return fmt.Errorf("%w: stream has no pause support", ErrUnsupported)
	}
	return bs.readPause(pause)
}

// SeekTime forwards to the transport's ReadSeek hook for timestamp-based
// seeking (e.g. a streaming protocol's own seek-by-PTS). Matches
// avio_seek_time.
func (bs *BufferedStream) SeekTime(streamIndex int, timestamp int64, flags int) (int64, error) {
	if bs.readSeek == nil {
		return 0, fmt.Errorf("%w: stream has no time-based seek", ErrUnsupported)
	}
	pos, err := bs.readSeek(streamIndex, timestamp, flags)
	if err != nil {
		return 0, err
	}
	bs.bufPtr = 0
	bs.bufEnd = 0
	bs.eof = false
	return pos, nil
}
