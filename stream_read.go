// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package avio

import (
	"errors"
	"fmt"
	"io"
)

// fillBuffer refills the read buffer from readPacket. It is the Go analogue
// of fill_buffer: when the buffer isn't packet-constrained and still has
// spare room, new bytes are appended after what's already there instead of
// discarding it, so a short seek backward can still be satisfied locally.
// On a non-positive read, buf_ptr/buf_end are left untouched -- the
// load-bearing EOF invariant spec.md calls out -- so a caller can still
// seek back into the already-buffered window.
func (bs *BufferedStream) fillBuffer() error {
	if bs.readPacket == nil {
		if bs.bufPtr >= bs.bufEnd {
			bs.eof = true
		}
		return fmt.Errorf("%w: stream has no source", ErrUnsupported)
	}
	if bs.eof {
		return io.EOF
	}

	dstOffset := 0
	if bs.maxPacketSize == 0 && bs.bufEnd < len(bs.buf) {
		dstOffset = bs.bufEnd
	}

	maxBufferSize := bs.cfg.IOBufferSize
	if bs.maxPacketSize > 0 {
		maxBufferSize = int(bs.maxPacketSize)
	}
	if len(bs.buf) > maxBufferSize {
		bs.buf = bs.buf[:maxBufferSize]
		if bs.bufEnd > maxBufferSize {
			bs.bufEnd = maxBufferSize
		}
		if bs.bufPtr > maxBufferSize {
			bs.bufPtr = maxBufferSize
		}
		dstOffset = 0
	}

	n, err := bs.readPacket(bs.buf[dstOffset:])
	if n <= 0 {
		bs.eof = true
		if err != nil && !errors.Is(err, io.EOF) {
			bs.err = err
			return err
		}
		return io.EOF
	}

	bs.pos += int64(n)
	bs.bufPtr = dstOffset
	bs.bufEnd = dstOffset + n
	bs.bytesRead += int64(n)
	return nil
}

// Read copies buffered bytes into p, pulling additional packets until p is
// full or the source is exhausted. It is the Go analogue of avio_read: a
// short read means EOF or error, matching io.Reader's contract.
func (bs *BufferedStream) Read(p []byte) (int, error) {
	if bs.writeFlag {
		return 0, fmt.Errorf("%w: stream opened for writing", ErrInvalid)
	}
	total := 0
	for total < len(p) {
		if bs.bufPtr == bs.bufEnd {
			if err := bs.fillBuffer(); err != nil {
				if total > 0 {
					return total, nil
				}
				return 0, err
			}
		}
		n := copy(p[total:], bs.buf[bs.bufPtr:bs.bufEnd])
		bs.checksum.update(bs.buf[bs.bufPtr : bs.bufPtr+n])
		bs.bufPtr += n
		total += n
	}
	return total, nil
}

// ReadPartial returns whatever is already buffered, pulling at most one
// additional packet if the buffer is currently empty. Unlike Read, it never
// loops to fill p completely. It is the Go analogue of avio_read_partial.
func (bs *BufferedStream) ReadPartial(p []byte) (int, error) {
	if bs.writeFlag {
		return 0, fmt.Errorf("%w: stream opened for writing", ErrInvalid)
	}
	if bs.bufPtr == bs.bufEnd {
		if err := bs.fillBuffer(); err != nil {
			return 0, err
		}
	}
	n := copy(p, bs.buf[bs.bufPtr:bs.bufEnd])
	bs.checksum.update(bs.buf[bs.bufPtr : bs.bufPtr+n])
	bs.bufPtr += n
	return n, nil
}

func (bs *BufferedStream) readByte() (byte, error) {
	var b [1]byte
	if _, err := bs.Read(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (bs *BufferedStream) readFixed(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := bs.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// ReadByte matches the teacher's r8-style one-byte accessor naming while
// satisfying io.ByteReader.
func (bs *BufferedStream) ReadByte() (byte, error) { return bs.readByte() }

// ReadUint16LE/BE, ReadUint24LE/BE, ReadUint32LE/BE and ReadUint64LE/BE are
// the typed readers paired with the typed writers in bufferedstream.go,
// mirroring avio_rl16/avio_rb16/...
func (bs *BufferedStream) ReadUint16LE() (uint16, error) {
	b, err := bs.readFixed(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0]) | uint16(b[1])<<8, nil
}
func (bs *BufferedStream) ReadUint16BE() (uint16, error) {
	b, err := bs.readFixed(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[1]) | uint16(b[0])<<8, nil
}
func (bs *BufferedStream) ReadUint24LE() (uint32, error) {
	b, err := bs.readFixed(3)
	if err != nil {
		return 0, err
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16, nil
}
func (bs *BufferedStream) ReadUint24BE() (uint32, error) {
	b, err := bs.readFixed(3)
	if err != nil {
		return 0, err
	}
	return uint32(b[2]) | uint32(b[1])<<8 | uint32(b[0])<<16, nil
}
func (bs *BufferedStream) ReadUint32LE() (uint32, error) {
	b, err := bs.readFixed(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}
func (bs *BufferedStream) ReadUint32BE() (uint32, error) {
	b, err := bs.readFixed(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[3]) | uint32(b[2])<<8 | uint32(b[1])<<16 | uint32(b[0])<<24, nil
}
func (bs *BufferedStream) ReadUint64LE() (uint64, error) {
	b, err := bs.readFixed(8)
	if err != nil {
		return 0, err
	}
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v, nil
}
func (bs *BufferedStream) ReadUint64BE() (uint64, error) {
	b, err := bs.readFixed(8)
	if err != nil {
		return 0, err
	}
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(b[i])
	}
	return v, nil
}

// ReadVarint reads the encoding WriteVarint produces. Matches
// ffio_read_varint.
func (bs *BufferedStream) ReadVarint() (uint64, error) {
	var v uint64
	for i := 0; i < 10; i++ {
		b, err := bs.readByte()
		if err != nil {
			return 0, err
		}
		v = v<<7 | uint64(b&0x7f)
		if b&0x80 == 0 {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: varint too long", ErrTooLong)
}

// GetLine reads up to and including the next '\n', or until EOF, returning
// the line without its terminator. Matches ff_get_line's behavior save for
// the original's fixed caller-supplied buffer.
func (bs *BufferedStream) GetLine() (string, error) {
	var line []byte
	for {
		b, err := bs.readByte()
		if err != nil {
			if errors.Is(err, io.EOF) && len(line) > 0 {
				return string(line), nil
			}
			return string(line), err
		}
		if b == '\n' {
			return string(line), nil
		}
		line = append(line, b)
	}
}

// GetString reads exactly max bytes from the source -- a NUL-terminated
// string padded out to a fixed field width -- writing up to buflen-1 of the
// bytes preceding the first NUL into the returned string. The stream always
// advances by max, regardless of where the NUL or the buflen cap falls, so
// a caller can chain a fixed-width field straight into the next read.
// Matches avio_get_str(s, maxlen, buf, buflen).
func (bs *BufferedStream) GetString(max, buflen int) (string, error) {
	var s []byte
	terminated := false
	for i := 0; i < max; i++ {
		b, err := bs.readByte()
		if err != nil {
			return string(s), err
		}
		if b == 0 {
			terminated = true
		}
		if !terminated && len(s) < buflen-1 {
			s = append(s, b)
		}
	}
	return string(s), nil
}

// GetUTF16StringLE and GetUTF16StringBE read exactly max bytes of a
// NUL-pair-terminated, fixed-width UTF-16 field and transcode the portion
// before the terminator to a Go string, capped to buflen-1 bytes. Matches
// avio_get_str16le/be(s, maxlen, buf, buflen).
func (bs *BufferedStream) GetUTF16StringLE(max, buflen int) (string, error) {
	return bs.getUTF16String(max, buflen, false)
}
func (bs *BufferedStream) GetUTF16StringBE(max, buflen int) (string, error) {
	return bs.getUTF16String(max, buflen, true)
}

func (bs *BufferedStream) getUTF16String(max, buflen int, bigEndian bool) (string, error) {
	var raw []byte
	terminated := false
	consumed := 0
	for consumed+1 < max {
		unit, err := bs.readFixed(2)
		if err != nil {
			return "", err
		}
		consumed += 2
		if !terminated {
			if unit[0] == 0 && unit[1] == 0 {
				terminated = true
			} else {
				raw = append(raw, unit...)
			}
		}
	}
	if consumed < max {
		if _, err := bs.readByte(); err != nil {
			return "", err
		}
	}
	s, err := decodeUTF16(raw, bigEndian)
	if err != nil {
		return "", err
	}
	if buflen > 0 && len(s) > buflen-1 {
		s = s[:buflen-1]
	}
	return s, nil
}
