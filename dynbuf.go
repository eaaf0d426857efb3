// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package avio

import "fmt"

// dynBufState is the growable in-memory sink behind OpenDynBuf and
// OpenDynPacketBuf. It is the Go analogue of DynBuffer: a BufferedStream's
// writePacket callback that, instead of pushing bytes out to a transport,
// appends them (and, in packetized mode, a length header) to an
// ever-growing slice.
type dynBufState struct {
	packetized bool
	data       []byte
}

// grow amortizes reallocation at roughly 1.5x, the same ratio
// av_fast_realloc / DynBuffer uses, rather than growing to exactly what's
// needed on every write.
func (d *dynBufState) grow(need int) {
	if cap(d.data)-len(d.data) >= need {
		return
	}
	newCap := cap(d.data)
	if newCap == 0 {
		newCap = 1
	}
	for newCap-len(d.data) < need {
		newCap = newCap + newCap/2 + 1
	}
	nd := make([]byte, len(d.data), newCap)
	copy(nd, d.data)
	d.data = nd
}

func (d *dynBufState) write(p []byte) (int, error) {
	if d.packetized {
		if len(p) > 0xffffffff {
			return 0, fmt.Errorf("%w: packet exceeds 4-byte length prefix", ErrTooLong)
		}
		var hdr [4]byte
		hdr[0] = byte(len(p) >> 24)
		hdr[1] = byte(len(p) >> 16)
		hdr[2] = byte(len(p) >> 8)
		hdr[3] = byte(len(p))
		d.grow(4 + len(p))
		d.data = append(d.data, hdr[:]...)
		d.data = append(d.data, p...)
		return len(p), nil
	}
	d.grow(len(p))
	d.data = append(d.data, p...)
	return len(p), nil
}

// OpenDynBuf returns a write-only BufferedStream backed by a growable
// in-memory buffer with no length framing, as a codec's headers and
// payload accumulate before their final size is known. It is the Go
// analogue of avio_open_dyn_buf.
func OpenDynBuf(cfg *Config) (*BufferedStream, error) {
	return openDynBuf(cfg, false)
}

// OpenDynPacketBuf is OpenDynBuf with each Write call prefixed by a 4-byte
// big-endian length header, so CloseDynBuf's caller can walk the result
// back into discrete packets. It is the Go analogue of
// ffio_open_dyn_packet_buf.
func OpenDynPacketBuf(cfg *Config) (*BufferedStream, error) {
	return openDynBuf(cfg, true)
}

func openDynBuf(cfg *Config, packetized bool) (*BufferedStream, error) {
	if cfg == nil {
		cfg = &DefaultConfig
	}
	d := &dynBufState{packetized: packetized}
	bs := newBufferedStream(make([]byte, cfg.DynBufInitialSize), true, cfg)
	bs.writePacket = d.write
	bs.dyn = d
	// Packetized mode hands each Write straight to d.write (Write's direct
	// path), so every Write call becomes exactly one length-prefixed frame.
	bs.direct = packetized
	return bs, nil
}

// CloseDynBuf flushes bs's remaining buffered bytes and returns the
// accumulated data. In continuous mode the result is padded with
// cfg.InputPaddingSize zero bytes (matching a decoder's expectation that
// input buffers carry trailing padding) before the slice is trimmed back
// to the unpadded length. It is the Go analogue of avio_close_dyn_buf.
func CloseDynBuf(bs *BufferedStream) ([]byte, error) {
	if bs.dyn == nil {
		return nil, fmt.Errorf("%w: stream is not a dynamic buffer", ErrInvalid)
	}
	if err := bs.Flush(); err != nil {
		return nil, err
	}
	if bs.dyn.packetized {
		return bs.dyn.data, nil
	}
	pad := bs.cfg.InputPaddingSize
	bs.dyn.grow(pad)
	size := len(bs.dyn.data)
	bs.dyn.data = append(bs.dyn.data, make([]byte, pad)...)
	return bs.dyn.data[:size], nil
}
