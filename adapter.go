// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package avio

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// NewBufferedStreamFromURLContext wraps an already-connected URLContext in
// a BufferedStream, sizing the buffer from the transport's declared
// MaxPacketSize when it has one (packet-mode transports, e.g. UDP, must
// never be read across a packet boundary) or from cfg.IOBufferSize
// otherwise. It is the Go analogue of ffio_fdopen / avio_alloc_context as
// called from ffurl_connect's caller.
func NewBufferedStreamFromURLContext(ctx *URLContext, cfg *Config) (*BufferedStream, error) {
	if !ctx.IsConnected {
		return nil, fmt.Errorf("%w: url context is not connected", ErrInvalid)
	}
	if cfg == nil {
		cfg = &DefaultConfig
	}

	writeFlag := ctx.Flags&FlagWrite != 0

	size := cfg.IOBufferSize
	if ctx.MaxPacketSize > 0 {
		size = int(ctx.MaxPacketSize)
	}
	if size <= 0 {
		size = DefaultConfig.IOBufferSize
	}

	bs := newBufferedStream(make([]byte, size), writeFlag, cfg)
	bs.direct = ctx.Flags&FlagDirect != 0
	bs.seekable = !ctx.IsStreamed
	bs.maxPacketSize = ctx.MaxPacketSize

	if ctx.Protocol.Read != nil {
		bs.readPacket = ctx.Read
	}
	if ctx.Protocol.Write != nil {
		bs.writePacket = ctx.Write
	}
	if ctx.Protocol.Seek != nil {
		bs.seekFn = ctx.Seek
	}
	if ctx.Protocol.ReadPause != nil {
		bs.readPause = func(pause bool) error {
			return ctx.Protocol.ReadPause(ctx, pause)
		}
	}
	if ctx.Protocol.ReadSeek != nil {
		bs.readSeek = func(streamIndex int, timestamp int64, flags int) (int64, error) {
			return ctx.Protocol.ReadSeek(ctx, streamIndex, timestamp, flags)
		}
	}
	bs.closeFn = func() error {
		Logger.WithFields(logrus.Fields{
			"url":        ctx.Filename,
			"bytes_read": bs.bytesRead,
			"seek_count": bs.seekCount,
		}).Debug("avio: closing buffered stream")
		return ctx.Close()
	}

	return bs, nil
}
