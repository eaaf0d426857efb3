// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package tcp registers avio's "tcp" transport over net.Conn, with an
// optional embedded-option byte-rate cap enforced by golang.org/x/time/rate
// -- useful for a client that must not saturate a shared downlink while
// still driving avio's ordinary buffered read/write path.
package tcp

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"code.hybscloud.com/avio"
)

const defaultDialTimeout = 5 * time.Second

type privData struct {
	conn net.Conn

	dialTimeout time.Duration
	listen      bool
	rateLimit   int // bytes/sec, 0 = unlimited

	limiter *rate.Limiter
}

// optionSchema is this transport's OptionSchema, letting a URL like
// "tcp,listen=1,rate=65536:host:port" configure server mode and a
// byte-rate cap without a separate options map.
type optionSchema struct{}

func (optionSchema) SetDefaults(p any) {
	priv := p.(*privData)
	priv.dialTimeout = defaultDialTimeout
}

func (optionSchema) Keys() []string {
	return []string{"listen", "rate", "timeout"}
}

func (optionSchema) Set(p any, key, value string) error {
	priv := p.(*privData)
	switch key {
	case "listen":
		priv.listen = value == "1"
	case "rate":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid rate %q", value)
		}
		priv.rateLimit = n
	case "timeout":
		ms, err := strconv.Atoi(value)
		if err != nil || ms < 0 {
			return fmt.Errorf("invalid timeout %q", value)
		}
		priv.dialTimeout = time.Duration(ms) * time.Millisecond
	default:
		return fmt.Errorf("unknown key %q", key)
	}
	return nil
}

// Descriptor is the "tcp" transport.
var Descriptor = &avio.Descriptor{
	Name:        "tcp",
	Network:     true,
	NewPrivData: func() any { return &privData{} },
	Schema:      optionSchema{},
	Open:        open,
	Read:        read,
	Write:       write,
	Close:       closeConn,
	Shutdown:    shutdown,
}

func open(ctx *avio.URLContext, filename string, flags int) error {
	priv := ctx.PrivData.(*privData)
	addr := avio.StripScheme(filename, "tcp")

	if priv.rateLimit > 0 {
		priv.limiter = rate.NewLimiter(rate.Limit(priv.rateLimit), priv.rateLimit)
	}

	if priv.listen {
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("%w: listen %s: %v", avio.ErrIO, addr, err)
		}
		conn, err := ln.Accept()
		ln.Close()
		if err != nil {
			return fmt.Errorf("%w: accept %s: %v", avio.ErrIO, addr, err)
		}
		priv.conn = conn
		return nil
	}

	dialCtx, cancel := context.WithTimeout(context.Background(), priv.dialTimeout)
	defer cancel()
	conn, err := (&net.Dialer{}).DialContext(dialCtx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("%w: dial %s: %v", avio.ErrIO, addr, err)
	}
	priv.conn = conn
	return nil
}

// isWouldBlock maps net's deadline-exceeded sentinel to avio's
// ErrWouldBlock, the same role EAGAIN plays in the original's non-blocking
// socket reads.
func isWouldBlock(err error) bool {
	ne, ok := err.(net.Error)
	return ok && ne.Timeout()
}

func read(ctx *avio.URLContext, p []byte) (int, error) {
	priv := ctx.PrivData.(*privData)
	if priv.limiter != nil {
		_ = priv.limiter.WaitN(context.Background(), min(len(p), priv.rateLimit))
	}
	if ctx.Flags&avio.FlagNonBlock != 0 {
		_ = priv.conn.SetReadDeadline(time.Now().Add(time.Millisecond))
	} else {
		_ = priv.conn.SetReadDeadline(time.Time{})
	}
	n, err := priv.conn.Read(p)
	if err != nil {
		if isWouldBlock(err) {
			return n, avio.ErrWouldBlock
		}
		if n > 0 {
			return n, nil
		}
		return n, fmt.Errorf("%w: %v", avio.ErrIO, err)
	}
	return n, nil
}

func write(ctx *avio.URLContext, p []byte) (int, error) {
	priv := ctx.PrivData.(*privData)
	if priv.limiter != nil {
		_ = priv.limiter.WaitN(context.Background(), min(len(p), priv.rateLimit))
	}
	if ctx.Flags&avio.FlagNonBlock != 0 {
		_ = priv.conn.SetWriteDeadline(time.Now().Add(time.Millisecond))
	} else {
		_ = priv.conn.SetWriteDeadline(time.Time{})
	}
	n, err := priv.conn.Write(p)
	if err != nil {
		if isWouldBlock(err) {
			return n, avio.ErrWouldBlock
		}
		return n, fmt.Errorf("%w: %v", avio.ErrIO, err)
	}
	return n, nil
}

func closeConn(ctx *avio.URLContext) error {
	if err := ctx.PrivData.(*privData).conn.Close(); err != nil {
		return fmt.Errorf("%w: %v", avio.ErrIO, err)
	}
	return nil
}

func shutdown(ctx *avio.URLContext, flags int) error {
	priv := ctx.PrivData.(*privData)
	tc, ok := priv.conn.(*net.TCPConn)
	if !ok {
		return fmt.Errorf("%w: shutdown on non-tcp conn", avio.ErrUnsupported)
	}
	switch {
	case flags&avio.FlagReadWrite == avio.FlagReadWrite:
		if err := tc.CloseRead(); err != nil {
			return fmt.Errorf("%w: %v", avio.ErrIO, err)
		}
		return tc.CloseWrite()
	case flags&avio.FlagWrite != 0:
		return tc.CloseWrite()
	default:
		return tc.CloseRead()
	}
}
