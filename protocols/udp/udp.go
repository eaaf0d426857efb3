// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package udp registers avio's "udp" transport: a packet-mode net.UDPConn
// wrapper whose embedded URL options (ttl, pkt_size) exercise spec.md's
// scenario S5.
package udp

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"golang.org/x/net/ipv4"

	"code.hybscloud.com/avio"
)

type privData struct {
	conn    *net.UDPConn
	ttl     int
	pktSize int
}

type optionSchema struct{}

func (optionSchema) SetDefaults(p any) {
	priv := p.(*privData)
	priv.ttl = 0
	priv.pktSize = 1472 // common Ethernet-MTU-safe UDP payload size
}

func (optionSchema) Keys() []string { return []string{"ttl", "pkt_size"} }

func (optionSchema) Set(p any, key, value string) error {
	priv := p.(*privData)
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q", key, value)
	}
	switch key {
	case "ttl":
		priv.ttl = n
	case "pkt_size":
		priv.pktSize = n
	default:
		return fmt.Errorf("unknown key %q", key)
	}
	return nil
}

// Descriptor is the "udp" transport. MaxPacketSize is not fixed on the
// Descriptor itself -- it is set on the URLContext from priv.pktSize once
// the connection is open, so NewBufferedStreamFromURLContext sizes its
// buffer to a single datagram instead of IOBufferSize.
var Descriptor = &avio.Descriptor{
	Name:        "udp",
	Network:     true,
	NewPrivData: func() any { return &privData{} },
	Schema:      optionSchema{},
	Open:        open,
	Read:        read,
	Write:       write,
	Close:       closeConn,
}

func open(ctx *avio.URLContext, filename string, flags int) error {
	priv := ctx.PrivData.(*privData)
	addr := avio.StripScheme(filename, "udp")

	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return fmt.Errorf("%w: resolve %s: %v", avio.ErrInvalid, addr, err)
	}

	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return fmt.Errorf("%w: dial %s: %v", avio.ErrIO, addr, err)
	}

	if priv.ttl > 0 {
		if p4 := ipv4.NewConn(conn); p4 != nil {
			_ = p4.SetTTL(priv.ttl)
		}
	}

	priv.conn = conn
	ctx.MaxPacketSize = int64(priv.pktSize)
	return nil
}

func read(ctx *avio.URLContext, p []byte) (int, error) {
	priv := ctx.PrivData.(*privData)
	if ctx.Flags&avio.FlagNonBlock != 0 {
		_ = priv.conn.SetReadDeadline(time.Now().Add(time.Millisecond))
	} else {
		_ = priv.conn.SetReadDeadline(time.Time{})
	}
	n, err := priv.conn.Read(p)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return n, avio.ErrWouldBlock
		}
		return n, fmt.Errorf("%w: %v", avio.ErrIO, err)
	}
	return n, nil
}

func write(ctx *avio.URLContext, p []byte) (int, error) {
	priv := ctx.PrivData.(*privData)
	if len(p) > priv.pktSize {
		return 0, fmt.Errorf("%w: datagram exceeds pkt_size %d", avio.ErrTooLong, priv.pktSize)
	}
	n, err := priv.conn.Write(p)
	if err != nil {
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
