// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package avio

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// URLContext is a single open transport handle -- the Go analogue of
// FFmpeg's URLContext. It is produced by Registry.Alloc/Connect (or the
// package-level Open/Open2 helpers) and is not safe for concurrent use by
// more than one goroutine at a time, matching spec.md's stated concurrency
// model.
type URLContext struct {
	Protocol *Descriptor
	Filename string
	Flags    int

	IsConnected bool
	IsStreamed  bool

	MaxPacketSize int64

	PrivData any

	InterruptCallback *InterruptCallback
	RWTimeout         time.Duration

	// Clock lets tests substitute a clockwork.FakeClock for rw_timeout and
	// retry-pacing behavior. Nil means clockwork.NewRealClock().
	Clock clockwork.Clock

	cfg *Config

	mu     sync.Mutex
	closed bool
}

// Alloc resolves filename's scheme against r, allocates priv data, applies
// embedded URL options, and returns an unconnected URLContext. It is the Go
// analogue of ffurl_alloc / url_alloc_for_protocol.
func (r *Registry) Alloc(filename string, flags int, interrupt *InterruptCallback, cfg *Config) (*URLContext, error) {
	if cfg == nil {
		cfg = &DefaultConfig
	}

	scheme, nestedScheme := parseScheme(filename)
	desc, err := r.lookup(scheme, nestedScheme)
	if err != nil {
		return nil, err
	}

	ctx := &URLContext{
		Protocol:          desc,
		Flags:             flags,
		InterruptCallback: interrupt,
		cfg:               cfg,
	}

	var priv any
	if desc.NewPrivData != nil {
		priv = desc.NewPrivData()
		if desc.Schema != nil {
			desc.Schema.SetDefaults(priv)
		}
	}

	// Options are only parsed when the filename starts with the matched
	// Descriptor's own name and a comma; for a nested "outer+inner,..." URL
	// they stay in the filename for the inner leg's Alloc. Unknown keys are
	// logged by parseEmbeddedOptions and do not fail the allocation.
	effective := filename
	if idx, ok := hasEmbeddedOptions(filename, desc.Name); ok {
		spliced, err := parseEmbeddedOptions(filename, desc.Name, idx, desc.Schema, priv)
		if err != nil && errors.Is(err, ErrInvalid) {
			return nil, err
		}
		effective = spliced
	}

	ctx.Filename = effective
	ctx.PrivData = priv
	return ctx, nil
}

// Connect opens ctx's transport, preferring Open2 (which can see the
// caller's option map) over Open, and probes seekability the way
// ffurl_connect does by attempting a zero-length SeekSize.
func (ctx *URLContext) Connect(options map[string]string) error {
	if ctx.Protocol.Network {
		if NetworkInit != nil {
			if err := NetworkInit(); err != nil {
				return fmt.Errorf("%w: network init: %v", ErrIO, err)
			}
		}
	}

	var err error
	switch {
	case ctx.Protocol.Open2 != nil:
		err = ctx.Protocol.Open2(ctx, ctx.Filename, ctx.Flags, options)
	case ctx.Protocol.Open != nil:
		err = ctx.Protocol.Open(ctx, ctx.Filename, ctx.Flags)
	default:
		err = fmt.Errorf("%w: transport %q has no Open", ErrUnsupported, ctx.Protocol.Name)
	}
	if err != nil {
		if ctx.Protocol.Network && NetworkClose != nil {
			NetworkClose()
		}
		return err
	}

	ctx.IsConnected = true
	ctx.IsStreamed = ctx.Protocol.Seek == nil
	if ctx.Protocol.Seek != nil {
		if _, serr := ctx.Protocol.Seek(ctx, 0, SeekSize); serr != nil {
			ctx.IsStreamed = true
		}
	}
	return nil
}

func (ctx *URLContext) clock() clockwork.Clock {
	if ctx.Clock != nil {
		return ctx.Clock
	}
	return clockwork.NewRealClock()
}

// Read reads up to len(p) bytes, retrying on ErrWouldBlock per spec.md
// §4.2.4 until at least one byte is delivered or a terminal error occurs.
// It is the Go analogue of ffurl_read.
func (ctx *URLContext) Read(p []byte) (int, error) {
	if ctx.Protocol.Read == nil {
		return 0, fmt.Errorf("%w: transport %q is not readable", ErrUnsupported, ctx.Protocol.Name)
	}
	if len(p) == 0 {
		return 0, nil
	}
	rs := newRetryState(ctx.cfg, ctx.Flags&FlagNonBlock != 0, ctx.RWTimeout, ctx.InterruptCallback, ctx.clock())
	return rs.run(p, 1, func(dst []byte) (int, error) {
		return ctx.Protocol.Read(ctx, dst)
	})
}

// ReadFull reads until p is completely filled, io.EOF, or a terminal error.
// It is the Go analogue of ffurl_read_complete.
func (ctx *URLContext) ReadFull(p []byte) (int, error) {
	if ctx.Protocol.Read == nil {
		return 0, fmt.Errorf("%w: transport %q is not readable", ErrUnsupported, ctx.Protocol.Name)
	}
	if len(p) == 0 {
		return 0, nil
	}
	rs := newRetryState(ctx.cfg, ctx.Flags&FlagNonBlock != 0, ctx.RWTimeout, ctx.InterruptCallback, ctx.clock())
	return rs.run(p, len(p), func(dst []byte) (int, error) {
		return ctx.Protocol.Read(ctx, dst)
	})
}

// Write writes all of p, retrying on ErrWouldBlock the same way Read does.
// A p longer than a non-zero MaxPacketSize fails with ErrIO. It is the Go
// analogue of ffurl_write.
func (ctx *URLContext) Write(p []byte) (int, error) {
	if ctx.Protocol.Write == nil {
		return 0, fmt.Errorf("%w: transport %q is not writable", ErrUnsupported, ctx.Protocol.Name)
	}
	if ctx.MaxPacketSize > 0 && int64(len(p)) > ctx.MaxPacketSize {
		return 0, fmt.Errorf("%w: write of %d bytes exceeds max packet size %d", ErrIO, len(p), ctx.MaxPacketSize)
	}
	if len(p) == 0 {
		return 0, nil
	}
	rs := newRetryState(ctx.cfg, ctx.Flags&FlagNonBlock != 0, ctx.RWTimeout, ctx.InterruptCallback, ctx.clock())
	return rs.run(p, len(p), func(dst []byte) (int, error) {
		return ctx.Protocol.Write(ctx, dst)
	})
}

// Seek repositions the transport. whence may be SeekSet/SeekCur/SeekEnd, or
// SeekSize to query the current size without moving. It is the Go analogue
// of ffurl_seek.
func (ctx *URLContext) Seek(pos int64, whence int) (int64, error) {
	if ctx.Protocol.Seek == nil {
		return 0, fmt.Errorf("%w: transport %q is not seekable", ErrUnsupported, ctx.Protocol.Name)
	}
	return ctx.Protocol.Seek(ctx, pos, whence)
}

// Size reports the transport's total size. It prefers a direct SeekSize
// probe; if the transport doesn't support that, it falls back to
// remembering the current position, seeking to the last byte (SeekEnd,
// -1), and restoring the original position. It is the Go analogue of
// ffurl_size.
func (ctx *URLContext) Size() (int64, error) {
	size, err := ctx.Seek(0, SeekSize)
	if err == nil {
		return size, nil
	}

	pos, perr := ctx.Seek(0, SeekCur)
	if perr != nil {
		return 0, err
	}
	size, err = ctx.Seek(-1, SeekEnd)
	if err != nil {
		return 0, err
	}
	size++
	if _, err := ctx.Seek(pos, SeekSet); err != nil {
		return 0, err
	}
	return size, nil
}

// Shutdown performs a partial/full shutdown of a duplex transport (e.g. a
// TCP socket) without releasing ctx. Transports without a Shutdown hook
// return ErrUnsupported.
func (ctx *URLContext) Shutdown(flags int) error {
	if ctx.Protocol.Shutdown == nil {
		return fmt.Errorf("%w: transport %q has no Shutdown", ErrUnsupported, ctx.Protocol.Name)
	}
	return ctx.Protocol.Shutdown(ctx, flags)
}

// GetFileHandle exposes the transport's native descriptor, e.g. for passing
// to select/poll driven code outside this package.
func (ctx *URLContext) GetFileHandle() (uintptr, error) {
	if ctx.Protocol.GetFileHandle == nil {
		return 0, fmt.Errorf("%w: transport %q has no file handle", ErrUnsupported, ctx.Protocol.Name)
	}
	return ctx.Protocol.GetFileHandle(ctx)
}

// GetMultiFileHandle is the multi-descriptor analogue of GetFileHandle, for
// transports (e.g. pipe pairs) backed by more than one native handle.
func (ctx *URLContext) GetMultiFileHandle() ([]uintptr, error) {
	if ctx.Protocol.GetMultiFileHandle == nil {
		return nil, fmt.Errorf("%w: transport %q has no multi file handle", ErrUnsupported, ctx.Protocol.Name)
	}
	return ctx.Protocol.GetMultiFileHandle(ctx)
}

// Close releases ctx's transport resources. It is idempotent: a second call
// returns nil without invoking the Descriptor's Close again. It is the Go
// analogue of ffurl_closep.
func (ctx *URLContext) Close() error {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	if ctx.closed {
		return nil
	}
	ctx.closed = true

	var err error
	if ctx.IsConnected && ctx.Protocol.Close != nil {
		err = ctx.Protocol.Close(ctx)
	}
	if ctx.IsConnected && ctx.Protocol.Network && NetworkClose != nil {
		NetworkClose()
	}
	return err
}
