// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package gzip registers avio's "gzip" transport: a nested-scheme wrapper
// that transcodes an inner transport's bytes through
// github.com/klauspost/compress/gzip, so a URL like "gzip+file:///tmp/log"
// reads (or writes) the inner file's gzip-decompressed (or compressed)
// byte stream.
package gzip

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"code.hybscloud.com/avio"
)

type privData struct {
	inner *avio.URLContext
	zr    *gzip.Reader
	zw    *gzip.Writer
}

// innerReader/innerWriter adapt a URLContext's Read/Write to io.Reader/
// io.Writer so the stdlib-shaped gzip.Reader/gzip.Writer can sit on top of
// it without this package reimplementing their framing.
type innerReader struct{ ctx *avio.URLContext }

func (r innerReader) Read(p []byte) (int, error) { return r.ctx.Read(p) }

type innerWriter struct{ ctx *avio.URLContext }

func (w innerWriter) Write(p []byte) (int, error) { return w.ctx.Write(p) }

// Descriptor is the "gzip" transport. It carries no option schema of its
// own: the inner scheme's options are embedded options on the inner leg of
// the URL and are consumed when the inner URLContext is allocated.
var Descriptor = &avio.Descriptor{
	Name:         "gzip",
	NestedScheme: true,
	NewPrivData:  func() any { return &privData{} },
	Open:         open,
	Read:         read,
	Write:        write,
	Close:        closeStream,
}

// InnerRegistry is consulted to resolve the URL's nested (post "+") scheme.
// Defaults to avio.DefaultRegistry; tests may substitute a scoped registry.
var InnerRegistry = avio.DefaultRegistry

func innerFilename(filename string) string {
	if idx := indexByte(filename, '+'); idx >= 0 {
		return filename[idx+1:]
	}
	return filename
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

func open(ctx *avio.URLContext, filename string, flags int) error {
	priv := ctx.PrivData.(*privData)

	inner, err := InnerRegistry.Alloc(innerFilename(filename), flags, ctx.InterruptCallback, nil)
	if err != nil {
		return err
	}
	if err := inner.Connect(nil); err != nil {
		return err
	}
	priv.inner = inner

	if flags&avio.FlagWrite != 0 {
		priv.zw = gzip.NewWriter(innerWriter{inner})
		return nil
	}
	zr, err := gzip.NewReader(innerReader{inner})
	if err != nil {
		_ = inner.Close()
		return fmt.Errorf("%w: gzip header: %v", avio.ErrInvalid, err)
	}
	priv.zr = zr
	return nil
}

func read(ctx *avio.URLContext, p []byte) (int, error) {
	priv := ctx.PrivData.(*privData)
	n, err := priv.zr.Read(p)
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("%w: %v", avio.ErrIO, err)
	}
	return n, err
}

func write(ctx *avio.URLContext, p []byte) (int, error) {
	priv := ctx.PrivData.(*privData)
	n, err := priv.zw.Write(p)
	if err != nil {
		return n, fmt.Errorf("%w: %v", avio.ErrIO, err)
	}
	return n, nil
}

func closeStream(ctx *avio.URLContext) error {
	priv := ctx.PrivData.(*privData)
	var closeErr error
	if priv.zw != nil {
		closeErr = priv.zw.Close()
	}
	if priv.zr != nil {
		closeErr = priv.zr.Close()
	}
	if innerErr := priv.inner.Close(); innerErr != nil && closeErr == nil {
		closeErr = innerErr
	}
	if closeErr != nil {
		return fmt.Errorf("%w: %v", avio.ErrIO, closeErr)
	}
	return nil
}
