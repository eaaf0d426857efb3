// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package file registers avio's "file" transport: a thin wrapper over
// os.File. It is the default scheme parseScheme falls back to for any URL
// it cannot otherwise classify, so this package has no embedded-option
// schema of its own.
package file

import (
	"fmt"
	"io"
	"os"

	"code.hybscloud.com/avio"
)

type priv struct {
	f *os.File
}

// Descriptor is the "file" transport, grounded on os.File's ordinary
// blocking semantics -- there is no notion of ErrWouldBlock for a local
// file, so Read/Write never need the retry loop's fast path.
var Descriptor = &avio.Descriptor{
	Name:        "file",
	NewPrivData: func() any { return &priv{} },
	Open:        open,
	Read:        read,
	Write:       write,
	Seek:        seek,
	Close:       closeFile,
}

func open(ctx *avio.URLContext, filename string, flags int) error {
	path := avio.StripScheme(filename, "file")

	var osFlag int
	switch {
	case flags&avio.FlagReadWrite == avio.FlagReadWrite:
		osFlag = os.O_RDWR | os.O_CREATE
	case flags&avio.FlagWrite != 0:
		osFlag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	default:
		osFlag = os.O_RDONLY
	}

	f, err := os.OpenFile(path, osFlag, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", avio.ErrIO, path, err)
	}
	ctx.PrivData.(*priv).f = f
	return nil
}

func read(ctx *avio.URLContext, p []byte) (int, error) {
	n, err := ctx.PrivData.(*priv).f.Read(p)
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("%w: %v", avio.ErrIO, err)
	}
	return n, err
}

func write(ctx *avio.URLContext, p []byte) (int, error) {
	n, err := ctx.PrivData.(*priv).f.Write(p)
	if err != nil {
		return n, fmt.Errorf("%w: %v", avio.ErrIO, err)
	}
	return n, nil
}

func seek(ctx *avio.URLContext, pos int64, whence int) (int64, error) {
	f := ctx.PrivData.(*priv).f
	if whence == avio.SeekSize {
		info, err := f.Stat()
		if err != nil {
			return 0, fmt.Errorf("%w: %v", avio.ErrIO, err)
		}
		return info.Size(), nil
	}
	n, err := f.Seek(pos, whence)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", avio.ErrIO, err)
	}
	return n, nil
}

func closeFile(ctx *avio.URLContext) error {
	if err := ctx.PrivData.(*priv).f.Close(); err != nil {
		return fmt.Errorf("%w: %v", avio.ErrIO, err)
	}
	return nil
}
