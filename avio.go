// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package avio

// Open allocates, connects and wraps filename's transport in a
// BufferedStream using DefaultRegistry and DefaultConfig. It is the Go
// analogue of avio_open.
func Open(filename string, flags int) (*BufferedStream, error) {
	return Open2(filename, flags, nil, nil)
}

// Open2 is Open with an explicit interrupt callback and option map. It is
// the Go analogue of avio_open2.
func Open2(filename string, flags int, interrupt *InterruptCallback, options map[string]string) (*BufferedStream, error) {
	ctx, err := DefaultRegistry.Alloc(filename, flags, interrupt, &DefaultConfig)
	if err != nil {
		return nil, err
	}
	if err := ctx.Connect(options); err != nil {
		return nil, err
	}
	bs, err := NewBufferedStreamFromURLContext(ctx, &DefaultConfig)
	if err != nil {
		_ = ctx.Close()
		return nil, err
	}
	return bs, nil
}

// Check probes whether filename could be opened with flags without actually
// retaining an open handle: the Descriptor's Check hook is consulted if it
// has one, otherwise the transport is opened, and the handle is closed
// again. It is the Go analogue of ffio_check.
func Check(filename string, flags int) (int, error) {
	ctx, err := DefaultRegistry.Alloc(filename, flags, nil, &DefaultConfig)
	if err != nil {
		return 0, err
	}
	defer ctx.Close()

	if ctx.Protocol.Check != nil {
		return ctx.Protocol.Check(ctx, flags)
	}
	if err := ctx.Connect(nil); err != nil {
		return 0, err
	}
	return 0, nil
}

// EnumProtocols lists registered transport names capable of the requested
// direction, in registration order. It is the Go analogue of
// avio_enum_protocols.
func EnumProtocols(wantWrite bool) []string {
	var names []string
	var cursor *Descriptor
	for {
		next := DefaultRegistry.Enumerate(cursor, wantWrite)
		if next == nil {
			break
		}
		names = append(names, next.Name)
		cursor = next
	}
	return names
}
