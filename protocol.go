// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package avio

// Open flags, bitwise-combinable.
const (
	FlagRead      = 1 << 0
	FlagWrite     = 1 << 1
	FlagReadWrite = FlagRead | FlagWrite
	FlagNonBlock  = 1 << 2
	FlagDirect    = 1 << 3
)

// Seek whence values. SeekSet/SeekCur/SeekEnd line up with the io.Seek*
// constants; SeekSize asks for the current length without moving, and
// SeekForce may be OR-ed onto any of the above to force a transport-level
// seek through the short-seek-skip path.
const (
	SeekSet   = 0
	SeekCur   = 1
	SeekEnd   = 2
	SeekSize  = 0x10000
	SeekForce = 0x20000000
)

// InterruptCallback is a cooperative cancellation hook. Predicate is polled
// between retry iterations; a true result aborts the in-flight operation
// with ErrExit. Opaque is passed back to the caller's own bookkeeping and is
// not used by this package.
type InterruptCallback struct {
	Predicate func(opaque any) bool
	Opaque    any
}

func (cb *InterruptCallback) triggered() bool {
	if cb == nil || cb.Predicate == nil {
		return false
	}
	return cb.Predicate(cb.Opaque)
}

// OptionSchema lets a Descriptor expose named private-state fields settable
// through a URL's embedded option list (scheme,key=val,key=val:rest). Keys
// not present in the schema are logged and skipped rather than aborting the
// whole parse; a value that cannot be applied to a present key aborts with
// ErrInvalid (a malformed pair, not an unknown key).
type OptionSchema interface {
	// SetDefaults populates priv with the schema's declared defaults. Called
	// once right after priv is allocated, before any embedded option is
	// applied.
	SetDefaults(priv any)

	// Keys lists the settable option names, for diagnostics and for
	// distinguishing "unknown key" (logged, skipped) from "key present but
	// value rejected" (aborts with ErrInvalid).
	Keys() []string

	// Set applies one key=value pair to priv. An error here aborts the
	// whole parse; returning one for a key not in Keys() is the caller's
	// mistake, not this interface's contract -- parseEmbeddedOptions never
	// calls Set for a key Keys() didn't advertise.
	Set(priv any, key, value string) error
}

// Descriptor is a transport's contract -- the capability set a transport
// must expose. Any function field may be nil; calling the corresponding
// operation on a URLContext bound to a nil field fails with ErrUnsupported.
//
// Once registered, a Descriptor is treated as immutable for the life of the
// process: Registry.Register stores the pointer it is given and nothing in
// this package mutates it afterward.
type Descriptor struct {
	// Name is the transport's scheme identifier, e.g. "file", "tcp", "s3".
	Name string

	// Network means this transport needs process-wide network init before
	// first use and teardown balanced against it; see NetworkInit/NetworkClose.
	Network bool

	// NestedScheme means this transport may be selected as the outer leg of
	// an "outer+inner://" URL when no Descriptor's Name matches the full
	// scheme string.
	NestedScheme bool

	// NewPrivData constructs this transport's private state, if it needs
	// any. Nil means the transport carries no per-handle state beyond what
	// URLContext itself tracks.
	NewPrivData func() any

	// Schema, if non-nil, lets embedded URL options (scheme,k=v,...) set
	// fields on the value NewPrivData returned.
	Schema OptionSchema

	Open  func(ctx *URLContext, filename string, flags int) error
	Open2 func(ctx *URLContext, filename string, flags int, options map[string]string) error

	Read  func(ctx *URLContext, p []byte) (int, error)
	Write func(ctx *URLContext, p []byte) (int, error)
	Seek  func(ctx *URLContext, pos int64, whence int) (int64, error)
	Close func(ctx *URLContext) error

	Check    func(ctx *URLContext, flags int) (int, error)
	Shutdown func(ctx *URLContext, flags int) error

	GetFileHandle      func(ctx *URLContext) (uintptr, error)
	GetMultiFileHandle func(ctx *URLContext) ([]uintptr, error)

	ReadPause func(ctx *URLContext, pause bool) error
	ReadSeek  func(ctx *URLContext, streamIndex int, timestamp int64, flags int) (int64, error)
}

// NetworkInit and NetworkClose are the process-wide network init/teardown
// hooks spec.md names as external collaborators. The core only balances
// calls to them around a Network Descriptor's open/close; it never performs
// its own socket setup. Programs that register a Network transport should
// set these before the first Open.
var (
	NetworkInit  func() error
	NetworkClose func()
)
