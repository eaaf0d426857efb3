package avio

import (
	"bytes"
	"errors"
	"testing"
)

// newWriteSink builds a write-mode BufferedStream whose writePacket appends
// to dst, small enough buffer that typed-writer tests actually exercise
// flushBuffer rather than just buffering everything in one go.
func newWriteSink(dst *bytes.Buffer, bufSize int) *BufferedStream {
	bs := newBufferedStream(make([]byte, bufSize), true, &DefaultConfig)
	bs.writePacket = func(p []byte) (int, error) {
		return dst.Write(p)
	}
	bs.seekable = true
	return bs
}

func TestWriteFlushesOnFullBuffer(t *testing.T) {
	var dst bytes.Buffer
	bs := newWriteSink(&dst, 4)
	if _, err := bs.Write([]byte("hello world")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := bs.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if dst.String() != "hello world" {
		t.Fatalf("dst = %q, want %q", dst.String(), "hello world")
	}
}

func TestTypedWritersRoundTripThroughReader(t *testing.T) {
	var dst bytes.Buffer
	bs := newWriteSink(&dst, 64)

	if err := bs.WriteUint16LE(0x1234); err != nil {
		t.Fatal(err)
	}
	if err := bs.WriteUint16BE(0x1234); err != nil {
		t.Fatal(err)
	}
	if err := bs.WriteUint32LE(0xdeadbeef); err != nil {
		t.Fatal(err)
	}
	if err := bs.WriteUint32BE(0xdeadbeef); err != nil {
		t.Fatal(err)
	}
	if err := bs.WriteUint64LE(0x0102030405060708); err != nil {
		t.Fatal(err)
	}
	if _, err := bs.WriteVarint(300); err != nil {
		t.Fatal(err)
	}
	if _, err := bs.WriteString("hi"); err != nil {
		t.Fatal(err)
	}
	if _, err := bs.Printf("n=%d", 42); err != nil {
		t.Fatal(err)
	}
	if err := bs.Flush(); err != nil {
		t.Fatal(err)
	}

	rs := newReadSource(dst.Bytes())
	if v, err := rs.ReadUint16LE(); err != nil || v != 0x1234 {
		t.Fatalf("ReadUint16LE = (%x, %v)", v, err)
	}
	if v, err := rs.ReadUint16BE(); err != nil || v != 0x1234 {
		t.Fatalf("ReadUint16BE = (%x, %v)", v, err)
	}
	if v, err := rs.ReadUint32LE(); err != nil || v != 0xdeadbeef {
		t.Fatalf("ReadUint32LE = (%x, %v)", v, err)
	}
	if v, err := rs.ReadUint32BE(); err != nil || v != 0xdeadbeef {
		t.Fatalf("ReadUint32BE = (%x, %v)", v, err)
	}
	if v, err := rs.ReadUint64LE(); err != nil || v != 0x0102030405060708 {
		t.Fatalf("ReadUint64LE = (%x, %v)", v, err)
	}
	if v, err := rs.ReadVarint(); err != nil || v != 300 {
		t.Fatalf("ReadVarint = (%d, %v)", v, err)
	}
	if s, err := rs.GetString(3, 16); err != nil || s != "hi" {
		t.Fatalf("GetString = (%q, %v)", s, err)
	}
	rest, err := rs.readFixed(4)
	if err != nil || string(rest) != "n=42" {
		t.Fatalf("rest = (%q, %v)", rest, err)
	}
}

func TestWriteOnReadStreamIsInvalid(t *testing.T) {
	rs := newReadSource([]byte("x"))
	if _, err := rs.Write([]byte("y")); err == nil {
		t.Fatal("expected error writing to a read-mode stream")
	}
}

// TestWriteLatchedErrorStillAdvancesPosAndSuppressesTransport is the
// regression test for writeout's error-latching contract: once writePacket
// has failed once, later Write calls must not invoke it again, but pos still
// advances by the full length of every call handed to Write, matching the
// original writeout()'s unconditional s->pos += len.
func TestWriteLatchedErrorStillAdvancesPosAndSuppressesTransport(t *testing.T) {
	boom := errors.New("boom")
	bs := newBufferedStream(make([]byte, 4), true, &DefaultConfig)
	bs.seekable = true
	calls := 0
	bs.writePacket = func(p []byte) (int, error) {
		calls++
		return 0, boom
	}

	n, err := bs.Write([]byte("hello world")) // 11 bytes, overflows the 4-byte buffer twice
	if n != 11 {
		t.Fatalf("n = %d, want 11", n)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if calls != 1 {
		t.Fatalf("writePacket called %d times on first failing write, want 1", calls)
	}
	posAfterFirst := bs.pos

	n2, err2 := bs.Write([]byte("more")) // 4 bytes, exactly one full buffer
	if n2 != 4 {
		t.Fatalf("n2 = %d, want 4", n2)
	}
	if !errors.Is(err2, boom) {
		t.Fatalf("err2 = %v, want boom", err2)
	}
	if calls != 1 {
		t.Fatalf("writePacket called again after error latched: calls = %d, want 1", calls)
	}
	if bs.pos != posAfterFirst+4 {
		t.Fatalf("pos = %d, want %d (must still advance by len(p) after latch)", bs.pos, posAfterFirst+4)
	}

	if err := bs.Close(); !errors.Is(err, boom) {
		t.Fatalf("Close = %v, want boom", err)
	}
	if calls != 1 {
		t.Fatalf("writePacket called during Close on an already-errored stream: calls = %d, want 1", calls)
	}
}

func TestUTF16StringRoundTrip(t *testing.T) {
	var dst bytes.Buffer
	bs := newWriteSink(&dst, 64)
	if _, err := bs.WriteUTF16LEString("héllo"); err != nil {
		t.Fatal(err)
	}
	if err := bs.Flush(); err != nil {
		t.Fatal(err)
	}
	rs := newReadSource(dst.Bytes())
	s, err := rs.GetUTF16StringLE(12, 32)
	if err != nil || s != "héllo" {
		t.Fatalf("GetUTF16StringLE = (%q, %v)", s, err)
	}
}
