package avio

import (
	"errors"
	"io"
	"testing"
)

func TestSeekTier1InBufferReposition(t *testing.T) {
	data := []byte("0123456789")
	bs := newReadSourceChunked(data, 32)
	if _, err := bs.Read(make([]byte, 4)); err != nil { // prime the buffer, Tell()=4
		t.Fatal(err)
	}
	transportCalls := 0
	orig := bs.seekFn
	bs.seekFn = func(pos int64, whence int) (int64, error) {
		transportCalls++
		return orig(pos, whence)
	}
	if _, err := bs.Seek(2, SeekSet); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if transportCalls != 0 {
		t.Fatalf("in-buffer seek called the transport %d times, want 0", transportCalls)
	}
	b, err := bs.ReadByte()
	if err != nil || b != '2' {
		t.Fatalf("ReadByte = (%q, %v), want '2'", b, err)
	}
}

func TestSeekTier1SkippedInDirectModeWithSeekCallback(t *testing.T) {
	data := []byte("0123456789")
	bs := newReadSourceChunked(data, 32)
	bs.direct = true
	if _, err := bs.Read(make([]byte, 4)); err != nil { // prime the buffer, Tell()=4
		t.Fatal(err)
	}
	transportCalls := 0
	orig := bs.seekFn
	bs.seekFn = func(pos int64, whence int) (int64, error) {
		if whence != SeekSize {
			transportCalls++
		}
		return orig(pos, whence)
	}
	// target=2 is within the already-buffered window, but direct mode with a
	// real seek callback must bypass the in-buffer reposition and delegate.
	if _, err := bs.Seek(2, SeekSet); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if transportCalls == 0 {
		t.Fatal("direct-mode seek with a seek callback should delegate to the transport, but it didn't")
	}
	b, err := bs.ReadByte()
	if err != nil || b != '2' {
		t.Fatalf("ReadByte = (%q, %v), want '2'", b, err)
	}
}

func TestSeekTier2ThresholdMeasuredFromBufferEnd(t *testing.T) {
	data := []byte("0123456789abcdef")
	bs := newReadSourceChunked(data, 4)
	cfg := *bs.cfg
	cfg.ShortSeekThreshold = 3
	bs.cfg = &cfg

	// Read 1 of 4 buffered bytes, leaving 3 unread ahead of the current
	// position but at the buffer's end. A target 3 bytes past bufEnd must
	// still qualify for tier 2 even though it is 6 bytes past Tell().
	if _, err := bs.Read(make([]byte, 1)); err != nil {
		t.Fatal(err)
	}
	transportSeeks := 0
	orig := bs.seekFn
	bs.seekFn = func(pos int64, whence int) (int64, error) {
		if whence != SeekSize {
			transportSeeks++
		}
		return orig(pos, whence)
	}
	if _, err := bs.Seek(7, SeekSet); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if transportSeeks != 0 {
		t.Fatalf("short forward seek called transport seek %d times, want 0", transportSeeks)
	}
	b, err := bs.ReadByte()
	if err != nil || b != '7' {
		t.Fatalf("ReadByte = (%q, %v), want '7'", b, err)
	}
}

func TestSeekTier2ShortForwardSeekReadsThrough(t *testing.T) {
	data := []byte("0123456789abcdef")
	bs := newReadSourceChunked(data, 4)
	cfg := *bs.cfg
	cfg.ShortSeekThreshold = 100
	bs.cfg = &cfg

	if _, err := bs.Read(make([]byte, 2)); err != nil {
		t.Fatal(err)
	}
	transportSeeks := 0
	orig := bs.seekFn
	bs.seekFn = func(pos int64, whence int) (int64, error) {
		if whence != SeekSize {
			transportSeeks++
		}
		return orig(pos, whence)
	}
	if _, err := bs.Seek(10, SeekSet); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if transportSeeks != 0 {
		t.Fatalf("short forward seek called transport seek %d times, want 0", transportSeeks)
	}
	b, err := bs.ReadByte()
	if err != nil || b != 'a' {
		t.Fatalf("ReadByte = (%q, %v), want 'a'", b, err)
	}
}

func TestSeekTier3FlushAndDelegate(t *testing.T) {
	data := []byte("0123456789abcdef")
	bs := newReadSourceChunked(data, 4)
	cfg := *bs.cfg
	cfg.ShortSeekThreshold = 0
	bs.cfg = &cfg

	if _, err := bs.Seek(12, SeekSet); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	b, err := bs.ReadByte()
	if err != nil || b != 'c' {
		t.Fatalf("ReadByte = (%q, %v), want 'c'", b, err)
	}
}

func TestSizeFallsBackToSeekEndProbe(t *testing.T) {
	data := []byte("0123456789")
	bs := newReadSourceChunked(data, 16)
	bs.seekFn = func(pos int64, whence int) (int64, error) {
		switch whence {
		case SeekSize:
			return 0, ErrUnsupported // forces the fallback path
		case SeekSet:
			return pos, nil
		case SeekEnd:
			return int64(len(data)) + pos, nil
		default:
			return 0, errors.New("unexpected whence in test fake")
		}
	}
	bs.readPacket = func(p []byte) (int, error) { return 0, io.EOF }

	size, err := bs.Size()
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size != 10 {
		t.Fatalf("size = %d, want 10", size)
	}
}

func TestSkipIsSeekCur(t *testing.T) {
	bs := newReadSource([]byte("0123456789"))
	if _, err := bs.Read(make([]byte, 2)); err != nil {
		t.Fatal(err)
	}
	n, err := bs.Skip(3)
	if err != nil || n != 5 {
		t.Fatalf("Skip = (%d, %v), want (5, nil)", n, err)
	}
}

func TestRewindWithProbeDataSplicesFront(t *testing.T) {
	bs := newReadSource([]byte("world"))
	if err := bs.RewindWithProbeData([]byte("hello ")); err != nil {
		t.Fatalf("RewindWithProbeData: %v", err)
	}
	got := make([]byte, 11)
	n, err := bs.Read(got)
	if err != nil || n != 11 {
		t.Fatalf("Read = (%d, %v)", n, err)
	}
	if string(got) != "hello world" {
		t.Fatalf("got %q, want %q", got, "hello world")
	}
}
