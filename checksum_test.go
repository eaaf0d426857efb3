package avio

import (
	"bytes"
	"hash/crc32"
	"testing"
)

func TestChecksumMatchesStdlibOverWrittenBytes(t *testing.T) {
	var dst bytes.Buffer
	bs := newWriteSink(&dst, 4)
	bs.InitChecksum(0)

	payload := []byte("the quick brown fox jumps over the lazy dog")
	if _, err := bs.Write(payload); err != nil {
		t.Fatal(err)
	}
	if err := bs.Flush(); err != nil {
		t.Fatal(err)
	}

	got := bs.GetChecksum()
	want := crc32.ChecksumIEEE(payload)
	if got != want {
		t.Fatalf("checksum = %x, want %x", got, want)
	}
}

func TestChecksumMatchesStdlibOverReadBytes(t *testing.T) {
	payload := []byte("checksum over a read stream too")
	bs := newReadSourceChunked(payload, 6)
	bs.InitChecksum(0)

	got := make([]byte, len(payload))
	if _, err := bs.Read(got); err != nil {
		t.Fatal(err)
	}
	checksum := bs.GetChecksum()
	want := crc32.ChecksumIEEE(payload)
	if checksum != want {
		t.Fatalf("checksum = %x, want %x", checksum, want)
	}
}

func TestGetChecksumDisarmsAbsorption(t *testing.T) {
	var dst bytes.Buffer
	bs := newWriteSink(&dst, 64)
	bs.InitChecksum(0)
	bs.Write([]byte("a"))
	bs.Flush()
	first := bs.GetChecksum()
	if first == 0 {
		t.Fatal("expected non-zero checksum")
	}
	bs.Write([]byte("b"))
	bs.Flush()
	if second := bs.GetChecksum(); second != 0 {
		t.Fatalf("checksum after disarm = %x, want 0", second)
	}
}
