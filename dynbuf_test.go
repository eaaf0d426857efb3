package avio

import (
	"bytes"
	"testing"
)

func TestDynBufContinuousPadsThenTrims(t *testing.T) {
	cfg := DefaultConfig
	cfg.DynBufInitialSize = 4
	cfg.InputPaddingSize = 8
	bs, err := OpenDynBuf(&cfg)
	if err != nil {
		t.Fatalf("OpenDynBuf: %v", err)
	}
	payload := bytes.Repeat([]byte("ab"), 100)
	if _, err := bs.Write(payload); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := CloseDynBuf(bs)
	if err != nil {
		t.Fatalf("CloseDynBuf: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Fatalf("data len=%d, want %d bytes equal to payload", len(data), len(payload))
	}
}

func TestDynPacketBufLengthPrefixedFrames(t *testing.T) {
	bs, err := OpenDynPacketBuf(&DefaultConfig)
	if err != nil {
		t.Fatalf("OpenDynPacketBuf: %v", err)
	}
	if _, err := bs.Write([]byte("abc")); err != nil {
		t.Fatal(err)
	}
	if _, err := bs.Write([]byte("de")); err != nil {
		t.Fatal(err)
	}
	data, err := CloseDynBuf(bs)
	if err != nil {
		t.Fatalf("CloseDynBuf: %v", err)
	}

	want := []byte{0, 0, 0, 3, 'a', 'b', 'c', 0, 0, 0, 2, 'd', 'e'}
	if !bytes.Equal(data, want) {
		t.Fatalf("data = %v, want %v", data, want)
	}
}

func TestCloseDynBufRejectsNonDynStream(t *testing.T) {
	bs := newBufferedStream(make([]byte, 16), true, &DefaultConfig)
	bs.writePacket = func(p []byte) (int, error) { return len(p), nil }
	if _, err := CloseDynBuf(bs); err == nil {
		t.Fatal("expected error closing a non-dynamic-buffer stream as one")
	}
}
