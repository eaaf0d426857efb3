package gzip

import "testing"

func TestInnerFilenameSplitsOnFirstPlus(t *testing.T) {
	cases := map[string]string{
		"gzip+file:///tmp/x": "file:///tmp/x",
		"gzip+udp+tcp://h":   "udp+tcp://h",
		"gzip":                "gzip",
	}
	for in, want := range cases {
		if got := innerFilename(in); got != want {
			t.Errorf("innerFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIndexByte(t *testing.T) {
	if idx := indexByte("a+b+c", '+'); idx != 1 {
		t.Fatalf("indexByte = %d, want 1", idx)
	}
	if idx := indexByte("abc", '+'); idx != -1 {
		t.Fatalf("indexByte = %d, want -1", idx)
	}
}
