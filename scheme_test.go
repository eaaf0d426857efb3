package avio

import "testing"

func TestParseScheme(t *testing.T) {
	cases := []struct {
		filename   string
		scheme     string
		nested     string
	}{
		{"file:///tmp/x", "file", "file"},
		{"/tmp/x", "file", "file"},
		{"C:\\Users\\x", "file", "file"},
		{"tcp://host:1234", "tcp", "tcp"},
		{"gzip+file:///tmp/x", "gzip+file", "gzip"},
		{"udp,ttl=7,pkt_size=1316://host:1234", "udp", "udp"},
	}
	for _, tc := range cases {
		scheme, nested := parseScheme(tc.filename)
		if scheme != tc.scheme || nested != tc.nested {
			t.Errorf("parseScheme(%q) = (%q, %q), want (%q, %q)", tc.filename, scheme, nested, tc.scheme, tc.nested)
		}
	}
}

func TestIsDOSPath(t *testing.T) {
	cases := map[string]bool{
		"C:\\foo": true,
		"c:":      true,
		"tcp://x": false,
		"":        false,
		"a:b":     false,
	}
	for in, want := range cases {
		if got := isDOSPath(in); got != want {
			t.Errorf("isDOSPath(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestStripScheme(t *testing.T) {
	cases := []struct{ in, scheme, want string }{
		{"file:///tmp/x", "file", "/tmp/x"},
		{"tcp://host:1234", "tcp", "host:1234"},
		{"host:1234", "tcp", "host:1234"}, // already stripped by embedded-option parsing
	}
	for _, tc := range cases {
		if got := StripScheme(tc.in, tc.scheme); got != tc.want {
			t.Errorf("StripScheme(%q, %q) = %q, want %q", tc.in, tc.scheme, got, tc.want)
		}
	}
}

func TestHasEmbeddedOptions(t *testing.T) {
	idx, ok := hasEmbeddedOptions("udp,ttl=7:host:1234", "udp")
	if !ok || idx != 3 {
		t.Fatalf("hasEmbeddedOptions = (%d, %v), want (3, true)", idx, ok)
	}
	if _, ok := hasEmbeddedOptions("tcp://host:1234", "tcp"); ok {
		t.Fatalf("expected no embedded options")
	}
}
