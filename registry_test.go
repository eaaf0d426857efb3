package avio

import (
	"errors"
	"testing"
)

func TestRegistryLookupOrderAndNestedFallback(t *testing.T) {
	r := &Registry{}
	a := &Descriptor{Name: "a", Read: func(*URLContext, []byte) (int, error) { return 0, nil }}
	b := &Descriptor{Name: "b", NestedScheme: true, Read: func(*URLContext, []byte) (int, error) { return 0, nil }}

	if err := r.Register(a); err != nil {
		t.Fatalf("register a: %v", err)
	}
	if err := r.Register(b); err != nil {
		t.Fatalf("register b: %v", err)
	}

	desc, err := r.lookup("a", "a")
	if err != nil || desc != a {
		t.Fatalf("lookup a: desc=%v err=%v", desc, err)
	}

	// "b+c" never registered by name, falls back to nested scheme "b".
	desc, err = r.lookup("b+c", "b")
	if err != nil || desc != b {
		t.Fatalf("lookup nested: desc=%v err=%v", desc, err)
	}

	if _, err := r.lookup("missing", "missing"); !errors.Is(err, ErrProtocolNotFound) {
		t.Fatalf("lookup missing: err=%v, want ErrProtocolNotFound", err)
	}
}

func TestRegistryRegisterRejectsUnnamed(t *testing.T) {
	r := &Registry{}
	if err := r.Register(&Descriptor{}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
	if err := r.Register(nil); !errors.Is(err, ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
}

func TestRegistryEnumerateFiltersByDirection(t *testing.T) {
	r := &Registry{}
	readOnly := &Descriptor{Name: "r", Read: func(*URLContext, []byte) (int, error) { return 0, nil }}
	writeOnly := &Descriptor{Name: "w", Write: func(*URLContext, []byte) (int, error) { return 0, nil }}
	r.Register(readOnly)
	r.Register(writeOnly)

	var readers []string
	var cursor *Descriptor
	for {
		next := r.Enumerate(cursor, false)
		if next == nil {
			break
		}
		readers = append(readers, next.Name)
		cursor = next
	}
	if len(readers) != 1 || readers[0] != "r" {
		t.Fatalf("readers = %v, want [r]", readers)
	}

	var writers []string
	cursor = nil
	for {
		next := r.Enumerate(cursor, true)
		if next == nil {
			break
		}
		writers = append(writers, next.Name)
		cursor = next
	}
	if len(writers) != 1 || writers[0] != "w" {
		t.Fatalf("writers = %v, want [w]", writers)
	}
}
