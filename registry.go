// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package avio

import (
	"fmt"
	"sync"
)

// protoNode is the registry's singly-linked list node. Registration appends
// to the tail, so iteration order is registration order, as spec.md
// requires for scheme lookup precedence.
type protoNode struct {
	desc *Descriptor
	next *protoNode
}

// Registry is a process-wide ordered list of registered transports. The
// zero value is ready to use. Registration is expected to happen during
// program startup; spec.md's concurrency model only guarantees safe
// concurrent lookups when no further Register call races with them, so the
// mutex here guards the list pointers, not the immutability of a
// Descriptor's own fields once published.
type Registry struct {
	mu   sync.Mutex
	head *protoNode
	tail *protoNode
}

// DefaultRegistry is the process-wide registry used by Open, Open2, Check
// and EnumProtocols when no Registry is supplied explicitly.
var DefaultRegistry = &Registry{}

// Register appends desc to the registry. Duplicate names are not rejected
// or deduplicated -- spec.md leaves that case undefined, and the first
// match in registration order wins at lookup time.
func (r *Registry) Register(desc *Descriptor) error {
	if desc == nil || desc.Name == "" {
		return fmt.Errorf("%w: descriptor must have a name", ErrInvalid)
	}
	node := &protoNode{desc: desc}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tail == nil {
		r.head = node
	} else {
		r.tail.next = node
	}
	r.tail = node
	return nil
}

// next returns the Descriptor following prev in registration order, or the
// first one if prev is nil. It is the Go analogue of ffurl_protocol_next.
func (r *Registry) next(prev *Descriptor) *Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev == nil {
		if r.head == nil {
			return nil
		}
		return r.head.desc
	}
	for n := r.head; n != nil; n = n.next {
		if n.desc == prev {
			if n.next == nil {
				return nil
			}
			return n.next.desc
		}
	}
	return nil
}

// Enumerate advances cursor (nil starts at the beginning) and returns the
// next Descriptor capable of the requested direction (Read for
// wantWrite=false, Write for wantWrite=true), or nil when the list is
// exhausted.
func (r *Registry) Enumerate(cursor *Descriptor, wantWrite bool) *Descriptor {
	for {
		next := r.next(cursor)
		if next == nil {
			return nil
		}
		cursor = next
		if wantWrite && cursor.Write != nil {
			return cursor
		}
		if !wantWrite && cursor.Read != nil {
			return cursor
		}
	}
}

// lookup resolves a URL's scheme (and, failing that, its nested scheme) to
// a registered Descriptor, per spec.md §4.2.1.
func (r *Registry) lookup(scheme, nestedScheme string) (*Descriptor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for n := r.head; n != nil; n = n.next {
		if n.desc.Name == scheme {
			return n.desc, nil
		}
	}
	for n := r.head; n != nil; n = n.next {
		if n.desc.NestedScheme && n.desc.Name == nestedScheme {
			return n.desc, nil
		}
	}
	return nil, fmt.Errorf("%w: scheme %q", ErrProtocolNotFound, scheme)
}
