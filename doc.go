// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package avio provides a pluggable transport registry and a direction-
// polarised buffered stream layered on top of it, for multimedia-container
// style I/O over heterogeneous transports (local files, sockets, in-memory
// buffers, object stores).
//
// Two things compose:
//   - A Registry of named Descriptors (transports). A URL's scheme selects
//     a Descriptor; a URLContext is the opened handle bound to it.
//   - A BufferedStream, a seek-aware, checksumming byte buffer that can wrap
//     a URLContext (via NewBufferedStreamFromURLContext) or an in-memory
//     dynamic sink (OpenDynBuf / OpenDynPacketBuf) behind one typed I/O API.
//
// Concrete transports (file, tcp, udp, gzip, s3) live under protocols/ and
// are reference implementations of the Descriptor contract, not part of the
// core; register the ones a program needs with protocols.RegisterStandard
// or by passing a package's Descriptor to Registry.Register.
package avio
