// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package avio

import "hash/crc32"

// checksumState tracks the rolling CRC-32/IEEE of every byte that has
// crossed a BufferedStream since InitChecksum was called. Unlike the
// original's checksum_ptr cursor into the buffer, absorption here happens
// directly at the point bytes are delivered to the reader or handed to
// writePacket (see Read / flushBuffer), so the state is just the running
// accumulator.
//
// There is no corpus library that does better than the stdlib table-driven
// update for a bare streaming CRC-32/IEEE accumulator; wrapping it in a
// third-party package would just call the same table.
type checksumState struct {
	active bool
	crc    uint32
}

// InitChecksum arms checksum absorption starting from seed. Matches
// ffio_init_checksum.
func (bs *BufferedStream) InitChecksum(seed uint32) {
	bs.checksum = checksumState{active: true, crc: seed}
}

// GetChecksum disarms checksum absorption and returns the accumulated
// value. Matches ffio_get_checksum.
func (bs *BufferedStream) GetChecksum() uint32 {
	if !bs.checksum.active {
		return 0
	}
	v := bs.checksum.crc
	bs.checksum.active = false
	return v
}

func (cs *checksumState) update(p []byte) {
	if !cs.active || len(p) == 0 {
		return
	}
	cs.crc = crc32.Update(cs.crc, crc32.IEEETable, p)
}
