// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package avio

import (
	"encoding/binary"

	"code.hybscloud.com/avio/internal/bo"
)

// WriteUint16Native, WriteUint32Native and WriteUint64Native write in the
// host's native byte order rather than a fixed endianness -- for transports
// that dump memory layouts verbatim (e.g. a raw capture sink read back on
// the same machine) where paying for a byte swap buys nothing.
func (bs *BufferedStream) WriteUint16Native(v uint16) error {
	if bo.Native() == binary.BigEndian {
		return bs.WriteUint16BE(v)
	}
	return bs.WriteUint16LE(v)
}
func (bs *BufferedStream) WriteUint32Native(v uint32) error {
	if bo.Native() == binary.BigEndian {
		return bs.WriteUint32BE(v)
	}
	return bs.WriteUint32LE(v)
}
func (bs *BufferedStream) WriteUint64Native(v uint64) error {
	if bo.Native() == binary.BigEndian {
		return bs.WriteUint64BE(v)
	}
	return bs.WriteUint64LE(v)
}

// ReadUint16Native, ReadUint32Native and ReadUint64Native are the read-side
// counterparts.
func (bs *BufferedStream) ReadUint16Native() (uint16, error) {
	if bo.Native() == binary.BigEndian {
		return bs.ReadUint16BE()
	}
	return bs.ReadUint16LE()
}
func (bs *BufferedStream) ReadUint32Native() (uint32, error) {
	if bo.Native() == binary.BigEndian {
		return bs.ReadUint32BE()
	}
	return bs.ReadUint32LE()
}
func (bs *BufferedStream) ReadUint64Native() (uint64, error) {
	if bo.Native() == binary.BigEndian {
		return bs.ReadUint64BE()
	}
	return bs.ReadUint64LE()
}
