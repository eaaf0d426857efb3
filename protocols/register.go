// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package protocols is a convenience import: it wires every transport this
// module ships into a Registry without each caller having to import each
// subpackage and call Register itself.
package protocols

import (
	"code.hybscloud.com/avio"
	"code.hybscloud.com/avio/protocols/file"
	"code.hybscloud.com/avio/protocols/gzip"
	"code.hybscloud.com/avio/protocols/s3"
	"code.hybscloud.com/avio/protocols/tcp"
	"code.hybscloud.com/avio/protocols/udp"
)

// RegisterStandard registers the file, tcp, udp, gzip and s3 transports
// into r. It is idempotent only in the sense that Registry.Register is --
// calling it twice on the same Registry registers each transport twice.
func RegisterStandard(r *avio.Registry) error {
	for _, d := range []*avio.Descriptor{
		file.Descriptor,
		tcp.Descriptor,
		udp.Descriptor,
		gzip.Descriptor,
		s3.Descriptor,
	} {
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}
