// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package avio

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Logger is used for the two places the original C implementation calls
// av_log: an unknown embedded-option key (logged, not fatal) and the
// bytes-read/seek-count statistics line emitted when a buffered stream
// opened from a URLContext closes.
//
// It defaults to a discarding output so importing this package never
// produces unsolicited log lines; call SetLogger to wire it into a program's
// own logging pipeline.
var Logger = newDefaultLogger()

func newDefaultLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// SetLogger replaces the package-wide logger.
func SetLogger(l *logrus.Logger) {
	if l == nil {
		return
	}
	Logger = l
}
