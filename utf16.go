// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package avio

import (
	"golang.org/x/text/encoding/unicode"
)

func utf16Encoding(bigEndian bool) *unicode.Encoding {
	endian := unicode.LittleEndian
	if bigEndian {
		endian = unicode.BigEndian
	}
	return unicode.UTF16(endian, unicode.IgnoreBOM)
}

// encodeUTF16 transcodes s (UTF-8) to raw UTF-16 code units without a BOM
// or trailing NUL -- WriteUTF16LEString/WriteUTF16BEString append the NUL
// code unit themselves so it is counted in their return value.
func encodeUTF16(s string, bigEndian bool) ([]byte, error) {
	return utf16Encoding(bigEndian).NewEncoder().Bytes([]byte(s))
}

// decodeUTF16 transcodes raw UTF-16 code units (as collected up to, but not
// including, the terminating NUL) back to a UTF-8 Go string.
func decodeUTF16(raw []byte, bigEndian bool) (string, error) {
	decoded, err := utf16Encoding(bigEndian).NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
