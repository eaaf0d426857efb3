// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package avio

import "strings"

// isSchemeChar reports whether r belongs to the scheme character class
// [A-Za-z0-9+-.], the same run ffurl_alloc scans with URL_SCHEME_CHARS.
func isSchemeChar(r byte) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '+' || r == '-' || r == '.':
		return true
	default:
		return false
	}
}

// isDOSPath reports whether filename looks like "X:" or "X:\" -- a drive
// letter path that must be forced to the "file" scheme even though it
// contains a colon.
func isDOSPath(filename string) bool {
	if len(filename) < 2 || filename[1] != ':' {
		return false
	}
	c := filename[0]
	isLetter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
	if !isLetter {
		return false
	}
	if len(filename) == 2 {
		return true
	}
	return filename[2] == '\\'
}

// parseScheme extracts the scheme spec.md §4.2.1 describes: the maximal
// leading run of scheme characters, forced to "file" when the next byte is
// neither ':' nor ',' or when filename is a DOS path, truncated at the
// first comma (the embedded-option tail belongs to the filename, not the
// scheme), and paired with a nested scheme truncated at the first '+'.
func parseScheme(filename string) (scheme, nestedScheme string) {
	n := 0
	for n < len(filename) && isSchemeChar(filename[n]) {
		n++
	}

	if isDOSPath(filename) || n >= len(filename) || (filename[n] != ':' && filename[n] != ',') {
		return "file", "file"
	}

	scheme = filename[:n]
	if i := strings.IndexByte(scheme, ','); i >= 0 {
		scheme = scheme[:i]
	}
	nestedScheme = scheme
	if i := strings.IndexByte(nestedScheme, '+'); i >= 0 {
		nestedScheme = nestedScheme[:i]
	}
	return scheme, nestedScheme
}

// StripScheme removes a leading "<scheme>://" or "<scheme>:" prefix from
// filename, if present. A transport's Open/Open2 sees either the original
// URL (no embedded options were present) or the bare remainder
// parseEmbeddedOptions left behind (options were present and already
// consumed) -- StripScheme lets a transport's path-extraction code ignore
// which case it got.
func StripScheme(filename, scheme string) string {
	if rest, ok := strings.CutPrefix(filename, scheme+"://"); ok {
		return rest
	}
	if rest, ok := strings.CutPrefix(filename, scheme+":"); ok {
		return rest
	}
	return filename
}

// hasEmbeddedOptions reports whether filename begins with "<scheme>," --
// i.e. the scheme region spec.md §4.2.2 step 4 describes includes an
// embedded option list -- and returns the index of that comma.
func hasEmbeddedOptions(filename, scheme string) (idx int, ok bool) {
	if !strings.HasPrefix(filename, scheme) {
		return 0, false
	}
	if len(filename) <= len(scheme) || filename[len(scheme)] != ',' {
		return 0, false
	}
	return len(scheme), true
}
