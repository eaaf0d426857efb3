// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package avio

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

// parseEmbeddedOptions implements spec.md §4.2.3: a "scheme,key=value,key=value...:rest"
// tail embedded in a URL -- spec.md's own worked example (S5) is
// "udp,ttl=7,pkt_size=1316://host:1234", where '=' separates a key from its
// value and ',' separates one pair from the next. commaIdx is the index of
// the comma that follows scheme (as returned by hasEmbeddedOptions). It
// applies each key/value pair to priv via schema and returns rest --
// everything after the option list's ':' terminator, minus a leading "//"
// (so the example above yields "host:1234") -- which is what the transport's
// Open/Open2 actually sees as ctx.Filename.
//
// Unknown keys are logged and skipped (collected into a returned
// *multierror.Error for callers that want the full list) rather than
// aborting the parse; a malformed pair -- one that can't find its '=', or a
// value with no ',' or ':' after it, or a key the schema rejects -- aborts
// with ErrInvalid.
func parseEmbeddedOptions(filename, scheme string, commaIdx int, schema OptionSchema, priv any) (string, error) {
	if commaIdx+1 >= len(filename) {
		return "", fmt.Errorf("%w: empty embedded option list", ErrInvalid)
	}
	p := commaIdx + 1

	var unknown *multierror.Error

	for {
		keyEnd := strings.IndexByte(filename[p:], '=')
		if keyEnd < 0 {
			return "", fmt.Errorf("%w: embedded option key missing '='", ErrInvalid)
		}
		keyEnd += p
		key := filename[p:keyEnd]

		valStart := keyEnd + 1
		rel := filename[valStart:]
		commaIdx2 := strings.IndexByte(rel, ',')
		colonIdx := strings.IndexByte(rel, ':')

		var valEnd int
		var terminal bool
		switch {
		case colonIdx < 0:
			return "", fmt.Errorf("%w: embedded option list missing ':' terminator", ErrInvalid)
		case commaIdx2 >= 0 && commaIdx2 < colonIdx:
			valEnd = valStart + commaIdx2
		default:
			valEnd = valStart + colonIdx
			terminal = true
		}
		value := filename[valStart:valEnd]

		if err := applyEmbeddedOption(schema, priv, key, value, &unknown); err != nil {
			return "", err
		}

		if terminal {
			rest := strings.TrimPrefix(filename[valEnd+1:], "//")
			if unknown != nil {
				return rest, unknown.ErrorOrNil()
			}
			return rest, nil
		}
		p = valEnd + 1
	}
}

func applyEmbeddedOption(schema OptionSchema, priv any, key, value string, unknown **multierror.Error) error {
	if schema == nil || !schemaHasKey(schema, key) {
		Logger.WithFields(logrus.Fields{"key": key, "value": value}).Error("avio: unknown embedded option key")
		*unknown = multierror.Append(*unknown, fmt.Errorf("unknown embedded option key %q", key))
		return nil
	}
	if err := schema.Set(priv, key, value); err != nil {
		return fmt.Errorf("%w: embedded option %q: %v", ErrInvalid, key, err)
	}
	return nil
}

func schemaHasKey(schema OptionSchema, key string) bool {
	for _, k := range schema.Keys() {
		if k == key {
			return true
		}
	}
	return false
}
