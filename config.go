// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package avio

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config carries the tunables the original C implementation hardcodes as
// preprocessor constants (IO_BUFFER_SIZE, SHORT_SEEK_THRESHOLD,
// FF_INPUT_BUFFER_PADDING_SIZE, and the retry loop's fast-retry budget).
type Config struct {
	// IOBufferSize is the default buffered-stream capacity used by
	// NewBufferedStreamFromURLContext when the URLContext has no declared
	// MaxPacketSize. Mirrors IO_BUFFER_SIZE (32768).
	IOBufferSize int `yaml:"io_buffer_size"`

	// ShortSeekThreshold bounds how far ahead of the buffer a forward seek
	// may fall and still be satisfied by reading-and-discarding instead of
	// calling the transport's seek. Mirrors SHORT_SEEK_THRESHOLD (4096).
	ShortSeekThreshold int64 `yaml:"short_seek_threshold"`

	// InputPaddingSize is appended as zero bytes to a continuous dynamic
	// buffer on close. Mirrors FF_INPUT_BUFFER_PADDING_SIZE (16).
	InputPaddingSize int `yaml:"input_padding_size"`

	// FastRetryBudget is how many consecutive WouldBlock results the retry
	// loop absorbs before falling back to a timed sleep.
	FastRetryBudget int `yaml:"fast_retry_budget"`

	// DynBufInitialSize is the inline write-staging buffer size for an
	// in-memory dynamic buffer when no max packet size is given.
	DynBufInitialSize int `yaml:"dyn_buf_initial_size"`
}

// DefaultConfig matches the constants the original hardcodes.
var DefaultConfig = Config{
	IOBufferSize:       32768,
	ShortSeekThreshold: 4096,
	InputPaddingSize:   16,
	FastRetryBudget:    5,
	DynBufInitialSize:  1024,
}

// LoadConfig reads an optional YAML overlay and returns a Config seeded from
// DefaultConfig with any present fields overridden. A missing file is not an
// error; DefaultConfig is returned unchanged.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
