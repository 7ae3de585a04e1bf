// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// CompressionTag identifies the compression algorithm used for a
// stored snapshot payload. Tags are stored per row (1 byte each).
// These values are format constants — changing them breaks existing
// session databases.
type CompressionTag uint8

const (
	// CompressionNone indicates an uncompressed payload. Used when
	// compression would not shrink the data.
	CompressionNone CompressionTag = 0

	// CompressionLZ4 indicates LZ4 block compression. The default for
	// small payloads, where the autosave path should spend as little
	// CPU as possible.
	CompressionLZ4 CompressionTag = 1

	// CompressionZstd indicates zstd compression at the default
	// level. Used for payloads of zstdThreshold bytes or more, where
	// the better ratio pays for the extra CPU.
	CompressionZstd CompressionTag = 2
)

// zstdThreshold is the encoded payload size, in bytes, at which Save
// switches from LZ4 to zstd.
const zstdThreshold = 4096

// String returns the human-readable name of a compression tag.
func (tag CompressionTag) String() string {
	switch tag {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", tag)
	}
}

// zstdEncoder and zstdDecoder are reused across calls to avoid
// repeated initialization overhead. zstd.Encoder and zstd.Decoder
// are safe for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
	)
	if err != nil {
		panic("session: zstd encoder initialization failed: " + err.Error())
	}

	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("session: zstd decoder initialization failed: " + err.Error())
	}
}

// compressPayload compresses an encoded snapshot payload, choosing the
// algorithm by size. Returns the stored bytes and the tag recorded
// with them. Incompressible data is returned unchanged with
// CompressionNone.
func compressPayload(data []byte) ([]byte, CompressionTag, error) {
	if len(data) == 0 {
		return data, CompressionNone, nil
	}

	if len(data) < zstdThreshold {
		compressed, err := compressLZ4(data)
		if err != nil {
			if isIncompressible(err) {
				return data, CompressionNone, nil
			}
			return nil, 0, err
		}
		return compressed, CompressionLZ4, nil
	}

	compressed := zstdEncoder.EncodeAll(data, nil)
	if len(compressed) >= len(data) {
		return data, CompressionNone, nil
	}
	return compressed, CompressionZstd, nil
}

// decompressPayload reverses compressPayload. The rawSize must match
// the original payload length exactly — this is verified and a
// mismatch returns an error.
func decompressPayload(stored []byte, tag CompressionTag, rawSize int) ([]byte, error) {
	switch tag {
	case CompressionNone:
		if len(stored) != rawSize {
			return nil, fmt.Errorf("session: uncompressed payload is %d bytes, expected %d",
				len(stored), rawSize)
		}
		return stored, nil

	case CompressionLZ4:
		destination := make([]byte, rawSize)
		read, err := lz4.UncompressBlock(stored, destination)
		if err != nil {
			return nil, fmt.Errorf("session: lz4 decompress: %w", err)
		}
		if read != rawSize {
			return nil, fmt.Errorf("session: lz4 decompress: got %d bytes, expected %d", read, rawSize)
		}
		return destination, nil

	case CompressionZstd:
		destination := make([]byte, 0, rawSize)
		result, err := zstdDecoder.DecodeAll(stored, destination)
		if err != nil {
			return nil, fmt.Errorf("session: zstd decompress: %w", err)
		}
		if len(result) != rawSize {
			return nil, fmt.Errorf("session: zstd decompress: got %d bytes, expected %d", len(result), rawSize)
		}
		return result, nil

	default:
		return nil, fmt.Errorf("session: unsupported compression tag: %d", tag)
	}
}

func compressLZ4(data []byte) ([]byte, error) {
	// CompressBlockBound returns the maximum compressed size.
	bound := lz4.CompressBlockBound(len(data))
	destination := make([]byte, bound)

	written, err := lz4.CompressBlock(data, destination, nil)
	if err != nil {
		return nil, fmt.Errorf("session: lz4 compress: %w", err)
	}

	// CompressBlock returns 0 when it determines the data is
	// incompressible. We also check whether the compressed output is
	// actually smaller than the input — if not, compression is not
	// worthwhile.
	if written == 0 || written >= len(data) {
		return nil, errIncompressible
	}

	return destination[:written], nil
}

// errIncompressible is returned by compression functions when the
// compressed output is not smaller than the input. The caller falls
// back to CompressionNone.
var errIncompressible = fmt.Errorf("data is incompressible")

func isIncompressible(err error) bool {
	return err == errIncompressible
}
