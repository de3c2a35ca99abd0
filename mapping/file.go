// SPDX-License-Identifier: MIT

package mapping

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/katalvlaran/quboembed/chimera"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec names a weight-file compression.
type Codec string

const (
	CodecPlain Codec = "plain"
	CodecZstd  Codec = "zstd"
	CodecLZ4   Codec = "lz4"
)

// CodecFor picks the codec from the file extension.
func CodecFor(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		return CodecZstd
	case ".lz4":
		return CodecLZ4
	default:
		return CodecPlain
	}
}

// compressor returns a writer compressing into w plus the closer that
// flushes the compressed stream; the closer does not close w.
func compressor(c Codec, w io.Writer) (io.Writer, func() error, error) {
	switch c {
	case CodecZstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, nil, err
		}
		return enc, enc.Close, nil
	case CodecLZ4:
		zw := lz4.NewWriter(w)
		return zw, zw.Close, nil
	default:
		return w, func() error { return nil }, nil
	}
}

// decompressor wraps r according to c; the closer releases decoder state.
func decompressor(c Codec, r io.Reader) (io.Reader, func(), error) {
	switch c {
	case CodecZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return dec, dec.Close, nil
	case CodecLZ4:
		return lz4.NewReader(r), func() {}, nil
	default:
		return r, func() {}, nil
	}
}

// WriteFile encodes m into path, compressed according to its extension.
func WriteFile(path, description string, m *Mapping) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	w, closeCodec, err := compressor(CodecFor(path), f)
	if err != nil {
		return err
	}
	if err = m.Encode(w, description); err != nil {
		return errors.Join(err, closeCodec())
	}
	return closeCodec()
}

// ReadFile decodes the weight file at path.
func ReadFile(path string) (string, []Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	r, release, err := decompressor(CodecFor(path), f)
	if err != nil {
		return "", nil, err
	}
	defer release()
	return Decode(r)
}

// LoadFile reads the weight file at path and rebuilds its table over topo.
func LoadFile(topo chimera.Topology, path string) (*Mapping, string, error) {
	description, entries, err := ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	m, err := FromEntries(topo, entries)
	if err != nil {
		return nil, "", err
	}
	return m, description, nil
}
