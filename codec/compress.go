package codec

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"

	"github.com/golang/snappy"
	"github.com/pierrec/lz4/v4"
)

// Compression names the optional compression pass applied after serialization.
type Compression int

const (
	// CompressionNone performs no compression.
	CompressionNone Compression = iota
	Deflate
	Zlib
	Gzip
	Snappy
	Lz4
)

func compress(c Compression, raw []byte) ([]byte, error) {
	switch c {
	case CompressionNone:
		return raw, nil
	case Deflate:
		var buf bytes.Buffer
		w, err := flate.NewWriter(&buf, flate.DefaultCompression)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(raw); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case Zlib:
		var buf bytes.Buffer
		w := zlib.NewWriter(&buf)
		if _, err := w.Write(raw); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case Gzip:
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(raw); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case Snappy:
		// Snappy's library contract gives an upper bound on the encoded size
		// up front; Encode writes into dst when its length is at least that.
		return snappy.Encode(make([]byte, snappy.MaxEncodedLen(len(raw))), raw), nil
	case Lz4:
		buf := make([]byte, 0, len(raw)/2+64)
		w := bytes.NewBuffer(buf)
		zw := lz4.NewWriter(w)
		if _, err := zw.Write(raw); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return w.Bytes(), nil
	default:
		return nil, fmt.Errorf("codec: unknown compression %d", c)
	}
}

func decompress(c Compression, data []byte) ([]byte, error) {
	switch c {
	case CompressionNone:
		return data, nil
	case Deflate:
		r := flate.NewReader(bytes.NewReader(data))
		defer r.Close()
		return io.ReadAll(r)
	case Zlib:
		r, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	case Gzip:
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	case Snappy:
		n, err := snappy.DecodedLen(data)
		if err != nil {
			return nil, err
		}
		return snappy.Decode(make([]byte, n), data)
	case Lz4:
		r := lz4.NewReader(bytes.NewReader(data))
		return io.ReadAll(r)
	default:
		return nil, fmt.Errorf("codec: unknown compression %d", c)
	}
}
