package codec_test

import (
	"testing"

	"github.com/sage-x-project/nngmux/codec"
	"github.com/stretchr/testify/require"
)

type foo struct {
	Greeting string `json:"greeting" cbor:"greeting" msgpack:"greeting"`
}

func TestRoundTripMatrix(t *testing.T) {
	val := foo{Greeting: "hello from the codec matrix, this is about a hundred bytes of ASCII payload for testing purposes"}

	kinds := []codec.Kind{codec.Bincode, codec.CBOR, codec.JSON}
	compressions := []codec.Compression{
		codec.CompressionNone, codec.Deflate, codec.Zlib, codec.Gzip, codec.Snappy, codec.Lz4,
	}

	for _, k := range kinds {
		for _, c := range compressions {
			enc := codec.Encoding{Kind: k, Compression: c}
			t.Run(enc.Kind.String(), func(t *testing.T) {
				data, err := codec.Encode(enc, val)
				require.NoError(t, err)

				var out foo
				require.NoError(t, codec.Decode(enc, data, &out))
				require.Equal(t, val, out)
			})
		}
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	enc := codec.Encoding{Kind: codec.JSON}
	var out foo
	err := codec.Decode(enc, []byte("{not json"), &out)
	require.Error(t, err)
	var decErr *codec.DecodingError
	require.ErrorAs(t, err, &decErr)
}
