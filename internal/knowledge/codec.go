package knowledge

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
)

// snapshotVersion is bumped whenever the persisted layout changes.
const snapshotVersion = 1

type snapshot struct {
	Version   int     `cbor:"1,keyasint"`
	Category  string  `cbor:"2,keyasint"`
	Model     string  `cbor:"3,keyasint"`
	Dimension int     `cbor:"4,keyasint"`
	Chunks    []Chunk `cbor:"5,keyasint"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode

	zencoder *zstd.Encoder
	zdecoder *zstd.Decoder
)

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("knowledge: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("knowledge: CBOR decoder initialization failed: " + err.Error())
	}

	zencoder, err = zstd.NewWriter(nil)
	if err != nil {
		panic("knowledge: zstd encoder initialization failed: " + err.Error())
	}

	zdecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("knowledge: zstd decoder initialization failed: " + err.Error())
	}
}

// Encode serializes idx as zstd-compressed deterministic CBOR.
func Encode(idx *Index) ([]byte, error) {
	raw, err := encMode.Marshal(snapshot{
		Version:   snapshotVersion,
		Category:  idx.category,
		Model:     idx.model,
		Dimension: idx.dimension,
		Chunks:    idx.chunks,
	})
	if err != nil {
		return nil, fmt.Errorf("encode index %s: %w", idx.category, err)
	}
	return zencoder.EncodeAll(raw, nil), nil
}

// Decode reconstructs an Index from bytes produced by Encode.
func Decode(data []byte) (*Index, error) {
	raw, err := zdecoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress index: %w", err)
	}

	var snap snapshot
	if err := decMode.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}

	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("decode index %s: unsupported snapshot version %d", snap.Category, snap.Version)
	}

	idx, err := NewIndex(snap.Category, snap.Model, snap.Chunks)
	if err != nil {
		return nil, fmt.Errorf("decode index %s: %w", snap.Category, err)
	}
	if idx.dimension != snap.Dimension {
		return nil, fmt.Errorf(
			"%w: snapshot %s declares %d dimensions, chunks carry %d",
			ErrDimensionMismatch, snap.Category, snap.Dimension, idx.dimension,
		)
	}

	return idx, nil
}
