package storage

import (
	"encoding/hex"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"

	"github.com/gimmeDG/UnrealEngine5-mcp/pkg/types"
)

// Snapshots are encoded as Core Deterministic CBOR (sorted map keys), then
// zstd compressed. The blake3 digest of the compressed blob is stored in the
// metadata, so the same catalog always yields the same blob and checksum.
var (
	encMode cbor.EncMode
	decMode cbor.DecMode

	// zstd encoders and decoders are safe for concurrent EncodeAll/DecodeAll
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("storage: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("storage: CBOR decoder initialization failed: " + err.Error())
	}

	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("storage: zstd encoder initialization failed: " + err.Error())
	}

	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("storage: zstd decoder initialization failed: " + err.Error())
	}
}

// EncodeSnapshot serializes snap and returns the blob with its checksum
func EncodeSnapshot(snap *Snapshot) (blob []byte, checksum string, err error) {
	raw, err := encMode.Marshal(snap)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode snapshot: %w", err)
	}
	blob = zstdEncoder.EncodeAll(raw, nil)
	return blob, Checksum(blob), nil
}

// sealSnapshot stamps the schema version, encodes snap, and records the
// checksum and counts in meta
func sealSnapshot(snap *Snapshot, meta *Metadata) ([]byte, error) {
	if snap.SchemaVersion == "" {
		snap.SchemaVersion = SnapshotSchemaVersion
	}

	blob, checksum, err := EncodeSnapshot(snap)
	if err != nil {
		return nil, err
	}
	meta.Checksum = checksum
	meta.SchemaVersion = snap.SchemaVersion
	meta.TotalFunctions = len(snap.Functions)
	meta.TotalClasses = len(snap.Classes)
	return blob, nil
}

// DecodeSnapshot verifies blob against checksum and deserializes it
func DecodeSnapshot(blob []byte, checksum string) (*Snapshot, error) {
	if got := Checksum(blob); got != checksum {
		return nil, fmt.Errorf("%w: checksum %s, expected %s", types.ErrCacheCorrupt, got, checksum)
	}

	raw, err := zstdDecoder.DecodeAll(blob, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd decompress: %v", types.ErrCacheCorrupt, err)
	}

	var snap Snapshot
	if err := decMode.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("%w: cbor decode: %v", types.ErrCacheCorrupt, err)
	}
	return &snap, nil
}

// Checksum returns the hex blake3-256 digest of blob
func Checksum(blob []byte) string {
	sum := blake3.Sum256(blob)
	return hex.EncodeToString(sum[:])
}
