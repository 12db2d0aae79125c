// Package anvil reads the Anvil region-file format for world bootstrap.
package anvil

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zlib"
)

const (
	sectorSize      = 4096
	maxLocations    = 1024
	compressionZlib = 2
)

var (
	// ErrNoChunk reports an absent chunk in the location table.
	ErrNoChunk = errors.New("anvil: chunk not found")
	// ErrInvalidChunkLength reports a chunk header longer than its sectors.
	ErrInvalidChunkLength = errors.New("anvil: invalid chunk length")
	// ErrInvalidCompression reports a compression tag other than zlib.
	ErrInvalidCompression = errors.New("anvil: invalid compression format")
)

// Region reads chunks out of one .mca region file. Not safe for concurrent
// use; callers serialize access.
type Region struct {
	source    io.ReadSeeker
	locations [maxLocations]uint32
}

// OpenRegion opens a region file from disk.
func OpenRegion(path string) (*Region, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open region file: %w", err)
	}
	r, err := NewRegion(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

// NewRegion reads the 4 KiB location table from source and keeps the
// source for chunk reads.
func NewRegion(source io.ReadSeeker) (*Region, error) {
	r := &Region{source: source}

	if _, err := source.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek location table: %w", err)
	}
	var table [sectorSize]byte
	if _, err := io.ReadFull(source, table[:]); err != nil {
		return nil, fmt.Errorf("read location table: %w", err)
	}
	for i := range r.locations {
		r.locations[i] = binary.BigEndian.Uint32(table[i*4:])
	}
	return r, nil
}

// locationIndex maps chunk coordinates into the table with Euclidean mod,
// so negative coordinates land in 0..31.
func locationIndex(x, z int) int {
	xm := ((x % 32) + 32) % 32
	zm := ((z % 32) + 32) % 32
	return xm + zm*32
}

// HasChunk reports whether the chunk at (x, z) exists in this region.
func (r *Region) HasChunk(x, z int) bool {
	return r.locations[locationIndex(x, z)]>>8 != 0
}

// ReadChunk returns a reader over the decompressed chunk NBT at (x, z).
func (r *Region) ReadChunk(x, z int) (io.Reader, error) {
	loc := r.locations[locationIndex(x, z)]
	sector := loc >> 8
	count := loc & 0xFF
	if sector == 0 {
		return nil, ErrNoChunk
	}

	if _, err := r.source.Seek(int64(sector)*sectorSize, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek chunk: %w", err)
	}

	raw := make([]byte, int(count)*sectorSize)
	if _, err := io.ReadFull(r.source, raw); err != nil {
		return nil, fmt.Errorf("read chunk sectors: %w", err)
	}

	br := bytes.NewReader(raw)
	var header struct {
		Length      int32
		Compression byte
	}
	if err := binary.Read(br, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("read chunk header: %w", err)
	}

	if int(header.Length) > len(raw)-5 {
		return nil, ErrInvalidChunkLength
	}
	if header.Compression != compressionZlib {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCompression, header.Compression)
	}

	return zlib.NewReader(io.LimitReader(br, int64(header.Length)))
}

// Close closes the underlying source when it is closable.
func (r *Region) Close() error {
	if closer, ok := r.source.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
