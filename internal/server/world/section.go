package world

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/bits"

	mcnet "github.com/quarrymc/server/internal/server/net"
)

const (
	// SectionVolume is the number of block cells in one 16×16×16 section.
	SectionVolume = 4096

	// minBlockBits is the floor on bits-per-block for a non-uniform block
	// palette; biome palettes have no floor.
	minBlockBits = 4

	// maxPaletteBits bounds a section-local palette. Growth past this is a
	// logic violation.
	maxPaletteBits = 16

	// plainsBiome is the biome registry id every new section is seeded with.
	plainsBiome = 1
)

// Section stores 4096 blocks as an ordered palette of global state ids plus
// palette indices packed LSB-first into 64-bit words. Entries never straddle
// a word; the unused high bits are padding. A section with at most one
// palette entry is uniform and carries no packed data.
//
// Sections are not internally locked; the owning dimension's mutex guards
// mutation (the repack in SetBlock rewrites every word).
type Section struct {
	bitsPerBlock uint8
	palette      []uint16
	data         []uint64

	biomeBits    uint8
	biomePalette []uint16
	biomeData    []uint64
}

// NewSection returns an empty section: no block palette, uniform air reads,
// and a biome palette pre-seeded with plains.
func NewSection() *Section {
	return &Section{
		biomePalette: []uint16{plainsBiome},
	}
}

// Block returns the global state id at section-local coordinates in 0..16.
func (s *Section) Block(x, y, z int) uint16 {
	checkCoords(x, y, z)

	if s.bitsPerBlock == 0 {
		if len(s.palette) == 0 {
			return 0
		}
		return s.palette[0]
	}

	idx := s.index(x, y, z, s.bitsPerBlock)
	return s.palette[idx]
}

// SetBlock writes a global state id at section-local coordinates, growing
// the palette and repacking at a wider bits-per-block when needed.
func (s *Section) SetBlock(x, y, z int, state uint16) {
	checkCoords(x, y, z)

	// A fresh section reads as uniform air; materialize that before the
	// palette grows so untouched cells keep their value.
	if len(s.palette) == 0 {
		s.palette = append(s.palette, 0)
	}

	// Uniform section staying uniform.
	if s.bitsPerBlock == 0 && s.palette[0] == state {
		return
	}

	pi := s.paletteIndex(state)

	if need := paletteBits(len(s.palette)); need > s.bitsPerBlock {
		s.repack(need)
	}

	s.put(x, y, z, uint64(pi))
}

// paletteIndex returns the palette slot for state, appending on miss.
func (s *Section) paletteIndex(state uint16) int {
	for i, p := range s.palette {
		if p == state {
			return i
		}
	}
	s.palette = append(s.palette, state)
	return len(s.palette) - 1
}

// paletteBits is the bits-per-block a palette of n entries requires:
// 0 for n ≤ 1, otherwise max(4, ceil(log2(n))).
func paletteBits(n int) uint8 {
	if n <= 1 {
		return 0
	}
	b := uint8(bits.Len(uint(n - 1)))
	if b < minBlockBits {
		b = minBlockBits
	}
	if b > maxPaletteBits {
		panic(fmt.Sprintf("section palette grew past %d bits (%d entries)", maxPaletteBits, n))
	}
	return b
}

// repack widens the packed array to newBits, preserving every entry. The
// current contents are unpacked into a scratch buffer at the old width
// first; a bits-per-block of zero unpacks as all zeros.
func (s *Section) repack(newBits uint8) {
	var scratch [SectionVolume]uint16
	if s.bitsPerBlock > 0 {
		perLong := 64 / int(s.bitsPerBlock)
		mask := uint64(1)<<s.bitsPerBlock - 1
		for i := range SectionVolume {
			word := s.data[i/perLong]
			shift := uint((i % perLong) * int(s.bitsPerBlock))
			scratch[i] = uint16(word >> shift & mask)
		}
	}

	s.bitsPerBlock = newBits
	perLong := 64 / int(newBits)
	s.data = make([]uint64, (SectionVolume+perLong-1)/perLong)
	for i, v := range scratch {
		word := &s.data[i/perLong]
		shift := uint((i % perLong) * int(newBits))
		*word |= uint64(v) << shift
	}
}

// index reads the palette index stored at (x, y, z).
func (s *Section) index(x, y, z int, bpb uint8) uint64 {
	i := x + z*16 + y*256
	perLong := 64 / int(bpb)
	shift := uint((i % perLong) * int(bpb))
	mask := uint64(1)<<bpb - 1
	return s.data[i/perLong] >> shift & mask
}

// put writes a palette index at (x, y, z) with a shift+mask merge.
func (s *Section) put(x, y, z int, v uint64) {
	i := x + z*16 + y*256
	bpb := int(s.bitsPerBlock)
	perLong := 64 / bpb
	shift := uint((i % perLong) * bpb)
	mask := uint64(1)<<s.bitsPerBlock - 1
	word := &s.data[i/perLong]
	*word = *word&^(mask<<shift) | v<<shift
}

// EncodeTo writes the section in the chunk-data wire form: non-air count,
// then the block and biome paletted containers.
func (s *Section) EncodeTo(w io.Writer) error {
	// Conservative upper bound; clients accept it.
	if err := binary.Write(w, binary.BigEndian, int16(SectionVolume)); err != nil {
		return fmt.Errorf("write block count: %w", err)
	}

	blockPalette := s.palette
	if len(blockPalette) == 0 {
		// An empty palette with zero bits-per-block is not encodable;
		// a fresh section serializes as uniform air.
		blockPalette = []uint16{0}
	}
	if err := encodeContainer(w, s.bitsPerBlock, blockPalette, s.data); err != nil {
		return fmt.Errorf("write block container: %w", err)
	}
	if err := encodeContainer(w, s.biomeBits, s.biomePalette, s.biomeData); err != nil {
		return fmt.Errorf("write biome container: %w", err)
	}
	return nil
}

// encodeContainer writes one paletted container: bits-per-entry byte,
// VarInt palette, VarInt-counted big-endian words.
func encodeContainer(w io.Writer, bpe uint8, palette []uint16, data []uint64) error {
	if _, err := w.Write([]byte{bpe}); err != nil {
		return err
	}
	if _, err := mcnet.WriteVarInt(w, int32(len(palette))); err != nil {
		return err
	}
	for _, p := range palette {
		if _, err := mcnet.WriteVarInt(w, int32(p)); err != nil {
			return err
		}
	}
	if _, err := mcnet.WriteVarInt(w, int32(len(data))); err != nil {
		return err
	}
	for _, word := range data {
		if err := binary.Write(w, binary.BigEndian, word); err != nil {
			return err
		}
	}
	return nil
}

func checkCoords(x, y, z int) {
	if x < 0 || x >= 16 || y < 0 || y >= 16 || z < 0 || z >= 16 {
		panic(fmt.Sprintf("section coordinates out of range: (%d, %d, %d)", x, y, z))
	}
}
