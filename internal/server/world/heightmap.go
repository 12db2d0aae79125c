package world

import (
	"bytes"

	"github.com/quarrymc/server/internal/server/nbt"
)

// heightBits is the bit width of one heightmap entry; seven of them pack
// into each long, so 256 columns need 37 longs.
const (
	heightBits      = 9
	heightsPerLong  = 64 / heightBits
	heightmapLongs  = (256 + heightsPerLong - 1) / heightsPerLong
	heightmapTagKey = "MOTION_BLOCKING"
)

// MotionBlockingNBT synthesizes the heightmap compound for chunk data,
// filling all 256 columns with a single height relative to the chunk floor.
func MotionBlockingNBT(height int) []byte {
	longs := make([]int64, heightmapLongs)

	var col int
	for i := range longs {
		var word uint64
		for j := 0; j < heightsPerLong && col < 256; j++ {
			word |= (uint64(height) & (1<<heightBits - 1)) << (j * heightBits)
			col++
		}
		longs[i] = int64(word)
	}

	var buf bytes.Buffer
	w := nbt.NewWriter(&buf)
	w.BeginCompound("")
	w.WriteLongArray(heightmapTagKey, longs)
	w.EndCompound()
	if w.Err() != nil {
		// Writes to a bytes.Buffer cannot fail.
		panic(w.Err())
	}
	return buf.Bytes()
}
