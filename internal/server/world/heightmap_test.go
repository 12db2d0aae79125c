package world

import (
	"testing"

	"github.com/quarrymc/server/internal/server/nbt"
)

func TestMotionBlockingNBT(t *testing.T) {
	blob := MotionBlockingNBT(70)

	r := nbt.NewReader(blob)
	root, err := r.Next()
	if err != nil || root.Type != nbt.TagCompound {
		t.Fatalf("root = %+v (%v), want compound", root, err)
	}

	tok, err := r.Next()
	if err != nil {
		t.Fatal(err)
	}
	if tok.Type != nbt.TagLongArray || tok.Name != "MOTION_BLOCKING" {
		t.Fatalf("first tag = %+v, want MOTION_BLOCKING long array", tok)
	}

	longs := tok.Longs.Materialize()
	if len(longs) != 37 {
		t.Fatalf("heightmap has %d longs, want 37", len(longs))
	}

	// Every 9-bit column slot holds the same height.
	col := 0
	for _, word := range longs {
		w := uint64(word)
		for j := 0; j < 7 && col < 256; j++ {
			h := w >> (j * 9) & 0x1FF
			if h != 70 {
				t.Fatalf("column %d height = %d, want 70", col, h)
			}
			col++
		}
	}
	if col != 256 {
		t.Fatalf("decoded %d columns, want 256", col)
	}

	end, err := r.Next()
	if err != nil || end.Type != nbt.TagEnd {
		t.Fatalf("trailing tag = %+v (%v), want End", end, err)
	}
}
