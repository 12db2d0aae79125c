package world

import (
	"bytes"
	"testing"
)

func TestChunkBlockAcrossSections(t *testing.T) {
	c := NewChunk(ChunkPos{X: 3, Z: -2}, 0, WorldSections)

	cases := []struct {
		x, y, z int
		state   uint16
	}{
		{0, 0, 0, 14},    // bedrock, section 0
		{5, 17, 9, 1},    // stone, section 1
		{15, 255, 15, 2}, // granite, top section
	}

	for _, tc := range cases {
		c.SetBlock(tc.x, tc.y, tc.z, tc.state)
	}
	for _, tc := range cases {
		if got := c.Block(tc.x, tc.y, tc.z); got != tc.state {
			t.Errorf("Block(%d,%d,%d) = %d, want %d", tc.x, tc.y, tc.z, got, tc.state)
		}
	}
	if got := c.Block(0, 100, 0); got != 0 {
		t.Errorf("untouched cell = %d, want air", got)
	}
}

func TestChunkNegativeSectionStart(t *testing.T) {
	c := NewChunk(ChunkPos{}, -4, 24)

	c.SetBlock(0, -64, 0, 14)
	c.SetBlock(0, -1, 0, 1)
	if got := c.Block(0, -64, 0); got != 14 {
		t.Errorf("Block(0,-64,0) = %d, want 14", got)
	}
	if got := c.Block(0, -1, 0); got != 1 {
		t.Errorf("Block(0,-1,0) = %d, want 1", got)
	}
	if c.MinY() != -64 || c.Height() != 384 {
		t.Errorf("bounds = [%d, %d), want [-64, 320)", c.MinY(), c.MinY()+c.Height())
	}
}

func TestChunkOutOfBoundsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("out-of-range y did not panic")
		}
	}()
	NewChunk(ChunkPos{}, 0, 16).Block(0, 256, 0)
}

func TestChunkEncodeConcatenatesSections(t *testing.T) {
	c := NewChunk(ChunkPos{}, 0, 2)
	c.SetBlock(0, 0, 0, 1)

	var whole bytes.Buffer
	if err := c.EncodeTo(&whole); err != nil {
		t.Fatalf("EncodeTo: %v", err)
	}

	var first, second bytes.Buffer
	if err := c.Sections[0].EncodeTo(&first); err != nil {
		t.Fatal(err)
	}
	if err := c.Sections[1].EncodeTo(&second); err != nil {
		t.Fatal(err)
	}

	want := append(first.Bytes(), second.Bytes()...)
	if !bytes.Equal(whole.Bytes(), want) {
		t.Error("chunk encoding is not the concatenation of its sections")
	}
}

func TestSurfaceHeight(t *testing.T) {
	if got := NewChunk(ChunkPos{}, 0, WorldSections).SurfaceHeight(); got != 0 {
		t.Errorf("empty chunk surface = %d, want 0", got)
	}

	// Flat chunk: grass at Y 64, so columns are 65 blocks tall.
	if got := FlatChunk(ChunkPos{}).SurfaceHeight(); got != 65 {
		t.Errorf("flat chunk surface = %d, want 65", got)
	}

	// The scan is relative to the chunk floor, not absolute Y.
	c := NewChunk(ChunkPos{}, -4, 24)
	c.SetBlock(0, -60, 0, 1)
	if got := c.SurfaceHeight(); got != 5 {
		t.Errorf("negative-floor surface = %d, want 5", got)
	}
}

func TestFlatChunkSurface(t *testing.T) {
	c := FlatChunk(ChunkPos{})

	if got := c.Block(0, 0, 0); got != 14 {
		t.Errorf("floor = %d, want bedrock (14)", got)
	}
	if got := c.Block(8, 30, 8); got != 10 {
		t.Errorf("fill = %d, want dirt (10)", got)
	}
	if got := c.Block(0, 64, 0); got != 9 {
		t.Errorf("surface = %d, want grass_block default (9)", got)
	}
	if got := c.Block(0, 65, 0); got != 0 {
		t.Errorf("above surface = %d, want air", got)
	}
	if c.Status != StatusFull {
		t.Errorf("status = %q, want full", c.Status)
	}
}
