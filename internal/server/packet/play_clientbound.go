package packet

import (
	"bytes"
	"encoding/binary"

	"github.com/bits-and-blooms/bitset"
	mcnet "github.com/quarrymc/server/internal/server/net"
)

// Clientbound play packets, 1.18.2 wire ids.

// SpawnPlayer announces another player's entity (clientbound 0x04).
type SpawnPlayer struct {
	EntityID int32    `mc:"varint"`
	UUID     [16]byte `mc:"uuid"`
	X        float64  `mc:"f64"`
	Y        float64  `mc:"f64"`
	Z        float64  `mc:"f64"`
	Yaw      uint8    `mc:"u8"`
	Pitch    uint8    `mc:"u8"`
}

func (SpawnPlayer) PacketID() int32 { return 0x04 }

// BlockUpdate announces one block change (clientbound 0x0C).
type BlockUpdate struct {
	Location   int64 `mc:"position"`
	BlockState int32 `mc:"varint"`
}

func (BlockUpdate) PacketID() int32 { return 0x0C }

// KeepAliveClientbound probes connection liveness (clientbound 0x21).
type KeepAliveClientbound struct {
	ID int64 `mc:"i64"`
}

func (KeepAliveClientbound) PacketID() int32 { return 0x21 }

// ChunkDataAndLight carries a full chunk plus its light arrays
// (clientbound 0x22). Heightmaps is a pre-serialized NBT compound; Data is
// the concatenated section encoding; Tail is the block-entity list and
// light sub-payload built by BuildChunkTail.
type ChunkDataAndLight struct {
	ChunkX     int32  `mc:"i32"`
	ChunkZ     int32  `mc:"i32"`
	Heightmaps []byte `mc:"nbt"`
	Data       []byte `mc:"bytearray"`
	Tail       []byte `mc:"rest"`
}

func (ChunkDataAndLight) PacketID() int32 { return 0x22 }

// BuildChunkTail builds the block-entity and light portion of
// ChunkDataAndLight for a chunk with no block entities and no transmitted
// light sections. All four light masks are empty (sized for sectionCount
// sections plus the slice below and above the world), so each encodes as
// zero words.
func BuildChunkTail(sectionCount int) []byte {
	var buf bytes.Buffer

	_, _ = mcnet.WriteVarInt(&buf, 0) // no block entities
	buf.WriteByte(1)                  // trust edges

	empty := bitset.New(uint(sectionCount + 2))
	writeBitSet(&buf, empty) // sky light mask
	writeBitSet(&buf, empty) // block light mask
	writeBitSet(&buf, empty) // empty sky light mask
	writeBitSet(&buf, empty) // empty block light mask

	_, _ = mcnet.WriteVarInt(&buf, 0) // sky light arrays
	_, _ = mcnet.WriteVarInt(&buf, 0) // block light arrays

	return buf.Bytes()
}

// writeBitSet emits a protocol BitSet: VarInt word count, then the words.
// An all-zero set compacts to zero words.
func writeBitSet(buf *bytes.Buffer, s *bitset.BitSet) {
	words := s.Bytes()
	for len(words) > 0 && words[len(words)-1] == 0 {
		words = words[:len(words)-1]
	}
	_, _ = mcnet.WriteVarInt(buf, int32(len(words)))
	for _, w := range words {
		_ = binary.Write(buf, binary.BigEndian, w)
	}
}

// JoinGame starts the play state (clientbound 0x26). DimensionCodec and
// Dimension are pre-serialized NBT compounds.
type JoinGame struct {
	EntityID           int32    `mc:"i32"`
	Hardcore           bool     `mc:"bool"`
	GameMode           uint8    `mc:"u8"`
	PrevGameMode       int8     `mc:"i8"`
	WorldCount         int32    `mc:"varint"`
	WorldNames         []string `mc:"stringseq"`
	DimensionCodec     []byte   `mc:"nbt"`
	Dimension          []byte   `mc:"nbt"`
	WorldName          string   `mc:"string"`
	HashedSeed         int64    `mc:"i64"`
	MaxPlayers         int32    `mc:"varint"`
	ViewDistance       int32    `mc:"varint"`
	SimulationDistance int32    `mc:"varint"`
	ReducedDebugInfo   bool     `mc:"bool"`
	RespawnScreen      bool     `mc:"bool"`
	IsDebug            bool     `mc:"bool"`
	IsFlat             bool     `mc:"bool"`
}

func (JoinGame) PacketID() int32 { return 0x26 }

// GameMode constants.
const (
	GameModeSurvival  uint8 = 0
	GameModeCreative  uint8 = 1
	GameModeAdventure uint8 = 2
	GameModeSpectator uint8 = 3
)

// UpdateEntityPosition moves an entity by a bounded relative delta
// (clientbound 0x29). Deltas are fixed-point (cur·32 − prev·32)/128
// truncated to i16.
type UpdateEntityPosition struct {
	EntityID int32 `mc:"varint"`
	DeltaX   int16 `mc:"i16"`
	DeltaY   int16 `mc:"i16"`
	DeltaZ   int16 `mc:"i16"`
	OnGround bool  `mc:"bool"`
}

func (UpdateEntityPosition) PacketID() int32 { return 0x29 }

// PlayerInfo updates the tab list (clientbound 0x36). Data is a pre-built
// action payload.
type PlayerInfo struct {
	Data []byte `mc:"rest"`
}

func (PlayerInfo) PacketID() int32 { return 0x36 }

// BuildPlayerInfoAdd builds a PlayerInfo payload with action 0 (add player)
// and a single entry with no properties.
func BuildPlayerInfoAdd(uuid [16]byte, name string, gameMode uint8) []byte {
	var buf bytes.Buffer

	_, _ = mcnet.WriteVarInt(&buf, 0) // action: add player
	_, _ = mcnet.WriteVarInt(&buf, 1) // count
	buf.Write(uuid[:])
	_, _ = mcnet.WriteString(&buf, name)
	_, _ = mcnet.WriteVarInt(&buf, 0) // properties
	_, _ = mcnet.WriteVarInt(&buf, int32(gameMode))
	_, _ = mcnet.WriteVarInt(&buf, 0) // ping
	buf.WriteByte(0)                  // no display name

	return buf.Bytes()
}

// BuildPlayerInfoRemove builds a PlayerInfo payload with action 4 (remove).
func BuildPlayerInfoRemove(uuid [16]byte) []byte {
	var buf bytes.Buffer

	_, _ = mcnet.WriteVarInt(&buf, 4)
	_, _ = mcnet.WriteVarInt(&buf, 1)
	buf.Write(uuid[:])

	return buf.Bytes()
}

// SynchronizePlayerPosition teleports the client (clientbound 0x38).
type SynchronizePlayerPosition struct {
	X               float64 `mc:"f64"`
	Y               float64 `mc:"f64"`
	Z               float64 `mc:"f64"`
	Yaw             float32 `mc:"f32"`
	Pitch           float32 `mc:"f32"`
	Flags           int8    `mc:"i8"`
	TeleportID      int32   `mc:"varint"`
	DismountVehicle bool    `mc:"bool"`
}

func (SynchronizePlayerPosition) PacketID() int32 { return 0x38 }
