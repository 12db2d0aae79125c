package world

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/quarrymc/server/internal/server/catalog"
	mcnet "github.com/quarrymc/server/internal/server/net"
	"github.com/quarrymc/server/internal/server/packet"
	"github.com/quarrymc/server/internal/server/player"
)

// TickInterval is the world simulation cadence.
const TickInterval = 50 * time.Millisecond

// SpawnY is the height players are synchronized to on join.
const SpawnY = 70

// BlockPos is a world-space block position.
type BlockPos struct {
	X, Y, Z int
}

// Dimension owns a set of loaded chunks and the queue of scheduled block
// ticks. Its mutex is the lock for all chunk mutation.
type Dimension struct {
	mu        sync.Mutex
	Name      string
	chunks    []*Chunk
	scheduled []BlockPos
}

// NewDimension creates an empty dimension.
func NewDimension(name string) *Dimension {
	return &Dimension{Name: name}
}

// AddChunk registers a loaded chunk.
func (d *Dimension) AddChunk(c *Chunk) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.chunks = append(d.chunks, c)
}

// Chunk returns the loaded chunk at the given chunk coordinates, or nil.
func (d *Dimension) Chunk(cx, cz int32) *Chunk {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.chunkLocked(cx, cz)
}

func (d *Dimension) chunkLocked(cx, cz int32) *Chunk {
	for _, c := range d.chunks {
		if c.Pos.X == cx && c.Pos.Z == cz {
			return c
		}
	}
	return nil
}

// Block reads a block; unloaded positions read as air.
func (d *Dimension) Block(pos BlockPos) uint16 {
	d.mu.Lock()
	defer d.mu.Unlock()

	c := d.chunkLocked(int32(pos.X>>4), int32(pos.Z>>4))
	if c == nil || pos.Y < c.MinY() || pos.Y >= c.MinY()+c.Height() {
		return 0
	}
	return c.Block(pos.X&0xF, pos.Y, pos.Z&0xF)
}

// SetBlock writes a block into a loaded chunk. Writes outside loaded
// chunks are dropped with a false return.
func (d *Dimension) SetBlock(pos BlockPos, state uint16) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	c := d.chunkLocked(int32(pos.X>>4), int32(pos.Z>>4))
	if c == nil || pos.Y < c.MinY() || pos.Y >= c.MinY()+c.Height() {
		return false
	}
	c.SetBlock(pos.X&0xF, pos.Y, pos.Z&0xF, state)
	return true
}

// ScheduleTick queues a neighbor-update pass around pos for the next tick.
func (d *Dimension) ScheduleTick(pos BlockPos) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scheduled = append(d.scheduled, pos)
}

type updateKind int

const (
	updBlockChange updateKind = iota
	updPlayerJoin
	updPlayerVisible
	updPlayerMove
)

type update struct {
	kind  updateKind
	src   *player.Player
	pos   BlockPos
	state uint16
}

type ingressEntry struct {
	pkt mcnet.Packet
	src *player.Player
}

// Manager is the per-process world: dimensions, the player roster, the
// client ingress queue, and the tick loop that drains one into the other.
type Manager struct {
	log       *slog.Logger
	Overworld *Dimension

	mu      sync.Mutex
	roster  []*player.Player
	ingress []ingressEntry
	updates []update
}

// NewManager creates a world manager around a bootstrap overworld chunk.
func NewManager(log *slog.Logger, bootstrap *Chunk) *Manager {
	dim := NewDimension("minecraft:overworld")
	dim.AddChunk(bootstrap)
	return &Manager{
		log:       log.With("component", "world"),
		Overworld: dim,
	}
}

// FlatChunk synthesizes the bootstrap chunk used when no region file is
// configured: bedrock floor, dirt fill, grass surface at Y 64.
func FlatChunk(pos ChunkPos) *Chunk {
	c := NewChunk(pos, WorldMinY/16, WorldSections)
	c.Status = StatusFull

	bedrock := catalog.DefaultID(catalog.KindBedrock)
	dirt := catalog.DefaultID(catalog.KindDirt)
	grass := catalog.DefaultID(catalog.KindGrassBlock)

	for x := range 16 {
		for z := range 16 {
			c.SetBlock(x, 0, z, bedrock)
			for y := 1; y < 64; y++ {
				c.SetBlock(x, y, z, dirt)
			}
			c.SetBlock(x, 64, z, grass)
		}
	}
	return c
}

// Enqueue adds a client packet to the ingress queue for the next tick.
func (m *Manager) Enqueue(src *player.Player, pkt mcnet.Packet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ingress = append(m.ingress, ingressEntry{pkt: pkt, src: src})
}

// Run drives the tick loop until the context is cancelled.
func (m *Manager) Run(ctx context.Context) {
	for {
		start := time.Now()

		m.Tick()

		elapsed := time.Since(start)
		if elapsed >= TickInterval {
			m.log.Debug("tick overran its interval", "elapsed", elapsed)
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(TickInterval - elapsed):
		}
	}
}

// Tick runs one 50 ms world step: chunk ticks and scheduled block updates,
// then the ingress queue, then the outbound fan-out. Every effect of this
// tick's ingress is visible in this tick's outbound batch.
func (m *Manager) Tick() {
	m.tickDimension(m.Overworld)

	m.mu.Lock()
	pending := m.ingress
	m.ingress = nil
	m.mu.Unlock()

	for _, e := range pending {
		m.apply(e.src, e.pkt)
	}

	m.fanOut()
}

func (m *Manager) tickDimension(d *Dimension) {
	d.mu.Lock()
	for _, c := range d.chunks {
		m.tickChunk(c)
	}
	scheduled := d.scheduled
	d.scheduled = nil
	d.mu.Unlock()

	for _, pos := range scheduled {
		m.neighborUpdate(d, pos)
	}
}

// tickChunk is the per-chunk simulation hook. Nothing lives here yet;
// random ticks and fluid scheduling would.
func (m *Manager) tickChunk(c *Chunk) {
	_ = c
}

// neighborUpdate notifies the six orthogonal neighbors of a changed block.
// Propagation beyond the read is not part of this core.
func (m *Manager) neighborUpdate(d *Dimension, pos BlockPos) {
	neighbors := [6]BlockPos{
		{pos.X - 1, pos.Y, pos.Z},
		{pos.X + 1, pos.Y, pos.Z},
		{pos.X, pos.Y - 1, pos.Z},
		{pos.X, pos.Y + 1, pos.Z},
		{pos.X, pos.Y, pos.Z - 1},
		{pos.X, pos.Y, pos.Z + 1},
	}
	for _, n := range neighbors {
		_ = d.Block(n)
	}
}

// apply folds one ingress packet into the world and update buffer.
func (m *Manager) apply(src *player.Player, pkt mcnet.Packet) {
	switch p := pkt.(type) {
	case *packet.PlayerPosition:
		m.movePlayer(src, p.X, p.FeetY, p.Z)

	case *packet.PlayerPositionRotation:
		m.movePlayer(src, p.X, p.FeetY, p.Z)

	case *packet.PlayerAction:
		switch p.Status {
		case packet.ActionStartDigging, packet.ActionCancelDigging, packet.ActionFinishDigging:
		default:
			return
		}
		x, y, z := mcnet.DecodePosition(p.Location)
		m.changeBlock(BlockPos{x, y, z}, catalog.DefaultID(catalog.KindAir))

	case *packet.UseItemOn:
		x, y, z := mcnet.DecodePosition(p.Location)
		dx, dy, dz := packet.FaceOffset(p.Face)
		target := BlockPos{x + dx, y + dy, z + dz}
		m.changeBlock(target, src.HeldBlock())

	default:
		// Accepted and ignored in this core.
	}
}

func (m *Manager) movePlayer(src *player.Player, x, y, z float64) {
	src.LastSentPos = src.Pos
	src.Pos = player.Position{X: x, Y: y, Z: z}

	m.mu.Lock()
	m.updates = append(m.updates, update{kind: updPlayerMove, src: src})
	m.mu.Unlock()
}

func (m *Manager) changeBlock(pos BlockPos, state uint16) {
	if !m.Overworld.SetBlock(pos, state) {
		m.log.Debug("block change outside loaded chunks", "x", pos.X, "y", pos.Y, "z", pos.Z)
		return
	}
	m.Overworld.ScheduleTick(pos)

	m.mu.Lock()
	m.updates = append(m.updates, update{kind: updBlockChange, pos: pos, state: state})
	m.mu.Unlock()
}

// fanOut drains the update buffer into per-player packets.
func (m *Manager) fanOut() {
	m.mu.Lock()
	batch := m.updates
	m.updates = nil
	roster := make([]*player.Player, len(m.roster))
	copy(roster, m.roster)
	m.mu.Unlock()

	for _, u := range batch {
		for _, pl := range roster {
			switch u.kind {
			case updBlockChange:
				_ = pl.Conn.WritePacket(&packet.BlockUpdate{
					Location:   mcnet.EncodePosition(u.pos.X, u.pos.Y, u.pos.Z),
					BlockState: int32(u.state),
				})

			case updPlayerJoin:
				if pl == u.src {
					continue
				}
				_ = pl.Conn.WritePacket(&packet.PlayerInfo{
					Data: packet.BuildPlayerInfoAdd([16]byte(u.src.UUID), u.src.Name, packet.GameModeCreative),
				})

			case updPlayerVisible:
				if pl == u.src {
					continue
				}
				_ = pl.Conn.WritePacket(&packet.SpawnPlayer{
					EntityID: m.entityID(u.src),
					UUID:     [16]byte(u.src.UUID),
					X:        u.src.Pos.X,
					Y:        u.src.Pos.Y,
					Z:        u.src.Pos.Z,
				})

			case updPlayerMove:
				if pl == u.src {
					continue
				}
				_ = pl.Conn.WritePacket(&packet.UpdateEntityPosition{
					EntityID: m.entityID(u.src),
					DeltaX:   moveDelta(u.src.Pos.X, u.src.LastSentPos.X),
					DeltaY:   moveDelta(u.src.Pos.Y, u.src.LastSentPos.Y),
					DeltaZ:   moveDelta(u.src.Pos.Z, u.src.LastSentPos.Z),
					OnGround: true,
				})
			}
		}
	}
}

// moveDelta is the bounded-relative-motion fixed point: (cur·32 − prev·32)/128
// truncated to i16.
func moveDelta(cur, prev float64) int16 {
	return int16((cur*32 - prev*32) / 128)
}

// entityID derives a dense entity id from the roster index.
func (m *Manager) entityID(p *player.Player) int32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, pl := range m.roster {
		if pl == p {
			return int32(i + 1)
		}
	}
	return 0
}

// Admit registers a new player and sends the join sequence: join_game with
// the dimension codec, one bootstrap chunk, and the spawn teleport. Join
// and visibility updates for the other players flush on the next tick.
func (m *Manager) Admit(p *player.Player) error {
	m.mu.Lock()
	m.roster = append(m.roster, p)
	eid := int32(len(m.roster))
	m.mu.Unlock()

	p.Pos = player.Position{X: 0.5, Y: SpawnY, Z: 0.5}
	p.LastSentPos = p.Pos

	if err := p.Conn.WritePacket(&packet.JoinGame{
		EntityID:           eid,
		GameMode:           packet.GameModeCreative,
		PrevGameMode:       -1,
		WorldCount:         1,
		WorldNames:         []string{"minecraft:overworld"},
		DimensionCodec:     DimensionCodecNBT(),
		Dimension:          OverworldNBT(),
		WorldName:          "minecraft:overworld",
		MaxPlayers:         20,
		ViewDistance:       8,
		SimulationDistance: 8,
		RespawnScreen:      true,
		IsFlat:             true,
	}); err != nil {
		return fmt.Errorf("write join game: %w", err)
	}

	chunk := m.Overworld.Chunk(0, 0)
	if chunk != nil {
		if err := m.sendChunk(p, chunk); err != nil {
			return fmt.Errorf("send bootstrap chunk: %w", err)
		}
	}

	if err := p.Conn.WritePacket(&packet.SynchronizePlayerPosition{
		X:          p.Pos.X,
		Y:          p.Pos.Y,
		Z:          p.Pos.Z,
		TeleportID: 1,
	}); err != nil {
		return fmt.Errorf("write spawn position: %w", err)
	}

	m.mu.Lock()
	m.updates = append(m.updates,
		update{kind: updPlayerJoin, src: p},
		update{kind: updPlayerVisible, src: p},
	)
	m.mu.Unlock()

	m.log.Info("player admitted", "name", p.Name, "entityID", eid)
	return nil
}

func (m *Manager) sendChunk(p *player.Player, c *Chunk) error {
	m.Overworld.mu.Lock()
	var data bytes.Buffer
	err := c.EncodeTo(&data)
	surface := c.SurfaceHeight()
	m.Overworld.mu.Unlock()
	if err != nil {
		return err
	}

	return p.Conn.WritePacket(&packet.ChunkDataAndLight{
		ChunkX:     c.Pos.X,
		ChunkZ:     c.Pos.Z,
		Heightmaps: MotionBlockingNBT(surface),
		Data:       data.Bytes(),
		Tail:       packet.BuildChunkTail(len(c.Sections)),
	})
}

// Remove drops a player from the roster; subsequent fan-out skips them.
func (m *Manager) Remove(p *player.Player) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, pl := range m.roster {
		if pl == p {
			m.roster = append(m.roster[:i], m.roster[i+1:]...)
			break
		}
	}
}

// PlayerCount reports the roster size for the status JSON.
func (m *Manager) PlayerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.roster)
}
