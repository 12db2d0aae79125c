// Package player holds the per-player record shared between a session and
// the world manager.
package player

import (
	"github.com/google/uuid"

	mcnet "github.com/quarrymc/server/internal/server/net"
)

// HotbarSlots is the number of hotbar slots a player carries.
const HotbarSlots = 9

// Position is a player's world-space position.
type Position struct {
	X, Y, Z float64
}

// Sender delivers packets back to the player's connection. The session
// implements it; writes are serialized by the session's write lock.
type Sender interface {
	WritePacket(p mcnet.Packet) error
}

// Player is the world-visible state of one connected client. The world
// manager mutates it only from the tick goroutine; the session only touches
// HeldSlot and Hotbar, which the tick reads at use sites.
type Player struct {
	Conn      Sender
	UUID      uuid.UUID
	Name      string
	Dimension string

	Pos         Position
	LastSentPos Position

	HeldSlot int
	Hotbar   [HotbarSlots]uint16
}

// New builds a player record for an admitted session.
func New(conn Sender, id uuid.UUID, name string) *Player {
	return &Player{
		Conn:      conn,
		UUID:      id,
		Name:      name,
		Dimension: "minecraft:overworld",
	}
}

// HeldBlock returns the block-state id in the active hotbar slot.
func (p *Player) HeldBlock() uint16 {
	return p.Hotbar[p.HeldSlot]
}
