package conn

import (
	"fmt"

	"github.com/quarrymc/server/internal/server/catalog"
	mcnet "github.com/quarrymc/server/internal/server/net"
	"github.com/quarrymc/server/internal/server/packet"
	"github.com/quarrymc/server/internal/server/player"
)

// hotbarSlotBase is the inventory-window index of the first hotbar slot.
const hotbarSlotBase = 36

func (c *Connection) handlePlay(packetID int32, data []byte) error {
	switch packetID {
	case 0x00: // Teleport Confirm
		var p packet.TeleportConfirm
		if err := mcnet.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("unmarshal teleport confirm: %w", err)
		}

	case 0x05: // Client Information
		var p packet.ClientInformation
		if err := mcnet.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("unmarshal client information: %w", err)
		}
		c.log.Info("client information", "locale", p.Locale, "viewDistance", p.ViewDistance)
		c.world.Enqueue(c.self, &p)

	case 0x0F: // Keep Alive
		var p packet.KeepAliveServerbound
		if err := mcnet.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("unmarshal keep alive: %w", err)
		}
		c.ackKeepAlive(p.ID)

	case 0x11: // Player Position
		var p packet.PlayerPosition
		if err := mcnet.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("unmarshal player position: %w", err)
		}
		c.world.Enqueue(c.self, &p)

	case 0x12: // Player Position And Rotation
		var p packet.PlayerPositionRotation
		if err := mcnet.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("unmarshal player position rotation: %w", err)
		}
		c.world.Enqueue(c.self, &p)

	case 0x13: // Player Rotation
		var p packet.PlayerRotation
		if err := mcnet.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("unmarshal player rotation: %w", err)
		}
		c.world.Enqueue(c.self, &p)

	case 0x14: // Player Movement (ground state)
		var p packet.PlayerMovement
		if err := mcnet.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("unmarshal player movement: %w", err)
		}
		c.world.Enqueue(c.self, &p)

	case 0x19: // Player Abilities
		var p packet.PlayerAbilitiesServerbound
		if err := mcnet.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("unmarshal player abilities: %w", err)
		}
		c.world.Enqueue(c.self, &p)

	case 0x1A: // Player Action (dig)
		var p packet.PlayerAction
		if err := mcnet.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("unmarshal player action: %w", err)
		}
		c.world.Enqueue(c.self, &p)

	case 0x1B: // Player Command
		var p packet.PlayerCommand
		if err := mcnet.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("unmarshal player command: %w", err)
		}
		c.world.Enqueue(c.self, &p)

	case 0x25: // Set Held Item
		var p packet.SetHeldItem
		if err := mcnet.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("unmarshal set held item: %w", err)
		}
		if p.Slot < 0 || p.Slot >= player.HotbarSlots {
			return fmt.Errorf("held item slot out of range: %d", p.Slot)
		}
		c.self.HeldSlot = int(p.Slot)

	case 0x28: // Set Creative Mode Slot
		var p packet.SetCreativeModeSlot
		if err := mcnet.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("unmarshal creative slot: %w", err)
		}
		c.setCreativeSlot(p)

	case 0x2C: // Swing Arm
		var p packet.SwingArm
		if err := mcnet.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("unmarshal swing arm: %w", err)
		}
		c.world.Enqueue(c.self, &p)

	case 0x2E: // Use Item On (place)
		var p packet.UseItemOn
		if err := mcnet.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("unmarshal use item on: %w", err)
		}
		c.world.Enqueue(c.self, &p)

	default:
		c.log.Debug("unknown play packet", "id", fmt.Sprintf("0x%02X", packetID), "len", len(data))
		return mcnet.ErrUnknownPacket
	}

	return nil
}

// setCreativeSlot maps the item the client put in a hotbar slot to its
// block's default state. Non-hotbar slots and non-block items are dropped.
func (c *Connection) setCreativeSlot(p packet.SetCreativeModeSlot) {
	idx := int(p.Slot) - hotbarSlotBase
	if idx < 0 || idx >= player.HotbarSlots {
		return
	}
	if !p.Item.Present {
		c.self.Hotbar[idx] = 0
		return
	}
	kind, ok := catalog.ItemToBlock(p.Item.ItemID)
	if !ok {
		c.log.Debug("creative slot item is not a block", "item", p.Item.ItemID)
		return
	}
	c.self.Hotbar[idx] = catalog.DefaultID(kind)
}
