package packet

import mcnet "github.com/quarrymc/server/internal/server/net"

// Serverbound play packets, 1.18.2 wire ids.

// TeleportConfirm acknowledges a SynchronizePlayerPosition (serverbound 0x00).
type TeleportConfirm struct {
	TeleportID int32 `mc:"varint"`
}

func (TeleportConfirm) PacketID() int32 { return 0x00 }

// ClientInformation carries the client's settings (serverbound 0x05).
type ClientInformation struct {
	Locale              string `mc:"string"`
	ViewDistance        int8   `mc:"i8"`
	ChatMode            int32  `mc:"varint"`
	ChatColors          bool   `mc:"bool"`
	SkinParts           uint8  `mc:"u8"`
	MainHand            int32  `mc:"varint"`
	TextFiltering       bool   `mc:"bool"`
	AllowServerListings bool   `mc:"bool"`
}

func (ClientInformation) PacketID() int32 { return 0x05 }

// KeepAliveServerbound echoes a clientbound keep-alive id (serverbound 0x0F).
type KeepAliveServerbound struct {
	ID int64 `mc:"i64"`
}

func (KeepAliveServerbound) PacketID() int32 { return 0x0F }

// PlayerPosition is sent by the client when they move (serverbound 0x11).
type PlayerPosition struct {
	X        float64 `mc:"f64"`
	FeetY    float64 `mc:"f64"`
	Z        float64 `mc:"f64"`
	OnGround bool    `mc:"bool"`
}

func (PlayerPosition) PacketID() int32 { return 0x11 }

// PlayerPositionRotation is sent when the client moves and looks (serverbound 0x12).
type PlayerPositionRotation struct {
	X        float64 `mc:"f64"`
	FeetY    float64 `mc:"f64"`
	Z        float64 `mc:"f64"`
	Yaw      float32 `mc:"f32"`
	Pitch    float32 `mc:"f32"`
	OnGround bool    `mc:"bool"`
}

func (PlayerPositionRotation) PacketID() int32 { return 0x12 }

// PlayerRotation is sent when the client looks around (serverbound 0x13).
type PlayerRotation struct {
	Yaw      float32 `mc:"f32"`
	Pitch    float32 `mc:"f32"`
	OnGround bool    `mc:"bool"`
}

func (PlayerRotation) PacketID() int32 { return 0x13 }

// PlayerMovement is the client's ground-state heartbeat (serverbound 0x14).
type PlayerMovement struct {
	OnGround bool `mc:"bool"`
}

func (PlayerMovement) PacketID() int32 { return 0x14 }

// PlayerAbilitiesServerbound reports flight toggling (serverbound 0x19).
type PlayerAbilitiesServerbound struct {
	Flags int8 `mc:"i8"`
}

func (PlayerAbilitiesServerbound) PacketID() int32 { return 0x19 }

// PlayerAction statuses.
const (
	ActionStartDigging  int32 = 0
	ActionCancelDigging int32 = 1
	ActionFinishDigging int32 = 2
)

// PlayerAction reports digging and item-state actions (serverbound 0x1A).
type PlayerAction struct {
	Status   int32 `mc:"varint"`
	Location int64 `mc:"position"`
	Face     int8  `mc:"i8"`
}

func (PlayerAction) PacketID() int32 { return 0x1A }

// PlayerCommand reports sprint/sneak style entity actions (serverbound 0x1B).
type PlayerCommand struct {
	EntityID  int32 `mc:"varint"`
	Action    int32 `mc:"varint"`
	JumpBoost int32 `mc:"varint"`
}

func (PlayerCommand) PacketID() int32 { return 0x1B }

// SetHeldItem selects the active hotbar slot (serverbound 0x25).
type SetHeldItem struct {
	Slot int16 `mc:"i16"`
}

func (SetHeldItem) PacketID() int32 { return 0x25 }

// SetCreativeModeSlot writes an inventory slot in creative mode (serverbound 0x28).
type SetCreativeModeSlot struct {
	Slot int16      `mc:"i16"`
	Item mcnet.Slot `mc:"slot"`
}

func (SetCreativeModeSlot) PacketID() int32 { return 0x28 }

// SwingArm is the client's swing animation (serverbound 0x2C).
type SwingArm struct {
	Hand int32 `mc:"varint"`
}

func (SwingArm) PacketID() int32 { return 0x2C }

// UseItemOn places or interacts against a block face (serverbound 0x2E).
type UseItemOn struct {
	Hand        int32   `mc:"varint"`
	Location    int64   `mc:"position"`
	Face        int32   `mc:"varint"`
	CursorX     float32 `mc:"f32"`
	CursorY     float32 `mc:"f32"`
	CursorZ     float32 `mc:"f32"`
	InsideBlock bool    `mc:"bool"`
}

func (UseItemOn) PacketID() int32 { return 0x2E }

// FaceOffset returns the unit normal of a block face as encoded on the wire.
func FaceOffset(face int32) (dx, dy, dz int) {
	switch face {
	case 0:
		return 0, -1, 0
	case 1:
		return 0, 1, 0
	case 2:
		return 0, 0, -1
	case 3:
		return 0, 0, 1
	case 4:
		return -1, 0, 0
	case 5:
		return 1, 0, 0
	}
	return 0, 0, 0
}
