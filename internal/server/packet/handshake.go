package packet

// Handshake is sent by the client to begin a connection (serverbound 0x00).
type Handshake struct {
	ProtocolVersion int32  `mc:"varint"`
	ServerAddress   string `mc:"string"`
	ServerPort      uint16 `mc:"u16"`
	NextState       int32  `mc:"varint"`
}

func (Handshake) PacketID() int32 { return 0x00 }

// Protocol identity reported in the status JSON and checked at login.
const (
	ProtocolVersion = 758
	VersionName     = "1.18.2"
)

// Next-state values carried by Handshake.
const (
	NextStateStatus int32 = 1
	NextStateLogin  int32 = 2
)

// LegacyPingByte is the first byte of the pre-Netty server-list ping. It is
// not a framed packet; the session peeks for it before normal decoding.
const LegacyPingByte byte = 0xFE
