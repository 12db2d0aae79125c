package packet

// LoginStart is sent by the client with their username (serverbound 0x00 in Login state).
type LoginStart struct {
	Name string `mc:"string"`
}

func (LoginStart) PacketID() int32 { return 0x00 }

// LoginSuccess is sent by the server after successful login (clientbound 0x02).
type LoginSuccess struct {
	UUID     [16]byte `mc:"uuid"`
	Username string   `mc:"string"`
}

func (LoginSuccess) PacketID() int32 { return 0x02 }

// LoginDisconnect tells the client they are disconnected during login (clientbound 0x00).
type LoginDisconnect struct {
	Reason string `mc:"string"`
}

func (LoginDisconnect) PacketID() int32 { return 0x00 }

// SetCompression tells the client to enable compression (clientbound 0x03).
// The server never sends it, but proxies in front of us do, so the inbound
// compressed framing stays supported.
type SetCompression struct {
	Threshold int32 `mc:"varint"`
}

func (SetCompression) PacketID() int32 { return 0x03 }
