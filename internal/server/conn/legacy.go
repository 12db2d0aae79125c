package conn

// legacyKick is the fixed response to the pre-Netty 0xFE server-list ping:
// a 0xFF kick id, a big-endian length, and the UCS-2 payload the 1.6 client
// renders in its server list.
var legacyKick = []byte{
	0xFF, 0x00, 0x0C,
	0x00, 0xA7, 0x00, 0x31, // §1
	0x00, 0x00,
	0x00, 0x31, 0x00, 0x32, 0x00, 0x37, // 127
	0x00, 0x00,
	0x00, 0x31, 0x00, 0x2E, 0x00, 0x31, 0x00, 0x38, // 1.18
	0x00, 0x00,
	0x00, 0x30, // 0
}

// handleLegacyPing answers the legacy ping and closes the connection.
func (c *Connection) handleLegacyPing() error {
	if _, err := c.br.ReadByte(); err != nil {
		return err
	}
	c.log.Info("legacy server-list ping")

	c.mu.Lock()
	_, err := c.conn.Write(legacyKick)
	c.mu.Unlock()

	c.setState(StateClosed)
	return err
}
