package conn

import (
	"crypto/md5"
	"fmt"

	"github.com/google/uuid"

	mcnet "github.com/quarrymc/server/internal/server/net"
	"github.com/quarrymc/server/internal/server/packet"
	"github.com/quarrymc/server/internal/server/player"
)

func (c *Connection) handleLogin(packetID int32, data []byte) error {
	if packetID != 0x00 {
		c.log.Debug("unknown login packet", "id", fmt.Sprintf("0x%02X", packetID))
		return mcnet.ErrUnknownPacket
	}

	var login packet.LoginStart
	if err := mcnet.Unmarshal(data, &login); err != nil {
		return fmt.Errorf("unmarshal login start: %w", err)
	}

	id := uuid.New()
	if !c.cfg.OnlineMode {
		id = offlineUUID(login.Name)
	}

	c.log.Info("login start", "username", login.Name, "uuid", id.String())

	if err := c.WritePacket(&packet.LoginSuccess{
		UUID:     [16]byte(id),
		Username: login.Name,
	}); err != nil {
		return fmt.Errorf("write login success: %w", err)
	}

	c.setState(StatePlay)
	c.log = c.log.With("player", login.Name)

	c.self = player.New(c, id, login.Name)
	if err := c.world.Admit(c.self); err != nil {
		return fmt.Errorf("admit player: %w", err)
	}

	go c.keepAliveLoop()

	return nil
}

// offlineUUID generates UUID v3 from "OfflinePlayer:<username>" using the
// MD5 namespace.
func offlineUUID(username string) uuid.UUID {
	h := md5.Sum([]byte("OfflinePlayer:" + username))
	h[6] = (h[6] & 0x0f) | 0x30
	h[8] = (h[8] & 0x3f) | 0x80
	return uuid.UUID(h)
}
