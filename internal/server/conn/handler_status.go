package conn

import (
	"encoding/json"
	"fmt"

	mcnet "github.com/quarrymc/server/internal/server/net"
	"github.com/quarrymc/server/internal/server/packet"
)

type statusResponse struct {
	Version     statusVersion `json:"version"`
	Players     statusPlayers `json:"players"`
	Description statusDesc    `json:"description"`
	Favicon     string        `json:"favicon,omitempty"`
}

type statusVersion struct {
	Name     string `json:"name"`
	Protocol int    `json:"protocol"`
}

type statusPlayers struct {
	Max    int `json:"max"`
	Online int `json:"online"`
}

type statusDesc struct {
	Text string `json:"text"`
}

func (c *Connection) handleStatus(packetID int32, data []byte) error {
	switch packetID {
	case 0x00: // Status Request
		resp := statusResponse{
			Version: statusVersion{
				Name:     packet.VersionName,
				Protocol: packet.ProtocolVersion,
			},
			Players: statusPlayers{
				Max:    c.cfg.MaxPlayers,
				Online: c.world.PlayerCount(),
			},
			Description: statusDesc{
				Text: c.cfg.MOTD,
			},
			Favicon: c.cfg.Favicon,
		}

		jsonBytes, err := json.Marshal(resp)
		if err != nil {
			return fmt.Errorf("marshal status response: %w", err)
		}

		return c.WritePacket(&packet.StatusResponse{
			JSONResponse: string(jsonBytes),
		})

	case 0x01: // Ping
		var ping packet.PingRequest
		if err := mcnet.Unmarshal(data, &ping); err != nil {
			return fmt.Errorf("unmarshal ping: %w", err)
		}

		if err := c.WritePacket(&packet.PingResponse{
			Payload: ping.Payload,
		}); err != nil {
			return err
		}
		c.setState(StateClosed)
		return nil

	default:
		c.log.Debug("unknown status packet", "id", fmt.Sprintf("0x%02X", packetID))
		return mcnet.ErrUnknownPacket
	}
}
