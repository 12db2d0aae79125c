package conn

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/quarrymc/server/internal/server/config"
	mcnet "github.com/quarrymc/server/internal/server/net"
	"github.com/quarrymc/server/internal/server/packet"
	"github.com/quarrymc/server/internal/server/player"
	"github.com/quarrymc/server/internal/server/world"
)

// State represents the connection state.
type State int

const (
	StateHandshake State = iota
	StateStatus
	StateLogin
	StatePlay
	StateClosed
)

// Connection manages a single client connection through the protocol state
// machine. One goroutine runs Handle; a second runs the keep-alive timer
// once play starts.
type Connection struct {
	conn   net.Conn
	br     *bufio.Reader
	cfg    *config.Config
	log    *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
	world  *world.Manager

	mu         sync.Mutex
	state      State
	compressed bool
	timedOut   bool
	keepAlive  [2]keepAliveSlot

	self *player.Player
}

type keepAliveSlot struct {
	id     int64
	issued time.Time
	active bool
}

// NewConnection creates a new Connection from a raw TCP connection.
func NewConnection(ctx context.Context, conn net.Conn, cfg *config.Config, log *slog.Logger, w *world.Manager) *Connection {
	ctx, cancel := context.WithCancel(ctx)
	return &Connection{
		conn:   conn,
		br:     bufio.NewReader(conn),
		cfg:    cfg,
		log:    log.With("addr", conn.RemoteAddr().String()),
		ctx:    ctx,
		cancel: cancel,
		state:  StateHandshake,
		world:  w,
	}
}

// Handle runs the connection lifecycle. It reads packets and dispatches
// them to the appropriate state handler until the connection closes.
func (c *Connection) Handle() {
	defer func() {
		if c.self != nil {
			c.world.Remove(c.self)
		}
		c.cancel()
		c.conn.Close()
		c.log.Info("connection closed")
	}()

	c.log.Info("connection accepted")

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}
		if c.currentState() == StateClosed {
			return
		}

		if err := c.handleNextPacket(); err != nil {
			if errors.Is(err, mcnet.ErrUnknownPacket) {
				continue
			}
			if c.ctx.Err() != nil || errors.Is(err, io.EOF) {
				return
			}
			c.log.Error("handling packet", "state", c.currentState(), "error", err)
			return
		}
	}
}

func (c *Connection) handleNextPacket() error {
	// The pre-Netty server-list ping is a bare 0xFE, never a framed
	// packet; peek for it before decoding.
	if c.currentState() == StateHandshake {
		head, err := c.br.Peek(1)
		if err != nil {
			return err
		}
		if head[0] == packet.LegacyPingByte {
			return c.handleLegacyPing()
		}
	}

	var (
		packetID int32
		data     []byte
		err      error
	)
	if c.isCompressed() {
		packetID, data, err = mcnet.ReadCompressedPacket(c.br)
	} else {
		packetID, data, err = mcnet.ReadRawPacket(c.br)
	}
	if err != nil {
		return err
	}

	switch c.currentState() {
	case StateHandshake:
		return c.handleHandshake(packetID, data)
	case StateStatus:
		return c.handleStatus(packetID, data)
	case StateLogin:
		return c.handleLogin(packetID, data)
	case StatePlay:
		return c.handlePlay(packetID, data)
	default:
		return fmt.Errorf("unknown state: %d", c.currentState())
	}
}

func (c *Connection) handleHandshake(packetID int32, data []byte) error {
	if packetID != 0x00 {
		return fmt.Errorf("expected handshake packet 0x00, got 0x%02X", packetID)
	}

	var hs packet.Handshake
	if err := mcnet.Unmarshal(data, &hs); err != nil {
		return fmt.Errorf("unmarshal handshake: %w", err)
	}

	c.log.Info("handshake received",
		"protocol", hs.ProtocolVersion,
		"server", hs.ServerAddress,
		"port", hs.ServerPort,
		"nextState", hs.NextState,
	)

	switch hs.NextState {
	case packet.NextStateStatus:
		c.setState(StateStatus)
	case packet.NextStateLogin:
		if hs.ProtocolVersion != packet.ProtocolVersion {
			c.log.Warn("unsupported protocol version", "version", hs.ProtocolVersion)
		}
		c.setState(StateLogin)
	default:
		return fmt.Errorf("invalid next state: %d", hs.NextState)
	}

	return nil
}

func (c *Connection) currentState() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Connection) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	if s == StateClosed {
		c.cancel()
	}
}

func (c *Connection) isCompressed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.compressed
}

// WritePacket writes a packet to the connection under the write lock. It is
// the player.Sender implementation the world manager fans out through.
func (c *Connection) WritePacket(p mcnet.Packet) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return mcnet.WritePacket(c.conn, p)
}
