package conn

import (
	"time"

	"github.com/quarrymc/server/internal/server/packet"
)

const (
	keepAliveInterval = 20 * time.Second
	keepAliveTimeout  = 30 * time.Second
)

// keepAliveLoop issues a keep-alive immediately and then every 20 seconds,
// tracking up to two outstanding ids. Any id outstanding past 30 seconds
// marks the session timed out and closes it, so an idle client is gone
// within 30–50 seconds of joining. The loop exits as soon as it observes a
// closed session.
func (c *Connection) keepAliveLoop() {
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		if c.currentState() == StateClosed {
			return
		}

		now := time.Now()
		id := now.UnixMilli()

		c.mu.Lock()
		expired := false
		slot := -1
		for i := range c.keepAlive {
			s := &c.keepAlive[i]
			if s.active && now.Sub(s.issued) > keepAliveTimeout {
				expired = true
			}
			if !s.active && slot < 0 {
				slot = i
			}
		}
		if expired {
			c.timedOut = true
			c.mu.Unlock()
			c.log.Warn("keep-alive timeout, closing")
			c.setState(StateClosed)
			return
		}
		if slot >= 0 {
			c.keepAlive[slot] = keepAliveSlot{id: id, issued: now, active: true}
		}
		c.mu.Unlock()

		// slot < 0 means both ids are outstanding but neither has expired
		// yet; the next iteration catches the timeout.
		if slot >= 0 {
			if err := c.WritePacket(&packet.KeepAliveClientbound{ID: id}); err != nil {
				c.log.Error("keep alive write failed", "error", err)
				c.setState(StateClosed)
				return
			}
		}

		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// ackKeepAlive matches an echoed id against the outstanding slots. An echo
// matching neither slot, including when both are empty, is benign.
func (c *Connection) ackKeepAlive(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.keepAlive {
		s := &c.keepAlive[i]
		if s.active && s.id == id {
			s.active = false
			return
		}
	}
}

// TimedOut reports whether the session was closed by the keep-alive timer.
func (c *Connection) TimedOut() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timedOut
}
