package conn

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/quarrymc/server/internal/server/config"
	mcnet "github.com/quarrymc/server/internal/server/net"
	"github.com/quarrymc/server/internal/server/packet"
	"github.com/quarrymc/server/internal/server/world"
)

func startSession(t *testing.T) (client net.Conn, done chan struct{}) {
	t.Helper()

	serverSide, clientSide := net.Pipe()
	log := slog.New(slog.DiscardHandler)
	cfg := config.DefaultConfig()
	w := world.NewManager(log, world.FlatChunk(world.ChunkPos{}))

	c := NewConnection(context.Background(), serverSide, cfg, log, w)
	done = make(chan struct{})
	go func() {
		c.Handle()
		close(done)
	}()

	t.Cleanup(func() {
		clientSide.Close()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("session did not exit")
		}
	})

	return clientSide, done
}

func writeClientPacket(t *testing.T, w io.Writer, p mcnet.Packet) {
	t.Helper()
	if err := mcnet.WritePacket(w, p); err != nil {
		t.Fatalf("write %T: %v", p, err)
	}
}

func readServerPacket(t *testing.T, r io.Reader) (int32, []byte) {
	t.Helper()
	id, data, err := mcnet.ReadRawPacket(r)
	if err != nil {
		t.Fatalf("read server packet: %v", err)
	}
	return id, data
}

func TestStatusScenario(t *testing.T) {
	client, done := startSession(t)

	writeClientPacket(t, client, &packet.Handshake{
		ProtocolVersion: packet.ProtocolVersion,
		ServerAddress:   "localhost",
		ServerPort:      25565,
		NextState:       packet.NextStateStatus,
	})
	writeClientPacket(t, client, &packet.StatusRequest{})

	id, data := readServerPacket(t, client)
	if id != 0x00 {
		t.Fatalf("status response id = 0x%02X", id)
	}
	var resp packet.StatusResponse
	if err := mcnet.Unmarshal(data, &resp); err != nil {
		t.Fatalf("unmarshal status response: %v", err)
	}
	var status struct {
		Version struct {
			Name     string `json:"name"`
			Protocol int    `json:"protocol"`
		} `json:"version"`
		Players struct {
			Max    int `json:"max"`
			Online int `json:"online"`
		} `json:"players"`
		Description struct {
			Text string `json:"text"`
		} `json:"description"`
	}
	if err := json.Unmarshal([]byte(resp.JSONResponse), &status); err != nil {
		t.Fatalf("status JSON: %v", err)
	}
	if status.Version.Protocol != packet.ProtocolVersion || status.Players.Online != 0 {
		t.Errorf("status = %+v", status)
	}

	writeClientPacket(t, client, &packet.PingRequest{Payload: 0x01020304})
	id, data = readServerPacket(t, client)
	if id != 0x01 {
		t.Fatalf("pong id = 0x%02X", id)
	}
	var pong packet.PingResponse
	if err := mcnet.Unmarshal(data, &pong); err != nil {
		t.Fatal(err)
	}
	if pong.Payload != 0x01020304 {
		t.Errorf("pong payload = %#x, want 0x01020304", pong.Payload)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("session stayed open after ping")
	}
}

func TestLegacyPing(t *testing.T) {
	client, done := startSession(t)

	if _, err := client.Write([]byte{packet.LegacyPingByte}); err != nil {
		t.Fatal(err)
	}

	resp := make([]byte, len(legacyKick))
	if _, err := io.ReadFull(client, resp); err != nil {
		t.Fatalf("read legacy kick: %v", err)
	}
	if !bytes.Equal(resp, legacyKick) {
		t.Errorf("legacy kick = % X", resp)
	}
	if len(resp) != 29 {
		t.Errorf("legacy kick is %d bytes, want 29", len(resp))
	}
	if !bytes.HasPrefix(resp, []byte{0xFF, 0x00, 0x0C, 0x00, 0xA7, 0x00, 0x31, 0x00, 0x00}) {
		t.Errorf("legacy kick prefix = % X", resp[:9])
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("session stayed open after legacy ping")
	}
}

func TestLoginJoinSequence(t *testing.T) {
	client, _ := startSession(t)

	writeClientPacket(t, client, &packet.Handshake{
		ProtocolVersion: packet.ProtocolVersion,
		ServerAddress:   "localhost",
		ServerPort:      25565,
		NextState:       packet.NextStateLogin,
	})
	writeClientPacket(t, client, &packet.LoginStart{Name: "tester"})

	// login_success
	id, data := readServerPacket(t, client)
	if id != 0x02 {
		t.Fatalf("first packet id = 0x%02X, want login_success", id)
	}
	var success packet.LoginSuccess
	if err := mcnet.Unmarshal(data, &success); err != nil {
		t.Fatal(err)
	}
	if success.Username != "tester" {
		t.Errorf("username = %q", success.Username)
	}
	if success.UUID == ([16]byte{}) {
		t.Error("uuid is zero")
	}

	// join_game
	id, data = readServerPacket(t, client)
	if id != 0x26 {
		t.Fatalf("second packet id = 0x%02X, want join_game", id)
	}
	r := bytes.NewReader(data)
	entityID, err := mcnet.ReadI32(r)
	if err != nil || entityID != 1 {
		t.Errorf("entity id = %d (%v), want 1", entityID, err)
	}

	// chunk_data_and_update_light
	id, data = readServerPacket(t, client)
	if id != 0x22 {
		t.Fatalf("third packet id = 0x%02X, want chunk data", id)
	}
	r = bytes.NewReader(data)
	cx, _ := mcnet.ReadI32(r)
	cz, _ := mcnet.ReadI32(r)
	if cx != 0 || cz != 0 {
		t.Errorf("chunk = (%d, %d), want (0, 0)", cx, cz)
	}

	// synchronize_player_position
	id, data = readServerPacket(t, client)
	if id != 0x38 {
		t.Fatalf("fourth packet id = 0x%02X, want sync position", id)
	}
	var sync packet.SynchronizePlayerPosition
	if err := mcnet.Unmarshal(data, &sync); err != nil {
		t.Fatal(err)
	}
	if sync.Y != world.SpawnY {
		t.Errorf("spawn Y = %v, want %d", sync.Y, world.SpawnY)
	}

	// The keep-alive timer issues its first probe immediately after play
	// starts.
	id, data = readServerPacket(t, client)
	if id != 0x21 {
		t.Fatalf("fifth packet id = 0x%02X, want keep_alive", id)
	}
	var keepAlive packet.KeepAliveClientbound
	if err := mcnet.Unmarshal(data, &keepAlive); err != nil {
		t.Fatal(err)
	}
	if keepAlive.ID == 0 {
		t.Error("keep-alive id is zero")
	}
}

func TestUnknownPlayPacketContinues(t *testing.T) {
	client, done := startSession(t)

	writeClientPacket(t, client, &packet.Handshake{
		ProtocolVersion: packet.ProtocolVersion,
		NextState:       packet.NextStateLogin,
	})
	writeClientPacket(t, client, &packet.LoginStart{Name: "tester"})

	// Drain the join sequence plus the immediate first keep-alive.
	for range 5 {
		readServerPacket(t, client)
	}

	// A well-framed packet with an unhandled id must not kill the session;
	// the next packet still gets processed.
	if err := mcnet.WriteRawPacket(client, 0x7E, []byte{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	writeClientPacket(t, client, &packet.SetHeldItem{Slot: 3})

	select {
	case <-done:
		t.Fatal("session closed on an unknown packet id")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestKeepAliveSlotDiscipline(t *testing.T) {
	serverSide, clientSide := net.Pipe()
	defer serverSide.Close()
	defer clientSide.Close()

	log := slog.New(slog.DiscardHandler)
	c := NewConnection(context.Background(), serverSide, config.DefaultConfig(), log,
		world.NewManager(log, world.FlatChunk(world.ChunkPos{})))

	now := time.Now()
	c.keepAlive[0] = keepAliveSlot{id: 100, issued: now, active: true}
	c.keepAlive[1] = keepAliveSlot{id: 200, issued: now, active: true}

	// Exact match clears exactly one slot.
	c.ackKeepAlive(200)
	if c.keepAlive[1].active {
		t.Error("matching echo did not clear its slot")
	}
	if !c.keepAlive[0].active {
		t.Error("non-matching slot was cleared")
	}

	// Mismatched echo is benign.
	c.ackKeepAlive(999)
	if !c.keepAlive[0].active {
		t.Error("mismatched echo cleared a slot")
	}

	// Echo with both slots empty is benign too.
	c.ackKeepAlive(100)
	c.ackKeepAlive(100)
	if c.TimedOut() || c.currentState() == StateClosed {
		t.Error("empty-slot echo affected the session")
	}
}
