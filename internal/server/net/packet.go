package net

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// Packet is any protocol packet with a numeric wire id.
type Packet interface {
	PacketID() int32
}

// ErrUnknownPacket reports a well-framed packet whose id is not handled in
// the current protocol state. The frame has already been consumed, so the
// caller may keep reading.
var ErrUnknownPacket = errors.New("unknown packet id")

// MaxPacketLength bounds a single frame (2 MiB).
const MaxPacketLength = 1 << 21

// ReadRawPacket reads one uncompressed frame: VarInt length, VarInt id,
// payload.
func ReadRawPacket(r io.Reader) (packetID int32, data []byte, err error) {
	length, _, err := ReadVarInt(r)
	if err != nil {
		return 0, nil, fmt.Errorf("read packet length: %w", err)
	}
	if length < 1 {
		return 0, nil, fmt.Errorf("packet length too small: %d", length)
	}
	if length > MaxPacketLength {
		return 0, nil, fmt.Errorf("packet too large: %d bytes", length)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return 0, nil, fmt.Errorf("read packet payload: %w", err)
	}

	return splitIDPayload(payload)
}

func splitIDPayload(payload []byte) (int32, []byte, error) {
	buf := bytes.NewReader(payload)
	packetID, _, err := ReadVarInt(buf)
	if err != nil {
		return 0, nil, fmt.Errorf("read packet ID: %w", err)
	}

	remaining := make([]byte, buf.Len())
	if _, err := io.ReadFull(buf, remaining); err != nil {
		return 0, nil, fmt.Errorf("read packet data: %w", err)
	}

	return packetID, remaining, nil
}

// WriteRawPacket writes one uncompressed frame.
func WriteRawPacket(w io.Writer, packetID int32, data []byte) error {
	idSize := VarIntSize(packetID)
	totalLen := idSize + len(data)

	var buf bytes.Buffer
	buf.Grow(VarIntSize(int32(totalLen)) + totalLen)

	if _, err := WriteVarInt(&buf, int32(totalLen)); err != nil {
		return fmt.Errorf("write packet length: %w", err)
	}
	if _, err := WriteVarInt(&buf, packetID); err != nil {
		return fmt.Errorf("write packet ID: %w", err)
	}
	if _, err := buf.Write(data); err != nil {
		return fmt.Errorf("write packet data: %w", err)
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("flush packet: %w", err)
	}
	return nil
}

// WritePacket marshals p and writes it as one frame.
func WritePacket(w io.Writer, p Packet) error {
	data, err := Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal packet 0x%02X: %w", p.PacketID(), err)
	}
	return WriteRawPacket(w, p.PacketID(), data)
}

// ReadPacket reads one frame and unmarshals it into p, which must match the
// incoming id.
func ReadPacket(r io.Reader, p Packet) error {
	packetID, data, err := ReadRawPacket(r)
	if err != nil {
		return err
	}
	if packetID != p.PacketID() {
		return fmt.Errorf("expected packet 0x%02X, got 0x%02X", p.PacketID(), packetID)
	}
	return Unmarshal(data, p)
}
