package net

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// ReadCompressedPacket reads one frame in the post-SetCompression format:
// VarInt packet length, VarInt uncompressed length, then a zlib-compressed
// body when the uncompressed length is non-zero and a raw body otherwise.
// The server never negotiates outgoing compression, but clients may still
// be told a threshold by a proxy, so the read path always accepts both
// forms.
func ReadCompressedPacket(r io.Reader) (packetID int32, data []byte, err error) {
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

	frame := make([]byte, length)
	if _, err := io.ReadFull(r, frame); err != nil {
		return 0, nil, fmt.Errorf("read packet payload: %w", err)
	}

	br := bytes.NewReader(frame)
	uncompressedLen, _, err := ReadVarInt(br)
	if err != nil {
		return 0, nil, fmt.Errorf("read uncompressed length: %w", err)
	}

	body := frame[len(frame)-br.Len():]
	if uncompressedLen > 0 {
		if uncompressedLen > MaxPacketLength {
			return 0, nil, fmt.Errorf("uncompressed packet too large: %d bytes", uncompressedLen)
		}
		zr, err := zlib.NewReader(bytes.NewReader(body))
		if err != nil {
			return 0, nil, fmt.Errorf("open zlib body: %w", err)
		}
		defer zr.Close()

		inflated := make([]byte, uncompressedLen)
		if _, err := io.ReadFull(zr, inflated); err != nil {
			return 0, nil, fmt.Errorf("inflate packet body: %w", err)
		}
		body = inflated
	}

	return splitIDPayload(body)
}
