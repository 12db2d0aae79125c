package net

import (
	"bytes"
	"testing"
)

type allFields struct {
	V   int32    `mc:"varint"`
	VL  int64    `mc:"varlong"`
	I8  int8     `mc:"i8"`
	U8  uint8    `mc:"u8"`
	I16 int16    `mc:"i16"`
	U16 uint16   `mc:"u16"`
	I32 int32    `mc:"i32"`
	I64 int64    `mc:"i64"`
	F32 float32  `mc:"f32"`
	F64 float64  `mc:"f64"`
	B   bool     `mc:"bool"`
	S   string   `mc:"string"`
	P   int64    `mc:"position"`
	U   [16]byte `mc:"uuid"`
	BA  []byte   `mc:"bytearray"`
}

func (allFields) PacketID() int32 { return 0x01 }

func TestMarshalRoundTrip(t *testing.T) {
	in := &allFields{
		V:   -1,
		VL:  1 << 40,
		I8:  -8,
		U8:  200,
		I16: -1600,
		U16: 60000,
		I32: -123456,
		I64: -1 << 50,
		F32: 3.5,
		F64: -0.25,
		B:   true,
		S:   "block",
		P:   EncodePosition(10, 64, -10),
		U:   [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
		BA:  []byte{0xDE, 0xAD},
	}

	data, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var out allFields
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if out.V != in.V || out.VL != in.VL || out.S != in.S || out.P != in.P ||
		out.U != in.U || !bytes.Equal(out.BA, in.BA) || out.F64 != in.F64 {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", out, *in)
	}
}

type slotPacket struct {
	Item Slot `mc:"slot"`
}

func (slotPacket) PacketID() int32 { return 0x28 }

func TestSlotRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		slot Slot
		wire []byte
	}{
		{"empty", Slot{}, []byte{0x00}},
		{"stone", Slot{Present: true, ItemID: 1, Count: 64}, []byte{0x01, 0x01, 0x40, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Marshal(&slotPacket{Item: tt.slot})
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if !bytes.Equal(data, tt.wire) {
				t.Errorf("wire = % X, want % X", data, tt.wire)
			}

			var out slotPacket
			if err := Unmarshal(data, &out); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if out.Item != tt.slot {
				t.Errorf("round trip = %+v, want %+v", out.Item, tt.slot)
			}
		})
	}
}

type seqPacket struct {
	Count int32    `mc:"varint"`
	Names []string `mc:"stringseq"`
}

func (seqPacket) PacketID() int32 { return 0x26 }

func TestStringSeqMarshal(t *testing.T) {
	data, err := Marshal(&seqPacket{Count: 2, Names: []string{"a", "bc"}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	r := bytes.NewReader(data)
	count, _, err := ReadVarInt(r)
	if err != nil || count != 2 {
		t.Fatalf("count = %d (%v), want 2", count, err)
	}
	for _, want := range []string{"a", "bc"} {
		got, err := ReadString(r)
		if err != nil {
			t.Fatalf("ReadString: %v", err)
		}
		if got != want {
			t.Errorf("ReadString = %q, want %q", got, want)
		}
	}
}
