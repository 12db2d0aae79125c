package net

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestVarIntRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		value int32
		size  int
	}{
		{"zero", 0, 1},
		{"one", 1, 1},
		{"127", 127, 1},
		{"128", 128, 2},
		{"255", 255, 2},
		{"25565", 25565, 3},
		{"max_varint", 2147483647, 5},
		{"negative_one", -1, 5},
		{"min_varint", -2147483648, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			n, err := WriteVarInt(&buf, tt.value)
			if err != nil {
				t.Fatalf("WriteVarInt(%d): %v", tt.value, err)
			}
			if n != tt.size {
				t.Errorf("WriteVarInt(%d) wrote %d bytes, want %d", tt.value, n, tt.size)
			}
			if VarIntSize(tt.value) != tt.size {
				t.Errorf("VarIntSize(%d) = %d, want %d", tt.value, VarIntSize(tt.value), tt.size)
			}

			got, bytesRead, err := ReadVarInt(&buf)
			if err != nil {
				t.Fatalf("ReadVarInt: %v", err)
			}
			if bytesRead != tt.size {
				t.Errorf("ReadVarInt read %d bytes, want %d", bytesRead, tt.size)
			}
			if got != tt.value {
				t.Errorf("ReadVarInt = %d, want %d", got, tt.value)
			}
		})
	}
}

func TestVarIntTooBig(t *testing.T) {
	// Five continuation bytes followed by more data.
	r := bytes.NewReader([]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01})
	_, _, err := ReadVarInt(r)
	if !errors.Is(err, ErrVarIntTooBig) {
		t.Fatalf("ReadVarInt on 6-byte value = %v, want ErrVarIntTooBig", err)
	}
}

func TestVarLongRoundTrip(t *testing.T) {
	values := []int64{0, 1, 127, 128, 25565, 1<<62 - 1, -1, -9223372036854775808}
	for _, v := range values {
		var buf bytes.Buffer
		if _, err := WriteVarLong(&buf, v); err != nil {
			t.Fatalf("WriteVarLong(%d): %v", v, err)
		}
		got, _, err := ReadVarLong(&buf)
		if err != nil {
			t.Fatalf("ReadVarLong(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("ReadVarLong = %d, want %d", got, v)
		}
	}
}

func TestPutVarInt(t *testing.T) {
	var buf [5]byte
	n := PutVarInt(buf[:], 300)
	if n != 2 {
		t.Errorf("PutVarInt(300) = %d bytes, want 2", n)
	}
	// 300 = 0x12C → 0xAC 0x02
	if buf[0] != 0xAC || buf[1] != 0x02 {
		t.Errorf("PutVarInt(300) = %x %x, want AC 02", buf[0], buf[1])
	}
}

func TestStringRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"empty", ""},
		{"ascii", "tester"},
		{"unicode", "über§craft"},
		{"long", strings.Repeat("a", MaxStringChars)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if _, err := WriteString(&buf, tt.value); err != nil {
				t.Fatalf("WriteString: %v", err)
			}
			got, err := ReadString(&buf)
			if err != nil {
				t.Fatalf("ReadString: %v", err)
			}
			if got != tt.value {
				t.Errorf("ReadString = %q, want %q", got, tt.value)
			}
		})
	}
}

func TestStringTooLong(t *testing.T) {
	var buf bytes.Buffer
	if _, err := WriteVarInt(&buf, MaxStringChars*4+1); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadString(&buf); err == nil {
		t.Fatal("ReadString accepted an oversized length prefix")
	}
}

func TestPositionRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		x, y, z int
	}{
		{"origin", 0, 0, 0},
		{"positive", 100, 64, 200},
		{"negative", -100, -64, -200},
		{"max_y", 0, 2047, 0},
		{"min_y", 0, -2048, 0},
		{"extreme_xz", -33554432, 0, 33554431},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := EncodePosition(tt.x, tt.y, tt.z)
			x, y, z := DecodePosition(encoded)
			if x != tt.x || y != tt.y || z != tt.z {
				t.Errorf("DecodePosition(EncodePosition(%d,%d,%d)) = (%d,%d,%d)",
					tt.x, tt.y, tt.z, x, y, z)
			}
		})
	}
}

func TestPositionLayout(t *testing.T) {
	// Y lives in the low 12 bits, Z above it, X on top.
	encoded := EncodePosition(1, 2, 3)
	want := int64(1)<<38 | int64(3)<<12 | 2
	if encoded != want {
		t.Errorf("EncodePosition(1,2,3) = %#x, want %#x", encoded, want)
	}
}
