package net

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"reflect"
)

const tagName = "mc"

// Slot is the inventory slot wire form: a presence byte, then item id,
// count, and an empty NBT terminator when present.
type Slot struct {
	Present bool
	ItemID  int32
	Count   int8
}

// Marshal encodes a Packet struct into bytes using mc struct tags.
func Marshal(p Packet) ([]byte, error) {
	v := reflect.ValueOf(p)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("marshal: expected struct, got %s", v.Kind())
	}

	var buf bytes.Buffer
	t := v.Type()

	for i := range t.NumField() {
		field := t.Field(i)
		tag := field.Tag.Get(tagName)
		if tag == "" || tag == "-" {
			continue
		}

		if err := WriteField(&buf, tag, v.Field(i).Interface()); err != nil {
			return nil, fmt.Errorf("marshal field %s: %w", field.Name, err)
		}
	}

	return buf.Bytes(), nil
}

// Unmarshal decodes bytes into a Packet struct using mc struct tags.
func Unmarshal(data []byte, p Packet) error {
	v := reflect.ValueOf(p)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("unmarshal: expected non-nil pointer, got %T", p)
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("unmarshal: expected pointer to struct, got pointer to %s", v.Kind())
	}

	r := bytes.NewReader(data)
	t := v.Type()

	for i := range t.NumField() {
		field := t.Field(i)
		tag := field.Tag.Get(tagName)
		if tag == "" || tag == "-" {
			continue
		}

		val, err := ReadField(r, tag)
		if err != nil {
			return fmt.Errorf("unmarshal field %s: %w", field.Name, err)
		}

		fv := v.Field(i)
		rv := reflect.ValueOf(val)
		if !rv.Type().AssignableTo(fv.Type()) {
			return fmt.Errorf("unmarshal field %s: cannot assign %s to %s", field.Name, rv.Type(), fv.Type())
		}
		fv.Set(rv)
	}

	return nil
}

func WriteField(w io.Writer, tag string, val any) error {
	switch tag {
	case "varint":
		_, err := WriteVarInt(w, val.(int32))
		return err
	case "varlong":
		_, err := WriteVarLong(w, val.(int64))
		return err
	case "i8":
		return binary.Write(w, binary.BigEndian, val.(int8))
	case "u8":
		return binary.Write(w, binary.BigEndian, val.(uint8))
	case "i16":
		return binary.Write(w, binary.BigEndian, val.(int16))
	case "u16":
		return binary.Write(w, binary.BigEndian, val.(uint16))
	case "i32":
		return binary.Write(w, binary.BigEndian, val.(int32))
	case "i64":
		return binary.Write(w, binary.BigEndian, val.(int64))
	case "f32":
		return binary.Write(w, binary.BigEndian, val.(float32))
	case "f64":
		return binary.Write(w, binary.BigEndian, val.(float64))
	case "bool":
		b := val.(bool)
		if b {
			return binary.Write(w, binary.BigEndian, uint8(1))
		}
		return binary.Write(w, binary.BigEndian, uint8(0))
	case "string":
		_, err := WriteString(w, val.(string))
		return err
	case "stringseq":
		// Outer length is out of band: an explicit VarInt field precedes.
		for _, s := range val.([]string) {
			if _, err := WriteString(w, s); err != nil {
				return err
			}
		}
		return nil
	case "position":
		return binary.Write(w, binary.BigEndian, val.(int64))
	case "uuid":
		_, err := WriteUUID(w, val.([16]byte))
		return err
	case "nbt":
		// Pre-serialized NBT document, written verbatim.
		_, err := w.Write(val.([]byte))
		return err
	case "slot":
		return writeSlot(w, val.(Slot))
	case "bytearray":
		_, err := WriteByteArray(w, val.([]byte))
		return err
	case "rest":
		_, err := w.Write(val.([]byte))
		return err
	default:
		return fmt.Errorf("unknown field tag: %q", tag)
	}
}

func ReadField(r io.Reader, tag string) (any, error) {
	switch tag {
	case "varint":
		v, _, err := ReadVarInt(r)
		return v, err
	case "varlong":
		v, _, err := ReadVarLong(r)
		return v, err
	case "i8":
		return ReadI8(r)
	case "u8":
		return ReadU8(r)
	case "i16":
		return ReadI16(r)
	case "u16":
		return ReadU16(r)
	case "i32":
		return ReadI32(r)
	case "i64":
		return ReadI64(r)
	case "f32":
		return ReadF32(r)
	case "f64":
		return ReadF64(r)
	case "bool":
		return ReadBool(r)
	case "string":
		return ReadString(r)
	case "stringseq":
		return nil, fmt.Errorf("stringseq needs its out-of-band length; decode by hand")
	case "position":
		return ReadI64(r)
	case "uuid":
		return ReadUUID(r)
	case "nbt":
		return nil, fmt.Errorf("raw NBT fields are write-only; decode by hand")
	case "slot":
		return readSlot(r)
	case "bytearray":
		return ReadByteArray(r)
	case "rest":
		return io.ReadAll(r)
	default:
		return nil, fmt.Errorf("unknown field tag: %q", tag)
	}
}

func writeSlot(w io.Writer, s Slot) error {
	if !s.Present {
		return binary.Write(w, binary.BigEndian, uint8(0))
	}
	if err := binary.Write(w, binary.BigEndian, uint8(1)); err != nil {
		return err
	}
	if _, err := WriteVarInt(w, s.ItemID); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, s.Count); err != nil {
		return err
	}
	// Empty item NBT: a single TAG_End.
	return binary.Write(w, binary.BigEndian, uint8(0))
}

func readSlot(r io.Reader) (Slot, error) {
	present, err := ReadBool(r)
	if err != nil {
		return Slot{}, err
	}
	if !present {
		return Slot{}, nil
	}

	itemID, _, err := ReadVarInt(r)
	if err != nil {
		return Slot{}, fmt.Errorf("read slot item id: %w", err)
	}
	count, err := ReadI8(r)
	if err != nil {
		return Slot{}, fmt.Errorf("read slot count: %w", err)
	}
	// Item NBT; only the empty TAG_End form is supported here.
	if _, err := ReadU8(r); err != nil {
		return Slot{}, fmt.Errorf("read slot nbt: %w", err)
	}
	return Slot{Present: true, ItemID: itemID, Count: count}, nil
}
