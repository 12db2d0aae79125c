package nbt

import (
	"bytes"
	"errors"
	"testing"
)

func buildTestCompound(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := NewWriter(&buf)

	w.BeginCompound("root")
	w.WriteTagByte("flag", 1)
	w.WriteShort("short", -2)
	w.WriteInt("int", 123456)
	w.WriteLong("long", -1<<40)
	w.WriteFloat("float", 1.5)
	w.WriteDouble("double", -2.25)
	w.WriteString("name", "plains")
	w.WriteByteArray("bytes", []byte{1, 2, 3})
	w.WriteIntArray("ints", []int32{-1, 0, 1})
	w.WriteLongArray("longs", []int64{1 << 40, -1})
	w.BeginList("list", TagInt, 2)
	// List elements are anonymous payloads.
	w.putInt32(7)
	w.putInt32(8)
	w.BeginCompound("nested")
	w.WriteString("inner", "value")
	w.EndCompound()
	w.EndCompound()

	if err := w.Err(); err != nil {
		t.Fatalf("writer error: %v", err)
	}
	return buf.Bytes()
}

func TestReaderWalksWriterOutput(t *testing.T) {
	r := NewReader(buildTestCompound(t))

	root, err := r.Next()
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	if root.Type != TagCompound || root.Name != "root" {
		t.Fatalf("root = %+v, want named compound", root)
	}

	want := map[string]byte{
		"flag": TagByte, "short": TagShort, "int": TagInt, "long": TagLong,
		"float": TagFloat, "double": TagDouble, "name": TagString,
		"bytes": TagByteArray, "ints": TagIntArray, "longs": TagLongArray,
		"list": TagList, "nested": TagCompound,
	}

	seen := map[string]Token{}
	for {
		tok, err := r.Next()
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if tok.Type == TagEnd {
			break
		}
		seen[tok.Name] = tok

		switch tok.Type {
		case TagList:
			for i := int32(0); i < tok.ListLen; i++ {
				if _, err := r.NextNameless(tok.ListElem); err != nil {
					t.Fatalf("list element %d: %v", i, err)
				}
			}
		case TagCompound:
			if err := r.Skip(tok); err != nil {
				t.Fatalf("skip nested: %v", err)
			}
		}
	}

	for name, tag := range want {
		tok, ok := seen[name]
		if !ok {
			t.Errorf("missing tag %q", name)
			continue
		}
		if tok.Type != tag {
			t.Errorf("tag %q has type 0x%02X, want 0x%02X", name, tok.Type, tag)
		}
	}

	if seen["int"].Int != 123456 {
		t.Errorf("int = %d, want 123456", seen["int"].Int)
	}
	if seen["name"].Str != "plains" {
		t.Errorf("name = %q, want plains", seen["name"].Str)
	}
	if seen["float"].Float != 1.5 || seen["double"].Double != -2.25 {
		t.Errorf("float/double mismatch: %v %v", seen["float"].Float, seen["double"].Double)
	}
	if got := seen["bytes"].Bytes.Materialize(); !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Errorf("bytes = %v", got)
	}
	ints := seen["ints"].Ints
	if ints.Len() != 3 || ints.At(0) != -1 || ints.At(2) != 1 {
		t.Errorf("ints view = %v", ints.Materialize())
	}
	longs := seen["longs"].Longs
	if longs.Len() != 2 || longs.At(0) != 1<<40 || longs.At(1) != -1 {
		t.Errorf("longs view = %v", longs.Materialize())
	}
	if seen["list"].ListElem != TagInt || seen["list"].ListLen != 2 {
		t.Errorf("list header = %+v", seen["list"])
	}
}

func TestSkipEntireSubtree(t *testing.T) {
	data := buildTestCompound(t)

	var buf bytes.Buffer
	buf.Write(data)
	w := NewWriter(&buf)
	w.WriteString("after", "tail")
	if err := w.Err(); err != nil {
		t.Fatal(err)
	}

	r := NewReader(buf.Bytes())
	root, err := r.Next()
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Skip(root); err != nil {
		t.Fatalf("skip root: %v", err)
	}

	tail, err := r.Next()
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if tail.Name != "after" || tail.Str != "tail" {
		t.Errorf("tail = %+v, want after=tail", tail)
	}
}

func TestInvalidTag(t *testing.T) {
	r := NewReader([]byte{0x7F, 0x00, 0x00})
	if _, err := r.Next(); !errors.Is(err, ErrInvalidTag) {
		t.Fatalf("Next on tag 0x7F = %v, want ErrInvalidTag", err)
	}
}

func TestTruncatedInput(t *testing.T) {
	data := buildTestCompound(t)
	r := NewReader(data[:len(data)/2])

	if _, err := r.Next(); err != nil {
		t.Fatalf("root should parse: %v", err)
	}
	for {
		tok, err := r.Next()
		if err != nil {
			return // expected before the document completes
		}
		if tok.Type == TagEnd {
			t.Fatal("truncated document walked to completion")
		}
		if err := r.Skip(tok); err != nil {
			return
		}
	}
}
