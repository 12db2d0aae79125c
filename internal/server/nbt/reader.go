package nbt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrInvalidTag is returned when a tag byte outside the NBT tag set is read.
var ErrInvalidTag = errors.New("nbt: invalid tag")

// Token is one tag read from the stream. Type selects which payload field
// is valid; Name is empty for list elements and the implicit End tag.
type Token struct {
	Type byte
	Name string

	Byte   int8
	Short  int16
	Int    int32
	Long   int64
	Float  float32
	Double float64
	Str    string

	// List header payload.
	ListElem byte
	ListLen  int32

	Bytes ByteArrayView
	Ints  IntArrayView
	Longs LongArrayView
}

// ByteArrayView is a lazy window over a TAG_Byte_Array payload.
type ByteArrayView struct {
	data []byte
}

func (v ByteArrayView) Len() int { return len(v.data) }

// Materialize copies the array out of the backing slice.
func (v ByteArrayView) Materialize() []byte {
	out := make([]byte, len(v.data))
	copy(out, v.data)
	return out
}

// IntArrayView is a lazy window over a TAG_Int_Array payload.
type IntArrayView struct {
	data []byte
}

func (v IntArrayView) Len() int { return len(v.data) / 4 }

func (v IntArrayView) At(i int) int32 {
	return int32(binary.BigEndian.Uint32(v.data[i*4:]))
}

func (v IntArrayView) Materialize() []int32 {
	out := make([]int32, v.Len())
	for i := range out {
		out[i] = v.At(i)
	}
	return out
}

// LongArrayView is a lazy window over a TAG_Long_Array payload.
type LongArrayView struct {
	data []byte
}

func (v LongArrayView) Len() int { return len(v.data) / 8 }

func (v LongArrayView) At(i int) int64 {
	return int64(binary.BigEndian.Uint64(v.data[i*8:]))
}

func (v LongArrayView) Materialize() []int64 {
	out := make([]int64, v.Len())
	for i := range out {
		out[i] = v.At(i)
	}
	return out
}

// Reader is a forward cursor over an NBT document held in memory.
type Reader struct {
	data []byte
	pos  int
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Next reads one named tag: a tag byte, then (unless End) a u16-length
// name, then the payload. The root compound is named like any other tag.
func (r *Reader) Next() (Token, error) {
	tag, err := r.u8()
	if err != nil {
		return Token{}, err
	}
	if tag == TagEnd {
		return Token{Type: TagEnd}, nil
	}
	if tag > TagLongArray {
		return Token{}, fmt.Errorf("%w: 0x%02X at offset %d", ErrInvalidTag, tag, r.pos-1)
	}

	name, err := r.shortString()
	if err != nil {
		return Token{}, err
	}

	tok, err := r.payload(tag)
	if err != nil {
		return Token{}, err
	}
	tok.Name = name
	return tok, nil
}

// NextNameless reads one payload of the given tag type. List elements are
// anonymous, so iterating a list is a ListLen-fold call of this with the
// list's element tag.
func (r *Reader) NextNameless(tag byte) (Token, error) {
	if tag == TagEnd || tag > TagLongArray {
		return Token{}, fmt.Errorf("%w: 0x%02X", ErrInvalidTag, tag)
	}
	return r.payload(tag)
}

// Skip advances past the entire subtree of tok. For compounds this consumes
// tags up to the matching End; for lists it consumes every element. Scalar
// and array tokens were fully consumed by the read that produced them.
func (r *Reader) Skip(tok Token) error {
	switch tok.Type {
	case TagCompound:
		for {
			inner, err := r.Next()
			if err != nil {
				return err
			}
			if inner.Type == TagEnd {
				return nil
			}
			if err := r.Skip(inner); err != nil {
				return err
			}
		}
	case TagList:
		for i := int32(0); i < tok.ListLen; i++ {
			inner, err := r.NextNameless(tok.ListElem)
			if err != nil {
				return err
			}
			if err := r.Skip(inner); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}

func (r *Reader) payload(tag byte) (Token, error) {
	tok := Token{Type: tag}
	switch tag {
	case TagByte:
		v, err := r.u8()
		if err != nil {
			return tok, err
		}
		tok.Byte = int8(v)
	case TagShort:
		v, err := r.u16()
		if err != nil {
			return tok, err
		}
		tok.Short = int16(v)
	case TagInt:
		v, err := r.u32()
		if err != nil {
			return tok, err
		}
		tok.Int = int32(v)
	case TagLong:
		v, err := r.u64()
		if err != nil {
			return tok, err
		}
		tok.Long = int64(v)
	case TagFloat:
		v, err := r.u32()
		if err != nil {
			return tok, err
		}
		tok.Float = math.Float32frombits(v)
	case TagDouble:
		v, err := r.u64()
		if err != nil {
			return tok, err
		}
		tok.Double = math.Float64frombits(v)
	case TagByteArray:
		raw, err := r.array(1)
		if err != nil {
			return tok, err
		}
		tok.Bytes = ByteArrayView{data: raw}
	case TagString:
		s, err := r.shortString()
		if err != nil {
			return tok, err
		}
		tok.Str = s
	case TagList:
		elem, err := r.u8()
		if err != nil {
			return tok, err
		}
		if elem > TagLongArray {
			return tok, fmt.Errorf("%w: list element 0x%02X", ErrInvalidTag, elem)
		}
		n, err := r.u32()
		if err != nil {
			return tok, err
		}
		tok.ListElem = elem
		tok.ListLen = int32(n)
	case TagCompound:
		// Members follow as named tags; the caller walks or skips them.
	case TagIntArray:
		raw, err := r.array(4)
		if err != nil {
			return tok, err
		}
		tok.Ints = IntArrayView{data: raw}
	case TagLongArray:
		raw, err := r.array(8)
		if err != nil {
			return tok, err
		}
		tok.Longs = LongArrayView{data: raw}
	}
	return tok, nil
}

func (r *Reader) array(elemSize int) ([]byte, error) {
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	length := int(int32(n))
	if length < 0 {
		return nil, fmt.Errorf("nbt: negative array length %d", length)
	}
	return r.take(length * elemSize)
}

func (r *Reader) shortString() (string, error) {
	n, err := r.u16()
	if err != nil {
		return "", err
	}
	raw, err := r.take(int(n))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (r *Reader) take(n int) ([]byte, error) {
	if r.pos+n > len(r.data) {
		return nil, io.ErrUnexpectedEOF
	}
	out := r.data[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

func (r *Reader) u8() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) u16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *Reader) u32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *Reader) u64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}
