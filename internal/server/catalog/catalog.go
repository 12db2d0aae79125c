// Package catalog exposes the block-state tables generated offline from the
// vendor data reports. State ids form one contiguous space, sorted by block
// kind; each kind owns a [start, end) range with a default state inside it.
package catalog

import (
	"fmt"
	"strconv"
)

// Kind identifies a block family ("oak_stairs"); StateID is the global
// wire-level block-state number.
type Kind uint16

type StateID = uint16

// PropKind is the fixed typing a property received at generation time.
type PropKind uint8

const (
	PropBool PropKind = iota
	PropInt
	PropEnum
)

// Property describes one block-state property. Bool properties enumerate
// [true, false] in that order; int properties run Min..Max ascending; enum
// properties follow the Values order. All per vendor report order.
type Property struct {
	Name     string
	Kind     PropKind
	Min, Max uint8
	Values   []string
}

func (p Property) cardinality() int {
	switch p.Kind {
	case PropBool:
		return 2
	case PropInt:
		return int(p.Max-p.Min) + 1
	default:
		return len(p.Values)
	}
}

// State is a typed block state: a kind plus one value ordinal per property,
// in the kind's property order.
type State struct {
	Kind  Kind
	Props []uint8
}

var kindsByName = make(map[string]Kind, len(blocks))

func init() {
	for i, b := range blocks {
		kindsByName[b.name] = Kind(i)
	}
}

// Name returns the kind's resource name without the namespace prefix.
func (k Kind) Name() string {
	return blocks[k].name
}

// Range returns the kind's [start, end) slice of the state-id space.
func Range(k Kind) (start, end StateID) {
	start = blocks[k].start
	if int(k)+1 < len(blocks) {
		end = blocks[k+1].start
	} else {
		end = TotalStates
	}
	return
}

// DefaultID returns the kind's default state id.
func DefaultID(k Kind) StateID {
	return blocks[k].def
}

// KindByName resolves a resource name (without namespace) to a kind.
func KindByName(name string) (Kind, bool) {
	k, ok := kindsByName[name]
	return k, ok
}

// StateFromID decomposes a global id into its typed state. The id must be
// inside [0, TotalStates); anything else is a logic violation.
func StateFromID(id StateID) State {
	if id >= TotalStates {
		panic(fmt.Sprintf("catalog: state id %d out of range", id))
	}

	// Binary search for the owning kind.
	lo, hi := 0, len(blocks)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if blocks[mid].start <= id {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	b := &blocks[lo]

	s := State{Kind: Kind(lo), Props: make([]uint8, len(b.props))}
	offset := int(id - b.start)
	// The last property varies fastest, matching report permutation order.
	for i := len(b.props) - 1; i >= 0; i-- {
		card := b.props[i].cardinality()
		s.Props[i] = uint8(offset % card)
		offset /= card
	}
	return s
}

// IDFromState recomposes a typed state into its global id.
func IDFromState(s State) StateID {
	b := &blocks[s.Kind]
	if len(s.Props) != len(b.props) {
		panic(fmt.Sprintf("catalog: %s state has %d properties, want %d",
			b.name, len(s.Props), len(b.props)))
	}

	offset := 0
	for i, p := range b.props {
		card := p.cardinality()
		if int(s.Props[i]) >= card {
			panic(fmt.Sprintf("catalog: %s property %s ordinal %d out of range",
				b.name, p.Name, s.Props[i]))
		}
		offset = offset*card + int(s.Props[i])
	}
	return b.start + StateID(offset)
}

// DefaultState returns the kind's default state in typed form.
func DefaultState(k Kind) State {
	return StateFromID(DefaultID(k))
}

// StateFromProperties starts from the kind's default state and overwrites
// each named property, parsing the value by the property's stored typing.
// An unknown property name on a kind that has properties is a contract
// violation and panics.
func StateFromProperties(k Kind, props map[string]string) State {
	s := DefaultState(k)
	b := &blocks[k]

	for name, value := range props {
		idx := -1
		for i, p := range b.props {
			if p.Name == name {
				idx = i
				break
			}
		}
		if idx < 0 {
			panic(fmt.Sprintf("catalog: block %s has no property %q", b.name, name))
		}
		s.Props[idx] = parseProperty(b.props[idx], value, b.name)
	}
	return s
}

func parseProperty(p Property, value, block string) uint8 {
	switch p.Kind {
	case PropBool:
		switch value {
		case "true":
			return 0
		case "false":
			return 1
		}
		panic(fmt.Sprintf("catalog: %s.%s: bad bool %q", block, p.Name, value))
	case PropInt:
		v, err := strconv.ParseUint(value, 10, 8)
		if err != nil || uint8(v) < p.Min || uint8(v) > p.Max {
			panic(fmt.Sprintf("catalog: %s.%s: bad int %q", block, p.Name, value))
		}
		return uint8(v) - p.Min
	default:
		for i, name := range p.Values {
			if name == value {
				return uint8(i)
			}
		}
		panic(fmt.Sprintf("catalog: %s.%s: bad enum value %q", block, p.Name, value))
	}
}

// ItemToBlock maps an item id to its block kind, if the item places one.
func ItemToBlock(item int32) (Kind, bool) {
	if item < 0 || int(item) >= len(itemBlocks) {
		return 0, false
	}
	k := itemBlocks[item]
	if k < 0 {
		return 0, false
	}
	return Kind(k), true
}

// Properties returns the kind's property descriptors.
func Properties(k Kind) []Property {
	return blocks[k].props
}

// IsAir reports whether id is the air state.
func IsAir(id StateID) bool {
	return id == DefaultID(KindAir)
}
