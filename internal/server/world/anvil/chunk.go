package anvil

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/quarrymc/server/internal/server/catalog"
	"github.com/quarrymc/server/internal/server/nbt"
	"github.com/quarrymc/server/internal/server/world"
)

// LoadChunk reads the chunk at region-relative (x, z) and materializes it.
func LoadChunk(r *Region, x, z int, log *slog.Logger) (*world.Chunk, error) {
	src, err := r.ReadChunk(x, z)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("inflate chunk (%d,%d): %w", x, z, err)
	}
	return decodeChunk(data, log)
}

type rawSection struct {
	y       int
	states  []uint16
	data    []uint64
	present bool
}

func decodeChunk(data []byte, log *slog.Logger) (*world.Chunk, error) {
	r := nbt.NewReader(data)

	root, err := r.Next()
	if err != nil {
		return nil, fmt.Errorf("read chunk root: %w", err)
	}
	if root.Type != nbt.TagCompound {
		return nil, fmt.Errorf("chunk root is tag 0x%02X, want compound", root.Type)
	}

	var (
		dataVersion   int32
		xPos, zPos    int32
		yPos          int32
		status        string
		lastUpdate    int64
		inhabitedTime int64
		sections      []rawSection
	)

	for {
		tok, err := r.Next()
		if err != nil {
			return nil, fmt.Errorf("read chunk field: %w", err)
		}
		if tok.Type == nbt.TagEnd {
			break
		}

		switch tok.Name {
		case "DataVersion":
			dataVersion = tok.Int
		case "xPos":
			xPos = tok.Int
		case "zPos":
			zPos = tok.Int
		case "yPos":
			yPos = tok.Int
		case "Status":
			status = tok.Str
		case "LastUpdate":
			lastUpdate = tok.Long
		case "InhabitedTime":
			inhabitedTime = tok.Long
		case "sections":
			sections, err = decodeSections(r, tok, log)
			if err != nil {
				return nil, err
			}
		default:
			if err := r.Skip(tok); err != nil {
				return nil, fmt.Errorf("skip chunk field %q: %w", tok.Name, err)
			}
		}
	}

	minY, maxY := int(yPos), int(yPos)
	for _, s := range sections {
		if !s.present {
			continue
		}
		if s.y < minY {
			minY = s.y
		}
		if s.y > maxY {
			maxY = s.y
		}
	}

	c := world.NewChunk(world.ChunkPos{X: xPos, Z: zPos}, minY, maxY-minY+1)
	c.DataVersion = dataVersion
	c.Status = world.Status(status)
	c.LastUpdate = lastUpdate
	c.InhabitedTime = inhabitedTime

	for _, s := range sections {
		if !s.present {
			continue
		}
		fillSection(c, s)
	}
	return c, nil
}

// fillSection unpacks a section's palette indices and writes every non-air
// cell through the chunk's mutation path, which rebuilds the packed storage
// in canonical form.
func fillSection(c *world.Chunk, s rawSection) {
	baseY := s.y * 16

	if len(s.states) <= 1 || len(s.data) == 0 {
		if len(s.states) == 0 || s.states[0] == 0 {
			return
		}
		for y := range 16 {
			for z := range 16 {
				for x := range 16 {
					c.SetBlock(x, baseY+y, z, s.states[0])
				}
			}
		}
		return
	}

	// On-disk width is implied by the word count, not the palette size.
	valuesPerLong := (world.SectionVolume + len(s.data) - 1) / len(s.data)
	bits := 64 / valuesPerLong
	perLong := 64 / bits
	mask := uint64(1)<<bits - 1

	for i := range world.SectionVolume {
		word := s.data[i/perLong]
		idx := word >> (uint(i%perLong) * uint(bits)) & mask
		if int(idx) >= len(s.states) {
			continue
		}
		state := s.states[idx]
		if state == 0 {
			continue
		}
		x := i & 0xF
		z := i >> 4 & 0xF
		y := i >> 8
		c.SetBlock(x, baseY+y, z, state)
	}
}

func decodeSections(r *nbt.Reader, list nbt.Token, log *slog.Logger) ([]rawSection, error) {
	if list.Type != nbt.TagList || (list.ListLen > 0 && list.ListElem != nbt.TagCompound) {
		return nil, fmt.Errorf("sections is not a compound list")
	}

	out := make([]rawSection, 0, list.ListLen)
	for i := int32(0); i < list.ListLen; i++ {
		if _, err := r.NextNameless(nbt.TagCompound); err != nil {
			return nil, err
		}
		sec, err := decodeSection(r, log)
		if err != nil {
			return nil, fmt.Errorf("section %d: %w", i, err)
		}
		out = append(out, sec)
	}
	return out, nil
}

func decodeSection(r *nbt.Reader, log *slog.Logger) (rawSection, error) {
	sec := rawSection{present: true}

	for {
		tok, err := r.Next()
		if err != nil {
			return sec, err
		}
		if tok.Type == nbt.TagEnd {
			return sec, nil
		}

		switch tok.Name {
		case "Y":
			sec.y = int(tok.Byte)
		case "block_states":
			if err := decodeBlockStates(r, &sec, log); err != nil {
				return sec, err
			}
		default:
			if err := r.Skip(tok); err != nil {
				return sec, fmt.Errorf("skip section field %q: %w", tok.Name, err)
			}
		}
	}
}

func decodeBlockStates(r *nbt.Reader, sec *rawSection, log *slog.Logger) error {
	for {
		tok, err := r.Next()
		if err != nil {
			return err
		}
		if tok.Type == nbt.TagEnd {
			return nil
		}

		switch tok.Name {
		case "palette":
			if tok.Type != nbt.TagList {
				return fmt.Errorf("palette is not a list")
			}
			for i := int32(0); i < tok.ListLen; i++ {
				if _, err := r.NextNameless(nbt.TagCompound); err != nil {
					return err
				}
				state, err := decodePaletteEntry(r, log)
				if err != nil {
					return fmt.Errorf("palette entry %d: %w", i, err)
				}
				sec.states = append(sec.states, state)
			}
		case "data":
			longs := tok.Longs.Materialize()
			sec.data = make([]uint64, len(longs))
			for i, v := range longs {
				sec.data[i] = uint64(v)
			}
		default:
			if err := r.Skip(tok); err != nil {
				return err
			}
		}
	}
}

// decodePaletteEntry resolves one block_states palette compound (Name plus
// optional Properties) to a global state id, falling back to air when the
// name is not in the catalog.
func decodePaletteEntry(r *nbt.Reader, log *slog.Logger) (uint16, error) {
	var name string
	props := map[string]string{}

	for {
		tok, err := r.Next()
		if err != nil {
			return 0, err
		}
		if tok.Type == nbt.TagEnd {
			break
		}

		switch tok.Name {
		case "Name":
			name = tok.Str
		case "Properties":
			for {
				p, err := r.Next()
				if err != nil {
					return 0, err
				}
				if p.Type == nbt.TagEnd {
					break
				}
				if p.Type != nbt.TagString {
					return 0, fmt.Errorf("property %q is tag 0x%02X, want string", p.Name, p.Type)
				}
				props[p.Name] = p.Str
			}
		default:
			if err := r.Skip(tok); err != nil {
				return 0, err
			}
		}
	}

	short := strings.TrimPrefix(name, "minecraft:")
	kind, ok := catalog.KindByName(short)
	if !ok {
		log.Warn("unknown block in region palette, using air", "name", name)
		return catalog.DefaultID(catalog.KindAir), nil
	}
	if len(props) == 0 {
		return catalog.DefaultID(kind), nil
	}
	return catalog.IDFromState(catalog.StateFromProperties(kind, props)), nil
}
