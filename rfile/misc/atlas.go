package misc

import "github.com/rpfm-go/rpfmcore/binary"

// AtlasSprite is one named rectangle packed into the atlas texture.
type AtlasSprite struct {
	Name          string
	X, Y          uint32
	Width, Height uint32
}

// Atlas is the .atlas sprite-sheet index.
type Atlas struct {
	Version uint32
	Texture string
	Sprites []AtlasSprite
}

// DecodeAtlas parses buf.
func DecodeAtlas(buf []byte) (*Atlas, error) {
	r := binary.NewReader(buf)
	version, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	texture, err := r.ReadSizedStringU8()
	if err != nil {
		return nil, err
	}
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	a := &Atlas{Version: version, Texture: texture}
	for i := uint32(0); i < count; i++ {
		name, err := r.ReadSizedStringU8()
		if err != nil {
			return nil, err
		}
		x, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		y, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		width, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		height, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		a.Sprites = append(a.Sprites, AtlasSprite{Name: name, X: x, Y: y, Width: width, Height: height})
	}
	return a, nil
}

// EncodeAtlas serializes a back to bytes.
func EncodeAtlas(a *Atlas) []byte {
	w := binary.NewWriter()
	w.WriteU32(a.Version)
	w.WriteSizedStringU8(a.Texture)
	w.WriteU32(uint32(len(a.Sprites)))
	for _, s := range a.Sprites {
		w.WriteSizedStringU8(s.Name)
		w.WriteU32(s.X)
		w.WriteU32(s.Y)
		w.WriteU32(s.Width)
		w.WriteU32(s.Height)
	}
	return w.Bytes()
}
