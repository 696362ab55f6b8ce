package misc

import "github.com/rpfm-go/rpfmcore/binary"

// UnitVariantMesh is one mesh part override within a category.
type UnitVariantMesh struct {
	Name   string
	File   string
	Attach string
}

// UnitVariantCategory groups mesh overrides under a slot name (e.g. "head").
type UnitVariantCategory struct {
	Name   string
	Meshes []UnitVariantMesh
}

// UnitVariant is the .unit_variant file: a named set of mesh/texture
// overrides layered onto a unit's base model.
type UnitVariant struct {
	Version    uint32
	ID         string
	Categories []UnitVariantCategory
}

// DecodeUnitVariant parses buf.
func DecodeUnitVariant(buf []byte) (*UnitVariant, error) {
	r := binary.NewReader(buf)
	version, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	id, err := r.ReadSizedStringU8()
	if err != nil {
		return nil, err
	}
	catCount, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	uv := &UnitVariant{Version: version, ID: id}
	for c := uint32(0); c < catCount; c++ {
		name, err := r.ReadSizedStringU8()
		if err != nil {
			return nil, err
		}
		meshCount, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		cat := UnitVariantCategory{Name: name}
		for m := uint32(0); m < meshCount; m++ {
			meshName, err := r.ReadSizedStringU8()
			if err != nil {
				return nil, err
			}
			file, err := r.ReadSizedStringU8()
			if err != nil {
				return nil, err
			}
			attach, err := r.ReadSizedStringU8()
			if err != nil {
				return nil, err
			}
			cat.Meshes = append(cat.Meshes, UnitVariantMesh{Name: meshName, File: file, Attach: attach})
		}
		uv.Categories = append(uv.Categories, cat)
	}
	return uv, nil
}

// EncodeUnitVariant serializes uv back to bytes.
func EncodeUnitVariant(uv *UnitVariant) []byte {
	w := binary.NewWriter()
	w.WriteU32(uv.Version)
	w.WriteSizedStringU8(uv.ID)
	w.WriteU32(uint32(len(uv.Categories)))
	for _, cat := range uv.Categories {
		w.WriteSizedStringU8(cat.Name)
		w.WriteU32(uint32(len(cat.Meshes)))
		for _, m := range cat.Meshes {
			w.WriteSizedStringU8(m.Name)
			w.WriteSizedStringU8(m.File)
			w.WriteSizedStringU8(m.Attach)
		}
	}
	return w.Bytes()
}
