package rfile

import (
	"github.com/rpfm-go/rpfmcore/rfile/animfrag"
	"github.com/rpfm-go/rpfmcore/rfile/esf"
	"github.com/rpfm-go/rpfmcore/rfile/loc"
	"github.com/rpfm-go/rpfmcore/rfile/misc"
	"github.com/rpfm-go/rpfmcore/rfile/portrait"
	"github.com/rpfm-go/rpfmcore/rfile/table"
	"github.com/rpfm-go/rpfmcore/rerr"
)

// Decoded is the tagged union dispatching across every typed file variant
// (spec.md §9 design note: "a tagged union RFileDecoded { Pack(...),
// Loc(...), DB(...), ESF(...), ... } with a thin decode/encode dispatch",
// expressed here as one pointer field per variant plus a Type
// discriminant, not an open interface hierarchy). The Pack variant itself
// lives in package pack and is threaded in by the caller; this union only
// carries the file types a Pack can contain.
type Decoded struct {
	Type FileType

	DB              *table.Table
	Loc             *loc.Loc
	ESF             *esf.File
	Portrait        *portrait.File
	AnimFragment    *animfrag.File
	RigidModel      *misc.RigidModel
	AnimPack        *misc.AnimPack
	Video           *misc.Video
	SoundBank       *misc.SoundBank
	Image           *misc.Image
	Text            *misc.Text
	UnitVariant     *misc.UnitVariant
	MatchedCombat   *misc.MatchedCombat
	AnimsTable      *misc.AnimsTable
	Atlas           *misc.Atlas
	HlslCompiled    *misc.HlslCompiled
	SoundEvents     *misc.SoundEvents
}

// Decode dispatches buf to the codec matching fileType, using opts for the
// DB codec (the only one that needs a schema) and ignoring it otherwise.
func Decode(fileType FileType, buf []byte, opts table.Options) (*Decoded, error) {
	d := &Decoded{Type: fileType}
	var err error

	switch fileType {
	case TypeDB:
		d.DB, err = table.Decode(buf, opts)
	case TypeLoc:
		d.Loc, err = loc.Decode(buf)
	case TypeESF:
		d.ESF, err = esf.Decode(buf)
	case TypePortraitSettings:
		d.Portrait, err = portrait.Decode(buf)
	case TypeAnimFragmentBattle:
		d.AnimFragment, err = animfrag.Decode(buf)
	case TypeRigidModel:
		d.RigidModel, err = misc.DecodeRigidModel(buf)
	case TypeAnimPack:
		d.AnimPack, err = misc.DecodeAnimPack(buf)
	case TypeVideo:
		d.Video, err = misc.DecodeVideo(buf)
	case TypeSoundBank:
		d.SoundBank, err = misc.DecodeSoundBank(buf)
	case TypeImage:
		d.Image, err = misc.DecodeImage(buf)
	case TypeText:
		d.Text, err = misc.DecodeText(buf)
	case TypeUnitVariant:
		d.UnitVariant, err = misc.DecodeUnitVariant(buf)
	case TypeMatchedCombat:
		d.MatchedCombat, err = misc.DecodeMatchedCombat(buf)
	case TypeAnimsTable:
		d.AnimsTable, err = misc.DecodeAnimsTable(buf)
	case TypeAtlas:
		d.Atlas, err = misc.DecodeAtlas(buf)
	case TypeHlslCompiled:
		d.HlslCompiled, err = misc.DecodeHlslCompiled(buf)
	case TypeSoundEvents:
		d.SoundEvents, err = misc.DecodeSoundEvents(buf)
	default:
		return nil, rerr.FileNotDecoded(opts.TableNameHint)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Encode dispatches d back to bytes through the codec matching d.Type.
func Encode(d *Decoded, opts table.Options) ([]byte, error) {
	switch d.Type {
	case TypeDB:
		return table.Encode(d.DB, opts)
	case TypeLoc:
		return loc.Encode(d.Loc), nil
	case TypeESF:
		return esf.Encode(d.ESF)
	case TypePortraitSettings:
		return portrait.Encode(d.Portrait), nil
	case TypeAnimFragmentBattle:
		return animfrag.Encode(d.AnimFragment), nil
	case TypeRigidModel:
		return misc.EncodeRigidModel(d.RigidModel), nil
	case TypeAnimPack:
		return misc.EncodeAnimPack(d.AnimPack), nil
	case TypeVideo:
		return misc.EncodeVideo(d.Video), nil
	case TypeSoundBank:
		return misc.EncodeSoundBank(d.SoundBank), nil
	case TypeImage:
		return misc.EncodeImage(d.Image), nil
	case TypeText:
		return misc.EncodeText(d.Text), nil
	case TypeUnitVariant:
		return misc.EncodeUnitVariant(d.UnitVariant), nil
	case TypeMatchedCombat:
		return misc.EncodeMatchedCombat(d.MatchedCombat), nil
	case TypeAnimsTable:
		return misc.EncodeAnimsTable(d.AnimsTable), nil
	case TypeAtlas:
		return misc.EncodeAtlas(d.Atlas), nil
	case TypeHlslCompiled:
		return misc.EncodeHlslCompiled(d.HlslCompiled), nil
	case TypeSoundEvents:
		return misc.EncodeSoundEvents(d.SoundEvents), nil
	default:
		return nil, rerr.FileNotDecoded("")
	}
}
