// Package rfile implements the typed-file catalogue of spec.md §4.3: the
// dispatch table from container path to FileType, the shared Extra context
// every codec decodes/encodes against, and the Decoded tagged union
// (spec.md §9's "dynamic dispatch across typed files" design note —
// expressed here as a struct with one populated pointer field per variant
// plus a Type discriminant, not an open interface hierarchy).
package rfile

import (
	"path"
	"strings"
)

// FileType discriminates every RFile variant the container can hold.
type FileType int

const (
	TypeUnknown FileType = iota
	TypePack
	TypeDB
	TypeLoc
	TypeESF
	TypeRigidModel
	TypeAnimPack
	TypeVideo
	TypeSoundBank
	TypeImage
	TypeText
	TypeUnitVariant
	TypeMatchedCombat
	TypeAnimsTable
	TypeAnimFragmentBattle
	TypePortraitSettings
	TypeAtlas
	TypeHlslCompiled
	TypeSoundEvents
)

func (t FileType) String() string {
	switch t {
	case TypePack:
		return "Pack"
	case TypeDB:
		return "DB"
	case TypeLoc:
		return "Loc"
	case TypeESF:
		return "ESF"
	case TypeRigidModel:
		return "RigidModel"
	case TypeAnimPack:
		return "AnimPack"
	case TypeVideo:
		return "Video"
	case TypeSoundBank:
		return "SoundBank"
	case TypeImage:
		return "Image"
	case TypeText:
		return "Text"
	case TypeUnitVariant:
		return "UnitVariant"
	case TypeMatchedCombat:
		return "MatchedCombat"
	case TypeAnimsTable:
		return "AnimsTable"
	case TypeAnimFragmentBattle:
		return "AnimFragmentBattle"
	case TypePortraitSettings:
		return "PortraitSettings"
	case TypeAtlas:
		return "Atlas"
	case TypeHlslCompiled:
		return "HlslCompiled"
	case TypeSoundEvents:
		return "SoundEvents"
	default:
		return "Unknown"
	}
}

// TextSubFormat tags a Text file's syntax/icon family, used purely for
// front-end highlighting (spec.md §4.3.6).
type TextSubFormat int

const (
	TextPlain TextSubFormat = iota
	TextHTML
	TextXML
	TextLua
	TextCPP
	TextMarkdown
	TextJSON
	TextCSS
	TextJS
	TextPython
	TextHLSL
	TextBatch
)

var textExtensions = map[string]TextSubFormat{
	".html": TextHTML, ".htm": TextHTML,
	".xml": TextXML,
	".lua": TextLua,
	".cpp": TextCPP, ".h": TextCPP, ".hpp": TextCPP, ".c": TextCPP,
	".md": TextMarkdown,
	".json": TextJSON,
	".css": TextCSS,
	".js": TextJS,
	".py": TextPython,
	".hlsl": TextHLSL,
	".bat": TextBatch,
	".txt": TextPlain,
}

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".tga": true, ".dds": true, ".bmp": true, ".gif": true,
}

// Dispatch implements the path→FileType table of spec.md §4.3, checked in
// the same order the table is written there: container-specific formats
// first, directory-shaped rules (db/, matched_combat/, anim fragments,
// portrait art) next, generic extensions last, raw bytes as the fallback.
func Dispatch(containerPath string) FileType {
	p := strings.ToLower(strings.ReplaceAll(containerPath, "\\", "/"))
	ext := path.Ext(p)
	base := path.Base(p)

	switch {
	case ext == ".pack" && !strings.HasSuffix(p, ".anim.pack"):
		return TypePack
	case ext == ".loc":
		return TypeLoc
	case ext == ".rigid_model_v2":
		return TypeRigidModel
	case strings.HasSuffix(p, ".anim.pack"):
		return TypeAnimPack
	case ext == ".ca_vp8":
		return TypeVideo
	case ext == ".bank":
		return TypeSoundBank
	case ext == ".unit_variant":
		return TypeUnitVariant
	case ext == ".esf" || ext == ".ccd" || ext == ".save":
		return TypeESF
	case ext == ".atlas":
		return TypeAtlas
	case ext == ".hlsl_compiled":
		return TypeHlslCompiled
	case strings.HasPrefix(p, "matched_combat/") && ext == ".bin":
		return TypeMatchedCombat
	case p == "animations/animation_tables/animation_tables.bin":
		return TypeAnimsTable
	case strings.HasPrefix(p, "animations/anim_fragments/") &&
		(ext == ".bin" || ext == ".frg"):
		return TypeAnimFragmentBattle
	case strings.HasPrefix(p, "db/") && countSlash(p) >= 2:
		return TypeDB
	case strings.HasPrefix(p, "campaign_character_arts/") && ext == ".bin":
		return TypePortraitSettings
	case imageExtensions[ext]:
		return TypeImage
	}

	if _, ok := textExtensions[ext]; ok {
		return TypeText
	}
	_ = base
	return TypeUnknown
}

// TextSubFormatFor returns the sub-format a Text file at containerPath
// should be tagged with.
func TextSubFormatFor(containerPath string) TextSubFormat {
	ext := path.Ext(strings.ToLower(containerPath))
	if sf, ok := textExtensions[ext]; ok {
		return sf
	}
	return TextPlain
}

func countSlash(p string) int {
	return strings.Count(p, "/")
}
