// Package cjkfont makes a bundled CJK TrueType font the default typeface
// for gonum plots so Chinese text renders without placeholder glyphs.
//
// Registration fails open: when the font asset is missing, unreadable,
// malformed or lacks the glyphs of its sample text, the plot library's
// default font stays active and the returned State says why.
package cjkfont

import (
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/opentype"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
)

const (
	// DefaultPath is the file name of the bundled font, a TrueType
	// collection distributed under GPLv3 with a font embedding exception.
	DefaultPath = "WenQuanYiMicroHei.ttf"

	// DefaultFamily is the family activated from DefaultPath.
	DefaultFamily = "WenQuanYi Micro Hei"

	// DefaultSample holds simplified and traditional characters used in
	// chart text. A font must cover all of them to be activated.
	DefaultSample = "电价趋势日前实时均值價格"
)

// libraryDefault is the plot default typeface before any registration.
var libraryDefault = plot.DefaultFont

// An Asset describes a font file to register.
type Asset struct {
	// Path is the font file, absolute or relative to the working directory.
	Path string

	// Family is the family name to activate. When the file has no face
	// with this name, its first face is activated under its own name.
	Family string

	// Sample is text whose glyphs the activated face must cover.
	// An empty Sample skips the coverage check.
	Sample string
}

// DefaultAsset returns the bundled font asset.
func DefaultAsset() Asset {
	return Asset{Path: DefaultPath, Family: DefaultFamily, Sample: DefaultSample}
}

// Source tells where the active typeface came from.
type Source int

const (
	// SourceDefault means the plot library default font is active.
	SourceDefault Source = iota
	// SourceAsset means the requested font asset is active.
	SourceAsset
	// SourceSystem means an installed system font is active.
	SourceSystem
)

func (s Source) String() string {
	switch s {
	case SourceAsset:
		return "asset"
	case SourceSystem:
		return "system"
	default:
		return "default"
	}
}

// MarshalText makes Source encode as its name.
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// State is the outcome of a registration.
type State struct {
	// Family is the active typeface.
	Family string
	// Path is the file the typeface was loaded from, empty for the default.
	Path string
	// Source tells where Family came from.
	Source Source
	// Reason explains why the requested asset was not activated.
	Reason string

	font font.Font
	face *opentype.Font
	data []byte
}

// Fallback reports whether the requested font asset could not be used.
// Source then tells which font is active instead: a system font, the
// plot default, or a font activated by an earlier registration.
func (s State) Fallback() bool {
	return s.Reason != ""
}

// Font returns the descriptor of the active typeface.
func (s State) Font() font.Font {
	return s.font
}

// Face returns the parsed active face. It may be nil for the default font
// when the registrar's cache does not hold it.
func (s State) Face() *opentype.Font {
	return s.face
}

// TrueType parses the active font file with freetype for renderers that
// need a *truetype.Font. For collections the first face is used.
// It returns nil for the default font or when freetype cannot parse the
// file, such as for CFF-flavored OpenType fonts.
func (s State) TrueType() *truetype.Font {
	if s.Source == SourceDefault || len(s.data) == 0 {
		return nil
	}
	f, err := truetype.Parse(s.data)
	if err != nil {
		return nil
	}
	return f
}
