package cjkfont

import (
	"errors"
	"os"
	"strings"

	"github.com/graxinc/errutil"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"gonum.org/v1/plot/font"
)

// Load reads the font file at path and parses it with Parse.
func Load(path string) (font.Collection, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errutil.With(err)
	}
	coll, err := Parse(b)
	if err != nil {
		return nil, errutil.With(err)
	}
	return coll, nil
}

// Parse parses a TrueType or OpenType collection, or a single font file,
// into plot font faces. Each face is named by its typographic family,
// or by its family when that is absent.
func Parse(b []byte) (font.Collection, error) {
	c, err := opentype.ParseCollection(b)
	if err != nil {
		return nil, errutil.With(err)
	}
	n := c.NumFonts()
	if n == 0 {
		return nil, errutil.New(errutil.Tags{"msg": "font collection has no faces"})
	}

	var buf sfnt.Buffer
	coll := make(font.Collection, 0, n)
	for i := 0; i < n; i++ {
		f, err := c.Font(i)
		if err != nil {
			return nil, errutil.With(err)
		}

		family, err := faceName(f, &buf, sfnt.NameIDTypographicFamily, sfnt.NameIDFamily)
		if err != nil {
			return nil, errutil.With(err)
		}
		sub, _ := faceName(f, &buf, sfnt.NameIDTypographicSubfamily, sfnt.NameIDSubfamily)

		fnt := font.Font{Typeface: font.Typeface(family)}
		if strings.Contains(sub, "Bold") {
			fnt.Weight = xfont.WeightBold
		}
		if strings.Contains(sub, "Italic") || strings.Contains(sub, "Oblique") {
			fnt.Style = xfont.StyleItalic
		}
		coll = append(coll, font.Face{Font: fnt, Face: f})
	}
	return coll, nil
}

// faceName returns the first non-empty name among ids.
func faceName(f *opentype.Font, buf *sfnt.Buffer, ids ...sfnt.NameID) (string, error) {
	for _, id := range ids {
		name, err := f.Name(buf, id)
		if errors.Is(err, sfnt.ErrNotFound) {
			continue
		}
		if err != nil {
			return "", errutil.With(err)
		}
		if name = strings.TrimSpace(name); name != "" {
			return name, nil
		}
	}
	return "", errutil.New(errutil.Tags{"msg": "font face has no family name"})
}

// selectFace returns the regular face of family, or the first face of
// coll when coll has no such family.
func selectFace(coll font.Collection, family string) font.Face {
	var match *font.Face
	for i, f := range coll {
		if !strings.EqualFold(string(f.Font.Typeface), family) {
			continue
		}
		if f.Font.Weight == xfont.WeightNormal && f.Font.Style == xfont.StyleNormal {
			return f
		}
		if match == nil {
			match = &coll[i]
		}
	}
	if match != nil {
		return *match
	}
	return coll[0]
}
