package cjkfont

import (
	"unicode"

	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// Missing returns the runes of s, in order of first appearance, that face
// maps to no glyph. Whitespace and control runes are ignored.
// A nil face covers nothing.
func Missing(face *opentype.Font, s string) []rune {
	var (
		buf     sfnt.Buffer
		missing []rune
		seen    = make(map[rune]bool)
	)
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) || seen[r] {
			continue
		}
		seen[r] = true

		if face == nil {
			missing = append(missing, r)
			continue
		}
		idx, err := face.GlyphIndex(&buf, r)
		if err != nil || idx == 0 {
			missing = append(missing, r)
		}
	}
	return missing
}
