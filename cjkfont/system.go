package cjkfont

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	sysfont "github.com/tdewolff/font"
	"golang.org/x/image/font/sfnt"
)

// DefaultSystemFamilies are installed families known to cover Chinese text,
// in order of preference.
var DefaultSystemFamilies = []string{
	"Arial Unicode MS",
	"SimHei",
	"Microsoft YaHei",
	"Heiti TC",
	"Noto Sans CJK SC",
	"WenQuanYi Micro Hei",
}

// systemFinder scans font directories once, on first use.
type systemFinder struct {
	dirs  []string
	index func() *systemIndex
}

// systemIndex holds what a scan found. Single font files are indexed by
// tdewolff/font, collections (.ttc, .otc) by the families in their name
// tables.
type systemIndex struct {
	fonts       []*sysfont.SystemFonts
	collections map[string]string
}

func newSystemFinder(dirs []string) *systemFinder {
	s := &systemFinder{dirs: dirs}
	s.index = sync.OnceValue(func() *systemIndex {
		return scanSystemFonts(s.dirs)
	})
	return s
}

var defaultSystemFinder = sync.OnceValue(func() *systemFinder {
	return newSystemFinder(sysfont.DefaultFontDirs())
})

// scanSystemFonts scans each of dirs on its own so an unreadable
// directory only loses its own fonts.
func scanSystemFonts(dirs []string) *systemIndex {
	idx := &systemIndex{collections: make(map[string]string)}
	for _, dir := range dirs {
		if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
			continue
		}

		fonts, err := sysfont.FindSystemFonts([]string{dir})
		if err != nil {
			log.Printf("at=cjkfont-system-scan dir=%q err=%q", dir, err)
		} else if fonts != nil {
			idx.fonts = append(idx.fonts, fonts)
		}

		scanCollections(dir, idx.collections)
	}
	return idx
}

// scanCollections adds the families of every font collection under dir
// to into, keyed by lower-cased family. The first file seen for a family
// wins. Unreadable entries are skipped.
func scanCollections(dir string, into map[string]string) {
	var buf sfnt.Buffer
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".ttc", ".otc":
		default:
			return nil
		}

		for _, family := range collectionFamilies(path, &buf) {
			key := strings.ToLower(family)
			if _, ok := into[key]; !ok {
				into[key] = path
			}
		}
		return nil
	})
}

// collectionFamilies returns the family names of the faces in the font
// collection at path, reading only the tables it needs.
func collectionFamilies(path string, buf *sfnt.Buffer) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	c, err := sfnt.ParseCollectionReaderAt(f)
	if err != nil {
		log.Printf("at=cjkfont-system-scan path=%q err=%q", path, err)
		return nil
	}

	var families []string
	for i := 0; i < c.NumFonts(); i++ {
		face, err := c.Font(i)
		if err != nil {
			continue
		}
		family, err := faceName(face, buf, sfnt.NameIDTypographicFamily, sfnt.NameIDFamily)
		if err != nil {
			continue
		}
		families = append(families, family)
	}
	return families
}

// find returns the file of an installed font of family. Collections are
// matched exactly, ignoring case, before single font files are.
func (s *systemFinder) find(family string) (string, bool) {
	idx := s.index()
	if p, ok := idx.collections[strings.ToLower(family)]; ok {
		return p, true
	}
	for _, fonts := range idx.fonts {
		md, ok := fonts.Match(family, sysfont.Regular)
		if ok && md.Filename != "" {
			return md.Filename, true
		}
	}
	return "", false
}
