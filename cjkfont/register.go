package cjkfont

import (
	"os"
	"sync"

	"github.com/graxinc/errutil"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
)

// A Registrar adds font assets to a plot font cache and makes them the
// default plot typeface.
type Registrar struct {
	// Cache receives the faces of a successfully loaded font.
	// If nil, font.DefaultCache is used.
	Cache *font.Cache

	// Activate makes a successful registration set plot.DefaultFont
	// and plotter.DefaultFont.
	Activate bool

	// Families lists installed font families to try, in order, when
	// the asset cannot be used. Empty disables the system search.
	Families []string

	// find maps a family to an installed font file.
	find func(family string) (string, bool)
}

// An Option configures a Registrar.
type Option func(*Registrar)

// WithCache registers faces into c instead of font.DefaultCache.
func WithCache(c *font.Cache) Option {
	return func(r *Registrar) { r.Cache = c }
}

// WithoutActivation leaves the plot default fonts alone.
func WithoutActivation() Option {
	return func(r *Registrar) { r.Activate = false }
}

// WithSystemFonts enables searching the system font directories for
// families when the asset cannot be used. With no families,
// DefaultSystemFamilies is searched.
func WithSystemFonts(families ...string) Option {
	return func(r *Registrar) {
		if len(families) == 0 {
			families = DefaultSystemFamilies
		}
		r.Families = families
	}
}

// WithFontDirs sets the directories searched for system fonts.
func WithFontDirs(dirs ...string) Option {
	return func(r *Registrar) { r.find = newSystemFinder(dirs).find }
}

// NewRegistrar returns a Registrar writing to font.DefaultCache and the
// plot default fonts.
func NewRegistrar(opts ...Option) *Registrar {
	r := &Registrar{Cache: font.DefaultCache, Activate: true}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Setup registers asset with a new Registrar.
func Setup(asset Asset, opts ...Option) State {
	return NewRegistrar(opts...).Register(asset)
}

// Register loads asset and, if it is usable, activates it. Otherwise the
// configured system families are tried and then the plot default font is
// kept. Register never fails: the returned State tells which font is
// active and why. When a font set by an earlier activating registration
// is still the plot default, a failed registration reports that font.
func (r *Registrar) Register(asset Asset) State {
	st, err := r.load(asset, SourceAsset)
	if err == nil {
		return st
	}
	reason := err.Error()

	if len(r.Families) > 0 {
		find := r.find
		if find == nil {
			find = defaultSystemFinder().find
		}
		for _, family := range r.Families {
			path, ok := find(family)
			if !ok {
				continue
			}
			st, err := r.load(Asset{Path: path, Family: family, Sample: asset.Sample}, SourceSystem)
			if err != nil {
				continue
			}
			st.Reason = reason
			return st
		}
	}

	if r.Activate {
		if st, ok := activeState(); ok {
			st.Reason = reason
			return st
		}
	}

	return State{
		Family: string(libraryDefault.Typeface),
		Source: SourceDefault,
		Reason: reason,
		font:   libraryDefault,
		face:   r.cache().Lookup(libraryDefault, 0).Face,
	}
}

// active is the state of the last registration that set the plot
// default fonts.
var active struct {
	sync.Mutex
	st State
	ok bool
}

func setActive(st State) {
	active.Lock()
	defer active.Unlock()
	active.st, active.ok = st, true
}

// activeState returns the last activated state while its font is still
// plot.DefaultFont.
func activeState() (State, bool) {
	active.Lock()
	defer active.Unlock()
	if !active.ok || plot.DefaultFont != active.st.font {
		return State{}, false
	}
	return active.st, true
}

func (r *Registrar) load(asset Asset, src Source) (State, error) {
	if !Resolve(asset.Path) {
		return State{}, errutil.New(errutil.Tags{"msg": "font file not found", "path": asset.Path})
	}

	b, err := os.ReadFile(asset.Path)
	if err != nil {
		return State{}, errutil.With(err)
	}

	coll, err := Parse(b)
	if err != nil {
		return State{}, errutil.With(err)
	}

	face := selectFace(coll, asset.Family)
	if m := Missing(face.Face, asset.Sample); len(m) > 0 {
		return State{}, errutil.New(errutil.Tags{"msg": "font lacks glyphs", "path": asset.Path, "family": face.Font.Typeface, "missing": string(m)})
	}

	r.cache().Add(coll)

	fnt := font.Font{Typeface: face.Font.Typeface, Style: face.Font.Style, Weight: face.Font.Weight}
	st := State{
		Family: string(fnt.Typeface),
		Path:   asset.Path,
		Source: src,
		font:   fnt,
		face:   face.Face,
		data:   b,
	}
	if r.Activate {
		plot.DefaultFont = fnt
		plotter.DefaultFont = fnt
		setActive(st)
	}
	return st, nil
}

func (r *Registrar) cache() *font.Cache {
	if r.Cache == nil {
		return font.DefaultCache
	}
	return r.Cache
}
