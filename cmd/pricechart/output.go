package main

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/danp/pricechart/cjkfont"
	"github.com/danp/pricechart/price"
	"github.com/graxinc/errutil"
	"golang.org/x/image/tiff"
	vgdraw "gonum.org/v1/plot/vg/draw"
	_ "gonum.org/v1/plot/vg/vgeps"
	"gonum.org/v1/plot/vg/vgimg"
	_ "gonum.org/v1/plot/vg/vgpdf"
	_ "gonum.org/v1/plot/vg/vgsvg"
)

const padding = 20

// formatFromPath returns the output format named by the extension of path.
func formatFromPath(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "":
		return "png"
	case "jpeg":
		return "jpg"
	case "tiff":
		return "tif"
	}
	return ext
}

func isRaster(format string) bool {
	switch format {
	case "png", "jpg", "tif":
		return true
	}
	return false
}

// writeReport renders s as a report in format and writes it to w.
// Text whose glyphs the active font lacks is logged.
func writeReport(w io.Writer, s price.Series, format string, opts reportOptions, st cjkfont.State) error {
	r, err := newReport(s, opts)
	if err != nil {
		return errutil.With(err)
	}

	if m := cjkfont.Missing(st.Face(), strings.Join(r.texts(), "")); len(m) > 0 {
		log.Printf("at=missing-glyphs family=%q source=%s runes=%q", st.Family, st.Source, string(m))
	}

	if !isRaster(format) {
		c, err := vgdraw.NewFormattedCanvas(opts.width, opts.height, format)
		if err != nil {
			return errutil.With(err)
		}
		r.draw(vgdraw.New(c))
		if _, err := c.WriteTo(w); err != nil {
			return errutil.With(err)
		}
		return nil
	}

	c := vgimg.NewWith(vgimg.UseWH(opts.width, opts.height), vgimg.UseDPI(opts.dpi), vgimg.UseBackgroundColor(color.White))
	r.draw(vgdraw.New(c))

	out := padImage(c.Image(), padding)
	if err := encodeImage(w, out, format); err != nil {
		return errutil.With(err)
	}
	return nil
}

// padImage returns img surrounded by a white border of width pad.
func padImage(img image.Image, pad int) *image.RGBA {
	bnds := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bnds.Dx()+2*pad, bnds.Dy()+2*pad))
	draw.Draw(out, out.Bounds(), &image.Uniform{color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)
	draw.Draw(out, bnds.Sub(bnds.Min).Add(image.Pt(pad, pad)), img, bnds.Min, draw.Over)
	return out
}

func encodeImage(w io.Writer, img image.Image, format string) error {
	var err error
	switch format {
	case "jpg":
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case "tif":
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		err = png.Encode(w, img)
	}
	if err != nil {
		return errutil.With(err)
	}
	return nil
}

// renderPNG renders s as a padded PNG.
func renderPNG(s price.Series, opts reportOptions, st cjkfont.State) ([]byte, error) {
	var b bytes.Buffer
	if err := writeReport(&b, s, "png", opts, st); err != nil {
		return nil, errutil.With(err)
	}
	return b.Bytes(), nil
}

func writeFileFromReader(file string, r io.Reader) error {
	f, err := os.Create(file)
	if err != nil {
		return errutil.With(err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return errutil.With(err)
	}

	return f.Close()
}
