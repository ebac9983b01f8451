// Copyright (c) 2026 Keymaster Team
// Voterslip - voter lookup and slip printing
// This source code is licensed under the MIT license found in the LICENSE file.

// Package headerimg shrinks the operator's header image so it can be inlined
// into a slip that is itself carried inside a URL. Every failure degrades to
// "no image"; nothing here returns an error to the caller.
package headerimg

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/toeirei/voterslip/internal/logging"
)

// Mode selects the colour treatment applied before resizing.
type Mode string

const (
	// ModeGrayscale flattens transparency onto white and drops colour.
	ModeGrayscale Mode = "grayscale"
	// ModeFlatten flattens transparency onto white and keeps colour.
	ModeFlatten Mode = "flatten"
	// ModeNone leaves pixels untouched; transparent areas encode as black.
	ModeNone Mode = "none"
)

const (
	// DefaultWidth is the output width in pixels when Options.Width is zero.
	// Other widths are clamped to the range 50 to 600.
	DefaultWidth = 200
	// DefaultQuality is the JPEG quality used when Options.Quality is zero.
	DefaultQuality = 30
	minWidth       = 50
	maxWidth       = 600
)

// Options configures the preprocessing pipeline. Zero values fall back to
// the defaults.
type Options struct {
	// AssetsDir is searched by base name when the configured path is missing.
	AssetsDir string
	Width     int
	Quality   int
	Mode      Mode
	// Filter is one of "lanczos", "catmullrom", "linear", "box", "nearest".
	Filter string
}

// Preparer turns an image path into compact JPEG bytes.
type Preparer struct {
	opts   Options
	filter imaging.ResampleFilter
}

// New returns a Preparer with sanitized options.
func New(opts Options) *Preparer {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	opts.Width = clamp(opts.Width, minWidth, maxWidth)
	if opts.Quality <= 0 {
		opts.Quality = DefaultQuality
	}
	opts.Quality = clamp(opts.Quality, 1, 100)
	switch opts.Mode {
	case ModeGrayscale, ModeFlatten, ModeNone:
	default:
		opts.Mode = ModeGrayscale
	}
	return &Preparer{opts: opts, filter: resampleFilter(opts.Filter)}
}

// Options returns the effective options after defaults were applied.
func (p *Preparer) Options() Options { return p.opts }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func resampleFilter(name string) imaging.ResampleFilter {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "nearest":
		return imaging.NearestNeighbor
	case "box":
		return imaging.Box
	case "linear":
		return imaging.Linear
	case "catmullrom":
		return imaging.CatmullRom
	default:
		return imaging.Lanczos
	}
}

// Resolve returns the file to read for path: path itself when it is a
// regular file, otherwise the same base name under AssetsDir. It returns ""
// when neither exists.
func (p *Preparer) Resolve(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if isFile(path) {
		return path
	}
	if p.opts.AssetsDir != "" {
		alt := filepath.Join(p.opts.AssetsDir, filepath.Base(path))
		if isFile(alt) {
			return alt
		}
	}
	return ""
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

// Prepare returns JPEG bytes for the image at path, or nil when there is no
// usable image.
func (p *Preparer) Prepare(path string) []byte {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	src := p.Resolve(path)
	if src == "" {
		logging.Debugf("header image %q not found", path)
		return nil
	}
	out, err := p.process(src)
	if err != nil {
		logging.Warnf("header image %q unusable: %v", src, err)
		return nil
	}
	return out
}

func (p *Preparer) process(src string) ([]byte, error) {
	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return p.Transform(img)
}

// Transform runs the colour, resize and encode steps on an already decoded
// image.
func (p *Preparer) Transform(img image.Image) ([]byte, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("empty image")
	}

	var work image.Image = img
	switch p.opts.Mode {
	case ModeGrayscale:
		work = imaging.Grayscale(flatten(work))
	case ModeFlatten:
		work = flatten(work)
	}

	work = imaging.Resize(work, p.opts.Width, 0, p.filter)
	if p.opts.Mode == ModeGrayscale {
		// A single-channel image encodes as a one-component JPEG.
		work = toGray(work)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, work, imaging.JPEG, imaging.JPEGQuality(p.opts.Quality)); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}

// flatten composites img onto an opaque white canvas of the same size.
func flatten(img image.Image) image.Image {
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}

func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	g := image.NewGray(b)
	draw.Draw(g, b, img, b.Min, draw.Src)
	return g
}

// DataURI returns the prepared image as a data: URI, or "" when there is no
// usable image.
func DataURI(jpeg []byte) string {
	if len(jpeg) == 0 {
		return ""
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpeg)
}
