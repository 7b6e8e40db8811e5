// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package wordcloud renders word-frequency images from plain text.
package wordcloud

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/pdiddy/paper-insights/pkg/types"
)

const (
	defaultWidth    = 800
	defaultHeight   = 400
	defaultMaxWords = 200
	minFontSize     = 10
	padding         = 2
	spiralStep      = 0.15
)

// palette cycles through dark-to-light tones on a white background.
var palette = []color.Color{
	color.RGBA{0x44, 0x01, 0x54, 0xff},
	color.RGBA{0x3b, 0x52, 0x8b, 0xff},
	color.RGBA{0x21, 0x90, 0x8d, 0xff},
	color.RGBA{0x27, 0xad, 0x81, 0xff},
	color.RGBA{0x5d, 0xc8, 0x63, 0xff},
	color.RGBA{0x9a, 0x86, 0x00, 0xff},
}

// Renderer draws word clouds. It holds no per-render state and is safe for
// concurrent use.
type Renderer struct {
	width    int
	height   int
	maxWords int
	font     *truetype.Font
}

// NewRenderer applies defaults to cfg and loads the embedded Go Regular font.
func NewRenderer(cfg types.WordCloudConfig) (*Renderer, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing embedded font: %w", err)
	}
	r := &Renderer{
		width:    cfg.Width,
		height:   cfg.Height,
		maxWords: cfg.MaxWords,
		font:     f,
	}
	if r.width <= 0 {
		r.width = defaultWidth
	}
	if r.height <= 0 {
		r.height = defaultHeight
	}
	if r.maxWords <= 0 {
		r.maxWords = defaultMaxWords
	}
	return r, nil
}

// Size returns the image dimensions in pixels.
func (r *Renderer) Size() (width, height int) { return r.width, r.height }

type box struct {
	x, y, w, h float64
}

func (b box) overlaps(o box) bool {
	return b.x < o.x+o.w+padding && o.x < b.x+b.w+padding &&
		b.y < o.y+o.h+padding && o.y < b.y+b.h+padding
}

// Render draws the word cloud of text as PNG onto w. Words that do not fit
// even at the minimum font size are left out; text without countable words
// yields a blank image.
func (r *Renderer) Render(w io.Writer, text string) error {
	dc := gg.NewContext(r.width, r.height)
	dc.SetColor(color.White)
	dc.Clear()

	faces := newFaceCache(r.font)
	defer faces.Close()

	for i, p := range r.layout(dc, faces, Frequencies(text, r.maxWords)) {
		dc.SetFontFace(faces.Face(p.size))
		dc.SetColor(palette[i%len(palette)])
		dc.DrawStringAnchored(p.word, p.box.x+p.box.w/2, p.box.y+p.box.h/2, 0.5, 0.5)
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encoding word cloud: %w", err)
	}
	return nil
}

type placement struct {
	word string
	size int
	box  box
}

// layout positions words in frequency order. A word that does not fit at
// its scaled size is retried one point smaller down to minFontSize.
func (r *Renderer) layout(dc *gg.Context, faces *faceCache, words []WordCount) []placement {
	if len(words) == 0 {
		return nil
	}
	maxCount, minCount := words[0].Count, words[len(words)-1].Count

	var out []placement
	var placed []box
	for _, wc := range words {
		for size := r.fontSize(wc.Count, minCount, maxCount); size >= minFontSize; size-- {
			dc.SetFontFace(faces.Face(size))
			tw, th := dc.MeasureString(wc.Word)
			b, ok := r.place(tw, th, placed)
			if !ok {
				continue
			}
			placed = append(placed, b)
			out = append(out, placement{word: wc.Word, size: size, box: b})
			break
		}
	}
	return out
}

// faceCache holds one font face per point size for a single render.
type faceCache struct {
	font  *truetype.Font
	faces map[int]font.Face
}

func newFaceCache(f *truetype.Font) *faceCache {
	return &faceCache{font: f, faces: make(map[int]font.Face)}
}

func (c *faceCache) Face(size int) font.Face {
	face, ok := c.faces[size]
	if !ok {
		face = truetype.NewFace(c.font, &truetype.Options{Size: float64(size)})
		c.faces[size] = face
	}
	return face
}

func (c *faceCache) Close() {
	for _, f := range c.faces {
		f.Close()
	}
}

// fontSize scales count linearly between the minimum size and a quarter of
// the image height.
func (r *Renderer) fontSize(count, minCount, maxCount int) int {
	maxSize := float64(r.height) / 4
	if maxSize < minFontSize {
		maxSize = minFontSize
	}
	if maxCount == minCount {
		return int(maxSize)
	}
	frac := float64(count-minCount) / float64(maxCount-minCount)
	return int(minFontSize + frac*(maxSize-minFontSize))
}

// place walks an Archimedean spiral out from the centre and returns the
// first position where a tw x th box stays inside the image and clear of
// every placed box.
func (r *Renderer) place(tw, th float64, placed []box) (box, bool) {
	W, H := float64(r.width), float64(r.height)
	if tw > W || th > H {
		return box{}, false
	}
	cx, cy := W/2, H/2
	aspect := W / H
	maxRadius := math.Hypot(W, H) / 2

	for t := 0.0; ; t += spiralStep {
		radius := t
		if radius > maxRadius {
			return box{}, false
		}
		x := cx + radius*math.Cos(t)*aspect - tw/2
		y := cy + radius*math.Sin(t) - th/2
		if x < 0 || y < 0 || x+tw > W || y+th > H {
			continue
		}
		b := box{x: x, y: y, w: tw, h: th}
		free := true
		for _, p := range placed {
			if b.overlaps(p) {
				free = false
				break
			}
		}
		if free {
			return b, true
		}
	}
}

// RenderFile renders text to path. The image is written to a temporary file
// in the same directory and renamed, so readers never see a partial image.
func (r *Renderer) RenderFile(path, text string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".wordcloud-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	renderErr := r.Render(tmp, text)
	closeErr := tmp.Close()
	if renderErr != nil {
		os.Remove(tmpPath)
		return renderErr
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
