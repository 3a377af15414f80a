package gpu

import (
	"fmt"
	"image"
	"image/draw"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// TextVertex is one corner of a glyph quad in normalized device
// coordinates.
type TextVertex struct {
	Pos   [2]float32
	UV    [2]float32
	Color [3]float32
}

// TextItem is one HUD string. Position is in pixels from the top-left
// corner of the window.
type TextItem struct {
	Text     string
	Position [2]float32
	Scale    float32
	Color    [3]float32
}

type glyphInfo struct {
	uvMin [2]float32
	uvMax [2]float32
	size  [2]float32
	off   [2]float32
	adv   float32
}

const textAtlasSize = 512

// TextAtlas bakes the printable ASCII range of a font into an alpha
// texture and turns strings into glyph quads. Geometry building is
// pure CPU work; the renderer owns the GPU texture.
type TextAtlas struct {
	image  *image.Alpha
	glyphs map[rune]glyphInfo
	face   font.Face
}

// NewTextAtlas bakes an atlas from TTF bytes at the given pixel size.
func NewTextAtlas(fontBytes []byte, fontSize float64) (*TextAtlas, error) {
	f, err := opentype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}

	atlas := image.NewAlpha(image.Rect(0, 0, textAtlasSize, textAtlasSize))
	glyphs := make(map[rune]glyphInfo)

	x, y := 2, 2
	rowHeight := 0
	for r := rune(32); r < 127; r++ {
		bounds, mask, _, adv, ok := face.Glyph(fixed.Point26_6{}, r)
		if !ok {
			continue
		}
		w := mask.Bounds().Dx()
		h := mask.Bounds().Dy()

		if x+w >= textAtlasSize {
			x = 2
			y += rowHeight + 4
			rowHeight = 0
		}
		if y+h >= textAtlasSize {
			return nil, fmt.Errorf("font size %.1f overflows the glyph atlas", fontSize)
		}

		draw.Draw(atlas, image.Rect(x, y, x+w, y+h), mask, mask.Bounds().Min, draw.Src)
		glyphs[r] = glyphInfo{
			uvMin: [2]float32{float32(x) / textAtlasSize, float32(y) / textAtlasSize},
			uvMax: [2]float32{float32(x+w) / textAtlasSize, float32(y+h) / textAtlasSize},
			size:  [2]float32{float32(w), float32(h)},
			off:   [2]float32{float32(bounds.Min.X), float32(bounds.Min.Y)},
			adv:   float32(adv) / 64.0,
		}

		x += w + 4
		if h > rowHeight {
			rowHeight = h
		}
	}

	return &TextAtlas{image: atlas, glyphs: glyphs, face: face}, nil
}

// LoadTextAtlas reads a TTF from disk, falling back to the bundled
// Go Regular face when the path is empty or unreadable.
func LoadTextAtlas(fontPath string, fontSize float64) (*TextAtlas, error) {
	if fontPath != "" {
		if data, err := os.ReadFile(fontPath); err == nil {
			return NewTextAtlas(data, fontSize)
		}
	}
	return NewTextAtlas(goregular.TTF, fontSize)
}

// Image returns the baked alpha atlas for texture upload.
func (t *TextAtlas) Image() *image.Alpha { return t.image }

// BuildVertices converts HUD items into glyph quads for the given
// window size, two triangles per glyph.
func (t *TextAtlas) BuildVertices(items []TextItem, screenW, screenH int) []TextVertex {
	vertices := make([]TextVertex, 0, 64)
	sw, sh := float32(screenW), float32(screenH)
	metrics := t.face.Metrics()
	ascent := float32(metrics.Ascent.Ceil())
	lineHeight := float32(metrics.Height.Ceil())

	for _, item := range items {
		startX := item.Position[0]
		posX := startX
		posY := item.Position[1] + ascent*item.Scale

		for _, r := range item.Text {
			if r == '\n' {
				posX = startX
				posY += lineHeight * item.Scale
				continue
			}
			g, ok := t.glyphs[r]
			if !ok {
				continue
			}

			x0 := (posX+g.off[0]*item.Scale)/sw*2 - 1
			y0 := 1 - (posY+g.off[1]*item.Scale)/sh*2
			x1 := (posX+(g.off[0]+g.size[0])*item.Scale)/sw*2 - 1
			y1 := 1 - (posY+(g.off[1]+g.size[1])*item.Scale)/sh*2

			c := item.Color
			vertices = append(vertices,
				TextVertex{Pos: [2]float32{x0, y0}, UV: [2]float32{g.uvMin[0], g.uvMin[1]}, Color: c},
				TextVertex{Pos: [2]float32{x1, y0}, UV: [2]float32{g.uvMax[0], g.uvMin[1]}, Color: c},
				TextVertex{Pos: [2]float32{x0, y1}, UV: [2]float32{g.uvMin[0], g.uvMax[1]}, Color: c},
				TextVertex{Pos: [2]float32{x1, y0}, UV: [2]float32{g.uvMax[0], g.uvMin[1]}, Color: c},
				TextVertex{Pos: [2]float32{x1, y1}, UV: [2]float32{g.uvMax[0], g.uvMax[1]}, Color: c},
				TextVertex{Pos: [2]float32{x0, y1}, UV: [2]float32{g.uvMin[0], g.uvMax[1]}, Color: c},
			)
			posX += g.adv * item.Scale
		}
	}
	return vertices
}

// MeasureText returns the pixel width and height of a string at the
// given scale.
func (t *TextAtlas) MeasureText(text string, scale float32) (float32, float32) {
	metrics := t.face.Metrics()
	lineHeight := float32(metrics.Height.Ceil())

	maxW, curW := float32(0), float32(0)
	lines := 1
	for _, r := range text {
		if r == '\n' {
			if curW > maxW {
				maxW = curW
			}
			curW = 0
			lines++
			continue
		}
		if g, ok := t.glyphs[r]; ok {
			curW += g.adv * scale
		}
	}
	if curW > maxW {
		maxW = curW
	}
	return maxW, lineHeight * scale * float32(lines)
}
