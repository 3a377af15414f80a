package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func TestTextAtlasBake(t *testing.T) {
	atlas, err := NewTextAtlas(goregular.TTF, 14)
	require.NoError(t, err)

	img := atlas.Image()
	assert.Equal(t, textAtlasSize, img.Rect.Dx())

	// The atlas must contain ink somewhere.
	ink := false
	for _, p := range img.Pix {
		if p != 0 {
			ink = true
			break
		}
	}
	assert.True(t, ink, "baked atlas is blank")
}

func TestTextAtlasBuildVertices(t *testing.T) {
	atlas, err := NewTextAtlas(goregular.TTF, 14)
	require.NoError(t, err)

	items := []TextItem{
		{Text: "FPS 60", Position: [2]float32{8, 8}, Scale: 1, Color: [3]float32{1, 1, 1}},
	}
	verts := atlas.BuildVertices(items, 800, 600)

	// Six vertices per visible glyph; the space carries no quad.
	assert.Equal(t, 5*6, len(verts))
	for _, v := range verts {
		assert.GreaterOrEqual(t, v.Pos[0], float32(-1))
		assert.LessOrEqual(t, v.Pos[0], float32(1))
	}
}

func TestTextAtlasNewlineAdvances(t *testing.T) {
	atlas, err := NewTextAtlas(goregular.TTF, 14)
	require.NoError(t, err)

	one := atlas.BuildVertices([]TextItem{{Text: "a", Position: [2]float32{0, 0}, Scale: 1}}, 800, 600)
	two := atlas.BuildVertices([]TextItem{{Text: "a\na", Position: [2]float32{0, 0}, Scale: 1}}, 800, 600)
	require.Len(t, two, len(one)*2)
	// Second line sits lower on screen (smaller NDC y).
	assert.Less(t, two[len(one)].Pos[1], one[0].Pos[1])
}

func TestMeasureText(t *testing.T) {
	atlas, err := NewTextAtlas(goregular.TTF, 14)
	require.NoError(t, err)

	w1, h1 := atlas.MeasureText("hi", 1)
	w2, h2 := atlas.MeasureText("hi there", 1)
	assert.Greater(t, w2, w1)
	assert.Equal(t, h1, h2)

	_, h3 := atlas.MeasureText("a\nb", 1)
	assert.Greater(t, h3, h1)
}

func TestBadFontBytes(t *testing.T) {
	_, err := NewTextAtlas([]byte("not a font"), 14)
	assert.Error(t, err)
}
