package shaping

import (
	"os"
	"testing"

	"github.com/inkstroke/shaping/internal/testutil"
	"github.com/inkstroke/shaping/ot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureFromString(t *testing.T) {
	f, ok := FeatureFromString("-liga")
	require.True(t, ok)
	assert.Equal(t, uint32(0), f.Value)

	f, ok = FeatureFromString("aalt=2")
	require.True(t, ok)
	assert.Equal(t, uint32(2), f.Value)
}

func TestOutputBufferSerialize(t *testing.T) {
	buf := &ot.Buffer{
		Info: []ot.GlyphInfo{{GlyphID: 3, Cluster: 0}, {GlyphID: 7, Cluster: 1}},
		Pos: []ot.GlyphPos{
			{XAdvance: 500},
			{XAdvance: 600, XOffset: 2},
		},
	}
	out := OutputBuffer{inner: buf}

	assert.Equal(t, 2, out.Len())
	assert.Equal(t, []ot.GlyphID{3, 7}, out.GlyphIDs())
	assert.Equal(t, []int{0, 1}, out.Clusters())
	assert.Equal(t, 1100, out.TotalAdvance())
	assert.Equal(t, "[3=0+500@0,0|7=1+600@2,0]", out.Serialize())
}

func TestUnicodeBufferAddStrClusterOffset(t *testing.T) {
	b := NewUnicodeBuffer()
	b.AddStr("fi", 10)
	require.Equal(t, 2, b.Len())
	assert.Equal(t, 10, b.inner.Info[0].Cluster)
	assert.Equal(t, 11, b.inner.Info[1].Cluster)
}

func TestShapeEndToEnd(t *testing.T) {
	path := testutil.FindTestFont("Roboto-Regular.ttf")
	if path == "" {
		t.Skip("Roboto-Regular.ttf not found")
	}
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	font, err := Load(data)
	require.NoError(t, err)

	face, err := NewFace(font, nil)
	require.NoError(t, err)

	buf := NewUnicodeBuffer()
	buf.AddStr("fi", 0)
	buf.SetDirection(DirectionLTR)

	out := Shape(face, buf, nil)
	assert.Greater(t, out.Len(), 0)
	assert.Equal(t, out.Len(), len(out.GlyphIDs()))
}

func TestShapeIsDeterministic(t *testing.T) {
	path := testutil.FindTestFont("Roboto-Regular.ttf")
	if path == "" {
		t.Skip("Roboto-Regular.ttf not found")
	}
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	font, err := Load(data)
	require.NoError(t, err)

	face, err := NewFace(font, nil)
	require.NoError(t, err)

	shapeOnce := func() string {
		buf := NewUnicodeBuffer()
		buf.AddStr("Waffle", 0)
		buf.SetDirection(DirectionLTR)
		return Shape(face, buf, nil).Serialize()
	}

	first := shapeOnce()
	for i := 0; i < 4; i++ {
		if got := shapeOnce(); got != first {
			t.Fatalf("shaping the same buffer twice diverged: run 1 %q, run %d %q", first, i+2, got)
		}
	}
}
