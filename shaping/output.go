package shaping

import (
	"fmt"
	"strings"

	"github.com/inkstroke/shaping/ot"
)

// GlyphInfo is one shaped glyph's identity and originating cluster.
type GlyphInfo struct {
	GlyphID ot.GlyphID
	Cluster int
}

// GlyphPosition is one shaped glyph's placement, in font design units.
type GlyphPosition struct {
	XAdvance, YAdvance int16
	XOffset, YOffset   int16
}

// OutputBuffer is the positioned-glyph result of a Shape call.
type OutputBuffer struct {
	inner *ot.Buffer
}

// Len returns the number of output glyphs.
func (o OutputBuffer) Len() int { return len(o.inner.Info) }

// At returns the info/position pair for glyph i.
func (o OutputBuffer) At(i int) (GlyphInfo, GlyphPosition) {
	info := o.inner.Info[i]
	pos := o.inner.Pos[i]
	return GlyphInfo{GlyphID: info.GlyphID, Cluster: info.Cluster},
		GlyphPosition{XAdvance: pos.XAdvance, YAdvance: pos.YAdvance, XOffset: pos.XOffset, YOffset: pos.YOffset}
}

// GlyphIDs returns the output glyph IDs in buffer order.
func (o OutputBuffer) GlyphIDs() []ot.GlyphID {
	return o.inner.GlyphIDs()
}

// Clusters returns each output glyph's originating cluster index.
func (o OutputBuffer) Clusters() []int {
	clusters := make([]int, len(o.inner.Info))
	for i, info := range o.inner.Info {
		clusters[i] = info.Cluster
	}
	return clusters
}

// TotalAdvance returns the sum of horizontal advances across all
// output glyphs, in font design units.
func (o OutputBuffer) TotalAdvance() int {
	total := 0
	for _, pos := range o.inner.Pos {
		total += int(pos.XAdvance)
	}
	return total
}

// Serialize renders a diagnostic "[gid=cluster+adv@xoff,yoff, ...]"
// string for the output buffer.
func (o OutputBuffer) Serialize() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, info := range o.inner.Info {
		pos := o.inner.Pos[i]
		if i > 0 {
			b.WriteByte('|')
		}
		fmt.Fprintf(&b, "%d=%d+%d@%d,%d", info.GlyphID, info.Cluster, pos.XAdvance, pos.XOffset, pos.YOffset)
	}
	b.WriteByte(']')
	return b.String()
}
