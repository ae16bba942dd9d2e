package ot

import "encoding/binary"

// GvarDeltas holds one glyph's resolved per-point deltas (including its
// four trailing phantom points) at a particular design coordinate.
type GvarDeltas struct {
	XDeltas, YDeltas []float64
}

const (
	tupleEmbeddedPeak    = 0x8000
	tupleIntermediate    = 0x4000
	tuplePrivatePoints   = 0x2000
	tupleIndexMask       = 0x0FFF
	pointsAreWords       = 0x80
	deltasAreZero        = 0x80
	deltasAreWords       = 0x40
	packedCountMask      = 0x3F
)

// GetGlyphDeltas resolves gid's gvar point deltas at coordsI (F2Dot14
// normalized design coordinates), without inferred-point interpolation
// for points no active tuple references directly.
func (g *Gvar) GetGlyphDeltas(gid GlyphID, coordsI []int, numTotalPoints int) *GvarDeltas {
	return g.resolveDeltas(gid, coordsI, numTotalPoints, nil)
}

// GetGlyphDeltasWithCoords resolves gid's gvar point deltas the same
// way as GetGlyphDeltas, additionally using origCoords (the glyph's
// unvaried outline, phantom points excluded) to infer deltas for
// points no tuple references, via simple neighbor interpolation in
// point-index order (IUP); contour boundaries are not taken into account.
func (g *Gvar) GetGlyphDeltasWithCoords(gid GlyphID, coordsI []int, numTotalPoints int, origCoords []GlyphPoint) *GvarDeltas {
	return g.resolveDeltas(gid, coordsI, numTotalPoints, origCoords)
}

func (g *Gvar) resolveDeltas(gid GlyphID, coordsI []int, numTotalPoints int, origCoords []GlyphPoint) *GvarDeltas {
	if g == nil || int(gid)+1 >= len(g.glyphVarOff) {
		return nil
	}
	start, end := g.glyphVarOff[gid], g.glyphVarOff[gid+1]
	if end <= start || int(end) > len(g.data) {
		return nil
	}
	glyphData := g.data[start:end]
	tuples, err := parseGlyphVariationData(glyphData, g.axisCount)
	if err != nil || len(tuples) == 0 {
		return nil
	}

	xAccum := make([]float64, numTotalPoints)
	yAccum := make([]float64, numTotalPoints)
	touched := make([]bool, numTotalPoints)

	for _, tv := range tuples {
		peak := tv.peakTuple
		if peak == nil {
			if int(tv.tupleIndex&tupleIndexMask) >= len(g.sharedTuples) {
				continue
			}
			peak = g.sharedTuples[tv.tupleIndex&tupleIndexMask]
		}
		scalar := gvarTupleScalar(peak, tv.intermediateStart, tv.intermediateEnd, coordsI)
		if scalar == 0 {
			continue
		}

		points := tv.points
		if points == nil {
			points = allPoints(numTotalPoints)
		}
		for i, idx := range points {
			if idx < 0 || idx >= numTotalPoints || i >= len(tv.xDeltas) {
				continue
			}
			xAccum[idx] += scalar * float64(tv.xDeltas[i])
			yAccum[idx] += scalar * float64(tv.yDeltas[i])
			touched[idx] = true
		}
	}

	if origCoords != nil {
		applyIUP(xAccum, yAccum, touched, origCoords)
	}

	return &GvarDeltas{XDeltas: xAccum, YDeltas: yAccum}
}

// gvarTupleScalar evaluates the tent function for one tuple-variation
// header's peak (and optional intermediate start/end) against the
// current normalized design coordinates.
func gvarTupleScalar(peak, istart, iend []float64, coordsI []int) float64 {
	scalar := 1.0
	for a, p := range peak {
		if p == 0 {
			continue
		}
		var v float64
		if a < len(coordsI) {
			v = float64(coordsI[a]) / 16384.0
		}
		start, end := istart, iend
		var s, e float64
		if start != nil && a < len(start) {
			s = start[a]
			e = end[a]
		} else if p > 0 {
			s, e = 0, p
		} else {
			s, e = p, 0
		}
		switch {
		case v == p:
			continue
		case v <= s || v >= e:
			return 0
		case v < p:
			if p == s {
				continue
			}
			scalar *= (v - s) / (p - s)
		default:
			if e == p {
				continue
			}
			scalar *= (e - v) / (e - p)
		}
	}
	return scalar
}

func allPoints(n int) []int {
	pts := make([]int, n)
	for i := range pts {
		pts[i] = i
	}
	return pts
}

// applyIUP fills in deltas for points no tuple touched directly by
// linearly interpolating between the nearest touched neighbors in
// point-index order (a point with a touched neighbor on one side only
// copies that neighbor's delta), the common
// approximation of TrueType's Interpolate Untouched Points algorithm
// when explicit per-contour boundaries aren't tracked separately.
func applyIUP(xAccum, yAccum []float64, touched []bool, orig []GlyphPoint) {
	n := len(orig)
	if n == 0 {
		return
	}
	anyTouched := false
	for _, t := range touched[:min(n, len(touched))] {
		if t {
			anyTouched = true
			break
		}
	}
	if !anyTouched {
		return
	}
	for i := 0; i < n; i++ {
		if touched[i] {
			continue
		}
		prev := -1
		for j := i - 1; j >= 0; j-- {
			if touched[j] {
				prev = j
				break
			}
		}
		next := -1
		for j := i + 1; j < n; j++ {
			if touched[j] {
				next = j
				break
			}
		}
		switch {
		case prev < 0 && next < 0:
		case prev < 0:
			xAccum[i] = xAccum[next]
			yAccum[i] = yAccum[next]
		case next < 0:
			xAccum[i] = xAccum[prev]
			yAccum[i] = yAccum[prev]
		default:
			xAccum[i] = interpolateAxis(float64(orig[prev].X), float64(orig[i].X), float64(orig[next].X), xAccum[prev], xAccum[next])
			yAccum[i] = interpolateAxis(float64(orig[prev].Y), float64(orig[i].Y), float64(orig[next].Y), yAccum[prev], yAccum[next])
		}
	}
}

func interpolateAxis(prevCoord, curCoord, nextCoord, prevDelta, nextDelta float64) float64 {
	if prevCoord == nextCoord {
		if curCoord == prevCoord {
			return prevDelta
		}
		return 0
	}
	if prevCoord > nextCoord {
		prevCoord, nextCoord = nextCoord, prevCoord
		prevDelta, nextDelta = nextDelta, prevDelta
	}
	switch {
	case curCoord <= prevCoord:
		return prevDelta
	case curCoord >= nextCoord:
		return nextDelta
	default:
		t := (curCoord - prevCoord) / (nextCoord - prevCoord)
		return prevDelta + t*(nextDelta-prevDelta)
	}
}

type tupleVariation struct {
	tupleIndex        uint16
	peakTuple         []float64
	intermediateStart []float64
	intermediateEnd   []float64
	points            []int
	xDeltas, yDeltas  []int16
}

// parseGlyphVariationData decodes one glyph's TupleVariationHeader
// array together with its serialized point-number and delta streams
// (shared point-number set 5.2, TupleVariationHeader 5.3 of the
// OpenType gvar chapter).
func parseGlyphVariationData(data []byte, axisCount int) ([]tupleVariation, error) {
	if len(data) < 4 {
		return nil, ErrInvalidTable
	}
	tupleCountField := binary.BigEndian.Uint16(data[0:])
	hasSharedPoints := tupleCountField&0x8000 != 0
	tupleCount := int(tupleCountField & 0x0FFF)
	dataOffset := int(binary.BigEndian.Uint16(data[2:]))

	type headerInfo struct {
		size              int
		tupleIndex        uint16
		peakTuple         []float64
		intermediateStart []float64
		intermediateEnd   []float64
		private           bool
	}

	off := 4
	headers := make([]headerInfo, 0, tupleCount)
	for i := 0; i < tupleCount; i++ {
		if off+4 > len(data) {
			return nil, ErrInvalidOffset
		}
		size := int(binary.BigEndian.Uint16(data[off:]))
		idx := binary.BigEndian.Uint16(data[off+2:])
		off += 4
		var peak, istart, iend []float64
		if idx&tupleEmbeddedPeak != 0 {
			peak = make([]float64, axisCount)
			if off+axisCount*2 > len(data) {
				return nil, ErrInvalidOffset
			}
			for a := 0; a < axisCount; a++ {
				peak[a] = readF2Dot14(data[off+a*2:])
			}
			off += axisCount * 2
		}
		if idx&tupleIntermediate != 0 {
			istart = make([]float64, axisCount)
			iend = make([]float64, axisCount)
			if off+axisCount*4 > len(data) {
				return nil, ErrInvalidOffset
			}
			for a := 0; a < axisCount; a++ {
				istart[a] = readF2Dot14(data[off+a*2:])
			}
			off += axisCount * 2
			for a := 0; a < axisCount; a++ {
				iend[a] = readF2Dot14(data[off+a*2:])
			}
			off += axisCount * 2
		}
		headers = append(headers, headerInfo{
			size: size, tupleIndex: idx, peakTuple: peak,
			intermediateStart: istart, intermediateEnd: iend,
			private: idx&tuplePrivatePoints != 0,
		})
	}

	serialized := data
	pos := dataOffset
	var sharedPoints []int
	if hasSharedPoints {
		pts, n, err := parsePackedPoints(serialized, pos)
		if err != nil {
			return nil, err
		}
		sharedPoints = pts
		pos += n
	}

	out := make([]tupleVariation, 0, tupleCount)
	for _, h := range headers {
		tv := tupleVariation{
			tupleIndex:        h.tupleIndex,
			peakTuple:         h.peakTuple,
			intermediateStart: h.intermediateStart,
			intermediateEnd:   h.intermediateEnd,
		}
		tupleStart := pos
		points := sharedPoints
		if h.private {
			pts, n, err := parsePackedPoints(serialized, pos)
			if err != nil {
				return nil, err
			}
			points = pts
			pos += n
		}
		tv.points = points

		count := len(points)
		if points == nil {
			// nil here (no private points, no shared points) means
			// "all points" whose cardinality isn't known until the
			// caller supplies numTotalPoints; delta count then must
			// equal numTotalPoints, impossible to validate here, so
			// we decode using the variationDataSize bound instead.
			count = -1
		}

		xs, n1, err := parsePackedDeltas(serialized, pos, count, h.size-(pos-tupleStart))
		if err != nil {
			return nil, err
		}
		pos += n1
		ys, n2, err := parsePackedDeltas(serialized, pos, count, h.size-(pos-tupleStart))
		if err != nil {
			return nil, err
		}
		pos += n2
		tv.xDeltas = xs
		tv.yDeltas = ys
		pos = tupleStart + h.size
		out = append(out, tv)
	}
	return out, nil
}

// parsePackedPoints decodes a packed point-number array starting at
// offset, returning the point indices (nil meaning "all points") and
// the number of bytes consumed.
func parsePackedPoints(data []byte, offset int) ([]int, int, error) {
	if offset >= len(data) {
		return nil, 0, ErrInvalidOffset
	}
	start := offset
	count := int(data[offset])
	offset++
	if count&0x80 != 0 {
		if offset >= len(data) {
			return nil, 0, ErrInvalidOffset
		}
		count = (count&0x7F)<<8 | int(data[offset])
		offset++
	}
	if count == 0 {
		return nil, offset - start, nil
	}
	points := make([]int, 0, count)
	running := 0
	for len(points) < count {
		if offset >= len(data) {
			return nil, 0, ErrInvalidOffset
		}
		ctrl := data[offset]
		offset++
		runCount := int(ctrl&0x7F) + 1
		words := ctrl&pointsAreWords != 0
		for r := 0; r < runCount && len(points) < count; r++ {
			var delta int
			if words {
				if offset+2 > len(data) {
					return nil, 0, ErrInvalidOffset
				}
				delta = int(binary.BigEndian.Uint16(data[offset:]))
				offset += 2
			} else {
				if offset >= len(data) {
					return nil, 0, ErrInvalidOffset
				}
				delta = int(data[offset])
				offset++
			}
			running += delta
			points = append(points, running)
		}
	}
	return points, offset - start, nil
}

// parsePackedDeltas decodes wantCount packed deltas (or as many as fit
// in maxBytes when wantCount is -1, meaning "all points").
func parsePackedDeltas(data []byte, offset, wantCount, maxBytes int) ([]int16, int, error) {
	start := offset
	limit := len(data)
	if maxBytes >= 0 && offset+maxBytes < limit {
		limit = offset + maxBytes
	}
	var out []int16
	for (wantCount < 0 && offset < limit) || (wantCount >= 0 && len(out) < wantCount) {
		if offset >= len(data) {
			return nil, 0, ErrInvalidOffset
		}
		ctrl := data[offset]
		offset++
		runCount := int(ctrl&packedCountMask) + 1
		switch {
		case ctrl&deltasAreZero != 0:
			for r := 0; r < runCount; r++ {
				out = append(out, 0)
			}
		case ctrl&deltasAreWords != 0:
			for r := 0; r < runCount; r++ {
				if offset+2 > len(data) {
					return nil, 0, ErrInvalidOffset
				}
				out = append(out, int16(binary.BigEndian.Uint16(data[offset:])))
				offset += 2
			}
		default:
			for r := 0; r < runCount; r++ {
				if offset >= len(data) {
					return nil, 0, ErrInvalidOffset
				}
				out = append(out, int16(int8(data[offset])))
				offset++
			}
		}
		if wantCount < 0 && offset >= limit {
			break
		}
	}
	if wantCount >= 0 && len(out) > wantCount {
		out = out[:wantCount]
	}
	return out, offset - start, nil
}
