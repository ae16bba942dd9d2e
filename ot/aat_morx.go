package ot

import "encoding/binary"

// Morx is a parsed Apple 'morx' (extended glyph metamorphosis) table,
// a fallback substitution mechanism used when a font has no GSUB
// table (common on Apple system fonts). It applies as a chain of
// state-machine subtables run left-to-right over the buffer.
//
// Reserved AAT glyph classes, shared by every state-table subtable.
const (
	aatClassEndOfText = 0
	aatClassOutOfBounds = 1
	aatClassDeletedGlyph = 2
	aatClassEndOfLine = 3
	aatFirstNonReservedClass = 4
)

// State-table entry flags/constants shared across subtable types.
const (
	aatStateStartOfText = 0
	aatStateStartOfLine = 1

	morxCoverageVertical   = 0x80000000
	morxCoverageDescending = 0x40000000 // logical order is right-to-left
	morxCoverageAllDirs    = 0x20000000
	morxSubtableTypeMask   = 0x000000FF

	morxTypeRearrangement = 0
	morxTypeContextual    = 1
	morxTypeLigature      = 2
	morxTypeNoncontextual = 4
	morxTypeInsertion     = 5
)

type morxChain struct {
	defaultFlags uint32
	subtables    []morxSubtable
}

type morxSubtable struct {
	coverage    uint32
	subFeatureFlags uint32
	subtableType    int
	data            []byte // the subtable's type-specific payload, relative-offset base 0
}

// Morx holds the parsed chains ready to drive against a buffer.
type Morx struct {
	chains []morxChain
}

// ParseMorx parses a 'morx' table.
func ParseMorx(data []byte) (*Morx, error) {
	if len(data) < 8 {
		return nil, ErrInvalidTable
	}
	nChains := binary.BigEndian.Uint32(data[4:])
	m := &Morx{}
	pos := 8
	for c := uint32(0); c < nChains; c++ {
		if pos+16 > len(data) {
			break
		}
		defaultFlags := binary.BigEndian.Uint32(data[pos:])
		chainLength := binary.BigEndian.Uint32(data[pos+4:])
		nFeatureEntries := binary.BigEndian.Uint32(data[pos+8:])
		nSubtables := binary.BigEndian.Uint32(data[pos+12:])

		chain := morxChain{defaultFlags: defaultFlags}

		sp := pos + 16 + int(nFeatureEntries)*12 // skip feature subtable entries (not applied: fonts needing feature-gated morx chains are rare and the default chain covers standard shaping)
		for s := uint32(0); s < nSubtables; s++ {
			if sp+12 > len(data) {
				break
			}
			length := int(binary.BigEndian.Uint32(data[sp:]))
			coverage := binary.BigEndian.Uint32(data[sp+4:])
			subFeatureFlags := binary.BigEndian.Uint32(data[sp+8:])
			if length < 12 || sp+length > len(data) {
				break
			}
			chain.subtables = append(chain.subtables, morxSubtable{
				coverage:        coverage,
				subFeatureFlags: subFeatureFlags,
				subtableType:    int(coverage & morxSubtableTypeMask),
				data:            data[sp+12 : sp+length],
			})
			sp += length
		}

		m.chains = append(m.chains, chain)

		if chainLength == 0 {
			break
		}
		pos += int(chainLength)
	}
	return m, nil
}

// stxHeader is the common header shared by Rearrangement, Contextual,
// Ligature and Insertion subtables (Apple TrueType Reference Manual,
// "State Table Header").
type stxHeader struct {
	nClasses         uint32
	classTableOffset uint32
	stateArrayOffset uint32
	entryTableOffset uint32
}

func parseSTXHeader(data []byte) (stxHeader, bool) {
	if len(data) < 16 {
		return stxHeader{}, false
	}
	return stxHeader{
		nClasses:         binary.BigEndian.Uint32(data[0:]),
		classTableOffset: binary.BigEndian.Uint32(data[4:]),
		stateArrayOffset: binary.BigEndian.Uint32(data[8:]),
		entryTableOffset: binary.BigEndian.Uint32(data[12:]),
	}, true
}

// classOf resolves a glyph's morx state-table class from its
// pre-parsed class lookup table.
func classOf(classes *aatLookup, gid GlyphID) int {
	if v, ok := classes.get(gid); ok {
		return int(v)
	}
	return aatClassOutOfBounds
}

// Apply runs every subtable of every chain against buf, left-to-right.
// Neither the chain's defaultFlags nor its feature entries are
// consulted (see ParseMorx): no subtable is ever switched off.
func (m *Morx) Apply(buf *Buffer) {
	for _, chain := range m.chains {
		for _, st := range chain.subtables {
			applyMorxSubtable(st, buf)
		}
	}
}

func applyMorxSubtable(st morxSubtable, buf *Buffer) {
	switch st.subtableType {
	case morxTypeRearrangement:
		applyMorxRearrangement(st.data, buf)
	case morxTypeContextual:
		applyMorxContextual(st.data, buf)
	case morxTypeLigature:
		applyMorxLigature(st.data, buf)
	case morxTypeNoncontextual:
		applyMorxNoncontextual(st.data, buf)
	case morxTypeInsertion:
		applyMorxInsertion(st.data, buf)
	}
}

// runStateMachine walks the (state,class) entry grid over buf.Info,
// calling apply for every transition. apply returns the next state and
// may mutate buf via the supplied index; advance controls whether the
// driver moves to the next glyph (state machines can reprocess the
// same glyph after a rearrangement or insertion).
func runStateMachine(data []byte, hdr stxHeader, buf *Buffer, entrySize int,
	apply func(state, entryIdx, idx int) (nextState int, advance bool)) {

	if len(buf.Info) == 0 {
		return
	}
	stateArray := data[hdr.stateArrayOffset:]
	entryTable := data[hdr.entryTableOffset:]
	nClasses := int(hdr.nClasses)
	if nClasses == 0 {
		return
	}
	classes, err := parseAATLookup(data, int(hdr.classTableOffset))
	if err != nil {
		return
	}

	state := aatStateStartOfText
	idx := 0
	for idx <= len(buf.Info) {
		var class int
		if idx == len(buf.Info) {
			class = aatClassEndOfText
		} else {
			class = classOf(classes, buf.Info[idx].GlyphID)
		}

		rowOff := state*nClasses + class
		if rowOff*2+2 > len(stateArray) || class < 0 {
			break
		}
		entryIndex := int(binary.BigEndian.Uint16(stateArray[rowOff*2:]))
		if entryIndex*entrySize+entrySize > len(entryTable) {
			break
		}

		next, advance := apply(state, entryIndex, idx)
		state = next
		if advance {
			idx++
		}
		if idx > len(buf.Info)+1 {
			break // guard against a malformed table looping forever
		}
	}
}

// applyMorxRearrangement implements morx subtable type 0: sixteen
// verbs permuting the glyphs between two marked cursors.
func applyMorxRearrangement(data []byte, buf *Buffer) {
	hdr, ok := parseSTXHeader(data)
	if !ok {
		return
	}
	entryTable := data[hdr.entryTableOffset:]

	markFirst, markLast := -1, -1

	runStateMachine(data, hdr, buf, 4, func(state, entryIdx, idx int) (int, bool) {
		off := entryIdx * 4
		newState := int(binary.BigEndian.Uint16(entryTable[off:]))
		flags := binary.BigEndian.Uint16(entryTable[off+2:])

		const (
			rfMarkFirst = 0x8000
			rfDontAdvance = 0x4000
			rfMarkLast  = 0x2000
			rfVerbMask  = 0x000F
		)

		if flags&rfMarkFirst != 0 {
			markFirst = idx
		}
		if flags&rfMarkLast != 0 {
			markLast = idx
		}
		verb := int(flags & rfVerbMask)
		if verb != 0 && markFirst >= 0 && markLast >= markFirst && markLast < len(buf.Info) {
			rearrangeVerb(buf.Info, markFirst, markLast, verb)
		}

		return newState, flags&rfDontAdvance == 0
	})
}

// rearrangeVerb applies one of the sixteen AAT rearrangement verbs to
// buf.Info[first..last] in place.
func rearrangeVerb(info []GlyphInfo, first, last, verb int) {
	n := last - first + 1
	if n <= 0 {
		return
	}
	seg := make([]GlyphInfo, n)
	copy(seg, info[first:last+1])

	var out []GlyphInfo
	switch verb {
	case 1: // Ax => xA
		if n >= 2 {
			out = append(out, seg[1:]...)
			out = append(out, seg[0])
		}
	case 2: // xD => Dx
		if n >= 2 {
			out = append(out, seg[n-1])
			out = append(out, seg[:n-1]...)
		}
	case 3: // AxD => DxA
		if n >= 2 {
			out = append(out, seg[n-1])
			out = append(out, seg[1:n-1]...)
			out = append(out, seg[0])
		}
	case 4: // ABx => xAB
		if n >= 3 {
			out = append(out, seg[2:]...)
			out = append(out, seg[0], seg[1])
		}
	case 5: // ABx => xBA
		if n >= 3 {
			out = append(out, seg[2:]...)
			out = append(out, seg[1], seg[0])
		}
	case 6: // xCD => CDx
		if n >= 3 {
			out = append(out, seg[n-2], seg[n-1])
			out = append(out, seg[:n-2]...)
		}
	case 7: // xCD => DCx
		if n >= 3 {
			out = append(out, seg[n-1], seg[n-2])
			out = append(out, seg[:n-2]...)
		}
	case 8: // AxCD => CDxA
		if n >= 4 {
			out = append(out, seg[n-2], seg[n-1])
			out = append(out, seg[1:n-2]...)
			out = append(out, seg[0])
		}
	case 9: // AxCD => DCxA
		if n >= 4 {
			out = append(out, seg[n-1], seg[n-2])
			out = append(out, seg[1:n-2]...)
			out = append(out, seg[0])
		}
	case 10: // ABxD => DxAB
		if n >= 4 {
			out = append(out, seg[n-1])
			out = append(out, seg[2:n-1]...)
			out = append(out, seg[0], seg[1])
		}
	case 11: // ABxD => DxBA
		if n >= 4 {
			out = append(out, seg[n-1])
			out = append(out, seg[2:n-1]...)
			out = append(out, seg[1], seg[0])
		}
	case 12: // ABxCD => CDxAB
		if n >= 5 {
			out = append(out, seg[n-2], seg[n-1])
			out = append(out, seg[2:n-2]...)
			out = append(out, seg[0], seg[1])
		}
	case 13: // ABxCD => CDxBA
		if n >= 5 {
			out = append(out, seg[n-2], seg[n-1])
			out = append(out, seg[2:n-2]...)
			out = append(out, seg[1], seg[0])
		}
	case 14: // ABxCD => DCxAB
		if n >= 5 {
			out = append(out, seg[n-1], seg[n-2])
			out = append(out, seg[2:n-2]...)
			out = append(out, seg[0], seg[1])
		}
	case 15: // ABxCD => DCxBA
		if n >= 5 {
			out = append(out, seg[n-1], seg[n-2])
			out = append(out, seg[2:n-2]...)
			out = append(out, seg[1], seg[0])
		}
	}
	if len(out) == n {
		copy(info[first:last+1], out)
	}
}

// applyMorxContextual implements morx subtable type 1: per-state
// mark/current glyph substitutions via two AAT lookup tables.
func applyMorxContextual(data []byte, buf *Buffer) {
	hdr, ok := parseSTXHeader(data)
	if !ok || len(data) < 20 {
		return
	}
	substitutionTableOffset := binary.BigEndian.Uint32(data[16:])
	entryTable := data[hdr.entryTableOffset:]

	markIdx := -1

	runStateMachine(data, hdr, buf, 8, func(state, entryIdx, idx int) (int, bool) {
		off := entryIdx * 8
		newState := int(binary.BigEndian.Uint16(entryTable[off:]))
		flags := binary.BigEndian.Uint16(entryTable[off+2:])
		markIndex := binary.BigEndian.Uint16(entryTable[off+4:])
		currentIndex := binary.BigEndian.Uint16(entryTable[off+6:])

		const (
			cfSetMark     = 0x8000
			cfDontAdvance = 0x4000
		)

		substitute := func(glyphIdx int, subIndex uint16) {
			if subIndex == 0xFFFF || glyphIdx < 0 || glyphIdx >= len(buf.Info) {
				return
			}
			tableOff := int(substitutionTableOffset) + int(subIndex)*4
			if tableOff+4 > len(data) {
				return
			}
			perGlyphOffset := binary.BigEndian.Uint32(data[tableOff:])
			lookup, err := parseAATLookup(data, int(perGlyphOffset))
			if err != nil {
				return
			}
			if v, ok := lookup.get(buf.Info[glyphIdx].GlyphID); ok {
				buf.Info[glyphIdx].GlyphID = GlyphID(v)
			}
		}

		if currentIndex != 0xFFFF {
			substitute(idx, currentIndex)
		}
		if markIndex != 0xFFFF && markIdx >= 0 {
			substitute(markIdx, markIndex)
		}
		if flags&cfSetMark != 0 {
			markIdx = idx
		}

		return newState, flags&cfDontAdvance == 0
	})
}

// applyMorxNoncontextual implements morx subtable type 4: a flat
// per-glyph substitution via a single AAT lookup table.
func applyMorxNoncontextual(data []byte, buf *Buffer) {
	lookup, err := parseAATLookup(data, 0)
	if err != nil {
		return
	}
	for i := range buf.Info {
		if v, ok := lookup.get(buf.Info[i].GlyphID); ok {
			buf.Info[i].GlyphID = GlyphID(v)
		}
	}
}

// applyMorxLigature implements morx subtable type 2: a component
// stack accumulated across states, consumed by a ligature action list
// on termination to produce the output glyph(s).
func applyMorxLigature(data []byte, buf *Buffer) {
	hdr, ok := parseSTXHeader(data)
	if !ok || len(data) < 24 {
		return
	}
	ligActionOffset := binary.BigEndian.Uint32(data[16:])
	componentOffset := binary.BigEndian.Uint32(data[20:])
	ligatureOffset := uint32(0)
	if len(data) >= 28 {
		ligatureOffset = binary.BigEndian.Uint32(data[24:])
	}
	entryTable := data[hdr.entryTableOffset:]

	var stack []int // glyph buffer indices pushed via setComponent

	runStateMachine(data, hdr, buf, 6, func(state, entryIdx, idx int) (int, bool) {
		off := entryIdx * 6
		newState := int(binary.BigEndian.Uint16(entryTable[off:]))
		flags := binary.BigEndian.Uint16(entryTable[off+2:])
		ligActionIndex := binary.BigEndian.Uint16(entryTable[off+4:])

		const (
			lfSetComponent = 0x8000
			lfDontAdvance  = 0x4000
			lfPerformAction = 0x2000
			ligActionLast  = 0x80000000
			ligActionStore = 0x40000000
			ligActionOffsetMask = 0x3FFFFFFF
		)

		if flags&lfSetComponent != 0 && idx < len(buf.Info) {
			stack = append(stack, idx)
		}

		if flags&lfPerformAction != 0 && len(stack) > 0 {
			actionPos := int(ligActionIndex)
			var ligGlyph uint32
			minCluster := buf.Info[stack[0]].Cluster
			consumed := stack
			for j := len(consumed) - 1; j >= 0; j-- {
				aOff := int(ligActionOffset) + actionPos*4
				if aOff+4 > len(data) {
					break
				}
				action := binary.BigEndian.Uint32(data[aOff:])
				actionPos++

				componentIdx := int(int32(action<<2) >> 2) // sign-extend 30-bit offset
				gi := consumed[j]
				if buf.Info[gi].Cluster < minCluster {
					minCluster = buf.Info[gi].Cluster
				}
				compOff := int(componentOffset) + (componentIdx+int(buf.Info[gi].GlyphID))*2
				if compOff+2 <= len(data) {
					ligGlyph += uint32(binary.BigEndian.Uint16(data[compOff:]))
				}

				if action&ligActionStore != 0 || action&ligActionLast != 0 {
					ligIdx := int(ligGlyph)
					ligGID := uint16(0xFFFF)
					ligOff := int(ligatureOffset) + ligIdx*2
					if ligOff+2 <= len(data) {
						ligGID = binary.BigEndian.Uint16(data[ligOff:])
					}
					if ligGID != 0xFFFF && gi < len(buf.Info) {
						buf.Info[gi].GlyphID = GlyphID(ligGID)
						buf.Info[gi].Cluster = minCluster
					}
					ligGlyph = 0
				}
				if action&ligActionLast != 0 {
					break
				}
			}
			stack = nil
		}

		return newState, flags&lfDontAdvance == 0
	})
}

// applyMorxInsertion implements morx subtable type 5: insertion of up
// to 31 glyphs before/after the current or marked position.
func applyMorxInsertion(data []byte, buf *Buffer) {
	hdr, ok := parseSTXHeader(data)
	if !ok || len(data) < 20 {
		return
	}
	insertionActionOffset := binary.BigEndian.Uint32(data[16:])
	entryTable := data[hdr.entryTableOffset:]

	markIdx := -1

	runStateMachine(data, hdr, buf, 8, func(state, entryIdx, idx int) (int, bool) {
		off := entryIdx * 8
		newState := int(binary.BigEndian.Uint16(entryTable[off:]))
		flags := binary.BigEndian.Uint16(entryTable[off+2:])
		currentInsertIndex := binary.BigEndian.Uint16(entryTable[off+4:])
		markInsertIndex := binary.BigEndian.Uint16(entryTable[off+6:])

		const (
			ifSetMark          = 0x8000
			ifDontAdvance      = 0x4000
			ifCurrentIsKashida = 0x2000
			ifMarkedIsKashida  = 0x1000
			ifCurrentInsertBefore = 0x0800
			ifMarkedInsertBefore  = 0x0400
			ifCurrentCountMask    = 0x03E0
			ifMarkedCountMask     = 0x001F
		)

		insertAt := func(pos int, glyphsOffset, count int, before bool) int {
			if count == 0 || pos < 0 || pos > len(buf.Info) {
				return 0
			}
			ins := make([]GlyphInfo, count)
			cluster := 0
			if pos < len(buf.Info) {
				cluster = buf.Info[pos].Cluster
			} else if len(buf.Info) > 0 {
				cluster = buf.Info[len(buf.Info)-1].Cluster
			}
			for i := 0; i < count; i++ {
				gp := int(insertionActionOffset) + (glyphsOffset+i)*2
				gid := GlyphID(0)
				if gp+2 <= len(data) {
					gid = GlyphID(binary.BigEndian.Uint16(data[gp:]))
				}
				ins[i] = GlyphInfo{GlyphID: gid, Cluster: cluster}
			}
			at := pos
			if !before {
				at = pos + 1
				if at > len(buf.Info) {
					at = len(buf.Info)
				}
			}
			buf.Info = append(buf.Info[:at], append(ins, buf.Info[at:]...)...)
			return count
		}

		shift := 0
		if currentInsertIndex != 0xFFFF {
			count := int((flags & ifCurrentCountMask) >> 5)
			shift += insertAt(idx, int(currentInsertIndex), count, flags&ifCurrentInsertBefore != 0)
		}
		if markInsertIndex != 0xFFFF && markIdx >= 0 {
			count := int(flags & ifMarkedCountMask)
			insertAt(markIdx, int(markInsertIndex), count, flags&ifMarkedInsertBefore != 0)
		}
		if flags&ifSetMark != 0 {
			markIdx = idx
		}

		return newState, flags&ifDontAdvance == 0
	})
}
