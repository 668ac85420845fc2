package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/epicsdata/aapb/pkg/pbevent"
)

// packFunc writes one sample's value into the front of its stride
// window. dst is at least maxElems*elemSize bytes; bytes beyond the
// sample's own elements are left untouched.
type packFunc func(dst []byte, ev *pbevent.Event, maxElems int)

// CopyOut flushes the accumulated batch into caller-owned buffers:
// meta receives one entry per sample with the year epoch applied to
// Sec, and vals receives each sample's value at sampleIndex*Stride().
// The caller sizes the buffers from NSamples() and Stride(); CopyOut
// fails without writing if either is too short.
//
// On return the batch is empty. MaxElems (and therefore Stride) is
// retained, so a subsequent batch keeps at least the same width.
func (d *Decoder) CopyOut(meta []Meta, vals []byte) error {
	stride := d.Stride()
	if len(meta) < len(d.events) {
		return fmt.Errorf("meta buffer too short: %d entries for %d samples",
			len(meta), len(d.events))
	}
	if len(vals) < len(d.events)*stride {
		return fmt.Errorf("value buffer too short: %d bytes for %d samples of stride %d",
			len(vals), len(d.events), stride)
	}

	for i := range d.events {
		ev := &d.events[i]
		meta[i] = Meta{
			Sec:      uint32(int64(ev.SecondsIntoYear) + d.yearEpoch),
			Nano:     ev.Nano,
			Severity: ev.Severity,
			Status:   ev.Status,
		}
		d.pack(vals[i*stride:], ev, d.maxElems)
	}

	d.events = d.events[:0]
	return nil
}

func packerFor(pt pbevent.PayloadType) packFunc {
	switch pt.Elem() {
	case pbevent.ElemString:
		if pt.Vector() {
			return packStringVector
		}
		return packStringScalar
	case pbevent.ElemBytes:
		return packBytes
	case pbevent.ElemShort:
		if pt.Vector() {
			return packShortVector
		}
		return packShortScalar
	case pbevent.ElemInt:
		if pt.Vector() {
			return packIntVector
		}
		return packIntScalar
	case pbevent.ElemFloat:
		if pt.Vector() {
			return packFloatVector
		}
		return packFloatScalar
	}
	if pt.Vector() {
		return packDoubleVector
	}
	return packDoubleScalar
}

// packCell copies up to StringCellSize bytes of s into dst,
// left-justified. Longer values are silently truncated; the rest of
// the cell is not written.
func packCell(dst []byte, s string) {
	n := len(s)
	if n > pbevent.StringCellSize {
		n = pbevent.StringCellSize
	}
	copy(dst[:n], s)
}

func packStringScalar(dst []byte, ev *pbevent.Event, _ int) {
	if len(ev.Str) > 0 {
		packCell(dst, ev.Str[0])
	}
}

func packStringVector(dst []byte, ev *pbevent.Event, maxElems int) {
	for i, s := range ev.Str {
		if i >= maxElems {
			break
		}
		packCell(dst[i*pbevent.StringCellSize:], s)
	}
}

func packBytes(dst []byte, ev *pbevent.Event, _ int) {
	packCell(dst, string(ev.Bin))
}

// Scalar numeric packers always write their value; a gap sample with
// no elements packs an explicit zero.

func packShortScalar(dst []byte, ev *pbevent.Event, _ int) {
	var v int16
	if len(ev.I16) > 0 {
		v = ev.I16[0]
	}
	binary.LittleEndian.PutUint16(dst, uint16(v))
}

func packShortVector(dst []byte, ev *pbevent.Event, maxElems int) {
	for i, v := range ev.I16 {
		if i >= maxElems {
			break
		}
		binary.LittleEndian.PutUint16(dst[i*2:], uint16(v))
	}
}

func packIntScalar(dst []byte, ev *pbevent.Event, _ int) {
	var v int32
	if len(ev.I32) > 0 {
		v = ev.I32[0]
	}
	binary.LittleEndian.PutUint32(dst, uint32(v))
}

func packIntVector(dst []byte, ev *pbevent.Event, maxElems int) {
	for i, v := range ev.I32 {
		if i >= maxElems {
			break
		}
		binary.LittleEndian.PutUint32(dst[i*4:], uint32(v))
	}
}

func packFloatScalar(dst []byte, ev *pbevent.Event, _ int) {
	var v float32
	if len(ev.F32) > 0 {
		v = ev.F32[0]
	}
	binary.LittleEndian.PutUint32(dst, math.Float32bits(v))
}

func packFloatVector(dst []byte, ev *pbevent.Event, maxElems int) {
	for i, v := range ev.F32 {
		if i >= maxElems {
			break
		}
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(v))
	}
}

func packDoubleScalar(dst []byte, ev *pbevent.Event, _ int) {
	var v float64
	if len(ev.F64) > 0 {
		v = ev.F64[0]
	}
	binary.LittleEndian.PutUint64(dst, math.Float64bits(v))
}

func packDoubleVector(dst []byte, ev *pbevent.Event, maxElems int) {
	for i, v := range ev.F64 {
		if i >= maxElems {
			break
		}
		binary.LittleEndian.PutUint64(dst[i*8:], math.Float64bits(v))
	}
}
