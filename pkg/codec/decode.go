package codec

import (
	"fmt"
	"strconv"

	"github.com/epicsdata/aapb/pkg/pbevent"
)

// Decoder accumulates samples of one payload type decoded from their
// wire form. It owns its batch exclusively and is not safe for
// concurrent use.
type Decoder struct {
	ptype     pbevent.PayloadType
	yearEpoch int64
	pack      packFunc
	elemSize  int

	events   []pbevent.Event
	maxElems int
}

// NewDecoder returns a Decoder for payload type pt. yearEpoch is the
// POSIX second of Jan 1 of the archive year; it is added back to
// each event's seconds-into-year on CopyOut and subtracted from
// cnxlostepsecs annotation values.
func NewDecoder(pt pbevent.PayloadType, yearEpoch int64) (*Decoder, error) {
	if !pt.Valid() {
		return nil, fmt.Errorf("%w: payload type %d", ErrUnknownPayload, int32(pt))
	}
	return &Decoder{
		ptype:     pt,
		yearEpoch: yearEpoch,
		pack:      packerFor(pt),
		elemSize:  pt.Elem().Size(),
	}, nil
}

// Type returns the payload type the Decoder is bound to.
func (d *Decoder) Type() pbevent.PayloadType {
	return d.ptype
}

// Process parses one serialized event and appends it to the batch,
// returning the new batch length (real plus synthesized samples).
// On ErrDecode the batch is left exactly as it was.
//
// If the event carries a cnxlostepsecs annotation with a valid
// unsigned decimal value, a gap sample with SeverityDisconnect is
// inserted immediately before it. An annotation value that fails to
// parse is ignored.
func (d *Decoder) Process(data []byte) (int, error) {
	ev := pbevent.Event{Type: d.ptype}
	if err := ev.Unmarshal(data); err != nil {
		decodeErrors.Inc()
		return len(d.events), fmt.Errorf("%w: %v", ErrDecode, err)
	}

	if n := ev.ElementCount(); n > d.maxElems {
		d.maxElems = n
	}

	gapSec, gap := d.cnxLost(ev.Fields)
	d.events = append(d.events, ev)
	samplesDecoded.WithLabelValues(d.ptype.String()).Inc()

	if gap {
		// Insert the gap marker before the event that reported the
		// disconnect, so it sorts between the last sample before the
		// outage and the first one after.
		last := len(d.events) - 1
		d.events = append(d.events, pbevent.Event{})
		copy(d.events[last+1:], d.events[last:])
		d.events[last] = pbevent.Event{
			Type:            d.ptype,
			SecondsIntoYear: gapSec,
			Severity:        SeverityDisconnect,
		}
		gapsSynthesized.Inc()
	}

	return len(d.events), nil
}

func (d *Decoder) cnxLost(fields []pbevent.FieldValue) (uint32, bool) {
	for _, fv := range fields {
		if fv.Name != cnxLostKey {
			continue
		}
		sec, err := strconv.ParseUint(fv.Val, 10, 64)
		if err != nil {
			// best-effort: a malformed annotation is not an error
			continue
		}
		return uint32(int64(sec) - d.yearEpoch), true
	}
	return 0, false
}

// NSamples returns the current batch length.
func (d *Decoder) NSamples() int {
	return len(d.events)
}

// MaxElems returns the maximum element count observed across all
// samples since the Decoder was constructed. It never decreases, not
// even across CopyOut.
func (d *Decoder) MaxElems() int {
	return d.maxElems
}

// Stride returns the fixed per-sample width of the packed value
// region in bytes: MaxElems elements of the payload's element size.
func (d *Decoder) Stride() int {
	return d.maxElems * d.elemSize
}
