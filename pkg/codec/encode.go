package codec

import (
	"fmt"

	"github.com/epicsdata/aapb/pkg/pbevent"
)

// Encode serializes one sample of payload type pt. value must be the
// kind's natural Go type: string, []byte, int16, int32, float32 or
// float64 for scalar kinds ([]byte for byte, byte-waveform and
// generic-bytes payloads), or the corresponding slice for vector
// kinds. meta.Sec is the event's seconds-into-year value.
//
// If cnxLostEpochSec is non-empty it is attached as a cnxlostepsecs
// annotation, marking a connection loss at that POSIX second before
// this sample was recorded.
func Encode(pt pbevent.PayloadType, value any, meta Meta, cnxLostEpochSec string) ([]byte, error) {
	if !pt.Valid() {
		return nil, fmt.Errorf("%w: payload type %d", ErrUnknownPayload, int32(pt))
	}

	ev := pbevent.Event{
		Type:            pt,
		SecondsIntoYear: meta.Sec,
		Nano:            meta.Nano,
		Severity:        meta.Severity,
		Status:          meta.Status,
	}
	if err := setValue(&ev, value); err != nil {
		encodeErrors.Inc()
		return nil, err
	}
	if cnxLostEpochSec != "" {
		ev.Fields = append(ev.Fields, pbevent.FieldValue{
			Name: cnxLostKey,
			Val:  cnxLostEpochSec,
		})
	}

	wire, err := ev.Marshal()
	if err != nil {
		encodeErrors.Inc()
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	samplesEncoded.WithLabelValues(pt.String()).Inc()
	return wire, nil
}

func setValue(ev *pbevent.Event, value any) error {
	vector := ev.Type.Vector()

	switch ev.Type.Elem() {
	case pbevent.ElemString:
		if !vector {
			if v, ok := value.(string); ok {
				ev.Str = []string{v}
				return nil
			}
		} else if v, ok := value.([]string); ok {
			ev.Str = v
			return nil
		}

	case pbevent.ElemBytes:
		if v, ok := value.([]byte); ok {
			ev.Bin = v
			return nil
		}

	case pbevent.ElemShort:
		if !vector {
			if v, ok := value.(int16); ok {
				ev.I16 = []int16{v}
				return nil
			}
		} else if v, ok := value.([]int16); ok {
			ev.I16 = v
			return nil
		}

	case pbevent.ElemInt:
		if !vector {
			if v, ok := value.(int32); ok {
				ev.I32 = []int32{v}
				return nil
			}
		} else if v, ok := value.([]int32); ok {
			ev.I32 = v
			return nil
		}

	case pbevent.ElemFloat:
		if !vector {
			if v, ok := value.(float32); ok {
				ev.F32 = []float32{v}
				return nil
			}
		} else if v, ok := value.([]float32); ok {
			ev.F32 = v
			return nil
		}

	case pbevent.ElemDouble:
		if !vector {
			if v, ok := value.(float64); ok {
				ev.F64 = []float64{v}
				return nil
			}
		} else if v, ok := value.([]float64); ok {
			ev.F64 = v
			return nil
		}
	}

	return fmt.Errorf("%w: %T is not a valid value for %s", ErrEncode, value, ev.Type)
}
