package pbevent

import "fmt"

// PayloadType identifies one of the archiver's event message types.
// The numeric values are fixed by the appliance's PayloadType enum
// and appear in PayloadInfo headers and retrieval responses.
type PayloadType int32

const (
	ScalarString   PayloadType = 0
	ScalarShort    PayloadType = 1
	ScalarFloat    PayloadType = 2
	ScalarEnum     PayloadType = 3
	ScalarByte     PayloadType = 4
	ScalarInt      PayloadType = 5
	ScalarDouble   PayloadType = 6
	WaveformString PayloadType = 7
	WaveformShort  PayloadType = 8
	WaveformFloat  PayloadType = 9
	WaveformEnum   PayloadType = 10
	WaveformByte   PayloadType = 11
	WaveformInt    PayloadType = 12
	WaveformDouble PayloadType = 13
	V4GenericBytes PayloadType = 14
)

// Elem is the storage class of a payload's elements.
type Elem int

const (
	ElemString Elem = iota // UTF-8 string, 40-byte packed cell
	ElemBytes              // opaque byte blob, 40-byte packed cell
	ElemShort              // int16
	ElemInt                // int32
	ElemFloat              // float32
	ElemDouble             // float64
)

// Size returns the packed width of one element in bytes.
func (e Elem) Size() int {
	switch e {
	case ElemString, ElemBytes:
		return StringCellSize
	case ElemShort:
		return 2
	case ElemInt, ElemFloat:
		return 4
	case ElemDouble:
		return 8
	}
	return 0
}

// StringCellSize is the fixed packed cell width for string and byte
// payloads. Longer values are silently truncated when packing. The
// threshold is part of the buffer layout contract shared with
// existing consumers and must not change.
const StringCellSize = 40

type payloadInfo struct {
	name   string
	elem   Elem
	vector bool
}

// One entry per supported payload type. WaveformByte is deliberately
// not a vector: the appliance stores a byte waveform as a single
// blob, so it behaves as a scalar with Elem ElemBytes.
var payloads = map[PayloadType]payloadInfo{
	ScalarString:   {"scalar-string", ElemString, false},
	ScalarShort:    {"scalar-short", ElemShort, false},
	ScalarFloat:    {"scalar-float", ElemFloat, false},
	ScalarEnum:     {"scalar-enum", ElemShort, false},
	ScalarByte:     {"scalar-byte", ElemBytes, false},
	ScalarInt:      {"scalar-int", ElemInt, false},
	ScalarDouble:   {"scalar-double", ElemDouble, false},
	WaveformString: {"waveform-string", ElemString, true},
	WaveformShort:  {"waveform-short", ElemShort, true},
	WaveformFloat:  {"waveform-float", ElemFloat, true},
	WaveformEnum:   {"waveform-enum", ElemShort, true},
	WaveformByte:   {"waveform-byte", ElemBytes, false},
	WaveformInt:    {"waveform-int", ElemInt, true},
	WaveformDouble: {"waveform-double", ElemDouble, true},
	V4GenericBytes: {"v4-generic-bytes", ElemBytes, false},
}

// Types lists all supported payload types in enum order.
func Types() []PayloadType {
	out := make([]PayloadType, 0, len(payloads))
	for pt := ScalarString; pt <= V4GenericBytes; pt++ {
		out = append(out, pt)
	}
	return out
}

// Valid reports whether pt is one of the supported payload types.
func (pt PayloadType) Valid() bool {
	_, ok := payloads[pt]
	return ok
}

// Vector reports whether the payload carries an ordered sequence of
// elements. Scalar payloads (including byte blobs) report false.
func (pt PayloadType) Vector() bool {
	return payloads[pt].vector
}

// Elem returns the element storage class of the payload.
func (pt PayloadType) Elem() Elem {
	return payloads[pt].elem
}

func (pt PayloadType) String() string {
	if info, ok := payloads[pt]; ok {
		return info.name
	}
	return fmt.Sprintf("payload(%d)", int32(pt))
}

// ParsePayloadType resolves a payload type from its name as printed
// by String, eg. "waveform-double".
func ParsePayloadType(name string) (PayloadType, bool) {
	for pt, info := range payloads {
		if info.name == name {
			return pt, true
		}
	}
	return 0, false
}
