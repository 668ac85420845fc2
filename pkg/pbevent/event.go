package pbevent

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers shared by every archiver event message.
const (
	fieldSecondsIntoYear = 1
	fieldNano            = 2
	fieldVal             = 3
	fieldSeverity        = 4
	fieldStatus          = 5
	fieldRepeatCount     = 6
	fieldFieldValues     = 7
	fieldActualChange    = 8
)

// FieldValue field numbers.
const (
	fieldFVName = 1
	fieldFVVal  = 2
)

// FieldValue is a named annotation attached to an event, eg. EGU or
// cnxlostepsecs entries.
type FieldValue struct {
	Name string
	Val  string
}

// Event is one archiver sample in decoded form. Exactly one of the
// value slices is populated, selected by Type's element class:
// Str for string payloads, Bin for byte and generic-bytes payloads,
// I16 for short/enum, I32 for int, F32/F64 for float/double. Scalar
// payloads use index 0 of the slice.
type Event struct {
	Type PayloadType

	SecondsIntoYear uint32
	Nano            uint32
	Severity        uint32
	Status          uint32
	RepeatCount     uint32
	ActualChange    bool
	Fields          []FieldValue

	Str []string
	Bin []byte
	I16 []int16
	I32 []int32
	F32 []float32
	F64 []float64
}

// ElementCount returns the number of value elements the event
// carries: 1 for scalar payloads, the vector length otherwise.
func (e *Event) ElementCount() int {
	if !e.Type.Vector() {
		return 1
	}
	switch e.Type.Elem() {
	case ElemString:
		return len(e.Str)
	case ElemShort:
		return len(e.I16)
	case ElemInt:
		return len(e.I32)
	case ElemFloat:
		return len(e.F32)
	case ElemDouble:
		return len(e.F64)
	}
	return 0
}

// Marshal serializes the event to its protobuf wire form.
func (e *Event) Marshal() ([]byte, error) {
	if !e.Type.Valid() {
		return nil, fmt.Errorf("pbevent: cannot marshal unknown payload type %d", int32(e.Type))
	}

	b := make([]byte, 0, 32+8*e.ElementCount())
	b = protowire.AppendTag(b, fieldSecondsIntoYear, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(e.SecondsIntoYear))
	b = protowire.AppendTag(b, fieldNano, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(e.Nano))
	b = e.appendVal(b)
	if e.Severity != 0 {
		b = protowire.AppendTag(b, fieldSeverity, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(e.Severity))
	}
	if e.Status != 0 {
		b = protowire.AppendTag(b, fieldStatus, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(e.Status))
	}
	if e.RepeatCount != 0 {
		b = protowire.AppendTag(b, fieldRepeatCount, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(e.RepeatCount))
	}
	for _, fv := range e.Fields {
		b = appendFieldValue(b, fv)
	}
	if e.ActualChange {
		b = protowire.AppendTag(b, fieldActualChange, protowire.VarintType)
		b = protowire.AppendVarint(b, 1)
	}
	return b, nil
}

func (e *Event) appendVal(b []byte) []byte {
	switch e.Type.Elem() {
	case ElemString:
		if !e.Type.Vector() {
			var s string
			if len(e.Str) > 0 {
				s = e.Str[0]
			}
			b = protowire.AppendTag(b, fieldVal, protowire.BytesType)
			return protowire.AppendString(b, s)
		}
		for _, s := range e.Str {
			b = protowire.AppendTag(b, fieldVal, protowire.BytesType)
			b = protowire.AppendString(b, s)
		}
		return b

	case ElemBytes:
		b = protowire.AppendTag(b, fieldVal, protowire.BytesType)
		return protowire.AppendBytes(b, e.Bin)

	case ElemShort:
		if !e.Type.Vector() {
			var v int16
			if len(e.I16) > 0 {
				v = e.I16[0]
			}
			b = protowire.AppendTag(b, fieldVal, protowire.VarintType)
			return protowire.AppendVarint(b, protowire.EncodeZigZag(int64(v)))
		}
		for _, v := range e.I16 {
			b = protowire.AppendTag(b, fieldVal, protowire.VarintType)
			b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(v)))
		}
		return b

	case ElemInt:
		if !e.Type.Vector() {
			var v int32
			if len(e.I32) > 0 {
				v = e.I32[0]
			}
			b = protowire.AppendTag(b, fieldVal, protowire.VarintType)
			return protowire.AppendVarint(b, protowire.EncodeZigZag(int64(v)))
		}
		for _, v := range e.I32 {
			b = protowire.AppendTag(b, fieldVal, protowire.VarintType)
			b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(v)))
		}
		return b

	case ElemFloat:
		if !e.Type.Vector() {
			var v float32
			if len(e.F32) > 0 {
				v = e.F32[0]
			}
			b = protowire.AppendTag(b, fieldVal, protowire.Fixed32Type)
			return protowire.AppendFixed32(b, math.Float32bits(v))
		}
		for _, v := range e.F32 {
			b = protowire.AppendTag(b, fieldVal, protowire.Fixed32Type)
			b = protowire.AppendFixed32(b, math.Float32bits(v))
		}
		return b

	case ElemDouble:
		if !e.Type.Vector() {
			var v float64
			if len(e.F64) > 0 {
				v = e.F64[0]
			}
			b = protowire.AppendTag(b, fieldVal, protowire.Fixed64Type)
			return protowire.AppendFixed64(b, math.Float64bits(v))
		}
		for _, v := range e.F64 {
			b = protowire.AppendTag(b, fieldVal, protowire.Fixed64Type)
			b = protowire.AppendFixed64(b, math.Float64bits(v))
		}
		return b
	}
	return b
}

func appendFieldValue(b []byte, fv FieldValue) []byte {
	inner := make([]byte, 0, 4+len(fv.Name)+len(fv.Val))
	inner = protowire.AppendTag(inner, fieldFVName, protowire.BytesType)
	inner = protowire.AppendString(inner, fv.Name)
	inner = protowire.AppendTag(inner, fieldFVVal, protowire.BytesType)
	inner = protowire.AppendString(inner, fv.Val)

	b = protowire.AppendTag(b, fieldFieldValues, protowire.BytesType)
	return protowire.AppendBytes(b, inner)
}

// Unmarshal parses wire data into e. Type must be set before the
// call; the value and annotation slices are reset first. Unknown
// fields are skipped.
func (e *Event) Unmarshal(data []byte) error {
	if !e.Type.Valid() {
		return fmt.Errorf("pbevent: cannot unmarshal unknown payload type %d", int32(e.Type))
	}
	e.reset()

	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]

		switch num {
		case fieldSecondsIntoYear, fieldNano, fieldSeverity,
			fieldStatus, fieldRepeatCount, fieldActualChange:
			if typ != protowire.VarintType {
				// wrong wire type for the schema: treat as unknown
				n := protowire.ConsumeFieldValue(num, typ, data)
				if n < 0 {
					return protowire.ParseError(n)
				}
				data = data[n:]
				continue
			}
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			data = data[n:]
			switch num {
			case fieldSecondsIntoYear:
				e.SecondsIntoYear = uint32(v)
			case fieldNano:
				e.Nano = uint32(v)
			case fieldSeverity:
				e.Severity = uint32(v)
			case fieldStatus:
				e.Status = uint32(v)
			case fieldRepeatCount:
				e.RepeatCount = uint32(v)
			case fieldActualChange:
				e.ActualChange = v != 0
			}

		case fieldVal:
			n, err := e.consumeVal(data, typ)
			if err != nil {
				return err
			}
			data = data[n:]

		case fieldFieldValues:
			if typ != protowire.BytesType {
				n := protowire.ConsumeFieldValue(num, typ, data)
				if n < 0 {
					return protowire.ParseError(n)
				}
				data = data[n:]
				continue
			}
			raw, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			data = data[n:]
			var fv FieldValue
			if err := fv.unmarshal(raw); err != nil {
				return err
			}
			e.Fields = append(e.Fields, fv)

		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return nil
}

func (e *Event) reset() {
	e.SecondsIntoYear = 0
	e.Nano = 0
	e.Severity = 0
	e.Status = 0
	e.RepeatCount = 0
	e.ActualChange = false
	e.Fields = nil
	e.Str = nil
	e.Bin = nil
	e.I16 = nil
	e.I32 = nil
	e.F32 = nil
	e.F64 = nil
}

// consumeVal decodes one occurrence of the val field. Numeric
// payloads additionally accept the packed form (a length-delimited
// run of elements), which proto2 parsers must tolerate even though
// the appliance writes unpacked.
func (e *Event) consumeVal(data []byte, typ protowire.Type) (int, error) {
	elem := e.Type.Elem()

	if typ == protowire.BytesType {
		switch elem {
		case ElemString:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			e.Str = append(e.Str, v)
			return n, nil
		case ElemBytes:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			e.Bin = append([]byte(nil), v...)
			return n, nil
		}
		// packed numeric run
		raw, n := protowire.ConsumeBytes(data)
		if n < 0 {
			return 0, protowire.ParseError(n)
		}
		for len(raw) > 0 {
			m, err := e.consumeNumeric(raw)
			if err != nil {
				return 0, err
			}
			raw = raw[m:]
		}
		return n, nil
	}

	want := protowire.VarintType
	switch elem {
	case ElemString, ElemBytes:
		return 0, fmt.Errorf("pbevent: wire type %d for %s val field", typ, e.Type)
	case ElemFloat:
		want = protowire.Fixed32Type
	case ElemDouble:
		want = protowire.Fixed64Type
	}
	if typ != want {
		return 0, fmt.Errorf("pbevent: wire type %d for %s val field", typ, e.Type)
	}
	return e.consumeNumeric(data)
}

func (e *Event) consumeNumeric(data []byte) (int, error) {
	switch e.Type.Elem() {
	case ElemShort:
		v, n := protowire.ConsumeVarint(data)
		if n < 0 {
			return 0, protowire.ParseError(n)
		}
		e.I16 = append(e.I16, int16(protowire.DecodeZigZag(v)))
		return n, nil
	case ElemInt:
		v, n := protowire.ConsumeVarint(data)
		if n < 0 {
			return 0, protowire.ParseError(n)
		}
		e.I32 = append(e.I32, int32(protowire.DecodeZigZag(v)))
		return n, nil
	case ElemFloat:
		v, n := protowire.ConsumeFixed32(data)
		if n < 0 {
			return 0, protowire.ParseError(n)
		}
		e.F32 = append(e.F32, math.Float32frombits(v))
		return n, nil
	case ElemDouble:
		v, n := protowire.ConsumeFixed64(data)
		if n < 0 {
			return 0, protowire.ParseError(n)
		}
		e.F64 = append(e.F64, math.Float64frombits(v))
		return n, nil
	}
	return 0, fmt.Errorf("pbevent: %s has no numeric elements", e.Type)
}

func (fv *FieldValue) unmarshal(data []byte) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]

		switch num {
		case fieldFVName, fieldFVVal:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			data = data[n:]
			if num == fieldFVName {
				fv.Name = v
			} else {
				fv.Val = v
			}
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return nil
}
