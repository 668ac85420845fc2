package pbevent

import (
	"bytes"
	"reflect"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"
)

func roundTrip(t *testing.T, ev *Event) *Event {
	t.Helper()

	wire, err := ev.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	out := &Event{Type: ev.Type}
	if err := out.Unmarshal(wire); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	return out
}

func TestEvent_RoundTripScalars(t *testing.T) {
	testCases := []struct {
		name string
		ev   Event
	}{
		{"string", Event{Type: ScalarString, SecondsIntoYear: 3600, Nano: 12, Str: []string{"OUT OF RANGE"}}},
		{"short", Event{Type: ScalarShort, SecondsIntoYear: 1, Nano: 2, I16: []int16{-42}}},
		{"enum", Event{Type: ScalarEnum, SecondsIntoYear: 1, Severity: 3, Status: 9, I16: []int16{7}}},
		{"int", Event{Type: ScalarInt, SecondsIntoYear: 9, I32: []int32{-123456}}},
		{"float", Event{Type: ScalarFloat, Nano: 999999999, F32: []float32{-0.5}}},
		{"double", Event{Type: ScalarDouble, SecondsIntoYear: 3133404, Nano: 887015782, F64: []float64{0.03}}},
		{"byte", Event{Type: ScalarByte, Bin: []byte{0x00, 0xFF, 0x10}}},
		{"byte waveform blob", Event{Type: WaveformByte, Bin: bytes.Repeat([]byte{0xAB}, 100)}},
		{"generic bytes", Event{Type: V4GenericBytes, Bin: []byte("opaque pvAccess payload")}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := roundTrip(t, &tc.ev)
			if !reflect.DeepEqual(got, &tc.ev) {
				t.Errorf("round-trip mismatch:\n got %+v\nwant %+v", got, &tc.ev)
			}
		})
	}
}

func TestEvent_RoundTripVectors(t *testing.T) {
	testCases := []struct {
		name string
		ev   Event
	}{
		{"empty shorts", Event{Type: WaveformShort, SecondsIntoYear: 5}},
		{"one short", Event{Type: WaveformShort, I16: []int16{-1}}},
		{"shorts", Event{Type: WaveformShort, I16: []int16{1, -2, 3}}},
		{"enums", Event{Type: WaveformEnum, I16: []int16{0, 1, 2, 1}}},
		{"ints", Event{Type: WaveformInt, I32: []int32{-1 << 30, 0, 1 << 30}}},
		{"floats", Event{Type: WaveformFloat, F32: []float32{1.5, -2.25}}},
		{"doubles", Event{Type: WaveformDouble, F64: []float64{0.1, 0.2, 0.3, 0.4, 0.5}}},
		{"strings", Event{Type: WaveformString, Str: []string{"a", "", "longer entry"}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := roundTrip(t, &tc.ev)
			if got.ElementCount() != tc.ev.ElementCount() {
				t.Errorf("element count: got %d, want %d", got.ElementCount(), tc.ev.ElementCount())
			}
			if !reflect.DeepEqual(got, &tc.ev) {
				t.Errorf("round-trip mismatch:\n got %+v\nwant %+v", got, &tc.ev)
			}
		})
	}
}

func TestEvent_ZeroSeverityOmitted(t *testing.T) {
	ev := Event{Type: ScalarDouble, SecondsIntoYear: 10, F64: []float64{1}}
	withZero, err := ev.Marshal()
	if err != nil {
		t.Fatal(err)
	}

	ev.Severity = 3
	ev.Status = 9
	withAlarm, err := ev.Marshal()
	if err != nil {
		t.Fatal(err)
	}

	// severity=4 and status=5 tags appear only when non-zero
	if len(withAlarm) != len(withZero)+4 {
		t.Errorf("alarm fields not encoded as expected: %d vs %d bytes",
			len(withAlarm), len(withZero))
	}
}

func TestEvent_FieldValues(t *testing.T) {
	ev := Event{
		Type:            ScalarDouble,
		SecondsIntoYear: 100,
		F64:             []float64{2.5},
		Fields: []FieldValue{
			{Name: "EGU", Val: "mR/h"},
			{Name: "cnxlostepsecs", Val: "1423250956"},
		},
	}

	got := roundTrip(t, &ev)
	if !reflect.DeepEqual(got.Fields, ev.Fields) {
		t.Errorf("fieldvalues mismatch: got %+v, want %+v", got.Fields, ev.Fields)
	}
}

func TestEvent_PackedNumericAccepted(t *testing.T) {
	// Build a packed repeated sint32 val field by hand; the appliance
	// writes unpacked but parsers must accept both.
	var packed []byte
	for _, v := range []int32{4, -5, 6} {
		packed = protowire.AppendVarint(packed, protowire.EncodeZigZag(int64(v)))
	}

	var wire []byte
	wire = protowire.AppendTag(wire, fieldSecondsIntoYear, protowire.VarintType)
	wire = protowire.AppendVarint(wire, 77)
	wire = protowire.AppendTag(wire, fieldNano, protowire.VarintType)
	wire = protowire.AppendVarint(wire, 0)
	wire = protowire.AppendTag(wire, fieldVal, protowire.BytesType)
	wire = protowire.AppendBytes(wire, packed)

	ev := Event{Type: WaveformInt}
	if err := ev.Unmarshal(wire); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(ev.I32, []int32{4, -5, 6}) {
		t.Errorf("packed decode mismatch: %v", ev.I32)
	}
}

func TestEvent_UnknownFieldSkipped(t *testing.T) {
	ev := Event{Type: ScalarInt, SecondsIntoYear: 3, I32: []int32{17}}
	wire, err := ev.Marshal()
	if err != nil {
		t.Fatal(err)
	}

	// Append a field number outside the schema.
	wire = protowire.AppendTag(wire, 99, protowire.BytesType)
	wire = protowire.AppendBytes(wire, []byte("future extension"))

	got := Event{Type: ScalarInt}
	if err := got.Unmarshal(wire); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if got.SecondsIntoYear != 3 || len(got.I32) != 1 || got.I32[0] != 17 {
		t.Errorf("unexpected decode result: %+v", got)
	}
}

func TestEvent_MalformedWire(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{"truncated tag", []byte{0x80}},
		{"truncated varint", []byte{0x08, 0x80}},
		{"truncated bytes", []byte{0x1a, 0x05, 0x01}},
		{"group wire type", []byte{0x0b}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ev := Event{Type: ScalarString}
			if err := ev.Unmarshal(tc.data); err == nil {
				t.Errorf("expected error for %x", tc.data)
			}
		})
	}
}

func TestEvent_UnknownPayload(t *testing.T) {
	ev := Event{Type: PayloadType(42)}
	if _, err := ev.Marshal(); err == nil {
		t.Error("Marshal accepted unknown payload type")
	}
	if err := ev.Unmarshal([]byte{0x08, 0x01}); err == nil {
		t.Error("Unmarshal accepted unknown payload type")
	}
}
