// Package codec converts archiver samples between their protobuf
// wire form and flat, fixed-stride buffers suitable for bulk
// consumption (eg. building numeric arrays without per-sample
// allocation).
//
// # Encoding
//
// Encode builds one serialized event from a value, time/alarm
// metadata and an optional connection-loss annotation:
//
//	wire, err := codec.Encode(pbevent.ScalarDouble, 0.03,
//	    codec.Meta{Sec: 3133404, Nano: 887015782}, "")
//
// Severity and status are written only when non-zero. Encode is
// stateless and safe for concurrent use.
//
// # Decoding
//
// A Decoder is bound at construction to one payload type and a year
// epoch (the POSIX second of Jan 1 of the archive year). Each
// Process call parses one serialized event and appends it to the
// accumulated batch, tracking the maximum element count seen:
//
//	d, err := codec.NewDecoder(pbevent.WaveformInt, yearEpoch)
//	for _, rec := range records {
//	    if _, err := d.Process(rec); err != nil { ... }
//	}
//	meta := make([]codec.Meta, d.NSamples())
//	vals := make([]byte, d.NSamples()*d.Stride())
//	d.CopyOut(meta, vals)
//
// When an event carries a cnxlostepsecs annotation, the archiver had
// lost its connection to the source before that event was recorded.
// The Decoder synthesizes a placeholder sample with severity 3904
// immediately before the annotated event so that consumers can see
// where samples may be missing.
//
// # Packed layout
//
// CopyOut writes each sample's metadata as four little-endian uint32
// words (absolute seconds, nanoseconds, severity, status) and its
// value into a window of Stride() bytes at sampleIndex*Stride().
// Numeric elements are written tightly packed at the front of the
// window; string and byte values occupy fixed 40-byte cells with
// silent truncation. Bytes of the window beyond a sample's own
// elements are left untouched, so callers wanting defined values
// there must zero the buffer first. The 40-byte cell and stride
// conventions are a compatibility contract with existing consumers
// of this layout.
//
// CopyOut clears the batch but keeps the accumulated maximum element
// width: the stride never shrinks for the lifetime of a Decoder.
// Callers needing a fresh width baseline construct a new Decoder.
//
// Decoder instances are not safe for concurrent use; use one
// Decoder per goroutine. Independent Decoders share no state.
package codec
