package codec

// Meta is the time and alarm metadata of one sample, matching the
// four-word dbr_time layout of the packed output.
type Meta struct {
	Sec      uint32 // absolute POSIX seconds (year epoch applied)
	Nano     uint32
	Severity uint32
	Status   uint32
}

// SeverityDisconnect is the sentinel alarm severity carried by
// synthesized gap samples: events may have been missed between the
// previous sample and the one that reported the connection loss.
const SeverityDisconnect = 3904

// cnxLostKey is the annotation the archiver attaches to the first
// event after a reconnect. Its value is the POSIX second at which
// the connection was lost, as a decimal string.
const cnxLostKey = "cnxlostepsecs"

// Errors
var (
	ErrUnknownPayload = &CodecError{"unknown payload type"}
	ErrEncode         = &CodecError{"event encode failed"}
	ErrDecode         = &CodecError{"event decode failed"}
)

// CodecError represents a codec failure class. Errors returned by
// this package wrap one of the sentinel values above and match it
// under errors.Is.
type CodecError struct {
	Message string
}

func (e *CodecError) Error() string {
	return e.Message
}
