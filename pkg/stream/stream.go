// Package stream reads and writes append-only files of
// length-prefixed frames. Each frame is a uvarint byte count followed
// by that many bytes, normally one marshalled sample event. This is
// the on-disk convention of the aapb tools, not an appliance wire
// format.
package stream

import (
	"errors"
	"time"
)

// ErrCorruption is returned when a frame cannot be read to completion
// or exceeds the configured size limit.
var ErrCorruption = errors.New("stream: corrupt frame")

// DefaultMaxFrameSize bounds a single frame; anything larger is
// treated as corruption.
const DefaultMaxFrameSize = 16 << 20

// WriterConfig configures a frame Writer.
type WriterConfig struct {
	// FilePath is the file to append to. Parent directories are
	// created as needed.
	FilePath string

	// FsyncInterval batches fsyncs. Zero syncs after every append.
	FsyncInterval time.Duration

	// BufferSize is the write buffer size in bytes.
	BufferSize int
}

// ReaderConfig configures a frame Reader.
type ReaderConfig struct {
	// FilePath is the file to read.
	FilePath string

	// StartOffset is the byte offset of the first frame to read.
	StartOffset int64

	// MaxFrameSize caps a single frame's payload. Zero means
	// DefaultMaxFrameSize.
	MaxFrameSize int
}

// FrameIterator streams frames until EOF or error.
type FrameIterator interface {
	// Next advances to the next frame, reporting whether one is
	// available.
	Next() bool

	// Frame returns the current frame's payload. Valid until the next
	// call to Next.
	Frame() []byte

	// Err returns the error that stopped iteration, nil on clean EOF.
	Err() error
}
