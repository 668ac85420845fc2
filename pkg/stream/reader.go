package stream

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Reader provides sequential access to the frames of a file.
type Reader struct {
	file     *os.File
	reader   *bufio.Reader
	offset   int64
	maxFrame int
	config   ReaderConfig
}

// NewReader opens the configured file for reading.
func NewReader(config ReaderConfig) (*Reader, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, err
	}

	if config.StartOffset > 0 {
		if _, err := file.Seek(config.StartOffset, io.SeekStart); err != nil {
			file.Close()
			return nil, err
		}
	}

	maxFrame := config.MaxFrameSize
	if maxFrame <= 0 {
		maxFrame = DefaultMaxFrameSize
	}

	return &Reader{
		file:     file,
		reader:   bufio.NewReader(file),
		offset:   config.StartOffset,
		maxFrame: maxFrame,
		config:   config,
	}, nil
}

// ReadNext returns the payload of the next frame. io.EOF signals a
// clean end of file; a frame cut off mid-way is ErrCorruption.
func (r *Reader) ReadNext() ([]byte, error) {
	size, hdrLen, err := r.readUvarint()
	if err != nil {
		if err == io.EOF && hdrLen == 0 {
			return nil, io.EOF
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: truncated length prefix", ErrCorruption)
		}
		return nil, err
	}
	r.offset += int64(hdrLen)

	if size > uint64(r.maxFrame) {
		return nil, fmt.Errorf("%w: frame of %d bytes exceeds limit %d", ErrCorruption, size, r.maxFrame)
	}

	frame := make([]byte, size)
	n, err := io.ReadFull(r.reader, frame)
	r.offset += int64(n)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: truncated frame body", ErrCorruption)
		}
		return nil, err
	}

	return frame, nil
}

// readUvarint decodes a length prefix byte by byte so the consumed
// size is known exactly.
func (r *Reader) readUvarint() (uint64, int, error) {
	var x uint64
	var shift uint
	for i := 0; ; i++ {
		b, err := r.reader.ReadByte()
		if err != nil {
			return 0, i, err
		}
		if shift >= 64 || (shift == 63 && b > 1) {
			return 0, i + 1, fmt.Errorf("%w: length prefix overflow", ErrCorruption)
		}
		if b < 0x80 {
			return x | uint64(b)<<shift, i + 1, nil
		}
		x |= uint64(b&0x7f) << shift
		shift += 7
	}
}

// Seek repositions the reader at an absolute byte offset, which must
// be a frame boundary.
func (r *Reader) Seek(offset int64) error {
	if _, err := r.file.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	r.reader.Reset(r.file)
	r.offset = offset
	return nil
}

// Offset returns the byte offset of the next frame.
func (r *Reader) Offset() int64 {
	return r.offset
}

// Iterator returns a streaming iterator over the remaining frames.
func (r *Reader) Iterator() FrameIterator {
	return &frameIterator{reader: r}
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}

type frameIterator struct {
	reader *Reader
	frame  []byte
	err    error
}

func (it *frameIterator) Next() bool {
	it.frame, it.err = it.reader.ReadNext()
	return it.err == nil
}

func (it *frameIterator) Frame() []byte {
	return it.frame
}

func (it *frameIterator) Err() error {
	if it.err == io.EOF {
		return nil
	}
	return it.err
}
