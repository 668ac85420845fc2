package stream

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestWriter(t *testing.T) (*Writer, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "samples.aapb")
	w, err := NewWriter(WriterConfig{FilePath: path})
	require.NoError(t, err)
	return w, path
}

func TestWriterReader_RoundTrip(t *testing.T) {
	w, path := newTestWriter(t)

	frames := [][]byte{
		[]byte("first"),
		{},
		[]byte("a longer third frame with some bytes in it"),
	}
	var offsets []int64
	for _, f := range frames {
		off, err := w.Append(f)
		require.NoError(t, err)
		offsets = append(offsets, off)
	}
	require.NoError(t, w.Close())

	r, err := NewReader(ReaderConfig{FilePath: path})
	require.NoError(t, err)
	defer r.Close()

	for i, want := range frames {
		require.Equal(t, offsets[i], r.Offset(), "frame %d offset", i)
		got, err := r.ReadNext()
		require.NoError(t, err)
		require.Equal(t, want, append([]byte{}, got...), "frame %d", i)
	}

	_, err = r.ReadNext()
	require.Equal(t, io.EOF, err)
}

func TestWriter_AppendToExisting(t *testing.T) {
	w, path := newTestWriter(t)
	_, err := w.Append([]byte("one"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	w2, err := NewWriter(WriterConfig{FilePath: path})
	require.NoError(t, err)
	_, err = w2.Append([]byte("two"))
	require.NoError(t, err)
	require.NoError(t, w2.Close())

	r, err := NewReader(ReaderConfig{FilePath: path})
	require.NoError(t, err)
	defer r.Close()

	var got []string
	it := r.Iterator()
	for it.Next() {
		got = append(got, string(it.Frame()))
	}
	require.NoError(t, it.Err())
	require.Equal(t, []string{"one", "two"}, got)
}

func TestReader_SeekToOffset(t *testing.T) {
	w, path := newTestWriter(t)
	_, err := w.Append([]byte("skip me"))
	require.NoError(t, err)
	second, err := w.Append([]byte("start here"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := NewReader(ReaderConfig{FilePath: path, StartOffset: second})
	require.NoError(t, err)
	defer r.Close()

	frame, err := r.ReadNext()
	require.NoError(t, err)
	require.Equal(t, "start here", string(frame))

	// rewind to the beginning
	require.NoError(t, r.Seek(0))
	frame, err = r.ReadNext()
	require.NoError(t, err)
	require.Equal(t, "skip me", string(frame))
}

func TestReader_TruncatedBody(t *testing.T) {
	w, path := newTestWriter(t)
	_, err := w.Append([]byte("this frame will be cut short"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.NoError(t, os.Truncate(path, info.Size()-5))

	r, err := NewReader(ReaderConfig{FilePath: path})
	require.NoError(t, err)
	defer r.Close()

	_, err = r.ReadNext()
	require.ErrorIs(t, err, ErrCorruption)
}

func TestReader_FrameTooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.aapb")
	// prefix claims a 1 GiB frame
	require.NoError(t, os.WriteFile(path, []byte{0x80, 0x80, 0x80, 0x80, 0x04}, 0600))

	r, err := NewReader(ReaderConfig{FilePath: path, MaxFrameSize: 1 << 20})
	require.NoError(t, err)
	defer r.Close()

	_, err = r.ReadNext()
	require.ErrorIs(t, err, ErrCorruption)
}

func TestReader_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.aapb")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	r, err := NewReader(ReaderConfig{FilePath: path})
	require.NoError(t, err)
	defer r.Close()

	_, err = r.ReadNext()
	require.Equal(t, io.EOF, err)

	it := r.Iterator()
	require.False(t, it.Next())
	require.NoError(t, it.Err())
}

func TestIterator_StopsOnCorruption(t *testing.T) {
	w, path := newTestWriter(t)
	_, err := w.Append([]byte("good"))
	require.NoError(t, err)
	_, err = w.Append([]byte("bad tail"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.NoError(t, os.Truncate(path, info.Size()-3))

	r, err := NewReader(ReaderConfig{FilePath: path})
	require.NoError(t, err)
	defer r.Close()

	it := r.Iterator()
	require.True(t, it.Next())
	require.Equal(t, "good", string(it.Frame()))
	require.False(t, it.Next())
	require.True(t, errors.Is(it.Err(), ErrCorruption))
}
