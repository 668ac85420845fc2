package cmd

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/epicsdata/aapb/pkg/aatime"
	"github.com/epicsdata/aapb/pkg/codec"
	"github.com/epicsdata/aapb/pkg/pbevent"
	"github.com/epicsdata/aapb/pkg/stream"
)

var (
	dumpType   string
	dumpYear   int
	dumpLimit  int
	dumpPacked string
)

// dumpCmd represents the dump command
var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Decode a sample stream",
	Long: `Decode a frame file and print one line per sample, including
synthesized disconnect samples. With --packed the fixed-stride
metadata and value buffers are written to files instead.

Example:
  aapb dump --type scalar-double --year 2015 samples.aapb`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		typeName := dumpType
		if typeName == "" {
			typeName = cfg.PayloadType
		}
		pt, ok := pbevent.ParsePayloadType(typeName)
		if !ok {
			return fmt.Errorf("unknown payload type %q (see 'aapb types')", typeName)
		}

		year := dumpYear
		if year == 0 {
			year = cfg.Year
		}

		d, err := codec.NewDecoder(pt, aatime.YearEpoch(year))
		if err != nil {
			return err
		}

		r, err := stream.NewReader(stream.ReaderConfig{
			FilePath:     args[0],
			MaxFrameSize: cfg.Stream.MaxFrameSize,
		})
		if err != nil {
			return err
		}
		defer r.Close()

		frames := 0
		it := r.Iterator()
		for it.Next() {
			if _, err := d.Process(it.Frame()); err != nil {
				return fmt.Errorf("frame at offset %d: %w", r.Offset(), err)
			}
			frames++
			if dumpLimit > 0 && frames >= dumpLimit {
				break
			}
		}
		if err := it.Err(); err != nil {
			return err
		}
		logger.Debug("stream decoded",
			zap.Int("frames", frames),
			zap.Int("samples", d.NSamples()),
			zap.Int("stride", d.Stride()))

		meta := make([]codec.Meta, d.NSamples())
		vals := make([]byte, d.NSamples()*d.Stride())
		stride := d.Stride()
		maxElems := d.MaxElems()
		if err := d.CopyOut(meta, vals); err != nil {
			return err
		}

		if dumpPacked != "" {
			return writePacked(dumpPacked, meta, vals)
		}

		for i, m := range meta {
			ts := aatime.Join(m.Sec, m.Nano)
			fmt.Fprintf(cmd.OutOrStdout(), "%s sevr=%d stat=%d %s\n",
				aatime.ISOString(ts), m.Severity, m.Status,
				formatPacked(pt, vals[i*stride:(i+1)*stride], maxElems))
		}
		return nil
	},
}

// writePacked dumps the raw fixed-stride buffers: <base>.meta holds
// four little-endian uint32 per sample, <base>.vals the value bytes.
func writePacked(base string, meta []codec.Meta, vals []byte) error {
	var mbuf bytes.Buffer
	for _, m := range meta {
		for _, v := range [4]uint32{m.Sec, m.Nano, m.Severity, m.Status} {
			var b [4]byte
			binary.LittleEndian.PutUint32(b[:], v)
			mbuf.Write(b[:])
		}
	}
	if err := os.WriteFile(base+".meta", mbuf.Bytes(), 0600); err != nil {
		return err
	}
	return os.WriteFile(base+".vals", vals, 0600)
}

// formatPacked renders one sample's packed cell for display. Vector
// values are elided after the first few elements.
func formatPacked(pt pbevent.PayloadType, cell []byte, maxElems int) string {
	const previewElems = 4

	if !pt.Vector() {
		return formatElem(pt.Elem(), cell)
	}

	n := maxElems
	elided := false
	if n > previewElems {
		n = previewElems
		elided = true
	}

	size := pt.Elem().Size()
	parts := make([]string, 0, n+1)
	for j := 0; j < n; j++ {
		parts = append(parts, formatElem(pt.Elem(), cell[j*size:(j+1)*size]))
	}
	if elided {
		parts = append(parts, "...")
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func formatElem(e pbevent.Elem, b []byte) string {
	switch e {
	case pbevent.ElemString:
		return fmt.Sprintf("%q", strings.TrimRight(string(b), "\x00"))
	case pbevent.ElemBytes:
		return fmt.Sprintf("%x", bytes.TrimRight(b, "\x00"))
	case pbevent.ElemShort:
		return fmt.Sprintf("%d", int16(binary.LittleEndian.Uint16(b)))
	case pbevent.ElemInt:
		return fmt.Sprintf("%d", int32(binary.LittleEndian.Uint32(b)))
	case pbevent.ElemFloat:
		return fmt.Sprintf("%g", math.Float32frombits(binary.LittleEndian.Uint32(b)))
	default:
		return fmt.Sprintf("%g", math.Float64frombits(binary.LittleEndian.Uint64(b)))
	}
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().StringVarP(&dumpType, "type", "t", "", "Payload type (default from config)")
	dumpCmd.Flags().IntVarP(&dumpYear, "year", "y", 0, "Archive year of the stream (default from config)")
	dumpCmd.Flags().IntVar(&dumpLimit, "limit", 0, "Stop after this many frames (0 = all)")
	dumpCmd.Flags().StringVar(&dumpPacked, "packed", "", "Write packed buffers to <base>.meta and <base>.vals instead of printing")
}
