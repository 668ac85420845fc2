package cmd

import (
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/epicsdata/aapb/pkg/aatime"
	"github.com/epicsdata/aapb/pkg/codec"
	"github.com/epicsdata/aapb/pkg/pbevent"
	"github.com/epicsdata/aapb/pkg/stream"
)

var (
	genType     string
	genCount    int
	genStart    string
	genInterval time.Duration
	genElems    int
	genGapEvery int
	genOut      string
)

// genCmd represents the gen command
var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a stream of synthetic samples",
	Long: `Generate a frame file of synthetic samples for testing.

Example:
  aapb gen --type waveform-double --count 100 --start "-1 h"
  aapb gen --type scalar-int --gap-every 25`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		typeName := genType
		if typeName == "" {
			typeName = cfg.PayloadType
		}
		pt, ok := pbevent.ParsePayloadType(typeName)
		if !ok {
			return fmt.Errorf("unknown payload type %q (see 'aapb types')", typeName)
		}

		spec, err := aatime.Parse(genStart, time.Now())
		if err != nil {
			return fmt.Errorf("bad --start: %w", err)
		}
		start := spec.Resolve(time.Now())

		out := genOut
		if out == "" {
			out = filepath.Join(cfg.OutputDir, fmt.Sprintf("%s-%s.aapb", pt, ksuid.New()))
		}

		w, err := stream.NewWriter(stream.WriterConfig{
			FilePath:      out,
			FsyncInterval: cfg.Stream.FsyncInterval,
			BufferSize:    cfg.Stream.BufferSize,
		})
		if err != nil {
			return err
		}
		defer w.Close()

		logger.Info("generating samples",
			zap.Stringer("type", pt),
			zap.Int("count", genCount),
			zap.Time("start", start),
			zap.String("file", out))

		for i := 0; i < genCount; i++ {
			ts := start.Add(time.Duration(i) * genInterval)
			_, sec, nano := aatime.SplitYear(ts)

			// Simulate a connection loss just before every Nth sample.
			var cnxLost string
			if genGapEvery > 0 && i > 0 && i%genGapEvery == 0 {
				lost := ts.Add(-genInterval / 2)
				cnxLost = fmt.Sprintf("%d", lost.Unix())
			}

			wire, err := codec.Encode(pt, sampleValue(pt, i, genElems),
				codec.Meta{Sec: sec, Nano: nano}, cnxLost)
			if err != nil {
				return fmt.Errorf("sample %d: %w", i, err)
			}
			if _, err := w.Append(wire); err != nil {
				return fmt.Errorf("sample %d: %w", i, err)
			}
		}

		if err := w.Sync(); err != nil {
			return err
		}
		logger.Info("stream written", zap.String("file", out), zap.Int("samples", genCount))
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

// sampleValue synthesizes the i-th sample value for a payload type.
func sampleValue(pt pbevent.PayloadType, i, elems int) any {
	vec := pt.Vector()
	switch pt.Elem() {
	case pbevent.ElemString:
		if vec {
			vals := make([]string, elems)
			for j := range vals {
				vals[j] = fmt.Sprintf("sample-%d-%d", i, j)
			}
			return vals
		}
		return fmt.Sprintf("sample-%d", i)

	case pbevent.ElemBytes:
		blob := make([]byte, elems)
		for j := range blob {
			blob[j] = byte(i + j)
		}
		return blob

	case pbevent.ElemShort:
		if vec {
			vals := make([]int16, elems)
			for j := range vals {
				vals[j] = int16(i + j)
			}
			return vals
		}
		return int16(i)

	case pbevent.ElemInt:
		if vec {
			vals := make([]int32, elems)
			for j := range vals {
				vals[j] = int32(i * (j + 1))
			}
			return vals
		}
		return int32(i)

	case pbevent.ElemFloat:
		if vec {
			vals := make([]float32, elems)
			for j := range vals {
				vals[j] = float32(math.Sin(float64(i+j) / 10))
			}
			return vals
		}
		return float32(math.Sin(float64(i) / 10))

	default: // ElemDouble
		if vec {
			vals := make([]float64, elems)
			for j := range vals {
				vals[j] = math.Cos(float64(i+j) / 10)
			}
			return vals
		}
		return math.Cos(float64(i) / 10)
	}
}

func init() {
	rootCmd.AddCommand(genCmd)
	genCmd.Flags().StringVarP(&genType, "type", "t", "", "Payload type (default from config)")
	genCmd.Flags().IntVarP(&genCount, "count", "n", 10, "Number of samples")
	genCmd.Flags().StringVar(&genStart, "start", "now", "Timestamp of the first sample")
	genCmd.Flags().DurationVar(&genInterval, "interval", time.Second, "Spacing between samples")
	genCmd.Flags().IntVar(&genElems, "elems", 8, "Element count for vector types")
	genCmd.Flags().IntVar(&genGapEvery, "gap-every", 0, "Annotate a connection loss every N samples (0 = never)")
	genCmd.Flags().StringVarP(&genOut, "out", "o", "", "Output file (default <output-dir>/<type>-<id>.aapb)")
}
