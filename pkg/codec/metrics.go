package codec

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Codec metrics, registered on the default registry.
var (
	samplesDecoded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aapb_codec_samples_decoded_total",
			Help: "Total number of samples decoded from wire form",
		},
		[]string{"payload_type"},
	)

	samplesEncoded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aapb_codec_samples_encoded_total",
			Help: "Total number of samples encoded to wire form",
		},
		[]string{"payload_type"},
	)

	gapsSynthesized = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aapb_codec_gaps_synthesized_total",
			Help: "Total number of synthetic disconnect gap samples inserted",
		},
	)

	decodeErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aapb_codec_decode_errors_total",
			Help: "Total number of events that failed to decode",
		},
	)

	encodeErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aapb_codec_encode_errors_total",
			Help: "Total number of samples that failed to encode",
		},
	)
)
