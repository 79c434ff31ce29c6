package metrics

import (
	"io"

	vm "github.com/VictoriaMetrics/metrics"
)

var set = vm.NewSet()

// Node tree codec counters
var (
	NodesDecoded    = set.NewCounter("csav_nodes_decoded_total")
	BlobsDecoded    = set.NewCounter("csav_blobs_decoded_total")
	NodesEncoded    = set.NewCounter("csav_nodes_encoded_total")
	TreeDecodeFails = set.NewCounter(`csav_decode_failures_total{codec="nodetree"}`)
	BytesDecoded    = set.NewCounter("csav_tree_bytes_decoded_total")
)

// Reflective field serializer counters
var (
	ObjectsDecoded    = set.NewCounter("csav_objects_decoded_total")
	ObjectsEncoded    = set.NewCounter("csav_objects_encoded_total")
	FieldsDecoded     = set.NewCounter("csav_fields_decoded_total")
	FieldFallbacks    = set.NewCounter("csav_object_fallback_total")
	OutOfOrderFields  = set.NewCounter("csav_object_out_of_order_total")
	ObjectDecodeFails = set.NewCounter(`csav_decode_failures_total{codec="object"}`)
	ObjectEncodeFails = set.NewCounter(`csav_encode_failures_total{codec="object"}`)
)

// WritePrometheus writes all counters in Prometheus text format to w
func WritePrometheus(w io.Writer) {
	set.WritePrometheus(w)
}
