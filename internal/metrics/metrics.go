// Package metrics exposes Prometheus collectors for document processing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/joseph-ayodele/docclassify/constants"
)

// Recorder counts processed documents by type and how many fields were found.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	processed *prometheus.CounterVec
	fields    *prometheus.HistogramVec
	failures  *prometheus.CounterVec
}

func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		processed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "documents_processed_total",
				Help: "Total number of documents classified and persisted.",
			},
			[]string{"document_type"},
		),
		fields: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "document_fields_extracted",
				Help:    "Number of key fields extracted per document.",
				Buckets: []float64{0, 1, 2, 3, 4, 5},
			},
			[]string{"document_type"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "document_processing_failures_total",
				Help: "Documents that could not be processed, by stage.",
			},
			[]string{"stage"},
		),
	}
	for _, c := range []prometheus.Collector{r.processed, r.fields, r.failures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Recorder) Processed(t constants.DocumentType, fieldCount int) {
	if r == nil {
		return
	}
	r.processed.WithLabelValues(string(t)).Inc()
	r.fields.WithLabelValues(string(t)).Observe(float64(fieldCount))
}

// Failed counts a failure in stage ("ocr", "validate", "save").
func (r *Recorder) Failed(stage string) {
	if r == nil {
		return
	}
	r.failures.WithLabelValues(stage).Inc()
}
