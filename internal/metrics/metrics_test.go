package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docclassify/constants"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewRecorder(reg)
	require.NoError(t, err)

	r.Processed(constants.W2, 3)
	r.Processed(constants.W2, 2)
	r.Processed(constants.Other, 0)
	r.Failed("ocr")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.processed.WithLabelValues("W2")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.processed.WithLabelValues("Other")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.failures.WithLabelValues("ocr")))

	_, err = NewRecorder(reg)
	assert.Error(t, err, "collectors register once per registry")
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.Processed(constants.Passport, 3)
		r.Failed("save")
	})
}
