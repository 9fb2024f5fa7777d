package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRun(t *testing.T) {
	before := testutil.ToFloat64(OptimiseRuns.WithLabelValues("api", "ok"))

	ObserveRun("api", "ok", 0.25)

	after := testutil.ToFloat64(OptimiseRuns.WithLabelValues("api", "ok"))
	assert.Equal(t, before+1, after)
}

func TestQueueJobsCounter(t *testing.T) {
	before := testutil.ToFloat64(QueueJobs.WithLabelValues("completed"))

	QueueJobs.WithLabelValues("completed").Inc()

	after := testutil.ToFloat64(QueueJobs.WithLabelValues("completed"))
	assert.Equal(t, before+1, after)
}
