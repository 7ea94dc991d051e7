package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordLoadAttempt(t *testing.T) {
	before := testutil.ToFloat64(loaderAttempts.WithLabelValues("dashboard", "error"))

	RecordLoadAttempt("dashboard", errors.New("boom"), 10*time.Millisecond)
	RecordLoadAttempt("dashboard", nil, 10*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(loaderAttempts.WithLabelValues("dashboard", "error")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(loaderAttempts.WithLabelValues("dashboard", "ok")), 1.0)
}

func TestRecordQuickAction(t *testing.T) {
	before := testutil.ToFloat64(quickActions.WithLabelValues("start", "sleep", "ok"))
	RecordQuickAction("start", "sleep", nil)
	assert.Equal(t, before+1, testutil.ToFloat64(quickActions.WithLabelValues("start", "sleep", "ok")))
}
