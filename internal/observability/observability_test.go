package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{ServiceName: "board-test"})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestStartSpan(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "PostService", "GetPost")
	require.NotNil(t, ctx)
	EndSpan(span, errors.New("boom"))
	EndSpan(span, nil)
}

func TestMailDeliveriesCounter(t *testing.T) {
	before := testutil.ToFloat64(MailDeliveries.WithLabelValues("test", ResultFailed))
	MailDeliveries.WithLabelValues("test", ResultFailed).Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(MailDeliveries.WithLabelValues("test", ResultFailed)))
}
